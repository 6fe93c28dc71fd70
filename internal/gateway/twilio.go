package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"museumbot/internal/domain"
)

const twilioVerifyBase = "https://verify.twilio.com/v2"

// TwilioVerify implements the verification gateway against the Twilio
// Verify REST API. Mobile numbers are Indian 10-digit numbers and get
// the +91 prefix on the wire.
type TwilioVerify struct {
	AccountSID string
	AuthToken  string
	ServiceSID string
	BaseURL    string
	Client     *http.Client
}

func (g TwilioVerify) client() *http.Client {
	if g.Client != nil {
		return g.Client
	}
	return &http.Client{Timeout: 10 * time.Second}
}

func (g TwilioVerify) base() string {
	if g.BaseURL != "" {
		return g.BaseURL
	}
	return twilioVerifyBase
}

type twilioVerification struct {
	SID    string `json:"sid"`
	Status string `json:"status"`
}

// IssueCode starts an SMS verification for the given mobile number.
func (g TwilioVerify) IssueCode(ctx context.Context, phoneNumber string) (string, error) {
	form := url.Values{}
	form.Set("To", "+91"+strings.TrimSpace(phoneNumber))
	form.Set("Channel", "sms")

	v, err := g.post(ctx, fmt.Sprintf("%s/Services/%s/Verifications", g.base(), g.ServiceSID), form)
	if err != nil {
		return "", err
	}
	return v.SID, nil
}

// CheckCode reports whether the entered code is approved. A denied
// code is not an error; only transport and API failures are.
func (g TwilioVerify) CheckCode(ctx context.Context, phoneNumber, code string) (bool, error) {
	form := url.Values{}
	form.Set("To", "+91"+strings.TrimSpace(phoneNumber))
	form.Set("Code", strings.TrimSpace(code))

	v, err := g.post(ctx, fmt.Sprintf("%s/Services/%s/VerificationCheck", g.base(), g.ServiceSID), form)
	if err != nil {
		return false, err
	}
	return v.Status == "approved", nil
}

func (g TwilioVerify) post(ctx context.Context, endpoint string, form url.Values) (twilioVerification, error) {
	var out twilioVerification

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return out, domain.ExternalServiceError{Service: "verification", Err: err}
	}
	req.SetBasicAuth(g.AccountSID, g.AuthToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := g.client().Do(req)
	if err != nil {
		return out, domain.ExternalServiceError{Service: "verification", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		return out, domain.ExternalServiceError{Service: "verification", Err: fmt.Errorf("status %d", resp.StatusCode)}
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return out, domain.ExternalServiceError{Service: "verification", Err: err}
	}
	if resp.StatusCode >= 400 {
		// Twilio answers 4xx for malformed/expired checks; treat as a
		// denied attempt rather than a gateway outage.
		return twilioVerification{Status: "denied"}, nil
	}
	return out, nil
}
