package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"time"
)

// Translator renders outbound prompts in the session's language. It is
// strictly a presentation concern: the conversation engine matches on
// state tags and button payloads, never on translated text.
type Translator interface {
	Translate(ctx context.Context, text, langCode string) string
}

// Passthrough returns text unchanged. Used for English and in tests.
type Passthrough struct{}

func (Passthrough) Translate(ctx context.Context, text, langCode string) string { return text }

// MyMemory translates through the free MyMemory API. Failures fall
// back to the English source text; a broken translator must never
// break the booking flow.
type MyMemory struct {
	BaseURL string
	Client  *http.Client
}

func (t MyMemory) client() *http.Client {
	if t.Client != nil {
		return t.Client
	}
	return &http.Client{Timeout: 8 * time.Second}
}

func (t MyMemory) base() string {
	if t.BaseURL != "" {
		return t.BaseURL
	}
	return "https://api.mymemory.translated.net/get"
}

func (t MyMemory) Translate(ctx context.Context, text, langCode string) string {
	if langCode == "" || langCode == "en" {
		return text
	}

	q := url.Values{}
	q.Set("q", text)
	q.Set("langpair", "en|"+langCode)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.base()+"?"+q.Encode(), nil)
	if err != nil {
		return text
	}
	resp, err := t.client().Do(req)
	if err != nil {
		return text
	}
	defer resp.Body.Close()

	var payload struct {
		ResponseStatus int `json:"responseStatus"`
		ResponseData   struct {
			TranslatedText string `json:"translatedText"`
		} `json:"responseData"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return text
	}
	if payload.ResponseStatus != 200 || payload.ResponseData.TranslatedText == "" {
		return text
	}
	return payload.ResponseData.TranslatedText
}
