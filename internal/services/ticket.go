package services

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

// NewTicketNumber returns a 16-character uppercase hex ticket id from
// 8 random bytes. Uniqueness is probabilistic (birthday bound on 64
// bits); no check against existing records is performed.
func NewTicketNumber() string {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand never fails on supported platforms; fall back to
		// a time-derived id rather than panic mid-conversation.
		return strings.ToUpper(fmt.Sprintf("%016x", time.Now().UnixNano()))
	}
	return strings.ToUpper(hex.EncodeToString(buf))
}

// NewTransactionID returns a UPI transaction reference of the form
// UPI<unix-millis><4 hex chars>.
func NewTransactionID() string {
	buf := make([]byte, 2)
	_, _ = rand.Read(buf)
	return fmt.Sprintf("UPI%d%s", time.Now().UnixMilli(), strings.ToUpper(hex.EncodeToString(buf)))
}

// UPILink builds the upi:// deep link encoded into the payment QR.
func UPILink(upiID, payeeName string, amount int64, note string) string {
	esc := func(s string) string {
		return strings.ReplaceAll(strings.ReplaceAll(s, "&", "%26"), " ", "%20")
	}
	return fmt.Sprintf("upi://pay?pa=%s&pn=%s&am=%d&tn=%s", upiID, esc(payeeName), amount, esc(note))
}
