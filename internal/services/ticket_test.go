package services

import (
	"regexp"
	"strings"
	"testing"
)

func TestNewTicketNumberFormat(t *testing.T) {
	pattern := regexp.MustCompile(`^[0-9A-F]{16}$`)
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		tk := NewTicketNumber()
		if !pattern.MatchString(tk) {
			t.Fatalf("ticket %q is not 16 uppercase hex chars", tk)
		}
		if seen[tk] {
			t.Fatalf("ticket %q repeated within 100 draws", tk)
		}
		seen[tk] = true
	}
}

func TestNewTransactionIDFormat(t *testing.T) {
	txn := NewTransactionID()
	if !strings.HasPrefix(txn, "UPI") {
		t.Fatalf("transaction id %q missing UPI prefix", txn)
	}
	if len(txn) < len("UPI")+13+4 {
		t.Fatalf("transaction id %q too short", txn)
	}
}

func TestUPILinkEscapesNote(t *testing.T) {
	link := UPILink("museum@upi", "Fort Museum", 40, "Booking for Fort Museum")
	if !strings.HasPrefix(link, "upi://pay?pa=museum@upi") {
		t.Fatalf("unexpected link: %s", link)
	}
	if strings.Contains(link, " ") {
		t.Fatalf("link must not contain raw spaces: %s", link)
	}
	if !strings.Contains(link, "am=40") {
		t.Fatalf("amount missing: %s", link)
	}
}
