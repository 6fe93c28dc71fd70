package utils

import (
	"testing"
	"time"
)

func TestVisitDatesSkipsSunday(t *testing.T) {
	// 2025-01-04 is a Saturday; the next day must be skipped.
	now := time.Date(2025, 1, 4, 9, 0, 0, 0, time.Local)
	dates := VisitDates(now)
	if len(dates) != 7 {
		t.Fatalf("expected 7 dates, got %d", len(dates))
	}
	if dates[0] != "2025-01-04" {
		t.Fatalf("first date should be today, got %s", dates[0])
	}
	for _, d := range dates {
		if d == "2025-01-05" {
			t.Fatalf("sunday %s must not be offered", d)
		}
	}
	if dates[1] != "2025-01-06" {
		t.Fatalf("expected monday after skipped sunday, got %s", dates[1])
	}
}

func TestSessionStartAfternoonShorthand(t *testing.T) {
	start, err := SessionStart("2025-01-04", "2-4")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if start.Hour() != 14 {
		t.Fatalf("session 2-4 should start at 14:00, got %d", start.Hour())
	}

	start, err = SessionStart("2025-01-04", "10:30-12")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if start.Hour() != 10 || start.Minute() != 30 {
		t.Fatalf("session 10:30-12 start wrong: %v", start)
	}
}

func TestIsSessionPast(t *testing.T) {
	noon := time.Date(2025, 1, 4, 12, 0, 0, 0, time.Local)
	if !IsSessionPast("2025-01-04", "10:30-12", noon) {
		t.Fatalf("morning session should be past at noon")
	}
	if IsSessionPast("2025-01-04", "2-4", noon) {
		t.Fatalf("afternoon session should not be past at noon")
	}
	if IsSessionPast("2025-01-05", "10:30-12", noon) {
		t.Fatalf("tomorrow's session should not be past")
	}
}
