package utils

import (
	"strconv"
	"strings"
	"time"
)

// Sessions lists the daily visit sessions every museum runs.
var Sessions = []string{"10:30-12", "12-2", "2-4", "4-5"}

// VisitDates returns the next seven visiting days starting from now.
// Museums are closed on Sundays, so those are skipped.
func VisitDates(now time.Time) []string {
	dates := make([]string, 0, 7)
	for i := 0; len(dates) < 7; i++ {
		d := now.AddDate(0, 0, i)
		if d.Weekday() == time.Sunday {
			continue
		}
		dates = append(dates, FormatDate(d))
	}
	return dates
}

// IsValidSession reports whether s is one of the defined visit sessions.
func IsValidSession(s string) bool {
	for _, v := range Sessions {
		if v == s {
			return true
		}
	}
	return false
}

// SessionStart resolves the wall-clock start of a session on a given date.
// Session labels use a 12-hour shorthand: hours below 9 mean afternoon.
func SessionStart(date, session string) (time.Time, error) {
	day, err := ParseDate(date)
	if err != nil {
		return time.Time{}, err
	}
	start := strings.SplitN(session, "-", 2)[0]
	hh, mm := start, "0"
	if i := strings.IndexByte(start, ':'); i >= 0 {
		hh, mm = start[:i], start[i+1:]
	}
	hour, err := strconv.Atoi(hh)
	if err != nil {
		return time.Time{}, err
	}
	minute, err := strconv.Atoi(mm)
	if err != nil {
		return time.Time{}, err
	}
	if hour < 9 {
		hour += 12
	}
	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, time.Local), nil
}

// IsSessionPast reports whether the session on date has already started.
func IsSessionPast(date, session string, now time.Time) bool {
	start, err := SessionStart(date, session)
	if err != nil {
		return false
	}
	return now.After(start)
}
