// Package duedate derives day counts and urgency labels from due dates.
// Nothing here talks to the network; every function is safe to call while rendering.
package duedate

import (
	"fmt"
	"strings"
	"time"
)

// Urgency windows in days. Pending payments warn earlier than loans and debts.
const (
	PendingPaymentUrgency = 3
	LoanUrgency           = 7
	DebtUrgency           = LoanUrgency
)

// StatusOverdue is the stored status value that marks an item overdue regardless of its date
const StatusOverdue = "overdue"

var layouts = []string{
	"2006-01-02",
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// ParseDueDate parses the date formats the API emits.
// Empty or unparseable input yields nil, never an error.
func ParseDueDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

// DaysUntil returns the number of calendar days from now until due, or nil without a due date.
// Both instants are reduced to their calendar date in now's location, so the result
// does not move during the day.
func DaysUntil(due *time.Time, now time.Time) *int {
	if due == nil {
		return nil
	}
	loc := now.Location()
	d := calendarDay(due.In(loc))
	if isDateOnly(*due) {
		// a bare date means that day wherever the user is
		d = time.Date(due.Year(), due.Month(), due.Day(), 0, 0, 0, 0, loc)
	}
	today := calendarDay(now)

	// go through UTC so DST transitions do not produce 23h or 25h days
	du := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
	tu := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	days := int(du.Sub(tu).Hours() / 24)
	return &days
}

// DaysUntilString combines ParseDueDate and DaysUntil
func DaysUntilString(due string, now time.Time) *int {
	return DaysUntil(ParseDueDate(due), now)
}

// Label renders a day count: "overdue by 2 days", "due today", "due tomorrow", "due in 5 days".
// A nil count renders as the empty string.
func Label(days *int) string {
	if days == nil {
		return ""
	}
	n := *days
	switch {
	case n < 0:
		return fmt.Sprintf("overdue by %d %s", -n, plural(-n))
	case n == 0:
		return "due today"
	case n == 1:
		return "due tomorrow"
	default:
		return fmt.Sprintf("due in %d days", n)
	}
}

// IsUrgent reports whether days falls inside [0, threshold]
func IsUrgent(days *int, threshold int) bool {
	return days != nil && *days >= 0 && *days <= threshold
}

// IsOverdue consults both the stored status and the date, since a cached status can
// lag behind the calendar.
func IsOverdue(status string, days *int) bool {
	if status == StatusOverdue {
		return true
	}
	return days != nil && *days < 0
}

// Info is the derived view of a due date
type Info struct {
	DaysUntil *int   `json:"days_until"`
	Label     string `json:"days_label,omitempty"`
	Urgent    bool   `json:"is_urgent"`
	Overdue   bool   `json:"is_overdue"`
}

// Describe derives every label for one item
func Describe(due *time.Time, status string, threshold int, now time.Time) Info {
	days := DaysUntil(due, now)
	return Info{
		DaysUntil: days,
		Label:     Label(days),
		Urgent:    IsUrgent(days, threshold),
		Overdue:   IsOverdue(status, days),
	}
}

func calendarDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func isDateOnly(t time.Time) bool {
	return t.Location() == time.UTC && t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0
}

func plural(n int) string {
	if n == 1 {
		return "day"
	}
	return "days"
}
