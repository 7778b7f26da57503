// Package dates computes the calendar anchors used to ground relative-date
// language ("yesterday", "day before yesterday") in extraction prompts.
package dates

import (
	"fmt"
	"strings"
	"time"
)

// Layout is the ISO-8601 calendar date layout used for work dates.
const Layout = "2006-01-02"

// Anchors holds the ISO dates a prompt is grounded on.
type Anchors struct {
	Today              string
	Yesterday          string
	DayBeforeYesterday string
}

// Resolve computes the anchors for now, in now's location.
func Resolve(now time.Time) Anchors {
	return Anchors{
		Today:              now.Format(Layout),
		Yesterday:          now.AddDate(0, 0, -1).Format(Layout),
		DayBeforeYesterday: now.AddDate(0, 0, -2).Format(Layout),
	}
}

// Parse turns s into an ISO date. It accepts ISO dates, RFC 3339 timestamps
// (the date part is kept) and the relative words the prompt defines.
func Parse(s string, now time.Time) (string, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(Layout, s); err == nil {
		return t.Format(Layout), nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.Format(Layout), nil
	}
	if len(s) > len(Layout) && s[len(Layout)] == 'T' {
		if t, err := time.Parse(Layout, s[:len(Layout)]); err == nil {
			return t.Format(Layout), nil
		}
	}

	a := Resolve(now)
	switch strings.Join(strings.Fields(strings.ToLower(s)), " ") {
	case "today":
		return a.Today, nil
	case "yesterday":
		return a.Yesterday, nil
	case "day before yesterday", "the day before yesterday":
		return a.DayBeforeYesterday, nil
	}
	return "", fmt.Errorf("unrecognized date %q", s)
}
