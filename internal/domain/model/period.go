package model

import (
	"fmt"
	"time"
)

const periodKeyLayout = "2006-01"

// Period is a calendar month in a particular location. End is the last instant of the month.
type Period struct {
	Start time.Time
	End   time.Time
}

// MonthOf returns the calendar month containing t, evaluated in loc.
func MonthOf(t time.Time, loc *time.Location) Period {
	if loc == nil {
		loc = time.UTC
	}
	local := t.In(loc)
	start := time.Date(local.Year(), local.Month(), 1, 0, 0, 0, 0, loc)
	return Period{Start: start, End: start.AddDate(0, 1, 0).Add(-time.Nanosecond)}
}

// ParsePeriod parses "YYYY-MM" key into a period in loc.
func ParsePeriod(key string, loc *time.Location) (Period, error) {
	if loc == nil {
		loc = time.UTC
	}
	t, err := time.ParseInLocation(periodKeyLayout, key, loc)
	if err != nil {
		return Period{}, fmt.Errorf("parse period %q: %w", key, err)
	}
	return MonthOf(t, loc), nil
}

// Previous returns the calendar month before p.
func (p Period) Previous() Period {
	return MonthOf(p.Start.AddDate(0, -1, 0), p.Start.Location())
}

// Contains reports whether t falls within the month boundaries, both inclusive.
func (p Period) Contains(t time.Time) bool {
	return !t.Before(p.Start) && !t.After(p.End)
}

// Key returns the "YYYY-MM" identifier used for uniqueness of payouts.
func (p Period) Key() string {
	return p.Start.Format(periodKeyLayout)
}

// Label returns human readable month name, e.g. "September 2026".
func (p Period) Label() string {
	return p.Start.Format("January 2006")
}

// DayAt returns the given day of the month at hour:00 in the period's location.
func (p Period) DayAt(day, hour int) time.Time {
	return time.Date(p.Start.Year(), p.Start.Month(), day, hour, 0, 0, 0, p.Start.Location())
}
