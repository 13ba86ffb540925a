// Package calendar converts between absolute timestamps and business-hour
// durations under a working-time policy. Pure and deterministic; it holds no
// state and reads no clocks.
package calendar

import (
	"errors"
	"time"
)

// ErrInvalidRange indicates an interval whose end precedes its start.
var ErrInvalidRange = errors.New("end before start")

// ElapsedBusinessHours counts the working time inside the half-open interval
// [start, end). Weekends and off-hours contribute zero. Returns ErrInvalidRange
// if end precedes start.
func ElapsedBusinessHours(start, end time.Time, p Policy) (float64, error) {
	if err := p.Validate(); err != nil {
		return 0, err
	}
	if end.Before(start) {
		return 0, ErrInvalidRange
	}

	var total time.Duration
	for day := startOfDay(start); day.Before(end); day = day.AddDate(0, 0, 1) {
		if !p.workingDay(day.Weekday()) {
			continue
		}
		s := maxTime(start, day.Add(p.WorkdayStart))
		e := minTime(end, day.Add(p.WorkdayEnd))
		if e.After(s) {
			total += e.Sub(s)
		}
	}
	return total.Hours(), nil
}

// AddBusinessHours returns the instant reached by consuming hours of working
// time from start. A start outside the working window first advances to the
// next working instant, so AddBusinessHours(start, 0, p) lands exactly there.
// Consumption may cross multiple days and skips non-working weekdays entirely.
func AddBusinessHours(start time.Time, hours float64, p Policy) (time.Time, error) {
	if err := p.Validate(); err != nil {
		return time.Time{}, err
	}
	if hours < 0 {
		return time.Time{}, ErrInvalidRange
	}

	remaining := time.Duration(hours * float64(time.Hour))
	cursor := nextWorkingInstant(start, p)

	for {
		dayEnd := startOfDay(cursor).Add(p.WorkdayEnd)
		available := dayEnd.Sub(cursor)
		if remaining <= available {
			return cursor.Add(remaining), nil
		}
		remaining -= available
		cursor = nextWorkingInstant(dayEnd, p)
	}
}

// nextWorkingInstant returns t if it falls inside a working window, otherwise
// the start of the next working window at or after t. Policy validation
// guarantees at least one working weekday, so the day walk terminates.
func nextWorkingInstant(t time.Time, p Policy) time.Time {
	for {
		day := startOfDay(t)
		if p.workingDay(day.Weekday()) {
			ws := day.Add(p.WorkdayStart)
			we := day.Add(p.WorkdayEnd)
			if t.Before(ws) {
				return ws
			}
			if t.Before(we) {
				return t
			}
		}
		t = day.AddDate(0, 0, 1)
	}
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func maxTime(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

func minTime(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}
