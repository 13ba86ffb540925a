package calendar

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidPolicy indicates a business-hours policy that cannot support
// calendar arithmetic: no working weekdays, or a non-positive daily window.
// Arithmetic over such a policy would never terminate, so it fails up front.
var ErrInvalidPolicy = errors.New("invalid business hours policy")

// Policy describes an organization's working time: the daily window as
// offsets from midnight, and the set of working weekdays.
type Policy struct {
	WorkdayStart time.Duration
	WorkdayEnd   time.Duration
	Weekdays     map[time.Weekday]bool
}

// DefaultPolicy returns the standard 09:00-17:00, Monday-Friday policy.
func DefaultPolicy() Policy {
	return Policy{
		WorkdayStart: 9 * time.Hour,
		WorkdayEnd:   17 * time.Hour,
		Weekdays: map[time.Weekday]bool{
			time.Monday: true, time.Tuesday: true, time.Wednesday: true,
			time.Thursday: true, time.Friday: true,
		},
	}
}

// Validate checks that the policy can support calendar arithmetic.
func (p Policy) Validate() error {
	if p.WorkdayStart < 0 || p.WorkdayEnd > 24*time.Hour {
		return fmt.Errorf("%w: workday window outside 00:00-24:00", ErrInvalidPolicy)
	}
	if p.WorkdayEnd <= p.WorkdayStart {
		return fmt.Errorf("%w: workday end must be after start", ErrInvalidPolicy)
	}
	working := false
	for _, ok := range p.Weekdays {
		if ok {
			working = true
			break
		}
	}
	if !working {
		return fmt.Errorf("%w: no working weekdays", ErrInvalidPolicy)
	}
	return nil
}

// workingDay reports whether d is a working weekday under the policy.
func (p Policy) workingDay(d time.Weekday) bool {
	return p.Weekdays[d]
}

// ParsePolicy builds a Policy from clock strings ("09:00", "17:00") and
// weekday names. An empty weekday list yields the default Monday-Friday set.
func ParsePolicy(start, end string, weekdays []string) (Policy, error) {
	p := DefaultPolicy()

	if start != "" {
		d, err := parseClock(start)
		if err != nil {
			return Policy{}, fmt.Errorf("%w: workday start %q", ErrInvalidPolicy, start)
		}
		p.WorkdayStart = d
	}
	if end != "" {
		d, err := parseClock(end)
		if err != nil {
			return Policy{}, fmt.Errorf("%w: workday end %q", ErrInvalidPolicy, end)
		}
		p.WorkdayEnd = d
	}

	if len(weekdays) > 0 {
		p.Weekdays = make(map[time.Weekday]bool, len(weekdays))
		for _, name := range weekdays {
			day, ok := weekdayNames[strings.ToLower(strings.TrimSpace(name))]
			if !ok {
				return Policy{}, fmt.Errorf("%w: unknown weekday %q", ErrInvalidPolicy, name)
			}
			p.Weekdays[day] = true
		}
	}

	if err := p.Validate(); err != nil {
		return Policy{}, err
	}
	return p, nil
}

var weekdayNames = map[string]time.Weekday{
	"sunday": time.Sunday, "monday": time.Monday, "tuesday": time.Tuesday,
	"wednesday": time.Wednesday, "thursday": time.Thursday,
	"friday": time.Friday, "saturday": time.Saturday,
	"sun": time.Sunday, "mon": time.Monday, "tue": time.Tuesday,
	"wed": time.Wednesday, "thu": time.Thursday, "fri": time.Friday,
	"sat": time.Saturday,
}

func parseClock(s string) (time.Duration, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, err
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, nil
}
