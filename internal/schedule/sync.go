// Package schedule keeps a task's date window and its business-hour duration
// consistent while the user edits either side. Which side is authoritative is
// tracked by an anchor mode; the other side is derived. All derivations flow
// through two one-directional signals so a dates-to-duration recompute can
// never feed back into the window.
package schedule

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/rmkarlsen/tempus/internal/calendar"
	"github.com/rmkarlsen/tempus/internal/domain"
)

// ErrIncompleteWindow indicates a window still missing one or more fields.
var ErrIncompleteWindow = errors.New("work window incomplete")

// StartField names an editable start-side window field.
type StartField string

const (
	FieldStartDate StartField = "start_date"
	FieldStartTime StartField = "start_time"
)

// EndField names an editable end-side window field.
type EndField string

const (
	FieldEndDate EndField = "end_date"
	FieldEndTime EndField = "end_time"
)

// signal is a one-directional update notification. sigDatesChanged flows
// window -> duration only; sigDurationChanged flows duration -> window only.
type signal int

const (
	sigDatesChanged signal = iota
	sigDurationChanged
)

// Sync holds one task draft's window state. Single-writer: distinct drafts
// get distinct Syncs and no locking.
type Sync struct {
	policy calendar.Policy
	window domain.WorkWindow
	hours  float64
	anchor domain.AnchorMode
}

// NewSync creates a Sync with an empty window. Dates are authoritative until
// the user edits the hours field.
func NewSync(policy calendar.Policy, initialHours float64) *Sync {
	return &Sync{
		policy: policy,
		hours:  round2(initialHours),
		anchor: domain.DateAnchored,
	}
}

// Window returns the current work window.
func (s *Sync) Window() domain.WorkWindow { return s.window }

// Hours returns the current allocated business hours, rounded to 2 decimals.
func (s *Sync) Hours() float64 { return s.hours }

// Anchor returns which representation is currently authoritative.
func (s *Sync) Anchor() domain.AnchorMode { return s.anchor }

// OnStartFieldChange commits a start-side field edit. In duration-anchored
// mode the end endpoint is re-derived holding hours fixed; in date-anchored
// mode only the duration is recomputed.
func (s *Sync) OnStartFieldChange(field StartField, value string) error {
	switch field {
	case FieldStartDate:
		s.window.StartDate = value
	case FieldStartTime:
		s.window.StartTime = value
	default:
		return fmt.Errorf("unknown start field %q", field)
	}

	if s.anchor == domain.DurationAnchored {
		return s.apply(sigDurationChanged)
	}
	return s.apply(sigDatesChanged)
}

// OnEndFieldChange commits an end-side field edit. Editing the end directly
// is the escape hatch that returns range control to the user: the anchor
// switches to date-anchored and the duration becomes an observed value.
func (s *Sync) OnEndFieldChange(field EndField, value string) error {
	s.anchor = domain.DateAnchored

	switch field {
	case FieldEndDate:
		s.window.EndDate = value
	case FieldEndTime:
		s.window.EndTime = value
	default:
		return fmt.Errorf("unknown end field %q", field)
	}

	return s.apply(sigDatesChanged)
}

// OnHoursChange sets the allocated duration, makes it authoritative, and
// re-derives the end endpoint.
func (s *Sync) OnHoursChange(hours float64) error {
	if hours < 0 {
		return fmt.Errorf("%w: negative duration", calendar.ErrInvalidRange)
	}
	s.hours = round2(hours)
	s.anchor = domain.DurationAnchored
	return s.apply(sigDurationChanged)
}

// Validate reports whether the current window can be saved.
func (s *Sync) Validate() error {
	if !s.window.Complete() {
		return ErrIncompleteWindow
	}
	start, end, err := s.resolve()
	if err != nil {
		return err
	}
	if !end.After(start) {
		return calendar.ErrInvalidRange
	}
	return nil
}

// apply consumes a signal. Each branch writes exactly one side of the state:
// dates -> hours never touches the window, duration -> dates never touches
// the hours value.
func (s *Sync) apply(sig signal) error {
	switch sig {
	case sigDatesChanged:
		if !s.window.Complete() {
			return nil
		}
		start, end, err := s.resolve()
		if err != nil {
			return err
		}
		if !end.After(start) {
			// Leave the duration untouched; Validate surfaces the problem.
			return nil
		}
		elapsed, err := calendar.ElapsedBusinessHours(start, end, s.policy)
		if err != nil {
			return err
		}
		s.hours = round2(elapsed)
		return nil

	case sigDurationChanged:
		if s.window.StartDate == "" || s.window.StartTime == "" {
			return nil
		}
		start, err := s.window.Start()
		if err != nil {
			return fmt.Errorf("parsing window start: %w", err)
		}
		end, err := calendar.AddBusinessHours(start, s.hours, s.policy)
		if err != nil {
			return err
		}
		if !end.After(start) {
			return fmt.Errorf("%w: derived end does not follow start", calendar.ErrInvalidRange)
		}
		s.window.EndDate = end.Format(domain.DateLayout)
		s.window.EndTime = end.Format(domain.TimeLayout)
		return nil
	}
	return nil
}

func (s *Sync) resolve() (start, end time.Time, err error) {
	start, err = s.window.Start()
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("parsing window start: %w", err)
	}
	end, err = s.window.End()
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("parsing window end: %w", err)
	}
	return start, end, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
