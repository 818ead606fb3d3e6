package model

import (
	"errors"
	"fmt"
	"time"
)

var ErrInvalidInterval = errors.New("time slot start must be strictly before end")

// TimeSlot is an immutable time interval normalized to UTC.
//
// Boundary semantics are deliberately asymmetric: Overlaps treats the
// interval as open on both ends (a slot ending at 11:00 does not overlap one
// starting at 11:00), while Contains is inclusive on both ends. Call sites
// depend on both behaviors; do not unify them.
type TimeSlot struct {
	start time.Time
	end   time.Time
}

// NewTimeSlot builds a slot from the given instants, normalizing both to UTC.
// Zero-length and inverted intervals are rejected with ErrInvalidInterval.
func NewTimeSlot(start, end time.Time) (TimeSlot, error) {
	start = start.UTC()
	end = end.UTC()
	if !start.Before(end) {
		return TimeSlot{}, fmt.Errorf("%w: start=%s end=%s", ErrInvalidInterval,
			start.Format(time.RFC3339), end.Format(time.RFC3339))
	}
	return TimeSlot{start: start, end: end}, nil
}

func (s TimeSlot) Start() time.Time { return s.start }

func (s TimeSlot) End() time.Time { return s.end }

func (s TimeSlot) Duration() time.Duration { return s.end.Sub(s.start) }

// Overlaps reports whether the two slots share any instant. Boundaries are
// exclusive, so back-to-back slots never overlap.
func (s TimeSlot) Overlaps(other TimeSlot) bool {
	return s.start.Before(other.end) && other.start.Before(s.end)
}

// Contains reports whether the instant falls within the slot, inclusive of
// both boundaries.
func (s TimeSlot) Contains(t time.Time) bool {
	t = t.UTC()
	return !t.Before(s.start) && !t.After(s.end)
}

func (s TimeSlot) String() string {
	return fmt.Sprintf("[%s, %s)", s.start.Format(time.RFC3339), s.end.Format(time.RFC3339))
}
