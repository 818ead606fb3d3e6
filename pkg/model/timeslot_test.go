package model

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustSlot(t *testing.T, start, end time.Time) TimeSlot {
	t.Helper()
	slot, err := NewTimeSlot(start, end)
	require.NoError(t, err)
	return slot
}

func TestNewTimeSlotRejectsInvalidIntervals(t *testing.T) {
	at := time.Date(2026, 9, 14, 10, 0, 0, 0, time.UTC)

	_, err := NewTimeSlot(at, at)
	require.Error(t, err, "zero-length interval must be rejected")
	assert.True(t, errors.Is(err, ErrInvalidInterval))

	_, err = NewTimeSlot(at.Add(time.Hour), at)
	require.Error(t, err, "inverted interval must be rejected")
	assert.True(t, errors.Is(err, ErrInvalidInterval))
}

func TestNewTimeSlotNormalizesToUTC(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*60*60)
	start := time.Date(2026, 9, 14, 13, 0, 0, 0, loc)

	slot := mustSlot(t, start, start.Add(time.Hour))

	assert.Equal(t, time.UTC, slot.Start().Location())
	assert.Equal(t, time.UTC, slot.End().Location())
	assert.True(t, slot.Start().Equal(start))
}

func TestOverlaps(t *testing.T) {
	base := time.Date(2026, 9, 14, 10, 0, 0, 0, time.UTC)
	slot := mustSlot(t, base, base.Add(time.Hour))

	tests := []struct {
		name  string
		other TimeSlot
		want  bool
	}{
		{"identical", mustSlot(t, base, base.Add(time.Hour)), true},
		{"contained", mustSlot(t, base.Add(15*time.Minute), base.Add(45*time.Minute)), true},
		{"straddles start", mustSlot(t, base.Add(-30*time.Minute), base.Add(30*time.Minute)), true},
		{"straddles end", mustSlot(t, base.Add(30*time.Minute), base.Add(90*time.Minute)), true},
		{"surrounds", mustSlot(t, base.Add(-time.Hour), base.Add(2*time.Hour)), true},
		{"touches end", mustSlot(t, base.Add(time.Hour), base.Add(2*time.Hour)), false},
		{"touches start", mustSlot(t, base.Add(-time.Hour), base), false},
		{"disjoint after", mustSlot(t, base.Add(2*time.Hour), base.Add(3*time.Hour)), false},
		{"disjoint before", mustSlot(t, base.Add(-2*time.Hour), base.Add(-time.Hour)), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, slot.Overlaps(tt.other))
			assert.Equal(t, tt.want, tt.other.Overlaps(slot), "Overlaps must be symmetric")
		})
	}
}

func TestContainsIsInclusiveOnBothBoundaries(t *testing.T) {
	base := time.Date(2026, 9, 14, 10, 0, 0, 0, time.UTC)
	slot := mustSlot(t, base, base.Add(time.Hour))

	assert.True(t, slot.Contains(base), "start boundary is inclusive")
	assert.True(t, slot.Contains(base.Add(time.Hour)), "end boundary is inclusive")
	assert.True(t, slot.Contains(base.Add(30*time.Minute)))
	assert.False(t, slot.Contains(base.Add(-time.Nanosecond)))
	assert.False(t, slot.Contains(base.Add(time.Hour+time.Nanosecond)))
}

func TestBoundaryAsymmetry(t *testing.T) {
	// A shared boundary instant is inside both slots per Contains, yet the
	// slots do not overlap. Booking logic relies on exactly this.
	base := time.Date(2026, 9, 14, 10, 0, 0, 0, time.UTC)
	first := mustSlot(t, base, base.Add(time.Hour))
	second := mustSlot(t, base.Add(time.Hour), base.Add(2*time.Hour))

	boundary := base.Add(time.Hour)
	assert.True(t, first.Contains(boundary))
	assert.True(t, second.Contains(boundary))
	assert.False(t, first.Overlaps(second))
}

func TestDuration(t *testing.T) {
	base := time.Date(2026, 9, 14, 10, 0, 0, 0, time.UTC)
	slot := mustSlot(t, base, base.Add(45*time.Minute))
	assert.Equal(t, 45*time.Minute, slot.Duration())
}
