package model

import (
	"errors"
	"fmt"
	"time"

	"slotline/pkg/token"
)

type AppointmentStatus string

const (
	StatusScheduled AppointmentStatus = "scheduled"
	StatusCompleted AppointmentStatus = "completed"
	StatusCancelled AppointmentStatus = "cancelled"
	StatusNoShow    AppointmentStatus = "no_show"
)

func (s AppointmentStatus) Valid() bool {
	switch s {
	case StatusScheduled, StatusCompleted, StatusCancelled, StatusNoShow:
		return true
	}
	return false
}

func ParseAppointmentStatus(raw string) (AppointmentStatus, error) {
	s := AppointmentStatus(raw)
	if !s.Valid() {
		return "", fmt.Errorf("unknown appointment status: %q", raw)
	}
	return s, nil
}

var ErrInvalidTransition = errors.New("invalid appointment status transition")

// Appointment links one user to one service offering for a scheduled slot.
// The view and cancellation tokens are generated once at creation and never
// regenerated; they let an unauthenticated party view or cancel this single
// appointment.
type Appointment struct {
	ID                string
	UserID            string
	ServiceID         string
	Slot              TimeSlot
	Status            AppointmentStatus
	ViewToken         string
	CancellationToken string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func NewAppointment(userID, serviceID string, slot TimeSlot) (*Appointment, error) {
	if userID == "" {
		return nil, errors.New("appointment user id cannot be empty")
	}
	if serviceID == "" {
		return nil, errors.New("appointment service id cannot be empty")
	}

	viewToken, err := token.New()
	if err != nil {
		return nil, fmt.Errorf("failed to generate view token: %w", err)
	}
	cancellationToken, err := token.New()
	if err != nil {
		return nil, fmt.Errorf("failed to generate cancellation token: %w", err)
	}

	now := time.Now().UTC()
	return &Appointment{
		UserID:            userID,
		ServiceID:         serviceID,
		Slot:              slot,
		Status:            StatusScheduled,
		ViewToken:         viewToken,
		CancellationToken: cancellationToken,
		CreatedAt:         now,
		UpdatedAt:         now,
	}, nil
}

// Cancel moves the appointment to its terminal cancelled state. Legal only
// from scheduled.
func (a *Appointment) Cancel() error {
	if a.Status != StatusScheduled {
		return fmt.Errorf("%w: cannot cancel %s appointment", ErrInvalidTransition, a.Status)
	}
	a.Status = StatusCancelled
	a.UpdatedAt = time.Now().UTC()
	return nil
}

// Complete moves the appointment to its terminal completed state. Legal only
// from scheduled.
func (a *Appointment) Complete() error {
	if a.Status != StatusScheduled {
		return fmt.Errorf("%w: cannot complete %s appointment", ErrInvalidTransition, a.Status)
	}
	a.Status = StatusCompleted
	a.UpdatedAt = time.Now().UTC()
	return nil
}

func (a *Appointment) ConflictsWith(other *Appointment) bool {
	return a.Slot.Overlaps(other.Slot)
}
