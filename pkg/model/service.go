package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

type ServiceType string

const (
	TypeConsultation ServiceType = "consultation"
	TypeFollowUp     ServiceType = "follow_up"
	TypeEmergency    ServiceType = "emergency"
)

func ServiceTypes() []ServiceType {
	return []ServiceType{TypeConsultation, TypeFollowUp, TypeEmergency}
}

func (t ServiceType) Valid() bool {
	switch t {
	case TypeConsultation, TypeFollowUp, TypeEmergency:
		return true
	}
	return false
}

func ParseServiceType(raw string) (ServiceType, error) {
	t := ServiceType(raw)
	if !t.Valid() {
		return "", fmt.Errorf("unknown service type: %q", raw)
	}
	return t, nil
}

// Service is a bookable offering. Its duration determines both the end time
// of appointments booked against it and the slot width of availability grids
// computed for its type.
type Service struct {
	ID              string
	Name            string
	Description     string
	DurationMinutes int
	Price           *float64
	Type            ServiceType
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func NewService(name, description string, durationMinutes int, price *float64, serviceType ServiceType) (*Service, error) {
	if strings.TrimSpace(name) == "" {
		return nil, errors.New("service name cannot be empty")
	}
	if strings.TrimSpace(description) == "" {
		return nil, errors.New("service description cannot be empty")
	}
	if durationMinutes <= 0 {
		return nil, errors.New("service duration must be positive")
	}
	if price != nil && *price < 0 {
		return nil, errors.New("service price cannot be negative")
	}
	if !serviceType.Valid() {
		return nil, fmt.Errorf("unknown service type: %q", serviceType)
	}

	now := time.Now().UTC()
	return &Service{
		Name:            name,
		Description:     description,
		DurationMinutes: durationMinutes,
		Price:           price,
		Type:            serviceType,
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}

func (s *Service) Duration() time.Duration {
	return time.Duration(s.DurationMinutes) * time.Minute
}
