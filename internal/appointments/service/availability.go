package service

import (
	"context"
	"time"

	"slotline/internal/appointments/repository"
	"slotline/pkg/config"
	apperrors "slotline/pkg/errors"
	"slotline/pkg/model"
)

// AvailableSlot is one bookable interval in an availability response.
type AvailableSlot struct {
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Available bool      `json:"available"`
}

// Availability pairs the generated slot grid with the services the grid
// applies to.
type Availability struct {
	RangeStart time.Time        `json:"range_start"`
	RangeEnd   time.Time        `json:"range_end"`
	Slots      []*AvailableSlot `json:"slots"`
	Services   []*model.Service `json:"services"`
}

type AvailabilityService interface {
	GetAvailability(ctx context.Context, rangeStart, rangeEnd time.Time, serviceType *model.ServiceType) (*Availability, error)
}

type serviceLister interface {
	ServiceCatalog
	FindAll(ctx context.Context) ([]*model.Service, error)
}

type availabilityService struct {
	repo    repository.AppointmentRepository
	catalog serviceLister
	cfg     *config.Config
}

func NewAvailabilityService(
	repo repository.AppointmentRepository,
	catalog serviceLister,
	cfg *config.Config,
) AvailabilityService {
	return &availabilityService{
		repo:    repo,
		catalog: catalog,
		cfg:     cfg,
	}
}

// GetAvailability slices [rangeStart, rangeEnd) into consecutive slots and
// marks each one taken when any scheduled appointment for the matching
// services overlaps it. Slot length comes from the first matching service;
// with no services the configured default applies. A slot opens at every
// cursor position before rangeEnd, so the last slot keeps its full length
// even when it runs past the range.
func (s *availabilityService) GetAvailability(ctx context.Context, rangeStart, rangeEnd time.Time, serviceType *model.ServiceType) (*Availability, error) {
	if !rangeStart.Before(rangeEnd) {
		return nil, apperrors.InvalidInput("start_date must be before end_date")
	}
	rangeStart = rangeStart.UTC()
	rangeEnd = rangeEnd.UTC()

	var services []*model.Service
	var err error
	if serviceType != nil {
		services, err = s.catalog.FindByType(ctx, *serviceType)
	} else {
		services, err = s.catalog.FindAll(ctx)
	}
	if err != nil {
		return nil, apperrors.Internal("Failed to load services", err)
	}

	slotDuration := time.Duration(s.cfg.DefaultSlotDurationMin) * time.Minute
	var serviceIDs []string
	if len(services) > 0 {
		slotDuration = services[0].Duration()
		for _, svc := range services {
			serviceIDs = append(serviceIDs, svc.ID)
		}
	}

	// The trailing slot may run past rangeEnd; fetch far enough to mark it.
	booked, err := s.repo.FindScheduledBetween(ctx, rangeStart, rangeEnd.Add(slotDuration), serviceIDs)
	if err != nil {
		return nil, apperrors.Internal("Failed to load booked appointments", err)
	}

	var slots []*AvailableSlot
	for cursor := rangeStart; cursor.Before(rangeEnd); cursor = cursor.Add(slotDuration) {
		candidate, err := model.NewTimeSlot(cursor, cursor.Add(slotDuration))
		if err != nil {
			break
		}

		available := true
		for _, appt := range booked {
			if appt.Slot.Overlaps(candidate) {
				available = false
				break
			}
		}

		slots = append(slots, &AvailableSlot{
			StartTime: candidate.Start(),
			EndTime:   candidate.End(),
			Available: available,
		})
	}

	return &Availability{
		RangeStart: rangeStart,
		RangeEnd:   rangeEnd,
		Slots:      slots,
		Services:   services,
	}, nil
}
