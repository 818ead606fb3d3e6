package service

import (
	"context"
	"testing"
	"time"

	apperrors "slotline/pkg/errors"
	"slotline/pkg/model"
)

func availabilityFixture(services []*model.Service) (AvailabilityService, *memoryAppointmentRepo) {
	repo := &memoryAppointmentRepo{}
	catalog := &mockCatalog{
		findByID: func(_ context.Context, id string) (*model.Service, error) {
			for _, svc := range services {
				if svc.ID == id {
					return svc, nil
				}
			}
			return nil, apperrors.ServiceNotFound(id)
		},
		findByType: func(_ context.Context, t model.ServiceType) ([]*model.Service, error) {
			var out []*model.Service
			for _, svc := range services {
				if svc.Type == t {
					out = append(out, svc)
				}
			}
			return out, nil
		},
		findAll: func(_ context.Context) ([]*model.Service, error) {
			return services, nil
		},
	}
	return NewAvailabilityService(repo, catalog, newTestConfig()), repo
}

func TestAvailabilityGridCoversWholeRange(t *testing.T) {
	svc, _ := availabilityFixture([]*model.Service{fixtureService()})
	rangeStart := time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC)
	rangeEnd := rangeStart.Add(24 * time.Hour)

	availability, err := svc.GetAvailability(context.Background(), rangeStart, rangeEnd, nil)
	if err != nil {
		t.Fatalf("GetAvailability returned error: %v", err)
	}

	// 24h at 30 minutes per slot.
	if len(availability.Slots) != 48 {
		t.Fatalf("expected 48 slots, got %d", len(availability.Slots))
	}

	first := availability.Slots[0]
	if !first.StartTime.Equal(rangeStart) {
		t.Errorf("first slot starts at %s, want %s", first.StartTime, rangeStart)
	}
	last := availability.Slots[len(availability.Slots)-1]
	if !last.EndTime.Equal(rangeEnd) {
		t.Errorf("last slot ends at %s, want range end", last.EndTime)
	}
	for _, slot := range availability.Slots {
		if !slot.Available {
			t.Errorf("slot %s should be free on an empty range", slot.StartTime)
		}
	}
}

func TestAvailabilityRejectsInvertedRange(t *testing.T) {
	svc, _ := availabilityFixture([]*model.Service{fixtureService()})
	rangeStart := time.Date(2026, 9, 14, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		end  time.Time
	}{
		{"end before start", rangeStart.Add(-time.Hour)},
		{"empty range", rangeStart},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.GetAvailability(context.Background(), rangeStart, tt.end, nil)
			if err == nil {
				t.Fatalf("expected an error for an inverted range")
			}
			if !apperrors.HasCode(err, apperrors.CodeInvalidInput) {
				t.Errorf("error code = %v, want %s", err, apperrors.CodeInvalidInput)
			}
		})
	}
}

func TestAvailabilityTrailingSlotKeepsFullLength(t *testing.T) {
	price := 100.0
	odd := &model.Service{
		ID:              "656e0000000000000000a003",
		Name:            "Emergency",
		Description:     "Emergency visit",
		DurationMinutes: 50,
		Price:           &price,
		Type:            model.TypeEmergency,
	}
	svc, repo := availabilityFixture([]*model.Service{odd})
	rangeStart := time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC)
	rangeEnd := rangeStart.Add(24 * time.Hour)

	// An appointment just past the range still collides with the overhang.
	overhangSlot, err := model.NewTimeSlot(rangeEnd.Add(5*time.Minute), rangeEnd.Add(55*time.Minute))
	if err != nil {
		t.Fatalf("NewTimeSlot: %v", err)
	}
	appt, err := model.NewAppointment("656e0000000000000000b001", odd.ID, overhangSlot)
	if err != nil {
		t.Fatalf("NewAppointment: %v", err)
	}
	if err := repo.Save(context.Background(), appt); err != nil {
		t.Fatalf("Save: %v", err)
	}

	availability, err := svc.GetAvailability(context.Background(), rangeStart, rangeEnd, nil)
	if err != nil {
		t.Fatalf("GetAvailability returned error: %v", err)
	}

	// A slot opens at every 50-minute mark before range end: 29 in 24h.
	if len(availability.Slots) != 29 {
		t.Fatalf("expected 29 slots, got %d", len(availability.Slots))
	}
	last := availability.Slots[len(availability.Slots)-1]
	if !last.StartTime.Equal(rangeStart.Add(1400 * time.Minute)) {
		t.Errorf("trailing slot starts at %s", last.StartTime)
	}
	if !last.EndTime.Equal(rangeEnd.Add(10 * time.Minute)) {
		t.Errorf("trailing slot must keep its full length past range end, got %s", last.EndTime)
	}
	if got := last.EndTime.Sub(last.StartTime); got != 50*time.Minute {
		t.Errorf("trailing slot length = %s, want 50m", got)
	}
	if last.Available {
		t.Errorf("trailing slot overlaps a booked appointment and must be busy")
	}
}

func TestAvailabilityPartialRange(t *testing.T) {
	svc, _ := availabilityFixture([]*model.Service{fixtureService()})
	rangeStart := time.Date(2026, 9, 14, 10, 0, 0, 0, time.UTC)
	rangeEnd := rangeStart.Add(2 * time.Hour)

	availability, err := svc.GetAvailability(context.Background(), rangeStart, rangeEnd, nil)
	if err != nil {
		t.Fatalf("GetAvailability returned error: %v", err)
	}

	if len(availability.Slots) != 4 {
		t.Fatalf("expected 4 slots for a 2h range, got %d", len(availability.Slots))
	}
	if !availability.RangeStart.Equal(rangeStart) || !availability.RangeEnd.Equal(rangeEnd) {
		t.Errorf("range echoed as [%s, %s)", availability.RangeStart, availability.RangeEnd)
	}
}

func TestAvailabilityMarksBookedSlots(t *testing.T) {
	svc, repo := availabilityFixture([]*model.Service{fixtureService()})
	rangeStart := time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC)

	slot, err := model.NewTimeSlot(rangeStart.Add(10*time.Hour), rangeStart.Add(10*time.Hour+30*time.Minute))
	if err != nil {
		t.Fatalf("NewTimeSlot: %v", err)
	}
	appt, err := model.NewAppointment("656e0000000000000000b001", fixtureService().ID, slot)
	if err != nil {
		t.Fatalf("NewAppointment: %v", err)
	}
	if err := repo.Save(context.Background(), appt); err != nil {
		t.Fatalf("Save: %v", err)
	}

	availability, err := svc.GetAvailability(context.Background(), rangeStart, rangeStart.Add(24*time.Hour), nil)
	if err != nil {
		t.Fatalf("GetAvailability returned error: %v", err)
	}

	var busy int
	for _, s := range availability.Slots {
		if !s.Available {
			busy++
			if !s.StartTime.Equal(slot.Start()) {
				t.Errorf("wrong slot marked busy: %s", s.StartTime)
			}
		}
	}
	if busy != 1 {
		t.Errorf("expected exactly 1 busy slot, got %d", busy)
	}
}

func TestAvailabilityFiltersByServiceType(t *testing.T) {
	consultation := fixtureService()
	price := 100.0
	emergency := &model.Service{
		ID:              "656e0000000000000000a003",
		Name:            "Emergency",
		Description:     "Emergency visit",
		DurationMinutes: 60,
		Price:           &price,
		Type:            model.TypeEmergency,
	}
	svc, _ := availabilityFixture([]*model.Service{consultation, emergency})
	rangeStart := time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC)

	serviceType := model.TypeEmergency
	availability, err := svc.GetAvailability(context.Background(), rangeStart, rangeStart.Add(24*time.Hour), &serviceType)
	if err != nil {
		t.Fatalf("GetAvailability returned error: %v", err)
	}

	if len(availability.Services) != 1 || availability.Services[0].ID != emergency.ID {
		t.Fatalf("expected only the emergency service, got %d services", len(availability.Services))
	}
	// Grid follows the filtered service's duration.
	if len(availability.Slots) != 24 {
		t.Errorf("expected 24 hourly slots, got %d", len(availability.Slots))
	}
}
