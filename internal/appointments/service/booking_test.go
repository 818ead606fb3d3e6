package service

import (
	"context"
	"io"
	"sort"
	"sync"
	"testing"
	"time"

	appterrors "slotline/internal/appointments/errors"
	"slotline/internal/appointments/repository"
	"slotline/pkg/config"
	apperrors "slotline/pkg/errors"
	"slotline/pkg/logger"
	"slotline/pkg/model"
	"slotline/pkg/notifier"

	mongotx "slotline/pkg/db/mongo"

	"go.mongodb.org/mongo-driver/mongo"
)

func newTestConfig() *config.Config {
	return &config.Config{
		Log: logger.New(logger.Config{
			Level:   "error",
			Format:  logger.JSON,
			Output:  io.Discard,
			Service: "test",
		}),
		DefaultSlotDurationMin: 30,
		SlotLockTTL:            10 * time.Second,
		SlotLockQuantum:        5 * time.Minute,
	}
}

// memoryAppointmentRepo is a functional in-memory repository. Transactions
// degrade to plain calls; isolation in tests comes from the slot locks, the
// same way it does against a real deployment.
type memoryAppointmentRepo struct {
	mu           sync.Mutex
	appointments []*model.Appointment
	nextID       int
}

func (r *memoryAppointmentRepo) Save(_ context.Context, appt *model.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	appt.ID = "appt-" + time.Now().Format("150405") + "-" + string(rune('a'+r.nextID%26))
	clone := *appt
	r.appointments = append(r.appointments, &clone)
	return nil
}

func (r *memoryAppointmentRepo) Update(_ context.Context, appt *model.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, existing := range r.appointments {
		if existing.ID == appt.ID {
			clone := *appt
			r.appointments[i] = &clone
			return nil
		}
	}
	return appterrors.ErrNotFound
}

func (r *memoryAppointmentRepo) FindByViewToken(_ context.Context, token string) (*model.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, appt := range r.appointments {
		if appt.ViewToken == token {
			clone := *appt
			return &clone, nil
		}
	}
	return nil, appterrors.ErrNotFound
}

func (r *memoryAppointmentRepo) FindByCancellationToken(_ context.Context, token string) (*model.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, appt := range r.appointments {
		if appt.CancellationToken == token {
			clone := *appt
			return &clone, nil
		}
	}
	return nil, appterrors.ErrNotFound
}

func (r *memoryAppointmentRepo) FindByUserID(_ context.Context, userID string) ([]*model.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Appointment
	for _, appt := range r.appointments {
		if appt.UserID == userID {
			clone := *appt
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *memoryAppointmentRepo) FindScheduledBetween(_ context.Context, start, end time.Time, serviceIDs []string) ([]*model.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Appointment
	for _, appt := range r.appointments {
		if appt.Status != model.StatusScheduled {
			continue
		}
		if len(serviceIDs) > 0 && !contains(serviceIDs, appt.ServiceID) {
			continue
		}
		if appt.Slot.Start().Before(end) && start.Before(appt.Slot.End()) {
			clone := *appt
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *memoryAppointmentRepo) FindScheduledBetweenForUser(_ context.Context, userID string, start, end time.Time) ([]*model.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Appointment
	for _, appt := range r.appointments {
		if appt.UserID != userID || appt.Status != model.StatusScheduled {
			continue
		}
		if appt.Slot.Start().Before(end) && start.Before(appt.Slot.End()) {
			clone := *appt
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *memoryAppointmentRepo) FindScheduledStartingBetween(_ context.Context, from, to time.Time) ([]*model.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Appointment
	for _, appt := range r.appointments {
		if appt.Status != model.StatusScheduled {
			continue
		}
		start := appt.Slot.Start()
		if !start.Before(from) && start.Before(to) {
			clone := *appt
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *memoryAppointmentRepo) FindAllFiltered(_ context.Context, filter repository.ListFilter) ([]*model.Appointment, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Appointment
	for _, appt := range r.appointments {
		if filter.Status != nil && appt.Status != *filter.Status {
			continue
		}
		if len(filter.ServiceIDs) > 0 && !contains(filter.ServiceIDs, appt.ServiceID) {
			continue
		}
		// Date bounds match by interval overlap, like the stored query.
		if filter.DateFrom != nil && !appt.Slot.End().After(*filter.DateFrom) {
			continue
		}
		if filter.DateTo != nil && !appt.Slot.Start().Before(*filter.DateTo) {
			continue
		}
		clone := *appt
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Slot.Start().After(out[j].Slot.Start())
	})
	total := int64(len(out))
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, total, nil
}

func (r *memoryAppointmentRepo) ExecuteTransaction(_ context.Context, fn mongotx.TransactionFunc) error {
	return fn(mongo.SessionContext(nil))
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}

// memorySlotLockRepo mirrors the unique-insert semantics of the Mongo lock
// collection: Create fails if any requested key is already held.
type memorySlotLockRepo struct {
	mu   sync.Mutex
	held map[string]bool
}

func newMemorySlotLockRepo() *memorySlotLockRepo {
	return &memorySlotLockRepo{held: make(map[string]bool)}
}

func (r *memorySlotLockRepo) Create(_ context.Context, keys []string, _ time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, key := range keys {
		if r.held[key] {
			return &repository.LockConflictError{Key: key}
		}
	}
	for _, key := range keys {
		r.held[key] = true
	}
	return nil
}

func (r *memorySlotLockRepo) Delete(_ context.Context, keys []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, key := range keys {
		delete(r.held, key)
	}
	return nil
}

type mockCatalog struct {
	findByID   func(ctx context.Context, id string) (*model.Service, error)
	findByType func(ctx context.Context, t model.ServiceType) ([]*model.Service, error)
	findAll    func(ctx context.Context) ([]*model.Service, error)
}

func (m *mockCatalog) FindByID(ctx context.Context, id string) (*model.Service, error) {
	return m.findByID(ctx, id)
}

func (m *mockCatalog) FindByType(ctx context.Context, t model.ServiceType) ([]*model.Service, error) {
	return m.findByType(ctx, t)
}

func (m *mockCatalog) FindAll(ctx context.Context) ([]*model.Service, error) {
	return m.findAll(ctx)
}

type mockUsers struct {
	findByID func(ctx context.Context, id string) (*model.User, error)
}

func (m *mockUsers) FindByID(ctx context.Context, id string) (*model.User, error) {
	return m.findByID(ctx, id)
}

type mockNotifier struct {
	mu            sync.Mutex
	confirmations []notifier.Details
	cancellations []notifier.Details
	succeed       bool
}

func (m *mockNotifier) SendConfirmation(_ string, details notifier.Details) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.confirmations = append(m.confirmations, details)
	return m.succeed
}

func (m *mockNotifier) SendCancellation(_ string, details notifier.Details) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cancellations = append(m.cancellations, details)
	return m.succeed
}

func (m *mockNotifier) SendReminder(_ string, _ notifier.Details) bool {
	return m.succeed
}

func fixtureService() *model.Service {
	price := 50.0
	return &model.Service{
		ID:              "656e0000000000000000a001",
		Name:            "Consultation",
		Description:     "Initial consultation",
		DurationMinutes: 30,
		Price:           &price,
		Type:            model.TypeConsultation,
	}
}

func fixtureUser() *model.User {
	return &model.User{
		ID:    "656e0000000000000000b001",
		Name:  "Dana Levi",
		Email: "dana@example.com",
	}
}

func newBookingFixture() (BookingService, *memoryAppointmentRepo, *mockNotifier) {
	repo := &memoryAppointmentRepo{}
	locks := newMemorySlotLockRepo()
	catalog := &mockCatalog{
		findByID: func(_ context.Context, id string) (*model.Service, error) {
			svc := fixtureService()
			if id != svc.ID {
				return nil, apperrors.ServiceNotFound(id)
			}
			return svc, nil
		},
		findByType: func(_ context.Context, t model.ServiceType) ([]*model.Service, error) {
			svc := fixtureService()
			if t != svc.Type {
				return nil, nil
			}
			return []*model.Service{svc}, nil
		},
	}
	users := &mockUsers{
		findByID: func(_ context.Context, _ string) (*model.User, error) {
			return fixtureUser(), nil
		},
	}
	n := &mockNotifier{succeed: true}
	svc := NewBookingService(repo, locks, catalog, users, n, newTestConfig())
	return svc, repo, n
}

func TestBookSuccess(t *testing.T) {
	svc, repo, n := newBookingFixture()
	start := time.Now().UTC().Add(24 * time.Hour).Truncate(time.Hour)

	result, err := svc.Book(context.Background(), fixtureService().ID, fixtureUser().ID, start)
	if err != nil {
		t.Fatalf("Book returned error: %v", err)
	}
	if result.AppointmentID == "" || result.ViewToken == "" || result.CancellationToken == "" {
		t.Errorf("expected identifiers and tokens, got %+v", result)
	}
	if !result.Notified {
		t.Errorf("expected Notified=true")
	}
	if result.NotifyErrorCode != "" {
		t.Errorf("unexpected notify error code %q", result.NotifyErrorCode)
	}
	if len(repo.appointments) != 1 {
		t.Fatalf("expected 1 persisted appointment, got %d", len(repo.appointments))
	}
	if len(n.confirmations) != 1 {
		t.Errorf("expected 1 confirmation email, got %d", len(n.confirmations))
	}
}

func TestBookUnknownService(t *testing.T) {
	svc, repo, _ := newBookingFixture()
	start := time.Now().UTC().Add(24 * time.Hour).Truncate(time.Hour)

	_, err := svc.Book(context.Background(), "656e0000000000000000ffff", fixtureUser().ID, start)
	if !apperrors.HasCode(err, apperrors.CodeServiceNotFound) {
		t.Fatalf("expected %s, got %v", apperrors.CodeServiceNotFound, err)
	}
	if len(repo.appointments) != 0 {
		t.Errorf("nothing should be persisted, got %d", len(repo.appointments))
	}
}

func TestBookOverlappingSlotConflicts(t *testing.T) {
	svc, _, _ := newBookingFixture()
	start := time.Now().UTC().Add(24 * time.Hour).Truncate(time.Hour)

	if _, err := svc.Book(context.Background(), fixtureService().ID, fixtureUser().ID, start); err != nil {
		t.Fatalf("first booking failed: %v", err)
	}

	// Same slot, different user: service dimension conflict wins.
	_, err := svc.Book(context.Background(), fixtureService().ID, "656e0000000000000000b002", start.Add(15*time.Minute))
	if !apperrors.HasCode(err, apperrors.CodeTimeSlotConflict) {
		t.Fatalf("expected %s, got %v", apperrors.CodeTimeSlotConflict, err)
	}
}

func TestBookAdjacentSlotsDoNotConflict(t *testing.T) {
	svc, repo, _ := newBookingFixture()
	start := time.Now().UTC().Add(24 * time.Hour).Truncate(time.Hour)

	if _, err := svc.Book(context.Background(), fixtureService().ID, fixtureUser().ID, start); err != nil {
		t.Fatalf("first booking failed: %v", err)
	}

	// Back to back slots share a boundary instant but not an interval.
	if _, err := svc.Book(context.Background(), fixtureService().ID, "656e0000000000000000b002", start.Add(30*time.Minute)); err != nil {
		t.Fatalf("adjacent booking failed: %v", err)
	}
	if len(repo.appointments) != 2 {
		t.Errorf("expected 2 appointments, got %d", len(repo.appointments))
	}
}

func TestBookUserDoubleBookingBlocked(t *testing.T) {
	repo := &memoryAppointmentRepo{}
	locks := newMemorySlotLockRepo()
	price := 80.0
	other := &model.Service{
		ID:              "656e0000000000000000a002",
		Name:            "Follow Up",
		Description:     "Follow up visit",
		DurationMinutes: 30,
		Price:           &price,
		Type:            model.TypeFollowUp,
	}
	catalog := &mockCatalog{
		findByID: func(_ context.Context, id string) (*model.Service, error) {
			if id == other.ID {
				return other, nil
			}
			if id == fixtureService().ID {
				return fixtureService(), nil
			}
			return nil, apperrors.ServiceNotFound(id)
		},
	}
	users := &mockUsers{findByID: func(_ context.Context, _ string) (*model.User, error) {
		return fixtureUser(), nil
	}}
	svc := NewBookingService(repo, locks, catalog, users, &mockNotifier{succeed: true}, newTestConfig())

	start := time.Now().UTC().Add(24 * time.Hour).Truncate(time.Hour)
	if _, err := svc.Book(context.Background(), fixtureService().ID, fixtureUser().ID, start); err != nil {
		t.Fatalf("first booking failed: %v", err)
	}

	// Same user, overlapping time, different service.
	_, err := svc.Book(context.Background(), other.ID, fixtureUser().ID, start.Add(10*time.Minute))
	if !apperrors.HasCode(err, apperrors.CodeUserTimeSlotConflict) {
		t.Fatalf("expected %s, got %v", apperrors.CodeUserTimeSlotConflict, err)
	}
}

func TestBookNotificationFailureDoesNotRollBack(t *testing.T) {
	repo := &memoryAppointmentRepo{}
	locks := newMemorySlotLockRepo()
	catalog := &mockCatalog{
		findByID: func(_ context.Context, _ string) (*model.Service, error) {
			return fixtureService(), nil
		},
	}
	users := &mockUsers{findByID: func(_ context.Context, _ string) (*model.User, error) {
		return nil, appterrors.ErrNotFound
	}}
	svc := NewBookingService(repo, locks, catalog, users, &mockNotifier{succeed: true}, newTestConfig())

	start := time.Now().UTC().Add(24 * time.Hour).Truncate(time.Hour)
	result, err := svc.Book(context.Background(), fixtureService().ID, fixtureUser().ID, start)
	if err != nil {
		t.Fatalf("Book returned error: %v", err)
	}
	if result.Notified {
		t.Errorf("expected Notified=false")
	}
	if result.NotifyErrorCode != apperrors.CodeUserDataNotFoundNotif {
		t.Errorf("expected code %s, got %q", apperrors.CodeUserDataNotFoundNotif, result.NotifyErrorCode)
	}
	if len(repo.appointments) != 1 {
		t.Errorf("appointment must stay persisted, got %d", len(repo.appointments))
	}
}

func TestBookConcurrentSameSlotExactlyOneWins(t *testing.T) {
	svc, repo, _ := newBookingFixture()
	start := time.Now().UTC().Add(24 * time.Hour).Truncate(time.Hour)

	const workers = 20
	var wg sync.WaitGroup
	results := make(chan error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			userID := "656e0000000000000000b0" + string(rune('a'+i%26)) + string(rune('a'+i/26))
			_, err := svc.Book(context.Background(), fixtureService().ID, userID, start)
			results <- err
		}(i)
	}
	wg.Wait()
	close(results)

	var successes, conflicts int
	for err := range results {
		switch {
		case err == nil:
			successes++
		case apperrors.HasCode(err, apperrors.CodeTimeSlotConflict):
			conflicts++
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}

	if successes != 1 {
		t.Errorf("expected exactly 1 successful booking, got %d", successes)
	}
	if conflicts != workers-1 {
		t.Errorf("expected %d conflicts, got %d", workers-1, conflicts)
	}
	if len(repo.appointments) != 1 {
		t.Errorf("expected exactly 1 persisted appointment, got %d", len(repo.appointments))
	}
}

func TestBookConcurrentSameUserSurfacesUserConflict(t *testing.T) {
	repo := &memoryAppointmentRepo{}
	locks := newMemorySlotLockRepo()
	catalog := &mockCatalog{
		// Every ID resolves, so the workers contend only on the user.
		findByID: func(_ context.Context, id string) (*model.Service, error) {
			svc := fixtureService()
			svc.ID = id
			return svc, nil
		},
	}
	users := &mockUsers{
		findByID: func(_ context.Context, _ string) (*model.User, error) {
			return fixtureUser(), nil
		},
	}
	svc := NewBookingService(repo, locks, catalog, users, &mockNotifier{succeed: true}, newTestConfig())
	start := time.Now().UTC().Add(24 * time.Hour).Truncate(time.Hour)

	const workers = 20
	var wg sync.WaitGroup
	results := make(chan error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			serviceID := "656e0000000000000000a0" + string(rune('a'+i%26)) + string(rune('a'+i/26))
			_, err := svc.Book(context.Background(), serviceID, fixtureUser().ID, start)
			results <- err
		}(i)
	}
	wg.Wait()
	close(results)

	var successes, userConflicts int
	for err := range results {
		switch {
		case err == nil:
			successes++
		case apperrors.HasCode(err, apperrors.CodeUserTimeSlotConflict):
			userConflicts++
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}

	if successes != 1 {
		t.Errorf("expected exactly 1 successful booking, got %d", successes)
	}
	if userConflicts != workers-1 {
		t.Errorf("expected %d user conflicts, got %d", workers-1, userConflicts)
	}
	if len(repo.appointments) != 1 {
		t.Errorf("expected exactly 1 persisted appointment, got %d", len(repo.appointments))
	}
}

func TestCancelLifecycle(t *testing.T) {
	svc, repo, n := newBookingFixture()
	start := time.Now().UTC().Add(24 * time.Hour).Truncate(time.Hour)

	result, err := svc.Book(context.Background(), fixtureService().ID, fixtureUser().ID, start)
	if err != nil {
		t.Fatalf("Book returned error: %v", err)
	}

	if err := svc.Cancel(context.Background(), result.CancellationToken); err != nil {
		t.Fatalf("Cancel returned error: %v", err)
	}
	if repo.appointments[0].Status != model.StatusCancelled {
		t.Errorf("expected cancelled status, got %s", repo.appointments[0].Status)
	}
	if len(n.cancellations) != 1 {
		t.Errorf("expected cancellation email, got %d", len(n.cancellations))
	}

	// Second cancellation of the same appointment is rejected.
	err = svc.Cancel(context.Background(), result.CancellationToken)
	if !apperrors.HasCode(err, apperrors.CodeInvalidStatusCancel) {
		t.Fatalf("expected %s, got %v", apperrors.CodeInvalidStatusCancel, err)
	}
}

func TestCancelUnknownToken(t *testing.T) {
	svc, _, _ := newBookingFixture()

	err := svc.Cancel(context.Background(), "no-such-token")
	if !apperrors.HasCode(err, apperrors.CodeAppointmentNotFound) {
		t.Fatalf("expected %s, got %v", apperrors.CodeAppointmentNotFound, err)
	}
}

func TestCancelledSlotBecomesBookable(t *testing.T) {
	svc, _, _ := newBookingFixture()
	start := time.Now().UTC().Add(24 * time.Hour).Truncate(time.Hour)

	result, err := svc.Book(context.Background(), fixtureService().ID, fixtureUser().ID, start)
	if err != nil {
		t.Fatalf("Book returned error: %v", err)
	}
	if err := svc.Cancel(context.Background(), result.CancellationToken); err != nil {
		t.Fatalf("Cancel returned error: %v", err)
	}

	if _, err := svc.Book(context.Background(), fixtureService().ID, "656e0000000000000000b002", start); err != nil {
		t.Fatalf("rebooking a cancelled slot failed: %v", err)
	}
}

func TestGetByViewToken(t *testing.T) {
	svc, _, _ := newBookingFixture()
	start := time.Now().UTC().Add(24 * time.Hour).Truncate(time.Hour)

	result, err := svc.Book(context.Background(), fixtureService().ID, fixtureUser().ID, start)
	if err != nil {
		t.Fatalf("Book returned error: %v", err)
	}

	view, err := svc.GetByViewToken(context.Background(), result.ViewToken)
	if err != nil {
		t.Fatalf("GetByViewToken returned error: %v", err)
	}
	if view.ServiceName != "Consultation" {
		t.Errorf("expected resolved service name, got %q", view.ServiceName)
	}
	if !view.StartTime.Equal(start) {
		t.Errorf("expected start %s, got %s", start, view.StartTime)
	}

	if _, err := svc.GetByViewToken(context.Background(), "bogus"); !apperrors.HasCode(err, apperrors.CodeAppointmentNotFound) {
		t.Errorf("expected %s for unknown token, got %v", apperrors.CodeAppointmentNotFound, err)
	}
}

func TestListForUserResolvesServiceNames(t *testing.T) {
	svc, _, _ := newBookingFixture()
	start := time.Now().UTC().Add(24 * time.Hour).Truncate(time.Hour)

	if _, err := svc.Book(context.Background(), fixtureService().ID, fixtureUser().ID, start); err != nil {
		t.Fatalf("Book returned error: %v", err)
	}

	views, err := svc.ListForUser(context.Background(), fixtureUser().ID)
	if err != nil {
		t.Fatalf("ListForUser returned error: %v", err)
	}
	if len(views) != 1 {
		t.Fatalf("expected 1 appointment, got %d", len(views))
	}
	if views[0].ServiceName != "Consultation" {
		t.Errorf("expected resolved service name, got %q", views[0].ServiceName)
	}

	if _, err := svc.ListForUser(context.Background(), ""); err == nil {
		t.Errorf("empty user ID must be rejected")
	}
}

func TestListAllFiltersAndPaginates(t *testing.T) {
	svc, _, _ := newBookingFixture()
	start := time.Now().UTC().Add(24 * time.Hour).Truncate(time.Hour)

	for i := 0; i < 3; i++ {
		userID := "656e0000000000000000b00" + string(rune('1'+i))
		offset := time.Duration(i) * time.Hour
		if _, err := svc.Book(context.Background(), fixtureService().ID, userID, start.Add(offset)); err != nil {
			t.Fatalf("booking %d failed: %v", i, err)
		}
	}

	views, total, err := svc.ListAll(context.Background(), ListAllQuery{Limit: 2})
	if err != nil {
		t.Fatalf("ListAll returned error: %v", err)
	}
	if total != 3 {
		t.Errorf("total = %d, want 3", total)
	}
	if len(views) != 2 {
		t.Errorf("page size = %d, want 2", len(views))
	}
	for _, view := range views {
		if view.UserName != "Dana Levi" {
			t.Errorf("expected resolved user name, got %q", view.UserName)
		}
	}

	status := model.StatusScheduled
	_, total, err = svc.ListAll(context.Background(), ListAllQuery{Status: &status})
	if err != nil {
		t.Fatalf("ListAll(status) returned error: %v", err)
	}
	if total != 3 {
		t.Errorf("scheduled total = %d, want 3", total)
	}

	serviceType := model.TypeEmergency
	views, total, err = svc.ListAll(context.Background(), ListAllQuery{ServiceType: &serviceType})
	if err != nil {
		t.Fatalf("ListAll(type) returned error: %v", err)
	}
	if total != 0 || len(views) != 0 {
		t.Errorf("expected empty result for unmatched type, got %d/%d", len(views), total)
	}
}

func TestListAllDateRangeMatchesByOverlap(t *testing.T) {
	svc, _, _ := newBookingFixture()
	dayStart := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.Add(24 * time.Hour)

	starts := []time.Time{
		dayStart.Add(-10 * time.Hour),   // entirely before the day
		dayStart.Add(-15 * time.Minute), // straddles the day start
		dayStart.Add(10 * time.Hour),    // inside the day
		dayEnd.Add(-15 * time.Minute),   // straddles the day end
		dayEnd,                          // starts exactly at the day end
	}
	for i, start := range starts {
		userID := "656e0000000000000000c00" + string(rune('1'+i))
		if _, err := svc.Book(context.Background(), fixtureService().ID, userID, start); err != nil {
			t.Fatalf("booking %d failed: %v", i, err)
		}
	}

	views, total, err := svc.ListAll(context.Background(), ListAllQuery{DateFrom: &dayStart, DateTo: &dayEnd})
	if err != nil {
		t.Fatalf("ListAll returned error: %v", err)
	}
	if total != 3 {
		t.Errorf("total = %d, want 3 overlapping the day", total)
	}
	if len(views) != 3 {
		t.Fatalf("got %d appointments, want 3", len(views))
	}

	wantStarts := []time.Time{starts[3], starts[2], starts[1]}
	for i, view := range views {
		if !view.StartTime.Equal(wantStarts[i]) {
			t.Errorf("position %d starts at %s, want %s (newest first)", i, view.StartTime, wantStarts[i])
		}
	}
}
