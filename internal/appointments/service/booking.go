package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	appterrors "slotline/internal/appointments/errors"
	"slotline/internal/appointments/repository"
	"slotline/pkg/config"
	apperrors "slotline/pkg/errors"
	"slotline/pkg/model"
	"slotline/pkg/notifier"

	"go.mongodb.org/mongo-driver/mongo"
)

// ServiceCatalog is the slice of the catalog domain the booking flow needs.
type ServiceCatalog interface {
	FindByID(ctx context.Context, id string) (*model.Service, error)
	FindByType(ctx context.Context, serviceType model.ServiceType) ([]*model.Service, error)
}

// UserDirectory resolves registered users for notifications and listings.
type UserDirectory interface {
	FindByID(ctx context.Context, id string) (*model.User, error)
}

// BookResult reports the two-phase outcome of a booking. Persistence and
// notification succeed or fail independently: a saved appointment is never
// rolled back because its confirmation email could not be sent.
type BookResult struct {
	AppointmentID     string `json:"appointment_id"`
	ViewToken         string `json:"view_token"`
	CancellationToken string `json:"cancellation_token"`
	Notified          bool   `json:"notified"`
	NotifyErrorCode   string `json:"notify_error_code,omitempty"`
}

// AppointmentView is the user-facing projection of an appointment.
type AppointmentView struct {
	ID          string    `json:"id"`
	ServiceID   string    `json:"service_id"`
	ServiceName string    `json:"service_name"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	Status      string    `json:"status"`
}

// AdminAppointmentView extends AppointmentView with client identity for
// admin listings.
type AdminAppointmentView struct {
	AppointmentView
	UserID    string `json:"user_id"`
	UserName  string `json:"user_name"`
	UserEmail string `json:"user_email"`
}

// ListAllQuery narrows and pages the admin listing.
type ListAllQuery struct {
	Status      *model.AppointmentStatus
	ServiceType *model.ServiceType
	DateFrom    *time.Time
	DateTo      *time.Time
	Limit       int
	Offset      int64
}

type BookingService interface {
	Book(ctx context.Context, serviceID, userID string, start time.Time) (*BookResult, error)
	Cancel(ctx context.Context, cancellationToken string) error
	GetByViewToken(ctx context.Context, viewToken string) (*AppointmentView, error)
	ListForUser(ctx context.Context, userID string) ([]*AppointmentView, error)
	ListAll(ctx context.Context, query ListAllQuery) ([]*AdminAppointmentView, int64, error)
}

type bookingService struct {
	repo     repository.AppointmentRepository
	lockRepo repository.SlotLockRepository
	catalog  ServiceCatalog
	users    UserDirectory
	notifier notifier.Notifier
	cfg      *config.Config
}

func NewBookingService(
	repo repository.AppointmentRepository,
	lockRepo repository.SlotLockRepository,
	catalog ServiceCatalog,
	users UserDirectory,
	n notifier.Notifier,
	cfg *config.Config,
) BookingService {
	return &bookingService{
		repo:     repo,
		lockRepo: lockRepo,
		catalog:  catalog,
		users:    users,
		notifier: n,
		cfg:      cfg,
	}
}

func (s *bookingService) Book(ctx context.Context, serviceID, userID string, start time.Time) (*BookResult, error) {
	svc, err := s.catalog.FindByID(ctx, serviceID)
	if err != nil {
		if apperrors.IsAppError(err) {
			return nil, err
		}
		return nil, apperrors.ServiceNotFound(serviceID)
	}

	slot, err := model.NewTimeSlot(start, start.Add(svc.Duration()))
	if err != nil {
		return nil, apperrors.InvalidInput("Requested time slot is invalid")
	}

	// Advisory locks cover every quantum cell the slot touches, keyed by
	// both the service and the user. Any two requests whose slots overlap
	// in either dimension contend on at least one key, so concurrent
	// bookings of the same slot serialize here before the conflict check.
	keys := s.lockKeys(serviceID, userID, slot)
	if err := s.lockRepo.Create(ctx, keys, s.cfg.SlotLockTTL); err != nil {
		if errors.Is(err, repository.ErrLockNotAcquired) {
			// A collision on a user key means the other request belongs
			// to the same user, which is a user conflict, not a
			// service-capacity one.
			var conflict *repository.LockConflictError
			if errors.As(err, &conflict) && strings.HasPrefix(conflict.Key, userLockPrefix) {
				return nil, apperrors.UserTimeSlotConflict()
			}
			return nil, apperrors.TimeSlotConflict()
		}
		return nil, apperrors.Internal("Failed to acquire slot lock", err)
	}
	defer func() {
		if releaseErr := s.lockRepo.Delete(context.WithoutCancel(ctx), keys); releaseErr != nil {
			s.cfg.Log.Warn("Failed to release slot locks", "keys", len(keys), "error", releaseErr)
		}
	}()

	appt, err := model.NewAppointment(userID, serviceID, slot)
	if err != nil {
		return nil, apperrors.Internal("Failed to create appointment", err)
	}

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		taken, err := s.repo.FindScheduledBetween(sessCtx, slot.Start(), slot.End(), []string{serviceID})
		if err != nil {
			return apperrors.Internal("Failed to check slot availability", err)
		}
		if len(taken) > 0 {
			return apperrors.TimeSlotConflict()
		}

		own, err := s.repo.FindScheduledBetweenForUser(sessCtx, userID, slot.Start(), slot.End())
		if err != nil {
			return apperrors.Internal("Failed to check user availability", err)
		}
		if len(own) > 0 {
			return apperrors.UserTimeSlotConflict()
		}

		if err := s.repo.Save(sessCtx, appt); err != nil {
			return apperrors.Internal("Failed to save appointment", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	result := &BookResult{
		AppointmentID:     appt.ID,
		ViewToken:         appt.ViewToken,
		CancellationToken: appt.CancellationToken,
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		s.cfg.Log.Warn("Appointment booked but user lookup for notification failed",
			"appointment_id", appt.ID,
			"user_id", userID,
			"error", err,
		)
		result.NotifyErrorCode = apperrors.CodeUserDataNotFoundNotif
		return result, nil
	}

	result.Notified = s.notifier.SendConfirmation(user.Email, s.notifyDetails(appt, svc, user))

	s.cfg.Log.Info("Appointment booked",
		"appointment_id", appt.ID,
		"service_id", serviceID,
		"user_id", userID,
		"start", slot.Start(),
		"notified", result.Notified,
	)
	return result, nil
}

func (s *bookingService) Cancel(ctx context.Context, cancellationToken string) error {
	appt, err := s.repo.FindByCancellationToken(ctx, cancellationToken)
	if err != nil {
		if errors.Is(err, appterrors.ErrNotFound) {
			return apperrors.AppointmentNotFound()
		}
		return apperrors.Internal("Failed to look up appointment", err)
	}

	if err := appt.Cancel(); err != nil {
		return apperrors.InvalidStatusForCancellation()
	}

	if err := s.repo.Update(ctx, appt); err != nil {
		return apperrors.Internal("Failed to cancel appointment", err)
	}

	s.cfg.Log.Info("Appointment cancelled", "appointment_id", appt.ID)

	// Cancellation email is best effort and never surfaces to the caller.
	if user, err := s.users.FindByID(ctx, appt.UserID); err == nil {
		if svc, err := s.catalog.FindByID(ctx, appt.ServiceID); err == nil {
			s.notifier.SendCancellation(user.Email, s.notifyDetails(appt, svc, user))
		}
	}
	return nil
}

func (s *bookingService) GetByViewToken(ctx context.Context, viewToken string) (*AppointmentView, error) {
	appt, err := s.repo.FindByViewToken(ctx, viewToken)
	if err != nil {
		if errors.Is(err, appterrors.ErrNotFound) {
			return nil, apperrors.AppointmentNotFound()
		}
		return nil, apperrors.Internal("Failed to look up appointment", err)
	}
	return s.toView(ctx, appt), nil
}

func (s *bookingService) ListForUser(ctx context.Context, userID string) ([]*AppointmentView, error) {
	if userID == "" {
		return nil, apperrors.InvalidInput("User ID cannot be empty")
	}

	appointments, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, apperrors.Internal("Failed to list appointments", err)
	}

	views := make([]*AppointmentView, 0, len(appointments))
	for _, appt := range appointments {
		views = append(views, s.toView(ctx, appt))
	}
	return views, nil
}

func (s *bookingService) ListAll(ctx context.Context, query ListAllQuery) ([]*AdminAppointmentView, int64, error) {
	filter := repository.ListFilter{
		Status:   query.Status,
		DateFrom: query.DateFrom,
		DateTo:   query.DateTo,
		Limit:    query.Limit,
		Offset:   query.Offset,
	}

	if query.ServiceType != nil {
		services, err := s.catalog.FindByType(ctx, *query.ServiceType)
		if err != nil {
			return nil, 0, apperrors.Internal("Failed to resolve services for type filter", err)
		}
		if len(services) == 0 {
			return []*AdminAppointmentView{}, 0, nil
		}
		for _, svc := range services {
			filter.ServiceIDs = append(filter.ServiceIDs, svc.ID)
		}
	}

	appointments, total, err := s.repo.FindAllFiltered(ctx, filter)
	if err != nil {
		return nil, 0, apperrors.Internal("Failed to list appointments", err)
	}

	views := make([]*AdminAppointmentView, 0, len(appointments))
	for _, appt := range appointments {
		view := &AdminAppointmentView{
			AppointmentView: *s.toView(ctx, appt),
			UserID:          appt.UserID,
			UserName:        "Unknown User",
		}
		if user, err := s.users.FindByID(ctx, appt.UserID); err == nil {
			view.UserName = user.Name
			view.UserEmail = user.Email
		}
		views = append(views, view)
	}
	return views, total, nil
}

func (s *bookingService) toView(ctx context.Context, appt *model.Appointment) *AppointmentView {
	view := &AppointmentView{
		ID:          appt.ID,
		ServiceID:   appt.ServiceID,
		ServiceName: "Unknown Service",
		StartTime:   appt.Slot.Start(),
		EndTime:     appt.Slot.End(),
		Status:      string(appt.Status),
	}
	if svc, err := s.catalog.FindByID(ctx, appt.ServiceID); err == nil {
		view.ServiceName = svc.Name
	}
	return view
}

const (
	serviceLockPrefix = "svc_"
	userLockPrefix    = "user_"
)

// lockKeys enumerates the quantum cells [slot.Start, slot.End) touches and
// emits one key per cell per dimension, service keys first so same-service
// contention collides before same-user contention. The trailing partial
// cell is included because Truncate rounds the cursor down.
func (s *bookingService) lockKeys(serviceID, userID string, slot model.TimeSlot) []string {
	quantum := s.cfg.SlotLockQuantum
	var keys []string
	for cell := slot.Start().Truncate(quantum); cell.Before(slot.End()); cell = cell.Add(quantum) {
		keys = append(keys,
			fmt.Sprintf("%s%s_%d", serviceLockPrefix, serviceID, cell.Unix()),
			fmt.Sprintf("%s%s_%d", userLockPrefix, userID, cell.Unix()),
		)
	}
	return keys
}

func (s *bookingService) notifyDetails(appt *model.Appointment, svc *model.Service, user *model.User) notifier.Details {
	return notifier.Details{
		AppointmentID:      appt.ID,
		ClientName:         user.Name,
		ClientEmail:        user.Email,
		ServiceName:        svc.Name,
		ServiceDescription: svc.Description,
		ServiceDurationMin: svc.DurationMinutes,
		ServicePrice:       svc.Price,
		ServiceType:        string(svc.Type),
		ScheduledStart:     appt.Slot.Start(),
		ScheduledEnd:       appt.Slot.End(),
		Status:             string(appt.Status),
		ViewToken:          appt.ViewToken,
		CancellationToken:  appt.CancellationToken,
	}
}
