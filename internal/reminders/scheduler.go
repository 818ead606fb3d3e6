package reminders

import (
	"context"
	"sync"
	"time"

	"slotline/internal/appointments/repository"
	"slotline/pkg/config"
	"slotline/pkg/kafka"

	"github.com/robfig/cron/v3"
)

type publisher interface {
	Publish(ctx context.Context, msg kafka.Message) error
}

// Scheduler periodically scans for appointments entering the reminder window
// and publishes one event per appointment. The in-process seen set keeps a
// single run from re-emitting an appointment; a process restart may repeat a
// window, in which case a duplicate reminder email is accepted.
type Scheduler struct {
	repo     repository.AppointmentRepository
	producer publisher
	cfg      *config.Config
	cron     *cron.Cron

	mu   sync.Mutex
	seen map[string]time.Time
}

func NewScheduler(repo repository.AppointmentRepository, producer publisher, cfg *config.Config) *Scheduler {
	return &Scheduler{
		repo:     repo,
		producer: producer,
		cfg:      cfg,
		cron:     cron.New(),
		seen:     make(map[string]time.Time),
	}
}

func (s *Scheduler) Start() error {
	_, err := s.cron.AddFunc(s.cfg.ReminderCronSpec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.cfg.ReminderWindow)
		defer cancel()
		if err := s.Scan(ctx, time.Now().UTC()); err != nil {
			s.cfg.Log.Error("Reminder scan failed", "error", err)
		}
	})
	if err != nil {
		return err
	}
	s.cron.Start()
	s.cfg.Log.Info("Reminder scheduler started",
		"cron", s.cfg.ReminderCronSpec,
		"lead", s.cfg.ReminderLead,
		"window", s.cfg.ReminderWindow,
	)
	return nil
}

func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

// Scan publishes reminder events for scheduled appointments starting inside
// [now+lead, now+lead+window).
func (s *Scheduler) Scan(ctx context.Context, now time.Time) error {
	from := now.Add(s.cfg.ReminderLead)
	to := from.Add(s.cfg.ReminderWindow)

	appointments, err := s.repo.FindScheduledStartingBetween(ctx, from, to)
	if err != nil {
		return err
	}

	s.pruneSeen(now)

	var published int
	for _, appt := range appointments {
		if s.alreadySeen(appt.ID) {
			continue
		}

		event := ReminderEvent{
			AppointmentID: appt.ID,
			UserID:        appt.UserID,
			ServiceID:     appt.ServiceID,
			StartTime:     appt.Slot.Start(),
			EndTime:       appt.Slot.End(),
		}
		msg, err := kafka.NewEventMessage(appt.ID, EventTypeReminderDue, "reminder-scheduler", event)
		if err != nil {
			s.cfg.Log.Error("Failed to build reminder event", "appointment_id", appt.ID, "error", err)
			continue
		}
		if err := s.producer.Publish(ctx, msg); err != nil {
			s.cfg.Log.Error("Failed to publish reminder event", "appointment_id", appt.ID, "error", err)
			continue
		}

		s.markSeen(appt.ID, appt.Slot.Start())
		published++
	}

	if published > 0 {
		s.cfg.Log.Info("Reminder events published", "count", published, "from", from, "to", to)
	}
	return nil
}

func (s *Scheduler) alreadySeen(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.seen[id]
	return ok
}

func (s *Scheduler) markSeen(id string, start time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seen[id] = start
}

// pruneSeen drops entries whose appointment already started, keeping the set
// bounded across long-running processes.
func (s *Scheduler) pruneSeen(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, start := range s.seen {
		if start.Before(now) {
			delete(s.seen, id)
		}
	}
}
