package reminders

import (
	"context"
	"fmt"

	"slotline/internal/appointments/service"
	"slotline/pkg/config"
	"slotline/pkg/kafka"
	"slotline/pkg/model"
	"slotline/pkg/notifier"
)

// Consumer turns reminder events into emails. Lookup failures for the user
// or the service skip the event rather than poisoning the partition.
type Consumer struct {
	catalog  service.ServiceCatalog
	users    service.UserDirectory
	notifier notifier.Notifier
	cfg      *config.Config
}

func NewConsumer(
	catalog service.ServiceCatalog,
	users service.UserDirectory,
	n notifier.Notifier,
	cfg *config.Config,
) *Consumer {
	return &Consumer{
		catalog:  catalog,
		users:    users,
		notifier: n,
		cfg:      cfg,
	}
}

// Handle implements the message handler contract for the kafka consumer.
func (c *Consumer) Handle(ctx context.Context, msg kafka.Message) error {
	var event ReminderEvent
	if err := msg.Decode(&event); err != nil {
		return fmt.Errorf("failed to decode reminder event: %w", err)
	}

	user, err := c.users.FindByID(ctx, event.UserID)
	if err != nil {
		c.cfg.Log.Warn("Skipping reminder, user lookup failed",
			"appointment_id", event.AppointmentID,
			"user_id", event.UserID,
			"error", err,
		)
		return nil
	}

	details := notifier.Details{
		AppointmentID:  event.AppointmentID,
		ClientName:     user.Name,
		ClientEmail:    user.Email,
		ScheduledStart: event.StartTime,
		ScheduledEnd:   event.EndTime,
		Status:         string(model.StatusScheduled),
	}
	if svc, err := c.catalog.FindByID(ctx, event.ServiceID); err == nil {
		details.ServiceName = svc.Name
		details.ServiceDescription = svc.Description
		details.ServiceDurationMin = svc.DurationMinutes
		details.ServicePrice = svc.Price
		details.ServiceType = string(svc.Type)
	}

	if sent := c.notifier.SendReminder(user.Email, details); !sent {
		c.cfg.Log.Warn("Reminder email not sent",
			"appointment_id", event.AppointmentID,
			"recipient", user.Email,
		)
		return nil
	}

	c.cfg.Log.Info("Reminder sent",
		"appointment_id", event.AppointmentID,
		"recipient", user.Email,
		"start", event.StartTime,
	)
	return nil
}
