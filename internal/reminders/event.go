package reminders

import "time"

const EventTypeReminderDue = "appointment.reminder.due"

// ReminderEvent is the payload published for every appointment entering the
// reminder window. It carries identifiers only; the consumer resolves the
// current user and service state at delivery time.
type ReminderEvent struct {
	AppointmentID string    `json:"appointment_id"`
	UserID        string    `json:"user_id"`
	ServiceID     string    `json:"service_id"`
	StartTime     time.Time `json:"start_time"`
	EndTime       time.Time `json:"end_time"`
}
