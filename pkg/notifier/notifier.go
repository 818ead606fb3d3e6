// Package notifier delivers appointment emails. Delivery is best-effort by
// contract: senders report success as a bool and never return an error for
// expected delivery failures, because a booking is already committed by the
// time any notification goes out.
package notifier

import "time"

// Details carries the full booking, service, and user context an email needs.
type Details struct {
	AppointmentID      string
	ClientName         string
	ClientEmail        string
	ServiceName        string
	ServiceDescription string
	ServiceDurationMin int
	ServicePrice       *float64
	ServiceType        string
	ScheduledStart     time.Time
	ScheduledEnd       time.Time
	Status             string
	ViewToken          string
	CancellationToken  string
}

type Notifier interface {
	SendConfirmation(recipient string, details Details) bool
	SendCancellation(recipient string, details Details) bool
	SendReminder(recipient string, details Details) bool
}
