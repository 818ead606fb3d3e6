package notifier

import (
	"fmt"
	"strings"
)

const timeLayout = "2006-01-02 15:04"

func priceLine(details Details) string {
	if details.ServicePrice == nil {
		return "N/A"
	}
	return fmt.Sprintf("$%.2f", *details.ServicePrice)
}

func confirmationText(d Details) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hello %s,\n\n", d.ClientName)
	b.WriteString("Your appointment has been confirmed successfully!\n\n")
	b.WriteString("Appointment Details:\n")
	fmt.Fprintf(&b, "- Service: %s\n", d.ServiceName)
	fmt.Fprintf(&b, "- Description: %s\n", d.ServiceDescription)
	fmt.Fprintf(&b, "- Date and Time: %s - %s\n",
		d.ScheduledStart.Format(timeLayout), d.ScheduledEnd.Format("15:04"))
	fmt.Fprintf(&b, "- Duration: %d minutes\n", d.ServiceDurationMin)
	fmt.Fprintf(&b, "- Price: %s\n\n", priceLine(d))
	fmt.Fprintf(&b, "To view your appointment, use this token: %s\n", d.ViewToken)
	fmt.Fprintf(&b, "To cancel, use this token: %s\n\n", d.CancellationToken)
	b.WriteString("We look forward to seeing you.\n")
	return b.String()
}

func confirmationHTML(d Details) string {
	return fmt.Sprintf(`
		<p>Hello %s,</p>
		<p>Your appointment has been confirmed successfully!</p>
		<p><strong>Appointment Details:</strong></p>
		<ul>
			<li><strong>Service:</strong> %s</li>
			<li><strong>Description:</strong> %s</li>
			<li><strong>Date and Time:</strong> %s - %s</li>
			<li><strong>Duration:</strong> %d minutes</li>
			<li><strong>Price:</strong> %s</li>
		</ul>
		<p>View token: <code>%s</code><br>Cancellation token: <code>%s</code></p>
		<p>We look forward to seeing you.</p>
	`, d.ClientName, d.ServiceName, d.ServiceDescription,
		d.ScheduledStart.Format(timeLayout), d.ScheduledEnd.Format("15:04"),
		d.ServiceDurationMin, priceLine(d), d.ViewToken, d.CancellationToken)
}

func cancellationText(d Details) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hello %s,\n\n", d.ClientName)
	b.WriteString("Your appointment has been cancelled.\n\n")
	fmt.Fprintf(&b, "- Service: %s\n", d.ServiceName)
	fmt.Fprintf(&b, "- Date and Time: %s - %s\n\n",
		d.ScheduledStart.Format(timeLayout), d.ScheduledEnd.Format("15:04"))
	b.WriteString("If this was a mistake, you are welcome to book a new appointment.\n")
	return b.String()
}

func cancellationHTML(d Details) string {
	return fmt.Sprintf(`
		<p>Hello %s,</p>
		<p>Your appointment has been cancelled.</p>
		<ul>
			<li><strong>Service:</strong> %s</li>
			<li><strong>Date and Time:</strong> %s - %s</li>
		</ul>
		<p>If this was a mistake, you are welcome to book a new appointment.</p>
	`, d.ClientName, d.ServiceName,
		d.ScheduledStart.Format(timeLayout), d.ScheduledEnd.Format("15:04"))
}

func reminderText(d Details) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hello %s,\n\n", d.ClientName)
	b.WriteString("This is a reminder for your upcoming appointment.\n\n")
	fmt.Fprintf(&b, "- Service: %s\n", d.ServiceName)
	fmt.Fprintf(&b, "- Date and Time: %s - %s\n\n",
		d.ScheduledStart.Format(timeLayout), d.ScheduledEnd.Format("15:04"))
	b.WriteString("Please arrive on time. If you need to cancel, use the token from your confirmation email.\n")
	return b.String()
}

func reminderHTML(d Details) string {
	return fmt.Sprintf(`
		<p>Hello %s,</p>
		<p>This is a reminder for your upcoming appointment.</p>
		<ul>
			<li><strong>Service:</strong> %s</li>
			<li><strong>Date and Time:</strong> %s - %s</li>
		</ul>
		<p>Please arrive on time. If you need to cancel, use the token from your confirmation email.</p>
	`, d.ClientName, d.ServiceName,
		d.ScheduledStart.Format(timeLayout), d.ScheduledEnd.Format("15:04"))
}
