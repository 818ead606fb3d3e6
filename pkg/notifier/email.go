package notifier

import (
	"slotline/pkg/logger"

	"gopkg.in/gomail.v2"
)

type EmailConfig struct {
	Host     string
	Port     int
	Sender   string
	Password string
}

type EmailNotifier struct {
	cfg EmailConfig
	log *logger.Logger
}

func NewEmailNotifier(cfg EmailConfig, log *logger.Logger) *EmailNotifier {
	if cfg.Sender == "" || cfg.Password == "" {
		log.Warn("SMTP credentials not configured, email sending is disabled")
	}
	return &EmailNotifier{cfg: cfg, log: log}
}

func (n *EmailNotifier) SendConfirmation(recipient string, details Details) bool {
	return n.send(recipient, "Appointment Confirmation", confirmationText(details), confirmationHTML(details))
}

func (n *EmailNotifier) SendCancellation(recipient string, details Details) bool {
	return n.send(recipient, "Appointment Cancellation", cancellationText(details), cancellationHTML(details))
}

func (n *EmailNotifier) SendReminder(recipient string, details Details) bool {
	return n.send(recipient, "Appointment Reminder", reminderText(details), reminderHTML(details))
}

func (n *EmailNotifier) send(recipient, subjectPrefix, textBody, htmlBody string) bool {
	if n.cfg.Sender == "" || n.cfg.Password == "" {
		n.log.Error("Cannot send email: SMTP credentials are not configured",
			"subject", subjectPrefix,
		)
		return false
	}

	m := gomail.NewMessage()
	m.SetHeader("From", n.cfg.Sender)
	m.SetHeader("To", recipient)
	m.SetHeader("Subject", subjectPrefix)
	m.SetBody("text/plain", textBody)
	m.AddAlternative("text/html", htmlBody)

	d := gomail.NewDialer(n.cfg.Host, n.cfg.Port, n.cfg.Sender, n.cfg.Password)
	if err := d.DialAndSend(m); err != nil {
		n.log.Error("Failed to send email",
			"recipient", recipient,
			"subject", subjectPrefix,
			"error", err,
		)
		return false
	}

	n.log.Info("Email sent", "recipient", recipient, "subject", subjectPrefix)
	return true
}
