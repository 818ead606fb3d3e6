package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "slotline"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort     = "8080"
	DefaultLogLevel = "info"

	DefaultAdminUsername     = "admin_user"
	DefaultAccessTokenTTL    = 30 * time.Minute
	DefaultAdminTokenTTL     = 60 * time.Minute
	DefaultMinPasswordLength = 8

	// Slot width used for availability grids when a service type resolves to
	// no concrete offering.
	DefaultSlotDurationMin = 30

	DefaultSlotLockTTL = 10 * time.Second
	// Advisory locks cover every quantum-aligned cell a candidate slot
	// touches, so two overlapping requests always contend on at least one
	// lock document.
	DefaultSlotLockQuantum = 5 * time.Minute

	DefaultSMTPHost = "smtp.gmail.com"
	DefaultSMTPPort = 587

	DefaultReminderTopic    = "appointment-reminders"
	DefaultReminderGroupID  = "reminder-mailer"
	DefaultReminderLead     = 55 * time.Minute
	DefaultReminderWindow   = 10 * time.Minute
	DefaultReminderCronSpec = "* * * * *"

	DefaultRateLimitRequests = 30
	DefaultRateLimitWindow   = 1 * time.Minute

	DefaultRequestTimeout = 30 * time.Second
	DefaultIdempotencyTTL = 24 * time.Hour
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	DefaultPaginationLimit = 100
)
