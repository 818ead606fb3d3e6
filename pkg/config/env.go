package config

const (
	EnvMongoURI          = "MONGO_URI"
	EnvMongoDatabaseName = "MONGO_DATABASE_NAME"
	EnvMongoConnTimeout  = "MONGO_CONN_TIMEOUT"

	EnvPort     = "PORT"
	EnvLogLevel = "LOG_LEVEL"

	EnvJWTSecret          = "JWT_SECRET"
	EnvAdminUsername      = "ADMIN_USERNAME"
	EnvAdminPassword      = "ADMIN_PASSWORD"
	EnvAccessTokenTTL     = "ACCESS_TOKEN_TTL"
	EnvAdminTokenTTL      = "ADMIN_TOKEN_TTL"
	EnvMinPasswordLength  = "MIN_PASSWORD_LENGTH"
	EnvDefaultServiceSlot = "DEFAULT_SLOT_DURATION_MIN"

	EnvSlotLockTTL     = "SLOT_LOCK_TTL"
	EnvSlotLockQuantum = "SLOT_LOCK_QUANTUM"

	EnvSMTPHost    = "SMTP_HOST"
	EnvSMTPPort    = "SMTP_PORT"
	EnvEmailSender = "EMAIL_ADDRESS"
	EnvEmailPass   = "EMAIL_PASSWORD"

	EnvKafkaBrokers     = "KAFKA_BROKERS"
	EnvReminderTopic    = "REMINDER_TOPIC"
	EnvReminderGroupID  = "REMINDER_GROUP_ID"
	EnvReminderLead     = "REMINDER_LEAD"
	EnvReminderWindow   = "REMINDER_WINDOW"
	EnvReminderCronSpec = "REMINDER_CRON_SPEC"

	EnvRateLimitRequests = "RATE_LIMIT_REQUESTS"
	EnvRateLimitWindow   = "RATE_LIMIT_WINDOW"

	EnvRequestTimeout = "REQUEST_TIMEOUT"
	EnvIdempotencyTTL = "IDEMPOTENCY_TTL"
	EnvMaxRequestSize = "MAX_REQUEST_SIZE"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"
)
