package config

const (
	EnvMongoURI          = "MONGO_URI"
	EnvMongoDatabaseName = "MONGO_DATABASE_NAME"
	EnvMongoConnTimeout  = "MONGO_CONN_TIMEOUT"

	EnvRedisAddr     = "REDIS_ADDR"
	EnvRedisPassword = "REDIS_PASSWORD"
	EnvRedisDB       = "REDIS_DB"

	EnvPort     = "PORT"
	EnvLogLevel = "LOG_LEVEL"

	EnvFacilityTimezone  = "FACILITY_TIMEZONE"
	EnvStrictReservation = "STRICT_RESERVATION"
	EnvReservationLock   = "RESERVATION_LOCK_TTL"
	EnvFeedPollInterval  = "FEED_POLL_INTERVAL"

	EnvSMTPHost     = "SMTP_HOST"
	EnvSMTPPort     = "SMTP_PORT"
	EnvSMTPUser     = "SMTP_USER"
	EnvSMTPPassword = "SMTP_PASSWORD"
	EnvSMTPFrom     = "SMTP_FROM"
	EnvAdminEmails  = "ADMIN_EMAILS"

	EnvNotificationTimeout = "NOTIFICATION_TIMEOUT"

	EnvVerificationCodeTTL       = "VERIFICATION_CODE_TTL"
	EnvVerificationSweepInterval = "VERIFICATION_SWEEP_INTERVAL"
	EnvVerificationRateRequests  = "VERIFICATION_RATE_REQUESTS"
	EnvVerificationRateWindow    = "VERIFICATION_RATE_WINDOW"

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
