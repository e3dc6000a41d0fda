package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "venuebook"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultRedisDB = 0

	DefaultPort     = "8080"
	DefaultLogLevel = "info"

	DefaultFacilityTimezone   = "Asia/Manila"
	DefaultStrictReservation  = false
	DefaultReservationLockTTL = 30 * time.Second
	DefaultFeedPollInterval   = 5 * time.Second

	DefaultSMTPPort            = 587
	DefaultNotificationTimeout = 10 * time.Second

	DefaultVerificationCodeTTL       = 10 * time.Minute
	DefaultVerificationSweepInterval = 1 * time.Minute
	DefaultVerificationRateRequests  = 5
	DefaultVerificationRateWindow    = 10 * time.Minute

	DefaultRateLimitRequests = 60
	DefaultRateLimitWindow   = 1 * time.Minute

	DefaultRequestTimeout = 30 * time.Second
	DefaultIdempotencyTTL = 24 * time.Hour
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second
)
