package config

import (
	"fmt"
	"net/mail"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"venuebook/pkg/client"
	"venuebook/pkg/locale"
	"venuebook/pkg/logger"

	_ "github.com/joho/godotenv/autoload"
)

type Config struct {
	MongoURI          string
	MongoDatabaseName string
	MongoConnTimeout  time.Duration

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	Port string

	FacilityTimezone   string
	Location           *time.Location
	StrictReservation  bool
	ReservationLockTTL time.Duration
	FeedPollInterval   time.Duration

	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	SMTPFrom     string
	AdminEmails  []string

	// NotificationTimeout bounds how long a request waits for an email.
	NotificationTimeout time.Duration

	VerificationCodeTTL       time.Duration
	VerificationSweepInterval time.Duration
	VerificationRateRequests  int
	VerificationRateWindow    time.Duration

	RateLimitRequests int
	RateLimitWindow   time.Duration

	RequestTimeout time.Duration
	IdempotencyTTL time.Duration
	MaxRequestSize int

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	Log    *logger.Logger
	Client *client.Client
}

// Load reads the configuration from the environment (and a .env file when
// present) and exits the process when it does not validate.
func Load(serviceName string) *Config {
	cfg := &Config{
		MongoURI:          getEnvStr(EnvMongoURI, DefaultMongoURI),
		MongoDatabaseName: getEnvStr(EnvMongoDatabaseName, DefaultMongoDatabaseName),
		MongoConnTimeout:  getEnvDuration(EnvMongoConnTimeout, DefaultMongoConnTimeout),

		RedisAddr:     getEnvStr(EnvRedisAddr, ""),
		RedisPassword: getEnvStr(EnvRedisPassword, ""),
		RedisDB:       getEnvNum(EnvRedisDB, DefaultRedisDB),

		Port: getEnvStr(EnvPort, DefaultPort),

		FacilityTimezone:   getEnvStr(EnvFacilityTimezone, DefaultFacilityTimezone),
		StrictReservation:  getEnvBool(EnvStrictReservation, DefaultStrictReservation),
		ReservationLockTTL: getEnvDuration(EnvReservationLock, DefaultReservationLockTTL),
		FeedPollInterval:   getEnvDuration(EnvFeedPollInterval, DefaultFeedPollInterval),

		SMTPHost:     getEnvStr(EnvSMTPHost, ""),
		SMTPPort:     getEnvNum(EnvSMTPPort, DefaultSMTPPort),
		SMTPUser:     getEnvStr(EnvSMTPUser, ""),
		SMTPPassword: getEnvStr(EnvSMTPPassword, ""),
		SMTPFrom:     getEnvStr(EnvSMTPFrom, ""),
		AdminEmails:  getEnvList(EnvAdminEmails),

		NotificationTimeout: getEnvDuration(EnvNotificationTimeout, DefaultNotificationTimeout),

		VerificationCodeTTL:       getEnvDuration(EnvVerificationCodeTTL, DefaultVerificationCodeTTL),
		VerificationSweepInterval: getEnvDuration(EnvVerificationSweepInterval, DefaultVerificationSweepInterval),
		VerificationRateRequests:  getEnvNum(EnvVerificationRateRequests, DefaultVerificationRateRequests),
		VerificationRateWindow:    getEnvDuration(EnvVerificationRateWindow, DefaultVerificationRateWindow),

		RateLimitRequests: getEnvNum(EnvRateLimitRequests, DefaultRateLimitRequests),
		RateLimitWindow:   getEnvDuration(EnvRateLimitWindow, DefaultRateLimitWindow),

		RequestTimeout: getEnvDuration(EnvRequestTimeout, DefaultRequestTimeout),
		IdempotencyTTL: getEnvDuration(EnvIdempotencyTTL, DefaultIdempotencyTTL),
		MaxRequestSize: getEnvNum(EnvMaxRequestSize, DefaultMaxRequestSize),

		ReadTimeout:     getEnvDuration(EnvReadTimeout, DefaultReadTimeout),
		WriteTimeout:    getEnvDuration(EnvWriteTimeout, DefaultWriteTimeout),
		IdleTimeout:     getEnvDuration(EnvIdleTimeout, DefaultIdleTimeout),
		ShutdownTimeout: getEnvDuration(EnvShutdownTimeout, DefaultShutdownTimeout),

		Log: logger.New(logger.Config{
			Level:     getEnvStr(EnvLogLevel, DefaultLogLevel),
			Format:    logger.JSON,
			AddSource: true,
			Service:   serviceName,
		}),
		Client: client.NewClient(),
	}

	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal(err.Error())
	}
	cfg.LogConfiguration()
	return cfg
}

func (cfg *Config) SetMongo() {
	cfg.Client.SetMongo(cfg.Log, cfg.MongoURI, cfg.MongoConnTimeout)
}

// SetRedis connects the shared Redis client. It is a no-op when REDIS_ADDR is
// unset, in which case services fall back to process-local stores.
func (cfg *Config) SetRedis() {
	if cfg.RedisAddr == "" {
		return
	}
	cfg.Client.SetRedis(cfg.Log, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.MongoConnTimeout)
}

// SMTPConfigured reports whether outgoing mail can be sent at all.
func (cfg *Config) SMTPConfigured() bool {
	return cfg.SMTPHost != "" && cfg.SMTPFrom != ""
}

func (cfg *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(cfg.Port); err != nil || port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("Port must be between 1 and 65535, got: %s", cfg.Port))
	}

	if cfg.MongoURI == "" {
		errors = append(errors, "MongoURI cannot be empty")
	} else if !regexp.MustCompile(`^mongodb(\+srv)?://`).MatchString(cfg.MongoURI) {
		errors = append(errors, fmt.Sprintf("MongoURI must start with 'mongodb://' or 'mongodb+srv://', got: %s", redactMongoURI(cfg.MongoURI)))
	}
	if cfg.MongoDatabaseName == "" {
		errors = append(errors, "MongoDatabaseName cannot be empty")
	}
	if cfg.MongoConnTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("MongoConnTimeout must be positive, got: %s", cfg.MongoConnTimeout))
	}
	if cfg.RedisDB < 0 {
		errors = append(errors, fmt.Sprintf("RedisDB cannot be negative, got: %d", cfg.RedisDB))
	}

	loc, err := locale.LoadLocation(cfg.FacilityTimezone)
	if err != nil {
		errors = append(errors, fmt.Sprintf("FacilityTimezone is not a valid IANA zone: %s", cfg.FacilityTimezone))
	} else {
		cfg.Location = loc
	}
	if cfg.ReservationLockTTL <= 0 {
		errors = append(errors, fmt.Sprintf("ReservationLockTTL must be positive, got: %s", cfg.ReservationLockTTL))
	}
	if cfg.FeedPollInterval <= 0 {
		errors = append(errors, fmt.Sprintf("FeedPollInterval must be positive, got: %s", cfg.FeedPollInterval))
	}

	if cfg.SMTPPort < 1 || cfg.SMTPPort > 65535 {
		errors = append(errors, fmt.Sprintf("SMTPPort must be between 1 and 65535, got: %d", cfg.SMTPPort))
	}
	if cfg.SMTPFrom != "" {
		if _, err := mail.ParseAddress(cfg.SMTPFrom); err != nil {
			errors = append(errors, fmt.Sprintf("SMTPFrom must be a valid address, got: %s", cfg.SMTPFrom))
		}
	}
	for _, email := range cfg.AdminEmails {
		if _, err := mail.ParseAddress(email); err != nil {
			errors = append(errors, fmt.Sprintf("AdminEmails contains an invalid address: %s", email))
		}
	}

	if cfg.NotificationTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("NotificationTimeout must be positive, got: %s", cfg.NotificationTimeout))
	} else if cfg.NotificationTimeout >= cfg.RequestTimeout {
		errors = append(errors, fmt.Sprintf("NotificationTimeout must be shorter than RequestTimeout, got: %s >= %s", cfg.NotificationTimeout, cfg.RequestTimeout))
	}

	if cfg.VerificationCodeTTL <= 0 {
		errors = append(errors, fmt.Sprintf("VerificationCodeTTL must be positive, got: %s", cfg.VerificationCodeTTL))
	}
	if cfg.VerificationSweepInterval <= 0 {
		errors = append(errors, fmt.Sprintf("VerificationSweepInterval must be positive, got: %s", cfg.VerificationSweepInterval))
	}
	if cfg.VerificationRateRequests <= 0 {
		errors = append(errors, fmt.Sprintf("VerificationRateRequests must be positive, got: %d", cfg.VerificationRateRequests))
	}
	if cfg.VerificationRateWindow <= 0 {
		errors = append(errors, fmt.Sprintf("VerificationRateWindow must be positive, got: %s", cfg.VerificationRateWindow))
	}

	if cfg.RateLimitRequests <= 0 {
		errors = append(errors, fmt.Sprintf("RateLimitRequests must be positive, got: %d", cfg.RateLimitRequests))
	}
	if cfg.RateLimitWindow <= 0 {
		errors = append(errors, fmt.Sprintf("RateLimitWindow must be positive, got: %s", cfg.RateLimitWindow))
	}
	if cfg.RequestTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("RequestTimeout must be positive, got: %s", cfg.RequestTimeout))
	}
	if cfg.IdempotencyTTL <= 0 {
		errors = append(errors, fmt.Sprintf("IdempotencyTTL must be positive, got: %s", cfg.IdempotencyTTL))
	}
	if cfg.MaxRequestSize <= 0 {
		errors = append(errors, fmt.Sprintf("MaxRequestSize must be positive, got: %d", cfg.MaxRequestSize))
	}
	if cfg.ReadTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("ReadTimeout must be positive, got: %s", cfg.ReadTimeout))
	}
	if cfg.WriteTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("WriteTimeout must be positive, got: %s", cfg.WriteTimeout))
	}
	if cfg.IdleTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("IdleTimeout must be positive, got: %s", cfg.IdleTimeout))
	}
	if cfg.ShutdownTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("ShutdownTimeout must be positive, got: %s", cfg.ShutdownTimeout))
	}

	if len(errors) > 0 {
		errMsg := "Configuration validation failed:\n"
		for i, err := range errors {
			errMsg += fmt.Sprintf("  %d. %s\n", i+1, err)
		}
		return fmt.Errorf("%s", errMsg)
	}

	return nil
}

func (cfg *Config) LogConfiguration() {
	cfg.Log.Info("Configuration loaded successfully",
		"mongo_uri", redactMongoURI(cfg.MongoURI),
		"mongo_database", cfg.MongoDatabaseName,
		"mongo_conn_timeout", cfg.MongoConnTimeout,
		"redis_addr", cfg.RedisAddr,
		"redis_db", cfg.RedisDB,
		"redis_password_set", cfg.RedisPassword != "",
		"port", cfg.Port,
		"facility_timezone", cfg.FacilityTimezone,
		"strict_reservation", cfg.StrictReservation,
		"reservation_lock_ttl", cfg.ReservationLockTTL,
		"feed_poll_interval", cfg.FeedPollInterval,
		"smtp_host", cfg.SMTPHost,
		"smtp_port", cfg.SMTPPort,
		"smtp_user_set", cfg.SMTPUser != "",
		"smtp_password_set", cfg.SMTPPassword != "",
		"smtp_from", cfg.SMTPFrom,
		"admin_emails_count", len(cfg.AdminEmails),
		"notification_timeout", cfg.NotificationTimeout,
		"verification_code_ttl", cfg.VerificationCodeTTL,
		"verification_sweep_interval", cfg.VerificationSweepInterval,
		"verification_rate_requests", cfg.VerificationRateRequests,
		"verification_rate_window", cfg.VerificationRateWindow,
		"rate_limit_requests", cfg.RateLimitRequests,
		"rate_limit_window", cfg.RateLimitWindow,
		"request_timeout", cfg.RequestTimeout,
		"idempotency_ttl", cfg.IdempotencyTTL,
		"max_request_size", cfg.MaxRequestSize,
		"read_timeout", cfg.ReadTimeout,
		"write_timeout", cfg.WriteTimeout,
		"idle_timeout", cfg.IdleTimeout,
		"shutdown_timeout", cfg.ShutdownTimeout,
	)
}

func (cfg *Config) GracefulShutdown() {
	cfg.Client.GracefulShutdown(cfg.Log, cfg.ShutdownTimeout)
}

func redactMongoURI(uri string) string {
	credentialRegex := regexp.MustCompile(`(mongodb(\+srv)?://)[^:]+:[^@]+@`)
	return credentialRegex.ReplaceAllString(uri, "${1}***:***@")
}

func getEnvStr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvNum(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

// getEnvList splits a comma separated variable, dropping empty entries.
func getEnvList(key string) []string {
	var out []string
	for _, item := range strings.Split(os.Getenv(key), ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
