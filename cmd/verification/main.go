package main

import (
	"venuebook/internal/notification"
	"venuebook/internal/verification/handler"
	"venuebook/internal/verification/service"
	"venuebook/internal/verification/store"
	"venuebook/pkg/app"
	"venuebook/pkg/config"
	"venuebook/pkg/middleware"
)

const ServiceName = "verification"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetRedis()

	cfg.Log.Info("Starting Verification service")
	serverApp := app.NewApplication(cfg)

	codes := newStore(cfg, serverApp)
	dispatcher := notification.NewDispatcher(newSender(cfg), notification.NewAdminDirectory(cfg.AdminEmails, nil), cfg.Location, cfg.Log)
	verificationService := service.NewVerificationService(codes, dispatcher, cfg.VerificationCodeTTL, cfg.Log)

	limiter := middleware.NewKeyedRateLimiter(cfg.VerificationRateRequests, cfg.VerificationRateWindow, cfg.Log)
	serverApp.OnShutdown(limiter.Stop)

	serverApp.SetApp(handler.NewVerificationHandler(verificationService, limiter, cfg.Log))
	serverApp.Run()
}

func newStore(cfg *config.Config, serverApp *app.Application) store.Store {
	if cfg.Client.Redis != nil {
		cfg.Log.Info("Verification codes stored in Redis", "addr", cfg.RedisAddr)
		return store.NewRedis(cfg.Client.Redis)
	}

	memory := store.NewMemory()
	memory.StartJanitor(cfg.VerificationSweepInterval)
	serverApp.OnShutdown(memory.Stop)
	cfg.Log.Info("Verification codes stored in process memory",
		"sweep_interval", cfg.VerificationSweepInterval,
	)
	return memory
}

func newSender(cfg *config.Config) notification.Sender {
	if !cfg.SMTPConfigured() {
		cfg.Log.Warn("SMTP is not configured, verification codes cannot be delivered")
		return notification.DisabledSender()
	}
	return notification.NewSMTPSender(notification.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUser,
		Password: cfg.SMTPPassword,
		From:     cfg.SMTPFrom,
	})
}
