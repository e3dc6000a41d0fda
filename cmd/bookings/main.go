package main

import (
	"venuebook/internal/bookings/events"
	"venuebook/internal/bookings/feed"
	"venuebook/internal/bookings/handler"
	"venuebook/internal/bookings/repository"
	"venuebook/internal/bookings/service"
	"venuebook/internal/bookings/validator"
	"venuebook/internal/notification"
	userhandler "venuebook/internal/users/handler"
	userrepository "venuebook/internal/users/repository"
	userservice "venuebook/internal/users/service"
	"venuebook/pkg/app"
	"venuebook/pkg/config"
	kafka_config "venuebook/pkg/kafka/config"
)

const ServiceName = "bookings"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	cfg.SetRedis()

	cfg.Log.Info("Starting Bookings service")
	serverApp := app.NewApplication(cfg)

	usersRepo := userrepository.NewMongoUserRepository(cfg)
	dispatcher := notification.NewDispatcher(
		newSender(cfg),
		notification.NewAdminDirectory(cfg.AdminEmails, usersRepo),
		cfg.Location,
		cfg.Log,
	)

	publisher := newPublisher(cfg)
	serverApp.OnShutdown(func() {
		if err := publisher.Close(); err != nil {
			cfg.Log.Error("Failed to close event publisher", "error", err)
		}
	})

	bookingRepo := repository.NewMongoBookingRepository(cfg)
	hub := feed.NewHub(bookingRepo, cfg.FeedPollInterval, cfg.Log)
	serverApp.Go("bookings-feed", hub.Run)

	bookingService := service.NewBookingService(
		bookingRepo,
		repository.NewBookingLockRepository(cfg),
		validator.NewBookingValidator(cfg.Log, cfg.Location),
		dispatcher,
		publisher,
		hub,
		cfg,
	)
	cfg.Log.Info("Booking service initialized",
		"database", cfg.MongoDatabaseName,
		"strict_reservation", cfg.StrictReservation,
	)

	serverApp.SetApp(
		handler.NewBookingHandler(bookingService, cfg.Location, cfg.Log),
		userhandler.NewUserHandler(userservice.NewUserService(usersRepo, cfg.Log), bookingService, cfg.Log),
	)
	serverApp.Run()
}

func newSender(cfg *config.Config) notification.Sender {
	if !cfg.SMTPConfigured() {
		cfg.Log.Warn("SMTP is not configured, booking emails will not be sent")
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

func newPublisher(cfg *config.Config) events.Publisher {
	kafkaCfg, err := kafka_config.Load()
	if err != nil {
		cfg.Log.Fatal("Invalid Kafka configuration", "error", err)
	}
	kafkaCfg.LogConfiguration(cfg.Log.Info)

	publisher, err := events.NewPublisher(kafkaCfg, cfg.Log)
	if err != nil {
		cfg.Log.Fatal("Failed to create event publisher", "error", err)
	}
	return publisher
}
