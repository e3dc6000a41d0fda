package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	bookingserrors "venuebook/internal/bookings/errors"
	"venuebook/internal/bookings/events"
	"venuebook/internal/bookings/feed"
	"venuebook/internal/bookings/lifecycle"
	"venuebook/internal/bookings/repository"
	"venuebook/internal/bookings/validator"
	"venuebook/internal/notification"
	"venuebook/pkg/config"
	apperrors "venuebook/pkg/errors"
	"venuebook/pkg/locale"
	"venuebook/pkg/model"
	"venuebook/pkg/sanitizer"

	"go.mongodb.org/mongo-driver/mongo"
)

type NotificationOutcome string

const (
	NotificationSent    NotificationOutcome = "sent"
	NotificationFailed  NotificationOutcome = "failed"
	NotificationNoEmail NotificationOutcome = "no_email"
)

const (
	msgConfirmedEmailSent   = "Booking has been confirmed and email notification has been sent successfully!"
	msgConfirmedEmailFailed = "Booking has been confirmed successfully, but email notification could not be sent."
	msgConfirmedNoEmail     = "Booking has been confirmed successfully! (No email address available)"
)

// ConfirmOutcome reports a confirmation and what happened to the client
// email. The status change stands whatever the notification result.
type ConfirmOutcome struct {
	Booking      *model.Booking      `json:"booking"`
	Notification NotificationOutcome `json:"notification"`
	Message      string              `json:"message"`
}

type CreateResult struct {
	Booking           *model.Booking            `json:"booking"`
	AdminNotification *notification.AdminReport `json:"admin_notification,omitempty"`
	NotificationError string                    `json:"notification_error,omitempty"`
}

type BookingView struct {
	Venue    model.VenueType        `json:"venue,omitempty"`
	Bucket   lifecycle.Bucket       `json:"bucket"`
	Bookings []*model.Booking       `json:"bookings"`
	Counts   lifecycle.StatusCounts `json:"counts"`
}

type CalendarView struct {
	Venue  model.VenueType          `json:"venue"`
	Bucket lifecycle.Bucket         `json:"bucket"`
	Year   int                      `json:"year"`
	Month  time.Month               `json:"month"`
	Cells  []lifecycle.CalendarCell `json:"cells"`
}

type Availability struct {
	Venue    model.VenueType `json:"venue"`
	Date     string          `json:"date"`
	Occupied bool            `json:"occupied"`
}

type BookingService interface {
	Create(ctx context.Context, booking *model.Booking) (*CreateResult, error)
	GetByID(ctx context.Context, id string) (*model.Booking, error)
	List(ctx context.Context, venue model.VenueType) ([]*model.Booking, error)
	Confirm(ctx context.Context, id string) (*ConfirmOutcome, error)
	Reject(ctx context.Context, id string, confirmed bool) (*model.Booking, error)
	View(ctx context.Context, venue model.VenueType, bucket lifecycle.Bucket) (*BookingView, error)
	Calendar(ctx context.Context, venue model.VenueType, bucket lifecycle.Bucket, year int, month time.Month) (*CalendarView, error)
	Availability(ctx context.Context, venue model.VenueType, date time.Time) (*Availability, error)
	Subscribe(ctx context.Context, venue model.VenueType, fn feed.Listener) (unsubscribe func())
}

type bookingService struct {
	repo      repository.BookingRepository
	lockRepo  repository.BookingLockRepository
	validator *validator.BookingValidator
	notifier  notification.Dispatcher
	publisher events.Publisher
	hub       *feed.Hub
	cfg       *config.Config
}

func NewBookingService(
	repo repository.BookingRepository,
	lockRepo repository.BookingLockRepository,
	validator *validator.BookingValidator,
	notifier notification.Dispatcher,
	publisher events.Publisher,
	hub *feed.Hub,
	cfg *config.Config,
) BookingService {
	return &bookingService{
		repo:      repo,
		lockRepo:  lockRepo,
		validator: validator,
		notifier:  notifier,
		publisher: publisher,
		hub:       hub,
		cfg:       cfg,
	}
}

func (s *bookingService) Create(ctx context.Context, booking *model.Booking) (*CreateResult, error) {
	s.applyDefaults(booking)
	s.sanitize(booking)
	if err := s.validate(booking); err != nil {
		return nil, err
	}

	var err error
	if s.cfg.StrictReservation {
		err = s.createStrict(ctx, booking)
	} else {
		err = s.createAdvisory(ctx, booking)
	}
	if err != nil {
		if !apperrors.IsAppError(err) {
			err = apperrors.Internal("Failed to create booking", err)
		}
		s.cfg.Log.Error("Failed to create booking", "venue", booking.VenueType, "error", err)
		return nil, err
	}

	s.cfg.Log.Info("Booking created successfully",
		"id", booking.ID,
		"venue", booking.VenueType,
		"date", locale.DayKey(booking.Date, s.cfg.Location),
	)

	result := &CreateResult{Booking: booking}
	report, err := withDeadline(ctx, s.notificationTimeout(), func(ctx context.Context) (*notification.AdminReport, error) {
		return s.notifier.SendAdminNotification(ctx, booking)
	})
	if err != nil {
		s.cfg.Log.Warn("Admin notification not sent", "id", booking.ID, "error", err)
		result.NotificationError = err.Error()
	}
	result.AdminNotification = report

	s.publish(ctx, events.BookingCreated, booking)
	return result, nil
}

// createAdvisory checks the day and inserts without coordination. Two
// requests for the same free day can both pass the check.
func (s *bookingService) createAdvisory(ctx context.Context, booking *model.Booking) error {
	if err := s.verifyAvailability(ctx, booking); err != nil {
		return err
	}
	return s.repo.Create(ctx, booking)
}

func (s *bookingService) createStrict(ctx context.Context, booking *model.Booking) error {
	lockID, err := s.acquireDayLock(ctx, booking.VenueType, booking.Date)
	if err != nil {
		return err
	}
	defer func() {
		if releaseErr := s.releaseDayLock(context.WithoutCancel(ctx), lockID); releaseErr != nil {
			s.cfg.Log.Warn("Failed to release booking lock", "lock_id", lockID, "error", releaseErr)
		}
	}()

	return s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if err := s.verifyAvailability(sessCtx, booking); err != nil {
			return err
		}
		return s.repo.Create(sessCtx, booking)
	})
}

func (s *bookingService) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.mapLookupError(id, err, "Failed to retrieve booking")
	}
	return booking, nil
}

// List returns the bookings of venue, or of every venue when venue is empty,
// ordered by date ascending.
func (s *bookingService) List(ctx context.Context, venue model.VenueType) ([]*model.Booking, error) {
	if err := checkVenue(venue, true); err != nil {
		return nil, err
	}

	var (
		bookings []*model.Booking
		err      error
	)
	if venue == "" {
		bookings, err = s.repo.FindAll(ctx)
	} else {
		bookings, err = s.repo.FindByVenue(ctx, venue)
	}
	if err != nil {
		s.cfg.Log.Error("Failed to list bookings", "venue", venue, "error", err)
		return nil, apperrors.Internal("Failed to retrieve bookings", err)
	}

	lifecycle.SortByDateAsc(bookings)
	return bookings, nil
}

func (s *bookingService) Confirm(ctx context.Context, id string) (*ConfirmOutcome, error) {
	booking, err := s.changeStatus(ctx, id, model.StatusConfirmed)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.BookingConfirmed, booking)

	outcome := &ConfirmOutcome{Booking: booking}
	if booking.ClientEmail == "" {
		outcome.Notification = NotificationNoEmail
		outcome.Message = msgConfirmedNoEmail
		return outcome, nil
	}

	_, err = withDeadline(ctx, s.notificationTimeout(), func(ctx context.Context) (struct{}, error) {
		return struct{}{}, s.notifier.SendConfirmationEmail(ctx, booking.ClientEmail, booking)
	})
	if err != nil {
		s.cfg.Log.Warn("Confirmation email not sent", "id", id, "error", err)
		outcome.Notification = NotificationFailed
		outcome.Message = msgConfirmedEmailFailed
		return outcome, nil
	}

	outcome.Notification = NotificationSent
	outcome.Message = msgConfirmedEmailSent
	return outcome, nil
}

// Reject cancels a pending booking. The caller must pass confirmed=true
// since a cancelled booking can never be reopened.
func (s *bookingService) Reject(ctx context.Context, id string, confirmed bool) (*model.Booking, error) {
	if !confirmed {
		return nil, apperrors.ConfirmationRequired(
			"Rejecting a booking cannot be undone. Resend the request with \"confirm\": true to proceed.")
	}

	booking, err := s.changeStatus(ctx, id, model.StatusCancelled)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.BookingCancelled, booking)
	return booking, nil
}

func (s *bookingService) View(ctx context.Context, venue model.VenueType, bucket lifecycle.Bucket) (*BookingView, error) {
	bookings, err := s.List(ctx, venue)
	if err != nil {
		return nil, err
	}
	return &BookingView{
		Venue:    venue,
		Bucket:   bucket,
		Bookings: bucket.Project(bookings),
		Counts:   lifecycle.CountByStatus(bookings),
	}, nil
}

func (s *bookingService) Calendar(ctx context.Context, venue model.VenueType, bucket lifecycle.Bucket, year int, month time.Month) (*CalendarView, error) {
	if err := checkVenue(venue, false); err != nil {
		return nil, err
	}
	if month < time.January || month > time.December {
		return nil, apperrors.InvalidInput("Month must be between 1 and 12")
	}

	from := time.Date(year, month, 1, 0, 0, 0, 0, s.cfg.Location)
	bookings, err := s.repo.FindByVenueBetween(ctx, venue, from, from.AddDate(0, 1, 0))
	if err != nil {
		s.cfg.Log.Error("Failed to load calendar bookings", "venue", venue, "error", err)
		return nil, apperrors.Internal("Failed to retrieve bookings", err)
	}

	return &CalendarView{
		Venue:  venue,
		Bucket: bucket,
		Year:   year,
		Month:  month,
		Cells:  lifecycle.BuildCalendar(bookings, venue, bucket, year, month, s.cfg.Location),
	}, nil
}

func (s *bookingService) Availability(ctx context.Context, venue model.VenueType, date time.Time) (*Availability, error) {
	if err := checkVenue(venue, false); err != nil {
		return nil, err
	}

	day := locale.StartOfDay(date, s.cfg.Location)
	bookings, err := s.repo.FindByVenueBetween(ctx, venue, day, day.AddDate(0, 0, 1))
	if err != nil {
		return nil, apperrors.Internal("Failed to check availability", err)
	}

	return &Availability{
		Venue:    venue,
		Date:     locale.DayKey(day, s.cfg.Location),
		Occupied: lifecycle.IsDateOccupied(bookings, venue, &day),
	}, nil
}

// Subscribe forwards feed snapshots to fn, filtered to venue when set, until
// ctx is done or the returned func is called.
func (s *bookingService) Subscribe(ctx context.Context, venue model.VenueType, fn feed.Listener) (unsubscribe func()) {
	unsub := s.hub.Subscribe(func(bookings []*model.Booking) {
		fn(lifecycle.FilterByVenue(bookings, venue))
	})
	stop := context.AfterFunc(ctx, unsub)
	return func() {
		stop()
		unsub()
	}
}

// --- Helpers ---

func (s *bookingService) notificationTimeout() time.Duration {
	if s.cfg.NotificationTimeout > 0 {
		return s.cfg.NotificationTimeout
	}
	return config.DefaultNotificationTimeout
}

// withDeadline runs send in its own goroutine and returns after timeout even
// when send ignores ctx.
func withDeadline[T any](ctx context.Context, timeout time.Duration, send func(context.Context) (T, error)) (T, error) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
	defer cancel()

	type result struct {
		value T
		err   error
	}
	done := make(chan result, 1)
	go func() {
		value, err := send(ctx)
		done <- result{value, err}
	}()

	select {
	case r := <-done:
		return r.value, r.err
	case <-ctx.Done():
		var zero T
		return zero, fmt.Errorf("notification not delivered within %s: %w", timeout, ctx.Err())
	}
}

func (s *bookingService) changeStatus(ctx context.Context, id string, target model.Status) (*model.Booking, error) {
	booking, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	current := booking.EffectiveStatus()
	next, err := lifecycle.Transition(current, target)
	if err != nil {
		s.cfg.Log.Warn("Rejected booking status change",
			"id", id,
			"current", current,
			"target", target,
		)
		return nil, apperrors.Conflict(fmt.Sprintf("Booking is already %s and can no longer change", current))
	}

	if err := s.repo.UpdateStatus(ctx, id, next); err != nil {
		return nil, s.mapLookupError(id, err, "Failed to update booking status")
	}
	booking.Status = next

	s.cfg.Log.Info("Booking status changed", "id", id, "from", current, "to", next)
	return booking, nil
}

func (s *bookingService) mapLookupError(id string, err error, message string) error {
	if errors.Is(err, bookingserrors.ErrNotFound) {
		return apperrors.NotFoundWithID("Booking", id)
	}
	if errors.Is(err, bookingserrors.ErrInvalidID) {
		return apperrors.InvalidInput("Invalid booking ID format")
	}
	s.cfg.Log.Error(message, "id", id, "error", err)
	return apperrors.Internal(message, err)
}

func (s *bookingService) publish(ctx context.Context, eventType string, booking *model.Booking) {
	if err := s.publisher.Publish(ctx, eventType, booking); err != nil {
		s.cfg.Log.Warn("Failed to publish booking event", "event_type", eventType, "id", booking.ID, "error", err)
	}
}

func (s *bookingService) sanitize(b *model.Booking) {
	b.ContactPerson = sanitizer.SanitizeText(b.ContactPerson)
	b.RequestingOffice = sanitizer.SanitizeText(b.RequestingOffice)
	b.EventTitle = sanitizer.SanitizeText(b.EventTitle)
	b.TypeOfEvent = sanitizer.SanitizeText(b.TypeOfEvent)
	b.BookingReferenceNo = sanitizer.SanitizeText(b.BookingReferenceNo)
	b.DateOfRequest = sanitizer.SanitizeText(b.DateOfRequest)
	b.PreferredDates = sanitizer.SanitizeText(b.PreferredDates)
	b.TypeOfActivity.Others = sanitizer.SanitizeText(b.TypeOfActivity.Others)
	b.EquipmentNeeded.Others = sanitizer.SanitizeText(b.EquipmentNeeded.Others)
	b.AdditionalNotes = sanitizer.SanitizeNotes(b.AdditionalNotes)
	b.MobileNo = sanitizer.SanitizeMobile(b.MobileNo)
	b.ClientEmail = sanitizer.SanitizeEmail(b.ClientEmail)
	b.StartTime = sanitizer.TrimAndNormalize(b.StartTime)
	b.EndTime = sanitizer.TrimAndNormalize(b.EndTime)
}

// applyDefaults forces the server owned fields of a new booking. Every
// booking starts pending and its date is the start of the facility day.
func (s *bookingService) applyDefaults(b *model.Booking) {
	b.ID = ""
	b.Status = model.StatusPending
	if !b.Date.IsZero() {
		b.Date = locale.StartOfDay(b.Date, s.cfg.Location)
	}
	if !b.EquipmentNeeded.Tables {
		b.EquipmentNeeded.TablesQuantity = 0
	}
	if !b.EquipmentNeeded.Chairs {
		b.EquipmentNeeded.ChairsQuantity = 0
	}
}

func (s *bookingService) validate(booking *model.Booking) error {
	if err := s.validator.Validate(booking); err != nil {
		s.cfg.Log.Warn("Booking validation failed", "error", err)
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return apperrors.Validation("Booking validation failed", verrs.Details())
		}
		return apperrors.Validation("Booking validation failed", map[string]any{"error": err.Error()})
	}
	return nil
}

func (s *bookingService) verifyAvailability(ctx context.Context, booking *model.Booking) error {
	day := locale.StartOfDay(booking.Date, s.cfg.Location)
	existing, err := s.repo.FindByVenueBetween(ctx, booking.VenueType, day, day.AddDate(0, 0, 1))
	if err != nil {
		return apperrors.Internal("Failed to check existing bookings", err)
	}

	if lifecycle.IsDateOccupied(existing, booking.VenueType, &day) {
		return apperrors.Conflict(fmt.Sprintf(
			"The %s is already booked on %s. Please choose another date.",
			booking.VenueType.Label(),
			notification.FormatEventDate(day, s.cfg.Location),
		)).WithDetails(map[string]any{"reason": bookingserrors.ErrDateOccupied.Error()})
	}
	return nil
}

// acquireDayLock inserts the advisory lock document for venue and day. A
// duplicate key means another request is booking the same day right now.
func (s *bookingService) acquireDayLock(ctx context.Context, venue model.VenueType, date time.Time) (string, error) {
	lockID := model.BookingLockID(venue, locale.DayKey(date, s.cfg.Location))

	lock := &model.BookingLock{
		ID:        lockID,
		ExpiresAt: time.Now().Add(s.cfg.ReservationLockTTL),
	}

	if err := s.lockRepo.Create(ctx, lock); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", apperrors.Conflict("This date is currently being booked by another request. Please try again.")
		}
		return "", apperrors.Internal("Failed to acquire booking lock", err)
	}

	return lockID, nil
}

func (s *bookingService) releaseDayLock(ctx context.Context, lockID string) error {
	return s.lockRepo.Delete(ctx, lockID)
}

func checkVenue(venue model.VenueType, allowEmpty bool) error {
	if venue == "" && allowEmpty {
		return nil
	}
	if !venue.Valid() {
		return apperrors.InvalidInput(fmt.Sprintf("Unknown venue %q", venue))
	}
	return nil
}
