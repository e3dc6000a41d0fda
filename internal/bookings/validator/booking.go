package validator

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"time"

	"venuebook/internal/bookings/lifecycle"
	"venuebook/pkg/locale"
	"venuebook/pkg/logger"
	"venuebook/pkg/model"

	"github.com/go-playground/validator/v10"
)

var (
	clockRegex  = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)
	mobileRegex = regexp.MustCompile(`^[0-9]{11}$`)
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	var messages []string
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(v), strings.Join(messages, "; "))
}

// Details renders the errors as a field to message map for API responses.
func (v ValidationErrors) Details() map[string]any {
	details := make(map[string]any, len(v))
	for _, err := range v {
		details[err.Field] = err.Message
	}
	return details
}

type BookingValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
	location *time.Location
	now      func() time.Time
}

func NewBookingValidator(log *logger.Logger, loc *time.Location) *BookingValidator {
	v := validator.New()
	v.RegisterTagNameFunc(jsonFieldName)

	custom := map[string]validator.Func{
		"venue":       validateVenue,
		"hhmm":        validateClock,
		"mobile11":    validateMobile,
		"after_start": validateAfterStart,
	}
	for tag, fn := range custom {
		if err := v.RegisterValidation(tag, fn); err != nil {
			log.Fatal("Failed to register booking validation", "tag", tag, "error", err)
		}
	}

	log.Debug("Booking validator initialized successfully")

	return &BookingValidator{
		validate: v,
		logger:   log,
		location: loc,
		now:      time.Now,
	}
}

func jsonFieldName(field reflect.StructField) string {
	name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
	if name == "-" || name == "" {
		return field.Name
	}
	return name
}

func validateVenue(fl validator.FieldLevel) bool {
	return model.VenueType(fl.Field().String()).Valid()
}

func validateClock(fl validator.FieldLevel) bool {
	return clockRegex.MatchString(fl.Field().String())
}

func validateMobile(fl validator.FieldLevel) bool {
	return mobileRegex.MatchString(fl.Field().String())
}

// validateAfterStart compares EndTime with the sibling StartTime field. It
// passes when StartTime is itself malformed so only one error is reported.
func validateAfterStart(fl validator.FieldLevel) bool {
	start := fl.Parent().FieldByName("StartTime")
	if !start.IsValid() {
		return true
	}
	startMin, err := lifecycle.ClockMinutes(start.String())
	if err != nil {
		return true
	}
	endMin, err := lifecycle.ClockMinutes(fl.Field().String())
	if err != nil {
		return true
	}
	return endMin > startMin
}

// Validate checks a new booking. Besides the struct rules the event date may
// not lie before today in the facility's time zone.
func (v *BookingValidator) Validate(booking *model.Booking) error {
	if err := v.validate.Struct(booking); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}

	today := locale.StartOfDay(v.now(), v.location)
	if locale.StartOfDay(booking.Date, v.location).Before(today) {
		return ValidationErrors{
			ValidationError{
				Field:   "date",
				Message: "date cannot be in the past",
			},
		}
	}

	return nil
}

func (v *BookingValidator) translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		message := err.Error()

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", err.Field())
		case "min":
			message = fmt.Sprintf("%s must be at least %s", err.Field(), err.Param())
		case "max":
			message = fmt.Sprintf("%s must be at most %s", err.Field(), err.Param())
		case "mongodb":
			message = fmt.Sprintf("%s must be a valid MongoDB ObjectID", err.Field())
		case "email":
			message = fmt.Sprintf("%s must be a valid email address", err.Field())
		case "oneof":
			message = fmt.Sprintf("%s must be one of: %s", err.Field(), err.Param())
		case "venue":
			message = fmt.Sprintf("%s must be one of: %s, %s", err.Field(), model.VenueDomeTent, model.VenueTrainingHall)
		case "hhmm":
			message = fmt.Sprintf("%s must be in HH:MM format (00:00-23:59)", err.Field())
		case "mobile11":
			message = "Mobile number must be exactly 11 digits"
		case "after_start":
			message = fmt.Sprintf("%s must be after start_time", err.Field())
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}
