package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"venuebook/internal/bookings/lifecycle"
	"venuebook/internal/bookings/service"
	apperrors "venuebook/pkg/errors"
	httputil "venuebook/pkg/http"
	"venuebook/pkg/locale"
	"venuebook/pkg/logger"
	"venuebook/pkg/model"

	"github.com/julienschmidt/httprouter"
)

const streamKeepAlive = 25 * time.Second

type BookingHandler struct {
	service  service.BookingService
	location *time.Location
	log      *logger.Logger
}

func NewBookingHandler(service service.BookingService, location *time.Location, log *logger.Logger) *BookingHandler {
	return &BookingHandler{
		service:  service,
		location: location,
		log:      log,
	}
}

// createBookingRequest accepts the date either as YYYY-MM-DD or RFC 3339.
type createBookingRequest struct {
	model.Booking
	Date string `json:"date"`
}

type rejectRequest struct {
	Confirm bool `json:"confirm"`
}

func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req createBookingRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeError(w, "Create", err)
		return
	}

	booking := req.Booking
	if req.Date != "" {
		date, err := h.parseDate(req.Date)
		if err != nil {
			h.writeError(w, "Create", err)
			return
		}
		booking.Date = date
	}

	result, err := h.service.Create(r.Context(), &booking)
	if err != nil {
		h.writeError(w, "Create", err)
		return
	}

	if err := httputil.WriteCreated(w, result); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "operation", "WriteCreated", "error", err)
	}
}

func (h *BookingHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	booking, err := h.service.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "GetByID", err)
		return
	}

	if err := httputil.WriteSuccess(w, booking); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	bookings, err := h.service.List(r.Context(), venueParam(r))
	if err != nil {
		h.writeError(w, "List", err)
		return
	}

	if err := httputil.WriteSuccess(w, bookings); err != nil {
		h.log.Error("failed to write success response", "handler", "List", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) Confirm(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	outcome, err := h.service.Confirm(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "Confirm", err)
		return
	}

	if err := httputil.WriteMessage(w, http.StatusOK, outcome.Message, outcome); err != nil {
		h.log.Error("failed to write success response", "handler", "Confirm", "operation", "WriteMessage", "error", err)
	}
}

// Reject needs {"confirm": true} in the body. A missing body counts as
// not confirmed.
func (h *BookingHandler) Reject(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var req rejectRequest
	if r.ContentLength != 0 {
		if err := httputil.DecodeJSON(r, &req); err != nil {
			h.writeError(w, "Reject", err)
			return
		}
	}

	booking, err := h.service.Reject(r.Context(), ps.ByName("id"), req.Confirm)
	if err != nil {
		h.writeError(w, "Reject", err)
		return
	}

	if err := httputil.WriteMessage(w, http.StatusOK, "Booking has been rejected.", booking); err != nil {
		h.log.Error("failed to write success response", "handler", "Reject", "operation", "WriteMessage", "error", err)
	}
}

func (h *BookingHandler) Availability(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	rawDate := httputil.QueryString(r, "date")
	if rawDate == "" {
		h.writeError(w, "Availability", apperrors.InvalidInput("date parameter is required"))
		return
	}
	date, err := h.parseDate(rawDate)
	if err != nil {
		h.writeError(w, "Availability", err)
		return
	}

	availability, err := h.service.Availability(r.Context(), venueParam(r), date)
	if err != nil {
		h.writeError(w, "Availability", err)
		return
	}

	if err := httputil.WriteSuccess(w, availability); err != nil {
		h.log.Error("failed to write success response", "handler", "Availability", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) View(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	bucket, err := lifecycle.ParseBucket(ps.ByName("bucket"))
	if err != nil {
		h.writeError(w, "View", apperrors.InvalidInput(err.Error()))
		return
	}

	view, err := h.service.View(r.Context(), venueParam(r), bucket)
	if err != nil {
		h.writeError(w, "View", err)
		return
	}

	if err := httputil.WriteSuccess(w, view); err != nil {
		h.log.Error("failed to write success response", "handler", "View", "operation", "WriteSuccess", "error", err)
	}
}

// Calendar defaults to the booked bucket and the current month in the
// facility zone.
func (h *BookingHandler) Calendar(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	bucket := lifecycle.BucketBooked
	if raw := httputil.QueryString(r, "bucket"); raw != "" {
		parsed, err := lifecycle.ParseBucket(raw)
		if err != nil {
			h.writeError(w, "Calendar", apperrors.InvalidInput(err.Error()))
			return
		}
		bucket = parsed
	}

	now := time.Now().In(h.location)
	year, err := httputil.QueryInt(r, "year", now.Year())
	if err != nil {
		h.writeError(w, "Calendar", err)
		return
	}
	month, err := httputil.QueryInt(r, "month", int(now.Month()))
	if err != nil {
		h.writeError(w, "Calendar", err)
		return
	}

	view, err := h.service.Calendar(r.Context(), venueParam(r), bucket, year, time.Month(month))
	if err != nil {
		h.writeError(w, "Calendar", err)
		return
	}

	if err := httputil.WriteSuccess(w, view); err != nil {
		h.log.Error("failed to write success response", "handler", "Calendar", "operation", "WriteSuccess", "error", err)
	}
}

// Stream pushes the booking list as server-sent events, one "bookings" event
// per snapshot, until the client goes away.
func (h *BookingHandler) Stream(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	venue := venueParam(r)
	if venue != "" && !venue.Valid() {
		h.writeError(w, "Stream", apperrors.InvalidInput(fmt.Sprintf("Unknown venue %q", venue)))
		return
	}

	rc := http.NewResponseController(w)
	// The server write timeout would otherwise cut the stream.
	_ = rc.SetWriteDeadline(time.Time{})

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	if err := rc.Flush(); err != nil {
		h.log.Error("streaming not supported", "handler", "Stream", "error", err)
		return
	}

	updates := make(chan []*model.Booking, 1)
	unsubscribe := h.service.Subscribe(r.Context(), venue, func(bookings []*model.Booking) {
		// Keep only the newest snapshot for slow clients.
		select {
		case <-updates:
		default:
		}
		select {
		case updates <- bookings:
		default:
		}
	})
	defer unsubscribe()

	ticker := time.NewTicker(streamKeepAlive)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
			if _, err := fmt.Fprint(w, ": keep-alive\n\n"); err != nil {
				return
			}
		case bookings := <-updates:
			data, err := json.Marshal(bookings)
			if err != nil {
				h.log.Error("failed to encode bookings snapshot", "handler", "Stream", "error", err)
				return
			}
			if _, err := fmt.Fprintf(w, "event: bookings\ndata: %s\n\n", data); err != nil {
				return
			}
		}
		if err := rc.Flush(); err != nil {
			return
		}
	}
}

func (h *BookingHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/bookings", h.Create)
	router.GET("/api/v1/bookings", h.List)
	router.GET("/api/v1/bookings/id/:id", h.GetByID)
	router.POST("/api/v1/bookings/id/:id/confirm", h.Confirm)
	router.POST("/api/v1/bookings/id/:id/reject", h.Reject)
	router.GET("/api/v1/bookings/availability", h.Availability)
	router.GET("/api/v1/bookings/views/:bucket", h.View)
	router.GET("/api/v1/bookings/calendar", h.Calendar)
}

// RegisterStreamRoutes mounts the long-lived endpoints. They must not sit
// behind the request timeout middleware.
func (h *BookingHandler) RegisterStreamRoutes(router *httprouter.Router) {
	router.GET("/api/v1/bookings/stream", h.Stream)
}

func (h *BookingHandler) parseDate(raw string) (time.Time, error) {
	if date, err := locale.ParseDate(raw, h.location); err == nil {
		return date, nil
	}
	if date, err := time.Parse(time.RFC3339, raw); err == nil {
		return date, nil
	}
	return time.Time{}, apperrors.InvalidInput(fmt.Sprintf("invalid date %q, expected YYYY-MM-DD", raw))
}

func (h *BookingHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}

func venueParam(r *http.Request) model.VenueType {
	return model.VenueType(httputil.QueryString(r, "venue"))
}
