package handler

import (
	"context"
	"net/http"

	"venuebook/internal/bookings/lifecycle"
	bookingservice "venuebook/internal/bookings/service"
	"venuebook/internal/users/service"
	apperrors "venuebook/pkg/errors"
	httputil "venuebook/pkg/http"
	"venuebook/pkg/logger"
	"venuebook/pkg/model"

	"github.com/julienschmidt/httprouter"
)

// BookingViewer is the part of the booking service the admin views read.
type BookingViewer interface {
	View(ctx context.Context, venue model.VenueType, bucket lifecycle.Bucket) (*bookingservice.BookingView, error)
}

type UserHandler struct {
	service  service.UserService
	bookings BookingViewer
	log      *logger.Logger
}

func NewUserHandler(service service.UserService, bookings BookingViewer, log *logger.Logger) *UserHandler {
	return &UserHandler{service: service, bookings: bookings, log: log}
}

func (h *UserHandler) Dashboard(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	dashboard, err := h.service.Dashboard(r.Context(), ps.ByName("uid"))
	if err != nil {
		h.writeError(w, "Dashboard", err)
		return
	}

	if err := httputil.WriteSuccess(w, dashboard); err != nil {
		h.log.Error("failed to write success response", "handler", "Dashboard", "operation", "WriteSuccess", "error", err)
	}
}

// AdminView is a booking bucket limited to the venues the user's role
// manages.
func (h *UserHandler) AdminView(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	bucket, err := lifecycle.ParseBucket(ps.ByName("bucket"))
	if err != nil {
		h.writeError(w, "AdminView", apperrors.InvalidInput(err.Error()))
		return
	}

	dashboard, err := h.service.Dashboard(r.Context(), ps.ByName("uid"))
	if err != nil {
		h.writeError(w, "AdminView", err)
		return
	}

	venue, err := dashboard.ScopeVenue(model.VenueType(httputil.QueryString(r, "venue")))
	if err != nil {
		h.log.Warn("Admin view outside role scope", "uid", dashboard.UID, "role", dashboard.Role)
		h.writeError(w, "AdminView", err)
		return
	}

	view, err := h.bookings.View(r.Context(), venue, bucket)
	if err != nil {
		h.writeError(w, "AdminView", err)
		return
	}

	if err := httputil.WriteSuccess(w, view); err != nil {
		h.log.Error("failed to write success response", "handler", "AdminView", "operation", "WriteSuccess", "error", err)
	}
}

func (h *UserHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/users/:uid/dashboard", h.Dashboard)
	router.GET("/api/v1/users/:uid/views/:bucket", h.AdminView)
}

func (h *UserHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}
