package handler

import (
	"net/http"

	"venuebook/internal/verification/service"
	apperrors "venuebook/pkg/errors"
	httputil "venuebook/pkg/http"
	"venuebook/pkg/logger"
	"venuebook/pkg/middleware"
	"venuebook/pkg/sanitizer"

	"github.com/julienschmidt/httprouter"
)

type issueRequest struct {
	Email string `json:"email"`
}

type validateRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

type VerificationHandler struct {
	service service.VerificationService
	limiter *middleware.KeyedRateLimiter
	log     *logger.Logger
}

// NewVerificationHandler limits code requests per email address with
// limiter. A nil limiter disables the limit.
func NewVerificationHandler(service service.VerificationService, limiter *middleware.KeyedRateLimiter, log *logger.Logger) *VerificationHandler {
	return &VerificationHandler{
		service: service,
		limiter: limiter,
		log:     log,
	}
}

func (h *VerificationHandler) Issue(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req issueRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeError(w, "Issue", err)
		return
	}

	email := sanitizer.SanitizeEmail(req.Email)
	if h.limiter != nil && email != "" && !h.limiter.Allow(email) {
		h.log.Warn("Verification code rate limit exceeded", "email", email)
		h.writeError(w, "Issue", apperrors.TooManyRequests("Too many verification code requests. Please try again later."))
		return
	}

	result, err := h.service.Issue(r.Context(), email)
	if err != nil {
		h.writeError(w, "Issue", err)
		return
	}
	if result.DeliveryErr != nil {
		h.writeError(w, "Issue", apperrors.EmailDelivery("Failed to send verification code", result.DeliveryErr))
		return
	}

	if err := httputil.WriteMessage(w, http.StatusOK, "Verification code sent successfully", result); err != nil {
		h.log.Error("failed to write success response", "handler", "Issue", "operation", "WriteMessage", "error", err)
	}
}

func (h *VerificationHandler) Validate(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req validateRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeError(w, "Validate", err)
		return
	}
	if req.Email == "" || req.Code == "" {
		h.writeError(w, "Validate", apperrors.InvalidInput("Email and code are required"))
		return
	}

	result, err := h.service.Validate(r.Context(), req.Email, req.Code)
	if err != nil {
		h.writeError(w, "Validate", err)
		return
	}

	if result != service.ResultOK {
		h.writeError(w, "Validate", resultError(result))
		return
	}

	if err := httputil.WriteMessage(w, http.StatusOK, result.Message(), nil); err != nil {
		h.log.Error("failed to write success response", "handler", "Validate", "operation", "WriteMessage", "error", err)
	}
}

func (h *VerificationHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/verification-codes", h.Issue)
	router.PUT("/api/v1/verification-codes", h.Validate)
}

// resultError maps a failed validation to its status: 404 when no code
// exists, 410 when it expired and 401 when it does not match.
func resultError(result service.Result) *apperrors.AppError {
	switch result {
	case service.ResultNotFound:
		return apperrors.New(apperrors.CodeNotFound, result.Message(), http.StatusNotFound)
	case service.ResultExpired:
		return apperrors.Gone(result.Message())
	case service.ResultMismatch:
		return apperrors.Unauthorized(result.Message())
	}
	return apperrors.Internal("Unexpected verification result "+string(result), nil)
}

func (h *VerificationHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}
