package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	apperrors "venuebook/pkg/errors"
)

func TestDecodeJSON(t *testing.T) {
	type payload struct {
		Email string `json:"email"`
	}

	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{"valid", `{"email":"a@example.com"}`, 0},
		{"empty", ``, http.StatusBadRequest},
		{"unknown field", `{"email":"a@example.com","role":"admin"}`, http.StatusBadRequest},
		{"malformed", `{"email":`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			var dst payload
			err := DecodeJSON(req, &dst)

			if tt.wantStatus == 0 {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			var appErr *apperrors.AppError
			if !errors.As(err, &appErr) {
				t.Fatalf("expected AppError, got %v", err)
			}
			if appErr.StatusCode() != tt.wantStatus {
				t.Errorf("status = %d, want %d", appErr.StatusCode(), tt.wantStatus)
			}
		})
	}
}

func TestQueryInt(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?year=2031&month=x", nil)

	if v, err := QueryInt(req, "year", 0); err != nil || v != 2031 {
		t.Errorf("year = %d, %v", v, err)
	}
	if v, err := QueryInt(req, "day", 7); err != nil || v != 7 {
		t.Errorf("missing key should fall back, got %d, %v", v, err)
	}
	if _, err := QueryInt(req, "month", 1); err == nil {
		t.Error("expected error for non-numeric month")
	}
}

func TestWriteError_HidesInternalErrors(t *testing.T) {
	rec := httptest.NewRecorder()
	if err := WriteError(rec, errors.New("connection refused by 10.0.0.5")); err != nil {
		t.Fatal(err)
	}

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d", rec.Code)
	}
	var body apperrors.ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(body.Error, "10.0.0.5") {
		t.Errorf("internal detail leaked: %q", body.Error)
	}
}
