package service

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"io"
	"math/big"
	"strings"
	"time"

	verificationerrors "venuebook/internal/verification/errors"
	"venuebook/internal/verification/store"
	apperrors "venuebook/pkg/errors"
	"venuebook/pkg/logger"
	"venuebook/pkg/model"
	"venuebook/pkg/sanitizer"

	"github.com/go-playground/validator/v10"
)

const (
	codeMin   = 100000
	codeRange = 900000
)

type Result string

const (
	ResultOK       Result = "ok"
	ResultNotFound Result = "not_found"
	ResultExpired  Result = "expired"
	ResultMismatch Result = "mismatch"
)

// Message is the text shown to the user for r. Each failure tells the user
// whether to request a new code or re-enter the current one.
func (r Result) Message() string {
	switch r {
	case ResultOK:
		return "Verification code is valid"
	case ResultNotFound:
		return "No verification code found for this email. Please request a new code."
	case ResultExpired:
		return "Verification code has expired. Please request a new code."
	case ResultMismatch:
		return "Invalid verification code"
	}
	return string(r)
}

type IssueResult struct {
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expires_at"`
	// DeliveryErr is set when the code was stored but the email failed.
	// The code remains valid.
	DeliveryErr error `json:"-"`
}

// CodeMailer delivers a code to its owner.
type CodeMailer interface {
	SendVerificationCodeEmail(ctx context.Context, to, code string, ttl time.Duration) error
}

type VerificationService interface {
	Issue(ctx context.Context, email string) (*IssueResult, error)
	Validate(ctx context.Context, email, code string) (Result, error)
	Sweep(ctx context.Context) (int, error)
}

type verificationService struct {
	store    store.Store
	mailer   CodeMailer
	ttl      time.Duration
	validate *validator.Validate
	log      *logger.Logger
	now      func() time.Time
	random   io.Reader
}

func NewVerificationService(store store.Store, mailer CodeMailer, ttl time.Duration, log *logger.Logger) VerificationService {
	return &verificationService{
		store:    store,
		mailer:   mailer,
		ttl:      ttl,
		validate: validator.New(),
		log:      log,
		now:      time.Now,
		random:   rand.Reader,
	}
}

// Issue stores a fresh code for email, replacing any earlier one, and then
// mails it. The code is stored before delivery is attempted.
func (s *verificationService) Issue(ctx context.Context, email string) (*IssueResult, error) {
	email, err := s.normalizeEmail(email)
	if err != nil {
		return nil, err
	}

	code, err := s.generateCode()
	if err != nil {
		return nil, apperrors.Internal("Failed to generate verification code", err)
	}

	record := &model.VerificationCode{
		Email:     email,
		Code:      code,
		ExpiresAt: s.now().Add(s.ttl),
	}
	if err := s.store.Put(ctx, record); err != nil {
		s.log.Error("Failed to store verification code", "email", email, "error", err)
		return nil, apperrors.Internal("Failed to store verification code", err)
	}

	result := &IssueResult{Email: email, ExpiresAt: record.ExpiresAt}
	if err := s.mailer.SendVerificationCodeEmail(ctx, email, code, s.ttl); err != nil {
		s.log.Warn("Verification code stored but email not delivered", "email", email, "error", err)
		result.DeliveryErr = err
	} else {
		s.log.Info("Verification code issued", "email", email, "expires_at", record.ExpiresAt)
	}

	if _, err := s.Sweep(ctx); err != nil {
		s.log.Warn("Failed to sweep expired verification codes", "error", err)
	}
	return result, nil
}

// Validate checks code against the stored one. A valid or expired code is
// consumed; a mismatch leaves it in place for another attempt.
func (s *verificationService) Validate(ctx context.Context, email, code string) (Result, error) {
	email, err := s.normalizeEmail(email)
	if err != nil {
		return "", err
	}
	code = strings.TrimSpace(code)
	if code == "" {
		return "", apperrors.InvalidInput("Email and code are required")
	}

	record, err := s.store.Get(ctx, email)
	if err != nil {
		if errors.Is(err, verificationerrors.ErrCodeNotFound) {
			return ResultNotFound, nil
		}
		return "", apperrors.Internal("Failed to load verification code", err)
	}

	if record.Expired(s.now()) {
		if err := s.store.Delete(ctx, email); err != nil {
			s.log.Warn("Failed to delete expired verification code", "email", email, "error", err)
		}
		return ResultExpired, nil
	}

	if subtle.ConstantTimeCompare([]byte(record.Code), []byte(code)) != 1 {
		s.log.Warn("Verification code mismatch", "email", email)
		return ResultMismatch, nil
	}

	if err := s.store.Delete(ctx, email); err != nil {
		return "", apperrors.Internal("Failed to consume verification code", err)
	}
	s.log.Info("Verification code accepted", "email", email)
	return ResultOK, nil
}

func (s *verificationService) Sweep(ctx context.Context) (int, error) {
	removed, err := s.store.DeleteExpired(ctx, s.now())
	if err != nil {
		return 0, err
	}
	if removed > 0 {
		s.log.Debug("Swept expired verification codes", "removed", removed)
	}
	return removed, nil
}

// generateCode draws uniformly from 100000-999999.
func (s *verificationService) generateCode() (string, error) {
	n, err := rand.Int(s.random, big.NewInt(codeRange))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+codeMin), nil
}

func (s *verificationService) normalizeEmail(email string) (string, error) {
	email = sanitizer.SanitizeEmail(email)
	if email == "" {
		return "", apperrors.InvalidInput("Email is required")
	}
	if err := s.validate.Var(email, "email"); err != nil {
		return "", apperrors.InvalidInput(verificationerrors.ErrInvalidEmail.Error())
	}
	return email, nil
}
