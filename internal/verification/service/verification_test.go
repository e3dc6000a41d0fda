package service

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"strconv"
	"testing"
	"time"

	"venuebook/internal/verification/store"
	apperrors "venuebook/pkg/errors"
	"venuebook/pkg/logger"
	"venuebook/pkg/model"
)

type fakeMailer struct {
	sent map[string]string
	err  error
}

func (m *fakeMailer) SendVerificationCodeEmail(_ context.Context, to, code string, _ time.Duration) error {
	if m.err != nil {
		return m.err
	}
	if m.sent == nil {
		m.sent = make(map[string]string)
	}
	m.sent[to] = code
	return nil
}

type clock struct{ now time.Time }

func (c *clock) Now() time.Time { return c.now }

func newTestService(t *testing.T) (*verificationService, *store.Memory, *fakeMailer, *clock) {
	t.Helper()
	mem := store.NewMemory()
	mailer := &fakeMailer{}
	clk := &clock{now: time.Date(2025, time.June, 1, 9, 0, 0, 0, time.UTC)}
	svc := NewVerificationService(mem, mailer, 10*time.Minute, logger.Discard()).(*verificationService)
	svc.now = clk.Now
	return svc, mem, mailer, clk
}

func TestIssue_GeneratesSixDigitCode(t *testing.T) {
	svc, mem, mailer, clk := newTestService(t)
	ctx := context.Background()

	for i := 0; i < 200; i++ {
		result, err := svc.Issue(ctx, "user@example.com")
		if err != nil {
			t.Fatalf("Issue() error = %v", err)
		}
		code := mailer.sent["user@example.com"]
		n, err := strconv.Atoi(code)
		if err != nil || len(code) != 6 || n < 100000 || n > 999999 {
			t.Fatalf("code %q is not a 6 digit number in range", code)
		}
		if !result.ExpiresAt.Equal(clk.now.Add(10 * time.Minute)) {
			t.Fatalf("ExpiresAt = %v, want issue time plus 10 minutes", result.ExpiresAt)
		}
	}
	if mem.Len() != 1 {
		t.Errorf("store holds %d codes, want one per email", mem.Len())
	}
}

func TestGenerateCode_Bounds(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	svc.random = bytes.NewReader(make([]byte, 64))
	code, err := svc.generateCode()
	if err != nil {
		t.Fatalf("generateCode() error = %v", err)
	}
	if code != "100000" {
		t.Errorf("lowest draw = %q, want 100000", code)
	}
}

func TestIssue_SupersedesPreviousCode(t *testing.T) {
	svc, _, mailer, _ := newTestService(t)
	ctx := context.Background()

	_, _ = svc.Issue(ctx, "user@example.com")
	first := mailer.sent["user@example.com"]
	for mailer.sent["user@example.com"] == first {
		_, _ = svc.Issue(ctx, "user@example.com")
	}

	result, err := svc.Validate(ctx, "user@example.com", first)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if result != ResultMismatch {
		t.Errorf("superseded code result = %q, want mismatch", result)
	}
}

func TestIssue_NormalizesEmail(t *testing.T) {
	svc, _, mailer, _ := newTestService(t)

	result, err := svc.Issue(context.Background(), "  User@Example.COM ")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	if result.Email != "user@example.com" {
		t.Errorf("Email = %q", result.Email)
	}
	if _, ok := mailer.sent["user@example.com"]; !ok {
		t.Error("code not sent to normalized address")
	}
}

func TestIssue_InvalidEmail(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	for _, email := range []string{"", "not-an-email"} {
		_, err := svc.Issue(context.Background(), email)
		if appErr := apperrors.AsAppError(err); err == nil || appErr.HTTPStatus != http.StatusBadRequest {
			t.Errorf("Issue(%q) err = %v, want 400", email, err)
		}
	}
}

func TestIssue_DeliveryFailureKeepsCode(t *testing.T) {
	svc, mem, mailer, _ := newTestService(t)
	mailer.err = errors.New("smtp unavailable")

	result, err := svc.Issue(context.Background(), "user@example.com")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	if result.DeliveryErr == nil {
		t.Fatal("expected DeliveryErr to be reported")
	}

	stored, err := mem.Get(context.Background(), "user@example.com")
	if err != nil {
		t.Fatalf("code not stored after failed delivery: %v", err)
	}
	got, _ := svc.Validate(context.Background(), "user@example.com", stored.Code)
	if got != ResultOK {
		t.Errorf("stored code result = %q, want ok", got)
	}
}

func TestIssue_SweepsExpiredCodes(t *testing.T) {
	svc, mem, _, clk := newTestService(t)
	ctx := context.Background()
	_ = mem.Put(ctx, &model.VerificationCode{Email: "stale@example.com", Code: "123456", ExpiresAt: clk.now.Add(-time.Second)})

	if _, err := svc.Issue(ctx, "fresh@example.com"); err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	if _, err := mem.Get(ctx, "stale@example.com"); err == nil {
		t.Error("expired code survived the sweep after issue")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		stored    *model.VerificationCode
		submitted string
		advance   time.Duration
		want      Result
		wantKept  bool
	}{
		{
			name:      "unknown email",
			submitted: "123456",
			want:      ResultNotFound,
		},
		{
			name:      "matching code",
			stored:    &model.VerificationCode{Code: "123456"},
			submitted: "123456",
			want:      ResultOK,
			wantKept:  false,
		},
		{
			name:      "surrounding whitespace ignored",
			stored:    &model.VerificationCode{Code: "123456"},
			submitted: " 123456 ",
			want:      ResultOK,
		},
		{
			name:      "wrong code keeps entry",
			stored:    &model.VerificationCode{Code: "123456"},
			submitted: "654321",
			want:      ResultMismatch,
			wantKept:  true,
		},
		{
			name:      "expired code is removed",
			stored:    &model.VerificationCode{Code: "123456"},
			submitted: "123456",
			advance:   10*time.Minute + time.Second,
			want:      ResultExpired,
			wantKept:  false,
		},
		{
			name:      "expired wins over mismatch",
			stored:    &model.VerificationCode{Code: "123456"},
			submitted: "000000",
			advance:   11 * time.Minute,
			want:      ResultExpired,
		},
		{
			name:      "valid at the expiry instant",
			stored:    &model.VerificationCode{Code: "123456"},
			submitted: "123456",
			advance:   10 * time.Minute,
			want:      ResultOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, mem, _, clk := newTestService(t)
			ctx := context.Background()
			const email = "user@example.com"
			if tt.stored != nil {
				tt.stored.Email = email
				tt.stored.ExpiresAt = clk.now.Add(10 * time.Minute)
				_ = mem.Put(ctx, tt.stored)
			}
			clk.now = clk.now.Add(tt.advance)

			got, err := svc.Validate(ctx, email, tt.submitted)
			if err != nil {
				t.Fatalf("Validate() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Validate() = %q, want %q", got, tt.want)
			}

			_, getErr := mem.Get(ctx, email)
			if kept := getErr == nil; kept != tt.wantKept {
				t.Errorf("entry kept = %v, want %v", kept, tt.wantKept)
			}
		})
	}
}

func TestValidate_CodeIsSingleUse(t *testing.T) {
	svc, mem, _, clk := newTestService(t)
	ctx := context.Background()
	_ = mem.Put(ctx, &model.VerificationCode{Email: "u@example.com", Code: "424242", ExpiresAt: clk.now.Add(time.Minute)})

	first, _ := svc.Validate(ctx, "u@example.com", "424242")
	second, _ := svc.Validate(ctx, "u@example.com", "424242")
	if first != ResultOK || second != ResultNotFound {
		t.Errorf("results = %q, %q; want ok then not_found", first, second)
	}
}

func TestValidate_RetryAfterWrongCode(t *testing.T) {
	svc, mem, _, clk := newTestService(t)
	ctx := context.Background()
	_ = mem.Put(ctx, &model.VerificationCode{Email: "u@example.com", Code: "424242", ExpiresAt: clk.now.Add(time.Minute)})

	first, err := svc.Validate(ctx, "u@example.com", "111111")
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	second, err := svc.Validate(ctx, "u@example.com", "424242")
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if first != ResultMismatch || second != ResultOK {
		t.Errorf("results = %q, %q; want mismatch then ok", first, second)
	}
}

func TestResultMessages(t *testing.T) {
	want := map[Result]string{
		ResultNotFound: "No verification code found for this email. Please request a new code.",
		ResultExpired:  "Verification code has expired. Please request a new code.",
		ResultMismatch: "Invalid verification code",
	}
	for result, msg := range want {
		if got := result.Message(); got != msg {
			t.Errorf("%s.Message() = %q, want %q", result, got, msg)
		}
	}
}
