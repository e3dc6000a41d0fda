package store

import (
	"context"
	"errors"
	"testing"
	"time"

	verificationerrors "venuebook/internal/verification/errors"
	"venuebook/pkg/model"
)

func TestMemory_PutOverwrites(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	expires := time.Now().Add(time.Minute)

	_ = m.Put(ctx, &model.VerificationCode{Email: "a@example.com", Code: "111111", ExpiresAt: expires})
	_ = m.Put(ctx, &model.VerificationCode{Email: "a@example.com", Code: "222222", ExpiresAt: expires})

	got, err := m.Get(ctx, "a@example.com")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Code != "222222" {
		t.Errorf("Code = %q, want the newest code", got.Code)
	}
	if m.Len() != 1 {
		t.Errorf("Len() = %d, want 1", m.Len())
	}
}

func TestMemory_GetUnknown(t *testing.T) {
	_, err := NewMemory().Get(context.Background(), "nobody@example.com")
	if !errors.Is(err, verificationerrors.ErrCodeNotFound) {
		t.Errorf("err = %v, want ErrCodeNotFound", err)
	}
}

func TestMemory_DeleteExpired(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	now := time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC)

	_ = m.Put(ctx, &model.VerificationCode{Email: "old@example.com", ExpiresAt: now.Add(-time.Second)})
	_ = m.Put(ctx, &model.VerificationCode{Email: "edge@example.com", ExpiresAt: now})
	_ = m.Put(ctx, &model.VerificationCode{Email: "new@example.com", ExpiresAt: now.Add(time.Minute)})

	removed, err := m.DeleteExpired(ctx, now)
	if err != nil {
		t.Fatalf("DeleteExpired() error = %v", err)
	}
	if removed != 1 {
		t.Errorf("removed = %d, want 1", removed)
	}
	if _, err := m.Get(ctx, "edge@example.com"); err != nil {
		t.Errorf("code expiring exactly now must survive: %v", err)
	}
}

func TestMemory_Janitor(t *testing.T) {
	m := NewMemory()
	defer m.Stop()
	_ = m.Put(context.Background(), &model.VerificationCode{Email: "x@example.com", ExpiresAt: time.Now().Add(-time.Minute)})

	m.StartJanitor(10 * time.Millisecond)

	deadline := time.Now().Add(time.Second)
	for m.Len() != 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if m.Len() != 0 {
		t.Error("janitor did not remove the expired code")
	}
	m.Stop()
}
