// Package store holds outstanding verification codes, one per email.
package store

import (
	"context"
	"time"

	"venuebook/pkg/model"
)

// Store keeps at most one code per email. Put replaces any previous code.
// Get returns verificationerrors.ErrCodeNotFound for unknown emails; expired
// records stay readable until swept so callers can tell them apart.
type Store interface {
	Put(ctx context.Context, code *model.VerificationCode) error
	Get(ctx context.Context, email string) (*model.VerificationCode, error)
	Delete(ctx context.Context, email string) error
	DeleteExpired(ctx context.Context, now time.Time) (int, error)
}
