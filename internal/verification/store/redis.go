package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	verificationerrors "venuebook/internal/verification/errors"
	"venuebook/pkg/model"

	"github.com/go-redis/redis/v8"
)

const keyPrefix = "verification:"

// expiredRetention keeps a record readable for a while after it expires, so
// a late attempt is reported as expired rather than unknown.
const expiredRetention = 10 * time.Minute

// Redis shares codes between instances. Redis key expiry replaces the sweep.
type Redis struct {
	client *redis.Client
}

func NewRedis(client *redis.Client) *Redis {
	return &Redis{client: client}
}

func key(email string) string {
	return keyPrefix + email
}

func (r *Redis) Put(ctx context.Context, code *model.VerificationCode) error {
	data, err := json.Marshal(code)
	if err != nil {
		return fmt.Errorf("encode verification code: %w", err)
	}

	ttl := time.Until(code.ExpiresAt) + expiredRetention
	if ttl <= 0 {
		return r.Delete(ctx, code.Email)
	}
	if err := r.client.Set(ctx, key(code.Email), data, ttl).Err(); err != nil {
		return fmt.Errorf("store verification code: %w", err)
	}
	return nil
}

func (r *Redis) Get(ctx context.Context, email string) (*model.VerificationCode, error) {
	data, err := r.client.Get(ctx, key(email)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, verificationerrors.ErrCodeNotFound
		}
		return nil, fmt.Errorf("load verification code: %w", err)
	}

	var code model.VerificationCode
	if err := json.Unmarshal(data, &code); err != nil {
		return nil, fmt.Errorf("decode verification code: %w", err)
	}
	return &code, nil
}

func (r *Redis) Delete(ctx context.Context, email string) error {
	if err := r.client.Del(ctx, key(email)).Err(); err != nil {
		return fmt.Errorf("delete verification code: %w", err)
	}
	return nil
}

// DeleteExpired is a no-op. Keys carry their own TTL.
func (r *Redis) DeleteExpired(context.Context, time.Time) (int, error) {
	return 0, nil
}
