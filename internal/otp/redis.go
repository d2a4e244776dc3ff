package otp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "otp:pending:"

// DefaultGrace keeps a redis entry around past its expiry so that a late
// verification is reported as expired rather than missing.
const DefaultGrace = time.Minute

// RedisStore is a Store shared by every replica through redis.
type RedisStore struct {
	client *redis.Client
	grace  time.Duration
	now    func() time.Time
}

// NewRedisStore creates a RedisStore on an existing client.
func NewRedisStore(client *redis.Client, grace time.Duration) *RedisStore {
	if grace <= 0 {
		grace = DefaultGrace
	}
	return &RedisStore{client: client, grace: grace, now: time.Now}
}

func (s *RedisStore) Put(ctx context.Context, p PendingSignup) error {
	payload, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to encode pending signup: %w", err)
	}
	ttl := p.ExpiresAt.Sub(s.now()) + s.grace
	if ttl <= 0 {
		ttl = s.grace
	}
	if err := s.client.Set(ctx, key(p.Email), payload, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store pending signup: %w", err)
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, email string) (*PendingSignup, error) {
	raw, err := s.client.Get(ctx, key(email)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load pending signup: %w", err)
	}
	var p PendingSignup
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("failed to decode pending signup: %w", err)
	}
	return &p, nil
}

func (s *RedisStore) Delete(ctx context.Context, email string) error {
	if err := s.client.Del(ctx, key(email)).Err(); err != nil {
		return fmt.Errorf("failed to delete pending signup: %w", err)
	}
	return nil
}

func key(email string) string {
	return keyPrefix + NormalizeEmail(email)
}
