package presence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "presence:user:"

// Tracker keeps a TTL-based online flag per user in Redis. A user is
// online as long as their key has not expired; every authenticated
// request refreshes it.
type Tracker interface {
	Touch(ctx context.Context, userID string) error
	IsOnline(ctx context.Context, userID string) (bool, error)
	LastSeen(ctx context.Context, userID string) (time.Time, bool, error)
}

type redisTracker struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisTracker(client *redis.Client, ttl time.Duration) Tracker {
	if ttl <= 0 {
		ttl = 2 * time.Minute
	}
	return &redisTracker{client: client, ttl: ttl}
}

func (t *redisTracker) Touch(ctx context.Context, userID string) error {
	err := t.client.Set(ctx, keyPrefix+userID, time.Now().UTC().Format(time.RFC3339), t.ttl).Err()
	if err != nil {
		return fmt.Errorf("failed to refresh presence for user %s: %w", userID, err)
	}
	return nil
}

func (t *redisTracker) IsOnline(ctx context.Context, userID string) (bool, error) {
	n, err := t.client.Exists(ctx, keyPrefix+userID).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check presence for user %s: %w", userID, err)
	}
	return n > 0, nil
}

func (t *redisTracker) LastSeen(ctx context.Context, userID string) (time.Time, bool, error) {
	val, err := t.client.Get(ctx, keyPrefix+userID).Result()
	if errors.Is(err, redis.Nil) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("failed to read presence for user %s: %w", userID, err)
	}
	seen, err := time.Parse(time.RFC3339, val)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("failed to parse presence timestamp for user %s: %w", userID, err)
	}
	return seen, true, nil
}

// NoopTracker is used when Redis is not configured.
type NoopTracker struct{}

func (NoopTracker) Touch(context.Context, string) error { return nil }

func (NoopTracker) IsOnline(context.Context, string) (bool, error) { return false, nil }

func (NoopTracker) LastSeen(context.Context, string) (time.Time, bool, error) {
	return time.Time{}, false, nil
}
