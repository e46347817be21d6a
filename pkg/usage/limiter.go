package usage

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// LimitExceededError signals that a user spent their daily AI quota.
type LimitExceededError struct {
	UserId string
	Limit  int
}

func (e *LimitExceededError) Error() string {
	return fmt.Sprintf("daily AI usage limit of %d reached for user %s", e.Limit, e.UserId)
}

// Limiter counts LLM-consuming requests per user per calendar day (UTC) in
// Redis. A limit of zero or below disables enforcement entirely.
type Limiter struct {
	client *redis.Client
	limit  int
}

func NewLimiter(client *redis.Client, limit int) *Limiter {
	return &Limiter{
		client: client,
		limit:  limit,
	}
}

func dailyKey(userId string, now time.Time) string {
	return fmt.Sprintf("ai_usage:%s:%s", userId, now.UTC().Format("2006-01-02"))
}

// Consume records one unit of usage and fails with LimitExceededError once the
// daily quota is passed. The counter key expires on its own after 48h, so
// stale days never accumulate.
func (l *Limiter) Consume(ctx context.Context, userId string) error {
	if l == nil || l.limit <= 0 || l.client == nil {
		return nil
	}

	key := dailyKey(userId, time.Now())

	count, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		// Redis being down should not take the assistant down with it.
		return nil
	}

	if count == 1 {
		l.client.Expire(ctx, key, 48*time.Hour)
	}

	if int(count) > l.limit {
		return &LimitExceededError{UserId: userId, Limit: l.limit}
	}
	return nil
}

// Remaining reports how much quota the user has left today.
func (l *Limiter) Remaining(ctx context.Context, userId string) (int, error) {
	if l == nil || l.limit <= 0 || l.client == nil {
		return -1, nil
	}

	count, err := l.client.Get(ctx, dailyKey(userId, time.Now())).Int()
	if err != nil && err != redis.Nil {
		return 0, err
	}

	remaining := l.limit - count
	if remaining < 0 {
		remaining = 0
	}
	return remaining, nil
}
