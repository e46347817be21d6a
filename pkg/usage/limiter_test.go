package usage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestConsumeDisabledLimiterAlwaysAllows(t *testing.T) {
	for _, l := range []*Limiter{
		nil,
		NewLimiter(nil, 0),
		NewLimiter(nil, -5),
		NewLimiter(nil, 100), // no redis client: enforcement off
	} {
		assert.NoError(t, l.Consume(context.Background(), "user-1"))
	}
}

func TestDailyKeyIsUTCDateScoped(t *testing.T) {
	at := time.Date(2025, 3, 9, 23, 30, 0, 0, time.FixedZone("UTC+2", 2*3600))
	assert.Equal(t, "ai_usage:user-1:2025-03-09", dailyKey("user-1", at))
}

func TestLimitExceededErrorMessage(t *testing.T) {
	err := &LimitExceededError{UserId: "u", Limit: 10}
	assert.Contains(t, err.Error(), "10")
	assert.Contains(t, err.Error(), "u")
}
