package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMemoryLimiter_AllowsUpToLimit(t *testing.T) {
	t.Parallel()

	limiter := NewMemoryLimiter()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		allowed, err := limiter.Allow(ctx, "offers:user-1", 5, time.Minute)
		assert.NoError(t, err)
		assert.True(t, allowed, "запрос %d должен пройти", i+1)
	}

	allowed, err := limiter.Allow(ctx, "offers:user-1", 5, time.Minute)
	assert.NoError(t, err)
	assert.False(t, allowed, "шестой запрос должен быть отклонен")
}

func TestMemoryLimiter_KeysAreIndependent(t *testing.T) {
	t.Parallel()

	limiter := NewMemoryLimiter()
	ctx := context.Background()

	allowed, _ := limiter.Allow(ctx, "offers:user-1", 1, time.Minute)
	assert.True(t, allowed)
	allowed, _ = limiter.Allow(ctx, "offers:user-1", 1, time.Minute)
	assert.False(t, allowed)

	// Другой пользователь и другая операция не задеты
	allowed, _ = limiter.Allow(ctx, "offers:user-2", 1, time.Minute)
	assert.True(t, allowed)
	allowed, _ = limiter.Allow(ctx, "messages:user-1", 1, time.Minute)
	assert.True(t, allowed)
}

func TestMemoryLimiter_WindowResets(t *testing.T) {
	t.Parallel()

	limiter := NewMemoryLimiter()
	ctx := context.Background()
	window := 50 * time.Millisecond

	allowed, _ := limiter.Allow(ctx, "messages:user-1", 1, window)
	assert.True(t, allowed)
	allowed, _ = limiter.Allow(ctx, "messages:user-1", 1, window)
	assert.False(t, allowed)

	time.Sleep(window + 10*time.Millisecond)

	allowed, _ = limiter.Allow(ctx, "messages:user-1", 1, window)
	assert.True(t, allowed, "после окна счетчик должен сброситься")
}
