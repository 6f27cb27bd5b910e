package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Limiter - счетчик с фиксированным окном, на отправителя.
// Redis-реализация делит счетчики между инстансами; in-memory вариант
// остается для локальной разработки и тестов (сбрасывается при рестарте).
type Limiter interface {
	// Allow возвращает false, когда лимит для key в текущем окне исчерпан.
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

// --- Redis fixed window ---

type RedisLimiter struct {
	client *redis.Client
}

func NewRedisLimiter(client *redis.Client) *RedisLimiter {
	return &RedisLimiter{client: client}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	bucket := fmt.Sprintf("ratelimit:%s:%d", key, time.Now().Unix()/int64(window.Seconds()))

	count, err := l.client.Incr(ctx, bucket).Result()
	if err != nil {
		return false, err
	}
	if count == 1 {
		// Первое попадание в окно — выставляем TTL
		if err := l.client.Expire(ctx, bucket, window).Err(); err != nil {
			return false, err
		}
	}

	return count <= int64(limit), nil
}

// --- In-memory fixed window ---

type memoryWindow struct {
	count   int
	resetAt time.Time
}

type MemoryLimiter struct {
	mu      sync.Mutex
	windows map[string]*memoryWindow
}

func NewMemoryLimiter() *MemoryLimiter {
	return &MemoryLimiter{windows: make(map[string]*memoryWindow)}
}

func (l *MemoryLimiter) Allow(_ context.Context, key string, limit int, window time.Duration) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	w, ok := l.windows[key]
	if !ok || now.After(w.resetAt) {
		l.windows[key] = &memoryWindow{count: 1, resetAt: now.Add(window)}
		return true, nil
	}

	w.count++
	return w.count <= limit, nil
}
