package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"time"
	
	"github.com/redis/go-redis/v9"
)

var ErrLimitExceeded = errors.New("too many attempts, please try again later")

// Limiter đếm số lần thao tác trong một cửa sổ thời gian cố định bằng Redis.
type Limiter struct {
	redis  redis.Cmdable
	prefix string        // ví dụ: "ratelimit:payment"
	limit  int64         // số lần tối đa trong một cửa sổ
	window time.Duration // độ dài cửa sổ
}

func NewLimiter(client redis.Cmdable, prefix string, limit int64, window time.Duration) *Limiter {
	return &Limiter{
		redis:  client,
		prefix: prefix,
		limit:  limit,
		window: window,
	}
}

// Allow counts one attempt for identifier and returns ErrLimitExceeded once
// the limit for the current window is used up.
func (l *Limiter) Allow(ctx context.Context, identifier string) error {
	key := fmt.Sprintf("%s:%s", l.prefix, identifier)
	
	pipe := l.redis.TxPipeline()
	incr := pipe.Incr(ctx, key)
	// Chỉ đặt TTL cho lần đầu tiên trong cửa sổ
	pipe.ExpireNX(ctx, key, l.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to count attempt: %w", err)
	}
	
	if incr.Val() > l.limit {
		return ErrLimitExceeded
	}
	
	return nil
}
