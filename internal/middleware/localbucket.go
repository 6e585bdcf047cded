// AngelaMos | 2026
// localbucket.go

package middleware

import (
	"context"
	"fmt"
	"sync"
	"time"

	redis_rate "github.com/go-redis/redis_rate/v10"
	"golang.org/x/time/rate"
)

const (
	cleanupInterval = 5 * time.Minute
	entryTTL        = 10 * time.Minute
)

type bucket struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// localLimiter is the per-process token bucket used when redis is absent or
// failing. Buckets are keyed by limit too, so a role change takes effect on
// the next request instead of inheriting the old budget.
type localLimiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	now     func() time.Time
}

// newLocalLimiter sweeps idle buckets until ctx is done.
func newLocalLimiter(ctx context.Context) *localLimiter {
	l := &localLimiter{
		buckets: make(map[string]*bucket),
		now:     time.Now,
	}
	go l.sweepEvery(ctx, cleanupInterval)
	return l
}

func (l *localLimiter) sweepEvery(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.sweep()
		}
	}
}

func (l *localLimiter) sweep() {
	cutoff := l.now().Add(-entryTTL)

	l.mu.Lock()
	defer l.mu.Unlock()

	for key, b := range l.buckets {
		if b.lastAccess.Before(cutoff) {
			delete(l.buckets, key)
		}
	}
}

func bucketKey(key string, limit redis_rate.Limit) string {
	return fmt.Sprintf("%s|%d/%s/%d", key, limit.Rate, limit.Period, limit.Burst)
}

func (l *localLimiter) allow(
	key string,
	limit redis_rate.Limit,
) (*redis_rate.Result, error) {
	if limit.Rate <= 0 || limit.Period <= 0 {
		return nil, fmt.Errorf("invalid limit %v", limit)
	}

	perSecond := float64(limit.Rate) / limit.Period.Seconds()
	interval := time.Duration(float64(time.Second) / perSecond)
	now := l.now()

	l.mu.Lock()
	k := bucketKey(key, limit)
	b, ok := l.buckets[k]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(rate.Limit(perSecond), max(limit.Burst, 1))}
		l.buckets[k] = b
	}
	b.lastAccess = now
	allowed := b.limiter.AllowN(now, 1)
	remaining := max(int(b.limiter.TokensAt(now)), 0)
	l.mu.Unlock()

	res := &redis_rate.Result{
		Limit:      limit,
		Remaining:  remaining,
		RetryAfter: -1,
		ResetAfter: interval,
	}
	if allowed {
		res.Allowed = 1
	} else {
		res.RetryAfter = interval
	}
	return res, nil
}
