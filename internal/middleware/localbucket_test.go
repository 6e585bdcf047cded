// AngelaMos | 2026
// localbucket_test.go

package middleware

import (
	"context"
	"testing"
	"time"
)

func newTestBucket(start time.Time) (*localLimiter, *time.Time) {
	clock := start
	return &localLimiter{
		buckets: make(map[string]*bucket),
		now:     func() time.Time { return clock },
	}, &clock
}

func TestLocalLimiterExhaustsBurstAndRefills(t *testing.T) {
	l, clock := newTestBucket(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))
	limit := PerMinute(60, 2)

	for i := range 2 {
		res, err := l.allow("k", limit)
		if err != nil || res.Allowed != 1 {
			t.Fatalf("request %d should pass: %+v %v", i, res, err)
		}
	}

	res, _ := l.allow("k", limit)
	if res.Allowed != 0 {
		t.Fatal("third request should be limited")
	}
	if res.RetryAfter != time.Second {
		t.Fatalf("retry after = %s, want 1s", res.RetryAfter)
	}

	*clock = clock.Add(time.Second)
	if res, _ := l.allow("k", limit); res.Allowed != 1 {
		t.Fatal("a token should refill after one second")
	}
}

func TestLocalLimiterSeparatesBudgets(t *testing.T) {
	l, _ := newTestBucket(time.Now())

	if res, _ := l.allow("k", PerMinute(1, 1)); res.Allowed != 1 {
		t.Fatal("first request should pass")
	}
	if res, _ := l.allow("k", PerMinute(1, 1)); res.Allowed != 0 {
		t.Fatal("second request should be limited")
	}
	if res, _ := l.allow("k", PerMinute(100, 10)); res.Allowed != 1 {
		t.Fatal("a different budget must start a fresh bucket")
	}
}

func TestLocalLimiterSweepsIdleBuckets(t *testing.T) {
	l, clock := newTestBucket(time.Now())

	_, _ = l.allow("idle", PerMinute(10, 1))
	*clock = clock.Add(entryTTL + time.Minute)
	l.sweep()

	if len(l.buckets) != 0 {
		t.Fatalf("expected idle bucket to be swept, %d left", len(l.buckets))
	}
}

func TestLocalLimiterRejectsZeroRate(t *testing.T) {
	l, _ := newTestBucket(time.Now())
	if _, err := l.allow("k", PerMinute(0, 1)); err == nil {
		t.Fatal("expected error for zero rate")
	}
}

func TestLocalLimiterSweeperStopsWithContext(t *testing.T) {
	l, _ := newTestBucket(time.Now())
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		l.sweepEvery(ctx, time.Millisecond)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper kept running after cancel")
	}
}
