// AngelaMos | 2026
// ratelimit.go

package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	redis_rate "github.com/go-redis/redis_rate/v10"
	"github.com/redis/go-redis/v9"

	"github.com/oonkoo/dashboard-api/internal/config"
	"github.com/oonkoo/dashboard-api/internal/core"
)

type RateLimitConfig struct {
	Limit      redis_rate.Limit
	KeyFunc    func(*http.Request) string
	FailOpen   bool
	BypassFunc func(*http.Request) bool
	OnLimited  func(http.ResponseWriter, *http.Request, *redis_rate.Result)
}

// limiterBackend is redis_rate when a client is configured, with the
// in-process token bucket taking over on redis errors.
type limiterBackend struct {
	redis    *redis_rate.Limiter
	fallback *localLimiter
}

func newLimiterBackend(ctx context.Context, rdb *redis.Client) *limiterBackend {
	b := &limiterBackend{fallback: newLocalLimiter(ctx)}
	if rdb != nil {
		b.redis = redis_rate.NewLimiter(rdb)
	}
	return b
}

func (b *limiterBackend) allow(
	ctx context.Context,
	key string,
	limit redis_rate.Limit,
) (*redis_rate.Result, error) {
	if b.redis == nil {
		return b.fallback.allow(key, limit)
	}

	res, err := b.redis.Allow(ctx, key, limit)
	if err != nil {
		slog.Debug("redis rate limiter unavailable, using local bucket",
			"error", err,
			"key", key,
		)
		return b.fallback.allow(key, limit)
	}
	return res, nil
}

type RateLimiter struct {
	backend *limiterBackend
	config  RateLimitConfig
}

// NewRateLimiter builds a limiter whose background cleanup stops with ctx.
func NewRateLimiter(
	ctx context.Context,
	rdb *redis.Client,
	cfg RateLimitConfig,
) *RateLimiter {
	if cfg.KeyFunc == nil {
		cfg.KeyFunc = KeyByIP
	}

	return &RateLimiter{
		backend: newLimiterBackend(ctx, rdb),
		config:  cfg,
	}
}

func (rl *RateLimiter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if rl.config.BypassFunc != nil && rl.config.BypassFunc(r) {
			next.ServeHTTP(w, r)
			return
		}

		key := rl.config.KeyFunc(r)
		res, err := rl.backend.allow(r.Context(), key, rl.config.Limit)
		if err != nil {
			if rl.config.FailOpen {
				slog.Warn("rate limiter error, failing open",
					"error", err,
					"key", key,
				)
				next.ServeHTTP(w, r)
				return
			}
			http.Error(w, "Service Unavailable", http.StatusServiceUnavailable)
			return
		}

		setRateLimitHeaders(w, res, rl.config.Limit)

		if res.Allowed == 0 {
			if rl.config.OnLimited != nil {
				rl.config.OnLimited(w, r, res)
				return
			}
			writeRateLimitExceeded(w, res)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func KeyByIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		ips := strings.Split(xff, ",")
		ip := strings.TrimSpace(ips[len(ips)-1])
		return "ratelimit:ip:" + ip
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return "ratelimit:ip:" + xri
	}

	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		ip = r.RemoteAddr
	}

	return "ratelimit:ip:" + ip
}

// KeyByIdentity keys verified callers by email and everyone else by IP.
func KeyByIdentity(r *http.Request) string {
	if email := GetEmail(r.Context()); email != "" {
		return "ratelimit:identity:" + email
	}
	return KeyByIP(r)
}

func KeyByIdentityAndEndpoint(r *http.Request) string {
	endpoint := normalizeEndpoint(r.URL.Path)
	return fmt.Sprintf("%s:endpoint:%s", KeyByIdentity(r), endpoint)
}

// IsIdentified skips the anonymous limiter for requests carrying a
// verified identity; those are limited per principal by the authorizer,
// on admitted and denied requests alike.
func IsIdentified(r *http.Request) bool {
	return GetEmail(r.Context()) != ""
}

func normalizeEndpoint(path string) string {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	normalized := make([]string, 0, len(parts))

	for _, part := range parts {
		if isUUID(part) || isNumeric(part) {
			normalized = append(normalized, "{id}")
		} else {
			normalized = append(normalized, part)
		}
	}

	return "/" + strings.Join(normalized, "/")
}

func isUUID(s string) bool {
	if len(s) != 36 {
		return false
	}
	return s[8] == '-' && s[13] == '-' && s[18] == '-' && s[23] == '-'
}

func isNumeric(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return len(s) > 0
}

func setRateLimitHeaders(
	w http.ResponseWriter,
	res *redis_rate.Result,
	limit redis_rate.Limit,
) {
	h := w.Header()

	h.Set("X-RateLimit-Limit", strconv.Itoa(limit.Rate))
	h.Set("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
	h.Set("X-RateLimit-Reset", strconv.FormatInt(
		time.Now().Add(res.ResetAfter).Unix(), 10))

	windowSecs := int(limit.Period.Seconds())
	h.Set("RateLimit-Policy", fmt.Sprintf(`%d;w=%d`, limit.Rate, windowSecs))
	h.Set(
		"RateLimit",
		fmt.Sprintf(`%d;t=%d`, res.Remaining, int(res.ResetAfter.Seconds())),
	)
}

func writeRateLimitExceeded(w http.ResponseWriter, res *redis_rate.Result) {
	retryAfter := int(res.RetryAfter.Seconds())
	if retryAfter < 1 {
		retryAfter = 1
	}

	w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
	core.JSON(w, http.StatusTooManyRequests, core.ErrorResponse{
		Error: fmt.Sprintf(
			"Rate limit exceeded. Retry after %d seconds.",
			retryAfter,
		),
		Code: "RATE_LIMITED",
	})
}

// RoleRateLimiter limits identified requests per principal using the
// budget configured for the principal's role. It runs after authorization
// so the role is the stored one, not a claim. Callers whose identity did
// not resolve to a principal are keyed by email on the fallback budget,
// as are unknown roles.
func RoleRateLimiter(
	ctx context.Context,
	rdb *redis.Client,
	roles map[string]config.RoleLimit,
	fallbackLimit redis_rate.Limit,
) func(http.Handler) http.Handler {
	backend := newLimiterBackend(ctx, rdb)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			limit := fallbackLimit
			var key, role string

			if principal, ok := GetPrincipal(r.Context()); ok {
				role = principal.Role
				key = "ratelimit:principal:" + principal.ID
				if rl, found := roles[role]; found && rl.RequestsPerMinute > 0 {
					limit = PerMinute(rl.RequestsPerMinute, max(rl.Burst, 1))
				}
			} else if email := GetEmail(r.Context()); email != "" {
				key = "ratelimit:identity:" + email
			} else {
				next.ServeHTTP(w, r)
				return
			}

			res, err := backend.allow(r.Context(), key, limit)
			if err != nil {
				slog.Warn("role rate limiter error, failing open",
					"error", err,
					"key", key,
				)
				next.ServeHTTP(w, r)
				return
			}

			if role != "" {
				w.Header().Set("X-RateLimit-Role", role)
			}
			setRateLimitHeaders(w, res, limit)

			if res.Allowed == 0 {
				writeRateLimitExceeded(w, res)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func PerMinute(rate, burst int) redis_rate.Limit {
	return redis_rate.Limit{
		Rate:   rate,
		Burst:  burst,
		Period: time.Minute,
	}
}
