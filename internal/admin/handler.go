// AngelaMos | 2026
// handler.go

package admin

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"runtime"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/oonkoo/dashboard-api/internal/auth"
	"github.com/oonkoo/dashboard-api/internal/core"
	"github.com/oonkoo/dashboard-api/internal/permission"
)

type StatusCounter interface {
	CountByStatus(ctx context.Context) (map[string]int, error)
}

type RoleCounter interface {
	CountByRole(ctx context.Context) (map[string]int, error)
}

type Handler struct {
	authz      *auth.Authorizer
	resources  map[string]StatusCounter
	users      RoleCounter
	dbStats    func() sql.DBStats
	redisStats func() *redis.PoolStats
	redisPing  func(ctx context.Context) error
	dbPing     func(ctx context.Context) error
}

type HandlerConfig struct {
	Authorizer *auth.Authorizer
	// Resources maps a response key such as "leads" to its counter.
	Resources  map[string]StatusCounter
	Users      RoleCounter
	DBStats    func() sql.DBStats
	RedisStats func() *redis.PoolStats
	RedisPing  func(ctx context.Context) error
	DBPing     func(ctx context.Context) error
}

func NewHandler(cfg HandlerConfig) *Handler {
	return &Handler{
		authz:      cfg.Authorizer,
		resources:  cfg.Resources,
		users:      cfg.Users,
		dbStats:    cfg.DBStats,
		redisStats: cfg.RedisStats,
		redisPing:  cfg.RedisPing,
		dbPing:     cfg.DBPing,
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/admin/stats", func(r chi.Router) {
		r.Get("/", h.authz.Require(permission.ViewAnalytics, h.GetStats))
		r.Get("/runtime", h.authz.RequireSuperAdmin(h.GetRuntimeStats))
	})
}

// GetStats reports per-status record counts for every resource, users by
// role, and the health of the backing stores.
func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request, _ *auth.Principal) {
	counts, users, err := h.collectCounts(r.Context())
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	total := 0
	for _, n := range users {
		total += n
	}

	core.OK(w, StatsResponse{
		Resources: counts,
		Users: UserStats{
			Total:  total,
			ByRole: users,
		},
		System: h.systemStats(r.Context()),
	})
}

func (h *Handler) GetRuntimeStats(w http.ResponseWriter, _ *http.Request, _ *auth.Principal) {
	core.OK(w, readRuntimeStats())
}

func (h *Handler) collectCounts(
	ctx context.Context,
) (map[string]map[string]int, map[string]int, error) {
	g, ctx := errgroup.WithContext(ctx)

	results := make([]map[string]int, 0, len(h.resources))
	names := make([]string, 0, len(h.resources))
	for name := range h.resources {
		names = append(names, name)
		results = append(results, nil)
	}

	for i, name := range names {
		counter := h.resources[name]
		g.Go(func() error {
			c, err := counter.CountByStatus(ctx)
			if err != nil {
				return fmt.Errorf("count %s: %w", name, err)
			}
			results[i] = c
			return nil
		})
	}

	var byRole map[string]int
	if h.users != nil {
		g.Go(func() error {
			c, err := h.users.CountByRole(ctx)
			if err != nil {
				return fmt.Errorf("count users: %w", err)
			}
			byRole = c
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	counts := make(map[string]map[string]int, len(names))
	for i, name := range names {
		counts[name] = results[i]
	}
	if byRole == nil {
		byRole = map[string]int{}
	}

	return counts, byRole, nil
}

func (h *Handler) systemStats(ctx context.Context) SystemStats {
	dbHealthy := h.dbPing == nil || h.dbPing(ctx) == nil
	redisHealthy := h.redisPing == nil || h.redisPing(ctx) == nil

	return SystemStats{
		Database: DatabaseStatus{
			Healthy: dbHealthy,
			Stats:   h.getDBStats(),
		},
		Redis: RedisStatus{
			Healthy: redisHealthy,
			Stats:   h.getRedisStats(),
		},
		Runtime: readRuntimeStats(),
	}
}

func readRuntimeStats() RuntimeStats {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	return RuntimeStats{
		GoVersion:    runtime.Version(),
		NumGoroutine: runtime.NumGoroutine(),
		NumCPU:       runtime.NumCPU(),
		MemAlloc:     memStats.Alloc,
		MemSys:       memStats.Sys,
		NumGC:        memStats.NumGC,
	}
}

func (h *Handler) getDBStats() *DBPoolStats {
	if h.dbStats == nil {
		return nil
	}

	stats := h.dbStats()
	return &DBPoolStats{
		MaxOpenConnections: stats.MaxOpenConnections,
		OpenConnections:    stats.OpenConnections,
		InUse:              stats.InUse,
		Idle:               stats.Idle,
		WaitCount:          stats.WaitCount,
		WaitDuration:       stats.WaitDuration.String(),
	}
}

func (h *Handler) getRedisStats() *RedisPoolStats {
	if h.redisStats == nil {
		return nil
	}

	stats := h.redisStats()
	return &RedisPoolStats{
		Hits:       stats.Hits,
		Misses:     stats.Misses,
		Timeouts:   stats.Timeouts,
		TotalConns: stats.TotalConns,
		IdleConns:  stats.IdleConns,
	}
}
