// AngelaMos | 2026
// main.go

package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/oonkoo/dashboard-api/internal/admin"
	"github.com/oonkoo/dashboard-api/internal/auth"
	"github.com/oonkoo/dashboard-api/internal/client"
	"github.com/oonkoo/dashboard-api/internal/config"
	"github.com/oonkoo/dashboard-api/internal/core"
	"github.com/oonkoo/dashboard-api/internal/health"
	"github.com/oonkoo/dashboard-api/internal/inquiry"
	"github.com/oonkoo/dashboard-api/internal/lead"
	"github.com/oonkoo/dashboard-api/internal/middleware"
	"github.com/oonkoo/dashboard-api/internal/migrate"
	"github.com/oonkoo/dashboard-api/internal/permission"
	"github.com/oonkoo/dashboard-api/internal/project"
	"github.com/oonkoo/dashboard-api/internal/sale"
	"github.com/oonkoo/dashboard-api/internal/server"
	"github.com/oonkoo/dashboard-api/internal/subscription"
	"github.com/oonkoo/dashboard-api/internal/user"
)

const (
	drainDelay = 5 * time.Second
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

//nolint:funlen // bootstrap code is inherently verbose
func run(configPath string) error {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer stop()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger := setupLogger(cfg.Log)
	slog.SetDefault(logger)

	logger.Info("starting application",
		"name", cfg.App.Name,
		"version", cfg.App.Version,
		"environment", cfg.App.Environment,
	)

	var telemetry *core.Telemetry
	if cfg.Otel.Enabled {
		tel, telErr := core.NewTelemetry(ctx, cfg.Otel, cfg.App)
		if telErr != nil {
			logger.Warn("failed to initialize telemetry", "error", telErr)
		} else {
			telemetry = tel
			logger.Info("OpenTelemetry tracer initialized",
				"endpoint", cfg.Otel.Endpoint,
			)
		}
	}

	core.RegisterMetrics()

	db, err := core.NewDatabase(ctx, cfg.Database)
	if err != nil {
		return err
	}
	logger.Info("database connected",
		"max_open_conns", cfg.Database.MaxOpenConns,
		"max_idle_conns", cfg.Database.MaxIdleConns,
	)

	if cfg.Database.MigrateOnStart {
		if err := migrate.Up(ctx, db.DB.DB, logger); err != nil {
			return err
		}
		logger.Info("database migrations applied")
	}

	redis, err := core.NewRedis(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	logger.Info("redis connected",
		"pool_size", cfg.Redis.PoolSize,
	)

	verifier, err := auth.NewIdentityVerifier(cfg.Identity)
	if err != nil {
		return err
	}
	logger.Info("identity verifier initialized",
		"issuer", cfg.Identity.Issuer,
		"jwks", cfg.Identity.JWKSURL != "",
	)

	superAdmin := cfg.Auth.SuperAdminEmail

	userRepo := user.NewRepository(db.DB)
	userSvc := user.NewService(userRepo, superAdmin)

	authz := auth.NewAuthorizer(userSvc, superAdmin)
	authz.Use(middleware.RoleRateLimiter(
		ctx,
		redis.Client,
		cfg.RateLimit.Roles,
		middleware.PerMinute(cfg.RateLimit.Requests, cfg.RateLimit.Burst),
	))

	authSvc := auth.NewService(
		userSvc,
		verifier,
		auth.NewRedisRevocations(redis.Client),
		superAdmin,
		permission.Role(cfg.Auth.DefaultRole),
	)

	leadSvc := lead.NewService(lead.NewRepository(db.DB))
	inquirySvc := inquiry.NewService(inquiry.NewRepository(db.DB))
	saleSvc := sale.NewService(sale.NewRepository(db.DB))
	projectSvc := project.NewService(project.NewRepository(db.DB))
	serviceSvc := subscription.NewService(subscription.NewRepository(db.DB))

	healthHandler := health.NewHandler(cfg.App.Version,
		health.Dependency{Name: "database", Checker: db},
		health.Dependency{Name: "redis", Checker: redis},
	)

	adminHandler := admin.NewHandler(admin.HandlerConfig{
		Authorizer: authz,
		Resources: map[string]admin.StatusCounter{
			"leads":     leadSvc,
			"inquiries": inquirySvc,
			"sales":     saleSvc,
			"projects":  projectSvc,
			"services":  serviceSvc,
		},
		Users:      userSvc,
		DBStats:    db.Stats,
		RedisStats: redis.PoolStats,
		DBPing:     db.Ping,
		RedisPing:  redis.Ping,
	})

	srv := server.New(server.Config{
		ServerConfig:  cfg.Server,
		HealthHandler: healthHandler,
		Logger:        logger,
	})

	router := srv.Router()

	router.Use(middleware.RequestID)
	router.Use(middleware.Trace)
	router.Use(middleware.Identify(authSvc, cfg.Identity.SessionCookie))
	router.Use(middleware.Logger(logger))
	router.Use(middleware.SecurityHeaders(cfg.IsProduction()))
	router.Use(middleware.CORS(cfg.CORS))
	router.Use(middleware.Metrics)
	router.Use(
		middleware.NewRateLimiter(ctx, redis.Client, middleware.RateLimitConfig{
			Limit: middleware.PerMinute(
				cfg.RateLimit.Requests,
				cfg.RateLimit.Burst,
			),
			FailOpen:   true,
			BypassFunc: middleware.IsIdentified,
		}).Handler,
	)

	healthHandler.RegisterRoutes(router)

	if cfg.Metrics.Enabled {
		router.Handle(cfg.Metrics.Path, core.MetricsHandler())
	}

	sessionLimiter := middleware.NewRateLimiter(ctx, redis.Client, middleware.RateLimitConfig{
		Limit: middleware.PerMinute(
			cfg.RateLimit.Session.RequestsPerMinute,
			max(cfg.RateLimit.Session.Burst, 1),
		),
		KeyFunc:  middleware.KeyByIdentityAndEndpoint,
		FailOpen: true,
	})

	router.Route("/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(sessionLimiter.Handler)
			auth.NewHandler(authSvc, authz).RegisterRoutes(r)
		})

		userHandler := user.NewHandler(userSvc, authz)
		userHandler.RegisterRoutes(r)
		userHandler.RegisterAdminRoutes(r)
		client.NewHandler(client.NewService(userRepo, superAdmin), authz).RegisterRoutes(r)
		lead.NewHandler(leadSvc, authz).RegisterRoutes(r)
		inquiry.NewHandler(inquirySvc, authz).RegisterRoutes(r)
		sale.NewHandler(saleSvc, authz).RegisterRoutes(r)
		project.NewHandler(projectSvc, authz).RegisterRoutes(r)
		subscription.NewHandler(serviceSvc, authz).RegisterRoutes(r)
		adminHandler.RegisterRoutes(r)
	})

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		cfg.Server.ShutdownTimeout+drainDelay+5*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx, drainDelay); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	if telemetry != nil {
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			logger.Error("telemetry shutdown error", "error", err)
		}
	}

	if err := redis.Close(); err != nil {
		logger.Error("redis close error", "error", err)
	}

	if err := db.Close(); err != nil {
		logger.Error("database close error", "error", err)
	}

	logger.Info("application stopped")
	return nil
}

func setupLogger(cfg config.LogConfig) *slog.Logger {
	var handler slog.Handler

	level := slog.LevelInfo
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}

	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}
