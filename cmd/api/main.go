package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"

	httpAdapter "github.com/lorrc/task-analytics/internal/adapters/primary/http"
	mw "github.com/lorrc/task-analytics/internal/adapters/primary/http/middleware"
	"github.com/lorrc/task-analytics/internal/adapters/secondary/cache"
	"github.com/lorrc/task-analytics/internal/adapters/secondary/postgres"
	"github.com/lorrc/task-analytics/internal/config"
	"github.com/lorrc/task-analytics/internal/core/pages"
	"github.com/lorrc/task-analytics/internal/core/ports"
	"github.com/lorrc/task-analytics/internal/core/services"
	"github.com/lorrc/task-analytics/internal/infrastructure/logging"
	"github.com/lorrc/task-analytics/internal/infrastructure/metrics"
)

func main() {
	// 1. Load Configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// 2. Initialize Structured Logger
	logger := logging.NewLogger(logging.Config{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		Output:      os.Stdout,
		ServiceName: cfg.App.Name,
		Environment: cfg.App.Environment,
	})

	logger.Info("starting service",
		"version", cfg.App.Version,
		"environment", cfg.App.Environment,
		"config", cfg.String(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 3. Initialize Database Pool
	if cfg.Database.MigrateOnStart {
		if err := postgres.RunMigrations(cfg.Database.URL, cfg.Database.MigrationsDir); err != nil {
			logger.Error("failed to run migrations", "error", err)
			os.Exit(1)
		}
		logger.Info("database migrations applied")
	}

	poolConfig, err := pgxpool.ParseConfig(cfg.Database.URL)
	if err != nil {
		logger.Error("failed to parse database URL", "error", err)
		os.Exit(1)
	}

	// Apply database configuration
	poolConfig.MaxConns = int32(cfg.Database.MaxOpenConns)
	poolConfig.MinConns = int32(cfg.Database.MaxIdleConns)
	poolConfig.MaxConnLifetime = cfg.Database.ConnMaxLifetime
	poolConfig.MaxConnIdleTime = cfg.Database.ConnMaxIdleTime

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		logger.Error("database ping failed", "error", err)
		os.Exit(1)
	}
	logger.Info("database connection established")

	// 4. Repositories (Secondary Adapters)
	taskRepo := postgres.NewTaskRepository(pool)
	referenceRepo := postgres.NewReferenceRepository(pool)
	optionsRepo := postgres.NewFilterOptionsRepository(pool)

	var refs ports.ReferenceDataRepository = referenceRepo
	var cacheHealth ports.HealthChecker
	if cfg.CacheEnabled() {
		client, err := cache.NewClient(cache.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			logger.Error("failed to create redis client", "error", err)
			os.Exit(1)
		}
		defer client.Close()

		referenceCache := cache.NewReferenceCache(client, referenceRepo, cache.Config{TTL: cfg.Redis.TTL}, logger)
		refs = referenceCache
		cacheHealth = referenceCache
		logger.Info("reference cache enabled", "addr", cfg.Redis.Addr, "ttl", cfg.Redis.TTL)
	}

	// 5. Services and page orchestrators (Core)
	reportPages := httpAdapter.Pages{
		Overview:    pages.NewOverviewPage(services.NewOverviewService(taskRepo), refs, optionsRepo, logger),
		Outstanding: pages.NewOutstandingPage(services.NewOutstandingService(taskRepo), refs, optionsRepo, cfg.Analytics.CriticalPageSize, logger),
		Completed:   pages.NewCompletedPage(services.NewCompletedService(taskRepo), refs, optionsRepo, logger),
		Users:       pages.NewUsersPage(services.NewUserOverviewService(taskRepo), refs, optionsRepo, cfg.Analytics.UserPageSize, logger),
	}

	// 6. Handlers (Primary Adapters)
	renderer, err := httpAdapter.NewRenderer()
	if err != nil {
		logger.Error("failed to parse templates", "error", err)
		os.Exit(1)
	}

	cookies := httpAdapter.NewFilterCookieCodec(httpAdapter.FilterCookieConfig{
		Name:   cfg.Analytics.CookieName,
		Secret: cfg.Analytics.CookieSecret,
		Secure: cfg.Analytics.CookieSecure,
		MaxAge: cfg.Analytics.CookieMaxAge,
	})

	errorHandler := httpAdapter.NewErrorHandler(logger)
	analyticsHandler := httpAdapter.NewAnalyticsHandler(reportPages, cookies, renderer, errorHandler, logger)
	healthHandler := httpAdapter.NewHealthHandler(referenceRepo, cacheHealth, cfg.App.Version)

	// 7. Rate Limiters
	var generalRateLimiter, exportRateLimiter *mw.RateLimiter
	if cfg.RateLimit.Enabled {
		general := mw.DefaultRateLimiterConfig()
		general.RequestsPerSecond = cfg.RateLimit.RequestsPerSecond
		general.BurstSize = cfg.RateLimit.BurstSize
		generalRateLimiter = mw.NewRateLimiter(ctx, general)

		export := mw.ExportRateLimiterConfig()
		export.RequestsPerSecond = cfg.RateLimit.ExportRPS
		export.BurstSize = cfg.RateLimit.ExportBurst
		exportRateLimiter = mw.NewRateLimiter(ctx, export)
	}

	// 8. Setup Router
	r := chi.NewRouter()

	// Global middleware
	r.Use(mw.RequestID)
	r.Use(mw.RequestLogger(logger))
	r.Use(mw.RecoveryLogger(logger))

	r.NotFound(errorHandler.NotFound)

	// Probe and scrape endpoints are not rate limited
	healthHandler.RegisterRoutes(r)
	if cfg.Metrics.Enabled {
		r.Method(http.MethodGet, cfg.Metrics.Path, metrics.Handler())
	}

	r.Group(func(r chi.Router) {
		if generalRateLimiter != nil {
			r.Use(generalRateLimiter.Middleware)
		}
		r.Use(mw.FetchRequest)
		analyticsHandler.RegisterRoutes(r)
	})

	r.Group(func(r chi.Router) {
		if len(cfg.CORS.AllowedOrigins) > 0 {
			r.Use(cors.Handler(cors.Options{
				AllowedOrigins:   cfg.CORS.AllowedOrigins,
				AllowedMethods:   []string{http.MethodGet, http.MethodOptions},
				AllowedHeaders:   []string{"Accept", mw.RequestIDHeader},
				ExposedHeaders:   []string{"Content-Disposition", mw.RequestIDHeader},
				AllowCredentials: true,
				MaxAge:           300,
			}))
		}
		if exportRateLimiter != nil {
			r.Use(exportRateLimiter.Middleware)
		}
		analyticsHandler.RegisterExportRoutes(r)
	})

	// 9. Start Server with Graceful Shutdown
	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("server starting", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
		os.Exit(1)
	}

	logger.Info("server shutdown complete")
}
