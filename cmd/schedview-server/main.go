package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/schedview/schedview/internal/config"
	"github.com/schedview/schedview/internal/domain/directory"
	"github.com/schedview/schedview/internal/domain/schedule"
	"github.com/schedview/schedview/internal/platform/db"
	"github.com/schedview/schedview/internal/platform/middleware"
	"github.com/schedview/schedview/internal/platform/telemetry"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "schedview-server",
		Short: "Doctor appointment schedule viewer API",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(seedCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the schedule viewer API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}

	// migrate up
	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator := db.NewMigrator(pool, dir)
			count, err := migrator.Up(ctx)
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}

			fmt.Printf("Applied %d migration(s) successfully.\n", count)
			return nil
		},
	}
	upCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(upCmd)

	// migrate status
	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator := db.NewMigrator(pool, dir)
			statuses, err := migrator.Status(ctx)
			if err != nil {
				return fmt.Errorf("failed to get migration status: %w", err)
			}

			fmt.Printf("%-10s %-40s %-10s %s\n", "VERSION", "NAME", "STATUS", "APPLIED AT")
			fmt.Println("---------- ---------------------------------------- ---------- --------------------")
			for _, s := range statuses {
				status := "pending"
				appliedAt := ""
				if s.Applied {
					status = "applied"
					if s.AppliedAt != nil {
						appliedAt = s.AppliedAt.Format("2006-01-02 15:04:05")
					}
				}
				fmt.Printf("%-10d %-40s %-10s %s\n", s.Version, s.Name, status, appliedAt)
			}
			return nil
		},
	}
	statusCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(statusCmd)

	return cmd
}

// newLogger builds the process logger: console writer in development,
// structured JSON everywhere else. Unknown levels fall back to info.
func newLogger(cfg *config.Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	var logger zerolog.Logger
	if cfg.IsDev() {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout})
	} else {
		logger = zerolog.New(os.Stdout)
	}
	return logger.Level(level).With().Timestamp().Logger()
}

// buildCacheStore picks the response cache backend from config. A nil return
// means caching is off; a bad Redis URL disables the cache rather than
// blocking startup, since the API works fine without it.
func buildCacheStore(cfg *config.Config, logger zerolog.Logger) middleware.CacheStore {
	switch cfg.CacheDriver {
	case "redis":
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			logger.Error().Err(err).Msg("invalid REDIS_URL, response cache disabled")
			return nil
		}
		logger.Info().Str("addr", opts.Addr).Msg("response cache backed by redis")
		return middleware.NewRedisCacheStore(redis.NewClient(opts))
	case "memory":
		logger.Info().Int("size", cfg.CacheSize).Dur("ttl", cfg.CacheTTL).Msg("response cache backed by in-process LRU")
		return middleware.NewLRUCacheStore(cfg.CacheSize, cfg.CacheTTL)
	default: // off
		return nil
	}
}

func runServer() error {
	// Config
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	// Logger
	logger := newLogger(cfg)

	// Stores
	var (
		pool     *pgxpool.Pool
		apptRepo schedule.Repository
		dirRepo  directory.Repository
	)
	ctx := context.Background()
	if cfg.StoreDriver == "postgres" {
		pool, err = db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect to database")
		}
		defer pool.Close()
		logger.Info().Msg("connected to database")

		apptRepo = schedule.NewPGRepository(pool)
		dirRepo = directory.NewPGRepository(pool)
	} else {
		doctors, patients, appts := demoDataset(time.Now())
		apptRepo = schedule.NewMemoryRepository(appts...)
		dirRepo = directory.NewMemoryRepository(doctors, patients)
		logger.Info().
			Int("doctors", len(doctors)).
			Int("patients", len(patients)).
			Int("appointments", len(appts)).
			Msg("memory store seeded with demo data")
	}

	window := schedule.WindowConfig{
		StartHour:    cfg.WindowStartHour,
		EndHour:      cfg.WindowEndHour,
		SlotMinutes:  cfg.SlotMinutes,
		UnitsPerSlot: cfg.UnitsPerSlot,
	}

	// Echo server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Global middleware
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(middleware.SecurityHeaders())
	e.Use(middleware.RequestTimeout(30 * time.Second))
	e.Use(middleware.BodyLimit("1M"))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodHead, http.MethodOptions},
		AllowHeaders: []string{"Content-Type", "X-Request-ID", "If-None-Match"},
	}))

	// Metrics
	var metrics *telemetry.Metrics
	if cfg.MetricsEnabled {
		metrics = telemetry.New()
		metrics.RegisterPoolGauges(pool)
		e.Use(metrics.Middleware())
		e.GET("/metrics", metrics.Handler())
	}

	// API group
	apiV1 := e.Group("/api/v1")

	// Rate limiting middleware
	rateLimitCfg := middleware.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimitRPS,
		BurstSize:         cfg.RateLimitBurst,
	}
	if rateLimitCfg.RequestsPerSecond <= 0 {
		rateLimitCfg = middleware.DefaultRateLimitConfig()
	}
	apiV1.Use(middleware.RateLimit(rateLimitCfg))

	// HTTP caching: the ETag layer sits outside the response cache so
	// replayed hits still revalidate to 304.
	cacheCfg := middleware.DefaultCacheConfig()
	if ttl := int(cfg.CacheTTL.Seconds()); ttl > 0 {
		cacheCfg.MaxAge = ttl
	}
	apiV1.Use(middleware.ETagMiddleware(cacheCfg))
	if store := buildCacheStore(cfg, logger); store != nil {
		apiV1.Use(middleware.ResponseCacheMiddleware(store, cfg.CacheTTL))
	}

	// Domain wiring: the schedule service resolves doctor and patient
	// references through the directory.
	svc := schedule.NewService(apptRepo, dirRepo, window)
	schedule.NewHandler(svc).RegisterRoutes(apiV1)
	directory.NewHandler(dirRepo).RegisterRoutes(apiV1)

	// Health check (pool is nil for the memory store)
	e.GET("/health", db.HealthHandler(pool))

	// Graceful shutdown
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Str("store", cfg.StoreDriver).Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("server shutdown failed")
	}
	logger.Info().Msg("server stopped")
	return nil
}
