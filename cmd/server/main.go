package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"travian-planner/internal/middleware"
	"travian-planner/internal/planner"
	"travian-planner/internal/server"
	"travian-planner/internal/shared/config"
	"travian-planner/internal/shared/database"
	"travian-planner/internal/shared/logger"
	"travian-planner/internal/shared/redis"
	"travian-planner/internal/spreadsheet"
	"travian-planner/internal/village"

	"golang.org/x/sync/errgroup"
)

// memoryCacheEntries bounds the in-process plan cache when Redis is disabled.
const memoryCacheEntries = 512

func main() {
	if err := config.Init(); err != nil {
		log.Fatal("Failed to initialize configuration:", err)
	}
	logger.Init()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		slog.Error("Server stopped with error", "error", err)
		os.Exit(1)
	}
	slog.Info("Server stopped")
}

func run(ctx context.Context) error {
	cfg := config.GlobalConfig
	appLogger := slog.With("component", "main")

	appLogger.Info("Starting Travian planner",
		"environment", cfg.Server.Environment,
		"port", cfg.Server.Port,
		"database_enabled", cfg.Database.Enabled,
		"redis_enabled", cfg.Redis.Enabled,
		"admin_enabled", cfg.AdminEnabled(),
	)

	store, db, err := openVillageStore(ctx, cfg)
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
	}

	rdb, err := redis.Connect(ctx)
	if err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}
	defer rdb.Close()

	var cache planner.Cache
	if rdb != nil {
		cache = planner.NewRedisCache(rdb.Client, cfg.Redis.PlanTTL)
	} else {
		cache = planner.NewMemoryCache(cfg.Redis.PlanTTL, memoryCacheEntries)
	}

	villageService := village.NewService(store, slog.Default())
	if db == nil {
		seedDirectory(ctx, villageService, cfg.Directory.File)
	}

	plannerService := planner.NewService(cache, planner.Options{
		Location: cfg.Planner.Location,
		Workers:  cfg.Planner.Workers,
		MaxPairs: cfg.Planner.MaxPairs,
	}, slog.Default())

	routes := server.NewRoutes(db, rdb, plannerService, villageService, cfg.Auth.JWTSecret, slog.Default())
	mux := routes.Setup()

	corsMiddleware := middleware.NewCORS(cfg.Frontend)
	rateLimiter := middleware.NewRateLimiter(cfg.RateLimit)
	handler := corsMiddleware.Middleware(rateLimiter.Middleware(mux))

	httpServer := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		rateLimiter.Run(gctx)
		return nil
	})

	g.Go(func() error {
		appLogger.Info("HTTP server listening", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		appLogger.Info("Shutting down HTTP server", "timeout", cfg.Server.ShutdownTimeout)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http server shutdown: %w", err)
		}
		return nil
	})

	return g.Wait()
}

// openVillageStore returns the Postgres-backed directory when the database
// is enabled and an in-memory one otherwise. db is nil in the second case.
func openVillageStore(ctx context.Context, cfg *config.Config) (village.Store, *database.DB, error) {
	if !cfg.Database.Enabled {
		slog.Info("Database disabled, using in-memory village directory")
		return village.NewMemoryStore(), nil, nil
	}

	db, err := database.Connect(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	migrateCtx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()

	if err := db.RunMigrations(migrateCtx); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return village.NewRepository(db, slog.Default()), db, nil
}

// seedDirectory loads the directory workbook into the in-memory store. A
// missing or unreadable workbook only leaves the directory empty.
func seedDirectory(ctx context.Context, service *village.Service, path string) {
	logger := slog.With("component", "main", "operation", "seed_directory", "file", path)

	villages, rowErrors, err := spreadsheet.ReadVillagesFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Warn("Directory workbook not found, starting with an empty directory")
		} else {
			logger.Error("Failed to read directory workbook", "error", err)
		}
		return
	}

	for _, rowErr := range rowErrors {
		logger.Warn("Skipped directory row", "row", rowErr.Row, "reason", rowErr.Reason)
	}

	if err := service.Load(ctx, villages); err != nil {
		logger.Error("Failed to load directory", "error", err)
		return
	}

	logger.Info("Village directory loaded", "villages", len(villages), "skipped", len(rowErrors))
}
