package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"candidate-registry/docs"
	"candidate-registry/internal/config"
	"candidate-registry/internal/database"
	"candidate-registry/internal/handler"
	"candidate-registry/internal/middleware"
	"candidate-registry/internal/repository"
	"candidate-registry/internal/router"
	"candidate-registry/internal/service"
)

type App struct {
	server       *http.Server
	cleanupFuncs []func()
}

// Stores bundles the repositories and the health probe of one store adapter.
type Stores struct {
	Candidates service.CandidateStore
	Users      service.UserStore
	Health     interface{ Health(ctx context.Context) error }
	Close      func()
}

// OpenStores connects to the configured adapter and brings its schema up to date.
func OpenStores(ctx context.Context, cfg *config.Config) (*Stores, error) {
	switch cfg.DBAdapter {
	case config.AdapterSQLite:
		slog.Info("opening SQLite", "path", cfg.SQLiteFile)
		db, err := database.OpenSQLite(ctx, cfg.SQLiteFile)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite: %w", err)
		}
		if err := database.MigrateSQLite(ctx, db.DB); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to migrate sqlite: %w", err)
		}
		return &Stores{
			Candidates: repository.NewSQLiteCandidateRepository(db.DB, cfg.DBQueryTimeout),
			Users:      repository.NewSQLiteUserRepository(db.DB, cfg.DBQueryTimeout),
			Health:     db,
			Close:      db.Close,
		}, nil
	default:
		slog.Info("migrating PostgreSQL schema")
		if err := database.MigratePostgres(cfg.DatabaseURL); err != nil {
			return nil, fmt.Errorf("failed to migrate database: %w", err)
		}

		slog.Info("connecting to PostgreSQL")
		db, err := database.New(ctx, cfg.DatabaseURL, database.PoolOptions{
			MaxConns:       cfg.DBMaxConns,
			MinConns:       cfg.DBMinConns,
			ConnectTimeout: cfg.DBConnectTimeout,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		return &Stores{
			Candidates: repository.NewCandidateRepository(db.Pool, cfg.DBQueryTimeout),
			Users:      repository.NewUserRepository(db.Pool, cfg.DBQueryTimeout),
			Health:     db,
			Close:      db.Close,
		}, nil
	}
}

func New(cfg *config.Config) (*App, error) {
	ctx := context.Background()

	stores, err := OpenStores(ctx, cfg)
	if err != nil {
		return nil, err
	}
	slog.Info("database ready", "adapter", cfg.DBAdapter)

	tokenService, err := service.NewTokenService(cfg.JWTSecret, cfg.JWTTTL)
	if err != nil {
		stores.Close()
		return nil, fmt.Errorf("failed to initialize token service: %w", err)
	}

	auditService := service.NewAuditService(slog.Default())
	authService := service.NewAuthService(stores.Users, tokenService, auditService, cfg.AllowRegistration)
	if _, err := authService.EnsureDefaultUser(ctx, cfg.SeedUserName, cfg.SeedUserEmail, cfg.SeedUserPassword); err != nil {
		stores.Close()
		return nil, fmt.Errorf("failed to seed default user: %w", err)
	}

	candidateService := service.NewCandidateService(stores.Candidates, auditService)

	appRouter := router.New(cfg, middleware.NewAuthMiddleware(tokenService), router.Handlers{
		Auth:      handler.NewAuthHandler(authService),
		Candidate: handler.NewCandidateHandler(candidateService),
		Health:    handler.NewHealthHandler(stores.Health, cfg.DBQueryTimeout),
		Docs:      handler.NewDocsHandler(docs.OpenAPI),
	})

	server := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           appRouter,
		ReadHeaderTimeout: cfg.ServerReadHeaderTimeout,
		WriteTimeout:      cfg.ServerWriteTimeout,
		IdleTimeout:       cfg.ServerIdleTimeout,
	}

	return &App{
		server:       server,
		cleanupFuncs: []func(){stores.Close},
	}, nil
}

func (a *App) Run() error {
	serveErr := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", a.server.Addr)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(stop)

	var runErr error
	select {
	case sig := <-stop:
		slog.Info("shutdown signal received", "signal", sig.String())
	case runErr = <-serveErr:
		slog.Error("server failed", "error", runErr)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.server.Shutdown(ctx); err != nil && runErr == nil {
		runErr = fmt.Errorf("graceful shutdown failed: %w", err)
	}

	// Store handles close only after in-flight requests have drained.
	for _, cleanup := range a.cleanupFuncs {
		cleanup()
	}

	if runErr != nil {
		return runErr
	}

	slog.Info("server stopped")
	return nil
}
