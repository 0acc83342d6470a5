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

	"go-role-auth/internal/config"
	"go-role-auth/internal/database"
	"go-role-auth/internal/handler"
	"go-role-auth/internal/logger"
	"go-role-auth/internal/metrics"
	"go-role-auth/internal/middleware"
	"go-role-auth/internal/repository"
	"go-role-auth/internal/router"
	"go-role-auth/internal/service"
)

const shutdownTimeout = 10 * time.Second

type identityStore interface {
	service.IdentityStore
	Ping(ctx context.Context) error
}

type App struct {
	server       *http.Server
	logger       *slog.Logger
	cleanupFuncs []func()
}

func New(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	log := logger.New(os.Stdout, cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(log)

	appMetrics := metrics.New()

	store, cleanup, err := openStore(ctx, cfg, appMetrics)
	if err != nil {
		return nil, err
	}

	if err := service.Bootstrap(ctx, store, service.BootstrapOptions{
		Roles:         cfg.SeedRoles,
		AdminEmail:    cfg.AdminEmail,
		AdminPassword: cfg.AdminPassword,
		AdminFullName: cfg.AdminFullName,
	}, log); err != nil {
		cleanup()
		return nil, fmt.Errorf("failed to bootstrap identity store: %w", err)
	}

	tokens := service.NewTokenIssuer(cfg.JWT)
	authService := service.NewAuthService(store, tokens, log, appMetrics)
	roleService := service.NewRoleService(store, log)

	appRouter := router.New(
		cfg,
		log,
		appMetrics,
		middleware.NewAuthMiddleware(tokens),
		handler.NewAccountHandler(authService),
		handler.NewRoleHandler(roleService),
		handler.NewHealthHandler(store),
	)

	server := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           appRouter,
		ReadHeaderTimeout: cfg.ServerReadHeaderTimeout,
		WriteTimeout:      cfg.ServerWriteTimeout,
		IdleTimeout:       cfg.ServerIdleTimeout,
	}

	return &App{
		server:       server,
		logger:       log,
		cleanupFuncs: []func(){cleanup},
	}, nil
}

func openStore(ctx context.Context, cfg *config.Config, appMetrics *metrics.Metrics) (identityStore, func(), error) {
	policy := repository.PasswordPolicy{MinLength: cfg.PasswordMinLength}

	if cfg.StoreDriver == config.StoreDriverMemory {
		slog.Warn("using in-memory identity store; data is lost on restart")
		return repository.NewMemoryStore(policy, cfg.BcryptCost), func() {}, nil
	}

	slog.Info("connecting to PostgreSQL")
	db, err := database.New(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.Migrate(ctx); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	appMetrics.RegisterGauge("db_pool_acquired_conns", "Connections currently in use", func() float64 {
		acquired, _, _ := db.PoolStats()
		return float64(acquired)
	})
	appMetrics.RegisterGauge("db_pool_idle_conns", "Idle connections in the pool", func() float64 {
		_, idle, _ := db.PoolStats()
		return float64(idle)
	})
	appMetrics.RegisterGauge("db_pool_total_conns", "Total connections in the pool", func() float64 {
		_, _, total := db.PoolStats()
		return float64(total)
	})

	slog.Info("database ready")
	return repository.NewIdentityStore(db.Pool, policy, cfg.BcryptCost), db.Close, nil
}

func (a *App) Run() error {
	serveErr := make(chan error, 1)
	go func() {
		a.logger.Info("server starting", "addr", a.server.Addr)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(stop)

	select {
	case err := <-serveErr:
		a.cleanup()
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case sig := <-stop:
		a.logger.Info("shutdown requested", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	err := a.server.Shutdown(ctx)
	a.cleanup()
	if err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	a.logger.Info("server stopped")
	return nil
}

func (a *App) cleanup() {
	for _, fn := range a.cleanupFuncs {
		fn()
	}
}
