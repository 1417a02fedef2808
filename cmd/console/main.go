package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Harshitk-cp/sump-console/internal/api"
	"github.com/Harshitk-cp/sump-console/internal/buildconfig"
	"github.com/Harshitk-cp/sump-console/internal/config"
	"github.com/Harshitk-cp/sump-console/internal/identity"
	"github.com/Harshitk-cp/sump-console/internal/service"
	"github.com/Harshitk-cp/sump-console/internal/store"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	if err := config.Load(); err != nil {
		panic(err)
	}

	logger := newLogger(config.LogLevel())
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()

	storage := service.NewMemoryStorageFactory()
	var db api.Pinger
	switch {
	case config.DatabaseURL() != "":
		pool, err := pgxpool.New(ctx, config.DatabaseURL())
		if err != nil {
			logger.Fatal("failed to connect to database", zap.Error(err))
		}
		defer pool.Close()

		if err := pool.Ping(ctx); err != nil {
			logger.Fatal("failed to ping database", zap.Error(err))
		}
		identities := store.NewIdentityStore(pool, identity.StorageKey)
		if err := identities.EnsureSchema(ctx); err != nil {
			logger.Fatal("failed to prepare identity table", zap.Error(err))
		}
		storage = service.NewPostgresStorageFactory(identities)
		db = pool
		logger.Info("tenant ids stored in postgres")
	case config.IdentityDir() != "":
		storage = service.NewFileStorageFactory(config.IdentityDir())
		logger.Info("tenant ids stored on disk", zap.String("dir", config.IdentityDir()))
	default:
		logger.Warn("no DATABASE_URL or IDENTITY_DIR, tenant ids are lost on restart")
	}

	workspaces, err := service.NewWorkspaceRegistry(service.WorkspaceConfig{
		APIURL:  config.APIURL(),
		IdleTTL: config.WorkspaceIdleTTL(),
		Storage: storage,
	}, logger)
	if err != nil {
		logger.Fatal("invalid workspace configuration", zap.Error(err))
	}

	app := api.NewApp(api.Config{
		CookieSecure:   config.CookieSecure(),
		RateLimitRPS:   config.RateLimitRPS(),
		RateLimitBurst: config.RateLimitBurst(),
	}, workspaces, db, logger)
	app.Start()

	addr := config.ServerAddr()
	srv := &http.Server{
		Addr:              addr,
		Handler:           app.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.Info("console starting",
			zap.String("addr", addr),
			zap.String("api_url", config.APIURL()),
			zap.String("version", buildconfig.Version()))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("shutting down console")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
	}
	app.Stop()

	logger.Info("console stopped")
}

func newLogger(level string) *zap.Logger {
	cfg := zap.NewProductionConfig()
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
