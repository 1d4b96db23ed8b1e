// Command server starts the meal-planner API server.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/MarcusLeong7/vttp-project/internal/config"
	"github.com/MarcusLeong7/vttp-project/internal/migrate"
	"github.com/MarcusLeong7/vttp-project/internal/repository"
	"github.com/MarcusLeong7/vttp-project/internal/repository/postgres"
	redisrepo "github.com/MarcusLeong7/vttp-project/internal/repository/redis"
	httpserver "github.com/MarcusLeong7/vttp-project/internal/server/http"
	"github.com/MarcusLeong7/vttp-project/internal/service"
	"github.com/MarcusLeong7/vttp-project/internal/token"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

// main parses configuration, runs migrations, and starts the HTTP server.
func main() {
	logger, _ := zap.NewProduction()
	defer func() { _ = logger.Sync() }()

	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		logger.Fatal("configuration", zap.Error(err))
	}

	logger.Info("starting",
		zap.String("version", version),
		zap.String("buildDate", buildDate),
		zap.String("addr", cfg.Addr),
	)

	// Context with OS signals
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := migrate.Up(ctx, cfg.DSN); err != nil {
		logger.Fatal("migrate up", zap.Error(err))
	}

	// DB pool
	db, err := postgres.New(ctx, cfg.DSN)
	if err != nil {
		logger.Fatal("postgres pool", zap.Error(err))
	}
	defer db.Close()

	// Account mirror. A down Redis degrades the fallback read path only.
	mirror, err := redisrepo.NewFromURL(cfg.RedisURL)
	if err != nil {
		logger.Fatal("redis config", zap.Error(err))
	}
	defer mirror.Close()
	if err := mirror.Ping(ctx); err != nil {
		logger.Warn("redis unreachable at startup", zap.Error(err))
	}

	// Repositories and services
	accounts := postgres.NewAccountRepo(db)
	lookup := repository.NewFallbackLookup(accounts, mirror, logger)
	tokens := token.NewManager([]byte(cfg.JWTSecret), cfg.AccessTTL)
	authSvc := service.NewAuthService(accounts, mirror, lookup, tokens, logger)

	// HTTP pipeline
	gate := httpserver.NewAuthGate(tokens, lookup, logger)
	handlers := httpserver.NewHandlers(authSvc, db, mirror, logger)
	router := httpserver.NewRouter(gate, handlers, logger)

	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", cfg.Addr))
		errCh <- srv.ListenAndServe()
	}()

	// Wait for stop
	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			_ = srv.Close()
		}
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", zap.Error(err))
			os.Exit(1)
		}
	}

	logger.Info("shutdown complete")
}
