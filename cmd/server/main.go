package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/oggyb/matcha/internal/app"
	"github.com/oggyb/matcha/internal/cache"
	"github.com/oggyb/matcha/internal/config"
	"github.com/oggyb/matcha/internal/db"
	"github.com/oggyb/matcha/internal/logger"
	"github.com/oggyb/matcha/internal/server"
	"github.com/oggyb/matcha/internal/service/matcha"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.New()

	// Init logger (global singleton)
	logger.InitFromConfig(cfg)
	log := logger.L() // slog.Logger pointer

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "err", err)
		os.Exit(1)
	}

	// Init DB
	database, err := db.NewDB(cfg)
	if err != nil {
		log.Error("failed to init db", "err", err)
		os.Exit(1)
	}
	defer db.Close(database)

	// Init Redis
	redisCache := cache.NewRedisCache(cfg)
	if err := redisCache.Ping(context.Background()); err != nil {
		log.Error("failed to connect to redis", "err", err)
		os.Exit(1)
	}
	defer redisCache.Close()

	// Inject dependencies into app context
	appCtx := app.New(cfg, database, redisCache, log)

	if cfg.App.ENV == "development" {
		like := func(ctx context.Context, actor, target uint64) error {
			_, err := appCtx.Relationships.SetLike(ctx, actor, target, true)
			return err
		}
		if err := db.SeedTestData(context.Background(), database, 40, like); err != nil {
			log.Error("failed to seed", "err", err)
		}
	}

	grpcServer := server.NewGRPCServer(logger.Named("grpc"), matcha.NewRegistrar(appCtx))

	httpServer := server.NewHTTPServer(cfg, server.NewHTTPRouter(logger.Named("http"), map[string]server.HealthCheck{
		"db": func(ctx context.Context) error {
			sqlDB, err := database.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
		"redis": redisCache.Ping,
	}))

	errCh := make(chan error, 2)
	go func() {
		log.Info("starting gRPC server", "addr", cfg.GRPCAddr())
		errCh <- server.StartGRPCServer(cfg, grpcServer)
	}()
	go func() {
		log.Info("starting metrics server", "addr", cfg.Metrics.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		log.Info("shutdown signal received", "signal", sig.String())
	case err := <-errCh:
		log.Error("server stopped", "err", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		log.Error("metrics server shutdown", "err", err)
	}

	stopped := make(chan struct{})
	go func() {
		grpcServer.GracefulStop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-ctx.Done():
		grpcServer.Stop()
	}

	log.Info("server exited")
}
