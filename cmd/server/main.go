package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"logistics-network-service/internal/adapters/cache"
	"logistics-network-service/internal/adapters/repositories"
	"logistics-network-service/internal/api"
	"logistics-network-service/internal/config"
	"logistics-network-service/internal/platform/db"
	"logistics-network-service/internal/platform/obs"
	"logistics-network-service/internal/services"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/redis/go-redis/v9"
	_ "modernc.org/sqlite"
)

// main is the application composition root.
// It wires concrete adapters (SQL, Redis) behind ports and starts the HTTP server.
func main() {
	logger := obs.NewLogger(os.Stderr, config.Get("LOG_LEVEL", "info"))

	found, err := config.LoadDotEnv()
	if err != nil {
		logger.Fatal("load .env", "err", err)
	}
	if !found {
		logger.Info("No .env file found (using environment variables)")
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config", "err", err)
	}
	logger.SetLevel(parseLevel(cfg.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = obs.WithLogger(ctx, logger)

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("server stopped", "err", err)
	}
}

func run(ctx context.Context, cfg config.Config, logger *log.Logger) error {
	dialect, err := repositories.ParseDialect(cfg.DBDriver)
	if err != nil {
		return err
	}

	conn, err := db.Open(ctx, string(dialect), cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer conn.Close()

	// Initialize schema and seed demo data on startup for local runs.
	if err := initAndSeed(conn, dialect, cfg.SeedPath); err != nil {
		return err
	}

	repo := repositories.NewSQLNetworkRepository(conn, dialect)
	network, err := services.LoadNetwork(ctx, repo)
	if err != nil {
		return err
	}
	logger.Info("network loaded", "locations", network.Size(), "links", network.LinkCount())

	// Redis is preferred for the route cache; the SQL table is the fallback.
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer client.Close()
		if err := client.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("connect redis %s: %w", cfg.RedisAddr, err)
		}
		network.SetRouteCache(cache.NewRedisRouteCache(client, cfg.RouteCacheTTL))
		logger.Info("route cache", "backend", "redis", "addr", cfg.RedisAddr, "ttl", cfg.RouteCacheTTL)
	} else {
		routeCache := cache.NewSQLRouteCache(conn, dialect, cfg.RouteCacheTTL)
		if n, err := routeCache.Purge(ctx); err != nil {
			logger.Warn("purge route cache", "err", err)
		} else if n > 0 {
			logger.Debug("purged expired routes", "count", n)
		}
		network.SetRouteCache(routeCache)
		logger.Info("route cache", "backend", string(dialect), "ttl", cfg.RouteCacheTTL)
	}

	dispatcher := services.NewDispatcher(network)
	dispatcher.ReturnToStart = cfg.ReturnToStart
	if err := dispatcher.LoadCargo(ctx, repo); err != nil {
		return err
	}
	logger.Info("dispatcher ready", "pending_cargo", dispatcher.Statistics().PendingCargo)

	router := api.NewRouter(api.Deps{
		Network:              network,
		Repo:                 repo,
		Store:                repo,
		Dispatcher:           dispatcher,
		DefaultSortingCenter: config.Get("SORTING_CENTER", ""),
		Logger:               logger,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server listening", "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func initAndSeed(conn *sql.DB, dialect repositories.Dialect, seedPath string) error {
	if err := repositories.InitSchema(conn); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}

	if seedPath == "" {
		return nil
	}
	if err := repositories.SeedFromFile(conn, dialect, seedPath); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}

	return nil
}

func parseLevel(level string) log.Level {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}
