package main

import (
	"context"
	"database/sql"
	"flag"
	"logistics-network-service/internal/adapters/cache"
	"logistics-network-service/internal/adapters/repositories"
	"logistics-network-service/internal/config"
	"logistics-network-service/internal/platform/db"
	"logistics-network-service/internal/platform/obs"
	"os"

	"github.com/charmbracelet/log"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

func main() {
	logger := obs.NewLogger(os.Stderr, config.Get("LOG_LEVEL", "info"))

	if found, err := config.LoadDotEnv(); err != nil {
		logger.Fatal("load .env", "err", err)
	} else if !found {
		logger.Info("No .env file found (using environment variables)")
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config", "err", err)
	}

	seedPath := flag.String("seed", cfg.SeedPath, "seed file (.json or .toml)")
	purge := flag.Bool("purge-cache", false, "delete expired route cache entries")
	flag.Parse()

	dialect, err := repositories.ParseDialect(cfg.DBDriver)
	if err != nil {
		logger.Fatal("select dialect", "err", err)
	}

	ctx := context.Background()
	conn, err := db.Open(ctx, string(dialect), cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("open database", "err", err)
	}
	defer conn.Close()

	if err := initAndSeed(logger, conn, dialect, *seedPath); err != nil {
		logger.Fatal("dbtool failed", "err", err)
	}

	if *purge {
		n, err := cache.NewSQLRouteCache(conn, dialect, 0).Purge(ctx)
		if err != nil {
			logger.Fatal("purge route cache", "err", err)
		}
		logger.Info("Route cache purged.", "deleted", n)
	}
}

func initAndSeed(logger *log.Logger, conn *sql.DB, dialect repositories.Dialect, seedPath string) error {
	logger.Info("Initializing database schema...", "driver", dialect)
	if err := repositories.InitSchema(conn); err != nil {
		return err
	}
	logger.Info("Schema ready.")

	logger.Info("Seeding database...", "seed", seedPath)
	if err := repositories.SeedFromFile(conn, dialect, seedPath); err != nil {
		return err
	}
	logger.Info("Seeding complete.")

	return nil
}
