package main

import (
	"context"
	"flag"
	"os"

	"github.com/oggyb/matcha/internal/config"
	"github.com/oggyb/matcha/internal/db"
	"github.com/oggyb/matcha/internal/logger"
	"github.com/oggyb/matcha/internal/service/relationship"
)

func main() {
	users := flag.Int("users", 40, "number of demo users")
	flag.Parse()

	// Load configuration
	cfg := config.New()
	logger.InitFromConfig(cfg)

	database, err := db.NewDB(cfg)
	if err != nil {
		logger.Error("failed to init db", "err", err)
		os.Exit(1)
	}
	defer db.Close(database)

	// likes go through the state machine; a single process needs no pair lock
	svc := relationship.NewGormService(database, nil, logger.Named("seed"))
	like := func(ctx context.Context, actor, target uint64) error {
		_, err := svc.SetLike(ctx, actor, target, true)
		return err
	}

	if err := db.SeedTestData(context.Background(), database, *users, like); err != nil {
		logger.Error("failed to seed", "err", err)
		os.Exit(1)
	}

	logger.Info("seeding completed", "users", *users)
}
