package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"github.com/anonto42/connectly/backend/internal/models"
	"github.com/anonto42/connectly/backend/internal/services"
	"github.com/anonto42/connectly/backend/pkg/config"
)

func main() {
	users := flag.Int("users", 5, "number of demo accounts to register before seeding posts")
	flag.Parse()

	if err := run(*users); err != nil {
		slog.Error("seeding failed", "error", err)
		os.Exit(1)
	}
}

func run(users int) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := config.InitLogger(cfg)

	ctx := context.Background()
	db, err := config.InitDB(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.CloseDB()

	store := db.Store()
	auth := services.NewAuthService(store.Users, store.Profiles, services.AuthOptions{Secret: cfg.TokenSecret})

	for _, account := range services.NewDemoAccounts(users) {
		if _, err := auth.Register(ctx, account); err != nil {
			if models.IsKind(err, models.KindConflict) {
				logger.Warn("demo account skipped", "username", account.Username)
				continue
			}
			return err
		}
		logger.Info("demo account registered", "username", account.Username, "email", account.Email)
	}

	created, err := services.NewSeedService(store.Users, store.Posts).SeedSamplePosts(ctx)
	if err != nil {
		return err
	}
	logger.Info("seeding complete", "posts", created)
	return nil
}
