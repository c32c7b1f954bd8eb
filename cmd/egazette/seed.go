package main

import (
	"context"
	"fmt"

	"egazette/internal/seed"
	"egazette/internal/store"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

var seedCommand = &cli.Command{
	Name:  "seed",
	Usage: "Seed the record store with the service catalog",
	Action: func(c *cli.Context) error {
		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		ctx := context.Background()

		backend, err := openBackend(ctx, cfg)
		if err != nil {
			return fmt.Errorf("failed to open storage backend: %w", err)
		}

		logger := logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})

		st := store.Open(backend, logger)
		defer st.Close()

		logrus.Info("Seeding service catalog...")
		if err := seed.SeedServices(ctx, store.NewServices(st)); err != nil {
			return fmt.Errorf("failed to seed services: %w", err)
		}

		logrus.Info("Service catalog seeded successfully")

		return nil
	},
}
