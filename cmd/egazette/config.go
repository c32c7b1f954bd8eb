package main

import (
	"context"
	"fmt"

	"egazette/pkg/types"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

func loadConfig() (*types.Config, error) {
	// A missing .env file is fine; the environment wins either way.
	_ = godotenv.Load()

	c := new(types.Config)
	if err := envconfig.Process("", c); err != nil {
		return nil, fmt.Errorf("process environment config: %w", err)
	}

	if c.UpstreamBaseURL == "" {
		return nil, fmt.Errorf("set UPSTREAM_BASE_URL")
	}

	switch c.StorageBackend {
	case "memory", "redis":
	case "postgres":
		if c.DatabaseURL == "" {
			return nil, fmt.Errorf("set DATABASE_URL when STORAGE_BACKEND=postgres")
		}
	default:
		return nil, fmt.Errorf("unknown STORAGE_BACKEND %q", c.StorageBackend)
	}

	if c.ServerPort == 0 {
		c.ServerPort = 8080
	}

	if c.ReadTimeoutSec == 0 {
		c.ReadTimeoutSec = 10
	}

	if c.WriteTimeoutSec == 0 {
		c.WriteTimeoutSec = 15
	}

	return c, nil
}

func loadAWSConfig(ctx context.Context) (aws.Config, error) {
	config, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return aws.Config{}, fmt.Errorf("failed to load aws config: %w", err)
	}

	return config, nil
}
