package main

import (
	"context"
	"errors"
	"os"

	"github.com/desertthunder/geet/internal/repositories"
	"github.com/desertthunder/geet/internal/services"
	"github.com/desertthunder/geet/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		} else {
			logger.Warn("failed to load config.toml, using defaults", "error", err)
		}
	}

	dbPath := config.Database.Path
	db, err := shared.NewDatabase(dbPath)
	if err != nil {
		logger.Warn("failed to open database, falling back to in-memory", "path", dbPath, "error", err)
		if db, err = shared.NewDatabase(":memory:"); err != nil {
			logger.Fatalf("failed to open database: %v", err)
		}
	}
	defer db.Close()

	shared.ConfigureDatabase(db, config.Database.MaxOpenConns, config.Database.MaxIdleConns)
	if err := shared.RunMigrations(db); err != nil {
		logger.Fatalf("failed to run migrations: %v", err)
	}

	sessions := repositories.NewSessionRepository(db)
	if _, err := sessions.Load(); err != nil {
		logger.Warn("failed to restore session, starting anonymous", "error", err)
	}
	cache := repositories.NewArtistCacheRepository(db)

	geet := services.NewGeetService(config.API, sessions, nil)
	lastfm := services.NewLastFMService(config.LastFM, nil)
	apiService := services.NewAPIService(config.API.BaseURL, sessions, nil)

	runner := NewRunner(RunnerOpts{
		Config:    config,
		Catalog:   geet,
		LastFM:    lastfm,
		Accounts:  geet,
		Donations: geet,
		API:       apiService,
		Sessions:  sessions,
		Cache:     cache,
		Logger:    logger,
	})

	app := &cli.Command{
		Name:     "geet",
		Usage:    "Browse albums, write star reviews, and support the project",
		Version:  "0.3.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		if errors.Is(err, shared.ErrCanceled) {
			logger.Warn("canceled")
			os.Exit(0)
		}
		logger.Fatalf("application error: %v", err)
	}
}
