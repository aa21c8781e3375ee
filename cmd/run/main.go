package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"

	"chat-insights-go/internal/config"
	"chat-insights-go/internal/export"
	"chat-insights-go/internal/logger"
	"chat-insights-go/internal/master"
	"chat-insights-go/internal/runner"
)

func main() {
	_ = godotenv.Load() // loads .env

	log := logger.New()
	log.WithField("service", "chat-insights-go").Info("starting run")

	cfg, err := config.FromEnv()
	if err != nil {
		log.WithError(err).Fatal("invalid configuration")
	}

	var fetch runner.Fetcher
	if cfg.ExportBaseURL != "" {
		fetch = export.NewClient(cfg.ExportBaseURL)
	} else if _, err := os.Stat(cfg.ExportPath()); err != nil {
		log.WithField("path", cfg.ExportPath()).Fatal("no EXPORT_BASE_URL and no local export file")
	}

	store := master.NewStore(cfg.MasterPath, cfg.OutDir)

	if err := runner.New(cfg, fetch, store).Run(context.Background()); err != nil {
		log.WithError(err).Fatal("run failed")
	}
}
