package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/soclink/authcore/internal/config"
	"github.com/soclink/authcore/internal/handler"
	"github.com/soclink/authcore/internal/logger"
	"github.com/soclink/authcore/internal/notify"
	"github.com/soclink/authcore/internal/server"
	"github.com/soclink/authcore/internal/service"
	"github.com/soclink/authcore/internal/store"
	"github.com/soclink/authcore/internal/workers"
	"github.com/soclink/authcore/migrations"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	log := logger.NewLogger("authcore-server")
	cfg, err := config.GetStructuredConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	log.Debug().Any("config", cfg).Msg("received configs")

	ctx := context.Background()
	db, err := store.NewConnect(ctx, cfg.Storage.DB, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error connecting to database")
	}
	defer db.Close()

	// goose migrations apply to the PostgreSQL backend only; the embedded
	// SQLite backend bootstraps its schema on open.
	if strings.HasPrefix(cfg.Storage.DB.DSN, "postgres") {
		if err = migrations.Migrate(db.DB); err != nil {
			log.Fatal().Err(err).Msg("error applying migrations")
		}
	}

	storages := store.NewStorages(db, log)

	var notifier notify.Notifier
	if cfg.Notifier.GatewayURL != "" {
		notifier = notify.NewGatewayNotifier(notify.GatewayConfig{
			BaseURL: cfg.Notifier.GatewayURL,
			APIKey:  cfg.Notifier.APIKey,
			From:    cfg.Notifier.FromAddress,
			Timeout: cfg.Notifier.Timeout,
		}, log)
	} else {
		log.Warn().Msg("no notifier gateway configured, reset tokens will not be delivered")
		notifier = notify.NewNopNotifier(log)
	}

	services := service.NewServices(storages, notifier, cfg.Security, log)

	handlers, err := handler.NewHandlers(services, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating handlers")
	}

	srv, err := server.NewServer(handlers, cfg.Server, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating server")
	}

	background := workers.NewWorkers(services, cfg.Workers, log)
	background.Run()
	defer background.Stop()

	srv.RunServer()
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}

	if buildDate == "" {
		buildDate = "N/A"
	}

	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
