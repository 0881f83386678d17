package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/MKhiriev/go-data-vault/internal/config"
	"github.com/MKhiriev/go-data-vault/internal/crypto"
	"github.com/MKhiriev/go-data-vault/internal/handler"
	"github.com/MKhiriev/go-data-vault/internal/logger"
	"github.com/MKhiriev/go-data-vault/internal/server"
	"github.com/MKhiriev/go-data-vault/internal/service"
	"github.com/MKhiriev/go-data-vault/internal/store"
	"github.com/MKhiriev/go-data-vault/internal/utils"
	"github.com/MKhiriev/go-data-vault/internal/workers"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	log := logger.NewLogger("vault-server")
	cfg, err := config.GetStructuredConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGTERM,
		syscall.SIGINT,
		syscall.SIGQUIT,
	)
	defer stop()

	vault := crypto.NewVaultWithParams(cfg.Security.KDFTime, cfg.Security.KDFMemoryKiB, cfg.Security.KDFThreads)
	clock := utils.NewSystemClock()

	storages, err := store.NewStorages(ctx, cfg.Storage, cfg.App.MasterPassphrase, vault, clock, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating storages")
	}

	services := service.NewServices(storages, cfg, clock, log)

	if err := services.UserService.Bootstrap(ctx); err != nil {
		log.Fatal().Err(err).Msg("error bootstrapping root account")
	}

	workers.NewWorkers(
		workers.NewSessionSweeper(services.SessionService, cfg.Workers.SweepInterval, log),
	).Run(ctx)

	handlers := handler.NewHandlers(services, log)

	srv, err := server.NewServer(handlers, cfg.Server, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating server")
	}

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
