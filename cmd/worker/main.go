package main

import (
	"context"
	"housing/config"
	"housing/di"
	"housing/shared/logger"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
)

func main() {
	cfg := config.Get()

	logger.InitLogger()
	logger.Configure(cfg)

	if !cfg.Kafka.Enable {
		log.Fatal().Msg("Kafka is disabled, nothing to consume")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := di.InitializeWorker().Run(ctx); err != nil {
		log.Fatal().Err(err).Msg("Availability worker stopped") //nolint:gocritic
	}

	log.Info().Msg("Availability worker shut down")
}
