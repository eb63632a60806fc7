package main

import (
	"context"
	"housing/config"
	"housing/di"
	"housing/shared/logger"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
)

const timeout = 10 * time.Minute

// Recomputes the reserved flag of every room from its reservations.
func main() {
	cfg := config.Get()

	logger.InitLogger()
	logger.Configure(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	changed, err := di.InitializeAvailability().ResyncAll(ctx)
	if err != nil {
		log.Error().Err(err).Int("changed", changed).Msg("Room availability reconciliation finished with errors")
		stop()
		cancel()
		os.Exit(1) //nolint:gocritic
	}

	log.Info().Int("changed", changed).Msg("Room availability reconciliation finished")
}
