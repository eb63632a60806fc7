package main

import (
	"housing/config"
	"housing/di"
	_ "housing/docs"
	"housing/helper"
	"housing/shared/logger"

	"github.com/rs/zerolog/log"
)

//	@title			Housing Reservation API
//	@version		1.0
//	@description	Room reservations, work orders and room availability of training center housing.
//	@BasePath		/

func main() {
	cfg := config.Get()

	logger.InitLogger()

	logger.Configure(cfg)

	if cfg.DB.Postgres.AutoMigrate {
		if err := helper.Up(cfg); err != nil {
			log.Fatal().Err(err).Msg("Failed to migrate database")
		}
	}

	http := di.InitializeService()
	http.Serve()
}
