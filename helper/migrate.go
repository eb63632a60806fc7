package helper

//nolint:revive
import (
	"errors"
	"fmt"
	"housing/config"
	"housing/infras/postgres"
	"housing/migrations"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/rs/zerolog/log"
)

const (
	ActionUp      = "up"
	ActionDown    = "down"
	ActionStepUp  = "step-up"
	ActionDrop    = "drop"
	ActionVersion = "version"
)

var ErrUnknownAction = errors.New("unknown migration action")

// DatabaseURL builds the migrate URL of the write database.
func DatabaseURL(config *config.Config) string {
	pg := config.DB.Postgres
	dsn := postgres.DSN(pg.Write, pg.Prefix)

	if pg.MigrationTable != "" {
		query := dsn.Query()
		query.Set("x-migrations-table", pg.MigrationTable)
		dsn.RawQuery = query.Encode()
	}

	return dsn.String()
}

func newMigrate(config *config.Config) (*migrate.Migrate, error) {
	source, err := iofs.New(migrations.Postgres, migrations.PostgresDir)
	if err != nil {
		return nil, fmt.Errorf("error opening embedded migrations: %w", err)
	}

	mig, err := migrate.NewWithSourceInstance("iofs", source, DatabaseURL(config))
	if err != nil {
		return nil, fmt.Errorf("error creating migrate instance: %w", err)
	}

	return mig, nil
}

// Runner applies action against the write database. ErrNoChange is not an error.
func Runner(config *config.Config, action string) error {
	switch action {
	case ActionUp, ActionDown, ActionStepUp, ActionDrop, ActionVersion:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownAction, action)
	}

	mig, err := newMigrate(config)
	if err != nil {
		return err
	}

	defer func() {
		srcErr, dbErr := mig.Close()
		if closeErr := errors.Join(srcErr, dbErr); closeErr != nil {
			log.Warn().Err(closeErr).Msg("failed to close migrate instance")
		}
	}()

	switch action {
	case ActionUp:
		err = mig.Up()
	case ActionDown:
		err = mig.Steps(-1)
	case ActionStepUp:
		err = mig.Steps(1)
	case ActionDrop:
		err = mig.Down()
	default:
		return logVersion(mig)
	}

	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("error running migration %s: %w", action, err)
	}

	log.Info().Str("action", action).Msg("Database migration completed successfully")

	return logVersion(mig)
}

func logVersion(mig *migrate.Migrate) error {
	version, dirty, err := mig.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		log.Info().Msg("Database has no migration applied")

		return nil
	}

	if err != nil {
		return fmt.Errorf("error reading migration version: %w", err)
	}

	log.Info().Uint("version", version).Bool("dirty", dirty).Msg("Database migration version")

	return nil
}

func Up(config *config.Config) error {
	return Runner(config, ActionUp)
}
