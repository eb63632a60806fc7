package postgres

//nolint:revive
import (
	"context"
	"errors"
	"housing/config"
	"net"
	"net/url"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

const (
	roleRead  = "read"
	roleWrite = "write"

	connMaxIdleTime = 5 * time.Minute
)

// Connection splits queries between a read replica and the primary. Reservation writes,
// their overlap checks and the availability count all go to Write.
type Connection struct {
	Read  *sqlx.DB
	Write *sqlx.DB
}

func New(config *config.Config) *Connection {
	pg := config.DB.Postgres

	return &Connection{
		Read:  Connect(roleRead, DSN(pg.Read, pg.Prefix), pg),
		Write: Connect(roleWrite, DSN(pg.Write, pg.Prefix), pg),
	}
}

// Ping checks both pools; the health endpoint reports unhealthy when either is down.
func (c *Connection) Ping(ctx context.Context) error {
	return errors.Join(c.Write.PingContext(ctx), c.Read.PingContext(ctx))
}

func (c *Connection) Close() error {
	return errors.Join(c.Write.Close(), c.Read.Close())
}

// DSN builds a lib/pq URL. A configured timezone becomes the session TimeZone so DATE
// columns round-trip as calendar days of the application.
func DSN(endpoint config.PostgresEndpoint, prefix string) *url.URL {
	query := url.Values{}
	query.Set("sslmode", endpoint.SSLMode)

	if endpoint.Timezone != "" {
		query.Set("timezone", endpoint.Timezone)
	}

	return &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(endpoint.Username, endpoint.Password),
		Host:     net.JoinHostPort(endpoint.Host, endpoint.Port),
		Path:     "/" + prefix + endpoint.Name,
		RawQuery: query.Encode(),
	}
}

// Connect retries MaxRetry times and exits the process when the database stays unreachable.
func Connect(role string, dsn *url.URL, pg config.Postgres) *sqlx.DB {
	logger := log.With().Str("role", role).Str("host", dsn.Hostname()).Str("db", dsn.Path[1:]).Logger()

	attempts := max(pg.MaxRetry, 1)

	for attempt := 1; attempt <= attempts; attempt++ {
		db, err := sqlx.Connect("postgres", dsn.String())
		if err == nil {
			db.SetMaxOpenConns(pg.MaxOpenConns)
			db.SetMaxIdleConns(pg.MaxIdleConns)
			db.SetConnMaxIdleTime(connMaxIdleTime)

			logger.Info().Int("attempt", attempt).Msg("Connected to database")

			return db
		}

		logger.Error().Err(err).Int("attempt", attempt).Int("max_attempts", attempts).Msg("Failed connecting to database")

		if attempt < attempts {
			time.Sleep(time.Duration(pg.RetryWaitTime) * time.Second)
		}
	}

	logger.Fatal().Msg("Giving up connecting to database")

	return nil
}
