package config

import (
	"errors"
	"fmt"
	"io/fs"
	"sync"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
)

const (
	LockDriverMemory = "memory"
	LockDriverRedis  = "redis"
)

type Config struct {
	Server   Server   `envconfig:"SERVER"`
	App      App      `envconfig:"APP"`
	Cache    Cache    `envconfig:"CACHE"`
	Booking  Booking  `envconfig:"BOOKING"`
	DB       DB       `envconfig:"DB"`
	Kafka    Kafka    `envconfig:"KAFKA"`
	External External `envconfig:"EXTERNAL"`
}

type Server struct {
	Env      string `envconfig:"ENV"       default:"development"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	Port     string `envconfig:"PORT"      default:"8080"`
	Host     string `envconfig:"HOST"`
	Shutdown struct {
		CleanupPeriodSeconds int64 `envconfig:"CLEANUP_PERIOD_SECONDS" default:"5"`
		GracePeriodSeconds   int64 `envconfig:"GRACE_PERIOD_SECONDS"   default:"10"`
	} `envconfig:"SHUTDOWN"`
}

type App struct {
	Name     string `envconfig:"NAME"     default:"housing"`
	Timezone string `envconfig:"TIMEZONE"`
	CORS     struct {
		AllowCredentials bool     `envconfig:"ALLOW_CREDENTIALS"`
		AllowedHeaders   []string `envconfig:"ALLOWED_HEADERS"`
		AllowedMethods   []string `envconfig:"ALLOWED_METHODS"`
		AllowedOrigins   []string `envconfig:"ALLOWED_ORIGINS"`
		Enable           bool     `envconfig:"ENABLE"`
		MaxAgeSeconds    int      `envconfig:"MAX_AGE_SECONDS"`
	} `envconfig:"CORS"`
	RateLimiter struct {
		Enable        bool `envconfig:"ENABLE"`
		MaxRequests   int  `envconfig:"MAX_REQUESTS"   default:"100"`
		WindowSeconds int  `envconfig:"WINDOW_SECONDS" default:"60"`
	} `envconfig:"RATE_LIMITER"`
}

// Cache configures the read-through response cache. TTL is in seconds.
type Cache struct {
	Redis struct {
		Primary struct {
			Host     string `envconfig:"HOST"`
			Port     string `envconfig:"PORT" default:"6379"`
			Password string `envconfig:"PASSWORD"`
			DB       int    `envconfig:"DB"`
		} `envconfig:"PRIMARY"`
	} `envconfig:"REDIS"`
	TTL int `envconfig:"TTL" default:"60"`
}

// Booking tunes the per-room lock serializing reservation and work-order writes.
type Booking struct {
	Lock struct {
		Driver          string `envconfig:"DRIVER"            default:"memory"`
		TTLMillis       int    `envconfig:"TTL_MILLIS"        default:"10000"`
		WaitMillis      int    `envconfig:"WAIT_MILLIS"       default:"5000"`
		RetryEveryMilli int    `envconfig:"RETRY_EVERY_MILLI" default:"50"`
	} `envconfig:"LOCK"`
}

type DB struct {
	Postgres Postgres `envconfig:"POSTGRES"`
}

// Postgres holds the primary and replica endpoints. Table names are shared, Prefix only
// applies to database names.
type Postgres struct {
	MaxRetry       int              `envconfig:"MAX_RETRY"       default:"5"`
	RetryWaitTime  int              `envconfig:"RETRY_WAIT_TIME" default:"2"`
	MaxOpenConns   int              `envconfig:"MAX_OPEN_CONNS"  default:"10"`
	MaxIdleConns   int              `envconfig:"MAX_IDLE_CONNS"  default:"10"`
	MigrationTable string           `envconfig:"MIGRATION_TABLE"`
	AutoMigrate    bool             `envconfig:"AUTO_MIGRATE"`
	Prefix         string           `envconfig:"PREFIX"`
	Read           PostgresEndpoint `envconfig:"READ"`
	Write          PostgresEndpoint `envconfig:"WRITE"`
}

type PostgresEndpoint struct {
	Host     string `envconfig:"HOST"`
	Port     string `envconfig:"PORT"     default:"5432"`
	Username string `envconfig:"USER"`
	Password string `envconfig:"PASSWORD"`
	Name     string `envconfig:"NAME"`
	Timezone string `envconfig:"TIMEZONE"`
	SSLMode  string `envconfig:"SSL_MODE" default:"disable"`
}

type Kafka struct {
	Enable        bool     `envconfig:"ENABLE"`
	Brokers       []string `envconfig:"BROKERS"`
	ConsumerGroup string   `envconfig:"CONSUMER_GROUP" default:"housing"`
	SASL          struct {
		Username string `envconfig:"USERNAME"`
		Password string `envconfig:"PASSWORD"`
	} `envconfig:"SASL"`
	Topics struct {
		Reservation      string `envconfig:"RESERVATION"       default:"reservations"`
		RoomAvailability string `envconfig:"ROOM_AVAILABILITY" default:"room-availability"`
	} `envconfig:"TOPICS"`
}

type External struct {
	Otel struct {
		Endpoint    string  `envconfig:"ENDPOINT"`
		Insecure    bool    `envconfig:"INSECURE"     default:"true"`
		SampleRatio float64 `envconfig:"SAMPLE_RATIO" default:"1"`
	} `envconfig:"OTEL"`
}

var (
	conf    Config
	once    sync.Once
	loadErr error
)

// Load reads an optional .env file and then the environment. Variables already set in
// the environment take precedence over the file.
func Load(dotenv string) (Config, error) {
	var cfg Config

	switch err := godotenv.Load(dotenv); {
	case err == nil:
		log.Info().Str("file", dotenv).Msg("Loaded variables from dotenv file")
	case errors.Is(err, fs.ErrNotExist):
		log.Debug().Str("file", dotenv).Msg("No dotenv file, using the environment only")
	default:
		return cfg, fmt.Errorf("loading %s: %w", dotenv, err)
	}

	if err := envconfig.Process("", &cfg); err != nil {
		return cfg, fmt.Errorf("processing environment: %w", err)
	}

	return cfg, nil
}

// Get loads the configuration once per process and exits when it is invalid.
func Get() *Config {
	once.Do(func() {
		conf, loadErr = Load(".env")
	})

	if loadErr != nil {
		log.Fatal().Err(loadErr).Msg("Failed to load configuration")
	}

	return &conf
}
