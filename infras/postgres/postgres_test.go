package postgres_test

import (
	"housing/config"
	"housing/infras/postgres"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDSN(t *testing.T) {
	endpoint := config.PostgresEndpoint{
		Host:     "replica.internal",
		Port:     "6432",
		Username: "housing",
		Password: "s3cr#t",
		Name:     "housing",
		SSLMode:  "require",
		Timezone: "Europe/Paris",
	}

	dsn := postgres.DSN(endpoint, "staging_")

	password, _ := dsn.User.Password()

	assert.Equal(t, "replica.internal:6432", dsn.Host)
	assert.Equal(t, "/staging_housing", dsn.Path)
	assert.Equal(t, "s3cr#t", password)
	assert.Equal(t, "require", dsn.Query().Get("sslmode"))
	assert.Equal(t, "Europe/Paris", dsn.Query().Get("timezone"))
}

func TestDSN_WithoutTimezone(t *testing.T) {
	dsn := postgres.DSN(config.PostgresEndpoint{Host: "localhost", Port: "5432", Name: "housing", SSLMode: "disable"}, "")

	assert.Equal(t, "/housing", dsn.Path)
	assert.False(t, dsn.Query().Has("timezone"))
}
