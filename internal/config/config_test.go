package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Empty(t, cfg.DatabaseURL)
	assert.Empty(t, cfg.KafkaBrokers)
	assert.Equal(t, "movement_applied", cfg.KafkaTopic)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	require.Len(t, cfg.Accounts, 5)
	assert.Equal(t, SeedAccount{ID: 1, Limit: 100000}, cfg.Accounts[0])
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("DATABASE_URL", "postgres://ledger@localhost/ledger")
	t.Setenv("KAFKA_BROKERS", "broker1:9092,broker2:9092")
	t.Setenv("SHUTDOWN_TIMEOUT", "3s")
	t.Setenv("ACCOUNTS", "7:5000")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "postgres://ledger@localhost/ledger", cfg.DatabaseURL)
	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, 3*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, []SeedAccount{{ID: 7, Limit: 5000}}, cfg.Accounts)
}

func TestLoadBadShutdownTimeout(t *testing.T) {
	t.Setenv("SHUTDOWN_TIMEOUT", "soon")

	_, err := Load()
	assert.Error(t, err)
}

func TestParseAccounts(t *testing.T) {
	accounts, err := ParseAccounts("1:100, 2:200,")
	require.NoError(t, err)
	assert.Equal(t, []SeedAccount{{ID: 1, Limit: 100}, {ID: 2, Limit: 200}}, accounts)

	for _, bad := range []string{"1", "a:100", "1:b", "1:-5"} {
		_, err := ParseAccounts(bad)
		assert.Error(t, err, "spec %q should fail", bad)
	}
}
