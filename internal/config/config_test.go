package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Defaults(t *testing.T) {
	t.Setenv("DB_DRIVER", "")
	t.Setenv("MYSQL_DSN", "")
	t.Setenv("SUGGEST_RADIUS_KM", "")
	t.Setenv("PAIR_LOCK_TTL", "")

	cfg := New()

	assert.Equal(t, "mysql", cfg.DB.Driver)
	assert.Contains(t, cfg.DB.DSN, "@tcp(localhost:3306)/matcha?parseTime=true")
	assert.Equal(t, 50.0, cfg.Discovery.SuggestRadiusKm)
	assert.Equal(t, 5*time.Second, cfg.Relationship.LockTTL)
	assert.Equal(t, "127.0.0.1:50051", cfg.GRPCAddr())
	require.NoError(t, cfg.Validate())
}

func TestNew_Overrides(t *testing.T) {
	t.Setenv("DB_DRIVER", "SQLite")
	t.Setenv("SQLITE_PATH", "/tmp/m.db")
	t.Setenv("SUGGEST_RADIUS_KM", "12.5")
	t.Setenv("PAIR_LOCK_WAIT", "250ms")
	t.Setenv("LOG_SOURCE", "yes")
	t.Setenv("REDIS_DB", "3")

	cfg := New()

	assert.Equal(t, "sqlite", cfg.DB.Driver)
	assert.Equal(t, "/tmp/m.db", cfg.DB.SQLitePath)
	assert.Equal(t, 12.5, cfg.Discovery.SuggestRadiusKm)
	assert.Equal(t, 250*time.Millisecond, cfg.Relationship.LockWait)
	assert.True(t, cfg.Log.Source)
	assert.Equal(t, 3, cfg.Redis.DB)
}

func TestNew_IgnoresMalformedNumbers(t *testing.T) {
	t.Setenv("SUGGEST_RADIUS_KM", "far")
	t.Setenv("PAIR_LOCK_TTL", "soon")

	cfg := New()

	assert.Equal(t, 50.0, cfg.Discovery.SuggestRadiusKm)
	assert.Equal(t, 5*time.Second, cfg.Relationship.LockTTL)
}

func TestValidate(t *testing.T) {
	cfg := New()
	cfg.DB.Driver = "postgres"
	cfg.Discovery.SuggestRadiusKm = 0
	cfg.Redis.Addr = ""

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unsupported DB_DRIVER "postgres"`)
	assert.Contains(t, err.Error(), "SUGGEST_RADIUS_KM")
	assert.Contains(t, err.Error(), "REDIS_ADDR")
}
