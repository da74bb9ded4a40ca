package infra

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigValidate(t *testing.T) {
	t.Run("rejects default secret", func(t *testing.T) {
		cfg := &Config{JWTSecret: "change-me-in-production"}
		assert.Error(t, cfg.Validate())
	})

	t.Run("rejects short secret", func(t *testing.T) {
		cfg := &Config{JWTSecret: "short"}
		assert.Error(t, cfg.Validate())
	})

	t.Run("accepts strong secret", func(t *testing.T) {
		cfg := &Config{JWTSecret: "0123456789abcdef0123456789abcdef"}
		assert.NoError(t, cfg.Validate())
	})

	t.Run("insecure defaults flag bypasses checks", func(t *testing.T) {
		cfg := &Config{JWTSecret: "change-me-in-production", AllowInsecureDefaults: true}
		assert.NoError(t, cfg.Validate())
	})
}

func TestConfigDSN(t *testing.T) {
	t.Run("DATABASE_URL wins", func(t *testing.T) {
		cfg := &Config{DatabaseURL: "postgres://u:p@host:5432/db"}
		assert.Equal(t, "postgres://u:p@host:5432/db", cfg.DSN())
	})

	t.Run("built from PG fields", func(t *testing.T) {
		cfg := &Config{
			PGHost:     "localhost",
			PGPort:     5432,
			PGUser:     "rewards",
			PGPassword: "rewards",
			PGDatabase: "rewards",
		}
		dsn := cfg.DSN()
		require.Contains(t, dsn, "localhost")
		assert.Contains(t, dsn, "rewards")
	})
}
