package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	// Save original env vars and restore after tests
	originalEnv := map[string]string{
		"NEXUS_APP_NAME":          os.Getenv("NEXUS_APP_NAME"),
		"NEXUS_APP_ENV":           os.Getenv("NEXUS_APP_ENV"),
		"NEXUS_APP_PORT":          os.Getenv("NEXUS_APP_PORT"),
		"NEXUS_DATABASE_HOST":     os.Getenv("NEXUS_DATABASE_HOST"),
		"NEXUS_DATABASE_PORT":     os.Getenv("NEXUS_DATABASE_PORT"),
		"NEXUS_DATABASE_USER":     os.Getenv("NEXUS_DATABASE_USER"),
		"NEXUS_DATABASE_PASSWORD": os.Getenv("NEXUS_DATABASE_PASSWORD"),
		"NEXUS_DATABASE_DBNAME":   os.Getenv("NEXUS_DATABASE_DBNAME"),
		"NEXUS_DATABASE_SSLMODE":  os.Getenv("NEXUS_DATABASE_SSLMODE"),
		"NEXUS_JWT_SECRET":        os.Getenv("NEXUS_JWT_SECRET"),
		"NEXUS_LOG_LEVEL":         os.Getenv("NEXUS_LOG_LEVEL"),
	}

	defer func() {
		for k, v := range originalEnv {
			if v == "" {
				os.Unsetenv(k)
			} else {
				os.Setenv(k, v)
			}
		}
	}()

	clearEnv := func() {
		for k := range originalEnv {
			os.Unsetenv(k)
		}
	}

	t.Run("loads default values when env vars not set", func(t *testing.T) {
		clearEnv()

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "nexus-backend", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, "postgres", cfg.Database.User)
		assert.Equal(t, "nexus", cfg.Database.DBName)
		assert.Equal(t, "disable", cfg.Database.SSLMode)
		assert.Equal(t, 25, cfg.Database.MaxOpenConns)
		assert.Equal(t, 5, cfg.Database.MaxIdleConns)
		assert.Equal(t, "info", cfg.Log.Level)
		assert.Equal(t, "console", cfg.Log.Format)
	})

	t.Run("loads values from environment variables with NEXUS prefix", func(t *testing.T) {
		clearEnv()
		os.Setenv("NEXUS_APP_NAME", "test-app")
		os.Setenv("NEXUS_APP_PORT", "9000")
		os.Setenv("NEXUS_DATABASE_HOST", "testdb.local")
		os.Setenv("NEXUS_DATABASE_PORT", "5433")
		os.Setenv("NEXUS_DATABASE_USER", "testuser")
		os.Setenv("NEXUS_DATABASE_PASSWORD", "testpass")
		os.Setenv("NEXUS_DATABASE_DBNAME", "testdb")
		os.Setenv("NEXUS_LOG_LEVEL", "debug")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "test-app", cfg.App.Name)
		assert.Equal(t, "9000", cfg.App.Port)
		assert.Equal(t, "testdb.local", cfg.Database.Host)
		assert.Equal(t, 5433, cfg.Database.Port)
		assert.Equal(t, "testuser", cfg.Database.User)
		assert.Equal(t, "testpass", cfg.Database.Password)
		assert.Equal(t, "testdb", cfg.Database.DBName)
		assert.Equal(t, "debug", cfg.Log.Level)
	})

	t.Run("production requires a jwt secret", func(t *testing.T) {
		clearEnv()
		os.Setenv("NEXUS_APP_ENV", "production")

		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("production rejects short jwt secret", func(t *testing.T) {
		clearEnv()
		os.Setenv("NEXUS_APP_ENV", "production")
		os.Setenv("NEXUS_JWT_SECRET", "too-short")

		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("production rejects sslmode disable", func(t *testing.T) {
		clearEnv()
		os.Setenv("NEXUS_APP_ENV", "production")
		os.Setenv("NEXUS_JWT_SECRET", "0123456789abcdef0123456789abcdef")
		os.Setenv("NEXUS_DATABASE_PASSWORD", "secret")
		os.Setenv("NEXUS_DATABASE_SSLMODE", "disable")

		_, err := Load()
		assert.Error(t, err)
	})
}

func TestDatabaseDSN(t *testing.T) {
	t.Run("builds a postgres url", func(t *testing.T) {
		cfg := DatabaseConfig{
			Host:    "localhost",
			Port:    5432,
			User:    "postgres",
			DBName:  "nexus",
			SSLMode: "disable",
		}

		dsn := cfg.DSN()
		assert.Contains(t, dsn, "postgres://")
		assert.Contains(t, dsn, "localhost:5432")
		assert.Contains(t, dsn, "/nexus")
		assert.Contains(t, dsn, "sslmode=disable")
	})

	t.Run("escapes special characters in password", func(t *testing.T) {
		cfg := DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "postgres",
			Password: "p@ss/word#1",
			DBName:   "nexus",
			SSLMode:  "disable",
		}

		dsn := cfg.DSN()
		assert.NotContains(t, dsn, "p@ss/word#1")
	})
}
