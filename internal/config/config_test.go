package config

import (
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("SESSION_SECRET", "0123456789abcdef0123")
	t.Setenv("DATABASE_URL", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, "erp_session", cfg.SessionCookie)
	assert.False(t, cfg.IsProduction())
	assert.Contains(t, cfg.DSN(), "dbname=erp")
}

func TestLoadRejectsShortSecret(t *testing.T) {
	t.Setenv("SESSION_SECRET", "short")
	_, err := Load()
	require.Error(t, err)
}

func TestDSNPrefersDatabaseURL(t *testing.T) {
	cfg := &Config{DatabaseURL: "postgres://u:p@db/erp"}
	assert.Equal(t, "postgres://u:p@db/erp", cfg.DSN())
}

func TestNewLoggerLevel(t *testing.T) {
	log := NewLogger(&Config{LogLevel: "debug", LogFormat: "json"})
	assert.Equal(t, logrus.DebugLevel, log.GetLevel())
	log.SetLevel(logrus.InfoLevel)
}
