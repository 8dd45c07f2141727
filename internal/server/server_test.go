package server

import (
	"path/filepath"
	"testing"

	"github.com/fundloop/fundloop/internal/config"
	"github.com/fundloop/fundloop/internal/db"
	"github.com/fundloop/fundloop/internal/media"
	"github.com/fundloop/fundloop/internal/models"
	"github.com/fundloop/fundloop/internal/payment"
	"github.com/fundloop/fundloop/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_MigratesAndSeedsRoles(t *testing.T) {
	cfg := &config.Config{
		Database: config.DatabaseConfig{Driver: "sqlite", DSN: filepath.Join(t.TempDir(), "server.db")},
		Log:      config.LogConfig{Level: "error"},
	}

	database, err := Open(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close(database) })

	assert.Equal(t, "error", cfg.Database.LogLevel)

	var count int64
	require.NoError(t, database.Model(&models.Role{}).Count(&count).Error)
	assert.Equal(t, int64(4), count)
}

func TestCollaboratorSelection(t *testing.T) {
	cfg := &config.Config{
		Session: config.SessionConfig{Type: "memory"},
		Media:   config.MediaConfig{Type: "none"},
		Payment: config.PaymentConfig{Type: "none"},
	}

	store, err := createSessionStore(cfg)
	require.NoError(t, err)
	assert.IsType(t, &session.MemoryStore{}, store)
	require.NoError(t, store.Close())

	host, err := createMediaHost(cfg)
	require.NoError(t, err)
	assert.Equal(t, media.NoneHost{}, host)

	payments, err := createPaymentProcessor(cfg)
	require.NoError(t, err)
	assert.Equal(t, payment.None{}, payments)

	cfg.Session.Type = "disk"
	_, err = createSessionStore(cfg)
	assert.ErrorContains(t, err, "unsupported session type")

	cfg.Session = config.SessionConfig{Type: "valkey"}
	_, err = createSessionStore(cfg)
	assert.ErrorContains(t, err, "valkey address is required")
}
