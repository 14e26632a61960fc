package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"xconsultation/internal/config"
	"xconsultation/internal/domain"
)

func TestOpenSQLiteMigrates(t *testing.T) {
	db, err := Open(config.DatabaseConfig{URL: "sqlite:///:memory:"}, zaptest.NewLogger(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(db) })

	assert.True(t, db.Migrator().HasTable(domain.CollectionContactForms))
	assert.True(t, db.Migrator().HasTable(domain.CollectionQuickAppointments))
	assert.True(t, db.Migrator().HasIndex(&domain.QuickAppointment{}, "idx_quick_appointments_phone_submitted"))

	require.NoError(t, HealthCheck(context.Background(), db))

	stats, err := GetStats(db)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.MaxOpenConnections)
}

func TestPingFailsAfterClose(t *testing.T) {
	db, err := Open(config.DatabaseConfig{URL: "sqlite:///:memory:"}, zaptest.NewLogger(t))
	require.NoError(t, err)
	require.NoError(t, Close(db))

	assert.Error(t, Ping(context.Background(), db))
}
