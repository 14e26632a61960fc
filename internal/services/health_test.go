package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"xconsultation/internal/testutil"
)

func TestHealthCheck(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewHealthService(db, "X Consultation API", zaptest.NewLogger(t))

	res, err := svc.Check(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "healthy", res.Status)
	assert.Equal(t, "ok", res.Database)
	assert.Equal(t, "X Consultation API", res.Service)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	res, err = svc.Check(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "degraded", res.Status)
	assert.Equal(t, "unavailable", res.Database)
}
