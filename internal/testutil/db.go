package testutil

import (
	"testing"

	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"

	"xconsultation/internal/config"
	"xconsultation/internal/database"
)

// NewDB opens a migrated in-memory SQLite database that is closed when the test ends
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := database.Open(config.DatabaseConfig{URL: "sqlite:///:memory:"}, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() {
		_ = database.Close(db)
	})
	return db
}
