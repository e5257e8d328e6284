package helpers

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/andrescamacho/voidfleet-go/internal/adapters/persistence"
	"github.com/andrescamacho/voidfleet-go/internal/application/turn"
	"github.com/andrescamacho/voidfleet-go/internal/infrastructure/database"
)

// NewTestDB opens a private, migrated in-memory sqlite database for one test
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.NewTestConnection()
	require.NoError(t, err, "test database")
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}

// NewTestStores is the production repository set over a test database
func NewTestStores(db *gorm.DB) turn.Stores {
	return persistence.NewStores(db)
}
