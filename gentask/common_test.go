package gentask

import (
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tsp-platform/casegen/logger"
	"github.com/tsp-platform/casegen/testutil"
)

// setupTestStore creates a test database and generation task store for testing.
func setupTestStore(t *testing.T) (*gorm.DB, Store) {
	db := testutil.SetupTestDB(t)
	testutil.AutoMigrate(t, db, &Task{})

	log := logger.NewTestLogger()
	store := NewMySQLStore(db, log)

	return db, store
}

// createTestTask builds a generation task with default values.
func createTestTask(createdBy uuid.UUID) *Task {
	return &Task{
		Type:      TaskTypeCaseGeneration,
		CreatedBy: createdBy,
		Config:    JSONMap{"business_type": "remote unlock"},
	}
}
