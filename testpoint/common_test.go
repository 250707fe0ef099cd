package testpoint

import (
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tsp-platform/casegen/logger"
	"github.com/tsp-platform/casegen/stepeditor"
	"github.com/tsp-platform/casegen/testutil"
)

// setupTestStore creates a test database and test point store for testing.
func setupTestStore(t *testing.T) (*gorm.DB, *MySQLStore) {
	db := testutil.SetupTestDB(t)
	testutil.AutoMigrate(t, db, &TestPoint{})

	store := NewMySQLStore(db, logger.NewTestLogger())
	return db, store
}

// validTestPoint builds a test point with execution-detail-free steps.
func validTestPoint(projectID, createdBy uuid.UUID) *TestPoint {
	return &TestPoint{
		Name:         "Remote unlock coverage",
		Description:  "Points to verify around remote unlock",
		BusinessType: "remote unlock",
		ProjectID:    projectID,
		CreatedBy:    createdBy,
		Steps: stepeditor.StepList{
			{ID: "p1", StepNumber: 1, Action: "verify unlock from the app home screen"},
			{ID: "p2", StepNumber: 2, Action: "verify unlock while vehicle is moving is refused"},
		},
	}
}
