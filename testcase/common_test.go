package testcase

import (
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tsp-platform/casegen/logger"
	"github.com/tsp-platform/casegen/stepeditor"
	"github.com/tsp-platform/casegen/testutil"
)

// setupTestStore creates a test database and test case store for testing.
func setupTestStore(t *testing.T) (*gorm.DB, *MySQLStore) {
	db := testutil.SetupTestDB(t)
	testutil.AutoMigrate(t, db, &TestCase{})

	store := NewMySQLStore(db, logger.NewTestLogger())
	return db, store
}

// validTestCase builds a test case that passes both structural and content
// validation.
func validTestCase(projectID, createdBy uuid.UUID) *TestCase {
	return &TestCase{
		Name:         "Remote unlock happy path",
		Description:  "Unlock the vehicle remotely from the app",
		BusinessType: "remote unlock",
		ProjectID:    projectID,
		CreatedBy:    createdBy,
		Preconditions: StringList{
			"vehicle is online",
			"user is bound to the vehicle",
		},
		Steps: stepeditor.StepList{
			{ID: "s1", StepNumber: 1, Action: "send the unlock command from the app", Expected: "command is accepted"},
			{ID: "s2", StepNumber: 2, Action: "observe the door actuators", Expected: "all doors report unlocked"},
		},
		ExpectedResults: StringList{"vehicle unlocks within 5 seconds"},
	}
}
