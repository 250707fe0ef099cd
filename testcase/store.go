package testcase

import (
	"context"

	"github.com/google/uuid"
)

// Store defines the interface for test case persistence operations.
type Store interface {
	// Create creates a new test case as version 1 of a fresh chain.
	Create(ctx context.Context, testCase *TestCase) error

	// GetByID retrieves a test case by its ID.
	GetByID(ctx context.Context, id uuid.UUID) (*TestCase, error)

	// Update applies the given setters to a test case in place.
	Update(ctx context.Context, id uuid.UUID, setters ...UpdateSetter) error

	// Delete deletes every version in the test case's chain.
	Delete(ctx context.Context, id uuid.UUID) error

	// ListByProject retrieves a paginated list of latest test cases for a project.
	ListByProject(ctx context.Context, projectID uuid.UUID, limit, offset int) ([]*TestCase, error)

	// CountByProject returns the total count of latest test cases for a project.
	CountByProject(ctx context.Context, projectID uuid.UUID) (int, error)

	// ListByBusinessType retrieves latest test cases in a project carrying the given tag.
	ListByBusinessType(ctx context.Context, projectID uuid.UUID, businessType string, limit, offset int) ([]*TestCase, error)

	// CreateVersion snapshots the current record as an immutable new version.
	CreateVersion(ctx context.Context, originalID uuid.UUID) (*TestCase, error)

	// GetVersionHistory retrieves all versions in the test case's chain.
	GetVersionHistory(ctx context.Context, id uuid.UUID) ([]*TestCase, error)
}

// UpdateSetter is a function that updates a test case field.
type UpdateSetter func(*TestCase) error
