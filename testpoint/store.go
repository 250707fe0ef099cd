package testpoint

import (
	"context"

	"github.com/google/uuid"
)

// Store defines the interface for test point persistence operations.
type Store interface {
	// Create creates a new test point in the store.
	Create(ctx context.Context, testPoint *TestPoint) error

	// GetByID retrieves a test point by its ID.
	GetByID(ctx context.Context, id uuid.UUID) (*TestPoint, error)

	// Update applies the given setters to a test point in place.
	Update(ctx context.Context, id uuid.UUID, setters ...UpdateSetter) error

	// Delete deletes a test point.
	Delete(ctx context.Context, id uuid.UUID) error

	// ListByProject retrieves a paginated list of test points for a project.
	ListByProject(ctx context.Context, projectID uuid.UUID, limit, offset int) ([]*TestPoint, error)

	// CountByProject returns the total count of test points for a project.
	CountByProject(ctx context.Context, projectID uuid.UUID) (int, error)

	// MarkConverted records the test case a point was promoted to. Fails
	// with ErrAlreadyConverted on a second conversion.
	MarkConverted(ctx context.Context, id, caseID uuid.UUID) error
}

// UpdateSetter is a function that updates a test point field.
type UpdateSetter func(*TestPoint) error
