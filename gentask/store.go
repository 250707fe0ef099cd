package gentask

import (
	"context"

	"github.com/google/uuid"
)

type Store interface {
	Create(ctx context.Context, task *Task) error
	GetByID(ctx context.Context, id uuid.UUID) (*Task, error)
	Update(ctx context.Context, id uuid.UUID, setters ...UpdateSetter) error
	ListByCreator(ctx context.Context, createdBy uuid.UUID, limit, offset int) ([]*Task, error)
	CountByCreator(ctx context.Context, createdBy uuid.UUID) (int, error)
	ListByType(ctx context.Context, taskType TaskType, limit, offset int) ([]*Task, error)
	Start(ctx context.Context, id uuid.UUID) error
	Complete(ctx context.Context, id uuid.UUID, status Status, result JSONMap) error

	// UpdateProgress records the current percent and stage of a running task.
	UpdateProgress(ctx context.Context, id uuid.UUID, progress int, stage string) error
}

type UpdateSetter func(*Task) error
