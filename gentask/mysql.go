package gentask

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tsp-platform/casegen/logger"
)

// MySQLStore implements the Store interface using GORM and MySQL.
type MySQLStore struct {
	db     *gorm.DB
	logger logger.Logger
}

// NewMySQLStore creates a new MySQL-backed generation task store.
func NewMySQLStore(db *gorm.DB, log logger.Logger) *MySQLStore {
	return &MySQLStore{
		db:     db,
		logger: log,
	}
}

// Create creates a new generation task in the database.
func (s *MySQLStore) Create(ctx context.Context, task *Task) error {
	if err := task.Validate(); err != nil {
		return err
	}

	if err := s.db.WithContext(ctx).Create(task).Error; err != nil {
		s.logger.Error(ctx, "failed to create generation task", map[string]interface{}{
			"error": err.Error(),
			"type":  string(task.Type),
		})
		return err
	}

	s.logger.Info(ctx, "generation task created", map[string]interface{}{
		"task_id": task.ID.String(),
		"type":    string(task.Type),
	})

	return nil
}

// GetByID retrieves a generation task by its ID.
func (s *MySQLStore) GetByID(ctx context.Context, id uuid.UUID) (*Task, error) {
	var task Task
	err := s.db.WithContext(ctx).
		Where("id = ?", id).
		First(&task).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		s.logger.Error(ctx, "failed to get generation task by ID", map[string]interface{}{
			"error":   err.Error(),
			"task_id": id.String(),
		})
		return nil, err
	}

	return &task, nil
}

// Update updates a generation task with the given setters.
func (s *MySQLStore) Update(ctx context.Context, id uuid.UUID, setters ...UpdateSetter) error {
	task, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	for _, setter := range setters {
		if err := setter(task); err != nil {
			return err
		}
	}

	if err := s.db.WithContext(ctx).Save(task).Error; err != nil {
		s.logger.Error(ctx, "failed to update generation task", map[string]interface{}{
			"error":   err.Error(),
			"task_id": id.String(),
		})
		return err
	}

	s.logger.Info(ctx, "generation task updated", map[string]interface{}{
		"task_id": id.String(),
	})

	return nil
}

// ListByCreator retrieves a paginated list of tasks created by a specific user.
func (s *MySQLStore) ListByCreator(ctx context.Context, createdBy uuid.UUID, limit, offset int) ([]*Task, error) {
	var tasks []*Task
	err := s.db.WithContext(ctx).
		Where("created_by = ?", createdBy).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&tasks).Error

	if err != nil {
		s.logger.Error(ctx, "failed to list generation tasks by creator", map[string]interface{}{
			"error":      err.Error(),
			"created_by": createdBy.String(),
			"limit":      limit,
			"offset":     offset,
		})
		return nil, err
	}

	return tasks, nil
}

// CountByCreator returns the total count of tasks created by a specific user.
func (s *MySQLStore) CountByCreator(ctx context.Context, createdBy uuid.UUID) (int, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&Task{}).
		Where("created_by = ?", createdBy).
		Count(&count).Error

	if err != nil {
		s.logger.Error(ctx, "failed to count generation tasks by creator", map[string]interface{}{
			"error":      err.Error(),
			"created_by": createdBy.String(),
		})
		return 0, err
	}

	return int(count), nil
}

// ListByType retrieves a paginated list of tasks filtered by type.
func (s *MySQLStore) ListByType(ctx context.Context, taskType TaskType, limit, offset int) ([]*Task, error) {
	var tasks []*Task
	err := s.db.WithContext(ctx).
		Where("type = ?", taskType).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&tasks).Error

	if err != nil {
		s.logger.Error(ctx, "failed to list generation tasks by type", map[string]interface{}{
			"error":  err.Error(),
			"type":   string(taskType),
			"limit":  limit,
			"offset": offset,
		})
		return nil, err
	}

	return tasks, nil
}

// Start marks a generation task as running.
func (s *MySQLStore) Start(ctx context.Context, id uuid.UUID) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var task Task
		if err := tx.WithContext(ctx).Where("id = ?", id).First(&task).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTaskNotFound
			}
			return err
		}

		if err := task.Start(); err != nil {
			return err
		}

		return tx.WithContext(ctx).Save(&task).Error
	})

	if err != nil {
		if !errors.Is(err, ErrTaskNotFound) && !errors.Is(err, ErrTaskAlreadyStarted) {
			s.logger.Error(ctx, "failed to start generation task", map[string]interface{}{
				"error":   err.Error(),
				"task_id": id.String(),
			})
		}
		return err
	}

	s.logger.Info(ctx, "generation task started", map[string]interface{}{
		"task_id": id.String(),
	})

	return nil
}

// Complete marks a generation task as finished with the given status and result.
func (s *MySQLStore) Complete(ctx context.Context, id uuid.UUID, status Status, result JSONMap) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var task Task
		if err := tx.WithContext(ctx).Where("id = ?", id).First(&task).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTaskNotFound
			}
			return err
		}

		if err := task.Complete(status, result); err != nil {
			return err
		}

		return tx.WithContext(ctx).Save(&task).Error
	})

	if err != nil {
		if !errors.Is(err, ErrTaskNotFound) && !errors.Is(err, ErrTaskNotRunning) {
			s.logger.Error(ctx, "failed to complete generation task", map[string]interface{}{
				"error":   err.Error(),
				"task_id": id.String(),
				"status":  string(status),
			})
		}
		return err
	}

	s.logger.Info(ctx, "generation task completed", map[string]interface{}{
		"task_id": id.String(),
		"status":  string(status),
	})

	return nil
}

// UpdateProgress records the current percent and stage of a running task.
func (s *MySQLStore) UpdateProgress(ctx context.Context, id uuid.UUID, progress int, stage string) error {
	if progress < 0 || progress > 100 {
		return ErrInvalidProgress
	}

	result := s.db.WithContext(ctx).
		Model(&Task{}).
		Where("id = ? AND status = ?", id, StatusRunning).
		Updates(map[string]interface{}{
			"progress": progress,
			"stage":    stage,
		})

	if result.Error != nil {
		s.logger.Error(ctx, "failed to update generation task progress", map[string]interface{}{
			"error":   result.Error.Error(),
			"task_id": id.String(),
		})
		return result.Error
	}

	if result.RowsAffected == 0 {
		task, err := s.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if task.Status != StatusRunning {
			return ErrTaskNotRunning
		}
		// Same values written twice; nothing to do.
		return nil
	}

	return nil
}
