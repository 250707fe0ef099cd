package testpoint

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

// NewMySQLStore creates a new MySQL-backed test point store.
func NewMySQLStore(db *gorm.DB, log logger.Logger) *MySQLStore {
	return &MySQLStore{
		db:     db,
		logger: log,
	}
}

// Create creates a new test point in the database.
func (s *MySQLStore) Create(ctx context.Context, tp *TestPoint) error {
	if err := tp.Validate(); err != nil {
		return err
	}

	if err := s.db.WithContext(ctx).Create(tp).Error; err != nil {
		s.logger.Error(ctx, "failed to create test point", map[string]interface{}{
			"error":      err.Error(),
			"name":       tp.Name,
			"project_id": tp.ProjectID.String(),
		})
		return err
	}

	s.logger.Info(ctx, "test point created", map[string]interface{}{
		"test_point_id": tp.ID.String(),
		"name":          tp.Name,
		"project_id":    tp.ProjectID.String(),
	})

	return nil
}

// GetByID retrieves a test point by its ID.
func (s *MySQLStore) GetByID(ctx context.Context, id uuid.UUID) (*TestPoint, error) {
	var tp TestPoint
	err := s.db.WithContext(ctx).
		Where("id = ?", id).
		First(&tp).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTestPointNotFound
		}
		s.logger.Error(ctx, "failed to get test point by ID", map[string]interface{}{
			"error":         err.Error(),
			"test_point_id": id.String(),
		})
		return nil, err
	}

	return &tp, nil
}

// Update applies the given setters to a test point in place.
func (s *MySQLStore) Update(ctx context.Context, id uuid.UUID, setters ...UpdateSetter) error {
	tp, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	for _, setter := range setters {
		if err := setter(tp); err != nil {
			return err
		}
	}

	if err := s.db.WithContext(ctx).Save(tp).Error; err != nil {
		s.logger.Error(ctx, "failed to update test point", map[string]interface{}{
			"error":         err.Error(),
			"test_point_id": id.String(),
		})
		return err
	}

	s.logger.Info(ctx, "test point updated", map[string]interface{}{
		"test_point_id": id.String(),
	})

	return nil
}

// Delete deletes a test point.
func (s *MySQLStore) Delete(ctx context.Context, id uuid.UUID) error {
	result := s.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&TestPoint{})

	if result.Error != nil {
		s.logger.Error(ctx, "failed to delete test point", map[string]interface{}{
			"error":         result.Error.Error(),
			"test_point_id": id.String(),
		})
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrTestPointNotFound
	}

	s.logger.Info(ctx, "test point deleted", map[string]interface{}{
		"test_point_id": id.String(),
	})

	return nil
}

// ListByProject retrieves a paginated list of test points for a project.
func (s *MySQLStore) ListByProject(ctx context.Context, projectID uuid.UUID, limit, offset int) ([]*TestPoint, error) {
	var points []*TestPoint
	err := s.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&points).Error

	if err != nil {
		s.logger.Error(ctx, "failed to list test points by project", map[string]interface{}{
			"error":      err.Error(),
			"project_id": projectID.String(),
			"limit":      limit,
			"offset":     offset,
		})
		return nil, err
	}

	return points, nil
}

// CountByProject returns the total count of test points for a project.
func (s *MySQLStore) CountByProject(ctx context.Context, projectID uuid.UUID) (int, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&TestPoint{}).
		Where("project_id = ?", projectID).
		Count(&count).Error

	if err != nil {
		s.logger.Error(ctx, "failed to count test points by project", map[string]interface{}{
			"error":      err.Error(),
			"project_id": projectID.String(),
		})
		return 0, err
	}

	return int(count), nil
}

// MarkConverted records the test case a point was promoted to.
func (s *MySQLStore) MarkConverted(ctx context.Context, id, caseID uuid.UUID) error {
	tp, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if tp.ConvertedCaseID != nil {
		return ErrAlreadyConverted
	}

	tp.ConvertedCaseID = &caseID
	if err := s.db.WithContext(ctx).Save(tp).Error; err != nil {
		s.logger.Error(ctx, "failed to mark test point converted", map[string]interface{}{
			"error":         err.Error(),
			"test_point_id": id.String(),
		})
		return err
	}

	s.logger.Info(ctx, "test point converted", map[string]interface{}{
		"test_point_id": id.String(),
		"test_case_id":  caseID.String(),
	})

	return nil
}
