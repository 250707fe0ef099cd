package testcase

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tsp-platform/casegen/logger"
)

// MySQLStore implements the Store interface using GORM and MySQL.
type MySQLStore struct {
	db     *gorm.DB
	logger logger.Logger
}

// NewMySQLStore creates a new MySQL-backed test case store.
func NewMySQLStore(db *gorm.DB, log logger.Logger) *MySQLStore {
	return &MySQLStore{
		db:     db,
		logger: log,
	}
}

// Create creates a new test case as version 1 of a fresh chain.
func (s *MySQLStore) Create(ctx context.Context, tc *TestCase) error {
	if err := tc.Validate(); err != nil {
		return err
	}

	tc.Version = 1
	tc.IsLatest = true
	tc.ParentID = nil

	if err := s.db.WithContext(ctx).Create(tc).Error; err != nil {
		s.logger.Error(ctx, "failed to create test case", map[string]interface{}{
			"error":      err.Error(),
			"name":       tc.Name,
			"project_id": tc.ProjectID.String(),
		})
		return err
	}

	s.logger.Info(ctx, "test case created", map[string]interface{}{
		"test_case_id": tc.ID.String(),
		"name":         tc.Name,
		"project_id":   tc.ProjectID.String(),
	})

	return nil
}

// GetByID retrieves a test case by its ID.
func (s *MySQLStore) GetByID(ctx context.Context, id uuid.UUID) (*TestCase, error) {
	var tc TestCase
	err := s.db.WithContext(ctx).
		Where("id = ?", id).
		First(&tc).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTestCaseNotFound
		}
		s.logger.Error(ctx, "failed to get test case by ID", map[string]interface{}{
			"error":        err.Error(),
			"test_case_id": id.String(),
		})
		return nil, err
	}

	return &tc, nil
}

// Update applies the given setters to a test case in place.
func (s *MySQLStore) Update(ctx context.Context, id uuid.UUID, setters ...UpdateSetter) error {
	tc, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	for _, setter := range setters {
		if err := setter(tc); err != nil {
			return err
		}
	}

	if err := s.db.WithContext(ctx).Save(tc).Error; err != nil {
		s.logger.Error(ctx, "failed to update test case", map[string]interface{}{
			"error":        err.Error(),
			"test_case_id": id.String(),
		})
		return err
	}

	s.logger.Info(ctx, "test case updated", map[string]interface{}{
		"test_case_id": id.String(),
	})

	return nil
}

// Delete deletes every version in the test case's chain.
func (s *MySQLStore) Delete(ctx context.Context, id uuid.UUID) error {
	tc, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	rootID := id
	if tc.ParentID != nil {
		rootID = *tc.ParentID
	}

	result := s.db.WithContext(ctx).
		Where("id = ? OR parent_id = ?", rootID, rootID).
		Delete(&TestCase{})

	if result.Error != nil {
		s.logger.Error(ctx, "failed to delete test case", map[string]interface{}{
			"error":        result.Error.Error(),
			"test_case_id": id.String(),
		})
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrTestCaseNotFound
	}

	s.logger.Info(ctx, "test case deleted", map[string]interface{}{
		"test_case_id": id.String(),
		"root_id":      rootID.String(),
	})

	return nil
}

// ListByProject retrieves a paginated list of latest test cases for a project.
func (s *MySQLStore) ListByProject(ctx context.Context, projectID uuid.UUID, limit, offset int) ([]*TestCase, error) {
	var cases []*TestCase
	err := s.db.WithContext(ctx).
		Where("project_id = ? AND is_latest = ?", projectID, true).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&cases).Error

	if err != nil {
		s.logger.Error(ctx, "failed to list test cases by project", map[string]interface{}{
			"error":      err.Error(),
			"project_id": projectID.String(),
			"limit":      limit,
			"offset":     offset,
		})
		return nil, err
	}

	return cases, nil
}

// CountByProject returns the total count of latest test cases for a project.
func (s *MySQLStore) CountByProject(ctx context.Context, projectID uuid.UUID) (int, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&TestCase{}).
		Where("project_id = ? AND is_latest = ?", projectID, true).
		Count(&count).Error

	if err != nil {
		s.logger.Error(ctx, "failed to count test cases by project", map[string]interface{}{
			"error":      err.Error(),
			"project_id": projectID.String(),
		})
		return 0, err
	}

	return int(count), nil
}

// ListByBusinessType retrieves latest test cases in a project carrying the
// given business type tag.
func (s *MySQLStore) ListByBusinessType(ctx context.Context, projectID uuid.UUID, businessType string, limit, offset int) ([]*TestCase, error) {
	var cases []*TestCase
	err := s.db.WithContext(ctx).
		Where("project_id = ? AND business_type = ? AND is_latest = ?", projectID, businessType, true).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&cases).Error

	if err != nil {
		s.logger.Error(ctx, "failed to list test cases by business type", map[string]interface{}{
			"error":         err.Error(),
			"project_id":    projectID.String(),
			"business_type": businessType,
		})
		return nil, err
	}

	return cases, nil
}

// CreateVersion snapshots the current record as an immutable new version
// with an incremented version number.
func (s *MySQLStore) CreateVersion(ctx context.Context, originalID uuid.UUID) (*TestCase, error) {
	var newVersion *TestCase

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		original, err := getByIDWithTx(ctx, tx, originalID)
		if err != nil {
			return err
		}

		rootID := originalID
		if original.ParentID != nil {
			rootID = *original.ParentID
		}

		if err := tx.WithContext(ctx).
			Model(&TestCase{}).
			Where("id = ? OR parent_id = ?", rootID, rootID).
			Update("is_latest", false).Error; err != nil {
			return fmt.Errorf("failed to update is_latest flags: %w", err)
		}

		var maxVersion uint
		err = tx.WithContext(ctx).
			Model(&TestCase{}).
			Where("id = ? OR parent_id = ?", rootID, rootID).
			Select("COALESCE(MAX(version), 0)").
			Scan(&maxVersion).Error
		if err != nil {
			return fmt.Errorf("failed to get max version: %w", err)
		}

		newVersion = &TestCase{
			ProjectID:       original.ProjectID,
			Name:            original.Name,
			Description:     original.Description,
			BusinessType:    original.BusinessType,
			Preconditions:   original.Preconditions,
			Steps:           original.Steps,
			ExpectedResults: original.ExpectedResults,
			CreatedBy:       original.CreatedBy,
			Version:         maxVersion + 1,
			IsLatest:        true,
			ParentID:        &rootID,
		}

		if err := tx.WithContext(ctx).Create(newVersion).Error; err != nil {
			return fmt.Errorf("failed to create new version: %w", err)
		}

		return nil
	})

	if err != nil {
		s.logger.Error(ctx, "failed to create test case version", map[string]interface{}{
			"error":       err.Error(),
			"original_id": originalID.String(),
		})
		return nil, err
	}

	s.logger.Info(ctx, "test case version created", map[string]interface{}{
		"new_version_id": newVersion.ID.String(),
		"version":        newVersion.Version,
		"original_id":    originalID.String(),
	})

	return newVersion, nil
}

// GetVersionHistory retrieves all versions in the test case's chain, newest
// first.
func (s *MySQLStore) GetVersionHistory(ctx context.Context, id uuid.UUID) ([]*TestCase, error) {
	tc, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	rootID := id
	if tc.ParentID != nil {
		rootID = *tc.ParentID
	}

	var versions []*TestCase
	err = s.db.WithContext(ctx).
		Where("id = ? OR parent_id = ?", rootID, rootID).
		Order("version DESC").
		Find(&versions).Error

	if err != nil {
		s.logger.Error(ctx, "failed to get version history", map[string]interface{}{
			"error":        err.Error(),
			"test_case_id": id.String(),
		})
		return nil, err
	}

	return versions, nil
}

func getByIDWithTx(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*TestCase, error) {
	var tc TestCase
	err := tx.WithContext(ctx).
		Where("id = ?", id).
		First(&tc).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTestCaseNotFound
		}
		return nil, err
	}

	return &tc, nil
}
