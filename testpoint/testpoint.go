package testpoint

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tsp-platform/casegen/stepeditor"
	"github.com/tsp-platform/casegen/testcase"
)

var (
	// ErrTestPointNotFound is returned when a test point is not found.
	ErrTestPointNotFound = errors.New("test point not found")

	// ErrInvalidTestPointName is returned when a test point name is empty.
	ErrInvalidTestPointName = errors.New("test point name is required")

	// ErrInvalidProjectID is returned when project_id is not set.
	ErrInvalidProjectID = errors.New("project_id is required")

	// ErrInvalidCreatedBy is returned when created_by is not set.
	ErrInvalidCreatedBy = errors.New("created_by is required")

	// ErrAlreadyConverted is returned when converting a test point twice.
	ErrAlreadyConverted = errors.New("test point already converted to a test case")
)

// TestPoint is a lightweight precursor record: it captures what to verify
// without execution detail, so per-step expected results stay optional. A
// test point can later be converted into a full test case.
type TestPoint struct {
	ID           uuid.UUID           `json:"id" gorm:"type:char(36);primaryKey"`
	ProjectID    uuid.UUID           `json:"project_id" gorm:"type:char(36);not null;index:idx_test_points_project_id"`
	Name         string              `json:"name" gorm:"not null"`
	Description  string              `json:"description" gorm:"type:text"`
	BusinessType string              `json:"business_type" gorm:"type:varchar(100);index:idx_test_points_business_type"`
	Steps        stepeditor.StepList `json:"steps" gorm:"type:json"`
	CreatedBy    uuid.UUID           `json:"created_by" gorm:"type:char(36);not null;index:idx_test_points_created_by"`

	// ConvertedCaseID points at the test case this point was promoted to,
	// once converted.
	ConvertedCaseID *uuid.UUID `json:"converted_case_id,omitempty" gorm:"type:char(36)"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate hook to generate UUID before creating a new test point.
func (tp *TestPoint) BeforeCreate(tx *gorm.DB) error {
	if tp.ID == uuid.Nil {
		tp.ID = uuid.New()
	}
	return nil
}

// Validate checks the structural required fields.
func (tp *TestPoint) Validate() error {
	if tp.Name == "" {
		return ErrInvalidTestPointName
	}
	if tp.ProjectID == uuid.Nil {
		return ErrInvalidProjectID
	}
	if tp.CreatedBy == uuid.Nil {
		return ErrInvalidCreatedBy
	}
	return nil
}

// ValidateContent runs the form rule set in test point mode: per-step
// expected results are optional here.
func (tp *TestPoint) ValidateContent(limits stepeditor.Limits) stepeditor.Result {
	return stepeditor.ValidateForm(stepeditor.Form{
		Name:         tp.Name,
		Description:  tp.Description,
		BusinessType: tp.BusinessType,
		Steps:        tp.Steps,
	}, stepeditor.ValidateOptions{
		Limits:                 limits,
		RequireExpectedPerStep: false,
	})
}

// ToTestCase builds a full test case draft seeded from this test point. The
// steps are carried over as-is; missing expected results surface as
// validation errors on the case until the author fills them in.
func (tp *TestPoint) ToTestCase() *testcase.TestCase {
	return &testcase.TestCase{
		ProjectID:    tp.ProjectID,
		Name:         tp.Name,
		Description:  tp.Description,
		BusinessType: tp.BusinessType,
		Steps:        tp.Steps.Clone(),
		CreatedBy:    tp.CreatedBy,
	}
}
