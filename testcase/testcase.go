package testcase

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tsp-platform/casegen/stepeditor"
)

var (
	// ErrTestCaseNotFound is returned when a test case is not found.
	ErrTestCaseNotFound = errors.New("test case not found")

	// ErrInvalidTestCaseName is returned when a test case name is empty.
	ErrInvalidTestCaseName = errors.New("test case name is required")

	// ErrInvalidProjectID is returned when project_id is not set.
	ErrInvalidProjectID = errors.New("project_id is required")

	// ErrInvalidCreatedBy is returned when created_by is not set.
	ErrInvalidCreatedBy = errors.New("created_by is required")
)

// StringList is a flat list of strings persisted as a JSON column, used for
// preconditions and overall expected results.
type StringList []string

// Value implements the driver.Valuer interface for database storage.
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return nil, nil
	}
	return json.Marshal(l)
}

// Scan implements the sql.Scanner interface for database retrieval.
func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = nil
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		if str, ok := value.(string); ok {
			bytes = []byte(str)
		} else {
			return errors.New("failed to scan StringList: not a byte slice")
		}
	}

	return json.Unmarshal(bytes, l)
}

// TestCase is a fully detailed test record: preconditions, ordered steps
// with mandatory expected results, and overall expected results. Version
// chains share a root via ParentID; exactly one committed version per chain
// carries IsLatest.
type TestCase struct {
	ID              uuid.UUID           `json:"id" gorm:"type:char(36);primaryKey"`
	ProjectID       uuid.UUID           `json:"project_id" gorm:"type:char(36);not null;index:idx_test_cases_project_id"`
	Name            string              `json:"name" gorm:"not null"`
	Description     string              `json:"description" gorm:"type:text"`
	BusinessType    string              `json:"business_type" gorm:"type:varchar(100);index:idx_test_cases_business_type"`
	Preconditions   StringList          `json:"preconditions" gorm:"type:json"`
	Steps           stepeditor.StepList `json:"steps" gorm:"type:json"`
	ExpectedResults StringList          `json:"expected_results" gorm:"type:json"`
	CreatedBy       uuid.UUID           `json:"created_by" gorm:"type:char(36);not null;index:idx_test_cases_created_by"`
	Version         uint                `json:"version" gorm:"not null;default:1;index:idx_test_cases_version"`
	IsLatest        bool                `json:"is_latest" gorm:"default:true;index:idx_test_cases_is_latest"`
	ParentID        *uuid.UUID          `json:"parent_id,omitempty" gorm:"type:char(36);index:idx_test_cases_parent_id"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
}

// BeforeCreate hook to generate UUID before creating a new test case.
func (tc *TestCase) BeforeCreate(tx *gorm.DB) error {
	if tc.ID == uuid.Nil {
		tc.ID = uuid.New()
	}
	return nil
}

// Validate checks the structural required fields. Content rules (step text,
// lengths, cardinality) are the validation engine's concern, see
// ValidateContent.
func (tc *TestCase) Validate() error {
	if tc.Name == "" {
		return ErrInvalidTestCaseName
	}
	if tc.ProjectID == uuid.Nil {
		return ErrInvalidProjectID
	}
	if tc.CreatedBy == uuid.Nil {
		return ErrInvalidCreatedBy
	}
	return nil
}

// ValidateContent runs the full-form rule set used as the submission gate.
// Expected results are mandatory per step for test cases. The result is
// returned as data; error-severity issues block submission at the transport
// layer, warnings pass through.
func (tc *TestCase) ValidateContent(limits stepeditor.Limits) stepeditor.Result {
	return stepeditor.ValidateForm(stepeditor.Form{
		Name:            tc.Name,
		Description:     tc.Description,
		BusinessType:    tc.BusinessType,
		Preconditions:   tc.Preconditions,
		ExpectedResults: tc.ExpectedResults,
		Steps:           tc.Steps,
	}, stepeditor.ValidateOptions{
		Limits:                 limits,
		RequireExpectedPerStep: true,
	})
}
