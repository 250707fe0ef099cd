package gentask

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrTaskNotFound       = errors.New("generation task not found")
	ErrInvalidTaskType    = errors.New("task type is required")
	ErrInvalidCreatedBy   = errors.New("created_by is required")
	ErrInvalidStatus      = errors.New("invalid task status")
	ErrInvalidProgress    = errors.New("progress must be between 0 and 100")
	ErrTaskAlreadyStarted = errors.New("task already started")
	ErrTaskNotRunning     = errors.New("task is not running")
)

type Status string

const (
	StatusCreated Status = "created"
	StatusRunning Status = "running"
	StatusStopped Status = "stopped"
	StatusFailed  Status = "failed"
	StatusSuccess Status = "success"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusCreated, StatusRunning, StatusStopped, StatusFailed, StatusSuccess:
		return true
	}
	return false
}

// IsTerminal reports whether the task can no longer change state.
func (s Status) IsTerminal() bool {
	switch s {
	case StatusStopped, StatusFailed, StatusSuccess:
		return true
	}
	return false
}

type TaskType string

const (
	// TaskTypeCaseGeneration generates test case steps from a test point.
	TaskTypeCaseGeneration TaskType = "case_generation"
)

func (tt TaskType) IsValid() bool {
	switch tt {
	case TaskTypeCaseGeneration:
		return true
	}
	return false
}

// JSONMap is a custom type for JSON columns.
type JSONMap map[string]interface{}

func (j JSONMap) Value() (driver.Value, error) {
	if j == nil {
		return json.Marshal(map[string]interface{}{})
	}
	return json.Marshal(j)
}

func (j *JSONMap) Scan(value interface{}) error {
	if value == nil {
		*j = make(JSONMap)
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("failed to scan JSONMap: not a byte slice")
	}
	var m map[string]interface{}
	if err := json.Unmarshal(bytes, &m); err != nil {
		return err
	}
	*j = m
	return nil
}

// Task is an asynchronous AI-generation job. Clients poll it for status,
// progress percent and the current stage string while the generator runs.
type Task struct {
	ID          uuid.UUID  `json:"id" gorm:"type:char(36);primaryKey"`
	Type        TaskType   `json:"type" gorm:"column:type;type:varchar(50);not null"`
	Status      Status     `json:"status" gorm:"type:varchar(20);not null;default:'created'"`
	TestPointID *uuid.UUID `json:"test_point_id,omitempty" gorm:"type:char(36);index:idx_gen_tasks_test_point_id"`
	Config      JSONMap    `json:"config" gorm:"type:json"`
	Result      JSONMap    `json:"result" gorm:"type:json"`
	Progress    int        `json:"progress" gorm:"not null;default:0"`
	Stage       string     `json:"stage" gorm:"type:varchar(100)"`
	StartTime   *time.Time `json:"start_time,omitempty"`
	EndTime     *time.Time `json:"end_time,omitempty"`
	Duration    *int64     `json:"duration,omitempty"`
	CreatedBy   uuid.UUID  `json:"created_by" gorm:"type:char(36);not null;index:idx_gen_tasks_created_by"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (t *Task) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

func (t *Task) Validate() error {
	if !t.Type.IsValid() {
		return ErrInvalidTaskType
	}
	if t.CreatedBy == uuid.Nil {
		return ErrInvalidCreatedBy
	}
	return nil
}

// Start marks the task as running.
func (t *Task) Start() error {
	if t.Status != StatusCreated {
		return ErrTaskAlreadyStarted
	}
	now := time.Now()
	t.Status = StatusRunning
	t.StartTime = &now
	return nil
}

// Complete marks the task as finished with the given status and result.
func (t *Task) Complete(status Status, result JSONMap) error {
	if t.Status != StatusRunning {
		return ErrTaskNotRunning
	}
	if !status.IsTerminal() {
		return ErrInvalidStatus
	}
	now := time.Now()
	t.Status = status
	t.EndTime = &now
	t.Result = result
	t.Progress = 100
	if t.StartTime != nil {
		duration := now.Sub(*t.StartTime).Milliseconds()
		t.Duration = &duration
	}
	return nil
}
