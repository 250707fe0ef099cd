package stepeditor

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tsp-platform/casegen/internal/uuidutil"
)

// Step represents one ordered action/expected-result pair within a test
// procedure. The ID is an opaque reconciliation key scoped to the lifetime of
// one editor session; it is stable across reorders and never reused after
// deletion within the same list instance.
type Step struct {
	ID         string `json:"id"`
	StepNumber int    `json:"step_number"`
	Action     string `json:"action"`
	Expected   string `json:"expected"`
}

// UnmarshalJSON tolerates partial or loosely typed step records coming from
// external callers. Non-string action/expected values are coerced to empty
// strings, numeric step numbers arriving as strings are parsed, and unknown
// fields are dropped.
func (s *Step) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	s.ID = coerceString(raw["id"])
	s.Action = coerceString(raw["action"])
	s.Expected = coerceString(raw["expected"])
	s.StepNumber = coerceInt(raw["step_number"])
	if s.StepNumber == 0 {
		// Older payloads use the camelCase key.
		s.StepNumber = coerceInt(raw["stepNumber"])
	}

	return nil
}

func coerceString(raw json.RawMessage) string {
	if raw == nil {
		return ""
	}
	var str string
	if err := json.Unmarshal(raw, &str); err == nil {
		return str
	}
	var num float64
	if err := json.Unmarshal(raw, &num); err == nil {
		return fmt.Sprintf("%v", num)
	}
	return ""
}

func coerceInt(raw json.RawMessage) int {
	if raw == nil {
		return 0
	}
	var num float64
	if err := json.Unmarshal(raw, &num); err == nil {
		return int(num)
	}
	var str string
	if err := json.Unmarshal(raw, &str); err == nil {
		var parsed float64
		if _, err := fmt.Sscanf(str, "%f", &parsed); err == nil {
			return int(parsed)
		}
	}
	return 0
}

// StepList is an ordered list of steps. It implements driver.Valuer and
// sql.Scanner so host records can persist it as a JSON column.
type StepList []Step

// Value implements the driver.Valuer interface for database storage.
func (l StepList) Value() (driver.Value, error) {
	if l == nil {
		return nil, nil
	}
	return json.Marshal(l)
}

// Scan implements the sql.Scanner interface for database retrieval.
func (l *StepList) Scan(value interface{}) error {
	if value == nil {
		*l = nil
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		if str, ok := value.(string); ok {
			bytes = []byte(str)
		} else {
			return errors.New("failed to scan StepList: not a byte slice")
		}
	}

	return json.Unmarshal(bytes, l)
}

// Clone returns a deep copy of the list.
func (l StepList) Clone() StepList {
	if l == nil {
		return nil
	}
	out := make(StepList, len(l))
	copy(out, l)
	return out
}

// Equal reports whether two lists are structurally identical, comparing every
// field in order. Order matters; this is the divergence check used by the
// controlled-value reconciliation.
func (l StepList) Equal(other StepList) bool {
	if len(l) != len(other) {
		return false
	}
	for i := range l {
		if l[i] != other[i] {
			return false
		}
	}
	return true
}

// IndexOf returns the position of the step with the given ID, or -1.
func (l StepList) IndexOf(id string) int {
	for i := range l {
		if l[i].ID == id {
			return i
		}
	}
	return -1
}

// NewStepID returns a fresh reconciliation key for a step created outside
// the store, such as steps parsed from generated output.
func NewStepID() string {
	return uuidutil.New().String()
}

// newStep creates a blank step with a fresh reconciliation key and a
// provisional number. The number is recomputed by the renumbering pass.
func newStep(number int) Step {
	return Step{
		ID:         uuidutil.New().String(),
		StepNumber: number,
	}
}

// normalize fills defaults on a copy of the input: missing IDs get fresh
// UUIDs and missing step numbers become the next sequential position. The
// input slice is never mutated.
func normalize(steps StepList) StepList {
	out := steps.Clone()
	for i := range out {
		if out[i].ID == "" {
			out[i].ID = uuidutil.New().String()
		}
		if out[i].StepNumber <= 0 {
			out[i].StepNumber = i + 1
		}
	}
	return out
}
