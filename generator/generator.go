package generator

import (
	"context"
	"errors"

	"github.com/tsp-platform/casegen/stepeditor"
	"github.com/tsp-platform/casegen/testpoint"
)

var (
	// ErrEmptyResponse is returned when the model produces no usable output.
	ErrEmptyResponse = errors.New("model returned no usable output")

	// ErrMalformedSteps is returned when the model output cannot be parsed
	// as a step list.
	ErrMalformedSteps = errors.New("model output is not a valid step list")
)

// GeneratedCase is the parsed output of a generation run: a normalized step
// list plus the suggested preconditions and expected results for the case.
type GeneratedCase struct {
	Steps           stepeditor.StepList `json:"steps"`
	Preconditions   []string            `json:"preconditions"`
	ExpectedResults []string            `json:"expected_results"`
}

// CaseGenerator defines the interface for generating test case drafts from
// test points. Implementations can use different backends (AWS Bedrock,
// other model providers, local templates).
type CaseGenerator interface {
	// Generate produces a test case draft from a test point.
	Generate(ctx context.Context, point *testpoint.TestPoint) (*GeneratedCase, error)
}
