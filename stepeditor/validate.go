package stepeditor

import (
	"fmt"
	"sort"
	"strings"
)

// Severity classifies a validation issue. Errors block submission; warnings
// are advisory only.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Issue is one violation or advisory finding. Index is set when the issue is
// scoped to one list item and nil for list-level issues.
type Issue struct {
	Field    string   `json:"field"`
	Index    *int     `json:"index,omitempty"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
}

// Result aggregates all issues found by one validation pass. IsValid is true
// iff no error-severity issues exist; warnings never block submission.
type Result struct {
	IsValid  bool    `json:"is_valid"`
	Errors   []Issue `json:"errors"`
	Warnings []Issue `json:"warnings"`
}

// Limits holds every threshold the validation rules consult. Thresholds are
// configuration, not fixed law; the constructors below capture the known
// editor variants.
type Limits struct {
	MaxSteps         int
	RecommendedSteps int
	MaxStepNumber    int

	MaxActionLength int
	MinActionLength int

	MaxExpectedLength int

	MaxPreconditions       int
	MaxPreconditionLength  int
	MaxExpectedResults     int
	MaxExpectedResultLength int

	MinNameLength        int
	MaxNameLength        int
	MaxDescriptionLength int
}

// DefaultLimits returns the limits used by plain step editors.
func DefaultLimits() Limits {
	return Limits{
		MaxSteps:                DefaultMaxSteps,
		RecommendedSteps:        DefaultMaxSteps,
		MaxStepNumber:           999,
		MaxActionLength:         2000,
		MinActionLength:         5,
		MaxExpectedLength:       2000,
		MaxPreconditions:        50,
		MaxPreconditionLength:   500,
		MaxExpectedResults:      20,
		MaxExpectedResultLength: 1000,
		MinNameLength:           2,
		MaxNameLength:           255,
		MaxDescriptionLength:    5000,
	}
}

// UnifiedLimits returns the limits used by unified create/edit forms.
func UnifiedLimits() Limits {
	l := DefaultLimits()
	l.MaxSteps = UnifiedMaxSteps
	l.RecommendedSteps = UnifiedMaxSteps
	l.MaxExpectedLength = 1000
	return l
}

// ValidatedLimits returns the limits used by the validated editor variant,
// which permits free-form numbering and larger lists: error past 100 steps,
// warning past 50.
func ValidatedLimits() Limits {
	l := DefaultLimits()
	l.MaxSteps = ValidatedMaxSteps
	l.RecommendedSteps = UnifiedMaxSteps
	return l
}

// ValidateOptions selects the rule set for one validation pass.
type ValidateOptions struct {
	Limits Limits

	// RequireExpectedPerStep makes an empty per-step expected result an
	// error. True for full test cases, false for lightweight test points.
	RequireExpectedPerStep bool
}

// Form carries the sibling fields validated in whole-form mode alongside the
// step list.
type Form struct {
	Name            string
	Description     string
	BusinessType    string
	Preconditions   []string
	ExpectedResults []string
	Steps           StepList
}

type collector struct {
	errors   []Issue
	warnings []Issue
}

func (c *collector) errorAt(field string, index int, message string) {
	i := index
	c.errors = append(c.errors, Issue{Field: field, Index: &i, Severity: SeverityError, Message: message})
}

func (c *collector) errorList(field, message string) {
	c.errors = append(c.errors, Issue{Field: field, Severity: SeverityError, Message: message})
}

func (c *collector) warnAt(field string, index int, message string) {
	i := index
	c.warnings = append(c.warnings, Issue{Field: field, Index: &i, Severity: SeverityWarning, Message: message})
}

func (c *collector) warnList(field, message string) {
	c.warnings = append(c.warnings, Issue{Field: field, Severity: SeverityWarning, Message: message})
}

func (c *collector) result() Result {
	return Result{
		IsValid:  len(c.errors) == 0,
		Errors:   c.errors,
		Warnings: c.warnings,
	}
}

// ValidateSteps validates a step list in isolation. It is a pure, total
// function: every rule is evaluated regardless of earlier failures, and the
// full issue set is returned rather than the first finding.
func ValidateSteps(steps StepList, opts ValidateOptions) Result {
	var c collector
	validateStepRules(steps, opts, &c)
	return c.result()
}

// ValidateForm validates a whole form: steps plus preconditions, expected
// results, name and description.
func ValidateForm(form Form, opts ValidateOptions) Result {
	var c collector

	validateNameDescription(form, opts.Limits, &c)
	validateStringList(form.Preconditions, "preconditions",
		opts.Limits.MaxPreconditions, opts.Limits.MaxPreconditionLength, &c)
	validateStringList(form.ExpectedResults, "expected_results",
		opts.Limits.MaxExpectedResults, opts.Limits.MaxExpectedResultLength, &c)
	validateStepRules(form.Steps, opts, &c)

	return c.result()
}

func validateStepRules(steps StepList, opts ValidateOptions, c *collector) {
	limits := opts.Limits

	// List-level cardinality.
	if limits.MaxSteps > 0 && len(steps) > limits.MaxSteps {
		c.errorList("steps", fmt.Sprintf("step count %d exceeds the maximum of %d", len(steps), limits.MaxSteps))
	} else if limits.RecommendedSteps > 0 && limits.RecommendedSteps < limits.MaxSteps && len(steps) > limits.RecommendedSteps {
		c.warnList("steps", fmt.Sprintf("step count %d exceeds the recommended maximum of %d", len(steps), limits.RecommendedSteps))
	}

	seen := make(map[int]int, len(steps))
	numbers := make([]int, 0, len(steps))

	for i, step := range steps {
		// Step number.
		switch {
		case step.StepNumber <= 0:
			c.errorAt("step_number", i, "step number must be a positive integer")
		case limits.MaxStepNumber > 0 && step.StepNumber > limits.MaxStepNumber:
			c.errorAt("step_number", i, fmt.Sprintf("step number exceeds the maximum of %d", limits.MaxStepNumber))
		default:
			if _, dup := seen[step.StepNumber]; dup {
				c.errorAt("step_number", i, fmt.Sprintf("step number %d duplicates another step", step.StepNumber))
			} else {
				seen[step.StepNumber] = i
			}
			numbers = append(numbers, step.StepNumber)
		}

		// Action.
		action := strings.TrimSpace(step.Action)
		if action == "" {
			c.errorAt("action", i, "action is required")
		} else {
			if limits.MaxActionLength > 0 && len(step.Action) > limits.MaxActionLength {
				c.errorAt("action", i, fmt.Sprintf("action exceeds the maximum length of %d characters", limits.MaxActionLength))
			}
			if limits.MinActionLength > 0 && len([]rune(action)) < limits.MinActionLength {
				c.warnAt("action", i, "action looks incomplete")
			}
		}

		// Expected result.
		expected := strings.TrimSpace(step.Expected)
		if expected == "" {
			if opts.RequireExpectedPerStep {
				c.errorAt("expected", i, "expected result is required")
			}
		} else if limits.MaxExpectedLength > 0 && len(step.Expected) > limits.MaxExpectedLength {
			c.errorAt("expected", i, fmt.Sprintf("expected result exceeds the maximum length of %d characters", limits.MaxExpectedLength))
		}
	}

	// Contiguity is a list-level advisory, emitted once. Only numbers that
	// already passed the per-step checks participate.
	if len(numbers) > 1 {
		sort.Ints(numbers)
		for i := 1; i < len(numbers); i++ {
			if numbers[i]-numbers[i-1] > 1 {
				c.warnList("step_number", "step numbers are not contiguous")
				break
			}
		}
	}
}

func validateStringList(items []string, field string, maxItems, maxLength int, c *collector) {
	if maxItems > 0 && len(items) > maxItems {
		c.errorList(field, fmt.Sprintf("%s count %d exceeds the maximum of %d", field, len(items), maxItems))
	}
	for i, item := range items {
		if strings.TrimSpace(item) == "" {
			c.errorAt(field, i, fmt.Sprintf("%s entry is required", field))
			continue
		}
		if maxLength > 0 && len(item) > maxLength {
			c.errorAt(field, i, fmt.Sprintf("%s entry exceeds the maximum length of %d characters", field, maxLength))
		}
	}
}

func validateNameDescription(form Form, limits Limits, c *collector) {
	name := strings.TrimSpace(form.Name)
	switch {
	case name == "":
		c.errorList("name", "name is required")
	case limits.MinNameLength > 0 && len([]rune(name)) < limits.MinNameLength:
		c.errorList("name", fmt.Sprintf("name must be at least %d characters", limits.MinNameLength))
	case limits.MaxNameLength > 0 && len(form.Name) > limits.MaxNameLength:
		c.errorList("name", fmt.Sprintf("name exceeds the maximum length of %d characters", limits.MaxNameLength))
	}

	if limits.MaxDescriptionLength > 0 && len(form.Description) > limits.MaxDescriptionLength {
		c.errorList("description", fmt.Sprintf("description exceeds the maximum length of %d characters", limits.MaxDescriptionLength))
	}

	// Advisory only: the name should mention the active business type so
	// cases stay discoverable per domain.
	tag := strings.TrimSpace(form.BusinessType)
	if name != "" && tag != "" && !strings.Contains(strings.ToLower(name), strings.ToLower(tag)) {
		c.warnList("name", fmt.Sprintf("name does not mention the business type %q", form.BusinessType))
	}
}
