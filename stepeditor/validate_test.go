package stepeditor

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeSteps(n int) StepList {
	steps := make(StepList, n)
	for i := range steps {
		steps[i] = Step{
			ID:         "step-" + string(rune('a'+i%26)),
			StepNumber: i + 1,
			Action:     "perform the documented action",
			Expected:   "the documented outcome occurs",
		}
	}
	return steps
}

func fieldIndexes(issues []Issue, field string) []int {
	var out []int
	for _, iss := range issues {
		if iss.Field == field && iss.Index != nil {
			out = append(out, *iss.Index)
		}
	}
	return out
}

func hasListIssue(issues []Issue, field string) bool {
	for _, iss := range issues {
		if iss.Field == field && iss.Index == nil {
			return true
		}
	}
	return false
}

func TestValidateSteps_EmptyListNeverPanics(t *testing.T) {
	result := ValidateSteps(nil, ValidateOptions{Limits: DefaultLimits()})
	assert.True(t, result.IsValid)
	assert.Empty(t, result.Errors)

	result = ValidateSteps(StepList{}, ValidateOptions{Limits: DefaultLimits()})
	assert.True(t, result.IsValid)
}

func TestValidateSteps_WellFormedListIsValid(t *testing.T) {
	result := ValidateSteps(makeSteps(5), ValidateOptions{
		Limits:                 DefaultLimits(),
		RequireExpectedPerStep: true,
	})

	assert.True(t, result.IsValid)
	assert.Empty(t, result.Errors)
	assert.Empty(t, result.Warnings)
}

func TestValidateSteps_EmptyActionIsError(t *testing.T) {
	steps := StepList{{ID: "1", StepNumber: 1, Action: "", Expected: "x is shown"}}

	result := ValidateSteps(steps, ValidateOptions{Limits: DefaultLimits()})

	assert.False(t, result.IsValid)
	assert.Equal(t, []int{0}, fieldIndexes(result.Errors, "action"))
}

func TestValidateSteps_WhitespaceActionIsError(t *testing.T) {
	steps := StepList{{ID: "1", StepNumber: 1, Action: "   \t", Expected: "x"}}

	result := ValidateSteps(steps, ValidateOptions{Limits: DefaultLimits()})
	assert.False(t, result.IsValid)
	assert.Equal(t, []int{0}, fieldIndexes(result.Errors, "action"))
}

func TestValidateSteps_ShortActionIsWarningOnly(t *testing.T) {
	steps := StepList{{ID: "1", StepNumber: 1, Action: "tap", Expected: "opens"}}

	result := ValidateSteps(steps, ValidateOptions{Limits: DefaultLimits()})

	assert.True(t, result.IsValid, "warnings never block submission")
	assert.Empty(t, result.Errors)
	assert.Equal(t, []int{0}, fieldIndexes(result.Warnings, "action"))
}

func TestValidateSteps_ActionTooLong(t *testing.T) {
	steps := StepList{{
		ID: "1", StepNumber: 1,
		Action:   strings.Repeat("x", 2001),
		Expected: "fine",
	}}

	result := ValidateSteps(steps, ValidateOptions{Limits: DefaultLimits()})
	assert.False(t, result.IsValid)
	assert.Equal(t, []int{0}, fieldIndexes(result.Errors, "action"))
}

func TestValidateSteps_ExpectedRequirementByMode(t *testing.T) {
	steps := StepList{{ID: "1", StepNumber: 1, Action: "log in to the console", Expected: ""}}

	testCase := ValidateSteps(steps, ValidateOptions{Limits: DefaultLimits(), RequireExpectedPerStep: true})
	assert.False(t, testCase.IsValid, "test case mode requires expected results")
	assert.Equal(t, []int{0}, fieldIndexes(testCase.Errors, "expected"))

	testPoint := ValidateSteps(steps, ValidateOptions{Limits: DefaultLimits(), RequireExpectedPerStep: false})
	assert.True(t, testPoint.IsValid, "test point mode leaves expected optional")
}

func TestValidateSteps_StepNumberRules(t *testing.T) {
	tests := []struct {
		name       string
		steps      StepList
		wantField  string
		wantIndex  []int
		wantValid  bool
	}{
		{
			name:      "zero number",
			steps:     StepList{{ID: "1", StepNumber: 0, Action: "do something useful", Expected: "ok"}},
			wantField: "step_number",
			wantIndex: []int{0},
		},
		{
			name:      "negative number",
			steps:     StepList{{ID: "1", StepNumber: -3, Action: "do something useful", Expected: "ok"}},
			wantField: "step_number",
			wantIndex: []int{0},
		},
		{
			name:      "beyond display ceiling",
			steps:     StepList{{ID: "1", StepNumber: 1000, Action: "do something useful", Expected: "ok"}},
			wantField: "step_number",
			wantIndex: []int{0},
		},
		{
			name: "duplicate numbers",
			steps: StepList{
				{ID: "1", StepNumber: 2, Action: "do something useful", Expected: "ok"},
				{ID: "2", StepNumber: 2, Action: "do something else useful", Expected: "ok"},
			},
			wantField: "step_number",
			wantIndex: []int{1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ValidateSteps(tt.steps, ValidateOptions{Limits: DefaultLimits()})
			assert.False(t, result.IsValid)
			assert.Equal(t, tt.wantIndex, fieldIndexes(result.Errors, tt.wantField))
		})
	}
}

func TestValidateSteps_NonContiguousNumbersWarnOnce(t *testing.T) {
	steps := StepList{
		{ID: "1", StepNumber: 1, Action: "first meaningful action", Expected: "ok"},
		{ID: "2", StepNumber: 3, Action: "second meaningful action", Expected: "ok"},
		{ID: "3", StepNumber: 7, Action: "third meaningful action", Expected: "ok"},
	}

	result := ValidateSteps(steps, ValidateOptions{Limits: DefaultLimits()})

	assert.True(t, result.IsValid, "gaps are advisory, not blocking")
	assert.True(t, hasListIssue(result.Warnings, "step_number"))

	count := 0
	for _, w := range result.Warnings {
		if w.Field == "step_number" {
			count++
		}
	}
	assert.Equal(t, 1, count, "the contiguity warning is emitted once per list")
}

func TestValidateSteps_CardinalityThresholds(t *testing.T) {
	limits := ValidatedLimits()

	t.Run("101 steps is a list-level error regardless of step content", func(t *testing.T) {
		result := ValidateSteps(makeSteps(101), ValidateOptions{Limits: limits, RequireExpectedPerStep: true})
		assert.False(t, result.IsValid)
		assert.True(t, hasListIssue(result.Errors, "steps"))
	})

	t.Run("60 steps is only a recommendation warning", func(t *testing.T) {
		result := ValidateSteps(makeSteps(60), ValidateOptions{Limits: limits, RequireExpectedPerStep: true})
		assert.True(t, result.IsValid)
		assert.True(t, hasListIssue(result.Warnings, "steps"))
	})

	t.Run("50 steps passes clean", func(t *testing.T) {
		result := ValidateSteps(makeSteps(50), ValidateOptions{Limits: limits, RequireExpectedPerStep: true})
		assert.True(t, result.IsValid)
		assert.Empty(t, result.Warnings)
	})
}

func TestValidateSteps_RulesAreCumulative(t *testing.T) {
	steps := StepList{
		{ID: "1", StepNumber: 0, Action: "", Expected: strings.Repeat("y", 3000)},
		{ID: "2", StepNumber: 0, Action: "", Expected: ""},
	}

	result := ValidateSteps(steps, ValidateOptions{Limits: DefaultLimits(), RequireExpectedPerStep: true})

	require.False(t, result.IsValid)
	// Every rule fires: two bad numbers, two empty actions, one oversized
	// expected, one missing expected.
	assert.Len(t, fieldIndexes(result.Errors, "step_number"), 2)
	assert.Len(t, fieldIndexes(result.Errors, "action"), 2)
	assert.Len(t, fieldIndexes(result.Errors, "expected"), 2)
}

func TestValidateForm_SiblingLists(t *testing.T) {
	form := Form{
		Name:         "Remote unlock regression",
		BusinessType: "remote unlock",
		Preconditions: []string{
			"vehicle is provisioned",
			"",
			strings.Repeat("p", 501),
		},
		ExpectedResults: []string{"doors unlock"},
		Steps:           makeSteps(2),
	}

	result := ValidateForm(form, ValidateOptions{Limits: DefaultLimits(), RequireExpectedPerStep: true})

	assert.False(t, result.IsValid)
	assert.Equal(t, []int{1, 2}, fieldIndexes(result.Errors, "preconditions"))
	assert.Empty(t, fieldIndexes(result.Errors, "expected_results"))
}

func TestValidateForm_PreconditionCardinality(t *testing.T) {
	many := make([]string, 51)
	for i := range many {
		many[i] = "a valid precondition entry"
	}
	form := Form{Name: "Overloaded case", Preconditions: many, Steps: makeSteps(1)}

	result := ValidateForm(form, ValidateOptions{Limits: DefaultLimits(), RequireExpectedPerStep: true})
	assert.False(t, result.IsValid)
	assert.True(t, hasListIssue(result.Errors, "preconditions"))
}

func TestValidateForm_NameAndDescription(t *testing.T) {
	tests := []struct {
		name      string
		form      Form
		wantValid bool
		wantField string
	}{
		{
			name:      "missing name",
			form:      Form{Steps: makeSteps(1)},
			wantValid: false,
			wantField: "name",
		},
		{
			name:      "name too short",
			form:      Form{Name: "x", Steps: makeSteps(1)},
			wantValid: false,
			wantField: "name",
		},
		{
			name:      "name too long",
			form:      Form{Name: strings.Repeat("n", 256), Steps: makeSteps(1)},
			wantValid: false,
			wantField: "name",
		},
		{
			name:      "description too long",
			form:      Form{Name: "Valid name", Description: strings.Repeat("d", 5001), Steps: makeSteps(1)},
			wantValid: false,
			wantField: "description",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ValidateForm(tt.form, ValidateOptions{Limits: DefaultLimits(), RequireExpectedPerStep: true})
			assert.Equal(t, tt.wantValid, result.IsValid)
			assert.True(t, hasListIssue(result.Errors, tt.wantField))
		})
	}
}

func TestValidateForm_BusinessTypeMentionIsAdvisory(t *testing.T) {
	form := Form{
		Name:         "Window control regression",
		BusinessType: "remote unlock",
		Steps:        makeSteps(1),
	}

	result := ValidateForm(form, ValidateOptions{Limits: DefaultLimits(), RequireExpectedPerStep: true})

	assert.True(t, result.IsValid)
	assert.True(t, hasListIssue(result.Warnings, "name"))
}
