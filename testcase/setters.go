package testcase

import "github.com/tsp-platform/casegen/stepeditor"

// SetName returns an UpdateSetter that sets the test case's name.
func SetName(name string) UpdateSetter {
	return func(tc *TestCase) error {
		if name == "" {
			return ErrInvalidTestCaseName
		}
		tc.Name = name
		return nil
	}
}

// SetDescription returns an UpdateSetter that sets the test case's description.
func SetDescription(description string) UpdateSetter {
	return func(tc *TestCase) error {
		tc.Description = description
		return nil
	}
}

// SetBusinessType returns an UpdateSetter that sets the business type tag.
func SetBusinessType(businessType string) UpdateSetter {
	return func(tc *TestCase) error {
		tc.BusinessType = businessType
		return nil
	}
}

// SetPreconditions returns an UpdateSetter that replaces the preconditions.
func SetPreconditions(preconditions StringList) UpdateSetter {
	return func(tc *TestCase) error {
		tc.Preconditions = preconditions
		return nil
	}
}

// SetSteps returns an UpdateSetter that replaces the step list.
func SetSteps(steps stepeditor.StepList) UpdateSetter {
	return func(tc *TestCase) error {
		tc.Steps = steps
		return nil
	}
}

// SetExpectedResults returns an UpdateSetter that replaces the overall
// expected results.
func SetExpectedResults(results StringList) UpdateSetter {
	return func(tc *TestCase) error {
		tc.ExpectedResults = results
		return nil
	}
}
