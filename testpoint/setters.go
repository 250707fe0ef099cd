package testpoint

import "github.com/tsp-platform/casegen/stepeditor"

// SetName returns an UpdateSetter that sets the test point's name.
func SetName(name string) UpdateSetter {
	return func(tp *TestPoint) error {
		if name == "" {
			return ErrInvalidTestPointName
		}
		tp.Name = name
		return nil
	}
}

// SetDescription returns an UpdateSetter that sets the test point's description.
func SetDescription(description string) UpdateSetter {
	return func(tp *TestPoint) error {
		tp.Description = description
		return nil
	}
}

// SetBusinessType returns an UpdateSetter that sets the business type tag.
func SetBusinessType(businessType string) UpdateSetter {
	return func(tp *TestPoint) error {
		tp.BusinessType = businessType
		return nil
	}
}

// SetSteps returns an UpdateSetter that replaces the step list.
func SetSteps(steps stepeditor.StepList) UpdateSetter {
	return func(tp *TestPoint) error {
		tp.Steps = steps
		return nil
	}
}
