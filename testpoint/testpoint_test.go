package testpoint

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/tsp-platform/casegen/stepeditor"
)

func TestTestPointValidate(t *testing.T) {
	projectID := uuid.New()
	userID := uuid.New()

	tests := []struct {
		name      string
		testPoint *TestPoint
		wantErr   error
	}{
		{
			name:      "valid test point",
			testPoint: validTestPoint(projectID, userID),
			wantErr:   nil,
		},
		{
			name: "missing name",
			testPoint: &TestPoint{
				ProjectID: projectID,
				CreatedBy: userID,
			},
			wantErr: ErrInvalidTestPointName,
		},
		{
			name: "missing project",
			testPoint: &TestPoint{
				Name:      "Remote unlock coverage",
				CreatedBy: userID,
			},
			wantErr: ErrInvalidProjectID,
		},
		{
			name: "missing created by",
			testPoint: &TestPoint{
				Name:      "Remote unlock coverage",
				ProjectID: projectID,
			},
			wantErr: ErrInvalidCreatedBy,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.testPoint.Validate()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestTestPointValidateContentExpectedOptional(t *testing.T) {
	tp := validTestPoint(uuid.New(), uuid.New())

	// None of the fixture steps carry an expected result. In test point
	// mode that must not produce errors.
	result := tp.ValidateContent(stepeditor.DefaultLimits())
	assert.True(t, result.IsValid)
	for _, issue := range append(append([]stepeditor.Issue{}, result.Errors...), result.Warnings...) {
		assert.NotEqual(t, stepeditor.SeverityError, issue.Severity)
	}
}

func TestTestPointValidateContentStillChecksActions(t *testing.T) {
	tp := validTestPoint(uuid.New(), uuid.New())
	tp.Steps[0].Action = "   "

	result := tp.ValidateContent(stepeditor.DefaultLimits())
	assert.False(t, result.IsValid)
}

func TestTestPointToTestCase(t *testing.T) {
	tp := validTestPoint(uuid.New(), uuid.New())
	tc := tp.ToTestCase()

	assert.Equal(t, tp.ProjectID, tc.ProjectID)
	assert.Equal(t, tp.Name, tc.Name)
	assert.Equal(t, tp.Description, tc.Description)
	assert.Equal(t, tp.BusinessType, tc.BusinessType)
	assert.Equal(t, tp.CreatedBy, tc.CreatedBy)
	assert.True(t, tc.Steps.Equal(tp.Steps))

	// The draft must not share backing storage with the point.
	tc.Steps[0].Action = "changed"
	assert.NotEqual(t, tp.Steps[0].Action, tc.Steps[0].Action)

	// The case demands expected results the point never had.
	result := tc.ValidateContent(stepeditor.DefaultLimits())
	assert.False(t, result.IsValid)
}
