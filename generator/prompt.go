package generator

import (
	"fmt"
	"strings"

	"github.com/tsp-platform/casegen/testpoint"
)

// BuildPrompt constructs a prompt for the model to expand a test point into a
// full test case. It validates and sanitizes all user-provided content before
// embedding it in the prompt to prevent prompt injection attacks.
func BuildPrompt(point *testpoint.TestPoint, config *ValidationConfig) (string, error) {
	if config == nil {
		config = DefaultValidationConfig()
	}

	if len(point.Name) > config.MaxNameLength {
		return "", fmt.Errorf("name exceeds maximum length of %d characters", config.MaxNameLength)
	}
	if len(point.Description) > config.MaxDescriptionLength {
		return "", fmt.Errorf("description exceeds maximum length of %d characters", config.MaxDescriptionLength)
	}
	if len(point.Steps) > config.MaxStepsCount {
		return "", fmt.Errorf("test point has %d steps, maximum allowed is %d", len(point.Steps), config.MaxStepsCount)
	}

	sanitizedName := SanitizeName(point.Name)
	sanitizedDescription := SanitizeDescription(point.Description)
	sanitizedBusinessType := SanitizeName(point.BusinessType)

	sanitizedSteps, err := SanitizeSteps(point.Steps)
	if err != nil {
		return "", fmt.Errorf("failed to sanitize steps: %w", err)
	}

	var pointsList strings.Builder
	for _, step := range sanitizedSteps {
		fmt.Fprintf(&pointsList, "%d. %s\n", step.StepNumber, step.Action)
	}

	// XML-style tags create clear boundaries between instructions and user
	// data, making it harder to break out of the user data section.
	prompt := fmt.Sprintf(`Expand the following test point into a complete, executable manual test case for a vehicle telematics service platform.

<test_point>
<name>%s</name>
<business_type>%s</business_type>
<description>%s</description>
<verification_points>
%s</verification_points>
</test_point>

<requirements>
- Produce numbered, concrete execution steps a tester can follow without further context
- Every step must have an "action" describing what the tester does and an "expected" describing the observable result
- Steps must cover every verification point listed above
- Include setup steps (app login, vehicle pairing) where the verification points assume them
- Keep each action under 2000 characters
- Return ONLY a JSON object without markdown formatting or code blocks
- Do not include any explanatory text before or after the JSON

The JSON object must have exactly this shape:
{
  "preconditions": ["..."],
  "steps": [{"step_number": 1, "action": "...", "expected": "..."}],
  "expected_results": ["..."]
}
</requirements>`,
		sanitizedName,
		sanitizedBusinessType,
		sanitizedDescription,
		pointsList.String(),
	)

	return prompt, nil
}
