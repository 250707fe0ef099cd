package generator

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/tsp-platform/casegen/stepeditor"
)

// allowedNameChars matches alphanumeric, spaces, hyphens, underscores, and parentheses
var allowedNameChars = regexp.MustCompile(`^[a-zA-Z0-9 \-_()]+$`)

// SanitizeName sanitizes a test point name for use in prompts.
// It removes or replaces potentially problematic characters while preserving
// legitimate use cases.
func SanitizeName(name string) string {
	name = strings.TrimSpace(name)

	// Remove control characters (newlines should not be in names)
	name = removeControlCharacters(name, false)

	if !allowedNameChars.MatchString(name) {
		// Replace disallowed characters with underscore
		var result strings.Builder
		for _, r := range name {
			if unicode.IsLetter(r) || unicode.IsNumber(r) || r == ' ' || r == '-' || r == '_' || r == '(' || r == ')' {
				result.WriteRune(r)
			} else {
				result.WriteRune('_')
			}
		}
		name = result.String()
	}

	// Normalize multiple spaces to single space
	name = regexp.MustCompile(`\s+`).ReplaceAllString(name, " ")

	return strings.TrimSpace(name)
}

// SanitizeDescription sanitizes free-form description text. Removes control
// characters and normalizes whitespace while preserving legitimate formatting.
func SanitizeDescription(desc string) string {
	desc = strings.TrimSpace(desc)

	// Remove control characters but preserve newlines and tabs
	desc = removeControlCharacters(desc, true)
	desc = removeNonPrintable(desc)

	// Replace 3+ newlines with 2 newlines, keeping paragraph breaks
	desc = regexp.MustCompile(`\n{3,}`).ReplaceAllString(desc, "\n\n")

	// Normalize spaces and tabs within lines
	lines := strings.Split(desc, "\n")
	for i, line := range lines {
		lines[i] = regexp.MustCompile(`[ \t]+`).ReplaceAllString(line, " ")
		lines[i] = strings.TrimSpace(lines[i])
	}
	desc = strings.Join(lines, "\n")

	return strings.TrimSpace(desc)
}

// SanitizeSteps sanitizes test point steps before they are embedded in a
// prompt. Returns sanitized steps or an error when a step has no usable
// action text.
func SanitizeSteps(steps stepeditor.StepList) (stepeditor.StepList, error) {
	if len(steps) == 0 {
		return steps, nil
	}

	sanitized := make(stepeditor.StepList, 0, len(steps))
	for i, step := range steps {
		action := SanitizeDescription(step.Action)
		if action == "" {
			return nil, fmt.Errorf("step %d: empty action after sanitization", i)
		}

		sanitized = append(sanitized, stepeditor.Step{
			ID:         step.ID,
			StepNumber: i + 1,
			Action:     action,
			Expected:   SanitizeDescription(step.Expected),
		})
	}

	return sanitized, nil
}

// removeControlCharacters removes control characters from a string.
// If preserveFormatting is true, newlines, tabs, and carriage returns are preserved.
func removeControlCharacters(s string, preserveFormatting bool) string {
	var result strings.Builder
	for _, r := range s {
		if unicode.IsControl(r) {
			if preserveFormatting && (r == '\n' || r == '\t' || r == '\r') {
				result.WriteRune(r)
			}
		} else {
			result.WriteRune(r)
		}
	}
	return result.String()
}

// removeNonPrintable removes non-printable characters while preserving
// common formatting characters.
func removeNonPrintable(s string) string {
	var result strings.Builder
	for _, r := range s {
		if unicode.IsPrint(r) || r == '\n' || r == '\t' || r == '\r' {
			result.WriteRune(r)
		}
	}
	return result.String()
}

// ValidationConfig holds the configuration for prompt input limits.
type ValidationConfig struct {
	MaxNameLength        int
	MaxDescriptionLength int
	MaxStepsCount        int
}

// DefaultValidationConfig returns the default validation configuration.
func DefaultValidationConfig() *ValidationConfig {
	return &ValidationConfig{
		MaxNameLength:        255,
		MaxDescriptionLength: 5000,
		MaxStepsCount:        100,
	}
}
