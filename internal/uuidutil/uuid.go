package uuidutil

import "github.com/google/uuid"

// New generates a new random UUID v4.
func New() uuid.UUID {
	return uuid.New()
}

// Parse parses a string into a UUID.
func Parse(s string) (uuid.UUID, error) {
	return uuid.Parse(s)
}

// MustParse parses a string into a UUID and panics on error. Use only in
// tests or with known-good input.
func MustParse(s string) uuid.UUID {
	return uuid.MustParse(s)
}

// IsValid reports whether a string is a valid UUID.
func IsValid(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
