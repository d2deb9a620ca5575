package prompt

import (
	"errors"
	"regexp"
)

var (
	ErrNameRequired      = errors.New("name required")
	ErrInvalidCharacters = errors.New("invalid characters")

	namePattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)
)

// ValidateName accepts letters, digits, hyphens and underscores only.
func ValidateName(name string) error {
	if name == "" {
		return ErrNameRequired
	}

	if !namePattern.MatchString(name) {
		return ErrInvalidCharacters
	}

	return nil
}
