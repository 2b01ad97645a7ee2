// Package validators holds the field rules shared by the request schemas.
package validators

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

const (
	MinNameLength     = 2
	MaxNameLength     = 80
	MinPasswordLength = 8
	MaxPasswordBytes  = 72 // bcrypt rejects longer input
)

var (
	nameRegex = regexp.MustCompile(`^[\p{L}\p{M}\p{N}_\s\-']+$`)
	validate  = validator.New()
)

// ValidationError is returned when a single value fails a rule.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func fail(msg string) error {
	return &ValidationError{Message: msg}
}

// IsValidEmail reports whether value is a syntactically valid email address.
// Invalid addresses also return a *ValidationError describing the problem.
func IsValidEmail(value string) (bool, error) {
	if err := validate.Var(value, "required,email"); err != nil {
		return false, fail("Not a valid email address.")
	}
	return true, nil
}

// ValidateName checks that value is a non-empty human readable name.
func ValidateName(value *string) error {
	if value == nil {
		return fail("Name is required.")
	}
	name := strings.TrimSpace(*value)
	if name == "" {
		return fail("Name must be a non-empty string.")
	}
	if n := utf8.RuneCountInString(name); n < MinNameLength || n > MaxNameLength {
		return fail("Name must be between 2 and 80 characters long.")
	}
	if !nameRegex.MatchString(name) {
		return fail("Name contains invalid characters.")
	}
	return nil
}

// ValidatePassword checks the password length requirement.
func ValidatePassword(value *string) error {
	if value == nil {
		return fail("Password is required.")
	}
	if utf8.RuneCountInString(*value) < MinPasswordLength {
		return fail("Password must be at least 8 characters long.")
	}
	if len(*value) > MaxPasswordBytes {
		return fail("Password must be at most 72 bytes long.")
	}
	return nil
}
