// Package validation provides small composable string validators that report
// human-readable messages.
package validation

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Validator is a function that validates a string value and returns an error message if invalid.
type Validator func(v string) string

// NotBlank fails with msg when the value is empty after trimming whitespace.
func NotBlank(msg string) Validator {
	return func(v string) string {
		if strings.TrimSpace(v) == "" {
			return msg
		}
		return ""
	}
}

// NotEmpty fails with msg when the value is empty. Whitespace counts as content.
func NotEmpty(msg string) Validator {
	return func(v string) string {
		if v == "" {
			return msg
		}
		return ""
	}
}

// MinRunes fails with msg when the value has fewer than n characters.
// Uses rune count for proper Unicode support.
func MinRunes(n int, msg string) Validator {
	return func(v string) string {
		if utf8.RuneCountInString(v) < n {
			return msg
		}
		return ""
	}
}

// MaxRunes fails with msg when the value has more than n characters.
func MaxRunes(n int, msg string) Validator {
	return func(v string) string {
		if utf8.RuneCountInString(v) > n {
			return msg
		}
		return ""
	}
}

// Contains fails with msg unless re matches somewhere in the trimmed value.
func Contains(re *regexp.Regexp, msg string) Validator {
	return func(v string) string {
		if !re.MatchString(strings.TrimSpace(v)) {
			return msg
		}
		return ""
	}
}

// Equals fails with msg unless the value equals other exactly.
func Equals(other, msg string) Validator {
	return func(v string) string {
		if v != other {
			return msg
		}
		return ""
	}
}

// OneOf fails with msg unless the value matches one of options (case-insensitive).
func OneOf(options []string, msg string) Validator {
	return func(v string) string {
		v = strings.TrimSpace(v)
		for _, opt := range options {
			if strings.EqualFold(v, opt) {
				return ""
			}
		}
		return msg
	}
}

// FieldValidator provides a fluent API for validating multiple fields.
type FieldValidator struct {
	errors map[string]string
}

// New creates a new FieldValidator instance.
func New() *FieldValidator {
	return &FieldValidator{errors: make(map[string]string)}
}

// Validate validates a field with one or more validators.
// It stops at the first error for each field.
func (fv *FieldValidator) Validate(field, value string, validators ...Validator) *FieldValidator {
	if _, seen := fv.errors[field]; seen {
		return fv
	}
	for _, v := range validators {
		if err := v(value); err != "" {
			fv.errors[field] = err
			break
		}
	}
	return fv
}

// Errors returns the accumulated validation errors.
func (fv *FieldValidator) Errors() map[string]string {
	return fv.errors
}

// Valid reports whether no field failed.
func (fv *FieldValidator) Valid() bool {
	return len(fv.errors) == 0
}
