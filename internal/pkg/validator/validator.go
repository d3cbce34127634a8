package validator

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

type ValidationError struct {
	Field   string
	Message string
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	var msgs []string
	for _, err := range v {
		msgs = append(msgs, err.Field+": "+err.Message)
	}
	return strings.Join(msgs, "; ")
}

func (v ValidationErrors) ToMap() map[string]string {
	result := make(map[string]string)
	for _, err := range v {
		result[err.Field] = err.Message
	}
	return result
}

// IsEmpty checks if a string is empty after trimming whitespace.
func IsEmpty(s string) bool {
	return strings.TrimSpace(s) == ""
}

// Slice contains check
func IsInSlice(value string, slice []string) bool {
	for _, item := range slice {
		if item == value {
			return true
		}
	}
	return false
}

// MaxCategoryLength bounds collaborator names accepted in paths and queries.
const MaxCategoryLength = 200

// IsPrintable reports whether s is valid UTF-8 without control characters.
func IsPrintable(s string) bool {
	if !utf8.ValidString(s) {
		return false
	}
	for _, r := range s {
		if unicode.IsControl(r) {
			return false
		}
	}
	return true
}

// ValidateCategory checks a collaborator name taken from a request. An empty
// value is accepted when optional is true.
func ValidateCategory(field, category string, optional bool) error {
	var errs ValidationErrors

	switch {
	case IsEmpty(category):
		if !optional {
			errs = append(errs, ValidationError{Field: field, Message: "must not be empty"})
		}
	case utf8.RuneCountInString(category) > MaxCategoryLength:
		errs = append(errs, ValidationError{Field: field, Message: "must be at most 200 characters"})
	case !IsPrintable(category):
		errs = append(errs, ValidationError{Field: field, Message: "contains invalid characters"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
