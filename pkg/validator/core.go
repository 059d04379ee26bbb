package validator

import (
	"errors"
	"fmt"
	"strings"
)

type Numeric interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// ValidationError is a single failed rule. TranslationKey and
// TranslationValues let the presentation layer localize Message.
type ValidationError struct {
	Field             string
	Message           string
	TranslationKey    string
	TranslationValues map[string]any
}

// ValidationErrors collects every failed rule of one Apply call.
type ValidationErrors []ValidationError

func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "validation failed"
	}
	parts := make([]string, 0, len(ve))
	for _, err := range ve {
		parts = append(parts, fmt.Sprintf("%s: %s", err.Field, err.Message))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (ve ValidationErrors) Has(field string) bool {
	for _, err := range ve {
		if err.Field == field {
			return true
		}
	}
	return false
}

// Get returns the messages recorded for field.
func (ve ValidationErrors) Get(field string) []string {
	var messages []string
	for _, err := range ve {
		if err.Field == field {
			messages = append(messages, err.Message)
		}
	}
	return messages
}

// Fields returns failing field names in first-seen order.
func (ve ValidationErrors) Fields() []string {
	var fields []string
	seen := make(map[string]bool)
	for _, err := range ve {
		if !seen[err.Field] {
			fields = append(fields, err.Field)
			seen[err.Field] = true
		}
	}
	return fields
}

// Rule is a deferred check plus the error reported when it fails.
type Rule struct {
	Check func() bool
	Error ValidationError
}

// Apply runs every rule and returns ValidationErrors, or nil when all pass.
func Apply(rules ...Rule) error {
	var errs ValidationErrors
	for _, rule := range rules {
		if !rule.Check() {
			errs = append(errs, rule.Error)
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// ExtractValidationErrors returns the ValidationErrors inside err, if any.
func ExtractValidationErrors(err error) ValidationErrors {
	var ve ValidationErrors
	if errors.As(err, &ve) {
		return ve
	}
	return nil
}

func IsValidationError(err error) bool {
	var ve ValidationErrors
	return errors.As(err, &ve)
}
