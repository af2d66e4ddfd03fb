package validation

import (
	"context"
	"strings"
)

// ValidationInput contains all data needed for validation
type ValidationInput struct {
	UserQuestion string
	Response     string
}

// ValidationResult is the outcome of a validation
type ValidationResult struct {
	IsValid bool
	Reason  string
}

// OK returns a successful validation result
func OK() ValidationResult {
	return ValidationResult{IsValid: true}
}

// Fail returns a failed validation result
func Fail(reason string) ValidationResult {
	return ValidationResult{IsValid: false, Reason: reason}
}

// Validator is the interface for validation rules
type Validator interface {
	// Name returns the validator's name for logging
	Name() string
	// Validate checks the response and returns a validation result
	Validate(ctx context.Context, input ValidationInput) ValidationResult
}

// EmptyResponseValidator rejects replies with no visible text
type EmptyResponseValidator struct{}

// NewEmptyResponseValidator creates a new EmptyResponseValidator
func NewEmptyResponseValidator() *EmptyResponseValidator {
	return &EmptyResponseValidator{}
}

// Name returns the validator name
func (v *EmptyResponseValidator) Name() string {
	return "EmptyResponseValidator"
}

// Validate fails on blank responses
func (v *EmptyResponseValidator) Validate(_ context.Context, input ValidationInput) ValidationResult {
	if strings.TrimSpace(input.Response) == "" {
		return Fail("empty response")
	}
	return OK()
}

// truncateForLog truncates a string for logging purposes
func truncateForLog(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) > maxLen {
		return string(runes[:maxLen]) + "..."
	}
	return s
}
