package errors

import "fmt"

// Category represents the type of error.
type Category string

const (
	CategoryConfig   Category = "config"
	CategoryBuild    Category = "build"
	CategoryRuntime  Category = "runtime"
	CategoryModule   Category = "module"
	CategoryDeploy   Category = "deploy"
	CategoryCLI      Category = "cli"
)

// RemixError is a structured error with a stable code, a category, and
// optional remediation hints.
type RemixError struct {
	// Code is a unique error identifier (e.g., "R101").
	Code string

	// Category is the error type (config, build, etc.).
	Category Category

	// Message is a short description of the error.
	Message string

	// Detail is a longer explanation of the error.
	Detail string

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// DocURL is a link to documentation about this error.
	DocURL string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *RemixError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return e.Message
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *RemixError) Unwrap() error {
	return e.Wrapped
}

// WithDetail adds a detailed explanation to the error.
func (e *RemixError) WithDetail(d string) *RemixError {
	e.Detail = d
	return e
}

// WithSuggestion adds a fix suggestion to the error.
func (e *RemixError) WithSuggestion(s string) *RemixError {
	e.Suggestion = s
	return e
}

// Wrap wraps another error.
func (e *RemixError) Wrap(err error) *RemixError {
	e.Wrapped = err
	return e
}

// New creates a RemixError from a registered error code.
func New(code string) *RemixError {
	template, ok := registry[code]
	if !ok {
		return &RemixError{
			Code:    code,
			Message: "Unknown error",
		}
	}
	return &RemixError{
		Code:     code,
		Category: template.Category,
		Message:  template.Message,
		Detail:   template.Detail,
		DocURL:   template.DocURL,
	}
}

// Newf creates a new RemixError with a formatted message (no code).
func Newf(category Category, format string, args ...any) *RemixError {
	return &RemixError{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// FromError wraps a standard error in a RemixError.
func FromError(err error, code string) *RemixError {
	if err == nil {
		return nil
	}
	if re, ok := err.(*RemixError); ok {
		return re
	}
	return New(code).Wrap(err)
}
