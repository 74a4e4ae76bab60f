package tmdb

import (
	"errors"
	"fmt"
	"strings"
)

// Common errors
var (
	// ErrInvalidInput indicates a blank query, blank URL or malformed URL
	ErrInvalidInput = errors.New("invalid input")
	// ErrMalformedResponse indicates a response body that could not be parsed
	ErrMalformedResponse = errors.New("malformed response")
	// ErrInvalidConfig indicates invalid client configuration
	ErrInvalidConfig = errors.New("invalid tmdb configuration")
)

// InputError is returned before any network call is made
type InputError struct {
	Field  string
	Value  string
	Reason string
}

func (e *InputError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
}

// Is makes errors.Is(err, ErrInvalidInput) match any InputError
func (e *InputError) Is(target error) bool {
	return target == ErrInvalidInput
}

// StatusError represents a non-success HTTP status from a reachable server
type StatusError struct {
	URL        string
	StatusCode int
	Body       string
}

// Error implements the error interface
func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("tmdb API error: status %d", e.StatusCode)
	}
	return fmt.Sprintf("tmdb API error: status %d: %s", e.StatusCode, e.Body)
}

// IsNotFound checks if the error indicates a not found response
func (e *StatusError) IsNotFound() bool {
	return e.StatusCode == 404
}

// IsUnauthorized checks if the error indicates an authentication failure
func (e *StatusError) IsUnauthorized() bool {
	return e.StatusCode == 401 || e.StatusCode == 403
}

// RetryError is returned when every attempt failed with a retryable condition.
// Err holds the cause of the last attempt.
type RetryError struct {
	URL      string
	Attempts int
	Err      error
}

func (e *RetryError) Error() string {
	return fmt.Sprintf("all %d attempts failed: %v", e.Attempts, e.Err)
}

func (e *RetryError) Unwrap() error {
	return e.Err
}

// ParseError indicates a response body that is not valid JSON or lacks a
// mandatory field. Index is -1 when the problem is not tied to one element.
type ParseError struct {
	Endpoint string
	Index    int
	Field    string
	Err      error
}

func (e *ParseError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "malformed %s response", e.Endpoint)
	if e.Index >= 0 {
		fmt.Fprintf(&sb, " at result %d", e.Index)
	}
	if e.Field != "" {
		fmt.Fprintf(&sb, ": field %q", e.Field)
	}
	if e.Err != nil {
		fmt.Fprintf(&sb, ": %v", e.Err)
	}
	return sb.String()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrMalformedResponse) match any ParseError
func (e *ParseError) Is(target error) bool {
	return target == ErrMalformedResponse
}

// errMissing is the cause recorded for absent or null mandatory fields
var errMissing = errors.New("missing or null")
