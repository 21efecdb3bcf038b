// ABOUTME: Custom error types for the core business logic
// ABOUTME: Provides structured errors for source faults, validation and rate limiting

package errors

import (
	"errors"
	"fmt"
	"time"
)

// ValidationError represents a malformed request; it never reaches the resolver
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
}

// RateLimitError is returned when a client exceeded its admission window
type RateLimitError struct {
	ClientID   string
	Limit      int
	RetryAfter time.Duration
}

// Error implements the error interface
func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limit of %d requests exceeded, retry after %s", e.Limit, e.RetryAfter)
}

// TransportError covers connection failures, timeouts and non-2xx answers
// from one upstream source. StatusCode is 0 when no response was received.
type TransportError struct {
	Source     string
	StatusCode int
	Err        error
}

// Error implements the error interface
func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("source %s returned status %d", e.Source, e.StatusCode)
	}
	return fmt.Sprintf("source %s transport error: %v", e.Source, e.Err)
}

// Unwrap returns the underlying error
func (e *TransportError) Unwrap() error {
	return e.Err
}

// ExtractionError means a whole document from a source could not be parsed
type ExtractionError struct {
	Source string
	Err    error
}

// Error implements the error interface
func (e *ExtractionError) Error() string {
	return fmt.Sprintf("source %s extraction failed: %v", e.Source, e.Err)
}

// Unwrap returns the underlying error
func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// ConfigError is a startup misconfiguration and is fatal to the process
type ConfigError struct {
	Setting string
	Message string
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid configuration %s: %s", e.Setting, e.Message)
}

// IsValidation checks if an error is a ValidationError
func IsValidation(err error) bool {
	var validationErr *ValidationError
	return errors.As(err, &validationErr)
}

// IsRateLimit checks if an error is a RateLimitError
func IsRateLimit(err error) bool {
	var rateErr *RateLimitError
	return errors.As(err, &rateErr)
}

// IsTransport checks if an error is a TransportError
func IsTransport(err error) bool {
	var transportErr *TransportError
	return errors.As(err, &transportErr)
}

// IsExtraction checks if an error is an ExtractionError
func IsExtraction(err error) bool {
	var extractionErr *ExtractionError
	return errors.As(err, &extractionErr)
}

// IsConfig checks if an error is a ConfigError
func IsConfig(err error) bool {
	var configErr *ConfigError
	return errors.As(err, &configErr)
}

// WrapError wraps an error with additional context
func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}
