// Package errors provides domain-specific error types and sentinel errors
// for improved error handling across the application.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common scenarios.
// Use errors.Is() to check these errors in your code.
var (
	// ErrInvalidSignature indicates a webhook request failed provider signature verification.
	ErrInvalidSignature = errors.New("invalid webhook signature")

	// ErrInvalidInput indicates a request could not be parsed.
	ErrInvalidInput = errors.New("invalid input")

	// ErrCatalogInvalid indicates the compiled-in catalog failed validation.
	ErrCatalogInvalid = errors.New("invalid catalog")
)

// ValidationError represents a single field validation failure.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Message)
}

// NewValidationError creates a new validation error.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

// DeliveryError is returned when a reply could not be handed back to a
// messaging provider.
type DeliveryError struct {
	Channel string // "whatsapp", "line"
	Err     error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("deliver reply (channel=%s): %v", e.Channel, e.Err)
}

func (e *DeliveryError) Unwrap() error {
	return e.Err
}

// NewDeliveryError creates a new delivery error.
func NewDeliveryError(channel string, err error) *DeliveryError {
	return &DeliveryError{Channel: channel, Err: err}
}

// IsInvalidSignature checks if an error is or wraps ErrInvalidSignature.
func IsInvalidSignature(err error) bool {
	return errors.Is(err, ErrInvalidSignature)
}

// IsInvalidInput checks if an error is or wraps ErrInvalidInput.
func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsCatalogInvalid checks if an error is or wraps ErrCatalogInvalid.
func IsCatalogInvalid(err error) bool {
	return errors.Is(err, ErrCatalogInvalid)
}
