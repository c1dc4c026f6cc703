package apperrors

import (
	"errors"
	"fmt"
	"strings"
)

// Common errors
var (
	// Resource errors
	ErrResourceNotFound = errors.New("resource not found")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")

	// Remote errors
	ErrNetworkFailed = errors.New("network request failed")

	// ErrBusy is returned when the same logical action is already in flight
	ErrBusy = errors.New("action already in progress")
)

// FieldError is a single field-scoped validation failure
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries every field that failed local validation.
// It never originates from the network.
type ValidationError struct {
	Fields []FieldError
}

// NewValidationError creates a validation error from field errors
func NewValidationError(fields ...FieldError) *ValidationError {
	return &ValidationError{Fields: fields}
}

// Error implements error interface
func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return ErrValidationFailed.Error()
	}
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return fmt.Sprintf("%s: %s", ErrValidationFailed, strings.Join(parts, "; "))
}

// Unwrap implements errors.Unwrap interface
func (e *ValidationError) Unwrap() error {
	return ErrValidationFailed
}

// Field returns the error registered for field, if any
func (e *ValidationError) Field(field string) (FieldError, bool) {
	for _, f := range e.Fields {
		if f.Field == field {
			return f, true
		}
	}
	return FieldError{}, false
}

// NetworkError reports a transport or remote failure for an action.
// Retrying the same action is allowed.
type NetworkError struct {
	Action     string
	StatusCode int
	Err        error
}

// NewNetworkError wraps err as a network failure of action
func NewNetworkError(action string, err error) *NetworkError {
	return &NetworkError{Action: action, Err: err}
}

// Error implements error interface
func (e *NetworkError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Action, ErrNetworkFailed)
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" (status %d)", e.StatusCode)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Is reports sentinel equality so errors.Is(err, ErrNetworkFailed) holds
func (e *NetworkError) Is(target error) bool {
	return target == ErrNetworkFailed
}

// Unwrap implements errors.Unwrap interface
func (e *NetworkError) Unwrap() error {
	return e.Err
}

// NotFoundError reports that the remote side no longer has the referenced id.
// The caller should refresh instead of retrying.
type NotFoundError struct {
	Resource string
	ID       int64
}

// NewNotFoundError creates a not found error for resource id
func NewNotFoundError(resource string, id int64) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// Error implements error interface
func (e *NotFoundError) Error() string {
	if e.Resource == "" {
		return fmt.Sprintf("id %d: %s", e.ID, ErrResourceNotFound)
	}
	return fmt.Sprintf("%s %d: %s", e.Resource, e.ID, ErrResourceNotFound)
}

// Unwrap implements errors.Unwrap interface
func (e *NotFoundError) Unwrap() error {
	return ErrResourceNotFound
}

// Is returns whether target matches any of the errors in errList
func Is(err, target error, errList ...error) bool {
	if errors.Is(err, target) {
		return true
	}

	for _, e := range errList {
		if errors.Is(err, e) {
			return true
		}
	}

	return false
}

// IsRecoverable reports whether err belongs to the dashboard taxonomy.
// Every member of the taxonomy leaves the last good state in place.
func IsRecoverable(err error) bool {
	return Is(err, ErrValidationFailed, ErrNetworkFailed, ErrResourceNotFound, ErrBusy)
}
