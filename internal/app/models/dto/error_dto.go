package dto

import (
	"fmt"

	"github.com/yigit/kaddem/internal/pkg/apperrors"
)

// ErrorCode identifies a failure class in API responses
type ErrorCode string

const (
	// Authentication errors
	ErrorCodeInvalidToken ErrorCode = "AUTH_005"
	ErrorCodeExpiredToken ErrorCode = "AUTH_006"
	ErrorCodeUnauthorized ErrorCode = "AUTH_008"

	// Resource errors
	ErrorCodeResourceNotFound ErrorCode = "RES_001"
	ErrorCodeResourceInvalid  ErrorCode = "RES_003"
	ErrorCodeConflict         ErrorCode = "RES_004"

	ErrorCodeValidationFailed ErrorCode = "VAL_001"

	// Server errors. SRV_003 means the Kaddem backend failed.
	ErrorCodeInternalServer       ErrorCode = "SRV_001"
	ErrorCodeExternalServiceError ErrorCode = "SRV_003"
)

// ErrorSeverity tells a client how loudly to surface an error
type ErrorSeverity string

const (
	// ErrorSeverityWarning is retryable by the user, e.g. a busy action
	ErrorSeverityWarning ErrorSeverity = "WARNING"
	ErrorSeverityError   ErrorSeverity = "ERROR"

	// ErrorSeverityCritical marks failures the dashboard did not expect
	ErrorSeverityCritical ErrorSeverity = "CRITICAL"
)

// ErrorDetail is the error member of the API envelope
type ErrorDetail struct {
	Code     ErrorCode     `json:"code" example:"VAL_001"`
	Message  string        `json:"message" example:"Validation failed"`
	Field    string        `json:"field,omitempty" example:"firstName"`
	Severity ErrorSeverity `json:"severity" example:"ERROR"`
	Details  interface{}   `json:"details,omitempty"`

	// DebugInfo is only filled outside release mode
	DebugInfo string `json:"debugInfo,omitempty"`
}

// NewErrorDetail creates an error detail with ERROR severity
func NewErrorDetail(code ErrorCode, message string) *ErrorDetail {
	return &ErrorDetail{
		Code:     code,
		Message:  message,
		Severity: ErrorSeverityError,
	}
}

// NewFieldErrors converts failed form fields into one detail per field
func NewFieldErrors(fields []apperrors.FieldError) []ErrorDetail {
	out := make([]ErrorDetail, 0, len(fields))
	for _, f := range fields {
		d := NewErrorDetail(ErrorCodeValidationFailed, f.Message).WithField(f.Field)
		out = append(out, *d)
	}
	return out
}

func (e *ErrorDetail) WithField(field string) *ErrorDetail {
	e.Field = field
	return e
}

func (e *ErrorDetail) WithSeverity(severity ErrorSeverity) *ErrorDetail {
	e.Severity = severity
	return e
}

func (e *ErrorDetail) WithDetails(details interface{}) *ErrorDetail {
	e.Details = details
	return e
}

// WithDebugInfo attaches the underlying error text
func (e *ErrorDetail) WithDebugInfo(format string, args ...interface{}) *ErrorDetail {
	e.DebugInfo = fmt.Sprintf(format, args...)
	return e
}
