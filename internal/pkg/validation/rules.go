// Package validation runs go-playground struct-tag validation and turns the
// result into field-level application errors.
package validation

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/yigit/kaddem/internal/pkg/apperrors"
)

// MessageTag is the struct tag holding a field's user-facing message
const MessageTag = "message"

var (
	once     sync.Once
	instance *validator.Validate
)

// Validator returns the shared validator. Field errors are reported under
// their JSON names.
func Validator() *validator.Validate {
	once.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(jsonName)
		instance = v
	})
	return instance
}

func jsonName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	switch name {
	case "-":
		return ""
	case "":
		return fld.Name
	}
	return name
}

// Struct validates obj. It returns *apperrors.ValidationError listing every
// failing field, or nil.
func Struct(obj interface{}) error {
	err := Validator().Struct(obj)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return apperrors.NewValidationError(apperrors.FieldError{Field: "", Message: err.Error()})
	}
	return FromValidator(obj, fieldErrs)
}

// FromValidator converts validator errors for obj. A field's message tag
// wins over the generic message derived from the failed rule.
func FromValidator(obj interface{}, errs validator.ValidationErrors) *apperrors.ValidationError {
	t := reflect.TypeOf(obj)
	for t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	fields := make([]apperrors.FieldError, 0, len(errs))
	for _, e := range errs {
		msg := FormatFieldError(e)
		if t != nil && t.Kind() == reflect.Struct {
			if sf, ok := t.FieldByName(e.StructField()); ok {
				if custom := sf.Tag.Get(MessageTag); custom != "" {
					msg = custom
				}
			}
		}
		fields = append(fields, apperrors.FieldError{Field: e.Field(), Message: msg})
	}
	return apperrors.NewValidationError(fields...)
}

// FormatFieldError creates a human-readable message for a failed rule
func FormatFieldError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return e.Field() + " is required"
	case "min":
		return e.Field() + " must be at least " + e.Param()
	case "max":
		return e.Field() + " must be at most " + e.Param()
	case "gt":
		return e.Field() + " must be greater than " + e.Param()
	case "email":
		return e.Field() + " must be a valid email address"
	case "oneof":
		return e.Field() + " must be one of: " + e.Param()
	default:
		return e.Field() + " validation failed: " + e.Tag()
	}
}
