package validator

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var global *validator.Validate

const (
	ErrFieldRequired      = "is required"
	ErrInvalidFormat      = "has an invalid format"
	ErrFieldBelowMinVal   = "is below the minimum value"
	ErrFieldExceedsMaxVal = "exceeds the maximum value"
	ErrFieldExceedsMaxLen = "exceeds the maximum length"
	ErrUnknownValidation  = "is invalid"
)

func init() {
	SetValidator(New())
}

func New() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

func SetValidator(v *validator.Validate) {
	global = v
}

func Validator() *validator.Validate {
	return global
}

// FieldError is the first failing field of a validated struct.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Message)
}

// Validate returns a *FieldError for the first failing field, or nil.
func Validate(ctx context.Context, structure any) error {
	return parseValidationErrors(Validator().StructCtx(ctx, structure))
}

func parseValidationErrors(err error) error {
	if err == nil {
		return nil
	}

	var vErrors validator.ValidationErrors
	if !errors.As(err, &vErrors) || len(vErrors) == 0 {
		return err
	}

	ve := vErrors[0]
	var msg string
	switch ve.Tag() {
	case "required":
		msg = ErrFieldRequired
	case "email", "uuid", "uuid4", "oneof":
		msg = ErrInvalidFormat
	case "gt", "gte", "min":
		if ve.Kind().String() == "string" {
			msg = ErrInvalidFormat
		} else {
			msg = ErrFieldBelowMinVal
		}
	case "lt", "lte":
		msg = ErrFieldExceedsMaxVal
	case "max":
		if ve.Kind().String() == "string" {
			msg = ErrFieldExceedsMaxLen
		} else {
			msg = ErrFieldExceedsMaxVal
		}
	default:
		msg = ErrUnknownValidation
	}

	return &FieldError{Field: ve.Field(), Message: msg}
}
