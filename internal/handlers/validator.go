package handlers

import (
	"errors"
	"reflect"
	"strings"

	"invoptimizer/internal/apperror"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// RequestValidator adapts go-playground/validator to echo.Validator. Failures come
// back as validation AppErrors naming the first offending JSON field.
type RequestValidator struct {
	validate *validator.Validate
}

func NewRequestValidator() *RequestValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, tag := range []string{"json", "query", "param"} {
			name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return f.Name
	})
	_ = v.RegisterValidation("uuid_required", func(fl validator.FieldLevel) bool {
		id, ok := fl.Field().Interface().(uuid.UUID)
		return ok && id != uuid.Nil
	})
	return &RequestValidator{validate: v}
}

func (rv *RequestValidator) Validate(i any) error {
	err := rv.validate.Struct(i)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return apperror.NewValidation(err.Error())
	}

	first := verrs[0]
	appErr := apperror.NewFieldValidation(fieldPath(first), describe(first))
	if len(verrs) > 1 {
		failed := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			failed = append(failed, fieldPath(fe))
		}
		appErr.WithDetail("fields", failed)
	}
	return appErr
}

// fieldPath drops the top-level struct name from the namespace.
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func describe(fe validator.FieldError) string {
	field := fieldPath(fe)
	switch fe.Tag() {
	case "required", "uuid_required":
		return field + " is required"
	case "min":
		return field + " must be at least " + fe.Param()
	case "max":
		return field + " must be at most " + fe.Param()
	case "gte":
		return field + " must be greater than or equal to " + fe.Param()
	case "gt":
		return field + " must be greater than " + fe.Param()
	case "ne":
		return field + " must not equal " + fe.Param()
	case "oneof":
		return field + " must be one of: " + fe.Param()
	case "email":
		return field + " must be a valid email address"
	case "gtefield":
		return field + " must be greater than or equal to " + fe.Param()
	case "url":
		return field + " must be a valid URL"
	}
	return field + " failed " + fe.Tag() + " validation"
}
