// AngelaMos | 2026
// validation.go

package core

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/oonkoo/dashboard-api/internal/permission"
)

// NewValidator reports fields by their JSON names and knows the closed
// permission and role enumerations.
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	//nolint:errcheck // tags are static and valid
	_ = v.RegisterValidation("permission", func(fl validator.FieldLevel) bool {
		_, ok := permission.Parse(fl.Field().String())
		return ok
	})

	//nolint:errcheck // tags are static and valid
	_ = v.RegisterValidation("role", func(fl validator.FieldLevel) bool {
		_, ok := permission.ParseRole(fl.Field().String())
		return ok
	})

	return v
}

// FormatValidationError collects every violated field, keyed by JSON path.
func FormatValidationError(err error) map[string][]string {
	details := make(map[string][]string)

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		details["_"] = []string{err.Error()}
		return details
	}

	for _, fe := range verrs {
		field := fieldPath(fe)
		details[field] = append(details[field], describe(fe))
	}

	return details
}

// ValidationFailed writes a 400 listing every violation.
func ValidationFailed(w http.ResponseWriter, err error) {
	JSONError(w, ValidationError(FormatValidationError(err)))
}

func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if idx := strings.Index(ns, "."); idx >= 0 {
		return ns[idx+1:]
	}
	return fe.Field()
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be greater than or equal to %s", fe.Param())
	case "lte":
		return fmt.Sprintf("must be less than or equal to %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of [%s]", fe.Param())
	case "uuid", "uuid4":
		return "must be a valid UUID"
	case "url":
		return "must be a valid URL"
	case "permission":
		return fmt.Sprintf("unknown permission %q", fe.Value())
	case "role":
		return fmt.Sprintf("unknown role %q", fe.Value())
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}
