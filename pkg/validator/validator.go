package validator

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

type ErrorResponse struct {
	FailedField string
	Tag         string
	Value       string
}

var validate = validator.New()

func init() {
	// Report JSON field names instead of Go field names
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// notblank-style check that also trims whitespace-only strings
	validate.RegisterValidation("trimmed_required", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})

	// byte length limit, for values like bcrypt input where max counts runes
	validate.RegisterValidation("max_bytes", func(fl validator.FieldLevel) bool {
		limit, err := strconv.Atoi(fl.Param())
		if err != nil {
			return false
		}
		return len(fl.Field().String()) <= limit
	})
}

func ValidateStruct(data interface{}) []*ErrorResponse {
	var errors []*ErrorResponse
	err := validate.Struct(data)
	if err != nil {
		validationErrors, ok := err.(validator.ValidationErrors)
		if !ok {
			return []*ErrorResponse{{FailedField: "", Tag: "invalid", Value: err.Error()}}
		}
		for _, err := range validationErrors {
			var element ErrorResponse
			element.FailedField = err.Field()
			element.Tag = err.Tag()
			element.Value = err.Param()
			errors = append(errors, &element)
		}
	}
	return errors
}

// FirstError formats the first failure as a client-facing message, or "" when data is valid.
func FirstError(data interface{}) string {
	errs := ValidateStruct(data)
	if len(errs) == 0 {
		return ""
	}
	return errs[0].Message()
}

// Message renders the failure in the style of the request schema errors.
func (e *ErrorResponse) Message() string {
	field := e.FailedField
	switch e.Tag {
	case "required", "trimmed_required":
		return fmt.Sprintf("%q is required", field)
	case "oneof":
		return fmt.Sprintf("%q must be one of [%s]", field, strings.ReplaceAll(e.Value, " ", ", "))
	case "max":
		return fmt.Sprintf("%q must be at most %s", field, e.Value)
	case "max_bytes":
		return fmt.Sprintf("%q must be at most %s bytes", field, e.Value)
	case "min":
		return fmt.Sprintf("%q must be at least %s", field, e.Value)
	case "gt":
		return fmt.Sprintf("%q must be greater than %s", field, e.Value)
	case "gte":
		return fmt.Sprintf("%q must be greater than or equal to %s", field, e.Value)
	case "unique":
		return fmt.Sprintf("%q must not contain duplicates", field)
	case "invalid":
		return e.Value
	default:
		return fmt.Sprintf("%q failed on the '%s' rule", field, e.Tag)
	}
}
