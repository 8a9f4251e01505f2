// Package validation provides the field-level validation report returned by
// model Validate methods and surfaced through the Invalid outcome variant.
package validation

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report violations under the wire field name, not the Go field name.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Report maps field names to the list of violation messages for that field.
// An empty report means the value passed validation.
type Report map[string][]string

// NewReport returns an empty report.
func NewReport() Report {
	return Report{}
}

// Add records a violation message against a field.
func (r Report) Add(field, message string) {
	r[field] = append(r[field], message)
}

// Merge folds all violations from other into r.
func (r Report) Merge(other Report) {
	for field, messages := range other {
		r[field] = append(r[field], messages...)
	}
}

// IsValid reports whether the report contains no violations.
func (r Report) IsValid() bool {
	return len(r) == 0
}

// Struct validates obj against its `validate` struct tags and returns the
// resulting report. Fields are keyed by their json tag names.
func Struct(obj any) Report {
	report := NewReport()

	err := validate.Struct(obj)
	if err == nil {
		return report
	}

	for _, fieldErr := range err.(validator.ValidationErrors) {
		report.Add(fieldErr.Field(), messageFor(fieldErr))
	}
	return report
}

func messageFor(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Invalid email format"
	case "min":
		return "Value is too short"
	case "max":
		return "Value is too long"
	case "oneof":
		return "Value must be one of: " + err.Param()
	case "gt":
		return "Value must be greater than " + err.Param()
	case "gte":
		return "Value must be greater than or equal to " + err.Param()
	default:
		return "Invalid value"
	}
}
