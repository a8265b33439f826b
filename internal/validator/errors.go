package validator

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
	Rule    string      `json:"rule,omitempty"`
}

type ValidationErrors []ValidationError

func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "validation failed"
	}
	if len(ve) == 1 {
		return fmt.Sprintf("validation failed: %s %s", ve[0].Field, ve[0].Message)
	}
	return fmt.Sprintf("validation failed: %d field errors", len(ve))
}

// Field returns a single-entry error, used for rules checked outside struct tags.
func Field(field, message string, value interface{}, rule string) ValidationErrors {
	return ValidationErrors{{Field: field, Message: message, Value: value, Rule: rule}}
}

// ToValidationErrors converts validator/v10 errors; other errors become one
// entry without a field.
func ToValidationErrors(err error) ValidationErrors {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return ValidationErrors{{Message: err.Error(), Rule: "invalid"}}
	}

	out := make(ValidationErrors, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		out = append(out, ValidationError{
			Field:   fieldPath(fe.Namespace()),
			Message: messageFor(fe),
			Value:   fe.Value(),
			Rule:    fe.Tag(),
		})
	}
	return out
}

// FromDecodeError reports malformed request bodies in the same shape as
// validation failures.
func FromDecodeError(err error) ValidationErrors {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return ValidationErrors{{
			Field:   typeErr.Field,
			Message: fmt.Sprintf("must be of type %s", typeErr.Type.String()),
			Value:   typeErr.Value,
			Rule:    "type",
		}}
	}
	var idErr *IDError
	if errors.As(err, &idErr) {
		return ValidationErrors{{Message: idErr.Error(), Value: idErr.Value, Rule: "id"}}
	}
	return ValidationErrors{{Message: "malformed request body: " + err.Error(), Rule: "json"}}
}

// fieldPath drops the root struct name from a validator namespace.
func fieldPath(namespace string) string {
	if i := strings.IndexByte(namespace, '.'); i >= 0 {
		return namespace[i+1:]
	}
	return namespace
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "question_type":
		return "must be one of mcq, short-answer, essay, calculation, diagram-label, measurement, structure"
	case "paper_status":
		return "must be one of draft, reviewed, endorsed"
	case "user_role":
		return "must be one of creator, reviewer, endorser, admin"
	case "media_type":
		return "must be one of figure, table, table-figure"
	}
	return fmt.Sprintf("failed on the '%s' rule", fe.Tag())
}

func itoa(i int) string {
	return strconv.Itoa(i)
}
