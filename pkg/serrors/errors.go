package serrors

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// BaseError is a structured error with a stable machine-readable code that
// controllers can surface to API clients without string-matching messages.
type BaseError struct {
	Code         string
	Message      string
	TemplateData map[string]string
}

func NewError(code, message, _ string) *BaseError {
	return &BaseError{
		Code:    code,
		Message: message,
	}
}

func (e *BaseError) Error() string {
	return e.Message
}

func (e *BaseError) WithTemplateData(data map[string]string) *BaseError {
	clone := *e
	clone.TemplateData = data
	return &clone
}

// ValidationErrors maps struct field names to per-field errors.
type ValidationErrors map[string]*BaseError

// ProcessValidatorErrors converts go-playground validator errors into BaseErrors
// keyed by field name.
func ProcessValidatorErrors(
	errs validator.ValidationErrors,
	fieldLocaleKey func(field string) string,
) ValidationErrors {
	out := make(ValidationErrors, len(errs))
	for _, err := range errs {
		field := err.Field()
		out[field] = NewError(
			fmt.Sprintf("VALIDATION_%s", strings.ToUpper(err.Tag())),
			fmt.Sprintf("field %s failed on the %q rule", field, err.Tag()),
			fieldLocaleKey(field),
		)
	}
	return out
}

// MessageMap flattens validation errors to plain messages for API payloads.
func MessageMap(errs ValidationErrors) map[string]string {
	out := make(map[string]string, len(errs))
	for field, err := range errs {
		out[field] = err.Message
	}
	return out
}
