package models

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// The three error kinds every operation can surface. Each marshals to
// the tagged wire object: {"validation": ...}, {"application": ...},
// {"database": ...}.

type FieldViolation struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Params  map[string]interface{} `json:"params,omitempty"`
}

// ValidationError carries every field violation of a DTO, not just the
// first one.
type ValidationError struct {
	Fields map[string]FieldViolation
}

// NewValidationError converts the validation.Errors map returned by a
// DTO's Validate method.
func NewValidationError(err error) *ValidationError {
	fields := map[string]FieldViolation{}
	if errs, ok := err.(validation.Errors); ok {
		for name, ferr := range errs {
			v := FieldViolation{Message: ferr.Error()}
			if obj, ok := ferr.(validation.Error); ok {
				v.Code = obj.Code()
				v.Params = obj.Params()
			}
			fields[name] = v
		}
	} else if err != nil {
		fields["_"] = FieldViolation{Message: err.Error()}
	}
	return &ValidationError{Fields: fields}
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s: %s", name, e.Fields[name].Message))
	}
	return strings.Join(parts, "; ")
}

func (e *ValidationError) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]map[string]FieldViolation{"validation": e.Fields})
}

// ApplicationError is a single human-readable domain message, e.g.
// "Incorrect password." or "Identity not found.".
type ApplicationError struct {
	Message string
}

func NewApplicationError(message string) *ApplicationError {
	return &ApplicationError{Message: message}
}

func (e *ApplicationError) Error() string { return e.Message }

func (e *ApplicationError) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]string{"application": e.Message})
}

// DatabaseError wraps the driver failure message. The engine never
// retries; the message goes back to the caller as-is.
type DatabaseError struct {
	Message string
}

func NewDatabaseError(err error) *DatabaseError {
	return &DatabaseError{Message: err.Error()}
}

func (e *DatabaseError) Error() string { return e.Message }

func (e *DatabaseError) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]string{"database": e.Message})
}
