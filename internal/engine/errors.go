package engine

import (
	"errors"
	"fmt"
	"strings"
)

// Field names reported in validation failures. They match the export columns.
const (
	FieldPHN           = "PHN"
	FieldDateOfService = "date_of_service"
	FieldDateOfBirth   = "date_of_birth"
	FieldBillingCode   = "billing_item"
	FieldDiagnosis     = "diagnosis"
	FieldStartTime     = "start_time"
	FieldEndTime       = "end_time"
)

// Reason classifies a user-correctable validation failure.
type Reason string

const (
	ReasonRequired      Reason = "required"
	ReasonUnknownCode   Reason = "unknown_code"
	ReasonMalformed     Reason = "malformed"
	ReasonNotAllowed    Reason = "not_allowed"
	ReasonDuplicateCode Reason = "duplicate_code"
)

// ErrUnknownFacility means a facility selection outside the fixed table
// reached the engine.
var ErrUnknownFacility = errors.New("unknown facility selection")

// FieldFailure is one invalid field of a submission.
type FieldFailure struct {
	Field  string
	Reason Reason
	Value  string // offending input, empty when the field was missing
}

func (f FieldFailure) String() string {
	if f.Value == "" {
		return fmt.Sprintf("%s: %s", f.Field, f.Reason)
	}
	return fmt.Sprintf("%s: %s (%q)", f.Field, f.Reason, f.Value)
}

// ValidationErrors is the complete set of failures for one submission.
type ValidationErrors []FieldFailure

func (v ValidationErrors) Error() string {
	parts := make([]string, len(v))
	for i, f := range v {
		parts[i] = f.String()
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Has reports whether any failure concerns field.
func (v ValidationErrors) Has(field string) bool {
	for _, f := range v {
		if f.Field == field {
			return true
		}
	}
	return false
}

// FatalError is a violated program or environment invariant. It is never
// a user-correctable condition and halts the submission.
type FatalError struct {
	Op  string
	Err error
}

func (e *FatalError) Error() string {
	return fmt.Sprintf("fatal: %s: %s", e.Op, e.Err)
}

func (e *FatalError) Unwrap() error {
	return e.Err
}
