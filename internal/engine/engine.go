package engine

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gyeh/lfpbill/internal/catalog"
	"github.com/gyeh/lfpbill/internal/diagnosis"
	"github.com/gyeh/lfpbill/internal/model"
	"github.com/gyeh/lfpbill/internal/normalize"
)

// DiagnosisRegistry is the part of the diagnosis registry the engine uses.
type DiagnosisRegistry interface {
	Find(code string) (model.DiagnosisEntry, bool)
	Add(code, description string) error
}

// PatientInput is the identity typed into the form.
type PatientInput struct {
	PHN         string
	FirstName   string
	LastName    string
	DateOfBirth string
}

// NewDiagnosis is a code to register in the extension table as part of the
// submission.
type NewDiagnosis struct {
	Code        string
	Description string
}

// Submission is one billing line as entered by the user.
type Submission struct {
	Patient      PatientInput
	ServiceDate  time.Time
	Facility     string // "A" or "S"
	BillingCode  string
	Diagnosis    string // code or "Code - Description (Category)"
	NewDiagnosis *NewDiagnosis
	StartTime    string
	EndTime      string
}

// Engine turns submissions into validated service records.
type Engine struct {
	diagnoses DiagnosisRegistry
}

// New creates an engine backed by the given diagnosis registry.
func New(diagnoses DiagnosisRegistry) *Engine {
	return &Engine{diagnoses: diagnoses}
}

// Assemble validates s and builds its service record. User-correctable
// problems are returned together as ValidationErrors; an unknown facility or
// a failed extension-table write is a *FatalError.
func (e *Engine) Assemble(s Submission) (model.ServiceRecord, error) {
	var failures ValidationErrors
	fail := func(field string, reason Reason, value string) {
		failures = append(failures, FieldFailure{Field: field, Reason: reason, Value: value})
	}

	phn := strings.TrimSpace(s.Patient.PHN)
	if phn == "" {
		fail(FieldPHN, ReasonRequired, "")
	}

	facility, ok := catalog.Facility(s.Facility)
	if !ok {
		return model.ServiceRecord{}, &FatalError{Op: "resolve facility", Err: fmt.Errorf("%w: %q", ErrUnknownFacility, s.Facility)}
	}

	if s.ServiceDate.IsZero() {
		fail(FieldDateOfService, ReasonRequired, "")
	}

	dob := strings.TrimSpace(s.Patient.DateOfBirth)
	if dob != "" {
		if d := normalize.ParseDate(dob); d != nil {
			dob = d.Format(model.DateLayout)
		} else {
			fail(FieldDateOfBirth, ReasonMalformed, dob)
		}
	}

	code := strings.TrimSpace(s.BillingCode)
	bc, known := catalog.Lookup(code)
	switch {
	case code == "":
		fail(FieldBillingCode, ReasonRequired, "")
	case !known:
		fail(FieldBillingCode, ReasonUnknownCode, code)
	}

	var diag string
	var pending *NewDiagnosis
	startTime := strings.TrimSpace(s.StartTime)
	endTime := strings.TrimSpace(s.EndTime)

	if known {
		switch {
		case bc.AutoDiagnosis:
			diag = catalog.FallbackDiagnosis
		case s.NewDiagnosis != nil && strings.TrimSpace(s.NewDiagnosis.Code) != "":
			pending = s.NewDiagnosis
			diag = strings.TrimSpace(s.NewDiagnosis.Code)
		default:
			input := normalize.DiagnosisCode(s.Diagnosis)
			if input == "" {
				fail(FieldDiagnosis, ReasonRequired, "")
			} else if entry, found := e.diagnoses.Find(input); found {
				diag = entry.Code
			} else {
				fail(FieldDiagnosis, ReasonUnknownCode, input)
			}
		}

		checkTime := func(field, value string) {
			switch {
			case !bc.TimeRequired && value != "":
				fail(field, ReasonNotAllowed, value)
			case bc.TimeRequired && value == "":
				fail(field, ReasonRequired, "")
			case bc.TimeRequired && !normalize.IsClockTime(value):
				fail(field, ReasonMalformed, value)
			}
		}
		checkTime(FieldStartTime, startTime)
		checkTime(FieldEndTime, endTime)
	}

	if len(failures) > 0 {
		return model.ServiceRecord{}, failures
	}

	// The extension table is only written once everything else is valid.
	if pending != nil {
		if err := e.diagnoses.Add(pending.Code, pending.Description); err != nil {
			switch {
			case errors.Is(err, diagnosis.ErrDuplicateCode):
				return model.ServiceRecord{}, ValidationErrors{{Field: FieldDiagnosis, Reason: ReasonDuplicateCode, Value: diag}}
			case errors.Is(err, diagnosis.ErrIncompleteEntry):
				return model.ServiceRecord{}, ValidationErrors{{Field: FieldDiagnosis, Reason: ReasonRequired, Value: diag}}
			default:
				return model.ServiceRecord{}, &FatalError{Op: "register diagnosis", Err: err}
			}
		}
	}

	return model.ServiceRecord{
		DateOfService: s.ServiceDate,
		LastName:      normalize.CollapseSpace(s.Patient.LastName),
		FirstName:     normalize.CollapseSpace(s.Patient.FirstName),
		PHN:           phn,
		DateOfBirth:   dob,
		BillingItem:   bc.Code,
		Diagnosis:     diag,
		Location:      catalog.Location,
		FacilityCode:  facility.Code,
		StartTime:     startTime,
		EndTime:       endTime,
		RuralPremium:  facility.RuralPremium,
	}, nil
}
