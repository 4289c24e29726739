package intake

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/gyeh/lfpbill/internal/engine"
	"github.com/gyeh/lfpbill/internal/model"
	"github.com/gyeh/lfpbill/internal/normalize"
	"github.com/gyeh/lfpbill/internal/registry"
)

// Batch is one visit day at one facility: every entry shares the service
// date and facility.
type Batch struct {
	DateOfService string  `yaml:"date_of_service"`
	Facility      string  `yaml:"facility"`
	Entries       []Entry `yaml:"entries"`
}

// Entry is one billing line as typed into the form.
type Entry struct {
	PHN          string               `yaml:"phn"`
	LastName     string               `yaml:"last_name,omitempty"`
	FirstName    string               `yaml:"first_name,omitempty"`
	DateOfBirth  string               `yaml:"date_of_birth,omitempty"`
	BillingCode  string               `yaml:"billing_code"`
	Diagnosis    string               `yaml:"diagnosis,omitempty"`
	NewDiagnosis *engine.NewDiagnosis `yaml:"new_diagnosis,omitempty"`
	StartTime    string               `yaml:"start_time,omitempty"`
	EndTime      string               `yaml:"end_time,omitempty"`
}

// LoadBatch reads a YAML batch file.
func LoadBatch(path string) (*Batch, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read batch file: %w", err)
	}
	var b Batch
	if err := yaml.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("parse batch file: %w", err)
	}
	return &b, nil
}

// ServiceDate parses DateOfService. An empty value yields the zero time,
// which the engine reports as missing.
func (b *Batch) ServiceDate() (time.Time, error) {
	s := strings.TrimSpace(b.DateOfService)
	if s == "" {
		return time.Time{}, nil
	}
	d := normalize.ParseDate(s)
	if d == nil {
		return time.Time{}, engine.ValidationErrors{{
			Field: engine.FieldDateOfService, Reason: engine.ReasonMalformed, Value: s,
		}}
	}
	return *d, nil
}

// Prefilled returns a copy of the entries with blank identity fields taken
// from the registry for known PHNs. A known patient's current diagnosis is
// used when the entry names none.
func (b *Batch) Prefilled(patients []model.Patient) []Entry {
	out := make([]Entry, len(b.Entries))
	for i, e := range b.Entries {
		out[i] = e
		p, ok := registry.Find(patients, strings.TrimSpace(e.PHN))
		if !ok {
			continue
		}
		fillBlank(&out[i].LastName, p.LastName)
		fillBlank(&out[i].FirstName, p.FirstName)
		fillBlank(&out[i].DateOfBirth, p.DateOfBirth)
		if e.NewDiagnosis == nil {
			fillBlank(&out[i].Diagnosis, p.Diagnosis)
		}
	}
	return out
}

func (e Entry) submission(dos time.Time, facility string) engine.Submission {
	return engine.Submission{
		Patient: engine.PatientInput{
			PHN:         e.PHN,
			FirstName:   e.FirstName,
			LastName:    e.LastName,
			DateOfBirth: e.DateOfBirth,
		},
		ServiceDate:  dos,
		Facility:     facility,
		BillingCode:  e.BillingCode,
		Diagnosis:    e.Diagnosis,
		NewDiagnosis: e.NewDiagnosis,
		StartTime:    e.StartTime,
		EndTime:      e.EndTime,
	}
}

func fillBlank(dst *string, v string) {
	if strings.TrimSpace(*dst) == "" {
		*dst = v
	}
}
