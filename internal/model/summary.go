package model

import "time"

// SubmissionSummary captures what a single submission batch produced.
type SubmissionSummary struct {
	BatchID          string
	Records          []ServiceRecord
	PatientsAdded    int
	PatientsUpdated  int
	ExportPath       string
	ExportSHA256     string
	DurationValidate time.Duration
	DurationPersist  time.Duration
	DurationTotal    time.Duration
}
