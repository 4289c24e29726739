package model

// BillingCode is one entry of the fixed billing catalog.
type BillingCode struct {
	Code          string // e.g. "98010"
	Label         string // e.g. "LFP Direct Patient Care"
	AutoDiagnosis bool   // diagnosis is forced to the fallback code
	TimeRequired  bool   // start and end time are mandatory
}

// Facility maps a user-facing site selection to its billing facility code.
type Facility struct {
	Selection    string // "A" or "S"
	Code         string // e.g. "OD096"
	Name         string
	RuralPremium string
}
