package catalog

import (
	"strings"

	"github.com/gyeh/lfpbill/internal/model"
)

const (
	// FallbackDiagnosis is the diagnosis forced onto auto-diagnosis codes.
	FallbackDiagnosis = "L23"
	// Location is the fixed location code stamped on every service record.
	Location = "L"

	defaultCode = "98032"
)

// billingCodes lists the catalog in presentation order.
var billingCodes = []model.BillingCode{
	{Code: "98010", Label: "LFP Direct Patient Care", AutoDiagnosis: true, TimeRequired: true},
	{Code: "98011", Label: "LFP Indirect Patient Care", AutoDiagnosis: true, TimeRequired: true},
	{Code: "98012", Label: "LFP Admin Care", AutoDiagnosis: true, TimeRequired: true},
	{Code: "98119", Label: "Travel Time", AutoDiagnosis: true, TimeRequired: true},
	{Code: "98031", Label: "LFP Office"},
	{Code: "98990", Label: "Primary Care Panel", AutoDiagnosis: true},
	{Code: "98032", Label: "LFP Virtual (default)"},
}

var facilities = []model.Facility{
	{Selection: "A", Code: "OD096", Name: "Academy Hill Medical", RuralPremium: "None"},
	{Selection: "S", Code: "OD411", Name: "Stone Bridge Clinic", RuralPremium: "Big White"},
}

// Lookup returns the catalog entry for code, or ok=false.
func Lookup(code string) (model.BillingCode, bool) {
	code = strings.TrimSpace(code)
	for _, bc := range billingCodes {
		if bc.Code == code {
			return bc, true
		}
	}
	return model.BillingCode{}, false
}

// DefaultCode is the billing code preselected when a form has no prior choice.
func DefaultCode() string {
	return defaultCode
}

// All returns a copy of the catalog in presentation order.
func All() []model.BillingCode {
	out := make([]model.BillingCode, len(billingCodes))
	copy(out, billingCodes)
	return out
}

// Facility resolves a site selection ("A" or "S", any case).
func Facility(selection string) (model.Facility, bool) {
	selection = strings.ToUpper(strings.TrimSpace(selection))
	for _, f := range facilities {
		if f.Selection == selection {
			return f, true
		}
	}
	return model.Facility{}, false
}

// Facilities returns a copy of the facility table.
func Facilities() []model.Facility {
	out := make([]model.Facility, len(facilities))
	copy(out, facilities)
	return out
}
