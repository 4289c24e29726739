package intake

import (
	"github.com/gyeh/lfpbill/internal/catalog"
	"github.com/gyeh/lfpbill/internal/model"
	"github.com/gyeh/lfpbill/internal/ocr"
	"github.com/gyeh/lfpbill/internal/registry"
)

// DraftsFromScan turns an OCR result into a draft batch: one entry per PHN,
// prefilled for known patients. The billing code comes from the visit-type
// hint, falling back to the catalog default.
func DraftsFromScan(res ocr.Result, patients []model.Patient, facility string) *Batch {
	b := &Batch{Facility: facility}
	if res.AppointmentDate != nil {
		b.DateOfService = res.AppointmentDate.Format(model.DateLayout)
	}

	code := res.BillingHint
	if code == "" {
		code = catalog.DefaultCode()
	}

	for _, phn := range res.PHNs {
		e := Entry{PHN: phn, BillingCode: code}
		if p, ok := registry.Find(patients, phn); ok {
			e.LastName = p.LastName
			e.FirstName = p.FirstName
			e.DateOfBirth = p.DateOfBirth
			e.Diagnosis = p.Diagnosis
		}
		b.Entries = append(b.Entries, e)
	}
	return b
}
