package registry

import "github.com/gyeh/lfpbill/internal/model"

// Reconcile folds a service record into a registry snapshot. The matching PHN
// has its name, date of birth and diagnosis overwritten; an unseen PHN is
// appended. The snapshot itself is never modified and entries are never
// removed, so applying the same record twice equals applying it once.
func Reconcile(snapshot []model.Patient, rec model.ServiceRecord) []model.Patient {
	out := make([]model.Patient, len(snapshot), len(snapshot)+1)
	copy(out, snapshot)

	for i := range out {
		if out[i].PHN == rec.PHN {
			out[i].LastName = rec.LastName
			out[i].FirstName = rec.FirstName
			out[i].DateOfBirth = rec.DateOfBirth
			out[i].Diagnosis = rec.Diagnosis
			return out
		}
	}
	return append(out, model.Patient{
		PHN:         rec.PHN,
		LastName:    rec.LastName,
		FirstName:   rec.FirstName,
		DateOfBirth: rec.DateOfBirth,
		Diagnosis:   rec.Diagnosis,
	})
}

// Find returns the patient with the given PHN, or ok=false.
func Find(snapshot []model.Patient, phn string) (model.Patient, bool) {
	for _, p := range snapshot {
		if p.PHN == phn {
			return p, true
		}
	}
	return model.Patient{}, false
}
