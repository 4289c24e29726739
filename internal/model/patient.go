package model

// Patient is one row of the patient registry. PHN is the unique key and is
// always handled as an opaque string.
type Patient struct {
	PHN         string
	LastName    string
	FirstName   string
	DateOfBirth string // YYYY-MM-DD when known
	Diagnosis   string // latest assigned diagnosis code, may be empty
}

// PatientColumns returns the patient registry header in file order.
func PatientColumns() []string {
	return []string{"PHN", "last_name", "first_name", "date_of_birth", "diagnosis"}
}

// Values returns the patient's fields in PatientColumns order.
func (p Patient) Values() []string {
	return []string{p.PHN, p.LastName, p.FirstName, p.DateOfBirth, p.Diagnosis}
}
