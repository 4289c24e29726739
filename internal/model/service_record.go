package model

import "time"

// DateLayout is the calendar date format used in every table.
const DateLayout = "2006-01-02"

// ServiceRecord is one billed service line for one patient on one visit.
// It is produced by the record engine and never mutated afterwards.
type ServiceRecord struct {
	DateOfService time.Time
	LastName      string
	FirstName     string
	PHN           string
	DateOfBirth   string
	BillingItem   string
	Diagnosis     string
	Location      string
	FacilityCode  string
	StartTime     string
	EndTime       string
	RuralPremium  string
}

// ServiceRecordColumns returns the export header in file order.
func ServiceRecordColumns() []string {
	return []string{
		"date_of_service", "last_name", "first_name", "PHN", "date_of_birth",
		"billing_item", "diagnosis", "location", "facility_code",
		"start_time", "end_time", "rural_premium",
	}
}

// Values returns the record's fields in ServiceRecordColumns order.
func (r ServiceRecord) Values() []string {
	return []string{
		r.DateOfService.Format(DateLayout),
		r.LastName,
		r.FirstName,
		r.PHN,
		r.DateOfBirth,
		r.BillingItem,
		r.Diagnosis,
		r.Location,
		r.FacilityCode,
		r.StartTime,
		r.EndTime,
		r.RuralPremium,
	}
}

// ServiceRecordRow mirrors the Parquet export schema. Columns match the CSV
// export one to one; the date is kept as text so both formats read the same.
type ServiceRecordRow struct {
	DateOfService string `parquet:"date_of_service"`
	LastName      string `parquet:"last_name"`
	FirstName     string `parquet:"first_name"`
	PHN           string `parquet:"PHN"`
	DateOfBirth   string `parquet:"date_of_birth"`
	BillingItem   string `parquet:"billing_item"`
	Diagnosis     string `parquet:"diagnosis"`
	Location      string `parquet:"location"`
	FacilityCode  string `parquet:"facility_code"`
	StartTime     string `parquet:"start_time"`
	EndTime       string `parquet:"end_time"`
	RuralPremium  string `parquet:"rural_premium"`
}

// Row converts the record to its Parquet representation.
func (r ServiceRecord) Row() ServiceRecordRow {
	return ServiceRecordRow{
		DateOfService: r.DateOfService.Format(DateLayout),
		LastName:      r.LastName,
		FirstName:     r.FirstName,
		PHN:           r.PHN,
		DateOfBirth:   r.DateOfBirth,
		BillingItem:   r.BillingItem,
		Diagnosis:     r.Diagnosis,
		Location:      r.Location,
		FacilityCode:  r.FacilityCode,
		StartTime:     r.StartTime,
		EndTime:       r.EndTime,
		RuralPremium:  r.RuralPremium,
	}
}
