package ocr

import (
	"slices"
	"testing"
)

const screenshot = `Appointments  From: 2O25-O6-1O  To: 2025-06-10
09:00  DOE, JANE      PHN 9123456789   LFP Virtual
09:30  SMITH, AL      PHN 9876543210   LFP Virtual
10:00  DOE, JANE      PHN 9123456789   LFP Virtual
Ref 12345678901 ignored`

func TestExtract_Screenshot(t *testing.T) {
	res := Extract(screenshot)
	if !slices.Equal(res.PHNs, []string{"9123456789", "9876543210"}) {
		t.Errorf("PHNs = %v", res.PHNs)
	}
	if res.AppointmentDate == nil || res.AppointmentDate.Format("2006-01-02") != "2025-06-10" {
		t.Errorf("AppointmentDate = %v", res.AppointmentDate)
	}
	if res.BillingHint != HintVirtual {
		t.Errorf("BillingHint = %q", res.BillingHint)
	}
}

func TestPHNs(t *testing.T) {
	tests := []struct {
		text string
		want []string
	}{
		{"", nil},
		{"no numbers here", nil},
		{"123456789 is nine digits", nil},
		{"0123456789", []string{"0123456789"}},
		{"a1234567890b", nil},
		{"x 1111111111, 2222222222.", []string{"1111111111", "2222222222"}},
	}
	for _, tt := range tests {
		got := PHNs(tt.text)
		if len(got) == 0 && len(tt.want) == 0 {
			continue
		}
		if !slices.Equal(got, tt.want) {
			t.Errorf("PHNs(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}

func TestAppointmentDate(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"From: 2025-06-10", "2025-06-10"},
		{"from 2O25-O6-1O", "2025-06-10"},
		{"FROM:2025-13-01 seen 2025-06-11", "2025-06-11"},
		{"printed 2025-02-30 then 2025-03-01", "2025-03-01"},
		{"visit 20250610", "2025-06-10"},
		{"printed 2025-06-11 for visit 20250612", "2025-06-12"},
		{"bad 20251340 then 2025-06-11", "2025-06-11"},
		{"phn 2025061012 only", ""},
		{"nothing", ""},
	}
	for _, tt := range tests {
		got := AppointmentDate(tt.text)
		switch {
		case tt.want == "" && got != nil:
			t.Errorf("AppointmentDate(%q) = %v, want nil", tt.text, got)
		case tt.want != "" && (got == nil || got.Format("2006-01-02") != tt.want):
			t.Errorf("AppointmentDate(%q) = %v, want %s", tt.text, got, tt.want)
		}
	}
}

func TestBillingHint(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"LFP Virtual", HintVirtual},
		{"lfp office visit", HintOffice},
		{"Office then VIRTUAL", HintVirtual},
		{"in person", ""},
		{"virtually no keyword", ""},
	}
	for _, tt := range tests {
		if got := BillingHint(tt.text); got != tt.want {
			t.Errorf("BillingHint(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}
