package catalog

import "testing"

func TestLookup(t *testing.T) {
	tests := []struct {
		code     string
		wantOK   bool
		wantAuto bool
		wantTime bool
	}{
		{"98010", true, true, true},
		{"98011", true, true, true},
		{"98012", true, true, true},
		{"98119", true, true, true},
		{"98990", true, true, false},
		{"98031", true, false, false},
		{"98032", true, false, false},
		{" 98032 ", true, false, false},
		{"99999", false, false, false},
		{"", false, false, false},
	}
	for _, tt := range tests {
		bc, ok := Lookup(tt.code)
		if ok != tt.wantOK {
			t.Errorf("Lookup(%q) ok = %v, want %v", tt.code, ok, tt.wantOK)
			continue
		}
		if bc.AutoDiagnosis != tt.wantAuto || bc.TimeRequired != tt.wantTime {
			t.Errorf("Lookup(%q) = auto %v time %v, want auto %v time %v",
				tt.code, bc.AutoDiagnosis, bc.TimeRequired, tt.wantAuto, tt.wantTime)
		}
	}
}

func TestDefaultCodeIsVirtualVisit(t *testing.T) {
	bc, ok := Lookup(DefaultCode())
	if !ok {
		t.Fatalf("default code %q not in catalog", DefaultCode())
	}
	if bc.Code != "98032" {
		t.Errorf("default code = %s, want 98032", bc.Code)
	}
}

func TestAllReturnsCopy(t *testing.T) {
	all := All()
	if len(all) != 7 {
		t.Fatalf("expected 7 billing codes, got %d", len(all))
	}
	if all[0].Code != "98010" || all[len(all)-1].Code != "98032" {
		t.Errorf("unexpected order: first %s last %s", all[0].Code, all[len(all)-1].Code)
	}
	all[0].Label = "mutated"
	if bc, _ := Lookup("98010"); bc.Label == "mutated" {
		t.Error("All() exposed the underlying table")
	}
}

func TestFacility(t *testing.T) {
	tests := []struct {
		sel, code, premium string
		ok                 bool
	}{
		{"A", "OD096", "None", true},
		{"a", "OD096", "None", true},
		{"S", "OD411", "Big White", true},
		{" s ", "OD411", "Big White", true},
		{"X", "", "", false},
		{"", "", "", false},
	}
	for _, tt := range tests {
		f, ok := Facility(tt.sel)
		if ok != tt.ok {
			t.Errorf("Facility(%q) ok = %v, want %v", tt.sel, ok, tt.ok)
			continue
		}
		if f.Code != tt.code || f.RuralPremium != tt.premium {
			t.Errorf("Facility(%q) = (%s, %s), want (%s, %s)", tt.sel, f.Code, f.RuralPremium, tt.code, tt.premium)
		}
	}
}
