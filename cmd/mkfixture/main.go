// mkfixture writes a small sample data directory: diagnosis tables (one with
// a wrapped description row), a patient registry, and a batch file.
// Usage: go run ./cmd/mkfixture --out testdata/sample
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/gyeh/lfpbill/internal/config"
	"github.com/gyeh/lfpbill/internal/intake"
	"github.com/gyeh/lfpbill/internal/model"
	"github.com/gyeh/lfpbill/internal/registry"
)

var diagnosisTables = map[string]string{
	"Diagnosis_Code_INFECTIONS.csv": "Code,Description\n" +
		"A01,Cholera\n" +
		"B02,Zoster\n" +
		"J06,Acute upper respiratory infection\n",
	"Diagnosis_Code_MENTAL.csv": "Code,Description,Notes\n" +
		"F32,Depressive episode,\n" +
		"F41,Other anxiety disorders\n" +
		",including panic disorder,\n" +
		"F43,Reaction to severe stress,\n",
}

var samplePatients = []model.Patient{
	{PHN: "0123456789", LastName: "Doe", FirstName: "Jane", DateOfBirth: "1980-01-02", Diagnosis: "F32"},
	{PHN: "9123456789", LastName: "Smith", FirstName: "Al", DateOfBirth: "1975-11-30", Diagnosis: "J06"},
}

var sampleBatch = intake.Batch{
	DateOfService: "2025-06-10",
	Facility:      "A",
	Entries: []intake.Entry{
		{PHN: "0123456789", BillingCode: "98010", StartTime: "09:00", EndTime: "09:45"},
		{PHN: "9123456789", BillingCode: "98032", Diagnosis: "F41"},
		{PHN: "9876543210", LastName: "Lee", FirstName: "Kim", DateOfBirth: "2001-04-05",
			BillingCode: "98031", Diagnosis: "A01"},
	},
}

func main() {
	out := flag.String("out", "testdata/sample", "output data directory")
	flag.Parse()

	if err := write(*out); err != nil {
		fmt.Fprintf(os.Stderr, "mkfixture: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Wrote sample data to %s\n", *out)
	fmt.Printf("Try: lfpbill --data-dir %s submit --batch %s\n", *out, filepath.Join(*out, "batch.yaml"))
}

func write(dir string) error {
	diagDir := filepath.Join(dir, config.DefaultDiagnosisDir)
	if err := os.MkdirAll(diagDir, 0o755); err != nil {
		return err
	}
	for name, content := range diagnosisTables {
		if err := os.WriteFile(filepath.Join(diagDir, name), []byte(content), 0o644); err != nil {
			return err
		}
	}

	if err := registry.Save(filepath.Join(dir, config.DefaultPatientRegistry), samplePatients); err != nil {
		return err
	}

	data, err := yaml.Marshal(sampleBatch)
	if err != nil {
		return fmt.Errorf("encode batch: %w", err)
	}
	return os.WriteFile(filepath.Join(dir, "batch.yaml"), data, 0o644)
}
