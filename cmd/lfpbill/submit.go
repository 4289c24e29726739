package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/gyeh/lfpbill/internal/catalog"
	"github.com/gyeh/lfpbill/internal/engine"
	"github.com/gyeh/lfpbill/internal/exitcode"
	"github.com/gyeh/lfpbill/internal/intake"
	"github.com/gyeh/lfpbill/internal/model"
)

var (
	batchPath   string
	submitDate  string
	facility    string
	entry       intake.Entry
	newDiagCode string
	newDiagDesc string
)

var submitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Validate and record service lines",
	Long: `Validates one service line given by flags, or every entry of a YAML batch
file, then updates the patient registry and writes a service record export.
A batch is all-or-nothing: if any entry is rejected nothing is saved.`,
	RunE: runSubmit,
}

func init() {
	f := submitCmd.Flags()
	f.StringVar(&batchPath, "batch", "", "YAML batch file (replaces the single-entry flags)")
	f.StringVar(&submitDate, "date", time.Now().Format(model.DateLayout), "Date of service")
	f.StringVar(&facility, "facility", "A", "Facility selection: A or S")
	f.StringVar(&entry.PHN, "phn", "", "Personal health number")
	f.StringVar(&entry.LastName, "last-name", "", "Patient last name (prefilled for known PHNs)")
	f.StringVar(&entry.FirstName, "first-name", "", "Patient first name (prefilled for known PHNs)")
	f.StringVar(&entry.DateOfBirth, "dob", "", "Date of birth (prefilled for known PHNs)")
	f.StringVar(&entry.BillingCode, "code", catalog.DefaultCode(), "Billing code")
	f.StringVar(&entry.Diagnosis, "diagnosis", "", "Diagnosis code, or a search result line")
	f.StringVar(&newDiagCode, "new-diagnosis-code", "", "Register and use a new diagnosis code")
	f.StringVar(&newDiagDesc, "new-diagnosis-desc", "", "Description for --new-diagnosis-code")
	f.StringVar(&entry.StartTime, "start", "", "Start time HH:MM (time-based codes only)")
	f.StringVar(&entry.EndTime, "end", "", "End time HH:MM (time-based codes only)")
	f.StringVar(&cfg.ExportFormat, "export-format", "", "Export format: csv or parquet (default csv)")
	rootCmd.AddCommand(submitCmd)
}

func runSubmit(cmd *cobra.Command, args []string) error {
	log := setup()

	var batch *intake.Batch
	if batchPath != "" {
		b, err := intake.LoadBatch(batchPath)
		if err != nil {
			log.Error().Err(err).Msg("failed to load batch")
			os.Exit(exitcode.UsageError)
		}
		batch = b
	} else {
		if newDiagCode != "" || newDiagDesc != "" {
			entry.NewDiagnosis = &engine.NewDiagnosis{Code: newDiagCode, Description: newDiagDesc}
		}
		batch = &intake.Batch{
			DateOfService: submitDate,
			Facility:      facility,
			Entries:       []intake.Entry{entry},
		}
	}

	summary, err := intake.Run(context.Background(), log, &cfg, batch)
	if err != nil {
		os.Exit(exitForError(log, err))
	}

	printSummary(summary)
	return nil
}

func printSummary(s *model.SubmissionSummary) {
	fmt.Printf("Submitted %d record(s), batch %s (%.2fs)\n", len(s.Records), s.BatchID, s.DurationTotal.Seconds())
	for _, r := range s.Records {
		fmt.Printf("  %s  %-10s %-6s %-6s %s, %s\n",
			r.DateOfService.Format(model.DateLayout), r.PHN, r.BillingItem, r.Diagnosis, r.LastName, r.FirstName)
	}
	fmt.Printf("Patients: %d added, %d updated\n", s.PatientsAdded, s.PatientsUpdated)
	fmt.Printf("Export:   %s\n", s.ExportPath)
	fmt.Printf("SHA-256:  %s\n", s.ExportSHA256)
}
