package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gyeh/lfpbill/internal/exitcode"
	"github.com/gyeh/lfpbill/internal/intake"
	"github.com/gyeh/lfpbill/internal/registry"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Dry-run load of reference data and the patient registry (no writes)",
	Args:  cobra.NoArgs,
	RunE:  runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	log := setup()

	reg, err := intake.OpenDiagnoses(log, &cfg)
	if err != nil {
		log.Error().Err(err).Msg("diagnosis codes failed to load")
		os.Exit(exitcode.ReferenceDataError)
	}

	patients, err := registry.Load(cfg.RegistryPath())
	if err != nil {
		log.Error().Err(err).Msg("patient registry failed to load")
		os.Exit(exitcode.ReferenceDataError)
	}

	fmt.Println("=== lfpbill check ===")
	fmt.Printf("Data dir:        %s\n", cfg.DataDir)
	fmt.Printf("Diagnosis dir:   %s\n", cfg.DiagnosisPath())
	fmt.Printf("Extension table: %s\n", cfg.ExtensionPath())
	fmt.Printf("Export:          %s -> %s\n", cfg.ExportFormat, cfg.OutputPath())
	fmt.Println()
	fmt.Println("Diagnosis sources (load order):")
	for _, s := range reg.Stats() {
		if s.Err != nil {
			fmt.Printf("  %-40s SKIPPED: %v\n", s.Path, s.Err)
			continue
		}
		fmt.Printf("  %-40s %-12s %6d rows  %4d repaired  %4d skipped\n", s.Path, s.Category, s.Rows, s.Repaired, s.Skipped)
	}
	fmt.Printf("Distinct entries: %d\n", reg.Len())
	fmt.Println()
	fmt.Printf("Patient registry: %s (%d patients)\n", cfg.RegistryPath(), len(patients))
	fmt.Println("Reference data: OK")
	return nil
}
