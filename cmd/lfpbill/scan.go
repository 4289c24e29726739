package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/gyeh/lfpbill/internal/exitcode"
	"github.com/gyeh/lfpbill/internal/intake"
	"github.com/gyeh/lfpbill/internal/ocr"
	"github.com/gyeh/lfpbill/internal/registry"
)

var (
	scanImage    string
	scanText     string
	scanFacility string
	scanSubmit   bool
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Draft a batch from an appointment list screenshot",
	Long: `Recognizes PHNs, the appointment date, and the visit type in a screenshot
(or in already recognized text) and prints a draft YAML batch for submit --batch.
With --submit the draft is submitted directly.`,
	RunE: runScan,
}

func init() {
	f := scanCmd.Flags()
	f.StringVar(&scanImage, "image", "", "Screenshot to recognize")
	f.StringVar(&scanText, "text", "", "Text file with already recognized text")
	f.StringVar(&scanFacility, "facility", "A", "Facility selection for the drafts: A or S")
	f.BoolVar(&scanSubmit, "submit", false, "Submit the drafts instead of printing them")
	scanCmd.MarkFlagsOneRequired("image", "text")
	scanCmd.MarkFlagsMutuallyExclusive("image", "text")
	rootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, args []string) error {
	log := setup()
	ctx := context.Background()

	text, err := recognize(ctx)
	if err != nil {
		log.Error().Err(err).Msg("text recognition failed")
		os.Exit(exitcode.OCRError)
	}

	res := ocr.Extract(text)
	log.Info().
		Int("phns", len(res.PHNs)).
		Bool("date_found", res.AppointmentDate != nil).
		Str("billing_hint", res.BillingHint).
		Msg("screenshot scanned")
	if len(res.PHNs) == 0 {
		fmt.Fprintln(os.Stderr, "no PHNs found in the screenshot")
		os.Exit(exitcode.OCRError)
	}

	patients, err := registry.Load(cfg.RegistryPath())
	if err != nil {
		log.Error().Err(err).Msg("failed to load patient registry")
		os.Exit(exitcode.ReferenceDataError)
	}
	batch := intake.DraftsFromScan(res, patients, scanFacility)

	if !scanSubmit {
		enc := yaml.NewEncoder(os.Stdout)
		enc.SetIndent(2)
		if err := enc.Encode(batch); err != nil {
			return err
		}
		return enc.Close()
	}

	summary, err := intake.Run(ctx, log, &cfg, batch)
	if err != nil {
		os.Exit(exitForError(log, err))
	}
	printSummary(summary)
	return nil
}

func recognize(ctx context.Context) (string, error) {
	if scanText != "" {
		data, err := os.ReadFile(scanText)
		if err != nil {
			return "", fmt.Errorf("read text file: %w", err)
		}
		return string(data), nil
	}

	image, err := os.ReadFile(scanImage)
	if err != nil {
		return "", fmt.Errorf("read image: %w", err)
	}
	rec, err := ocr.NewTesseractRecognizer(cfg.OCRLanguages...)
	if err != nil {
		return "", err
	}
	defer rec.Close()
	return rec.Text(ctx, image)
}
