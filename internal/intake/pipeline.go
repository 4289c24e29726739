package intake

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/samber/lo"

	"github.com/gyeh/lfpbill/internal/config"
	"github.com/gyeh/lfpbill/internal/diagnosis"
	"github.com/gyeh/lfpbill/internal/engine"
	"github.com/gyeh/lfpbill/internal/export"
	"github.com/gyeh/lfpbill/internal/model"
	"github.com/gyeh/lfpbill/internal/normalize"
	"github.com/gyeh/lfpbill/internal/registry"
)

// Pipeline phases, in execution order.
const (
	PhaseReference = "reference"
	PhaseRegistry  = "registry"
	PhaseAssemble  = "assemble"
	PhaseReconcile = "reconcile"
	PhasePersist   = "persist"
	PhaseExport    = "export"
)

// ErrEmptyBatch is returned for a batch without entries.
var ErrEmptyBatch = errors.New("batch has no entries")

// PipelineError wraps an error with the phase where it occurred.
type PipelineError struct {
	Phase string
	Err   error
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("%s: %s", e.Phase, e.Err)
}

func (e *PipelineError) Unwrap() error {
	return e.Err
}

// BatchValidationError collects the validation failures of every rejected
// entry, keyed by zero-based entry index.
type BatchValidationError struct {
	Total    int
	Failures map[int]engine.ValidationErrors
}

func (e *BatchValidationError) Error() string {
	idx := lo.Keys(e.Failures)
	slices.Sort(idx)
	parts := make([]string, len(idx))
	for i, n := range idx {
		parts[i] = fmt.Sprintf("entry %d: %s", n+1, e.Failures[n].Error())
	}
	return fmt.Sprintf("%d of %d entries rejected: %s", len(idx), e.Total, strings.Join(parts, "; "))
}

// OpenDiagnoses opens the diagnosis registry described by cfg.
func OpenDiagnoses(log zerolog.Logger, cfg *config.Config) (*diagnosis.Registry, error) {
	sources := cfg.SourcePaths()
	if sources == nil {
		var err error
		sources, err = diagnosis.DiscoverSources(cfg.DiagnosisPath(), cfg.ExtensionPath())
		if err != nil {
			return nil, err
		}
	}
	return diagnosis.Open(log, sources, cfg.ExtensionPath())
}

// Run executes a submission: reference → registry → assemble → reconcile →
// persist → export. Nothing is written unless every entry validates.
func Run(ctx context.Context, log zerolog.Logger, cfg *config.Config, batch *Batch) (*model.SubmissionSummary, error) {
	totalStart := time.Now()
	batchID := uuid.New().String()
	log = log.With().Str("batch_id", batchID).Logger()

	if len(batch.Entries) == 0 {
		return nil, &PipelineError{Phase: PhaseAssemble, Err: ErrEmptyBatch}
	}

	// Phase 1: Reference data
	log.Info().Str("dir", cfg.DiagnosisPath()).Msg("loading diagnosis codes")
	diagnoses, err := OpenDiagnoses(log, cfg)
	if err != nil {
		return nil, &PipelineError{Phase: PhaseReference, Err: err}
	}

	// Phase 2: Patient registry
	log.Info().Str("file", cfg.RegistryPath()).Msg("loading patient registry")
	patients, err := registry.Load(cfg.RegistryPath())
	if err != nil {
		return nil, &PipelineError{Phase: PhaseRegistry, Err: err}
	}
	if err := ctx.Err(); err != nil {
		return nil, &PipelineError{Phase: PhaseRegistry, Err: err}
	}

	// Phase 3: Assemble
	validateStart := time.Now()
	records, err := assemble(log, diagnoses, batch, patients)
	if err != nil {
		return nil, &PipelineError{Phase: PhaseAssemble, Err: err}
	}
	validateDur := time.Since(validateStart)
	if err := ctx.Err(); err != nil {
		return nil, &PipelineError{Phase: PhaseAssemble, Err: err}
	}

	// Phase 4: Reconcile
	updated := patients
	for _, rec := range records {
		updated = registry.Reconcile(updated, rec)
	}
	phns := lo.Uniq(lo.Map(records, func(r model.ServiceRecord, _ int) string { return r.PHN }))
	existing := lo.CountBy(phns, func(phn string) bool {
		_, ok := registry.Find(patients, phn)
		return ok
	})
	log.Info().
		Int("patients_added", len(phns)-existing).
		Int("patients_updated", existing).
		Msg("registry reconciled")

	// Phase 5: Persist
	persistStart := time.Now()
	if err := registry.Save(cfg.RegistryPath(), updated); err != nil {
		return nil, &PipelineError{Phase: PhasePersist, Err: err}
	}

	// Phase 6: Export
	exportPath := filepath.Join(cfg.OutputPath(), export.FileName(cfg.ExportFormat, time.Now(), batchID))
	if err := export.Write(cfg.ExportFormat, exportPath, records); err != nil {
		return nil, &PipelineError{Phase: PhaseExport, Err: err}
	}
	sha, err := normalize.FileHash(exportPath)
	if err != nil {
		return nil, &PipelineError{Phase: PhaseExport, Err: err}
	}
	persistDur := time.Since(persistStart)

	summary := &model.SubmissionSummary{
		BatchID:          batchID,
		Records:          records,
		PatientsAdded:    len(phns) - existing,
		PatientsUpdated:  existing,
		ExportPath:       exportPath,
		ExportSHA256:     sha,
		DurationValidate: validateDur,
		DurationPersist:  persistDur,
		DurationTotal:    time.Since(totalStart),
	}

	log.Info().
		Int("records", len(records)).
		Str("export", exportPath).
		Str("total_duration", summary.DurationTotal.String()).
		Msg("submission complete")

	return summary, nil
}

// assemble validates every entry against a staged view of the diagnosis
// registry, then builds the records for real once the whole batch passed.
func assemble(log zerolog.Logger, diagnoses *diagnosis.Registry, batch *Batch, patients []model.Patient) ([]model.ServiceRecord, error) {
	dos, err := batch.ServiceDate()
	if err != nil {
		return nil, err
	}
	entries := batch.Prefilled(patients)

	dry := engine.New(newStagedDiagnoses(diagnoses))
	failures := make(map[int]engine.ValidationErrors)
	for i, e := range entries {
		_, err := dry.Assemble(e.submission(dos, batch.Facility))
		var verrs engine.ValidationErrors
		switch {
		case err == nil:
		case errors.As(err, &verrs):
			failures[i] = verrs
		default:
			return nil, err
		}
	}
	if len(failures) > 0 {
		log.Warn().Int("rejected", len(failures)).Int("entries", len(entries)).Msg("batch failed validation")
		return nil, &BatchValidationError{Total: len(entries), Failures: failures}
	}

	eng := engine.New(diagnoses)
	records := make([]model.ServiceRecord, 0, len(entries))
	for i, e := range entries {
		rec, err := eng.Assemble(e.submission(dos, batch.Facility))
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i+1, err)
		}
		records = append(records, rec)
	}
	return records, nil
}
