package diagnosis

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"iter"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/samber/lo"

	"github.com/gyeh/lfpbill/internal/model"
	"github.com/gyeh/lfpbill/internal/normalize"
)

var (
	ErrDuplicateCode   = errors.New("diagnosis code already exists in extension table")
	ErrIncompleteEntry = errors.New("diagnosis code and description are both required")
	ErrNoReferenceData = errors.New("no usable diagnosis reference data")
)

// Registry is the in-memory diagnosis code table built from the reference
// sources and the writable extension table.
type Registry struct {
	log      zerolog.Logger
	entries  []model.DiagnosisEntry
	byCode   map[string]model.DiagnosisEntry
	extPath  string
	extCodes map[string]bool
	stats    []SourceStats
}

// Open loads sources in the given order followed by the extension table at
// extPath. Unreadable sources are skipped with a warning. It fails with
// ErrNoReferenceData only when no source yields a single usable row.
func Open(log zerolog.Logger, sources []string, extPath string) (*Registry, error) {
	r := &Registry{
		log:      log,
		byCode:   make(map[string]model.DiagnosisEntry),
		extPath:  extPath,
		extCodes: make(map[string]bool),
	}

	var all []model.DiagnosisEntry
	for _, src := range sources {
		entries, stats, err := readSource(src, log)
		if err != nil {
			stats.Err = err
			log.Warn().Err(err).Str("file", src).Msg("skipping diagnosis source")
		}
		r.stats = append(r.stats, stats)
		all = append(all, entries...)
	}

	if _, err := os.Stat(extPath); err == nil {
		entries, stats, err := readSource(extPath, log)
		if err != nil {
			stats.Err = err
			log.Warn().Err(err).Str("file", extPath).Msg("skipping diagnosis extension table")
		}
		r.stats = append(r.stats, stats)
		for _, e := range entries {
			r.extCodes[e.Code] = true
		}
		all = append(all, entries...)
	}

	if len(all) == 0 {
		return nil, fmt.Errorf("%w (%d sources)", ErrNoReferenceData, len(sources))
	}

	// Lookup follows load order so the last source wins; the browsable list
	// keeps one entry per distinct (code, description).
	for _, e := range all {
		r.byCode[e.Code] = e
	}
	r.entries = lo.UniqBy(all, entryKey)

	log.Info().
		Int("sources", len(r.stats)).
		Int("entries", len(r.entries)).
		Int("codes", len(r.byCode)).
		Msg("diagnosis registry loaded")
	return r, nil
}

// Find returns the entry for code. Display-form input ("A01 - Cholera") is
// reduced to its code first.
func (r *Registry) Find(code string) (model.DiagnosisEntry, bool) {
	e, ok := r.byCode[normalize.DiagnosisCode(code)]
	return e, ok
}

// Search yields every entry whose code or description contains query,
// ignoring case. The sequence covers the entries present when Search was
// called; entries added afterwards need a new call.
func (r *Registry) Search(query string) iter.Seq[model.DiagnosisEntry] {
	entries := r.entries
	q := strings.ToLower(strings.TrimSpace(query))
	return func(yield func(model.DiagnosisEntry) bool) {
		for _, e := range entries {
			if !strings.Contains(strings.ToLower(e.Code), q) &&
				!strings.Contains(strings.ToLower(e.Description), q) {
				continue
			}
			if !yield(e) {
				return
			}
		}
	}
}

// Add appends a new code to the extension table and makes it visible to Find
// and Search. It fails with ErrDuplicateCode when the extension table already
// holds the code; the registry is left unchanged in that case.
func (r *Registry) Add(code, description string) error {
	code = strings.TrimSpace(code)
	description = normalize.CollapseSpace(description)
	if code == "" || description == "" {
		return ErrIncompleteEntry
	}
	if r.extCodes[code] {
		return fmt.Errorf("%w: %s", ErrDuplicateCode, code)
	}

	if err := appendRow(r.extPath, []string{code, description}); err != nil {
		return fmt.Errorf("append diagnosis code %s: %w", code, err)
	}

	e := model.DiagnosisEntry{Code: code, Description: description, Category: categoryFor(r.extPath)}
	r.extCodes[code] = true
	r.byCode[code] = e
	if !lo.ContainsBy(r.entries, func(x model.DiagnosisEntry) bool { return entryKey(x) == entryKey(e) }) {
		r.entries = append(r.entries, e)
	}
	r.log.Info().Str("code", code).Str("file", r.extPath).Msg("diagnosis code added")
	return nil
}

// Extends reports whether the extension table already holds code.
func (r *Registry) Extends(code string) bool {
	return r.extCodes[strings.TrimSpace(code)]
}

// Len is the number of distinct (code, description) entries.
func (r *Registry) Len() int {
	return len(r.entries)
}

// Stats reports how each source loaded, in load order.
func (r *Registry) Stats() []SourceStats {
	return append([]SourceStats(nil), r.stats...)
}

type pairKey struct{ code, description string }

func entryKey(e model.DiagnosisEntry) pairKey {
	return pairKey{e.Code, e.Description}
}

// appendRow writes one record to a Code/Description CSV, creating the file
// with a header when it is missing or empty.
func appendRow(path string, row []string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	size, err := f.Seek(0, io.SeekEnd)
	if err != nil {
		return err
	}
	if size > 0 {
		// Hand-edited files may lack a trailing newline.
		last := make([]byte, 1)
		if _, err := f.ReadAt(last, size-1); err != nil {
			return err
		}
		if last[0] != '\n' {
			if _, err := f.Write([]byte("\n")); err != nil {
				return err
			}
		}
	}

	w := csv.NewWriter(f)
	if size == 0 {
		if err := w.Write([]string{"Code", "Description"}); err != nil {
			return err
		}
	}
	if err := w.Write(row); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}
