package diagnosis

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/gyeh/lfpbill/internal/model"
)

const categoryPrefix = "Diagnosis_Code_"

// SourceStats describes how one reference table loaded.
type SourceStats struct {
	Path     string
	Category string
	Rows     int   // usable entries
	Repaired int   // continuation rows merged into the previous description
	Skipped  int   // rows dropped with a warning
	Err      error // non-nil when the whole file was skipped
}

// DiscoverSources lists every *.csv file in dir in alphabetical order,
// leaving out exclude (the extension table). A missing dir yields no sources.
func DiscoverSources(dir, exclude string) ([]string, error) {
	if _, err := os.Stat(dir); errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	matches, err := filepath.Glob(filepath.Join(dir, "*.csv"))
	if err != nil {
		return nil, fmt.Errorf("list diagnosis sources: %w", err)
	}
	sort.Strings(matches)

	excl := filepath.Clean(exclude)
	sources := matches[:0]
	for _, m := range matches {
		if filepath.Clean(m) != excl {
			sources = append(sources, m)
		}
	}
	return sources, nil
}

// categoryFor derives the category label from a table's file name:
// "Diagnosis_Code_INFECTIONS.csv" becomes "INFECTIONS".
func categoryFor(path string) string {
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return strings.TrimPrefix(base, categoryPrefix)
}

// readSource loads one Code/Description table. Malformed rows are repaired or
// skipped; only failures that make the whole file unusable return an error.
func readSource(path string, log zerolog.Logger) ([]model.DiagnosisEntry, SourceStats, error) {
	stats := SourceStats{Path: path, Category: categoryFor(path)}

	f, err := os.Open(path)
	if err != nil {
		return nil, stats, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(bufio.NewReader(f))
	r.LazyQuotes = true
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, stats, fmt.Errorf("read header of %s: %w", path, err)
	}
	codeIdx, descIdx := -1, -1
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))) {
		case "code":
			codeIdx = i
		case "description":
			descIdx = i
		}
	}
	if codeIdx < 0 || descIdx < 0 {
		return nil, stats, fmt.Errorf("%s: missing Code/Description header", path)
	}

	var entries []model.DiagnosisEntry
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				stats.Skipped++
				log.Warn().Err(err).Str("file", path).Msg("skipping unparseable diagnosis row")
				continue
			}
			return nil, stats, fmt.Errorf("read %s: %w", path, err)
		}
		line, _ := r.FieldPos(0)

		code := field(rec, codeIdx)
		if code == "" {
			text := joinNonEmpty(rec)
			if text == "" {
				continue
			}
			if len(entries) == 0 {
				stats.Skipped++
				log.Warn().Str("file", path).Int("line", line).Msg("continuation row without a preceding entry, skipped")
				continue
			}
			last := &entries[len(entries)-1]
			last.Description = strings.TrimSpace(last.Description + " " + text)
			stats.Repaired++
			log.Debug().Str("file", path).Int("line", line).Str("code", last.Code).Msg("merged continuation row")
			continue
		}

		desc := field(rec, descIdx)
		if desc == "" {
			stats.Skipped++
			log.Warn().Str("file", path).Int("line", line).Str("code", code).Msg("diagnosis row without description, skipped")
			continue
		}
		entries = append(entries, model.DiagnosisEntry{Code: code, Description: desc, Category: stats.Category})
	}

	stats.Rows = len(entries)
	return entries, stats, nil
}

func field(rec []string, i int) string {
	if i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}

func joinNonEmpty(rec []string) string {
	parts := make([]string, 0, len(rec))
	for _, v := range rec {
		if v = strings.TrimSpace(v); v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, " ")
}
