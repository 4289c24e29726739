package registry

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gyeh/lfpbill/internal/model"
)

// Load reads the patient registry. A missing file is an empty registry and a
// missing diagnosis column reads as empty diagnoses. Every value, PHN
// included, is kept as text.
func Load(path string) ([]model.Patient, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open patient registry: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(bufio.NewReader(f))
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read patient registry header: %w", err)
	}
	colIdx := make(map[string]int, len(header))
	for i, h := range header {
		colIdx[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	if _, ok := colIdx["phn"]; !ok {
		return nil, fmt.Errorf("patient registry %s: missing PHN column", path)
	}

	get := func(rec []string, col string) string {
		i, ok := colIdx[col]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	var patients []model.Patient
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read patient registry: %w", err)
		}
		p := model.Patient{
			PHN:         get(rec, "phn"),
			LastName:    get(rec, "last_name"),
			FirstName:   get(rec, "first_name"),
			DateOfBirth: get(rec, "date_of_birth"),
			Diagnosis:   get(rec, "diagnosis"),
		}
		if p.PHN == "" {
			continue
		}
		patients = append(patients, p)
	}
	return patients, nil
}

// Save rewrites the whole registry. The file is written next to path and
// renamed into place so readers never observe a half-written table.
func Save(path string, patients []model.Patient) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create registry dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".patients-*.csv")
	if err != nil {
		return fmt.Errorf("create temp registry: %w", err)
	}
	defer os.Remove(tmp.Name())

	w := csv.NewWriter(tmp)
	if err := w.Write(model.PatientColumns()); err != nil {
		tmp.Close()
		return fmt.Errorf("write registry header: %w", err)
	}
	for _, p := range patients {
		if err := w.Write(p.Values()); err != nil {
			tmp.Close()
			return fmt.Errorf("write patient %s: %w", p.PHN, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		return fmt.Errorf("flush registry: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp registry: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace patient registry: %w", err)
	}
	return nil
}
