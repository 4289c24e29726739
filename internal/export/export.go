package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/parquet-go/parquet-go"

	"github.com/gyeh/lfpbill/internal/model"
)

// Supported export formats.
const (
	FormatCSV     = "csv"
	FormatParquet = "parquet"
)

// FileName returns the export file name for a batch written at now. The
// leading characters of batchID keep batches from the same second apart.
func FileName(format string, now time.Time, batchID string) string {
	if len(batchID) > 8 {
		batchID = batchID[:8]
	}
	return fmt.Sprintf("service_records_%s_%s.%s", now.Format("20060102_150405"), batchID, format)
}

// Write dispatches to the writer for format.
func Write(format, path string, records []model.ServiceRecord) error {
	switch format {
	case FormatCSV:
		return WriteCSV(path, records)
	case FormatParquet:
		return WriteParquet(path, records)
	default:
		return fmt.Errorf("unsupported export format %q", format)
	}
}

// WriteCSV writes records with a header row. It refuses to overwrite an
// existing file.
func WriteCSV(path string, records []model.ServiceRecord) error {
	f, err := create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(model.ServiceRecordColumns()); err != nil {
		return fmt.Errorf("write export header: %w", err)
	}
	for _, r := range records {
		if err := w.Write(r.Values()); err != nil {
			return fmt.Errorf("write export row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush export: %w", err)
	}
	return f.Close()
}

// WriteParquet writes records as a single row group. It refuses to overwrite
// an existing file.
func WriteParquet(path string, records []model.ServiceRecord) error {
	f, err := create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	rows := make([]model.ServiceRecordRow, len(records))
	for i, r := range records {
		rows[i] = r.Row()
	}

	w := parquet.NewGenericWriter[model.ServiceRecordRow](f)
	if _, err := w.Write(rows); err != nil {
		return fmt.Errorf("write parquet rows: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("close parquet writer: %w", err)
	}
	return f.Close()
}

func create(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create export dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return nil, fmt.Errorf("create export file: %w", err)
	}
	return f, nil
}
