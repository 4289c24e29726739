package parquetread

import (
	"fmt"
	"io"
	"os"

	"github.com/parquet-go/parquet-go"

	"github.com/gyeh/lfpbill/internal/model"
)

// Reader streams service records back out of a Parquet export.
type Reader struct {
	file   *os.File
	reader *parquet.GenericReader[model.ServiceRecordRow]
}

// Open opens a Parquet export and returns a streaming Reader.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open parquet file: %w", err)
	}

	stat, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat parquet file: %w", err)
	}

	pf, err := parquet.OpenFile(f, stat.Size())
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("open parquet: %w", err)
	}

	return &Reader{file: f, reader: parquet.NewGenericReader[model.ServiceRecordRow](pf)}, nil
}

func (r *Reader) NumRows() int64 {
	return r.reader.NumRows()
}

// Read reads up to len(rows) records. It returns io.EOF once the file is
// exhausted.
func (r *Reader) Read(rows []model.ServiceRecordRow) (int, error) {
	n, err := r.reader.Read(rows)
	if err != nil && err != io.EOF {
		return n, fmt.Errorf("read parquet rows: %w", err)
	}
	return n, err
}

// ReadAll drains the reader in chunks of batchSize.
func (r *Reader) ReadAll(batchSize int) ([]model.ServiceRecordRow, error) {
	if batchSize <= 0 {
		batchSize = 256
	}
	var out []model.ServiceRecordRow
	buf := make([]model.ServiceRecordRow, batchSize)
	for {
		n, err := r.Read(buf)
		out = append(out, buf[:n]...)
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return out, err
		}
	}
}

func (r *Reader) Schema() *parquet.Schema {
	return r.reader.Schema()
}

// Close releases all resources.
func (r *Reader) Close() error {
	if err := r.reader.Close(); err != nil {
		r.file.Close()
		return err
	}
	return r.file.Close()
}
