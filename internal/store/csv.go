package store

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"

	"github.com/fmoraes/quadro/internal/task"
)

// CSV stores the grid as a comma-delimited file with a header row.
//
// The whole file is rewritten on overwrites (atomically, via a temp file
// and rename), which keeps the single-writer contract trivial: one write
// call is one file replacement.
type CSV struct {
	path string
}

// NewCSV creates a CSV store for the given path. The file is created with
// the canonical header on first use.
func NewCSV(path string) *CSV {
	return &CSV{path: path}
}

// Path returns the backing file path.
func (s *CSV) Path() string {
	return s.path
}

// LoadAll reads the full file, header row first. Data rows shorter than
// the header are padded with empty cells, matching how spreadsheet
// backends drop trailing blanks.
func (s *CSV) LoadAll(ctx context.Context) ([][]string, error) {
	if err := s.ensure(); err != nil {
		return nil, err
	}

	f, err := os.Open(s.path)
	if err != nil {
		return nil, task.StoreIOf("open "+s.path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // rows may be ragged; the header fixes the width

	values, err := r.ReadAll()
	if err != nil {
		return nil, task.StoreIOf("read "+s.path, err)
	}
	if len(values) == 0 {
		// Zero-byte file: treat as a fresh store.
		return [][]string{task.Headers()}, nil
	}

	width := len(values[0])
	for i := 1; i < len(values); i++ {
		if len(values[i]) < width {
			padded := make([]string, width)
			copy(padded, values[i])
			values[i] = padded
		}
	}
	return values, nil
}

// AppendRows appends data rows in one write.
func (s *CSV) AppendRows(ctx context.Context, rows [][]string) error {
	if err := validateWidths(rows); err != nil {
		return err
	}
	if err := s.ensure(); err != nil {
		return err
	}

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return task.StoreIOf("open "+s.path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		return task.StoreIOf("append to "+s.path, err)
	}
	return nil
}

// OverwriteRows replaces the targeted data rows and rewrites the file
// atomically. Keys are 0-based data-row indices.
func (s *CSV) OverwriteRows(ctx context.Context, rows map[int][]string) error {
	if len(rows) == 0 {
		return nil
	}

	values, err := s.LoadAll(ctx)
	if err != nil {
		return err
	}

	dataRows := len(values) - 1
	for idx, row := range rows {
		if idx < 0 || idx >= dataRows {
			return task.Consistencyf("row index %d out of range (store has %d data rows)", idx, dataRows)
		}
		if len(row) != task.NumColumns {
			return task.Consistencyf("row %d has %d cells, want %d", idx, len(row), task.NumColumns)
		}
		values[idx+1] = row
	}

	return s.writeAll(values)
}

// ensure creates the file with the canonical header if it is missing.
func (s *CSV) ensure() error {
	if _, err := os.Stat(s.path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return task.StoreIOf("stat "+s.path, err)
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return task.StoreIOf("create directory "+dir, err)
		}
	}
	return s.writeAll([][]string{task.Headers()})
}

// writeAll replaces the whole file via temp file and rename.
func (s *CSV) writeAll(values [][]string) error {
	tmp := s.path + ".tmp"

	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return task.StoreIOf("create "+tmp, err)
	}

	w := csv.NewWriter(f)
	if err := w.WriteAll(values); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return task.StoreIOf("write "+tmp, err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return task.StoreIOf("close "+tmp, err)
	}

	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return task.StoreIOf("rename "+tmp, err)
	}
	return nil
}

func validateWidths(rows [][]string) error {
	if len(rows) == 0 {
		return task.Consistencyf("no rows to write")
	}
	for i, row := range rows {
		if len(row) != task.NumColumns {
			return task.Consistencyf("row %d has %d cells, want %d", i, len(row), task.NumColumns)
		}
	}
	return nil
}

var _ Store = (*CSV)(nil)
