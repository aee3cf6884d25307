package table

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrNotExist is returned by Read when the table has never been written
var ErrNotExist = errors.New("table does not exist")

// Table is a whole-file tabular store
type Table interface {
	// Read returns the header and all rows. Rows are normalized to the
	// header width.
	Read() (header []string, rows [][]string, err error)

	// Write replaces the table contents
	Write(header []string, rows [][]string) error

	// Path returns the backing location
	Path() string
}

// Open returns the backend matching the file extension
func Open(path string) (Table, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return NewCSV(path), nil
	case ".xlsx":
		return NewXLSX(path), nil
	case ".db", ".sqlite", ".sqlite3":
		return NewSQLite(path, DefaultSQLiteTable), nil
	default:
		return nil, fmt.Errorf("unsupported table format: %q", filepath.Ext(path))
	}
}

// normalize pads or truncates each row to width cells
func normalize(rows [][]string, width int) [][]string {
	out := make([][]string, 0, len(rows))
	for _, row := range rows {
		r := make([]string, width)
		copy(r, row)
		out = append(out, r)
	}
	return out
}

// isBlank reports whether every cell of the row is empty
func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// replaceFile writes via a temp file in the target directory and renames it
// into place so readers never observe a half-written table.
func replaceFile(path string, write func(tmp string) error) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create table directory: %w", err)
	}

	f, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*"+filepath.Ext(path))
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmp := f.Name()
	f.Close()
	defer os.Remove(tmp)

	if err := write(tmp); err != nil {
		return err
	}

	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}
