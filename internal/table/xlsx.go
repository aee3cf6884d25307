package table

import (
	"errors"
	"fmt"
	"os"

	"github.com/xuri/excelize/v2"
)

// XLSX is a spreadsheet table stored on the first worksheet
type XLSX struct {
	path string
}

// NewXLSX creates an XLSX table at path
func NewXLSX(path string) *XLSX {
	return &XLSX{path: path}
}

// Path returns the file path
func (x *XLSX) Path() string {
	return x.path
}

// Read loads the first worksheet
func (x *XLSX) Read() ([]string, [][]string, error) {
	if _, err := os.Stat(x.path); errors.Is(err, os.ErrNotExist) {
		return nil, nil, ErrNotExist
	}

	f, err := excelize.OpenFile(x.path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open spreadsheet: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, nil
	}

	all, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read worksheet %s: %w", sheets[0], err)
	}
	if len(all) == 0 {
		return nil, nil, nil
	}

	header := all[0]
	var rows [][]string
	for _, row := range all[1:] {
		if isBlank(row) {
			continue
		}
		rows = append(rows, row)
	}

	return header, normalize(rows, len(header)), nil
}

// Write rewrites the spreadsheet with a single worksheet
func (x *XLSX) Write(header []string, rows [][]string) error {
	return replaceFile(x.path, func(tmp string) error {
		f := excelize.NewFile()
		defer f.Close()

		sheet := f.GetSheetName(0)
		if err := writeRow(f, sheet, 1, header); err != nil {
			return err
		}
		for i, row := range normalize(rows, len(header)) {
			if err := writeRow(f, sheet, i+2, row); err != nil {
				return err
			}
		}

		if err := f.SaveAs(tmp); err != nil {
			return fmt.Errorf("failed to save spreadsheet: %w", err)
		}
		return nil
	})
}

func writeRow(f *excelize.File, sheet string, n int, row []string) error {
	cell, err := excelize.CoordinatesToCellName(1, n)
	if err != nil {
		return err
	}
	values := make([]interface{}, len(row))
	for i, v := range row {
		values[i] = v
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write row %d: %w", n, err)
	}
	return nil
}
