package table

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
)

// CSV is a comma separated table with a header row
type CSV struct {
	path string
}

// NewCSV creates a CSV table at path
func NewCSV(path string) *CSV {
	return &CSV{path: path}
}

// Path returns the file path
func (c *CSV) Path() string {
	return c.path
}

// Read loads the whole file
func (c *CSV) Read() ([]string, [][]string, error) {
	file, err := os.Open(c.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil, ErrNotExist
		}
		return nil, nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	if len(header) > 0 {
		// Strip a UTF-8 BOM left by spreadsheet exports
		header[0] = trimBOM(header[0])
	}

	var rows [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read CSV row: %w", err)
		}
		if isBlank(record) {
			continue
		}
		rows = append(rows, record)
	}

	return header, normalize(rows, len(header)), nil
}

// Write rewrites the whole file
func (c *CSV) Write(header []string, rows [][]string) error {
	return replaceFile(c.path, func(tmp string) error {
		file, err := os.Create(tmp)
		if err != nil {
			return fmt.Errorf("failed to create CSV file: %w", err)
		}
		defer file.Close()

		writer := csv.NewWriter(file)
		if err := writer.Write(header); err != nil {
			return fmt.Errorf("failed to write headers: %w", err)
		}
		for _, row := range normalize(rows, len(header)) {
			if err := writer.Write(row); err != nil {
				return fmt.Errorf("failed to write row: %w", err)
			}
		}
		writer.Flush()
		if err := writer.Error(); err != nil {
			return fmt.Errorf("failed to flush CSV: %w", err)
		}
		return file.Close()
	})
}

func trimBOM(s string) string {
	const bom = "\ufeff"
	if len(s) >= len(bom) && s[:len(bom)] == bom {
		return s[len(bom):]
	}
	return s
}
