package testutil

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"codeberg.org/snonux/wordcard/internal/table"
	"codeberg.org/snonux/wordcard/internal/wordstore"
)

// CreateTestFile creates a file with content, including parent directories
func CreateTestFile(t *testing.T, path string, content []byte) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("Failed to create directory for test file: %v", err)
	}
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatalf("Failed to create test file %s: %v", path, err)
	}
}

// WriteWordTable creates a word table at path holding records
func WriteWordTable(t *testing.T, path string, records ...wordstore.Record) {
	t.Helper()

	tbl, err := table.Open(path)
	if err != nil {
		t.Fatalf("Failed to open word table %s: %v", path, err)
	}
	rows := make([][]string, len(records))
	for i, r := range records {
		rows[i] = r.Row(wordstore.DefaultColumns)
	}
	if err := tbl.Write(wordstore.DefaultColumns, rows); err != nil {
		t.Fatalf("Failed to write word table %s: %v", path, err)
	}
}

// NewWordStore returns a store over a fresh CSV table in a temp directory
// holding records
func NewWordStore(t *testing.T, records ...wordstore.Record) *wordstore.Store {
	t.Helper()

	path := filepath.Join(t.TempDir(), "words.csv")
	if len(records) > 0 {
		WriteWordTable(t, path, records...)
	}
	return wordstore.New(table.NewCSV(path), nil)
}

// AssertFileExists checks if a file exists
func AssertFileExists(t *testing.T, path string) {
	t.Helper()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("Expected file to exist: %s", path)
	}
}

// AssertFileNotExists checks if a file does not exist
func AssertFileNotExists(t *testing.T, path string) {
	t.Helper()

	if _, err := os.Stat(path); err == nil {
		t.Errorf("Expected file to not exist: %s", path)
	}
}

// AssertFileContains checks if a file contains a substring
func AssertFileContains(t *testing.T, path string, substring string) {
	t.Helper()

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	if !strings.Contains(string(content), substring) {
		t.Errorf("File %s does not contain expected substring: %q", path, substring)
	}
}

// CaptureOutput captures stdout during f
func CaptureOutput(t *testing.T, f func()) string {
	t.Helper()

	old := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("Failed to create pipe: %v", err)
	}
	os.Stdout = w

	done := make(chan string)
	go func() {
		var buf bytes.Buffer
		_, _ = io.Copy(&buf, r)
		done <- buf.String()
	}()

	defer func() { os.Stdout = old }()
	f()
	w.Close()
	return <-done
}
