package table

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

// DefaultSQLiteTable is the table name used by Open for SQLite files
const DefaultSQLiteTable = "word_table"

// SQLite stores the table as one SQL table whose columns mirror the header.
// Row order is the insertion order (rowid).
type SQLite struct {
	path  string
	table string
}

// NewSQLite creates a SQLite-backed table
func NewSQLite(path, table string) *SQLite {
	return &SQLite{path: path, table: table}
}

// Path returns the database file path
func (s *SQLite) Path() string {
	return s.path
}

func (s *SQLite) open() (*sql.DB, error) {
	db, err := sql.Open("sqlite3", s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}

// Read loads every row ordered by rowid
func (s *SQLite) Read() ([]string, [][]string, error) {
	if _, err := os.Stat(s.path); errors.Is(err, os.ErrNotExist) {
		return nil, nil, ErrNotExist
	}

	db, err := s.open()
	if err != nil {
		return nil, nil, err
	}
	defer db.Close()

	var name string
	err = db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, s.table).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil, ErrNotExist
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to inspect database: %w", err)
	}

	rs, err := db.Query(fmt.Sprintf(`SELECT * FROM %s ORDER BY rowid`, quoteIdent(s.table)))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query table: %w", err)
	}
	defer rs.Close()

	header, err := rs.Columns()
	if err != nil {
		return nil, nil, err
	}

	var rows [][]string
	for rs.Next() {
		values := make([]sql.NullString, len(header))
		ptrs := make([]interface{}, len(header))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rs.Scan(ptrs...); err != nil {
			return nil, nil, fmt.Errorf("failed to scan row: %w", err)
		}
		row := make([]string, len(header))
		for i, v := range values {
			row[i] = v.String
		}
		rows = append(rows, row)
	}
	if err := rs.Err(); err != nil {
		return nil, nil, err
	}

	return header, rows, nil
}

// Write drops and recreates the table inside one transaction
func (s *SQLite) Write(header []string, rows [][]string) error {
	if len(header) == 0 {
		return fmt.Errorf("cannot write table without columns")
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := s.open()
	if err != nil {
		return err
	}
	defer db.Close()

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	cols := make([]string, len(header))
	marks := make([]string, len(header))
	for i, h := range header {
		cols[i] = quoteIdent(h) + " TEXT"
		marks[i] = "?"
	}

	stmts := []string{
		fmt.Sprintf(`DROP TABLE IF EXISTS %s`, quoteIdent(s.table)),
		fmt.Sprintf(`CREATE TABLE %s (%s)`, quoteIdent(s.table), strings.Join(cols, ", ")),
	}
	for _, stmt := range stmts {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("failed to recreate table: %w", err)
		}
	}

	insert, err := tx.Prepare(fmt.Sprintf(`INSERT INTO %s VALUES (%s)`, quoteIdent(s.table), strings.Join(marks, ", ")))
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer insert.Close()

	for _, row := range normalize(rows, len(header)) {
		args := make([]interface{}, len(row))
		for i, v := range row {
			args[i] = v
		}
		if _, err := insert.Exec(args...); err != nil {
			return fmt.Errorf("failed to insert row: %w", err)
		}
	}

	return tx.Commit()
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
