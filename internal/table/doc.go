// Package table reads and rewrites whole tabular files (a header row followed
// by data rows). CSV, XLSX and SQLite backends are selected by file extension.
package table
