package wordstore

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"codeberg.org/snonux/wordcard/internal/table"
)

// Store is the persisted word table
type Store struct {
	table  table.Table
	logger *zap.Logger
}

// Index is an in-memory view of the table keyed by lowercase word
type Index struct {
	records map[string]Record
	order   []string
}

// New creates a store on top of a table backend
func New(t table.Table, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{table: t, logger: logger}
}

// Path returns where the table is persisted
func (s *Store) Path() string {
	return s.table.Path()
}

// Load reads the table. A missing table is created with the seed record.
func (s *Store) Load() (*Index, error) {
	_, records, err := s.read()
	if err != nil {
		return nil, err
	}
	return newIndex(records), nil
}

// Upsert merges records into the table. For the same lowercase word the
// newest record wins. Incoming fields outside the existing columns are
// dropped and missing columns are written empty.
func (s *Store) Upsert(records []Record) error {
	if len(records) == 0 {
		return nil
	}

	header, existing, err := s.read()
	if err != nil {
		return err
	}

	combined := make([]Record, 0, len(existing)+len(records))
	combined = append(combined, existing...)
	for _, r := range records {
		if r.Key() == "" {
			s.logger.Warn("Skipping record without word")
			continue
		}
		combined = append(combined, r)
	}

	merged := dedupeKeepLast(combined)
	rows := make([][]string, len(merged))
	for i, r := range merged {
		rows[i] = r.Row(header)
	}

	if err := s.table.Write(header, rows); err != nil {
		return fmt.Errorf("failed to save word table: %w", err)
	}

	s.logger.Info("Word table updated",
		zap.String("path", s.table.Path()),
		zap.Int("incoming", len(records)),
		zap.Int("total", len(merged)))
	return nil
}

// read loads header and records, seeding the table when it does not exist
func (s *Store) read() ([]string, []Record, error) {
	header, rows, err := s.table.Read()
	if errors.Is(err, table.ErrNotExist) || (err == nil && len(header) == 0) {
		return s.seed()
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load word table: %w", err)
	}
	if !contains(header, ColWord) {
		return nil, nil, fmt.Errorf("word table %s has no %q column", s.table.Path(), ColWord)
	}

	records := make([]Record, 0, len(rows))
	for _, row := range rows {
		r := FromRow(header, row)
		if r.Key() == "" {
			continue
		}
		records = append(records, r)
	}
	return header, records, nil
}

func (s *Store) seed() ([]string, []Record, error) {
	seed := SeedRecord()
	header := append([]string(nil), DefaultColumns...)
	if err := s.table.Write(header, [][]string{seed.Row(header)}); err != nil {
		return nil, nil, fmt.Errorf("failed to create word table: %w", err)
	}
	s.logger.Info("Created word table", zap.String("path", s.table.Path()))
	return header, []Record{seed}, nil
}

// dedupeKeepLast keeps the last record per key at the position of that
// last occurrence
func dedupeKeepLast(records []Record) []Record {
	last := make(map[string]int, len(records))
	for i, r := range records {
		last[r.Key()] = i
	}
	out := make([]Record, 0, len(last))
	for i, r := range records {
		if last[r.Key()] == i {
			out = append(out, r)
		}
	}
	return out
}

func newIndex(records []Record) *Index {
	idx := &Index{records: make(map[string]Record, len(records))}
	for _, r := range dedupeKeepLast(records) {
		idx.records[r.Key()] = r
		idx.order = append(idx.order, r.Key())
	}
	return idx
}

// Lookup finds a record by exact case-insensitive word
func (i *Index) Lookup(word string) (Record, bool) {
	r, ok := i.records[Key(word)]
	return r, ok
}

// Words returns all lowercase keys in table order
func (i *Index) Words() []string {
	return append([]string(nil), i.order...)
}

// Len returns the number of records
func (i *Index) Len() int {
	return len(i.order)
}

// Add inserts or replaces records in the index without persisting them
func (i *Index) Add(records ...Record) {
	for _, r := range records {
		k := r.Key()
		if k == "" {
			continue
		}
		if _, ok := i.records[k]; !ok {
			i.order = append(i.order, k)
		}
		i.records[k] = r
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
