package testutil

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"codeberg.org/snonux/wordcard/internal/wordstore"
)

// MockGenerator answers generation requests from a fixed set of records
type MockGenerator struct {
	// Records by lowercase word. Words without an entry get a made-up
	// record unless Strict is set.
	Records map[string]wordstore.Record
	Strict  bool
	Err     error

	mu    sync.Mutex
	calls [][]string
}

// Name returns "mock"
func (m *MockGenerator) Name() string {
	return "mock"
}

// Generate records the call and returns the configured records
func (m *MockGenerator) Generate(_ context.Context, words []string) ([]wordstore.Record, error) {
	if len(words) == 0 {
		return nil, nil
	}

	m.mu.Lock()
	m.calls = append(m.calls, append([]string(nil), words...))
	m.mu.Unlock()

	if m.Err != nil {
		return nil, m.Err
	}

	var records []wordstore.Record
	for _, w := range words {
		if rec, ok := m.Records[wordstore.Key(w)]; ok {
			records = append(records, rec)
			continue
		}
		if !m.Strict {
			records = append(records, MockRecord(w))
		}
	}
	return records, nil
}

// Calls returns the word batches passed to Generate
func (m *MockGenerator) Calls() [][]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([][]string(nil), m.calls...)
}

// MockRecord returns a plausible record for word
func MockRecord(word string) wordstore.Record {
	return wordstore.Record{
		Word:        word,
		Phonetic:    "/" + word + "/",
		Meaning:     "n. " + word + "的意思",
		Example:     fmt.Sprintf("This is %s. 这是%s。", word, word),
		Collocation: strings.ToLower(word) + " test",
	}
}
