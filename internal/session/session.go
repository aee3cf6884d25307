package session

import (
	"codeberg.org/snonux/wordcard/internal/wordstore"
)

// State is the position of a session in the workflow
type State int

// Session states
const (
	Idle State = iota
	InputPending
	Resolving
	Ready
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case InputPending:
		return "input-pending"
	case Resolving:
		return "resolving"
	case Ready:
		return "ready"
	default:
		return "unknown"
	}
}

// Session is the state of one teacher's workflow
type Session struct {
	ID       string
	Identity Identity
	State    State
	List     WorkingList

	flash string
}

// NewSession returns an idle session
func NewSession(id string) *Session {
	return &Session{ID: id, State: Idle}
}

// Flash returns the pending status message and clears it
func (s *Session) Flash() string {
	msg := s.flash
	s.flash = ""
	return msg
}

// SetFlash replaces the pending status message
func (s *Session) SetFlash(msg string) {
	s.flash = msg
}

// WorkingList is the ordered set of records queued for printing. Words are
// unique by lowercase form.
type WorkingList struct {
	records []wordstore.Record
}

// Add appends records whose word is not on the list yet and returns how
// many were added
func (l *WorkingList) Add(records ...wordstore.Record) int {
	added := 0
	for _, r := range records {
		if r.Key() == "" || l.Contains(r.Word) {
			continue
		}
		l.records = append(l.records, r)
		added++
	}
	return added
}

// Contains reports whether word is on the list
func (l *WorkingList) Contains(word string) bool {
	key := wordstore.Key(word)
	for _, r := range l.records {
		if r.Key() == key {
			return true
		}
	}
	return false
}

// Records returns a copy of the list
func (l *WorkingList) Records() []wordstore.Record {
	return append([]wordstore.Record(nil), l.records...)
}

// Words returns the words in list order
func (l *WorkingList) Words() []string {
	words := make([]string, len(l.records))
	for i, r := range l.records {
		words[i] = r.Word
	}
	return words
}

// Len returns the number of records
func (l *WorkingList) Len() int {
	return len(l.records)
}

// Clear empties the list
func (l *WorkingList) Clear() {
	l.records = nil
}
