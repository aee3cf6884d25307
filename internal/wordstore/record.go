package wordstore

import "strings"

// Column names of the persisted word table
const (
	ColWord        = "Word"
	ColPhonetic    = "Phonetic"
	ColMeaning     = "Meaning"
	ColExample     = "Example"
	ColCollocation = "Collocation"
)

// DefaultColumns is the header of a freshly created table
var DefaultColumns = []string{ColWord, ColPhonetic, ColMeaning, ColExample, ColCollocation}

// Record is one vocabulary entry
type Record struct {
	Word        string `json:"Word"`
	Phonetic    string `json:"Phonetic"`
	Meaning     string `json:"Meaning"`
	Example     string `json:"Example"`
	Collocation string `json:"Collocation"`

	// Extra holds table columns beyond the five known ones
	Extra map[string]string `json:"-"`
}

// Key returns the lookup key of the record
func (r Record) Key() string {
	return Key(r.Word)
}

// Key normalizes a word for lookup
func Key(word string) string {
	return strings.ToLower(strings.TrimSpace(word))
}

// Get returns the value of the named column
func (r Record) Get(column string) string {
	switch column {
	case ColWord:
		return r.Word
	case ColPhonetic:
		return r.Phonetic
	case ColMeaning:
		return r.Meaning
	case ColExample:
		return r.Example
	case ColCollocation:
		return r.Collocation
	default:
		return r.Extra[column]
	}
}

// Set assigns the named column
func (r *Record) Set(column, value string) {
	switch column {
	case ColWord:
		r.Word = value
	case ColPhonetic:
		r.Phonetic = value
	case ColMeaning:
		r.Meaning = value
	case ColExample:
		r.Example = value
	case ColCollocation:
		r.Collocation = value
	default:
		if r.Extra == nil {
			r.Extra = make(map[string]string)
		}
		r.Extra[column] = value
	}
}

// FromRow builds a record from a table row
func FromRow(header, row []string) Record {
	var r Record
	for i, col := range header {
		if i < len(row) {
			r.Set(col, row[i])
		}
	}
	return r
}

// Row renders the record in the given column order. Columns the record has
// no value for are left empty.
func (r Record) Row(header []string) []string {
	row := make([]string, len(header))
	for i, col := range header {
		row[i] = r.Get(col)
	}
	return row
}

// SeedRecord initializes an empty word table
func SeedRecord() Record {
	return Record{
		Word:        "ambition",
		Phonetic:    "/æmˈbɪʃn/",
		Meaning:     "n. 雄心，抱负",
		Example:     "She has a great ambition to become a doctor. 她有一个成为医生的宏大抱负。",
		Collocation: "great ambition",
	}
}
