package anki

import (
	"encoding/csv"
	"fmt"
	"html"
	"io"
	"strings"

	"codeberg.org/snonux/wordcard/internal/render"
	"codeberg.org/snonux/wordcard/internal/wordstore"
)

// Note is one Anki note. Both fields carry HTML.
type Note struct {
	Front string
	Back  string
}

// ExportOptions configures the Anki export
type ExportOptions struct {
	// IncludeHeaders writes the file header lines Anki 2.1.54+ reads to
	// pick the separator and the field mapping
	IncludeHeaders bool
	// Tags are added to every note
	Tags []string
}

// DefaultExportOptions returns the options used by the web and batch exports
func DefaultExportOptions() *ExportOptions {
	return &ExportOptions{
		IncludeHeaders: true,
		Tags:           []string{"wordcard"},
	}
}

// NoteFor builds the note of a record. The front shows the word with its
// phonetic, the back the meaning, the collocation and the example.
func NoteFor(rec wordstore.Record) Note {
	front := html.EscapeString(rec.Word)
	if rec.Phonetic != "" {
		front += "<br>" + html.EscapeString(rec.Phonetic)
	}

	var back []string
	if rec.Meaning != "" {
		back = append(back, html.EscapeString(rec.Meaning))
	}
	if rec.Collocation != "" {
		back = append(back, "<i>"+html.EscapeString(rec.Collocation)+"</i>")
	}
	if rec.Example != "" {
		back = append(back, html.EscapeString(rec.Example))
	}

	return Note{Front: front, Back: strings.Join(back, "<br>")}
}

// Export writes one note per record to w
func Export(w io.Writer, records []wordstore.Record, opts *ExportOptions) error {
	if opts == nil {
		opts = DefaultExportOptions()
	}
	tags := strings.Join(opts.Tags, " ")

	if opts.IncludeHeaders {
		header := "#separator:Comma\n#html:true\n"
		if tags != "" {
			header += "#tags column:3\n"
		}
		if _, err := io.WriteString(w, header); err != nil {
			return fmt.Errorf("failed to write headers: %w", err)
		}
	}

	writer := csv.NewWriter(w)
	for _, rec := range records {
		note := NoteFor(rec)
		row := []string{note.Front, note.Back}
		if tags != "" {
			row = append(row, tags)
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write note %q: %w", rec.Word, err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// Filename returns the export file name of a student's deck
func Filename(s render.Student) string {
	return strings.TrimSuffix(render.Filename(s), ".html") + "_anki.csv"
}
