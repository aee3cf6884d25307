package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"math/rand"
	"regexp"
	"strings"
	"sync"
	"time"

	"codeberg.org/snonux/wordcard/internal"
	"codeberg.org/snonux/wordcard/internal/wordstore"
)

//go:embed templates/deck.html
var templateFS embed.FS

// Blank replaces the word in the cloze sentence
const Blank = "_______"

// PrintTip is shown above the preview deck
const PrintTip = `打印提示：A4纸 + 勾选"背景图形"`

// Layout defaults
const (
	DefaultCardsPerPage = 5
	DefaultReviewRows   = 4
	PrintDelay          = 800 // milliseconds before the print dialog opens
	DateLayout          = "2006-01-02"
)

var deckTemplate = template.Must(template.New("deck.html").Funcs(template.FuncMap{
	"join": func(words []string) string { return strings.Join(words, " • ") },
}).ParseFS(templateFS, "templates/deck.html"))

// Student identifies whose deck is rendered
type Student struct {
	Class   string
	Name    string
	ListNum string
}

// Options tune the layout. Zero values select the defaults.
type Options struct {
	CardsPerPage int
	ReviewRows   int

	// Seed makes the review strip reproducible. Zero shuffles randomly.
	Seed int64

	// Now returns the date printed in the page header
	Now func() time.Time
}

// Renderer produces the HTML card deck
type Renderer struct {
	opts Options

	mu  sync.Mutex
	rng *rand.Rand
}

// New creates a renderer
func New(opts Options) *Renderer {
	if opts.CardsPerPage <= 0 {
		opts.CardsPerPage = DefaultCardsPerPage
	}
	if opts.ReviewRows <= 0 {
		opts.ReviewRows = DefaultReviewRows
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Renderer{opts: opts, rng: rand.New(rand.NewSource(seed))}
}

type card struct {
	Word        string
	Phonetic    string
	Meaning     string
	Cloze       string
	Collocation string
	Sentence    string
}

type page struct {
	Number int
	Total  int
	Cards  []card
	Review [][]string
}

type deck struct {
	Student    Student
	Date       string
	Print      bool
	Tip        string
	PrintDelay int
	Pages      []page
}

// Render builds the deck. In print mode every page gets a review strip and
// the document opens the print dialog when loaded.
func (r *Renderer) Render(records []wordstore.Record, student Student, printMode bool) (string, error) {
	chunks := Paginate(records, r.opts.CardsPerPage)

	d := deck{
		Student:    student,
		Date:       r.opts.Now().Format(DateLayout),
		Print:      printMode,
		Tip:        PrintTip,
		PrintDelay: PrintDelay,
		Pages:      make([]page, len(chunks)),
	}

	for i, chunk := range chunks {
		p := page{Number: i + 1, Total: len(chunks), Cards: make([]card, len(chunk))}
		words := make([]string, len(chunk))
		for j, rec := range chunk {
			p.Cards[j] = card{
				Word:        rec.Word,
				Phonetic:    rec.Phonetic,
				Meaning:     rec.Meaning,
				Cloze:       Mask(rec.Example, rec.Word),
				Collocation: rec.Collocation,
				Sentence:    ExtractEnglish(rec.Example),
			}
			words[j] = rec.Word
		}
		if printMode {
			p.Review = r.review(words)
		}
		d.Pages[i] = p
	}

	var buf bytes.Buffer
	if err := deckTemplate.Execute(&buf, d); err != nil {
		return "", fmt.Errorf("failed to render card deck: %w", err)
	}
	return buf.String(), nil
}

// review returns independently shuffled copies of the page's words
func (r *Renderer) review(words []string) [][]string {
	if len(words) == 0 {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	rows := make([][]string, r.opts.ReviewRows)
	for i := range rows {
		line := append([]string(nil), words...)
		r.rng.Shuffle(len(line), func(a, b int) {
			line[a], line[b] = line[b], line[a]
		})
		rows[i] = line
	}
	return rows
}

// Paginate splits records into pages of at most size cards
func Paginate(records []wordstore.Record, size int) [][]wordstore.Record {
	if size <= 0 {
		size = DefaultCardsPerPage
	}
	var pages [][]wordstore.Record
	for start := 0; start < len(records); start += size {
		end := start + size
		if end > len(records) {
			end = len(records)
		}
		pages = append(pages, records[start:end])
	}
	return pages
}

// Mask blanks every case-insensitive occurrence of word in example
func Mask(example, word string) string {
	if word == "" {
		return example
	}
	re := regexp.MustCompile("(?i)" + regexp.QuoteMeta(word))
	return re.ReplaceAllLiteralString(example, Blank)
}

// ExtractEnglish returns the part of example before the first Chinese
// character, or example itself when it has none
func ExtractEnglish(example string) string {
	for i, r := range example {
		if r >= 0x4E00 && r <= 0x9FA5 {
			return strings.TrimSpace(example[:i])
		}
	}
	return example
}

// Filename returns the download name of a student's deck
func Filename(s Student) string {
	return internal.CardFilename(s.Class, s.Name, s.ListNum)
}
