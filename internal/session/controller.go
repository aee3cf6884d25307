package session

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode"

	"go.uber.org/zap"

	"codeberg.org/snonux/wordcard/internal/anki"
	"codeberg.org/snonux/wordcard/internal/generator"
	"codeberg.org/snonux/wordcard/internal/history"
	"codeberg.org/snonux/wordcard/internal/render"
	"codeberg.org/snonux/wordcard/internal/spell"
	"codeberg.org/snonux/wordcard/internal/wordstore"
)

// Errors returned by controller actions
var (
	ErrEmptyInput = errors.New("请输入单词")
	ErrNoIdentity = errors.New("请先填写班级、姓名和List编号")
	ErrEmptyList  = errors.New("当前列表为空")
)

// Correction is a token replaced by a known word
type Correction struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// SubmitResult describes what a submission did
type SubmitResult struct {
	Requested int `json:"requested"`
	Added     int `json:"added"`

	Found       []string     `json:"found"`
	Corrections []Correction `json:"corrections"`
	// Suggestions are near misses that were not substituted because
	// auto-correction is off
	Suggestions []Correction `json:"suggestions,omitempty"`
	Generated   []string     `json:"generated"`
	Unresolved  []string     `json:"unresolved"`

	GenerationErr error `json:"-"`
}

// Summary formats the result as a status message
func (r *SubmitResult) Summary() string {
	var lines []string
	if r.Added > 0 {
		lines = append(lines, fmt.Sprintf("成功添加 %d 个单词", r.Added))
	} else if len(r.Corrections) == 0 && len(r.Unresolved) == 0 && r.GenerationErr == nil {
		lines = append(lines, "已全部存在，无需重复添加")
	}
	if len(r.Corrections) > 0 {
		parts := make([]string, len(r.Corrections))
		for i, c := range r.Corrections {
			parts[i] = fmt.Sprintf("'%s' → '%s'", c.From, c.To)
		}
		lines = append(lines, "已自动纠正以下拼写错误的单词："+strings.Join(parts, ", "))
	}
	if len(r.Suggestions) > 0 {
		parts := make([]string, len(r.Suggestions))
		for i, c := range r.Suggestions {
			parts[i] = fmt.Sprintf("'%s' → '%s'?", c.From, c.To)
		}
		lines = append(lines, "可能的拼写错误："+strings.Join(parts, ", "))
	}
	if r.GenerationErr != nil {
		lines = append(lines, fmt.Sprintf("AI 生成失败: %v", r.GenerationErr))
	} else if len(r.Unresolved) > 0 {
		lines = append(lines, "未能生成："+strings.Join(r.Unresolved, ", "))
	}
	return strings.Join(lines, "；")
}

// Deck is a rendered card deck ready for download
type Deck struct {
	Filename string
	HTML     string
	Words    []string
}

// AnkiFile is the working list exported for Anki
type AnkiFile struct {
	Filename string
	Data     []byte
	Words    []string
}

// Speller suggests known words close to a token
type Speller interface {
	Suggest(token string, known []string) ([]string, error)
}

// Config wires the controller to its collaborators
type Config struct {
	Words     *wordstore.Store
	Speller   Speller
	Generator generator.Generator
	Renderer  *render.Renderer
	History   *history.Log
	Logger    *zap.Logger

	// AutoCorrect substitutes the closest known word for a typo. When
	// false the near miss is only reported and the token is generated.
	AutoCorrect bool

	Now func() time.Time
}

// Controller performs session actions. Actions are serialized; one runs to
// completion before the next starts.
type Controller struct {
	mu sync.Mutex

	words       *wordstore.Store
	speller     Speller
	gen         generator.Generator
	renderer    *render.Renderer
	history     *history.Log
	logger      *zap.Logger
	autoCorrect bool
	now         func() time.Time
}

// NewController creates a controller
func NewController(cfg Config) *Controller {
	c := &Controller{
		words:       cfg.Words,
		speller:     cfg.Speller,
		gen:         cfg.Generator,
		renderer:    cfg.Renderer,
		history:     cfg.History,
		logger:      cfg.Logger,
		autoCorrect: cfg.AutoCorrect,
		now:         cfg.Now,
	}
	if c.speller == nil {
		c.speller = spell.NewCorrector()
	}
	if c.gen == nil {
		c.gen = generator.Unavailable(generator.ErrNoAPIKey)
	}
	if c.renderer == nil {
		c.renderer = render.New(render.Options{})
	}
	if c.logger == nil {
		c.logger = zap.NewNop()
	}
	if c.now == nil {
		c.now = time.Now
	}
	return c
}

// SetIdentity selects the student. Switching to a different student starts
// an empty working list; selecting the current student again changes nothing.
func (c *Controller) SetIdentity(sess *Session, id Identity) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	id = id.Normalize()
	if err := id.Validate(); err != nil {
		return err
	}
	if sess.Identity == id {
		return nil
	}

	sess.Identity = id
	sess.List.Clear()
	sess.State = InputPending
	sess.SetFlash("已切换到 " + id.String())

	c.logger.Info("Student selected",
		zap.String("session", sess.ID),
		zap.String("class", id.Class),
		zap.String("name", id.Name),
		zap.String("list", id.ListNum))
	return nil
}

// Logout forgets the student and the working list
func (c *Controller) Logout(sess *Session) {
	c.mu.Lock()
	defer c.mu.Unlock()

	sess.Identity = Identity{}
	sess.List.Clear()
	sess.State = Idle
	sess.SetFlash("")
}

// Clear empties the working list
func (c *Controller) Clear(sess *Session) {
	c.mu.Lock()
	defer c.mu.Unlock()

	sess.List.Clear()
	if !sess.Identity.IsZero() {
		sess.State = InputPending
	}
}

// Tokenize splits raw input on commas and whitespace. Tokens are lowercased
// and duplicates dropped, keeping the first occurrence.
func Tokenize(raw string) []string {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == '，' || unicode.IsSpace(r)
	})

	seen := make(map[string]bool, len(fields))
	var tokens []string
	for _, f := range fields {
		tok := strings.ToLower(strings.TrimSpace(f))
		if tok == "" || seen[tok] {
			continue
		}
		seen[tok] = true
		tokens = append(tokens, tok)
	}
	return tokens
}

// Submit resolves the words in raw and appends them to the working list.
// Known words are taken from the table, typos are corrected against it and
// the remaining words are generated in a single request and saved. A failed
// generation is reported in the result; the words that did resolve are
// still added.
func (c *Controller) Submit(ctx context.Context, sess *Session, raw string) (*SubmitResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if sess.Identity.IsZero() {
		return nil, ErrNoIdentity
	}
	tokens := Tokenize(raw)
	if len(tokens) == 0 {
		return nil, ErrEmptyInput
	}

	prev := sess.State
	sess.State = Resolving

	result, resolved, err := c.resolve(ctx, tokens)
	if err != nil {
		sess.State = prev
		return nil, err
	}

	result.Added = sess.List.Add(resolved...)
	if sess.List.Len() > 0 {
		sess.State = Ready
	} else {
		sess.State = InputPending
	}
	sess.SetFlash(result.Summary())

	c.logger.Info("Words submitted",
		zap.String("session", sess.ID),
		zap.Int("requested", result.Requested),
		zap.Int("added", result.Added),
		zap.Int("corrected", len(result.Corrections)),
		zap.Int("generated", len(result.Generated)),
		zap.Int("unresolved", len(result.Unresolved)))
	return result, nil
}

// resolve maps tokens to records in token order
func (c *Controller) resolve(ctx context.Context, tokens []string) (*SubmitResult, []wordstore.Record, error) {
	idx, err := c.words.Load()
	if err != nil {
		return nil, nil, err
	}
	known := idx.Words()

	result := &SubmitResult{Requested: len(tokens)}
	slots := make([]*wordstore.Record, len(tokens))
	var missing []string
	pending := make(map[string]int)

	for i, tok := range tokens {
		if rec, ok := idx.Lookup(tok); ok {
			slots[i] = &rec
			result.Found = append(result.Found, tok)
			continue
		}

		// Every lookup miss is spell checked once, novel words included
		suggestions, err := c.speller.Suggest(tok, known)
		if err != nil {
			return nil, nil, err
		}
		if len(suggestions) > 0 {
			corr := Correction{From: tok, To: suggestions[0]}
			if c.autoCorrect {
				rec, _ := idx.Lookup(corr.To)
				slots[i] = &rec
				result.Corrections = append(result.Corrections, corr)
				continue
			}
			result.Suggestions = append(result.Suggestions, corr)
		}

		pending[tok] = i
		missing = append(missing, tok)
	}

	var extra []wordstore.Record
	if len(missing) > 0 {
		generated, err := c.gen.Generate(ctx, missing)
		if err != nil {
			c.logger.Warn("Word generation failed",
				zap.Strings("words", missing),
				zap.Error(err))
			result.GenerationErr = err
		}

		if len(generated) > 0 {
			if err := c.words.Upsert(generated); err != nil {
				return nil, nil, err
			}
		}

		for _, rec := range generated {
			if i, ok := pending[rec.Key()]; ok {
				slots[i] = &rec
				delete(pending, rec.Key())
				result.Generated = append(result.Generated, rec.Word)
				continue
			}
			extra = append(extra, rec)
		}
		for _, tok := range missing {
			if _, ok := pending[tok]; ok {
				result.Unresolved = append(result.Unresolved, tok)
			}
		}
	}

	resolved := make([]wordstore.Record, 0, len(tokens)+len(extra))
	for _, rec := range slots {
		if rec != nil {
			resolved = append(resolved, *rec)
		}
	}
	return result, append(resolved, extra...), nil
}

// Preview renders the working list for on-screen viewing
func (c *Controller) Preview(sess *Session) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if sess.List.Len() == 0 {
		return "", ErrEmptyList
	}
	return c.renderer.Render(sess.List.Records(), sess.Identity.Student(), false)
}

// Download renders the print deck and logs one history row per word
func (c *Controller) Download(sess *Session) (*Deck, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if sess.Identity.IsZero() {
		return nil, ErrNoIdentity
	}
	if sess.List.Len() == 0 {
		return nil, ErrEmptyList
	}

	html, err := c.renderer.Render(sess.List.Records(), sess.Identity.Student(), true)
	if err != nil {
		return nil, err
	}

	id := sess.Identity
	words := sess.List.Words()
	if c.history != nil {
		records := history.NewRecords(id.Name, id.Class, id.ListNum, words, c.now())
		if err := c.history.Append(records); err != nil {
			return nil, err
		}
	}

	c.logger.Info("Deck downloaded",
		zap.String("session", sess.ID),
		zap.String("name", id.Name),
		zap.Int("words", len(words)))

	return &Deck{
		Filename: render.Filename(id.Student()),
		HTML:     html,
		Words:    words,
	}, nil
}

// ExportAnki returns the working list as an Anki import file. Exports are
// not recorded in the print history.
func (c *Controller) ExportAnki(sess *Session) (*AnkiFile, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if sess.Identity.IsZero() {
		return nil, ErrNoIdentity
	}
	if sess.List.Len() == 0 {
		return nil, ErrEmptyList
	}

	var buf bytes.Buffer
	if err := anki.Export(&buf, sess.List.Records(), anki.DefaultExportOptions()); err != nil {
		return nil, err
	}

	return &AnkiFile{
		Filename: anki.Filename(sess.Identity.Student()),
		Data:     buf.Bytes(),
		Words:    sess.List.Words(),
	}, nil
}

// History returns earlier prints for the current student and class
func (c *Controller) History(sess *Session) ([]history.PrintRecord, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if sess.Identity.IsZero() {
		return nil, ErrNoIdentity
	}
	if c.history == nil {
		return nil, nil
	}
	return c.history.ForStudent(sess.Identity.Name, sess.Identity.Class)
}
