package generator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"codeberg.org/snonux/wordcard/internal/wordstore"
)

// ErrNoAPIKey is returned when the selected provider has no API key configured
var ErrNoAPIKey = errors.New("no API key configured for word generation")

// SystemPrompt is the fixed instruction sent with every request
const SystemPrompt = `You are an English teacher. Output ONLY valid JSON.
JSON format: [{"Word": "...", "Phonetic": "...", "Meaning": "...", "Example": "...", "Collocation": "..."}]
1. "Meaning": MUST be in CHINESE only (n./v. + 中文意思)
2. "Example": English sentence + Chinese translation (no extra space)`

// Provider names
const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

// Default endpoint settings
const (
	DefaultBaseURL     = "https://api.deepseek.com"
	DefaultOpenAIModel = "deepseek-chat"
	DefaultGeminiModel = "gemini-2.5-flash"
	DefaultTimeout     = 60 * time.Second
	Temperature        = 0.1
)

// Generator produces records for words the table does not know
type Generator interface {
	// Generate returns one record per word the model answered for. It makes
	// at most one request per call and never persists anything.
	Generate(ctx context.Context, words []string) ([]wordstore.Record, error)

	// Name returns the provider name
	Name() string
}

// Config selects and configures a provider
type Config struct {
	Provider string
	APIKey   string
	Model    string
	BaseURL  string
	Timeout  time.Duration

	// BreakerFailures opens the circuit breaker after that many consecutive
	// failures. Zero disables the breaker.
	BreakerFailures uint32
	BreakerCooldown time.Duration
}

// DefaultConfig returns the DeepSeek configuration
func DefaultConfig() *Config {
	return &Config{
		Provider:        ProviderOpenAI,
		Model:           DefaultOpenAIModel,
		BaseURL:         DefaultBaseURL,
		Timeout:         DefaultTimeout,
		BreakerFailures: 3,
		BreakerCooldown: 30 * time.Second,
	}
}

// New creates the configured provider, wrapped in a breaker when enabled
func New(config *Config) (Generator, error) {
	if config == nil {
		config = DefaultConfig()
	}

	var (
		gen Generator
		err error
	)
	switch config.Provider {
	case ProviderOpenAI, "deepseek", "":
		gen, err = NewOpenAI(config)
	case ProviderGemini:
		gen, err = NewGemini(config)
	default:
		return nil, fmt.Errorf("unknown generator provider: %s", config.Provider)
	}
	if err != nil {
		return nil, err
	}

	if config.BreakerFailures > 0 {
		gen = NewBreaker(gen, config.BreakerFailures, config.BreakerCooldown)
	}
	return gen, nil
}

// UserMessage builds the request body listing the words to generate
func UserMessage(words []string) string {
	encoded, _ := json.Marshal(words)
	return "Words: " + string(encoded)
}

// ParseRecords decodes a model response. A JSON array is taken as the record
// list; an object is unwrapped through its "words", "list" or "data" key.
// Anything else valid yields no records.
func ParseRecords(content string) ([]wordstore.Record, error) {
	content = stripFence(content)

	dec := json.NewDecoder(strings.NewReader(content))
	dec.UseNumber()

	var data interface{}
	if err := dec.Decode(&data); err != nil {
		return nil, fmt.Errorf("invalid JSON in model response: %w", err)
	}

	var items []interface{}
	switch v := data.(type) {
	case []interface{}:
		items = v
	case map[string]interface{}:
		for _, key := range []string{"words", "list", "data"} {
			if list, ok := v[key].([]interface{}); ok {
				items = list
				break
			}
		}
	}

	records := make([]wordstore.Record, 0, len(items))
	for _, item := range items {
		obj, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		var r wordstore.Record
		for key, value := range obj {
			r.Set(key, stringify(value))
		}
		if r.Key() == "" {
			continue
		}
		r.Word = strings.TrimSpace(r.Word)
		records = append(records, r)
	}
	return records, nil
}

// stripFence removes a markdown code fence some models put around JSON
func stripFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimPrefix(s, "json")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func stringify(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case json.Number:
		return val.String()
	case bool:
		if val {
			return "true"
		}
		return "false"
	default:
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		if err := enc.Encode(val); err != nil {
			return fmt.Sprint(val)
		}
		return strings.TrimSpace(buf.String())
	}
}

// Unavailable returns a generator whose every non-empty request fails with
// err. It stands in for a provider that could not be configured, e.g. for
// lack of an API key, so lookups of known words keep working.
func Unavailable(err error) Generator {
	return unavailable{err: err}
}

type unavailable struct {
	err error
}

func (u unavailable) Name() string {
	return "unavailable"
}

func (u unavailable) Generate(_ context.Context, words []string) ([]wordstore.Record, error) {
	if len(words) == 0 {
		return nil, nil
	}
	return nil, u.err
}
