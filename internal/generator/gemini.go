package generator

import (
	"context"
	"fmt"
	"sync"

	"google.golang.org/genai"

	"codeberg.org/snonux/wordcard/internal/wordstore"
)

// GeminiProvider generates records with Google Gemini
type GeminiProvider struct {
	config *Config

	mu     sync.Mutex
	client *genai.Client
}

// NewGemini creates a Gemini provider. The client is created lazily on the
// first request since it needs a context.
func NewGemini(config *Config) (*GeminiProvider, error) {
	if config.APIKey == "" {
		return nil, ErrNoAPIKey
	}
	if config.Model == "" || config.Model == DefaultOpenAIModel {
		config.Model = DefaultGeminiModel
	}
	if config.Timeout <= 0 {
		config.Timeout = DefaultTimeout
	}
	return &GeminiProvider{config: config}, nil
}

// Name returns the provider name
func (p *GeminiProvider) Name() string {
	return ProviderGemini
}

// Generate requests records for all words in a single call
func (p *GeminiProvider) Generate(ctx context.Context, words []string) ([]wordstore.Record, error) {
	if len(words) == 0 {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(ctx, p.config.Timeout)
	defer cancel()

	client, err := p.getClient(ctx)
	if err != nil {
		return nil, err
	}

	resp, err := client.Models.GenerateContent(ctx, p.config.Model, genai.Text(UserMessage(words)), &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(SystemPrompt, genai.RoleUser),
		ResponseMIMEType:  "application/json",
		Temperature:       genai.Ptr[float32](Temperature),
	})
	if err != nil {
		return nil, fmt.Errorf("gemini request failed: %w", err)
	}

	return ParseRecords(resp.Text())
}

func (p *GeminiProvider) getClient(ctx context.Context) (*genai.Client, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.client != nil {
		return p.client, nil
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  p.config.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	p.client = client
	return client, nil
}
