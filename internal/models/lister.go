package models

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// Lister handles listing models of an OpenAI-compatible API
type Lister struct {
	apiKey  string
	baseURL string
	client  *openai.Client
}

// NewLister creates a new model lister. An empty baseURL selects OpenAI.
func NewLister(apiKey, baseURL string) *Lister {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	return &Lister{
		apiKey:  apiKey,
		baseURL: config.BaseURL,
		client:  openai.NewClientWithConfig(config),
	}
}

// nonChat marks model IDs that cannot generate word records
var nonChat = []string{"tts", "audio", "dall-e", "whisper", "embedding", "moderation", "image", "transcribe"}

// ChatModels returns the sorted IDs of the chat models
func (l *Lister) ChatModels(ctx context.Context) ([]string, error) {
	if l.apiKey == "" {
		return nil, fmt.Errorf("API key not found. Set DEEPSEEK_API_KEY or OPENAI_API_KEY, or configure generator.api_key in .wordcard.yaml")
	}

	models, err := l.client.ListModels(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list models: %w", err)
	}

	var chatModels []string
	for _, model := range models.Models {
		if isChatModel(model.ID) {
			chatModels = append(chatModels, model.ID)
		}
	}
	sort.Strings(chatModels)
	return chatModels, nil
}

// ListAvailableModels writes the chat models to w
func (l *Lister) ListAvailableModels(ctx context.Context, w io.Writer) error {
	chatModels, err := l.ChatModels(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "Chat models at %s:\n", l.baseURL)
	if len(chatModels) == 0 {
		fmt.Fprintln(w, "  No chat models found")
		return nil
	}
	for _, model := range chatModels {
		fmt.Fprintf(w, "  %s\n", model)
	}
	return nil
}

func isChatModel(id string) bool {
	id = strings.ToLower(id)
	for _, marker := range nonChat {
		if strings.Contains(id, marker) {
			return false
		}
	}
	return true
}
