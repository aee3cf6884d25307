package generator

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/snonux/wordcard/internal/wordstore"
)

func TestParseRecords(t *testing.T) {
	collocation := wordstore.Record{
		Word:        "collocation",
		Phonetic:    "/ˌkɒləˈkeɪʃn/",
		Meaning:     "n. 搭配",
		Example:     "This is a common collocation.这是一个常见搭配。",
		Collocation: "common collocation",
	}

	tests := []struct {
		name    string
		content string
		want    []wordstore.Record
	}{
		{
			name:    "array",
			content: `[{"Word":"collocation","Phonetic":"/ˌkɒləˈkeɪʃn/","Meaning":"n. 搭配","Example":"This is a common collocation.这是一个常见搭配。","Collocation":"common collocation"}]`,
			want:    []wordstore.Record{collocation},
		},
		{
			name:    "words key",
			content: `{"words":[{"Word":"collocation","Phonetic":"/ˌkɒləˈkeɪʃn/","Meaning":"n. 搭配","Example":"This is a common collocation.这是一个常见搭配。","Collocation":"common collocation"}]}`,
			want:    []wordstore.Record{collocation},
		},
		{
			name:    "data key",
			content: `{"data":[{"Word":"a"},{"Word":"b"}]}`,
			want:    []wordstore.Record{{Word: "a"}, {Word: "b"}},
		},
		{
			name:    "words key wins over data",
			content: `{"data":[{"Word":"b"}],"words":[{"Word":"a"}]}`,
			want:    []wordstore.Record{{Word: "a"}},
		},
		{
			name:    "list key must hold an array",
			content: `{"words":"nope","list":[{"Word":"a"}]}`,
			want:    []wordstore.Record{{Word: "a"}},
		},
		{
			name:    "unknown object",
			content: `{"foo":1}`,
			want:    []wordstore.Record{},
		},
		{
			name:    "scalar",
			content: `42`,
			want:    []wordstore.Record{},
		},
		{
			name:    "entries without word are dropped",
			content: `[{"Meaning":"n. 无"},{"Word":"  "},{"Word":"ok"},"text"]`,
			want:    []wordstore.Record{{Word: "ok"}},
		},
		{
			name:    "non string values",
			content: `[{"Word":"seven","Meaning":7,"Example":null,"Collocation":["a","b"]}]`,
			want:    []wordstore.Record{{Word: "seven", Meaning: "7", Collocation: `["a","b"]`}},
		},
		{
			name:    "extra keys kept",
			content: `[{"Word":"ok","Level":"B2"}]`,
			want:    []wordstore.Record{{Word: "ok", Extra: map[string]string{"Level": "B2"}}},
		},
		{
			name:    "code fence",
			content: "```json\n[{\"Word\":\"ok\"}]\n```",
			want:    []wordstore.Record{{Word: "ok"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRecords(tt.content)
			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ParseRecords() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseRecordsInvalidJSON(t *testing.T) {
	for _, content := range []string{"", "not json", `[{"Word":`} {
		_, err := ParseRecords(content)
		assert.Error(t, err, "content %q", content)
	}
}

func TestUserMessage(t *testing.T) {
	assert.Equal(t, `Words: ["w1","w2"]`, UserMessage([]string{"w1", "w2"}))
	assert.Equal(t, `Words: []`, UserMessage([]string{}))
}

func TestSystemPrompt(t *testing.T) {
	for _, want := range []string{"ONLY valid JSON", `"Word"`, `"Collocation"`, "CHINESE only", "Chinese translation"} {
		assert.Contains(t, SystemPrompt, want)
	}
}

func TestNew(t *testing.T) {
	_, err := New(&Config{Provider: ProviderOpenAI})
	assert.ErrorIs(t, err, ErrNoAPIKey)

	_, err = New(&Config{Provider: ProviderGemini})
	assert.ErrorIs(t, err, ErrNoAPIKey)

	_, err = New(&Config{Provider: "nope", APIKey: "k"})
	assert.Error(t, err)

	gen, err := New(&Config{Provider: ProviderOpenAI, APIKey: "k"})
	require.NoError(t, err)
	assert.IsType(t, &OpenAIProvider{}, gen)

	gen, err = New(&Config{Provider: ProviderOpenAI, APIKey: "k", BreakerFailures: 2})
	require.NoError(t, err)
	assert.IsType(t, &Breaker{}, gen)
	assert.Equal(t, ProviderOpenAI, gen.Name())

	gen, err = New(&Config{Provider: ProviderGemini, APIKey: "k"})
	require.NoError(t, err)
	assert.Equal(t, ProviderGemini, gen.Name())
	assert.Equal(t, DefaultGeminiModel, gen.(*GeminiProvider).config.Model)
}

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()
	assert.Equal(t, ProviderOpenAI, config.Provider)
	assert.Equal(t, "https://api.deepseek.com", config.BaseURL)
	assert.Equal(t, "deepseek-chat", config.Model)
	assert.Equal(t, DefaultTimeout, config.Timeout)
}

func TestUnavailable(t *testing.T) {
	gen := Unavailable(ErrNoAPIKey)

	records, err := gen.Generate(context.Background(), nil)
	assert.NoError(t, err)
	assert.Nil(t, records)

	_, err = gen.Generate(context.Background(), []string{"x"})
	assert.True(t, errors.Is(err, ErrNoAPIKey))
}
