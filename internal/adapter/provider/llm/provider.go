// Package llm asks the Anthropic Messages API for words and decoy lists.
package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/heartmarshall/plexicon/internal/domain"
	"github.com/heartmarshall/plexicon/internal/provider"
)

// Config holds the client settings.
type Config struct {
	APIKey    string
	BaseURL   string
	Model     string
	MaxTokens int64
	Timeout   time.Duration
}

// Provider wraps an Anthropic client. Each call is a single attempt.
type Provider struct {
	client    anthropic.Client
	model     string
	maxTokens int64
	log       *slog.Logger
}

// NewProvider creates a Provider with SDK retries disabled.
func NewProvider(cfg Config, logger *slog.Logger) *Provider {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(cfg.Timeout))
	}

	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 512
	}

	return &Provider{
		client:    anthropic.NewClient(opts...),
		model:     cfg.Model,
		maxTokens: maxTokens,
		log:       logger.With("adapter", "llm"),
	}
}

// GenerateWord asks for one word starting with letter, with its definition
// and part of speech written in lang. The reply is decoded but not validated.
func (p *Provider) GenerateWord(ctx context.Context, letter domain.Letter, lang domain.Language) (*provider.GeneratedWord, error) {
	text, err := p.complete(ctx, buildWordPrompt(letter, lang))
	if err != nil {
		return nil, fmt.Errorf("llm: generate word: %w", err)
	}

	jsonStr, err := extractJSON(text)
	if err != nil {
		return nil, fmt.Errorf("llm: generate word: %w", err)
	}

	var out provider.GeneratedWord
	if err := json.Unmarshal([]byte(jsonStr), &out); err != nil {
		return nil, fmt.Errorf("llm: generate word: decode json: %w", err)
	}

	p.log.DebugContext(ctx, "word generated",
		slog.String("letter", letter.String()),
		slog.String("language", lang.String()),
		slog.String("word", out.Word),
	)

	return &out, nil
}

// GenerateDecoys asks for count common words starting with letter.
func (p *Provider) GenerateDecoys(ctx context.Context, letter domain.Letter, count int, lang domain.Language) ([]string, error) {
	text, err := p.complete(ctx, buildDecoyPrompt(letter, count, lang))
	if err != nil {
		return nil, fmt.Errorf("llm: generate decoys: %w", err)
	}

	jsonStr, err := extractJSONArray(text)
	if err != nil {
		return nil, fmt.Errorf("llm: generate decoys: %w", err)
	}

	var words []string
	if err := json.Unmarshal([]byte(jsonStr), &words); err != nil {
		return nil, fmt.Errorf("llm: generate decoys: decode json: %w", err)
	}
	return words, nil
}

// complete sends one user message and returns the concatenated text blocks.
func (p *Provider) complete(ctx context.Context, prompt string) (string, error) {
	msg, err := p.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(p.model),
		MaxTokens: p.maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("api call: %w", err)
	}

	var b strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}
	if b.Len() == 0 {
		return "", fmt.Errorf("empty response")
	}
	return b.String(), nil
}

func buildWordPrompt(letter domain.Letter, lang domain.Language) string {
	return fmt.Sprintf(`Generate one interesting, valid word that starts with the letter '%s'.
The language must be %s.
Provide its definition and part of speech in %s.
Avoid extremely obscure words; prefer words a well-read person would know.

Output ONLY a JSON object matching this exact schema:
{"word": "<the word>", "definition": "<a clear dictionary definition>", "partOfSpeech": "<noun, verb, etc.>"}`,
		letter, lang, lang)
}

func buildDecoyPrompt(letter domain.Letter, count int, lang domain.Language) string {
	return fmt.Sprintf(`Provide a list of %d common words in %s that start with the letter '%s'.
Output ONLY a JSON array of strings, no markdown, no explanations.`,
		count, lang, letter)
}

// extractJSON finds the outermost JSON object in a string.
func extractJSON(s string) (string, error) {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start == -1 || end == -1 || end <= start {
		return "", fmt.Errorf("no JSON object found in response")
	}
	return s[start : end+1], nil
}

// extractJSONArray finds the outermost JSON array in a string.
func extractJSONArray(s string) (string, error) {
	start := strings.Index(s, "[")
	end := strings.LastIndex(s, "]")
	if start == -1 || end == -1 || end <= start {
		return "", fmt.Errorf("no JSON array found in response")
	}
	return s[start : end+1], nil
}
