package freedict

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/heartmarshall/plexicon/internal/adapter/provider/httpx"
	"github.com/heartmarshall/plexicon/internal/domain"
	"github.com/heartmarshall/plexicon/internal/provider"
)

const defaultBaseURL = "https://api.dictionaryapi.dev/api/v2/entries/en"

// Provider fetches English definitions from the FreeDictionary API.
type Provider struct {
	baseURL    string
	httpClient *http.Client
	log        *slog.Logger
}

// NewProvider creates a Provider with the default FreeDictionary API URL.
func NewProvider(logger *slog.Logger, timeout time.Duration) *Provider {
	return NewProviderWithURL(defaultBaseURL, logger, timeout)
}

// NewProviderWithURL creates a Provider with a custom base URL.
func NewProviderWithURL(baseURL string, logger *slog.Logger, timeout time.Duration) *Provider {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Provider{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpx.NewClient(timeout),
		log:        logger.With("adapter", "freedict"),
	}
}

// FetchDefinition returns the first definition of the first meaning of word.
// Returns nil, nil if the word is not found (HTTP 404) or has no definitions.
func (p *Provider) FetchDefinition(ctx context.Context, word string) (*provider.DefinitionResult, error) {
	reqURL := p.baseURL + "/" + url.PathEscape(strings.ToLower(word))

	p.log.DebugContext(ctx, "freedict request", slog.String("word", word))

	status, body, err := httpx.Get(ctx, p.httpClient, reqURL)
	if err != nil {
		return nil, fmt.Errorf("freedict: %w", err)
	}

	if status == http.StatusNotFound {
		return nil, nil
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("freedict: %w: status %d", domain.ErrUpstream, status)
	}

	var entries []apiEntry
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, fmt.Errorf("freedict: decode json: %w", err)
	}

	result := mapAPIResponse(entries)

	p.log.DebugContext(ctx, "freedict response",
		slog.String("word", word),
		slog.Bool("found", result != nil),
	)

	return result, nil
}

// mapAPIResponse picks the first non-empty definition across all entries,
// in API order, together with its meaning's part of speech.
func mapAPIResponse(entries []apiEntry) *provider.DefinitionResult {
	for _, entry := range entries {
		for _, meaning := range entry.Meanings {
			for _, def := range meaning.Definitions {
				text := strings.TrimSpace(def.Definition)
				if text == "" {
					continue
				}
				return &provider.DefinitionResult{
					Word:         entry.Word,
					Text:         text,
					PartOfSpeech: meaning.PartOfSpeech,
				}
			}
		}
	}
	return nil
}
