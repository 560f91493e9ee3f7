// Package wiktionary talks to the MediaWiki Action API of a Wiktionary
// edition: opensearch for word lists, plain-text extracts for definitions.
package wiktionary

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/heartmarshall/plexicon/internal/adapter/provider/httpx"
	"github.com/heartmarshall/plexicon/internal/domain"
	"github.com/heartmarshall/plexicon/internal/provider"
)

// DefaultEndpointTemplate is formatted with the language code (es, it).
const DefaultEndpointTemplate = "https://%s.wiktionary.org/w/api.php"

// Endpoint formats the api.php URL of the given language's edition.
// An empty template selects DefaultEndpointTemplate.
func Endpoint(template string, lang domain.Language) string {
	if template == "" {
		template = DefaultEndpointTemplate
	}
	if !strings.Contains(template, "%s") {
		return template
	}
	return fmt.Sprintf(template, lang.Code())
}

// Provider queries one Wiktionary edition.
type Provider struct {
	endpoint   string
	httpClient *http.Client
	log        *slog.Logger
}

// NewProvider creates a Provider for the api.php endpoint.
func NewProvider(endpoint string, logger *slog.Logger, timeout time.Duration) *Provider {
	return &Provider{
		endpoint:   endpoint,
		httpClient: httpx.NewClient(timeout),
		log:        logger.With("adapter", "wiktionary", "endpoint", endpoint),
	}
}

// ListCandidates runs an opensearch for titles prefixed with the letter.
// Wiktionary does not annotate parts of speech, so Tags is always nil.
func (p *Provider) ListCandidates(ctx context.Context, letter domain.Letter, limit int) ([]provider.Candidate, error) {
	q := url.Values{}
	q.Set("action", "opensearch")
	q.Set("search", letter.Lower())
	q.Set("limit", strconv.Itoa(limit))
	q.Set("format", "json")

	body, err := p.get(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("wiktionary: opensearch: %w", err)
	}

	// opensearch answers [query, [titles], [descriptions], [urls]].
	titles := gjson.GetBytes(body, "1")
	if !titles.IsArray() {
		return nil, fmt.Errorf("wiktionary: opensearch: titles missing")
	}

	out := make([]provider.Candidate, 0, len(titles.Array()))
	for _, t := range titles.Array() {
		text := strings.TrimSpace(t.String())
		if text == "" {
			continue
		}
		out = append(out, provider.Candidate{Text: text})
	}

	p.log.DebugContext(ctx, "opensearch response",
		slog.String("letter", letter.String()),
		slog.Int("titles", len(out)),
	)

	return out, nil
}

// FetchDefinition returns the plain-text intro extract of the word's page and
// its short description, which Wiktionary editions use as a part-of-speech
// label. Returns nil, nil when the page does not exist.
func (p *Provider) FetchDefinition(ctx context.Context, word string) (*provider.DefinitionResult, error) {
	q := url.Values{}
	q.Set("action", "query")
	q.Set("prop", "extracts|description")
	q.Set("exintro", "1")
	q.Set("explaintext", "1")
	q.Set("titles", word)
	q.Set("format", "json")

	body, err := p.get(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("wiktionary: query: %w", err)
	}

	// query.pages is keyed by page id, "-1" for missing titles.
	var page gjson.Result
	gjson.GetBytes(body, "query.pages").ForEach(func(_, value gjson.Result) bool {
		page = value
		return false
	})

	if !page.Exists() || page.Get("missing").Exists() {
		p.log.DebugContext(ctx, "page not found", slog.String("word", word))
		return nil, nil
	}

	result := &provider.DefinitionResult{
		Word:         page.Get("title").String(),
		Text:         page.Get("extract").String(),
		PartOfSpeech: strings.TrimSpace(page.Get("description").String()),
	}

	p.log.DebugContext(ctx, "query response",
		slog.String("word", word),
		slog.Int("extract_len", len(result.Text)),
	)

	return result, nil
}

func (p *Provider) get(ctx context.Context, q url.Values) ([]byte, error) {
	status, body, err := httpx.Get(ctx, p.httpClient, p.endpoint+"?"+q.Encode())
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", domain.ErrUpstream, status)
	}
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("invalid json")
	}
	return body, nil
}
