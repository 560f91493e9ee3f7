// Package datamuse lists English words by spelling pattern from the Datamuse API.
package datamuse

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/heartmarshall/plexicon/internal/adapter/provider/httpx"
	"github.com/heartmarshall/plexicon/internal/domain"
	"github.com/heartmarshall/plexicon/internal/provider"
)

const defaultBaseURL = "https://api.datamuse.com"

// apiWord is one element of the /words response.
type apiWord struct {
	Word  string   `json:"word"`
	Score int      `json:"score"`
	Tags  []string `json:"tags"`
}

// Provider queries the Datamuse /words endpoint.
type Provider struct {
	baseURL    string
	httpClient *http.Client
	log        *slog.Logger
}

// NewProvider creates a Provider. An empty baseURL selects the public API.
func NewProvider(baseURL string, logger *slog.Logger, timeout time.Duration) *Provider {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Provider{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpx.NewClient(timeout),
		log:        logger.With("adapter", "datamuse"),
	}
}

// ListCandidates returns up to limit words spelled "<letter>*", annotated with
// their parts of speech. Candidate.Tags is never nil: an empty slice means
// Datamuse knows no part of speech for the word.
func (p *Provider) ListCandidates(ctx context.Context, letter domain.Letter, limit int) ([]provider.Candidate, error) {
	q := url.Values{}
	q.Set("sp", letter.Lower()+"*")
	q.Set("max", strconv.Itoa(limit))
	q.Set("md", "p")
	reqURL := p.baseURL + "/words?" + q.Encode()

	p.log.DebugContext(ctx, "datamuse request", slog.String("letter", letter.String()), slog.Int("max", limit))

	status, body, err := httpx.Get(ctx, p.httpClient, reqURL)
	if err != nil {
		return nil, fmt.Errorf("datamuse: %w", err)
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("datamuse: %w: status %d", domain.ErrUpstream, status)
	}

	var words []apiWord
	if err := json.Unmarshal(body, &words); err != nil {
		return nil, fmt.Errorf("datamuse: decode json: %w", err)
	}

	out := make([]provider.Candidate, 0, len(words))
	for _, w := range words {
		text := strings.TrimSpace(w.Word)
		if text == "" {
			continue
		}
		out = append(out, provider.Candidate{Text: text, Tags: partsOfSpeech(w.Tags)})
	}

	p.log.DebugContext(ctx, "datamuse response", slog.Int("words", len(out)))

	return out, nil
}

// partsOfSpeech keeps only the part-of-speech tags Datamuse emits for md=p
// (n, v, adj, adv). Frequency and pronunciation tags are dropped.
func partsOfSpeech(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		switch t {
		case "n", "v", "adj", "adv":
			out = append(out, t)
		}
	}
	return out
}
