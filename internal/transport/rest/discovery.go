package rest

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/heartmarshall/plexicon/internal/domain"
	"github.com/heartmarshall/plexicon/internal/service/reveal"
)

const (
	maxDecoyCount = 50
	maxBodyBytes  = 1 << 10
)

type revealer interface {
	Start(letter domain.Letter, lang domain.Language) bool
	Snapshot() reveal.Snapshot
}

type wordFetcher interface {
	FetchWord(ctx context.Context, letter domain.Letter, lang domain.Language) domain.WordRecord
}

type decoyFetcher interface {
	FetchDecoys(ctx context.Context, letter domain.Letter, count int, lang domain.Language) []string
}

type statsReader interface {
	Snapshot() domain.StatsRecord
}

// DiscoveryHandler serves the word discovery endpoints.
type DiscoveryHandler struct {
	reveal     revealer
	words      wordFetcher
	decoys     decoyFetcher
	stats      statsReader
	decoyCount int
	log        *slog.Logger
}

// NewDiscoveryHandler creates a DiscoveryHandler. decoyCount is the default
// batch size for GET /api/decoys.
func NewDiscoveryHandler(
	r revealer,
	words wordFetcher,
	decoys decoyFetcher,
	stats statsReader,
	decoyCount int,
	logger *slog.Logger,
) *DiscoveryHandler {
	return &DiscoveryHandler{
		reveal:     r,
		words:      words,
		decoys:     decoys,
		stats:      stats,
		decoyCount: clampCount(decoyCount),
		log:        logger.With("handler", "discovery"),
	}
}

type discoverRequest struct {
	Letter   string `json:"letter"`
	Language string `json:"language"`
}

type discoverResponse struct {
	Started bool            `json:"started"`
	Reveal  reveal.Snapshot `json:"reveal"`
}

type statsResponse struct {
	domain.StatsRecord
	Top      string `json:"top,omitempty"`
	TopCount int    `json:"topCount,omitempty"`
}

type decoysResponse struct {
	Letter   string          `json:"letter"`
	Language domain.Language `json:"language"`
	Decoys   []string        `json:"decoys"`
}

// Discover handles POST /api/discover. A cycle already loading is reported
// with started=false and the current snapshot.
func (h *DiscoveryHandler) Discover(w http.ResponseWriter, r *http.Request) {
	var req discoverRequest
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	letter, lang, err := parseSelection(req.Letter, req.Language)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	started := h.reveal.Start(letter, lang)
	if started {
		h.log.InfoContext(r.Context(), "discovery started",
			slog.String("letter", letter.String()),
			slog.String("language", lang.String()),
		)
	}
	writeJSON(w, http.StatusAccepted, discoverResponse{Started: started, Reveal: h.reveal.Snapshot()})
}

// Reveal handles GET /api/reveal.
func (h *DiscoveryHandler) Reveal(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.reveal.Snapshot())
}

// Word handles GET /api/word?letter=&language=. It bypasses pacing and stats.
func (h *DiscoveryHandler) Word(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	letter, lang, err := parseSelection(q.Get("letter"), q.Get("language"))
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h.words.FetchWord(r.Context(), letter, lang))
}

// Decoys handles GET /api/decoys?letter=&language=&count=.
func (h *DiscoveryHandler) Decoys(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	letter, lang, err := parseSelection(q.Get("letter"), q.Get("language"))
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	count := h.decoyCount
	if raw := q.Get("count"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			handleError(h.log, w, r, domain.NewValidationError("count", "must be an integer"))
			return
		}
		count = clampCount(n)
	}

	writeJSON(w, http.StatusOK, decoysResponse{
		Letter:   letter.String(),
		Language: lang,
		Decoys:   h.decoys.FetchDecoys(r.Context(), letter, count, lang),
	})
}

// Stats handles GET /api/stats.
func (h *DiscoveryHandler) Stats(w http.ResponseWriter, _ *http.Request) {
	rec := h.stats.Snapshot()
	if rec.WordFrequency == nil {
		rec.WordFrequency = map[string]int{}
	}
	resp := statsResponse{StatsRecord: rec}
	if word, n, ok := rec.Top(); ok {
		resp.Top, resp.TopCount = word, n
	}
	writeJSON(w, http.StatusOK, resp)
}

// parseSelection validates a letter and language, defaulting each when empty.
func parseSelection(rawLetter, rawLang string) (domain.Letter, domain.Language, error) {
	letter, lang := domain.DefaultLetter, domain.DefaultLanguage
	var fields []domain.FieldError

	if rawLetter != "" {
		l, err := domain.ParseLetter(rawLetter)
		if err != nil {
			fields = append(fields, fieldErrors(err)...)
		}
		letter = l
	}
	if rawLang != "" {
		l, err := domain.ParseLanguage(rawLang)
		if err != nil {
			fields = append(fields, fieldErrors(err)...)
		}
		lang = l
	}

	if len(fields) > 0 {
		return 0, "", domain.NewValidationErrors(fields)
	}
	return letter, lang, nil
}

func fieldErrors(err error) []domain.FieldError {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		return verr.Errors
	}
	return []domain.FieldError{{Field: "request", Message: err.Error()}}
}

func clampCount(n int) int {
	switch {
	case n < 1:
		return 1
	case n > maxDecoyCount:
		return maxDecoyCount
	default:
		return n
	}
}
