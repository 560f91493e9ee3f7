// Package wordsource turns a (letter, language) pair into a WordRecord using
// public dictionary APIs or a generative model, falling back to a fixed
// record whenever the upstream path fails.
package wordsource

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/heartmarshall/plexicon/internal/domain"
	"github.com/heartmarshall/plexicon/internal/provider"
)

// ErrNoCandidates is returned when an upstream word list comes back empty.
var ErrNoCandidates = errors.New("no candidate words")

// CandidateLister lists words starting with a letter.
type CandidateLister interface {
	ListCandidates(ctx context.Context, letter domain.Letter, limit int) ([]provider.Candidate, error)
}

// DefinitionFetcher fetches raw definition text. A nil result means not found.
type DefinitionFetcher interface {
	FetchDefinition(ctx context.Context, word string) (*provider.DefinitionResult, error)
}

// Source is the per-language pair of upstream operations.
type Source struct {
	Lister  CandidateLister
	Definer DefinitionFetcher
	// Limit is passed to ListCandidates.
	Limit int
	// RequireTags keeps only candidates annotated with a part of speech.
	RequireTags bool
}

// Picker returns an index in [0, n).
type Picker func(n int) int

// Options tunes candidate filtering and definition cleaning.
type Options struct {
	MinWordLength    int
	MinExtractLength int
	Clean            CleanOptions
}

// DefaultOptions returns the stock thresholds.
func DefaultOptions() Options {
	return Options{
		MinWordLength:    3,
		MinExtractLength: 10,
		Clean:            DefaultCleanOptions(),
	}
}

// Adapter is the dictionary-mode word source.
type Adapter struct {
	log     *slog.Logger
	sources map[domain.Language]Source
	pick    Picker
	opts    Options
}

// NewAdapter creates an Adapter. A nil pick selects uniformly at random.
func NewAdapter(logger *slog.Logger, sources map[domain.Language]Source, pick Picker, opts Options) *Adapter {
	if pick == nil {
		pick = rand.IntN
	}
	return &Adapter{
		log:     logger.With("service", "wordsource"),
		sources: sources,
		pick:    pick,
		opts:    opts,
	}
}

// FetchWord never fails: any upstream error or panic yields the language's
// fallback record.
func (a *Adapter) FetchWord(ctx context.Context, letter domain.Letter, lang domain.Language) (rec domain.WordRecord) {
	defer func() {
		if r := recover(); r != nil {
			a.log.ErrorContext(ctx, "word source panic, using fallback",
				slog.String("letter", letter.String()),
				slog.String("language", lang.String()),
				slog.Any("panic", r),
			)
			rec = lang.Fallback(letter)
		}
	}()

	rec, err := a.fetch(ctx, letter, lang)
	if err == nil {
		err = rec.Validate()
	}
	if err != nil {
		a.log.WarnContext(ctx, "word source failed, using fallback",
			slog.String("letter", letter.String()),
			slog.String("language", lang.String()),
			slog.String("error", err.Error()),
		)
		return lang.Fallback(letter)
	}
	return rec
}

func (a *Adapter) fetch(ctx context.Context, letter domain.Letter, lang domain.Language) (domain.WordRecord, error) {
	src, ok := a.sources[lang]
	if !ok {
		return domain.WordRecord{}, fmt.Errorf("wordsource: no source for %s", lang)
	}

	candidates, err := src.Lister.ListCandidates(ctx, letter, src.Limit)
	if err != nil {
		return domain.WordRecord{}, fmt.Errorf("wordsource: list candidates: %w", err)
	}
	if len(candidates) == 0 {
		return domain.WordRecord{}, fmt.Errorf("wordsource: %w", ErrNoCandidates)
	}

	word := a.choose(candidates, src.RequireTags)
	definition, pos := a.define(ctx, src, letter, lang, word)

	return domain.WordRecord{
		Word:         domain.Capitalize(word),
		Definition:   definition,
		PartOfSpeech: pos,
	}, nil
}

func (a *Adapter) choose(candidates []provider.Candidate, requireTags bool) string {
	filtered := make([]string, 0, len(candidates))
	for _, c := range candidates {
		if a.looksLikeWord(c.Text) && (!requireTags || len(c.Tags) > 0) {
			filtered = append(filtered, c.Text)
		}
	}
	if len(filtered) == 0 {
		return candidates[0].Text
	}

	i := a.pick(len(filtered))
	if i < 0 || i >= len(filtered) {
		i = 0
	}
	return filtered[i]
}

func (a *Adapter) looksLikeWord(s string) bool {
	return utf8.RuneCountInString(s) > a.opts.MinWordLength &&
		!strings.Contains(s, ":") &&
		!strings.ContainsFunc(s, unicode.IsSpace)
}

// define degrades to the canned sentence rather than failing the whole record.
func (a *Adapter) define(ctx context.Context, src Source, letter domain.Letter, lang domain.Language, word string) (string, string) {
	canned := lang.CannedDefinition(letter)
	pos := lang.DefaultPartOfSpeech()

	res, err := src.Definer.FetchDefinition(ctx, word)
	if err != nil {
		a.log.WarnContext(ctx, "definition fetch failed, using canned sentence",
			slog.String("word", word),
			slog.String("language", lang.String()),
			slog.String("error", err.Error()),
		)
		return canned, lang.CannedPartOfSpeech()
	}
	if res == nil {
		return canned, lang.CannedPartOfSpeech()
	}

	if p := strings.TrimSpace(res.PartOfSpeech); p != "" {
		pos = domain.Capitalize(p)
	}

	if utf8.RuneCountInString(strings.TrimSpace(res.Text)) < a.opts.MinExtractLength {
		return canned, pos
	}

	def := CleanDefinition(res.Text, word, a.opts.Clean)
	if def == "" {
		return canned, pos
	}
	return def, pos
}
