// Package decoy supplies throwaway words for the falling-letters animation.
package decoy

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/heartmarshall/plexicon/internal/domain"
	"github.com/heartmarshall/plexicon/internal/provider"
)

// WordLister lists words starting with a letter.
type WordLister interface {
	ListCandidates(ctx context.Context, letter domain.Letter, limit int) ([]provider.Candidate, error)
}

// DecoyGenerator produces a list of words from a generative model.
type DecoyGenerator interface {
	GenerateDecoys(ctx context.Context, letter domain.Letter, count int, lang domain.Language) ([]string, error)
}

// Supplier returns decoy batches. It never fails.
type Supplier struct {
	log   *slog.Logger
	fetch func(ctx context.Context, letter domain.Letter, count int, lang domain.Language) ([]string, error)
}

// NewSupplier creates a Supplier backed by per-language word lists.
func NewSupplier(logger *slog.Logger, listers map[domain.Language]WordLister) *Supplier {
	return &Supplier{
		log: logger.With("service", "decoy"),
		fetch: func(ctx context.Context, letter domain.Letter, count int, lang domain.Language) ([]string, error) {
			l, ok := listers[lang]
			if !ok {
				return nil, fmt.Errorf("decoy: no lister for %s", lang)
			}
			candidates, err := l.ListCandidates(ctx, letter, count)
			if err != nil {
				return nil, fmt.Errorf("decoy: list: %w", err)
			}
			words := make([]string, len(candidates))
			for i, c := range candidates {
				words[i] = c.Text
			}
			return words, nil
		},
	}
}

// NewGenerativeSupplier creates a Supplier backed by a generative model.
func NewGenerativeSupplier(logger *slog.Logger, gen DecoyGenerator) *Supplier {
	return &Supplier{
		log:   logger.With("service", "decoy", "mode", "generative"),
		fetch: gen.GenerateDecoys,
	}
}

// FetchDecoys returns exactly count strings. Upstream results are trimmed to
// count and padded with the letter; on error the batch is all letter.
func (s *Supplier) FetchDecoys(ctx context.Context, letter domain.Letter, count int, lang domain.Language) (batch []string) {
	if count <= 0 {
		return []string{}
	}

	defer func() {
		if r := recover(); r != nil {
			s.log.ErrorContext(ctx, "decoy panic", slog.Any("panic", r))
			batch = Repeat(letter, count)
		}
	}()

	words, err := s.fetch(ctx, letter, count, lang)
	if err != nil {
		s.log.WarnContext(ctx, "decoy fetch failed, using letter",
			slog.String("letter", letter.String()),
			slog.String("language", lang.String()),
			slog.String("error", err.Error()),
		)
		return Repeat(letter, count)
	}

	if len(words) >= count {
		return words[:count:count]
	}
	batch = make([]string, 0, count)
	batch = append(batch, words...)
	for len(batch) < count {
		batch = append(batch, letter.String())
	}
	return batch
}

// Repeat returns count copies of the letter.
func Repeat(letter domain.Letter, count int) []string {
	if count <= 0 {
		return []string{}
	}
	out := make([]string, count)
	for i := range out {
		out[i] = letter.String()
	}
	return out
}
