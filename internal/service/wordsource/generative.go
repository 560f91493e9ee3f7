package wordsource

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/heartmarshall/plexicon/internal/domain"
	"github.com/heartmarshall/plexicon/internal/provider"
)

// WordGenerator produces a structured word answer for a letter and language.
type WordGenerator interface {
	GenerateWord(ctx context.Context, letter domain.Letter, lang domain.Language) (*provider.GeneratedWord, error)
}

// Generative is the generative-mode word source.
type Generative struct {
	log *slog.Logger
	gen WordGenerator
}

// NewGenerative creates a Generative source.
func NewGenerative(logger *slog.Logger, gen WordGenerator) *Generative {
	return &Generative{
		log: logger.With("service", "wordsource", "mode", "generative"),
		gen: gen,
	}
}

// FetchWord never fails, see Adapter.FetchWord.
func (g *Generative) FetchWord(ctx context.Context, letter domain.Letter, lang domain.Language) (rec domain.WordRecord) {
	defer func() {
		if r := recover(); r != nil {
			g.log.ErrorContext(ctx, "generative source panic, using fallback", slog.Any("panic", r))
			rec = lang.Fallback(letter)
		}
	}()

	rec, err := g.fetch(ctx, letter, lang)
	if err != nil {
		g.log.WarnContext(ctx, "generative source failed, using fallback",
			slog.String("letter", letter.String()),
			slog.String("language", lang.String()),
			slog.String("error", err.Error()),
		)
		return lang.Fallback(letter)
	}
	return rec
}

func (g *Generative) fetch(ctx context.Context, letter domain.Letter, lang domain.Language) (domain.WordRecord, error) {
	out, err := g.gen.GenerateWord(ctx, letter, lang)
	if err != nil {
		return domain.WordRecord{}, fmt.Errorf("wordsource: generate: %w", err)
	}
	if out == nil {
		return domain.WordRecord{}, fmt.Errorf("wordsource: generate: empty answer")
	}

	word := strings.TrimSpace(out.Word)
	if !startsWith(word, letter) {
		return domain.WordRecord{}, fmt.Errorf("wordsource: generated word %q does not start with %s", word, letter)
	}

	rec := domain.WordRecord{
		Word:         domain.Capitalize(word),
		Definition:   domain.Sentence(out.Definition),
		PartOfSpeech: domain.Capitalize(strings.TrimSpace(out.PartOfSpeech)),
	}
	if rec.PartOfSpeech == "" {
		return domain.WordRecord{}, domain.NewValidationError("partOfSpeech", "required")
	}
	if err := rec.Validate(); err != nil {
		return domain.WordRecord{}, err
	}
	return rec, nil
}

func startsWith(word string, letter domain.Letter) bool {
	r, _ := utf8.DecodeRuneInString(word)
	if r == utf8.RuneError {
		return false
	}
	return unicode.ToUpper(r) == rune(letter)
}
