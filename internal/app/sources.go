package app

import (
	"log/slog"

	"github.com/heartmarshall/plexicon/internal/adapter/provider/datamuse"
	"github.com/heartmarshall/plexicon/internal/adapter/provider/freedict"
	"github.com/heartmarshall/plexicon/internal/adapter/provider/llm"
	"github.com/heartmarshall/plexicon/internal/adapter/provider/wiktionary"
	"github.com/heartmarshall/plexicon/internal/config"
	"github.com/heartmarshall/plexicon/internal/domain"
	"github.com/heartmarshall/plexicon/internal/service/decoy"
	"github.com/heartmarshall/plexicon/internal/service/reveal"
	"github.com/heartmarshall/plexicon/internal/service/wordsource"
)

// NewSources wires the word source and decoy supplier for cfg.Sources.Mode.
func NewSources(cfg *config.Config, logger *slog.Logger) (reveal.WordFetcher, *decoy.Supplier) {
	if cfg.Sources.Mode == config.ModeGenerative {
		gen := llm.NewProvider(llm.Config{
			APIKey:    cfg.LLM.APIKey,
			BaseURL:   cfg.LLM.BaseURL,
			Model:     cfg.LLM.Model,
			MaxTokens: cfg.LLM.MaxTokens,
			Timeout:   cfg.LLM.Timeout,
		}, logger)
		return wordsource.NewGenerative(logger, gen), decoy.NewGenerativeSupplier(logger, gen)
	}

	src := cfg.Sources
	dm := datamuse.NewProvider(src.DatamuseURL, logger, src.Timeout)
	fd := freedict.NewProviderWithURL(src.FreeDictionaryURL, logger, src.Timeout)
	es := wiktionary.NewProvider(wiktionary.Endpoint(src.WiktionaryURLTemplate, domain.LanguageSpanish), logger, src.Timeout)
	it := wiktionary.NewProvider(wiktionary.Endpoint(src.WiktionaryURLTemplate, domain.LanguageItalian), logger, src.Timeout)

	words := wordsource.NewAdapter(logger, map[domain.Language]wordsource.Source{
		domain.LanguageEnglish: {Lister: dm, Definer: fd, Limit: src.EnglishListSize, RequireTags: true},
		domain.LanguageSpanish: {Lister: es, Definer: es, Limit: src.WikiListSize},
		domain.LanguageItalian: {Lister: it, Definer: it, Limit: src.WikiListSize},
	}, nil, wordsource.Options{
		MinWordLength:    src.MinWordLength,
		MinExtractLength: src.MinExtractLength,
		Clean: wordsource.CleanOptions{
			MaxLength:   src.MaxDefinitionLength,
			BreakMargin: src.BreakMargin,
		},
	})

	decoys := decoy.NewSupplier(logger, map[domain.Language]decoy.WordLister{
		domain.LanguageEnglish: dm,
		domain.LanguageSpanish: es,
		domain.LanguageItalian: it,
	})

	return words, decoys
}
