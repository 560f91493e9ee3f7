package tui

import (
	"strings"

	"github.com/heartmarshall/plexicon/internal/domain"
)

// labels is the per-language UI text.
type labels struct {
	title       string
	subtitle    string
	start       string
	loading     string
	letter      string
	language    string
	total       string
	unique      string
	top         string
	placeholder string // {letter} is replaced by the selected letter
}

var labelTable = map[domain.Language]labels{
	domain.LanguageEnglish: {
		title:       "P-LEXICON",
		subtitle:    "Explore refined language, one letter at a time.",
		start:       "Start",
		loading:     "Finding...",
		letter:      "Letter",
		language:    "Lang",
		total:       "Total",
		unique:      "Unique",
		top:         "Top",
		placeholder: "Discover the word starting with {letter}",
	},
	domain.LanguageSpanish: {
		title:       "P-LÉXICO",
		subtitle:    "Explora el lenguaje, letra a letra.",
		start:       "Comenzar",
		loading:     "Buscando...",
		letter:      "Letra",
		language:    "Idioma",
		total:       "Total",
		unique:      "Únicas",
		top:         "Top",
		placeholder: "Descubre palabras con la {letter}",
	},
	domain.LanguageItalian: {
		title:       "P-LESSICO",
		subtitle:    "Esplora la lingua, lettera per lettera.",
		start:       "Inizia",
		loading:     "Ricerca...",
		letter:      "Lettera",
		language:    "Lingua",
		total:       "Totale",
		unique:      "Uniche",
		top:         "Top",
		placeholder: "Scopri parole con la {letter}",
	},
}

func labelsFor(lang domain.Language) labels {
	if l, ok := labelTable[lang]; ok {
		return l
	}
	return labelTable[domain.LanguageEnglish]
}

func (l labels) placeholderFor(letter domain.Letter) string {
	return strings.ReplaceAll(l.placeholder, "{letter}", letter.String())
}
