package domain

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// Language is the closed set of supported discovery languages.
type Language string

const (
	LanguageEnglish Language = "English"
	LanguageSpanish Language = "Spanish"
	LanguageItalian Language = "Italian"
)

// DefaultLanguage is preselected when a session starts.
const DefaultLanguage = LanguageSpanish

// Languages returns every supported language in display order.
func Languages() []Language {
	return []Language{LanguageEnglish, LanguageSpanish, LanguageItalian}
}

func (l Language) String() string { return string(l) }

func (l Language) IsValid() bool {
	switch l {
	case LanguageEnglish, LanguageSpanish, LanguageItalian:
		return true
	}
	return false
}

// Tag returns the BCP 47 tag of the language.
func (l Language) Tag() language.Tag {
	switch l {
	case LanguageSpanish:
		return language.Spanish
	case LanguageItalian:
		return language.Italian
	default:
		return language.English
	}
}

// Code returns the two-letter locale code used by upstream hosts (en, es, it).
func (l Language) Code() string {
	base, _ := l.Tag().Base()
	return base.String()
}

// Next cycles through Languages.
func (l Language) Next() Language {
	all := Languages()
	for i, x := range all {
		if x == l {
			return all[(i+1)%len(all)]
		}
	}
	return all[0]
}

// ParseLanguage accepts the enum name in any case ("spanish") or a BCP 47 tag
// whose base language is supported ("es", "es-MX", "it-IT").
func ParseLanguage(s string) (Language, error) {
	s = strings.TrimSpace(s)
	for _, l := range Languages() {
		if strings.EqualFold(s, string(l)) {
			return l, nil
		}
	}

	if tag, err := language.Parse(s); err == nil {
		base, conf := tag.Base()
		if conf != language.No {
			for _, l := range Languages() {
				if l.Code() == base.String() {
					return l, nil
				}
			}
		}
	}

	return "", NewValidationError("language", fmt.Sprintf("unsupported language %q", s))
}

// DefaultPartOfSpeech is used when a source does not report one.
func (l Language) DefaultPartOfSpeech() string {
	switch l {
	case LanguageSpanish:
		return "Palabra"
	case LanguageItalian:
		return "Parola"
	default:
		return "Word"
	}
}

// CannedPartOfSpeech goes with CannedDefinition when the definition lookup
// itself failed.
func (l Language) CannedPartOfSpeech() string {
	if l == LanguageEnglish {
		return "Noun"
	}
	return l.DefaultPartOfSpeech()
}

// CannedDefinition is the sentence substituted when no usable definition text
// could be fetched for an otherwise valid word.
func (l Language) CannedDefinition(letter Letter) string {
	switch l {
	case LanguageSpanish:
		return fmt.Sprintf("Término esencial en la lengua española que comienza con la letra %s.", letter)
	case LanguageItalian:
		return fmt.Sprintf("Termine fondamentale nella lingua italiana che inizia con la lettera %s.", letter)
	default:
		return fmt.Sprintf("An important term in the English vocabulary that begins with the letter %s.", letter)
	}
}

// Fallback is the static record returned when every upstream call failed.
// It depends only on its inputs.
func (l Language) Fallback(letter Letter) WordRecord {
	switch l {
	case LanguageSpanish:
		return WordRecord{
			Word:         letter.String() + "oderoso",
			Definition:   "Dícese de aquello que posee una gran capacidad, influencia o fuerza superior.",
			PartOfSpeech: "Adjetivo",
		}
	case LanguageItalian:
		return WordRecord{
			Word:         letter.String() + "rezioso",
			Definition:   "Qualcosa che possiede un grande valore intrinseco, pregio o rarità.",
			PartOfSpeech: "Aggettivo",
		}
	default:
		return WordRecord{
			Word:         letter.String() + "henomenal",
			Definition:   "Something that is very remarkable, extraordinary, or exceptional in nature.",
			PartOfSpeech: "Adjective",
		}
	}
}
