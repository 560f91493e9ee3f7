package wordsource

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/heartmarshall/plexicon/internal/domain"
)

var (
	htmlTagRe     = regexp.MustCompile(`<[^>]*>`)
	wikiLinkRe    = regexp.MustCompile(`\[\[([^|\]]*\|)?([^\]]*)\]\]`)
	multiSpaceRe  = regexp.MustCompile(`\s{2,}`)
	numberedSense = regexp.MustCompile(`^[1-9][.)\s]\s+`)
	usageNoteRe   = regexp.MustCompile(`^\([^)]+\)\s*`)
)

// CleanOptions bounds the cleaned definition.
type CleanOptions struct {
	// MaxLength bounds the definition; a truncated one may run one rune over
	// to fit the ellipsis.
	MaxLength int
	// BreakMargin is how far back from MaxLength a word boundary may be used.
	BreakMargin int
}

// DefaultCleanOptions keeps definitions to 190 runes, breaking on a space
// found after rune 150.
func DefaultCleanOptions() CleanOptions {
	return CleanOptions{MaxLength: 190, BreakMargin: 40}
}

// CleanDefinition reduces a raw multi-line extract to one display sentence.
// It returns "" when nothing usable is left.
func CleanDefinition(raw, word string, opts CleanOptions) string {
	lines := splitLines(raw)
	if len(lines) == 0 {
		return ""
	}

	def := pickLine(lines, word)

	def = strings.TrimSpace(usageNoteRe.ReplaceAllString(def, ""))
	def = strings.TrimSpace(stripLeadingArtifact(def))
	def = truncate(def, opts)

	return domain.Sentence(def)
}

// StripMarkup removes HTML tags and wiki-style links from s,
// collapses multiple spaces, and trims whitespace.
func StripMarkup(s string) string {
	if s == "" {
		return ""
	}
	s = htmlTagRe.ReplaceAllString(s, "")
	// [[link|display]] → display, [[word]] → word.
	s = wikiLinkRe.ReplaceAllString(s, "$2")
	s = multiSpaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

func splitLines(raw string) []string {
	var out []string
	for _, l := range strings.Split(raw, "\n") {
		l = StripMarkup(l)
		if l != "" {
			out = append(out, l)
		}
	}
	return out
}

// pickLine prefers the first enumerated sense, then the first substantial
// line, then the first line.
func pickLine(lines []string, word string) string {
	for _, l := range lines {
		if loc := numberedSense.FindStringIndex(l); loc != nil {
			return l[loc[1]:]
		}
	}

	for _, l := range lines {
		n := utf8.RuneCountInString(l)
		switch {
		case strings.EqualFold(l, word):
		case strings.HasPrefix(l, "==") || strings.HasSuffix(l, "=="):
		case strings.HasPrefix(l, "(") && strings.HasSuffix(l, ")") && n < 30:
		case n < 15:
		default:
			return l
		}
	}

	return lines[0]
}

// stripLeadingArtifact drops one leading ':', '-', '.' or whitespace rune.
func stripLeadingArtifact(s string) string {
	if s == "" {
		return s
	}
	switch s[0] {
	case ':', '-', '.', ' ', '\t':
		return s[1:]
	}
	return s
}

// truncate keeps s within MaxLength+1 runes, ellipsis included.
func truncate(s string, opts CleanOptions) string {
	if opts.MaxLength <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= opts.MaxLength {
		return s
	}

	budget := max(opts.MaxLength+1-utf8.RuneCountInString(domain.Ellipsis), 1)
	cut := runes[:budget]
	for i := len(cut) - 1; i > budget-opts.BreakMargin; i-- {
		if cut[i] == ' ' {
			cut = cut[:i]
			break
		}
	}

	return strings.TrimRight(string(cut), " ") + domain.Ellipsis
}
