package domain

import (
	"fmt"
	"strings"
)

// Letter is one of the 26 uppercase ASCII letters.
type Letter byte

// Alphabet lists every selectable letter in order.
const Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// DefaultLetter is preselected when a session starts.
const DefaultLetter Letter = 'P'

// ParseLetter accepts exactly one ASCII letter in either case.
func ParseLetter(s string) (Letter, error) {
	s = strings.TrimSpace(s)
	if len(s) != 1 {
		return 0, NewValidationError("letter", fmt.Sprintf("must be a single ASCII letter (got %q)", s))
	}
	c := s[0]
	if c >= 'a' && c <= 'z' {
		c -= 'a' - 'A'
	}
	l := Letter(c)
	if !l.IsValid() {
		return 0, NewValidationError("letter", fmt.Sprintf("must be a single ASCII letter (got %q)", s))
	}
	return l, nil
}

func (l Letter) IsValid() bool { return l >= 'A' && l <= 'Z' }

func (l Letter) String() string { return string(rune(l)) }

// Lower returns the lowercase form used in upstream queries.
func (l Letter) Lower() string { return strings.ToLower(l.String()) }

// Next returns the following letter, wrapping Z to A.
func (l Letter) Next() Letter {
	if l >= 'Z' {
		return 'A'
	}
	return l + 1
}

// Prev returns the preceding letter, wrapping A to Z.
func (l Letter) Prev() Letter {
	if l <= 'A' {
		return 'Z'
	}
	return l - 1
}
