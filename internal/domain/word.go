package domain

import "strings"

// WordRecord is one discovered word with its definition.
type WordRecord struct {
	Word         string `json:"word"`
	Definition   string `json:"definition"`
	PartOfSpeech string `json:"partOfSpeech"`
}

// Validate checks the invariants every record handed to callers must hold.
func (w WordRecord) Validate() error {
	var errs []FieldError
	if strings.TrimSpace(w.Word) == "" {
		errs = append(errs, FieldError{Field: "word", Message: "required"})
	}
	if strings.TrimSpace(w.Definition) == "" {
		errs = append(errs, FieldError{Field: "definition", Message: "required"})
	} else if !EndsSentence(w.Definition) {
		errs = append(errs, FieldError{Field: "definition", Message: "must end with terminal punctuation"})
	}
	if len(errs) > 0 {
		return NewValidationErrors(errs)
	}
	return nil
}
