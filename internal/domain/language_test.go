package domain

import (
	"errors"
	"testing"
)

func TestParseLanguage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    Language
		wantErr bool
	}{
		{in: "English", want: LanguageEnglish},
		{in: "spanish", want: LanguageSpanish},
		{in: "ITALIAN", want: LanguageItalian},
		{in: "en", want: LanguageEnglish},
		{in: "es", want: LanguageSpanish},
		{in: "es-MX", want: LanguageSpanish},
		{in: "it-IT", want: LanguageItalian},
		{in: " en-GB ", want: LanguageEnglish},
		{in: "fr", wantErr: true},
		{in: "Klingon", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			got, err := ParseLanguage(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrValidation) {
					t.Fatalf("ParseLanguage(%q) err = %v, want ErrValidation", tt.in, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseLanguage(%q) unexpected error: %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseLanguage(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestLanguage_Code(t *testing.T) {
	t.Parallel()

	want := map[Language]string{
		LanguageEnglish: "en",
		LanguageSpanish: "es",
		LanguageItalian: "it",
	}
	for l, code := range want {
		if got := l.Code(); got != code {
			t.Errorf("%s.Code() = %q, want %q", l, got, code)
		}
	}
}

func TestLanguage_IsValid(t *testing.T) {
	t.Parallel()

	for _, l := range Languages() {
		if !l.IsValid() {
			t.Errorf("%q should be valid", l)
		}
	}
	if Language("French").IsValid() {
		t.Error("French should not be valid")
	}
}

func TestLanguage_Next_Cycles(t *testing.T) {
	t.Parallel()

	l := LanguageEnglish
	for range Languages() {
		l = l.Next()
	}
	if l != LanguageEnglish {
		t.Errorf("cycling through all languages should return to English, got %s", l)
	}
}

func TestLanguage_Fallback_IsValidForEveryLetter(t *testing.T) {
	t.Parallel()

	for _, lang := range Languages() {
		for i := 0; i < len(Alphabet); i++ {
			letter := Letter(Alphabet[i])
			rec := lang.Fallback(letter)
			if err := rec.Validate(); err != nil {
				t.Errorf("%s/%s fallback invalid: %v", lang, letter, err)
			}
			if rec.Word[0] != byte(letter) {
				t.Errorf("%s/%s fallback word %q does not start with the letter", lang, letter, rec.Word)
			}
			if !EndsSentence(lang.CannedDefinition(letter)) {
				t.Errorf("%s canned definition must end a sentence", lang)
			}
		}
	}
}

func TestLanguage_Fallback_English_Q(t *testing.T) {
	t.Parallel()

	want := WordRecord{
		Word:         "Qhenomenal",
		Definition:   "Something that is very remarkable, extraordinary, or exceptional in nature.",
		PartOfSpeech: "Adjective",
	}
	if got := LanguageEnglish.Fallback('Q'); got != want {
		t.Errorf("Fallback = %+v, want %+v", got, want)
	}
}

func TestLanguage_CannedPartOfSpeech(t *testing.T) {
	t.Parallel()

	tests := []struct {
		lang Language
		want string
	}{
		{LanguageEnglish, "Noun"},
		{LanguageSpanish, "Palabra"},
		{LanguageItalian, "Parola"},
	}
	for _, tt := range tests {
		if got := tt.lang.CannedPartOfSpeech(); got != tt.want {
			t.Errorf("%s.CannedPartOfSpeech() = %q, want %q", tt.lang, got, tt.want)
		}
	}
}
