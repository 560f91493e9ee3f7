package provider

// Candidate is one entry of an upstream word list.
type Candidate struct {
	Text string
	// Tags holds part-of-speech tags when the source annotates them.
	// nil means the source does not annotate at all.
	Tags []string
}

// DefinitionResult is the raw definition text fetched for one word.
type DefinitionResult struct {
	Word string
	// Text is unnormalized: it may span several lines and carry markup.
	Text         string
	PartOfSpeech string
}

// GeneratedWord is the structured answer of a generative source.
type GeneratedWord struct {
	Word         string `json:"word"`
	Definition   string `json:"definition"`
	PartOfSpeech string `json:"partOfSpeech"`
}
