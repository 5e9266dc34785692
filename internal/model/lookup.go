// Package model defines the shared data types for dictionary lookups and
// the personal word store.
package model

// PronunciationEntry is a raw phonetic record as extracted from an upstream
// source. AccentLabel is a free-text tag ("UK", "US", ...) used only for
// classification, never for display.
type PronunciationEntry struct {
	PartOfSpeech string `json:"part_of_speech,omitempty"`
	AccentLabel  string `json:"accent_label,omitempty"`
	IPA          string `json:"ipa"`
	AudioURL     string `json:"audio_url,omitempty"`
}

// ExampleSentence is one usage example inside a definition block.
type ExampleSentence struct {
	Ordinal     int    `json:"ordinal"`
	English     string `json:"english"`
	Translation string `json:"translation,omitempty"`
}

// DefinitionBlock is a single sense of the headword. Ordinal preserves page
// order; the lowest ordinal is the primary sense used for translation.
type DefinitionBlock struct {
	Ordinal      int               `json:"ordinal"`
	PartOfSpeech string            `json:"part_of_speech,omitempty"`
	SourceID     string            `json:"source_id,omitempty"`
	English      string            `json:"english"`
	Translation  string            `json:"translation,omitempty"`
	Examples     []ExampleSentence `json:"examples,omitempty"`
}

// InflectionForm is one inflected form of the headword, e.g.
// {FormType: "past tense", Text: "went"}.
type InflectionForm struct {
	Ordinal  int    `json:"ordinal"`
	FormType string `json:"form_type"`
	Text     string `json:"text"`
}

// LookupResult is the assembled output of a dictionary lookup. Immutable
// once produced; one instance per successful lookup.
type LookupResult struct {
	Word           string               `json:"word"`
	PartsOfSpeech  []string             `json:"parts_of_speech,omitempty"`
	Pronunciations []PronunciationEntry `json:"pronunciations,omitempty"`
	Definitions    []DefinitionBlock    `json:"definitions,omitempty"`
	Inflections    []InflectionForm     `json:"inflections,omitempty"`
}

// PrimaryDefinition returns the definition block with the lowest ordinal,
// or nil when the result has no definitions.
func (r *LookupResult) PrimaryDefinition() *DefinitionBlock {
	if len(r.Definitions) == 0 {
		return nil
	}
	primary := &r.Definitions[0]
	for i := range r.Definitions[1:] {
		if r.Definitions[i+1].Ordinal < primary.Ordinal {
			primary = &r.Definitions[i+1]
		}
	}
	return primary
}
