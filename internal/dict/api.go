package dict

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/lexigo/lexigo/internal/model"
	"github.com/lexigo/lexigo/pkg/dictapi"
)

// APIFallback adapts the legacy JSON dictionary API into the lookup shape.
// It serves as the secondary source when the primary scrape path fails.
type APIFallback struct {
	client dictapi.Client
}

// NewAPIFallback creates the adapter.
func NewAPIFallback(client dictapi.Client) *APIFallback {
	return &APIFallback{client: client}
}

// Lookup fetches the word from the legacy API and maps it. A 404 from the
// API maps to ErrWordNotFound.
func (a *APIFallback) Lookup(ctx context.Context, word string) (*model.LookupResult, error) {
	entries, err := a.client.Entries(ctx, word)
	if err != nil {
		if eris.Is(err, dictapi.ErrNotFound) {
			return nil, eris.Wrap(ErrWordNotFound, word)
		}
		return nil, err
	}
	return FromAPIEntries(entries), nil
}

// FromAPIEntries maps legacy API entries into a LookupResult. The flat
// phonetics list carries no accent tags; AccentLabel stays empty and the
// reconciler classifies by audio URL instead.
func FromAPIEntries(entries []dictapi.Entry) *model.LookupResult {
	res := &model.LookupResult{}
	seenPOS := make(map[string]bool)
	exOrdinal := 0

	for _, entry := range entries {
		if res.Word == "" {
			res.Word = entry.Word
		}
		for _, ph := range entry.Phonetics {
			if ph.Text == "" && ph.Audio == "" {
				continue
			}
			res.Pronunciations = append(res.Pronunciations, model.PronunciationEntry{
				IPA:      ph.Text,
				AudioURL: ph.Audio,
			})
		}
		for _, m := range entry.Meanings {
			if m.PartOfSpeech != "" && !seenPOS[m.PartOfSpeech] {
				seenPOS[m.PartOfSpeech] = true
				res.PartsOfSpeech = append(res.PartsOfSpeech, m.PartOfSpeech)
			}
			for _, d := range m.Definitions {
				if d.Definition == "" {
					continue
				}
				db := model.DefinitionBlock{
					Ordinal:      len(res.Definitions),
					PartOfSpeech: m.PartOfSpeech,
					English:      d.Definition,
				}
				if d.Example != "" {
					db.Examples = append(db.Examples, model.ExampleSentence{
						Ordinal: exOrdinal,
						English: d.Example,
					})
					exOrdinal++
				}
				res.Definitions = append(res.Definitions, db)
			}
		}
	}
	return res
}
