package dict

import (
	"context"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexigo/lexigo/pkg/dictapi"
)

type fakeDictAPI struct {
	entries []dictapi.Entry
	err     error
}

func (f *fakeDictAPI) Entries(_ context.Context, _ string) ([]dictapi.Entry, error) {
	return f.entries, f.err
}

func TestAPIFallback_Lookup_NotFound(t *testing.T) {
	fb := NewAPIFallback(&fakeDictAPI{err: eris.Wrap(dictapi.ErrNotFound, "nope")})
	_, err := fb.Lookup(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrWordNotFound)
}

func TestAPIFallback_Lookup_OtherErrorPassesThrough(t *testing.T) {
	fb := NewAPIFallback(&fakeDictAPI{err: eris.New("upstream down")})
	_, err := fb.Lookup(context.Background(), "word")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrWordNotFound)
}

func TestFromAPIEntries(t *testing.T) {
	entries := []dictapi.Entry{
		{
			Word: "run",
			Phonetics: []dictapi.Phonetic{
				{Text: "/rʌn/", Audio: "https://cdn/run-uk.mp3"},
				{Text: "", Audio: ""},
				{Audio: "https://cdn/run-us.mp3"},
			},
			Meanings: []dictapi.Meaning{
				{
					PartOfSpeech: "verb",
					Definitions: []dictapi.Definition{
						{Definition: "move fast on foot", Example: "I run daily"},
						{Definition: ""},
					},
				},
			},
		},
		{
			Word: "run",
			Meanings: []dictapi.Meaning{
				{PartOfSpeech: "verb", Definitions: []dictapi.Definition{{Definition: "operate"}}},
				{PartOfSpeech: "noun", Definitions: []dictapi.Definition{{Definition: "a jog"}}},
			},
		},
	}

	res := FromAPIEntries(entries)

	assert.Equal(t, "run", res.Word)
	assert.Equal(t, []string{"verb", "noun"}, res.PartsOfSpeech)

	// Fully empty phonetics are dropped; accent labels stay empty because
	// the flat list carries no tags.
	require.Len(t, res.Pronunciations, 2)
	assert.Empty(t, res.Pronunciations[0].AccentLabel)
	assert.Equal(t, "/rʌn/", res.Pronunciations[0].IPA)
	assert.Equal(t, "https://cdn/run-us.mp3", res.Pronunciations[1].AudioURL)

	require.Len(t, res.Definitions, 3)
	assert.Equal(t, 0, res.Definitions[0].Ordinal)
	assert.Equal(t, "move fast on foot", res.Definitions[0].English)
	require.Len(t, res.Definitions[0].Examples, 1)
	assert.Equal(t, "I run daily", res.Definitions[0].Examples[0].English)
	assert.Equal(t, 2, res.Definitions[2].Ordinal)
	assert.Equal(t, "noun", res.Definitions[2].PartOfSpeech)
}
