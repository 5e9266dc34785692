// Package pronounce reconciles heterogeneous phonetic records into the
// canonical british/american/australian structure and plays them back,
// falling back to speech synthesis when no audio asset is available.
package pronounce

import (
	"regexp"
	"strings"

	"github.com/lexigo/lexigo/internal/model"
)

// accentRule is one entry of the ordered classification rule list: the
// primary pattern is tried across all entries first, then the broader
// secondary pattern. First match wins. Third-party markup has no stable
// accent taxonomy, so this stays heuristic by nature.
type accentRule struct {
	accent    model.Accent
	primary   *regexp.Regexp
	secondary *regexp.Regexp
}

var accentRules = []accentRule{
	{model.AccentBritish, regexp.MustCompile(`(?i)\buk\b`), regexp.MustCompile(`(?i)brit|\bgb\b`)},
	{model.AccentAmerican, regexp.MustCompile(`(?i)\bus\b`), regexp.MustCompile(`(?i)amer`)},
	{model.AccentAustralian, regexp.MustCompile(`(?i)\bau\b`), regexp.MustCompile(`(?i)austral|\baus\b`)},
}

// Categorize classifies tagged pronunciation entries (the Cambridge shape)
// into canonical buckets. Entries without audio are still placed: their
// text renders and playback falls back to synthesis. When no tag matches
// anything, the first entry with text lands in the british bucket so at
// least one accent panel renders.
func Categorize(entries []model.PronunciationEntry) model.CanonicalPronunciation {
	var c model.CanonicalPronunciation
	for _, rule := range accentRules {
		e := firstLabelMatch(entries, rule.primary)
		if e == nil {
			e = firstLabelMatch(entries, rule.secondary)
		}
		if e != nil {
			c.Set(rule.accent, &model.Phonetic{Text: e.IPA, AudioURL: e.AudioURL})
		}
	}
	if c.Empty() {
		if e := firstWithText(entries); e != nil {
			c.British = &model.Phonetic{Text: e.IPA, AudioURL: e.AudioURL}
		}
	}
	return c
}

func firstLabelMatch(entries []model.PronunciationEntry, re *regexp.Regexp) *model.PronunciationEntry {
	for i := range entries {
		if entries[i].IPA == "" {
			continue
		}
		if re.MatchString(entries[i].AccentLabel) {
			return &entries[i]
		}
	}
	return nil
}

func firstWithText(entries []model.PronunciationEntry) *model.PronunciationEntry {
	for i := range entries {
		if entries[i].IPA != "" {
			return &entries[i]
		}
	}
	return nil
}

// Legacy flat-list classification tokens, matched against the audio URL.
var (
	britishTokens  = []string{"-uk", "_uk", "/uk/", "gb"}
	americanTokens = []string{"-us", "_us", "/us/", "american"}
)

// CategorizeLegacy classifies the legacy flat phonetics shape, where no
// accent tags exist and the audio URL is the only classification signal.
//
// The first untagged entry serves as a shared fallback for both the
// british and the american bucket; when nothing matches at all, the first
// entry with text fills both. The same entry showing up in two buckets is
// the deliberate "better than nothing" behavior of the flat shape.
// Entries without text are never placed: a populated bucket always has
// text to display.
func CategorizeLegacy(entries []model.PronunciationEntry) model.CanonicalPronunciation {
	var brit, amer, untagged *model.PronunciationEntry
	for i := range entries {
		e := &entries[i]
		if e.IPA == "" {
			continue
		}
		audio := strings.ToLower(e.AudioURL)
		switch {
		case containsAny(audio, britishTokens):
			if brit == nil {
				brit = e
			}
		case containsAny(audio, americanTokens):
			if amer == nil {
				amer = e
			}
		default:
			if untagged == nil {
				untagged = e
			}
		}
	}

	if brit == nil {
		brit = untagged
	}
	if amer == nil {
		amer = untagged
	}
	if brit == nil && amer == nil {
		if first := firstWithText(entries); first != nil {
			brit, amer = first, first
		}
	}

	var c model.CanonicalPronunciation
	if brit != nil {
		c.British = &model.Phonetic{Text: brit.IPA, AudioURL: brit.AudioURL}
	}
	if amer != nil {
		c.American = &model.Phonetic{Text: amer.IPA, AudioURL: amer.AudioURL}
	}
	return c
}

func containsAny(s string, tokens []string) bool {
	for _, t := range tokens {
		if strings.Contains(s, t) {
			return true
		}
	}
	return false
}
