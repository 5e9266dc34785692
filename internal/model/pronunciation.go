package model

// Accent identifies one of the canonical pronunciation buckets.
type Accent string

const (
	AccentBritish    Accent = "british"
	AccentAmerican   Accent = "american"
	AccentAustralian Accent = "australian"
)

// Accents lists the canonical buckets in display order.
var Accents = []Accent{AccentBritish, AccentAmerican, AccentAustralian}

// Phonetic is the value of one canonical bucket. Text is always non-empty
// for a populated bucket; an empty AudioURL means playback should fall back
// to speech synthesis.
type Phonetic struct {
	Text     string `json:"text" firestore:"text"`
	AudioURL string `json:"audio_url,omitempty" firestore:"audioUrl"`
}

// CanonicalPronunciation is the reconciled british/american/australian
// structure consumed uniformly by playback and the save flow, regardless of
// which upstream source produced the raw phonetic data.
type CanonicalPronunciation struct {
	British    *Phonetic `json:"british,omitempty" firestore:"british"`
	American   *Phonetic `json:"american,omitempty" firestore:"american"`
	Australian *Phonetic `json:"australian,omitempty" firestore:"australian"`
}

// Bucket returns the phonetic for the given accent, or nil.
func (c CanonicalPronunciation) Bucket(a Accent) *Phonetic {
	switch a {
	case AccentBritish:
		return c.British
	case AccentAmerican:
		return c.American
	case AccentAustralian:
		return c.Australian
	}
	return nil
}

// Set places a phonetic into the named bucket. Unknown accents are ignored.
func (c *CanonicalPronunciation) Set(a Accent, p *Phonetic) {
	switch a {
	case AccentBritish:
		c.British = p
	case AccentAmerican:
		c.American = p
	case AccentAustralian:
		c.Australian = p
	}
}

// Empty reports whether no bucket is populated.
func (c CanonicalPronunciation) Empty() bool {
	return c.British == nil && c.American == nil && c.Australian == nil
}
