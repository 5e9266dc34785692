// Package lookup composes fetching, parsing, inflections, translation and
// pronunciation reconciliation into a single dictionary lookup flow.
package lookup

import (
	"context"
	"net/url"
	"strings"
	"sync/atomic"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/lexigo/lexigo/internal/dict"
	"github.com/lexigo/lexigo/internal/model"
	"github.com/lexigo/lexigo/internal/pronounce"
)

// ErrLookupFailed is the terminal lookup error: every dictionary source
// failed or the word does not exist anywhere.
var ErrLookupFailed = eris.New("lookup: all dictionary sources failed")

// TextFetcher fetches a page with relay fallback.
type TextFetcher interface {
	FetchTextWithFallback(ctx context.Context, url string) (string, error)
}

// Translator renders text into the target language, best-effort.
type Translator interface {
	Translate(ctx context.Context, text string) string
}

// InflectionSource fetches inflected forms for a word.
type InflectionSource interface {
	Fetch(ctx context.Context, word string) ([]model.InflectionForm, error)
}

// FallbackAPI is the secondary dictionary source tried when the primary
// scrape path fails entirely. Optional.
type FallbackAPI interface {
	Lookup(ctx context.Context, word string) (*model.LookupResult, error)
}

// Options selects the dictionary locale path variant.
type Options struct {
	// BaseURL is the dictionary site root, e.g. "https://dictionary.cambridge.org".
	BaseURL string
	// Locale optionally prefixes the dictionary path ("us" for the US site).
	Locale string
	// LanguagePath selects the dictionary edition, e.g. "english" or
	// "english-vietnamese" for the bilingual pages.
	LanguagePath string
}

// Result is the composed output of one lookup.
type Result struct {
	// Generation is a monotonic counter so consumers can discard a
	// superseded in-flight lookup instead of letting it overwrite a newer
	// one.
	Generation            uint64                       `json:"generation"`
	Lookup                *model.LookupResult          `json:"lookup"`
	Canonical             model.CanonicalPronunciation `json:"canonical"`
	Translation           string                       `json:"translation"`
	DefinitionTranslation string                       `json:"definition_translation,omitempty"`
}

// Orchestrator runs the lookup state machine. All dependencies are
// explicit; there is no ambient shared state.
type Orchestrator struct {
	fetch     TextFetcher
	parser    *dict.Parser
	inflect   InflectionSource
	translate Translator
	fallback  FallbackAPI
	opts      Options

	gen atomic.Uint64
}

// New creates an Orchestrator. fallback may be nil when no secondary API
// is configured.
func New(fetch TextFetcher, parser *dict.Parser, inflect InflectionSource, translate Translator, fallback FallbackAPI, opts Options) *Orchestrator {
	return &Orchestrator{
		fetch:     fetch,
		parser:    parser,
		inflect:   inflect,
		translate: translate,
		fallback:  fallback,
		opts:      opts,
	}
}

// EntryURL builds the dictionary page URL for a word under the configured
// locale and language path.
func (o *Orchestrator) EntryURL(word string) string {
	path := "/dictionary/"
	if o.opts.Locale != "" {
		path = "/" + o.opts.Locale + "/dictionary/"
	}
	return o.opts.BaseURL + path + o.opts.LanguagePath + "/" + url.PathEscape(strings.TrimSpace(word))
}

// LookupAndTranslate runs the full flow: fetch and parse the dictionary
// entry (with the secondary API as last resort), best-effort inflections,
// then best-effort translation of the headword and the primary definition.
//
// Only total dictionary failure is fatal; missing inflections or a
// degraded translation yield a partial result, never an error.
func (o *Orchestrator) LookupAndTranslate(ctx context.Context, word string) (*Result, error) {
	gen := o.gen.Add(1)

	res, canonical, err := o.fetchEntry(ctx, word)
	if err != nil {
		return nil, eris.Wrapf(ErrLookupFailed, "%q: %v", word, err)
	}

	forms, err := o.inflect.Fetch(ctx, word)
	if err != nil {
		zap.L().Debug("lookup: inflections unavailable",
			zap.String("word", word),
			zap.Error(err),
		)
	} else {
		res.Inflections = forms
	}

	out := &Result{
		Generation: gen,
		Lookup:     res,
		Canonical:  canonical,
	}
	out.Translation = o.translate.Translate(ctx, res.Word)
	if primary := res.PrimaryDefinition(); primary != nil {
		out.DefinitionTranslation = o.translate.Translate(ctx, primary.English)
	}
	return out, nil
}

// fetchEntry tries the primary scrape path, then the secondary API. The
// canonical pronunciation is classified per source: tagged rules for the
// scraped page, audio-URL rules for the legacy flat shape.
func (o *Orchestrator) fetchEntry(ctx context.Context, word string) (*model.LookupResult, model.CanonicalPronunciation, error) {
	primaryErr := o.tryPrimary(ctx, word)
	if primaryErr.res != nil {
		return primaryErr.res, pronounce.Categorize(primaryErr.res.Pronunciations), nil
	}

	if o.fallback == nil {
		return nil, model.CanonicalPronunciation{}, primaryErr.err
	}

	zap.L().Info("lookup: primary source failed, trying secondary API",
		zap.String("word", word),
		zap.Error(primaryErr.err),
	)
	res, err := o.fallback.Lookup(ctx, word)
	if err != nil {
		return nil, model.CanonicalPronunciation{}, eris.Wrapf(err, "after primary failure: %v", primaryErr.err)
	}
	return res, pronounce.CategorizeLegacy(res.Pronunciations), nil
}

type primaryOutcome struct {
	res *model.LookupResult
	err error
}

func (o *Orchestrator) tryPrimary(ctx context.Context, word string) primaryOutcome {
	body, err := o.fetch.FetchTextWithFallback(ctx, o.EntryURL(word))
	if err != nil {
		return primaryOutcome{err: err}
	}
	res, err := o.parser.Parse(body)
	if err != nil {
		return primaryOutcome{err: err}
	}
	return primaryOutcome{res: res}
}
