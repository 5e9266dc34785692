package dict

import (
	"context"
	"net/url"
	"strings"

	"github.com/rotisserie/eris"
	"golang.org/x/net/html"

	"github.com/lexigo/lexigo/internal/model"
)

// Wiktionary selector table.
var selInflectionTable = sel("table", "inflection-table")

// TextFetcher is the fetch dependency of the scrapers.
type TextFetcher interface {
	FetchTextWithFallback(ctx context.Context, url string) (string, error)
}

// InflectionScraper fetches a word's reference page and extracts inflected
// forms from its inflection table. Callers treat failures as non-fatal.
type InflectionScraper struct {
	fetch TextFetcher
	base  string
}

// NewInflectionScraper creates a scraper against base, e.g.
// "https://en.wiktionary.org/wiki/".
func NewInflectionScraper(fetch TextFetcher, base string) *InflectionScraper {
	return &InflectionScraper{fetch: fetch, base: base}
}

// Fetch returns the inflection forms found for word. Table cells carry a
// two-part "label / form" payload split across a newline or a <br>
// boundary; malformed or single-part cells are skipped.
func (s *InflectionScraper) Fetch(ctx context.Context, word string) ([]model.InflectionForm, error) {
	body, err := s.fetch.FetchTextWithFallback(ctx, s.base+url.PathEscape(word))
	if err != nil {
		return nil, eris.Wrapf(err, "dict: inflections for %q", word)
	}

	doc, err := html.Parse(strings.NewReader(body))
	if err != nil {
		return nil, eris.Wrap(err, "dict: parse inflection page")
	}

	var forms []model.InflectionForm
	for _, table := range findAll(doc, selInflectionTable) {
		for _, cell := range findAll(table, sel("td")) {
			label, form, ok := splitCell(linesOf(cell))
			if !ok {
				continue
			}
			forms = append(forms, model.InflectionForm{
				Ordinal:  len(forms),
				FormType: label,
				Text:     form,
			})
		}
	}
	return forms, nil
}

// splitCell splits a cell payload into its label and form parts. Only the
// first two non-empty lines count; cells with fewer are unusable.
func splitCell(payload string) (label, form string, ok bool) {
	var parts []string
	for _, line := range strings.Split(payload, "\n") {
		if line = collapseSpace(line); line != "" {
			parts = append(parts, line)
		}
		if len(parts) == 2 {
			break
		}
	}
	if len(parts) < 2 {
		return "", "", false
	}
	return parts[0], parts[1], true
}
