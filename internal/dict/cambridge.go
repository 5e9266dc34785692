// Package dict parses dictionary source pages into structured lookup
// results: the Cambridge HTML entry page, the Wiktionary inflection table,
// and the legacy JSON dictionary API shape.
package dict

import (
	"net/url"
	"strings"

	"github.com/rotisserie/eris"
	"golang.org/x/net/html"
	"golang.org/x/text/unicode/norm"

	"github.com/lexigo/lexigo/internal/model"
)

// ErrWordNotFound signals an entry page without a headword. The upstream
// site returns 200 with an empty-result page rather than 404, so this is
// the only reliable "no such word" signal.
var ErrWordNotFound = eris.New("dict: word not found")

// Cambridge entry-page selector table. All markup knowledge lives here.
var (
	selHeadword   = sel("span", "hw", "dhw")
	selPOS        = sel("span", "pos", "dpos")
	selEntry      = sel("div", "pr", "entry-body__el")
	selPosHeader  = sel("div", "pos-header")
	selPron       = sel("span", "dpron-i")
	selPronRegion = sel("span", "region")
	selPronIPA    = sel("span", "ipa")
	selAudioSrc   = sel("source")
	selDefBlock   = sel("div", "def-block")
	selDefText    = sel("div", "def", "ddef_d")
	selDefTrans   = sel("span", "trans", "dtrans")
	selExample    = sel("div", "examp", "dexamp")
	selExampleEng = sel("span", "eg", "deg")
)

// Parser turns a fetched Cambridge entry page into a LookupResult. Parsing
// is a pure function of the input HTML; Base is only used to resolve
// relative audio references.
type Parser struct {
	Base string
}

// NewParser creates a Parser resolving audio references against base.
func NewParser(base string) *Parser {
	return &Parser{Base: base}
}

// Parse extracts the headword, parts of speech, pronunciation entries and
// definition blocks from an entry page. Inflections are filled separately.
// Returns ErrWordNotFound when the headword element is absent or empty.
func (p *Parser) Parse(pageHTML string) (*model.LookupResult, error) {
	doc, err := html.Parse(strings.NewReader(pageHTML))
	if err != nil {
		return nil, eris.Wrap(err, "dict: parse html")
	}

	head := findFirst(doc, selHeadword)
	word := clean(textOf(head))
	if word == "" {
		return nil, ErrWordNotFound
	}

	res := &model.LookupResult{
		Word:          word,
		PartsOfSpeech: partsOfSpeech(doc),
	}

	defOrdinal := 0
	exOrdinal := 0
	for _, entry := range findAll(doc, selEntry) {
		posCtx := clean(textOf(findFirst(entry, selPOS)))

		if header := findFirst(entry, selPosHeader); header != nil {
			res.Pronunciations = append(res.Pronunciations, p.pronunciations(header, posCtx)...)
		}

		for _, block := range findAll(entry, selDefBlock) {
			db, ok := p.definition(block, posCtx, defOrdinal, &exOrdinal)
			if !ok {
				continue
			}
			res.Definitions = append(res.Definitions, db)
			defOrdinal++
		}
	}

	return res, nil
}

// partsOfSpeech collects an order-preserving, de-duplicated set of
// part-of-speech tags from the whole page.
func partsOfSpeech(doc *html.Node) []string {
	seen := make(map[string]bool)
	var out []string
	for _, n := range findAll(doc, selPOS) {
		pos := clean(textOf(n))
		if pos == "" || seen[pos] {
			continue
		}
		seen[pos] = true
		out = append(out, pos)
	}
	return out
}

// pronunciations extracts the usable pronunciation entries of one
// part-of-speech header. Entries missing either the IPA text or the audio
// reference are skipped: one without audio can still not render anything
// beyond what TTS covers, and one without text has nothing to display.
func (p *Parser) pronunciations(header *html.Node, posCtx string) []model.PronunciationEntry {
	var out []model.PronunciationEntry
	for _, pron := range findAll(header, selPron) {
		ipa := clean(textOf(findFirst(pron, selPronIPA)))
		audio := p.audioRef(pron)
		if ipa == "" || audio == "" {
			continue
		}
		out = append(out, model.PronunciationEntry{
			PartOfSpeech: posCtx,
			AccentLabel:  clean(textOf(findFirst(pron, selPronRegion))),
			IPA:          ipa,
			AudioURL:     audio,
		})
	}
	return out
}

// audioRef finds the first audio <source> of a pronunciation block,
// preferring mpeg, and resolves it against the dictionary base URL.
func (p *Parser) audioRef(pron *html.Node) string {
	var fallback string
	for _, src := range findAll(pron, selAudioSrc) {
		ref := attr(src, "src")
		if ref == "" {
			continue
		}
		if strings.Contains(attr(src, "type"), "mpeg") {
			return p.resolve(ref)
		}
		if fallback == "" {
			fallback = ref
		}
	}
	if fallback == "" {
		return ""
	}
	return p.resolve(fallback)
}

func (p *Parser) resolve(ref string) string {
	base, err := url.Parse(p.Base)
	if err != nil {
		return ref
	}
	u, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return base.ResolveReference(u).String()
}

// definition extracts one definition block with its examples. Blocks
// without English text are dropped.
func (p *Parser) definition(block *html.Node, posCtx string, ordinal int, exOrdinal *int) (model.DefinitionBlock, bool) {
	english := clean(textOf(findFirst(block, selDefText)))
	if english == "" {
		return model.DefinitionBlock{}, false
	}

	db := model.DefinitionBlock{
		Ordinal:      ordinal,
		PartOfSpeech: posCtx,
		SourceID:     attr(block, "data-id"),
		English:      english,
	}

	for _, ex := range findAll(block, selExample) {
		eng := clean(textOf(findFirst(ex, selExampleEng)))
		if eng == "" {
			continue
		}
		db.Examples = append(db.Examples, model.ExampleSentence{
			Ordinal:     *exOrdinal,
			English:     eng,
			Translation: clean(textOf(findFirst(ex, selDefTrans))),
		})
		*exOrdinal++
	}

	// On bilingual pages the block carries an inline translation. The
	// block-level one is the first dtrans outside any example.
	for _, tr := range findAll(block, selDefTrans) {
		if insideExample(tr, block) {
			continue
		}
		db.Translation = clean(textOf(tr))
		break
	}

	return db, true
}

// insideExample reports whether n sits under an example node within block.
func insideExample(n *html.Node, block *html.Node) bool {
	for cur := n.Parent; cur != nil && cur != block; cur = cur.Parent {
		if selExample.matches(cur) {
			return true
		}
	}
	return false
}

// clean NFC-normalizes and whitespace-collapses scraped text. Cambridge
// markup mixes composed and decomposed IPA diacritics between entries.
func clean(s string) string {
	return norm.NFC.String(collapseSpace(s))
}
