package dict

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

func parseFragment(t *testing.T, fragment string) *html.Node {
	t.Helper()
	doc, err := html.Parse(strings.NewReader(fragment))
	require.NoError(t, err)
	return doc
}

func TestSelector_TagOnlyMatchesClasslessElements(t *testing.T) {
	// Audio sources and table cells carry no class attribute; a tag-only
	// selector must still find them.
	doc := parseFragment(t, `<html><body>
	<audio><source type="audio/mpeg" src="/a.mp3"></audio>
	<table class="inflection-table"><tr><td>past tense<br>went</td><td class="form">plural<br>cats</td></tr></table>
	</body></html>`)

	sources := findAll(doc, sel("source"))
	require.Len(t, sources, 1)
	assert.Equal(t, "/a.mp3", attr(sources[0], "src"))

	assert.Len(t, findAll(doc, sel("td")), 2, "tag-only selectors match with and without classes")
}

func TestSelector_ClassFiltering(t *testing.T) {
	doc := parseFragment(t, `<html><body>
	<span class="hw dhw">word</span>
	<span class="hw">partial</span>
	<div class="hw dhw">wrong tag</div>
	</body></html>`)

	matches := findAll(doc, sel("span", "hw", "dhw"))
	require.Len(t, matches, 1)
	assert.Equal(t, "word", textOf(matches[0]))

	assert.Len(t, findAll(doc, sel("span", "hw")), 2)
}

func TestLinesOf_BrBoundaries(t *testing.T) {
	doc := parseFragment(t, `<table><tr><td>past tense<br>went</td></tr></table>`)
	cell := findFirst(doc, sel("td"))
	require.NotNil(t, cell)
	assert.Equal(t, "past tense\nwent", linesOf(cell))
}
