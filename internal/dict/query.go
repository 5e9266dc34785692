package dict

import (
	"strings"

	"golang.org/x/net/html"
)

// selector matches nodes by tag name and required CSS classes. This is the
// only CSS-selector-equivalent mechanism in the package; every upstream
// markup dependency goes through the selector tables in cambridge.go and
// inflect.go so a site redesign touches one place.
type selector struct {
	tag     string
	classes []string
}

func sel(tag string, classes ...string) selector {
	return selector{tag: tag, classes: classes}
}

func (s selector) matches(n *html.Node) bool {
	if n.Type != html.ElementNode {
		return false
	}
	if s.tag != "" && n.Data != s.tag {
		return false
	}
	for _, c := range s.classes {
		if !hasClass(n, c) {
			return false
		}
	}
	return true
}

func hasClass(n *html.Node, class string) bool {
	for _, f := range strings.Fields(attr(n, "class")) {
		if f == class {
			return true
		}
	}
	return false
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// findAll returns all descendants (including n itself) matching s, in
// document order.
func findAll(n *html.Node, s selector) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(c *html.Node) {
		if s.matches(c) {
			out = append(out, c)
		}
		for child := c.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(n)
	return out
}

// findFirst returns the first descendant matching s, or nil.
func findFirst(n *html.Node, s selector) *html.Node {
	if s.matches(n) {
		return n
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if m := findFirst(child, s); m != nil {
			return m
		}
	}
	return nil
}

// textOf concatenates the text content of n with whitespace collapsed.
func textOf(n *html.Node) string {
	if n == nil {
		return ""
	}
	var b strings.Builder
	collectText(n, &b, false)
	return collapseSpace(b.String())
}

// linesOf concatenates text content with <br> boundaries rendered as
// newlines, for cells whose payload is split across a line break.
func linesOf(n *html.Node) string {
	if n == nil {
		return ""
	}
	var b strings.Builder
	collectText(n, &b, true)
	return b.String()
}

func collectText(n *html.Node, b *strings.Builder, brAsNewline bool) {
	switch n.Type {
	case html.TextNode:
		b.WriteString(n.Data)
	case html.ElementNode:
		if brAsNewline && n.Data == "br" {
			b.WriteByte('\n')
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, b, brAsNewline)
	}
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
