// Package translate is the best-effort translation boundary. Failures never
// cross it: callers always get usable text back.
package translate

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/lexigo/lexigo/pkg/mymemory"
)

// BestEffort wraps a translation client and degrades silently: on any
// failure the original text is returned unchanged. The lookup flow
// composes several translation calls and a single failure must not abort
// the whole lookup.
type BestEffort struct {
	client mymemory.Client
	source string
	target string
}

// New creates a BestEffort translator for the given language pair.
func New(client mymemory.Client, source, target string) *BestEffort {
	return &BestEffort{client: client, source: source, target: target}
}

// Translate returns the translated text, or the input unchanged when the
// service fails or returns nothing usable.
func (b *BestEffort) Translate(ctx context.Context, text string) string {
	if strings.TrimSpace(text) == "" {
		return text
	}
	out, err := b.client.Translate(ctx, text, b.source, b.target)
	if err != nil {
		zap.L().Debug("translate: degraded to original text",
			zap.String("text", text),
			zap.Error(err),
		)
		return text
	}
	return out
}
