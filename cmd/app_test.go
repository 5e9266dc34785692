package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexigo/lexigo/internal/config"
)

func TestRateLimiters_CoversUpstreamHosts(t *testing.T) {
	cfg = &config.Config{
		Dictionary: config.DictionaryConfig{
			BaseURL:         "https://dictionary.cambridge.org",
			FallbackAPIBase: "https://api.dictionaryapi.dev/api/v2",
		},
		Translate: config.TranslateConfig{BaseURL: "https://api.mymemory.translated.net"},
		Inflect:   config.InflectConfig{BaseURL: "https://en.wiktionary.org/wiki/"},
		Fetch:     config.FetchConfig{RatePerHost: 5},
	}

	limiters := rateLimiters()

	for _, host := range []string{
		"dictionary.cambridge.org",
		"api.dictionaryapi.dev",
		"api.mymemory.translated.net",
		"en.wiktionary.org",
		// Relay hosts come from the default chain when none is configured.
		"api.allorigins.win",
		"corsproxy.io",
		"api.codetabs.com",
	} {
		require.Contains(t, limiters, host)
		assert.Equal(t, float64(5), float64(limiters[host].Limit()))
	}
}

func TestRateLimiters_Disabled(t *testing.T) {
	cfg = &config.Config{Fetch: config.FetchConfig{RatePerHost: 0}}
	assert.Nil(t, rateLimiters())
}
