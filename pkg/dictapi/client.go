// Package dictapi provides a client for the legacy JSON dictionary API
// (dictionaryapi.dev-compatible entries endpoint).
package dictapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rotisserie/eris"
)

// ErrNotFound is returned when the API answers 404 for a word.
var ErrNotFound = eris.New("dictapi: word not found")

// Phonetic is one entry of the flat phonetics list. There is no accent tag;
// classification downstream is audio-URL based.
type Phonetic struct {
	Text  string `json:"text"`
	Audio string `json:"audio"`
}

// Definition is a single sense within a meaning.
type Definition struct {
	Definition string `json:"definition"`
	Example    string `json:"example"`
}

// Meaning groups definitions under a part of speech.
type Meaning struct {
	PartOfSpeech string       `json:"partOfSpeech"`
	Definitions  []Definition `json:"definitions"`
}

// Entry is one dictionary entry for a word.
type Entry struct {
	Word      string     `json:"word"`
	Phonetics []Phonetic `json:"phonetics"`
	Meanings  []Meaning  `json:"meanings"`
}

// Client defines the legacy dictionary API operations.
type Client interface {
	// Entries fetches the entries for an English word.
	Entries(ctx context.Context, word string) ([]Entry, error)
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(base string) Option {
	return func(c *httpClient) { c.baseURL = base }
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) { c.http = hc }
}

type httpClient struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a legacy dictionary API client.
func NewClient(opts ...Option) Client {
	c := &httpClient{
		baseURL: "https://api.dictionaryapi.dev/api/v2",
		http: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *httpClient) Entries(ctx context.Context, word string) ([]Entry, error) {
	endpoint := c.baseURL + "/entries/en/" + url.PathEscape(word)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, eris.Wrap(err, "dictapi: create request")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "dictapi: request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return nil, eris.Wrapf(ErrNotFound, "%q", word)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("dictapi: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, eris.Wrap(err, "dictapi: read body")
	}

	var entries []Entry
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, eris.Wrap(err, "dictapi: decode entries")
	}
	if len(entries) == 0 {
		return nil, eris.Wrapf(ErrNotFound, "%q: empty result", word)
	}
	return entries, nil
}
