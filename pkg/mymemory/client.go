// Package mymemory provides a client for the MyMemory machine translation
// API.
package mymemory

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rotisserie/eris"
)

// Client defines the translation operation.
type Client interface {
	// Translate renders text from source to target language.
	Translate(ctx context.Context, text, source, target string) (string, error)
}

// Response is the MyMemory envelope.
type Response struct {
	ResponseStatus int          `json:"responseStatus"`
	ResponseData   ResponseData `json:"responseData"`
}

// ResponseData holds the translated text and its memory match quality.
type ResponseData struct {
	TranslatedText string  `json:"translatedText"`
	Match          float64 `json:"match"`
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

// NewClient creates a MyMemory client.
func NewClient(opts ...Option) Client {
	c := &httpClient{
		baseURL: "https://api.mymemory.translated.net",
		http: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Translate calls the /get endpoint. An envelope with a non-200
// responseStatus or an empty translatedText counts as a failure: the
// service reports quota and low-confidence conditions inside a 200
// response.
func (c *httpClient) Translate(ctx context.Context, text, source, target string) (string, error) {
	q := url.Values{}
	q.Set("q", text)
	q.Set("langpair", source+"|"+target)
	endpoint := c.baseURL + "/get?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", eris.Wrap(err, "mymemory: create request")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", eris.Wrap(err, "mymemory: request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", eris.Errorf("mymemory: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", eris.Wrap(err, "mymemory: read body")
	}

	var env Response
	if err := json.Unmarshal(body, &env); err != nil {
		return "", eris.Wrap(err, "mymemory: decode envelope")
	}
	if env.ResponseStatus != http.StatusOK {
		return "", eris.Errorf("mymemory: response status %d", env.ResponseStatus)
	}
	translated := strings.TrimSpace(env.ResponseData.TranslatedText)
	if translated == "" {
		return "", eris.New("mymemory: empty translation")
	}
	return translated, nil
}
