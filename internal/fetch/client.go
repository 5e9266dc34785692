// Package fetch provides the resilient HTTP text fetcher: a timeout-bounded
// direct client, a cross-origin-shaped fault classifier, and an ordered
// relay fallback chain for hosts that refuse direct browser-style requests.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
)

// maxBodyBytes caps how much of a response body is read. Dictionary pages
// run well under 2 MiB.
const maxBodyBytes = 2 << 20

// Options configures the fetch client.
type Options struct {
	UserAgent    string
	Timeout      time.Duration
	RateLimiters map[string]*rate.Limiter
}

// TimeoutError reports that a request exceeded its time budget.
type TimeoutError struct {
	URL    string
	Budget time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("fetch: %s: timeout after %s", e.URL, e.Budget)
}

// Timeout marks the error as a timeout for net.Error-style checks.
func (e *TimeoutError) Timeout() bool { return true }

// StatusError reports a non-2xx HTTP response. It is never classified as
// cross-origin-shaped: a genuine 404/500 must not be masked by relay retries.
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("fetch: %s: status %d", e.URL, e.Code)
}

// Client issues GET requests with a per-request timeout and per-host rate
// limiting.
type Client struct {
	http     *http.Client
	opts     Options
	limiters map[string]*rate.Limiter
}

// NewClient creates a fetch client with the given options.
func NewClient(opts Options) *Client {
	if opts.Timeout == 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.UserAgent == "" {
		opts.UserAgent = "lexigo/1.0"
	}
	limiters := make(map[string]*rate.Limiter)
	for k, v := range opts.RateLimiters {
		limiters[k] = v
	}
	return &Client{
		http: &http.Client{
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		opts:     opts,
		limiters: limiters,
	}
}

func (c *Client) limiterFor(rawURL string) *rate.Limiter {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil
	}
	return c.limiters[u.Host]
}

// FetchText issues a GET and returns the response body as a string.
//
// When headers is non-nil it replaces the default header set entirely (no
// merge); callers use this to strip headers that upset picky upstreams.
// Exceeding the timeout fails with a *TimeoutError carrying the budget;
// a non-2xx response fails with a *StatusError.
func (c *Client) FetchText(ctx context.Context, rawURL string, headers map[string]string) (string, error) {
	body, err := c.FetchBytes(ctx, rawURL, headers)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// FetchBytes is FetchText without the string conversion, for binary assets
// such as pronunciation audio.
func (c *Client) FetchBytes(ctx context.Context, rawURL string, headers map[string]string) ([]byte, error) {
	if lim := c.limiterFor(rawURL); lim != nil {
		if err := lim.Wait(ctx); err != nil {
			return nil, eris.Wrap(err, "fetch: rate limiter wait")
		}
	}

	reqCtx, cancel := context.WithTimeout(ctx, c.opts.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "fetch: create request")
	}
	if headers != nil {
		for k, v := range headers {
			req.Header.Set(k, v)
		}
	} else {
		req.Header.Set("User-Agent", c.opts.UserAgent)
		req.Header.Set("Accept", "text/html,application/json;q=0.9,*/*;q=0.8")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			return nil, &TimeoutError{URL: rawURL, Budget: c.opts.Timeout}
		}
		return nil, eris.Wrapf(err, "fetch: %s", rawURL)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{URL: rawURL, Code: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			return nil, &TimeoutError{URL: rawURL, Budget: c.opts.Timeout}
		}
		return nil, eris.Wrapf(err, "fetch: read body of %s", rawURL)
	}
	return body, nil
}
