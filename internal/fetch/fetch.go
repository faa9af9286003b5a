// Package fetch is the async, text-only HTTP GET client the `get`
// command consumes. It is built on resty, the HTTP client the teacher
// corpus standardizes on for every outbound scrape (see
// vcassist-backend's lib/restyutil and lib/scrapers/*).
package fetch

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/go-resty/resty/v2"

	"scrapeycat/internal/state"
	"scrapeycat/internal/telemetry"
)

// DefaultMaxBodyBytes is the default cap on a response body's size,
// per the spec's recommended resource limit.
const DefaultMaxBodyBytes = 32 << 20 // 32 MiB

// HTTPError represents a non-2xx response or transport failure.
type HTTPError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *HTTPError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("http get %s: %s", e.URL, e.Err.Error())
	}
	return fmt.Sprintf("http get %s: unexpected status %d", e.URL, e.StatusCode)
}

func (e *HTTPError) Unwrap() error { return e.Err }

// ErrBodyTooLarge is returned when a response body exceeds MaxBodyBytes.
type ErrBodyTooLarge struct {
	URL   string
	Limit int64
}

func (e *ErrBodyTooLarge) Error() string {
	return fmt.Sprintf("http get %s: response body exceeds %d bytes", e.URL, e.Limit)
}

// Client wraps a resty.Client configured for text scraping: no cookie
// jar, no retries beyond what resty gives for free, redirects followed
// by default.
type Client struct {
	resty        *resty.Client
	maxBodyBytes int64
	tel          telemetry.API
}

// New constructs a Client. tel may be nil, in which case request/
// response debug logging is skipped.
func New(tel telemetry.API) *Client {
	rc := resty.New()
	// resty.New installs a cookie jar by default; drop it so no cookies
	// are kept between requests.
	rc.SetCookieJar(nil)

	c := &Client{
		resty:        rc,
		maxBodyBytes: DefaultMaxBodyBytes,
		tel:          tel,
	}

	if tel != nil {
		instrument(rc, tel)
	}

	return c
}

// SetMaxBodyBytes overrides the default body-size cap.
func (c *Client) SetMaxBodyBytes(n int64) {
	c.maxBodyBytes = n
}

// Get performs an HTTP GET against url with the given headers (passed
// through verbatim, duplicates and all) and returns the response body
// decoded as UTF-8 with invalid byte sequences lossily replaced. A
// non-2xx status or transport failure is a fatal *HTTPError.
func (c *Client) Get(ctx context.Context, url string, headers []state.Header) (string, error) {
	req := c.resty.R().SetContext(ctx).SetDoNotParseResponse(false)

	for _, h := range headers {
		req.SetHeader(h.Name, h.Value)
	}

	res, err := req.Get(url)
	if err != nil {
		return "", &HTTPError{URL: url, Err: err}
	}

	if res.StatusCode() < 200 || res.StatusCode() >= 300 {
		return "", &HTTPError{URL: url, StatusCode: res.StatusCode()}
	}

	body := res.Body()
	if c.maxBodyBytes > 0 && int64(len(body)) > c.maxBodyBytes {
		return "", &ErrBodyTooLarge{URL: url, Limit: c.maxBodyBytes}
	}

	return toValidUTF8(body), nil
}

func toValidUTF8(body []byte) string {
	s := string(body)
	if utf8.ValidString(s) {
		return s
	}
	return strings.ToValidUTF8(s, "�")
}
