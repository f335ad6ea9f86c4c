// ABOUTME: HTTP fetcher resolving a feed URL to raw bytes with bounded timeout and redirects
// ABOUTME: Classifies failures into typed errors so callers can decide retry policy per class

package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const (
	// MaxResponseSize caps feed bodies at 10MB as DoS protection.
	MaxResponseSize = 10 * 1024 * 1024

	// MaxRedirects bounds how many redirects a single fetch follows.
	MaxRedirects = 5

	// DefaultTimeout is the per-request timeout when none is configured.
	DefaultTimeout = 30 * time.Second
)

// Errors returned by Fetch. Timeout and Unreachable are the transient
// classes; callers may retry those, never the others.
var (
	ErrInvalidURL       = errors.New("invalid URL")
	ErrUnreachable      = errors.New("host unreachable")
	ErrTimeout          = errors.New("request timed out")
	ErrTooManyRedirects = errors.New("too many redirects")
)

// HTTPError indicates a non-2xx response status.
type HTTPError struct {
	Status int
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("unexpected status code: %d", e.Status)
}

// Result contains the response from a successful fetch.
type Result struct {
	Body         []byte
	Status       int
	LastModified string // Last-Modified response header, if any
}

// Fetcher retrieves raw feed bytes over HTTP. It performs no retries;
// retry policy belongs to the sync coordinator.
type Fetcher struct {
	client *http.Client
}

// New creates a Fetcher with the given per-request timeout.
// A zero timeout falls back to DefaultTimeout.
func New(timeout time.Duration) *Fetcher {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Fetcher{
		client: &http.Client{
			Timeout: timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= MaxRedirects {
					return ErrTooManyRedirects
				}
				return nil
			},
		},
	}
}

// Fetch performs an HTTP GET of the given absolute http(s) URL.
// Failures map to ErrInvalidURL, ErrUnreachable, ErrTimeout,
// ErrTooManyRedirects, or *HTTPError for non-2xx responses.
func (f *Fetcher) Fetch(ctx context.Context, urlStr string) (*Result, error) {
	if err := ValidateURL(urlStr); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	req.Header.Set("User-Agent", "reeder/1.0 (feed reader)")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, classify(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &HTTPError{Status: resp.StatusCode}
	}

	// Read response body with size limit
	limitedReader := io.LimitReader(resp.Body, MaxResponseSize+1)
	body, err := io.ReadAll(limitedReader)
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", ErrUnreachable, err)
	}
	if int64(len(body)) > MaxResponseSize {
		return nil, fmt.Errorf("response too large (exceeds %d bytes)", MaxResponseSize)
	}

	return &Result{
		Body:         body,
		Status:       resp.StatusCode,
		LastModified: resp.Header.Get("Last-Modified"),
	}, nil
}

// ValidateURL rejects anything that is not a well-formed absolute
// http or https URL.
func ValidateURL(urlStr string) error {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("%w: scheme must be http or https", ErrInvalidURL)
	}
	if parsed.Host == "" {
		return fmt.Errorf("%w: missing host", ErrInvalidURL)
	}
	return nil
}

// Transient reports whether err belongs to a retryable failure class.
func Transient(err error) bool {
	return errors.Is(err, ErrTimeout) || errors.Is(err, ErrUnreachable)
}

// classify maps transport-level errors onto the fetch error taxonomy.
func classify(err error) error {
	if errors.Is(err, ErrTooManyRedirects) {
		return fmt.Errorf("%w: gave up after %d", ErrTooManyRedirects, MaxRedirects)
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Timeout() {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}

	return fmt.Errorf("%w: %v", ErrUnreachable, err)
}
