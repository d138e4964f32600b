package resolve

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/sig-0/pricecast/registry"
)

const (
	DefaultTimeout   = 15 * time.Second
	DefaultUserAgent = "Mozilla/5.0 (compatible; pricecast/1.0; +https://github.com/sig-0/pricecast)"

	maxBodySize = 4 << 20 // 4 MiB
)

var ErrUnexpectedStatus = errors.New("unexpected status code")

// Fetcher retrieves the raw response body of a source
type Fetcher interface {
	// Fetch performs a single attempt at fetching the source
	Fetch(context.Context, registry.Source) ([]byte, error)
}

// HTTPFetcher fetches sources with a single bounded GET request
type HTTPFetcher struct {
	client    *http.Client
	headers   map[string]string
	userAgent string
	timeout   time.Duration
}

type FetcherOption func(f *HTTPFetcher)

// WithTimeout sets the per-request timeout. Defaults to 15s.
// Sources with their own timeout override it
func WithTimeout(d time.Duration) FetcherOption {
	return func(f *HTTPFetcher) {
		if d > 0 {
			f.timeout = d
		}
	}
}

// WithUserAgent sets the User-Agent header sent to every source
func WithUserAgent(ua string) FetcherOption {
	return func(f *HTTPFetcher) {
		if ua != "" {
			f.userAgent = ua
		}
	}
}

// WithHeader adds a static header sent to every source
func WithHeader(key, value string) FetcherOption {
	return func(f *HTTPFetcher) {
		f.headers[key] = value
	}
}

// WithHTTPClient sets the underlying HTTP client
func WithHTTPClient(c *http.Client) FetcherOption {
	return func(f *HTTPFetcher) {
		if c != nil {
			f.client = c
		}
	}
}

// NewHTTPFetcher creates a new HTTP source fetcher
func NewHTTPFetcher(opts ...FetcherOption) *HTTPFetcher {
	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           (&net.Dialer{Timeout: 5 * time.Second, KeepAlive: 30 * time.Second}).DialContext,
		MaxIdleConns:          20,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   5 * time.Second,
		ExpectContinueTimeout: time.Second,
		ForceAttemptHTTP2:     true,
	}

	f := &HTTPFetcher{
		client:    &http.Client{Transport: transport},
		headers:   make(map[string]string),
		userAgent: DefaultUserAgent,
		timeout:   DefaultTimeout,
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

func (f *HTTPFetcher) Fetch(ctx context.Context, src registry.Source) ([]byte, error) {
	timeout := f.timeout
	if src.Timeout > 0 {
		timeout = src.Timeout
	}

	ctx, cancelFn := context.WithTimeout(ctx, timeout)
	defer cancelFn()

	// Prepare the request
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src.URL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("unable to create new GET request: %w", err)
	}

	req.Header.Set("User-Agent", f.userAgent)

	switch src.Kind {
	case registry.KindJSON:
		req.Header.Set("Accept", "application/json")
	case registry.KindHTML:
		req.Header.Set("Accept", "text/html,application/xhtml+xml")
	}

	for k, v := range f.headers {
		req.Header.Set(k, v)
	}

	// Execute the request
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("unable to execute GET request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("unable to read response body: %w", err)
	}

	return body, nil
}
