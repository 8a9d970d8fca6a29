package renderer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"

	"github.com/brandscan/brandscan/internal/model"
)

// Fetch failure sentinels. Callers match with errors.Is.
var (
	// ErrNotHTML is returned when the response is not an HTML document.
	ErrNotHTML = errors.New("response is not an HTML document")

	// ErrHTTPStatus is returned on a non-success HTTP status.
	ErrHTTPStatus = errors.New("unexpected HTTP status")
)

// Renderer defaults. Overridable per instance via options.
const (
	// defaultTimeout bounds a single page fetch.
	defaultTimeout = 30 * time.Second

	// defaultMaxBodySize bounds how much HTML is read. Pages larger
	// than this are truncated, not rejected.
	defaultMaxBodySize = 5 * 1024 * 1024 // 5 MB

	// defaultUserAgent identifies the scanner to remote sites.
	defaultUserAgent = "Mozilla/5.0 (compatible; brandscan/1.0; +https://github.com/brandscan/brandscan)"
)

// Default viewport used for area estimation when the page itself gives
// no geometry. A full-viewport background on this viewport covers
// 2,073,600 square pixels, comfortably above the large-background
// threshold.
const (
	DefaultViewportWidth  = 1920.0
	DefaultViewportHeight = 1080.0
)

// Renderer fetches pages and extracts raw design observations from the
// parsed DOM. Safe for concurrent use once constructed.
type Renderer struct {
	client      *http.Client
	userAgent   string
	maxBodySize int64
	viewportW   float64
	viewportH   float64
	headers     map[string]string
	logger      *slog.Logger
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithHTTPClient sets the HTTP client used for page fetches. The
// client's own timeout applies; pass a client with a timeout you trust.
func WithHTTPClient(client *http.Client) Option {
	return func(r *Renderer) {
		if client != nil {
			r.client = client
		}
	}
}

// WithUserAgent overrides the User-Agent header sent with fetches.
func WithUserAgent(ua string) Option {
	return func(r *Renderer) {
		if ua != "" {
			r.userAgent = ua
		}
	}
}

// WithMaxBodySize bounds how many bytes of HTML are read per page.
func WithMaxBodySize(n int64) Option {
	return func(r *Renderer) {
		if n > 0 {
			r.maxBodySize = n
		}
	}
}

// WithViewport sets the assumed viewport used for area estimation.
func WithViewport(width, height float64) Option {
	return func(r *Renderer) {
		if width > 0 && height > 0 {
			r.viewportW = width
			r.viewportH = height
		}
	}
}

// WithHeader adds a header to every fetch (e.g. a cookie for pages
// behind a consent wall).
func WithHeader(key, value string) Option {
	return func(r *Renderer) {
		if r.headers == nil {
			r.headers = make(map[string]string)
		}
		r.headers[key] = value
	}
}

// WithLogger sets the structured logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Renderer) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewRenderer creates a Renderer with the default fetch policy.
func NewRenderer(opts ...Option) *Renderer {
	r := &Renderer{
		client:      &http.Client{Timeout: defaultTimeout},
		userAgent:   defaultUserAgent,
		maxBodySize: defaultMaxBodySize,
		viewportW:   DefaultViewportWidth,
		viewportH:   DefaultViewportHeight,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render fetches rawURL and extracts its page signals. The final URL
// after redirects is recorded in the result.
func (r *Renderer) Render(ctx context.Context, rawURL string) (*model.PageSignals, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request for %s: %w", rawURL, err)
	}
	req.Header.Set("User-Agent", r.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")
	for key, value := range r.headers {
		req.Header.Set(key, value)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusBadRequest {
		return nil, fmt.Errorf("%w: %d for %s", ErrHTTPStatus, resp.StatusCode, rawURL)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType != "" && !strings.Contains(contentType, "html") {
		return nil, fmt.Errorf("%w: content type %q for %s", ErrNotHTML, contentType, rawURL)
	}

	body, err := charset.NewReader(io.LimitReader(resp.Body, r.maxBodySize), contentType)
	if err != nil {
		return nil, fmt.Errorf("decode body of %s: %w", rawURL, err)
	}

	finalURL := rawURL
	if resp.Request != nil && resp.Request.URL != nil {
		finalURL = resp.Request.URL.String()
	}

	signals, err := r.Extract(body, finalURL)
	if err != nil {
		return nil, err
	}

	r.logger.DebugContext(ctx, "page rendered",
		"url", finalURL,
		"colors", len(signals.Colors),
		"fonts", len(signals.Fonts),
		"logos", len(signals.Logos))
	return signals, nil
}

// Extract parses an HTML document and collects its raw design
// observations. Exposed separately from Render so callers can extract
// from saved documents without a network fetch.
func (r *Renderer) Extract(body io.Reader, pageURL string) (*model.PageSignals, error) {
	doc, err := html.Parse(body)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", pageURL, err)
	}

	base, err := url.Parse(pageURL)
	if err != nil {
		base = nil
	}

	e := &extractor{
		base:      base,
		viewportW: r.viewportW,
		viewportH: r.viewportH,
		signals:   &model.PageSignals{URL: pageURL},
	}
	e.walk(doc, nodeState{})
	e.finish()
	return e.signals, nil
}
