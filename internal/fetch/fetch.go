// Package fetch provides paced HTTP fetching, optional headless browser
// rendering and HTML-to-text helpers for career-site adapters.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 30 * time.Second

// DefaultUserAgent is the user agent string for HTTP requests.
const DefaultUserAgent = "Mozilla/5.0 (compatible; CareersSync/1.0)"

// maxBodyBytes caps how much of a response body is read.
const maxBodyBytes = 10 << 20

// Result holds the raw and processed content from a URL fetch.
type Result struct {
	URL         string
	HTML        string
	ContentType string
	StatusCode  int
}

// Error represents an error during URL fetching.
type Error struct {
	URL        string
	StatusCode int
	Message    string
	Cause      error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("fetch error for %s: %s: %v", e.URL, e.Message, e.Cause)
	}
	return fmt.Sprintf("fetch error for %s: %s", e.URL, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Options configures the fetch behavior.
type Options struct {
	Timeout   time.Duration
	UserAgent string
	Headers   map[string]string

	// RequestsPerSecond paces every request made through one Client.
	// Zero disables pacing.
	RequestsPerSecond float64
	Burst             int

	// UseBrowser renders pages with headless Chrome instead of plain HTTP.
	UseBrowser bool
	// BrowserWait is how long to let scripts run after the body is ready.
	BrowserWait time.Duration
}

// DefaultOptions returns sensible defaults for fetching.
func DefaultOptions() *Options {
	return &Options{
		Timeout:   DefaultTimeout,
		UserAgent: DefaultUserAgent,
	}
}

// Client fetches pages for one source. It is safe for concurrent use; the
// rate limiter is shared by all callers.
type Client struct {
	http    *http.Client
	opts    Options
	limiter *rate.Limiter
	logger  *zap.Logger
}

// NewClient creates a Client. A nil opts uses DefaultOptions.
func NewClient(opts *Options, logger *zap.Logger) *Client {
	if opts == nil {
		opts = DefaultOptions()
	}
	o := *opts
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	if o.UserAgent == "" {
		o.UserAgent = DefaultUserAgent
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if o.RequestsPerSecond > 0 {
		burst := o.Burst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(o.RequestsPerSecond), burst)
	}

	return &Client{
		http:    &http.Client{Timeout: o.Timeout},
		opts:    o,
		limiter: limiter,
		logger:  logger.Named("fetch"),
	}
}

// Get retrieves a page over HTTP. A non-200 response is returned together
// with an *Error.
func (c *Client) Get(ctx context.Context, urlStr string) (*Result, error) {
	parsedURL, err := url.Parse(urlStr)
	if err != nil || parsedURL.Scheme == "" || parsedURL.Host == "" {
		return nil, &Error{URL: urlStr, Message: "invalid URL", Cause: err}
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &Error{URL: urlStr, Message: "rate limiter wait aborted", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		return nil, &Error{URL: urlStr, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("User-Agent", c.opts.UserAgent)
	for key, value := range c.opts.Headers {
		req.Header.Set(key, value)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &Error{URL: urlStr, Message: "HTTP request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	bodyBytes, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &Error{URL: urlStr, Message: "failed to read response body", Cause: err}
	}

	c.logger.Debug("fetched page",
		zap.String("url", urlStr),
		zap.Int("status", resp.StatusCode),
		zap.Int("bytes", len(bodyBytes)),
		zap.Duration("elapsed", time.Since(start)))

	result := &Result{
		URL:         urlStr,
		HTML:        string(bodyBytes),
		ContentType: resp.Header.Get("Content-Type"),
		StatusCode:  resp.StatusCode,
	}

	if resp.StatusCode != http.StatusOK {
		return result, &Error{URL: urlStr, StatusCode: resp.StatusCode, Message: fmt.Sprintf("HTTP status %d", resp.StatusCode)}
	}

	return result, nil
}

// HTML returns the page markup, rendered in a browser when the client is
// configured for it.
func (c *Client) HTML(ctx context.Context, urlStr string) (string, error) {
	if c.opts.UseBrowser {
		if err := c.limiter.Wait(ctx); err != nil {
			return "", &Error{URL: urlStr, Message: "rate limiter wait aborted", Cause: err}
		}
		html, err := c.Render(ctx, urlStr)
		if err != nil {
			return "", &Error{URL: urlStr, Message: "browser rendering failed", Cause: err}
		}
		return html, nil
	}

	res, err := c.Get(ctx, urlStr)
	if err != nil {
		return "", err
	}
	return res.HTML, nil
}

// Document fetches a page and parses it.
func (c *Client) Document(ctx context.Context, urlStr string) (*goquery.Document, error) {
	html, err := c.HTML(ctx, urlStr)
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, &Error{URL: urlStr, Message: "failed to parse HTML", Cause: err}
	}
	return doc, nil
}

// ExtractMainText parses HTML and returns the main body text.
// It removes noise elements using noiseSelectors, then finds content using contentSelectors.
// If no content selectors match, it falls back to the body element.
func ExtractMainText(html string, contentSelectors []string, noiseSelectors ...string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}
	return MainText(doc.Selection, contentSelectors, noiseSelectors...), nil
}

// MainText is ExtractMainText over an already parsed document. The selection
// is cloned, so the caller's document is not modified.
func MainText(root *goquery.Selection, contentSelectors []string, noiseSelectors ...string) string {
	sel := root.Clone()

	sel.Find("nav, footer, header, script, style, noscript, .ad, .advertisement, .ads, .sidebar, .cookie-banner, .popup").Remove()
	if len(noiseSelectors) > 0 {
		sel.Find(strings.Join(noiseSelectors, ", ")).Remove()
	}

	var mainContent *goquery.Selection
	for _, selector := range contentSelectors {
		if found := sel.Find(selector); found.Length() > 0 {
			mainContent = found.First()
			break
		}
	}
	if mainContent == nil {
		mainContent = sel.Find("body")
		if mainContent.Length() == 0 {
			mainContent = sel
		}
	}

	return cleanWhitespace(mainContent.Text())
}

// JobPostingSelectors returns selectors optimized for job detail pages.
func JobPostingSelectors() []string {
	return []string{
		".job-description",
		".job-content",
		"#job-description",
		"#job-content",
		".offer-content",
		".posting-content",
		".job-details",
		"[data-testid='job-description']",
		"main",
		"article",
		".content",
		"#content",
	}
}

// cleanWhitespace trims every line and drops blank ones.
func cleanWhitespace(text string) string {
	lines := strings.Split(text, "\n")
	var cleaned []string
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			cleaned = append(cleaned, line)
		}
	}
	return strings.Join(cleaned, "\n")
}
