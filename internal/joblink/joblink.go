// Package joblink fetches the job-posting page behind a request's link to
// enrich the job-notes record. Everything here is best-effort: a page
// that cannot be fetched or parsed simply leaves the notes without a
// posting section.
package joblink

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 15 * time.Second

// DefaultUserAgent is the user agent string for HTTP requests.
const DefaultUserAgent = "Mozilla/5.0 (compatible; jobforge/1.0)"

// maxExcerptRunes bounds the posting excerpt written into the notes file.
const maxExcerptRunes = 400

// Posting holds the extracted summary of a job-posting page.
type Posting struct {
	URL     string
	Title   string
	Excerpt string
}

// Options configures fetch behavior.
type Options struct {
	Timeout    time.Duration
	UserAgent  string
	UseBrowser bool // Render JavaScript-heavy pages in a headless browser
}

// DefaultOptions returns sensible defaults for fetching.
func DefaultOptions() *Options {
	return &Options{
		Timeout:   DefaultTimeout,
		UserAgent: DefaultUserAgent,
	}
}

// Error represents a failure fetching or parsing a job-posting page.
type Error struct {
	URL     string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("joblink error for %s: %s: %v", e.URL, e.Message, e.Cause)
	}
	return fmt.Sprintf("joblink error for %s: %s", e.URL, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Fetch retrieves the posting page and extracts its title and a short
// description excerpt. When UseBrowser is set and the plain fetch looks
// like an unrendered SPA shell, the page is re-rendered headlessly.
func Fetch(ctx context.Context, link string, opts *Options) (*Posting, error) {
	if opts == nil {
		opts = DefaultOptions()
	}

	parsed, err := url.Parse(link)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, &Error{URL: link, Message: "invalid URL", Cause: err}
	}

	html, err := get(ctx, link, opts)
	if err != nil {
		return nil, err
	}

	posting := extract(link, html)
	if opts.UseBrowser && ShouldUseBrowser(posting.Excerpt) {
		if rendered, berr := renderBrowser(ctx, link, opts.Timeout); berr == nil {
			posting = extract(link, rendered)
		}
	}
	return posting, nil
}

func get(ctx context.Context, link string, opts *Options) (string, error) {
	client := &http.Client{Timeout: opts.Timeout}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, link, nil)
	if err != nil {
		return "", &Error{URL: link, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("User-Agent", opts.UserAgent)

	resp, err := client.Do(req)
	if err != nil {
		return "", &Error{URL: link, Message: "HTTP request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &Error{URL: link, Message: "failed to read response body", Cause: err}
	}
	if resp.StatusCode != http.StatusOK {
		return "", &Error{URL: link, Message: fmt.Sprintf("HTTP status %d", resp.StatusCode)}
	}
	return string(body), nil
}

// extract pulls the page title and the most descriptive short text block.
func extract(link, html string) *Posting {
	posting := &Posting{URL: link}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return posting
	}

	posting.Title = strings.TrimSpace(doc.Find("title").First().Text())

	if desc, ok := doc.Find(`meta[name="description"]`).Attr("content"); ok {
		posting.Excerpt = truncate(strings.TrimSpace(desc))
		if posting.Excerpt != "" {
			return posting
		}
	}

	// Fall back to the first substantial paragraph.
	doc.Find("nav, footer, header, script, style, noscript").Remove()
	doc.Find("p").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := strings.Join(strings.Fields(s.Text()), " ")
		if len(text) >= 80 {
			posting.Excerpt = truncate(text)
			return false
		}
		return true
	})
	return posting
}

func truncate(s string) string {
	runes := []rune(s)
	if len(runes) <= maxExcerptRunes {
		return s
	}
	return string(runes[:maxExcerptRunes]) + "…"
}
