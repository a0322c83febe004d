// Package preview fetches a short summary of a cookbook's website.
package preview

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// ErrNoWebsite is returned when a cookbook message names no website.
var ErrNoWebsite = errors.New("cookbook has no website")

const maxDescription = 280

// Page is the summary shown next to a cookbook.
type Page struct {
	URL         string
	Title       string
	Description string
}

// Fetcher retrieves page summaries over HTTP.
type Fetcher struct {
	httpClient *http.Client
}

// NewFetcher creates a Fetcher with the given timeout.
func NewFetcher(timeout time.Duration) *Fetcher {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Fetcher{httpClient: &http.Client{Timeout: timeout}}
}

// WebsiteFromMessage finds the first http(s) URL in a cookbook info message.
func WebsiteFromMessage(message string) (string, bool) {
	for _, field := range strings.Fields(message) {
		field = strings.TrimRight(field, ".,;)")
		if !strings.HasPrefix(field, "http://") && !strings.HasPrefix(field, "https://") {
			continue
		}
		u, err := url.Parse(field)
		if err != nil || u.Host == "" {
			continue
		}
		return u.String(), true
	}
	return "", false
}

// FetchFromMessage fetches the website named in a cookbook info message.
func (f *Fetcher) FetchFromMessage(ctx context.Context, message string) (*Page, error) {
	site, ok := WebsiteFromMessage(message)
	if !ok {
		return nil, ErrNoWebsite
	}
	return f.Fetch(ctx, site)
}

// Fetch downloads pageURL and extracts its title and description.
func (f *Fetcher) Fetch(ctx context.Context, pageURL string) (*Page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "text/html")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch URL: status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse page: %w", err)
	}
	return summarize(doc, pageURL), nil
}

func summarize(doc *goquery.Document, pageURL string) *Page {
	page := &Page{URL: pageURL}

	page.Title = firstNonEmpty(
		metaContent(doc, `meta[property="og:title"]`),
		doc.Find("title").First().Text(),
		doc.Find("h1").First().Text(),
	)
	page.Description = firstNonEmpty(
		metaContent(doc, `meta[name="description"]`),
		metaContent(doc, `meta[property="og:description"]`),
		bodyText(doc),
	)
	page.Description = truncate(page.Description, maxDescription)
	return page
}

func metaContent(doc *goquery.Document, selector string) string {
	content, _ := doc.Find(selector).First().Attr("content")
	return content
}

// bodyText is the visible text of the first paragraph once noise is removed.
func bodyText(doc *goquery.Document) string {
	doc.Find("script, style, nav, footer, iframe, .ads, #ads").Each(func(i int, s *goquery.Selection) {
		s.Remove()
	})
	return doc.Find("body p").First().Text()
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.Join(strings.Fields(v), " "); v != "" {
			return v
		}
	}
	return ""
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return strings.TrimSpace(string(r[:n-1])) + "…"
}
