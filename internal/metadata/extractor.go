// Package metadata suggests outlet fields from a live page, for form
// prefilling.
package metadata

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/jonesrussell/gopress/internal/logger"
	"github.com/jonesrussell/gopress/internal/models"
)

const (
	// defaultHTTPTimeout is the default timeout for HTTP requests
	defaultHTTPTimeout = 30 * time.Second
)

// Suggestion represents suggested outlet values extracted from a URL.
type Suggestion struct {
	Name        string `json:"name"`
	URL         string `json:"url"`
	Domain      string `json:"domain"`
	Description string `json:"description,omitempty"`
}

// Extractor handles metadata extraction from URLs.
type Extractor struct {
	logger logger.Logger
	client *http.Client
}

// NewExtractor creates a new metadata extractor.
func NewExtractor(log logger.Logger) *Extractor {
	return &Extractor{
		logger: log,
		client: &http.Client{
			Timeout: defaultHTTPTimeout,
		},
	}
}

// Extract fetches a URL and suggests outlet name, domain, and description.
func (e *Extractor) Extract(ctx context.Context, outletURL string) (*Suggestion, error) {
	parsedURL, err := url.Parse(outletURL)
	if err != nil || !parsedURL.IsAbs() {
		return nil, models.NewValidationError("url", "must be a valid absolute URL")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, outletURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	// Set user agent to avoid bot blocking
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; Gopress/1.0)")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch URL: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	suggestion := &Suggestion{
		URL:         outletURL,
		Domain:      models.ExtractDomain(outletURL),
		Name:        extractName(doc, parsedURL),
		Description: extractDescription(doc),
	}

	e.logger.Info("metadata extraction complete",
		logger.String("url", outletURL),
		logger.String("name", suggestion.Name),
	)

	return suggestion, nil
}

// extractName picks a suggested outlet name from the page.
func extractName(doc *goquery.Document, parsedURL *url.URL) string {
	// Site name describes the outlet better than a page title
	if ogSite, exists := doc.Find("meta[property='og:site_name']").Attr("content"); exists && ogSite != "" {
		return ogSite
	}

	if ogTitle, exists := doc.Find("meta[property='og:title']").Attr("content"); exists && ogTitle != "" {
		return ogTitle
	}

	if title := doc.Find("title").First().Text(); title != "" {
		return strings.TrimSpace(title)
	}

	// Fall back to domain name
	return parsedURL.Host
}

func extractDescription(doc *goquery.Document) string {
	if ogDesc, exists := doc.Find("meta[property='og:description']").Attr("content"); exists && ogDesc != "" {
		return ogDesc
	}
	if desc, exists := doc.Find("meta[name='description']").Attr("content"); exists {
		return desc
	}
	return ""
}
