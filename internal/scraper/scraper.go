// Package scraper walks the paginated assessment product catalog and turns it
// into catalog records. The listing pages expose a table per test-type family
// (name, remote support, adaptive support, type codes); descriptions, job
// levels and assessment length live on per-assessment detail pages.
package scraper

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/net/html"

	"github.com/hirewise/recommender/internal/catalog"
)

const (
	// DefaultBaseURL is the catalog listing endpoint.
	DefaultBaseURL = "https://www.shl.com/solutions/products/product-catalog/"

	// DefaultUserAgent mimics a desktop browser; the catalog serves an empty
	// shell to generic clients.
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

	// pageSize is the number of rows per listing page.
	pageSize = 12

	// typeFamilies is the number of test-type families the catalog paginates over.
	typeFamilies = 8
)

// Config holds scraper configuration.
type Config struct {
	BaseURL   string
	UserAgent string
	// Delay is the politeness delay between HTTP requests (default 1s).
	Delay time.Duration
	// MaxPages bounds pagination per type family.
	MaxPages int
	// HTTPClient is an optional custom HTTP client.
	HTTPClient *http.Client
}

// Scraper fetches and parses the assessment catalog.
type Scraper struct {
	baseURL   string
	userAgent string
	delay     time.Duration
	maxPages  int
	client    *http.Client
}

// New creates a catalog scraper.
func New(cfg Config) *Scraper {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.Delay <= 0 {
		cfg.Delay = time.Second
	}
	if cfg.MaxPages <= 0 {
		cfg.MaxPages = 100
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Scraper{
		baseURL:   cfg.BaseURL,
		userAgent: cfg.UserAgent,
		delay:     cfg.Delay,
		maxPages:  cfg.MaxPages,
		client:    cfg.HTTPClient,
	}
}

// ScrapeAll walks every listing page of every type family and returns the
// full set of assessments, detail pages included. maxResults <= 0 means
// unbounded.
func (s *Scraper) ScrapeAll(ctx context.Context, maxResults int) ([]*catalog.Assessment, error) {
	var all []*catalog.Assessment

	for start := 0; start < s.maxPages*pageSize; start += pageSize {
		for typeNum := 1; typeNum <= typeFamilies; typeNum++ {
			if maxResults > 0 && len(all) >= maxResults {
				return all, nil
			}
			select {
			case <-ctx.Done():
				return all, ctx.Err()
			default:
			}

			slog.Info("scraping catalog page", "start", start, "type", typeNum)
			page, err := s.fetchListing(ctx, start, typeNum)
			if err != nil {
				slog.Error("failed to fetch catalog page", "start", start, "type", typeNum, "error", err)
				continue
			}

			rows, err := s.parseListing(ctx, page)
			if err != nil {
				slog.Error("failed to parse catalog page", "start", start, "type", typeNum, "error", err)
				continue
			}

			all = append(all, rows...)
			s.sleep(ctx)
		}
	}

	return all, nil
}

func (s *Scraper) fetchListing(ctx context.Context, start, typeNum int) (string, error) {
	u, err := url.Parse(s.baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid base URL: %w", err)
	}
	q := u.Query()
	q.Set("start", fmt.Sprintf("%d", start))
	q.Set("type", fmt.Sprintf("%d", typeNum))
	u.RawQuery = q.Encode()

	return s.get(ctx, u.String())
}

func (s *Scraper) get(ctx context.Context, rawURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetching %s: status %d", rawURL, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading body: %w", err)
	}
	return string(body), nil
}

// parseListing extracts assessment rows from a listing page and follows each
// detail link for the description fields.
func (s *Scraper) parseListing(ctx context.Context, htmlContent string) ([]*catalog.Assessment, error) {
	doc, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		return nil, fmt.Errorf("parsing listing HTML: %w", err)
	}

	var assessments []*catalog.Assessment
	for _, table := range findAll(doc, "table", "") {
		rows := findAll(table, "tr", "")
		if len(rows) <= 1 {
			continue
		}
		for _, row := range rows[1:] { // skip header row
			cols := findAll(row, "td", "")
			if len(cols) < 4 {
				continue
			}

			link := resolveLink(s.baseURL, firstHref(cols[0]))
			a := &catalog.Assessment{
				ID:              uuid.New(),
				Name:            nodeText(cols[0]),
				Link:            link,
				RemoteSupport:   yesNoCircle(cols[1]),
				AdaptiveSupport: yesNoCircle(cols[2]),
				TestType:        nodeText(cols[3]),
			}

			if err := s.fillDetail(ctx, a); err != nil {
				slog.Warn("failed to fetch assessment detail", "link", a.Link, "error", err)
			}

			assessments = append(assessments, a)
		}
	}

	return assessments, nil
}

// fillDetail fetches the assessment detail page and fills description, job
// levels, duration and the parsed minute count.
func (s *Scraper) fillDetail(ctx context.Context, a *catalog.Assessment) error {
	if a.Link == "" {
		return nil
	}

	page, err := s.get(ctx, a.Link)
	if err != nil {
		return err
	}

	doc, err := html.Parse(strings.NewReader(page))
	if err != nil {
		return fmt.Errorf("parsing detail HTML: %w", err)
	}

	for _, row := range findAll(doc, "div", "product-catalogue-training-calendar__row") {
		headings := findAll(row, "h4", "")
		paragraphs := findAll(row, "p", "")
		if len(headings) == 0 || len(paragraphs) == 0 {
			continue
		}
		title := strings.ToLower(nodeText(headings[0]))
		value := nodeText(paragraphs[0])

		switch {
		case strings.Contains(title, "description"):
			a.Description = value
		case strings.Contains(title, "job level"):
			a.JobLevels = value
		case strings.Contains(title, "assessment length"):
			a.Duration = value
			a.DurationMinutes = catalog.ParseDurationMinutes(value)
		}
	}

	s.sleep(ctx)
	return nil
}

func (s *Scraper) sleep(ctx context.Context) {
	select {
	case <-time.After(s.delay):
	case <-ctx.Done():
	}
}

// yesNoCircle reads the catalog's yes/no circle markers from a cell.
func yesNoCircle(cell *html.Node) string {
	for _, span := range findAll(cell, "span", "catalogue__circle") {
		classes := attrVal(span, "class")
		if strings.Contains(classes, "-yes") {
			return catalog.SupportYes
		}
		if strings.Contains(classes, "-no") {
			return catalog.SupportNo
		}
	}
	return ""
}

func resolveLink(base, href string) string {
	if href == "" {
		return ""
	}
	baseURL, err := url.Parse(base)
	if err != nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return baseURL.ResolveReference(ref).String()
}

// findAll returns every descendant element with the given tag, optionally
// filtered to nodes whose class attribute contains class.
func findAll(n *html.Node, tag, class string) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.ElementNode && node.Data == tag {
			if class == "" || strings.Contains(attrVal(node, "class"), class) {
				out = append(out, node)
			}
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return out
}

func attrVal(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func firstHref(n *html.Node) string {
	links := findAll(n, "a", "")
	if len(links) == 0 {
		return ""
	}
	return attrVal(links[0], "href")
}

// nodeText returns the concatenated, whitespace-normalized text of a node.
func nodeText(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.TextNode {
			sb.WriteString(node.Data)
			sb.WriteString(" ")
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(strings.Fields(sb.String()), " ")
}
