// Package refiner normalizes raw user input into a search query. Input may be
// a plain query, a pasted job description, or a URL pointing at one; job
// descriptions are condensed into a single natural-language query by an LLM.
package refiner

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/hirewise/recommender/internal/llm"
)

// minBlockLen is the minimum character count for a page text block to count
// as job-description content.
const minBlockLen = 100

// maxBlocks caps how many extracted text blocks are fed to the LLM.
const maxBlocks = 5

// jdKeywords mark input that is probably a pasted job description.
var jdKeywords = []string{
	"responsibilities",
	"qualifications",
	"job description",
	"apply now",
	"skills required",
}

// PageFetcher fetches a rendered page; used as a fallback for sites that
// build their content client-side.
type PageFetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// Refiner turns raw input into a search query.
type Refiner struct {
	llmClient llm.LLM
	client    *http.Client
	headless  PageFetcher // optional
	userAgent string
}

// Option is a functional option for configuring Refiner.
type Option func(*Refiner)

// WithHTTPClient sets a custom HTTP client for URL fetches.
func WithHTTPClient(client *http.Client) Option {
	return func(r *Refiner) {
		r.client = client
	}
}

// WithHeadlessFetcher sets a rendered-page fetcher used when the plain fetch
// yields no usable text blocks.
func WithHeadlessFetcher(f PageFetcher) Option {
	return func(r *Refiner) {
		r.headless = f
	}
}

// New creates a Refiner backed by the given LLM.
func New(llmClient llm.LLM, opts ...Option) *Refiner {
	r := &Refiner{
		llmClient: llmClient,
		client:    &http.Client{Timeout: 10 * time.Second},
		userAgent: "Mozilla/5.0",
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Refine classifies the input and returns a search query:
// URL input is scraped and condensed, job-description text is condensed,
// anything else is passed through trimmed.
func (r *Refiner) Refine(ctx context.Context, input string) (string, error) {
	input = strings.TrimSpace(input)

	switch {
	case IsURL(input):
		slog.Info("detected URL input, extracting job description", "url", input)
		jdText, err := r.extractFromURL(ctx, input)
		if err != nil {
			return "", fmt.Errorf("extracting job description from URL: %w", err)
		}
		return r.queryFromJD(ctx, jdText)

	case IsProbableJD(input):
		slog.Info("detected job description input")
		return r.queryFromJD(ctx, input)

	default:
		return input, nil
	}
}

// IsURL reports whether the input is a URL.
func IsURL(text string) bool {
	return strings.HasPrefix(text, "http://") || strings.HasPrefix(text, "https://")
}

// IsProbableJD reports whether the input looks like a pasted job description
// rather than a short search query.
func IsProbableJD(text string) bool {
	if len(strings.Fields(text)) > 50 {
		return true
	}
	lower := strings.ToLower(text)
	for _, kw := range jdKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// extractFromURL fetches the page and pulls out the largest text blocks.
func (r *Refiner) extractFromURL(ctx context.Context, rawURL string) (string, error) {
	page, err := r.fetch(ctx, rawURL)
	if err != nil {
		return "", err
	}

	blocks := ExtractTextBlocks(page)
	if len(blocks) == 0 && r.headless != nil {
		slog.Info("plain fetch yielded no content, retrying with headless browser", "url", rawURL)
		page, err = r.headless.Fetch(ctx, rawURL)
		if err != nil {
			return "", err
		}
		blocks = ExtractTextBlocks(page)
	}
	if len(blocks) == 0 {
		return "", fmt.Errorf("no job description content found at %s", rawURL)
	}

	return strings.Join(blocks, "\n"), nil
}

func (r *Refiner) fetch(ctx context.Context, rawURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", r.userAgent)

	resp, err := r.client.Do(req)
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

// ExtractTextBlocks parses HTML and returns up to maxBlocks text blocks of
// at least minBlockLen characters, taken from p/div/section/article elements
// in document order.
func ExtractTextBlocks(htmlContent string) []string {
	doc, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		return nil
	}

	blockTags := map[string]bool{"p": true, "div": true, "section": true, "article": true}
	seen := make(map[string]bool)
	var blocks []string

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if len(blocks) >= maxBlocks {
			return
		}
		if n.Type == html.ElementNode && blockTags[n.Data] {
			text := collectText(n)
			if len(text) > minBlockLen && !seen[text] {
				seen[text] = true
				blocks = append(blocks, text)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return blocks
}

func collectText(n *html.Node) string {
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

// queryFromJD asks the LLM to condense a job description into one
// natural-language search query.
func (r *Refiner) queryFromJD(ctx context.Context, jdText string) (string, error) {
	prompt := buildJDPrompt(jdText)

	response, err := r.llmClient.Generate(ctx, prompt, llm.GenerateOptions{})
	if err != nil {
		return "", fmt.Errorf("condensing job description: %w", err)
	}

	query := strings.TrimSpace(response)
	if query == "" {
		return "", fmt.Errorf("empty query from job description")
	}
	return query, nil
}

func buildJDPrompt(jdText string) string {
	var sb strings.Builder

	sb.WriteString("You are an intelligent assistant that converts job descriptions into smart search queries to find suitable assessments for this JD.\n\n")
	sb.WriteString("Your job is to read the JD (Job Description) below and write a concise query that captures:\n")
	sb.WriteString("- The role or domain\n")
	sb.WriteString("- Hard skills\n")
	sb.WriteString("- Soft skills or traits (like communication, collaboration)\n")
	sb.WriteString("- Any constraints like seniority level or duration\n")
	sb.WriteString("- Combine these into one smart search query\n\n")
	sb.WriteString("It should be sentence-like, not a list. Use natural language.\n")
	sb.WriteString(`For example: "I am hiring for Java developers who can also collaborate effectively with my business teams. Looking for an assessment(s) that can be completed in 40 minutes."` + "\n\n")
	sb.WriteString("Return ONLY the final query string. No commentary or explanations.\n\n")
	sb.WriteString("Job Description:\n")
	sb.WriteString(jdText)

	return sb.String()
}
