package scraper

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"
)

// HeadlessFetcher renders pages in a headless browser. Some job-posting sites
// build the description client-side, so a plain GET returns an empty shell;
// this fetcher is the fallback for those.
type HeadlessFetcher struct {
	timeout time.Duration
}

// NewHeadlessFetcher creates a headless fetcher with the given per-page timeout.
func NewHeadlessFetcher(timeout time.Duration) *HeadlessFetcher {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &HeadlessFetcher{timeout: timeout}
}

// Fetch navigates to url and returns the rendered document HTML.
func (f *HeadlessFetcher) Fetch(ctx context.Context, url string) (string, error) {
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, chromedp.DefaultExecAllocatorOptions[:]...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	timeoutCtx, cancelTimeout := context.WithTimeout(browserCtx, f.timeout)
	defer cancelTimeout()

	var rendered string
	err := chromedp.Run(timeoutCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body"),
		chromedp.OuterHTML("html", &rendered),
	)
	if err != nil {
		return "", fmt.Errorf("headless fetch of %s: %w", url, err)
	}

	return rendered, nil
}
