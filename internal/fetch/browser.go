package fetch

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/chromedp/chromedp"
	"github.com/sirupsen/logrus"
)

// MinContentLength is the extracted text length, in characters, below which
// a plain HTTP fetch is assumed to have missed a JavaScript-rendered posting.
const MinContentLength = 500

// ShouldUseBrowser reports whether extracted text is too short to be a
// complete posting.
func ShouldUseBrowser(extractedText string) bool {
	return utf8.RuneCountInString(strings.TrimSpace(extractedText)) < MinContentLength
}

// Renderer returns the rendered HTML of a page.
type Renderer func(ctx context.Context, url string, timeout time.Duration) (string, error)

// WithBrowser renders a page in headless Chrome and returns the resulting
// HTML. Chrome or Chromium must be installed.
func WithBrowser(ctx context.Context, url string, timeout time.Duration) (string, error) {
	allocCtx, cancel := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
		)...,
	)
	defer cancel()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	browserCtx, cancel = context.WithTimeout(browserCtx, timeout)
	defer cancel()

	var html string
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body"),
		// Job boards hydrate the description after load.
		chromedp.Sleep(3*time.Second),
		chromedp.ActionFunc(func(ctx context.Context) error {
			// Best-effort cookie banner dismissal; most pages have none.
			clickCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
			defer cancel()
			_ = chromedp.Click(`button[id*="accept"], button[class*="accept"]`, chromedp.NodeVisible).Do(clickCtx)
			return nil
		}),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		return "", fmt.Errorf("browser rendering failed: %w", err)
	}
	return html, nil
}

// renderLogged wraps r with debug logging of the rendered size.
func renderLogged(r Renderer, log *logrus.Entry) Renderer {
	return func(ctx context.Context, url string, timeout time.Duration) (string, error) {
		log.Debug("rendering page in headless browser")
		html, err := r(ctx, url, timeout)
		if err == nil {
			log.WithField("html_bytes", len(html)).Debug("page rendered")
		}
		return html, err
	}
}
