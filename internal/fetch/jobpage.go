package fetch

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

// PageOptions configures JobPage.
type PageOptions struct {
	Fetch *Options
	// ForceBrowser skips the plain HTTP fetch.
	ForceBrowser bool
	// BrowserFallback renders the page when the HTTP fetch yields too little text.
	BrowserFallback bool
	BrowserTimeout  time.Duration
	Render          Renderer // defaults to WithBrowser
	Logger          *logrus.Entry
}

// JobPage fetches urlStr and returns the text of the job posting, using
// platform-specific selectors and, when allowed, a headless browser for
// JavaScript-rendered boards.
func JobPage(ctx context.Context, urlStr string, opts PageOptions) (string, error) {
	if err := ValidateURL(urlStr); err != nil {
		return "", err
	}
	if opts.Render == nil {
		opts.Render = WithBrowser
	}
	if opts.BrowserTimeout <= 0 {
		opts.BrowserTimeout = DefaultTimeout
	}
	log := opts.Logger
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}

	platform := DetectPlatform(urlStr)
	log = log.WithField("platform", platform)
	content := PlatformContentSelectors(platform)
	noise := PlatformNoiseSelectors(platform)
	render := renderLogged(opts.Render, log)

	if !opts.ForceBrowser {
		result, err := URL(ctx, urlStr, opts.Fetch)
		if err != nil {
			return "", err
		}
		text, err := ExtractMainText(result.HTML, content, noise...)
		if err != nil {
			return "", &Error{URL: urlStr, Message: "failed to extract text", Cause: err}
		}
		if !ShouldUseBrowser(text) || !opts.BrowserFallback {
			log.WithField("text_chars", len(text)).Debug("job page fetched")
			return text, nil
		}
		log.Info("page text too short, falling back to headless browser")
	}

	html, err := render(ctx, urlStr, opts.BrowserTimeout)
	if err != nil {
		return "", &Error{URL: urlStr, Message: "browser rendering failed", Cause: err}
	}
	text, err := ExtractMainText(html, content, noise...)
	if err != nil {
		return "", &Error{URL: urlStr, Message: "failed to extract text", Cause: err}
	}
	if text == "" {
		return "", &Error{URL: urlStr, Message: fmt.Sprintf("no job posting text found on %s page", platform)}
	}
	return text, nil
}
