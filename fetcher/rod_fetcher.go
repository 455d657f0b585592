package fetcher

import (
	"context"
	"os"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// RodFetcher implements the Fetcher interface using rod (headless browser)
type RodFetcher struct {
	browser *rod.Browser
	timeout time.Duration
}

// chromePaths are checked in order; the first existing binary wins
var chromePaths = []string{
	"/usr/bin/google-chrome",
	"/usr/bin/google-chrome-stable",
	"/usr/bin/chromium",
	"/usr/bin/chromium-browser",
	"/snap/bin/chromium",
}

// NewRodFetcher launches a headless browser and connects to it
func NewRodFetcher(timeout time.Duration) (*RodFetcher, error) {
	l := launcher.New().
		Headless(true).
		NoSandbox(true).
		Leakless(false).
		Set("disable-dev-shm-usage").
		Set("disable-gpu").
		Set("no-first-run").
		Set("no-default-browser-check").
		Set("disable-extensions")

	for _, path := range chromePaths {
		if _, err := os.Stat(path); err == nil {
			l = l.Bin(path)
			break
		}
	}

	browserURL, err := l.Launch()
	if err != nil {
		return nil, errors.Wrap(err, "failed to launch browser")
	}

	browser := rod.New().ControlURL(browserURL)
	if err := browser.Connect(); err != nil {
		return nil, errors.Wrap(err, "failed to connect to browser")
	}

	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &RodFetcher{
		browser: browser,
		timeout: timeout,
	}, nil
}

// Close closes the browser
func (rf *RodFetcher) Close() error {
	if rf.browser != nil {
		return rf.browser.Close()
	}
	return nil
}

// Fetch implements the Fetcher interface. The rendered DOM is returned
// after the page's load event.
func (rf *RodFetcher) Fetch(ctx context.Context, url string) (string, error) {
	page, err := rf.browser.Context(ctx).Page(proto.TargetCreateTarget{})
	if err != nil {
		return "", errors.Wrap(err, "failed to create page")
	}
	defer page.Close()

	page = page.Timeout(rf.timeout)

	if err := page.Navigate(url); err != nil {
		return "", errors.Wrapf(err, "failed to navigate to %s", url)
	}
	if err := page.WaitLoad(); err != nil {
		return "", errors.Wrapf(err, "failed waiting for %s to load", url)
	}

	html, err := page.HTML()
	if err != nil {
		return "", errors.Wrap(err, "failed to get HTML")
	}

	return html, nil
}
