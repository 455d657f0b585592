package fetcher

import (
	"context"
	"net/http"

	"github.com/cockroachdb/errors"
	"github.com/gocolly/colly/v2"
)

// DefaultUserAgent is sent when the configuration does not name one
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// CollyFetcher implements the Fetcher interface using colly
type CollyFetcher struct {
	collector *colly.Collector
}

// NewCollyFetcher creates a new CollyFetcher instance
func NewCollyFetcher(userAgent string) *CollyFetcher {
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}

	c := colly.NewCollector(
		colly.UserAgent(userAgent),
		// Every page is requested once per run, but a fetcher may serve several runs
		colly.AllowURLRevisit(),
	)

	return &CollyFetcher{
		collector: c,
	}
}

// Fetch implements the Fetcher interface. The request is synchronous: the
// body is available once Visit returns.
func (cf *CollyFetcher) Fetch(ctx context.Context, url string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	// Clone shares the HTTP backend but not the callbacks, so each call
	// collects only its own response
	c := cf.collector.Clone()

	var body []byte
	var status int
	c.OnResponse(func(r *colly.Response) {
		status = r.StatusCode
		body = r.Body
	})

	if err := c.Visit(url); err != nil {
		return "", errors.Wrapf(err, "failed to visit %s", url)
	}
	if status != http.StatusOK {
		return "", errors.Newf("unexpected status %d from %s", status, url)
	}

	return string(body), nil
}
