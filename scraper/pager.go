package scraper

import (
	"context"
	"fmt"
	"strings"
	"time"

	"quotes-scraper/fetcher"
	"quotes-scraper/models"
	"quotes-scraper/parser"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
)

// DefaultBaseURL is the quotes site scraped when no base URL is configured
const DefaultBaseURL = "https://quotes.toscrape.com"

var timeNow = time.Now

// Pager walks the numbered listing pages of a site until the last one
type Pager struct {
	baseURL  string
	maxPages int
	fetcher  fetcher.Fetcher
	parser   *parser.Parser
	logger   *zap.SugaredLogger
}

// NewPager creates a Pager. maxPages of 0 means no limit.
func NewPager(baseURL string, maxPages int, f fetcher.Fetcher, logger *zap.SugaredLogger) *Pager {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Pager{
		baseURL:  strings.TrimRight(baseURL, "/"),
		maxPages: maxPages,
		fetcher:  f,
		parser:   parser.NewParser(),
		logger:   logger,
	}
}

// PageURL builds the URL of page n
func (p *Pager) PageURL(n int) string {
	return fmt.Sprintf("%s/page/%d", p.baseURL, n)
}

// ScrapePage fetches and parses a single page
func (p *Pager) ScrapePage(ctx context.Context, n int) (*models.Page, error) {
	url := p.PageURL(n)

	html, err := p.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to fetch page %d", n)
	}

	quotes, hasNext, err := p.parser.ParsePage(html)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse page %d", n)
	}

	return &models.Page{
		Number:  n,
		URL:     url,
		Quotes:  quotes,
		HasNext: hasNext,
	}, nil
}

// Scrape fetches pages 1, 2, 3, ... until a page has no next marker and
// returns every quote in page order. Any error aborts the run.
func (p *Pager) Scrape(ctx context.Context) ([]models.Quote, error) {
	quotes, _, err := p.scrape(ctx)
	return quotes, err
}

// ScrapeRun is Scrape plus a summary of the run
func (p *Pager) ScrapeRun(ctx context.Context) ([]models.Quote, *models.Run, error) {
	run := &models.Run{BaseURL: p.baseURL, StartedAt: timeNow()}

	quotes, pages, err := p.scrape(ctx)
	if err != nil {
		return nil, nil, err
	}

	run.Pages = pages
	run.QuoteCount = len(quotes)
	run.FinishedAt = timeNow()
	return quotes, run, nil
}

func (p *Pager) scrape(ctx context.Context) ([]models.Quote, int, error) {
	quotes := []models.Quote{}

	n := 1
	for {
		if err := ctx.Err(); err != nil {
			return nil, n - 1, err
		}

		page, err := p.ScrapePage(ctx, n)
		if err != nil {
			return nil, n - 1, err
		}

		quotes = append(quotes, page.Quotes...)
		p.logger.Debugw("Fetched page", "page", n, "url", page.URL, "quotes", len(page.Quotes), "has_next", page.HasNext)

		if !page.HasNext {
			break
		}
		if p.maxPages > 0 && n >= p.maxPages {
			p.logger.Warnw("Stopping at page limit while more pages remain", "max_pages", p.maxPages)
			break
		}
		n++
	}

	p.logger.Infow("Fetching completed", "pages", n, "quotes", len(quotes))
	return quotes, n, nil
}
