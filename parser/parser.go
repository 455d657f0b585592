package parser

import (
	"strings"

	"quotes-scraper/models"

	"github.com/PuerkitoBio/goquery"
	"github.com/cockroachdb/errors"
)

const (
	quoteSelector    = ".quote"
	textSelector     = ".text"
	authorSelector   = ".author"
	keywordsSelector = ".keywords"
	nextSelector     = ".next"
)

// Parser extracts quotes from listing page HTML
type Parser struct{}

// NewParser creates a new Parser instance
func NewParser() *Parser {
	return &Parser{}
}

// ParsePage extracts quotes from HTML content in document order and reports
// whether the page links to a following page
func (p *Parser) ParsePage(htmlContent string) ([]models.Quote, bool, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return nil, false, errors.Wrap(err, "failed to parse HTML")
	}

	quotes, err := p.ParseDocument(doc)
	if err != nil {
		return nil, false, err
	}
	return quotes, HasNext(doc), nil
}

// ParseDocument extracts quotes from an already parsed document.
// A quote block missing its text or author element is an error.
func (p *Parser) ParseDocument(doc *goquery.Document) ([]models.Quote, error) {
	quotes := []models.Quote{}
	var err error
	doc.Find(quoteSelector).EachWithBreak(func(i int, s *goquery.Selection) bool {
		var q models.Quote
		q, err = p.extractQuote(s)
		if err != nil {
			err = errors.Wrapf(err, "quote block %d", i)
			return false
		}
		quotes = append(quotes, q)
		return true
	})
	if err != nil {
		return nil, err
	}
	return quotes, nil
}

// HasNext checks for the pagination "next" marker
func HasNext(doc *goquery.Document) bool {
	return doc.Find(nextSelector).Length() > 0
}

// extractQuote reads text, author and tags from one quote block
func (p *Parser) extractQuote(s *goquery.Selection) (models.Quote, error) {
	text := s.Find(textSelector).First()
	if text.Length() == 0 {
		return models.Quote{}, errors.Newf("missing %s element", textSelector)
	}
	author := s.Find(authorSelector).First()
	if author.Length() == 0 {
		return models.Quote{}, errors.Newf("missing %s element", authorSelector)
	}

	return models.Quote{
		Text:   text.Text(),
		Author: author.Text(),
		Tags:   extractTags(s),
	}, nil
}

// extractTags splits the keywords meta content; absent or empty content yields no tags
func extractTags(s *goquery.Selection) []string {
	content, ok := s.Find(keywordsSelector).First().Attr("content")
	if !ok || content == "" {
		return []string{}
	}
	return strings.Split(content, ",")
}
