package export

import (
	"context"
	"strings"

	"quotes-scraper/models"
)

// Exporter is a destination the scraped quotes are written to
type Exporter interface {
	Export(ctx context.Context, quotes []models.Quote) error
}

// Multi runs several exporters in order, stopping at the first failure
type Multi []Exporter

// Export implements the Exporter interface
func (m Multi) Export(ctx context.Context, quotes []models.Quote) error {
	for _, e := range m {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := e.Export(ctx, quotes); err != nil {
			return err
		}
	}
	return nil
}

// Row renders a quote as the text, author and tags columns
func Row(q models.Quote) []string {
	return []string{q.Text, q.Author, JoinTags(q.Tags)}
}

// JoinTags serializes tags as a single comma-joined column value
func JoinTags(tags []string) string {
	return strings.Join(tags, ",")
}

// Func adapts an ordinary function to the Exporter interface
type Func func(ctx context.Context, quotes []models.Quote) error

// Export implements the Exporter interface
func (f Func) Export(ctx context.Context, quotes []models.Quote) error {
	return f(ctx, quotes)
}
