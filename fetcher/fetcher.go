package fetcher

import "context"

// Fetcher interface defines the contract for fetching implementations
type Fetcher interface {
	// Fetch retrieves the HTML body of a single page URL
	Fetch(ctx context.Context, url string) (string, error)
}
