package models

import "time"

// QuoteFields is the header row used by every tabular sink
var QuoteFields = []string{"text", "author", "tags"}

// Quote represents one quote block scraped from a listing page
type Quote struct {
	Text   string
	Author string
	Tags   []string // never nil; empty when the page carries no tags
}

// Page represents a single fetched listing page
type Page struct {
	Number  int
	URL     string
	Quotes  []Quote
	HasNext bool
}

// Run summarises one scrape for logging and persistence
type Run struct {
	BaseURL    string
	Pages      int
	QuoteCount int
	StartedAt  time.Time
	FinishedAt time.Time
}
