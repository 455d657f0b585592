package filter

import (
	"strings"

	"quotes-scraper/config"
	"quotes-scraper/models"
)

// Filter applies filter criteria to quotes
type Filter struct {
	authors map[string]bool
	tags    map[string]bool
}

// NewFilter creates a new Filter instance
func NewFilter(cfg *config.Config) *Filter {
	f := &Filter{
		authors: make(map[string]bool),
		tags:    make(map[string]bool),
	}
	for _, a := range cfg.Filters.Authors {
		f.authors[strings.ToLower(strings.TrimSpace(a))] = true
	}
	for _, t := range cfg.Filters.Tags {
		f.tags[strings.ToLower(strings.TrimSpace(t))] = true
	}
	return f
}

// Active reports whether any criterion is configured
func (f *Filter) Active() bool {
	return len(f.authors) > 0 || len(f.tags) > 0
}

// ApplyFilters filters quotes based on the configuration, keeping order
func (f *Filter) ApplyFilters(quotes []models.Quote) []models.Quote {
	if !f.Active() {
		return quotes
	}

	filtered := []models.Quote{}
	for _, q := range quotes {
		if f.matchesFilters(q) {
			filtered = append(filtered, q)
		}
	}

	return filtered
}

// matchesFilters checks if a quote matches all filter criteria
func (f *Filter) matchesFilters(q models.Quote) bool {
	// Check author
	if len(f.authors) > 0 && !f.authors[strings.ToLower(strings.TrimSpace(q.Author))] {
		return false
	}

	// Check tags - any configured tag is enough
	if len(f.tags) > 0 {
		for _, t := range q.Tags {
			if f.tags[strings.ToLower(t)] {
				return true
			}
		}
		return false
	}

	return true
}
