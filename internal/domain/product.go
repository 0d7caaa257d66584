package domain

import "time"

// ProductRecord is the normalized form of one listing fetched from the source.
// It is built once during a run and treated as immutable afterwards.
type ProductRecord struct {
	ID          string
	Name        string
	Tagline     string
	Description string
	VotesCount  int
	Topics      []string // flattened topic names, source order, duplicates kept
	FetchedAt   time.Time
}

// ClassificationResult captures a single filter decision with its diagnostics.
type ClassificationResult struct {
	Included                bool
	MatchedExcludedCategory string
	MatchedKeywords         []string
}

// BatchStats accumulates counters for one run only; it never spans runs.
// TotalSeen counts every raw record in the page, malformed ones included.
type BatchStats struct {
	TotalSeen     int
	TotalAccepted int
	TopicsSeen    map[string]struct{}
}

// RunSummary is the cumulative cross-run state: loaded (or initialized) at run
// start, merged once, flushed at run end. UniqueTopics only ever grows.
type RunSummary struct {
	TotalProducts    int       `json:"total_products"`
	ConsumerProducts int       `json:"consumer_products"`
	LastUpdated      time.Time `json:"scraping_date"`
	UniqueTopics     []string  `json:"unique_topics"`
}
