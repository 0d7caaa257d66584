package usecase

import (
	"fmt"
	"log/slog"
	"time"

	"ProductScanner/internal/classify"
	"ProductScanner/internal/domain"
	"ProductScanner/internal/source"
)

// ProcessBatch normalizes and classifies one fetched page. Accepted records
// come back in input order. A malformed post is logged, counted in TotalSeen
// only, and never aborts the batch. TopicsSeen covers every record that
// normalized, whether or not the filter accepted it. No file I/O happens
// here; persistence is the caller's job.
func ProcessBatch(posts []source.Post, rules classify.Ruleset, fetchedAt time.Time, logger *slog.Logger) ([]domain.ProductRecord, domain.BatchStats) {
	stats := domain.BatchStats{TopicsSeen: map[string]struct{}{}}
	accepted := make([]domain.ProductRecord, 0, len(posts))

	for i, post := range posts {
		stats.TotalSeen++

		record, err := normalizePost(post, fetchedAt)
		if err != nil {
			if logger != nil {
				logger.Warn("skipping malformed record", "index", i, "error", err)
			}
			continue
		}

		for _, topic := range record.Topics {
			stats.TopicsSeen[topic] = struct{}{}
		}

		result := classify.Classify(record, rules)
		if !result.Included {
			if logger != nil {
				logger.Debug("record rejected",
					"id", record.ID,
					"category", result.MatchedExcludedCategory,
					"keywords", result.MatchedKeywords)
			}
			continue
		}

		stats.TotalAccepted++
		accepted = append(accepted, record)
	}

	return accepted, stats
}

func normalizePost(post source.Post, fetchedAt time.Time) (domain.ProductRecord, error) {
	if post.ID == "" {
		return domain.ProductRecord{}, fmt.Errorf("post has no id")
	}
	if post.VotesCount < 0 {
		return domain.ProductRecord{}, fmt.Errorf("post %s has negative vote count %d", post.ID, post.VotesCount)
	}

	return domain.ProductRecord{
		ID:          post.ID,
		Name:        post.Name,
		Tagline:     post.Tagline,
		Description: post.Description,
		VotesCount:  post.VotesCount,
		Topics:      post.Topics.Names(),
		FetchedAt:   fetchedAt,
	}, nil
}
