package usecase

import (
	"sort"
	"time"

	"ProductScanner/internal/domain"
)

// MergeSummary folds one run's stats into the cumulative summary. A nil
// previous summary means no state has ever been persisted; counters start at
// zero. Merging run by run gives the same totals and topic union as merging a
// single concatenated batch. Pure function; loading and flushing the summary
// is the caller's concern.
func MergeSummary(previous *domain.RunSummary, stats domain.BatchStats, runTime time.Time) domain.RunSummary {
	merged := domain.RunSummary{LastUpdated: runTime}

	topics := map[string]struct{}{}
	if previous != nil {
		merged.TotalProducts = previous.TotalProducts
		merged.ConsumerProducts = previous.ConsumerProducts
		for _, topic := range previous.UniqueTopics {
			topics[topic] = struct{}{}
		}
	}

	merged.TotalProducts += stats.TotalSeen
	merged.ConsumerProducts += stats.TotalAccepted
	for topic := range stats.TopicsSeen {
		topics[topic] = struct{}{}
	}

	merged.UniqueTopics = make([]string, 0, len(topics))
	for topic := range topics {
		merged.UniqueTopics = append(merged.UniqueTopics, topic)
	}
	sort.Strings(merged.UniqueTopics)

	return merged
}
