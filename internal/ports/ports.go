package ports

import (
	"context"
	"time"

	"ProductScanner/internal/domain"
	"ProductScanner/internal/source"
)

// ProductSource pulls one page of raw posts from the listing service.
type ProductSource interface {
	FetchPage(ctx context.Context) ([]source.Post, error)
}

// BatchStore persists the accepted records of one run and reports where.
type BatchStore interface {
	WriteBatch(ctx context.Context, records []domain.ProductRecord, runTime time.Time) (string, error)
}

// SummaryStore loads and saves the cumulative run summary. Load returns
// (nil, nil) when no summary has ever been written; an error means stored
// state exists but cannot be used.
type SummaryStore interface {
	LoadSummary(ctx context.Context) (*domain.RunSummary, error)
	SaveSummary(ctx context.Context, summary domain.RunSummary) error
}

// ProductArchive records accepted products for cross-run history and audit.
type ProductArchive interface {
	ArchiveAccepted(ctx context.Context, records []domain.ProductRecord, runID string) error
}

// Notifier publishes per-run digests to Telegram or other channels.
type Notifier interface {
	PublishDigest(ctx context.Context, digest string) error
}

// Scheduler controls when runs execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
