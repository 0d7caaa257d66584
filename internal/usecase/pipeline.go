package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"ProductScanner/internal/classify"
	"ProductScanner/internal/domain"
	"ProductScanner/internal/ports"
)

// PipelineDeps carries everything a scan run needs. Source, Batches and
// Summary are required; Archive and Notifier are optional and skipped when
// nil.
type PipelineDeps struct {
	Source   ports.ProductSource
	Batches  ports.BatchStore
	Summary  ports.SummaryStore
	Archive  ports.ProductArchive
	Notifier ports.Notifier
	Rules    classify.Ruleset
	Logger   *slog.Logger
}

// Pipeline runs one full scan: fetch a page, classify it, persist the batch
// and fold the stats into the cumulative summary.
type Pipeline struct {
	deps PipelineDeps
}

// NewPipeline builds the use case around its dependencies.
func NewPipeline(deps PipelineDeps) *Pipeline {
	return &Pipeline{deps: deps}
}

// ProcessRun executes a single run stamped with runTime. Fetch, batch write
// and summary write failures abort the run; a stale or unreadable summary
// does not, the counters restart from zero instead.
func (p *Pipeline) ProcessRun(ctx context.Context, runTime time.Time) error {
	if p.deps.Source == nil {
		return fmt.Errorf("product source is not configured")
	}
	if p.deps.Batches == nil {
		return fmt.Errorf("batch store is not configured")
	}
	if p.deps.Summary == nil {
		return fmt.Errorf("summary store is not configured")
	}

	runID := uuid.New().String()
	logger := p.deps.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	logger = logger.With("run_id", runID)

	posts, err := p.deps.Source.FetchPage(ctx)
	if err != nil {
		return fmt.Errorf("fetch page: %w", err)
	}
	logger.Info("page fetched", "posts", len(posts))

	accepted, stats := ProcessBatch(posts, p.deps.Rules, runTime, logger)

	batchFile, err := p.deps.Batches.WriteBatch(ctx, accepted, runTime)
	if err != nil {
		return fmt.Errorf("write batch: %w", err)
	}

	previous, err := p.deps.Summary.LoadSummary(ctx)
	if err != nil {
		logger.Warn("stored summary unreadable, starting over", "error", err)
		previous = nil
	}

	merged := MergeSummary(previous, stats, runTime)
	if err := p.deps.Summary.SaveSummary(ctx, merged); err != nil {
		return fmt.Errorf("save summary: %w", err)
	}

	if p.deps.Archive != nil {
		if err := p.deps.Archive.ArchiveAccepted(ctx, accepted, runID); err != nil {
			return fmt.Errorf("archive accepted products: %w", err)
		}
	}

	logger.Info("run complete",
		"batch_file", batchFile,
		"seen", stats.TotalSeen,
		"accepted", stats.TotalAccepted,
		"total_products", merged.TotalProducts,
		"consumer_products", merged.ConsumerProducts,
	)

	if p.deps.Notifier != nil {
		digest := buildRunDigest(accepted, stats, runTime)
		if err := p.deps.Notifier.PublishDigest(ctx, digest); err != nil {
			return fmt.Errorf("publish digest: %w", err)
		}
	}

	return nil
}

func buildRunDigest(accepted []domain.ProductRecord, stats domain.BatchStats, runTime time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Product scan %s\n", runTime.Format("2006-01-02 15:04"))
	fmt.Fprintf(&b, "Accepted %d of %d products\n", stats.TotalAccepted, stats.TotalSeen)
	for _, rec := range accepted {
		fmt.Fprintf(&b, "\n%s (%d votes)\n", rec.Name, rec.VotesCount)
		if rec.Tagline != "" {
			fmt.Fprintf(&b, "%s\n", rec.Tagline)
		}
	}
	return b.String()
}
