package storage

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"ProductScanner/internal/domain"
	"ProductScanner/internal/ports"
)

// PostgresArchive keeps a queryable history of accepted products across runs.
type PostgresArchive struct {
	db      *sql.DB
	builder sq.StatementBuilderType
}

var _ ports.ProductArchive = (*PostgresArchive)(nil)

// NewPostgresArchive wires a sql.DB implementation.
func NewPostgresArchive(db *sql.DB) *PostgresArchive {
	return &PostgresArchive{
		db:      db,
		builder: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// ArchiveAccepted upserts each accepted record, stamped with the run that
// produced it. A product resurfacing in a later run refreshes its row.
func (a *PostgresArchive) ArchiveAccepted(ctx context.Context, records []domain.ProductRecord, runID string) error {
	if a.db == nil || len(records) == 0 {
		return nil
	}

	for _, rec := range records {
		query, args, err := a.builder.
			Insert("accepted_products").
			Columns("external_id", "name", "tagline", "description", "votes_count", "topics", "run_id", "fetched_at").
			Values(rec.ID, rec.Name, rec.Tagline, rec.Description, rec.VotesCount, pq.StringArray(rec.Topics), runID, rec.FetchedAt).
			Suffix(`ON CONFLICT (external_id) DO UPDATE
	            SET votes_count = EXCLUDED.votes_count,
	                topics = EXCLUDED.topics,
	                run_id = EXCLUDED.run_id,
	                fetched_at = EXCLUDED.fetched_at`).
			ToSql()
		if err != nil {
			return fmt.Errorf("build upsert: %w", err)
		}

		if _, err := a.db.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("upsert product %s: %w", rec.ID, err)
		}
	}

	return nil
}
