package store

import (
	"context"
	"fmt"

	"github.com/Razepriv/scrapperpro-fr/internal/types"
)

// AppendHistory records one completed scrape job. The history log is
// append-only; there is no update or delete path.
func (db *DB) AppendHistory(ctx context.Context, entry types.HistoryEntry) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO scrape_history (id, job_kind, job_details, property_count, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		entry.ID, string(entry.JobKind), entry.JobDetails, entry.PropertyCount, entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to append history entry: %w", err)
	}
	return nil
}

// ListHistory retrieves recent history entries, newest first.
func (db *DB) ListHistory(ctx context.Context, limit int) ([]types.HistoryEntry, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := db.pool.Query(ctx,
		`SELECT id, job_kind, job_details, property_count, created_at
		 FROM scrape_history ORDER BY created_at DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}
	defer rows.Close()

	var entries []types.HistoryEntry
	for rows.Next() {
		var entry types.HistoryEntry
		var kind string
		if err := rows.Scan(&entry.ID, &kind, &entry.JobDetails, &entry.PropertyCount, &entry.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan history entry: %w", err)
		}
		entry.JobKind = types.JobKind(kind)
		entries = append(entries, entry)
	}
	return entries, nil
}
