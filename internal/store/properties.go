package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/Razepriv/scrapperpro-fr/internal/types"
)

// SaveProperties inserts finalized records in one transaction. The draft
// fields travel as a JSONB document; the columns queried for listing and
// display are first-class.
func (db *DB) SaveProperties(ctx context.Context, records []types.Property) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for _, record := range records {
		draftJSON, err := json.Marshal(record.PropertyDraft)
		if err != nil {
			return fmt.Errorf("failed to marshal record %s: %w", record.ID, err)
		}
		imagesJSON, err := json.Marshal(record.ImageURLs)
		if err != nil {
			return fmt.Errorf("failed to marshal images for record %s: %w", record.ID, err)
		}

		_, err = tx.Exec(ctx,
			`INSERT INTO properties
			   (id, origin_url, title, description, original_title, original_description,
			    image_url, image_urls, data, created_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
			record.ID, record.OriginURL, record.Title, record.Description,
			record.OriginalTitle, record.OriginalDescription,
			record.ImageURL, imagesJSON, draftJSON, record.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert record %s: %w", record.ID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit records: %w", err)
	}
	return nil
}

// UpdateProperty overwrites an existing record's editable content.
func (db *DB) UpdateProperty(ctx context.Context, record types.Property) error {
	draftJSON, err := json.Marshal(record.PropertyDraft)
	if err != nil {
		return fmt.Errorf("failed to marshal record %s: %w", record.ID, err)
	}
	imagesJSON, err := json.Marshal(record.ImageURLs)
	if err != nil {
		return fmt.Errorf("failed to marshal images for record %s: %w", record.ID, err)
	}

	result, err := db.pool.Exec(ctx,
		`UPDATE properties
		 SET title = $1, description = $2, image_url = $3, image_urls = $4, data = $5
		 WHERE id = $6`,
		record.Title, record.Description, record.ImageURL, imagesJSON, draftJSON, record.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update record %s: %w", record.ID, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("record not found: %s", record.ID)
	}
	return nil
}

// DeleteProperty removes a record by ID.
func (db *DB) DeleteProperty(ctx context.Context, id uuid.UUID) error {
	result, err := db.pool.Exec(ctx, `DELETE FROM properties WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete record %s: %w", id, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("record not found: %s", id)
	}
	return nil
}

// ListProperties retrieves recent records, newest first.
func (db *DB) ListProperties(ctx context.Context, limit int) ([]types.Property, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := db.pool.Query(ctx,
		`SELECT id, origin_url, title, description, original_title, original_description,
		        image_url, image_urls, data, created_at
		 FROM properties ORDER BY created_at DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}
	defer rows.Close()

	var records []types.Property
	for rows.Next() {
		record, err := scanProperty(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *record)
	}
	return records, nil
}

// GetProperty retrieves one record by ID, or nil when absent.
func (db *DB) GetProperty(ctx context.Context, id uuid.UUID) (*types.Property, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, origin_url, title, description, original_title, original_description,
		        image_url, image_urls, data, created_at
		 FROM properties WHERE id = $1`,
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get record %s: %w", id, err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, nil
	}
	return scanProperty(rows)
}

func scanProperty(rows pgx.Rows) (*types.Property, error) {
	var record types.Property
	var title, description string
	var imagesJSON, draftJSON []byte

	err := rows.Scan(&record.ID, &record.OriginURL, &title, &description,
		&record.OriginalTitle, &record.OriginalDescription,
		&record.ImageURL, &imagesJSON, &draftJSON, &record.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to scan record: %w", err)
	}

	if err := json.Unmarshal(draftJSON, &record.PropertyDraft); err != nil {
		return nil, fmt.Errorf("failed to unmarshal record %s: %w", record.ID, err)
	}
	if err := json.Unmarshal(imagesJSON, &record.ImageURLs); err != nil {
		return nil, fmt.Errorf("failed to unmarshal images for record %s: %w", record.ID, err)
	}

	// The dedicated columns carry any post-scrape edits; they win over the
	// values embedded in the draft document.
	record.Title = title
	record.Description = description

	return &record, nil
}
