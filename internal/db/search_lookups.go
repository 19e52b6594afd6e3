package db

import (
	"context"

	"taskhub/internal/models"
)

// IncrementSearchLookup upserts a search term count by outcome.
func (d *DB) IncrementSearchLookup(ctx context.Context, term, outcome string) error {
	_, err := d.Pool.Exec(ctx, `
		INSERT INTO search_lookups (term, outcome, count, last_seen_at)
		VALUES ($1, $2, 1, NOW())
		ON CONFLICT (term, outcome) DO UPDATE
		SET count = search_lookups.count + 1, last_seen_at = NOW()
	`, term, outcome)
	return err
}

// GetAllSearchLookups returns all search lookup rows for metrics export.
func (d *DB) GetAllSearchLookups(ctx context.Context) ([]models.SearchLookup, error) {
	rows, err := d.Pool.Query(ctx, `SELECT term, outcome, count, last_seen_at FROM search_lookups`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lookups []models.SearchLookup
	for rows.Next() {
		var l models.SearchLookup
		if err := rows.Scan(&l.Term, &l.Outcome, &l.Count, &l.LastSeenAt); err != nil {
			return nil, err
		}
		lookups = append(lookups, l)
	}
	return lookups, rows.Err()
}
