package database

import (
	"context"
	"fmt"
)

// ReadinessRepository reads the readiness gate maintained by the onboarding
// flow. Matching never writes to it.
type ReadinessRepository struct {
	db *DB
}

// NewReadinessRepository creates a new readiness repository.
func NewReadinessRepository(db *DB) *ReadinessRepository {
	return &ReadinessRepository{db: db}
}

// ListReady returns up to limit professional ids that are ready for matching,
// most recently confirmed first.
func (r *ReadinessRepository) ListReady(ctx context.Context, limit int) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT user_id
		FROM professional_readiness
		WHERE is_ready = true
		ORDER BY checked_at DESC, user_id
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query readiness: %w", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan readiness: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate readiness: %w", err)
	}
	return ids, nil
}
