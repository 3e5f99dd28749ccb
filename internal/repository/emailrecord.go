package repository

import (
	"context"
	"fmt"

	"github.com/breachwatch/breachwatch/internal/model"
)

// BreachIDsForEmailHash returns the breach IDs an email hash appears in.
// This is the hot path for lookups; email_hash is indexed.
func (r *Repository) BreachIDsForEmailHash(ctx context.Context, emailHash string) ([]string, error) {
	query := `SELECT breach_id FROM email_breach_records WHERE email_hash = $1`

	rows, err := r.pool.Query(ctx, query, emailHash)
	if err != nil {
		return nil, fmt.Errorf("failed to query email breach records: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan breach id: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating email breach records: %w", err)
	}

	return ids, nil
}

// CreateEmailBreachRecord maps an email hash to a breach.
// Populated by ingest tooling, never by lookups.
func (r *Repository) CreateEmailBreachRecord(ctx context.Context, record *model.EmailBreachRecord) error {
	query := `
		INSERT INTO email_breach_records (id, email_hash, breach_id, created_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.pool.Exec(ctx, query,
		record.ID,
		record.EmailHash,
		record.BreachID,
		record.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create email breach record: %w", err)
	}

	return nil
}
