package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/lib/pq"

	"github.com/breachwatch/breachwatch/internal/model"
)

// Common errors for breach repository operations.
var (
	ErrBreachNotFound = errors.New("breach not found")
	ErrBreachExists   = errors.New("breach already recorded")
)

const breachColumns = `id, name, domain, breach_date, discovered_date, exposed_data, description, affected_count, severity, source_url, is_verified, created_at, updated_at`

// CreateBreach inserts a new breach.
// (name, domain) is the dedup key; a duplicate returns ErrBreachExists.
func (r *Repository) CreateBreach(ctx context.Context, breach *model.Breach) error {
	query := `
		INSERT INTO breaches (id, name, domain, breach_date, discovered_date, exposed_data, description, affected_count, severity, source_url, is_verified, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err := r.pool.Exec(ctx, query,
		breach.ID,
		breach.Name,
		breach.Domain,
		breach.BreachDate,
		breach.DiscoveredDate,
		pq.Array(breach.ExposedData),
		breach.Description,
		breach.AffectedCount,
		breach.Severity,
		breach.SourceURL,
		breach.IsVerified,
		breach.CreatedAt,
		breach.UpdatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return ErrBreachExists
		}
		return fmt.Errorf("failed to create breach: %w", err)
	}

	return nil
}

// GetBreachByID retrieves a breach by its ID.
func (r *Repository) GetBreachByID(ctx context.Context, id string) (*model.Breach, error) {
	query := `SELECT ` + breachColumns + ` FROM breaches WHERE id = $1`

	breach, err := scanBreach(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrBreachNotFound
		}
		return nil, fmt.Errorf("failed to get breach by ID: %w", err)
	}

	return breach, nil
}

// ListBreaches retrieves all breaches, most recent incident first.
func (r *Repository) ListBreaches(ctx context.Context) ([]*model.Breach, error) {
	query := `SELECT ` + breachColumns + ` FROM breaches ORDER BY breach_date DESC, id DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list breaches: %w", err)
	}
	defer rows.Close()

	return collectBreaches(rows)
}

// ListBreachesByIDs retrieves the breaches matching the given IDs,
// most recent incident first. Unknown IDs are silently skipped.
func (r *Repository) ListBreachesByIDs(ctx context.Context, ids []string) ([]*model.Breach, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := `SELECT ` + breachColumns + ` FROM breaches WHERE id = ANY($1) ORDER BY breach_date DESC, id DESC`

	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to list breaches by IDs: %w", err)
	}
	defer rows.Close()

	return collectBreaches(rows)
}

// BreachExists checks the (name, domain) dedup key.
func (r *Repository) BreachExists(ctx context.Context, name, domain string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM breaches WHERE name = $1 AND domain = $2)`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, name, domain).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check breach existence: %w", err)
	}

	return exists, nil
}

func collectBreaches(rows pgx.Rows) ([]*model.Breach, error) {
	var breaches []*model.Breach
	for rows.Next() {
		breach, err := scanBreach(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan breach: %w", err)
		}
		breaches = append(breaches, breach)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating breaches: %w", err)
	}

	return breaches, nil
}

func scanBreach(row pgx.Row) (*model.Breach, error) {
	var breach model.Breach
	var exposed []string
	err := row.Scan(
		&breach.ID,
		&breach.Name,
		&breach.Domain,
		&breach.BreachDate,
		&breach.DiscoveredDate,
		pq.Array(&exposed),
		&breach.Description,
		&breach.AffectedCount,
		&breach.Severity,
		&breach.SourceURL,
		&breach.IsVerified,
		&breach.CreatedAt,
		&breach.UpdatedAt,
	)
	breach.ExposedData = exposed
	return &breach, err
}
