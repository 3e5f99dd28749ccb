package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/breachwatch/breachwatch/internal/model"
)

// ErrSubscriptionNotFound is returned when no subscription row matches.
var ErrSubscriptionNotFound = errors.New("subscription not found")

// GetSubscriptionByEmail retrieves a subscription by normalized email.
func (r *Repository) GetSubscriptionByEmail(ctx context.Context, email string) (*model.EmailSubscription, error) {
	query := `
		SELECT id, email, is_active, created_at, updated_at
		FROM email_subscriptions
		WHERE email = $1
	`

	var sub model.EmailSubscription
	err := r.pool.QueryRow(ctx, query, email).Scan(
		&sub.ID,
		&sub.Email,
		&sub.IsActive,
		&sub.CreatedAt,
		&sub.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSubscriptionNotFound
		}
		return nil, fmt.Errorf("failed to get subscription: %w", err)
	}

	return &sub, nil
}

// CreateSubscription inserts a new active subscription.
func (r *Repository) CreateSubscription(ctx context.Context, sub *model.EmailSubscription) error {
	query := `
		INSERT INTO email_subscriptions (id, email, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.pool.Exec(ctx, query,
		sub.ID,
		sub.Email,
		sub.IsActive,
		sub.CreatedAt,
		sub.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create subscription: %w", err)
	}

	return nil
}

// SetSubscriptionActive toggles a subscription by id.
func (r *Repository) SetSubscriptionActive(ctx context.Context, id string, active bool) error {
	query := `
		UPDATE email_subscriptions
		SET is_active = $2, updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.pool.Exec(ctx, query, id, active)
	if err != nil {
		return fmt.Errorf("failed to update subscription: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrSubscriptionNotFound
	}

	return nil
}

// DeactivateSubscriptionByEmail flips is_active off for a matching email.
// No rows matching is not an error; unsubscribe is lenient.
func (r *Repository) DeactivateSubscriptionByEmail(ctx context.Context, email string) error {
	query := `
		UPDATE email_subscriptions
		SET is_active = false, updated_at = NOW()
		WHERE email = $1
	`

	if _, err := r.pool.Exec(ctx, query, email); err != nil {
		return fmt.Errorf("failed to deactivate subscription: %w", err)
	}

	return nil
}
