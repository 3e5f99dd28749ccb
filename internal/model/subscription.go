package model

import "time"

// SubscribeOutcome distinguishes the three successful subscribe branches.
type SubscribeOutcome string

const (
	SubscribeOutcomeNew         SubscribeOutcome = "new"
	SubscribeOutcomeReactivated SubscribeOutcome = "reactivated"
	SubscribeOutcomeAlready     SubscribeOutcome = "already_subscribed"
)

// EmailSubscription is a breach-alert subscription.
// Rows are never hard-deleted; unsubscribe flips IsActive.
type EmailSubscription struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
