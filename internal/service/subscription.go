package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/breachwatch/breachwatch/internal/emailhash"
	"github.com/breachwatch/breachwatch/internal/metrics"
	"github.com/breachwatch/breachwatch/internal/model"
	"github.com/breachwatch/breachwatch/internal/repository"
)

// SubscriptionStore is the store surface the subscription service uses.
type SubscriptionStore interface {
	GetSubscriptionByEmail(ctx context.Context, email string) (*model.EmailSubscription, error)
	CreateSubscription(ctx context.Context, sub *model.EmailSubscription) error
	SetSubscriptionActive(ctx context.Context, id string, active bool) error
	DeactivateSubscriptionByEmail(ctx context.Context, email string) error
}

// SubscriptionService manages breach-alert subscriptions.
type SubscriptionService struct {
	store   SubscriptionStore
	metrics metrics.Recorder
}

// NewSubscriptionService creates a SubscriptionService.
func NewSubscriptionService(store SubscriptionStore, recorder metrics.Recorder) *SubscriptionService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &SubscriptionService{
		store:   store,
		metrics: recorder,
	}
}

// Subscribe enrolls an email for breach alerts. The operation is
// idempotent: an active subscription reports already-subscribed without a
// write, an inactive one is reactivated, and a new row is created
// otherwise.
func (s *SubscriptionService) Subscribe(ctx context.Context, email string) (model.SubscribeOutcome, error) {
	if !emailhash.IsValid(email) {
		return "", ErrInvalidEmail
	}
	normalized := emailhash.Normalize(email)

	existing, err := s.store.GetSubscriptionByEmail(ctx, normalized)
	switch {
	case err == nil:
		if existing.IsActive {
			s.metrics.IncSubscription(string(model.SubscribeOutcomeAlready))
			return model.SubscribeOutcomeAlready, nil
		}

		if err := s.store.SetSubscriptionActive(ctx, existing.ID, true); err != nil {
			return "", fmt.Errorf("failed to reactivate subscription: %w", err)
		}
		s.metrics.IncSubscription(string(model.SubscribeOutcomeReactivated))
		return model.SubscribeOutcomeReactivated, nil

	case errors.Is(err, repository.ErrSubscriptionNotFound):
		now := time.Now().UTC()
		sub := &model.EmailSubscription{
			ID:        uuid.NewString(),
			Email:     normalized,
			IsActive:  true,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := s.store.CreateSubscription(ctx, sub); err != nil {
			return "", fmt.Errorf("failed to create subscription: %w", err)
		}
		s.metrics.IncSubscription(string(model.SubscribeOutcomeNew))
		return model.SubscribeOutcomeNew, nil

	default:
		return "", fmt.Errorf("failed to look up subscription: %w", err)
	}
}

// Unsubscribe deactivates any subscription for the email. An unknown
// email is not an error; unsubscribing must always succeed from the
// caller's point of view.
func (s *SubscriptionService) Unsubscribe(ctx context.Context, email string) error {
	if !emailhash.IsValid(email) {
		return ErrInvalidEmail
	}

	if err := s.store.DeactivateSubscriptionByEmail(ctx, emailhash.Normalize(email)); err != nil {
		return fmt.Errorf("failed to unsubscribe: %w", err)
	}

	s.metrics.IncSubscription("unsubscribed")
	return nil
}
