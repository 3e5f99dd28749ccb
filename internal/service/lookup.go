package service

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/breachwatch/breachwatch/internal/emailhash"
	"github.com/breachwatch/breachwatch/internal/metrics"
	"github.com/breachwatch/breachwatch/internal/model"
)

// LookupStore is the store surface the lookup service reads from.
type LookupStore interface {
	BreachIDsForEmailHash(ctx context.Context, emailHash string) ([]string, error)
	ListBreaches(ctx context.Context) ([]*model.Breach, error)
	ListBreachesByIDs(ctx context.Context, ids []string) ([]*model.Breach, error)
	PublishedSlugsByBreachID(ctx context.Context) (map[string]string, error)
}

// DemoSampler picks demonstration breaches when a lookup has no real
// hash match. It stands in for a real breach-intelligence index and is
// injected so randomness stays a test seam. A nil sampler means a miss
// is a miss.
type DemoSampler interface {
	Sample(breaches []*model.Breach) []*model.Breach
}

// RandomSampler returns a prefix of 1-3 breaches with ~70% probability,
// otherwise nothing.
type RandomSampler struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandomSampler creates a RandomSampler seeded from the given source.
func NewRandomSampler(seed int64) *RandomSampler {
	return &RandomSampler{rng: rand.New(rand.NewSource(seed))}
}

// Sample implements DemoSampler.
func (s *RandomSampler) Sample(breaches []*model.Breach) []*model.Breach {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.rng.Float64() <= 0.3 || len(breaches) == 0 {
		return nil
	}

	n := s.rng.Intn(3) + 1
	if n > len(breaches) {
		n = len(breaches)
	}
	return breaches[:n]
}

// BreachMatch pairs a breach with its published article slug, if any.
type BreachMatch struct {
	Breach   *model.Breach
	BlogSlug string
}

// LookupService answers "has this email appeared in a breach".
type LookupService struct {
	store   LookupStore
	demo    DemoSampler
	metrics metrics.Recorder
}

// NewLookupService creates a LookupService. demo may be nil, in which
// case a lookup with no hash match returns an empty result.
func NewLookupService(store LookupStore, demo DemoSampler, recorder metrics.Recorder) *LookupService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &LookupService{
		store:   store,
		demo:    demo,
		metrics: recorder,
	}
}

// CheckEmail hashes the email, collects the breaches its hash appears in
// and joins each with its published article slug. The lookup is
// read-only: no record of the checked email is persisted.
func (s *LookupService) CheckEmail(ctx context.Context, email string) ([]BreachMatch, error) {
	if !emailhash.IsValid(email) {
		return nil, ErrInvalidEmail
	}

	start := time.Now()
	defer func() {
		s.metrics.ObserveLookupDuration(time.Since(start))
	}()

	ids, err := s.store.BreachIDsForEmailHash(ctx, emailhash.Hash(email))
	if err != nil {
		return nil, fmt.Errorf("failed to query breach records: %w", err)
	}

	var found []*model.Breach
	result := metrics.LookupResultNone

	switch {
	case len(ids) > 0:
		found, err = s.store.ListBreachesByIDs(ctx, ids)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch matched breaches: %w", err)
		}
		result = metrics.LookupResultMatch
	case s.demo != nil:
		all, err := s.store.ListBreaches(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch breach catalog: %w", err)
		}
		found = s.demo.Sample(all)
		if len(found) > 0 {
			result = metrics.LookupResultDemo
		}
	}

	s.metrics.IncEmailChecked(result)

	if len(found) == 0 {
		return nil, nil
	}

	// Slug join is best-effort: a failure here degrades the result to
	// breaches without article links instead of failing the lookup.
	slugs, err := s.store.PublishedSlugsByBreachID(ctx)
	if err != nil {
		slugs = nil
	}

	matches := make([]BreachMatch, 0, len(found))
	for _, breach := range found {
		matches = append(matches, BreachMatch{
			Breach:   breach,
			BlogSlug: slugs[breach.ID],
		})
	}

	return matches, nil
}
