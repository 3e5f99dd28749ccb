package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/breachwatch/breachwatch/internal/emailhash"
	"github.com/breachwatch/breachwatch/internal/metrics"
	"github.com/breachwatch/breachwatch/internal/model"
)

func lookupFixtures() (*fakeStore, []*model.Breach) {
	store := newFakeStore()
	breaches := []*model.Breach{
		testBreach("b-1", "Acme", "acme.com", time.Date(2020, 5, 1, 0, 0, 0, 0, time.UTC)),
		testBreach("b-2", "Globex", "globex.com", time.Date(2022, 3, 15, 0, 0, 0, 0, time.UTC)),
		testBreach("b-3", "Initech", "initech.com", time.Date(2019, 9, 9, 0, 0, 0, 0, time.UTC)),
	}
	for _, b := range breaches {
		store.addBreach(b)
	}
	return store, breaches
}

func TestCheckEmail_InvalidEmail(t *testing.T) {
	svc := NewLookupService(newFakeStore(), nil, nil)

	for _, email := range []string{"", "no-at-sign", "   "} {
		_, err := svc.CheckEmail(context.Background(), email)
		if !errors.Is(err, ErrInvalidEmail) {
			t.Errorf("CheckEmail(%q): expected ErrInvalidEmail, got %v", email, err)
		}
	}
}

func TestCheckEmail_HashMatch(t *testing.T) {
	store, _ := lookupFixtures()
	store.records[emailhash.Hash("victim@example.com")] = []string{"b-1", "b-3"}

	svc := NewLookupService(store, nil, nil)

	matches, err := svc.CheckEmail(context.Background(), "victim@example.com")
	if err != nil {
		t.Fatalf("CheckEmail failed: %v", err)
	}

	if len(matches) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(matches))
	}
	// breach_date DESC: Acme (2020) before Initech (2019).
	if matches[0].Breach.ID != "b-1" || matches[1].Breach.ID != "b-3" {
		t.Errorf("unexpected match order: %s, %s", matches[0].Breach.ID, matches[1].Breach.ID)
	}
}

func TestCheckEmail_MatchNormalizesEmail(t *testing.T) {
	store, _ := lookupFixtures()
	store.records[emailhash.Hash("victim@example.com")] = []string{"b-2"}

	svc := NewLookupService(store, nil, nil)

	matches, err := svc.CheckEmail(context.Background(), "  Victim@Example.COM ")
	if err != nil {
		t.Fatalf("CheckEmail failed: %v", err)
	}
	if len(matches) != 1 || matches[0].Breach.ID != "b-2" {
		t.Errorf("expected normalized email to match b-2, got %+v", matches)
	}
}

func TestCheckEmail_JoinsPublishedSlugs(t *testing.T) {
	store, _ := lookupFixtures()
	store.records[emailhash.Hash("victim@example.com")] = []string{"b-1", "b-2"}

	acmeID := "b-1"
	store.posts["acme-2020"] = &model.BlogPost{
		ID: "p-1", Slug: "acme-2020", BreachID: &acmeID, IsPublished: true,
	}
	globexID := "b-2"
	store.posts["globex-2022"] = &model.BlogPost{
		ID: "p-2", Slug: "globex-2022", BreachID: &globexID, IsPublished: false,
	}

	svc := NewLookupService(store, nil, nil)

	matches, err := svc.CheckEmail(context.Background(), "victim@example.com")
	if err != nil {
		t.Fatalf("CheckEmail failed: %v", err)
	}

	bySlug := make(map[string]string)
	for _, m := range matches {
		bySlug[m.Breach.ID] = m.BlogSlug
	}

	if bySlug["b-1"] != "acme-2020" {
		t.Errorf("expected published slug for b-1, got %q", bySlug["b-1"])
	}
	if bySlug["b-2"] != "" {
		t.Errorf("unpublished post must not be joined, got %q", bySlug["b-2"])
	}
}

func TestCheckEmail_NoMatchNoSampler(t *testing.T) {
	store, _ := lookupFixtures()
	recorder := metrics.NewInMemory()
	svc := NewLookupService(store, nil, recorder)

	matches, err := svc.CheckEmail(context.Background(), "clean@example.com")
	if err != nil {
		t.Fatalf("CheckEmail failed: %v", err)
	}
	if len(matches) != 0 {
		t.Errorf("expected empty result without sampler, got %d matches", len(matches))
	}

	snap := recorder.Snapshot()
	if snap.EmailChecks[metrics.LookupResultNone] != 1 {
		t.Errorf("expected one 'none' lookup, got %v", snap.EmailChecks)
	}
}

func TestCheckEmail_DemoSampler(t *testing.T) {
	store, _ := lookupFixtures()
	recorder := metrics.NewInMemory()
	svc := NewLookupService(store, fixedSampler{n: 2}, recorder)

	matches, err := svc.CheckEmail(context.Background(), "clean@example.com")
	if err != nil {
		t.Fatalf("CheckEmail failed: %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("expected 2 demo matches, got %d", len(matches))
	}
	// Sampler sees the catalog in breach_date DESC order.
	if matches[0].Breach.ID != "b-2" {
		t.Errorf("expected most recent breach first, got %s", matches[0].Breach.ID)
	}

	snap := recorder.Snapshot()
	if snap.EmailChecks[metrics.LookupResultDemo] != 1 {
		t.Errorf("expected one 'demo' lookup, got %v", snap.EmailChecks)
	}
}

func TestCheckEmail_StoreError(t *testing.T) {
	store, _ := lookupFixtures()
	store.fail("BreachIDsForEmailHash", errors.New("connection refused"))

	svc := NewLookupService(store, nil, nil)

	_, err := svc.CheckEmail(context.Background(), "victim@example.com")
	if err == nil {
		t.Fatal("expected error when store is unavailable")
	}
}

func TestCheckEmail_SlugJoinFailureIsNotFatal(t *testing.T) {
	store, _ := lookupFixtures()
	store.records[emailhash.Hash("victim@example.com")] = []string{"b-1"}
	store.fail("PublishedSlugsByBreachID", errors.New("connection refused"))

	svc := NewLookupService(store, nil, nil)

	matches, err := svc.CheckEmail(context.Background(), "victim@example.com")
	if err != nil {
		t.Fatalf("CheckEmail failed: %v", err)
	}
	if len(matches) != 1 || matches[0].BlogSlug != "" {
		t.Errorf("expected match without slug, got %+v", matches)
	}
}

func TestRandomSampler_Bounds(t *testing.T) {
	store, breaches := lookupFixtures()
	_ = store

	sampler := NewRandomSampler(42)
	for i := 0; i < 200; i++ {
		got := sampler.Sample(breaches)
		if len(got) > 3 {
			t.Fatalf("sampler returned %d breaches, max is 3", len(got))
		}
	}
}

func TestRandomSampler_EmptyCatalog(t *testing.T) {
	sampler := NewRandomSampler(1)
	for i := 0; i < 20; i++ {
		if got := sampler.Sample(nil); len(got) != 0 {
			t.Fatal("sampler must return nothing for an empty catalog")
		}
	}
}
