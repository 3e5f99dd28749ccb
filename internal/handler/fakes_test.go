package handler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/breachwatch/breachwatch/internal/model"
	"github.com/breachwatch/breachwatch/internal/repository"
	"github.com/breachwatch/breachwatch/internal/search"
)

var errGateway = errors.New("gateway timeout")

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// memStore is an in-memory store backing the handler tests. It
// implements every service store interface.
type memStore struct {
	breaches map[string]*model.Breach
	records  map[string][]string
	posts    map[string]*model.BlogPost
	subs     map[string]*model.EmailSubscription
}

func newMemStore() *memStore {
	return &memStore{
		breaches: make(map[string]*model.Breach),
		records:  make(map[string][]string),
		posts:    make(map[string]*model.BlogPost),
		subs:     make(map[string]*model.EmailSubscription),
	}
}

func (m *memStore) BreachIDsForEmailHash(ctx context.Context, hash string) ([]string, error) {
	return m.records[hash], nil
}

func (m *memStore) ListBreaches(ctx context.Context) ([]*model.Breach, error) {
	var out []*model.Breach
	for _, b := range m.breaches {
		out = append(out, b)
	}
	return out, nil
}

func (m *memStore) ListBreachesByIDs(ctx context.Context, ids []string) ([]*model.Breach, error) {
	var out []*model.Breach
	for _, id := range ids {
		if b, ok := m.breaches[id]; ok {
			out = append(out, b)
		}
	}
	return out, nil
}

func (m *memStore) PublishedSlugsByBreachID(ctx context.Context) (map[string]string, error) {
	slugs := make(map[string]string)
	for _, post := range m.posts {
		if post.BreachID != nil && post.IsPublished {
			slugs[*post.BreachID] = post.Slug
		}
	}
	return slugs, nil
}

func (m *memStore) GetBreachByID(ctx context.Context, id string) (*model.Breach, error) {
	if b, ok := m.breaches[id]; ok {
		return b, nil
	}
	return nil, repository.ErrBreachNotFound
}

func (m *memStore) BreachExists(ctx context.Context, name, domain string) (bool, error) {
	for _, b := range m.breaches {
		if b.Name == name && b.Domain == domain {
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) CreateBreach(ctx context.Context, breach *model.Breach) error {
	m.breaches[breach.ID] = breach
	return nil
}

func (m *memStore) GetPostByBreachID(ctx context.Context, breachID string) (*model.BlogPost, error) {
	for _, post := range m.posts {
		if post.BreachID != nil && *post.BreachID == breachID {
			return post, nil
		}
	}
	return nil, repository.ErrPostNotFound
}

func (m *memStore) GetPostBySlug(ctx context.Context, slug string) (*model.BlogPost, error) {
	if post, ok := m.posts[slug]; ok {
		return post, nil
	}
	return nil, repository.ErrPostNotFound
}

func (m *memStore) CreateBlogPost(ctx context.Context, post *model.BlogPost) error {
	if _, ok := m.posts[post.Slug]; ok {
		return repository.ErrPostExists
	}
	m.posts[post.Slug] = post
	return nil
}

func (m *memStore) ListPublishedPosts(ctx context.Context) ([]*model.BlogPost, error) {
	var out []*model.BlogPost
	for _, post := range m.posts {
		if post.IsPublished {
			out = append(out, post)
		}
	}
	return out, nil
}

func (m *memStore) GetSubscriptionByEmail(ctx context.Context, email string) (*model.EmailSubscription, error) {
	if sub, ok := m.subs[email]; ok {
		return sub, nil
	}
	return nil, repository.ErrSubscriptionNotFound
}

func (m *memStore) CreateSubscription(ctx context.Context, sub *model.EmailSubscription) error {
	m.subs[sub.Email] = sub
	return nil
}

func (m *memStore) SetSubscriptionActive(ctx context.Context, id string, active bool) error {
	for _, sub := range m.subs {
		if sub.ID == id {
			sub.IsActive = active
			return nil
		}
	}
	return repository.ErrSubscriptionNotFound
}

func (m *memStore) DeactivateSubscriptionByEmail(ctx context.Context, email string) error {
	if sub, ok := m.subs[email]; ok {
		sub.IsActive = false
	}
	return nil
}

// stubGenerator returns canned model output.
type stubGenerator struct {
	output     string
	err        error
	configured bool
}

func (g *stubGenerator) Configured() bool { return g.configured }

func (g *stubGenerator) Complete(ctx context.Context, system, user string) (string, error) {
	if g.err != nil {
		return "", g.err
	}
	return g.output, nil
}

// stubSearcher returns canned search results.
type stubSearcher struct {
	results    []search.Result
	configured bool
}

func (s *stubSearcher) Configured() bool { return s.configured }

func (s *stubSearcher) Search(ctx context.Context, query string) ([]search.Result, error) {
	return s.results, nil
}

func seedBreach(store *memStore, id, name, domain string) *model.Breach {
	b := &model.Breach{
		ID:            id,
		Name:          name,
		Domain:        domain,
		BreachDate:    time.Date(2020, 5, 1, 0, 0, 0, 0, time.UTC),
		ExposedData:   []string{"emails", "passwords"},
		Description:   name + " was breached",
		AffectedCount: "50M",
		Severity:      model.SeverityHigh,
	}
	store.breaches[id] = b
	return b
}
