package service

import (
	"context"
	"sort"
	"time"

	"github.com/breachwatch/breachwatch/internal/model"
	"github.com/breachwatch/breachwatch/internal/repository"
	"github.com/breachwatch/breachwatch/internal/search"
)

// fakeStore is an in-memory stand-in for the repository, shared by the
// service tests. failures forces named methods to return an error.
type fakeStore struct {
	breaches map[string]*model.Breach
	records  map[string][]string // email hash -> breach ids
	posts    map[string]*model.BlogPost // keyed by slug
	subs     map[string]*model.EmailSubscription

	failures map[string]error
	once     map[string]error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		breaches: make(map[string]*model.Breach),
		records:  make(map[string][]string),
		posts:    make(map[string]*model.BlogPost),
		subs:     make(map[string]*model.EmailSubscription),
		failures: make(map[string]error),
		once:     make(map[string]error),
	}
}

func (f *fakeStore) fail(method string, err error) {
	f.failures[method] = err
}

// failOnce makes the next call to method fail, then behave normally.
func (f *fakeStore) failOnce(method string, err error) {
	f.once[method] = err
}

func (f *fakeStore) failure(method string) error {
	if err, ok := f.once[method]; ok {
		delete(f.once, method)
		return err
	}
	return f.failures[method]
}

func (f *fakeStore) addBreach(b *model.Breach) {
	f.breaches[b.ID] = b
}

func (f *fakeStore) BreachIDsForEmailHash(ctx context.Context, hash string) ([]string, error) {
	if err := f.failure("BreachIDsForEmailHash"); err != nil {
		return nil, err
	}
	return f.records[hash], nil
}

func (f *fakeStore) ListBreaches(ctx context.Context) ([]*model.Breach, error) {
	if err := f.failure("ListBreaches"); err != nil {
		return nil, err
	}
	var out []*model.Breach
	for _, b := range f.breaches {
		out = append(out, b)
	}
	sortBreaches(out)
	return out, nil
}

func (f *fakeStore) ListBreachesByIDs(ctx context.Context, ids []string) ([]*model.Breach, error) {
	if err := f.failure("ListBreachesByIDs"); err != nil {
		return nil, err
	}
	var out []*model.Breach
	for _, id := range ids {
		if b, ok := f.breaches[id]; ok {
			out = append(out, b)
		}
	}
	sortBreaches(out)
	return out, nil
}

func (f *fakeStore) PublishedSlugsByBreachID(ctx context.Context) (map[string]string, error) {
	if err := f.failure("PublishedSlugsByBreachID"); err != nil {
		return nil, err
	}
	slugs := make(map[string]string)
	for slug, post := range f.posts {
		if post.IsPublished && post.BreachID != nil {
			slugs[*post.BreachID] = slug
		}
	}
	return slugs, nil
}

func (f *fakeStore) GetBreachByID(ctx context.Context, id string) (*model.Breach, error) {
	if err := f.failure("GetBreachByID"); err != nil {
		return nil, err
	}
	if b, ok := f.breaches[id]; ok {
		return b, nil
	}
	return nil, repository.ErrBreachNotFound
}

func (f *fakeStore) BreachExists(ctx context.Context, name, domain string) (bool, error) {
	if err := f.failure("BreachExists"); err != nil {
		return false, err
	}
	for _, b := range f.breaches {
		if b.Name == name && b.Domain == domain {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) CreateBreach(ctx context.Context, breach *model.Breach) error {
	if err := f.failure("CreateBreach"); err != nil {
		return err
	}
	for _, b := range f.breaches {
		if b.Name == breach.Name && b.Domain == breach.Domain {
			return repository.ErrBreachExists
		}
	}
	f.breaches[breach.ID] = breach
	return nil
}

func (f *fakeStore) GetPostByBreachID(ctx context.Context, breachID string) (*model.BlogPost, error) {
	if err := f.failure("GetPostByBreachID"); err != nil {
		return nil, err
	}
	for _, post := range f.posts {
		if post.BreachID != nil && *post.BreachID == breachID {
			return post, nil
		}
	}
	return nil, repository.ErrPostNotFound
}

func (f *fakeStore) GetPostBySlug(ctx context.Context, slug string) (*model.BlogPost, error) {
	if err := f.failure("GetPostBySlug"); err != nil {
		return nil, err
	}
	if post, ok := f.posts[slug]; ok {
		return post, nil
	}
	return nil, repository.ErrPostNotFound
}

func (f *fakeStore) CreateBlogPost(ctx context.Context, post *model.BlogPost) error {
	if err := f.failure("CreateBlogPost"); err != nil {
		return err
	}
	if _, ok := f.posts[post.Slug]; ok {
		return repository.ErrPostExists
	}
	if post.BreachID != nil {
		for _, existing := range f.posts {
			if existing.BreachID != nil && *existing.BreachID == *post.BreachID {
				return repository.ErrPostExists
			}
		}
	}
	f.posts[post.Slug] = post
	return nil
}

func (f *fakeStore) ListPublishedPosts(ctx context.Context) ([]*model.BlogPost, error) {
	if err := f.failure("ListPublishedPosts"); err != nil {
		return nil, err
	}
	var out []*model.BlogPost
	for _, post := range f.posts {
		if post.IsPublished {
			out = append(out, post)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeStore) GetSubscriptionByEmail(ctx context.Context, email string) (*model.EmailSubscription, error) {
	if err := f.failure("GetSubscriptionByEmail"); err != nil {
		return nil, err
	}
	if sub, ok := f.subs[email]; ok {
		return sub, nil
	}
	return nil, repository.ErrSubscriptionNotFound
}

func (f *fakeStore) CreateSubscription(ctx context.Context, sub *model.EmailSubscription) error {
	if err := f.failure("CreateSubscription"); err != nil {
		return err
	}
	f.subs[sub.Email] = sub
	return nil
}

func (f *fakeStore) SetSubscriptionActive(ctx context.Context, id string, active bool) error {
	if err := f.failure("SetSubscriptionActive"); err != nil {
		return err
	}
	for _, sub := range f.subs {
		if sub.ID == id {
			sub.IsActive = active
			return nil
		}
	}
	return repository.ErrSubscriptionNotFound
}

func (f *fakeStore) DeactivateSubscriptionByEmail(ctx context.Context, email string) error {
	if err := f.failure("DeactivateSubscriptionByEmail"); err != nil {
		return err
	}
	if sub, ok := f.subs[email]; ok {
		sub.IsActive = false
	}
	return nil
}

func sortBreaches(breaches []*model.Breach) {
	sort.Slice(breaches, func(i, j int) bool {
		if !breaches[i].BreachDate.Equal(breaches[j].BreachDate) {
			return breaches[i].BreachDate.After(breaches[j].BreachDate)
		}
		return breaches[i].ID > breaches[j].ID
	})
}

// fakeGenerator returns canned output or an error.
type fakeGenerator struct {
	output     string
	err        error
	configured bool
	calls      int
	lastPrompt string
}

func (g *fakeGenerator) Configured() bool { return g.configured }

func (g *fakeGenerator) Complete(ctx context.Context, system, user string) (string, error) {
	g.calls++
	g.lastPrompt = user
	if g.err != nil {
		return "", g.err
	}
	return g.output, nil
}

// fakeSearcher returns canned search results.
type fakeSearcher struct {
	results    []search.Result
	err        error
	configured bool
	lastQuery  string
}

func (s *fakeSearcher) Configured() bool { return s.configured }

func (s *fakeSearcher) Search(ctx context.Context, query string) ([]search.Result, error) {
	s.lastQuery = query
	if s.err != nil {
		return nil, s.err
	}
	return s.results, nil
}

// fakeNotifier records published events.
type fakeNotifier struct {
	events []*model.Breach
	err    error
}

func (n *fakeNotifier) BreachDiscovered(ctx context.Context, breach *model.Breach) error {
	if n.err != nil {
		return n.err
	}
	n.events = append(n.events, breach)
	return nil
}

func (n *fakeNotifier) Close() {}

// fixedSampler returns a fixed prefix length, the deterministic test
// seam for the demo fallback.
type fixedSampler struct {
	n int
}

func (s fixedSampler) Sample(breaches []*model.Breach) []*model.Breach {
	if s.n > len(breaches) {
		return breaches
	}
	return breaches[:s.n]
}

func testBreach(id, name, domain string, date time.Time) *model.Breach {
	return &model.Breach{
		ID:            id,
		Name:          name,
		Domain:        domain,
		BreachDate:    date,
		ExposedData:   []string{"emails", "passwords"},
		Description:   name + " was breached",
		AffectedCount: "50M",
		Severity:      model.SeverityHigh,
		CreatedAt:     date,
		UpdatedAt:     date,
	}
}
