package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/breachwatch/breachwatch/internal/cache"
	"github.com/breachwatch/breachwatch/internal/metrics"
	"github.com/breachwatch/breachwatch/internal/model"
	"github.com/breachwatch/breachwatch/internal/repository"
)

// BlogStore is the store surface the blog read path uses.
type BlogStore interface {
	GetPostBySlug(ctx context.Context, slug string) (*model.BlogPost, error)
	ListPublishedPosts(ctx context.Context) ([]*model.BlogPost, error)
	ListBreaches(ctx context.Context) ([]*model.Breach, error)
}

// PostCache is the cache surface for post reads. May be nil.
type PostCache interface {
	GetPost(ctx context.Context, slug string) (*model.CachedPost, error)
	SetPost(ctx context.Context, slug string, cached *model.CachedPost) error
	SetPostNegative(ctx context.Context, slug string) error
	IsPostNegative(ctx context.Context, slug string) (bool, error)
}

// BlogService serves the public read surface: breach catalog, post
// listings and posts by slug (the hot path, cache-aside).
type BlogService struct {
	store   BlogStore
	cache   PostCache
	metrics metrics.Recorder
}

// NewBlogService creates a BlogService. cache may be nil to disable caching.
func NewBlogService(store BlogStore, postCache PostCache, recorder metrics.Recorder) *BlogService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &BlogService{
		store:   store,
		cache:   postCache,
		metrics: recorder,
	}
}

// GetPostBySlug returns a published post. Unpublished posts are hidden
// from the public read path and report ErrPostNotFound.
func (s *BlogService) GetPostBySlug(ctx context.Context, slug string) (*model.BlogPost, error) {
	if slug == "" {
		return nil, ErrPostNotFound
	}

	if s.cache != nil {
		// Cache errors fall through to the store; Redis being down must
		// not take the read path with it.
		if negative, err := s.cache.IsPostNegative(ctx, slug); err == nil && negative {
			return nil, ErrPostNotFound
		}

		if cached, err := s.cache.GetPost(ctx, slug); err == nil {
			s.metrics.IncPostCacheHit()
			return cached.ToBlogPost(slug), nil
		}
		s.metrics.IncPostCacheMiss()
	}

	post, err := s.store.GetPostBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, repository.ErrPostNotFound) {
			if s.cache != nil {
				_ = s.cache.SetPostNegative(ctx, slug)
			}
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("failed to fetch post: %w", err)
	}

	if !post.IsPublished {
		return nil, ErrPostNotFound
	}

	if s.cache != nil {
		_ = s.cache.SetPost(ctx, slug, post.ToCachedPost())
	}

	return post, nil
}

// ListPosts returns all published posts, newest first.
func (s *BlogService) ListPosts(ctx context.Context) ([]*model.BlogPost, error) {
	posts, err := s.store.ListPublishedPosts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	return posts, nil
}

// ListBreaches returns the breach catalog, most recent incident first.
func (s *BlogService) ListBreaches(ctx context.Context) ([]*model.Breach, error) {
	breaches, err := s.store.ListBreaches(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list breaches: %w", err)
	}
	return breaches, nil
}

// compile-time checks that the concrete cache satisfies the service surfaces.
var (
	_ PostCache   = (*cache.Cache)(nil)
	_ PostEvictor = (*cache.Cache)(nil)
)
