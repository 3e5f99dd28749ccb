package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/breachwatch/breachwatch/internal/model"
)

// Cache key prefixes and TTLs.
const (
	postKeyPrefix     = "post:"
	negCacheKeySuffix = ":neg"

	// DefaultPostTTL is the TTL for cached blog posts.
	// Posts are immutable once generated, so this can be generous.
	DefaultPostTTL = 24 * time.Hour

	// NegativeCacheTTL is the TTL for negative cache entries
	// (slugs that resolved to nothing).
	NegativeCacheTTL = 5 * time.Minute
)

// Common cache errors.
var (
	ErrCacheMiss = errors.New("cache miss")
)

func postKey(slug string) string {
	return postKeyPrefix + slug
}

// GetPost retrieves a blog post from cache by slug.
// Returns ErrCacheMiss if not found.
func (c *Cache) GetPost(ctx context.Context, slug string) (*model.CachedPost, error) {
	result, err := c.client.HGetAll(ctx, postKey(slug)).Result()
	if err != nil {
		return nil, fmt.Errorf("redis hgetall failed: %w", err)
	}

	if len(result) == 0 {
		return nil, ErrCacheMiss
	}

	return &model.CachedPost{
		ID:              result["id"],
		Title:           result["title"],
		Excerpt:         result["excerpt"],
		Content:         result["content"],
		ExposedData:     result["exposed_data"],
		Recommendations: result["recommendations"],
		Sources:         result["sources"],
		ReadTime:        result["read_time"],
		BreachID:        result["breach_id"],
		Published:       result["published"],
		CreatedAt:       result["created_at"],
	}, nil
}

// SetPost stores a blog post in cache keyed by slug.
func (c *Cache) SetPost(ctx context.Context, slug string, cached *model.CachedPost) error {
	key := postKey(slug)

	fields := map[string]any{
		"id":              cached.ID,
		"title":           cached.Title,
		"excerpt":         cached.Excerpt,
		"content":         cached.Content,
		"exposed_data":    cached.ExposedData,
		"recommendations": cached.Recommendations,
		"sources":         cached.Sources,
		"read_time":       cached.ReadTime,
		"breach_id":       cached.BreachID,
		"published":       cached.Published,
		"created_at":      cached.CreatedAt,
	}

	pipe := c.client.Pipeline()
	pipe.HSet(ctx, key, fields)
	pipe.Expire(ctx, key, DefaultPostTTL)
	// A post that is now cacheable must not stay negatively cached.
	pipe.Del(ctx, key+negCacheKeySuffix)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis hset failed: %w", err)
	}

	return nil
}

// DeletePost evicts a cached post and its negative entry.
func (c *Cache) DeletePost(ctx context.Context, slug string) error {
	if err := c.client.Del(ctx, postKey(slug), postKey(slug)+negCacheKeySuffix).Err(); err != nil {
		return fmt.Errorf("redis del failed: %w", err)
	}
	return nil
}

// SetPostNegative marks a slug as known-missing for a short window.
func (c *Cache) SetPostNegative(ctx context.Context, slug string) error {
	key := postKey(slug) + negCacheKeySuffix
	if err := c.client.Set(ctx, key, "1", NegativeCacheTTL).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

// IsPostNegative reports whether a slug is negatively cached.
func (c *Cache) IsPostNegative(ctx context.Context, slug string) (bool, error) {
	key := postKey(slug) + negCacheKeySuffix
	n, err := c.client.Exists(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("redis exists failed: %w", err)
	}
	return n > 0, nil
}
