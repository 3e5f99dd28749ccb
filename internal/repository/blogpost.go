package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/lib/pq"

	"github.com/breachwatch/breachwatch/internal/model"
)

// Common errors for blog post repository operations.
var (
	ErrPostNotFound = errors.New("blog post not found")
	// ErrPostExists is returned when the breach already has a post or the
	// slug is taken. Callers treat it as "already generated".
	ErrPostExists = errors.New("blog post already exists")
)

const postColumns = `id, slug, breach_id, title, excerpt, content, exposed_data, recommendations, sources, read_time, is_published, created_at, updated_at`

// CreateBlogPost inserts a new blog post.
// blog_posts has UNIQUE constraints on slug and breach_id; concurrent
// generation for the same breach loses here with ErrPostExists.
func (r *Repository) CreateBlogPost(ctx context.Context, post *model.BlogPost) error {
	query := `
		INSERT INTO blog_posts (id, slug, breach_id, title, excerpt, content, exposed_data, recommendations, sources, read_time, is_published, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err := r.pool.Exec(ctx, query,
		post.ID,
		post.Slug,
		post.BreachID,
		post.Title,
		post.Excerpt,
		post.Content,
		pq.Array(post.ExposedData),
		pq.Array(post.Recommendations),
		pq.Array(post.Sources),
		post.ReadTime,
		post.IsPublished,
		post.CreatedAt,
		post.UpdatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return ErrPostExists
		}
		return fmt.Errorf("failed to create blog post: %w", err)
	}

	return nil
}

// GetPostBySlug retrieves a post by slug, published or not.
func (r *Repository) GetPostBySlug(ctx context.Context, slug string) (*model.BlogPost, error) {
	query := `SELECT ` + postColumns + ` FROM blog_posts WHERE slug = $1`

	post, err := scanPost(r.pool.QueryRow(ctx, query, slug))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("failed to get post by slug: %w", err)
	}

	return post, nil
}

// GetPostByBreachID retrieves the post owned by a breach, if any.
func (r *Repository) GetPostByBreachID(ctx context.Context, breachID string) (*model.BlogPost, error) {
	query := `SELECT ` + postColumns + ` FROM blog_posts WHERE breach_id = $1`

	post, err := scanPost(r.pool.QueryRow(ctx, query, breachID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("failed to get post by breach ID: %w", err)
	}

	return post, nil
}

// ListPublishedPosts retrieves published posts, newest first.
func (r *Repository) ListPublishedPosts(ctx context.Context) ([]*model.BlogPost, error) {
	query := `SELECT ` + postColumns + ` FROM blog_posts WHERE is_published ORDER BY created_at DESC, id DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list published posts: %w", err)
	}
	defer rows.Close()

	var posts []*model.BlogPost
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}
		posts = append(posts, post)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating posts: %w", err)
	}

	return posts, nil
}

// PublishedSlugsByBreachID returns a breach_id -> slug map for published posts.
// Used to join lookup results with their articles.
func (r *Repository) PublishedSlugsByBreachID(ctx context.Context) (map[string]string, error) {
	query := `SELECT breach_id, slug FROM blog_posts WHERE is_published AND breach_id IS NOT NULL`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list published slugs: %w", err)
	}
	defer rows.Close()

	slugs := make(map[string]string)
	for rows.Next() {
		var breachID, slug string
		if err := rows.Scan(&breachID, &slug); err != nil {
			return nil, fmt.Errorf("failed to scan slug row: %w", err)
		}
		slugs[breachID] = slug
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating slug rows: %w", err)
	}

	return slugs, nil
}

func scanPost(row pgx.Row) (*model.BlogPost, error) {
	var post model.BlogPost
	var exposed, recommendations, sources []string
	err := row.Scan(
		&post.ID,
		&post.Slug,
		&post.BreachID,
		&post.Title,
		&post.Excerpt,
		&post.Content,
		pq.Array(&exposed),
		pq.Array(&recommendations),
		pq.Array(&sources),
		&post.ReadTime,
		&post.IsPublished,
		&post.CreatedAt,
		&post.UpdatedAt,
	)
	post.ExposedData = exposed
	post.Recommendations = recommendations
	post.Sources = sources
	return &post, err
}
