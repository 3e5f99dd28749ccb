// Package testutil provides helpers for integration tests.
package testutil

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/breachwatch/breachwatch/internal/model"
)

// RequireEnv returns an environment variable or skips the test if missing.
func RequireEnv(t testing.TB, key string) string {
	t.Helper()
	value := os.Getenv(key)
	if value == "" {
		t.Skipf("%s not set", key)
	}
	return value
}

const advisoryLockID int64 = 841841

// AcquireDBLock grabs a global advisory lock to serialize DB tests.
func AcquireDBLock(ctx context.Context, pool *pgxpool.Pool) (func() error, error) {
	conn, err := pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}

	if _, err := conn.Exec(ctx, "SELECT pg_advisory_lock($1)", advisoryLockID); err != nil {
		conn.Release()
		return nil, fmt.Errorf("acquire advisory lock: %w", err)
	}

	unlock := func() error {
		defer conn.Release()
		if _, err := conn.Exec(ctx, "SELECT pg_advisory_unlock($1)", advisoryLockID); err != nil {
			return fmt.Errorf("release advisory lock: %w", err)
		}
		return nil
	}

	return unlock, nil
}

// migrationNames lists the schema migrations in apply order.
var migrationNames = []string{
	"000001_breaches",
	"000002_blog_posts",
	"000003_email_subscriptions",
	"000004_email_breach_records",
}

// ResetSchema drops and recreates the full schema for tests. Down
// migrations run in reverse order to respect foreign keys.
func ResetSchema(ctx context.Context, pool *pgxpool.Pool) error {
	root, err := ProjectRoot()
	if err != nil {
		return err
	}

	for i := len(migrationNames) - 1; i >= 0; i-- {
		if err := applyMigration(ctx, pool, root, migrationNames[i]+".down.sql"); err != nil {
			return err
		}
	}

	for _, name := range migrationNames {
		if err := applyMigration(ctx, pool, root, name+".up.sql"); err != nil {
			return err
		}
	}

	return nil
}

func applyMigration(ctx context.Context, pool *pgxpool.Pool, root, filename string) error {
	sql, err := os.ReadFile(filepath.Join(root, "migrations", filename))
	if err != nil {
		return fmt.Errorf("read migration %s: %w", filename, err)
	}
	if _, err := pool.Exec(ctx, string(sql)); err != nil {
		return fmt.Errorf("apply migration %s: %w", filename, err)
	}
	return nil
}

// FlushRedis clears the current Redis database.
func FlushRedis(ctx context.Context, client *redis.Client) error {
	return client.FlushDB(ctx).Err()
}

// ProjectRoot returns the project root directory.
func ProjectRoot() (string, error) {
	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		return "", fmt.Errorf("failed to resolve testutil path")
	}
	root := filepath.Clean(filepath.Join(filepath.Dir(filename), "..", ".."))
	return root, nil
}

// NewTestBreach creates a breach with sensible defaults.
func NewTestBreach(t testing.TB, name, domain string) *model.Breach {
	t.Helper()
	now := time.Now().UTC()
	return &model.Breach{
		ID:            fmt.Sprintf("breach-%d", now.UnixNano()),
		Name:          name,
		Domain:        domain,
		BreachDate:    time.Date(2020, 5, 1, 0, 0, 0, 0, time.UTC),
		ExposedData:   []string{"emails", "passwords"},
		Description:   name + " credential dump",
		AffectedCount: "50M",
		Severity:      model.SeverityHigh,
		SourceURL:     "https://news.example.com/" + domain,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// NewTestPost creates a published post tied to a breach.
func NewTestPost(t testing.TB, breachID, slug string) *model.BlogPost {
	t.Helper()
	now := time.Now().UTC()
	return &model.BlogPost{
		ID:              fmt.Sprintf("post-%d", now.UnixNano()),
		BreachID:        &breachID,
		Slug:            slug,
		Title:           "Inside the " + slug + " breach",
		Excerpt:         "What happened and what to do.",
		Content:         "## Timeline\n\nDetails.",
		ExposedData:     []string{"emails", "passwords"},
		Recommendations: []string{"Rotate passwords"},
		Sources:         []string{"https://news.example.com"},
		ReadTime:        "5 min read",
		IsPublished:     true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// NewTestSubscription creates an active subscription.
func NewTestSubscription(t testing.TB, email string) *model.EmailSubscription {
	t.Helper()
	now := time.Now().UTC()
	return &model.EmailSubscription{
		ID:        fmt.Sprintf("sub-%d", now.UnixNano()),
		Email:     email,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
