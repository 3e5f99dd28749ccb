package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/breachwatch/breachwatch/internal/metrics"
	"github.com/breachwatch/breachwatch/internal/model"
	"github.com/breachwatch/breachwatch/internal/report"
	"github.com/breachwatch/breachwatch/internal/repository"
)

// ReportStore is the store surface the report service uses.
type ReportStore interface {
	GetBreachByID(ctx context.Context, id string) (*model.Breach, error)
	GetPostByBreachID(ctx context.Context, breachID string) (*model.BlogPost, error)
	CreateBlogPost(ctx context.Context, post *model.BlogPost) error
}

// Generator produces text from a system+user prompt pair.
type Generator interface {
	Configured() bool
	Complete(ctx context.Context, system, user string) (string, error)
}

// PostEvictor clears cached read state for a slug. May be nil.
type PostEvictor interface {
	DeletePost(ctx context.Context, slug string) error
}

// ReportService generates and persists breach articles.
type ReportService struct {
	store   ReportStore
	gen     Generator
	cache   PostEvictor
	metrics metrics.Recorder
}

// NewReportService creates a ReportService. postCache may be nil.
func NewReportService(store ReportStore, gen Generator, postCache PostEvictor, recorder metrics.Recorder) *ReportService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &ReportService{
		store:   store,
		gen:     gen,
		cache:   postCache,
		metrics: recorder,
	}
}

// GenerateResult is the outcome of a Generate call.
type GenerateResult struct {
	Post *model.BlogPost
	// Created is false when the breach already had a post and Generate
	// was a no-op.
	Created bool
}

// Generate produces an article for a breach and persists it as a
// published post. Repeat calls for the same breach return the existing
// post's slug unchanged. A concurrent first call losing the insert race
// is also resolved to the winning row.
func (s *ReportService) Generate(ctx context.Context, breachID string) (*GenerateResult, error) {
	if breachID == "" {
		return nil, ErrMissingBreachID
	}

	breach, err := s.store.GetBreachByID(ctx, breachID)
	if err != nil {
		if errors.Is(err, repository.ErrBreachNotFound) {
			return nil, ErrBreachNotFound
		}
		return nil, fmt.Errorf("failed to fetch breach: %w", err)
	}

	existing, err := s.store.GetPostByBreachID(ctx, breachID)
	if err == nil {
		s.metrics.IncReportGenerated(metrics.ReportStatusExisting)
		return &GenerateResult{Post: existing, Created: false}, nil
	}
	if !errors.Is(err, repository.ErrPostNotFound) {
		return nil, fmt.Errorf("failed to check existing post: %w", err)
	}

	start := time.Now()
	raw, err := s.gen.Complete(ctx, systemPrompt, buildArticlePrompt(breach))
	if err != nil {
		s.metrics.IncReportGenerated(metrics.ReportStatusFailed)
		return nil, fmt.Errorf("%w: %s", ErrGenerationFailed, err)
	}
	s.metrics.ObserveGenerationDuration(time.Since(start))

	article, parseErr := report.ParseArticle(raw)
	degraded := parseErr != nil
	if degraded {
		article = report.Fallback(breach.Name, breach.AffectedCount, raw)
	}

	now := time.Now().UTC()
	post := &model.BlogPost{
		ID:              uuid.NewString(),
		Slug:            report.Slug(breach.Name, breach.Year()),
		BreachID:        &breach.ID,
		Title:           article.Title,
		Excerpt:         article.Excerpt,
		Content:         article.Content,
		ExposedData:     breach.ExposedData,
		Recommendations: article.Recommendations,
		Sources:         article.Sources,
		ReadTime:        article.ReadTime,
		IsPublished:     true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.store.CreateBlogPost(ctx, post); err != nil {
		if errors.Is(err, repository.ErrPostExists) {
			// Lost the race to a concurrent Generate; return the winner.
			winner, werr := s.store.GetPostByBreachID(ctx, breachID)
			if werr != nil {
				return nil, fmt.Errorf("%w: %s", ErrPersistenceFailed, werr)
			}
			s.metrics.IncReportGenerated(metrics.ReportStatusExisting)
			return &GenerateResult{Post: winner, Created: false}, nil
		}
		s.metrics.IncReportGenerated(metrics.ReportStatusFailed)
		return nil, fmt.Errorf("%w: %s", ErrPersistenceFailed, err)
	}

	if s.cache != nil {
		// The slug may sit in the negative cache from lookups that raced
		// the insert; evict so the post is readable immediately.
		_ = s.cache.DeletePost(ctx, post.Slug)
	}

	if degraded {
		s.metrics.IncReportGenerated(metrics.ReportStatusDegraded)
	} else {
		s.metrics.IncReportGenerated(metrics.ReportStatusGenerated)
	}

	return &GenerateResult{Post: post, Created: true}, nil
}

const systemPrompt = "You are a cybersecurity expert who writes detailed, accurate breach reports. Always respond with valid JSON."

func buildArticlePrompt(breach *model.Breach) string {
	exposed := strings.Join(breach.ExposedData, ", ")
	if exposed == "" {
		exposed = "Unknown"
	}
	affected := breach.AffectedCount
	if affected == "" {
		affected = "Unknown"
	}
	description := breach.Description
	if description == "" {
		description = "No description available"
	}

	var b strings.Builder
	b.WriteString("You are a cybersecurity expert writing a detailed blog post about a data breach.\n\n")
	b.WriteString("Write a comprehensive article about the following data breach:\n\n")
	fmt.Fprintf(&b, "**Breach Name:** %s\n", breach.Name)
	fmt.Fprintf(&b, "**Domain:** %s\n", breach.Domain)
	fmt.Fprintf(&b, "**Breach Date:** %s\n", breach.BreachDate.Format("2006-01-02"))
	fmt.Fprintf(&b, "**Affected Users:** %s\n", affected)
	fmt.Fprintf(&b, "**Exposed Data Types:** %s\n", exposed)
	fmt.Fprintf(&b, "**Description:** %s\n", description)
	fmt.Fprintf(&b, "**Severity:** %s\n\n", breach.Severity)
	b.WriteString(`Your article should include:
1. An engaging introduction explaining what happened
2. How the breach occurred (attack vector analysis)
3. What data was exposed and the potential risks
4. Impact assessment for affected users
5. Security recommendations for users

Format your response as JSON with this structure:
{
  "title": "Engaging article title",
  "excerpt": "A brief 2-3 sentence summary for previews",
  "content": "Full markdown article content with headers (use ## for h2, ### for h3)",
  "recommendations": ["recommendation 1", "recommendation 2", "recommendation 3", "recommendation 4", "recommendation 5"],
  "sources": ["https://example.com/source1"],
  "readTime": "X min read"
}

Make the content informative, factual, and actionable. Use a professional but accessible tone.`)

	return b.String()
}
