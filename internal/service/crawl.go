package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"

	"github.com/breachwatch/breachwatch/internal/metrics"
	"github.com/breachwatch/breachwatch/internal/model"
	"github.com/breachwatch/breachwatch/internal/notify"
	"github.com/breachwatch/breachwatch/internal/report"
	"github.com/breachwatch/breachwatch/internal/repository"
	"github.com/breachwatch/breachwatch/internal/search"
)

// DefaultCrawlQuery is used when the caller provides no search query.
const DefaultCrawlQuery = "data breach exposed emails passwords"

// maxResultContentLength bounds how much scraped markdown goes into the
// extraction prompt per result.
const maxResultContentLength = 2000

// CrawlStore is the store surface the crawl service writes to.
type CrawlStore interface {
	BreachExists(ctx context.Context, name, domain string) (bool, error)
	CreateBreach(ctx context.Context, breach *model.Breach) error
}

// Searcher runs external breach-intelligence searches.
type Searcher interface {
	Configured() bool
	Search(ctx context.Context, query string) ([]search.Result, error)
}

// CrawlService discovers new breaches from external search results.
type CrawlService struct {
	store    CrawlStore
	searcher Searcher
	gen      Generator
	notifier notify.Notifier
	logger   *slog.Logger
	metrics  metrics.Recorder
}

// NewCrawlService creates a CrawlService.
func NewCrawlService(store CrawlStore, searcher Searcher, gen Generator, notifier notify.Notifier, logger *slog.Logger, recorder metrics.Recorder) *CrawlService {
	if notifier == nil {
		notifier = notify.NewNoop()
	}
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &CrawlService{
		store:    store,
		searcher: searcher,
		gen:      gen,
		notifier: notifier,
		logger:   logger.With("component", "service.crawl"),
		metrics:  recorder,
	}
}

// extractedBreach is the AI extraction wire format.
type extractedBreach struct {
	Name          string   `json:"name"`
	Domain        string   `json:"domain"`
	BreachDate    string   `json:"breach_date"`
	ExposedData   []string `json:"exposed_data"`
	Description   string   `json:"description"`
	AffectedCount string   `json:"affected_count"`
	Severity      string   `json:"severity"`
	SourceURL     string   `json:"source_url"`
}

type extractionEnvelope struct {
	Breaches []extractedBreach `json:"breaches"`
}

// Crawl searches for breach reports, extracts structured breach records
// with the generation gateway and inserts the ones not already recorded.
// Returns the newly inserted breaches.
func (s *CrawlService) Crawl(ctx context.Context, query string) ([]*model.Breach, error) {
	if !s.searcher.Configured() {
		return nil, ErrCrawlNotConfigured
	}

	if query == "" {
		query = DefaultCrawlQuery
	}

	runID := ulid.Make().String()
	logger := s.logger.With("run_id", runID)
	logger.Info("crawl started", "query", query)

	results, err := s.searcher.Search(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("breach search failed: %w", err)
	}
	if len(results) == 0 {
		logger.Info("crawl found no results")
		return nil, nil
	}

	raw, err := s.gen.Complete(ctx, extractionSystemPrompt, buildExtractionPrompt(results))
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrGenerationFailed, err)
	}

	candidates := parseExtractedBreaches(raw)
	if len(candidates) == 0 {
		logger.Info("no breach records extracted", "results", len(results))
		return nil, nil
	}

	var inserted []*model.Breach
	for _, candidate := range candidates {
		breach, ok := s.insertCandidate(ctx, logger, candidate)
		if ok {
			inserted = append(inserted, breach)
		}
	}

	logger.Info("crawl finished",
		"extracted", len(candidates),
		"inserted", len(inserted),
	)

	return inserted, nil
}

// insertCandidate validates and stores one extracted breach. Skips are
// not errors: the crawl is best-effort per record.
func (s *CrawlService) insertCandidate(ctx context.Context, logger *slog.Logger, candidate extractedBreach) (*model.Breach, bool) {
	if candidate.Name == "" || candidate.Domain == "" {
		return nil, false
	}

	exists, err := s.store.BreachExists(ctx, candidate.Name, candidate.Domain)
	if err != nil {
		logger.Warn("existence check failed", "name", candidate.Name, "error", err)
		return nil, false
	}
	if exists {
		return nil, false
	}

	severity := model.Severity(candidate.Severity)
	if !severity.IsValid() {
		severity = model.SeverityMedium
	}

	breachDate, err := time.Parse("2006-01-02", candidate.BreachDate)
	if err != nil {
		breachDate = time.Now().UTC().Truncate(24 * time.Hour)
	}

	now := time.Now().UTC()
	breach := &model.Breach{
		ID:            uuid.NewString(),
		Name:          candidate.Name,
		Domain:        candidate.Domain,
		BreachDate:    breachDate,
		ExposedData:   candidate.ExposedData,
		Description:   candidate.Description,
		AffectedCount: candidate.AffectedCount,
		Severity:      severity,
		SourceURL:     candidate.SourceURL,
		IsVerified:    false,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.store.CreateBreach(ctx, breach); err != nil {
		if !errors.Is(err, repository.ErrBreachExists) {
			logger.Warn("failed to insert breach", "name", breach.Name, "error", err)
		}
		return nil, false
	}

	s.metrics.IncBreachDiscovered()
	logger.Info("breach recorded", "breach_id", breach.ID, "name", breach.Name)

	// Event publishing is best-effort; losing one never fails the crawl.
	if err := s.notifier.BreachDiscovered(ctx, breach); err != nil {
		logger.Warn("failed to publish breach event", "breach_id", breach.ID, "error", err)
	}

	return breach, true
}

// parseExtractedBreaches pulls the breach array out of model output.
// Unparseable output yields an empty list, never an error.
func parseExtractedBreaches(raw string) []extractedBreach {
	candidate, ok := report.ExtractJSON(raw)
	if !ok {
		return nil
	}

	var envelope extractionEnvelope
	if err := json.Unmarshal([]byte(candidate), &envelope); err != nil {
		return nil
	}

	return envelope.Breaches
}

const extractionSystemPrompt = "You are a cybersecurity analyst who extracts structured data breach information. Always respond with valid JSON."

func buildExtractionPrompt(results []search.Result) string {
	var b strings.Builder
	b.WriteString("Analyze the following search results about data breaches and extract structured information about any NEW data breaches mentioned.\n\n")
	b.WriteString("Search Results:\n")

	for i, r := range results {
		content := r.Markdown
		if content == "" {
			content = r.Description
		}
		content = truncateRunes(content, maxResultContentLength)

		fmt.Fprintf(&b, "\n--- Result %d ---\n", i+1)
		fmt.Fprintf(&b, "Title: %s\n", valueOr(r.Title, "N/A"))
		fmt.Fprintf(&b, "URL: %s\n", valueOr(r.URL, "N/A"))
		fmt.Fprintf(&b, "Content: %s\n", valueOr(content, "N/A"))
	}

	b.WriteString(`
Extract any data breaches mentioned and return them as a JSON array:
{
  "breaches": [
    {
      "name": "Company Name",
      "domain": "company.com",
      "breach_date": "YYYY-MM-DD",
      "exposed_data": ["emails", "passwords", "names"],
      "description": "Brief description of the breach",
      "affected_count": "Number affected (e.g., '50M')",
      "severity": "low|medium|high|critical",
      "source_url": "URL where this was reported"
    }
  ]
}

Only include breaches with enough information to be useful. Return an empty array if no clear breach information is found.`)

	return b.String()
}

// truncateRunes caps s at max bytes without splitting a UTF-8 rune.
func truncateRunes(s string, max int) string {
	if len(s) <= max {
		return s
	}
	for max > 0 && !utf8.RuneStart(s[max]) {
		max--
	}
	return s[:max]
}

func valueOr(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
