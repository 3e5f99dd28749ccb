// Package report turns free-text model output into structured articles.
//
// Generation gateways are asked for JSON but frequently wrap it in
// markdown fences or prose. Parsing is two-stage: a strict parse of the
// whole text, then extraction of a fenced or bare JSON object. When both
// fail, Fallback produces a structurally valid article from breach fields
// with the raw text as content, so the degrade path can never fail.
package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Article is the structured form of a generated blog post.
type Article struct {
	Title           string   `json:"title"`
	Excerpt         string   `json:"excerpt"`
	Content         string   `json:"content"`
	Recommendations []string `json:"recommendations"`
	Sources         []string `json:"sources"`
	ReadTime        string   `json:"readTime"`
}

// ErrNoArticle is returned when no parseable JSON object is found.
var ErrNoArticle = errors.New("no parseable article in model output")

// DefaultReadTime is used when the model omits an estimate.
const DefaultReadTime = "5 min read"

var (
	fencedJSONRe = regexp.MustCompile("(?s)```json\n?(.*?)\n?```")
	bareObjectRe = regexp.MustCompile(`(?s)\{.*\}`)
)

// ExtractJSON locates a JSON object in free text: the whole text if it is
// one, else the first fenced ```json block, else the widest {...} span.
func ExtractJSON(raw string) (string, bool) {
	trimmed := strings.TrimSpace(raw)
	if json.Valid([]byte(trimmed)) && strings.HasPrefix(trimmed, "{") {
		return trimmed, true
	}

	if m := fencedJSONRe.FindStringSubmatch(raw); m != nil {
		return strings.TrimSpace(m[1]), true
	}

	if m := bareObjectRe.FindString(raw); m != "" {
		return m, true
	}

	return "", false
}

// ParseArticle parses model output into an Article.
// Returns ErrNoArticle when nothing JSON-shaped is present, and a wrapped
// unmarshal error when the extracted candidate is not valid JSON.
func ParseArticle(raw string) (*Article, error) {
	candidate, ok := ExtractJSON(raw)
	if !ok {
		return nil, ErrNoArticle
	}

	var article Article
	if err := json.Unmarshal([]byte(candidate), &article); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNoArticle, err)
	}

	if article.Title == "" || article.Content == "" {
		return nil, ErrNoArticle
	}

	if article.ReadTime == "" {
		article.ReadTime = DefaultReadTime
	}

	return &article, nil
}

// genericRecommendations is the fixed advice list for degraded articles.
var genericRecommendations = []string{
	"Change your password immediately",
	"Enable two-factor authentication",
	"Monitor your accounts for suspicious activity",
	"Use unique passwords for each service",
	"Consider using a password manager",
}

// Fallback builds a minimal valid article from breach fields when the
// model output could not be parsed. The raw text becomes the content.
func Fallback(breachName, affectedCount, raw string) *Article {
	affected := affectedCount
	if affected == "" {
		affected = "millions of"
	}

	return &Article{
		Title:           fmt.Sprintf("%s Data Breach Analysis", breachName),
		Excerpt:         fmt.Sprintf("Analysis of the %s data breach affecting %s users.", breachName, affected),
		Content:         raw,
		Recommendations: append([]string(nil), genericRecommendations...),
		Sources:         []string{},
		ReadTime:        DefaultReadTime,
	}
}

var nonAlnumRe = regexp.MustCompile(`[^a-z0-9]+`)

// Slug derives the public post identifier from a breach name and year:
// lowercase, non-alphanumeric runs collapsed to hyphens, year-suffixed.
// An empty year falls back to "breach".
func Slug(breachName, year string) string {
	name := nonAlnumRe.ReplaceAllString(strings.ToLower(breachName), "-")
	name = strings.Trim(name, "-")
	if year == "" {
		year = "breach"
	}
	return name + "-" + year
}
