package model

import (
	"testing"
	"time"
)

func TestSeverity_IsValid(t *testing.T) {
	tests := []struct {
		severity Severity
		want     bool
	}{
		{SeverityLow, true},
		{SeverityMedium, true},
		{SeverityHigh, true},
		{SeverityCritical, true},
		{Severity("severe"), false},
		{Severity(""), false},
	}

	for _, test := range tests {
		t.Run(string(test.severity), func(t *testing.T) {
			if got := test.severity.IsValid(); got != test.want {
				t.Errorf("IsValid(%q) = %v, want %v", test.severity, got, test.want)
			}
		})
	}
}

func TestBreach_Year(t *testing.T) {
	b := &Breach{BreachDate: time.Date(2020, 5, 1, 0, 0, 0, 0, time.UTC)}
	if got := b.Year(); got != "2020" {
		t.Errorf("expected year 2020, got %s", got)
	}

	empty := &Breach{}
	if got := empty.Year(); got != "" {
		t.Errorf("expected empty year for zero date, got %s", got)
	}
}

func TestCachedPost_RoundTrip(t *testing.T) {
	breachID := "b-1"
	post := &BlogPost{
		Slug:            "acme-2020",
		BreachID:        &breachID,
		Title:           "Acme Data Breach Analysis",
		Excerpt:         "What happened at Acme.",
		Content:         "## What happened\n\nDetails.",
		Recommendations: []string{"Change your password", "Enable 2FA"},
		Sources:         []string{"https://example.com/report"},
		ReadTime:        "5 min read",
		IsPublished:     true,
		CreatedAt:       time.Unix(1700000000, 0),
	}

	got := post.ToCachedPost().ToBlogPost("acme-2020")

	if got.Title != post.Title || got.Content != post.Content {
		t.Error("title/content not preserved through cache projection")
	}
	if len(got.Recommendations) != 2 || got.Recommendations[1] != "Enable 2FA" {
		t.Errorf("recommendations not preserved: %v", got.Recommendations)
	}
	if got.BreachID == nil || *got.BreachID != breachID {
		t.Error("breach id not preserved")
	}
	if !got.IsPublished {
		t.Error("published flag not preserved")
	}
	if !got.CreatedAt.Equal(post.CreatedAt) {
		t.Errorf("created_at not preserved: %v", got.CreatedAt)
	}
}

func TestCachedPost_EmptyLists(t *testing.T) {
	post := &BlogPost{Slug: "x", CreatedAt: time.Unix(0, 0)}
	got := post.ToCachedPost().ToBlogPost("x")

	if got.Recommendations != nil {
		t.Errorf("expected nil recommendations, got %v", got.Recommendations)
	}
	if got.Sources != nil {
		t.Errorf("expected nil sources, got %v", got.Sources)
	}
	if got.BreachID != nil {
		t.Error("expected nil breach id")
	}
}
