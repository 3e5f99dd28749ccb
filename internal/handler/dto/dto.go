// Package dto provides Data Transfer Objects for API requests and responses.
//
// The JSON field names are camelCase: the API is consumed directly by
// browser frontends.
package dto

import (
	"time"

	"github.com/breachwatch/breachwatch/internal/model"
)

// CheckEmailRequest is the request body for the email lookup.
type CheckEmailRequest struct {
	Email string `json:"email"`
}

// BreachSummary is a breach in API responses, optionally carrying the
// slug of its published analysis post.
type BreachSummary struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Domain        string   `json:"domain"`
	BreachDate    string   `json:"breachDate"`
	ExposedData   []string `json:"exposedData"`
	Description   string   `json:"description,omitempty"`
	AffectedCount string   `json:"affectedCount,omitempty"`
	Severity      string   `json:"severity"`
	SourceURL     string   `json:"sourceUrl,omitempty"`
	IsVerified    bool     `json:"isVerified"`
	BlogSlug      string   `json:"blogSlug,omitempty"`
}

// CheckEmailResponse is the email lookup response.
type CheckEmailResponse struct {
	Success  bool            `json:"success"`
	Breached bool            `json:"breached"`
	Breaches []BreachSummary `json:"breaches"`
	Total    int             `json:"total"`
}

// GenerateBlogRequest is the request body for post generation.
type GenerateBlogRequest struct {
	BreachID string `json:"breachId"`
}

// GenerateBlogResponse is the post generation response.
type GenerateBlogResponse struct {
	Success bool          `json:"success"`
	Slug    string        `json:"slug"`
	Created bool          `json:"created"`
	Post    *PostResponse `json:"post,omitempty"`
}

// SubscribeRequest is the request body for subscribe/unsubscribe.
type SubscribeRequest struct {
	Email  string `json:"email"`
	Action string `json:"action,omitempty"`
}

// SubscribeResponse reports the subscription outcome.
type SubscribeResponse struct {
	Success           bool   `json:"success"`
	Message           string `json:"message"`
	AlreadySubscribed bool   `json:"alreadySubscribed,omitempty"`
}

// CrawlRequest is the request body for the breach crawl.
type CrawlRequest struct {
	Query string `json:"query,omitempty"`
}

// CrawlResponse reports newly discovered breaches.
type CrawlResponse struct {
	Success    bool            `json:"success"`
	Discovered int             `json:"discovered"`
	Breaches   []BreachSummary `json:"breaches"`
}

// PostResponse is a blog post in API responses.
type PostResponse struct {
	ID              string    `json:"id"`
	BreachID        string    `json:"breachId,omitempty"`
	Slug            string    `json:"slug"`
	Title           string    `json:"title"`
	Excerpt         string    `json:"excerpt"`
	Content         string    `json:"content"`
	Recommendations []string  `json:"recommendations"`
	Sources         []string  `json:"sources"`
	ReadTime        string    `json:"readTime"`
	CreatedAt       time.Time `json:"createdAt"`
}

// BreachListResponse is the breach catalog response.
type BreachListResponse struct {
	Success  bool            `json:"success"`
	Breaches []BreachSummary `json:"breaches"`
	Total    int             `json:"total"`
}

// PostListResponse lists published posts.
type PostListResponse struct {
	Success bool           `json:"success"`
	Posts   []PostResponse `json:"posts"`
	Total   int            `json:"total"`
}

// PostDetailResponse is a single post response.
type PostDetailResponse struct {
	Success bool         `json:"success"`
	Post    PostResponse `json:"post"`
}

// ErrorResponse is the error envelope shared by every endpoint.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// ToBreachSummary converts a breach, with blogSlug set when a published
// analysis exists.
func ToBreachSummary(b *model.Breach, blogSlug string) BreachSummary {
	return BreachSummary{
		ID:            b.ID,
		Name:          b.Name,
		Domain:        b.Domain,
		BreachDate:    b.BreachDate.Format("2006-01-02"),
		ExposedData:   b.ExposedData,
		Description:   b.Description,
		AffectedCount: b.AffectedCount,
		Severity:      string(b.Severity),
		SourceURL:     b.SourceURL,
		IsVerified:    b.IsVerified,
		BlogSlug:      blogSlug,
	}
}

// ToBreachSummaries converts a breach list without slug annotations.
func ToBreachSummaries(breaches []*model.Breach) []BreachSummary {
	out := make([]BreachSummary, 0, len(breaches))
	for _, b := range breaches {
		out = append(out, ToBreachSummary(b, ""))
	}
	return out
}

// ToPostResponse converts a blog post.
func ToPostResponse(p *model.BlogPost) PostResponse {
	breachID := ""
	if p.BreachID != nil {
		breachID = *p.BreachID
	}
	return PostResponse{
		ID:              p.ID,
		BreachID:        breachID,
		Slug:            p.Slug,
		Title:           p.Title,
		Excerpt:         p.Excerpt,
		Content:         p.Content,
		Recommendations: p.Recommendations,
		Sources:         p.Sources,
		ReadTime:        p.ReadTime,
		CreatedAt:       p.CreatedAt,
	}
}
