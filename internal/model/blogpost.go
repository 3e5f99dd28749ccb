package model

import (
	"strconv"
	"strings"
	"time"
)

// BlogPost is a generated article about a breach.
// At most one post exists per breach; Slug is the public identifier.
type BlogPost struct {
	ID              string    `json:"id"`
	Slug            string    `json:"slug"`
	BreachID        *string   `json:"breach_id,omitempty"`
	Title           string    `json:"title"`
	Excerpt         string    `json:"excerpt"`
	Content         string    `json:"content"`
	ExposedData     []string  `json:"exposed_data"`
	Recommendations []string  `json:"recommendations"`
	Sources         []string  `json:"sources"`
	ReadTime        string    `json:"read_time"`
	IsPublished     bool      `json:"is_published"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// CachedPost represents blog post data stored in Redis.
// Uses string types for Redis hash compatibility; list fields are
// newline-joined (none of the values may contain newlines).
type CachedPost struct {
	ID              string `redis:"id"`
	Title           string `redis:"title"`
	Excerpt         string `redis:"excerpt"`
	Content         string `redis:"content"`
	ExposedData     string `redis:"exposed_data"`
	Recommendations string `redis:"recommendations"`
	Sources         string `redis:"sources"`
	ReadTime        string `redis:"read_time"`
	BreachID        string `redis:"breach_id"`
	Published       string `redis:"published"` // "1" or "0"
	CreatedAt       string `redis:"created_at"` // Unix timestamp
}

// ToBlogPost converts CachedPost back to the domain model.
func (c *CachedPost) ToBlogPost(slug string) *BlogPost {
	post := &BlogPost{
		ID:              c.ID,
		Slug:            slug,
		Title:           c.Title,
		Excerpt:         c.Excerpt,
		Content:         c.Content,
		ExposedData:     splitLines(c.ExposedData),
		Recommendations: splitLines(c.Recommendations),
		Sources:         splitLines(c.Sources),
		ReadTime:        c.ReadTime,
		IsPublished:     c.Published == "1",
	}

	if c.BreachID != "" {
		id := c.BreachID
		post.BreachID = &id
	}

	if c.CreatedAt != "" {
		if ts, err := strconv.ParseInt(c.CreatedAt, 10, 64); err == nil {
			post.CreatedAt = time.Unix(ts, 0)
		}
	}

	return post
}

// ToCachedPost converts the domain model to its Redis projection.
func (p *BlogPost) ToCachedPost() *CachedPost {
	cached := &CachedPost{
		ID:              p.ID,
		Title:           p.Title,
		Excerpt:         p.Excerpt,
		Content:         p.Content,
		ExposedData:     strings.Join(p.ExposedData, "\n"),
		Recommendations: strings.Join(p.Recommendations, "\n"),
		Sources:         strings.Join(p.Sources, "\n"),
		ReadTime:        p.ReadTime,
		Published:       boolToString(p.IsPublished),
		CreatedAt:       strconv.FormatInt(p.CreatedAt.Unix(), 10),
	}

	if p.BreachID != nil {
		cached.BreachID = *p.BreachID
	}

	return cached
}

func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

// boolToString converts boolean to "1" or "0".
func boolToString(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
