// Package model defines domain entities for the application.
package model

import "time"

// Severity classifies how damaging a breach is.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// IsValid checks if the severity is one of the known levels.
func (s Severity) IsValid() bool {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical:
		return true
	}
	return false
}

// Breach represents a recorded data breach incident.
// Identity is (Name, Domain); the store enforces it as a dedup key.
type Breach struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	Domain         string     `json:"domain"`
	BreachDate     time.Time  `json:"breach_date"`
	DiscoveredDate *time.Time `json:"discovered_date,omitempty"`
	ExposedData    []string   `json:"exposed_data"`
	Description    string     `json:"description"`
	AffectedCount  string     `json:"affected_count"`
	Severity       Severity   `json:"severity"`
	SourceURL      string     `json:"source_url,omitempty"`
	IsVerified     bool       `json:"is_verified"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// Year returns the four-digit year of the breach date, or empty if unset.
func (b *Breach) Year() string {
	if b.BreachDate.IsZero() {
		return ""
	}
	return b.BreachDate.Format("2006")
}

// EmailBreachRecord maps a hashed email to a breach it appears in.
// This is the only persisted artifact of a real lookup.
type EmailBreachRecord struct {
	ID        string    `json:"id"`
	EmailHash string    `json:"email_hash"`
	BreachID  string    `json:"breach_id"`
	CreatedAt time.Time `json:"created_at"`
}
