// Command seed-demo-data loads a set of well-known breaches into the
// database and optionally ties an email address to them, so a fresh
// environment has something to look up.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/breachwatch/breachwatch/internal/emailhash"
	"github.com/breachwatch/breachwatch/internal/model"
	"github.com/breachwatch/breachwatch/internal/repository"
)

type output struct {
	Seeded   int      `json:"seeded"`
	Skipped  int      `json:"skipped"`
	Email    string   `json:"email,omitempty"`
	Breaches []string `json:"breaches"`
}

func main() {
	var (
		databaseURL = flag.String("database-url", os.Getenv("DATABASE_URL"), "PostgreSQL connection string")
		email       = flag.String("email", "", "Optional email to mark as present in every seeded breach")
		format      = flag.String("format", "plain", "Output format: plain or json")
	)
	flag.Parse()

	if *databaseURL == "" {
		fmt.Fprintln(os.Stderr, "DATABASE_URL is required")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	repo, err := repository.New(ctx, *databaseURL)
	if err != nil {
		fmt.Fprintln(os.Stderr, "connect database:", err)
		os.Exit(1)
	}
	defer repo.Close()

	out := output{Email: *email}

	for _, breach := range demoBreaches() {
		err := repo.CreateBreach(ctx, breach)
		switch {
		case errors.Is(err, repository.ErrBreachExists):
			out.Skipped++
			continue
		case err != nil:
			fmt.Fprintf(os.Stderr, "seed breach %s: %v\n", breach.Name, err)
			os.Exit(1)
		}
		out.Seeded++
		out.Breaches = append(out.Breaches, breach.Name)

		if *email != "" {
			record := &model.EmailBreachRecord{
				ID:        uuid.NewString(),
				EmailHash: emailhash.Hash(*email),
				BreachID:  breach.ID,
				CreatedAt: time.Now().UTC(),
			}
			if err := repo.CreateEmailBreachRecord(ctx, record); err != nil {
				fmt.Fprintf(os.Stderr, "seed email record for %s: %v\n", breach.Name, err)
				os.Exit(1)
			}
		}
	}

	switch strings.ToLower(*format) {
	case "plain":
		fmt.Printf("seeded %d breaches, skipped %d existing\n", out.Seeded, out.Skipped)
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(out)
	default:
		fmt.Fprintln(os.Stderr, "invalid format; use plain or json")
		os.Exit(1)
	}
}

func demoBreaches() []*model.Breach {
	now := time.Now().UTC()
	date := func(y int, m time.Month, d int) time.Time {
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	}

	entries := []*model.Breach{
		{
			Name:          "LinkVault",
			Domain:        "linkvault.example.com",
			BreachDate:    date(2019, time.March, 12),
			ExposedData:   []string{"emails", "passwords", "usernames"},
			Description:   "Credential database exposed through an unsecured backup.",
			AffectedCount: "120M",
			Severity:      model.SeverityCritical,
			SourceURL:     "https://news.example.com/linkvault-breach",
			IsVerified:    true,
		},
		{
			Name:          "ShopStream",
			Domain:        "shopstream.example.com",
			BreachDate:    date(2021, time.August, 3),
			ExposedData:   []string{"emails", "names", "phone numbers", "addresses"},
			Description:   "Customer records scraped via a misconfigured API endpoint.",
			AffectedCount: "34M",
			Severity:      model.SeverityHigh,
			SourceURL:     "https://news.example.com/shopstream-breach",
			IsVerified:    true,
		},
		{
			Name:          "FitTrack",
			Domain:        "fittrack.example.com",
			BreachDate:    date(2023, time.January, 20),
			ExposedData:   []string{"emails", "dates of birth"},
			Description:   "User table leaked after a third-party vendor compromise.",
			AffectedCount: "8M",
			Severity:      model.SeverityMedium,
			IsVerified:    false,
		},
	}

	for _, b := range entries {
		b.ID = uuid.NewString()
		b.CreatedAt = now
		b.UpdatedAt = now
	}
	return entries
}
