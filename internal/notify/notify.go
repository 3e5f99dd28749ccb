// Package notify publishes breach lifecycle events.
//
// Events are fire-and-forget: downstream alerting (mailing active
// subscribers) consumes them out of process. Durable delivery is out of
// scope here by design.
package notify

import (
	"context"

	"github.com/breachwatch/breachwatch/internal/model"
)

// SubjectBreachDiscovered is the subject new-breach events publish to.
const SubjectBreachDiscovered = "breach.discovered"

// Notifier publishes breach events.
type Notifier interface {
	// BreachDiscovered announces a newly recorded breach.
	BreachDiscovered(ctx context.Context, breach *model.Breach) error
	// Close releases the underlying connection.
	Close()
}

// BreachDiscoveredEvent is the wire payload for new-breach events.
type BreachDiscoveredEvent struct {
	BreachID   string `json:"breach_id"`
	Name       string `json:"name"`
	Domain     string `json:"domain"`
	BreachDate string `json:"breach_date"`
	Severity   string `json:"severity"`
}

// noopNotifier discards events. Used when no broker is configured.
type noopNotifier struct{}

// NewNoop returns a Notifier that discards all events.
func NewNoop() Notifier {
	return noopNotifier{}
}

func (noopNotifier) BreachDiscovered(ctx context.Context, breach *model.Breach) error {
	return nil
}

func (noopNotifier) Close() {}
