package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/nats-io/nats.go"

	"github.com/breachwatch/breachwatch/internal/model"
)

// natsNotifier publishes events to a NATS broker.
type natsNotifier struct {
	conn   *nats.Conn
	logger *slog.Logger
}

// NewNATS connects to a NATS broker and returns a Notifier backed by it.
func NewNATS(url string, logger *slog.Logger) (Notifier, error) {
	conn, err := nats.Connect(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	logger.Info("connected to NATS", "url", url)

	return &natsNotifier{
		conn:   conn,
		logger: logger.With("component", "notify.nats"),
	}, nil
}

// BreachDiscovered publishes a breach.discovered event.
func (n *natsNotifier) BreachDiscovered(ctx context.Context, breach *model.Breach) error {
	event := BreachDiscoveredEvent{
		BreachID:   breach.ID,
		Name:       breach.Name,
		Domain:     breach.Domain,
		BreachDate: breach.BreachDate.Format("2006-01-02"),
		Severity:   string(breach.Severity),
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal breach event: %w", err)
	}

	if err := n.conn.Publish(SubjectBreachDiscovered, data); err != nil {
		return fmt.Errorf("failed to publish breach event: %w", err)
	}

	n.logger.Debug("breach event published",
		"breach_id", breach.ID,
		"subject", SubjectBreachDiscovered,
	)

	return nil
}

// Close drains and closes the NATS connection.
func (n *natsNotifier) Close() {
	if err := n.conn.Drain(); err != nil {
		n.logger.Warn("failed to drain NATS connection", "error", err)
	}
}
