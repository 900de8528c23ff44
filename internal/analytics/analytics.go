// Package analytics sends product events to PostHog.
package analytics

import (
	"github.com/posthog/posthog-go"

	"saveandplay/internal/logger"
)

// Event names sent by the API.
const (
	EventGoalCompleted = "goal_completed"
	EventRegistered    = "user_registered"
)

type client interface {
	Enqueue(posthog.Message) error
	Close() error
}

// Tracker wraps a PostHog client. A Tracker built without an API key
// accepts events and drops them.
type Tracker struct {
	client client
}

// NewTracker creates a Tracker. An empty apiKey yields a disabled tracker.
func NewTracker(apiKey, endpoint string) (*Tracker, error) {
	if apiKey == "" {
		logger.Get().Warn("PostHog API key is empty, product analytics disabled")
		return &Tracker{}, nil
	}
	c, err := posthog.NewWithConfig(apiKey, posthog.Config{Endpoint: endpoint})
	if err != nil {
		return nil, err
	}
	return &Tracker{client: c}, nil
}

// Enabled reports whether events are sent anywhere.
func (t *Tracker) Enabled() bool {
	return t != nil && t.client != nil
}

// Enqueue queues one event for userID. Failures are logged.
func (t *Tracker) Enqueue(userID, event string, properties map[string]any) {
	if !t.Enabled() || userID == "" {
		return
	}
	err := t.client.Enqueue(posthog.Capture{
		DistinctId: userID,
		Event:      event,
		Properties: properties,
	})
	if err != nil {
		logger.Get().Warnw("failed to enqueue analytics event", "event", event, "error", err)
	}
}

// Close flushes queued events.
func (t *Tracker) Close() {
	if !t.Enabled() {
		return
	}
	if err := t.client.Close(); err != nil {
		logger.Get().Warnw("failed to close analytics client", "error", err)
	}
}
