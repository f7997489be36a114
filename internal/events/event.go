// Package events publishes plan lifecycle notifications to RabbitMQ and
// consumes them in the plan-events worker.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// QueueName is the durable queue plan events are published to.
const QueueName = "seminar.plans"

// Event types.
const (
	TypePlanCreated = "plan.created"
	TypePlanUpdated = "plan.updated"
	TypePlanDeleted = "plan.deleted"
)

// PlanEvent is the message body published after a plan is written.
type PlanEvent struct {
	Type       string    `json:"type"`
	PlanID     string    `json:"planId"`
	Session    string    `json:"session,omitempty"`
	DateTime   string    `json:"datetime,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

// Decode parses a message body, rejecting events without a type or plan id.
func Decode(body []byte) (PlanEvent, error) {
	var ev PlanEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return PlanEvent{}, fmt.Errorf("events.Decode: %w", err)
	}
	if ev.Type == "" || ev.PlanID == "" {
		return PlanEvent{}, fmt.Errorf("events.Decode: missing type or planId")
	}
	return ev, nil
}

// Publisher sends plan events somewhere. Implementations must be safe for
// concurrent use.
type Publisher interface {
	Publish(ctx context.Context, ev PlanEvent) error
}

// Noop discards every event. It is wired when no broker is configured.
type Noop struct{}

// Publish implements Publisher.
func (Noop) Publish(context.Context, PlanEvent) error { return nil }
