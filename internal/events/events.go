package events

import (
	"context"
	"encoding/json"
	"time"
)

// Event types published after successful writes.
const (
	UserRegistered     = "user.registered"
	TransactionCreated = "transaction.created"
	BudgetCreated      = "budget.created"
)

// Event describes a completed domain write.
type Event struct {
	Type       string    `json:"type"`
	UserID     int64     `json:"user_id"`
	EntityID   int64     `json:"entity_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

// New builds an event stamped with the current time.
func New(eventType string, userID, entityID int64) Event {
	return Event{Type: eventType, UserID: userID, EntityID: entityID, OccurredAt: time.Now().UTC()}
}

// ToJSON encodes the event as a message body.
func (e Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// Publisher delivers events to interested consumers.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close() error
}

// Nop discards every event.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }
func (Nop) Close() error                         { return nil }
