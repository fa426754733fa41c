package myevents

import (
	"fmt"
	"time"
)

// EventEnvelope is the outbox form of an event. It is stored in the transaction that caused the event
// and forwarded to pubsub afterwards.
type EventEnvelope struct {
	UID       string    `json:"uid"`
	CreatedAt time.Time `json:"createdAt"`
	Topic     string    `json:"topic"`
	// AggregateUID is what the event is about, the order code for payment events.
	AggregateUID  string `json:"aggregateUid"`
	EventTypeName string `json:"eventTypeName"`
	EventPayload  string `json:"eventPayload" datastore:",noindex"`
	Published     bool   `json:"published"`
}

// String labels the envelope in logs as topic/type@aggregate.
func (e EventEnvelope) String() string {
	return fmt.Sprintf("%s/%s@%s", e.Topic, e.EventTypeName, e.AggregateUID)
}

type Event interface {
	GetEventTypeName() string
	GetAggregateName() string
}
