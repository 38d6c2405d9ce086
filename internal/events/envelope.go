package events

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

const (
	EventTypeOrderPlaced        = "OrderPlaced"
	EventTypeOrderStatusChanged = "OrderStatusChanged"

	orderPlacedSchema        = "cafeteria.order.placed.v1"
	orderStatusChangedSchema = "cafeteria.order.status_changed.v1"
)

// EventEnvelope is the shared v1 envelope around every payload.
type EventEnvelope[T any] struct {
	EventName     string    `json:"eventName"`
	EventVersion  int       `json:"eventVersion"`
	EventID       string    `json:"eventId"`
	CorrelationID string    `json:"correlationId,omitempty"`
	Producer      string    `json:"producer"`
	PartitionKey  string    `json:"partitionKey"`
	Sequence      int64     `json:"sequence,omitempty"`
	OccurredAt    time.Time `json:"occurredAt"`
	Schema        string    `json:"schema"`
	Payload       T         `json:"payload"`
}

func (e EventEnvelope[T]) Validate(expectedName string, expectedVersion int) error {
	if e.EventName != expectedName {
		return fmt.Errorf("unexpected eventName %q", e.EventName)
	}
	if e.EventVersion != expectedVersion {
		return fmt.Errorf("unexpected eventVersion %d", e.EventVersion)
	}
	if e.PartitionKey == "" {
		return errors.New("missing partitionKey")
	}
	if e.EventID == "" {
		return errors.New("missing eventId")
	}
	return nil
}

// parseEnvelope decodes the header fields and keeps the payload raw so the
// caller can pick a payload type by event name.
func parseEnvelope(body []byte) (EventEnvelope[json.RawMessage], error) {
	var env EventEnvelope[json.RawMessage]
	if err := json.Unmarshal(body, &env); err != nil {
		return EventEnvelope[json.RawMessage]{}, fmt.Errorf("unmarshal envelope: %w", err)
	}
	return env, nil
}
