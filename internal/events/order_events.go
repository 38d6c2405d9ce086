package events

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/andreasstove999/cafeteria-go/internal/order"
)

// OrderPayload is the body of both order events.
type OrderPayload struct {
	OrderID          int64      `json:"orderId"`
	CustomerID       string     `json:"customerId"`
	Status           string     `json:"status"`
	TotalPrice       float64    `json:"totalPrice"`
	Units            int        `json:"units"`
	EstimatedReadyAt *time.Time `json:"estimatedReadyAt,omitempty"`
}

type OrderEvent = EventEnvelope[OrderPayload]

type EventMeta struct {
	CorrelationID string
	PartitionKey  string
}

func orderPartitionKey(id int64) string {
	return "order-" + strconv.FormatInt(id, 10)
}

func newOrderPayload(o order.Order) OrderPayload {
	return OrderPayload{
		OrderID:          o.ID,
		CustomerID:       o.CustomerID,
		Status:           string(o.Status),
		TotalPrice:       o.TotalPrice,
		Units:            o.Units(),
		EstimatedReadyAt: o.EstimatedReadyAt,
	}
}

func newOrderEvent(name string, meta EventMeta, seq int64, producer string, payload OrderPayload, occurredAt time.Time) OrderEvent {
	schema := orderPlacedSchema
	if name == EventTypeOrderStatusChanged {
		schema = orderStatusChangedSchema
	}
	return OrderEvent{
		EventName:     name,
		EventVersion:  1,
		EventID:       uuid.NewString(),
		CorrelationID: meta.CorrelationID,
		Producer:      producer,
		PartitionKey:  meta.PartitionKey,
		Sequence:      seq,
		OccurredAt:    occurredAt,
		Schema:        schema,
		Payload:       payload,
	}
}

func validateOrderEvent(ev OrderEvent) error {
	if ev.EventName != EventTypeOrderPlaced && ev.EventName != EventTypeOrderStatusChanged {
		return fmt.Errorf("unexpected eventName %q", ev.EventName)
	}
	if err := ev.Validate(ev.EventName, 1); err != nil {
		return err
	}
	if ev.Payload.OrderID <= 0 {
		return fmt.Errorf("missing orderId")
	}
	if !order.Status(ev.Payload.Status).Valid() {
		return fmt.Errorf("unknown status %q", ev.Payload.Status)
	}
	return nil
}

// decodeOrderEvent parses and validates an order event delivery.
func decodeOrderEvent(body []byte) (OrderEvent, error) {
	env, err := parseEnvelope(body)
	if err != nil {
		return OrderEvent{}, err
	}
	var payload OrderPayload
	if err := json.Unmarshal(env.Payload, &payload); err != nil {
		return OrderEvent{}, fmt.Errorf("unmarshal order payload: %w", err)
	}
	ev := OrderEvent{
		EventName:     env.EventName,
		EventVersion:  env.EventVersion,
		EventID:       env.EventID,
		CorrelationID: env.CorrelationID,
		Producer:      env.Producer,
		PartitionKey:  env.PartitionKey,
		Sequence:      env.Sequence,
		OccurredAt:    env.OccurredAt,
		Schema:        env.Schema,
		Payload:       payload,
	}
	if err := validateOrderEvent(ev); err != nil {
		return OrderEvent{}, err
	}
	return ev, nil
}
