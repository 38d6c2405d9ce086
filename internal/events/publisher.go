package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/andreasstove999/cafeteria-go/internal/middleware"
	"github.com/andreasstove999/cafeteria-go/internal/order"
)

// SequenceSource numbers the events of one order.
type SequenceSource interface {
	Next(ctx context.Context, orderID int64) (int64, error)
}

// Publisher sends order events to the events exchange. It satisfies
// order.Notifier.
type Publisher struct {
	ch       *amqp.Channel
	seq      SequenceSource
	producer string
	now      func() time.Time
}

func NewPublisher(conn *amqp.Connection, seq SequenceSource) (*Publisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if err := declareEventsExchange(ch); err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("declare events exchange: %w", err)
	}
	return &Publisher{
		ch:       ch,
		seq:      seq,
		producer: serverProducer,
		now:      func() time.Time { return time.Now().UTC() },
	}, nil
}

func (p *Publisher) Close() error {
	return p.ch.Close()
}

func (p *Publisher) OrderPlaced(ctx context.Context, o order.Order) error {
	return p.publishOrder(ctx, EventTypeOrderPlaced, OrderPlacedRoutingKey, o)
}

func (p *Publisher) OrderStatusChanged(ctx context.Context, o order.Order) error {
	return p.publishOrder(ctx, EventTypeOrderStatusChanged, OrderStatusChangedRoutingKey, o)
}

func (p *Publisher) publishOrder(ctx context.Context, name, routingKey string, o order.Order) error {
	meta := EventMeta{
		CorrelationID: middleware.GetCorrelationID(ctx),
		PartitionKey:  orderPartitionKey(o.ID),
	}

	seq, err := p.seq.Next(ctx, o.ID)
	if err != nil {
		return fmt.Errorf("reserve sequence: %w", err)
	}

	env := newOrderEvent(name, meta, seq, p.producer, newOrderPayload(o), p.now())
	body, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal %s envelope: %w", name, err)
	}
	return p.publishJSON(ctx, routingKey, body)
}

func (p *Publisher) publishJSON(ctx context.Context, routingKey string, body []byte) error {
	pubCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	return p.ch.PublishWithContext(
		pubCtx,
		EventsExchange,
		routingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    p.now(),
			Body:         body,
		},
	)
}
