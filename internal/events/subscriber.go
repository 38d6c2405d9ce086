package events

import (
	"context"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
)

// Subscribe binds a private, auto-deleted queue to every order event and
// forwards the ones that belong to customerID. An empty customerID receives
// all orders, which is what the kitchen view wants. The returned channel is
// closed when ctx is done or the broker closes the delivery stream.
func Subscribe(ctx context.Context, conn *amqp.Connection, customerID string, logger zerolog.Logger) (<-chan OrderEvent, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if err := declareEventsExchange(ch); err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("declare events exchange: %w", err)
	}

	q, err := ch.QueueDeclare(
		"",    // server-named
		false, // durable
		true,  // autoDelete
		true,  // exclusive
		false, // noWait
		nil,
	)
	if err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("queue declare: %w", err)
	}
	if err := ch.QueueBind(q.Name, orderBindingKey, EventsExchange, false, nil); err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("queue bind: %w", err)
	}

	msgs, err := ch.Consume(q.Name, "", false, true, false, false, nil)
	if err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("consume: %w", err)
	}

	seen := newCheckpoint()
	out := make(chan OrderEvent, 16)
	go func() {
		defer close(out)
		defer func() { _ = ch.Close() }()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					logger.Debug().Msg("order event stream closed")
					return
				}
				ev, err := decodeOrderEvent(msg.Body)
				if err != nil {
					logger.Warn().Err(err).Msg("drop malformed order event")
					_ = msg.Nack(false, false)
					continue
				}
				_ = msg.Ack(false)
				if !forCustomer(ev, customerID) {
					continue
				}
				if !seen.advance(ev.PartitionKey, ev.Sequence) {
					logger.Debug().Str("partition_key", ev.PartitionKey).Int64("sequence", ev.Sequence).Msg("skip duplicate order event")
					continue
				}
				select {
				case out <- ev:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}

func forCustomer(ev OrderEvent, customerID string) bool {
	return customerID == "" || ev.Payload.CustomerID == customerID
}
