package events

import (
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	EventsExchange               = "cafeteria.events"
	OrderPlacedRoutingKey        = "order.placed.v1"
	OrderStatusChangedRoutingKey = "order.status_changed.v1"
	orderBindingKey              = "order.#"
	serverProducer               = "cafeteria-server"
)

// Dial connects to the broker. Callers treat an error as "events disabled".
func Dial(url string) (*amqp.Connection, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("connect to RabbitMQ: %w", err)
	}
	return conn, nil
}

func declareEventsExchange(ch *amqp.Channel) error {
	return ch.ExchangeDeclare(
		EventsExchange,
		"topic",
		true,
		false,
		false,
		false,
		nil,
	)
}
