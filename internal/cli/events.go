package cli

import (
	"context"

	"github.com/andreasstove999/cafeteria-go/internal/events"
)

// orderEvents subscribes to pushed order events when a broker is
// configured. Any failure falls back to polling with a warning.
func (e *env) orderEvents(ctx context.Context, customerID string) (<-chan events.OrderEvent, func()) {
	if e.cfg.RabbitMQURL == "" {
		return nil, func() {}
	}
	conn, err := events.Dial(e.cfg.RabbitMQURL)
	if err != nil {
		e.log.Warn().Err(err).Msg("order events unavailable, polling instead")
		return nil, func() {}
	}
	ch, err := events.Subscribe(ctx, conn, customerID, e.log)
	if err != nil {
		_ = conn.Close()
		e.log.Warn().Err(err).Msg("order events unavailable, polling instead")
		return nil, func() {}
	}
	return ch, func() { _ = conn.Close() }
}
