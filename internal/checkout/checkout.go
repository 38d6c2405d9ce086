// Package checkout turns the cart into a placed order.
package checkout

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"github.com/andreasstove999/cafeteria-go/internal/cart"
	"github.com/andreasstove999/cafeteria-go/internal/order"
	"github.com/andreasstove999/cafeteria-go/internal/refresh"
)

var ErrEmptyCart = errors.New("cart is empty")

// UnavailableError names the cart items that are no longer available.
type UnavailableError struct {
	Names []string
}

func (e *UnavailableError) Error() string {
	return "some items are unavailable: " + strings.Join(e.Names, ", ")
}

// Placer sends the order to the server.
type Placer interface {
	PlaceOrder(ctx context.Context, req order.PlaceRequest) (order.Order, error)
}

type Submitter struct {
	cart       *cart.Cart
	catalog    cart.Catalog
	placer     Placer
	customerID string
	after      []refresh.Func
	log        zerolog.Logger
}

// NewSubmitter builds a Submitter. The after funcs run once an order is
// accepted, typically re-fetching the menu and the order list.
func NewSubmitter(c *cart.Cart, catalog cart.Catalog, placer Placer, customerID string, logger zerolog.Logger, after ...refresh.Func) *Submitter {
	return &Submitter{
		cart:       c,
		catalog:    catalog,
		placer:     placer,
		customerID: customerID,
		after:      after,
		log:        logger,
	}
}

// Submit places the current cart. Local checks run before anything is
// sent; server errors come back unchanged and leave the cart as it was.
func (s *Submitter) Submit(ctx context.Context, notes *string) (order.Order, error) {
	var (
		items       []order.LineRequest
		unavailable []string
	)
	for l := range s.cart.Lines(s.catalog) {
		if !l.Available {
			unavailable = append(unavailable, l.Name)
			continue
		}
		items = append(items, order.LineRequest{ItemID: l.ItemID, Quantity: l.Quantity})
	}
	if len(items) == 0 && len(unavailable) == 0 {
		return order.Order{}, ErrEmptyCart
	}
	if len(unavailable) > 0 {
		return order.Order{}, &UnavailableError{Names: unavailable}
	}

	o, err := s.placer.PlaceOrder(ctx, order.PlaceRequest{
		CustomerID: s.customerID,
		Items:      items,
		Notes:      notes,
	})
	if err != nil {
		return order.Order{}, err
	}

	s.cart.Clear()
	for _, fn := range s.after {
		if err := fn(ctx); err != nil {
			s.log.Warn().Err(err).Int64("order_id", o.ID).Msg("refresh after checkout failed")
		}
	}
	return o, nil
}
