// Package admin wraps the kitchen's item and order mutations. Local state
// is never edited in place: every successful mutation re-fetches the
// affected collection from the server.
package admin

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/andreasstove999/cafeteria-go/internal/menu"
	"github.com/andreasstove999/cafeteria-go/internal/order"
)

var (
	ErrNotConfirmed    = errors.New("not confirmed")
	ErrInvalidQuantity = errors.New("quantity must be a non-negative whole number")
	ErrInvalidStatus   = errors.New("invalid order status")
)

const DeletePrompt = "Delete this item?"

// API is the subset of the REST client the panel drives.
type API interface {
	ListItems(ctx context.Context) ([]menu.Item, error)
	CreateItem(ctx context.Context, in menu.Input) (menu.Item, error)
	UpdateItem(ctx context.Context, id int64, p menu.Patch) (menu.Item, error)
	DeleteItem(ctx context.Context, id int64) error
	AdminOrders(ctx context.Context) ([]order.Order, error)
	UpdateOrderStatus(ctx context.Context, id int64, status order.Status) (order.Order, error)
}

// Confirmer asks the operator a yes/no question.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

type ConfirmFunc func(ctx context.Context, prompt string) (bool, error)

func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) (bool, error) { return f(ctx, prompt) }

// Applier gates writes of fetched collections into the panel. A closed
// view's applier refuses them.
type Applier interface {
	Apply(fn func()) bool
}

type always struct{}

func (always) Apply(fn func()) bool {
	fn()
	return true
}

type Panel struct {
	api     API
	confirm Confirmer
	items   *menu.Store
	apply   Applier
	log     zerolog.Logger

	mu     sync.Mutex
	orders []order.Order
}

func NewPanel(api API, confirm Confirmer, logger zerolog.Logger) *Panel {
	return &Panel{api: api, confirm: confirm, items: menu.NewStore(), apply: always{}, log: logger}
}

// SetApplier routes every item and order write, including re-fetches after
// mutations, through a.
func (p *Panel) SetApplier(a Applier) {
	p.apply = a
}

// Items is the last fetched item list.
func (p *Panel) Items() *menu.Store { return p.items }

func (p *Panel) Orders() []order.Order {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]order.Order(nil), p.orders...)
}

func (p *Panel) RefreshItems(ctx context.Context) error {
	items, err := p.api.ListItems(ctx)
	if err != nil {
		return err
	}
	p.apply.Apply(func() { p.items.Replace(items) })
	return nil
}

func (p *Panel) RefreshOrders(ctx context.Context) error {
	orders, err := p.api.AdminOrders(ctx)
	if err != nil {
		return err
	}
	p.apply.Apply(func() {
		p.mu.Lock()
		p.orders = orders
		p.mu.Unlock()
	})
	return nil
}

// refetch runs after a mutation the server accepted. Its failure is logged
// only; the next poll catches up.
func (p *Panel) refetch(ctx context.Context, what string, fn func(context.Context) error) {
	if err := fn(ctx); err != nil {
		p.log.Warn().Err(err).Str("collection", what).Msg("re-fetch after mutation failed")
	}
}

func (p *Panel) CreateItem(ctx context.Context, in menu.Input) (menu.Item, error) {
	if err := in.Validate(); err != nil {
		return menu.Item{}, err
	}
	it, err := p.api.CreateItem(ctx, in)
	if err != nil {
		return menu.Item{}, err
	}
	p.refetch(ctx, "items", p.RefreshItems)
	return it, nil
}

func (p *Panel) UpdateItem(ctx context.Context, id int64, patch menu.Patch) (menu.Item, error) {
	if err := patch.Validate(); err != nil {
		return menu.Item{}, err
	}
	it, err := p.api.UpdateItem(ctx, id, patch)
	if err != nil {
		return menu.Item{}, err
	}
	p.refetch(ctx, "items", p.RefreshItems)
	return it, nil
}

// DeleteItem asks for confirmation first; a "no" sends nothing.
func (p *Panel) DeleteItem(ctx context.Context, id int64) error {
	ok, err := p.confirm.Confirm(ctx, DeletePrompt)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotConfirmed
	}
	if err := p.api.DeleteItem(ctx, id); err != nil {
		return err
	}
	p.refetch(ctx, "items", p.RefreshItems)
	return nil
}

// Restock sets an item's stock from operator input. The server recomputes
// availability from the new quantity.
func (p *Panel) Restock(ctx context.Context, id int64, text string) (menu.Item, error) {
	qty, err := ParseQuantity(text)
	if err != nil {
		return menu.Item{}, err
	}
	return p.UpdateItem(ctx, id, menu.Patch{Quantity: &qty})
}

// ParseQuantity accepts a finite, non-negative number. Fractions are
// truncated.
func ParseQuantity(text string) (int, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 || v > math.MaxInt32 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidQuantity, text)
	}
	return int(v), nil
}

func (p *Panel) SetOrderStatus(ctx context.Context, id int64, status string) (order.Order, error) {
	st, ok := order.ParseStatus(status)
	if !ok {
		return order.Order{}, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	o, err := p.api.UpdateOrderStatus(ctx, id, st)
	if err != nil {
		return order.Order{}, err
	}
	p.refetch(ctx, "orders", p.RefreshOrders)
	return o, nil
}
