// Package app holds the terminal view models: the customer shop and the
// kitchen console. They own view state, pollers and the guard that drops
// fetches finishing after Close.
package app

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/andreasstove999/cafeteria-go/internal/cart"
	"github.com/andreasstove999/cafeteria-go/internal/checkout"
	"github.com/andreasstove999/cafeteria-go/internal/events"
	"github.com/andreasstove999/cafeteria-go/internal/menu"
	"github.com/andreasstove999/cafeteria-go/internal/order"
	"github.com/andreasstove999/cafeteria-go/internal/refresh"
)

const (
	TopSellingLimit = 5

	defaultOrdersPoll     = 5 * time.Second
	defaultTopSellingPoll = 15 * time.Second
)

// ShopAPI is the customer side of the REST client.
type ShopAPI interface {
	ListItems(ctx context.Context) ([]menu.Item, error)
	DailySpecials(ctx context.Context) ([]menu.Item, error)
	CustomerOrders(ctx context.Context, customerID string) ([]order.Order, error)
	PlaceOrder(ctx context.Context, req order.PlaceRequest) (order.Order, error)
	TopSelling(ctx context.Context, limit int) ([]order.TopSeller, error)
	RateItem(ctx context.Context, id int64, rating int) (menu.Item, error)
	Favorites(ctx context.Context, customerID string) ([]menu.Item, error)
	AddFavorite(ctx context.Context, customerID string, itemID int64) error
	RemoveFavorite(ctx context.Context, customerID string, itemID int64) error
}

// StatusUpdate is an order whose status changed between two fetches.
type StatusUpdate struct {
	OrderID int64
	From    order.Status
	To      order.Status
}

func (u StatusUpdate) String() string {
	return fmt.Sprintf("order #%d is now %s", u.OrderID, u.To)
}

type ShopOptions struct {
	CustomerID     string
	OrdersPoll     time.Duration
	TopSellingPoll time.Duration

	// OrderEvents, when set, refreshes the order list on pushed events
	// instead of on a timer.
	OrderEvents <-chan events.OrderEvent

	OnStatusChange func(StatusUpdate)
	Logger         zerolog.Logger
}

type Shop struct {
	api        ShopAPI
	customerID string
	store      *menu.Store
	cart       *cart.Cart
	submitter  *checkout.Submitter
	pollers    refresh.Group
	guard      refresh.Guard
	notify     func(StatusUpdate)
	log        zerolog.Logger

	mu         sync.Mutex
	criteria   menu.Criteria
	orders     []order.Order
	statuses   map[int64]order.Status
	favorites  []menu.Item
	specials   []menu.Item
	topSelling []order.TopSeller
}

func NewShop(api ShopAPI, opts ShopOptions) *Shop {
	s := &Shop{
		api:        api,
		customerID: opts.CustomerID,
		store:      menu.NewStore(),
		cart:       cart.New(),
		notify:     opts.OnStatusChange,
		log:        opts.Logger,
		criteria:   menu.Criteria{Category: menu.CategoryAll, View: menu.ViewAll},
	}
	if s.customerID == "" {
		s.customerID = order.DefaultCustomerID
	}
	opts.OrdersPoll = orDefault(opts.OrdersPoll, defaultOrdersPoll)
	opts.TopSellingPoll = orDefault(opts.TopSellingPoll, defaultTopSellingPoll)
	s.submitter = checkout.NewSubmitter(s.cart, s.store, api, s.customerID, s.log, s.RefreshOrders, s.RefreshMenu)

	var orders refresh.Refresher
	if opts.OrderEvents != nil {
		orders = refresh.NewPush("orders", opts.OrderEvents, s.RefreshOrders, s.log)
	} else {
		orders = refresh.NewTicker("orders", opts.OrdersPoll, s.RefreshOrders, s.log)
	}
	s.pollers = refresh.Group{
		orders,
		refresh.NewTicker("top-selling", opts.TopSellingPoll, s.RefreshTopSelling, s.log),
	}
	return s
}

func (s *Shop) CustomerID() string { return s.customerID }
func (s *Shop) Cart() *cart.Cart   { return s.cart }
func (s *Shop) Store() *menu.Store { return s.store }

// Start loads every collection once and starts the pollers.
func (s *Shop) Start(ctx context.Context) {
	for _, fn := range []refresh.Func{s.RefreshMenu, s.RefreshSpecials, s.RefreshFavorites} {
		if err := fn(ctx); err != nil {
			s.log.Warn().Err(err).Msg("initial load failed")
		}
	}
	s.pollers.Start(ctx)
}

// Close stops the pollers. Fetches still in flight are discarded.
func (s *Shop) Close() {
	s.guard.Close()
	s.pollers.Stop()
}

func (s *Shop) RefreshMenu(ctx context.Context) error {
	items, err := s.api.ListItems(ctx)
	if err != nil {
		return err
	}
	s.guard.Apply(func() { s.store.Replace(items) })
	return nil
}

func (s *Shop) RefreshSpecials(ctx context.Context) error {
	items, err := s.api.DailySpecials(ctx)
	if err != nil {
		return err
	}
	s.guard.Apply(func() {
		s.mu.Lock()
		s.specials = items
		s.mu.Unlock()
	})
	return nil
}

func (s *Shop) RefreshFavorites(ctx context.Context) error {
	items, err := s.api.Favorites(ctx, s.customerID)
	if err != nil {
		return err
	}
	s.guard.Apply(func() {
		s.mu.Lock()
		s.favorites = items
		s.mu.Unlock()
	})
	return nil
}

func (s *Shop) RefreshTopSelling(ctx context.Context) error {
	top, err := s.api.TopSelling(ctx, TopSellingLimit)
	if err != nil {
		return err
	}
	s.guard.Apply(func() {
		s.mu.Lock()
		s.topSelling = top
		s.mu.Unlock()
	})
	return nil
}

// RefreshOrders replaces the order list and reports orders whose status
// differs from the previous fetch. The first fetch only records statuses.
func (s *Shop) RefreshOrders(ctx context.Context) error {
	orders, err := s.api.CustomerOrders(ctx, s.customerID)
	if err != nil {
		return err
	}

	var updates []StatusUpdate
	s.guard.Apply(func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		seen := s.statuses
		s.statuses = make(map[int64]order.Status, len(orders))
		for _, o := range orders {
			s.statuses[o.ID] = o.Status
			if prev, ok := seen[o.ID]; ok && prev != o.Status {
				updates = append(updates, StatusUpdate{OrderID: o.ID, From: prev, To: o.Status})
			}
		}
		s.orders = orders
	})

	if s.notify != nil {
		for _, u := range updates {
			s.notify(u)
		}
	}
	return nil
}

func (s *Shop) SetCriteria(c menu.Criteria) {
	s.mu.Lock()
	s.criteria = c
	s.mu.Unlock()
}

func (s *Shop) Criteria() menu.Criteria {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.criteria
}

// Filtered applies the current criteria to the menu snapshot.
func (s *Shop) Filtered() []menu.Item {
	c := s.Criteria()
	return menu.Filter(s.store.Items(), c, s.FavoriteIDs())
}

func (s *Shop) Categories() []string {
	return menu.Categories(s.store.Items())
}

func (s *Shop) CartLines() []cart.Line {
	return slices.Collect(s.cart.Lines(s.store))
}

func (s *Shop) CartTotal() float64 {
	return cart.Total(s.cart.Lines(s.store))
}

func (s *Shop) Checkout(ctx context.Context, notes *string) (order.Order, error) {
	return s.submitter.Submit(ctx, notes)
}

// Rate submits a star rating and re-fetches the menu for the new average.
func (s *Shop) Rate(ctx context.Context, itemID int64, stars int) error {
	if stars < menu.MinRating || stars > menu.MaxRating {
		return &menu.ValidationError{Msg: fmt.Sprintf("rating must be between %d and %d", menu.MinRating, menu.MaxRating)}
	}
	if _, err := s.api.RateItem(ctx, itemID, stars); err != nil {
		return err
	}
	if err := s.RefreshMenu(ctx); err != nil {
		s.log.Warn().Err(err).Msg("refresh after rating failed")
	}
	return nil
}

// ToggleFavorite adds or removes the item and reports whether it is a
// favorite afterwards.
func (s *Shop) ToggleFavorite(ctx context.Context, itemID int64) (bool, error) {
	was := s.FavoriteIDs()[itemID]
	var err error
	if was {
		err = s.api.RemoveFavorite(ctx, s.customerID, itemID)
	} else {
		err = s.api.AddFavorite(ctx, s.customerID, itemID)
	}
	if err != nil {
		return was, err
	}
	if err := s.RefreshFavorites(ctx); err != nil {
		s.log.Warn().Err(err).Msg("refresh favorites failed")
	}
	return !was, nil
}

func (s *Shop) FavoriteIDs() map[int64]bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make(map[int64]bool, len(s.favorites))
	for _, it := range s.favorites {
		ids[it.ID] = true
	}
	return ids
}

func (s *Shop) Favorites() []menu.Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.favorites)
}

func (s *Shop) Orders() []order.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.orders)
}

func (s *Shop) Specials() []menu.Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.specials)
}

func (s *Shop) TopSelling() []order.TopSeller {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.topSelling)
}

// ActiveOrders are the customer's orders still moving through the kitchen,
// newest first.
func (s *Shop) ActiveOrders() []order.Order {
	var out []order.Order
	for _, o := range s.Orders() {
		if !o.Status.Terminal() {
			out = append(out, o)
		}
	}
	return out
}

func orDefault(d, def time.Duration) time.Duration {
	if d <= 0 {
		return def
	}
	return d
}
