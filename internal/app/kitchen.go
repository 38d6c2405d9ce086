package app

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/andreasstove999/cafeteria-go/internal/admin"
	"github.com/andreasstove999/cafeteria-go/internal/events"
	"github.com/andreasstove999/cafeteria-go/internal/menu"
	"github.com/andreasstove999/cafeteria-go/internal/order"
	"github.com/andreasstove999/cafeteria-go/internal/refresh"
	"github.com/andreasstove999/cafeteria-go/internal/session"
)

const (
	KitchenTopSellingLimit = 8
	KitchenTopRatedLimit   = 5

	defaultAnalyticsPoll = 10 * time.Second
)

// KitchenAPI is the admin side of the REST client.
type KitchenAPI interface {
	admin.API
	TopSelling(ctx context.Context, limit int) ([]order.TopSeller, error)
	TopRated(ctx context.Context, limit int) ([]menu.Item, error)
}

type KitchenOptions struct {
	OrdersPoll    time.Duration
	AnalyticsPoll time.Duration

	// OrderEvents, when set, refreshes the order board on pushed events
	// instead of on a timer.
	OrderEvents <-chan events.OrderEvent

	Logger zerolog.Logger
}

// Kitchen is the admin console. Every operation requires a live session
// and counts as activity for the idle timer. The pollers stop when the
// session expires.
type Kitchen struct {
	api     KitchenAPI
	panel   *admin.Panel
	session *session.Admin
	pollers refresh.Group
	guard   refresh.Guard
	log     zerolog.Logger

	mu         sync.Mutex
	topSelling []order.TopSeller
	topRated   []menu.Item
}

func NewKitchen(api KitchenAPI, sess *session.Admin, confirm admin.Confirmer, opts KitchenOptions) *Kitchen {
	k := &Kitchen{
		api:     api,
		panel:   admin.NewPanel(api, confirm, opts.Logger),
		session: sess,
		log:     opts.Logger,
	}
	k.panel.SetApplier(&k.guard)
	var orders refresh.Refresher
	if opts.OrderEvents != nil {
		orders = refresh.NewPush("admin-orders", opts.OrderEvents, k.panel.RefreshOrders, k.log)
	} else {
		orders = refresh.NewTicker("admin-orders", orDefault(opts.OrdersPoll, defaultOrdersPoll), k.panel.RefreshOrders, k.log)
	}
	k.pollers = refresh.Group{
		orders,
		refresh.NewTicker("analytics", orDefault(opts.AnalyticsPoll, defaultAnalyticsPoll), k.RefreshAnalytics, k.log),
	}
	sess.OnExpire(k.pollers.Stop)
	return k
}

func (k *Kitchen) Session() *session.Admin { return k.session }

// Start loads the item list once and starts the pollers. It fails when no
// admin is logged in.
func (k *Kitchen) Start(ctx context.Context) error {
	if err := k.activity(); err != nil {
		return err
	}
	if err := k.panel.RefreshItems(ctx); err != nil {
		k.log.Warn().Err(err).Msg("initial item load failed")
	}
	k.pollers.Start(ctx)
	return nil
}

func (k *Kitchen) Close() {
	k.guard.Close()
	k.pollers.Stop()
}

// Logout ends the session and stops polling.
func (k *Kitchen) Logout() {
	k.pollers.Stop()
	k.session.Logout()
}

func (k *Kitchen) activity() error {
	if err := k.session.Require(); err != nil {
		return err
	}
	k.session.Touch()
	return nil
}

// RefreshAnalytics fetches top selling and top rated together; both must
// succeed for either to be applied.
func (k *Kitchen) RefreshAnalytics(ctx context.Context) error {
	var (
		selling []order.TopSeller
		rated   []menu.Item
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		selling, err = k.api.TopSelling(gctx, KitchenTopSellingLimit)
		return err
	})
	g.Go(func() error {
		var err error
		rated, err = k.api.TopRated(gctx, KitchenTopRatedLimit)
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	k.guard.Apply(func() {
		k.mu.Lock()
		k.topSelling, k.topRated = selling, rated
		k.mu.Unlock()
	})
	return nil
}

func (k *Kitchen) Items() []menu.Item    { return k.panel.Items().Items() }
func (k *Kitchen) Orders() []order.Order { return k.panel.Orders() }

func (k *Kitchen) TopSelling() []order.TopSeller {
	k.mu.Lock()
	defer k.mu.Unlock()
	return slices.Clone(k.topSelling)
}

func (k *Kitchen) TopRated() []menu.Item {
	k.mu.Lock()
	defer k.mu.Unlock()
	return slices.Clone(k.topRated)
}

func (k *Kitchen) Dashboard() admin.Dashboard {
	return admin.NewDashboard(k.Items(), k.Orders())
}

func (k *Kitchen) RefreshItems(ctx context.Context) error {
	if err := k.activity(); err != nil {
		return err
	}
	return k.panel.RefreshItems(ctx)
}

func (k *Kitchen) RefreshOrders(ctx context.Context) error {
	if err := k.activity(); err != nil {
		return err
	}
	return k.panel.RefreshOrders(ctx)
}

func (k *Kitchen) CreateItem(ctx context.Context, f admin.Form) (menu.Item, error) {
	if err := k.activity(); err != nil {
		return menu.Item{}, err
	}
	return k.panel.CreateItem(ctx, f.Input())
}

// UpdateItem applies f as a full edit of item id.
func (k *Kitchen) UpdateItem(ctx context.Context, id int64, f admin.Form) (menu.Item, error) {
	if err := k.activity(); err != nil {
		return menu.Item{}, err
	}
	return k.panel.UpdateItem(ctx, id, f.Patch())
}

func (k *Kitchen) DeleteItem(ctx context.Context, id int64) error {
	if err := k.activity(); err != nil {
		return err
	}
	return k.panel.DeleteItem(ctx, id)
}

func (k *Kitchen) Restock(ctx context.Context, id int64, qty string) (menu.Item, error) {
	if err := k.activity(); err != nil {
		return menu.Item{}, err
	}
	return k.panel.Restock(ctx, id, qty)
}

func (k *Kitchen) SetOrderStatus(ctx context.Context, id int64, status string) (order.Order, error) {
	if err := k.activity(); err != nil {
		return order.Order{}, err
	}
	return k.panel.SetOrderStatus(ctx, id, status)
}
