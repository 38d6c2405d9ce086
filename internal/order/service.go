package order

import (
	"context"

	"github.com/rs/zerolog"
)

// Notifier is told about order lifecycle changes after they are committed.
type Notifier interface {
	OrderPlaced(ctx context.Context, o Order) error
	OrderStatusChanged(ctx context.Context, o Order) error
}

// StockInvalidator drops cached menu data after stock changes.
type StockInvalidator interface {
	Invalidate(ctx context.Context)
}

type nopNotifier struct{}

func (nopNotifier) OrderPlaced(context.Context, Order) error        { return nil }
func (nopNotifier) OrderStatusChanged(context.Context, Order) error { return nil }

// Service runs order workflows on top of the Repository. Notifications are
// best effort: a failure is logged and never fails the request.
type Service struct {
	repo     Repository
	notifier Notifier
	stock    StockInvalidator
	log      zerolog.Logger
}

func NewService(repo Repository, notifier Notifier, stock StockInvalidator, logger zerolog.Logger) *Service {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	return &Service{repo: repo, notifier: notifier, stock: stock, log: logger}
}

func (s *Service) Place(ctx context.Context, req PlaceRequest) (Order, error) {
	lines, err := req.Lines()
	if err != nil {
		return Order{}, err
	}

	o, err := s.repo.Place(ctx, req.CustomerID, lines, req.Notes)
	if err != nil {
		return Order{}, err
	}

	if s.stock != nil {
		s.stock.Invalidate(ctx)
	}
	if err := s.notifier.OrderPlaced(ctx, o); err != nil {
		s.log.Warn().Err(err).Int64("order_id", o.ID).Msg("publish order placed failed")
	}
	s.log.Info().
		Int64("order_id", o.ID).
		Str("customer_id", o.CustomerID).
		Int("units", o.Units()).
		Float64("total", o.TotalPrice).
		Msg("order placed")
	return o, nil
}

func (s *Service) UpdateStatus(ctx context.Context, id int64, status Status) (Order, error) {
	o, err := s.repo.UpdateStatus(ctx, id, status)
	if err != nil {
		return Order{}, err
	}
	if err := s.notifier.OrderStatusChanged(ctx, o); err != nil {
		s.log.Warn().Err(err).Int64("order_id", o.ID).Msg("publish status change failed")
	}
	s.log.Info().Int64("order_id", o.ID).Str("status", string(o.Status)).Msg("order status changed")
	return o, nil
}

func (s *Service) Get(ctx context.Context, id int64) (Order, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) ListByCustomer(ctx context.Context, customerID string) ([]Order, error) {
	return s.repo.ListByCustomer(ctx, customerID)
}

func (s *Service) ListAll(ctx context.Context) ([]Order, error) {
	return s.repo.ListAll(ctx)
}

func (s *Service) TopSelling(ctx context.Context, limit int) ([]TopSeller, error) {
	return s.repo.TopSelling(ctx, limit)
}
