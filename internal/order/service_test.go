package order

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	placed     []LineRequest
	placeErr   error
	updateErr  error
	nextID     int64
	lastStatus Status
}

func (f *fakeRepo) Place(_ context.Context, customerID string, lines []LineRequest, notes *string) (Order, error) {
	if f.placeErr != nil {
		return Order{}, f.placeErr
	}
	f.placed = lines
	f.nextID++
	return Order{ID: f.nextID, CustomerID: customerID, Status: StatusPending, Notes: notes}, nil
}

func (f *fakeRepo) Get(context.Context, int64) (Order, error) { return Order{}, ErrNotFound }
func (f *fakeRepo) ListByCustomer(context.Context, string) ([]Order, error) {
	return []Order{}, nil
}
func (f *fakeRepo) ListAll(context.Context) ([]Order, error) { return []Order{}, nil }

func (f *fakeRepo) UpdateStatus(_ context.Context, id int64, status Status) (Order, error) {
	if f.updateErr != nil {
		return Order{}, f.updateErr
	}
	f.lastStatus = status
	return Order{ID: id, Status: status}, nil
}

func (f *fakeRepo) TopSelling(context.Context, int) ([]TopSeller, error) { return nil, nil }

type fakeNotifier struct {
	placed  []int64
	changed []Status
	err     error
}

func (n *fakeNotifier) OrderPlaced(_ context.Context, o Order) error {
	n.placed = append(n.placed, o.ID)
	return n.err
}

func (n *fakeNotifier) OrderStatusChanged(_ context.Context, o Order) error {
	n.changed = append(n.changed, o.Status)
	return n.err
}

type fakeInvalidator struct{ calls int }

func (f *fakeInvalidator) Invalidate(context.Context) { f.calls++ }

func TestServicePlace(t *testing.T) {
	ctx := context.Background()

	t.Run("notifies and invalidates stock", func(t *testing.T) {
		repo := &fakeRepo{}
		notifier := &fakeNotifier{}
		inv := &fakeInvalidator{}
		svc := NewService(repo, notifier, inv, zerolog.Nop())

		o, err := svc.Place(ctx, PlaceRequest{CustomerID: "guest-1", Items: []LineRequest{{ItemID: 1, Quantity: 2}}})
		require.NoError(t, err)
		require.Equal(t, int64(1), o.ID)
		require.Equal(t, []int64{1}, notifier.placed)
		require.Equal(t, 1, inv.calls)
	})

	t.Run("notifier failure does not fail the order", func(t *testing.T) {
		notifier := &fakeNotifier{err: errors.New("broker down")}
		svc := NewService(&fakeRepo{}, notifier, nil, zerolog.Nop())

		_, err := svc.Place(ctx, PlaceRequest{Items: []LineRequest{{ItemID: 1, Quantity: 1}}})
		require.NoError(t, err)
	})

	t.Run("repository error skips side effects", func(t *testing.T) {
		notifier := &fakeNotifier{}
		inv := &fakeInvalidator{}
		svc := NewService(&fakeRepo{placeErr: &ValidationError{Msg: "Not enough stock for item 1"}}, notifier, inv, zerolog.Nop())

		_, err := svc.Place(ctx, PlaceRequest{Items: []LineRequest{{ItemID: 1, Quantity: 9}}})
		require.EqualError(t, err, "Not enough stock for item 1")
		require.Empty(t, notifier.placed)
		require.Zero(t, inv.calls)
	})

	t.Run("malformed request", func(t *testing.T) {
		repo := &fakeRepo{}
		svc := NewService(repo, nil, nil, zerolog.Nop())

		_, err := svc.Place(ctx, PlaceRequest{})
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		require.Nil(t, repo.placed)
	})
}

func TestServiceUpdateStatus(t *testing.T) {
	ctx := context.Background()
	repo := &fakeRepo{}
	notifier := &fakeNotifier{}
	svc := NewService(repo, notifier, nil, zerolog.Nop())

	o, err := svc.UpdateStatus(ctx, 4, StatusReady)
	require.NoError(t, err)
	require.Equal(t, StatusReady, o.Status)
	require.Equal(t, []Status{StatusReady}, notifier.changed)

	repo.updateErr = ErrNotFound
	_, err = svc.UpdateStatus(ctx, 5, StatusReady)
	require.ErrorIs(t, err, ErrNotFound)
	require.Len(t, notifier.changed, 1)
}
