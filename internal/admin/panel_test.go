package admin

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/andreasstove999/cafeteria-go/internal/menu"
	"github.com/andreasstove999/cafeteria-go/internal/order"
)

func sampleItems() []menu.Item {
	return []menu.Item{
		{ID: 1, Name: "Coffee", Category: "beverage", Price: 1.5, Quantity: 0, Available: false},
		{ID: 2, Name: "Chicken Biryani", Category: "main", Price: 5, Quantity: 12, Available: true},
	}
}

func TestPanelMutationsRefetch(t *testing.T) {
	ctx := context.Background()

	cases := map[string]struct {
		run  func(p *Panel) error
		want []string
	}{
		"create": {
			run: func(p *Panel) error {
				_, err := p.CreateItem(ctx, menu.Input{Name: "Tea", Category: "beverage", Price: 1})
				return err
			},
			want: []string{"create item", "list items"},
		},
		"update": {
			run: func(p *Panel) error {
				name := "Espresso"
				_, err := p.UpdateItem(ctx, 1, menu.Patch{Name: &name})
				return err
			},
			want: []string{"update item", "list items"},
		},
		"delete": {
			run:  func(p *Panel) error { return p.DeleteItem(ctx, 1) },
			want: []string{"delete item", "list items"},
		},
		"restock": {
			run: func(p *Panel) error {
				_, err := p.Restock(ctx, 1, "25")
				return err
			},
			want: []string{"update item", "list items"},
		},
		"order status": {
			run: func(p *Panel) error {
				_, err := p.SetOrderStatus(ctx, 7, "Ready")
				return err
			},
			want: []string{"update status", "list orders"},
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			api := &fakeAPI{items: sampleItems(), orders: []order.Order{{ID: 7, Status: order.StatusPending}}}
			p := NewPanel(api, answer(true), zerolog.Nop())

			require.NoError(t, tc.run(p))
			require.Equal(t, tc.want, api.calls)
		})
	}
}

func TestPanelFailedMutationSkipsRefetch(t *testing.T) {
	api := &fakeAPI{items: sampleItems(), mutateErr: errors.New("Not authenticated")}
	p := NewPanel(api, answer(true), zerolog.Nop())

	_, err := p.Restock(context.Background(), 1, "3")
	require.EqualError(t, err, "Not authenticated")
	require.Equal(t, []string{"update item"}, api.calls)
}

func TestPanelRefetchFailureDoesNotFailMutation(t *testing.T) {
	api := &fakeAPI{items: sampleItems(), listErr: errors.New("timeout")}
	p := NewPanel(api, answer(true), zerolog.Nop())

	require.NoError(t, p.DeleteItem(context.Background(), 2))
}

func TestPanelRestockUpdatesStore(t *testing.T) {
	ctx := context.Background()
	api := &fakeAPI{items: sampleItems()}
	p := NewPanel(api, answer(true), zerolog.Nop())
	require.NoError(t, p.RefreshItems(ctx))

	it, ok := p.Items().Lookup(1)
	require.True(t, ok)
	require.False(t, it.Available)

	_, err := p.Restock(ctx, 1, " 25 ")
	require.NoError(t, err)
	require.Equal(t, 25, *api.lastPatch.Quantity)
	require.Nil(t, api.lastPatch.Available, "availability is left to the server")

	it, _ = p.Items().Lookup(1)
	require.Equal(t, 25, it.Quantity)
	require.True(t, it.Available)
}

func TestPanelDeleteNeedsConfirmation(t *testing.T) {
	ctx := context.Background()

	t.Run("declined", func(t *testing.T) {
		api := &fakeAPI{items: sampleItems()}
		var prompt string
		p := NewPanel(api, ConfirmFunc(func(_ context.Context, q string) (bool, error) {
			prompt = q
			return false, nil
		}), zerolog.Nop())

		require.ErrorIs(t, p.DeleteItem(ctx, 1), ErrNotConfirmed)
		require.Equal(t, "Delete this item?", prompt)
		require.Empty(t, api.calls)
	})

	t.Run("prompt error", func(t *testing.T) {
		api := &fakeAPI{items: sampleItems()}
		p := NewPanel(api, ConfirmFunc(func(context.Context, string) (bool, error) {
			return false, context.Canceled
		}), zerolog.Nop())

		require.ErrorIs(t, p.DeleteItem(ctx, 1), context.Canceled)
		require.Empty(t, api.calls)
	})
}

func TestParseQuantity(t *testing.T) {
	cases := map[string]struct {
		in      string
		want    int
		wantErr bool
	}{
		"whole":      {in: "12", want: 12},
		"zero":       {in: "0", want: 0},
		"fraction":   {in: "3.9", want: 3},
		"spaces":     {in: " 4 ", want: 4},
		"negative":   {in: "-1", wantErr: true},
		"text":       {in: "lots", wantErr: true},
		"empty":      {in: "", wantErr: true},
		"nan":        {in: "NaN", wantErr: true},
		"infinity":   {in: "Inf", wantErr: true},
		"exponent":   {in: "1e3", want: 1000},
		"too large":  {in: "1e12", wantErr: true},
		"minus zero": {in: "-0", want: 0},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			got, err := ParseQuantity(tc.in)
			if tc.wantErr {
				require.ErrorIs(t, err, ErrInvalidQuantity)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestPanelInvalidInputSendsNothing(t *testing.T) {
	ctx := context.Background()
	api := &fakeAPI{items: sampleItems()}
	p := NewPanel(api, answer(true), zerolog.Nop())

	_, err := p.Restock(ctx, 1, "-5")
	require.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = p.SetOrderStatus(ctx, 1, "eaten")
	require.ErrorIs(t, err, ErrInvalidStatus)

	_, err = p.CreateItem(ctx, menu.Input{Category: "main"})
	var verr *menu.ValidationError
	require.ErrorAs(t, err, &verr)

	require.Empty(t, api.calls)
}

type refuseAll struct{ asked int }

func (r *refuseAll) Apply(func()) bool {
	r.asked++
	return false
}

func TestPanelWritesGoThroughApplier(t *testing.T) {
	ctx := context.Background()
	api := &fakeAPI{items: sampleItems(), orders: []order.Order{{ID: 1, Status: order.StatusPending}}}
	p := NewPanel(api, answer(true), zerolog.Nop())
	gate := &refuseAll{}
	p.SetApplier(gate)

	require.NoError(t, p.RefreshItems(ctx))
	require.NoError(t, p.RefreshOrders(ctx))
	_, err := p.Restock(ctx, 2, "7")
	require.NoError(t, err, "the mutation itself still succeeds")

	require.Zero(t, p.Items().Len())
	require.Empty(t, p.Orders())
	require.Equal(t, 3, gate.asked)
}
