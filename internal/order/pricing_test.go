package order

import (
	"context"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/require"

	"github.com/andreasstove999/cafeteria-go/internal/cart"
	"github.com/andreasstove999/cafeteria-go/internal/menu"
	"github.com/andreasstove999/cafeteria-go/internal/money"
)

func TestPostgresRepository_PlaceMatchesCartTotal(t *testing.T) {
	tests := map[string]struct {
		items []menu.Item
		qty   map[int64]int
	}{
		"discount with more than two decimals": {
			items: []menu.Item{{ID: 7, Name: "Wrap", Price: 3.33, DiscountPercentage: 15, Quantity: 50, Available: true}},
			qty:   map[int64]int{7: 10},
		},
		"mixed discounted and full price lines": {
			items: []menu.Item{
				{ID: 2, Name: "Curry", Price: 4.99, DiscountPercentage: 12.5, Quantity: 20, Available: true},
				{ID: 5, Name: "Tea", Price: 1.15, Quantity: 20, Available: true},
				{ID: 9, Name: "Cake", Price: 2.49, DiscountPercentage: 33, Quantity: 20, Available: true},
			},
			qty: map[int64]int{2: 3, 5: 1, 9: 7},
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			store := menu.NewStore()
			store.Replace(tc.items)
			c := cart.New()
			var reqs []LineRequest
			for _, it := range tc.items {
				c.SetQuantity(it.ID, float64(tc.qty[it.ID]))
				reqs = append(reqs, LineRequest{ItemID: it.ID, Quantity: tc.qty[it.ID]})
			}
			shown := cart.Total(c.Lines(store))

			repo, mock := newRepo(t)
			mock.ExpectBegin()
			for _, it := range tc.items {
				expectLockItem(mock, it.ID, it.Name, it.Price, it.DiscountPercentage, it.Quantity)
			}
			for _, it := range tc.items {
				mock.ExpectExec(`UPDATE menu_items SET quantity = quantity - \$2`).
					WithArgs(it.ID, tc.qty[it.ID]).
					WillReturnResult(pgxmock.NewResult("UPDATE", 1))
			}
			mock.ExpectQuery(`INSERT INTO orders`).
				WithArgs("guest-1", money.Round2(shown), "pending", pgxmock.AnyArg(), fixedNow, pgxmock.AnyArg()).
				WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(3)))
			for i, it := range tc.items {
				unit := it.UnitPrice()
				mock.ExpectExec(`INSERT INTO order_lines`).
					WithArgs(int64(3), i+1, it.ID, it.Name, tc.qty[it.ID], unit, unit*float64(tc.qty[it.ID])).
					WillReturnResult(pgxmock.NewResult("INSERT", 1))
			}
			mock.ExpectExec(`INSERT INTO order_status_history`).WithArgs(int64(3), "pending", fixedNow).WillReturnResult(pgxmock.NewResult("INSERT", 1))
			mock.ExpectCommit()

			o, err := repo.Place(context.Background(), "guest-1", reqs, nil)
			require.NoError(t, err)
			require.Equal(t, money.Format(shown), money.Format(o.TotalPrice), "charged total must match the cart")
			for i, l := range o.Items {
				require.Equal(t, tc.items[i].UnitPrice(), l.UnitPrice, "unit price is not rounded before multiplying")
			}
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
