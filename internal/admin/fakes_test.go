package admin

import (
	"context"
	"errors"

	"github.com/andreasstove999/cafeteria-go/internal/menu"
	"github.com/andreasstove999/cafeteria-go/internal/order"
)

type fakeAPI struct {
	calls  []string
	items  []menu.Item
	orders []order.Order

	mutateErr error
	listErr   error

	lastPatch  menu.Patch
	lastStatus order.Status
}

func (f *fakeAPI) ListItems(context.Context) ([]menu.Item, error) {
	f.calls = append(f.calls, "list items")
	return f.items, f.listErr
}

func (f *fakeAPI) CreateItem(_ context.Context, in menu.Input) (menu.Item, error) {
	f.calls = append(f.calls, "create item")
	if f.mutateErr != nil {
		return menu.Item{}, f.mutateErr
	}
	it := menu.Item{ID: int64(len(f.items) + 1), Name: in.Name, Category: in.Category, Price: in.Price, Quantity: in.Quantity, Available: in.Quantity > 0}
	f.items = append(f.items, it)
	return it, nil
}

func (f *fakeAPI) UpdateItem(_ context.Context, id int64, p menu.Patch) (menu.Item, error) {
	f.calls = append(f.calls, "update item")
	f.lastPatch = p
	if f.mutateErr != nil {
		return menu.Item{}, f.mutateErr
	}
	for i, it := range f.items {
		if it.ID == id {
			f.items[i] = p.Apply(it)
			return f.items[i], nil
		}
	}
	return menu.Item{}, errors.New("Item not found")
}

func (f *fakeAPI) DeleteItem(_ context.Context, id int64) error {
	f.calls = append(f.calls, "delete item")
	if f.mutateErr != nil {
		return f.mutateErr
	}
	for i, it := range f.items {
		if it.ID == id {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return nil
		}
	}
	return errors.New("Item not found")
}

func (f *fakeAPI) AdminOrders(context.Context) ([]order.Order, error) {
	f.calls = append(f.calls, "list orders")
	return f.orders, f.listErr
}

func (f *fakeAPI) UpdateOrderStatus(_ context.Context, id int64, st order.Status) (order.Order, error) {
	f.calls = append(f.calls, "update status")
	f.lastStatus = st
	if f.mutateErr != nil {
		return order.Order{}, f.mutateErr
	}
	for i, o := range f.orders {
		if o.ID == id {
			f.orders[i].Status = st
			return f.orders[i], nil
		}
	}
	return order.Order{}, errors.New("Invalid order or status")
}

func answer(yes bool) ConfirmFunc {
	return func(context.Context, string) (bool, error) { return yes, nil }
}
