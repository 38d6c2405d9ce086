package app

import (
	"context"
	"sync"

	"github.com/andreasstove999/cafeteria-go/internal/clients"
	"github.com/andreasstove999/cafeteria-go/internal/menu"
	"github.com/andreasstove999/cafeteria-go/internal/order"
)

// fakeAPI serves both views from in-memory state.
type fakeAPI struct {
	mu         sync.Mutex
	items      []menu.Item
	orders     []order.Order
	favorites  map[int64]bool
	ratings    map[int64][]int
	orderCalls int
	placed     []order.PlaceRequest
	err        error
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		items: []menu.Item{
			{ID: 1, Name: "Veggie Wrap", Category: "snack", Price: 5, DiscountPercentage: 20, Quantity: 10, Available: true, IsVegetarian: true},
			{ID: 2, Name: "Burger", Category: "main", Price: 8, Available: false},
			{ID: 3, Name: "Coffee", Category: "beverage", Price: 1.5, Quantity: 3, Available: true, IsDailySpecial: true},
		},
		favorites: map[int64]bool{},
		ratings:   map[int64][]int{},
	}
}

func (f *fakeAPI) setStatus(id int64, st order.Status) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.orders {
		if f.orders[i].ID == id {
			f.orders[i].Status = st
		}
	}
}

func (f *fakeAPI) ListItems(context.Context) ([]menu.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]menu.Item(nil), f.items...), f.err
}

func (f *fakeAPI) DailySpecials(context.Context) ([]menu.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []menu.Item
	for _, it := range f.items {
		if it.Special() {
			out = append(out, it)
		}
	}
	return out, f.err
}

func (f *fakeAPI) CustomerOrders(_ context.Context, customerID string) ([]order.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.orderCalls++
	var out []order.Order
	for _, o := range f.orders {
		if o.CustomerID == customerID {
			out = append(out, o)
		}
	}
	return out, f.err
}

func (f *fakeAPI) PlaceOrder(_ context.Context, req order.PlaceRequest) (order.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.placed = append(f.placed, req)
	o := order.Order{ID: int64(len(f.orders) + 1), CustomerID: req.CustomerID, Status: order.StatusPending}
	f.orders = append(f.orders, o)
	return o, nil
}

func (f *fakeAPI) TopSelling(context.Context, int) ([]order.TopSeller, error) {
	return []order.TopSeller{{ItemID: 1, Name: "Veggie Wrap", UnitsSold: 4}}, nil
}

func (f *fakeAPI) TopRated(context.Context, int) ([]menu.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.items[:1], nil
}

func (f *fakeAPI) RateItem(_ context.Context, id int64, rating int) (menu.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ratings[id] = append(f.ratings[id], rating)
	for i, it := range f.items {
		if it.ID == id {
			n := float64(it.RatingCount)
			f.items[i].RatingAvg = (it.RatingAvg*n + float64(rating)) / (n + 1)
			f.items[i].RatingCount++
			return f.items[i], nil
		}
	}
	return menu.Item{}, &clients.APIError{Status: 404, Detail: "Item not found"}
}

func (f *fakeAPI) Favorites(context.Context, string) ([]menu.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []menu.Item
	for _, it := range f.items {
		if f.favorites[it.ID] {
			out = append(out, it)
		}
	}
	return out, nil
}

func (f *fakeAPI) AddFavorite(_ context.Context, _ string, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.favorites[id] = true
	return nil
}

func (f *fakeAPI) RemoveFavorite(_ context.Context, _ string, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.favorites, id)
	return nil
}

func (f *fakeAPI) CreateItem(_ context.Context, in menu.Input) (menu.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	it := menu.Item{ID: int64(len(f.items) + 1), Name: in.Name, Category: in.Category, Price: in.Price, Quantity: in.Quantity, Available: in.Quantity > 0}
	f.items = append(f.items, it)
	return it, nil
}

func (f *fakeAPI) UpdateItem(_ context.Context, id int64, p menu.Patch) (menu.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, it := range f.items {
		if it.ID == id {
			f.items[i] = p.Apply(it)
			return f.items[i], nil
		}
	}
	return menu.Item{}, &clients.APIError{Status: 404, Detail: "Item not found"}
}

func (f *fakeAPI) DeleteItem(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, it := range f.items {
		if it.ID == id {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return nil
		}
	}
	return &clients.APIError{Status: 404, Detail: "Item not found"}
}

func (f *fakeAPI) AdminOrders(context.Context) ([]order.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]order.Order(nil), f.orders...), nil
}

func (f *fakeAPI) UpdateOrderStatus(_ context.Context, id int64, st order.Status) (order.Order, error) {
	f.setStatus(id, st)
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, o := range f.orders {
		if o.ID == id {
			return o, nil
		}
	}
	return order.Order{}, &clients.APIError{Status: 400, Detail: "Invalid order or status"}
}

func (f *fakeAPI) Login(_ context.Context, key string) (clients.LoginResult, error) {
	if key != "cafeteria123" {
		return clients.LoginResult{}, &clients.APIError{Status: 401, Detail: "Invalid admin key"}
	}
	return clients.LoginResult{Token: "tok", TokenType: "bearer"}, nil
}
