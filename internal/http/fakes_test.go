package httpapi

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/andreasstove999/cafeteria-go/internal/favorite"
	"github.com/andreasstove999/cafeteria-go/internal/menu"
	"github.com/andreasstove999/cafeteria-go/internal/order"
)

type fakeItems struct {
	mu      sync.Mutex
	items   map[int64]menu.Item
	nextID  int64
	lastQ   menu.Query
	listErr error
}

func newFakeItems(items ...menu.Item) *fakeItems {
	f := &fakeItems{items: map[int64]menu.Item{}, nextID: 1}
	for _, it := range items {
		f.items[it.ID] = it
		if it.ID >= f.nextID {
			f.nextID = it.ID + 1
		}
	}
	return f
}

func (f *fakeItems) sorted() []menu.Item {
	out := make([]menu.Item, 0, len(f.items))
	for _, it := range f.items {
		out = append(out, it)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (f *fakeItems) List(_ context.Context, q menu.Query) ([]menu.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastQ = q
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := []menu.Item{}
	for _, it := range f.sorted() {
		if q.Category != "" && it.Category != q.Category {
			continue
		}
		if q.Available != nil && it.Available != *q.Available {
			continue
		}
		out = append(out, it)
	}
	return out, nil
}

func (f *fakeItems) Get(_ context.Context, id int64) (menu.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	it, ok := f.items[id]
	if !ok {
		return menu.Item{}, menu.ErrNotFound
	}
	return it, nil
}

func (f *fakeItems) Create(_ context.Context, in menu.Input) (menu.Item, error) {
	if err := in.Validate(); err != nil {
		return menu.Item{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	it := menu.Item{ID: f.nextID, Name: in.Name, Category: in.Category, Price: in.Price, Quantity: in.Quantity, Available: in.Quantity > 0}
	f.nextID++
	f.items[it.ID] = it
	return it, nil
}

func (f *fakeItems) Update(_ context.Context, id int64, p menu.Patch) (menu.Item, error) {
	if err := p.Validate(); err != nil {
		return menu.Item{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	it, ok := f.items[id]
	if !ok {
		return menu.Item{}, menu.ErrNotFound
	}
	it = p.Apply(it)
	f.items[id] = it
	return it, nil
}

func (f *fakeItems) Delete(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.items[id]; !ok {
		return menu.ErrNotFound
	}
	delete(f.items, id)
	return nil
}

func (f *fakeItems) Rate(_ context.Context, id int64, rating int) (menu.Item, error) {
	if rating < menu.MinRating || rating > menu.MaxRating {
		return menu.Item{}, &menu.ValidationError{Msg: "rating must be between 1 and 5"}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	it, ok := f.items[id]
	if !ok {
		return menu.Item{}, menu.ErrNotFound
	}
	it.RatingAvg = (it.RatingAvg*float64(it.RatingCount) + float64(rating)) / float64(it.RatingCount+1)
	it.RatingCount++
	f.items[id] = it
	return it, nil
}

func (f *fakeItems) Categories(context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	seen := map[string]bool{}
	out := []string{}
	for _, it := range f.items {
		if !seen[it.Category] {
			seen[it.Category] = true
			out = append(out, it.Category)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (f *fakeItems) Search(_ context.Context, text, category string) ([]menu.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []menu.Item{}
	for _, it := range f.sorted() {
		if strings.Contains(strings.ToLower(it.Name), strings.ToLower(text)) && (category == "" || it.Category == category) {
			out = append(out, it)
		}
	}
	return out, nil
}

func (f *fakeItems) DailySpecials(context.Context) ([]menu.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []menu.Item{}
	for _, it := range f.sorted() {
		if it.Special() {
			out = append(out, it)
		}
	}
	return out, nil
}

func (f *fakeItems) TopRated(_ context.Context, limit int) ([]menu.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []menu.Item{}
	for _, it := range f.sorted() {
		if it.RatingCount > 0 {
			out = append(out, it)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].RatingAvg > out[j].RatingAvg })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type fakeOrders struct {
	placed    []order.PlaceRequest
	placeErr  error
	orders    map[int64]order.Order
	topLimit  int
	updateErr error
}

func (f *fakeOrders) Place(_ context.Context, req order.PlaceRequest) (order.Order, error) {
	f.placed = append(f.placed, req)
	if f.placeErr != nil {
		return order.Order{}, f.placeErr
	}
	lines, err := req.Lines()
	if err != nil {
		return order.Order{}, err
	}
	o := order.Order{ID: int64(len(f.placed)), CustomerID: req.CustomerID, Status: order.StatusPending, CreatedAt: time.Now()}
	for _, l := range lines {
		o.Items = append(o.Items, order.Line{ItemID: l.ItemID, Quantity: l.Quantity})
	}
	return o, nil
}

func (f *fakeOrders) Get(_ context.Context, id int64) (order.Order, error) {
	o, ok := f.orders[id]
	if !ok {
		return order.Order{}, order.ErrNotFound
	}
	return o, nil
}

func (f *fakeOrders) ListByCustomer(_ context.Context, customerID string) ([]order.Order, error) {
	out := []order.Order{}
	for _, o := range f.orders {
		if o.CustomerID == customerID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (f *fakeOrders) ListAll(context.Context) ([]order.Order, error) {
	out := []order.Order{}
	for _, o := range f.orders {
		out = append(out, o)
	}
	return out, nil
}

func (f *fakeOrders) UpdateStatus(_ context.Context, id int64, status order.Status) (order.Order, error) {
	if f.updateErr != nil {
		return order.Order{}, f.updateErr
	}
	o, ok := f.orders[id]
	if !ok {
		return order.Order{}, order.ErrNotFound
	}
	o.Status = status
	f.orders[id] = o
	return o, nil
}

func (f *fakeOrders) TopSelling(_ context.Context, limit int) ([]order.TopSeller, error) {
	f.topLimit = limit
	return []order.TopSeller{{ItemID: 1, Name: "Chicken Biryani", UnitsSold: 12}}, nil
}

type fakeFavorites struct {
	ids   map[string][]int64
	items map[int64]bool
}

func (f *fakeFavorites) List(_ context.Context, customerID string) ([]int64, error) {
	return f.ids[customerID], nil
}

func (f *fakeFavorites) Add(_ context.Context, customerID string, itemID int64) error {
	if !f.items[itemID] {
		return favorite.ErrItemNotFound
	}
	for _, id := range f.ids[customerID] {
		if id == itemID {
			return nil
		}
	}
	f.ids[customerID] = append(f.ids[customerID], itemID)
	return nil
}

func (f *fakeFavorites) Remove(_ context.Context, customerID string, itemID int64) error {
	ids := f.ids[customerID]
	for i, id := range ids {
		if id == itemID {
			f.ids[customerID] = append(ids[:i], ids[i+1:]...)
			return nil
		}
	}
	return favorite.ErrNotFound
}
