package clients

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/andreasstove999/cafeteria-go/internal/menu"
	"github.com/andreasstove999/cafeteria-go/internal/order"
)

// TokenSource supplies the bearer token for admin calls. An empty token
// sends the request unauthenticated and lets the server answer 401.
type TokenSource interface {
	Token() string
}

// API is the typed cafeteria REST client.
type API struct {
	c      *Client
	tokens TokenSource
}

func NewAPI(c *Client) *API { return &API{c: c} }

// WithTokens returns a copy of the client that authenticates admin calls.
func (a *API) WithTokens(ts TokenSource) *API {
	return &API{c: a.c, tokens: ts}
}

func (a *API) adminHeaders() http.Header {
	h := http.Header{}
	if a.tokens != nil {
		if tok := a.tokens.Token(); tok != "" {
			h.Set("Authorization", "Bearer "+tok)
		}
	}
	return h
}

func itemPath(id int64) string { return "/api/items/" + strconv.FormatInt(id, 10) }

// --- items ---

func (a *API) ListItems(ctx context.Context) ([]menu.Item, error) {
	var out []menu.Item
	err := a.c.doJSON(ctx, "list items", http.MethodGet, "/api/items", nil, nil, nil, &out)
	return out, err
}

func (a *API) GetItem(ctx context.Context, id int64) (menu.Item, error) {
	var out menu.Item
	err := a.c.doJSON(ctx, "get item", http.MethodGet, itemPath(id), nil, nil, nil, &out)
	return out, err
}

func (a *API) CreateItem(ctx context.Context, in menu.Input) (menu.Item, error) {
	var out menu.Item
	err := a.c.doJSON(ctx, "create item", http.MethodPost, "/api/items", nil, a.adminHeaders(), in, &out)
	return out, err
}

func (a *API) UpdateItem(ctx context.Context, id int64, p menu.Patch) (menu.Item, error) {
	var out menu.Item
	err := a.c.doJSON(ctx, "update item", http.MethodPut, itemPath(id), nil, a.adminHeaders(), p, &out)
	return out, err
}

func (a *API) DeleteItem(ctx context.Context, id int64) error {
	return a.c.doJSON(ctx, "delete item", http.MethodDelete, itemPath(id), nil, a.adminHeaders(), nil, nil)
}

func (a *API) RateItem(ctx context.Context, id int64, rating int) (menu.Item, error) {
	var out menu.Item
	err := a.c.doJSON(ctx, "rate item", http.MethodPost, itemPath(id)+"/rating", nil, nil, map[string]int{"rating": rating}, &out)
	return out, err
}

func (a *API) Categories(ctx context.Context) ([]string, error) {
	var out []string
	err := a.c.doJSON(ctx, "list categories", http.MethodGet, "/api/categories", nil, nil, nil, &out)
	return out, err
}

func (a *API) Search(ctx context.Context, text, category string) ([]menu.Item, error) {
	q := url.Values{"q": {text}}
	if category != "" {
		q.Set("category", category)
	}
	var out []menu.Item
	err := a.c.doJSON(ctx, "search items", http.MethodGet, "/api/search", q, nil, nil, &out)
	return out, err
}

func (a *API) DailySpecials(ctx context.Context) ([]menu.Item, error) {
	var out []menu.Item
	err := a.c.doJSON(ctx, "daily specials", http.MethodGet, "/api/daily-specials", nil, nil, nil, &out)
	return out, err
}

// --- orders ---

func (a *API) CustomerOrders(ctx context.Context, customerID string) ([]order.Order, error) {
	var out []order.Order
	q := url.Values{"customer_id": {customerID}}
	err := a.c.doJSON(ctx, "list orders", http.MethodGet, "/api/orders", q, nil, nil, &out)
	return out, err
}

func (a *API) PlaceOrder(ctx context.Context, req order.PlaceRequest) (order.Order, error) {
	var out order.Order
	err := a.c.doJSON(ctx, "place order", http.MethodPost, "/api/orders", nil, nil, req, &out)
	return out, err
}

func (a *API) GetOrder(ctx context.Context, id int64) (order.Order, error) {
	var out order.Order
	err := a.c.doJSON(ctx, "get order", http.MethodGet, "/api/orders/"+strconv.FormatInt(id, 10), nil, nil, nil, &out)
	return out, err
}

func (a *API) AdminOrders(ctx context.Context) ([]order.Order, error) {
	var out []order.Order
	err := a.c.doJSON(ctx, "list all orders", http.MethodGet, "/api/admin/orders", nil, a.adminHeaders(), nil, &out)
	return out, err
}

func (a *API) UpdateOrderStatus(ctx context.Context, id int64, status order.Status) (order.Order, error) {
	var out order.Order
	path := "/api/admin/orders/" + strconv.FormatInt(id, 10) + "/status"
	err := a.c.doJSON(ctx, "update order status", http.MethodPut, path, nil, a.adminHeaders(), map[string]string{"status": string(status)}, &out)
	return out, err
}

// --- analytics ---

func (a *API) TopSelling(ctx context.Context, limit int) ([]order.TopSeller, error) {
	var out []order.TopSeller
	q := url.Values{"limit": {strconv.Itoa(limit)}}
	err := a.c.doJSON(ctx, "top selling", http.MethodGet, "/api/analytics/top-selling", q, nil, nil, &out)
	return out, err
}

func (a *API) TopRated(ctx context.Context, limit int) ([]menu.Item, error) {
	var out []menu.Item
	q := url.Values{"limit": {strconv.Itoa(limit)}}
	err := a.c.doJSON(ctx, "top rated", http.MethodGet, "/api/analytics/top-rated", q, nil, nil, &out)
	return out, err
}

// --- favorites ---

func (a *API) Favorites(ctx context.Context, customerID string) ([]menu.Item, error) {
	var out []menu.Item
	q := url.Values{"customer_id": {customerID}}
	err := a.c.doJSON(ctx, "list favorites", http.MethodGet, "/api/favorites", q, nil, nil, &out)
	return out, err
}

func (a *API) AddFavorite(ctx context.Context, customerID string, itemID int64) error {
	q := url.Values{"customer_id": {customerID}}
	return a.c.doJSON(ctx, "add favorite", http.MethodPost, "/api/favorites/"+strconv.FormatInt(itemID, 10), q, nil, nil, nil)
}

func (a *API) RemoveFavorite(ctx context.Context, customerID string, itemID int64) error {
	q := url.Values{"customer_id": {customerID}}
	return a.c.doJSON(ctx, "remove favorite", http.MethodDelete, "/api/favorites/"+strconv.FormatInt(itemID, 10), q, nil, nil, nil)
}

// --- admin ---

type LoginResult struct {
	Token     string    `json:"token"`
	TokenType string    `json:"token_type"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (a *API) Login(ctx context.Context, key string) (LoginResult, error) {
	var out LoginResult
	err := a.c.doJSON(ctx, "admin login", http.MethodPost, "/api/admin/login", nil, nil, map[string]string{"key": key}, &out)
	return out, err
}
