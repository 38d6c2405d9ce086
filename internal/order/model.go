package order

import (
	"fmt"
	"time"
)

// Preparation estimate: a fixed base plus a per-unit increment.
const (
	BasePrepMinutes = 5
	PerItemMinutes  = 2
)

type Line struct {
	ItemID    int64   `json:"item_id"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
	LineTotal float64 `json:"line_total"`
}

type StatusChange struct {
	Status Status    `json:"status"`
	At     time.Time `json:"at"`
}

type Order struct {
	ID               int64          `json:"id"`
	CustomerID       string         `json:"customer_id"`
	Status           Status         `json:"status"`
	Items            []Line         `json:"items"`
	TotalPrice       float64        `json:"total_price"`
	CreatedAt        time.Time      `json:"created_at"`
	EstimatedReadyAt *time.Time     `json:"estimated_ready_at,omitempty"`
	CompletedAt      *time.Time     `json:"completed_at,omitempty"`
	Notes            *string        `json:"notes,omitempty"`
	StatusHistory    []StatusChange `json:"status_history,omitempty"`
}

// Units is the number of items across all lines.
func (o Order) Units() int {
	n := 0
	for _, l := range o.Items {
		n += l.Quantity
	}
	return n
}

type LineRequest struct {
	ItemID   int64 `json:"item_id"`
	Quantity int   `json:"quantity"`
}

// PlaceRequest is the body of POST /api/orders. The single item form
// (ItemID + Quantity) is still accepted from older clients.
type PlaceRequest struct {
	CustomerID string        `json:"customer_id"`
	Items      []LineRequest `json:"items,omitempty"`
	ItemID     *int64        `json:"item_id,omitempty"`
	Quantity   *int          `json:"quantity,omitempty"`
	Notes      *string       `json:"notes,omitempty"`
}

const DefaultCustomerID = "guest"

// Lines returns the requested lines in either accepted form.
func (r PlaceRequest) Lines() ([]LineRequest, error) {
	if len(r.Items) > 0 {
		return r.Items, nil
	}
	if r.ItemID == nil || r.Quantity == nil {
		return nil, &ValidationError{Msg: "Provide either items[] or item_id + quantity"}
	}
	return []LineRequest{{ItemID: *r.ItemID, Quantity: *r.Quantity}}, nil
}

type TopSeller struct {
	ItemID    int64  `json:"item_id"`
	Name      string `json:"name"`
	UnitsSold int    `json:"units_sold"`
}

// ValidationError is returned when an order cannot be placed as requested.
// Msg is shown to the customer verbatim.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func errItemNotFound(id int64) error   { return &ValidationError{Msg: fmt.Sprintf("Item %d not found", id)} }
func errNotEnoughStock(id int64) error { return &ValidationError{Msg: fmt.Sprintf("Not enough stock for item %d", id)} }

var (
	errEmptyOrder      = &ValidationError{Msg: "Order must contain at least one item"}
	errInvalidQuantity = &ValidationError{Msg: "Quantity must be >= 1"}
)

// EstimateReady is when an order of units items should be ready if placed at now.
func EstimateReady(now time.Time, units int) time.Time {
	return now.Add(time.Duration(BasePrepMinutes+PerItemMinutes*units) * time.Minute)
}

// mergeLines folds repeated item ids into one line, keeping first-seen order.
// A non-positive quantity on any occurrence poisons the merged line so the
// quantity check still rejects it.
func mergeLines(in []LineRequest) []LineRequest {
	idx := make(map[int64]int, len(in))
	out := make([]LineRequest, 0, len(in))
	for _, l := range in {
		i, ok := idx[l.ItemID]
		if !ok {
			idx[l.ItemID] = len(out)
			out = append(out, l)
			continue
		}
		switch {
		case out[i].Quantity < 1:
		case l.Quantity < 1:
			out[i].Quantity = l.Quantity
		default:
			out[i].Quantity += l.Quantity
		}
	}
	return out
}
