// Package cart holds the customer's pending selection and derives priced
// lines from it against the current menu snapshot.
package cart

import (
	"iter"
	"maps"
	"math"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/andreasstove999/cafeteria-go/internal/menu"
)

// Catalog resolves item ids to the latest fetched menu item.
type Catalog interface {
	Lookup(id int64) (menu.Item, bool)
}

// Line is derived on demand and never stored.
type Line struct {
	ItemID        int64
	Name          string
	Quantity      int
	UnitPrice     float64
	OriginalPrice float64
	Discount      float64
	LineTotal     float64
	Available     bool
}

const maxQuantity = math.MaxInt32

// Cart maps item ids to requested quantities. Every stored quantity is > 0.
type Cart struct {
	mu      sync.Mutex
	entries map[int64]int
}

func New() *Cart {
	return &Cart{entries: map[int64]int{}}
}

func (c *Cart) Add(itemID int64) {
	c.mu.Lock()
	c.entries[itemID]++
	c.mu.Unlock()
}

// SetQuantity sets the requested quantity. Anything that is not a finite
// number of at least one whole unit removes the entry.
func (c *Cart) SetQuantity(itemID int64, qty float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if math.IsNaN(qty) || math.IsInf(qty, 0) || qty < 1 {
		delete(c.entries, itemID)
		return
	}
	c.entries[itemID] = int(min(qty, maxQuantity))
}

// SetQuantityText is SetQuantity for raw user input; unparsable text
// removes the line.
func (c *Cart) SetQuantityText(itemID int64, text string) {
	q, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil {
		q = 0
	}
	c.SetQuantity(itemID, q)
}

func (c *Cart) Remove(itemID int64) {
	c.mu.Lock()
	delete(c.entries, itemID)
	c.mu.Unlock()
}

func (c *Cart) Clear() {
	c.mu.Lock()
	clear(c.entries)
	c.mu.Unlock()
}

func (c *Cart) Quantity(itemID int64) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entries[itemID]
}

// Entries returns a copy of the id to quantity mapping.
func (c *Cart) Entries() map[int64]int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return maps.Clone(c.entries)
}

func (c *Cart) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Lines yields priced lines in ascending item id order. The cart is
// snapshotted when iteration starts; ids missing from the catalog are
// skipped.
func (c *Cart) Lines(catalog Catalog) iter.Seq[Line] {
	return func(yield func(Line) bool) {
		entries := c.Entries()
		for _, id := range slices.Sorted(maps.Keys(entries)) {
			it, ok := catalog.Lookup(id)
			if !ok {
				continue
			}
			if !yield(NewLine(it, entries[id])) {
				return
			}
		}
	}
}

func NewLine(it menu.Item, qty int) Line {
	unit := it.UnitPrice()
	return Line{
		ItemID:        it.ID,
		Name:          it.Name,
		Quantity:      qty,
		UnitPrice:     unit,
		OriginalPrice: it.Price,
		Discount:      it.DiscountPercentage,
		LineTotal:     unit * float64(qty),
		Available:     it.Available,
	}
}

// Total sums line totals without rounding.
func Total(lines iter.Seq[Line]) float64 {
	var sum float64
	for l := range lines {
		sum += l.LineTotal
	}
	return sum
}
