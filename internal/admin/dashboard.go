package admin

import (
	"maps"
	"slices"

	"github.com/andreasstove999/cafeteria-go/internal/menu"
	"github.com/andreasstove999/cafeteria-go/internal/money"
	"github.com/andreasstove999/cafeteria-go/internal/order"
)

const (
	lowStockBelow    = 5
	mediumStockBelow = 10
	inventoryRows    = 10
	inventoryNameMax = 15
)

type CategoryCount struct {
	Category string
	Items    int
}

type StatusRevenue struct {
	Status  order.Status
	Revenue float64
}

type StockBand string

const (
	StockLow    StockBand = "low"
	StockMedium StockBand = "medium"
	StockOK     StockBand = "ok"
)

type StockLevel struct {
	Name  string
	Stock int
	Band  StockBand
}

type Dashboard struct {
	TotalRevenue    float64
	CompletedOrders int
	PendingOrders   int
	AvgOrderValue   float64
	Categories      []CategoryCount
	RevenueByStatus []StatusRevenue
	LowStock        []menu.Item
	OutOfStock      []menu.Item
	Inventory       []StockLevel
}

// NewDashboard derives the kitchen summary from the fetched items and
// orders. It has no side effects.
func NewDashboard(items []menu.Item, orders []order.Order) Dashboard {
	d := Dashboard{
		Categories:      []CategoryCount{},
		RevenueByStatus: []StatusRevenue{},
		LowStock:        []menu.Item{},
		OutOfStock:      []menu.Item{},
		Inventory:       []StockLevel{},
	}

	byStatus := map[order.Status]float64{}
	for _, o := range orders {
		d.TotalRevenue += o.TotalPrice
		byStatus[o.Status] += o.TotalPrice
		switch o.Status {
		case order.StatusCompleted:
			d.CompletedOrders++
		case order.StatusPending:
			d.PendingOrders++
		}
	}
	if len(orders) > 0 {
		d.AvgOrderValue = d.TotalRevenue / float64(len(orders))
	}
	for _, st := range order.Statuses() {
		if rev, ok := byStatus[st]; ok {
			d.RevenueByStatus = append(d.RevenueByStatus, StatusRevenue{Status: st, Revenue: money.Round2(rev)})
			delete(byStatus, st)
		}
	}
	// Statuses the client does not know about still count.
	for _, st := range slices.Sorted(maps.Keys(byStatus)) {
		d.RevenueByStatus = append(d.RevenueByStatus, StatusRevenue{Status: st, Revenue: money.Round2(byStatus[st])})
	}

	perCategory := map[string]int{}
	for _, it := range items {
		perCategory[it.Category]++
		switch {
		case it.Quantity == 0:
			d.OutOfStock = append(d.OutOfStock, it)
		case it.Quantity > 0 && it.Quantity < lowStockBelow:
			d.LowStock = append(d.LowStock, it)
		}
	}
	for _, c := range slices.Sorted(maps.Keys(perCategory)) {
		d.Categories = append(d.Categories, CategoryCount{Category: c, Items: perCategory[c]})
	}

	for _, it := range items[:min(len(items), inventoryRows)] {
		d.Inventory = append(d.Inventory, StockLevel{Name: shorten(it.Name), Stock: it.Quantity, Band: band(it.Quantity)})
	}
	return d
}

func band(qty int) StockBand {
	switch {
	case qty < lowStockBelow:
		return StockLow
	case qty < mediumStockBelow:
		return StockMedium
	default:
		return StockOK
	}
}

func shorten(name string) string {
	r := []rune(name)
	if len(r) <= inventoryNameMax {
		return name
	}
	return string(r[:inventoryNameMax]) + "..."
}
