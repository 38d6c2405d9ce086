package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/andreasstove999/cafeteria-go/internal/admin"
	"github.com/andreasstove999/cafeteria-go/internal/cart"
	"github.com/andreasstove999/cafeteria-go/internal/menu"
	"github.com/andreasstove999/cafeteria-go/internal/money"
	"github.com/andreasstove999/cafeteria-go/internal/order"
)

func table(w io.Writer, header string, rows func(tw io.Writer)) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, header)
	rows(tw)
	_ = tw.Flush()
}

func price(it menu.Item) string {
	if it.Discounted() {
		return fmt.Sprintf("%s (-%s%%)", money.Format(it.UnitPrice()), trimFloat(it.DiscountPercentage))
	}
	return money.Format(it.Price)
}

func trimFloat(v float64) string {
	return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.2f", v), "0"), ".")
}

func dietTags(it menu.Item) string {
	var tags []string
	if it.IsVegan {
		tags = append(tags, "vegan")
	} else if it.IsVegetarian {
		tags = append(tags, "veg")
	}
	if it.IsGlutenFree {
		tags = append(tags, "gf")
	}
	if it.IsDailySpecial {
		tags = append(tags, "special")
	}
	return strings.Join(tags, ",")
}

func renderItems(w io.Writer, items []menu.Item, favorites map[int64]bool) {
	if len(items) == 0 {
		fmt.Fprintln(w, "no items match")
		return
	}
	table(w, "ID\tNAME\tCATEGORY\tPRICE\tSTOCK\tRATING\tTAGS\t", func(tw io.Writer) {
		for _, it := range items {
			name := it.Name
			if favorites[it.ID] {
				name = "* " + name
			}
			stock := fmt.Sprint(it.Quantity)
			if !it.Available {
				stock = "sold out"
			}
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s (%d)\t%s\t\n",
				it.ID, name, it.Category, price(it), stock, money.Rating(it.RatingAvg), it.RatingCount, dietTags(it))
		}
	})
}

func renderCart(w io.Writer, lines []cart.Line, total float64) {
	if len(lines) == 0 {
		fmt.Fprintln(w, "cart is empty")
		return
	}
	table(w, "ID\tITEM\tQTY\tUNIT\tTOTAL\t", func(tw io.Writer) {
		for _, l := range lines {
			name := l.Name
			if !l.Available {
				name += " (unavailable)"
			}
			fmt.Fprintf(tw, "%d\t%s\t%d\t%s\t%s\t\n", l.ItemID, name, l.Quantity, money.Format(l.UnitPrice), money.Format(l.LineTotal))
		}
	})
	fmt.Fprintf(w, "total %s\n", money.Format(total))
}

func eta(o order.Order) string {
	if o.EstimatedReadyAt == nil {
		return "-"
	}
	return o.EstimatedReadyAt.Local().Format(time.TimeOnly)
}

func renderOrders(w io.Writer, orders []order.Order, withCustomer bool) {
	if len(orders) == 0 {
		fmt.Fprintln(w, "no orders yet")
		return
	}
	header := "ORDER\tSTATUS\tITEMS\tTOTAL\tREADY BY\t"
	if withCustomer {
		header = "ORDER\tCUSTOMER\tSTATUS\tITEMS\tTOTAL\tREADY BY\t"
	}
	table(w, header, func(tw io.Writer) {
		for _, o := range orders {
			var names []string
			for _, l := range o.Items {
				names = append(names, fmt.Sprintf("%dx %s", l.Quantity, l.Name))
			}
			if withCustomer {
				fmt.Fprintf(tw, "#%d\t%s\t%s\t%s\t%s\t%s\t\n", o.ID, o.CustomerID, o.Status, strings.Join(names, ", "), money.Format(o.TotalPrice), eta(o))
				continue
			}
			fmt.Fprintf(tw, "#%d\t%s\t%s\t%s\t%s\t\n", o.ID, o.Status, strings.Join(names, ", "), money.Format(o.TotalPrice), eta(o))
		}
	})
}

func renderTopSelling(w io.Writer, top []order.TopSeller) {
	if len(top) == 0 {
		fmt.Fprintln(w, "no sales yet")
		return
	}
	table(w, "#\tITEM\tSOLD\t", func(tw io.Writer) {
		for i, t := range top {
			fmt.Fprintf(tw, "%d\t%s\t%d\t\n", i+1, t.Name, t.UnitsSold)
		}
	})
}

func renderDashboard(w io.Writer, d admin.Dashboard) {
	fmt.Fprintf(w, "revenue %s  avg order %s  completed %d  pending %d\n",
		money.Format(d.TotalRevenue), money.Format(d.AvgOrderValue), d.CompletedOrders, d.PendingOrders)

	table(w, "STATUS\tREVENUE\t", func(tw io.Writer) {
		for _, r := range d.RevenueByStatus {
			fmt.Fprintf(tw, "%s\t%s\t\n", r.Status, money.Format(r.Revenue))
		}
	})
	table(w, "CATEGORY\tITEMS\t", func(tw io.Writer) {
		for _, c := range d.Categories {
			fmt.Fprintf(tw, "%s\t%d\t\n", c.Category, c.Items)
		}
	})
	table(w, "STOCK\tQTY\tLEVEL\t", func(tw io.Writer) {
		for _, s := range d.Inventory {
			fmt.Fprintf(tw, "%s\t%d\t%s\t\n", s.Name, s.Stock, s.Band)
		}
	})
	if n := len(d.LowStock); n > 0 {
		fmt.Fprintf(w, "%d items running low\n", n)
	}
	if n := len(d.OutOfStock); n > 0 {
		fmt.Fprintf(w, "%d items out of stock\n", n)
	}
}
