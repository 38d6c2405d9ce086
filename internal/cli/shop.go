package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/andreasstove999/cafeteria-go/internal/app"
	"github.com/andreasstove999/cafeteria-go/internal/checkout"
	"github.com/andreasstove999/cafeteria-go/internal/menu"
	"github.com/andreasstove999/cafeteria-go/internal/money"
)

const shopHelp = `commands:
  menu                     list items matching the current filter
  search <text>            set search text (no text clears it)
  category <name|all>      filter by category
  toggle <veg|vegan|gf|available>
  view <all|favorites|specials>
  reset                    clear every filter
  add <id>                 add one to the cart
  qty <id> <n>             set quantity (0 or less removes)
  remove <id>              remove a line
  cart                     show the cart
  clear                    empty the cart
  checkout [notes]         place the order
  orders                   show your orders
  specials                 today's specials
  top                      top selling items
  rate <id> <1-5>          rate an item
  fav <id>                 toggle favorite
  quit`

func newShopCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "shop",
		Short: "Browse the menu, fill a cart and place orders",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()
			return runShop(ctx, e)
		},
	}
}

func runShop(ctx context.Context, e *env) error {
	customerID, err := e.customerID(ctx)
	if err != nil {
		return err
	}
	con := newConsole(e.stdin, e.stdout)

	pushes, closeEvents := e.orderEvents(ctx, customerID)
	defer closeEvents()

	shop := app.NewShop(e.api, app.ShopOptions{
		CustomerID:     customerID,
		OrdersPoll:     e.cfg.OrdersPoll,
		TopSellingPoll: e.cfg.TopSellingPoll,
		OrderEvents:    pushes,
		OnStatusChange: func(u app.StatusUpdate) { con.printf("\n>> %s\n", u) },
		Logger:         e.log,
	})
	shop.Start(ctx)
	defer shop.Close()

	con.printf("welcome, %s. %d items on the menu. type help for commands.\n", customerID, shop.Store().Len())
	return con.loop(ctx, "shop> ", shopCommands(shop, con), shopHelp)
}

func parseID(args []string) (int64, error) {
	if len(args) == 0 {
		return 0, errors.New("item id required")
	}
	id, err := strconv.ParseInt(strings.TrimPrefix(args[0], "#"), 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid id %q", args[0])
	}
	return id, nil
}

func shopCommands(shop *app.Shop, con *console) map[string]handler {
	withCriteria := func(fn func(c *menu.Criteria, args []string) error) handler {
		return func(_ context.Context, args []string) error {
			c := shop.Criteria()
			if err := fn(&c, args); err != nil {
				return err
			}
			shop.SetCriteria(c)
			con.write(func(w io.Writer) { renderItems(w, shop.Filtered(), shop.FavoriteIDs()) })
			return nil
		}
	}

	return map[string]handler{
		"menu": func(context.Context, []string) error {
			con.write(func(w io.Writer) { renderItems(w, shop.Filtered(), shop.FavoriteIDs()) })
			return nil
		},
		"categories": func(context.Context, []string) error {
			con.printf("%s\n", strings.Join(shop.Categories(), ", "))
			return nil
		},
		"add": func(_ context.Context, args []string) error {
			id, err := parseID(args)
			if err != nil {
				return err
			}
			it, ok := shop.Store().Lookup(id)
			if !ok {
				return fmt.Errorf("no item %d", id)
			}
			shop.Cart().Add(id)
			con.printf("added %s (%d in cart)\n", it.Name, shop.Cart().Quantity(id))
			return nil
		},
		"qty": func(_ context.Context, args []string) error {
			id, err := parseID(args)
			if err != nil {
				return err
			}
			if len(args) < 2 {
				return errors.New("usage: qty <id> <n>")
			}
			shop.Cart().SetQuantityText(id, args[1])
			con.write(func(w io.Writer) { renderCart(w, shop.CartLines(), shop.CartTotal()) })
			return nil
		},
		"remove": func(_ context.Context, args []string) error {
			id, err := parseID(args)
			if err != nil {
				return err
			}
			shop.Cart().Remove(id)
			return nil
		},
		"cart": func(context.Context, []string) error {
			con.write(func(w io.Writer) { renderCart(w, shop.CartLines(), shop.CartTotal()) })
			return nil
		},
		"clear": func(context.Context, []string) error {
			shop.Cart().Clear()
			con.printf("cart cleared\n")
			return nil
		},
		"checkout": func(ctx context.Context, args []string) error {
			var notes *string
			if n := strings.TrimSpace(strings.Join(args, " ")); n != "" {
				notes = &n
			}
			o, err := shop.Checkout(ctx, notes)
			var unavailable *checkout.UnavailableError
			switch {
			case errors.Is(err, checkout.ErrEmptyCart), errors.As(err, &unavailable):
				return err
			case err != nil:
				return fmt.Errorf("order failed: %w", err)
			}
			con.printf("order #%d placed, %s, ready by %s\n", o.ID, money.Format(o.TotalPrice), eta(o))
			return nil
		},
		"orders": func(ctx context.Context, _ []string) error {
			if err := shop.RefreshOrders(ctx); err != nil {
				return err
			}
			con.write(func(w io.Writer) { renderOrders(w, shop.Orders(), false) })
			return nil
		},
		"specials": func(context.Context, []string) error {
			con.write(func(w io.Writer) { renderItems(w, shop.Specials(), shop.FavoriteIDs()) })
			return nil
		},
		"top": func(context.Context, []string) error {
			con.write(func(w io.Writer) { renderTopSelling(w, shop.TopSelling()) })
			return nil
		},
		"rate": func(ctx context.Context, args []string) error {
			id, err := parseID(args)
			if err != nil {
				return err
			}
			if len(args) < 2 {
				return errors.New("usage: rate <id> <1-5>")
			}
			stars, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid rating %q", args[1])
			}
			if err := shop.Rate(ctx, id, stars); err != nil {
				return err
			}
			con.printf("rated item #%d with %d stars\n", id, stars)
			return nil
		},
		"fav": func(ctx context.Context, args []string) error {
			id, err := parseID(args)
			if err != nil {
				return err
			}
			fav, err := shop.ToggleFavorite(ctx, id)
			if err != nil {
				return err
			}
			if fav {
				con.printf("added to favorites\n")
			} else {
				con.printf("removed from favorites\n")
			}
			return nil
		},
		"search": withCriteria(func(c *menu.Criteria, args []string) error {
			c.Search = strings.Join(args, " ")
			return nil
		}),
		"category": withCriteria(func(c *menu.Criteria, args []string) error {
			c.Category = menu.CategoryAll
			if len(args) > 0 {
				c.Category = strings.ToLower(args[0])
			}
			return nil
		}),
		"toggle": withCriteria(func(c *menu.Criteria, args []string) error {
			if len(args) == 0 {
				return errors.New("usage: toggle <veg|vegan|gf|available>")
			}
			switch strings.ToLower(args[0]) {
			case "veg", "vegetarian":
				c.Vegetarian = !c.Vegetarian
			case "vegan":
				c.Vegan = !c.Vegan
			case "gf", "gluten-free":
				c.GlutenFree = !c.GlutenFree
			case "available":
				c.AvailableOnly = !c.AvailableOnly
			default:
				return fmt.Errorf("unknown filter %q", args[0])
			}
			return nil
		}),
		"view": withCriteria(func(c *menu.Criteria, args []string) error {
			arg := ""
			if len(args) > 0 {
				arg = args[0]
			}
			v, ok := menu.ParseView(arg)
			if !ok {
				return fmt.Errorf("unknown view %q", arg)
			}
			c.View = v
			return nil
		}),
		"reset": withCriteria(func(c *menu.Criteria, _ []string) error {
			*c = menu.Criteria{Category: menu.CategoryAll, View: menu.ViewAll}
			return nil
		}),
	}
}
