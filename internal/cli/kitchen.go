package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/andreasstove999/cafeteria-go/internal/admin"
	"github.com/andreasstove999/cafeteria-go/internal/app"
	"github.com/andreasstove999/cafeteria-go/internal/money"
	"github.com/andreasstove999/cafeteria-go/internal/order"
	"github.com/andreasstove999/cafeteria-go/internal/session"
)

const kitchenHelp = `commands:
  items                        list menu items
  orders                       list all orders
  dashboard                    revenue, stock and category summary
  top                          top selling and top rated
  add name=.. price=.. [field=..]
  edit <id> field=.. [field=..]
  restock <id> <qty>
  delete <id>
  status <id> <pending|preparing|ready|completed|cancelled>
  refresh                      re-fetch items and orders
  login                        log in again after a timeout
  logout
  quit
form fields: name category price qty description image veg vegan gf calories prep special discount`

func newKitchenCommand(e *env) *cobra.Command {
	var key string
	cmd := &cobra.Command{
		Use:   "kitchen",
		Short: "Run the kitchen console: orders, stock and analytics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()
			return runKitchen(ctx, e, key)
		},
	}
	cmd.Flags().StringVar(&key, "key", "", "admin key (prompted when empty)")
	return cmd
}

func runKitchen(ctx context.Context, e *env, key string) error {
	con := newConsole(e.stdin, e.stdout)
	sess := session.NewAdmin(e.api, e.cfg.AdminIdleTimeout)
	defer sess.Logout()
	api := e.api.WithTokens(sess)

	pushes, closeEvents := e.orderEvents(ctx, "")
	defer closeEvents()

	kitchen := app.NewKitchen(api, sess, con, app.KitchenOptions{
		OrdersPoll:    e.cfg.OrdersPoll,
		AnalyticsPoll: e.cfg.AnalyticsPoll,
		OrderEvents:   pushes,
		Logger:        e.log,
	})
	defer kitchen.Close()
	sess.OnExpire(func() { con.printf("\nsession expired after inactivity, type login to continue\n") })

	if err := login(ctx, con, kitchen, key); err != nil {
		return err
	}
	con.printf("logged in. type help for commands.\n")
	return con.loop(ctx, "kitchen> ", kitchenCommands(kitchen, con), kitchenHelp)
}

// login authenticates and starts the console. Without a key it prompts
// until a login succeeds or input ends.
func login(ctx context.Context, con *console, k *app.Kitchen, key string) error {
	for {
		if key == "" {
			line, ok := con.readLine("admin key: ")
			if !ok {
				return errors.New("no admin key given")
			}
			key = line
		}
		err := k.Session().Login(ctx, key)
		if err == nil {
			return k.Start(ctx)
		}
		if !errors.Is(err, session.ErrInvalidKey) && !errors.Is(err, session.ErrCooldown) {
			return err
		}
		con.printf("%s\n", err)
		key = ""
	}
}

func kitchenCommands(k *app.Kitchen, con *console) map[string]handler {
	return map[string]handler{
		"items": func(ctx context.Context, _ []string) error {
			if err := k.RefreshItems(ctx); err != nil {
				return err
			}
			con.write(func(w io.Writer) { renderItems(w, k.Items(), nil) })
			return nil
		},
		"orders": func(ctx context.Context, _ []string) error {
			if err := k.RefreshOrders(ctx); err != nil {
				return err
			}
			con.write(func(w io.Writer) { renderOrders(w, k.Orders(), true) })
			return nil
		},
		"refresh": func(ctx context.Context, _ []string) error {
			if err := k.RefreshItems(ctx); err != nil {
				return err
			}
			return k.RefreshOrders(ctx)
		},
		"dashboard": func(ctx context.Context, _ []string) error {
			if err := k.RefreshItems(ctx); err != nil {
				return err
			}
			if err := k.RefreshOrders(ctx); err != nil {
				return err
			}
			con.write(func(w io.Writer) { renderDashboard(w, k.Dashboard()) })
			return nil
		},
		"top": func(ctx context.Context, _ []string) error {
			if err := k.Session().Require(); err != nil {
				return err
			}
			k.Session().Touch()
			if err := k.RefreshAnalytics(ctx); err != nil {
				return err
			}
			con.write(func(w io.Writer) {
				renderTopSelling(w, k.TopSelling())
				renderItems(w, k.TopRated(), nil)
			})
			return nil
		},
		"add": func(ctx context.Context, args []string) error {
			f := admin.Form{}
			if err := applyFields(&f, args); err != nil {
				return err
			}
			it, err := k.CreateItem(ctx, f)
			if err != nil {
				return err
			}
			con.printf("item #%d added\n", it.ID)
			return nil
		},
		"edit": func(ctx context.Context, args []string) error {
			id, err := parseID(args)
			if err != nil {
				return err
			}
			var current *admin.Form
			for _, it := range k.Items() {
				if it.ID == id {
					f := admin.FormFor(it)
					current = &f
				}
			}
			if current == nil {
				return fmt.Errorf("no item %d", id)
			}
			if err := applyFields(current, args[1:]); err != nil {
				return err
			}
			if _, err := k.UpdateItem(ctx, id, *current); err != nil {
				return err
			}
			con.printf("item #%d updated\n", id)
			return nil
		},
		"restock": func(ctx context.Context, args []string) error {
			id, err := parseID(args)
			if err != nil {
				return err
			}
			if len(args) < 2 {
				return errors.New("usage: restock <id> <qty>")
			}
			it, err := k.Restock(ctx, id, args[1])
			if err != nil {
				return err
			}
			con.printf("%s now has %d in stock\n", it.Name, it.Quantity)
			return nil
		},
		"delete": func(ctx context.Context, args []string) error {
			id, err := parseID(args)
			if err != nil {
				return err
			}
			err = k.DeleteItem(ctx, id)
			if errors.Is(err, admin.ErrNotConfirmed) {
				con.printf("kept item #%d\n", id)
				return nil
			}
			if err != nil {
				return err
			}
			con.printf("item deleted\n")
			return nil
		},
		"status": func(ctx context.Context, args []string) error {
			id, err := parseID(args)
			if err != nil {
				return err
			}
			if len(args) < 2 {
				names := make([]string, 0, 5)
				for _, s := range order.Statuses() {
					names = append(names, string(s))
				}
				return fmt.Errorf("usage: status <id> <%s>", strings.Join(names, "|"))
			}
			o, err := k.SetOrderStatus(ctx, id, args[1])
			if err != nil {
				return err
			}
			con.printf("order #%d updated to %s (%s)\n", o.ID, o.Status, money.Format(o.TotalPrice))
			return nil
		},
		"login": func(ctx context.Context, _ []string) error {
			if k.Session().Authenticated() {
				con.printf("already logged in\n")
				return nil
			}
			return login(ctx, con, k, "")
		},
		"logout": func(context.Context, []string) error {
			k.Logout()
			con.printf("logged out\n")
			return nil
		},
	}
}

// applyFields sets form fields from key=value arguments. Text values may
// not contain spaces; underscores in name, category and description
// become spaces.
func applyFields(f *admin.Form, args []string) error {
	for _, arg := range args {
		k, v, ok := strings.Cut(arg, "=")
		if !ok {
			return fmt.Errorf("expected field=value, got %q", arg)
		}
		text := strings.ReplaceAll(v, "_", " ")
		switch strings.ToLower(k) {
		case "name":
			f.Name = text
		case "category":
			f.Category = text
		case "price":
			f.Price = v
		case "qty", "quantity":
			f.Quantity = v
		case "description":
			f.Description = text
		case "image":
			f.ImageURL = v
		case "veg", "vegetarian":
			f.IsVegetarian = truthy(v)
		case "vegan":
			f.IsVegan = truthy(v)
		case "gf", "gluten-free":
			f.IsGlutenFree = truthy(v)
		case "calories":
			f.Calories = v
		case "prep":
			f.PreparationTime = v
		case "special":
			f.IsDailySpecial = truthy(v)
		case "discount":
			f.DiscountPercentage = v
		default:
			return fmt.Errorf("unknown field %q", k)
		}
	}
	return nil
}

func truthy(v string) bool {
	switch strings.ToLower(v) {
	case "1", "y", "yes", "true", "on":
		return true
	}
	return false
}
