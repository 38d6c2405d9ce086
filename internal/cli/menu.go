package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/andreasstove999/cafeteria-go/internal/menu"
)

func newMenuCommand(e *env) *cobra.Command {
	var (
		c    menu.Criteria
		view string
	)
	cmd := &cobra.Command{
		Use:   "menu",
		Short: "Print the menu once, optionally filtered",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			v, ok := menu.ParseView(view)
			if !ok {
				return fmt.Errorf("unknown view %q", view)
			}
			c.View = v

			ctx := cmd.Context()
			items, err := e.api.ListItems(ctx)
			if err != nil {
				return err
			}
			favorites := map[int64]bool{}
			if v == menu.ViewFavorites {
				customerID, err := e.customerID(ctx)
				if err != nil {
					return err
				}
				favs, err := e.api.Favorites(ctx, customerID)
				if err != nil {
					return err
				}
				for _, it := range favs {
					favorites[it.ID] = true
				}
			}
			renderItems(e.stdout, menu.Filter(items, c, favorites), favorites)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVarP(&c.Search, "search", "s", "", "match name, category or description")
	f.StringVarP(&c.Category, "category", "c", menu.CategoryAll, "category, or all")
	f.BoolVar(&c.AvailableOnly, "available", false, "only items in stock")
	f.BoolVar(&c.Vegetarian, "vegetarian", false, "only vegetarian items")
	f.BoolVar(&c.Vegan, "vegan", false, "only vegan items")
	f.BoolVar(&c.GlutenFree, "gluten-free", false, "only gluten free items")
	f.StringVar(&view, "view", "all", "all, favorites or specials")
	return cmd
}
