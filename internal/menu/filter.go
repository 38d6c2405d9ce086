package menu

import "strings"

type View string

const (
	ViewAll       View = "all"
	ViewFavorites View = "favorites"
	ViewSpecials  View = "specials"
)

// CategoryAll matches every category.
const CategoryAll = "all"

// Criteria is the set of predicates applied by Filter. All predicates are
// ANDed, so the order they are evaluated in does not matter.
type Criteria struct {
	Search        string
	Category      string
	AvailableOnly bool
	Vegetarian    bool
	Vegan         bool
	GlutenFree    bool
	View          View
}

// Filter returns the items matching c, in input order. favorites is only
// consulted when c.View is ViewFavorites.
func Filter(items []Item, c Criteria, favorites map[int64]bool) []Item {
	needle := strings.ToLower(strings.TrimSpace(c.Search))

	out := make([]Item, 0, len(items))
	for _, it := range items {
		if c.Matches(it, needle, favorites) {
			out = append(out, it)
		}
	}
	return out
}

// Matches reports whether a single item passes the criteria. needle must be
// the already trimmed and lowercased search text.
func (c Criteria) Matches(it Item, needle string, favorites map[int64]bool) bool {
	switch c.View {
	case ViewFavorites:
		if !favorites[it.ID] {
			return false
		}
	case ViewSpecials:
		if !it.Special() {
			return false
		}
	}

	if c.AvailableOnly && !it.Available {
		return false
	}
	if c.Category != "" && c.Category != CategoryAll && it.Category != c.Category {
		return false
	}
	if c.Vegetarian && !it.IsVegetarian {
		return false
	}
	if c.Vegan && !it.IsVegan {
		return false
	}
	if c.GlutenFree && !it.IsGlutenFree {
		return false
	}

	if needle == "" {
		return true
	}
	if strings.Contains(strings.ToLower(it.Name), needle) ||
		strings.Contains(strings.ToLower(it.Category), needle) {
		return true
	}
	return it.Description != nil && strings.Contains(strings.ToLower(*it.Description), needle)
}

// Categories returns "all" followed by the distinct categories in first-seen order.
func Categories(items []Item) []string {
	seen := make(map[string]bool, len(items))
	out := []string{CategoryAll}
	for _, it := range items {
		if it.Category == "" || seen[it.Category] {
			continue
		}
		seen[it.Category] = true
		out = append(out, it.Category)
	}
	return out
}

// ParseView accepts the view names used on the command line.
func ParseView(s string) (View, bool) {
	switch View(strings.ToLower(strings.TrimSpace(s))) {
	case "", ViewAll:
		return ViewAll, true
	case ViewFavorites, "favourites", "fav":
		return ViewFavorites, true
	case ViewSpecials, "special":
		return ViewSpecials, true
	default:
		return ViewAll, false
	}
}
