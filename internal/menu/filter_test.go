package menu

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func sampleItems() []Item {
	return []Item{
		{ID: 1, Name: "Veggie Wrap", Category: "snack", Price: 5, Available: true, IsVegetarian: true, Description: strPtr("Hummus and greens")},
		{ID: 2, Name: "Burger", Category: "main", Price: 8, Available: false},
		{ID: 3, Name: "Green Tea", Category: "drink", Price: 2, Available: true, IsVegetarian: true, IsVegan: true, IsGlutenFree: true},
		{ID: 4, Name: "Paneer Tikka", Category: "main", Price: 6, Available: true, IsVegetarian: true, IsDailySpecial: true, DiscountPercentage: 10},
	}
}

func ids(items []Item) []int64 {
	out := make([]int64, 0, len(items))
	for _, it := range items {
		out = append(out, it.ID)
	}
	return out
}

func TestFilter(t *testing.T) {
	favorites := map[int64]bool{2: true, 3: true}

	tests := map[string]struct {
		criteria Criteria
		want     []int64
	}{
		"no criteria keeps everything in order": {
			criteria: Criteria{},
			want:     []int64{1, 2, 3, 4},
		},
		"vegetarian and available": {
			criteria: Criteria{Vegetarian: true, AvailableOnly: true},
			want:     []int64{1, 3, 4},
		},
		"category all passes everything": {
			criteria: Criteria{Category: CategoryAll},
			want:     []int64{1, 2, 3, 4},
		},
		"exact category": {
			criteria: Criteria{Category: "main"},
			want:     []int64{2, 4},
		},
		"search is trimmed and case-insensitive on name": {
			criteria: Criteria{Search: "  BURG "},
			want:     []int64{2},
		},
		"search matches category": {
			criteria: Criteria{Search: "drink"},
			want:     []int64{3},
		},
		"search matches description": {
			criteria: Criteria{Search: "hummus"},
			want:     []int64{1},
		},
		"whitespace search matches everything": {
			criteria: Criteria{Search: "   "},
			want:     []int64{1, 2, 3, 4},
		},
		"favorites view": {
			criteria: Criteria{View: ViewFavorites},
			want:     []int64{2, 3},
		},
		"favorites view with available": {
			criteria: Criteria{View: ViewFavorites, AvailableOnly: true},
			want:     []int64{3},
		},
		"specials view": {
			criteria: Criteria{View: ViewSpecials},
			want:     []int64{4},
		},
		"dietary flags are ANDed": {
			criteria: Criteria{Vegan: true, GlutenFree: true, Vegetarian: true},
			want:     []int64{3},
		},
		"nothing matches": {
			criteria: Criteria{Search: "sushi"},
			want:     []int64{},
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			got := Filter(sampleItems(), tc.criteria, favorites)
			require.Equal(t, tc.want, ids(got))
		})
	}
}

func TestFilterWorkedExample(t *testing.T) {
	items := []Item{
		{ID: 1, Name: "Veggie Wrap", Category: "snack", Price: 5, Available: true, IsVegetarian: true},
		{ID: 2, Name: "Burger", Category: "main", Price: 8, Available: false, IsVegetarian: false},
	}

	got := Filter(items, Criteria{Vegetarian: true, AvailableOnly: true}, nil)

	require.Len(t, got, 1)
	require.Equal(t, int64(1), got[0].ID)
}

func TestFilterPredicatesCommute(t *testing.T) {
	items := sampleItems()
	all := Criteria{Search: "a", Category: "main", AvailableOnly: true, Vegetarian: true}

	// Applying each predicate on its own, in any order, gives the same result
	// as applying them together.
	steps := []Criteria{
		{Vegetarian: true},
		{Category: "main"},
		{Search: "a"},
		{AvailableOnly: true},
	}
	forward := items
	for _, c := range steps {
		forward = Filter(forward, c, nil)
	}
	backward := items
	for i := len(steps) - 1; i >= 0; i-- {
		backward = Filter(backward, steps[i], nil)
	}

	require.Equal(t, ids(Filter(items, all, nil)), ids(forward))
	require.Equal(t, ids(forward), ids(backward))
}

func TestCategories(t *testing.T) {
	require.Equal(t, []string{"all", "snack", "main", "drink"}, Categories(sampleItems()))
	require.Equal(t, []string{"all"}, Categories(nil))
}

func TestParseView(t *testing.T) {
	v, ok := ParseView("Favorites")
	require.True(t, ok)
	require.Equal(t, ViewFavorites, v)

	v, ok = ParseView("")
	require.True(t, ok)
	require.Equal(t, ViewAll, v)

	_, ok = ParseView("popular")
	require.False(t, ok)
}
