package admin

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/andreasstove999/cafeteria-go/internal/menu"
)

func TestFormInput(t *testing.T) {
	in := Form{
		Name:               " Falafel Wrap ",
		Price:              "4.50",
		Quantity:           "12abc",
		Calories:           "",
		PreparationTime:    "8",
		DiscountPercentage: "ten",
		IsVegan:            true,
	}.Input()

	require.Equal(t, "Falafel Wrap", in.Name)
	require.Equal(t, DefaultCategory, in.Category)
	require.InDelta(t, 4.5, in.Price, 1e-9)
	require.Equal(t, 12, in.Quantity)
	require.Nil(t, in.Calories)
	require.Equal(t, 8, *in.PreparationTime)
	require.Zero(t, in.DiscountPercentage)
	require.Nil(t, in.Description)
	require.True(t, in.IsVegan)
}

func TestFormRoundTrip(t *testing.T) {
	cal, desc := 450, "Spiced rice"
	it := menu.Item{
		ID:                 2,
		Name:               "Chicken Biryani",
		Category:           "main",
		Price:              5,
		Quantity:           10,
		Description:        &desc,
		Calories:           &cal,
		DiscountPercentage: 20,
	}

	patched := FormFor(it).Patch().Apply(it)
	require.Equal(t, it.Name, patched.Name)
	require.Equal(t, it.Price, patched.Price)
	require.Equal(t, it.Quantity, patched.Quantity)
	require.Equal(t, desc, *patched.Description)
	require.Equal(t, cal, *patched.Calories)
	require.Equal(t, 20.0, patched.DiscountPercentage)
	require.True(t, patched.Available)
}
