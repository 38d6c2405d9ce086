package admin

import (
	"strconv"
	"strings"

	"github.com/andreasstove999/cafeteria-go/internal/menu"
)

// Form is the item editor as typed by the operator. Numeric fields that
// do not parse fall back to zero; optional ones to unset.
type Form struct {
	Name               string
	Category           string
	Price              string
	Quantity           string
	Description        string
	ImageURL           string
	IsVegetarian       bool
	IsVegan            bool
	IsGlutenFree       bool
	Calories           string
	PreparationTime    string
	IsDailySpecial     bool
	DiscountPercentage string
}

const DefaultCategory = "main"

// FormFor prefills the editor from an existing item.
func FormFor(it menu.Item) Form {
	f := Form{
		Name:           it.Name,
		Category:       it.Category,
		Price:          strconv.FormatFloat(it.Price, 'f', -1, 64),
		Quantity:       strconv.Itoa(it.Quantity),
		IsVegetarian:   it.IsVegetarian,
		IsVegan:        it.IsVegan,
		IsGlutenFree:   it.IsGlutenFree,
		IsDailySpecial: it.IsDailySpecial,
	}
	if it.Description != nil {
		f.Description = *it.Description
	}
	if it.ImageURL != nil {
		f.ImageURL = *it.ImageURL
	}
	if it.Calories != nil {
		f.Calories = strconv.Itoa(*it.Calories)
	}
	if it.PreparationTime != nil {
		f.PreparationTime = strconv.Itoa(*it.PreparationTime)
	}
	if it.DiscountPercentage > 0 {
		f.DiscountPercentage = strconv.FormatFloat(it.DiscountPercentage, 'f', -1, 64)
	}
	return f
}

func (f Form) Input() menu.Input {
	category := strings.TrimSpace(f.Category)
	if category == "" {
		category = DefaultCategory
	}
	return menu.Input{
		Name:               strings.TrimSpace(f.Name),
		Category:           category,
		Price:              floatOrZero(f.Price),
		Quantity:           intOrZero(f.Quantity),
		Description:        optString(f.Description),
		ImageURL:           optString(f.ImageURL),
		IsVegetarian:       f.IsVegetarian,
		IsVegan:            f.IsVegan,
		IsGlutenFree:       f.IsGlutenFree,
		Calories:           optInt(f.Calories),
		PreparationTime:    optInt(f.PreparationTime),
		IsDailySpecial:     f.IsDailySpecial,
		DiscountPercentage: floatOrZero(f.DiscountPercentage),
	}
}

// Patch is the full replacement of every editable field.
func (f Form) Patch() menu.Patch {
	in := f.Input()
	desc, img := "", ""
	if in.Description != nil {
		desc = *in.Description
	}
	if in.ImageURL != nil {
		img = *in.ImageURL
	}
	return menu.Patch{
		Name:               &in.Name,
		Category:           &in.Category,
		Price:              &in.Price,
		Quantity:           &in.Quantity,
		Description:        &desc,
		ImageURL:           &img,
		IsVegetarian:       &in.IsVegetarian,
		IsVegan:            &in.IsVegan,
		IsGlutenFree:       &in.IsGlutenFree,
		Calories:           in.Calories,
		PreparationTime:    in.PreparationTime,
		IsDailySpecial:     &in.IsDailySpecial,
		DiscountPercentage: &in.DiscountPercentage,
	}
}

// leadingNumber cuts s at the first character that cannot continue a
// decimal number, so "12abc" reads as 12.
func leadingNumber(s string, allowDot bool) string {
	s = strings.TrimSpace(s)
	end := 0
	dot := false
	for i, r := range s {
		switch {
		case r >= '0' && r <= '9':
		case (r == '-' || r == '+') && i == 0:
		case r == '.' && allowDot && !dot:
			dot = true
		default:
			return s[:end]
		}
		end = i + 1
	}
	return s[:end]
}

func floatOrZero(s string) float64 {
	v, err := strconv.ParseFloat(leadingNumber(s, true), 64)
	if err != nil {
		return 0
	}
	return v
}

func intOrZero(s string) int {
	v, err := strconv.Atoi(leadingNumber(s, false))
	if err != nil {
		return 0
	}
	return v
}

func optInt(s string) *int {
	v, err := strconv.Atoi(leadingNumber(s, false))
	if err != nil {
		return nil
	}
	return &v
}

func optString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
