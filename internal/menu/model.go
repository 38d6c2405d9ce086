package menu

import (
	"math"

	"github.com/andreasstove999/cafeteria-go/internal/money"
)

// Item is a menu entry as served by the backend.
type Item struct {
	ID                 int64    `json:"id"`
	Name               string   `json:"name"`
	Category           string   `json:"category"`
	Price              float64  `json:"price"`
	Quantity           int      `json:"quantity"`
	Available          bool     `json:"available"`
	ImageURL           *string  `json:"image_url,omitempty"`
	Description        *string  `json:"description,omitempty"`
	RatingAvg          float64  `json:"rating_avg"`
	RatingCount        int      `json:"rating_count"`
	IsVegetarian       bool     `json:"is_vegetarian"`
	IsVegan            bool     `json:"is_vegan"`
	IsGlutenFree       bool     `json:"is_gluten_free"`
	Allergens          []string `json:"allergens"`
	IsDailySpecial     bool     `json:"is_daily_special"`
	DiscountPercentage float64  `json:"discount_percentage"`
	Calories           *int     `json:"calories,omitempty"`
	PreparationTime    *int     `json:"preparation_time,omitempty"`
}

// UnitPrice is the price a customer pays for one unit, after discount.
func (it Item) UnitPrice() float64 {
	return money.Discounted(it.Price, it.DiscountPercentage)
}

func (it Item) Discounted() bool { return it.DiscountPercentage > 0 }

// Special reports whether the item belongs in the daily specials list:
// flagged by the kitchen or currently discounted.
func (it Item) Special() bool { return it.IsDailySpecial || it.Discounted() }

// Input is the payload for creating an item.
type Input struct {
	Name               string   `json:"name"`
	Category           string   `json:"category"`
	Price              float64  `json:"price"`
	Quantity           int      `json:"quantity"`
	Available          *bool    `json:"available,omitempty"`
	ImageURL           *string  `json:"image_url,omitempty"`
	Description        *string  `json:"description,omitempty"`
	IsVegetarian       bool     `json:"is_vegetarian"`
	IsVegan            bool     `json:"is_vegan"`
	IsGlutenFree       bool     `json:"is_gluten_free"`
	Allergens          []string `json:"allergens,omitempty"`
	IsDailySpecial     bool     `json:"is_daily_special"`
	DiscountPercentage float64  `json:"discount_percentage"`
	Calories           *int     `json:"calories,omitempty"`
	PreparationTime    *int     `json:"preparation_time,omitempty"`
}

func (in Input) Validate() error {
	if in.Name == "" {
		return &ValidationError{Msg: "name is required"}
	}
	if in.Price < 0 || in.Quantity < 0 || math.IsNaN(in.Price) {
		return &ValidationError{Msg: "price and quantity must be non-negative"}
	}
	if in.DiscountPercentage < 0 || in.DiscountPercentage > 100 {
		return &ValidationError{Msg: "discount_percentage must be between 0 and 100"}
	}
	return nil
}

// Patch is a partial update. Nil fields are left unchanged.
type Patch struct {
	Name               *string  `json:"name,omitempty"`
	Category           *string  `json:"category,omitempty"`
	Price              *float64 `json:"price,omitempty"`
	Quantity           *int     `json:"quantity,omitempty"`
	Available          *bool    `json:"available,omitempty"`
	ImageURL           *string  `json:"image_url,omitempty"`
	Description        *string  `json:"description,omitempty"`
	IsVegetarian       *bool    `json:"is_vegetarian,omitempty"`
	IsVegan            *bool    `json:"is_vegan,omitempty"`
	IsGlutenFree       *bool    `json:"is_gluten_free,omitempty"`
	Allergens          []string `json:"allergens,omitempty"`
	IsDailySpecial     *bool    `json:"is_daily_special,omitempty"`
	DiscountPercentage *float64 `json:"discount_percentage,omitempty"`
	Calories           *int     `json:"calories,omitempty"`
	PreparationTime    *int     `json:"preparation_time,omitempty"`
}

func (p Patch) Validate() error {
	if p.Quantity != nil && *p.Quantity < 0 {
		return &ValidationError{Msg: "quantity must be >= 0"}
	}
	if p.Price != nil && *p.Price < 0 {
		return &ValidationError{Msg: "price must be >= 0"}
	}
	if p.DiscountPercentage != nil && (*p.DiscountPercentage < 0 || *p.DiscountPercentage > 100) {
		return &ValidationError{Msg: "discount_percentage must be between 0 and 100"}
	}
	return nil
}

// Apply returns a copy of it with the patch applied. Setting a quantity
// recomputes availability unless Available is also given.
func (p Patch) Apply(it Item) Item {
	if p.Name != nil {
		it.Name = *p.Name
	}
	if p.Category != nil {
		it.Category = *p.Category
	}
	if p.Price != nil {
		it.Price = *p.Price
	}
	if p.Quantity != nil {
		it.Quantity = *p.Quantity
		it.Available = *p.Quantity > 0
	}
	if p.Available != nil {
		it.Available = *p.Available
	}
	if p.ImageURL != nil {
		it.ImageURL = p.ImageURL
	}
	if p.Description != nil {
		it.Description = p.Description
	}
	if p.IsVegetarian != nil {
		it.IsVegetarian = *p.IsVegetarian
	}
	if p.IsVegan != nil {
		it.IsVegan = *p.IsVegan
	}
	if p.IsGlutenFree != nil {
		it.IsGlutenFree = *p.IsGlutenFree
	}
	if p.Allergens != nil {
		it.Allergens = append([]string(nil), p.Allergens...)
	}
	if p.IsDailySpecial != nil {
		it.IsDailySpecial = *p.IsDailySpecial
	}
	if p.DiscountPercentage != nil {
		it.DiscountPercentage = *p.DiscountPercentage
	}
	if p.Calories != nil {
		it.Calories = p.Calories
	}
	if p.PreparationTime != nil {
		it.PreparationTime = p.PreparationTime
	}
	return it
}

// ValidationError is a client-caused input problem; the message is user facing.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// Rating bounds accepted by Rate.
const (
	MinRating = 1
	MaxRating = 5
)
