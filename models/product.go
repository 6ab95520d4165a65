package models

import "time"

// Category is a fixed catalog grouping. CategoryAll is a filter
// pseudo-value and is never stored on a product.
type Category string

const (
	CategoryAll     Category = "All"
	CategoryCoffee  Category = "Coffee"
	CategoryBakery  Category = "Bakery"
	CategoryDessert Category = "Dessert"
	CategoryDrinks  Category = "Drinks"
)

// StoredCategories are the values a product may carry.
var StoredCategories = []Category{CategoryCoffee, CategoryBakery, CategoryDessert, CategoryDrinks}

// IsStored reports whether c is a valid stored category.
func (c Category) IsStored() bool {
	for _, sc := range StoredCategories {
		if c == sc {
			return true
		}
	}
	return false
}

// Status is a product's stock state.
type Status string

const (
	StatusInStock Status = "In Stock"
	StatusSoldOut Status = "Sold Out"
)

// IsValid reports whether s is a known status.
func (s Status) IsValid() bool {
	return s == StatusInStock || s == StatusSoldOut
}

// Product is a catalog entry. The backing collection is the sole source
// of truth; in-memory copies are read-only projections. Persistence has
// its own document shape in the repository layer.
type Product struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Price     float64   `json:"price"`
	Unit      string    `json:"unit"`
	Detail    string    `json:"detail"`
	Image     string    `json:"image"`
	Category  Category  `json:"category"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// ProductRequest carries the editable fields for create and update.
type ProductRequest struct {
	Title    string   `json:"title"`
	Price    *float64 `json:"price"`
	Unit     string   `json:"unit"`
	Detail   string   `json:"detail"`
	Image    string   `json:"image"`
	Category Category `json:"category"`
	Status   Status   `json:"status"`
}
