package models

import "time"

// CartLine is one (product, quantity) entry in a cart. It snapshots the
// product fields at add time, matching the storefront's display needs.
type CartLine struct {
	ProductID string  `json:"product_id"`
	Title     string  `json:"title"`
	Price     float64 `json:"price"`
	Unit      string  `json:"unit"`
	Image     string  `json:"image"`
	Quantity  int     `json:"quantity"`
}

// Cart is a session-scoped ledger of lines in first-added order.
type Cart struct {
	SessionID string     `json:"session_id"`
	Lines     []CartLine `json:"lines"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// CartSummary is the checkout display payload. Totals are computed from
// full-precision accumulation; rounding happens only at render time.
type CartSummary struct {
	Lines    []CartLine `json:"lines"`
	Subtotal float64    `json:"subtotal"`
	Tax      float64    `json:"tax"`
	Total    float64    `json:"total"`
}
