package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a catalog entry. Inventory is decremented only when an
// order is committed; products are never deleted.
type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Inventory   int             `json:"inventory"`
	Description string          `json:"description"`
	Image       string          `json:"image"`
}

// OrderItem is one line in a cart or committed order. Price is a
// snapshot taken when the item was added, not a live catalog reference.
type OrderItem struct {
	ProductID string          `json:"product_id"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

// Subtotal returns price × quantity for this line.
func (it OrderItem) Subtotal() decimal.Decimal {
	return it.Price.Mul(decimal.NewFromInt(int64(it.Quantity)))
}

// Order is a committed cart. Orders are append-only: created once,
// only the status changes afterwards.
type Order struct {
	ID        string          `json:"id"`
	Items     []OrderItem     `json:"items"`
	Total     decimal.Decimal `json:"total"`
	Status    OrderStatus     `json:"status"`
	CreatedAt time.Time       `json:"created_at"`
	Customer  string          `json:"customer,omitempty"`
	Notes     string          `json:"notes,omitempty"`
	Tags      []string        `json:"tags,omitempty"`
}
