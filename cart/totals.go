package cart

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"order-console/model"
)

// Totals are derived from the cart; all three values are exact
// decimals, rounded only at presentation boundaries.
type Totals struct {
	Subtotal       decimal.Decimal `json:"subtotal"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	Total          decimal.Decimal `json:"total"`
}

// ComputeTotals sums the line items and applies the discount:
// subtotal = Σ price×qty, discount = subtotal×pct/100, total is the
// difference. No intermediate rounding.
func ComputeTotals(c Cart) Totals {
	subtotal := decimal.Zero
	for _, it := range c.Items {
		subtotal = subtotal.Add(it.Subtotal())
	}
	discount := subtotal.Mul(c.Discount).Div(hundred)
	return Totals{
		Subtotal:       subtotal,
		DiscountAmount: discount,
		Total:          subtotal.Sub(discount),
	}
}

// InventoryDelta is a quantity to subtract from a product's inventory
// when an order commits.
type InventoryDelta struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// Commit freezes the cart into a pending order plus the inventory
// deltas to apply against the catalog. It has no side effects; the
// caller is responsible for applying order and deltas atomically.
// Deltas are aggregated per product in first-seen order.
func Commit(c Cart, customer, notes string, tags []string) (model.Order, []InventoryDelta, error) {
	if len(c.Items) == 0 {
		return model.Order{}, nil, ErrEmptyCart
	}

	items := make([]model.OrderItem, len(c.Items))
	copy(items, c.Items)

	// copy tags too, so later caller mutations cannot reach the frozen order
	var frozenTags []string
	if len(tags) > 0 {
		frozenTags = append([]string(nil), tags...)
	}

	byProduct := make(map[string]int, len(items))
	var deltas []InventoryDelta
	for _, it := range items {
		if i, ok := byProduct[it.ProductID]; ok {
			deltas[i].Quantity += it.Quantity
			continue
		}
		byProduct[it.ProductID] = len(deltas)
		deltas = append(deltas, InventoryDelta{ProductID: it.ProductID, Quantity: it.Quantity})
	}

	order := model.Order{
		ID:        uuid.NewString(),
		Items:     items,
		Total:     ComputeTotals(c).Total,
		Status:    model.StatusPending,
		CreatedAt: time.Now().UTC(),
		Customer:  customer,
		Notes:     notes,
		Tags:      frozenTags,
	}
	return order, deltas, nil
}
