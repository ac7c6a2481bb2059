// Package cart implements the order-composition engine: an ordered
// sequence of line items with a discount percentage, priced against a
// product catalog. Every operation is value-in/value-out; nothing here
// touches shared state, so callers get undo and testing for free.
package cart

import (
	"errors"

	"github.com/shopspring/decimal"

	"order-console/model"
)

var (
	// ErrInvalidQuantity covers quantities <= 0 and quantities above
	// the product's current inventory.
	ErrInvalidQuantity = errors.New("invalid quantity")
	// ErrProductNotFound is returned by Catalog implementations for
	// unknown product ids.
	ErrProductNotFound = errors.New("product not found")
	// ErrOutOfRange is returned for a bad line-item index.
	ErrOutOfRange = errors.New("item index out of range")
	// ErrEmptyCart rejects committing a cart with no items.
	ErrEmptyCart = errors.New("cart is empty")
)

// Catalog is the product lookup the engine needs. Implementations
// return ErrProductNotFound for unknown ids.
type Catalog interface {
	GetProduct(id string) (model.Product, error)
}

// Cart is the transient, pre-commit order state. The zero value is a
// valid empty cart with no discount.
type Cart struct {
	Items []model.OrderItem `json:"items"`
	// Discount is a percentage, always within [0,100]. Use SetDiscount
	// to change it; direct assignment bypasses clamping.
	Discount decimal.Decimal `json:"discount_percentage"`
}

// AddItem appends a line item for productID, with the price
// snapshotted from the catalog's current price. The quantity must be
// positive and no more than the product's current inventory.
func AddItem(c Cart, catalog Catalog, productID string, quantity int) (Cart, error) {
	if quantity <= 0 {
		return c, ErrInvalidQuantity
	}
	p, err := catalog.GetProduct(productID)
	if err != nil {
		return c, err
	}
	if quantity > p.Inventory {
		return c, ErrInvalidQuantity
	}
	items := make([]model.OrderItem, len(c.Items), len(c.Items)+1)
	copy(items, c.Items)
	items = append(items, model.OrderItem{
		ProductID: p.ID,
		Quantity:  quantity,
		Price:     p.Price,
	})
	c.Items = items
	return c, nil
}

// RemoveItem deletes the line at index, preserving the relative order
// of the remaining items.
func RemoveItem(c Cart, index int) (Cart, error) {
	if index < 0 || index >= len(c.Items) {
		return c, ErrOutOfRange
	}
	items := make([]model.OrderItem, 0, len(c.Items)-1)
	items = append(items, c.Items[:index]...)
	items = append(items, c.Items[index+1:]...)
	c.Items = items
	return c, nil
}

// UpdateQuantity replaces the quantity of the line at index. The new
// quantity is validated against the product's current inventory; an
// invalid update leaves the cart unchanged.
func UpdateQuantity(c Cart, catalog Catalog, index, quantity int) (Cart, error) {
	if index < 0 || index >= len(c.Items) {
		return c, ErrOutOfRange
	}
	if quantity <= 0 {
		return c, ErrInvalidQuantity
	}
	p, err := catalog.GetProduct(c.Items[index].ProductID)
	if err != nil {
		return c, err
	}
	if quantity > p.Inventory {
		return c, ErrInvalidQuantity
	}
	items := make([]model.OrderItem, len(c.Items))
	copy(items, c.Items)
	items[index].Quantity = quantity
	c.Items = items
	return c, nil
}

var hundred = decimal.NewFromInt(100)

// SetDiscount stores a discount percentage, clamped to [0,100]. Out of
// range input is never stored, so computation never needs to re-check.
func SetDiscount(c Cart, pct decimal.Decimal) Cart {
	if pct.LessThan(decimal.Zero) {
		pct = decimal.Zero
	} else if pct.GreaterThan(hundred) {
		pct = hundred
	}
	c.Discount = pct
	return c
}
