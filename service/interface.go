package service

import (
	"github.com/shopspring/decimal"

	"order-console/cart"
	"order-console/model"
)

type ServiceInterface interface {
	ListProducts(search string) ([]model.Product, error)
	AdjustInventory(productID string, delta int) error

	AddItem(productID string, quantity int) (cart.Cart, error)
	RemoveItem(index int) (cart.Cart, error)
	UpdateQuantity(index, quantity int) (cart.Cart, error)
	SetDiscount(pct decimal.Decimal) cart.Cart
	Cart() (cart.Cart, cart.Totals)
	ClearCart()

	CommitOrder(customer, notes string, tags []string) (model.Order, error)
	GetOrder(id string) (model.Order, error)
	ListOrders(query string, status model.OrderStatus) ([]model.Order, error)
	UpdateStatus(orderID string, status model.OrderStatus) error
}
