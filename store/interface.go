package store

import (
	"errors"

	"order-console/cart"
	"order-console/model"
)

var (
	// ErrInsufficientInventory is returned when a commit would drive a
	// product's inventory below zero.
	ErrInsufficientInventory = errors.New("insufficient inventory")
	// ErrOrderNotFound is returned for unknown order ids.
	ErrOrderNotFound = errors.New("order not found")
)

// Catalog is the product side of the store. GetProduct returns
// cart.ErrProductNotFound for unknown ids.
type Catalog interface {
	GetProduct(id string) (model.Product, error)
	ListProducts() ([]model.Product, error)
	// ApplyDeltas subtracts quantities from product inventories,
	// all-or-nothing. Positive quantities decrement; negative restock.
	ApplyDeltas(deltas []cart.InventoryDelta) error
}

// OrderStore is the append-only order history.
type OrderStore interface {
	// CommitOrder appends the order and applies its inventory deltas
	// atomically: either both happen or neither does.
	CommitOrder(order model.Order, deltas []cart.InventoryDelta) error
	GetOrder(id string) (model.Order, error)
	ListOrders() ([]model.Order, error)
	UpdateStatus(orderID string, status model.OrderStatus) error
}

// Store is what the service layer works against.
type Store interface {
	Catalog
	OrderStore
	Close() error
}
