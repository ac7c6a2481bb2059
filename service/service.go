package service

import (
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"order-console/cart"
	"order-console/model"
	"order-console/store"
)

// Service orchestrates the cart engine against the store. It owns the
// single in-progress order-creation session; the mutex serializes cart
// access since HTTP handlers run concurrently.
type Service struct {
	store store.Store

	mu   sync.Mutex
	cart cart.Cart
}

func NewService(s store.Store) *Service {
	return &Service{store: s}
}

// ListProducts returns the catalog, optionally filtered by a
// case-insensitive name substring.
func (s *Service) ListProducts(search string) ([]model.Product, error) {
	products, err := s.store.ListProducts()
	if err != nil {
		return nil, err
	}
	if search == "" {
		return products, nil
	}
	needle := strings.ToLower(search)
	out := make([]model.Product, 0, len(products))
	for _, p := range products {
		if strings.Contains(strings.ToLower(p.Name), needle) {
			out = append(out, p)
		}
	}
	return out, nil
}

// AdjustInventory applies a single inventory correction: positive
// delta subtracts stock, negative restocks.
func (s *Service) AdjustInventory(productID string, delta int) error {
	return s.store.ApplyDeltas([]cart.InventoryDelta{{ProductID: productID, Quantity: delta}})
}

func (s *Service) AddItem(productID string, quantity int) (cart.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, err := cart.AddItem(s.cart, s.store, productID, quantity)
	if err != nil {
		return s.cart, err
	}
	s.cart = next
	return s.cart, nil
}

func (s *Service) RemoveItem(index int) (cart.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, err := cart.RemoveItem(s.cart, index)
	if err != nil {
		return s.cart, err
	}
	s.cart = next
	return s.cart, nil
}

func (s *Service) UpdateQuantity(index, quantity int) (cart.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, err := cart.UpdateQuantity(s.cart, s.store, index, quantity)
	if err != nil {
		return s.cart, err
	}
	s.cart = next
	return s.cart, nil
}

func (s *Service) SetDiscount(pct decimal.Decimal) cart.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart = cart.SetDiscount(s.cart, pct)
	return s.cart
}

func (s *Service) Cart() (cart.Cart, cart.Totals) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart, cart.ComputeTotals(s.cart)
}

// ClearCart discards the in-progress session (navigation away).
func (s *Service) ClearCart() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart = cart.Cart{}
}

// CommitOrder freezes the cart into a pending order and applies it
// with its inventory deltas in one atomic store operation. The cart is
// reset only after the store accepts the commit; on failure the
// session stays intact so the user can adjust and retry.
func (s *Service) CommitOrder(customer, notes string, tags []string) (model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	order, deltas, err := cart.Commit(s.cart, customer, notes, tags)
	if err != nil {
		return model.Order{}, err
	}
	if err := s.store.CommitOrder(order, deltas); err != nil {
		return model.Order{}, err
	}
	s.cart = cart.Cart{}
	return order, nil
}

func (s *Service) GetOrder(id string) (model.Order, error) {
	return s.store.GetOrder(id)
}

// ListOrders filters the history by id substring and/or status. Empty
// query and empty status mean no filtering.
func (s *Service) ListOrders(query string, status model.OrderStatus) ([]model.Order, error) {
	orders, err := s.store.ListOrders()
	if err != nil {
		return nil, err
	}
	if query == "" && status == "" {
		return orders, nil
	}
	out := make([]model.Order, 0, len(orders))
	for _, o := range orders {
		if query != "" && !strings.Contains(o.ID, query) {
			continue
		}
		if status != "" && o.Status != status {
			continue
		}
		out = append(out, o)
	}
	return out, nil
}

func (s *Service) UpdateStatus(orderID string, status model.OrderStatus) error {
	if !status.Valid() {
		return model.ErrInvalidTransition
	}
	return s.store.UpdateStatus(orderID, status)
}
