package store

import (
	"sync"

	"order-console/cart"
	"order-console/model"
)

// MemoryStore is the default in-process store, seeded from a static
// product list. A single mutex guards both catalog and order history
// so CommitOrder is trivially atomic.
type MemoryStore struct {
	mu       sync.Mutex
	products map[string]model.Product
	// ids preserves catalog listing order.
	ids    []string
	orders []model.Order
}

// NewMemoryStore builds a store holding the given catalog. Products
// are listed in the order given.
func NewMemoryStore(seed []model.Product) *MemoryStore {
	s := &MemoryStore{products: make(map[string]model.Product, len(seed))}
	for _, p := range seed {
		if _, ok := s.products[p.ID]; !ok {
			s.ids = append(s.ids, p.ID)
		}
		s.products[p.ID] = p
	}
	return s
}

func (s *MemoryStore) GetProduct(id string) (model.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	if !ok {
		return model.Product{}, cart.ErrProductNotFound
	}
	return p, nil
}

func (s *MemoryStore) ListProducts() ([]model.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Product, 0, len(s.ids))
	for _, id := range s.ids {
		out = append(out, s.products[id])
	}
	return out, nil
}

// applyDeltasLocked validates every delta before mutating anything, so
// a failure leaves the catalog untouched. Caller holds s.mu.
func (s *MemoryStore) applyDeltasLocked(deltas []cart.InventoryDelta) error {
	for _, d := range deltas {
		p, ok := s.products[d.ProductID]
		if !ok {
			return cart.ErrProductNotFound
		}
		if p.Inventory-d.Quantity < 0 {
			return ErrInsufficientInventory
		}
	}
	for _, d := range deltas {
		p := s.products[d.ProductID]
		p.Inventory -= d.Quantity
		s.products[d.ProductID] = p
	}
	return nil
}

func (s *MemoryStore) ApplyDeltas(deltas []cart.InventoryDelta) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.applyDeltasLocked(deltas)
}

func (s *MemoryStore) CommitOrder(order model.Order, deltas []cart.InventoryDelta) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.applyDeltasLocked(deltas); err != nil {
		return err
	}
	s.orders = append(s.orders, order)
	return nil
}

func (s *MemoryStore) GetOrder(id string) (model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, o := range s.orders {
		if o.ID == id {
			return o, nil
		}
	}
	return model.Order{}, ErrOrderNotFound
}

func (s *MemoryStore) ListOrders() ([]model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Order, len(s.orders))
	copy(out, s.orders)
	return out, nil
}

// UpdateStatus applies the order status state machine. Cancelling an
// order does not restock inventory.
func (s *MemoryStore) UpdateStatus(orderID string, status model.OrderStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.orders {
		if s.orders[i].ID != orderID {
			continue
		}
		next, err := s.orders[i].Status.Transition(status)
		if err != nil {
			return err
		}
		s.orders[i].Status = next
		return nil
	}
	return ErrOrderNotFound
}

func (s *MemoryStore) Close() error { return nil }
