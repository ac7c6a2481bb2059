package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"order-console/cart"
	"order-console/model"
)

// PostgresStore is a Store backed by Postgres. Commit atomicity comes
// from a single transaction; product rows are locked FOR UPDATE while
// deltas apply.
type PostgresStore struct {
	DB *sql.DB
}

func NewPostgresStore(dsn string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}
	return &PostgresStore{DB: db}, nil
}

func (s *PostgresStore) Close() error { return s.DB.Close() }

func (s *PostgresStore) GetProduct(id string) (model.Product, error) {
	var p model.Product
	err := s.DB.QueryRow(
		`SELECT id, name, description, price, inventory, image FROM products WHERE id = $1`, id,
	).Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Inventory, &p.Image)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Product{}, cart.ErrProductNotFound
	}
	if err != nil {
		return model.Product{}, err
	}
	return p, nil
}

func (s *PostgresStore) ListProducts() ([]model.Product, error) {
	rows, err := s.DB.Query(`SELECT id, name, description, price, inventory, image FROM products ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.Product{}
	for rows.Next() {
		var p model.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Inventory, &p.Image); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// applyDeltasTx locks each product row, validates, and decrements.
// Runs inside the caller's transaction.
func applyDeltasTx(tx *sql.Tx, deltas []cart.InventoryDelta) error {
	for _, d := range deltas {
		var inv int
		err := tx.QueryRow(`SELECT inventory FROM products WHERE id = $1 FOR UPDATE`, d.ProductID).Scan(&inv)
		if errors.Is(err, sql.ErrNoRows) {
			return cart.ErrProductNotFound
		}
		if err != nil {
			return err
		}
		if inv-d.Quantity < 0 {
			return ErrInsufficientInventory
		}
		if _, err := tx.Exec(`UPDATE products SET inventory = inventory - $1 WHERE id = $2`, d.Quantity, d.ProductID); err != nil {
			return err
		}
	}
	return nil
}

func (s *PostgresStore) CommitOrder(order model.Order, deltas []cart.InventoryDelta) error {
	tx, err := s.DB.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := applyDeltasTx(tx, deltas); err != nil {
		return err
	}

	// nil tags would marshal to SQL NULL and violate the NOT NULL column
	tags := order.Tags
	if tags == nil {
		tags = []string{}
	}
	if _, err := tx.Exec(
		`INSERT INTO orders (id, total, status, created_at, customer, notes, tags) VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		order.ID, order.Total, string(order.Status), order.CreatedAt, order.Customer, order.Notes, pq.Array(tags),
	); err != nil {
		return err
	}

	stmt, err := tx.Prepare(`INSERT INTO order_items (order_id, position, product_id, quantity, price) VALUES ($1,$2,$3,$4,$5)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for i, it := range order.Items {
		if _, err := stmt.Exec(order.ID, i, it.ProductID, it.Quantity, it.Price); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (s *PostgresStore) GetOrder(id string) (model.Order, error) {
	var o model.Order
	var tags pq.StringArray
	err := s.DB.QueryRow(
		`SELECT id, total, status, created_at, customer, notes, tags FROM orders WHERE id = $1`, id,
	).Scan(&o.ID, &o.Total, &o.Status, &o.CreatedAt, &o.Customer, &o.Notes, &tags)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Order{}, ErrOrderNotFound
	}
	if err != nil {
		return model.Order{}, err
	}
	o.Tags = tags
	items, err := s.orderItems([]string{id})
	if err != nil {
		return model.Order{}, err
	}
	o.Items = items[id]
	return o, nil
}

func (s *PostgresStore) ListOrders() ([]model.Order, error) {
	rows, err := s.DB.Query(`SELECT id, total, status, created_at, customer, notes, tags FROM orders ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := []model.Order{}
	ids := []string{}
	for rows.Next() {
		var o model.Order
		var tags pq.StringArray
		if err := rows.Scan(&o.ID, &o.Total, &o.Status, &o.CreatedAt, &o.Customer, &o.Notes, &tags); err != nil {
			return nil, err
		}
		o.Tags = tags
		orders = append(orders, o)
		ids = append(ids, o.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	items, err := s.orderItems(ids)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		orders[i].Items = items[orders[i].ID]
	}
	return orders, nil
}

func (s *PostgresStore) orderItems(orderIDs []string) (map[string][]model.OrderItem, error) {
	if len(orderIDs) == 0 {
		return map[string][]model.OrderItem{}, nil
	}
	rows, err := s.DB.Query(
		`SELECT order_id, product_id, quantity, price FROM order_items WHERE order_id = ANY($1) ORDER BY order_id, position`,
		pq.Array(orderIDs),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make(map[string][]model.OrderItem)
	for rows.Next() {
		var orderID string
		var it model.OrderItem
		if err := rows.Scan(&orderID, &it.ProductID, &it.Quantity, &it.Price); err != nil {
			return nil, err
		}
		out[orderID] = append(out[orderID], it)
	}
	return out, rows.Err()
}

// UpdateStatus enforces the status state machine inside a transaction.
// Cancelling does not restock inventory.
func (s *PostgresStore) UpdateStatus(orderID string, status model.OrderStatus) error {
	tx, err := s.DB.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var current model.OrderStatus
	err = tx.QueryRow(`SELECT status FROM orders WHERE id = $1 FOR UPDATE`, orderID).Scan(&current)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrOrderNotFound
	}
	if err != nil {
		return err
	}
	next, err := current.Transition(status)
	if err != nil {
		return err
	}
	if _, err := tx.Exec(`UPDATE orders SET status = $1 WHERE id = $2`, string(next), orderID); err != nil {
		return err
	}
	return tx.Commit()
}

// ApplyDeltas adjusts inventories outside an order commit (admin
// restock or correction), all-or-nothing.
func (s *PostgresStore) ApplyDeltas(deltas []cart.InventoryDelta) error {
	tx, err := s.DB.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if err := applyDeltasTx(tx, deltas); err != nil {
		return err
	}
	return tx.Commit()
}

// SeedProducts inserts missing catalog rows, leaving existing ones
// untouched so restarts do not reset inventory.
func (s *PostgresStore) SeedProducts(products []model.Product) error {
	for _, p := range products {
		if _, err := s.DB.Exec(
			`INSERT INTO products (id, name, description, price, inventory, image)
			 VALUES ($1,$2,$3,$4,$5,$6)
			 ON CONFLICT (id) DO NOTHING`,
			p.ID, p.Name, p.Description, p.Price, p.Inventory, p.Image,
		); err != nil {
			return fmt.Errorf("seed product %s: %w", p.ID, err)
		}
	}
	return nil
}
