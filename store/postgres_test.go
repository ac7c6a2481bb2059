package store

import (
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"order-console/cart"
	"order-console/model"
)

func TestPostgresGetProduct(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	defer db.Close()
	s := &PostgresStore{DB: db}

	rows := sqlmock.NewRows([]string{"id", "name", "description", "price", "inventory", "image"}).
		AddRow("1", "Widget", "a widget", "199.99", 50, "")
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, name, description, price, inventory, image FROM products WHERE id = $1`)).
		WithArgs("1").
		WillReturnRows(rows)

	p, err := s.GetProduct("1")
	if err != nil {
		t.Fatalf("GetProduct failed: %v", err)
	}
	if !p.Price.Equal(decimal.RequireFromString("199.99")) || p.Inventory != 50 {
		t.Fatalf("unexpected product: %+v", p)
	}

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, name, description, price, inventory, image FROM products WHERE id = $1`)).
		WithArgs("nope").
		WillReturnError(sql.ErrNoRows)
	if _, err := s.GetProduct("nope"); !errors.Is(err, cart.ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPostgresCommitOrder_Success(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()
	s := &PostgresStore{DB: db}

	createdAt := time.Now().UTC()
	order := model.Order{
		ID: "o77",
		Items: []model.OrderItem{
			{ProductID: "1", Quantity: 2, Price: decimal.RequireFromString("10.00")},
			{ProductID: "2", Quantity: 1, Price: decimal.RequireFromString("20.00")},
		},
		Total:     decimal.RequireFromString("40.00"),
		Status:    model.StatusPending,
		CreatedAt: createdAt,
		Customer:  "Ada",
		Tags:      []string{"vip"},
	}
	deltas := []cart.InventoryDelta{{ProductID: "1", Quantity: 2}, {ProductID: "2", Quantity: 1}}

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT inventory FROM products WHERE id = $1 FOR UPDATE`)).
		WithArgs("1").
		WillReturnRows(sqlmock.NewRows([]string{"inventory"}).AddRow(5))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE products SET inventory = inventory - $1 WHERE id = $2`)).
		WithArgs(2, "1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT inventory FROM products WHERE id = $1 FOR UPDATE`)).
		WithArgs("2").
		WillReturnRows(sqlmock.NewRows([]string{"inventory"}).AddRow(3))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE products SET inventory = inventory - $1 WHERE id = $2`)).
		WithArgs(1, "2").
		WillReturnResult(sqlmock.NewResult(0, 1))

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO orders (id, total, status, created_at, customer, notes, tags) VALUES ($1,$2,$3,$4,$5,$6,$7)`)).
		WithArgs("o77", order.Total, "pending", createdAt, "Ada", "", pq.Array(order.Tags)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	mock.ExpectPrepare(regexp.QuoteMeta(`INSERT INTO order_items (order_id, position, product_id, quantity, price) VALUES ($1,$2,$3,$4,$5)`))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO order_items (order_id, position, product_id, quantity, price) VALUES ($1,$2,$3,$4,$5)`)).
		WithArgs("o77", 0, "1", 2, order.Items[0].Price).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO order_items (order_id, position, product_id, quantity, price) VALUES ($1,$2,$3,$4,$5)`)).
		WithArgs("o77", 1, "2", 1, order.Items[1].Price).
		WillReturnResult(sqlmock.NewResult(0, 1))

	mock.ExpectCommit()

	if err := s.CommitOrder(order, deltas); err != nil {
		t.Fatalf("CommitOrder failed: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

// An order without tags (the common case) must insert an empty array,
// not NULL, or the NOT NULL tags column fails the whole commit.
func TestPostgresCommitOrder_NilTags(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()
	s := &PostgresStore{DB: db}

	createdAt := time.Now().UTC()
	order := model.Order{
		ID:        "o9",
		Items:     []model.OrderItem{{ProductID: "1", Quantity: 1, Price: decimal.RequireFromString("10.00")}},
		Total:     decimal.RequireFromString("10.00"),
		Status:    model.StatusPending,
		CreatedAt: createdAt,
	}

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT inventory FROM products WHERE id = $1 FOR UPDATE`)).
		WithArgs("1").
		WillReturnRows(sqlmock.NewRows([]string{"inventory"}).AddRow(5))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE products SET inventory = inventory - $1 WHERE id = $2`)).
		WithArgs(1, "1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO orders (id, total, status, created_at, customer, notes, tags) VALUES ($1,$2,$3,$4,$5,$6,$7)`)).
		WithArgs("o9", order.Total, "pending", createdAt, "", "", pq.Array([]string{})).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectPrepare(regexp.QuoteMeta(`INSERT INTO order_items (order_id, position, product_id, quantity, price) VALUES ($1,$2,$3,$4,$5)`))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO order_items (order_id, position, product_id, quantity, price) VALUES ($1,$2,$3,$4,$5)`)).
		WithArgs("o9", 0, "1", 1, order.Items[0].Price).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	if err := s.CommitOrder(order, []cart.InventoryDelta{{ProductID: "1", Quantity: 1}}); err != nil {
		t.Fatalf("CommitOrder failed: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPostgresCommitOrder_InsufficientInventoryRollsBack(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()
	s := &PostgresStore{DB: db}

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT inventory FROM products WHERE id = $1 FOR UPDATE`)).
		WithArgs("1").
		WillReturnRows(sqlmock.NewRows([]string{"inventory"}).AddRow(1))
	mock.ExpectRollback()

	order := model.Order{ID: "o1", Status: model.StatusPending}
	err := s.CommitOrder(order, []cart.InventoryDelta{{ProductID: "1", Quantity: 5}})
	if !errors.Is(err, ErrInsufficientInventory) {
		t.Fatalf("expected ErrInsufficientInventory, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPostgresCommitOrder_UnknownProductRollsBack(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()
	s := &PostgresStore{DB: db}

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT inventory FROM products WHERE id = $1 FOR UPDATE`)).
		WithArgs("zzz").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	err := s.CommitOrder(model.Order{ID: "o1"}, []cart.InventoryDelta{{ProductID: "zzz", Quantity: 1}})
	if !errors.Is(err, cart.ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPostgresUpdateStatus(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()
	s := &PostgresStore{DB: db}

	// valid: pending -> processing
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT status FROM orders WHERE id = $1 FOR UPDATE`)).
		WithArgs("o1").
		WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("pending"))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE orders SET status = $1 WHERE id = $2`)).
		WithArgs("processing", "o1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	if err := s.UpdateStatus("o1", model.StatusProcessing); err != nil {
		t.Fatalf("UpdateStatus failed: %v", err)
	}

	// terminal: completed rejects everything
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT status FROM orders WHERE id = $1 FOR UPDATE`)).
		WithArgs("o2").
		WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("completed"))
	mock.ExpectRollback()

	if err := s.UpdateStatus("o2", model.StatusCancelled); !errors.Is(err, model.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPostgresGetOrder(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()
	s := &PostgresStore{DB: db}

	createdAt := time.Now().UTC()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, total, status, created_at, customer, notes, tags FROM orders WHERE id = $1`)).
		WithArgs("o1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "total", "status", "created_at", "customer", "notes", "tags"}).
			AddRow("o1", "270.00", "pending", createdAt, "Ada", "", "{vip,q3}"))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT order_id, product_id, quantity, price FROM order_items WHERE order_id = ANY($1) ORDER BY order_id, position`)).
		WithArgs(pq.Array([]string{"o1"})).
		WillReturnRows(sqlmock.NewRows([]string{"order_id", "product_id", "quantity", "price"}).
			AddRow("o1", "1", 3, "100.00"))

	o, err := s.GetOrder("o1")
	if err != nil {
		t.Fatalf("GetOrder failed: %v", err)
	}
	if o.Status != model.StatusPending || len(o.Items) != 1 || len(o.Tags) != 2 {
		t.Fatalf("unexpected order: %+v", o)
	}
	if !o.Total.Equal(decimal.RequireFromString("270.00")) {
		t.Fatalf("total = %s", o.Total)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
