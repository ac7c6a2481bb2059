package main

// Order console API:
// GET  /products/list      - list catalog products (?search= filters by name)
// POST /products/inventory - adjust product inventory by delta
// POST /cart/add           - add a line item to the cart
// POST /cart/remove        - remove a line item by index
// POST /cart/quantity      - change a line item quantity
// POST /cart/discount      - set the discount percentage (clamped 0-100)
// GET  /cart/list          - show cart items and totals
// POST /cart/clear         - discard the in-progress cart
// POST /checkout/order     - commit the cart into a pending order
// GET  /orders/list        - list orders (?query= id substring, ?status=)
// GET  /orders/{id}        - fetch one order
// POST /orders/status      - move an order through its status machine
// POST /orders/invoice     - simulated invoice email send

import (
	_ "embed"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/mux"

	"order-console/handler"
	"order-console/invoice"
	"order-console/service"
	"order-console/store"
)

//go:embed migrations.sql
var migrationSQL string

func main() {
	addr := os.Getenv("LISTEN_ADDR")
	if addr == "" {
		addr = ":8082"
	}

	// In-process store by default; Postgres when DATABASE_URL is set.
	var st store.Store
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		pg, err := store.NewPostgresStore(dsn)
		if err != nil {
			log.Fatalf("DB connection failed: %v", err)
		}
		if _, err := pg.DB.Exec(migrationSQL); err != nil {
			log.Fatalf("Failed running migrations: %v", err)
		}
		if err := pg.SeedProducts(store.Seed()); err != nil {
			log.Fatalf("Failed seeding catalog: %v", err)
		}
		log.Println("Using Postgres store")
		st = pg
	} else {
		st = store.NewMemoryStore(store.Seed())
		log.Println("Using in-memory store")
	}
	defer st.Close()

	svc := service.NewService(st)
	var serviceInterface service.ServiceInterface = svc

	sender := invoice.NewSender(1200 * time.Millisecond)

	h := handler.NewHandler(serviceInterface, sender)

	r := mux.NewRouter()
	h.RegisterRoutes(r)

	log.Printf("Server running on %s", addr)
	if err := http.ListenAndServe(addr, r); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
