package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"order-console/cart"
	"order-console/invoice"
	"order-console/model"
	"order-console/service"
	"order-console/store"
)

// Handler is the HTTP layer that talks to service.ServiceInterface.
type Handler struct {
	svc    service.ServiceInterface
	sender *invoice.Sender
}

func NewHandler(s service.ServiceInterface, sender *invoice.Sender) *Handler {
	return &Handler{svc: s, sender: sender}
}

// RegisterRoutes registers all routes on the provided router
func (h *Handler) RegisterRoutes(r *mux.Router) {
	// Products
	r.HandleFunc("/products/list", h.ListProducts).Methods("GET")
	r.HandleFunc("/products/inventory", h.AdjustInventory).Methods("POST")

	// Cart
	r.HandleFunc("/cart/add", h.AddItem).Methods("POST")
	r.HandleFunc("/cart/remove", h.RemoveItem).Methods("POST")
	r.HandleFunc("/cart/quantity", h.UpdateQuantity).Methods("POST")
	r.HandleFunc("/cart/discount", h.SetDiscount).Methods("POST")
	r.HandleFunc("/cart/list", h.ShowCart).Methods("GET")
	r.HandleFunc("/cart/clear", h.ClearCart).Methods("POST")

	// Checkout
	r.HandleFunc("/checkout/order", h.Checkout).Methods("POST")

	// Orders
	r.HandleFunc("/orders/list", h.ListOrders).Methods("GET")
	r.HandleFunc("/orders/status", h.UpdateStatus).Methods("POST")
	r.HandleFunc("/orders/invoice", h.SendInvoice).Methods("POST")
	r.HandleFunc("/orders/{id}", h.GetOrder).Methods("GET")
}

// --- request shapes ---

type addItemReq struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type indexReq struct {
	Index int `json:"index"`
}

type updateQuantityReq struct {
	Index    int `json:"index"`
	Quantity int `json:"quantity"`
}

type discountReq struct {
	Percentage decimal.Decimal `json:"percentage"`
}

type adjustInventoryReq struct {
	ProductID string `json:"product_id"`
	Delta     int    `json:"delta"`
}

type checkoutReq struct {
	Customer string `json:"customer,omitempty"`
	Notes    string `json:"notes,omitempty"`
	Tags     string `json:"tags,omitempty"` // comma separated
}

type updateStatusReq struct {
	OrderID string `json:"order_id"`
	Status  string `json:"status"`
}

// --- helpers ---

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

// statusFor maps engine errors to HTTP codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, cart.ErrProductNotFound), errors.Is(err, store.ErrOrderNotFound):
		return http.StatusNotFound
	case errors.Is(err, store.ErrInsufficientInventory):
		return http.StatusConflict
	case errors.Is(err, cart.ErrInvalidQuantity),
		errors.Is(err, cart.ErrOutOfRange),
		errors.Is(err, cart.ErrEmptyCart),
		errors.Is(err, model.ErrInvalidTransition),
		errors.Is(err, invoice.ErrInvalidEmail),
		errors.Is(err, invoice.ErrNoRecipient):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// parseTags splits a comma-separated tag string, trimming whitespace
// and dropping empty entries.
func parseTags(s string) []string {
	if s == "" {
		return nil
	}
	var tags []string
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

type cartResp struct {
	Items    []model.OrderItem `json:"items"`
	Discount decimal.Decimal   `json:"discount_percentage"`
	Totals   cart.Totals       `json:"totals"`
}

func cartJSON(c cart.Cart) cartResp {
	items := c.Items
	if items == nil {
		items = []model.OrderItem{}
	}
	return cartResp{Items: items, Discount: c.Discount, Totals: cart.ComputeTotals(c)}
}

// --- Handlers ---

// ListProducts handles GET /products/list?search=
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	ps, err := h.svc.ListProducts(r.URL.Query().Get("search"))
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, ps)
}

// AdjustInventory handles POST /products/inventory
// body: { "product_id": "1", "delta": -5 }  (negative delta restocks)
func (h *Handler) AdjustInventory(w http.ResponseWriter, r *http.Request) {
	var req adjustInventoryReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.ProductID == "" {
		writeErr(w, http.StatusBadRequest, "product_id required")
		return
	}
	if err := h.svc.AdjustInventory(req.ProductID, req.Delta); err != nil {
		writeErr(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// AddItem handles POST /cart/add
// body: { "product_id": "1", "quantity": 2 }
func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req addItemReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.ProductID == "" {
		writeErr(w, http.StatusBadRequest, "product_id required")
		return
	}
	c, err := h.svc.AddItem(req.ProductID, req.Quantity)
	if err != nil {
		writeErr(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, cartJSON(c))
}

// RemoveItem handles POST /cart/remove
// body: { "index": 0 }
func (h *Handler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	var req indexReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	c, err := h.svc.RemoveItem(req.Index)
	if err != nil {
		writeErr(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, cartJSON(c))
}

// UpdateQuantity handles POST /cart/quantity
// body: { "index": 0, "quantity": 3 }
func (h *Handler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	var req updateQuantityReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	c, err := h.svc.UpdateQuantity(req.Index, req.Quantity)
	if err != nil {
		writeErr(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, cartJSON(c))
}

// SetDiscount handles POST /cart/discount
// body: { "percentage": 10 } — values outside [0,100] are clamped.
func (h *Handler) SetDiscount(w http.ResponseWriter, r *http.Request) {
	var req discountReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	writeJSON(w, http.StatusOK, cartJSON(h.svc.SetDiscount(req.Percentage)))
}

// ShowCart handles GET /cart/list
func (h *Handler) ShowCart(w http.ResponseWriter, r *http.Request) {
	c, _ := h.svc.Cart()
	writeJSON(w, http.StatusOK, cartJSON(c))
}

// ClearCart handles POST /cart/clear
func (h *Handler) ClearCart(w http.ResponseWriter, r *http.Request) {
	h.svc.ClearCart()
	writeJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

// Checkout handles POST /checkout/order
// body: { "customer": "...", "notes": "...", "tags": "a, b" }
func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req checkoutReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	ord, err := h.svc.CommitOrder(req.Customer, req.Notes, parseTags(req.Tags))
	if err != nil {
		writeErr(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, ord)
}

// ListOrders handles GET /orders/list?query=&status=
func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	status := model.OrderStatus(r.URL.Query().Get("status"))
	if status != "" && !status.Valid() {
		writeErr(w, http.StatusBadRequest, "unknown status")
		return
	}
	orders, err := h.svc.ListOrders(r.URL.Query().Get("query"), status)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

// GetOrder handles GET /orders/{id}
func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	ord, err := h.svc.GetOrder(mux.Vars(r)["id"])
	if err != nil {
		writeErr(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, ord)
}

// UpdateStatus handles POST /orders/status
// body: { "order_id": "...", "status": "processing" }
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req updateStatusReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.OrderID == "" {
		writeErr(w, http.StatusBadRequest, "order_id required")
		return
	}
	if err := h.svc.UpdateStatus(req.OrderID, model.OrderStatus(req.Status)); err != nil {
		writeErr(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

// SendInvoice handles POST /orders/invoice
// body: { "order_id": "...", "to": "a@b.com", "cc": "", "bcc": "", "message": "" }
func (h *Handler) SendInvoice(w http.ResponseWriter, r *http.Request) {
	var req invoice.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	if _, err := h.svc.GetOrder(req.OrderID); err != nil {
		writeErr(w, statusFor(err), err.Error())
		return
	}
	if err := h.sender.Send(r.Context(), req); err != nil {
		writeErr(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "sent"})
}
