package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/redbuilds/storefront/internal/checkout"
)

// OrdersLog is the read side of the confirmed-orders log.
type OrdersLog interface {
	List(ctx context.Context) ([]checkout.Order, error)
}

type OrdersHandler struct {
	orders  OrdersLog
	timeout time.Duration
}

func NewOrdersHandler(orders OrdersLog, timeout time.Duration) *OrdersHandler {
	return &OrdersHandler{
		orders:  orders,
		timeout: timeout,
	}
}

func (h *OrdersHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	orders, err := h.orders.List(ctx)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "could not read orders")
		return
	}
	if orders == nil {
		orders = []checkout.Order{}
	}

	respondJSON(w, http.StatusOK, orders)
}
