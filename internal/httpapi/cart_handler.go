package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/redbuilds/storefront/internal/cart"
	"github.com/redbuilds/storefront/internal/catalog"
)

// CartEngine is the cart surface the HTTP layer drives.
type CartEngine interface {
	AddItem(ctx context.Context, p catalog.Product) error
	UpdateQuantity(ctx context.Context, id int64, quantity int) error
	RemoveItem(ctx context.Context, id int64) error
	Clear(ctx context.Context) error
	Snapshot() []cart.Line
	Total() int64
	ItemCount() int
}

type CartHandler struct {
	engine  CartEngine
	catalog Catalog
	timeout time.Duration
}

func NewCartHandler(engine CartEngine, c Catalog, timeout time.Duration) *CartHandler {
	return &CartHandler{
		engine:  engine,
		catalog: c,
		timeout: timeout,
	}
}

type AddItemRequestDTO struct {
	ProductID int64 `json:"product_id"`
}

type UpdateQuantityRequestDTO struct {
	Quantity int `json:"quantity"`
}

type CartResponseDTO struct {
	Items     []cart.Line `json:"items"`
	Total     int64       `json:"total"`
	ItemCount int         `json:"item_count"`
}

func (h *CartHandler) cartResponse() CartResponseDTO {
	items := h.engine.Snapshot()
	if items == nil {
		items = []cart.Line{}
	}
	return CartResponseDTO{
		Items:     items,
		Total:     h.engine.Total(),
		ItemCount: h.engine.ItemCount(),
	}
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.cartResponse())
}

// AddItem resolves the product against the catalog so the cart line carries a
// price snapshot taken server-side, never one supplied by the client.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req AddItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if req.ProductID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id must be positive")
		return
	}

	products, err := h.catalog.Products(ctx)
	if err != nil {
		if errors.Is(err, catalog.ErrUnavailable) {
			respondError(w, http.StatusServiceUnavailable, "catalog_unavailable",
				"product catalog could not be reached")
			return
		}
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
		return
	}

	var product *catalog.Product
	for i := range products {
		if products[i].ID == req.ProductID {
			product = &products[i]
			break
		}
	}
	if product == nil {
		respondError(w, http.StatusNotFound, "product_not_found", "product is not in the catalog")
		return
	}

	if err := h.engine.AddItem(ctx, *product); err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "could not persist cart")
		return
	}

	respondJSON(w, http.StatusCreated, h.cartResponse())
}

// UpdateQuantity sets an absolute quantity; zero removes the line.
func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	productID, err := strconv.ParseInt(chi.URLParam(r, "product_id"), 10, 64)
	if err != nil || productID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id must be a positive integer")
		return
	}

	var req UpdateQuantityRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if req.Quantity < 0 || req.Quantity > 99 {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be between 0 and 99")
		return
	}

	if err := h.engine.UpdateQuantity(ctx, productID, req.Quantity); err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "could not persist cart")
		return
	}

	respondJSON(w, http.StatusOK, h.cartResponse())
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	productID, err := strconv.ParseInt(chi.URLParam(r, "product_id"), 10, 64)
	if err != nil || productID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id must be a positive integer")
		return
	}

	if err := h.engine.RemoveItem(ctx, productID); err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "could not persist cart")
		return
	}

	respondJSON(w, http.StatusOK, h.cartResponse())
}

func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	if err := h.engine.Clear(ctx); err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "could not persist cart")
		return
	}

	respondJSON(w, http.StatusOK, h.cartResponse())
}
