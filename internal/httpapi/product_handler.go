package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/redbuilds/storefront/internal/catalog"
)

// Catalog is the read side of the product catalog the HTTP layer needs.
type Catalog interface {
	Products(ctx context.Context) ([]catalog.Product, error)
}

type ProductHandler struct {
	catalog Catalog
	timeout time.Duration
}

func NewProductHandler(c Catalog, timeout time.Duration) *ProductHandler {
	return &ProductHandler{
		catalog: c,
		timeout: timeout,
	}
}

func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

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

	respondJSON(w, http.StatusOK, products)
}
