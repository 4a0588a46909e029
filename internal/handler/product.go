package handler

import (
	"net/http"

	"github.com/xenking/shopfront/internal/domain/product"
)

// productResponse is the public representation of a catalog product.
type productResponse struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	Image       string  `json:"image,omitempty"`
	InStock     bool    `json:"in_stock"`
}

// ListProducts returns every catalog product in store-native order.
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	if h.products == nil {
		writeStoreUnconfigured(w)
		return
	}

	products, err := h.products.List(r.Context())
	if err != nil {
		writeServerError(w, r, err)
		return
	}

	out := make([]productResponse, len(products))
	for i, p := range products {
		out[i] = toProductResponse(p)
	}
	writeJSON(w, http.StatusOK, out)
}

func toProductResponse(p product.Product) productResponse {
	return productResponse{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		Price:       p.Price.InexactFloat64(),
		Category:    p.Category,
		Image:       p.Image,
		InStock:     p.InStock,
	}
}
