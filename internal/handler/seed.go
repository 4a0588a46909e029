package handler

import (
	"net/http"
)

type seedResponse struct {
	Message string `json:"message"`
	Count   int64  `json:"count"`
}

// Seed populates the catalog with sample products when it is empty and
// reports the current count otherwise.
func (h *Handler) Seed(w http.ResponseWriter, r *http.Request) {
	if h.seeder == nil {
		writeStoreUnconfigured(w)
		return
	}

	result, err := h.seeder.SeedIfEmpty(r.Context())
	if err != nil {
		writeServerError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, seedResponse{
		Message: result.Message,
		Count:   result.Count,
	})
}
