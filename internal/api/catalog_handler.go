package api

import (
	"net/http"

	"quickcheckout/internal/utils"

	"github.com/go-chi/chi/v5"
)

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, map[string]any{
		"status":            "ok",
		"checkout_sessions": h.checkouts.Len(),
		"register_sessions": h.registers.Len(),
	})
}

func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.deps.Catalog.List(r.Context())
	if err != nil {
		writeError(w, r, err, "")
		return
	}
	utils.WriteJSON(w, http.StatusOK, toProductDTOs(products))
}

func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.deps.Catalog.FindByCode(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		writeError(w, r, err, "")
		return
	}
	utils.WriteJSON(w, http.StatusOK, toProductDTO(p))
}
