package api

import (
	"net/http"

	"quickcheckout/internal/returns"
	"quickcheckout/internal/session"
	"quickcheckout/internal/utils"

	"github.com/go-chi/chi/v5"
)

// RequireCapability rejects operators whose role lacks c.
func RequireCapability(c session.Capability) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			op, _ := utils.GetOperatorFromContext(r.Context())
			if !op.Role.Can(c) {
				writeError(w, r, ErrForbidden, "")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (h *Handler) ListReturns(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	list, err := h.deps.Returns.List(r.Context(), returns.Filter{
		Search: q.Get("search"),
		Status: q.Get("status"),
	})
	if err != nil {
		writeError(w, r, err, "")
		return
	}
	utils.WriteJSON(w, http.StatusOK, toReturnDTOs(list))
}

func (h *Handler) ApproveReturn(w http.ResponseWriter, r *http.Request) {
	ret, err := h.deps.Returns.Approve(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err, "")
		return
	}
	utils.WriteJSON(w, http.StatusOK, toReturnDTO(ret))
}

func (h *Handler) RejectReturn(w http.ResponseWriter, r *http.Request) {
	ret, err := h.deps.Returns.Reject(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err, "")
		return
	}
	utils.WriteJSON(w, http.StatusOK, toReturnDTO(ret))
}
