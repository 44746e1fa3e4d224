package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"bookkeeper/internal/httputil"
	authmw "bookkeeper/internal/middleware/auth"
)

func (h *handlers) listSavings(w http.ResponseWriter, r *http.Request) {
	caller, _ := authmw.CallerFrom(r.Context())

	results, err := h.svcs.Savings.List(r.Context(), ownerFor(r, caller))
	if err != nil {
		h.writeServiceError(w, r, err, "UserFindError")
		return
	}

	resp := make([]savingsResponse, 0, len(results))
	for _, s := range results {
		resp = append(resp, toSavingsResponse(s))
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

func (h *handlers) getSavings(w http.ResponseWriter, r *http.Request) {
	caller, _ := authmw.CallerFrom(r.Context())
	name := chi.URLParam(r, "profileName")

	result, err := h.svcs.Savings.Get(r.Context(), ownerFor(r, caller), name)
	if err != nil {
		h.writeServiceError(w, r, err, "ProfileFindError")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toSavingsResponse(*result))
}
