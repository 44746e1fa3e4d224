package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"bookkeeper/internal/core"
	"bookkeeper/internal/httputil"
	authmw "bookkeeper/internal/middleware/auth"
)

func (h *handlers) createCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadBody(w)
		return
	}

	created, err := h.svcs.Categories.Create(r.Context(), core.Category{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		h.writeServiceError(w, r, err, "CategoryFindError")
		return
	}

	w.Header().Set("Location", "/api/categories/"+created.Name)
	httputil.WriteJSON(w, http.StatusCreated, toCategoryResponse(*created))
}

func (h *handlers) listCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.svcs.Categories.List(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err, "CategoryFindError")
		return
	}

	resp := make([]categoryResponse, 0, len(categories))
	for _, c := range categories {
		resp = append(resp, toCategoryResponse(c))
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

func (h *handlers) getCategory(w http.ResponseWriter, r *http.Request) {
	category, err := h.svcs.Categories.Get(r.Context(), chi.URLParam(r, "categoryName"))
	if err != nil {
		h.writeServiceError(w, r, err, "CategoryFindError")
		return
	}
	if category == nil {
		writeNotFound(w, "CategoryFindError")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toCategoryResponse(*category))
}

// updateCategory and deleteCategory reshape shared labels, so they are
// restricted to admin callers.
func (h *handlers) updateCategory(w http.ResponseWriter, r *http.Request) {
	caller, _ := authmw.CallerFrom(r.Context())
	if !caller.IsAdmin() {
		writeForbidden(w)
		return
	}

	var req categoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadBody(w)
		return
	}

	updated, err := h.svcs.Categories.Update(r.Context(), chi.URLParam(r, "categoryName"), core.Category{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		h.writeServiceError(w, r, err, "CategoryFindError")
		return
	}
	if updated == nil {
		writeNotFound(w, "CategoryFindError")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toCategoryResponse(*updated))
}

func (h *handlers) deleteCategory(w http.ResponseWriter, r *http.Request) {
	caller, _ := authmw.CallerFrom(r.Context())
	if !caller.IsAdmin() {
		writeForbidden(w)
		return
	}

	if err := h.svcs.Categories.Delete(r.Context(), chi.URLParam(r, "categoryName")); err != nil {
		h.writeServiceError(w, r, err, "CategoryFindError")
		return
	}
	httputil.WriteJSON(w, http.StatusNoContent, nil)
}
