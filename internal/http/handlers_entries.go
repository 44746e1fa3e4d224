package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"bookkeeper/internal/httputil"
	authmw "bookkeeper/internal/middleware/auth"
	"bookkeeper/internal/services"
)

// Entry handlers are built per kind: the expense and income routes share the
// same code against different services.

func entryID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "entryID"), 10, 64)
	return id, err == nil && id > 0
}

func (h *handlers) createEntry(svc *services.EntryService, findErrorType string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, _ := authmw.CallerFrom(r.Context())
		profileName := chi.URLParam(r, "profileName")

		var req entryRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeBadBody(w)
			return
		}

		entry, err := req.toEntry()
		if err != nil {
			h.writeServiceError(w, r, err, findErrorType)
			return
		}

		created, err := svc.Add(r.Context(), caller.Name, profileName, entry, req.Category)
		if err != nil {
			h.writeServiceError(w, r, err, "ProfileFindError")
			return
		}
		httputil.WriteJSON(w, http.StatusCreated, toEntryResponse(*created))
	}
}

func (h *handlers) listEntries(svc *services.EntryService, findErrorType string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, _ := authmw.CallerFrom(r.Context())
		profileName := chi.URLParam(r, "profileName")

		entries, err := svc.List(r.Context(), ownerFor(r, caller), profileName)
		if err != nil {
			h.writeServiceError(w, r, err, "ProfileFindError")
			return
		}

		resp := make([]entryResponse, 0, len(entries))
		for _, e := range entries {
			resp = append(resp, toEntryResponse(e))
		}
		httputil.WriteJSON(w, http.StatusOK, resp)
	}
}

func (h *handlers) getEntry(svc *services.EntryService, findErrorType string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, _ := authmw.CallerFrom(r.Context())
		profileName := chi.URLParam(r, "profileName")

		id, ok := entryID(r)
		if !ok {
			writeNotFound(w, findErrorType)
			return
		}

		entry, err := svc.Get(r.Context(), ownerFor(r, caller), profileName, id)
		if err != nil {
			h.writeServiceError(w, r, err, findErrorType)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, toEntryResponse(*entry))
	}
}

func (h *handlers) updateEntry(svc *services.EntryService, findErrorType string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, _ := authmw.CallerFrom(r.Context())
		profileName := chi.URLParam(r, "profileName")

		id, ok := entryID(r)
		if !ok {
			writeNotFound(w, findErrorType)
			return
		}

		var req entryRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeBadBody(w)
			return
		}

		entry, err := req.toEntry()
		if err != nil {
			h.writeServiceError(w, r, err, findErrorType)
			return
		}

		updated, err := svc.Update(r.Context(), caller.Name, profileName, id, entry, req.Category)
		if err != nil {
			h.writeServiceError(w, r, err, findErrorType)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, toEntryResponse(*updated))
	}
}

func (h *handlers) deleteEntry(svc *services.EntryService, findErrorType string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, _ := authmw.CallerFrom(r.Context())
		profileName := chi.URLParam(r, "profileName")

		id, ok := entryID(r)
		if !ok {
			writeNotFound(w, findErrorType)
			return
		}

		if err := svc.Remove(r.Context(), caller.Name, profileName, id); err != nil {
			h.writeServiceError(w, r, err, findErrorType)
			return
		}
		httputil.WriteJSON(w, http.StatusNoContent, nil)
	}
}
