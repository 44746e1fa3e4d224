package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"bookkeeper/internal/httputil"
	authmw "bookkeeper/internal/middleware/auth"
)

// ownerFor resolves which user's resources a request targets. Admin callers
// may name another owner with the owner query parameter; everyone else always
// operates on their own.
func ownerFor(r *http.Request, caller authmw.Caller) string {
	if caller.IsAdmin() {
		if owner := r.URL.Query().Get("owner"); owner != "" {
			return owner
		}
	}
	return caller.Name
}

func (h *handlers) createProfile(w http.ResponseWriter, r *http.Request) {
	caller, _ := authmw.CallerFrom(r.Context())

	var req profileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadBody(w)
		return
	}

	profile, err := req.toProfile()
	if err != nil {
		h.writeServiceError(w, r, err, "ProfileFindError")
		return
	}

	created, err := h.svcs.Profiles.Create(r.Context(), caller.Name, profile)
	if err != nil {
		h.writeServiceError(w, r, err, "ProfileFindError")
		return
	}

	w.Header().Set("Location", "/api/profiles/"+created.Name)
	httputil.WriteJSON(w, http.StatusCreated, toProfileResponse(*created))
}

func (h *handlers) listProfiles(w http.ResponseWriter, r *http.Request) {
	caller, _ := authmw.CallerFrom(r.Context())

	owner := caller.Name
	if caller.IsAdmin() {
		// Admin default is the full listing; owner narrows it.
		owner = r.URL.Query().Get("owner")
	}

	profiles, err := h.svcs.Profiles.List(r.Context(), owner, r.URL.Query().Get("includeEntries") == "true")
	if err != nil {
		h.writeServiceError(w, r, err, "ProfileFindError")
		return
	}

	resp := make([]profileResponse, 0, len(profiles))
	for _, p := range profiles {
		resp = append(resp, toProfileResponse(p))
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

func (h *handlers) getProfile(w http.ResponseWriter, r *http.Request) {
	caller, _ := authmw.CallerFrom(r.Context())
	name := chi.URLParam(r, "profileName")

	profile, err := h.svcs.Profiles.Get(r.Context(), ownerFor(r, caller), name,
		r.URL.Query().Get("includeEntries") == "true")
	if err != nil {
		h.writeServiceError(w, r, err, "ProfileFindError")
		return
	}
	if profile == nil {
		writeNotFound(w, "ProfileFindError")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toProfileResponse(*profile))
}

func (h *handlers) updateProfile(w http.ResponseWriter, r *http.Request) {
	caller, _ := authmw.CallerFrom(r.Context())
	name := chi.URLParam(r, "profileName")

	var req profileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadBody(w)
		return
	}

	replacement, err := req.toProfile()
	if err != nil {
		h.writeServiceError(w, r, err, "ProfileFindError")
		return
	}

	updated, err := h.svcs.Profiles.Update(r.Context(), caller.Name, name, replacement)
	if err != nil {
		h.writeServiceError(w, r, err, "ProfileFindError")
		return
	}
	if updated == nil {
		writeNotFound(w, "ProfileFindError")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toProfileResponse(*updated))
}

func (h *handlers) deleteProfile(w http.ResponseWriter, r *http.Request) {
	caller, _ := authmw.CallerFrom(r.Context())
	name := chi.URLParam(r, "profileName")

	if err := h.svcs.Profiles.Delete(r.Context(), caller.Name, name); err != nil {
		h.writeServiceError(w, r, err, "ProfileFindError")
		return
	}
	httputil.WriteJSON(w, http.StatusNoContent, nil)
}
