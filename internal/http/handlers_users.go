package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"bookkeeper/internal/core"
	"bookkeeper/internal/httputil"
	authmw "bookkeeper/internal/middleware/auth"
	"bookkeeper/internal/storage"
)

func (h *handlers) authenticate(w http.ResponseWriter, r *http.Request) {
	var req authenticateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadBody(w)
		return
	}

	user, token, err := h.svcs.Login.Authenticate(r.Context(), req.Name, req.Password)
	if err != nil {
		h.writeServiceError(w, r, err, "UserFindError")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, authenticateResponse{
		User:  user.Name,
		Role:  user.Role,
		Token: token,
	})
}

// createUser is open registration. Every registered user gets the default
// role; admins are created with the bootstrap CLI, not over HTTP.
func (h *handlers) createUser(w http.ResponseWriter, r *http.Request) {
	var req userRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadBody(w)
		return
	}

	user, err := h.svcs.Users.Create(r.Context(), core.User{
		Name:     req.Name,
		Password: req.Password,
		Role:     core.RoleUser,
	})
	if err != nil {
		h.writeServiceError(w, r, err, "UserFindError")
		return
	}

	w.Header().Set("Location", "/api/users/"+user.Name)
	httputil.WriteJSON(w, http.StatusCreated, toUserResponse(*user))
}

func (h *handlers) listUsers(w http.ResponseWriter, r *http.Request) {
	caller, _ := authmw.CallerFrom(r.Context())
	if !caller.IsAdmin() {
		writeForbidden(w)
		return
	}

	users, err := h.svcs.Users.List(r.Context(), storage.ListUsersOptions{
		IncludeProfiles: r.URL.Query().Get("includeProfiles") == "true",
	})
	if err != nil {
		h.writeServiceError(w, r, err, "UserFindError")
		return
	}

	resp := make([]userResponse, 0, len(users))
	for _, u := range users {
		resp = append(resp, toUserResponse(u))
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

func (h *handlers) getUser(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "userName")
	caller, _ := authmw.CallerFrom(r.Context())
	if !caller.CanAccess(name) {
		writeForbidden(w)
		return
	}

	user, err := h.svcs.Users.Get(r.Context(), name, r.URL.Query().Get("includeProfiles") == "true")
	if err != nil {
		h.writeServiceError(w, r, err, "UserFindError")
		return
	}
	if user == nil {
		writeNotFound(w, "UserFindError")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toUserResponse(*user))
}

func (h *handlers) updateUser(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "userName")
	caller, _ := authmw.CallerFrom(r.Context())
	if caller.Name != name {
		writeForbidden(w)
		return
	}

	var req userRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadBody(w)
		return
	}

	user, err := h.svcs.Users.Update(r.Context(), name, core.User{
		Name:     req.Name,
		Password: req.Password,
	})
	if err != nil {
		h.writeServiceError(w, r, err, "UserFindError")
		return
	}
	if user == nil {
		writeNotFound(w, "UserFindError")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toUserResponse(*user))
}

func (h *handlers) deleteUser(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "userName")
	caller, _ := authmw.CallerFrom(r.Context())
	if caller.Name != name {
		writeForbidden(w)
		return
	}

	if err := h.svcs.Users.Delete(r.Context(), name); err != nil {
		h.writeServiceError(w, r, err, "UserFindError")
		return
	}
	httputil.WriteJSON(w, http.StatusNoContent, nil)
}
