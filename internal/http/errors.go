package http

import (
	"database/sql"
	"errors"
	"net/http"

	"bookkeeper/internal/core"
	"bookkeeper/internal/httputil"
	"bookkeeper/internal/services"
)

// writeServiceError maps a domain error onto a status and error body.
// findErrorType names the 404 case per resource ("UserFindError" and so on);
// conflict and validation types are derived from the error itself.
func (h *handlers) writeServiceError(w http.ResponseWriter, r *http.Request, err error, findErrorType string) {
	var vErr core.ValidationError
	switch {
	case errors.As(err, &vErr):
		httputil.WriteError(w, http.StatusBadRequest, "ValidationError", vErr.Error())
	case errors.Is(err, services.ErrOwnerNotFound):
		httputil.WriteError(w, http.StatusBadRequest, "ValidationError", err.Error())
	case errors.Is(err, services.ErrUserExists):
		httputil.WriteError(w, http.StatusConflict, "ExistingUserError", err.Error())
	case errors.Is(err, services.ErrProfileExists):
		httputil.WriteError(w, http.StatusConflict, "ExistingProfileError", err.Error())
	case errors.Is(err, services.ErrCategoryExists):
		httputil.WriteError(w, http.StatusConflict, "ExistingCategoryError", err.Error())
	case errors.Is(err, services.ErrAuthenticationFailed):
		httputil.WriteError(w, http.StatusNotFound, "UserFindError", err.Error())
	case errors.Is(err, sql.ErrNoRows):
		httputil.WriteError(w, http.StatusNotFound, findErrorType, "not found")
	default:
		h.logger.ErrorContext(r.Context(), "request failed", "error", err,
			"method", r.Method, "path", r.URL.Path)
		httputil.WriteError(w, http.StatusInternalServerError, "InternalError", "internal server error")
	}
}

func writeNotFound(w http.ResponseWriter, findErrorType string) {
	httputil.WriteError(w, http.StatusNotFound, findErrorType, "not found")
}

func writeForbidden(w http.ResponseWriter) {
	httputil.WriteError(w, http.StatusForbidden, "AuthorizationError", "operation not permitted for this caller")
}

func writeBadBody(w http.ResponseWriter) {
	httputil.WriteError(w, http.StatusBadRequest, "ValidationError", "malformed request body")
}
