package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sealedchat/sealedchat/internal/common"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

// writeServiceError maps service sentinels to HTTP statuses. Anything
// unrecognized is reported as a bare 500; internal detail never leaks.
func writeServiceError(w http.ResponseWriter, err error) {
	var suspended *common.SuspendedError
	switch {
	case errors.As(err, &suspended):
		writeError(w, http.StatusForbidden, suspended.Error())
	case errors.Is(err, common.ErrorInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "incorrect email or password")
	case errors.Is(err, common.ErrInvalidToken), errors.Is(err, common.ErrTokenExpired):
		writeError(w, http.StatusUnauthorized, "invalid or expired token")
	case errors.Is(err, common.ErrorAdminRequired):
		writeError(w, http.StatusForbidden, "admin privileges required")
	case errors.Is(err, common.ErrorNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, common.ErrorAlreadyExists):
		writeError(w, http.StatusConflict, "already exists")
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
