package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/projectfair/server/internal/logger"
	"github.com/projectfair/server/internal/model"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps domain errors to HTTP statuses and a user-facing
// message. Unclassified errors are logged and hidden behind a 500.
func writeError(w http.ResponseWriter, log *logger.Logger, err error) {
	var ve *model.ValidationError

	switch {
	case errors.As(err, &ve):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: ve.Message})
	case errors.Is(err, model.ErrNotAuthenticated):
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: err.Error()})
	case errors.Is(err, model.ErrIdentityNotFound):
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "user not found"})
	case errors.Is(err, model.ErrWrongPassword):
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "wrong password"})
	case errors.Is(err, model.ErrNotOwner):
		writeJSON(w, http.StatusForbidden, errorResponse{Error: err.Error()})
	case errors.Is(err, model.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "not found"})
	case errors.Is(err, model.ErrEmailInUse):
		writeJSON(w, http.StatusConflict, errorResponse{Error: "email already in use"})
	case errors.Is(err, model.ErrWeakCredential):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	default:
		log.Error("HTTP handler: internal error", "error", err.Error())
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}
