package controller

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"campuscms/internal/auth"
	"campuscms/internal/database"
	"campuscms/internal/models"
)

const maxJSONBody = 1 << 20

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps err to a status code. Validation messages are shown to
// the client; anything unexpected is logged and hidden.
func writeError(w http.ResponseWriter, r *http.Request, log *zap.Logger, err error) {
	switch {
	case errors.Is(err, models.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody{"Not Found"})
	case errors.Is(err, models.ErrInvalid):
		writeJSON(w, http.StatusUnprocessableEntity, errorBody{err.Error()})
	case database.IsConstraint(err):
		writeJSON(w, http.StatusUnprocessableEntity, errorBody{"the record conflicts with existing data or references a missing record"})
	case errors.Is(err, auth.ErrInvalidCredentials):
		writeJSON(w, http.StatusUnauthorized, errorBody{err.Error()})
	case errors.Is(err, context.Canceled):
		log.Debug("request canceled", zap.String("path", r.URL.Path))
	default:
		log.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorBody{"Internal Server Error"})
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody)).Decode(v); err != nil {
		return fmt.Errorf("%w: malformed request body: %v", models.ErrInvalid, err)
	}
	return nil
}

// pathID parses a numeric path value. A malformed id cannot name a record,
// so it is reported as not found.
func pathID(r *http.Request, name string) (int, error) {
	raw := r.PathValue(name)
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%s %q: %w", name, raw, models.ErrNotFound)
	}
	return id, nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", models.ErrInvalid, fmt.Sprintf(format, args...))
}

func orEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

func currentUserID(r *http.Request) *int {
	if u := auth.CurrentUser(r.Context()); u != nil {
		id := u.ID
		return &id
	}
	return nil
}
