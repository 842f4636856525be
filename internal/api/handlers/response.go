package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/zatekoja/localdeals/internal/infrastructure/observability"
	apperrors "github.com/zatekoja/localdeals/pkg/errors"
)

const maxBodyBytes = 1 << 20

func respondWithJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondWithError(w http.ResponseWriter, statusCode int, message string) {
	respondWithJSON(w, statusCode, map[string]string{
		"error": message,
	})
}

// respondWithAppError maps err to its status. 401 and 403 carry no body and
// server errors hide their cause.
func respondWithAppError(w http.ResponseWriter, r *http.Request, err error) {
	status := apperrors.HTTPStatus(err)

	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		w.WriteHeader(status)
		return
	case http.StatusInternalServerError:
		observability.LoggerFromContext(r.Context()).Error().Err(err).
			Str("path", r.URL.Path).
			Msg("Request failed")
		respondWithError(w, status, "internal server error")
		return
	}

	message := err.Error()
	if appErr, ok := apperrors.As(err); ok {
		message = appErr.Message
	}
	respondWithError(w, status, message)
}

// decodeJSON reads the request body into dst. An empty body leaves dst
// unchanged.
func decodeJSON(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return apperrors.NewValidationError("invalid request body")
	}
	return nil
}
