// Package handler provides HTTP request handlers.
package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/clientauth/clientauth/internal/apperr"
	"github.com/clientauth/clientauth/internal/handler/dto"
	"github.com/clientauth/clientauth/internal/middleware"
)

const msgInvalidBody = "Invalid request body"

// NotFound handles 404 responses.
func NotFound(w http.ResponseWriter, r *http.Request) {
	writeMessage(w, http.StatusNotFound, "Not found")
}

// MethodNotAllowed handles 405 responses.
func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeMessage(w, http.StatusMethodNotAllowed, "Method not allowed")
}

// decodeJSON decodes the request body into dst.
// Unknown fields are dropped by the allow-listed destination type.
func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("empty body")
		}
		return err
	}
	return nil
}

// respondError classifies err and writes the {message} envelope.
// Detail of 500s is logged and never sent.
func respondError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	status, message := apperr.Classify(err)
	if status >= http.StatusInternalServerError {
		logger.ErrorContext(r.Context(), "internal_error",
			slog.String("kind", apperr.KindOf(err).String()),
			slog.String("error", err.Error()),
			slog.String("request_id", middleware.GetRequestID(r.Context())),
		)
	}
	writeMessage(w, status, message)
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, dto.ErrorResponse{Message: message})
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
