package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"finsmart/internal/logging"
	"finsmart/internal/service"
)

const maxBodyBytes = 1 << 20

func respondJSON(w http.ResponseWriter, r *http.Request, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logging.FromContext(r.Context()).WithError(err).Error("encode response")
	}
}

func respondError(w http.ResponseWriter, r *http.Request, status int, message string) {
	respondJSON(w, r, status, map[string]string{"error": message})
}

// decodeJSON reads exactly one JSON object into dst. Unknown fields, trailing
// data and oversized bodies are rejected. An empty body leaves dst untouched.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return service.Invalid("Invalid request body")
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return service.Invalid("Invalid request body")
	}
	return nil
}

// fail writes the client-facing form of err. Unexpected failures are logged
// with their cause and answered with fallback.
func (h *Handlers) fail(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	var ve *service.ValidationError
	switch {
	case errors.As(err, &ve):
		respondError(w, r, http.StatusBadRequest, ve.Message)
	case errors.Is(err, service.ErrDuplicateEmail):
		respondError(w, r, http.StatusBadRequest, "Email already registered")
	case errors.Is(err, service.ErrInvalidCredentials):
		respondError(w, r, http.StatusUnauthorized, "Invalid credentials")
	case errors.Is(err, service.ErrUnauthorized):
		respondError(w, r, http.StatusUnauthorized, "Unauthorized")
	default:
		logging.FromContext(r.Context()).WithError(err).Error(fallback)
		respondError(w, r, http.StatusInternalServerError, fallback)
	}
}
