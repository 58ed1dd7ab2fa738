package httputil

import (
	"encoding/json"
	"fmt"
	"net/http"

	"resumecrafter/internal/config"
)

// ParseJSON decodes JSON from the request body into the given destination.
// It limits the request body size to prevent abuse and provides clear error messages.
func ParseJSON(w http.ResponseWriter, r *http.Request, dest interface{}) error {
	// MaxBytesReader needs w to answer with 413 on overflow
	r.Body = http.MaxBytesReader(w, r.Body, config.MaxRequestBodyBytes)

	// Unknown fields are ignored; clients send extra keys the server does not read
	decoder := json.NewDecoder(r.Body)

	if err := decoder.Decode(dest); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}

	return nil
}

// PathParam returns the named path value, answering 400 when it is empty.
func PathParam(w http.ResponseWriter, r *http.Request, name, label string) (string, bool) {
	value := r.PathValue(name)
	if value == "" {
		RespondError(w, http.StatusBadRequest, label+" is required")
		return "", false
	}
	return value, true
}
