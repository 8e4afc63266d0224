package httpx

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/kasonde-dev/stockpilot-backend/internal/apperr"
)

// JSON writes v as a JSON response with the given status.
func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// Error writes the standard failure envelope for err.
func Error(w http.ResponseWriter, err error) {
	status := apperr.HTTPStatus(err)
	if status == http.StatusInternalServerError {
		log.Printf("internal error: %v", err)
	}
	JSON(w, status, map[string]interface{}{
		"success": false,
		"error":   apperr.Message(err),
	})
}

// Decode parses the request body into v, returning a Validation error on
// malformed JSON.
func Decode(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return apperr.Wrap(apperr.KindValidation, "Invalid request body", err)
	}
	return nil
}
