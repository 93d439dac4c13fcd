package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/roamio/backend/internal/domain"
)

// errorDetail is the machine-readable payload of every non-2xx response.
type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// errorResponse wraps errorDetail under the "error" key so success and
// failure payloads can never be confused.
type errorResponse struct {
	Error errorDetail `json:"error"`
}

// respondJSON writes v as the JSON body with the given status code.
func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Encoding failures at this point can only be programmer errors
	// (unserializable type); the header is already written, so log-and-move-on
	// is all that is left. chi's Recoverer handles the panic case.
	_ = json.NewEncoder(w).Encode(v)
}

// respondError writes a structured error body.
func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, errorResponse{Error: errorDetail{Code: code, Message: message}})
}

// notFound writes a 404 with the supplied message. The caller supplies the
// message (e.g. "package not found") because the handler is the layer that
// knows what was being looked up.
func notFound(w http.ResponseWriter, message string) {
	respondError(w, http.StatusNotFound, "not_found", message)
}

// validationError writes a 422 whose message is extracted from the wrapped
// domain.ErrValidation error.
func validationError(w http.ResponseWriter, err error) {
	respondError(w, http.StatusUnprocessableEntity, "validation_error", unwrapMessage(err))
}

// badRequest writes a 422 for a request rejected before reaching the service
// layer (e.g. missing or malformed body).
func badRequest(w http.ResponseWriter, message string) {
	respondError(w, http.StatusUnprocessableEntity, "validation_error", message)
}

// unwrapMessage extracts the human-readable part from a wrapped sentinel error.
// e.g. "service.PackageService.Update: validation error: title is required" → "title is required"
func unwrapMessage(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	if i := strings.LastIndex(msg, domain.ErrValidation.Error()+": "); i >= 0 {
		return msg[i+len(domain.ErrValidation.Error())+2:]
	}
	return msg
}
