package utils

import (
	"encoding/json"
	"net/http"

	"postboard/internal/dto"
)

// WriteJSONResponse writes a JSON response to the HTTP response writer
func WriteJSONResponse(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// WriteErrorResponse writes a structured {"detail": ...} error body
func WriteErrorResponse(w http.ResponseWriter, status int, detail string) {
	WriteJSONResponse(w, status, dto.ErrorResponse{Detail: detail})
}

// DecodeJSONRequest decodes the request body into dst, writing a 400 response
// on malformed input. Returns a non-nil error when the response was written.
func DecodeJSONRequest(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		WriteErrorResponse(w, http.StatusBadRequest, "Invalid request body")
		return err
	}
	return nil
}
