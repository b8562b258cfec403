package http

import (
	"encoding/json"
	"net/http"
)

// WriteJSON writes a JSON response with the given status code
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// The header has already been sent; an encode error cannot be reported.
	_ = json.NewEncoder(w).Encode(v)
}

// WriteJSONWithHeaders writes a JSON response with custom headers
func WriteJSONWithHeaders(w http.ResponseWriter, status int, v any, headers map[string]string) {
	for key, value := range headers {
		w.Header().Set(key, value)
	}
	WriteJSON(w, status, v)
}
