package utils

import (
	"encoding/json"
	"log"
	"net/http"
)

// ErrorResponse is the JSON body written for failed requests
type ErrorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

// WriteJSON writes v with the given status code
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("error encoding response: %v", err)
	}
}

// WriteError writes an ErrorResponse with the given status code
func WriteError(w http.ResponseWriter, status int, msg, requestID string) {
	WriteJSON(w, status, ErrorResponse{Error: msg, RequestID: requestID})
}
