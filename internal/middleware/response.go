package middleware

import (
	"encoding/json"
	"net/http"
)

type messageBody struct {
	Message string `json:"message"`
}

// writeMessage writes the {"message": ...} error envelope.
func writeMessage(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(messageBody{Message: message})
}
