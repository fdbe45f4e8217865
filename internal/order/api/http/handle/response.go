package handle

import (
	"encoding/json"
	"net/http"
)

type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Count   *int   `json:"count,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// jsonResponse writes a success envelope with the given status code.
func jsonResponse(w http.ResponseWriter, code int, data any, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(envelope{
		Success: true,
		Data:    data,
		Message: message,
	})
}

// jsonList writes a success envelope carrying a collection and its count.
func jsonList(w http.ResponseWriter, code int, data any, count int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(envelope{
		Success: true,
		Data:    data,
		Count:   &count,
	})
}

// jsonError writes the shared error shape {success:false, message, error?}.
func jsonError(w http.ResponseWriter, code int, message string, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	e := envelope{Success: false, Message: message}
	if err != nil {
		e.Error = err.Error()
	}
	_ = json.NewEncoder(w).Encode(e)
}
