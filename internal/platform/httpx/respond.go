// Package httpx renders responses in the service's envelope format and
// translates the internal error taxonomy to HTTP statuses at one boundary.
package httpx

import (
	"encoding/json"
	"net/http"
	"time"
)

// Envelope is the wire format shared by success and error responses.
type Envelope struct {
	Timestamp time.Time `json:"timestamp"`
	Status    int       `json:"status"`
	Error     string    `json:"error,omitempty"`
	Message   string    `json:"message,omitempty"`
	Path      string    `json:"path,omitempty"`
	Data      any       `json:"data,omitempty"`
}

// JSON sends a success envelope with the given status code.
func JSON(w http.ResponseWriter, r *http.Request, status int, data any) {
	write(w, Envelope{
		Timestamp: time.Now().UTC(),
		Status:    status,
		Path:      r.URL.Path,
		Data:      data,
	})
}

// DecodeJSON decodes the JSON request body into the target struct.
func DecodeJSON(r *http.Request, target any) error {
	return json.NewDecoder(r.Body).Decode(target)
}

func write(w http.ResponseWriter, envelope Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(envelope.Status)
	_ = json.NewEncoder(w).Encode(envelope)
}
