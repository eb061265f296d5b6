package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/binderhq/binder"
)

// Payload is the response envelope every endpoint speaks. UploadURL
// appears only on file creation and is never persisted server-side.
type Payload struct {
	Success   bool   `json:"success"`
	Message   string `json:"message,omitempty"`
	Data      any    `json:"data,omitempty"`
	UploadURL string `json:"uploadUrl,omitempty"`
}

// WriteJSON writes a JSON response
func WriteJSON(w http.ResponseWriter, code int, payload Payload) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// WriteError writes a failure envelope
func WriteError(w http.ResponseWriter, code int, message string) {
	WriteJSON(w, code, Payload{Success: false, Message: message})
}

// HandleError maps service errors onto the wire. Handlers that want a
// route-specific message intercept the sentinel before calling this.
func HandleError(w http.ResponseWriter, r *http.Request, err error) {
	slog.Error("request error", "method", r.Method, "path", r.URL.Path, "error", err)

	switch {
	case errors.Is(err, binder.ErrConflict):
		WriteError(w, http.StatusBadRequest, "item with same title already exists")
	case errors.Is(err, binder.ErrInvalidParent):
		WriteError(w, http.StatusBadRequest, "parentId does not exist or is not a folder")
	case errors.Is(err, binder.ErrInvalidInput):
		WriteError(w, http.StatusBadRequest, "Invalid request")
	case errors.Is(err, binder.ErrNotFound):
		WriteError(w, http.StatusNotFound, "Item not found")
	default:
		WriteError(w, http.StatusInternalServerError, "Internal server error")
	}
}
