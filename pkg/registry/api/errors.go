package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/registrylabs/content-registry/pkg/registry"
)

// ErrorResponse is the envelope for all error replies
type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// writeError maps a service error onto an HTTP status and renders the
// error envelope. Unclassified errors become opaque 500s; their detail
// goes to the log, not the client.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	message := "Server Error"

	var validationErr *registry.ValidationError
	var duplicateErr *registry.DuplicateError
	var storageErr *registry.StorageError

	switch {
	case errors.As(err, &validationErr):
		status = http.StatusBadRequest
		message = validationErr.Message
		if message == "" {
			message = validationErr.Error()
		}
	case errors.As(err, &duplicateErr):
		status = http.StatusBadRequest
		message = duplicateErr.Error()
	case errors.Is(err, registry.ErrInvalidCredentials):
		status = http.StatusUnauthorized
		message = "Invalid credentials"
	case errors.Is(err, registry.ErrNotOwner):
		status = http.StatusForbidden
		message = "Not authorized to perform this action"
	case errors.Is(err, registry.ErrContentNotFound):
		status = http.StatusNotFound
		message = "Content not found"
	case errors.Is(err, registry.ErrUserNotFound):
		status = http.StatusNotFound
		message = "User not found"
	case errors.As(err, &storageErr):
		slog.Error("storage operation failed", "backend", storageErr.Backend, "op", storageErr.Op, "key", storageErr.Key, "error", storageErr.Err)
	default:
		slog.Error("unhandled error", "error", err)
	}

	render.Status(r, status)
	render.JSON(w, r, ErrorResponse{Success: false, Message: message})
}

// writeErrorMessage renders a fixed-status error envelope
func writeErrorMessage(w http.ResponseWriter, r *http.Request, status int, message string) {
	render.Status(r, status)
	render.JSON(w, r, ErrorResponse{Success: false, Message: message})
}
