package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/render"
	"github.com/tendant/simple-files/pkg/filemanager"
)

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error string `json:"error"`
}

func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, filemanager.ErrUnauthorized):
		return http.StatusUnauthorized, filemanager.ErrUnauthorized.Error()
	case filemanager.IsValidationError(err):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, filemanager.ErrFolderHasNoContent):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, filemanager.ErrNotFound):
		return http.StatusNotFound, filemanager.ErrNotFound.Error()
	default:
		return http.StatusInternalServerError, "Server error"
	}
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, message := statusFor(err)
	if status == http.StatusInternalServerError {
		h.logger.ErrorContext(r.Context(), "Request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	}
	render.Status(r, status)
	render.JSON(w, r, ErrorResponse{Error: message})
}
