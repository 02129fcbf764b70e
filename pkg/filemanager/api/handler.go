// Package api exposes the file manager over HTTP using chi.
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/tendant/simple-files/pkg/filemanager"
)

// Handler serves the users, sessions and files endpoints.
type Handler struct {
	service  filemanager.Service
	accounts *filemanager.Accounts
	access   *filemanager.AccessControl
	pingers  map[string]filemanager.Pinger
	logger   *slog.Logger
}

// Option configures a Handler
type Option func(*Handler)

// WithPingers sets the backends reported by GET /status
func WithPingers(pingers map[string]filemanager.Pinger) Option {
	return func(h *Handler) {
		h.pingers = pingers
	}
}

// WithLogger sets the handler logger
func WithLogger(logger *slog.Logger) Option {
	return func(h *Handler) {
		h.logger = logger
	}
}

func NewHandler(service filemanager.Service, accounts *filemanager.Accounts, access *filemanager.AccessControl, options ...Option) *Handler {
	h := &Handler{
		service:  service,
		accounts: accounts,
		access:   access,
		pingers:  map[string]filemanager.Pinger{},
		logger:   slog.Default(),
	}
	for _, option := range options {
		option(h)
	}
	return h
}

// Routes returns the router for every endpoint
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/status", h.Status)
	r.Get("/stats", h.Stats)
	r.Get("/connect", h.Connect)
	r.Post("/users", h.CreateUser)

	r.With(h.OptionalToken).Get("/files/{id}/data", h.GetFileData)

	r.Group(func(r chi.Router) {
		r.Use(h.RequireToken)

		r.Get("/disconnect", h.Disconnect)
		r.Get("/users/me", h.Me)

		r.Post("/files", h.CreateFile)
		r.Get("/files", h.ListFiles)
		r.Get("/files/{id}", h.GetFile)
		r.Put("/files/{id}/publish", h.Publish)
		r.Put("/files/{id}/unpublish", h.Unpublish)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		h.writeError(w, r, filemanager.ErrNotFound)
	})
	return r
}
