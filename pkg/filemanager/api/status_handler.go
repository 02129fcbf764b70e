package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/render"
)

const pingTimeout = 2 * time.Second

// Status reports whether each backend answers a ping
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	resp := map[string]bool{}
	for name, pinger := range h.pingers {
		ctx, cancel := context.WithTimeout(r.Context(), pingTimeout)
		err := pinger.Ping(ctx)
		cancel()
		if err != nil {
			h.logger.WarnContext(r.Context(), "Backend ping failed", "backend", name, "error", err)
		}
		resp[name] = err == nil
	}
	render.JSON(w, r, resp)
}

// Stats reports the number of users and files
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Stats(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	render.JSON(w, r, stats)
}
