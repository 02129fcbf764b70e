package api

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

// TokenHeader carries the session token
const TokenHeader = "X-Token"

type contextKey string

const userIDKey contextKey = "user_id"

// UserIDFromContext returns the authenticated user, or uuid.Nil for
// anonymous requests.
func UserIDFromContext(ctx context.Context) uuid.UUID {
	if id, ok := ctx.Value(userIDKey).(uuid.UUID); ok {
		return id
	}
	return uuid.Nil
}

// RequireToken rejects requests without a valid session token.
func (h *Handler) RequireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, err := h.access.Authenticate(r.Context(), r.Header.Get(TokenHeader))
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		ctx := context.WithValue(r.Context(), userIDKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// OptionalToken resolves the token when one is valid and otherwise lets the
// request through as anonymous.
func (h *Handler) OptionalToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := r.Header.Get(TokenHeader)
		if token == "" {
			next.ServeHTTP(w, r)
			return
		}
		userID, err := h.access.Authenticate(r.Context(), token)
		if err != nil {
			h.logger.DebugContext(r.Context(), "Ignoring invalid token", "error", err)
			next.ServeHTTP(w, r)
			return
		}
		ctx := context.WithValue(r.Context(), userIDKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
