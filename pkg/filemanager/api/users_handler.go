package api

import (
	"net/http"

	"github.com/go-chi/render"
	"github.com/tendant/simple-files/pkg/filemanager"
)

// CreateUserRequest is the body of POST /users
type CreateUserRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserResponse never includes the password hash
type UserResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// TokenResponse is returned by GET /connect
type TokenResponse struct {
	Token string `json:"token"`
}

func toUserResponse(user *filemanager.User) UserResponse {
	return UserResponse{ID: user.ID.String(), Email: user.Email}
}

// CreateUser registers a new account
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		// an unreadable body carries no email
		h.writeError(w, r, filemanager.ErrMissingEmail)
		return
	}

	user, err := h.accounts.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, toUserResponse(user))
}

// Connect exchanges Basic credentials for a session token
func (h *Handler) Connect(w http.ResponseWriter, r *http.Request) {
	email, password, ok := r.BasicAuth()
	if !ok {
		h.writeError(w, r, filemanager.ErrUnauthorized)
		return
	}

	token, err := h.accounts.Connect(r.Context(), email, password)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	render.JSON(w, r, TokenResponse{Token: token})
}

// Disconnect revokes the caller's session
func (h *Handler) Disconnect(w http.ResponseWriter, r *http.Request) {
	if err := h.accounts.Disconnect(r.Context(), r.Header.Get(TokenHeader)); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Me returns the authenticated user
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := h.accounts.Me(r.Context(), UserIDFromContext(r.Context()))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	render.JSON(w, r, toUserResponse(user))
}
