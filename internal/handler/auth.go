package handler

import (
	"context"
	"net/http"

	"github.com/forgo/guildhall/api/internal/model"
)

// AuthService is the part of service.AuthService the handler needs
type AuthService interface {
	Register(ctx context.Context, req *model.RegisterRequest) (*model.AuthResponse, error)
	Login(ctx context.Context, email, password string) (*model.AuthResponse, error)
}

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	authService AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// Register handles POST /auth/register. A new account is signed in
// straight away, so the body matches Login.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req model.RegisterRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	resp, err := h.authService.Register(r.Context(), &req)
	if err != nil {
		handleError(w, r, err)
		return
	}

	WriteData(w, http.StatusOK, resp)
}

// Login handles POST /auth/login with a form-encoded username (the
// email) and password
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		WriteError(w, model.NewBadRequestError("invalid form body"))
		return
	}

	username := r.PostForm.Get("username")
	password := r.PostForm.Get("password")

	var missing []model.FieldError
	if username == "" {
		missing = append(missing, model.FieldError{Field: "username", Message: "username is required"})
	}
	if password == "" {
		missing = append(missing, model.FieldError{Field: "password", Message: "password is required"})
	}
	if len(missing) > 0 {
		WriteError(w, model.NewValidationError(missing))
		return
	}

	resp, err := h.authService.Login(r.Context(), username, password)
	if err != nil {
		handleError(w, r, err)
		return
	}

	WriteData(w, http.StatusOK, resp)
}
