package handler

import (
	"context"
	"net/http"

	"github.com/forgo/guildhall/api/internal/middleware"
	"github.com/forgo/guildhall/api/internal/model"
)

// UserService is the part of service.UserService the handler needs
type UserService interface {
	Get(ctx context.Context, id int) (*model.User, error)
	List(ctx context.Context, page model.PageRequest) (*model.Page[*model.User], error)
	UpdateProfile(ctx context.Context, caller *model.User, req *model.UpdateUserRequest) (*model.User, error)
	ListBookmarks(ctx context.Context, userID int, page model.PageRequest) (*model.Page[*model.Quest], error)
}

// AuthoredQuests lists the quests a user wrote
type AuthoredQuests interface {
	ListMine(ctx context.Context, authorID int, page model.PageRequest) (*model.Page[*model.Quest], error)
}

// UserHandler handles user directory endpoints
type UserHandler struct {
	users  UserService
	quests AuthoredQuests
}

// NewUserHandler creates a new user handler
func NewUserHandler(users UserService, quests AuthoredQuests) *UserHandler {
	return &UserHandler{users: users, quests: quests}
}

// List handles GET /users
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	page, problem := pageParams(r)
	if problem != nil {
		WriteError(w, problem)
		return
	}

	users, err := h.users.List(r.Context(), page)
	if err != nil {
		handleError(w, r, err)
		return
	}

	WriteCollection(w, users)
}

// Get handles GET /users/{id}
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, problem := pathID(r, "id")
	if problem != nil {
		WriteError(w, problem)
		return
	}

	user, err := h.users.Get(r.Context(), id)
	if err != nil {
		handleError(w, r, err)
		return
	}

	WriteData(w, http.StatusOK, user)
}

// GetMe handles GET /users/me
func (h *UserHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	WriteData(w, http.StatusOK, middleware.GetUser(r.Context()))
}

// UpdateMe handles PUT /users/me - sparse update of the caller's profile
func (h *UserHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	var req model.UpdateUserRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	user, err := h.users.UpdateProfile(r.Context(), middleware.GetUser(r.Context()), &req)
	if err != nil {
		handleError(w, r, err)
		return
	}

	WriteData(w, http.StatusOK, user)
}

// ListBookmarks handles GET /users/me/bookmarks
func (h *UserHandler) ListBookmarks(w http.ResponseWriter, r *http.Request) {
	page, problem := pageParams(r)
	if problem != nil {
		WriteError(w, problem)
		return
	}

	quests, err := h.users.ListBookmarks(r.Context(), callerID(r), page)
	if err != nil {
		handleError(w, r, err)
		return
	}

	WriteCollection(w, quests)
}

// ListMyQuests handles GET /users/me/quests
func (h *UserHandler) ListMyQuests(w http.ResponseWriter, r *http.Request) {
	page, problem := pageParams(r)
	if problem != nil {
		WriteError(w, problem)
		return
	}

	quests, err := h.quests.ListMine(r.Context(), callerID(r), page)
	if err != nil {
		handleError(w, r, err)
		return
	}

	WriteCollection(w, quests)
}
