package handler

import (
	"context"
	"net/http"

	"github.com/forgo/guildhall/api/internal/model"
)

// FollowService is the part of service.FollowService the handler needs
type FollowService interface {
	Follow(ctx context.Context, followerID, followeeID int) (*model.Follow, error)
	Unfollow(ctx context.Context, followerID, followeeID int) error
	Followers(ctx context.Context, userID int, page model.PageRequest) (*model.Page[*model.User], error)
	Following(ctx context.Context, userID int, page model.PageRequest) (*model.Page[*model.User], error)
}

// FollowHandler handles follow relations between users
type FollowHandler struct {
	svc FollowService
}

// NewFollowHandler creates a new follow handler
func NewFollowHandler(svc FollowService) *FollowHandler {
	return &FollowHandler{svc: svc}
}

// Follow handles POST /users/{id}/follow
func (h *FollowHandler) Follow(w http.ResponseWriter, r *http.Request) {
	id, problem := pathID(r, "id")
	if problem != nil {
		WriteError(w, problem)
		return
	}

	follow, err := h.svc.Follow(r.Context(), callerID(r), id)
	if err != nil {
		handleError(w, r, err)
		return
	}

	WriteData(w, http.StatusCreated, follow)
}

// Unfollow handles DELETE /users/{id}/follow
func (h *FollowHandler) Unfollow(w http.ResponseWriter, r *http.Request) {
	id, problem := pathID(r, "id")
	if problem != nil {
		WriteError(w, problem)
		return
	}

	if err := h.svc.Unfollow(r.Context(), callerID(r), id); err != nil {
		handleError(w, r, err)
		return
	}

	WriteNoContent(w)
}

// Followers handles GET /users/{id}/followers
func (h *FollowHandler) Followers(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, h.svc.Followers)
}

// Following handles GET /users/{id}/following
func (h *FollowHandler) Following(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, h.svc.Following)
}

func (h *FollowHandler) list(w http.ResponseWriter, r *http.Request, fetch func(context.Context, int, model.PageRequest) (*model.Page[*model.User], error)) {
	id, problem := pathID(r, "id")
	if problem != nil {
		WriteError(w, problem)
		return
	}
	page, problem := pageParams(r)
	if problem != nil {
		WriteError(w, problem)
		return
	}

	users, err := fetch(r.Context(), id, page)
	if err != nil {
		handleError(w, r, err)
		return
	}

	WriteCollection(w, users)
}
