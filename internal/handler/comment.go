package handler

import (
	"context"
	"net/http"

	"github.com/forgo/guildhall/api/internal/model"
)

// CommentService is the part of service.CommentService the handler needs
type CommentService interface {
	Create(ctx context.Context, questID, authorID int, req *model.CreateCommentRequest) (*model.Comment, error)
	ListByQuest(ctx context.Context, questID int, page model.PageRequest) (*model.Page[*model.Comment], error)
	Delete(ctx context.Context, id, callerID int) error
}

// CommentHandler handles quest comments
type CommentHandler struct {
	svc CommentService
}

// NewCommentHandler creates a new comment handler
func NewCommentHandler(svc CommentService) *CommentHandler {
	return &CommentHandler{svc: svc}
}

// Create handles POST /quests/{id}/comments
func (h *CommentHandler) Create(w http.ResponseWriter, r *http.Request) {
	questID, problem := pathID(r, "id")
	if problem != nil {
		WriteError(w, problem)
		return
	}

	var req model.CreateCommentRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	comment, err := h.svc.Create(r.Context(), questID, callerID(r), &req)
	if err != nil {
		handleError(w, r, err)
		return
	}

	WriteData(w, http.StatusCreated, comment)
}

// List handles GET /quests/{id}/comments
func (h *CommentHandler) List(w http.ResponseWriter, r *http.Request) {
	questID, problem := pathID(r, "id")
	if problem != nil {
		WriteError(w, problem)
		return
	}
	page, problem := pageParams(r)
	if problem != nil {
		WriteError(w, problem)
		return
	}

	comments, err := h.svc.ListByQuest(r.Context(), questID, page)
	if err != nil {
		handleError(w, r, err)
		return
	}

	WriteCollection(w, comments)
}

// Delete handles DELETE /comments/{id} - author only
func (h *CommentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, problem := pathID(r, "id")
	if problem != nil {
		WriteError(w, problem)
		return
	}

	if err := h.svc.Delete(r.Context(), id, callerID(r)); err != nil {
		handleError(w, r, err)
		return
	}

	WriteNoContent(w)
}
