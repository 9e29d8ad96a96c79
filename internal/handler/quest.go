package handler

import (
	"context"
	"net/http"

	"github.com/forgo/guildhall/api/internal/model"
)

// QuestService is the part of service.QuestService the handler needs
type QuestService interface {
	Create(ctx context.Context, authorID int, req *model.CreateQuestRequest) (*model.Quest, error)
	Get(ctx context.Context, id int) (*model.Quest, error)
	List(ctx context.Context, filter model.QuestFilter, page model.PageRequest) (*model.Page[*model.Quest], error)
	Update(ctx context.Context, id, callerID int, req *model.UpdateQuestRequest) (*model.Quest, error)
	Delete(ctx context.Context, id, callerID int) error
	Like(ctx context.Context, id int) (*model.Quest, error)
	ToggleBookmark(ctx context.Context, questID, userID int) (*model.BookmarkState, error)
}

// QuestHandler handles quest endpoints
type QuestHandler struct {
	svc QuestService
}

// NewQuestHandler creates a new quest handler
func NewQuestHandler(svc QuestService) *QuestHandler {
	return &QuestHandler{svc: svc}
}

// Create handles POST /quests - the caller becomes the author
func (h *QuestHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateQuestRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	quest, err := h.svc.Create(r.Context(), callerID(r), &req)
	if err != nil {
		handleError(w, r, err)
		return
	}

	WriteData(w, http.StatusCreated, quest)
}

// List handles GET /quests with optional filters
func (h *QuestHandler) List(w http.ResponseWriter, r *http.Request) {
	filter, problem := questFilter(r)
	if problem != nil {
		WriteError(w, problem)
		return
	}
	page, problem := pageParams(r)
	if problem != nil {
		WriteError(w, problem)
		return
	}

	quests, err := h.svc.List(r.Context(), filter, page)
	if err != nil {
		handleError(w, r, err)
		return
	}

	WriteCollection(w, quests)
}

// Get handles GET /quests/{id}
func (h *QuestHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, problem := pathID(r, "id")
	if problem != nil {
		WriteError(w, problem)
		return
	}

	quest, err := h.svc.Get(r.Context(), id)
	if err != nil {
		handleError(w, r, err)
		return
	}

	WriteData(w, http.StatusOK, quest)
}

// Update handles PUT /quests/{id} - owner only, sparse
func (h *QuestHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, problem := pathID(r, "id")
	if problem != nil {
		WriteError(w, problem)
		return
	}

	var req model.UpdateQuestRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	quest, err := h.svc.Update(r.Context(), id, callerID(r), &req)
	if err != nil {
		handleError(w, r, err)
		return
	}

	WriteData(w, http.StatusOK, quest)
}

// Delete handles DELETE /quests/{id} - owner only
func (h *QuestHandler) Delete(w http.ResponseWriter, r *http.Request) {
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

// Like handles POST /quests/{id}/like
func (h *QuestHandler) Like(w http.ResponseWriter, r *http.Request) {
	id, problem := pathID(r, "id")
	if problem != nil {
		WriteError(w, problem)
		return
	}

	quest, err := h.svc.Like(r.Context(), id)
	if err != nil {
		handleError(w, r, err)
		return
	}

	WriteData(w, http.StatusOK, quest)
}

// ToggleBookmark handles POST /quests/{id}/bookmark
func (h *QuestHandler) ToggleBookmark(w http.ResponseWriter, r *http.Request) {
	id, problem := pathID(r, "id")
	if problem != nil {
		WriteError(w, problem)
		return
	}

	state, err := h.svc.ToggleBookmark(r.Context(), id, callerID(r))
	if err != nil {
		handleError(w, r, err)
		return
	}

	WriteData(w, http.StatusOK, state)
}
