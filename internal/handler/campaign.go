package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/forgo/guildhall/api/internal/model"
)

// CampaignService is the part of service.CampaignService the handler needs
type CampaignService interface {
	Create(ctx context.Context, authorID int, req *model.CreateCampaignRequest) (*model.Campaign, error)
	Get(ctx context.Context, id int) (*model.Campaign, error)
	List(ctx context.Context, authorID *int, page model.PageRequest) (*model.Page[*model.Campaign], error)
	Update(ctx context.Context, id, callerID int, req *model.UpdateCampaignRequest) (*model.Campaign, error)
	Delete(ctx context.Context, id, callerID int) error
}

// CampaignHandler handles campaign endpoints
type CampaignHandler struct {
	svc CampaignService
}

// NewCampaignHandler creates a new campaign handler
func NewCampaignHandler(svc CampaignService) *CampaignHandler {
	return &CampaignHandler{svc: svc}
}

// Create handles POST /campaigns
func (h *CampaignHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateCampaignRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	campaign, err := h.svc.Create(r.Context(), callerID(r), &req)
	if err != nil {
		handleError(w, r, err)
		return
	}

	WriteData(w, http.StatusCreated, campaign)
}

// List handles GET /campaigns, optionally narrowed by author_id
func (h *CampaignHandler) List(w http.ResponseWriter, r *http.Request) {
	var authorID *int
	if raw := r.URL.Query().Get("author_id"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v <= 0 {
			WriteError(w, model.NewValidationError([]model.FieldError{
				{Field: "author_id", Message: "author_id must be a positive integer"},
			}))
			return
		}
		authorID = &v
	}
	page, problem := pageParams(r)
	if problem != nil {
		WriteError(w, problem)
		return
	}

	campaigns, err := h.svc.List(r.Context(), authorID, page)
	if err != nil {
		handleError(w, r, err)
		return
	}

	WriteCollection(w, campaigns)
}

// Get handles GET /campaigns/{id}
func (h *CampaignHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, problem := pathID(r, "id")
	if problem != nil {
		WriteError(w, problem)
		return
	}

	campaign, err := h.svc.Get(r.Context(), id)
	if err != nil {
		handleError(w, r, err)
		return
	}

	WriteData(w, http.StatusOK, campaign)
}

// Update handles PUT /campaigns/{id} - owner only
func (h *CampaignHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, problem := pathID(r, "id")
	if problem != nil {
		WriteError(w, problem)
		return
	}

	var req model.UpdateCampaignRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	campaign, err := h.svc.Update(r.Context(), id, callerID(r), &req)
	if err != nil {
		handleError(w, r, err)
		return
	}

	WriteData(w, http.StatusOK, campaign)
}

// Delete handles DELETE /campaigns/{id} - owner only. Quests in the
// campaign are detached, not deleted.
func (h *CampaignHandler) Delete(w http.ResponseWriter, r *http.Request) {
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
