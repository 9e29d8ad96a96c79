package handler

import (
	"context"
	"net/http"

	"github.com/forgo/guildhall/api/internal/model"
)

// LocationService is the part of service.LocationService the handlers need
type LocationService interface {
	Create(ctx context.Context, req *model.CreateLocationRequest) (*model.Location, error)
	Get(ctx context.Context, id int) (*model.Location, error)
	List(ctx context.Context, page model.PageRequest) (*model.Page[*model.Location], error)
	Update(ctx context.Context, id int, req *model.UpdateLocationRequest) (*model.Location, error)
	Delete(ctx context.Context, id int) error
	AddLogEntry(ctx context.Context, locationID int, req *model.CreateQuestLogEntryRequest) (*model.QuestLogEntry, error)
	ListLogEntries(ctx context.Context, locationID int, page model.PageRequest) (*model.Page[*model.QuestLogEntry], error)
}

// LocationHandler handles location endpoints
type LocationHandler struct {
	svc LocationService
}

// NewLocationHandler creates a new location handler
func NewLocationHandler(svc LocationService) *LocationHandler {
	return &LocationHandler{svc: svc}
}

// Create handles POST /locations
func (h *LocationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateLocationRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	location, err := h.svc.Create(r.Context(), &req)
	if err != nil {
		handleError(w, r, err)
		return
	}

	WriteData(w, http.StatusCreated, location)
}

// List handles GET /locations
func (h *LocationHandler) List(w http.ResponseWriter, r *http.Request) {
	page, problem := pageParams(r)
	if problem != nil {
		WriteError(w, problem)
		return
	}

	locations, err := h.svc.List(r.Context(), page)
	if err != nil {
		handleError(w, r, err)
		return
	}

	WriteCollection(w, locations)
}

// Get handles GET /locations/{id}
func (h *LocationHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, problem := pathID(r, "id")
	if problem != nil {
		WriteError(w, problem)
		return
	}

	location, err := h.svc.Get(r.Context(), id)
	if err != nil {
		handleError(w, r, err)
		return
	}

	WriteData(w, http.StatusOK, location)
}

// Update handles PUT /locations/{id}
func (h *LocationHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, problem := pathID(r, "id")
	if problem != nil {
		WriteError(w, problem)
		return
	}

	var req model.UpdateLocationRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	location, err := h.svc.Update(r.Context(), id, &req)
	if err != nil {
		handleError(w, r, err)
		return
	}

	WriteData(w, http.StatusOK, location)
}

// Delete handles DELETE /locations/{id}
func (h *LocationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, problem := pathID(r, "id")
	if problem != nil {
		WriteError(w, problem)
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		handleError(w, r, err)
		return
	}

	WriteNoContent(w)
}
