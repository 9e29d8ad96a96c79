package handler

import (
	"context"
	"net/http"

	"github.com/forgo/guildhall/api/internal/model"
)

// ReferenceService is the part of service.ReferenceService the handler needs
type ReferenceService interface {
	List(ctx context.Context, kind model.ReferenceKind) ([]*model.ReferenceEntry, error)
	Achievements(ctx context.Context, page model.PageRequest) (*model.Page[*model.Achievement], error)
}

// ReferenceHandler serves the fixed vocabularies and the achievement catalogue
type ReferenceHandler struct {
	svc ReferenceService
}

// NewReferenceHandler creates a new reference handler
func NewReferenceHandler(svc ReferenceService) *ReferenceHandler {
	return &ReferenceHandler{svc: svc}
}

// List returns a handler for one vocabulary, e.g. GET /reference/interests.
// Vocabularies are small and returned whole.
func (h *ReferenceHandler) List(kind model.ReferenceKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entries, err := h.svc.List(r.Context(), kind)
		if err != nil {
			handleError(w, r, err)
			return
		}
		if entries == nil {
			entries = []*model.ReferenceEntry{}
		}

		WriteData(w, http.StatusOK, entries)
	}
}

// Achievements handles GET /achievements
func (h *ReferenceHandler) Achievements(w http.ResponseWriter, r *http.Request) {
	page, problem := pageParams(r)
	if problem != nil {
		WriteError(w, problem)
		return
	}

	achievements, err := h.svc.Achievements(r.Context(), page)
	if err != nil {
		handleError(w, r, err)
		return
	}

	WriteCollection(w, achievements)
}
