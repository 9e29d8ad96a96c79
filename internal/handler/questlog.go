package handler

import (
	"net/http"

	"github.com/forgo/guildhall/api/internal/model"
)

// QuestLogHandler handles the per-location quest log
type QuestLogHandler struct {
	svc LocationService
}

// NewQuestLogHandler creates a new quest log handler
func NewQuestLogHandler(svc LocationService) *QuestLogHandler {
	return &QuestLogHandler{svc: svc}
}

// Create handles POST /locations/{id}/log
func (h *QuestLogHandler) Create(w http.ResponseWriter, r *http.Request) {
	id, problem := pathID(r, "id")
	if problem != nil {
		WriteError(w, problem)
		return
	}

	var req model.CreateQuestLogEntryRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	entry, err := h.svc.AddLogEntry(r.Context(), id, &req)
	if err != nil {
		handleError(w, r, err)
		return
	}

	WriteData(w, http.StatusCreated, entry)
}

// List handles GET /locations/{id}/log
func (h *QuestLogHandler) List(w http.ResponseWriter, r *http.Request) {
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

	entries, err := h.svc.ListLogEntries(r.Context(), id, page)
	if err != nil {
		handleError(w, r, err)
		return
	}

	WriteCollection(w, entries)
}
