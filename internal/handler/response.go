package handler

import (
	"encoding/json"
	"net/http"

	"github.com/forgo/guildhall/api/internal/model"
)

// DataResponse wraps a single resource
type DataResponse struct {
	Data any `json:"data"`
}

// CollectionResponse wraps one page of a list
type CollectionResponse struct {
	Data       any              `json:"data"`
	Pagination model.Pagination `json:"pagination"`
}

// WriteJSON writes a JSON response with the given status code
func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// WriteData writes a successful data response
func WriteData(w http.ResponseWriter, status int, data any) {
	WriteJSON(w, status, DataResponse{Data: data})
}

// WriteCollection writes one page of a list with its window
func WriteCollection[T any](w http.ResponseWriter, page *model.Page[T]) {
	WriteJSON(w, http.StatusOK, CollectionResponse{
		Data:       page.Items,
		Pagination: page.Pagination(),
	})
}

// WriteError writes an error response using RFC 9457 Problem Details
func WriteError(w http.ResponseWriter, err *model.ProblemDetails) {
	err.WriteJSON(w)
}

// DecodeJSON decodes a JSON request body into the given struct. Unknown
// fields are rejected so that read-only fields cannot be smuggled into
// an update.
func DecodeJSON(r *http.Request, v any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(v)
}

// WriteNoContent writes a 204 No Content response
func WriteNoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}
