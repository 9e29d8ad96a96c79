package model

// Pagination bounds applied to every list endpoint.
const (
	DefaultLimit = 10
	MaxLimit     = 100
)

// PageRequest is an offset/limit window over an id-ordered list
type PageRequest struct {
	Skip  int
	Limit int
}

// DefaultPage returns the first page with the default limit
func DefaultPage() PageRequest {
	return PageRequest{Skip: 0, Limit: DefaultLimit}
}

// Validate checks the window bounds
func (p PageRequest) Validate() []FieldError {
	var errors []FieldError
	if p.Skip < 0 {
		errors = append(errors, FieldError{Field: "skip", Message: "skip must be 0 or greater"})
	}
	if p.Limit < 1 || p.Limit > MaxLimit {
		errors = append(errors, FieldError{Field: "limit", Message: "limit must be between 1 and 100"})
	}
	return errors
}

// Page is one window of a list together with the total before paging
type Page[T any] struct {
	Items []T
	Total int
	Skip  int
	Limit int
}

// NewPage builds a page, normalizing a nil slice to empty
func NewPage[T any](items []T, total int, req PageRequest) *Page[T] {
	if items == nil {
		items = []T{}
	}
	return &Page[T]{Items: items, Total: total, Skip: req.Skip, Limit: req.Limit}
}

// Pagination is the wire form of a page's window
type Pagination struct {
	Total int `json:"total"`
	Skip  int `json:"skip"`
	Limit int `json:"limit"`
}

// Pagination returns the page's window for the response envelope
func (p *Page[T]) Pagination() Pagination {
	return Pagination{Total: p.Total, Skip: p.Skip, Limit: p.Limit}
}
