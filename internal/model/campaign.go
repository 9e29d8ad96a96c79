package model

import "time"

// Campaign is a named grouping of quests owned by one user
type Campaign struct {
	ID          int        `json:"id"`
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	IsPublic    bool       `json:"is_public"`
	AuthorID    int        `json:"author_id"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at"`
}

// OwnerID returns the author's id
func (c *Campaign) OwnerID() int {
	return c.AuthorID
}

// CreateCampaignRequest represents a request to create a campaign
type CreateCampaignRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
	IsPublic    *bool   `json:"is_public,omitempty"` // defaults to true
}

// Validate checks if the create request is valid
func (r *CreateCampaignRequest) Validate() []FieldError {
	var errors []FieldError

	errors = checkRequired(errors, "title", r.Title, MaxNameLength)
	errors = checkOptional(errors, "description", r.Description, MaxLongTextLength)

	return errors
}

// UpdateCampaignRequest is a sparse campaign update
type UpdateCampaignRequest struct {
	Title       Optional[string] `json:"title"`
	Description Optional[string] `json:"description"`
	IsPublic    Optional[bool]   `json:"is_public"`
}

// Validate checks if the update request is valid
func (r *UpdateCampaignRequest) Validate() []FieldError {
	var errors []FieldError

	errors = requireNonNull(errors, "title", r.Title)
	errors = requireNonNull(errors, "is_public", r.IsPublic)
	if r.Title.HasValue() {
		errors = checkRequired(errors, "title", r.Title.Value, MaxNameLength)
	}
	errors = checkOptionalField(errors, "description", r.Description, MaxLongTextLength)

	return errors
}
