package model

import "time"

// Location is a point of interest referenced by quests and quest logs
type Location struct {
	ID                   int     `json:"id"`
	Name                 string  `json:"name"`
	Description          *string `json:"description"`
	Latitude             float64 `json:"latitude"`
	Longitude            float64 `json:"longitude"`
	Address              *string `json:"address"`
	City                 *string `json:"city"`
	Country              *string `json:"country"`
	RealWorldInspiration *string `json:"real_world_inspiration"`
}

// CreateLocationRequest represents a request to create a location
type CreateLocationRequest struct {
	Name                 string   `json:"name"`
	Description          *string  `json:"description,omitempty"`
	Latitude             *float64 `json:"latitude"`
	Longitude            *float64 `json:"longitude"`
	Address              *string  `json:"address,omitempty"`
	City                 *string  `json:"city,omitempty"`
	Country              *string  `json:"country,omitempty"`
	RealWorldInspiration *string  `json:"real_world_inspiration,omitempty"`
}

// Validate checks if the create request is valid
func (r *CreateLocationRequest) Validate() []FieldError {
	var errors []FieldError

	errors = checkRequired(errors, "name", r.Name, MaxNameLength)
	errors = checkOptional(errors, "description", r.Description, MaxLongTextLength)
	if r.Latitude == nil {
		errors = append(errors, FieldError{Field: "latitude", Message: "latitude is required"})
	} else {
		errors = checkLatitude(errors, *r.Latitude)
	}
	if r.Longitude == nil {
		errors = append(errors, FieldError{Field: "longitude", Message: "longitude is required"})
	} else {
		errors = checkLongitude(errors, *r.Longitude)
	}
	errors = checkOptional(errors, "address", r.Address, MaxShortTextLength)
	errors = checkOptional(errors, "city", r.City, MaxNameLength)
	errors = checkOptional(errors, "country", r.Country, MaxNameLength)
	errors = checkOptional(errors, "real_world_inspiration", r.RealWorldInspiration, MaxLongTextLength)

	return errors
}

// UpdateLocationRequest is a sparse location update
type UpdateLocationRequest struct {
	Name                 Optional[string]  `json:"name"`
	Description          Optional[string]  `json:"description"`
	Latitude             Optional[float64] `json:"latitude"`
	Longitude            Optional[float64] `json:"longitude"`
	Address              Optional[string]  `json:"address"`
	City                 Optional[string]  `json:"city"`
	Country              Optional[string]  `json:"country"`
	RealWorldInspiration Optional[string]  `json:"real_world_inspiration"`
}

// Validate checks if the update request is valid
func (r *UpdateLocationRequest) Validate() []FieldError {
	var errors []FieldError

	errors = requireNonNull(errors, "name", r.Name)
	errors = requireNonNull(errors, "latitude", r.Latitude)
	errors = requireNonNull(errors, "longitude", r.Longitude)

	if r.Name.HasValue() {
		errors = checkRequired(errors, "name", r.Name.Value, MaxNameLength)
	}
	if r.Latitude.HasValue() {
		errors = checkLatitude(errors, r.Latitude.Value)
	}
	if r.Longitude.HasValue() {
		errors = checkLongitude(errors, r.Longitude.Value)
	}
	errors = checkOptionalField(errors, "description", r.Description, MaxLongTextLength)
	errors = checkOptionalField(errors, "address", r.Address, MaxShortTextLength)
	errors = checkOptionalField(errors, "city", r.City, MaxNameLength)
	errors = checkOptionalField(errors, "country", r.Country, MaxNameLength)
	errors = checkOptionalField(errors, "real_world_inspiration", r.RealWorldInspiration, MaxLongTextLength)

	return errors
}

// QuestLogEntry is a dated note recorded at a location
type QuestLogEntry struct {
	ID         int       `json:"id"`
	Note       string    `json:"note"`
	LocationID int       `json:"location_id"`
	Timestamp  time.Time `json:"timestamp"`
}

// CreateQuestLogEntryRequest represents a request to add a log entry
type CreateQuestLogEntryRequest struct {
	Note string `json:"note"`
}

// Validate checks if the log entry request is valid
func (r *CreateQuestLogEntryRequest) Validate() []FieldError {
	return checkRequired(nil, "note", r.Note, MaxLongTextLength)
}
