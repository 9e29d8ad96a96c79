package model

import "time"

// Quest is a user-authored activity tied to locations and reference data.
// Likes and Bookmarks are counters maintained only by the like and
// bookmark operations.
type Quest struct {
	ID                  int        `json:"id"`
	Name                string     `json:"name"`
	Synopsis            string     `json:"synopsis"`
	Itinerary           string     `json:"itinerary"`
	StartLocationID     int        `json:"start_location_id"`
	DestinationID       *int       `json:"destination_id"`
	InterestID          int        `json:"interest_id"`
	DifficultyID        int        `json:"difficulty_id"`
	QuestTypeID         int        `json:"quest_type_id"`
	CampaignID          *int       `json:"campaign_id"`
	IsPublic            bool       `json:"is_public"`
	Completed           bool       `json:"completed"`
	Tags                *string    `json:"tags"`
	QuestGiver          *string    `json:"quest_giver"`
	Reward              *string    `json:"reward"`
	Companions          *string    `json:"companions"`
	LoreExcerpt         *string    `json:"lore_excerpt"`
	ArtifactsDiscovered *string    `json:"artifacts_discovered"`
	MediaURLs           []string   `json:"media_urls"`
	Likes               int        `json:"likes"`
	Bookmarks           int        `json:"bookmarks"`
	AuthorID            int        `json:"author_id"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           *time.Time `json:"updated_at"`
}

// OwnerID returns the author's id
func (q *Quest) OwnerID() int {
	return q.AuthorID
}

// CreateQuestRequest represents a request to create a quest. The author is
// always the caller and is not part of the payload.
type CreateQuestRequest struct {
	Name                string   `json:"name"`
	Synopsis            string   `json:"synopsis"`
	Itinerary           string   `json:"itinerary"`
	StartLocationID     int      `json:"start_location_id"`
	DestinationID       *int     `json:"destination_id,omitempty"`
	InterestID          int      `json:"interest_id"`
	DifficultyID        int      `json:"difficulty_id"`
	QuestTypeID         int      `json:"quest_type_id"`
	CampaignID          *int     `json:"campaign_id,omitempty"`
	IsPublic            *bool    `json:"is_public,omitempty"` // defaults to true
	Completed           bool     `json:"completed,omitempty"`
	Tags                *string  `json:"tags,omitempty"`
	QuestGiver          *string  `json:"quest_giver,omitempty"`
	Reward              *string  `json:"reward,omitempty"`
	Companions          *string  `json:"companions,omitempty"`
	LoreExcerpt         *string  `json:"lore_excerpt,omitempty"`
	ArtifactsDiscovered *string  `json:"artifacts_discovered,omitempty"`
	MediaURLs           []string `json:"media_urls,omitempty"`
}

// Validate checks if the create request is valid
func (r *CreateQuestRequest) Validate() []FieldError {
	var errors []FieldError

	errors = checkRequired(errors, "name", r.Name, MaxNameLength)
	errors = checkRequired(errors, "synopsis", r.Synopsis, MaxLongTextLength)
	errors = checkRequired(errors, "itinerary", r.Itinerary, MaxLongTextLength)
	errors = checkID(errors, "start_location_id", r.StartLocationID)
	errors = checkID(errors, "interest_id", r.InterestID)
	errors = checkID(errors, "difficulty_id", r.DifficultyID)
	errors = checkID(errors, "quest_type_id", r.QuestTypeID)
	if r.DestinationID != nil {
		errors = checkID(errors, "destination_id", *r.DestinationID)
	}
	if r.CampaignID != nil {
		errors = checkID(errors, "campaign_id", *r.CampaignID)
	}
	errors = checkOptional(errors, "tags", r.Tags, MaxShortTextLength)
	errors = checkOptional(errors, "quest_giver", r.QuestGiver, MaxNameLength)
	errors = checkOptional(errors, "reward", r.Reward, MaxShortTextLength)
	errors = checkOptional(errors, "companions", r.Companions, MaxShortTextLength)
	errors = checkOptional(errors, "lore_excerpt", r.LoreExcerpt, MaxLongTextLength)
	errors = checkOptional(errors, "artifacts_discovered", r.ArtifactsDiscovered, MaxLongTextLength)
	errors = checkMediaURLs(errors, r.MediaURLs)

	return errors
}

// UpdateQuestRequest is a sparse quest update. Counters and the author are
// not updatable; a payload naming them is rejected while decoding.
type UpdateQuestRequest struct {
	Name                Optional[string]   `json:"name"`
	Synopsis            Optional[string]   `json:"synopsis"`
	Itinerary           Optional[string]   `json:"itinerary"`
	StartLocationID     Optional[int]      `json:"start_location_id"`
	DestinationID       Optional[int]      `json:"destination_id"`
	InterestID          Optional[int]      `json:"interest_id"`
	DifficultyID        Optional[int]      `json:"difficulty_id"`
	QuestTypeID         Optional[int]      `json:"quest_type_id"`
	CampaignID          Optional[int]      `json:"campaign_id"`
	IsPublic            Optional[bool]     `json:"is_public"`
	Completed           Optional[bool]     `json:"completed"`
	Tags                Optional[string]   `json:"tags"`
	QuestGiver          Optional[string]   `json:"quest_giver"`
	Reward              Optional[string]   `json:"reward"`
	Companions          Optional[string]   `json:"companions"`
	LoreExcerpt         Optional[string]   `json:"lore_excerpt"`
	ArtifactsDiscovered Optional[string]   `json:"artifacts_discovered"`
	MediaURLs           Optional[[]string] `json:"media_urls"`
}

// Validate checks if the update request is valid
func (r *UpdateQuestRequest) Validate() []FieldError {
	var errors []FieldError

	errors = requireNonNull(errors, "name", r.Name)
	errors = requireNonNull(errors, "synopsis", r.Synopsis)
	errors = requireNonNull(errors, "itinerary", r.Itinerary)
	errors = requireNonNull(errors, "start_location_id", r.StartLocationID)
	errors = requireNonNull(errors, "interest_id", r.InterestID)
	errors = requireNonNull(errors, "difficulty_id", r.DifficultyID)
	errors = requireNonNull(errors, "quest_type_id", r.QuestTypeID)
	errors = requireNonNull(errors, "is_public", r.IsPublic)
	errors = requireNonNull(errors, "completed", r.Completed)

	if r.Name.HasValue() {
		errors = checkRequired(errors, "name", r.Name.Value, MaxNameLength)
	}
	if r.Synopsis.HasValue() {
		errors = checkRequired(errors, "synopsis", r.Synopsis.Value, MaxLongTextLength)
	}
	if r.Itinerary.HasValue() {
		errors = checkRequired(errors, "itinerary", r.Itinerary.Value, MaxLongTextLength)
	}
	for _, ref := range []struct {
		field string
		id    Optional[int]
	}{
		{"start_location_id", r.StartLocationID},
		{"destination_id", r.DestinationID},
		{"interest_id", r.InterestID},
		{"difficulty_id", r.DifficultyID},
		{"quest_type_id", r.QuestTypeID},
		{"campaign_id", r.CampaignID},
	} {
		if ref.id.HasValue() {
			errors = checkID(errors, ref.field, ref.id.Value)
		}
	}
	errors = checkOptionalField(errors, "tags", r.Tags, MaxShortTextLength)
	errors = checkOptionalField(errors, "quest_giver", r.QuestGiver, MaxNameLength)
	errors = checkOptionalField(errors, "reward", r.Reward, MaxShortTextLength)
	errors = checkOptionalField(errors, "companions", r.Companions, MaxShortTextLength)
	errors = checkOptionalField(errors, "lore_excerpt", r.LoreExcerpt, MaxLongTextLength)
	errors = checkOptionalField(errors, "artifacts_discovered", r.ArtifactsDiscovered, MaxLongTextLength)
	if r.MediaURLs.HasValue() {
		errors = checkMediaURLs(errors, r.MediaURLs.Value)
	}

	return errors
}

// QuestFilter narrows a quest listing. Nil fields do not constrain.
type QuestFilter struct {
	AuthorID     *int
	CampaignID   *int
	DifficultyID *int
	InterestID   *int
	QuestTypeID  *int
	IsPublic     *bool
	Completed    *bool
}

// Bookmark marks a quest as saved by a user. At most one per (user, quest).
type Bookmark struct {
	ID        int       `json:"id"`
	UserID    int       `json:"user_id"`
	QuestID   int       `json:"quest_id"`
	CreatedAt time.Time `json:"created_at"`
}

// BookmarkState is the result of a bookmark toggle
type BookmarkState struct {
	Bookmarked    bool `json:"bookmarked"`
	BookmarkCount int  `json:"bookmark_count"`
}

// CounterDrift reports a quest whose stored bookmark counter disagrees with
// the number of bookmark records pointing at it.
type CounterDrift struct {
	QuestID int `json:"quest_id"`
	Stored  int `json:"stored"`
	Actual  int `json:"actual"`
}
