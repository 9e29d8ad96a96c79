package model

import "time"

// Comment is a note left by a user on a quest
type Comment struct {
	ID        int       `json:"id"`
	QuestID   int       `json:"quest_id"`
	AuthorID  int       `json:"author_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// OwnerID returns the author's id
func (c *Comment) OwnerID() int {
	return c.AuthorID
}

// CreateCommentRequest represents a request to comment on a quest
type CreateCommentRequest struct {
	Content string `json:"content"`
}

// Validate checks if the comment request is valid
func (r *CreateCommentRequest) Validate() []FieldError {
	return checkRequired(nil, "content", r.Content, MaxCommentLength)
}

// Follow records that one user follows another
type Follow struct {
	ID         int       `json:"id"`
	FollowerID int       `json:"follower_id"`
	FolloweeID int       `json:"followee_id"`
	CreatedAt  time.Time `json:"created_at"`
}
