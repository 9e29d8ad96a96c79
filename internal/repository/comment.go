package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/forgo/guildhall/api/internal/database"
	"github.com/forgo/guildhall/api/internal/model"
)

// CommentRepository handles quest comment data access
type CommentRepository struct {
	db database.Database
}

// NewCommentRepository creates a new comment repository
func NewCommentRepository(db database.Database) *CommentRepository {
	return &CommentRepository{db: db}
}

// Create adds a comment to a quest
func (r *CommentRepository) Create(ctx context.Context, questID, authorID int, content string) (*model.Comment, error) {
	query := fmt.Sprintf(`
		CREATE ONLY %s CONTENT {
			quest: %s,
			author: %s,
			content: $content,
			created_at: time::now()
		}
	`, nextID("comment"), thing("quest", "quest_id"), thing("user", "author_id"))

	result, err := r.db.QueryOne(ctx, query, map[string]interface{}{
		"quest_id":  questID,
		"author_id": authorID,
		"content":   content,
	})
	if err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}
	data, err := asRecord(result)
	if err != nil {
		return nil, err
	}
	return parseComment(data), nil
}

// GetByID retrieves a comment by ID
func (r *CommentRepository) GetByID(ctx context.Context, id int) (*model.Comment, error) {
	result, err := r.db.QueryOne(ctx, "SELECT * FROM ONLY "+thing("comment", "id"), map[string]interface{}{"id": id})
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get comment: %w", err)
	}
	data, err := asRecord(result)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return parseComment(data), nil
}

// ListByQuest returns one page of a quest's comments, oldest first
func (r *CommentRepository) ListByQuest(ctx context.Context, questID int, page model.PageRequest) (*model.Page[*model.Comment], error) {
	q := newListQuery("comment").link("quest", "quest", questID)
	return queryPage(ctx, r.db, q, page, parseComment)
}

// Delete removes a comment and reports whether it existed
func (r *CommentRepository) Delete(ctx context.Context, id int) (bool, error) {
	deleted, err := deleteRecord(ctx, r.db, "comment", id)
	if err != nil {
		return false, fmt.Errorf("delete comment: %w", err)
	}
	return deleted, nil
}

func parseComment(data map[string]interface{}) *model.Comment {
	return &model.Comment{
		ID:        recordKey(data["id"]),
		QuestID:   getLinkID(data, "quest"),
		AuthorID:  getLinkID(data, "author"),
		Content:   getString(data, "content"),
		CreatedAt: getTimeValue(data, "created_at"),
	}
}
