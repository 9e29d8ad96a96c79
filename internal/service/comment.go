package service

import (
	"context"

	"github.com/forgo/guildhall/api/internal/model"
)

// CommentRepository defines the interface for comment storage
type CommentRepository interface {
	Create(ctx context.Context, questID, authorID int, content string) (*model.Comment, error)
	GetByID(ctx context.Context, id int) (*model.Comment, error)
	ListByQuest(ctx context.Context, questID int, page model.PageRequest) (*model.Page[*model.Comment], error)
	Delete(ctx context.Context, id int) (bool, error)
}

// QuestLookup is the part of quest storage comments depend on
type QuestLookup interface {
	GetByID(ctx context.Context, id int) (*model.Quest, error)
}

// CommentService handles comments on quests
type CommentService struct {
	commentRepo CommentRepository
	quests      QuestLookup
}

// NewCommentService creates a new comment service
func NewCommentService(commentRepo CommentRepository, quests QuestLookup) *CommentService {
	return &CommentService{commentRepo: commentRepo, quests: quests}
}

// Create adds a comment by authorID to a quest
func (s *CommentService) Create(ctx context.Context, questID, authorID int, req *model.CreateCommentRequest) (*model.Comment, error) {
	if err := invalid(req.Validate()); err != nil {
		return nil, err
	}
	if err := s.requireQuest(ctx, questID); err != nil {
		return nil, err
	}
	return s.commentRepo.Create(ctx, questID, authorID, req.Content)
}

// ListByQuest returns one page of a quest's comments, oldest first
func (s *CommentService) ListByQuest(ctx context.Context, questID int, page model.PageRequest) (*model.Page[*model.Comment], error) {
	if err := invalid(page.Validate()); err != nil {
		return nil, err
	}
	if err := s.requireQuest(ctx, questID); err != nil {
		return nil, err
	}
	return s.commentRepo.ListByQuest(ctx, questID, page)
}

// Delete removes a comment. Only its author may delete it.
func (s *CommentService) Delete(ctx context.Context, id, callerID int) error {
	if _, err := loadOwned(ctx, s.commentRepo.GetByID, id, callerID, ErrCommentNotFound); err != nil {
		return err
	}
	deleted, err := s.commentRepo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrCommentNotFound
	}
	return nil
}

func (s *CommentService) requireQuest(ctx context.Context, questID int) error {
	quest, err := s.quests.GetByID(ctx, questID)
	if err != nil {
		return err
	}
	if quest == nil {
		return ErrQuestNotFound
	}
	return nil
}
