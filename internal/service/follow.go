package service

import (
	"context"
	"errors"

	"github.com/forgo/guildhall/api/internal/database"
	"github.com/forgo/guildhall/api/internal/model"
)

// FollowRepository defines the interface for follow storage
type FollowRepository interface {
	Create(ctx context.Context, followerID, followeeID int) (*model.Follow, error)
	Delete(ctx context.Context, followerID, followeeID int) (bool, error)
	ListFollowers(ctx context.Context, userID int, page model.PageRequest) (*model.Page[*model.User], error)
	ListFollowing(ctx context.Context, userID int, page model.PageRequest) (*model.Page[*model.User], error)
}

// FollowService manages who follows whom
type FollowService struct {
	followRepo FollowRepository
	userRepo   UserRepository
}

// NewFollowService creates a new follow service
func NewFollowService(followRepo FollowRepository, userRepo UserRepository) *FollowService {
	return &FollowService{followRepo: followRepo, userRepo: userRepo}
}

// Follow makes followerID follow followeeID
func (s *FollowService) Follow(ctx context.Context, followerID, followeeID int) (*model.Follow, error) {
	if followerID == followeeID {
		return nil, ErrCannotFollowSelf
	}
	if err := s.requireUser(ctx, followeeID); err != nil {
		return nil, err
	}

	follow, err := s.followRepo.Create(ctx, followerID, followeeID)
	if err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			return nil, ErrAlreadyFollowing
		}
		return nil, err
	}
	return follow, nil
}

// Unfollow removes the follow from followerID to followeeID
func (s *FollowService) Unfollow(ctx context.Context, followerID, followeeID int) error {
	deleted, err := s.followRepo.Delete(ctx, followerID, followeeID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFollowing
	}
	return nil
}

// Followers returns one page of the users following userID
func (s *FollowService) Followers(ctx context.Context, userID int, page model.PageRequest) (*model.Page[*model.User], error) {
	if err := s.checkListing(ctx, userID, page); err != nil {
		return nil, err
	}
	return s.followRepo.ListFollowers(ctx, userID, page)
}

// Following returns one page of the users userID follows
func (s *FollowService) Following(ctx context.Context, userID int, page model.PageRequest) (*model.Page[*model.User], error) {
	if err := s.checkListing(ctx, userID, page); err != nil {
		return nil, err
	}
	return s.followRepo.ListFollowing(ctx, userID, page)
}

func (s *FollowService) checkListing(ctx context.Context, userID int, page model.PageRequest) error {
	if err := invalid(page.Validate()); err != nil {
		return err
	}
	return s.requireUser(ctx, userID)
}

func (s *FollowService) requireUser(ctx context.Context, id int) error {
	found, err := s.userRepo.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !found {
		return ErrUserNotFound
	}
	return nil
}
