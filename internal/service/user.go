package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/forgo/guildhall/api/internal/database"
	"github.com/forgo/guildhall/api/internal/model"
)

// UserService handles profile reads and self-service updates
type UserService struct {
	userRepo UserRepository
	cost     int
}

// UserServiceConfig holds configuration for the user service
type UserServiceConfig struct {
	UserRepo   UserRepository
	BcryptCost int // defaults to 12
}

// NewUserService creates a new user service
func NewUserService(cfg UserServiceConfig) *UserService {
	cost := cfg.BcryptCost
	if cost == 0 {
		cost = bcryptCost
	}
	return &UserService{userRepo: cfg.UserRepo, cost: cost}
}

// Get returns a user by id
func (s *UserService) Get(ctx context.Context, id int) (*model.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// List returns one page of users
func (s *UserService) List(ctx context.Context, page model.PageRequest) (*model.Page[*model.User], error) {
	if err := invalid(page.Validate()); err != nil {
		return nil, err
	}
	return s.userRepo.List(ctx, page)
}

// UpdateProfile applies a sparse update to the caller's own profile. An
// inactive caller is refused before anything is validated or written.
// Tokens carry the email as subject, so changing the email retires every
// token issued for the old one; the client signs in again with the new one.
func (s *UserService) UpdateProfile(ctx context.Context, caller *model.User, req *model.UpdateUserRequest) (*model.User, error) {
	if !caller.IsActive {
		return nil, ErrUserInactive
	}
	if req.Email.HasValue() {
		req.Email.Value = model.NormalizeEmail(req.Email.Value)
	}
	if err := invalid(req.Validate()); err != nil {
		return nil, err
	}
	if req.IsEmpty() {
		return caller, nil
	}

	changes := model.UserChanges{
		DisplayName: req.DisplayName,
		AvatarURL:   req.AvatarURL,
		GuildRank:   req.GuildRank,
	}

	if req.Email.HasValue() {
		email := model.NormalizeEmail(req.Email.Value)
		if email != caller.Email {
			existing, err := s.userRepo.GetByEmail(ctx, email)
			if err != nil {
				return nil, err
			}
			if existing != nil {
				return nil, ErrEmailAlreadyExists
			}
			changes.Email = model.Some(email)
		}
	}

	if req.Password.HasValue() {
		hash, err := hashPassword(req.Password.Value, s.cost)
		if err != nil {
			return nil, err
		}
		changes.Hash = model.Some(hash)
	}

	updated, err := s.userRepo.Update(ctx, caller.ID, changes)
	if err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			return nil, ErrEmailAlreadyExists
		}
		return nil, err
	}
	if updated == nil {
		return nil, ErrUserNotFound
	}
	return updated, nil
}

// SetActive switches an account on or off by email. An inactive user can
// still sign in and read, but cannot change their own profile.
func (s *UserService) SetActive(ctx context.Context, email string, active bool) (*model.User, error) {
	user, err := s.userRepo.GetByEmail(ctx, model.NormalizeEmail(email))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	if user.IsActive == active {
		return user, nil
	}

	updated, err := s.userRepo.Update(ctx, user.ID, model.UserChanges{IsActive: model.Some(active)})
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, ErrUserNotFound
	}
	slog.InfoContext(ctx, "user activation changed",
		slog.Int("user_id", updated.ID),
		slog.Bool("active", active),
	)
	return updated, nil
}

// ListBookmarks returns one page of the quests the user has bookmarked
func (s *UserService) ListBookmarks(ctx context.Context, userID int, page model.PageRequest) (*model.Page[*model.Quest], error) {
	if err := invalid(page.Validate()); err != nil {
		return nil, err
	}
	return s.userRepo.ListBookmarkedQuests(ctx, userID, page)
}
