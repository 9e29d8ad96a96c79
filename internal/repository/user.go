package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/forgo/guildhall/api/internal/database"
	"github.com/forgo/guildhall/api/internal/model"
)

// UserRepository handles user data access
type UserRepository struct {
	db database.Database
}

// NewUserRepository creates a new user repository
func NewUserRepository(db database.Database) *UserRepository {
	return &UserRepository{db: db}
}

// Create creates a new user and fills in its generated fields
func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	query := fmt.Sprintf(`
		CREATE ONLY %s CONTENT {
			email: $email,
			display_name: $display_name,
			hash: IF $hash IS NOT NULL THEN $hash ELSE NONE END,
			avatar_url: IF $avatar_url IS NOT NULL THEN $avatar_url ELSE NONE END,
			guild_rank: IF $guild_rank IS NOT NULL THEN $guild_rank ELSE NONE END,
			is_active: true,
			created_at: time::now()
		}
	`, nextID("user"))

	vars := map[string]interface{}{
		"email":        user.Email,
		"display_name": user.DisplayName,
		"hash":         ptrOrNone(user.Hash),
		"avatar_url":   ptrOrNone(user.AvatarURL),
		"guild_rank":   ptrOrNone(user.GuildRank),
	}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if isUniqueConstraintError(err) {
			return fmt.Errorf("%w: email already exists", database.ErrDuplicate)
		}
		return fmt.Errorf("create user: %w", err)
	}

	data, err := asRecord(result)
	if err != nil {
		return err
	}
	*user = *parseUser(data)
	return nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id int) (*model.User, error) {
	return r.getOne(ctx, "SELECT * FROM ONLY "+thing("user", "id"), map[string]interface{}{"id": id})
}

// GetByEmail retrieves a user by email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `SELECT * FROM user WHERE email = $email LIMIT 1`
	return r.getOne(ctx, query, map[string]interface{}{"email": email})
}

func (r *UserRepository) getOne(ctx context.Context, query string, vars map[string]interface{}) (*model.User, error) {
	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	data, err := asRecord(result)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return parseUser(data), nil
}

// Exists reports whether a user with the given id exists
func (r *UserRepository) Exists(ctx context.Context, id int) (bool, error) {
	return exists(ctx, r.db, "user", id)
}

// List returns one page of users ordered by id
func (r *UserRepository) List(ctx context.Context, page model.PageRequest) (*model.Page[*model.User], error) {
	return queryPage(ctx, r.db, newListQuery("user"), page, parseUser)
}

// Update applies a sparse set of changes and returns the stored user
func (r *UserRepository) Update(ctx context.Context, id int, changes model.UserChanges) (*model.User, error) {
	set := newSetClause()
	setOptional(set, "email", changes.Email)
	setOptional(set, "display_name", changes.DisplayName)
	setOptional(set, "hash", changes.Hash)
	setOptional(set, "avatar_url", changes.AvatarURL)
	setOptional(set, "guild_rank", changes.GuildRank)
	setOptional(set, "is_active", changes.IsActive)

	if set.empty() {
		return r.GetByID(ctx, id)
	}

	query, vars := set.statement("user", id)
	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if isUniqueConstraintError(err) {
			return nil, fmt.Errorf("%w: email already exists", database.ErrDuplicate)
		}
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("update user: %w", err)
	}

	data, err := asRecord(result)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return parseUser(data), nil
}

// ListBookmarkedQuests returns one page of the quests a user has bookmarked
func (r *UserRepository) ListBookmarkedQuests(ctx context.Context, userID int, page model.PageRequest) (*model.Page[*model.Quest], error) {
	q := newListQuery("quest").raw(
		"id IN (SELECT VALUE quest FROM bookmark WHERE user = "+thing("user", "bookmark_user")+")",
		map[string]interface{}{"bookmark_user": userID},
	)
	return queryPage(ctx, r.db, q, page, parseQuest)
}

func parseUser(data map[string]interface{}) *model.User {
	return &model.User{
		ID:          recordKey(data["id"]),
		Email:       getString(data, "email"),
		DisplayName: getString(data, "display_name"),
		AvatarURL:   getStringPtr(data, "avatar_url"),
		GuildRank:   getStringPtr(data, "guild_rank"),
		Hash:        getStringPtr(data, "hash"),
		IsActive:    getBool(data, "is_active"),
		CreatedAt:   getTimeValue(data, "created_at"),
		UpdatedAt:   getTime(data, "updated_at"),
	}
}
