package repository

import (
	"context"
	"fmt"

	"github.com/forgo/guildhall/api/internal/database"
	"github.com/forgo/guildhall/api/internal/model"
)

// FollowRepository handles the follower graph
type FollowRepository struct {
	db database.Database
}

// NewFollowRepository creates a new follow repository
func NewFollowRepository(db database.Database) *FollowRepository {
	return &FollowRepository{db: db}
}

// Create records that follower follows followee. An existing follow of the
// same pair fails with database.ErrDuplicate.
func (r *FollowRepository) Create(ctx context.Context, followerID, followeeID int) (*model.Follow, error) {
	query := fmt.Sprintf(`
		CREATE ONLY %s CONTENT {
			follower: %s,
			followee: %s,
			created_at: time::now()
		}
	`, nextID("follow"), thing("user", "follower_id"), thing("user", "followee_id"))

	result, err := r.db.QueryOne(ctx, query, map[string]interface{}{
		"follower_id": followerID,
		"followee_id": followeeID,
	})
	if err != nil {
		if isUniqueConstraintError(err) {
			return nil, fmt.Errorf("%w: already following", database.ErrDuplicate)
		}
		return nil, fmt.Errorf("create follow: %w", err)
	}
	data, err := asRecord(result)
	if err != nil {
		return nil, err
	}
	return &model.Follow{
		ID:         recordKey(data["id"]),
		FollowerID: getLinkID(data, "follower"),
		FolloweeID: getLinkID(data, "followee"),
		CreatedAt:  getTimeValue(data, "created_at"),
	}, nil
}

// Delete removes a follow and reports whether one existed
func (r *FollowRepository) Delete(ctx context.Context, followerID, followeeID int) (bool, error) {
	query := fmt.Sprintf(
		"DELETE follow WHERE follower = %s AND followee = %s RETURN BEFORE",
		thing("user", "follower_id"), thing("user", "followee_id"),
	)
	results, err := r.db.Query(ctx, query, map[string]interface{}{
		"follower_id": followerID,
		"followee_id": followeeID,
	})
	if err != nil {
		return false, fmt.Errorf("delete follow: %w", err)
	}
	return len(statementRecords(results, 0)) > 0, nil
}

// ListFollowers returns one page of the users following userID
func (r *FollowRepository) ListFollowers(ctx context.Context, userID int, page model.PageRequest) (*model.Page[*model.User], error) {
	q := newListQuery("user").raw(
		"id IN (SELECT VALUE follower FROM follow WHERE followee = "+thing("user", "target_id")+")",
		map[string]interface{}{"target_id": userID},
	)
	return queryPage(ctx, r.db, q, page, parseUser)
}

// ListFollowing returns one page of the users userID follows
func (r *FollowRepository) ListFollowing(ctx context.Context, userID int, page model.PageRequest) (*model.Page[*model.User], error) {
	q := newListQuery("user").raw(
		"id IN (SELECT VALUE followee FROM follow WHERE follower = "+thing("user", "target_id")+")",
		map[string]interface{}{"target_id": userID},
	)
	return queryPage(ctx, r.db, q, page, parseUser)
}
