package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/forgo/guildhall/api/internal/database"
	"github.com/forgo/guildhall/api/internal/model"
)

// CampaignRepository handles campaign data access
type CampaignRepository struct {
	db database.Database
}

// NewCampaignRepository creates a new campaign repository
func NewCampaignRepository(db database.Database) *CampaignRepository {
	return &CampaignRepository{db: db}
}

// Create stores a new campaign and fills in its generated fields
func (r *CampaignRepository) Create(ctx context.Context, campaign *model.Campaign) error {
	query := fmt.Sprintf(`
		CREATE ONLY %s CONTENT {
			title: $title,
			description: IF $description IS NOT NULL THEN $description ELSE NONE END,
			is_public: $is_public,
			author: %s,
			created_at: time::now()
		}
	`, nextID("campaign"), thing("user", "author_id"))

	result, err := r.db.QueryOne(ctx, query, map[string]interface{}{
		"title":       campaign.Title,
		"description": ptrOrNone(campaign.Description),
		"is_public":   campaign.IsPublic,
		"author_id":   campaign.AuthorID,
	})
	if err != nil {
		return fmt.Errorf("create campaign: %w", err)
	}
	data, err := asRecord(result)
	if err != nil {
		return err
	}
	*campaign = *parseCampaign(data)
	return nil
}

// GetByID retrieves a campaign by ID
func (r *CampaignRepository) GetByID(ctx context.Context, id int) (*model.Campaign, error) {
	return r.getOne(ctx, "SELECT * FROM ONLY "+thing("campaign", "id"), map[string]interface{}{"id": id})
}

// GetByTitle retrieves an author's campaign by title
func (r *CampaignRepository) GetByTitle(ctx context.Context, authorID int, title string) (*model.Campaign, error) {
	query := "SELECT * FROM campaign WHERE author = " + thing("user", "author_id") + " AND title = $title ORDER BY id LIMIT 1"
	return r.getOne(ctx, query, map[string]interface{}{"author_id": authorID, "title": title})
}

func (r *CampaignRepository) getOne(ctx context.Context, query string, vars map[string]interface{}) (*model.Campaign, error) {
	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get campaign: %w", err)
	}
	data, err := asRecord(result)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return parseCampaign(data), nil
}

// List returns one page of campaigns, optionally limited to one author
func (r *CampaignRepository) List(ctx context.Context, authorID *int, page model.PageRequest) (*model.Page[*model.Campaign], error) {
	q := newListQuery("campaign")
	if authorID != nil {
		q.link("author", "user", *authorID)
	}
	return queryPage(ctx, r.db, q, page, parseCampaign)
}

// Update applies a sparse update and returns the stored campaign
func (r *CampaignRepository) Update(ctx context.Context, id int, req *model.UpdateCampaignRequest) (*model.Campaign, error) {
	set := newSetClause()
	setOptional(set, "title", req.Title)
	setOptional(set, "description", req.Description)
	setOptional(set, "is_public", req.IsPublic)

	if set.empty() {
		return r.GetByID(ctx, id)
	}

	query, vars := set.statement("campaign", id)
	return r.getOne(ctx, query, vars)
}

// Delete removes a campaign and reports whether it existed. Its quests are
// detached, not deleted.
func (r *CampaignRepository) Delete(ctx context.Context, id int) (bool, error) {
	deleted, err := deleteRecord(ctx, r.db, "campaign", id)
	if err != nil {
		return false, fmt.Errorf("delete campaign: %w", err)
	}
	return deleted, nil
}

func parseCampaign(data map[string]interface{}) *model.Campaign {
	return &model.Campaign{
		ID:          recordKey(data["id"]),
		Title:       getString(data, "title"),
		Description: getStringPtr(data, "description"),
		IsPublic:    getBool(data, "is_public"),
		AuthorID:    getLinkID(data, "author"),
		CreatedAt:   getTimeValue(data, "created_at"),
		UpdatedAt:   getTime(data, "updated_at"),
	}
}
