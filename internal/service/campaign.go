package service

import (
	"context"

	"github.com/forgo/guildhall/api/internal/model"
)

// CampaignRepository defines the interface for campaign storage
type CampaignRepository interface {
	Create(ctx context.Context, campaign *model.Campaign) error
	GetByID(ctx context.Context, id int) (*model.Campaign, error)
	List(ctx context.Context, authorID *int, page model.PageRequest) (*model.Page[*model.Campaign], error)
	Update(ctx context.Context, id int, req *model.UpdateCampaignRequest) (*model.Campaign, error)
	Delete(ctx context.Context, id int) (bool, error)
}

// CampaignService handles campaign CRUD with author-only mutation
type CampaignService struct {
	campaignRepo CampaignRepository
}

// NewCampaignService creates a new campaign service
func NewCampaignService(campaignRepo CampaignRepository) *CampaignService {
	return &CampaignService{campaignRepo: campaignRepo}
}

// Create stores a campaign authored by authorID
func (s *CampaignService) Create(ctx context.Context, authorID int, req *model.CreateCampaignRequest) (*model.Campaign, error) {
	if err := invalid(req.Validate()); err != nil {
		return nil, err
	}

	campaign := &model.Campaign{
		Title:       req.Title,
		Description: req.Description,
		IsPublic:    req.IsPublic == nil || *req.IsPublic,
		AuthorID:    authorID,
	}
	if err := s.campaignRepo.Create(ctx, campaign); err != nil {
		return nil, err
	}
	return campaign, nil
}

func (s *CampaignService) Get(ctx context.Context, id int) (*model.Campaign, error) {
	campaign, err := s.campaignRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if campaign == nil {
		return nil, ErrCampaignNotFound
	}
	return campaign, nil
}

// List returns one page of campaigns, optionally by one author
func (s *CampaignService) List(ctx context.Context, authorID *int, page model.PageRequest) (*model.Page[*model.Campaign], error) {
	if err := invalid(page.Validate()); err != nil {
		return nil, err
	}
	return s.campaignRepo.List(ctx, authorID, page)
}

func (s *CampaignService) Update(ctx context.Context, id, callerID int, req *model.UpdateCampaignRequest) (*model.Campaign, error) {
	if _, err := loadOwned(ctx, s.campaignRepo.GetByID, id, callerID, ErrCampaignNotFound); err != nil {
		return nil, err
	}
	if err := invalid(req.Validate()); err != nil {
		return nil, err
	}

	campaign, err := s.campaignRepo.Update(ctx, id, req)
	if err != nil {
		return nil, err
	}
	if campaign == nil {
		return nil, ErrCampaignNotFound
	}
	return campaign, nil
}

// Delete removes a campaign; its quests stay and lose the link
func (s *CampaignService) Delete(ctx context.Context, id, callerID int) error {
	if _, err := loadOwned(ctx, s.campaignRepo.GetByID, id, callerID, ErrCampaignNotFound); err != nil {
		return err
	}
	deleted, err := s.campaignRepo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrCampaignNotFound
	}
	return nil
}
