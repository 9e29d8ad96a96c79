package service

import (
	"context"

	"github.com/forgo/guildhall/api/internal/model"
)

// ReferenceRepository defines the interface for vocabulary storage
type ReferenceRepository interface {
	List(ctx context.Context, kind model.ReferenceKind) ([]*model.ReferenceEntry, error)
	Exists(ctx context.Context, kind model.ReferenceKind, id int) (bool, error)
	ListAchievements(ctx context.Context, page model.PageRequest) (*model.Page[*model.Achievement], error)
}

// ReferenceService serves the read-only vocabularies and achievements
type ReferenceService struct {
	refRepo ReferenceRepository
}

// NewReferenceService creates a new reference service
func NewReferenceService(refRepo ReferenceRepository) *ReferenceService {
	return &ReferenceService{refRepo: refRepo}
}

// List returns every entry of a vocabulary
func (s *ReferenceService) List(ctx context.Context, kind model.ReferenceKind) ([]*model.ReferenceEntry, error) {
	if !kind.IsValid() {
		return nil, ErrUnknownReference
	}
	return s.refRepo.List(ctx, kind)
}

// Achievements returns one page of the achievement catalogue
func (s *ReferenceService) Achievements(ctx context.Context, page model.PageRequest) (*model.Page[*model.Achievement], error) {
	if err := invalid(page.Validate()); err != nil {
		return nil, err
	}
	return s.refRepo.ListAchievements(ctx, page)
}
