package service

import (
	"context"

	"github.com/forgo/guildhall/api/internal/model"
)

// LocationRepository defines the interface for location storage
type LocationRepository interface {
	Create(ctx context.Context, req *model.CreateLocationRequest) (*model.Location, error)
	GetByID(ctx context.Context, id int) (*model.Location, error)
	Exists(ctx context.Context, id int) (bool, error)
	List(ctx context.Context, page model.PageRequest) (*model.Page[*model.Location], error)
	Update(ctx context.Context, id int, req *model.UpdateLocationRequest) (*model.Location, error)
	IsReferenced(ctx context.Context, id int) (bool, error)
	Delete(ctx context.Context, id int) (bool, error)
	CreateLogEntry(ctx context.Context, locationID int, note string) (*model.QuestLogEntry, error)
	ListLogEntries(ctx context.Context, locationID int, page model.PageRequest) (*model.Page[*model.QuestLogEntry], error)
}

// LocationService manages locations and their quest logs. Locations have
// no owner: any authenticated caller may change them.
type LocationService struct {
	locationRepo LocationRepository
}

// NewLocationService creates a new location service
func NewLocationService(locationRepo LocationRepository) *LocationService {
	return &LocationService{locationRepo: locationRepo}
}

// Create validates and stores a new location
func (s *LocationService) Create(ctx context.Context, req *model.CreateLocationRequest) (*model.Location, error) {
	if err := invalid(req.Validate()); err != nil {
		return nil, err
	}
	return s.locationRepo.Create(ctx, req)
}

// Get returns a location by id
func (s *LocationService) Get(ctx context.Context, id int) (*model.Location, error) {
	loc, err := s.locationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if loc == nil {
		return nil, ErrLocationNotFound
	}
	return loc, nil
}

// List returns one page of locations
func (s *LocationService) List(ctx context.Context, page model.PageRequest) (*model.Page[*model.Location], error) {
	if err := invalid(page.Validate()); err != nil {
		return nil, err
	}
	return s.locationRepo.List(ctx, page)
}

// Update applies a sparse update
func (s *LocationService) Update(ctx context.Context, id int, req *model.UpdateLocationRequest) (*model.Location, error) {
	if err := invalid(req.Validate()); err != nil {
		return nil, err
	}
	loc, err := s.locationRepo.Update(ctx, id, req)
	if err != nil {
		return nil, err
	}
	if loc == nil {
		return nil, ErrLocationNotFound
	}
	return loc, nil
}

// Delete removes a location that no quest starts or ends at
func (s *LocationService) Delete(ctx context.Context, id int) error {
	found, err := s.locationRepo.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !found {
		return ErrLocationNotFound
	}

	inUse, err := s.locationRepo.IsReferenced(ctx, id)
	if err != nil {
		return err
	}
	if inUse {
		return ErrLocationInUse
	}

	deleted, err := s.locationRepo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrLocationNotFound
	}
	return nil
}

// AddLogEntry records a note at a location
func (s *LocationService) AddLogEntry(ctx context.Context, locationID int, req *model.CreateQuestLogEntryRequest) (*model.QuestLogEntry, error) {
	if err := invalid(req.Validate()); err != nil {
		return nil, err
	}
	if err := s.requireLocation(ctx, locationID); err != nil {
		return nil, err
	}
	return s.locationRepo.CreateLogEntry(ctx, locationID, req.Note)
}

// ListLogEntries returns one page of a location's log
func (s *LocationService) ListLogEntries(ctx context.Context, locationID int, page model.PageRequest) (*model.Page[*model.QuestLogEntry], error) {
	if err := invalid(page.Validate()); err != nil {
		return nil, err
	}
	if err := s.requireLocation(ctx, locationID); err != nil {
		return nil, err
	}
	return s.locationRepo.ListLogEntries(ctx, locationID, page)
}

func (s *LocationService) requireLocation(ctx context.Context, id int) error {
	found, err := s.locationRepo.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !found {
		return ErrLocationNotFound
	}
	return nil
}
