package service

import (
	"context"
	"errors"

	"github.com/forgo/guildhall/api/internal/database"
	"github.com/forgo/guildhall/api/internal/metrics"
	"github.com/forgo/guildhall/api/internal/model"
)

// bookmarkAttempts bounds how often a toggle is tried when it races
const bookmarkAttempts = 2

// QuestRepository defines the interface for quest storage
type QuestRepository interface {
	Create(ctx context.Context, quest *model.Quest) error
	GetByID(ctx context.Context, id int) (*model.Quest, error)
	List(ctx context.Context, filter model.QuestFilter, page model.PageRequest) (*model.Page[*model.Quest], error)
	Update(ctx context.Context, id int, req *model.UpdateQuestRequest) (*model.Quest, error)
	Delete(ctx context.Context, id int) (bool, error)
	Like(ctx context.Context, id int) (*model.Quest, error)
	ToggleBookmark(ctx context.Context, userID, questID int) (*model.BookmarkState, error)
}

// QuestService handles the quest ledger
type QuestService struct {
	questRepo    QuestRepository
	locationRepo LocationRepository
	refRepo      ReferenceRepository
	campaignRepo CampaignRepository
}

// QuestServiceConfig holds the quest service's collaborators
type QuestServiceConfig struct {
	QuestRepo    QuestRepository
	LocationRepo LocationRepository
	RefRepo      ReferenceRepository
	CampaignRepo CampaignRepository
}

// NewQuestService creates a new quest service
func NewQuestService(cfg QuestServiceConfig) *QuestService {
	return &QuestService{
		questRepo:    cfg.QuestRepo,
		locationRepo: cfg.LocationRepo,
		refRepo:      cfg.RefRepo,
		campaignRepo: cfg.CampaignRepo,
	}
}

// Create stores a new quest authored by authorID
func (s *QuestService) Create(ctx context.Context, authorID int, req *model.CreateQuestRequest) (*model.Quest, error) {
	if err := invalid(req.Validate()); err != nil {
		return nil, err
	}

	refs := questRefs{
		startLocation: &req.StartLocationID,
		destination:   req.DestinationID,
		interest:      &req.InterestID,
		difficulty:    &req.DifficultyID,
		questType:     &req.QuestTypeID,
		campaign:      req.CampaignID,
	}
	if err := s.checkRefs(ctx, authorID, refs); err != nil {
		return nil, err
	}

	isPublic := true
	if req.IsPublic != nil {
		isPublic = *req.IsPublic
	}

	quest := &model.Quest{
		Name:                req.Name,
		Synopsis:            req.Synopsis,
		Itinerary:           req.Itinerary,
		StartLocationID:     req.StartLocationID,
		DestinationID:       req.DestinationID,
		InterestID:          req.InterestID,
		DifficultyID:        req.DifficultyID,
		QuestTypeID:         req.QuestTypeID,
		CampaignID:          req.CampaignID,
		IsPublic:            isPublic,
		Completed:           req.Completed,
		Tags:                req.Tags,
		QuestGiver:          req.QuestGiver,
		Reward:              req.Reward,
		Companions:          req.Companions,
		LoreExcerpt:         req.LoreExcerpt,
		ArtifactsDiscovered: req.ArtifactsDiscovered,
		MediaURLs:           req.MediaURLs,
		AuthorID:            authorID,
	}
	if err := s.questRepo.Create(ctx, quest); err != nil {
		return nil, err
	}
	return quest, nil
}

// Get returns a quest by id
func (s *QuestService) Get(ctx context.Context, id int) (*model.Quest, error) {
	quest, err := s.questRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if quest == nil {
		return nil, ErrQuestNotFound
	}
	return quest, nil
}

// List returns one page of quests matching filter
func (s *QuestService) List(ctx context.Context, filter model.QuestFilter, page model.PageRequest) (*model.Page[*model.Quest], error) {
	if err := invalid(page.Validate()); err != nil {
		return nil, err
	}
	return s.questRepo.List(ctx, filter, page)
}

// ListMine returns one page of the quests authored by authorID
func (s *QuestService) ListMine(ctx context.Context, authorID int, page model.PageRequest) (*model.Page[*model.Quest], error) {
	return s.List(ctx, model.QuestFilter{AuthorID: &authorID}, page)
}

// Update applies a sparse update. Only the author may update a quest.
func (s *QuestService) Update(ctx context.Context, id, callerID int, req *model.UpdateQuestRequest) (*model.Quest, error) {
	if _, err := loadOwned(ctx, s.questRepo.GetByID, id, callerID, ErrQuestNotFound); err != nil {
		return nil, err
	}
	if err := invalid(req.Validate()); err != nil {
		return nil, err
	}

	refs := questRefs{
		startLocation: optionalRef(req.StartLocationID),
		destination:   optionalRef(req.DestinationID),
		interest:      optionalRef(req.InterestID),
		difficulty:    optionalRef(req.DifficultyID),
		questType:     optionalRef(req.QuestTypeID),
		campaign:      optionalRef(req.CampaignID),
	}
	if err := s.checkRefs(ctx, callerID, refs); err != nil {
		return nil, err
	}

	quest, err := s.questRepo.Update(ctx, id, req)
	if err != nil {
		return nil, err
	}
	if quest == nil {
		return nil, ErrQuestNotFound
	}
	return quest, nil
}

// Delete removes a quest together with its bookmarks and comments
func (s *QuestService) Delete(ctx context.Context, id, callerID int) error {
	if _, err := loadOwned(ctx, s.questRepo.GetByID, id, callerID, ErrQuestNotFound); err != nil {
		return err
	}
	deleted, err := s.questRepo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrQuestNotFound
	}
	return nil
}

// Like increments the quest's like counter. Repeated likes are counted.
func (s *QuestService) Like(ctx context.Context, id int) (*model.Quest, error) {
	quest, err := s.questRepo.Like(ctx, id)
	if err != nil {
		return nil, err
	}
	if quest == nil {
		return nil, ErrQuestNotFound
	}
	metrics.RecordLike()
	return quest, nil
}

// ToggleBookmark flips the caller's bookmark on a quest and reports the
// state after the flip. A toggle that loses a race with a concurrent one
// is retried once before giving up with ErrBookmarkConflict.
func (s *QuestService) ToggleBookmark(ctx context.Context, questID, userID int) (*model.BookmarkState, error) {
	for attempt := 1; ; attempt++ {
		state, err := s.questRepo.ToggleBookmark(ctx, userID, questID)
		if err == nil {
			if state == nil {
				return nil, ErrQuestNotFound
			}
			metrics.RecordBookmarkToggle(state.Bookmarked)
			return state, nil
		}
		if !errors.Is(err, database.ErrDuplicate) && !errors.Is(err, database.ErrConflict) {
			return nil, err
		}
		if attempt >= bookmarkAttempts {
			return nil, ErrBookmarkConflict
		}
	}
}

// questRefs holds the referenced ids a write names; nil means not named
type questRefs struct {
	startLocation *int
	destination   *int
	interest      *int
	difficulty    *int
	questType     *int
	campaign      *int
}

func optionalRef(o model.Optional[int]) *int {
	if !o.HasValue() {
		return nil
	}
	v := o.Value
	return &v
}

// checkRefs verifies that every named reference exists. A campaign must
// also belong to callerID.
func (s *QuestService) checkRefs(ctx context.Context, callerID int, refs questRefs) error {
	for _, loc := range []struct {
		field string
		id    *int
	}{
		{"start_location_id", refs.startLocation},
		{"destination_id", refs.destination},
	} {
		if loc.id == nil {
			continue
		}
		found, err := s.locationRepo.Exists(ctx, *loc.id)
		if err != nil {
			return err
		}
		if !found {
			return invalidField(loc.field, "location does not exist")
		}
	}

	for _, ref := range []struct {
		field string
		kind  model.ReferenceKind
		id    *int
	}{
		{"interest_id", model.ReferenceInterest, refs.interest},
		{"difficulty_id", model.ReferenceDifficulty, refs.difficulty},
		{"quest_type_id", model.ReferenceQuestType, refs.questType},
	} {
		if ref.id == nil {
			continue
		}
		found, err := s.refRepo.Exists(ctx, ref.kind, *ref.id)
		if err != nil {
			return err
		}
		if !found {
			return invalidField(ref.field, string(ref.kind)+" does not exist")
		}
	}

	if refs.campaign != nil {
		campaign, err := s.campaignRepo.GetByID(ctx, *refs.campaign)
		if err != nil {
			return err
		}
		if campaign == nil {
			return invalidField("campaign_id", "campaign does not exist")
		}
		if campaign.AuthorID != callerID {
			return ErrNotOwner
		}
	}
	return nil
}
