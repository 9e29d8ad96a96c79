package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/forgo/guildhall/api/internal/model"
	"github.com/forgo/guildhall/api/internal/seed"
)

// SeedRepositories are the stores the seeder writes through. Every lookup
// uses a natural key so a second run finds what the first created.
type SeedRepositories struct {
	Users interface {
		Create(ctx context.Context, user *model.User) error
		GetByEmail(ctx context.Context, email string) (*model.User, error)
	}
	Locations interface {
		Create(ctx context.Context, req *model.CreateLocationRequest) (*model.Location, error)
		GetByName(ctx context.Context, name string) (*model.Location, error)
	}
	References interface {
		Create(ctx context.Context, kind model.ReferenceKind, name string) (*model.ReferenceEntry, error)
		CreateAchievement(ctx context.Context, a *model.Achievement) (*model.Achievement, error)
	}
	Campaigns interface {
		Create(ctx context.Context, campaign *model.Campaign) error
		GetByTitle(ctx context.Context, authorID int, title string) (*model.Campaign, error)
	}
	Quests interface {
		Create(ctx context.Context, quest *model.Quest) error
		GetByName(ctx context.Context, authorID int, name string) (*model.Quest, error)
	}
}

// SeederService loads a seed data set with get-or-create semantics
type SeederService struct {
	repos SeedRepositories
	cost  int
}

// NewSeederService creates a new seeder. cost is the bcrypt cost used for
// seeded passwords; zero selects the default.
func NewSeederService(repos SeedRepositories, cost int) *SeederService {
	if cost == 0 {
		cost = bcryptCost
	}
	return &SeederService{repos: repos, cost: cost}
}

// SeedResult counts what a run wrote. Vocabulary entries and achievements
// are get-or-create and always counted; other entries that already exist
// are skipped.
type SeedResult struct {
	References   int   `json:"references"`
	Achievements int   `json:"achievements"`
	Users        int   `json:"users"`
	Locations    int   `json:"locations"`
	Campaigns    int   `json:"campaigns"`
	Quests       int   `json:"quests"`
	Duration     int64 `json:"duration_ms"`
}

// seedRun resolves natural keys to ids as entries are written
type seedRun struct {
	users     map[string]int
	locations map[string]int
	refs      map[model.ReferenceKind]map[string]int
	campaigns map[string]int
}

// Seed writes data and reports what was new
func (s *SeederService) Seed(ctx context.Context, data *seed.Data) (*SeedResult, error) {
	start := time.Now()
	result := &SeedResult{}
	run := &seedRun{
		users:     map[string]int{},
		locations: map[string]int{},
		refs:      map[model.ReferenceKind]map[string]int{},
		campaigns: map[string]int{},
	}

	steps := []func(context.Context, *seed.Data, *seedRun, *SeedResult) error{
		s.seedReferences,
		s.seedAchievements,
		s.seedUsers,
		s.seedLocations,
		s.seedCampaigns,
		s.seedQuests,
	}
	for _, step := range steps {
		if err := step(ctx, data, run, result); err != nil {
			return nil, err
		}
	}

	result.Duration = time.Since(start).Milliseconds()
	slog.Info("seed complete",
		slog.Int("users", result.Users),
		slog.Int("locations", result.Locations),
		slog.Int("quests", result.Quests),
		slog.Int64("duration_ms", result.Duration),
	)
	return result, nil
}

func (s *SeederService) seedReferences(ctx context.Context, data *seed.Data, run *seedRun, result *SeedResult) error {
	vocabularies := map[model.ReferenceKind][]string{
		model.ReferenceQuestType:  data.QuestTypes,
		model.ReferenceDifficulty: data.Difficulties,
		model.ReferenceInterest:   data.Interests,
	}
	for _, kind := range model.ReferenceKinds {
		run.refs[kind] = map[string]int{}
		for _, name := range vocabularies[kind] {
			entry, err := s.repos.References.Create(ctx, kind, name)
			if err != nil {
				return fmt.Errorf("seed %s %q: %w", kind, name, err)
			}
			run.refs[kind][name] = entry.ID
		}
		result.References += len(vocabularies[kind])
	}
	return nil
}

func (s *SeederService) seedAchievements(ctx context.Context, data *seed.Data, _ *seedRun, result *SeedResult) error {
	for _, a := range data.Achievements {
		_, err := s.repos.References.CreateAchievement(ctx, &model.Achievement{
			Name:        a.Name,
			Description: a.Description,
			IconURL:     a.IconURL,
		})
		if err != nil {
			return fmt.Errorf("seed achievement %q: %w", a.Name, err)
		}
		result.Achievements++
	}
	return nil
}

func (s *SeederService) seedUsers(ctx context.Context, data *seed.Data, run *seedRun, result *SeedResult) error {
	for _, u := range data.Users {
		email := model.NormalizeEmail(u.Email)
		existing, err := s.repos.Users.GetByEmail(ctx, email)
		if err != nil {
			return fmt.Errorf("seed user %q: %w", email, err)
		}
		if existing != nil {
			run.users[u.Email] = existing.ID
			continue
		}

		hash, err := hashPassword(u.Password, s.cost)
		if err != nil {
			return err
		}
		user := &model.User{
			Email:       email,
			DisplayName: u.DisplayName,
			AvatarURL:   u.AvatarURL,
			GuildRank:   u.GuildRank,
			Hash:        &hash,
		}
		if err := s.repos.Users.Create(ctx, user); err != nil {
			return fmt.Errorf("seed user %q: %w", email, err)
		}
		run.users[u.Email] = user.ID
		result.Users++
	}
	return nil
}

func (s *SeederService) seedLocations(ctx context.Context, data *seed.Data, run *seedRun, result *SeedResult) error {
	for _, l := range data.Locations {
		existing, err := s.repos.Locations.GetByName(ctx, l.Name)
		if err != nil {
			return fmt.Errorf("seed location %q: %w", l.Name, err)
		}
		if existing != nil {
			run.locations[l.Name] = existing.ID
			continue
		}

		lat, lng := l.Latitude, l.Longitude
		loc, err := s.repos.Locations.Create(ctx, &model.CreateLocationRequest{
			Name:                 l.Name,
			Description:          l.Description,
			Latitude:             &lat,
			Longitude:            &lng,
			Address:              l.Address,
			City:                 l.City,
			Country:              l.Country,
			RealWorldInspiration: l.RealWorldInspiration,
		})
		if err != nil {
			return fmt.Errorf("seed location %q: %w", l.Name, err)
		}
		run.locations[l.Name] = loc.ID
		result.Locations++
	}
	return nil
}

func (s *SeederService) seedCampaigns(ctx context.Context, data *seed.Data, run *seedRun, result *SeedResult) error {
	for _, c := range data.Campaigns {
		authorID := run.users[c.Author]
		key := c.Author + "\x00" + c.Title

		existing, err := s.repos.Campaigns.GetByTitle(ctx, authorID, c.Title)
		if err != nil {
			return fmt.Errorf("seed campaign %q: %w", c.Title, err)
		}
		if existing != nil {
			run.campaigns[key] = existing.ID
			continue
		}

		campaign := &model.Campaign{
			Title:       c.Title,
			Description: c.Description,
			IsPublic:    !c.Private,
			AuthorID:    authorID,
		}
		if err := s.repos.Campaigns.Create(ctx, campaign); err != nil {
			return fmt.Errorf("seed campaign %q: %w", c.Title, err)
		}
		run.campaigns[key] = campaign.ID
		result.Campaigns++
	}
	return nil
}

func (s *SeederService) seedQuests(ctx context.Context, data *seed.Data, run *seedRun, result *SeedResult) error {
	for _, q := range data.Quests {
		authorID := run.users[q.Author]

		existing, err := s.repos.Quests.GetByName(ctx, authorID, q.Name)
		if err != nil {
			return fmt.Errorf("seed quest %q: %w", q.Name, err)
		}
		if existing != nil {
			continue
		}

		quest := &model.Quest{
			Name:            q.Name,
			Synopsis:        q.Synopsis,
			Itinerary:       q.Itinerary,
			StartLocationID: run.locations[q.StartLocation],
			InterestID:      run.refs[model.ReferenceInterest][q.Interest],
			DifficultyID:    run.refs[model.ReferenceDifficulty][q.Difficulty],
			QuestTypeID:     run.refs[model.ReferenceQuestType][q.QuestType],
			IsPublic:        !q.Private,
			Completed:       q.Completed,
			Tags:            q.Tags,
			QuestGiver:      q.QuestGiver,
			Reward:          q.Reward,
			MediaURLs:       q.MediaURLs,
			AuthorID:        authorID,
		}
		if q.Destination != nil {
			id := run.locations[*q.Destination]
			quest.DestinationID = &id
		}
		if q.Campaign != nil {
			id := run.campaigns[q.Author+"\x00"+*q.Campaign]
			quest.CampaignID = &id
		}
		if err := s.repos.Quests.Create(ctx, quest); err != nil {
			return fmt.Errorf("seed quest %q: %w", q.Name, err)
		}
		result.Quests++
	}
	return nil
}
