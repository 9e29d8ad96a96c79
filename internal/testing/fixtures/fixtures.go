package fixtures

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/forgo/guildhall/api/internal/database"
	"github.com/forgo/guildhall/api/internal/model"
	"github.com/forgo/guildhall/api/internal/repository"
	"github.com/google/uuid"

	"golang.org/x/crypto/bcrypt"
)

// DefaultPassword is the plaintext password of every fixture user
const DefaultPassword = "testpass123"

// Factory creates test entities in the database
type Factory struct {
	db        database.Database
	users     *repository.UserRepository
	locations *repository.LocationRepository
	refs      *repository.ReferenceRepository
	campaigns *repository.CampaignRepository
	quests    *repository.QuestRepository
}

// New creates a new fixture factory
func New(db database.Database) *Factory {
	return &Factory{
		db:        db,
		users:     repository.NewUserRepository(db),
		locations: repository.NewLocationRepository(db),
		refs:      repository.NewReferenceRepository(db),
		campaigns: repository.NewCampaignRepository(db),
		quests:    repository.NewQuestRepository(db),
	}
}

func randomID() string {
	return uuid.NewString()[:8]
}

// ctx returns a context bounded by the test's lifetime
func ctx(t *testing.T) context.Context {
	c, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)
	return c
}

// ============================================================================
// User Fixtures
// ============================================================================

// UserOpts customizes user creation
type UserOpts struct {
	Email       string
	DisplayName string
	Password    string
	Inactive    bool
}

// CreateUser creates a user with optional customizations
func (f *Factory) CreateUser(t *testing.T, opts ...func(*UserOpts)) *model.User {
	t.Helper()

	id := randomID()
	o := &UserOpts{
		Email:       fmt.Sprintf("user_%s@test.local", id),
		DisplayName: "Adventurer " + id,
		Password:    DefaultPassword,
	}
	for _, fn := range opts {
		fn(o)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(o.Password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("fixtures: failed to hash password: %v", err)
	}
	hashStr := string(hash)

	user := &model.User{
		Email:       o.Email,
		DisplayName: o.DisplayName,
		Hash:        &hashStr,
	}
	if err := f.users.Create(ctx(t), user); err != nil {
		t.Fatalf("fixtures: failed to create user: %v", err)
	}

	if o.Inactive {
		_, err := f.db.Query(ctx(t), "UPDATE type::thing('user', $id) SET is_active = false", map[string]interface{}{"id": user.ID})
		if err != nil {
			t.Fatalf("fixtures: failed to deactivate user: %v", err)
		}
		user.IsActive = false
	}

	return user
}

// ============================================================================
// Location Fixtures
// ============================================================================

// CreateLocation creates a location in Edinburgh with a random name
func (f *Factory) CreateLocation(t *testing.T) *model.Location {
	t.Helper()

	lat, long := 55.9486, -3.1999
	city := "Edinburgh"
	loc, err := f.locations.Create(ctx(t), &model.CreateLocationRequest{
		Name:      "Location " + randomID(),
		Latitude:  &lat,
		Longitude: &long,
		City:      &city,
	})
	if err != nil {
		t.Fatalf("fixtures: failed to create location: %v", err)
	}
	return loc
}

// ============================================================================
// Reference Fixtures
// ============================================================================

// References holds one entry of each vocabulary
type References struct {
	QuestType  *model.ReferenceEntry
	Difficulty *model.ReferenceEntry
	Interest   *model.ReferenceEntry
}

// CreateReferences gets or creates one entry per vocabulary
func (f *Factory) CreateReferences(t *testing.T) References {
	t.Helper()

	get := func(kind model.ReferenceKind, name string) *model.ReferenceEntry {
		entry, err := f.refs.Create(ctx(t), kind, name)
		if err != nil {
			t.Fatalf("fixtures: failed to create %s: %v", kind, err)
		}
		return entry
	}

	return References{
		QuestType:  get(model.ReferenceQuestType, "Exploration"),
		Difficulty: get(model.ReferenceDifficulty, "Novice"),
		Interest:   get(model.ReferenceInterest, "History"),
	}
}

// ============================================================================
// Campaign Fixtures
// ============================================================================

// CreateCampaign creates a public campaign owned by author
func (f *Factory) CreateCampaign(t *testing.T, author *model.User) *model.Campaign {
	t.Helper()

	campaign := &model.Campaign{
		Title:    "Campaign " + randomID(),
		IsPublic: true,
		AuthorID: author.ID,
	}
	if err := f.campaigns.Create(ctx(t), campaign); err != nil {
		t.Fatalf("fixtures: failed to create campaign: %v", err)
	}
	return campaign
}

// ============================================================================
// Quest Fixtures
// ============================================================================

// QuestOpts customizes quest creation
type QuestOpts struct {
	Name       string
	CampaignID *int
	IsPublic   bool
	Completed  bool
}

// CreateQuest creates a quest by author starting at a new location
func (f *Factory) CreateQuest(t *testing.T, author *model.User, opts ...func(*QuestOpts)) *model.Quest {
	t.Helper()

	o := &QuestOpts{
		Name:     "Quest " + randomID(),
		IsPublic: true,
	}
	for _, fn := range opts {
		fn(o)
	}

	refs := f.CreateReferences(t)
	loc := f.CreateLocation(t)

	quest := &model.Quest{
		Name:            o.Name,
		Synopsis:        "Walk the Royal Mile",
		Itinerary:       "Castle, then Holyrood",
		StartLocationID: loc.ID,
		InterestID:      refs.Interest.ID,
		DifficultyID:    refs.Difficulty.ID,
		QuestTypeID:     refs.QuestType.ID,
		CampaignID:      o.CampaignID,
		IsPublic:        o.IsPublic,
		Completed:       o.Completed,
		AuthorID:        author.ID,
	}
	if err := f.quests.Create(ctx(t), quest); err != nil {
		t.Fatalf("fixtures: failed to create quest: %v", err)
	}
	return quest
}
