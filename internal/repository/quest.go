package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/forgo/guildhall/api/internal/database"
	"github.com/forgo/guildhall/api/internal/model"
)

// QuestRepository handles quest, like and bookmark data access
type QuestRepository struct {
	db database.Database
}

// NewQuestRepository creates a new quest repository
func NewQuestRepository(db database.Database) *QuestRepository {
	return &QuestRepository{db: db}
}

// Create stores a new quest and fills in its generated fields. Counters
// always start at zero.
func (r *QuestRepository) Create(ctx context.Context, quest *model.Quest) error {
	query := fmt.Sprintf(`
		CREATE ONLY %s CONTENT {
			name: $name,
			synopsis: $synopsis,
			itinerary: $itinerary,
			start_location: %s,
			destination: IF $destination_id IS NOT NULL THEN %s ELSE NONE END,
			interest: %s,
			difficulty: %s,
			quest_type: %s,
			campaign: IF $campaign_id IS NOT NULL THEN %s ELSE NONE END,
			is_public: $is_public,
			completed: $completed,
			tags: IF $tags IS NOT NULL THEN $tags ELSE NONE END,
			quest_giver: IF $quest_giver IS NOT NULL THEN $quest_giver ELSE NONE END,
			reward: IF $reward IS NOT NULL THEN $reward ELSE NONE END,
			companions: IF $companions IS NOT NULL THEN $companions ELSE NONE END,
			lore_excerpt: IF $lore_excerpt IS NOT NULL THEN $lore_excerpt ELSE NONE END,
			artifacts_discovered: IF $artifacts IS NOT NULL THEN $artifacts ELSE NONE END,
			media_urls: $media_urls,
			likes: 0,
			bookmarks: 0,
			author: %s,
			created_at: time::now()
		}
	`,
		nextID("quest"),
		thing("location", "start_location_id"),
		thing("location", "destination_id"),
		thing("interest", "interest_id"),
		thing("difficulty", "difficulty_id"),
		thing("quest_type", "quest_type_id"),
		thing("campaign", "campaign_id"),
		thing("user", "author_id"),
	)

	mediaURLs := quest.MediaURLs
	if mediaURLs == nil {
		mediaURLs = []string{}
	}

	vars := map[string]interface{}{
		"name":              quest.Name,
		"synopsis":          quest.Synopsis,
		"itinerary":         quest.Itinerary,
		"start_location_id": quest.StartLocationID,
		"destination_id":    ptrOrNone(quest.DestinationID),
		"interest_id":       quest.InterestID,
		"difficulty_id":     quest.DifficultyID,
		"quest_type_id":     quest.QuestTypeID,
		"campaign_id":       ptrOrNone(quest.CampaignID),
		"is_public":         quest.IsPublic,
		"completed":         quest.Completed,
		"tags":              ptrOrNone(quest.Tags),
		"quest_giver":       ptrOrNone(quest.QuestGiver),
		"reward":            ptrOrNone(quest.Reward),
		"companions":        ptrOrNone(quest.Companions),
		"lore_excerpt":      ptrOrNone(quest.LoreExcerpt),
		"artifacts":         ptrOrNone(quest.ArtifactsDiscovered),
		"media_urls":        mediaURLs,
		"author_id":         quest.AuthorID,
	}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		return fmt.Errorf("create quest: %w", err)
	}
	data, err := asRecord(result)
	if err != nil {
		return err
	}
	*quest = *parseQuest(data)
	return nil
}

// GetByID retrieves a quest by ID
func (r *QuestRepository) GetByID(ctx context.Context, id int) (*model.Quest, error) {
	return r.getOne(ctx, "SELECT * FROM ONLY "+thing("quest", "id"), map[string]interface{}{"id": id})
}

// GetByName retrieves the first quest with the given name by the given author
func (r *QuestRepository) GetByName(ctx context.Context, authorID int, name string) (*model.Quest, error) {
	query := "SELECT * FROM quest WHERE author = " + thing("user", "author_id") + " AND name = $name ORDER BY id LIMIT 1"
	return r.getOne(ctx, query, map[string]interface{}{"author_id": authorID, "name": name})
}

func (r *QuestRepository) getOne(ctx context.Context, query string, vars map[string]interface{}) (*model.Quest, error) {
	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get quest: %w", err)
	}
	data, err := asRecord(result)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return parseQuest(data), nil
}

// List returns one page of quests matching every set filter field
func (r *QuestRepository) List(ctx context.Context, filter model.QuestFilter, page model.PageRequest) (*model.Page[*model.Quest], error) {
	q := newListQuery("quest")
	if filter.AuthorID != nil {
		q.link("author", "user", *filter.AuthorID)
	}
	if filter.CampaignID != nil {
		q.link("campaign", "campaign", *filter.CampaignID)
	}
	if filter.DifficultyID != nil {
		q.link("difficulty", "difficulty", *filter.DifficultyID)
	}
	if filter.InterestID != nil {
		q.link("interest", "interest", *filter.InterestID)
	}
	if filter.QuestTypeID != nil {
		q.link("quest_type", "quest_type", *filter.QuestTypeID)
	}
	if filter.IsPublic != nil {
		q.eq("is_public", *filter.IsPublic)
	}
	if filter.Completed != nil {
		q.eq("completed", *filter.Completed)
	}
	return queryPage(ctx, r.db, q, page, parseQuest)
}

// Update applies a sparse update. The like and bookmark counters and the
// author are never written here.
func (r *QuestRepository) Update(ctx context.Context, id int, req *model.UpdateQuestRequest) (*model.Quest, error) {
	set := newSetClause()
	setOptional(set, "name", req.Name)
	setOptional(set, "synopsis", req.Synopsis)
	setOptional(set, "itinerary", req.Itinerary)
	setOptionalLink(set, "start_location", "location", req.StartLocationID)
	setOptionalLink(set, "destination", "location", req.DestinationID)
	setOptionalLink(set, "interest", "interest", req.InterestID)
	setOptionalLink(set, "difficulty", "difficulty", req.DifficultyID)
	setOptionalLink(set, "quest_type", "quest_type", req.QuestTypeID)
	setOptionalLink(set, "campaign", "campaign", req.CampaignID)
	setOptional(set, "is_public", req.IsPublic)
	setOptional(set, "completed", req.Completed)
	setOptional(set, "tags", req.Tags)
	setOptional(set, "quest_giver", req.QuestGiver)
	setOptional(set, "reward", req.Reward)
	setOptional(set, "companions", req.Companions)
	setOptional(set, "lore_excerpt", req.LoreExcerpt)
	setOptional(set, "artifacts_discovered", req.ArtifactsDiscovered)
	setOptional(set, "media_urls", req.MediaURLs)

	if set.empty() {
		return r.GetByID(ctx, id)
	}

	query, vars := set.statement("quest", id)
	return r.getOne(ctx, query, vars)
}

// Delete removes a quest and reports whether it existed. Its bookmarks and
// comments are removed by the store.
func (r *QuestRepository) Delete(ctx context.Context, id int) (bool, error) {
	deleted, err := deleteRecord(ctx, r.db, "quest", id)
	if err != nil {
		return false, fmt.Errorf("delete quest: %w", err)
	}
	return deleted, nil
}

// Like increments the like counter and returns the updated quest, or nil
// when the quest does not exist.
func (r *QuestRepository) Like(ctx context.Context, id int) (*model.Quest, error) {
	query := "UPDATE ONLY " + thing("quest", "id") + " SET likes += 1 RETURN AFTER"
	return r.getOne(ctx, query, map[string]interface{}{"id": id})
}

// GetBookmark returns the caller's bookmark on a quest, or nil
func (r *QuestRepository) GetBookmark(ctx context.Context, userID, questID int) (*model.Bookmark, error) {
	query := fmt.Sprintf(
		"SELECT * FROM bookmark WHERE user = %s AND quest = %s LIMIT 1",
		thing("user", "user_id"), thing("quest", "quest_id"),
	)
	result, err := r.db.QueryOne(ctx, query, map[string]interface{}{"user_id": userID, "quest_id": questID})
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get bookmark: %w", err)
	}
	data, err := asRecord(result)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &model.Bookmark{
		ID:        recordKey(data["id"]),
		UserID:    getLinkID(data, "user"),
		QuestID:   getLinkID(data, "quest"),
		CreatedAt: getTimeValue(data, "created_at"),
	}, nil
}

// ToggleBookmark adds the caller's bookmark when absent and removes it when
// present, adjusting the quest's counter in the same transaction. When the
// quest does not exist nothing is written and it returns nil. A concurrent toggle of the same
// pair surfaces as database.ErrDuplicate or database.ErrConflict.
func (r *QuestRepository) ToggleBookmark(ctx context.Context, userID, questID int) (*model.BookmarkState, error) {
	tx := database.NewTx().
		Let("q", thing("quest", "quest_id"), map[string]interface{}{"quest_id": questID}).
		Let("u", thing("user", "user_id"), map[string]interface{}{"user_id": userID}).
		Let("found", "(SELECT VALUE id FROM ONLY $q)", nil).
		Let("existing", "(SELECT VALUE id FROM bookmark WHERE user = $u AND quest = $q LIMIT 1)[0]", nil).
		Add(fmt.Sprintf(`
			IF $found != NONE {
				IF $existing != NONE {
					DELETE $existing;
					UPDATE $q SET bookmarks -= 1;
				} ELSE {
					CREATE %s CONTENT { user: $u, quest: $q, created_at: time::now() };
					UPDATE $q SET bookmarks += 1;
				}
			}
		`, nextID("bookmark")), nil).
		Add("SELECT bookmarks AS bookmark_count, $existing = NONE AS bookmarked FROM ONLY $q", nil)

	results, err := tx.Run(ctx, r.db)
	if err != nil {
		return nil, fmt.Errorf("toggle bookmark: %w", err)
	}

	result, err := database.LastRecord(results)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	data, err := asRecord(result)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &model.BookmarkState{
		Bookmarked:    getBool(data, "bookmarked"),
		BookmarkCount: getInt(data, "bookmark_count"),
	}, nil
}

// BookmarkDrift lists quests whose bookmarks counter differs from the
// number of bookmark records that reference them. It only reads.
func (r *QuestRepository) BookmarkDrift(ctx context.Context) ([]model.CounterDrift, error) {
	query := `
		SELECT id, bookmarks, count((SELECT id FROM bookmark WHERE quest = $parent.id)) AS actual
		FROM quest
	`
	results, err := r.db.Query(ctx, query, nil)
	if err != nil {
		return nil, fmt.Errorf("bookmark drift: %w", err)
	}

	var drift []model.CounterDrift
	for _, rec := range statementRecords(results, 0) {
		stored, actual := getInt(rec, "bookmarks"), getInt(rec, "actual")
		if stored != actual {
			drift = append(drift, model.CounterDrift{
				QuestID: recordKey(rec["id"]),
				Stored:  stored,
				Actual:  actual,
			})
		}
	}
	return drift, nil
}

func parseQuest(data map[string]interface{}) *model.Quest {
	mediaURLs := getStringSlice(data, "media_urls")
	if mediaURLs == nil {
		mediaURLs = []string{}
	}
	return &model.Quest{
		ID:                  recordKey(data["id"]),
		Name:                getString(data, "name"),
		Synopsis:            getString(data, "synopsis"),
		Itinerary:           getString(data, "itinerary"),
		StartLocationID:     getLinkID(data, "start_location"),
		DestinationID:       getLink(data, "destination"),
		InterestID:          getLinkID(data, "interest"),
		DifficultyID:        getLinkID(data, "difficulty"),
		QuestTypeID:         getLinkID(data, "quest_type"),
		CampaignID:          getLink(data, "campaign"),
		IsPublic:            getBool(data, "is_public"),
		Completed:           getBool(data, "completed"),
		Tags:                getStringPtr(data, "tags"),
		QuestGiver:          getStringPtr(data, "quest_giver"),
		Reward:              getStringPtr(data, "reward"),
		Companions:          getStringPtr(data, "companions"),
		LoreExcerpt:         getStringPtr(data, "lore_excerpt"),
		ArtifactsDiscovered: getStringPtr(data, "artifacts_discovered"),
		MediaURLs:           mediaURLs,
		Likes:               getInt(data, "likes"),
		Bookmarks:           getInt(data, "bookmarks"),
		AuthorID:            getLinkID(data, "author"),
		CreatedAt:           getTimeValue(data, "created_at"),
		UpdatedAt:           getTime(data, "updated_at"),
	}
}
