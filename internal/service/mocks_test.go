package service

import (
	"context"
	"sort"
	"time"

	"github.com/forgo/guildhall/api/internal/database"
	"github.com/forgo/guildhall/api/internal/model"
)

// Mock implementations

func pageOf[T any](items []T, page model.PageRequest) *model.Page[T] {
	total := len(items)
	start := min(page.Skip, total)
	end := min(start+page.Limit, total)
	return model.NewPage(items[start:end], total, page)
}

// ============================================================================
// Users
// ============================================================================

type mockUserRepo struct {
	users     map[int]*model.User
	nextID    int
	createErr error
	getErr    error
	updateErr error
	bookmarks map[int][]*model.Quest
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[int]*model.User), bookmarks: make(map[int][]*model.Quest)}
}

func (m *mockUserRepo) Create(ctx context.Context, user *model.User) error {
	if m.createErr != nil {
		return m.createErr
	}
	for _, u := range m.users {
		if u.Email == user.Email {
			return database.ErrDuplicate
		}
	}
	m.nextID++
	user.ID = m.nextID
	user.IsActive = true
	user.CreatedAt = time.Now()
	m.users[user.ID] = user
	return nil
}

func (m *mockUserRepo) GetByID(ctx context.Context, id int) (*model.User, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.users[id], nil
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (m *mockUserRepo) Exists(ctx context.Context, id int) (bool, error) {
	_, ok := m.users[id]
	return ok, m.getErr
}

func (m *mockUserRepo) List(ctx context.Context, page model.PageRequest) (*model.Page[*model.User], error) {
	ids := make([]int, 0, len(m.users))
	for id := range m.users {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	users := make([]*model.User, 0, len(ids))
	for _, id := range ids {
		users = append(users, m.users[id])
	}
	return pageOf(users, page), nil
}

func (m *mockUserRepo) Update(ctx context.Context, id int, changes model.UserChanges) (*model.User, error) {
	if m.updateErr != nil {
		return nil, m.updateErr
	}
	u, ok := m.users[id]
	if !ok {
		return nil, nil
	}
	updated := *u
	if changes.Email.HasValue() {
		updated.Email = changes.Email.Value
	}
	if changes.DisplayName.HasValue() {
		updated.DisplayName = changes.DisplayName.Value
	}
	if changes.Hash.HasValue() {
		hash := changes.Hash.Value
		updated.Hash = &hash
	}
	applyOptional(&updated.AvatarURL, changes.AvatarURL)
	applyOptional(&updated.GuildRank, changes.GuildRank)
	if changes.IsActive.HasValue() {
		updated.IsActive = changes.IsActive.Value
	}
	m.users[id] = &updated
	return &updated, nil
}

func (m *mockUserRepo) ListBookmarkedQuests(ctx context.Context, userID int, page model.PageRequest) (*model.Page[*model.Quest], error) {
	return pageOf(m.bookmarks[userID], page), nil
}

func applyOptional[T any](dst **T, o model.Optional[T]) {
	switch {
	case !o.Set:
	case o.Null:
		*dst = nil
	default:
		v := o.Value
		*dst = &v
	}
}

// ============================================================================
// Locations and references
// ============================================================================

type mockLocationRepo struct {
	locations  map[int]*model.Location
	referenced map[int]bool
	logs       map[int][]*model.QuestLogEntry
	nextID     int
	deleted    []int
}

func newMockLocationRepo() *mockLocationRepo {
	return &mockLocationRepo{
		locations:  make(map[int]*model.Location),
		referenced: make(map[int]bool),
		logs:       make(map[int][]*model.QuestLogEntry),
	}
}

func (m *mockLocationRepo) add(name string) *model.Location {
	m.nextID++
	loc := &model.Location{ID: m.nextID, Name: name}
	m.locations[loc.ID] = loc
	return loc
}

func (m *mockLocationRepo) Create(ctx context.Context, req *model.CreateLocationRequest) (*model.Location, error) {
	loc := m.add(req.Name)
	loc.Latitude, loc.Longitude = *req.Latitude, *req.Longitude
	loc.City = req.City
	return loc, nil
}

func (m *mockLocationRepo) GetByID(ctx context.Context, id int) (*model.Location, error) {
	return m.locations[id], nil
}

func (m *mockLocationRepo) GetByName(ctx context.Context, name string) (*model.Location, error) {
	for _, l := range m.locations {
		if l.Name == name {
			return l, nil
		}
	}
	return nil, nil
}

func (m *mockLocationRepo) Exists(ctx context.Context, id int) (bool, error) {
	_, ok := m.locations[id]
	return ok, nil
}

func (m *mockLocationRepo) List(ctx context.Context, page model.PageRequest) (*model.Page[*model.Location], error) {
	var items []*model.Location
	for id := 1; id <= m.nextID; id++ {
		if l, ok := m.locations[id]; ok {
			items = append(items, l)
		}
	}
	return pageOf(items, page), nil
}

func (m *mockLocationRepo) Update(ctx context.Context, id int, req *model.UpdateLocationRequest) (*model.Location, error) {
	loc, ok := m.locations[id]
	if !ok {
		return nil, nil
	}
	if req.Name.HasValue() {
		loc.Name = req.Name.Value
	}
	applyOptional(&loc.City, req.City)
	return loc, nil
}

func (m *mockLocationRepo) IsReferenced(ctx context.Context, id int) (bool, error) {
	return m.referenced[id], nil
}

func (m *mockLocationRepo) Delete(ctx context.Context, id int) (bool, error) {
	if _, ok := m.locations[id]; !ok {
		return false, nil
	}
	delete(m.locations, id)
	m.deleted = append(m.deleted, id)
	return true, nil
}

func (m *mockLocationRepo) CreateLogEntry(ctx context.Context, locationID int, note string) (*model.QuestLogEntry, error) {
	entry := &model.QuestLogEntry{ID: len(m.logs[locationID]) + 1, LocationID: locationID, Note: note}
	m.logs[locationID] = append(m.logs[locationID], entry)
	return entry, nil
}

func (m *mockLocationRepo) ListLogEntries(ctx context.Context, locationID int, page model.PageRequest) (*model.Page[*model.QuestLogEntry], error) {
	return pageOf(m.logs[locationID], page), nil
}

type mockReferenceRepo struct {
	entries      map[model.ReferenceKind][]*model.ReferenceEntry
	achievements []*model.Achievement
	nextID       int
}

func newMockReferenceRepo() *mockReferenceRepo {
	return &mockReferenceRepo{entries: make(map[model.ReferenceKind][]*model.ReferenceEntry)}
}

func (m *mockReferenceRepo) List(ctx context.Context, kind model.ReferenceKind) ([]*model.ReferenceEntry, error) {
	return m.entries[kind], nil
}

func (m *mockReferenceRepo) Exists(ctx context.Context, kind model.ReferenceKind, id int) (bool, error) {
	for _, e := range m.entries[kind] {
		if e.ID == id {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockReferenceRepo) Create(ctx context.Context, kind model.ReferenceKind, name string) (*model.ReferenceEntry, error) {
	for _, e := range m.entries[kind] {
		if e.Name == name {
			return e, nil
		}
	}
	m.nextID++
	e := &model.ReferenceEntry{ID: m.nextID, Name: name}
	m.entries[kind] = append(m.entries[kind], e)
	return e, nil
}

func (m *mockReferenceRepo) ListAchievements(ctx context.Context, page model.PageRequest) (*model.Page[*model.Achievement], error) {
	return pageOf(m.achievements, page), nil
}

func (m *mockReferenceRepo) CreateAchievement(ctx context.Context, a *model.Achievement) (*model.Achievement, error) {
	for _, existing := range m.achievements {
		if existing.Name == a.Name {
			return existing, nil
		}
	}
	a.ID = len(m.achievements) + 1
	m.achievements = append(m.achievements, a)
	return a, nil
}

// ============================================================================
// Quests, campaigns, comments and follows
// ============================================================================

type mockQuestRepo struct {
	quests    map[int]*model.Quest
	nextID    int
	updates   int
	deleted   []int
	toggleFn  func(userID, questID int) (*model.BookmarkState, error)
	toggles   int
	lastQuery model.QuestFilter
}

func newMockQuestRepo() *mockQuestRepo {
	return &mockQuestRepo{quests: make(map[int]*model.Quest)}
}

func (m *mockQuestRepo) Create(ctx context.Context, quest *model.Quest) error {
	m.nextID++
	quest.ID = m.nextID
	quest.CreatedAt = time.Now()
	if quest.MediaURLs == nil {
		quest.MediaURLs = []string{}
	}
	m.quests[quest.ID] = quest
	return nil
}

func (m *mockQuestRepo) GetByID(ctx context.Context, id int) (*model.Quest, error) {
	return m.quests[id], nil
}

func (m *mockQuestRepo) GetByName(ctx context.Context, authorID int, name string) (*model.Quest, error) {
	for _, q := range m.quests {
		if q.AuthorID == authorID && q.Name == name {
			return q, nil
		}
	}
	return nil, nil
}

func (m *mockQuestRepo) List(ctx context.Context, filter model.QuestFilter, page model.PageRequest) (*model.Page[*model.Quest], error) {
	m.lastQuery = filter
	var items []*model.Quest
	for id := 1; id <= m.nextID; id++ {
		q, ok := m.quests[id]
		if !ok {
			continue
		}
		if filter.AuthorID != nil && q.AuthorID != *filter.AuthorID {
			continue
		}
		items = append(items, q)
	}
	return pageOf(items, page), nil
}

func (m *mockQuestRepo) Update(ctx context.Context, id int, req *model.UpdateQuestRequest) (*model.Quest, error) {
	q, ok := m.quests[id]
	if !ok {
		return nil, nil
	}
	m.updates++
	updated := *q
	if req.Name.HasValue() {
		updated.Name = req.Name.Value
	}
	applyOptional(&updated.Tags, req.Tags)
	applyOptional(&updated.CampaignID, req.CampaignID)
	m.quests[id] = &updated
	return &updated, nil
}

func (m *mockQuestRepo) Delete(ctx context.Context, id int) (bool, error) {
	if _, ok := m.quests[id]; !ok {
		return false, nil
	}
	delete(m.quests, id)
	m.deleted = append(m.deleted, id)
	return true, nil
}

func (m *mockQuestRepo) Like(ctx context.Context, id int) (*model.Quest, error) {
	q, ok := m.quests[id]
	if !ok {
		return nil, nil
	}
	q.Likes++
	return q, nil
}

func (m *mockQuestRepo) ToggleBookmark(ctx context.Context, userID, questID int) (*model.BookmarkState, error) {
	m.toggles++
	if m.toggleFn != nil {
		return m.toggleFn(userID, questID)
	}
	q, ok := m.quests[questID]
	if !ok {
		return nil, nil
	}
	q.Bookmarks++
	return &model.BookmarkState{Bookmarked: true, BookmarkCount: q.Bookmarks}, nil
}

type mockCampaignRepo struct {
	campaigns map[int]*model.Campaign
	nextID    int
	updates   int
}

func newMockCampaignRepo() *mockCampaignRepo {
	return &mockCampaignRepo{campaigns: make(map[int]*model.Campaign)}
}

func (m *mockCampaignRepo) Create(ctx context.Context, c *model.Campaign) error {
	m.nextID++
	c.ID = m.nextID
	m.campaigns[c.ID] = c
	return nil
}

func (m *mockCampaignRepo) GetByID(ctx context.Context, id int) (*model.Campaign, error) {
	return m.campaigns[id], nil
}

func (m *mockCampaignRepo) GetByTitle(ctx context.Context, authorID int, title string) (*model.Campaign, error) {
	for _, c := range m.campaigns {
		if c.AuthorID == authorID && c.Title == title {
			return c, nil
		}
	}
	return nil, nil
}

func (m *mockCampaignRepo) List(ctx context.Context, authorID *int, page model.PageRequest) (*model.Page[*model.Campaign], error) {
	var items []*model.Campaign
	for id := 1; id <= m.nextID; id++ {
		c, ok := m.campaigns[id]
		if ok && (authorID == nil || c.AuthorID == *authorID) {
			items = append(items, c)
		}
	}
	return pageOf(items, page), nil
}

func (m *mockCampaignRepo) Update(ctx context.Context, id int, req *model.UpdateCampaignRequest) (*model.Campaign, error) {
	c, ok := m.campaigns[id]
	if !ok {
		return nil, nil
	}
	m.updates++
	if req.Title.HasValue() {
		c.Title = req.Title.Value
	}
	applyOptional(&c.Description, req.Description)
	if req.IsPublic.HasValue() {
		c.IsPublic = req.IsPublic.Value
	}
	return c, nil
}

func (m *mockCampaignRepo) Delete(ctx context.Context, id int) (bool, error) {
	if _, ok := m.campaigns[id]; !ok {
		return false, nil
	}
	delete(m.campaigns, id)
	return true, nil
}

type mockCommentRepo struct {
	comments map[int]*model.Comment
	nextID   int
}

func newMockCommentRepo() *mockCommentRepo {
	return &mockCommentRepo{comments: make(map[int]*model.Comment)}
}

func (m *mockCommentRepo) Create(ctx context.Context, questID, authorID int, content string) (*model.Comment, error) {
	m.nextID++
	c := &model.Comment{ID: m.nextID, QuestID: questID, AuthorID: authorID, Content: content, CreatedAt: time.Now()}
	m.comments[c.ID] = c
	return c, nil
}

func (m *mockCommentRepo) GetByID(ctx context.Context, id int) (*model.Comment, error) {
	return m.comments[id], nil
}

func (m *mockCommentRepo) ListByQuest(ctx context.Context, questID int, page model.PageRequest) (*model.Page[*model.Comment], error) {
	var items []*model.Comment
	for id := 1; id <= m.nextID; id++ {
		if c, ok := m.comments[id]; ok && c.QuestID == questID {
			items = append(items, c)
		}
	}
	return pageOf(items, page), nil
}

func (m *mockCommentRepo) Delete(ctx context.Context, id int) (bool, error) {
	if _, ok := m.comments[id]; !ok {
		return false, nil
	}
	delete(m.comments, id)
	return true, nil
}

type followKey struct{ follower, followee int }

type mockFollowRepo struct {
	follows map[followKey]*model.Follow
	users   *mockUserRepo
}

func newMockFollowRepo(users *mockUserRepo) *mockFollowRepo {
	return &mockFollowRepo{follows: make(map[followKey]*model.Follow), users: users}
}

func (m *mockFollowRepo) Create(ctx context.Context, followerID, followeeID int) (*model.Follow, error) {
	key := followKey{followerID, followeeID}
	if _, ok := m.follows[key]; ok {
		return nil, database.ErrDuplicate
	}
	f := &model.Follow{ID: len(m.follows) + 1, FollowerID: followerID, FolloweeID: followeeID}
	m.follows[key] = f
	return f, nil
}

func (m *mockFollowRepo) Delete(ctx context.Context, followerID, followeeID int) (bool, error) {
	key := followKey{followerID, followeeID}
	if _, ok := m.follows[key]; !ok {
		return false, nil
	}
	delete(m.follows, key)
	return true, nil
}

func (m *mockFollowRepo) ListFollowers(ctx context.Context, userID int, page model.PageRequest) (*model.Page[*model.User], error) {
	var items []*model.User
	for key := range m.follows {
		if key.followee == userID {
			items = append(items, m.users.users[key.follower])
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return pageOf(items, page), nil
}

func (m *mockFollowRepo) ListFollowing(ctx context.Context, userID int, page model.PageRequest) (*model.Page[*model.User], error) {
	var items []*model.User
	for key := range m.follows {
		if key.follower == userID {
			items = append(items, m.users.users[key.followee])
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return pageOf(items, page), nil
}
