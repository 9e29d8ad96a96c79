package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/forgo/guildhall/api/internal/middleware"
	"github.com/forgo/guildhall/api/internal/model"
	"github.com/forgo/guildhall/api/pkg/jwt"
)

// ============================================================================
// Mock Services
// ============================================================================

type mockAuthService struct {
	registerFunc func(ctx context.Context, req *model.RegisterRequest) (*model.AuthResponse, error)
	loginFunc    func(ctx context.Context, email, password string) (*model.AuthResponse, error)
}

func (m *mockAuthService) Register(ctx context.Context, req *model.RegisterRequest) (*model.AuthResponse, error) {
	if m.registerFunc != nil {
		return m.registerFunc(ctx, req)
	}
	return nil, nil
}

func (m *mockAuthService) Login(ctx context.Context, email, password string) (*model.AuthResponse, error) {
	if m.loginFunc != nil {
		return m.loginFunc(ctx, email, password)
	}
	return nil, nil
}

type mockQuestService struct {
	createFunc func(ctx context.Context, authorID int, req *model.CreateQuestRequest) (*model.Quest, error)
	getFunc    func(ctx context.Context, id int) (*model.Quest, error)
	listFunc   func(ctx context.Context, filter model.QuestFilter, page model.PageRequest) (*model.Page[*model.Quest], error)
	updateFunc func(ctx context.Context, id, callerID int, req *model.UpdateQuestRequest) (*model.Quest, error)
	deleteFunc func(ctx context.Context, id, callerID int) error
	likeFunc   func(ctx context.Context, id int) (*model.Quest, error)
	toggleFunc func(ctx context.Context, questID, userID int) (*model.BookmarkState, error)
	mineFunc   func(ctx context.Context, authorID int, page model.PageRequest) (*model.Page[*model.Quest], error)
}

func (m *mockQuestService) Create(ctx context.Context, authorID int, req *model.CreateQuestRequest) (*model.Quest, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, authorID, req)
	}
	return nil, nil
}

func (m *mockQuestService) Get(ctx context.Context, id int) (*model.Quest, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockQuestService) List(ctx context.Context, filter model.QuestFilter, page model.PageRequest) (*model.Page[*model.Quest], error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, filter, page)
	}
	return model.NewPage[*model.Quest](nil, 0, page), nil
}

func (m *mockQuestService) Update(ctx context.Context, id, callerID int, req *model.UpdateQuestRequest) (*model.Quest, error) {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, id, callerID, req)
	}
	return nil, nil
}

func (m *mockQuestService) Delete(ctx context.Context, id, callerID int) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id, callerID)
	}
	return nil
}

func (m *mockQuestService) Like(ctx context.Context, id int) (*model.Quest, error) {
	if m.likeFunc != nil {
		return m.likeFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockQuestService) ToggleBookmark(ctx context.Context, questID, userID int) (*model.BookmarkState, error) {
	if m.toggleFunc != nil {
		return m.toggleFunc(ctx, questID, userID)
	}
	return nil, nil
}

func (m *mockQuestService) ListMine(ctx context.Context, authorID int, page model.PageRequest) (*model.Page[*model.Quest], error) {
	if m.mineFunc != nil {
		return m.mineFunc(ctx, authorID, page)
	}
	return model.NewPage[*model.Quest](nil, 0, page), nil
}

type mockUserService struct {
	getFunc       func(ctx context.Context, id int) (*model.User, error)
	listFunc      func(ctx context.Context, page model.PageRequest) (*model.Page[*model.User], error)
	updateFunc    func(ctx context.Context, caller *model.User, req *model.UpdateUserRequest) (*model.User, error)
	bookmarksFunc func(ctx context.Context, userID int, page model.PageRequest) (*model.Page[*model.Quest], error)
}

func (m *mockUserService) Get(ctx context.Context, id int) (*model.User, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockUserService) List(ctx context.Context, page model.PageRequest) (*model.Page[*model.User], error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, page)
	}
	return model.NewPage[*model.User](nil, 0, page), nil
}

func (m *mockUserService) UpdateProfile(ctx context.Context, caller *model.User, req *model.UpdateUserRequest) (*model.User, error) {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, caller, req)
	}
	return caller, nil
}

func (m *mockUserService) ListBookmarks(ctx context.Context, userID int, page model.PageRequest) (*model.Page[*model.Quest], error) {
	if m.bookmarksFunc != nil {
		return m.bookmarksFunc(ctx, userID, page)
	}
	return model.NewPage[*model.Quest](nil, 0, page), nil
}

type mockCampaignService struct {
	createFunc func(ctx context.Context, authorID int, req *model.CreateCampaignRequest) (*model.Campaign, error)
	listFunc   func(ctx context.Context, authorID *int, page model.PageRequest) (*model.Page[*model.Campaign], error)
	updateFunc func(ctx context.Context, id, callerID int, req *model.UpdateCampaignRequest) (*model.Campaign, error)
	deleteFunc func(ctx context.Context, id, callerID int) error
}

func (m *mockCampaignService) Create(ctx context.Context, authorID int, req *model.CreateCampaignRequest) (*model.Campaign, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, authorID, req)
	}
	return nil, nil
}

func (m *mockCampaignService) Get(ctx context.Context, id int) (*model.Campaign, error) {
	return nil, nil
}

func (m *mockCampaignService) List(ctx context.Context, authorID *int, page model.PageRequest) (*model.Page[*model.Campaign], error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, authorID, page)
	}
	return model.NewPage[*model.Campaign](nil, 0, page), nil
}

func (m *mockCampaignService) Update(ctx context.Context, id, callerID int, req *model.UpdateCampaignRequest) (*model.Campaign, error) {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, id, callerID, req)
	}
	return nil, nil
}

func (m *mockCampaignService) Delete(ctx context.Context, id, callerID int) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id, callerID)
	}
	return nil
}

type mockReferenceService struct {
	entries map[model.ReferenceKind][]*model.ReferenceEntry
}

func (m *mockReferenceService) List(ctx context.Context, kind model.ReferenceKind) ([]*model.ReferenceEntry, error) {
	return m.entries[kind], nil
}

func (m *mockReferenceService) Achievements(ctx context.Context, page model.PageRequest) (*model.Page[*model.Achievement], error) {
	return model.NewPage[*model.Achievement](nil, 0, page), nil
}

type mockPinger struct {
	err error
}

func (m *mockPinger) Ping(ctx context.Context) error {
	return m.err
}

// mockResolver accepts the token "valid" for user
type mockResolver struct {
	user *model.User
}

func (m *mockResolver) ResolveToken(ctx context.Context, token string) (*model.User, error) {
	if token != "valid" || m.user == nil {
		return nil, jwt.ErrInvalidToken
	}
	return m.user, nil
}

// ============================================================================
// Test Helpers
// ============================================================================

func newTestUser(id int) *model.User {
	return &model.User{
		ID:          id,
		Email:       "rowan@guildhall.local",
		DisplayName: "Rowan",
		IsActive:    true,
	}
}

func newTestQuest(id, authorID int) *model.Quest {
	return &model.Quest{
		ID:              id,
		Name:            "The Royal Mile",
		Synopsis:        "Castle to palace",
		Itinerary:       "Walk downhill",
		StartLocationID: 1,
		InterestID:      1,
		DifficultyID:    1,
		QuestTypeID:     1,
		IsPublic:        true,
		AuthorID:        authorID,
	}
}

func makeJSONRequest(method, path string, body any) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func makeRawRequest(method, path, body string) *http.Request {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func makeFormRequest(path string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func withUserContext(req *http.Request, user *model.User) *http.Request {
	return req.WithContext(middleware.WithUser(req.Context(), user))
}

// withPathValue sets a path wildcard the way ServeMux would
func withPathValue(req *http.Request, name, value string) *http.Request {
	req.SetPathValue(name, value)
	return req
}

func parseErrorResponse(t *testing.T, body []byte) *model.ProblemDetails {
	t.Helper()
	var problem model.ProblemDetails
	if err := json.Unmarshal(body, &problem); err != nil {
		t.Fatalf("failed to parse error response: %v", err)
	}
	return &problem
}

// decodeData decodes the "data" member of a response envelope into v
func decodeData(t *testing.T, body []byte, v any) {
	t.Helper()
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		t.Fatalf("failed to parse response envelope: %v", err)
	}
	if err := json.Unmarshal(envelope.Data, v); err != nil {
		t.Fatalf("failed to parse data: %v", err)
	}
}
