package handler

import (
	"net/http"

	"github.com/forgo/guildhall/api/internal/middleware"
	"github.com/forgo/guildhall/api/internal/model"
)

// RouterConfig holds everything the route table needs
type RouterConfig struct {
	Prefix string // e.g. /api/v1

	Auth        *AuthHandler
	Users       *UserHandler
	Follows     *FollowHandler
	Locations   *LocationHandler
	QuestLog    *QuestLogHandler
	Quests      *QuestHandler
	Campaigns   *CampaignHandler
	Comments    *CommentHandler
	References  *ReferenceHandler
	Health      *HealthHandler
	Metrics     http.Handler // optional
	Tokens      middleware.TokenResolver
	Idempotency *middleware.IdempotencyStore
}

// NewRouter builds the route table. Protected routes resolve the bearer
// token first and then apply idempotency keys per user.
func NewRouter(cfg RouterConfig) *http.ServeMux {
	mux := http.NewServeMux()
	p := cfg.Prefix

	protect := func(h http.HandlerFunc) http.Handler {
		mws := []middleware.Middleware{middleware.Auth(cfg.Tokens)}
		if cfg.Idempotency != nil {
			mws = append(mws, middleware.Idempotency(cfg.Idempotency))
		}
		return middleware.Chain(h, mws...)
	}

	// Service endpoints
	mux.HandleFunc("GET /{$}", cfg.Health.Root)
	mux.HandleFunc("GET /health", cfg.Health.Health)
	if cfg.Metrics != nil {
		mux.Handle("GET /metrics", cfg.Metrics)
	}

	// Auth endpoints (public)
	mux.HandleFunc("POST "+p+"/auth/register", cfg.Auth.Register)
	mux.HandleFunc("POST "+p+"/auth/login", cfg.Auth.Login)

	// Collection roots also answer with a trailing slash

	// User endpoints
	mux.HandleFunc("GET "+p+"/users", cfg.Users.List)
	mux.HandleFunc("GET "+p+"/users/{$}", cfg.Users.List)
	mux.Handle("GET "+p+"/users/me", protect(cfg.Users.GetMe))
	mux.Handle("PUT "+p+"/users/me", protect(cfg.Users.UpdateMe))
	mux.Handle("GET "+p+"/users/me/bookmarks", protect(cfg.Users.ListBookmarks))
	mux.Handle("GET "+p+"/users/me/quests", protect(cfg.Users.ListMyQuests))
	mux.HandleFunc("GET "+p+"/users/{id}", cfg.Users.Get)

	// Follow endpoints
	mux.Handle("POST "+p+"/users/{id}/follow", protect(cfg.Follows.Follow))
	mux.Handle("DELETE "+p+"/users/{id}/follow", protect(cfg.Follows.Unfollow))
	mux.HandleFunc("GET "+p+"/users/{id}/followers", cfg.Follows.Followers)
	mux.HandleFunc("GET "+p+"/users/{id}/following", cfg.Follows.Following)

	// Location endpoints
	mux.Handle("POST "+p+"/locations", protect(cfg.Locations.Create))
	mux.HandleFunc("GET "+p+"/locations", cfg.Locations.List)
	mux.Handle("POST "+p+"/locations/{$}", protect(cfg.Locations.Create))
	mux.HandleFunc("GET "+p+"/locations/{$}", cfg.Locations.List)
	mux.HandleFunc("GET "+p+"/locations/{id}", cfg.Locations.Get)
	mux.Handle("PUT "+p+"/locations/{id}", protect(cfg.Locations.Update))
	mux.Handle("DELETE "+p+"/locations/{id}", protect(cfg.Locations.Delete))
	mux.Handle("POST "+p+"/locations/{id}/log", protect(cfg.QuestLog.Create))
	mux.Handle("GET "+p+"/locations/{id}/log", protect(cfg.QuestLog.List))

	// Campaign endpoints
	mux.Handle("POST "+p+"/campaigns", protect(cfg.Campaigns.Create))
	mux.HandleFunc("GET "+p+"/campaigns", cfg.Campaigns.List)
	mux.Handle("POST "+p+"/campaigns/{$}", protect(cfg.Campaigns.Create))
	mux.HandleFunc("GET "+p+"/campaigns/{$}", cfg.Campaigns.List)
	mux.HandleFunc("GET "+p+"/campaigns/{id}", cfg.Campaigns.Get)
	mux.Handle("PUT "+p+"/campaigns/{id}", protect(cfg.Campaigns.Update))
	mux.Handle("DELETE "+p+"/campaigns/{id}", protect(cfg.Campaigns.Delete))

	// Quest endpoints
	mux.Handle("POST "+p+"/quests", protect(cfg.Quests.Create))
	mux.HandleFunc("GET "+p+"/quests", cfg.Quests.List)
	mux.Handle("POST "+p+"/quests/{$}", protect(cfg.Quests.Create))
	mux.HandleFunc("GET "+p+"/quests/{$}", cfg.Quests.List)
	mux.HandleFunc("GET "+p+"/quests/{id}", cfg.Quests.Get)
	mux.Handle("PUT "+p+"/quests/{id}", protect(cfg.Quests.Update))
	mux.Handle("DELETE "+p+"/quests/{id}", protect(cfg.Quests.Delete))
	mux.Handle("POST "+p+"/quests/{id}/like", protect(cfg.Quests.Like))
	mux.Handle("POST "+p+"/quests/{id}/bookmark", protect(cfg.Quests.ToggleBookmark))

	// Comment endpoints
	mux.Handle("POST "+p+"/quests/{id}/comments", protect(cfg.Comments.Create))
	mux.HandleFunc("GET "+p+"/quests/{id}/comments", cfg.Comments.List)
	mux.Handle("DELETE "+p+"/comments/{id}", protect(cfg.Comments.Delete))

	// Reference data (public)
	mux.HandleFunc("GET "+p+"/reference/quest-types", cfg.References.List(model.ReferenceQuestType))
	mux.HandleFunc("GET "+p+"/reference/difficulties", cfg.References.List(model.ReferenceDifficulty))
	mux.HandleFunc("GET "+p+"/reference/interests", cfg.References.List(model.ReferenceInterest))
	mux.HandleFunc("GET "+p+"/achievements", cfg.References.Achievements)

	return mux
}
