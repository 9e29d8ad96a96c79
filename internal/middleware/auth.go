package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/forgo/guildhall/api/internal/model"
	"github.com/forgo/guildhall/api/internal/service"
	"github.com/forgo/guildhall/api/pkg/jwt"
)

// TokenResolver turns a bearer token into the user it names
type TokenResolver interface {
	ResolveToken(ctx context.Context, token string) (*model.User, error)
}

// Auth returns a middleware that requires a valid bearer token and puts
// the resolved user in the request context. Every failure is a 401 with
// a WWW-Authenticate challenge, except store errors which are a 500.
func Auth(resolver TokenResolver) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				model.NewUnauthorizedError("Not authenticated").WriteJSON(w)
				return
			}

			user, err := resolver.ResolveToken(r.Context(), token)
			switch {
			case err == nil:
			case errors.Is(err, jwt.ErrTokenExpired):
				model.NewTokenExpiredError().WriteJSON(w)
				return
			case errors.Is(err, jwt.ErrInvalidToken), errors.Is(err, service.ErrUserNotFound):
				model.NewUnauthorizedError("Could not validate credentials").WriteJSON(w)
				return
			default:
				slog.Error("failed to resolve token",
					slog.String("error", err.Error()),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				model.NewInternalError("").WriteJSON(w)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

// bearerToken extracts the token from an "Authorization: Bearer" header
func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// GetUser returns the authenticated user, or nil
func GetUser(ctx context.Context) *model.User {
	if user, ok := ctx.Value(UserKey).(*model.User); ok {
		return user
	}
	return nil
}

// GetUserID returns the authenticated user's id, or 0
func GetUserID(ctx context.Context) int {
	if user := GetUser(ctx); user != nil {
		return user.ID
	}
	return 0
}

// WithUser returns a context carrying user
func WithUser(ctx context.Context, user *model.User) context.Context {
	return context.WithValue(ctx, UserKey, user)
}
