package service

import (
	"context"
	"errors"
	"testing"

	"github.com/forgo/guildhall/api/internal/database"
	"github.com/forgo/guildhall/api/internal/model"
	"github.com/forgo/guildhall/api/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
)

func setupAuthService(t *testing.T) (*AuthService, *mockUserRepo) {
	t.Helper()

	tokens, err := jwt.NewService(jwt.Config{
		SecretKey:      "test-secret-key-that-is-at-least-32-bytes",
		Algorithm:      "HS256",
		Issuer:         "guildhall-test",
		ExpirationMins: 30,
	})
	if err != nil {
		t.Fatalf("failed to create token service: %v", err)
	}

	users := newMockUserRepo()
	svc := NewAuthService(AuthServiceConfig{
		UserRepo:     users,
		TokenService: tokens,
		BcryptCost:   bcrypt.MinCost,
	})
	return svc, users
}

func registerRequest(email string) *model.RegisterRequest {
	return &model.RegisterRequest{
		Email:       email,
		DisplayName: "Rowan",
		Password:    "lanternlight",
	}
}

// ============================================================================
// Register
// ============================================================================

func TestAuthService_Register_Success(t *testing.T) {
	t.Parallel()
	svc, users := setupAuthService(t)

	resp, err := svc.Register(context.Background(), registerRequest("  Rowan@Example.COM "))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if resp.User.Email != "rowan@example.com" {
		t.Errorf("expected normalized email, got %q", resp.User.Email)
	}
	if resp.TokenType != "bearer" {
		t.Errorf("expected bearer token type, got %q", resp.TokenType)
	}
	if resp.ExpiresIn != 30*60 {
		t.Errorf("expected expires_in 1800, got %d", resp.ExpiresIn)
	}
	if !resp.User.IsActive {
		t.Error("expected new user to be active")
	}

	stored := users.users[resp.User.ID]
	if stored.Hash == nil || *stored.Hash == "lanternlight" {
		t.Fatal("expected password to be stored hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*stored.Hash), []byte("lanternlight")); err != nil {
		t.Errorf("stored hash does not verify: %v", err)
	}

	user, err := svc.ResolveToken(context.Background(), resp.AccessToken)
	if err != nil {
		t.Fatalf("token should resolve: %v", err)
	}
	if user.ID != resp.User.ID {
		t.Errorf("token resolved to user %d, want %d", user.ID, resp.User.ID)
	}
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	t.Parallel()
	svc, users := setupAuthService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, registerRequest("a@x.com")); err != nil {
		t.Fatalf("first registration failed: %v", err)
	}

	_, err := svc.Register(ctx, registerRequest("A@X.com"))
	if !errors.Is(err, ErrEmailAlreadyExists) {
		t.Fatalf("expected ErrEmailAlreadyExists, got %v", err)
	}
	if len(users.users) != 1 {
		t.Errorf("expected one stored user, got %d", len(users.users))
	}
}

func TestAuthService_Register_IndexRace(t *testing.T) {
	t.Parallel()
	svc, users := setupAuthService(t)
	users.createErr = database.ErrDuplicate

	_, err := svc.Register(context.Background(), registerRequest("race@x.com"))
	if !errors.Is(err, ErrEmailAlreadyExists) {
		t.Fatalf("expected ErrEmailAlreadyExists, got %v", err)
	}
}

func TestAuthService_Register_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		req   *model.RegisterRequest
		field string
	}{
		{"bad email", &model.RegisterRequest{Email: "nope", DisplayName: "A", Password: "lanternlight"}, "email"},
		{"short password", &model.RegisterRequest{Email: "a@x.com", DisplayName: "A", Password: "short"}, "password"},
		{"missing name", &model.RegisterRequest{Email: "a@x.com", Password: "lanternlight"}, "display_name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc, users := setupAuthService(t)

			_, err := svc.Register(context.Background(), tt.req)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if verr.Fields[0].Field != tt.field {
				t.Errorf("expected field %q, got %q", tt.field, verr.Fields[0].Field)
			}
			if len(users.users) != 0 {
				t.Error("nothing should be stored")
			}
		})
	}
}

// ============================================================================
// Authenticate / Login
// ============================================================================

func TestAuthService_Authenticate_Indistinguishable(t *testing.T) {
	t.Parallel()
	svc, _ := setupAuthService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, registerRequest("known@x.com")); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	wrongPassword, err1 := svc.Authenticate(ctx, "known@x.com", "not-the-password")
	unknownUser, err2 := svc.Authenticate(ctx, "unknown@x.com", "lanternlight")

	if wrongPassword != nil || unknownUser != nil {
		t.Error("expected no user for both failures")
	}
	if err1 != nil || err2 != nil {
		t.Errorf("expected nil errors, got %v and %v", err1, err2)
	}

	user, err := svc.Authenticate(ctx, "KNOWN@x.com", "lanternlight")
	if err != nil || user == nil {
		t.Fatalf("expected correct credentials to authenticate, got %v, %v", user, err)
	}
}

func TestAuthService_Login(t *testing.T) {
	t.Parallel()
	svc, _ := setupAuthService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, registerRequest("login@x.com")); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	if _, err := svc.Login(ctx, "login@x.com", "wrong-password"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}

	resp, err := svc.Login(ctx, "login@x.com", "lanternlight")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.AccessToken == "" {
		t.Error("expected an access token")
	}
}

func TestAuthService_Login_StoreError(t *testing.T) {
	t.Parallel()
	svc, users := setupAuthService(t)
	users.getErr = database.ErrConnection

	_, err := svc.Login(context.Background(), "a@x.com", "lanternlight")
	if !errors.Is(err, database.ErrConnection) {
		t.Errorf("store errors must surface, got %v", err)
	}
}

// ============================================================================
// Tokens
// ============================================================================

func TestAuthService_ResolveToken(t *testing.T) {
	t.Parallel()
	svc, _ := setupAuthService(t)
	ctx := context.Background()

	if _, err := svc.ResolveToken(ctx, "not-a-token"); !errors.Is(err, jwt.ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}

	orphan, err := svc.tokens.Issue("ghost@x.com")
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	if _, err := svc.ResolveToken(ctx, orphan); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound for unknown subject, got %v", err)
	}
}

func TestAuthService_IssueToken(t *testing.T) {
	t.Parallel()
	svc, _ := setupAuthService(t)
	ctx := context.Background()

	if _, err := svc.IssueToken(ctx, "nobody@x.com"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}

	if _, err := svc.Register(ctx, registerRequest("ops@x.com")); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	token, err := svc.IssueToken(ctx, "ops@x.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	claims, err := svc.tokens.Validate(token)
	if err != nil {
		t.Fatalf("issued token should validate: %v", err)
	}
	if claims.Email() != "ops@x.com" {
		t.Errorf("expected subject ops@x.com, got %q", claims.Email())
	}
}
