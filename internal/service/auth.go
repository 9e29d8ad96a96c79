package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/forgo/guildhall/api/internal/database"
	"github.com/forgo/guildhall/api/internal/metrics"
	"github.com/forgo/guildhall/api/internal/model"
	"github.com/forgo/guildhall/api/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
)

// bcrypt cost factor (10-14 recommended for production)
const bcryptCost = 12

// UserRepository defines the interface for user storage
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id int) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	Exists(ctx context.Context, id int) (bool, error)
	List(ctx context.Context, page model.PageRequest) (*model.Page[*model.User], error)
	Update(ctx context.Context, id int, changes model.UserChanges) (*model.User, error)
	ListBookmarkedQuests(ctx context.Context, userID int, page model.PageRequest) (*model.Page[*model.Quest], error)
}

// TokenService issues and validates access tokens
type TokenService interface {
	Issue(email string) (string, error)
	Validate(token string) (*jwt.Claims, error)
	Expiration() time.Duration
}

// AuthService handles registration, login and token resolution
type AuthService struct {
	userRepo UserRepository
	tokens   TokenService
	cost     int

	dummyOnce sync.Once
	dummyHash []byte
}

// AuthServiceConfig holds configuration for the auth service
type AuthServiceConfig struct {
	UserRepo     UserRepository
	TokenService TokenService
	BcryptCost   int // defaults to 12
}

// NewAuthService creates a new auth service
func NewAuthService(cfg AuthServiceConfig) *AuthService {
	cost := cfg.BcryptCost
	if cost == 0 {
		cost = bcryptCost
	}
	return &AuthService{
		userRepo: cfg.UserRepo,
		tokens:   cfg.TokenService,
		cost:     cost,
	}
}

// Register creates a new account and signs the user in
func (s *AuthService) Register(ctx context.Context, req *model.RegisterRequest) (*model.AuthResponse, error) {
	req.Email = model.NormalizeEmail(req.Email)
	if err := invalid(req.Validate()); err != nil {
		return nil, err
	}

	email := req.Email

	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailAlreadyExists
	}

	hash, err := hashPassword(req.Password, s.cost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Email:       email,
		DisplayName: req.DisplayName,
		AvatarURL:   req.AvatarURL,
		GuildRank:   req.GuildRank,
		Hash:        &hash,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			return nil, ErrEmailAlreadyExists
		}
		return nil, err
	}

	metrics.RecordRegistration()
	return s.respond(user)
}

// Authenticate checks an email and password. It returns (nil, nil) both
// for an unknown email and for a wrong password.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*model.User, error) {
	user, err := s.userRepo.GetByEmail(ctx, model.NormalizeEmail(email))
	if err != nil {
		return nil, err
	}

	if user == nil || user.Hash == nil || *user.Hash == "" {
		// Spend the same time as a real comparison
		_ = bcrypt.CompareHashAndPassword(s.dummy(), []byte(password))
		return nil, nil
	}

	if !checkPassword(password, *user.Hash) {
		return nil, nil
	}
	return user, nil
}

// Login authenticates a user with email/password
func (s *AuthService) Login(ctx context.Context, email, password string) (*model.AuthResponse, error) {
	user, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return nil, err
	}
	if user == nil {
		metrics.RecordLogin(false)
		return nil, ErrInvalidCredentials
	}

	metrics.RecordLogin(true)
	return s.respond(user)
}

// ResolveToken validates an access token and loads the user it names.
// Token failures are returned as the jwt package's errors; a subject with
// no matching user is ErrUserNotFound.
func (s *AuthService) ResolveToken(ctx context.Context, token string) (*model.User, error) {
	claims, err := s.tokens.Validate(token)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByEmail(ctx, claims.Email())
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// IssueToken mints an access token for an existing user
func (s *AuthService) IssueToken(ctx context.Context, email string) (string, error) {
	user, err := s.userRepo.GetByEmail(ctx, model.NormalizeEmail(email))
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", ErrUserNotFound
	}
	return s.tokens.Issue(user.Email)
}

func (s *AuthService) respond(user *model.User) (*model.AuthResponse, error) {
	token, err := s.tokens.Issue(user.Email)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &model.AuthResponse{
		User:        user,
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   int(s.tokens.Expiration().Seconds()),
	}, nil
}

func hashPassword(password string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (s *AuthService) dummy() []byte {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = bcrypt.GenerateFromPassword([]byte("guildhall-dummy-password"), s.cost)
	})
	return s.dummyHash
}

func checkPassword(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
