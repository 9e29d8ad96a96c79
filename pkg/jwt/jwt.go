// Package jwt issues and validates HMAC-signed access tokens.
//
// Tokens carry the user's email as the subject. Expiry is enforced on every
// validation; signature, algorithm, and issuer mismatches all yield
// ErrInvalidToken.
package jwt

import (
	"errors"
	"fmt"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken     = errors.New("invalid token")
	ErrTokenExpired     = errors.New("token expired")
	ErrInvalidKey       = errors.New("invalid key")
	ErrInvalidAlgorithm = errors.New("unsupported signing algorithm")
)

// Claims represents access token claims
type Claims struct {
	gojwt.RegisteredClaims
}

// Email returns the subject, which is the user's email address.
func (c *Claims) Email() string {
	return c.Subject
}

// Config holds JWT service configuration
type Config struct {
	SecretKey      string
	Algorithm      string // HS256, HS384 or HS512
	Issuer         string
	ExpirationMins int
}

// Service handles token operations
type Service struct {
	secret     []byte
	method     *gojwt.SigningMethodHMAC
	issuer     string
	expiration time.Duration
	now        func() time.Time
}

// NewService creates a new JWT service
func NewService(cfg Config) (*Service, error) {
	if cfg.SecretKey == "" {
		return nil, ErrInvalidKey
	}

	var method *gojwt.SigningMethodHMAC
	switch cfg.Algorithm {
	case "", "HS256":
		method = gojwt.SigningMethodHS256
	case "HS384":
		method = gojwt.SigningMethodHS384
	case "HS512":
		method = gojwt.SigningMethodHS512
	default:
		return nil, fmt.Errorf("%w: %s", ErrInvalidAlgorithm, cfg.Algorithm)
	}

	return &Service{
		secret:     []byte(cfg.SecretKey),
		method:     method,
		issuer:     cfg.Issuer,
		expiration: time.Duration(cfg.ExpirationMins) * time.Minute,
		now:        time.Now,
	}, nil
}

// Expiration returns the configured token lifetime
func (s *Service) Expiration() time.Duration {
	return s.expiration
}

// Issue creates a signed token for the given email.
func (s *Service) Issue(email string) (string, error) {
	return s.IssueWithExpiry(email, s.expiration)
}

// IssueWithExpiry creates a signed token with an explicit lifetime.
func (s *Service) IssueWithExpiry(email string, ttl time.Duration) (string, error) {
	if email == "" {
		return "", fmt.Errorf("%w: empty subject", ErrInvalidToken)
	}

	now := s.now()
	claims := Claims{
		RegisteredClaims: gojwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   email,
			IssuedAt:  gojwt.NewNumericDate(now),
			NotBefore: gojwt.NewNumericDate(now),
			ExpiresAt: gojwt.NewNumericDate(now.Add(ttl)),
		},
	}

	signed, err := gojwt.NewWithClaims(s.method, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign: %w", err)
	}
	return signed, nil
}

// Validate validates a token and returns its claims
func (s *Service) Validate(tokenString string) (*Claims, error) {
	opts := []gojwt.ParserOption{
		gojwt.WithValidMethods([]string{s.method.Alg()}),
		gojwt.WithExpirationRequired(),
		gojwt.WithTimeFunc(s.now),
	}
	if s.issuer != "" {
		opts = append(opts, gojwt.WithIssuer(s.issuer))
	}

	claims := &Claims{}
	token, err := gojwt.ParseWithClaims(tokenString, claims, func(*gojwt.Token) (interface{}, error) {
		return s.secret, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, gojwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid || claims.Subject == "" {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
