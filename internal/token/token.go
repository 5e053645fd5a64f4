// Package token issues and validates the HS256 bearer tokens handed to API
// clients at signup and login. Browser clients use the session cookie; the
// token carries the same identity for clients that cannot hold cookies.
package token

import (
	"errors"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("token invalid")
)

// Claims identifies a user. 2FA state is never carried in a token, so
// bearer clients cannot reach admin routes.
type Claims struct {
	UserID uuid.UUID `json:"user_id"`
	Email  string    `json:"email"`
	Role   string    `json:"role"`

	jwtlib.RegisteredClaims
}

// Service signs and validates access tokens with a shared secret.
type Service struct {
	secret    []byte
	expiresIn time.Duration
	now       func() time.Time
}

// NewService creates a token service. A non-positive expiresIn defaults
// to 24 hours.
func NewService(secret string, expiresIn time.Duration) *Service {
	if expiresIn <= 0 {
		expiresIn = 24 * time.Hour
	}
	return &Service{
		secret:    []byte(secret),
		expiresIn: expiresIn,
		now:       time.Now,
	}
}

// Issue returns a signed access token for the user.
func (s *Service) Issue(userID uuid.UUID, email, role string) (string, error) {
	if len(s.secret) == 0 {
		return "", ErrTokenInvalid
	}
	now := s.now().UTC()
	c := Claims{
		UserID: userID,
		Email:  email,
		Role:   role,
		RegisteredClaims: jwtlib.RegisteredClaims{
			IssuedAt:  jwtlib.NewNumericDate(now),
			ExpiresAt: jwtlib.NewNumericDate(now.Add(s.expiresIn)),
			Subject:   userID.String(),
		},
	}
	return jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, c).SignedString(s.secret)
}

// Validate parses a token and returns its claims. Expired tokens return
// ErrTokenExpired; everything else that fails returns ErrTokenInvalid.
func (s *Service) Validate(tokenString string) (Claims, error) {
	p := jwtlib.NewParser(
		jwtlib.WithValidMethods([]string{jwtlib.SigningMethodHS256.Alg()}),
		jwtlib.WithTimeFunc(s.now),
		jwtlib.WithExpirationRequired(),
	)

	var c Claims
	tok, err := p.ParseWithClaims(tokenString, &c, func(*jwtlib.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwtlib.ErrTokenExpired) {
			return Claims{}, ErrTokenExpired
		}
		return Claims{}, ErrTokenInvalid
	}
	if tok == nil || !tok.Valid || c.UserID == uuid.Nil {
		return Claims{}, ErrTokenInvalid
	}
	return c, nil
}

// TTL returns how long issued tokens stay valid.
func (s *Service) TTL() time.Duration {
	return s.expiresIn
}
