package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// TokenTTL is the lifetime of an issued access token.
const TokenTTL = 7 * 24 * time.Hour

var (
	// ErrTokenExpired is returned when a token is at or past its expiry.
	ErrTokenExpired = errors.New("token has expired")
	// ErrTokenInvalid is returned for any signature, format or claim problem.
	ErrTokenInvalid = errors.New("invalid token")
	// ErrEmptySecret is returned when the signing secret is not configured.
	ErrEmptySecret = errors.New("jwt secret must not be empty")
)

// JWTService issues and verifies HS256 bearer tokens whose subject is a user id.
type JWTService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
	parser *jwt.Parser
}

// Option customises a JWTService.
type Option func(*JWTService)

// WithClock replaces the time source used for issuing and verifying tokens.
func WithClock(now func() time.Time) Option {
	return func(s *JWTService) {
		s.now = now
	}
}

// NewJWTService creates a new JWT service with the given secret.
// It refuses an empty secret so a misconfigured process fails at startup.
func NewJWTService(secret string, opts ...Option) (*JWTService, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}
	s := &JWTService{
		secret: []byte(secret),
		ttl:    TokenTTL,
		now:    time.Now,
		// Expiry is checked against s.now in Verify.
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithoutClaimsValidation(),
		),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Issue generates a token for userID that expires TokenTTL from now.
// Claims carry whole seconds, so the issue time is truncated to the second
// before the expiry is derived from it.
func (s *JWTService) Issue(userID string) (string, error) {
	now := s.now().Truncate(time.Second)
	claims := &jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Verify validates a token and returns the user id it was issued for.
// A token whose iat is T is accepted during [T, T+TokenTTL), where T is the
// issue time truncated to the second.
func (s *JWTService) Verify(tokenString string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := s.parser.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return "", ErrTokenInvalid
	}
	if claims.Subject == "" || claims.ExpiresAt == nil {
		return "", ErrTokenInvalid
	}
	if !claims.VerifyExpiresAt(s.now(), true) {
		return "", ErrTokenExpired
	}
	return claims.Subject, nil
}
