package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"referrals/internal/auth"
	apperrors "referrals/internal/errors"
	"referrals/internal/model"
	"referrals/internal/repository"
	"referrals/internal/validation"
)

const (
	bcryptCost = 10
	// bcryptMaxBytes is the longest input bcrypt hashes; longer passwords are
	// cut to this length before hashing and comparing.
	bcryptMaxBytes = 72
)

// TokenIssuer issues access tokens for a user id.
type TokenIssuer interface {
	Issue(userID string) (string, error)
}

// AuthResult is returned by a successful registration or sign-in.
type AuthResult struct {
	AccessToken string      `json:"access_token"`
	TokenType   string      `json:"token_type"`
	User        *model.User `json:"user"`
}

// AuthService handles authentication operations.
type AuthService interface {
	Register(ctx context.Context, email, password, fullName string) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	CurrentUser(ctx context.Context) (*model.User, error)
}

type authService struct {
	users  repository.UserRepository
	tokens TokenIssuer
	now    func() time.Time
}

// NewAuthService creates a new auth service.
func NewAuthService(users repository.UserRepository, tokens TokenIssuer) AuthService {
	return &authService{users: users, tokens: tokens, now: time.Now}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// passwordKey returns the bytes bcrypt sees for password.
func passwordKey(password string) []byte {
	key := []byte(password)
	if len(key) > bcryptMaxBytes {
		key = key[:bcryptMaxBytes]
	}
	return key
}

// Register creates a new account and signs it in.
func (s *authService) Register(ctx context.Context, email, password, fullName string) (*AuthResult, error) {
	email = normalizeEmail(email)
	if !validation.IsValidEmail(email) {
		return nil, apperrors.ErrInvalidEmail
	}

	_, err := s.users.FindByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, apperrors.ErrEmailTaken
	case !errors.Is(err, repository.ErrRecordNotFound):
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword(passwordKey(password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		FullName:     strings.TrimSpace(fullName),
		CreatedAt:    s.now().UTC(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		// The unique index settles races the lookup above cannot.
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, apperrors.ErrEmailTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	return s.signIn(user)
}

// Login authenticates a user by email and password.
func (s *authService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), passwordKey(password)); err != nil {
		return nil, apperrors.ErrInvalidCredentials
	}

	return s.signIn(user)
}

// CurrentUser returns the user attached to ctx by the auth gate.
func (s *authService) CurrentUser(ctx context.Context) (*model.User, error) {
	user, ok := auth.UserFromContext(ctx)
	if !ok {
		return nil, apperrors.ErrUnauthenticated
	}
	return user.Public(), nil
}

func (s *authService) signIn(user *model.User) (*AuthResult, error) {
	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &AuthResult{AccessToken: token, TokenType: "bearer", User: user.Public()}, nil
}
