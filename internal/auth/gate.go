package auth

import (
	"context"
	"errors"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	apperrors "referrals/internal/errors"
	"referrals/internal/model"
)

// subjectKey is where echo-jwt stores the verified user id.
const subjectKey = "auth.subject"

// UserFinder loads users for the Gate. It must return
// apperrors.ErrUserNotFound when the id is unknown.
type UserFinder interface {
	GetUser(ctx context.Context, id string) (*model.User, error)
}

// TokenVerifier verifies bearer tokens and returns their subject.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// Gate authenticates requests carrying an "Authorization: Bearer <token>" header.
type Gate struct {
	tokens TokenVerifier
	users  UserFinder
}

// NewGate creates a new auth gate.
func NewGate(tokens TokenVerifier, users UserFinder) *Gate {
	return &Gate{tokens: tokens, users: users}
}

// Middleware verifies the bearer token, loads its user and attaches the user
// (without credentials) to the request context.
func (g *Gate) Middleware() echo.MiddlewareFunc {
	verifyToken := echojwt.WithConfig(echojwt.Config{
		ContextKey:  subjectKey,
		TokenLookup: "header:" + echo.HeaderAuthorization + ":Bearer ",
		ParseTokenFunc: func(_ echo.Context, token string) (interface{}, error) {
			return g.tokens.Verify(token)
		},
		ErrorHandler: tokenError,
	})

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return verifyToken(g.attachUser(next))
	}
}

func (g *Gate) attachUser(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		userID, _ := c.Get(subjectKey).(string)
		if userID == "" {
			return apperrors.ToEcho(apperrors.ErrInvalidToken)
		}

		req := c.Request()
		user, err := g.users.GetUser(req.Context(), userID)
		if err != nil {
			return apperrors.ToEcho(err)
		}

		c.SetRequest(req.WithContext(WithUser(req.Context(), user.Public())))
		return next(c)
	}
}

// tokenError maps echo-jwt failures onto the auth error taxonomy.
func tokenError(_ echo.Context, err error) error {
	switch {
	case errors.Is(err, ErrTokenExpired):
		return apperrors.ToEcho(apperrors.ErrTokenExpired)
	case errors.Is(err, ErrTokenInvalid):
		return apperrors.ToEcho(apperrors.ErrInvalidToken)
	default:
		return apperrors.ToEcho(apperrors.ErrUnauthenticated)
	}
}
