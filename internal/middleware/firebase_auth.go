package middleware

import (
	"strings"

	"firebase.google.com/go/v4/auth"
	"github.com/labstack/echo/v4"
	"github.com/pencraft/blog-backend/internal/apperr"
	"github.com/pencraft/blog-backend/internal/models"
)

// TokenVerifier is the subset of the Firebase auth client the resolver
// needs; the indirection keeps handlers testable without Firebase.
type TokenVerifier interface {
	VerifyIDToken(ctx echo.Context, idToken string) (*auth.Token, error)
}

// firebaseVerifier adapts *auth.Client to TokenVerifier.
type firebaseVerifier struct {
	client *auth.Client
}

// NewFirebaseVerifier wraps a Firebase auth client.
func NewFirebaseVerifier(client *auth.Client) TokenVerifier {
	return &firebaseVerifier{client: client}
}

func (v *firebaseVerifier) VerifyIDToken(c echo.Context, idToken string) (*auth.Token, error) {
	return v.client.VerifyIDToken(c.Request().Context(), idToken)
}

// FirebaseAuth is the alternative session-resolution backend: it verifies a
// Bearer ID token and builds the principal from its claims. Same
// required/optional contract as the session resolver.
func FirebaseAuth(verifier TokenVerifier, requirement AuthRequirement) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				if requirement == AuthOptional {
					return next(c)
				}
				return apperr.Unauthenticated("authentication required")
			}

			tokenParts := strings.Split(authHeader, " ")
			if len(tokenParts) != 2 || !strings.EqualFold(tokenParts[0], "bearer") {
				if requirement == AuthOptional {
					return next(c)
				}
				return apperr.Unauthenticated("authorization header must be in Bearer format")
			}

			token, err := verifier.VerifyIDToken(c, tokenParts[1])
			if err != nil {
				if requirement == AuthOptional {
					return next(c)
				}
				return apperr.Unauthenticated("invalid or expired ID token")
			}

			SetPrincipal(c, principalFromToken(token))
			return next(c)
		}
	}
}

func principalFromToken(token *auth.Token) *models.Principal {
	p := &models.Principal{ID: token.UID}
	if name, ok := token.Claims["name"].(string); ok {
		p.Name = name
	}
	if role, ok := token.Claims["role"].(string); ok {
		p.Role = role
	}
	return p
}
