package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pencraft/blog-backend/internal/apperr"
	"github.com/pencraft/blog-backend/internal/models"
)

// AuthRequirement states whether an endpoint needs an authenticated
// principal or merely accepts one. It is an explicit parameter so call
// sites document their own auth requirement.
type AuthRequirement int

const (
	AuthRequired AuthRequirement = iota
	AuthOptional
)

// SessionResolver validates the inbound session cookie against the external
// identity authority and attaches the resolved principal to the request.
type SessionResolver struct {
	baseURL string
	client  *http.Client
}

// NewSessionResolver creates a resolver for the identity authority at
// baseURL. Every authority call is bounded by timeout so a hung authority
// never hangs a request.
func NewSessionResolver(baseURL string, timeout time.Duration) *SessionResolver {
	return &SessionResolver{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

// Middleware returns an Echo middleware resolving the session cookie.
// AuthRequired rejects missing/invalid credentials and surfaces authority
// outages; AuthOptional degrades to anonymous in both cases so public read
// endpoints stay available even when the authority is down.
func (s *SessionResolver) Middleware(requirement AuthRequirement) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie := c.Request().Header.Get("Cookie")
			if cookie == "" {
				if requirement == AuthOptional {
					return next(c)
				}
				return apperr.Unauthenticated("authentication required")
			}

			principal, err := s.resolve(c.Request().Context(), cookie)
			if err != nil {
				if requirement == AuthOptional {
					return next(c)
				}
				return err
			}
			if principal == nil {
				if requirement == AuthOptional {
					return next(c)
				}
				return apperr.Unauthenticated("invalid or expired session")
			}

			SetPrincipal(c, principal)
			return next(c)
		}
	}
}

// resolve forwards the credential to the authority's session endpoint. A
// nil principal with nil error means the authority rejected the credential;
// an error means the authority itself failed.
func (s *SessionResolver) resolve(ctx context.Context, cookie string) (*models.Principal, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/me", nil)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	req.Header.Set("Cookie", cookie)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, apperr.Upstream("identity service unavailable", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, nil
	}

	var payload struct {
		User *models.Principal `json:"user"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, apperr.Upstream("malformed identity response", err)
	}
	if payload.User == nil || payload.User.ID == "" {
		return nil, nil
	}
	return payload.User, nil
}
