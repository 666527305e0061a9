package middleware

import (
	"github.com/labstack/echo/v4"
	"github.com/pencraft/blog-backend/internal/models"
)

const principalContextKey = "principal"

// SetPrincipal attaches the resolved principal to the request context for
// downstream handlers and policies.
func SetPrincipal(c echo.Context, p *models.Principal) {
	c.Set(principalContextKey, p)
}

// PrincipalFrom returns the principal attached to the request, if any.
func PrincipalFrom(c echo.Context) (*models.Principal, bool) {
	p, ok := c.Get(principalContextKey).(*models.Principal)
	if !ok || p == nil || p.ID == "" {
		return nil, false
	}
	return p, true
}
