package middleware

import (
	"errors"

	"github.com/labstack/echo/v4"
	"github.com/pencraft/blog-backend/internal/apperr"
)

// OwnerLookup resolves the owning user id of the resource named by the
// request. A missing resource surfaces as a NotFound error so the response
// layer can distinguish "not found" from "forbidden".
type OwnerLookup func(c echo.Context) (string, error)

// RequireOwnership allows the request when the principal holds any of the
// allowed roles, or, failing that, when the principal owns the resource.
// It must run behind a required auth middleware; reaching it without a
// principal is a programming error and fails fast.
func RequireOwnership(allowedRoles []string, lookup OwnerLookup) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			principal, ok := PrincipalFrom(c)
			if !ok {
				return apperr.Internal(errors.New("ownership check reached without an authenticated principal"))
			}

			if principal.HasAnyRole(allowedRoles...) {
				return next(c)
			}

			if lookup != nil {
				owner, err := lookup(c)
				if err != nil {
					return err
				}
				if owner != "" && owner == principal.ID {
					return next(c)
				}
			}

			return apperr.Forbidden("you are not allowed to modify this resource")
		}
	}
}
