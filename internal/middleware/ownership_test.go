package middleware

import (
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/pencraft/blog-backend/internal/apperr"
	"github.com/pencraft/blog-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ownershipContext(principal *models.Principal) echo.Context {
	c, _ := newTestContext("")
	if principal != nil {
		SetPrincipal(c, principal)
	}
	return c
}

func staticOwner(owner string, err error) OwnerLookup {
	return func(c echo.Context) (string, error) {
		return owner, err
	}
}

func TestRequireOwnership_OwnerPasses(t *testing.T) {
	c := ownershipContext(&models.Principal{ID: "u1", Role: "user"})

	var called bool
	err := RequireOwnership([]string{"admin"}, staticOwner("u1", nil))(func(c echo.Context) error {
		called = true
		return nil
	})(c)

	require.NoError(t, err)
	assert.True(t, called)
}

func TestRequireOwnership_AllowedRoleBypassesOwnerCheck(t *testing.T) {
	c := ownershipContext(&models.Principal{ID: "u2", Role: "admin"})

	// Lookup must not even run for a privileged role.
	var called bool
	err := RequireOwnership([]string{"admin", "editor"}, func(c echo.Context) (string, error) {
		t.Fatal("lookup must not run for allowed roles")
		return "", nil
	})(func(c echo.Context) error {
		called = true
		return nil
	})(c)

	require.NoError(t, err)
	assert.True(t, called)
}

func TestRequireOwnership_NonOwnerForbidden(t *testing.T) {
	c := ownershipContext(&models.Principal{ID: "u2", Role: "user"})

	err := RequireOwnership([]string{"admin"}, staticOwner("u1", nil))(func(c echo.Context) error {
		t.Fatal("handler must not run")
		return nil
	})(c)

	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))
}

func TestRequireOwnership_LookupNotFoundPropagates(t *testing.T) {
	c := ownershipContext(&models.Principal{ID: "u1", Role: "user"})

	err := RequireOwnership(nil, staticOwner("", apperr.NotFound("post not found")))(func(c echo.Context) error {
		return nil
	})(c)

	// A missing resource is reported as 404, not leaked as 403.
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestRequireOwnership_MissingPrincipalFailsFast(t *testing.T) {
	c := ownershipContext(nil)

	err := RequireOwnership([]string{"admin"}, staticOwner("u1", nil))(func(c echo.Context) error {
		return nil
	})(c)

	assert.Equal(t, apperr.KindInternal, apperr.KindOf(err))
}

func TestRequireOwnership_EmptyOwnerNeverMatches(t *testing.T) {
	c := ownershipContext(&models.Principal{ID: "u1", Role: "user"})

	err := RequireOwnership(nil, staticOwner("", nil))(func(c echo.Context) error {
		t.Fatal("handler must not run")
		return nil
	})(c)

	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))
}
