package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pencraft/blog-backend/internal/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestContext(cookie string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if cookie != "" {
		req.Header.Set("Cookie", cookie)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func authorityStub(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func validAuthority(t *testing.T) *httptest.Server {
	return authorityStub(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/me", r.URL.Path)
		assert.NotEmpty(t, r.Header.Get("Cookie"), "credential must be forwarded")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"user":{"id":"u1","name":"Ada","role":"editor, reviewer"}}`))
	})
}

func TestSessionResolver_ValidSessionAttachesPrincipal(t *testing.T) {
	srv := validAuthority(t)
	resolver := NewSessionResolver(srv.URL, time.Second)

	c, _ := newTestContext("session=abc")
	var called bool
	err := resolver.Middleware(AuthRequired)(func(c echo.Context) error {
		called = true
		principal, ok := PrincipalFrom(c)
		require.True(t, ok)
		assert.Equal(t, "u1", principal.ID)
		assert.Equal(t, "Ada", principal.Name)
		assert.Equal(t, []string{"editor", "reviewer"}, principal.Roles())
		return nil
	})(c)

	require.NoError(t, err)
	assert.True(t, called)
}

func TestSessionResolver_MissingCredential(t *testing.T) {
	srv := validAuthority(t)
	resolver := NewSessionResolver(srv.URL, time.Second)

	// Required: reject without calling the handler.
	c, _ := newTestContext("")
	err := resolver.Middleware(AuthRequired)(func(c echo.Context) error {
		t.Fatal("handler must not run")
		return nil
	})(c)
	assert.Equal(t, apperr.KindUnauthenticated, apperr.KindOf(err))

	// Optional: proceed as anonymous.
	c, _ = newTestContext("")
	var anonymous bool
	err = resolver.Middleware(AuthOptional)(func(c echo.Context) error {
		_, ok := PrincipalFrom(c)
		anonymous = !ok
		return nil
	})(c)
	require.NoError(t, err)
	assert.True(t, anonymous)
}

func TestSessionResolver_RejectedCredential(t *testing.T) {
	srv := authorityStub(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	resolver := NewSessionResolver(srv.URL, time.Second)

	c, _ := newTestContext("session=expired")
	err := resolver.Middleware(AuthRequired)(func(c echo.Context) error { return nil })(c)
	assert.Equal(t, apperr.KindUnauthenticated, apperr.KindOf(err))
}

func TestSessionResolver_EmptySessionBody(t *testing.T) {
	srv := authorityStub(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	})
	resolver := NewSessionResolver(srv.URL, time.Second)

	c, _ := newTestContext("session=ghost")
	err := resolver.Middleware(AuthRequired)(func(c echo.Context) error { return nil })(c)
	assert.Equal(t, apperr.KindUnauthenticated, apperr.KindOf(err))
}

func TestSessionResolver_AuthorityDown(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	resolver := NewSessionResolver(url, time.Second)

	// Required: surface the outage.
	c, _ := newTestContext("session=abc")
	err := resolver.Middleware(AuthRequired)(func(c echo.Context) error { return nil })(c)
	assert.Equal(t, apperr.KindUpstream, apperr.KindOf(err))

	// Optional: degrade to anonymous so public reads stay available.
	c, _ = newTestContext("session=abc")
	var called bool
	err = resolver.Middleware(AuthOptional)(func(c echo.Context) error {
		called = true
		_, ok := PrincipalFrom(c)
		assert.False(t, ok)
		return nil
	})(c)
	require.NoError(t, err)
	assert.True(t, called)
}

func TestSessionResolver_MalformedResponse(t *testing.T) {
	srv := authorityStub(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	})
	resolver := NewSessionResolver(srv.URL, time.Second)

	c, _ := newTestContext("session=abc")
	err := resolver.Middleware(AuthRequired)(func(c echo.Context) error { return nil })(c)
	assert.Equal(t, apperr.KindUpstream, apperr.KindOf(err))
}

func TestSessionResolver_BoundedTimeout(t *testing.T) {
	srv := authorityStub(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	})
	resolver := NewSessionResolver(srv.URL, 20*time.Millisecond)

	// Optional auth degrades to anonymous on timeout rather than hanging.
	c, _ := newTestContext("session=abc")
	start := time.Now()
	var called bool
	err := resolver.Middleware(AuthOptional)(func(c echo.Context) error {
		called = true
		return nil
	})(c)
	require.NoError(t, err)
	assert.True(t, called)
	assert.Less(t, time.Since(start), 150*time.Millisecond)
}
