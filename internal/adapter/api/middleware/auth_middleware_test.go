package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reqmarket/pkg/errors"
)

type staticVerifier map[string]string

func (v staticVerifier) VerifyToken(_ context.Context, token string) (string, error) {
	if uid, ok := v[token]; ok {
		return uid, nil
	}
	return "", errors.Unauthorized("unknown token", nil)
}

func run(t *testing.T, mw echo.MiddlewareFunc, target, authHeader string) (string, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	c := e.NewContext(req, httptest.NewRecorder())

	var seen string
	err := mw(func(c echo.Context) error {
		seen = UID(c)
		return nil
	})(c)
	return seen, err
}

func TestAuthenticate(t *testing.T) {
	m := NewAuthMiddleware(staticVerifier{"good": "alice"})

	uid, err := run(t, m.Authenticate, "/", "Bearer good")
	require.NoError(t, err)
	assert.Equal(t, "alice", uid)

	for _, header := range []string{"", "Bearer", "Token good", "Bearer bad", "Bearer good extra"} {
		_, err := run(t, m.Authenticate, "/", header)
		assert.True(t, errors.Is(err, "UNAUTHORIZED"), header)
	}
}

func TestAuthenticateQuery(t *testing.T) {
	m := NewAuthMiddleware(staticVerifier{"good": "alice", "header": "bob"})

	uid, err := run(t, m.AuthenticateQuery, "/ws?token=good", "")
	require.NoError(t, err)
	assert.Equal(t, "alice", uid)

	uid, err = run(t, m.AuthenticateQuery, "/ws?token=good", "Bearer header")
	require.NoError(t, err)
	assert.Equal(t, "bob", uid)

	_, err = run(t, m.AuthenticateQuery, "/ws", "")
	assert.True(t, errors.Is(err, "UNAUTHORIZED"))
}

func TestRateLimitMiddlewareNil(t *testing.T) {
	var m *RateLimitMiddleware
	called := false
	h := m.Limit("read")(func(c echo.Context) error {
		called = true
		return nil
	})
	e := echo.New()
	require.NoError(t, h(e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())))
	assert.True(t, called)
}
