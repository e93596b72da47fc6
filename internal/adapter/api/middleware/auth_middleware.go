package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"reqmarket/internal/usecase"
	"reqmarket/pkg/errors"
)

// ContextKeyUID holds the verified caller identity.
const ContextKeyUID = "uid"

type AuthMiddleware struct {
	verifier usecase.TokenVerifier
}

func NewAuthMiddleware(verifier usecase.TokenVerifier) *AuthMiddleware {
	return &AuthMiddleware{
		verifier: verifier,
	}
}

func bearerToken(c echo.Context) (string, bool) {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader == "" {
		return "", false
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if c.Request().Header.Get("Authorization") == "" {
			return errors.Unauthorized("Authorization header is required", nil)
		}
		token, ok := bearerToken(c)
		if !ok {
			return errors.Unauthorized("Invalid authorization format", nil)
		}

		uid, err := m.verifier.VerifyToken(c.Request().Context(), token)
		if err != nil {
			return errors.Unauthorized("Invalid or expired token", err)
		}

		c.Set(ContextKeyUID, uid)
		return next(c)
	}
}

// AuthenticateQuery accepts the token from the "token" query parameter as
// well, since browsers cannot set headers on WebSocket upgrades.
func (m *AuthMiddleware) AuthenticateQuery(next echo.HandlerFunc) echo.HandlerFunc {
	authenticate := m.Authenticate(next)
	return func(c echo.Context) error {
		if token := c.QueryParam("token"); token != "" && c.Request().Header.Get("Authorization") == "" {
			c.Request().Header.Set("Authorization", "Bearer "+token)
		}
		return authenticate(c)
	}
}

// UID returns the identity set by Authenticate.
func UID(c echo.Context) string {
	uid, _ := c.Get(ContextKeyUID).(string)
	return uid
}
