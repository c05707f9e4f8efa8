package middleware

import (
	"net/http"

	"flowmart-be/internal/auth"
	"flowmart-be/internal/user"

	"github.com/labstack/echo/v4"
)

// AuthMiddleware verifies the access token when present and enriches the
// request context with user identity. Requests without a valid token pass
// through anonymously; handlers that need authentication use RequireAuth.
func AuthMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		r := c.Request()

		tokenStr := auth.ExtractAccessToken(r)
		if tokenStr == "" {
			return next(c)
		}

		claims, err := user.ParseJWT(tokenStr)
		if err != nil {
			return next(c)
		}

		ctx := SetUserContext(r.Context(), claims.UserID, claims.Email, claims.Role)
		c.SetRequest(r.WithContext(ctx))
		return next(c)
	}
}

// RequireAuth rejects requests whose context carries no authenticated user.
func RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if _, ok := GetUserIDFromContext(c.Request().Context()); !ok {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		}
		return next(c)
	}
}

// RequireAdmin rejects requests from non-admin users.
func RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if GetUserRoleFromContext(c.Request().Context()) != string(user.RoleAdmin) {
			return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
		}
		return next(c)
	}
}
