package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/adesokan/walletcore/services"
	"github.com/adesokan/walletcore/utils"
)

const userIDKey = "user_id"

// AuthMiddleware checks the bearer token and stores the authenticated
// user ID on the echo context.
func AuthMiddleware(jwtSecret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if header == "" {
				return utils.Unauthorized(c, "missing authorization header")
			}

			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				return utils.Unauthorized(c, "authorization header must be a bearer token")
			}

			userID, err := services.ParseToken(parts[1], jwtSecret)
			if err != nil {
				return utils.Unauthorized(c, "invalid or expired token")
			}

			c.Set(userIDKey, userID)
			return next(c)
		}
	}
}

// GetUserID returns the user ID set by AuthMiddleware, or "" when the
// request was not authenticated.
func GetUserID(c echo.Context) string {
	id, _ := c.Get(userIDKey).(string)
	return id
}
