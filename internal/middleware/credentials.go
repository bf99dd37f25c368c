package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"
)

// TokenKey is the echo context key holding a bearer token from the
// Authorization header.
const TokenKey = "bearerToken"

// Credentials extracts "Bearer <token>" from the Authorization header into the
// context. It never rejects a request: handlers decide whether a token is
// required and may also read it from the body or query.
func Credentials() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			parts := strings.Fields(authHeader)
			if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
				c.Set(TokenKey, parts[1])
			}
			return next(c)
		}
	}
}

// BearerToken returns the token stored by Credentials, if any.
func BearerToken(c echo.Context) string {
	token, _ := c.Get(TokenKey).(string)
	return token
}
