package handlers

import (
	"github.com/anonto42/connectly/backend/internal/middleware"
	"github.com/anonto42/connectly/backend/internal/models"
	"github.com/anonto42/connectly/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// tokenFrom picks the request's credential token: the Authorization header
// first, then the bound body field, then the query or form value.
func tokenFrom(c echo.Context, bodyToken string) string {
	if token := middleware.BearerToken(c); token != "" {
		return token
	}
	if bodyToken != "" {
		return bodyToken
	}
	return c.FormValue("token")
}

func currentUser(c echo.Context, resolver services.CredentialResolver, bodyToken string) (*models.User, error) {
	return resolver.Resolve(c.Request().Context(), tokenFrom(c, bodyToken))
}

// currentAuthor is currentUser for post and comment routes, which answer an
// unknown token with 404 "User not found".
func currentAuthor(c echo.Context, resolver services.CredentialResolver, bodyToken string) (*models.User, error) {
	user, err := currentUser(c, resolver, bodyToken)
	if models.IsKind(err, models.KindUnauthorized) {
		return nil, models.NewNotFoundError("User not found")
	}
	return user, err
}
