package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/anonto42/connectly/backend/internal/models"
	"github.com/labstack/echo/v4"
)

var kindStatus = map[models.ErrorKind]int{
	models.KindNotFound:     http.StatusNotFound,
	models.KindUnauthorized: http.StatusUnauthorized,
	models.KindConflict:     http.StatusBadRequest,
	models.KindValidation:   http.StatusBadRequest,
	models.KindInternal:     http.StatusInternalServerError,
}

// respondError converts a service error into an echo HTTPError rendered as
// {"message": ...}. Internal causes are logged and never sent to clients.
func respondError(c echo.Context, err error) error {
	var appErr *models.AppError
	if !errors.As(err, &appErr) {
		appErr = models.NewInternalError(err)
	}

	status, ok := kindStatus[appErr.Kind]
	if !ok {
		status = http.StatusInternalServerError
	}
	if status == http.StatusInternalServerError {
		slog.ErrorContext(c.Request().Context(), "request failed",
			"method", c.Request().Method,
			"path", c.Path(),
			"error", err,
		)
	}
	return echo.NewHTTPError(status, appErr.Message)
}

func badRequest(message string) error {
	return echo.NewHTTPError(http.StatusBadRequest, message)
}
