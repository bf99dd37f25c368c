package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/anonto42/connectly/backend/internal/storage"
	"github.com/labstack/echo/v4"
)

// MediaHandler serves stored uploads by name from whichever blob backend is configured
type MediaHandler struct {
	blobs storage.BlobStore
}

func NewMediaHandler(blobs storage.BlobStore) *MediaHandler {
	return &MediaHandler{blobs: blobs}
}

// RegisterMediaRoutes serves media under /media and, for older clients that
// link bare filenames, at the root.
func (h *MediaHandler) RegisterMediaRoutes(e *echo.Echo) {
	e.GET("/media/:filename", h.ServeMedia)
	e.GET("/:filename", h.ServeMedia)
}

func (h *MediaHandler) ServeMedia(c echo.Context) error {
	blob, err := h.blobs.Get(c.Request().Context(), c.Param("filename"))
	if err != nil {
		if errors.Is(err, storage.ErrBlobNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "File not found")
		}
		return respondError(c, err)
	}
	defer blob.Body.Close()

	header := c.Response().Header()
	header.Set("X-Content-Type-Options", "nosniff")
	contentType := blob.ContentType
	if !strings.HasPrefix(contentType, "image/") {
		// Anything that is not an image is offered as a download, never rendered.
		contentType = echo.MIMEOctetStream
		header.Set(echo.HeaderContentDisposition, "attachment")
	}
	if blob.Size > 0 {
		header.Set(echo.HeaderContentLength, strconv.FormatInt(blob.Size, 10))
	}
	header.Set("Cache-Control", "public, max-age=86400")
	return c.Stream(http.StatusOK, contentType, blob.Body)
}
