// Package storage holds the blob stores uploaded media is written to.
package storage

import (
	"context"
	"errors"
	"io"
	"mime"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

var ErrBlobNotFound = errors.New("blob not found")

// BlobStore persists uploaded files under a generated name.
type BlobStore interface {
	Put(ctx context.Context, name, contentType string, data []byte) error
	Get(ctx context.Context, name string) (*Blob, error)
	// Backend names the implementation for logs and metrics.
	Backend() string
}

// Blob is an opened stored file. Callers must close Body.
type Blob struct {
	Body        io.ReadCloser
	ContentType string
	Size        int64
}

// preferredExt pins the extension for common image types; mime's own table
// lists several per type in no useful order.
var preferredExt = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
	"image/bmp":  ".bmp",
}

// NewObjectName returns a collision-free name whose extension follows
// contentType. Unknown types get no extension.
func NewObjectName(contentType string) string {
	if ext, ok := preferredExt[contentType]; ok {
		return uuid.NewString() + ext
	}
	if exts, err := mime.ExtensionsByType(contentType); err == nil && len(exts) > 0 {
		return uuid.NewString() + exts[0]
	}
	return uuid.NewString()
}

// validName rejects names that could escape a store's namespace.
func validName(name string) bool {
	return name != "" && name == filepath.Base(name) && !strings.HasPrefix(name, ".")
}
