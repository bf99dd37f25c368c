package storage

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/disintegration/imaging"
)

// MaxUploadBytes is the default upload ceiling (5 MB).
const MaxUploadBytes int64 = 5 << 20

const (
	AvatarSize    = 400
	avatarQuality = 85
)

var (
	ErrFileTooLarge = errors.New("file too large")
	ErrNotAnImage   = errors.New("only image files are allowed")
)

// Upload is a validated image read fully into memory.
type Upload struct {
	Data         []byte
	ContentType  string
	OriginalName string
}

// FileType is the subtype of the upload's MIME type, e.g. "png".
func (u *Upload) FileType() string {
	if i := strings.Index(u.ContentType, "/"); i >= 0 {
		return u.ContentType[i+1:]
	}
	return u.ContentType
}

// ReadImage loads a multipart upload, enforcing maxBytes and an image type.
// The content type is always sniffed from the bytes and the data must decode
// as an image; the client's declared type and file name are not trusted.
func ReadImage(header *multipart.FileHeader, maxBytes int64) (*Upload, error) {
	if header.Size > maxBytes {
		return nil, ErrFileTooLarge
	}

	file, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open upload: %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	if int64(len(data)) > maxBytes {
		return nil, ErrFileTooLarge
	}

	contentType := http.DetectContentType(data[:min(len(data), 512)])
	if idx := strings.Index(contentType, ";"); idx != -1 {
		contentType = strings.TrimSpace(contentType[:idx])
	}
	if !strings.HasPrefix(contentType, "image/") {
		return nil, ErrNotAnImage
	}
	if _, err := imaging.Decode(bytes.NewReader(data)); err != nil {
		return nil, ErrNotAnImage
	}

	return &Upload{Data: data, ContentType: contentType, OriginalName: header.Filename}, nil
}

// NormalizeAvatar center-crops an image to a square and re-encodes it as JPEG.
func NormalizeAvatar(data []byte) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	resized := imaging.Fill(img, AvatarSize, AvatarSize, imaging.Center, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, resized, imaging.JPEG, imaging.JPEGQuality(avatarQuality)); err != nil {
		return nil, fmt.Errorf("failed to encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}
