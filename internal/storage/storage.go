// Package storage keeps recipe images and avatars outside the database.
// Records only hold the public URL returned by Save.
package storage

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

const MaxImageSize = 10 * 1024 * 1024 // 10 MB

var (
	ErrInvalidImage  = errors.New("image must be a base64 data URI")
	ErrImageTooLarge = errors.New("image exceeds maximum allowed size")
	ErrImageType     = errors.New("image type is not allowed")
	ErrEmptyImage    = errors.New("image is empty")
)

// AllowedImageTypes maps accepted MIME types to file extensions.
var AllowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

type Store interface {
	// Save writes data under key and returns the public URL.
	Save(ctx context.Context, key, contentType string, data []byte) (string, error)
	// Delete removes the object behind a URL previously returned by Save.
	// Unknown URLs are ignored.
	Delete(ctx context.Context, url string) error
}

// Image is a decoded upload.
type Image struct {
	ContentType string
	Data        []byte
}

// DecodeDataURI parses "data:image/png;base64,...." and checks the payload
// against AllowedImageTypes by sniffing its first bytes.
func DecodeDataURI(s string) (*Image, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "data:") {
		return nil, ErrInvalidImage
	}
	header, payload, ok := strings.Cut(s[len("data:"):], ",")
	if !ok || !strings.HasSuffix(header, ";base64") {
		return nil, ErrInvalidImage
	}
	if payload == "" {
		return nil, ErrEmptyImage
	}
	if base64.StdEncoding.DecodedLen(len(payload)) > MaxImageSize+3 {
		return nil, ErrImageTooLarge
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	if len(data) == 0 {
		return nil, ErrEmptyImage
	}
	if len(data) > MaxImageSize {
		return nil, ErrImageTooLarge
	}

	declared := strings.TrimSuffix(header, ";base64")
	sniffed := strings.Split(http.DetectContentType(data), ";")[0]
	if _, ok := AllowedImageTypes[sniffed]; !ok {
		return nil, ErrImageType
	}
	if declared != "" && declared != sniffed {
		return nil, ErrImageType
	}
	return &Image{ContentType: sniffed, Data: data}, nil
}

// NewKey builds an object key like "recipes/2026/10/15/<uuid>.png".
func NewKey(prefix, contentType string) string {
	now := time.Now().UTC()
	ext, ok := AllowedImageTypes[contentType]
	if !ok {
		ext = ".bin"
	}
	return path.Join(
		prefix,
		fmt.Sprintf("%d/%02d/%02d", now.Year(), now.Month(), now.Day()),
		uuid.New().String()+ext,
	)
}

// SaveDataURI decodes a data URI and stores it under a fresh key.
func SaveDataURI(ctx context.Context, store Store, prefix, dataURI string) (string, error) {
	img, err := DecodeDataURI(dataURI)
	if err != nil {
		return "", err
	}
	return store.Save(ctx, NewKey(prefix, img.ContentType), img.ContentType, img.Data)
}
