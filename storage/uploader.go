package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"
)

type UploadResult struct {
	Key      string
	Location string
	ETag     string
}

// FileUploader abstracts the object store holding screenshot images.
// Matches persist only keys; bytes are fetched back on demand when a
// lobby is analyzed.
type FileUploader interface {
	Upload(ctx context.Context, key string, contentType string, reader io.Reader) (*UploadResult, error)

	Download(ctx context.Context, key string) ([]byte, string, error)

	Delete(ctx context.Context, key string) error

	GetPublicURL(key string) string
}

// ScreenshotKey builds the object key for a lobby screenshot.
func ScreenshotKey(tournamentID, matchID, ext string) string {
	return fmt.Sprintf("screenshots/%s/%s/%s%s", tournamentID, matchID, uuid.NewString(), ext)
}

// ExtensionForContentType maps an image content type to a file
// extension for object keys.
func ExtensionForContentType(contentType string) (string, error) {
	switch contentType {
	case "image/jpeg", "image/jpg":
		return ".jpg", nil
	case "image/png":
		return ".png", nil
	case "image/webp":
		return ".webp", nil
	default:
		return "", fmt.Errorf("unsupported screenshot content type: %q", contentType)
	}
}
