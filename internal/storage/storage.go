// Package storage implements the blob store that holds application
// attachments (photos, certification documents, signatures).
package storage

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
)

// BlobStore uploads and deletes binary attachments and hands out stable URLs.
type BlobStore interface {
	// Upload stores the content and returns the URL of the new object.
	Upload(ctx context.Context, content io.Reader, originalName, contentType string) (string, error)
	// Delete removes the object behind the URL. Callers decide whether a
	// failure is fatal.
	Delete(ctx context.Context, url string) error
}

const objectPrefix = "applications"

// objectKey derives a collision-resistant key for an uploaded file. Multiple
// applicants may upload identically-named files concurrently, so the key
// carries a timestamp and random component in front of the original name.
func objectKey(originalName string) string {
	return fmt.Sprintf("%s/%d-%s-%s",
		objectPrefix,
		time.Now().UnixNano(),
		uuid.NewString()[:8],
		sanitizeName(originalName),
	)
}

func sanitizeName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "file"
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, name)
}
