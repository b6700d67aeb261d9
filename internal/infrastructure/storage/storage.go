// Package storage puts listing images into an object store and hands back public URLs.
package storage

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Storage is the object store used for listing images.
type Storage interface {
	// Upload stores data under a fresh key derived from name and returns its public URL.
	Upload(ctx context.Context, name, contentType string, data []byte) (string, error)
	// SignUpload returns a short-lived URL the browser can PUT a file to directly.
	SignUpload(ctx context.Context, name string) (*SignedUpload, error)
}

// SignedUpload is returned to clients doing browser-direct uploads.
type SignedUpload struct {
	UploadURL string `json:"uploadUrl"`
	PublicURL string `json:"publicUrl"`
	Path      string `json:"path"`
}

const signedUploadTTL = time.Hour

// ObjectKey builds a unique key under listings/, keeping the file extension.
func ObjectKey(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	return fmt.Sprintf("listings/%d-%s%s", time.Now().UnixMilli(), uuid.New().String(), ext)
}
