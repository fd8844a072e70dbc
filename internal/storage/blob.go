package storage

import (
	"context"
	"fmt"
	"io"
	"mime"
	"path"

	"github.com/google/uuid"

	"github.com/PUZZ-INC/puzzle/internal/config"
)

// BlobStore persists uploaded files and returns publicly resolvable URLs.
type BlobStore interface {
	Save(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error)
}

// NewBlobStore selects the configured implementation.
func NewBlobStore(cfg config.UploadConfig) (BlobStore, error) {
	switch cfg.Driver {
	case "s3":
		return NewS3Store(cfg)
	case "local", "":
		return NewLocalStore(cfg.MediaDir, cfg.MediaURL), nil
	default:
		return nil, fmt.Errorf("unknown upload driver %q", cfg.Driver)
	}
}

// NewObjectKey builds a collision-free key under prefix, keeping the original
// extension when present and otherwise deriving one from the content type.
func NewObjectKey(prefix, filename, contentType string) string {
	ext := path.Ext(filename)
	if ext == "" {
		if exts, err := mime.ExtensionsByType(contentType); err == nil && len(exts) > 0 {
			ext = exts[0]
		}
	}
	return prefix + "/" + uuid.NewString() + ext
}
