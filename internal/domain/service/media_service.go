package service

import (
	"context"
	"io"
)

// MediaStorageService stores listing images in an object store. Deletions
// are best effort: per-object failures are logged by the implementation and
// never abort the batch.
type MediaStorageService interface {
	UploadFile(ctx context.Context, file io.Reader, fileType, name, folder string) (string, error)
	DeleteFiles(ctx context.Context, targets []string) error
	ResolveDeletePath(value string) string
	Close() error
}
