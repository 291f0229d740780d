package storage

import (
	"context"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
	"google.golang.org/api/option"

	"closetshop/pkg/logger"
)

const publicURLPrefix = "https://storage.googleapis.com/"

var unsafeNameChars = regexp.MustCompile(`[^a-z0-9.\-]+`)

type CloudStorageClient struct {
	client     *storage.Client
	bucketName string
}

func NewCloudStorageClient(ctx context.Context, bucketName, credentialsPath string) (*CloudStorageClient, error) {
	var opts []option.ClientOption
	if credentialsPath != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsPath))
	}

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %v", err)
	}

	return &CloudStorageClient{
		client:     client,
		bucketName: bucketName,
	}, nil
}

func sanitizeFileName(name string) string {
	cleaned := unsafeNameChars.ReplaceAllString(strings.ToLower(name), "-")
	cleaned = strings.Trim(cleaned, "-")
	if len(cleaned) > 64 {
		cleaned = cleaned[:64]
	}
	if cleaned == "" {
		return "image"
	}
	return cleaned
}

func extensionFor(fileType string) string {
	switch fileType {
	case "image/jpeg", "image/jpg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	default:
		return ".bin"
	}
}

// UploadFile stores one image and returns its public URL.
func (c *CloudStorageClient) UploadFile(ctx context.Context, file io.Reader, fileType, name, folder string) (string, error) {
	objectName := fmt.Sprintf("%s/%s/%s-%s%s",
		folder,
		time.Now().Format("2006-01-02"),
		uuid.New().String(),
		sanitizeFileName(name),
		extensionFor(fileType),
	)

	obj := c.client.Bucket(c.bucketName).Object(objectName)
	wc := obj.NewWriter(ctx)
	wc.ContentType = fileType
	wc.CacheControl = "public, max-age=3600"

	if _, err := io.Copy(wc, file); err != nil {
		wc.Close()
		return "", fmt.Errorf("failed to copy file to bucket: %v", err)
	}
	if err := wc.Close(); err != nil {
		return "", fmt.Errorf("failed to close writer: %v", err)
	}

	if err := obj.ACL().Set(ctx, storage.AllUsers, storage.RoleReader); err != nil {
		return "", fmt.Errorf("failed to set ACL: %v", err)
	}

	return publicURLPrefix + c.bucketName + "/" + objectName, nil
}

// ResolveDeletePath extracts the bucket-relative object path from a public
// URL. Bare paths pass through untouched; URLs on a foreign host or bucket
// resolve to the empty string.
func (c *CloudStorageClient) ResolveDeletePath(value string) string {
	input := strings.TrimSpace(value)
	if input == "" {
		return ""
	}
	if !strings.Contains(input, "://") {
		return input
	}
	if !strings.HasPrefix(input, publicURLPrefix) {
		return ""
	}

	path := input[len(publicURLPrefix):]
	parts := strings.SplitN(path, "/", 2)
	if len(parts) != 2 || parts[0] != c.bucketName {
		return ""
	}

	return strings.TrimPrefix(parts[1], "public/")
}

// DeleteFiles removes the given objects, best effort: unresolvable targets
// are skipped and per-object failures are logged without aborting the rest.
func (c *CloudStorageClient) DeleteFiles(ctx context.Context, targets []string) error {
	for _, target := range targets {
		objectName := c.ResolveDeletePath(target)
		if objectName == "" {
			logger.Warn("Skipping unresolvable storage target %q", target)
			continue
		}
		if err := c.client.Bucket(c.bucketName).Object(objectName).Delete(ctx); err != nil {
			logger.Error("Unable to delete storage object %q: %v", objectName, err)
		}
	}
	return nil
}

func (c *CloudStorageClient) Close() error {
	return c.client.Close()
}
