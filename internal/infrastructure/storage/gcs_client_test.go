package storage

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveDeletePath(t *testing.T) {
	c := &CloudStorageClient{bucketName: "closetshop-media"}

	tests := []struct {
		name  string
		value string
		want  string
	}{
		{"bare path passes through", "listings/2025-03-10/abc.jpg", "listings/2025-03-10/abc.jpg"},
		{"own bucket url", "https://storage.googleapis.com/closetshop-media/listings/abc.jpg", "listings/abc.jpg"},
		{"public prefix stripped", "https://storage.googleapis.com/closetshop-media/public/listings/abc.jpg", "listings/abc.jpg"},
		{"foreign bucket", "https://storage.googleapis.com/other-bucket/listings/abc.jpg", ""},
		{"foreign host", "https://cdn.example.com/listings/abc.jpg", ""},
		{"bucket with no object", "https://storage.googleapis.com/closetshop-media", ""},
		{"empty", "   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.ResolveDeletePath(tt.value))
		})
	}
}

func TestSanitizeFileName(t *testing.T) {
	assert.Equal(t, "summer-dress.jpg", sanitizeFileName("Summer Dress.JPG"))
	assert.Equal(t, "image", sanitizeFileName("???"))
	assert.Equal(t, "a.b-c", sanitizeFileName("--a.b-c--"))

	assert.Len(t, sanitizeFileName(strings.Repeat("a", 80)), 64)
}

func TestExtensionFor(t *testing.T) {
	assert.Equal(t, ".jpg", extensionFor("image/jpeg"))
	assert.Equal(t, ".png", extensionFor("image/png"))
	assert.Equal(t, ".webp", extensionFor("image/webp"))
	assert.Equal(t, ".bin", extensionFor("application/octet-stream"))
}
