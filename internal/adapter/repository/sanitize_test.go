package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"closetshop/internal/domain/entity"
)

func TestSanitizeListingAppliesDefaults(t *testing.T) {
	listing := sanitizeListing("doc-1", map[string]interface{}{})

	require.NotNil(t, listing)
	assert.Equal(t, "doc-1", listing.ID)
	assert.Equal(t, "untitled", listing.Title)
	assert.Equal(t, "USD", listing.Currency)
	assert.Equal(t, entity.DisplayOrderLast, listing.DisplayOrder)
	assert.False(t, listing.CreatedAt.IsZero())
	assert.Empty(t, listing.Images)
	assert.Empty(t, listing.CoverImage)
}

func TestSanitizeListingDropsLegacyPrimaryImageField(t *testing.T) {
	data := map[string]interface{}{
		"title":             "Coat",
		"primaryImageIndex": int64(2),
	}

	listing := sanitizeListing("doc-1", data)

	require.NotNil(t, listing)
	_, present := data["primaryImageIndex"]
	assert.False(t, present)
}

func TestSanitizeListingSoldSupersedesReserved(t *testing.T) {
	listing := sanitizeListing("doc-1", map[string]interface{}{
		"sold":     true,
		"reserved": true,
	})

	require.NotNil(t, listing)
	assert.True(t, listing.Sold)
	assert.False(t, listing.Reserved)
	assert.Equal(t, "sold", listing.Status())
}

func TestSanitizeListingGarbageDisplayOrderSortsLast(t *testing.T) {
	for _, value := range []interface{}{"not-a-number", nil, []interface{}{1}} {
		listing := sanitizeListing("doc-1", map[string]interface{}{"displayOrder": value})
		require.NotNil(t, listing)
		assert.Equal(t, entity.DisplayOrderLast, listing.DisplayOrder)
	}

	listing := sanitizeListing("doc-1", map[string]interface{}{"displayOrder": float64(3)})
	assert.Equal(t, int64(3), listing.DisplayOrder)
}

func TestSanitizeListingNormalizesImageShapes(t *testing.T) {
	listing := sanitizeListing("doc-1", map[string]interface{}{
		"images": []interface{}{
			"  https://img/a.jpg  ",
			map[string]interface{}{"url": "https://img/b.jpg", "path": "listings/b.jpg"},
			map[string]interface{}{"path": "listings/c.jpg"},
			"",
			42,
		},
	})

	require.NotNil(t, listing)
	assert.Equal(t, []string{"https://img/a.jpg", "https://img/b.jpg", "listings/c.jpg"}, listing.Images)
	assert.Equal(t, "https://img/a.jpg", listing.CoverImage)
}

func TestSanitizeListingFallsBackToLegacySingleImage(t *testing.T) {
	listing := sanitizeListing("doc-1", map[string]interface{}{
		"image": "https://img/legacy.jpg",
	})

	require.NotNil(t, listing)
	assert.Equal(t, []string{"https://img/legacy.jpg"}, listing.Images)
	assert.Equal(t, "https://img/legacy.jpg", listing.CoverImage)
}

func TestSanitizeListingCoercesNumericPrice(t *testing.T) {
	listing := sanitizeListing("doc-1", map[string]interface{}{
		"price": float64(25),
	})

	require.NotNil(t, listing)
	assert.Equal(t, "25", listing.Price)
}

func TestSanitizeListingParsesStoredTimestamp(t *testing.T) {
	created := time.Date(2025, 3, 10, 8, 30, 0, 0, time.UTC)

	listing := sanitizeListing("doc-1", map[string]interface{}{"createdAt": created})
	require.NotNil(t, listing)
	assert.True(t, listing.CreatedAt.Equal(created))

	listing = sanitizeListing("doc-1", map[string]interface{}{"createdAt": "2025-03-10T08:30:00Z"})
	require.NotNil(t, listing)
	assert.True(t, listing.CreatedAt.Equal(created))
}

func TestSanitizeInquiryDropsInvalidRecords(t *testing.T) {
	cases := []struct {
		name string
		data map[string]interface{}
	}{
		{"missing name", map[string]interface{}{"email": "a@b.co", "phone": "5551234567"}},
		{"bad email", map[string]interface{}{"name": "A", "email": "nope", "phone": "5551234567"}},
		{"short phone", map[string]interface{}{"name": "A", "email": "a@b.co", "phone": "12345"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Nil(t, sanitizeInquiry("doc-1", tc.data))
		})
	}
}

func TestSanitizeInquiryNormalizesFields(t *testing.T) {
	inquiry := sanitizeInquiry("doc-1", map[string]interface{}{
		"name":            "  Jordan Reyes  ",
		"email":           "Jordan@Example.COM",
		"phone":           "(555) 123-4567",
		"message":         " hello ",
		"listingId":       "listing-9",
		"listingCurrency": "usd",
	})

	require.NotNil(t, inquiry)
	assert.Equal(t, "Jordan Reyes", inquiry.Name)
	assert.Equal(t, "jordan@example.com", inquiry.Email)
	assert.Equal(t, "5551234567", inquiry.Phone)
	assert.Equal(t, "hello", inquiry.Message)
	assert.Equal(t, "listing-9", inquiry.ListingID)
	assert.Equal(t, "USD", inquiry.ListingCurrency)
}

func TestListingWritePayloadMirrorsReadDefaults(t *testing.T) {
	payload := listingWritePayload(&entity.Listing{
		Title:        "  ",
		Currency:     "cad",
		Images:       []string{" https://img/a.jpg ", ""},
		Sold:         true,
		Reserved:     true,
		DisplayOrder: 4,
	})

	assert.Equal(t, "untitled", payload["title"])
	assert.Equal(t, "CAD", payload["currency"])
	assert.Equal(t, []string{"https://img/a.jpg"}, payload["images"])
	assert.Equal(t, true, payload["sold"])
	// sold listings are never stored as reserved
	assert.Equal(t, false, payload["reserved"])
	assert.Equal(t, int64(4), payload["displayOrder"])
}
