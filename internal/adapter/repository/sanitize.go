package repository

import (
	"math"
	"strconv"
	"strings"
	"time"

	"closetshop/internal/domain/entity"
)

// Records come back from the document store as untyped maps that may carry
// legacy shapes: a deprecated primaryImageIndex field, a single "image"
// string instead of the images array, image entries stored as {url, path}
// objects, prices written as numbers. Everything read from the store passes
// through this boundary before it becomes a typed entity.

const legacyPrimaryImageField = "primaryImageIndex"

func coerceString(value interface{}) string {
	switch v := value.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int64:
		return strconv.FormatInt(v, 10)
	case int:
		return strconv.Itoa(v)
	case bool:
		return strconv.FormatBool(v)
	default:
		return ""
	}
}

func coerceBool(value interface{}) bool {
	b, ok := value.(bool)
	return ok && b
}

func coerceOrder(value interface{}) int64 {
	switch v := value.(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return entity.DisplayOrderLast
		}
		return int64(v)
	case string:
		if n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64); err == nil {
			return n
		}
		return entity.DisplayOrderLast
	default:
		return entity.DisplayOrderLast
	}
}

func coerceTime(value interface{}) (time.Time, bool) {
	switch v := value.(type) {
	case time.Time:
		return v, true
	case string:
		if t, err := time.Parse(time.RFC3339, strings.TrimSpace(v)); err == nil {
			return t, true
		}
		return time.Time{}, false
	default:
		return time.Time{}, false
	}
}

func imageURL(entry interface{}) string {
	switch v := entry.(type) {
	case string:
		return strings.TrimSpace(v)
	case map[string]interface{}:
		if url := strings.TrimSpace(coerceString(v["url"])); url != "" {
			return url
		}
		return strings.TrimSpace(coerceString(v["path"]))
	default:
		return ""
	}
}

func sanitizeImages(value interface{}, fallbackURL string) []string {
	cleaned := []string{}
	if list, ok := value.([]interface{}); ok {
		for _, entry := range list {
			if url := imageURL(entry); url != "" {
				cleaned = append(cleaned, url)
			}
		}
	}

	if len(cleaned) == 0 {
		if url := strings.TrimSpace(fallbackURL); url != "" {
			cleaned = append(cleaned, url)
		}
	}

	return cleaned
}

func sanitizeListing(id string, data map[string]interface{}) *entity.Listing {
	if data == nil {
		return nil
	}
	delete(data, legacyPrimaryImageField)

	listing := &entity.Listing{
		ID:          strings.TrimSpace(id),
		Title:       strings.TrimSpace(coerceString(data["title"])),
		Size:        strings.TrimSpace(coerceString(data["size"])),
		Price:       strings.TrimSpace(coerceString(data["price"])),
		Currency:    strings.ToUpper(strings.TrimSpace(coerceString(data["currency"]))),
		Description: strings.TrimSpace(coerceString(data["description"])),
		Sold:        coerceBool(data["sold"]),
	}
	if listing.ID == "" {
		listing.ID = "unknown"
	}
	if listing.Title == "" {
		listing.Title = "untitled"
	}
	if listing.Currency == "" {
		listing.Currency = "USD"
	}

	// Sold supersedes reserved.
	listing.Reserved = coerceBool(data["reserved"]) && !listing.Sold

	listing.DisplayOrder = coerceOrder(data["displayOrder"])

	if created, ok := coerceTime(data["createdAt"]); ok {
		listing.CreatedAt = created
	} else {
		listing.CreatedAt = time.Now()
	}

	fallbackURL, _ := data["image"].(string)
	listing.Images = sanitizeImages(data["images"], fallbackURL)
	if len(listing.Images) > 0 {
		listing.CoverImage = listing.Images[0]
	}

	return listing
}

// sanitizeInquiry returns nil for records that fail validation; callers drop
// them from the materialized collection instead of failing the load.
func sanitizeInquiry(id string, data map[string]interface{}) *entity.Inquiry {
	if data == nil {
		return nil
	}

	name := strings.TrimSpace(coerceString(data["name"]))
	email := strings.ToLower(strings.TrimSpace(coerceString(data["email"])))
	phone := entity.NormalizePhone(coerceString(data["phone"]))
	if name == "" || email == "" || phone == "" {
		return nil
	}
	if !entity.ValidEmail(email) {
		return nil
	}

	inquiry := &entity.Inquiry{
		ID:                  strings.TrimSpace(id),
		Name:                name,
		Email:               email,
		Phone:               phone,
		Message:             strings.TrimSpace(coerceString(data["message"])),
		ListingID:           strings.TrimSpace(coerceString(data["listingId"])),
		ListingTitle:        strings.TrimSpace(coerceString(data["listingTitle"])),
		ListingPrice:        strings.TrimSpace(coerceString(data["listingPrice"])),
		ListingCurrency:     strings.ToUpper(strings.TrimSpace(coerceString(data["listingCurrency"]))),
		ListingPriceDisplay: strings.TrimSpace(coerceString(data["listingPriceDisplay"])),
	}

	if created, ok := coerceTime(data["createdAt"]); ok {
		inquiry.CreatedAt = created
	}

	return inquiry
}

// listingWritePayload builds the stored document for a listing. The same
// defaults applied on read are applied here so a round-trip never changes a
// record.
func listingWritePayload(listing *entity.Listing) map[string]interface{} {
	title := strings.TrimSpace(listing.Title)
	if title == "" {
		title = "untitled"
	}
	currency := strings.ToUpper(strings.TrimSpace(listing.Currency))
	if currency == "" {
		currency = "USD"
	}

	images := []string{}
	for _, url := range listing.Images {
		if trimmed := strings.TrimSpace(url); trimmed != "" {
			images = append(images, trimmed)
		}
	}

	return map[string]interface{}{
		"title":        title,
		"size":         strings.TrimSpace(listing.Size),
		"price":        strings.TrimSpace(listing.Price),
		"currency":     currency,
		"description":  strings.TrimSpace(listing.Description),
		"images":       images,
		"sold":         listing.Sold,
		"reserved":     listing.Reserved && !listing.Sold,
		"displayOrder": listing.DisplayOrder,
	}
}
