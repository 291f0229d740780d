package entity

import (
	"regexp"
	"strings"
	"time"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

var nonDigits = regexp.MustCompile(`\D`)

// ValidEmail checks the basic shape of an email address.
func ValidEmail(value string) bool {
	return emailPattern.MatchString(value)
}

// NormalizePhone strips every non-digit character and returns the result
// only when exactly ten digits remain; anything else is invalid.
func NormalizePhone(value string) string {
	digits := nonDigits.ReplaceAllString(strings.TrimSpace(value), "")
	if len(digits) != 10 {
		return ""
	}
	return digits
}

// Inquiry is a buyer contact submission. The Listing* fields are a snapshot
// of the referenced listing taken at submission time; they survive later
// edits or deletion of the listing.
type Inquiry struct {
	ID                  string    `json:"id"`
	Name                string    `json:"name"`
	Email               string    `json:"email"`
	Phone               string    `json:"phone"`
	Message             string    `json:"message,omitempty"`
	ListingID           string    `json:"listing_id"`
	ListingTitle        string    `json:"listing_title"`
	ListingPrice        string    `json:"listing_price"`
	ListingCurrency     string    `json:"listing_currency"`
	ListingPriceDisplay string    `json:"listing_price_display"`
	CreatedAt           time.Time `json:"created_at"`
}

// DecoratedInquiry overlays live listing data onto a stored inquiry.
// When the listing has since been deleted the snapshot fields stand alone
// and Listing is nil.
type DecoratedInquiry struct {
	Inquiry
	ListingSize   string   `json:"listing_size"`
	ListingStatus string   `json:"listing_status"`
	ListingImage  string   `json:"listing_image"`
	Listing       *Listing `json:"listing,omitempty"`
}
