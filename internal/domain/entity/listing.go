package entity

import (
	"time"
)

// DisplayOrderLast is the sort key assigned to listings that were never
// manually ordered; they sort after every explicitly ordered listing.
const DisplayOrderLast = int64(1)<<53 - 1

type Listing struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Size         string    `json:"size"`
	Price        string    `json:"price"`
	Currency     string    `json:"currency"`
	Description  string    `json:"description"`
	Images       []string  `json:"images"`
	CoverImage   string    `json:"cover_image"`
	Sold         bool      `json:"sold"`
	Reserved     bool      `json:"reserved"`
	DisplayOrder int64     `json:"display_order"`
	CreatedAt    time.Time `json:"created_at"`
}

// Status returns the availability badge for a listing. Sold wins over
// reserved; an available listing has no badge.
func (l *Listing) Status() string {
	if l == nil {
		return ""
	}
	if l.Sold {
		return "sold"
	}
	if l.Reserved {
		return "reserved"
	}
	return ""
}
