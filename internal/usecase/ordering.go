package usecase

import (
	"sort"

	"closetshop/internal/domain/entity"
)

// SortedView returns the display order of a listing set: displayOrder
// ascending with unordered listings last, ties broken by newest first. The
// input is never mutated; manual reordering always starts from this view.
func SortedView(listings []*entity.Listing) []*entity.Listing {
	ordered := make([]*entity.Listing, len(listings))
	copy(ordered, listings)

	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].DisplayOrder != ordered[j].DisplayOrder {
			return ordered[i].DisplayOrder < ordered[j].DisplayOrder
		}
		return ordered[i].CreatedAt.After(ordered[j].CreatedAt)
	})

	return ordered
}

// MoveByOffset relocates one listing by direction positions within the
// current sorted view and returns the resulting full id sequence, ready to
// be persisted as a total displayOrder reassignment. Returns nil when the
// move is a no-op (unknown id, zero direction, or out of bounds).
func MoveByOffset(listings []*entity.Listing, listingID string, direction int) []string {
	if listingID == "" || direction == 0 {
		return nil
	}

	ordered := SortedView(listings)
	currentIndex := -1
	for i, listing := range ordered {
		if listing.ID == listingID {
			currentIndex = i
			break
		}
	}
	if currentIndex < 0 {
		return nil
	}

	targetIndex := currentIndex + direction
	if targetIndex < 0 || targetIndex >= len(ordered) {
		return nil
	}

	moved := ordered[currentIndex]
	reordered := make([]*entity.Listing, 0, len(ordered))
	reordered = append(reordered, ordered[:currentIndex]...)
	reordered = append(reordered, ordered[currentIndex+1:]...)
	reordered = append(reordered[:targetIndex], append([]*entity.Listing{moved}, reordered[targetIndex:]...)...)

	ids := make([]string, len(reordered))
	for i, listing := range reordered {
		ids[i] = listing.ID
	}
	return ids
}
