package usecase

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"closetshop/internal/domain/entity"
)

func listingAt(id string, order int64, created time.Time) *entity.Listing {
	return &entity.Listing{ID: id, Title: id, DisplayOrder: order, CreatedAt: created}
}

func sortedIDs(listings []*entity.Listing) []string {
	ids := make([]string, len(listings))
	for i, l := range listings {
		ids[i] = l.ID
	}
	return ids
}

func TestSortedViewOrdersByDisplayOrderThenRecency(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	listings := []*entity.Listing{
		listingAt("c", 2, base),
		listingAt("a", 0, base),
		listingAt("b", 1, base),
	}

	view := SortedView(listings)

	assert.Equal(t, []string{"a", "b", "c"}, sortedIDs(view))
	// input untouched
	assert.Equal(t, "c", listings[0].ID)
}

func TestSortedViewTieBreaksNewestFirst(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	listings := []*entity.Listing{
		listingAt("older", 3, base),
		listingAt("newer", 3, base.Add(time.Hour)),
	}

	view := SortedView(listings)

	assert.Equal(t, []string{"newer", "older"}, sortedIDs(view))
}

func TestSortedViewUnorderedListingsSortLast(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	listings := []*entity.Listing{
		listingAt("unordered", entity.DisplayOrderLast, base.Add(time.Hour)),
		listingAt("ordered", 5, base),
	}

	view := SortedView(listings)

	assert.Equal(t, []string{"ordered", "unordered"}, sortedIDs(view))
}

func TestMoveByOffsetSwapsAdjacent(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	listings := []*entity.Listing{
		listingAt("a", 0, base),
		listingAt("b", 1, base),
		listingAt("c", 2, base),
	}

	assert.Equal(t, []string{"b", "a", "c"}, MoveByOffset(listings, "a", 1))
	assert.Equal(t, []string{"a", "c", "b"}, MoveByOffset(listings, "c", -1))
}

func TestMoveByOffsetOutOfBoundsIsNoOp(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	listings := []*entity.Listing{
		listingAt("a", 0, base),
		listingAt("b", 1, base),
	}

	assert.Nil(t, MoveByOffset(listings, "a", -1))
	assert.Nil(t, MoveByOffset(listings, "b", 1))
	assert.Nil(t, MoveByOffset(listings, "missing", 1))
	assert.Nil(t, MoveByOffset(listings, "a", 0))
}

func TestMoveByOffsetRoundTripRestoresOrder(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	listings := []*entity.Listing{
		listingAt("a", 0, base),
		listingAt("b", 1, base),
		listingAt("c", 2, base),
	}
	original := sortedIDs(SortedView(listings))

	down := MoveByOffset(listings, "b", 1)
	require.NotNil(t, down)

	// Apply the persisted contract: displayOrder = index over the full list.
	byID := map[string]*entity.Listing{}
	for _, l := range listings {
		byID[l.ID] = l
	}
	for i, id := range down {
		byID[id].DisplayOrder = int64(i)
	}

	up := MoveByOffset(listings, "b", -1)
	require.NotNil(t, up)
	assert.Equal(t, original, up)
}
