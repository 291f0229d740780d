package repository

import (
	"context"

	"closetshop/internal/domain/entity"
)

// ListingRepository persists listings in the document store. Every mutation
// re-fetches and returns the full collection so the caller's state can be
// replaced wholesale instead of patched.
type ListingRepository interface {
	Load(ctx context.Context) ([]*entity.Listing, error)
	Subscribe(ctx context.Context, onChange func([]*entity.Listing)) func()
	Append(ctx context.Context, listing *entity.Listing) ([]*entity.Listing, error)
	Update(ctx context.Context, id string, listing *entity.Listing) ([]*entity.Listing, error)
	Delete(ctx context.Context, id string) ([]*entity.Listing, error)
	Reorder(ctx context.Context, orderedIDs []string) ([]*entity.Listing, error)
	ReplaceAll(ctx context.Context, listings []*entity.Listing) ([]*entity.Listing, error)
	ClearAll(ctx context.Context) error
}
