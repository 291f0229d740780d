package repository

import (
	"context"
	"strings"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"closetshop/internal/domain/entity"
	"closetshop/internal/domain/repository"
	"closetshop/pkg/errors"
	"closetshop/pkg/logger"
)

const listingCollection = "listings"

type firestoreListingRepository struct {
	client *firestore.Client
}

func NewFirestoreListingRepository(client *firestore.Client) repository.ListingRepository {
	return &firestoreListingRepository{
		client: client,
	}
}

func (r *firestoreListingRepository) collection() *firestore.CollectionRef {
	return r.client.Collection(listingCollection)
}

func (r *firestoreListingRepository) Load(ctx context.Context) ([]*entity.Listing, error) {
	docs, err := r.collection().OrderBy("createdAt", firestore.Desc).Documents(ctx).GetAll()
	if err != nil {
		return nil, errors.Internal("Failed to load listings", err)
	}

	listings := make([]*entity.Listing, 0, len(docs))
	for _, doc := range docs {
		if listing := sanitizeListing(doc.Ref.ID, doc.Data()); listing != nil {
			listings = append(listings, listing)
		}
	}

	return listings, nil
}

func (r *firestoreListingRepository) Subscribe(ctx context.Context, onChange func([]*entity.Listing)) func() {
	ctx, cancel := context.WithCancel(ctx)
	snapshots := r.collection().OrderBy("createdAt", firestore.Desc).Snapshots(ctx)

	go func() {
		defer snapshots.Stop()
		for {
			snap, err := snapshots.Next()
			if err != nil {
				if status.Code(err) != codes.Canceled {
					logger.Error("Listing snapshot stream closed: %v", err)
				}
				return
			}

			docs, err := snap.Documents.GetAll()
			if err != nil {
				logger.Error("Failed to read listing snapshot: %v", err)
				continue
			}

			listings := make([]*entity.Listing, 0, len(docs))
			for _, doc := range docs {
				if listing := sanitizeListing(doc.Ref.ID, doc.Data()); listing != nil {
					listings = append(listings, listing)
				}
			}
			onChange(listings)
		}
	}()

	return cancel
}

func (r *firestoreListingRepository) Append(ctx context.Context, listing *entity.Listing) ([]*entity.Listing, error) {
	payload := listingWritePayload(listing)
	payload["createdAt"] = firestore.ServerTimestamp

	if _, err := r.collection().NewDoc().Set(ctx, payload); err != nil {
		return nil, errors.Internal("Failed to create listing", err)
	}

	return r.Load(ctx)
}

func (r *firestoreListingRepository) Update(ctx context.Context, id string, listing *entity.Listing) ([]*entity.Listing, error) {
	targetID := strings.TrimSpace(id)
	if targetID == "" {
		return r.Load(ctx)
	}

	// createdAt is immutable after creation and is never part of an update.
	// The deprecated field is cleared on every write (migration-on-write).
	updates := make([]firestore.Update, 0, 10)
	for field, value := range listingWritePayload(listing) {
		updates = append(updates, firestore.Update{Path: field, Value: value})
	}
	updates = append(updates, firestore.Update{Path: legacyPrimaryImageField, Value: firestore.Delete})

	if _, err := r.collection().Doc(targetID).Update(ctx, updates); err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Listing", err)
		}
		return nil, errors.Internal("Failed to update listing", err)
	}

	return r.Load(ctx)
}

func (r *firestoreListingRepository) Delete(ctx context.Context, id string) ([]*entity.Listing, error) {
	targetID := strings.TrimSpace(id)
	if targetID == "" {
		return r.Load(ctx)
	}

	if _, err := r.collection().Doc(targetID).Delete(ctx); err != nil {
		return nil, errors.Internal("Failed to delete listing", err)
	}

	return r.Load(ctx)
}

func (r *firestoreListingRepository) Reorder(ctx context.Context, orderedIDs []string) ([]*entity.Listing, error) {
	ids := make([]string, 0, len(orderedIDs))
	for _, id := range orderedIDs {
		if trimmed := strings.TrimSpace(id); trimmed != "" {
			ids = append(ids, trimmed)
		}
	}
	if len(ids) == 0 {
		return r.Load(ctx)
	}

	// The whole sequence is assigned 0..n-1 in one transaction, so any drift
	// or gaps from earlier partial writes heal on the next reorder.
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		for index, id := range ids {
			err := tx.Update(r.collection().Doc(id), []firestore.Update{
				{Path: "displayOrder", Value: index},
				{Path: legacyPrimaryImageField, Value: firestore.Delete},
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, errors.Internal("Failed to reorder listings", err)
	}

	return r.Load(ctx)
}

type bulkJob interface {
	Results() (*firestore.WriteResult, error)
}

// awaitBulkJobs collects the outcome of every staged write after the bulk
// writer has been flushed. Each failure is logged; the first one is returned.
func awaitBulkJobs(jobs []bulkJob) error {
	var first error
	for _, job := range jobs {
		if _, err := job.Results(); err != nil {
			logger.Error("Bulk listing write failed: %v", err)
			if first == nil {
				first = err
			}
		}
	}
	return first
}

func (r *firestoreListingRepository) ReplaceAll(ctx context.Context, listings []*entity.Listing) ([]*entity.Listing, error) {
	docs, err := r.collection().Documents(ctx).GetAll()
	if err != nil {
		return nil, errors.Internal("Failed to load listings for replacement", err)
	}

	writer := r.client.BulkWriter(ctx)
	jobs := make([]bulkJob, 0, len(docs)+len(listings))
	for _, doc := range docs {
		job, err := writer.Delete(doc.Ref)
		if err != nil {
			return nil, errors.Internal("Failed to stage listing removal", err)
		}
		jobs = append(jobs, job)
	}

	for _, listing := range listings {
		if listing == nil {
			continue
		}
		payload := listingWritePayload(listing)
		if listing.CreatedAt.IsZero() {
			payload["createdAt"] = firestore.ServerTimestamp
		} else {
			payload["createdAt"] = listing.CreatedAt
		}
		job, err := writer.Create(r.collection().NewDoc(), payload)
		if err != nil {
			return nil, errors.Internal("Failed to stage listing insert", err)
		}
		jobs = append(jobs, job)
	}
	writer.End()

	if err := awaitBulkJobs(jobs); err != nil {
		return nil, errors.Internal("Failed to replace listings", err)
	}

	return r.Load(ctx)
}

func (r *firestoreListingRepository) ClearAll(ctx context.Context) error {
	docs, err := r.collection().Documents(ctx).GetAll()
	if err != nil {
		return errors.Internal("Failed to load listings for reset", err)
	}

	writer := r.client.BulkWriter(ctx)
	jobs := make([]bulkJob, 0, len(docs))
	for _, doc := range docs {
		job, err := writer.Delete(doc.Ref)
		if err != nil {
			return errors.Internal("Failed to stage listing removal", err)
		}
		jobs = append(jobs, job)
	}
	writer.End()

	if err := awaitBulkJobs(jobs); err != nil {
		return errors.Internal("Failed to reset listings", err)
	}

	return nil
}
