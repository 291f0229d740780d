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

const inquiryCollection = "inquiry_forms"

type firestoreInquiryRepository struct {
	client *firestore.Client
}

func NewFirestoreInquiryRepository(client *firestore.Client) repository.InquiryRepository {
	return &firestoreInquiryRepository{
		client: client,
	}
}

func (r *firestoreInquiryRepository) collection() *firestore.CollectionRef {
	return r.client.Collection(inquiryCollection)
}

func (r *firestoreInquiryRepository) Load(ctx context.Context) ([]*entity.Inquiry, error) {
	docs, err := r.collection().OrderBy("createdAt", firestore.Desc).Documents(ctx).GetAll()
	if err != nil {
		return nil, errors.Internal("Failed to load inquiries", err)
	}

	inquiries := make([]*entity.Inquiry, 0, len(docs))
	for _, doc := range docs {
		if inquiry := sanitizeInquiry(doc.Ref.ID, doc.Data()); inquiry != nil {
			inquiries = append(inquiries, inquiry)
		}
	}

	return inquiries, nil
}

func (r *firestoreInquiryRepository) Subscribe(ctx context.Context, onChange func([]*entity.Inquiry)) func() {
	ctx, cancel := context.WithCancel(ctx)
	snapshots := r.collection().OrderBy("createdAt", firestore.Desc).Snapshots(ctx)

	go func() {
		defer snapshots.Stop()
		for {
			snap, err := snapshots.Next()
			if err != nil {
				if status.Code(err) != codes.Canceled {
					logger.Error("Inquiry snapshot stream closed: %v", err)
				}
				return
			}

			docs, err := snap.Documents.GetAll()
			if err != nil {
				logger.Error("Failed to read inquiry snapshot: %v", err)
				continue
			}

			inquiries := make([]*entity.Inquiry, 0, len(docs))
			for _, doc := range docs {
				if inquiry := sanitizeInquiry(doc.Ref.ID, doc.Data()); inquiry != nil {
					inquiries = append(inquiries, inquiry)
				}
			}
			onChange(inquiries)
		}
	}()

	return cancel
}

// Submit validates before it writes; invalid input never reaches the store.
func (r *firestoreInquiryRepository) Submit(ctx context.Context, inquiry *entity.Inquiry) error {
	name := strings.TrimSpace(inquiry.Name)
	email := strings.ToLower(strings.TrimSpace(inquiry.Email))
	phone := entity.NormalizePhone(inquiry.Phone)

	if name == "" || email == "" || strings.TrimSpace(inquiry.Phone) == "" {
		return errors.BadRequest("Missing required inquiry fields", nil)
	}
	if !entity.ValidEmail(email) {
		return errors.BadRequest("Invalid email address", nil)
	}
	if phone == "" {
		return errors.BadRequest("Invalid phone number", nil)
	}

	payload := map[string]interface{}{
		"name":                name,
		"email":               email,
		"phone":               phone,
		"message":             strings.TrimSpace(inquiry.Message),
		"listingId":           strings.TrimSpace(inquiry.ListingID),
		"listingTitle":        strings.TrimSpace(inquiry.ListingTitle),
		"listingPrice":        strings.TrimSpace(inquiry.ListingPrice),
		"listingCurrency":     strings.ToUpper(strings.TrimSpace(inquiry.ListingCurrency)),
		"listingPriceDisplay": strings.TrimSpace(inquiry.ListingPriceDisplay),
		"createdAt":           firestore.ServerTimestamp,
	}

	if _, err := r.collection().NewDoc().Set(ctx, payload); err != nil {
		return errors.Internal("Failed to submit inquiry", err)
	}

	return nil
}

func (r *firestoreInquiryRepository) Delete(ctx context.Context, id string) ([]*entity.Inquiry, error) {
	targetID := strings.TrimSpace(id)
	if targetID == "" {
		return r.Load(ctx)
	}

	if _, err := r.collection().Doc(targetID).Delete(ctx); err != nil {
		return nil, errors.Internal("Failed to delete inquiry", err)
	}

	return r.Load(ctx)
}
