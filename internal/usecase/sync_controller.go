package usecase

import (
	"bytes"
	"context"
	"sort"
	"strings"
	"sync"

	"closetshop/internal/domain/entity"
	"closetshop/internal/domain/repository"
	"closetshop/internal/domain/service"
	"closetshop/pkg/errors"
	"closetshop/pkg/format"
	"closetshop/pkg/logger"
)

const mediaFolder = "listings"

type Stats struct {
	Total int `json:"total"`
}

// ViewModel is the render state handed to the presentation layer after
// every reconciliation: the sorted listings, the decorated inquiries, and
// the stat summary.
type ViewModel struct {
	Listings  []*entity.Listing          `json:"listings"`
	Inquiries []*entity.DecoratedInquiry `json:"inquiries"`
	Stats     Stats                      `json:"stats"`
}

// SyncController owns the canonical in-memory listing and inquiry
// collections and keeps them consistent with the store. Local mutations and
// push notifications converge on the same reconciliation path: replace the
// whole collection with what the repository returned, then re-derive the
// view. State is never patched in place, so a stale read self-corrects on
// the next replacement.
//
// All intents and snapshot deliveries serialize on one mutex; the view
// callback runs inside that critical section and must not call back into
// the controller.
type SyncController struct {
	mu sync.Mutex

	listingRepo repository.ListingRepository
	inquiryRepo repository.InquiryRepository
	media       service.MediaStorageService

	listings     []*entity.Listing
	rawInquiries []*entity.Inquiry

	onView        func(ViewModel)
	stopListings  func()
	stopInquiries func()
}

func NewSyncController(
	listingRepo repository.ListingRepository,
	inquiryRepo repository.InquiryRepository,
	media service.MediaStorageService,
) *SyncController {
	return &SyncController{
		listingRepo: listingRepo,
		inquiryRepo: inquiryRepo,
		media:       media,
	}
}

// SetViewCallback registers the render sink. Must be called before Start.
func (c *SyncController) SetViewCallback(onView func(ViewModel)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onView = onView
}

// Start hydrates both collections and opens the live subscriptions. A read
// failure degrades to an empty collection rather than blocking startup.
func (c *SyncController) Start(ctx context.Context) {
	listings, err := c.listingRepo.Load(ctx)
	if err != nil {
		logger.Error("Unable to load listings: %v", err)
		listings = []*entity.Listing{}
	}

	inquiries, err := c.inquiryRepo.Load(ctx)
	if err != nil {
		logger.Error("Unable to load inquiries: %v", err)
		inquiries = []*entity.Inquiry{}
	}

	c.mu.Lock()
	c.listings = listings
	c.rawInquiries = inquiries
	c.notifyLocked()
	c.mu.Unlock()

	c.stopListings = c.listingRepo.Subscribe(ctx, func(latest []*entity.Listing) {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.listings = latest
		c.notifyLocked()
	})
	c.stopInquiries = c.inquiryRepo.Subscribe(ctx, func(latest []*entity.Inquiry) {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.rawInquiries = latest
		c.notifyLocked()
	})
}

// Close tears down the live subscriptions. In-flight writes are not aborted.
func (c *SyncController) Close() {
	if c.stopListings != nil {
		c.stopListings()
		c.stopListings = nil
	}
	if c.stopInquiries != nil {
		c.stopInquiries()
		c.stopInquiries = nil
	}
}

func (c *SyncController) findListingLocked(id string) *entity.Listing {
	target := strings.TrimSpace(id)
	if target == "" {
		return nil
	}
	for _, listing := range c.listings {
		if listing.ID == target {
			return listing
		}
	}
	return nil
}

func (c *SyncController) decorateLocked(entry *entity.Inquiry) *entity.DecoratedInquiry {
	listing := c.findListingLocked(entry.ListingID)

	decorated := &entity.DecoratedInquiry{Inquiry: *entry, Listing: listing}
	if listing != nil {
		decorated.ListingTitle = listing.Title
		decorated.ListingPrice = listing.Price
		decorated.ListingCurrency = listing.Currency
		decorated.ListingSize = listing.Size
		decorated.ListingImage = listing.CoverImage
	}
	decorated.ListingStatus = listing.Status()

	display := format.Price(decorated.ListingPrice, decorated.ListingCurrency)
	if display == "" {
		display = entry.ListingPriceDisplay
	}
	decorated.ListingPriceDisplay = display

	return decorated
}

func (c *SyncController) viewLocked() ViewModel {
	decorated := make([]*entity.DecoratedInquiry, 0, len(c.rawInquiries))
	for _, entry := range c.rawInquiries {
		decorated = append(decorated, c.decorateLocked(entry))
	}
	sort.SliceStable(decorated, func(i, j int) bool {
		return decorated[i].CreatedAt.After(decorated[j].CreatedAt)
	})

	return ViewModel{
		Listings:  SortedView(c.listings),
		Inquiries: decorated,
		Stats:     Stats{Total: len(c.listings)},
	}
}

func (c *SyncController) notifyLocked() {
	if c.onView != nil {
		c.onView(c.viewLocked())
	}
}

// View returns the current render model.
func (c *SyncController) View() ViewModel {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewLocked()
}

// Listing returns one listing by id.
func (c *SyncController) Listing(id string) (*entity.Listing, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	listing := c.findListingLocked(id)
	if listing == nil {
		return nil, errors.NotFound("Listing", nil)
	}
	return listing, nil
}

type ListingInput struct {
	Title       string
	Size        string
	Price       string
	Currency    string
	Description string
	Sold        bool
	Reserved    bool
}

func releaseSources(sources []UploadSource) {
	for _, source := range sources {
		if source.Release != nil {
			source.Release()
		}
	}
}

// CreateListing commits a brand-new listing assembled from the input fields
// and the uploaded images in one step.
func (c *SyncController) CreateListing(ctx context.Context, input ListingInput, sources []UploadSource) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	plan := NewImagePlan()
	defer plan.Reset()
	plan.AddUploads(sources)

	return c.commitListingLocked(ctx, nil, plan, input)
}

// UpdateListing re-edits an existing listing through a plan built for this
// call alone, so concurrent edits cannot bleed into each other; the mutex
// decides their order. keepExisting lists the remote URLs to retain in their
// final order: nil keeps the hydrated gallery untouched, an empty list
// removes every existing image.
func (c *SyncController) UpdateListing(ctx context.Context, id string, input ListingInput, keepExisting []string, sources []UploadSource) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	listing := c.findListingLocked(id)
	if listing == nil {
		releaseSources(sources)
		return errors.NotFound("Listing", nil)
	}

	plan := NewImagePlan()
	defer plan.Reset()
	plan.Hydrate(listing)
	if keepExisting != nil {
		plan.RetainExisting(keepExisting)
	}
	plan.AddUploads(sources)

	current := *listing
	return c.commitListingLocked(ctx, &current, plan, input)
}

// commitListingLocked runs the shared commit sequence: pending uploads are
// pushed first, the record is written with the final image order, and only
// after the write succeeds are the removed images deleted from storage. A
// listing must never reference images that no longer exist, so deletions
// always come last. Per-image upload failures are logged and skipped.
func (c *SyncController) commitListingLocked(ctx context.Context, current *entity.Listing, plan *ImagePlan, input ListingInput) error {
	if strings.TrimSpace(input.Title) == "" {
		return errors.BadRequest("Title is required", nil)
	}
	if !format.ValidPrice(input.Price) {
		return errors.BadRequest("Price must be a decimal with at most two fraction digits", nil)
	}

	compiled := plan.Compile()
	if len(compiled.Order) == 0 {
		return errors.BadRequest("At least one image is required", nil)
	}

	uploaded := make(map[string]string, len(compiled.Uploads))
	for _, pending := range compiled.Uploads {
		url, err := c.media.UploadFile(ctx, bytes.NewReader(pending.File.Data), pending.File.ContentType, pending.File.Name, mediaFolder)
		if err != nil {
			logger.Error("Unable to upload image %q: %v", pending.File.Name, err)
			continue
		}
		if url == "" {
			logger.Warn("Upload produced no public URL for %q", pending.File.Name)
			continue
		}
		uploaded[pending.ID] = url
	}

	images := make([]string, 0, len(compiled.Order))
	for _, entry := range compiled.Order {
		switch entry.Kind {
		case itemExisting:
			if entry.URL != "" {
				images = append(images, entry.URL)
			}
		case itemUpload:
			if url, ok := uploaded[entry.ID]; ok {
				images = append(images, url)
			}
		}
	}

	listing := &entity.Listing{
		Title:        strings.TrimSpace(input.Title),
		Size:         strings.TrimSpace(input.Size),
		Price:        strings.TrimSpace(input.Price),
		Currency:     strings.ToUpper(strings.TrimSpace(input.Currency)),
		Description:  strings.TrimSpace(input.Description),
		Images:       images,
		Sold:         input.Sold,
		Reserved:     input.Reserved && !input.Sold,
		DisplayOrder: entity.DisplayOrderLast,
	}

	var next []*entity.Listing
	var err error
	if current != nil {
		listing.DisplayOrder = current.DisplayOrder
		next, err = c.listingRepo.Update(ctx, current.ID, listing)
	} else {
		next, err = c.listingRepo.Append(ctx, listing)
	}
	if err != nil {
		return err
	}

	if len(compiled.Removals) > 0 {
		if err := c.media.DeleteFiles(ctx, compiled.Removals); err != nil {
			logger.Warn("Unable to remove replaced images: %v", err)
		}
	}

	c.listings = next
	c.notifyLocked()
	return nil
}

// MoveListing shifts a listing within the sorted view and persists the full
// resulting order. Out-of-bounds moves are no-ops.
func (c *SyncController) MoveListing(ctx context.Context, id string, direction int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	orderedIDs := MoveByOffset(c.listings, strings.TrimSpace(id), direction)
	if orderedIDs == nil {
		return nil
	}

	next, err := c.listingRepo.Reorder(ctx, orderedIDs)
	if err != nil {
		return err
	}

	c.listings = next
	c.notifyLocked()
	return nil
}

// DeleteListing removes the record, then makes a best-effort sweep of its
// orphaned images. The two are deliberately not coupled: a failed image
// delete leaves garbage in storage, not a broken listing.
func (c *SyncController) DeleteListing(ctx context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	target := c.findListingLocked(id)
	if target == nil {
		return errors.NotFound("Listing", nil)
	}

	next, err := c.listingRepo.Delete(ctx, target.ID)
	if err != nil {
		return err
	}

	if len(target.Images) > 0 {
		if err := c.media.DeleteFiles(ctx, target.Images); err != nil {
			logger.Warn("Unable to remove images of deleted listing %s: %v", target.ID, err)
		}
	}

	c.listings = next
	c.notifyLocked()
	return nil
}

type InquiryInput struct {
	Name      string
	Email     string
	Phone     string
	Message   string
	ListingID string
}

// SubmitInquiry validates the submission, snapshots the referenced listing's
// current data onto it, and persists it. Validation failures never reach
// the store.
func (c *SyncController) SubmitInquiry(ctx context.Context, input InquiryInput) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	name := strings.TrimSpace(input.Name)
	email := strings.ToLower(strings.TrimSpace(input.Email))
	phone := entity.NormalizePhone(input.Phone)

	if name == "" || email == "" || strings.TrimSpace(input.Phone) == "" {
		return errors.BadRequest("Missing required inquiry fields", nil)
	}
	if !entity.ValidEmail(email) {
		return errors.BadRequest("Invalid email address", nil)
	}
	if phone == "" {
		return errors.BadRequest("Invalid phone number", nil)
	}

	inquiry := &entity.Inquiry{
		Name:      name,
		Email:     email,
		Phone:     phone,
		Message:   strings.TrimSpace(input.Message),
		ListingID: strings.TrimSpace(input.ListingID),
	}

	if listing := c.findListingLocked(inquiry.ListingID); listing != nil {
		inquiry.ListingTitle = listing.Title
		inquiry.ListingPrice = listing.Price
		inquiry.ListingCurrency = listing.Currency
		inquiry.ListingPriceDisplay = format.Price(listing.Price, listing.Currency)
	}

	if err := c.inquiryRepo.Submit(ctx, inquiry); err != nil {
		return err
	}

	next, err := c.inquiryRepo.Load(ctx)
	if err != nil {
		logger.Error("Unable to reload inquiries after submit: %v", err)
		return nil
	}

	c.rawInquiries = next
	c.notifyLocked()
	return nil
}

// DeleteInquiry removes one inquiry record.
func (c *SyncController) DeleteInquiry(ctx context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	next, err := c.inquiryRepo.Delete(ctx, strings.TrimSpace(id))
	if err != nil {
		return err
	}

	c.rawInquiries = next
	c.notifyLocked()
	return nil
}

// ResetListings wipes the whole listing collection.
func (c *SyncController) ResetListings(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.listingRepo.ClearAll(ctx); err != nil {
		return err
	}

	c.listings = []*entity.Listing{}
	c.notifyLocked()
	return nil
}
