package usecase

import (
	"sort"
	"strings"

	"github.com/google/uuid"

	"closetshop/internal/domain/entity"
	"closetshop/pkg/logger"
)

// maxImageUploads caps the gallery size of one listing.
const maxImageUploads = 8

const (
	itemExisting = "existing"
	itemUpload   = "upload"
)

// UploadFile is an image payload buffered from the request, waiting to be
// pushed to object storage when the owning listing write commits.
type UploadFile struct {
	Name        string
	ContentType string
	Data        []byte
}

// UploadSource pairs a pending upload with the hook that frees its preview
// resource. Release fires exactly once, on whichever transition discards the
// item first (removal, plan reset, or rehydration).
type UploadSource struct {
	File    *UploadFile
	Release func()
}

type planItem struct {
	id       string
	kind     string
	url      string
	path     string
	removed  bool
	file     *UploadFile
	release  func()
	released bool
}

// ImagePlan is the draft gallery of one listing edit session: existing
// remote images and pending local uploads in one ordered sequence. Removing
// an existing image only flags it, so the removal can be undone before
// submit and the storage deletion deferred until the write commits. Pending
// uploads are discarded outright.
type ImagePlan struct {
	items []*planItem
}

func NewImagePlan() *ImagePlan {
	return &ImagePlan{}
}

// PlanEntry references one slot of the final gallery order: either an
// existing URL or a pending upload identified by its draft id.
type PlanEntry struct {
	Kind string
	ID   string
	URL  string
}

type PendingUpload struct {
	ID   string
	File *UploadFile
}

// CompiledPlan is the commit payload of a draft: the final order, the files
// still needing upload, and the storage targets to delete once the owning
// write has been confirmed.
type CompiledPlan struct {
	Order    []PlanEntry
	Uploads  []PendingUpload
	Removals []string
}

func (p *ImagePlan) releaseItem(item *planItem) {
	if item.release != nil && !item.released {
		item.release()
	}
	item.released = true
}

// Reset discards the draft and releases every pending preview resource.
func (p *ImagePlan) Reset() {
	for _, item := range p.items {
		if item.kind == itemUpload {
			p.releaseItem(item)
		}
	}
	p.items = nil
}

// Hydrate replaces the draft with one existing item per image on the
// listing. Any prior draft state is released first.
func (p *ImagePlan) Hydrate(listing *entity.Listing) {
	p.Reset()
	if listing == nil {
		return
	}

	urls := listing.Images
	if len(urls) == 0 && strings.TrimSpace(listing.CoverImage) != "" {
		urls = []string{listing.CoverImage}
	}

	for _, url := range urls {
		trimmed := strings.TrimSpace(url)
		if trimmed == "" {
			continue
		}
		p.items = append(p.items, &planItem{
			id:   uuid.New().String(),
			kind: itemExisting,
			url:  trimmed,
		})
	}
}

func (p *ImagePlan) activeItems() []*planItem {
	active := make([]*planItem, 0, len(p.items))
	for _, item := range p.items {
		if !item.removed {
			active = append(active, item)
		}
	}
	return active
}

// ActiveCount reports the number of images the draft currently shows.
func (p *ImagePlan) ActiveCount() int {
	return len(p.activeItems())
}

// ActiveIDs returns the draft ids of the visible items in order.
func (p *ImagePlan) ActiveIDs() []string {
	active := p.activeItems()
	ids := make([]string, len(active))
	for i, item := range active {
		ids[i] = item.id
	}
	return ids
}

// AddUploads appends pending uploads up to the gallery cap. Files beyond the
// cap are dropped with a warning, and their previews released immediately.
// Returns the number of files accepted.
func (p *ImagePlan) AddUploads(sources []UploadSource) int {
	if len(sources) == 0 {
		return 0
	}

	available := maxImageUploads - p.ActiveCount()
	if available < 0 {
		available = 0
	}
	if available < len(sources) {
		logger.Warn("Maximum of %d images reached; dropping %d upload(s)", maxImageUploads, len(sources)-available)
	}

	accepted := 0
	for i, source := range sources {
		if source.File == nil {
			continue
		}
		if i >= available {
			if source.Release != nil {
				source.Release()
			}
			continue
		}
		p.items = append(p.items, &planItem{
			id:      uuid.New().String(),
			kind:    itemUpload,
			file:    source.File,
			release: source.Release,
		})
		accepted++
	}
	return accepted
}

// Remove soft-removes an existing item, keeping it for removal accounting,
// and hard-removes a pending upload, releasing its preview.
func (p *ImagePlan) Remove(itemID string) {
	for index, item := range p.items {
		if item.id != itemID {
			continue
		}
		if item.kind == itemExisting {
			item.removed = true
		} else {
			p.releaseItem(item)
			p.items = append(p.items[:index], p.items[index+1:]...)
		}
		return
	}
}

// MoveBy relocates an item by delta positions within the active subsequence,
// clamped to its bounds. Removed items keep their relative positions but do
// not participate in the index space.
func (p *ImagePlan) MoveBy(itemID string, delta int) {
	if itemID == "" || delta == 0 {
		return
	}

	active := p.activeItems()
	currentIndex := -1
	for i, item := range active {
		if item.id == itemID {
			currentIndex = i
			break
		}
	}
	if currentIndex < 0 {
		return
	}

	targetIndex := currentIndex + delta
	if targetIndex < 0 {
		targetIndex = 0
	}
	if targetIndex > len(active)-1 {
		targetIndex = len(active) - 1
	}
	if targetIndex == currentIndex {
		return
	}

	order := make([]*planItem, 0, len(active))
	order = append(order, active[:currentIndex]...)
	order = append(order, active[currentIndex+1:]...)
	order = append(order[:targetIndex], append([]*planItem{active[currentIndex]}, order[targetIndex:]...)...)

	removed := make([]*planItem, 0, len(p.items)-len(active))
	for _, item := range p.items {
		if item.removed {
			removed = append(removed, item)
		}
	}
	p.items = append(order, removed...)
}

// RetainExisting soft-removes every existing item whose URL is absent from
// urls and reorders the kept ones to match; pending uploads follow in their
// current relative order.
func (p *ImagePlan) RetainExisting(urls []string) {
	keep := make(map[string]int, len(urls))
	for i, url := range urls {
		trimmed := strings.TrimSpace(url)
		if trimmed == "" {
			continue
		}
		if _, seen := keep[trimmed]; !seen {
			keep[trimmed] = i
		}
	}

	kept := make([]*planItem, 0, len(keep))
	uploads := make([]*planItem, 0)
	removed := make([]*planItem, 0)

	for _, item := range p.items {
		switch {
		case item.removed:
			removed = append(removed, item)
		case item.kind == itemUpload:
			uploads = append(uploads, item)
		default:
			if _, ok := keep[item.url]; ok {
				kept = append(kept, item)
			} else {
				item.removed = true
				removed = append(removed, item)
			}
		}
	}

	sort.SliceStable(kept, func(i, j int) bool {
		return keep[kept[i].url] < keep[kept[j].url]
	})

	p.items = append(append(kept, uploads...), removed...)
}

// Compile produces the commit payload for the current draft. The draft
// itself is left untouched; callers reset it once the write succeeds.
func (p *ImagePlan) Compile() CompiledPlan {
	compiled := CompiledPlan{
		Order:    []PlanEntry{},
		Uploads:  []PendingUpload{},
		Removals: []string{},
	}

	for _, item := range p.items {
		if item.removed {
			continue
		}
		if item.kind == itemExisting {
			compiled.Order = append(compiled.Order, PlanEntry{Kind: itemExisting, ID: item.id, URL: item.url})
		} else {
			compiled.Uploads = append(compiled.Uploads, PendingUpload{ID: item.id, File: item.file})
			compiled.Order = append(compiled.Order, PlanEntry{Kind: itemUpload, ID: item.id})
		}
	}

	for _, item := range p.items {
		if item.kind != itemExisting || !item.removed {
			continue
		}
		target := item.path
		if strings.TrimSpace(target) == "" {
			target = item.url
		}
		if strings.TrimSpace(target) != "" {
			compiled.Removals = append(compiled.Removals, target)
		}
	}

	return compiled
}
