package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/tendant/content-workflow/pkg/contentworkflow"
)

// Repository implements contentworkflow.Repository using in-memory storage
type Repository struct {
	mu sync.RWMutex
	// txMu serializes transactions; InTx snapshots the maps, runs against
	// the snapshot and swaps it in on success.
	txMu sync.Mutex

	assets         map[uuid.UUID]*contentworkflow.Asset
	contents       map[uuid.UUID]*contentworkflow.Content
	services       map[uuid.UUID]*contentworkflow.Service
	subServices    map[uuid.UUID]*contentworkflow.SubService
	reviews        map[uuid.UUID]*contentworkflow.QCReview
	reviewsByAsset map[uuid.UUID][]uuid.UUID // asset_id -> []review_id, insertion order
}

// New creates a new in-memory repository
func New() *Repository {
	return &Repository{
		assets:         make(map[uuid.UUID]*contentworkflow.Asset),
		contents:       make(map[uuid.UUID]*contentworkflow.Content),
		services:       make(map[uuid.UUID]*contentworkflow.Service),
		subServices:    make(map[uuid.UUID]*contentworkflow.SubService),
		reviews:        make(map[uuid.UUID]*contentworkflow.QCReview),
		reviewsByAsset: make(map[uuid.UUID][]uuid.UUID),
	}
}

// Copy helpers. Rows are copied on the way in and out so callers can never
// mutate stored state through a shared pointer; slice-typed fields get their
// own backing arrays.

func copyAsset(a *contentworkflow.Asset) *contentworkflow.Asset {
	c := *a
	if a.WorkflowLog != nil {
		c.WorkflowLog = make(contentworkflow.WorkflowLog, len(a.WorkflowLog))
		copy(c.WorkflowLog, a.WorkflowLog)
	}
	return &c
}

func copyContent(ct *contentworkflow.Content) *contentworkflow.Content {
	c := *ct
	if ct.LinkedServiceIDs != nil {
		c.LinkedServiceIDs = make(contentworkflow.ServiceIDList, len(ct.LinkedServiceIDs))
		copy(c.LinkedServiceIDs, ct.LinkedServiceIDs)
	}
	return &c
}

func copyReview(r *contentworkflow.QCReview) *contentworkflow.QCReview {
	c := *r
	if r.ChecklistItems != nil {
		c.ChecklistItems = make(map[string]bool, len(r.ChecklistItems))
		for k, v := range r.ChecklistItems {
			c.ChecklistItems[k] = v
		}
	}
	return &c
}

// Asset operations

func (r *Repository) CreateAsset(ctx context.Context, asset *contentworkflow.Asset) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.assets[asset.ID]; exists {
		return fmt.Errorf("%w: asset %s", contentworkflow.ErrDuplicate, asset.ID)
	}
	r.assets[asset.ID] = copyAsset(asset)
	return nil
}

func (r *Repository) GetAsset(ctx context.Context, id uuid.UUID) (*contentworkflow.Asset, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	asset, exists := r.assets[id]
	if !exists {
		return nil, contentworkflow.ErrAssetNotFound
	}
	return copyAsset(asset), nil
}

func (r *Repository) UpdateAsset(ctx context.Context, asset *contentworkflow.Asset) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.assets[asset.ID]; !exists {
		return contentworkflow.ErrAssetNotFound
	}
	r.assets[asset.ID] = copyAsset(asset)
	return nil
}

func (r *Repository) DeleteAsset(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.assets[id]; !exists {
		return contentworkflow.ErrAssetNotFound
	}
	delete(r.assets, id)
	return nil
}

func (r *Repository) ListAssets(ctx context.Context, params contentworkflow.ListAssetsParams) ([]*contentworkflow.Asset, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*contentworkflow.Asset
	for _, asset := range r.assets {
		if params.Status != nil && asset.Status != *params.Status {
			continue
		}
		if params.SubmittedBy != nil {
			if asset.SubmittedBy == nil || *asset.SubmittedBy != *params.SubmittedBy {
				continue
			}
		}
		if params.CreatedBy != nil && asset.CreatedBy != *params.CreatedBy {
			continue
		}
		result = append(result, copyAsset(asset))
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})

	if params.Offset != nil && *params.Offset > 0 {
		if *params.Offset >= len(result) {
			return nil, nil
		}
		result = result[*params.Offset:]
	}
	if params.Limit != nil && *params.Limit < len(result) {
		result = result[:*params.Limit]
	}

	return result, nil
}

// QC review operations

func (r *Repository) CreateQCReview(ctx context.Context, review *contentworkflow.QCReview) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.reviews[review.ID]; exists {
		return fmt.Errorf("%w: qc review %s", contentworkflow.ErrDuplicate, review.ID)
	}
	r.reviews[review.ID] = copyReview(review)
	r.reviewsByAsset[review.AssetID] = append(r.reviewsByAsset[review.AssetID], review.ID)
	return nil
}

func (r *Repository) ListQCReviewsByAsset(ctx context.Context, assetID uuid.UUID) ([]*contentworkflow.QCReview, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := r.reviewsByAsset[assetID]
	result := make([]*contentworkflow.QCReview, 0, len(ids))
	for _, id := range ids {
		if review, exists := r.reviews[id]; exists {
			result = append(result, copyReview(review))
		}
	}
	return result, nil
}

// Working copy operations

func (r *Repository) CreateContent(ctx context.Context, content *contentworkflow.Content) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.contents[content.ID]; exists {
		return fmt.Errorf("%w: content %s", contentworkflow.ErrDuplicate, content.ID)
	}
	r.contents[content.ID] = copyContent(content)
	return nil
}

func (r *Repository) GetContent(ctx context.Context, id uuid.UUID) (*contentworkflow.Content, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	content, exists := r.contents[id]
	if !exists {
		return nil, contentworkflow.ErrContentNotFound
	}
	return copyContent(content), nil
}

func (r *Repository) UpdateContent(ctx context.Context, content *contentworkflow.Content) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.contents[content.ID]; !exists {
		return contentworkflow.ErrContentNotFound
	}
	r.contents[content.ID] = copyContent(content)
	return nil
}

// Service master operations

func (r *Repository) CreateService(ctx context.Context, service *contentworkflow.Service) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.services[service.ID]; exists {
		return fmt.Errorf("%w: service %s", contentworkflow.ErrDuplicate, service.ID)
	}
	svcCopy := *service
	r.services[service.ID] = &svcCopy
	return nil
}

func (r *Repository) GetService(ctx context.Context, id uuid.UUID) (*contentworkflow.Service, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	service, exists := r.services[id]
	if !exists {
		return nil, contentworkflow.ErrServiceNotFound
	}
	svcCopy := *service
	return &svcCopy, nil
}

// UpdateService is a compare-and-swap: the write only lands when the stored
// version still equals expectedVersion.
func (r *Repository) UpdateService(ctx context.Context, service *contentworkflow.Service, expectedVersion int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, exists := r.services[service.ID]
	if !exists {
		return contentworkflow.ErrServiceNotFound
	}
	if stored.VersionNumber != expectedVersion {
		return fmt.Errorf("%w: service %s is at version %d, expected %d",
			contentworkflow.ErrVersionConflict, service.ID, stored.VersionNumber, expectedVersion)
	}
	svcCopy := *service
	r.services[service.ID] = &svcCopy
	return nil
}

// Sub-service operations

func (r *Repository) CreateSubService(ctx context.Context, sub *contentworkflow.SubService) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.subServices[sub.ID]; exists {
		return fmt.Errorf("%w: sub-service %s", contentworkflow.ErrDuplicate, sub.ID)
	}
	subCopy := *sub
	r.subServices[sub.ID] = &subCopy
	return nil
}

func (r *Repository) GetSubService(ctx context.Context, id uuid.UUID) (*contentworkflow.SubService, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sub, exists := r.subServices[id]
	if !exists {
		return nil, contentworkflow.ErrSubServiceNotFound
	}
	subCopy := *sub
	return &subCopy, nil
}

func (r *Repository) UpdateSubService(ctx context.Context, sub *contentworkflow.SubService) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.subServices[sub.ID]; !exists {
		return contentworkflow.ErrSubServiceNotFound
	}
	subCopy := *sub
	r.subServices[sub.ID] = &subCopy
	return nil
}

func (r *Repository) DeleteSubService(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.subServices[id]; !exists {
		return contentworkflow.ErrSubServiceNotFound
	}
	delete(r.subServices, id)
	return nil
}

func (r *Repository) CountSubServices(ctx context.Context, parentServiceID uuid.UUID) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, sub := range r.subServices {
		if sub.ParentServiceID == parentServiceID {
			count++
		}
	}
	return count, nil
}

// InTx runs fn against a snapshot of the repository and swaps the snapshot
// in only when fn succeeds, so a failed transaction leaves no partial
// writes behind. Direct writes through the repository must not interleave
// with an open transaction: they land in the live maps and are lost when
// the snapshot is swapped in.
func (r *Repository) InTx(ctx context.Context, fn func(contentworkflow.Repository) error) error {
	r.txMu.Lock()
	defer r.txMu.Unlock()

	tx := r.snapshot()
	if err := fn(tx); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.assets = tx.assets
	r.contents = tx.contents
	r.services = tx.services
	r.subServices = tx.subServices
	r.reviews = tx.reviews
	r.reviewsByAsset = tx.reviewsByAsset
	return nil
}

// snapshot shallow-copies the maps into a fresh Repository. Stored rows are
// immutable (every write replaces the entry with a fresh copy), so sharing
// row pointers between snapshot and original is safe.
func (r *Repository) snapshot() *Repository {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tx := New()
	for k, v := range r.assets {
		tx.assets[k] = v
	}
	for k, v := range r.contents {
		tx.contents[k] = v
	}
	for k, v := range r.services {
		tx.services[k] = v
	}
	for k, v := range r.subServices {
		tx.subServices[k] = v
	}
	for k, v := range r.reviews {
		tx.reviews[k] = v
	}
	for k, v := range r.reviewsByAsset {
		ids := make([]uuid.UUID, len(v))
		copy(ids, v)
		tx.reviewsByAsset[k] = ids
	}
	return tx
}
