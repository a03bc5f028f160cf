package contentworkflow

import (
	"context"
	"io"

	"github.com/google/uuid"
)

// Repository defines the interface for workflow persistence. Implementations
// must support transactional grouping via InTx so that a status write, a
// workflow-log append and a QC review insert either all commit or all roll
// back.
type Repository interface {
	// Asset operations
	CreateAsset(ctx context.Context, asset *Asset) error
	GetAsset(ctx context.Context, id uuid.UUID) (*Asset, error)
	UpdateAsset(ctx context.Context, asset *Asset) error
	DeleteAsset(ctx context.Context, id uuid.UUID) error
	ListAssets(ctx context.Context, params ListAssetsParams) ([]*Asset, error)

	// QC review operations (append-only)
	CreateQCReview(ctx context.Context, review *QCReview) error
	ListQCReviewsByAsset(ctx context.Context, assetID uuid.UUID) ([]*QCReview, error)

	// Working copy operations
	CreateContent(ctx context.Context, content *Content) error
	GetContent(ctx context.Context, id uuid.UUID) (*Content, error)
	UpdateContent(ctx context.Context, content *Content) error

	// Service master operations. UpdateService is a compare-and-swap: the
	// write only lands if the stored version_number still equals
	// expectedVersion, otherwise ErrVersionConflict is returned.
	CreateService(ctx context.Context, service *Service) error
	GetService(ctx context.Context, id uuid.UUID) (*Service, error)
	UpdateService(ctx context.Context, service *Service, expectedVersion int) error

	// Sub-service operations
	CreateSubService(ctx context.Context, sub *SubService) error
	GetSubService(ctx context.Context, id uuid.UUID) (*SubService, error)
	UpdateSubService(ctx context.Context, sub *SubService) error
	DeleteSubService(ctx context.Context, id uuid.UUID) error
	CountSubServices(ctx context.Context, parentServiceID uuid.UUID) (int, error)

	// InTx runs fn against a transactional view of the repository. If fn
	// returns an error nothing written inside it is visible afterwards.
	InTx(ctx context.Context, fn func(Repository) error) error
}

// ListAssetsParams filters asset listings.
type ListAssetsParams struct {
	Status      *AssetStatus
	SubmittedBy *uuid.UUID
	CreatedBy   *uuid.UUID
	Limit       *int
	Offset      *int
}

// EventSink defines the interface for change-event handling. Delivery is
// at-most-once and best-effort: the workflow logs sink failures but never
// propagates them to the caller, and events fire only after the primary
// write has committed.
type EventSink interface {
	// AssetSubmitted is fired when an asset enters QC review
	AssetSubmitted(ctx context.Context, asset *Asset) error

	// AssetReviewed is fired when a QC decision is recorded
	AssetReviewed(ctx context.Context, asset *Asset, review *QCReview) error

	// ContentPulled is fired when a working copy is pulled from a master
	ContentPulled(ctx context.Context, content *Content) error

	// ContentPublished is fired when a working copy's status becomes published
	ContentPublished(ctx context.Context, content *Content) error

	// ServiceUpdated is fired when a master record changes
	ServiceUpdated(ctx context.Context, service *Service) error

	// SubServiceChanged is fired after a sub-service mutation, carrying the
	// recomputed parent
	SubServiceChanged(ctx context.Context, sub *SubService, parent *Service) error
}

// Event name constants carried by sink implementations that forward to an
// external broadcaster.
const (
	EventAssetSubmitted    = "assetLibrary_submitted"
	EventAssetReviewed     = "assetLibrary_qc_reviewed"
	EventContentPulled     = "campaign_content_pulled"
	EventContentPublished  = "content_published"
	EventServiceUpdated    = "service_updated"
	EventSubServiceChanged = "subservice_changed"
)

// AuditSink defines the interface for the append-only audit log. Appends are
// best-effort and non-blocking with respect to the primary write: a failed
// append is logged, never surfaced to the caller.
type AuditSink interface {
	Append(ctx context.Context, entry AuditEntry) error
}

// BlobStore defines the interface for storage backends holding asset files.
type BlobStore interface {
	// Upload uploads a file under the given object key
	Upload(ctx context.Context, objectKey string, reader io.Reader) error

	// Download downloads the file stored under the given object key
	Download(ctx context.Context, objectKey string) (io.ReadCloser, error)

	// Delete deletes the file stored under the given object key
	Delete(ctx context.Context, objectKey string) error

	// GetDownloadURL returns a URL for downloading the file
	GetDownloadURL(ctx context.Context, objectKey string, downloadFilename string) (string, error)
}
