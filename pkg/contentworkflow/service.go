package contentworkflow

import (
	"context"
	"io"

	"github.com/google/uuid"
)

// Workflow defines the main interface for the content-workflow library
type Workflow interface {
	// Asset lifecycle operations
	CreateAsset(ctx context.Context, req CreateAssetRequest) (*Asset, error)
	GetAsset(ctx context.Context, id uuid.UUID) (*Asset, error)
	ListAssets(ctx context.Context, req ListAssetsRequest) ([]*Asset, error)
	SubmitForReview(ctx context.Context, req SubmitForReviewRequest) (*Asset, error)
	ReviewAsset(ctx context.Context, req ReviewAssetRequest) (*Asset, error)
	EditAsset(ctx context.Context, req EditAssetRequest) (*Asset, error)
	DeleteAsset(ctx context.Context, req DeleteAssetRequest) error
	ListReviews(ctx context.Context, assetID uuid.UUID) ([]*QCReview, error)

	// Asset file operations
	UploadAssetFile(ctx context.Context, req UploadAssetFileRequest, reader io.Reader) (*Asset, error)
	DownloadAssetFile(ctx context.Context, assetID uuid.UUID) (io.ReadCloser, error)
	GetAssetFileURL(ctx context.Context, assetID uuid.UUID) (string, error)

	// Working copy / promotion operations
	PullWorkingCopy(ctx context.Context, req PullWorkingCopyRequest) (*Content, error)
	GetWorkingCopy(ctx context.Context, id uuid.UUID) (*Content, error)
	UpdateWorkingCopy(ctx context.Context, req UpdateWorkingCopyRequest) (*Content, error)
	PassWorkingCopyQC(ctx context.Context, req PassWorkingCopyQCRequest) (*Content, error)
	PromoteWorkingCopy(ctx context.Context, req PromoteWorkingCopyRequest) (*Service, error)
	PublishWorkingCopy(ctx context.Context, req PublishWorkingCopyRequest) ([]*Service, error)

	// Service master operations
	CreateService(ctx context.Context, req CreateServiceRequest) (*Service, error)
	GetService(ctx context.Context, id uuid.UUID) (*Service, error)

	// Sub-service operations
	CreateSubService(ctx context.Context, req CreateSubServiceRequest) (*SubService, error)
	UpdateSubService(ctx context.Context, req UpdateSubServiceRequest) (*SubService, error)
	DeleteSubService(ctx context.Context, req DeleteSubServiceRequest) error
	RecomputeSubserviceCounts(ctx context.Context, parentServiceID uuid.UUID) (*Service, error)

	// Storage backend operations
	RegisterBackend(name string, backend BlobStore)
	GetBackend(name string) (BlobStore, error)
}
