package contentworkflow

import "github.com/google/uuid"

// Request/Response DTOs

// CreateAssetRequest contains parameters for creating a new asset
type CreateAssetRequest struct {
	Name      string
	AssetType string
	Category  string
	Format    string
	CreatedBy uuid.UUID
}

// ListAssetsRequest contains parameters for listing assets
type ListAssetsRequest struct {
	Status      *AssetStatus
	SubmittedBy *uuid.UUID
	CreatedBy   *uuid.UUID
	Limit       *int
	Offset      *int
}

// SubmitForReviewRequest contains parameters for submitting an asset into QC
// review. Both scores must be present and within [0,100].
type SubmitForReviewRequest struct {
	AssetID      uuid.UUID
	SEOScore     *int
	GrammarScore *int
	SubmittedBy  uuid.UUID
}

// ReviewAssetRequest contains parameters for recording a QC decision.
// Only actors with the admin role may review.
type ReviewAssetRequest struct {
	AssetID             uuid.UUID
	ReviewerID          uuid.UUID
	Score               int
	Decision            QCDecision
	Remarks             string
	ChecklistCompletion int
	ChecklistItems      map[string]bool
	ActorRole           Role
}

// AssetPatch is the explicit allow-list of asset fields mutable during
// review. Nil fields are left untouched; nothing outside this struct can be
// written through an edit.
type AssetPatch struct {
	Name         *string
	AssetType    *string
	Category     *string
	Format       *string
	SEOScore     *int
	GrammarScore *int
}

// EditAssetRequest contains parameters for editing an asset during review
type EditAssetRequest struct {
	AssetID uuid.UUID
	Actor   Actor
	Patch   AssetPatch
}

// DeleteAssetRequest contains parameters for deleting an asset
type DeleteAssetRequest struct {
	AssetID uuid.UUID
	Actor   Actor
}

// UploadAssetFileRequest contains parameters for attaching a file to an asset
type UploadAssetFileRequest struct {
	AssetID            uuid.UUID
	FileName           string
	MimeType           string
	FileSize           int64
	StorageBackendName string // empty means the default backend
	UploadedBy         uuid.UUID
}

// PullWorkingCopyRequest contains parameters for pulling a working copy from
// a service master record
type PullWorkingCopyRequest struct {
	CampaignID uuid.UUID
	ServiceID  uuid.UUID
	PulledBy   uuid.UUID
}

// ContentPatch is the explicit allow-list of working-copy fields mutable
// while the copy is in draft.
type ContentPatch struct {
	Heading         *string
	Subheading      *string
	Body            *string
	MetaTitle       *string
	MetaDescription *string
	Keywords        *string
	OGTitle         *string
	OGDescription   *string
}

// UpdateWorkingCopyRequest contains parameters for mutating a draft working copy
type UpdateWorkingCopyRequest struct {
	ContentID uuid.UUID
	UpdatedBy uuid.UUID
	Patch     ContentPatch
}

// PassWorkingCopyQCRequest contains parameters for moving a working copy
// through its QC gate
type PassWorkingCopyQCRequest struct {
	ContentID  uuid.UUID
	ReviewerID uuid.UUID
}

// PromoteWorkingCopyRequest contains parameters for merging a working copy
// into one service master record
type PromoteWorkingCopyRequest struct {
	CampaignID uuid.UUID
	ContentID  uuid.UUID
	ServiceID  uuid.UUID
	PromotedBy uuid.UUID
}

// PublishWorkingCopyRequest contains parameters for publishing a working copy
// into every service it is linked to
type PublishWorkingCopyRequest struct {
	ContentID   uuid.UUID
	PublishedBy uuid.UUID
}

// CreateServiceRequest contains parameters for creating a service master record
type CreateServiceRequest struct {
	Name            string
	Heading         string
	Subheading      string
	Body            string
	MetaTitle       string
	MetaDescription string
	Keywords        string
	OGTitle         string
	OGDescription   string
}

// CreateSubServiceRequest contains parameters for creating a sub-service
type CreateSubServiceRequest struct {
	ParentServiceID uuid.UUID
	Name            string
	Heading         string
	Body            string
}

// SubServicePatch is the explicit allow-list of sub-service fields mutable
// through an update. A non-nil ParentServiceID reparents the sub-service.
type SubServicePatch struct {
	Name            *string
	Heading         *string
	Body            *string
	ParentServiceID *uuid.UUID
}

// UpdateSubServiceRequest contains parameters for updating a sub-service
type UpdateSubServiceRequest struct {
	SubServiceID uuid.UUID
	Patch        SubServicePatch
}

// DeleteSubServiceRequest contains parameters for deleting a sub-service
type DeleteSubServiceRequest struct {
	SubServiceID uuid.UUID
}
