package contentworkflow

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Error types
var (
	// ErrAssetNotFound indicates an asset was not found
	ErrAssetNotFound = errors.New("asset not found")

	// ErrContentNotFound indicates a working copy was not found
	ErrContentNotFound = errors.New("content not found")

	// ErrServiceNotFound indicates a service master record was not found
	ErrServiceNotFound = errors.New("service not found")

	// ErrSubServiceNotFound indicates a sub-service was not found
	ErrSubServiceNotFound = errors.New("sub-service not found")

	// ErrMissingScore indicates a required score is absent
	ErrMissingScore = errors.New("missing score")

	// ErrInvalidScore indicates a score outside the [0,100] range
	ErrInvalidScore = errors.New("score out of range")

	// ErrInvalidDecision indicates an unknown QC decision
	ErrInvalidDecision = errors.New("invalid qc decision")

	// ErrAccessDenied indicates a role or ownership check failed
	ErrAccessDenied = errors.New("access denied")

	// ErrInvalidTransition indicates the requested status transition is not
	// legal from the current status
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrNotEditable indicates the record cannot be edited in its current state
	ErrNotEditable = errors.New("record not editable in current state")

	// ErrNotPromotable indicates a working copy has not passed its QC gate
	ErrNotPromotable = errors.New("working copy not promotable")

	// ErrNoLinkedService indicates a working copy has no master record to
	// publish to
	ErrNoLinkedService = errors.New("no linked service to publish to")

	// ErrVersionConflict indicates a concurrent writer moved the master row's
	// version underneath an update
	ErrVersionConflict = errors.New("version conflict")

	// ErrDuplicate indicates a unique constraint violation
	ErrDuplicate = errors.New("duplicate entry")

	// ErrNoFileAttached indicates an asset has no file attachment
	ErrNoFileAttached = errors.New("asset has no file attached")

	// ErrStorageBackendNotFound indicates an unknown blob storage backend
	ErrStorageBackendNotFound = errors.New("storage backend not found")
)

// AssetError represents an error related to asset lifecycle operations
type AssetError struct {
	AssetID uuid.UUID
	Op      string
	Err     error
}

func (e *AssetError) Error() string {
	return fmt.Sprintf("asset operation %s failed for asset %s: %v", e.Op, e.AssetID, e.Err)
}

func (e *AssetError) Unwrap() error {
	return e.Err
}

// PromotionError represents an error related to working-copy promotion
type PromotionError struct {
	ContentID uuid.UUID
	ServiceID uuid.UUID
	Op        string
	Err       error
}

func (e *PromotionError) Error() string {
	return fmt.Sprintf("promotion operation %s failed for content %s into service %s: %v", e.Op, e.ContentID, e.ServiceID, e.Err)
}

func (e *PromotionError) Unwrap() error {
	return e.Err
}
