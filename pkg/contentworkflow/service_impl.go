package contentworkflow

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// workflow implements the Workflow interface
type workflow struct {
	repository     Repository
	blobStores     map[string]BlobStore
	defaultBackend string
	events         EventSink
	audit          AuditSink
	logger         *slog.Logger
}

// Option represents a functional option for configuring the workflow
type Option func(*workflow)

// WithRepository sets the repository for the workflow
func WithRepository(repo Repository) Option {
	return func(w *workflow) {
		w.repository = repo
	}
}

// WithBlobStore adds a blob storage backend for asset files. The first
// backend registered becomes the default unless WithDefaultBackend is used.
func WithBlobStore(name string, store BlobStore) Option {
	return func(w *workflow) {
		if w.blobStores == nil {
			w.blobStores = make(map[string]BlobStore)
		}
		w.blobStores[name] = store
		if w.defaultBackend == "" {
			w.defaultBackend = name
		}
	}
}

// WithDefaultBackend selects the backend used when a request names none
func WithDefaultBackend(name string) Option {
	return func(w *workflow) {
		w.defaultBackend = name
	}
}

// WithEventSink sets the change-event sink for the workflow
func WithEventSink(sink EventSink) Option {
	return func(w *workflow) {
		w.events = sink
	}
}

// WithAuditSink sets the audit sink for the workflow
func WithAuditSink(sink AuditSink) Option {
	return func(w *workflow) {
		w.audit = sink
	}
}

// WithLogger sets the logger used for best-effort failure reporting
func WithLogger(logger *slog.Logger) Option {
	return func(w *workflow) {
		w.logger = logger
	}
}

// New creates a new workflow instance with the given options
func New(options ...Option) (Workflow, error) {
	w := &workflow{
		blobStores: make(map[string]BlobStore),
	}

	for _, option := range options {
		option(w)
	}

	if w.repository == nil {
		return nil, fmt.Errorf("repository is required")
	}
	if w.events == nil {
		w.events = NewNoopEventSink()
	}
	if w.audit == nil {
		w.audit = NewNoopAuditSink()
	}
	if w.logger == nil {
		w.logger = slog.Default()
	}

	return w, nil
}

// emit runs a sink call and logs a failure without surfacing it. Change
// events never block or roll back the authoritative write.
func (w *workflow) emit(event string, err error) {
	if err != nil {
		w.logger.Error("event emission failed", "event", event, "err", err)
	}
}

// recordAudit appends an audit entry, logging failures without surfacing
// them.
func (w *workflow) recordAudit(ctx context.Context, actionType string, actorID uuid.UUID, targetType string, targetID uuid.UUID, details map[string]interface{}) {
	entry := AuditEntry{
		ID:         uuid.New(),
		ActionType: actionType,
		ActorID:    actorID,
		TargetType: targetType,
		TargetID:   targetID,
		Details:    details,
		CreatedAt:  time.Now().UTC(),
	}
	if err := w.audit.Append(ctx, entry); err != nil {
		w.logger.Error("audit append failed", "action_type", actionType, "target_id", targetID, "err", err)
	}
}

// Asset operations

func (w *workflow) CreateAsset(ctx context.Context, req CreateAssetRequest) (*Asset, error) {
	now := time.Now().UTC()
	asset := &Asset{
		ID:        uuid.New(),
		Name:      req.Name,
		AssetType: req.AssetType,
		Category:  req.Category,
		Format:    req.Format,
		Status:    AssetStatusDraft,
		CreatedBy: req.CreatedBy,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := w.repository.CreateAsset(ctx, asset); err != nil {
		return nil, &AssetError{AssetID: asset.ID, Op: "create", Err: err}
	}

	w.recordAudit(ctx, "asset_created", req.CreatedBy, "asset", asset.ID, map[string]interface{}{
		"asset_name": asset.Name,
	})

	return asset, nil
}

func (w *workflow) GetAsset(ctx context.Context, id uuid.UUID) (*Asset, error) {
	return w.repository.GetAsset(ctx, id)
}

func (w *workflow) ListAssets(ctx context.Context, req ListAssetsRequest) ([]*Asset, error) {
	return w.repository.ListAssets(ctx, ListAssetsParams{
		Status:      req.Status,
		SubmittedBy: req.SubmittedBy,
		CreatedBy:   req.CreatedBy,
		Limit:       req.Limit,
		Offset:      req.Offset,
	})
}

// SubmitForReview moves an asset into QC review. Both pre-submission scores
// must be present and within range before any write happens.
func (w *workflow) SubmitForReview(ctx context.Context, req SubmitForReviewRequest) (*Asset, error) {
	asset, err := w.repository.GetAsset(ctx, req.AssetID)
	if err != nil {
		return nil, &AssetError{AssetID: req.AssetID, Op: "submit", Err: err}
	}

	if err := validateSubmissionScores(req.SEOScore, req.GrammarScore); err != nil {
		return nil, &AssetError{AssetID: req.AssetID, Op: "submit", Err: err}
	}
	if _, err := canSubmitAsset(asset.Status); err != nil {
		return nil, &AssetError{AssetID: req.AssetID, Op: "submit", Err: err}
	}

	now := time.Now().UTC()
	asset.Status = AssetStatusPendingReview
	asset.SEOScore = req.SEOScore
	asset.GrammarScore = req.GrammarScore
	asset.SubmittedBy = &req.SubmittedBy
	asset.SubmittedAt = &now
	asset.UpdatedAt = now
	asset.WorkflowLog = append(asset.WorkflowLog, WorkflowEntry{
		Action:    "submit_for_review",
		Timestamp: now,
		UserID:    req.SubmittedBy,
		Status:    AssetStatusPendingReview,
	})

	if err := w.repository.UpdateAsset(ctx, asset); err != nil {
		return nil, &AssetError{AssetID: req.AssetID, Op: "submit", Err: err}
	}

	w.emit(EventAssetSubmitted, w.events.AssetSubmitted(ctx, asset))
	w.recordAudit(ctx, "asset_submitted", req.SubmittedBy, "asset", asset.ID, map[string]interface{}{
		"seo_score":     *req.SEOScore,
		"grammar_score": *req.GrammarScore,
	})

	return asset, nil
}

// ReviewAsset records a QC decision. The status write, the workflow-log
// append and the QC review insert share one transaction; the change event
// and audit entry fire only after commit.
func (w *workflow) ReviewAsset(ctx context.Context, req ReviewAssetRequest) (*Asset, error) {
	asset, err := w.repository.GetAsset(ctx, req.AssetID)
	if err != nil {
		return nil, &AssetError{AssetID: req.AssetID, Op: "review", Err: err}
	}

	// permission before state, never the other way around
	if req.ActorRole != RoleAdmin {
		return nil, &AssetError{AssetID: req.AssetID, Op: "review",
			Err: fmt.Errorf("%w: only admins may record QC decisions", ErrAccessDenied)}
	}
	if err := validDecision(req.Decision); err != nil {
		return nil, &AssetError{AssetID: req.AssetID, Op: "review", Err: err}
	}
	if err := validateScoreRange("qc_score", req.Score); err != nil {
		return nil, &AssetError{AssetID: req.AssetID, Op: "review", Err: err}
	}
	if _, err := canReviewAsset(asset.Status); err != nil {
		return nil, &AssetError{AssetID: req.AssetID, Op: "review", Err: err}
	}

	now := time.Now().UTC()
	switch req.Decision {
	case DecisionApproved:
		asset.Status = AssetStatusApproved
		asset.LinkingActive = true
	case DecisionRejected:
		asset.Status = AssetStatusRejected
		asset.LinkingActive = false
	case DecisionRework:
		asset.Status = AssetStatusReworkRequired
		asset.LinkingActive = false
		asset.ReworkCount++
	}
	asset.QCScore = &req.Score
	asset.QCRemarks = req.Remarks
	asset.QCReviewerID = &req.ReviewerID
	asset.QCReviewedAt = &now
	asset.UpdatedAt = now
	asset.WorkflowLog = append(asset.WorkflowLog, WorkflowEntry{
		Action:    "qc_" + string(req.Decision),
		Timestamp: now,
		UserID:    req.ReviewerID,
		Status:    asset.Status,
		Detail:    fmt.Sprintf("score=%d rework_count=%d remarks=%s", req.Score, asset.ReworkCount, req.Remarks),
	})

	review := &QCReview{
		ID:                  uuid.New(),
		AssetID:             asset.ID,
		ReviewerID:          req.ReviewerID,
		Score:               req.Score,
		Decision:            req.Decision,
		ChecklistCompletion: req.ChecklistCompletion,
		ChecklistItems:      req.ChecklistItems,
		Remarks:             req.Remarks,
		CreatedAt:           now,
	}

	err = w.repository.InTx(ctx, func(r Repository) error {
		if err := r.UpdateAsset(ctx, asset); err != nil {
			return err
		}
		return r.CreateQCReview(ctx, review)
	})
	if err != nil {
		return nil, &AssetError{AssetID: req.AssetID, Op: "review", Err: err}
	}

	w.emit(EventAssetReviewed, w.events.AssetReviewed(ctx, asset, review))
	w.recordAudit(ctx, "asset_qc_reviewed", req.ReviewerID, "asset", asset.ID, map[string]interface{}{
		"decision":     string(req.Decision),
		"score":        req.Score,
		"rework_count": asset.ReworkCount,
	})

	return asset, nil
}

// guardAssetMutation applies the fixed check ordering for edits and deletes:
// existence, then permission, then state.
func (w *workflow) guardAssetMutation(ctx context.Context, op string, assetID uuid.UUID, actor Actor) (*Asset, error) {
	asset, err := w.repository.GetAsset(ctx, assetID)
	if err != nil {
		return nil, &AssetError{AssetID: assetID, Op: op, Err: err}
	}
	if !actor.IsAdmin() {
		if asset.SubmittedBy == nil || *asset.SubmittedBy != actor.ID {
			return nil, &AssetError{AssetID: assetID, Op: op,
				Err: fmt.Errorf("%w: only the original submitter may %s this asset", ErrAccessDenied, op)}
		}
	}
	if _, err := canEditAsset(asset.Status); err != nil {
		return nil, &AssetError{AssetID: assetID, Op: op, Err: err}
	}
	return asset, nil
}

func (w *workflow) EditAsset(ctx context.Context, req EditAssetRequest) (*Asset, error) {
	asset, err := w.guardAssetMutation(ctx, "edit", req.AssetID, req.Actor)
	if err != nil {
		return nil, err
	}

	if err := validateAssetPatchScores(req.Patch); err != nil {
		return nil, &AssetError{AssetID: req.AssetID, Op: "edit", Err: err}
	}

	applyAssetPatch(asset, req.Patch)
	asset.UpdatedAt = time.Now().UTC()

	if err := w.repository.UpdateAsset(ctx, asset); err != nil {
		return nil, &AssetError{AssetID: req.AssetID, Op: "edit", Err: err}
	}

	w.recordAudit(ctx, "asset_edited", req.Actor.ID, "asset", asset.ID, nil)

	return asset, nil
}

func (w *workflow) DeleteAsset(ctx context.Context, req DeleteAssetRequest) error {
	asset, err := w.guardAssetMutation(ctx, "delete", req.AssetID, req.Actor)
	if err != nil {
		return err
	}

	if err := w.repository.DeleteAsset(ctx, asset.ID); err != nil {
		return &AssetError{AssetID: req.AssetID, Op: "delete", Err: err}
	}

	w.recordAudit(ctx, "asset_deleted", req.Actor.ID, "asset", asset.ID, nil)

	return nil
}

func (w *workflow) ListReviews(ctx context.Context, assetID uuid.UUID) ([]*QCReview, error) {
	if _, err := w.repository.GetAsset(ctx, assetID); err != nil {
		return nil, &AssetError{AssetID: assetID, Op: "list_reviews", Err: err}
	}
	return w.repository.ListQCReviewsByAsset(ctx, assetID)
}

// applyAssetPatch copies non-nil patch fields onto the asset. The patch
// struct is the allow-list; nothing else can be written through an edit.
func applyAssetPatch(asset *Asset, patch AssetPatch) {
	if patch.Name != nil {
		asset.Name = *patch.Name
	}
	if patch.AssetType != nil {
		asset.AssetType = *patch.AssetType
	}
	if patch.Category != nil {
		asset.Category = *patch.Category
	}
	if patch.Format != nil {
		asset.Format = *patch.Format
	}
	if patch.SEOScore != nil {
		asset.SEOScore = patch.SEOScore
	}
	if patch.GrammarScore != nil {
		asset.GrammarScore = patch.GrammarScore
	}
}

// Storage backend operations

func (w *workflow) RegisterBackend(name string, backend BlobStore) {
	w.blobStores[name] = backend
	if w.defaultBackend == "" {
		w.defaultBackend = name
	}
}

func (w *workflow) GetBackend(name string) (BlobStore, error) {
	backend, ok := w.blobStores[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrStorageBackendNotFound, name)
	}
	return backend, nil
}
