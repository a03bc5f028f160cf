// Package postgres implements contentworkflow.Repository on PostgreSQL via
// pgx. Expected tables: asset, qc_review, content, service, sub_service.
// JSON-typed columns (workflow_log, checklist_items, linked_service_ids,
// details) are encoded and decoded only here; the domain never touches raw
// text encoding.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tendant/content-workflow/pkg/contentworkflow"
)

// DBTX is an interface that allows us to use either a database connection or a transaction
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// Repository implements contentworkflow.Repository using PostgreSQL
type Repository struct {
	db   DBTX
	pool *pgxpool.Pool
}

// New creates a new PostgreSQL repository over an existing connection or
// transaction. InTx is only available on repositories built with
// NewWithPool.
func New(db DBTX) *Repository {
	return &Repository{db: db}
}

// NewWithPool creates a new PostgreSQL repository with connection pool
func NewWithPool(pool *pgxpool.Pool) *Repository {
	return &Repository{db: pool, pool: pool}
}

// handlePostgresError maps low-level failures onto the domain taxonomy.
func handlePostgresError(operation string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return fmt.Errorf("%w: %s", contentworkflow.ErrDuplicate, pgErr.ConstraintName)
		case "23503": // foreign_key_violation
			return fmt.Errorf("referenced record not found in %s: %s", operation, pgErr.ConstraintName)
		case "23502": // not_null_violation
			return fmt.Errorf("required field %s is missing", pgErr.ColumnName)
		default:
			return fmt.Errorf("database error in %s: %s (code: %s)", operation, pgErr.Message, pgErr.Code)
		}
	}
	return fmt.Errorf("database error in %s: %w", operation, err)
}

// Asset operations

func (r *Repository) CreateAsset(ctx context.Context, asset *contentworkflow.Asset) error {
	workflowLog, err := json.Marshal(asset.WorkflowLog)
	if err != nil {
		return fmt.Errorf("failed to encode workflow log: %w", err)
	}

	query := `
		INSERT INTO asset (
			id, asset_name, asset_type, category, format, status,
			seo_score, grammar_score, qc_score, qc_remarks, rework_count,
			linking_active, workflow_log, submitted_by, submitted_at,
			qc_reviewer_id, qc_reviewed_at, file_object_key, file_name,
			file_size, mime_type, created_by, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13,
			$14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24)`

	_, err = r.db.Exec(ctx, query,
		asset.ID, asset.Name, asset.AssetType, asset.Category, asset.Format, asset.Status,
		asset.SEOScore, asset.GrammarScore, asset.QCScore, asset.QCRemarks, asset.ReworkCount,
		asset.LinkingActive, workflowLog, asset.SubmittedBy, asset.SubmittedAt,
		asset.QCReviewerID, asset.QCReviewedAt, asset.FileObjectKey, asset.FileName,
		asset.FileSize, asset.MimeType, asset.CreatedBy, asset.CreatedAt, asset.UpdatedAt)
	if err != nil {
		return handlePostgresError("create asset", err)
	}
	return nil
}

func (r *Repository) GetAsset(ctx context.Context, id uuid.UUID) (*contentworkflow.Asset, error) {
	query := `
		SELECT id, asset_name, asset_type, category, format, status,
			seo_score, grammar_score, qc_score, qc_remarks, rework_count,
			linking_active, workflow_log, submitted_by, submitted_at,
			qc_reviewer_id, qc_reviewed_at, file_object_key, file_name,
			file_size, mime_type, created_by, created_at, updated_at
		FROM asset WHERE id = $1`

	return r.scanAsset(r.db.QueryRow(ctx, query, id))
}

func (r *Repository) scanAsset(row pgx.Row) (*contentworkflow.Asset, error) {
	var asset contentworkflow.Asset
	var workflowLog []byte

	err := row.Scan(&asset.ID, &asset.Name, &asset.AssetType, &asset.Category, &asset.Format, &asset.Status,
		&asset.SEOScore, &asset.GrammarScore, &asset.QCScore, &asset.QCRemarks, &asset.ReworkCount,
		&asset.LinkingActive, &workflowLog, &asset.SubmittedBy, &asset.SubmittedAt,
		&asset.QCReviewerID, &asset.QCReviewedAt, &asset.FileObjectKey, &asset.FileName,
		&asset.FileSize, &asset.MimeType, &asset.CreatedBy, &asset.CreatedAt, &asset.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, contentworkflow.ErrAssetNotFound
		}
		return nil, handlePostgresError("get asset", err)
	}

	if len(workflowLog) > 0 {
		if err := json.Unmarshal(workflowLog, &asset.WorkflowLog); err != nil {
			return nil, fmt.Errorf("failed to decode workflow log: %w", err)
		}
	}
	return &asset, nil
}

func (r *Repository) UpdateAsset(ctx context.Context, asset *contentworkflow.Asset) error {
	workflowLog, err := json.Marshal(asset.WorkflowLog)
	if err != nil {
		return fmt.Errorf("failed to encode workflow log: %w", err)
	}

	query := `
		UPDATE asset SET
			asset_name = $2, asset_type = $3, category = $4, format = $5, status = $6,
			seo_score = $7, grammar_score = $8, qc_score = $9, qc_remarks = $10,
			rework_count = $11, linking_active = $12, workflow_log = $13,
			submitted_by = $14, submitted_at = $15, qc_reviewer_id = $16,
			qc_reviewed_at = $17, file_object_key = $18, file_name = $19,
			file_size = $20, mime_type = $21, updated_at = $22
		WHERE id = $1`

	tag, err := r.db.Exec(ctx, query,
		asset.ID, asset.Name, asset.AssetType, asset.Category, asset.Format, asset.Status,
		asset.SEOScore, asset.GrammarScore, asset.QCScore, asset.QCRemarks,
		asset.ReworkCount, asset.LinkingActive, workflowLog,
		asset.SubmittedBy, asset.SubmittedAt, asset.QCReviewerID,
		asset.QCReviewedAt, asset.FileObjectKey, asset.FileName,
		asset.FileSize, asset.MimeType, asset.UpdatedAt)
	if err != nil {
		return handlePostgresError("update asset", err)
	}
	if tag.RowsAffected() == 0 {
		return contentworkflow.ErrAssetNotFound
	}
	return nil
}

func (r *Repository) DeleteAsset(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM asset WHERE id = $1`, id)
	if err != nil {
		return handlePostgresError("delete asset", err)
	}
	if tag.RowsAffected() == 0 {
		return contentworkflow.ErrAssetNotFound
	}
	return nil
}

func (r *Repository) ListAssets(ctx context.Context, params contentworkflow.ListAssetsParams) ([]*contentworkflow.Asset, error) {
	query := `
		SELECT id, asset_name, asset_type, category, format, status,
			seo_score, grammar_score, qc_score, qc_remarks, rework_count,
			linking_active, workflow_log, submitted_by, submitted_at,
			qc_reviewer_id, qc_reviewed_at, file_object_key, file_name,
			file_size, mime_type, created_by, created_at, updated_at
		FROM asset WHERE 1=1`
	args := []interface{}{}
	argPos := 1

	if params.Status != nil {
		query += fmt.Sprintf(" AND status = $%d", argPos)
		args = append(args, *params.Status)
		argPos++
	}
	if params.SubmittedBy != nil {
		query += fmt.Sprintf(" AND submitted_by = $%d", argPos)
		args = append(args, *params.SubmittedBy)
		argPos++
	}
	if params.CreatedBy != nil {
		query += fmt.Sprintf(" AND created_by = $%d", argPos)
		args = append(args, *params.CreatedBy)
		argPos++
	}
	query += " ORDER BY created_at ASC"
	if params.Limit != nil {
		query += fmt.Sprintf(" LIMIT $%d", argPos)
		args = append(args, *params.Limit)
		argPos++
	}
	if params.Offset != nil {
		query += fmt.Sprintf(" OFFSET $%d", argPos)
		args = append(args, *params.Offset)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, handlePostgresError("list assets", err)
	}
	defer rows.Close()

	var assets []*contentworkflow.Asset
	for rows.Next() {
		asset, err := r.scanAsset(rows)
		if err != nil {
			return nil, err
		}
		assets = append(assets, asset)
	}
	return assets, rows.Err()
}

// QC review operations

func (r *Repository) CreateQCReview(ctx context.Context, review *contentworkflow.QCReview) error {
	checklist, err := json.Marshal(review.ChecklistItems)
	if err != nil {
		return fmt.Errorf("failed to encode checklist: %w", err)
	}

	query := `
		INSERT INTO qc_review (
			id, asset_id, reviewer_id, score, decision,
			checklist_completion, checklist_items, remarks, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err = r.db.Exec(ctx, query,
		review.ID, review.AssetID, review.ReviewerID, review.Score, review.Decision,
		review.ChecklistCompletion, checklist, review.Remarks, review.CreatedAt)
	if err != nil {
		return handlePostgresError("create qc review", err)
	}
	return nil
}

func (r *Repository) ListQCReviewsByAsset(ctx context.Context, assetID uuid.UUID) ([]*contentworkflow.QCReview, error) {
	query := `
		SELECT id, asset_id, reviewer_id, score, decision,
			checklist_completion, checklist_items, remarks, created_at
		FROM qc_review WHERE asset_id = $1 ORDER BY created_at ASC`

	rows, err := r.db.Query(ctx, query, assetID)
	if err != nil {
		return nil, handlePostgresError("list qc reviews", err)
	}
	defer rows.Close()

	var reviews []*contentworkflow.QCReview
	for rows.Next() {
		var review contentworkflow.QCReview
		var checklist []byte
		err := rows.Scan(&review.ID, &review.AssetID, &review.ReviewerID, &review.Score, &review.Decision,
			&review.ChecklistCompletion, &checklist, &review.Remarks, &review.CreatedAt)
		if err != nil {
			return nil, handlePostgresError("list qc reviews", err)
		}
		if len(checklist) > 0 {
			if err := json.Unmarshal(checklist, &review.ChecklistItems); err != nil {
				return nil, fmt.Errorf("failed to decode checklist: %w", err)
			}
		}
		reviews = append(reviews, &review)
	}
	return reviews, rows.Err()
}

// Working copy operations

func (r *Repository) CreateContent(ctx context.Context, content *contentworkflow.Content) error {
	linkedIDs, err := json.Marshal(content.LinkedServiceIDs)
	if err != nil {
		return fmt.Errorf("failed to encode linked service ids: %w", err)
	}

	query := `
		INSERT INTO content (
			id, heading, subheading, body, meta_title, meta_description,
			keywords, og_title, og_description, status, linked_service_ids,
			linked_campaign_id, pulled_by, reviewed_by, reviewed_at,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`

	_, err = r.db.Exec(ctx, query,
		content.ID, content.Heading, content.Subheading, content.Body, content.MetaTitle,
		content.MetaDescription, content.Keywords, content.OGTitle, content.OGDescription,
		content.Status, linkedIDs, content.LinkedCampaignID, content.PulledBy,
		content.ReviewedBy, content.ReviewedAt, content.CreatedAt, content.UpdatedAt)
	if err != nil {
		return handlePostgresError("create content", err)
	}
	return nil
}

func (r *Repository) GetContent(ctx context.Context, id uuid.UUID) (*contentworkflow.Content, error) {
	query := `
		SELECT id, heading, subheading, body, meta_title, meta_description,
			keywords, og_title, og_description, status, linked_service_ids,
			linked_campaign_id, pulled_by, reviewed_by, reviewed_at,
			created_at, updated_at
		FROM content WHERE id = $1`

	var content contentworkflow.Content
	var linkedIDs []byte
	err := r.db.QueryRow(ctx, query, id).Scan(
		&content.ID, &content.Heading, &content.Subheading, &content.Body, &content.MetaTitle,
		&content.MetaDescription, &content.Keywords, &content.OGTitle, &content.OGDescription,
		&content.Status, &linkedIDs, &content.LinkedCampaignID, &content.PulledBy,
		&content.ReviewedBy, &content.ReviewedAt, &content.CreatedAt, &content.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, contentworkflow.ErrContentNotFound
		}
		return nil, handlePostgresError("get content", err)
	}

	if len(linkedIDs) > 0 {
		if err := json.Unmarshal(linkedIDs, &content.LinkedServiceIDs); err != nil {
			return nil, fmt.Errorf("failed to decode linked service ids: %w", err)
		}
	}
	return &content, nil
}

func (r *Repository) UpdateContent(ctx context.Context, content *contentworkflow.Content) error {
	linkedIDs, err := json.Marshal(content.LinkedServiceIDs)
	if err != nil {
		return fmt.Errorf("failed to encode linked service ids: %w", err)
	}

	query := `
		UPDATE content SET
			heading = $2, subheading = $3, body = $4, meta_title = $5,
			meta_description = $6, keywords = $7, og_title = $8,
			og_description = $9, status = $10, linked_service_ids = $11,
			reviewed_by = $12, reviewed_at = $13, updated_at = $14
		WHERE id = $1`

	tag, err := r.db.Exec(ctx, query,
		content.ID, content.Heading, content.Subheading, content.Body, content.MetaTitle,
		content.MetaDescription, content.Keywords, content.OGTitle, content.OGDescription,
		content.Status, linkedIDs, content.ReviewedBy, content.ReviewedAt, content.UpdatedAt)
	if err != nil {
		return handlePostgresError("update content", err)
	}
	if tag.RowsAffected() == 0 {
		return contentworkflow.ErrContentNotFound
	}
	return nil
}

// Service master operations

func (r *Repository) CreateService(ctx context.Context, service *contentworkflow.Service) error {
	query := `
		INSERT INTO service (
			id, name, heading, subheading, body, meta_title, meta_description,
			keywords, og_title, og_description, version_number,
			subservice_count, has_subservices, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`

	_, err := r.db.Exec(ctx, query,
		service.ID, service.Name, service.Heading, service.Subheading, service.Body,
		service.MetaTitle, service.MetaDescription, service.Keywords, service.OGTitle,
		service.OGDescription, service.VersionNumber, service.SubserviceCount,
		service.HasSubservices, service.CreatedAt, service.UpdatedAt)
	if err != nil {
		return handlePostgresError("create service", err)
	}
	return nil
}

func (r *Repository) GetService(ctx context.Context, id uuid.UUID) (*contentworkflow.Service, error) {
	query := `
		SELECT id, name, heading, subheading, body, meta_title, meta_description,
			keywords, og_title, og_description, version_number,
			subservice_count, has_subservices, created_at, updated_at
		FROM service WHERE id = $1`

	var service contentworkflow.Service
	err := r.db.QueryRow(ctx, query, id).Scan(
		&service.ID, &service.Name, &service.Heading, &service.Subheading, &service.Body,
		&service.MetaTitle, &service.MetaDescription, &service.Keywords, &service.OGTitle,
		&service.OGDescription, &service.VersionNumber, &service.SubserviceCount,
		&service.HasSubservices, &service.CreatedAt, &service.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, contentworkflow.ErrServiceNotFound
		}
		return nil, handlePostgresError("get service", err)
	}
	return &service, nil
}

// UpdateService writes the master row only if its stored version_number
// still equals expectedVersion, so a racing promotion surfaces as
// ErrVersionConflict instead of silently dropping the other writer's bump.
func (r *Repository) UpdateService(ctx context.Context, service *contentworkflow.Service, expectedVersion int) error {
	query := `
		UPDATE service SET
			name = $2, heading = $3, subheading = $4, body = $5, meta_title = $6,
			meta_description = $7, keywords = $8, og_title = $9, og_description = $10,
			version_number = $11, subservice_count = $12, has_subservices = $13,
			updated_at = $14
		WHERE id = $1 AND version_number = $15`

	tag, err := r.db.Exec(ctx, query,
		service.ID, service.Name, service.Heading, service.Subheading, service.Body,
		service.MetaTitle, service.MetaDescription, service.Keywords, service.OGTitle,
		service.OGDescription, service.VersionNumber, service.SubserviceCount,
		service.HasSubservices, service.UpdatedAt, expectedVersion)
	if err != nil {
		return handlePostgresError("update service", err)
	}
	if tag.RowsAffected() == 0 {
		// distinguish a missing row from a lost race
		if _, err := r.GetService(ctx, service.ID); err != nil {
			return err
		}
		return fmt.Errorf("%w: service %s moved past version %d",
			contentworkflow.ErrVersionConflict, service.ID, expectedVersion)
	}
	return nil
}

// Sub-service operations

func (r *Repository) CreateSubService(ctx context.Context, sub *contentworkflow.SubService) error {
	query := `
		INSERT INTO sub_service (id, parent_service_id, name, heading, body, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.Exec(ctx, query,
		sub.ID, sub.ParentServiceID, sub.Name, sub.Heading, sub.Body, sub.CreatedAt, sub.UpdatedAt)
	if err != nil {
		return handlePostgresError("create sub-service", err)
	}
	return nil
}

func (r *Repository) GetSubService(ctx context.Context, id uuid.UUID) (*contentworkflow.SubService, error) {
	query := `
		SELECT id, parent_service_id, name, heading, body, created_at, updated_at
		FROM sub_service WHERE id = $1`

	var sub contentworkflow.SubService
	err := r.db.QueryRow(ctx, query, id).Scan(
		&sub.ID, &sub.ParentServiceID, &sub.Name, &sub.Heading, &sub.Body, &sub.CreatedAt, &sub.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, contentworkflow.ErrSubServiceNotFound
		}
		return nil, handlePostgresError("get sub-service", err)
	}
	return &sub, nil
}

func (r *Repository) UpdateSubService(ctx context.Context, sub *contentworkflow.SubService) error {
	query := `
		UPDATE sub_service SET parent_service_id = $2, name = $3, heading = $4, body = $5, updated_at = $6
		WHERE id = $1`

	tag, err := r.db.Exec(ctx, query,
		sub.ID, sub.ParentServiceID, sub.Name, sub.Heading, sub.Body, sub.UpdatedAt)
	if err != nil {
		return handlePostgresError("update sub-service", err)
	}
	if tag.RowsAffected() == 0 {
		return contentworkflow.ErrSubServiceNotFound
	}
	return nil
}

func (r *Repository) DeleteSubService(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM sub_service WHERE id = $1`, id)
	if err != nil {
		return handlePostgresError("delete sub-service", err)
	}
	if tag.RowsAffected() == 0 {
		return contentworkflow.ErrSubServiceNotFound
	}
	return nil
}

func (r *Repository) CountSubServices(ctx context.Context, parentServiceID uuid.UUID) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM sub_service WHERE parent_service_id = $1`, parentServiceID).Scan(&count)
	if err != nil {
		return 0, handlePostgresError("count sub-services", err)
	}
	return count, nil
}

// InTx runs fn inside a single database transaction. Nested calls reuse the
// current transaction.
func (r *Repository) InTx(ctx context.Context, fn func(contentworkflow.Repository) error) error {
	if r.pool == nil {
		// already inside a transaction (or plain connection): run as-is
		return fn(r)
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return handlePostgresError("begin transaction", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(New(tx)); err != nil {
		return err
	}
	return tx.Commit(ctx)
}
