package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// EnsureSchema creates the workflow tables if they do not exist. Intended for
// development and test bootstrap; production deployments run migrations out
// of band.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS asset (
			id UUID PRIMARY KEY,
			asset_name VARCHAR(255) NOT NULL,
			asset_type VARCHAR(100),
			category VARCHAR(100),
			format VARCHAR(100),
			status VARCHAR(50) NOT NULL DEFAULT 'draft',
			seo_score INTEGER,
			grammar_score INTEGER,
			qc_score INTEGER,
			qc_remarks TEXT,
			rework_count INTEGER NOT NULL DEFAULT 0,
			linking_active BOOLEAN NOT NULL DEFAULT FALSE,
			workflow_log JSONB DEFAULT '[]'::jsonb,
			submitted_by UUID,
			submitted_at TIMESTAMP,
			qc_reviewer_id UUID,
			qc_reviewed_at TIMESTAMP,
			file_object_key VARCHAR(512),
			file_name VARCHAR(255),
			file_size BIGINT,
			mime_type VARCHAR(255),
			created_by UUID NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT (now() AT TIME ZONE 'utc'),
			updated_at TIMESTAMP NOT NULL DEFAULT (now() AT TIME ZONE 'utc')
		)`,
		`CREATE TABLE IF NOT EXISTS qc_review (
			id UUID PRIMARY KEY,
			asset_id UUID NOT NULL REFERENCES asset(id) ON DELETE CASCADE,
			reviewer_id UUID NOT NULL,
			score INTEGER NOT NULL,
			decision VARCHAR(20) NOT NULL,
			checklist_completion INTEGER NOT NULL DEFAULT 0,
			checklist_items JSONB DEFAULT '{}'::jsonb,
			remarks TEXT,
			created_at TIMESTAMP NOT NULL DEFAULT (now() AT TIME ZONE 'utc')
		)`,
		`CREATE TABLE IF NOT EXISTS service (
			id UUID PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			heading TEXT,
			subheading TEXT,
			body TEXT,
			meta_title VARCHAR(255),
			meta_description TEXT,
			keywords TEXT,
			og_title VARCHAR(255),
			og_description TEXT,
			version_number INTEGER NOT NULL DEFAULT 1,
			subservice_count INTEGER NOT NULL DEFAULT 0,
			has_subservices BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMP NOT NULL DEFAULT (now() AT TIME ZONE 'utc'),
			updated_at TIMESTAMP NOT NULL DEFAULT (now() AT TIME ZONE 'utc')
		)`,
		`CREATE TABLE IF NOT EXISTS sub_service (
			id UUID PRIMARY KEY,
			parent_service_id UUID NOT NULL REFERENCES service(id) ON DELETE CASCADE,
			name VARCHAR(255) NOT NULL,
			heading TEXT,
			body TEXT,
			created_at TIMESTAMP NOT NULL DEFAULT (now() AT TIME ZONE 'utc'),
			updated_at TIMESTAMP NOT NULL DEFAULT (now() AT TIME ZONE 'utc')
		)`,
		`CREATE TABLE IF NOT EXISTS content (
			id UUID PRIMARY KEY,
			heading TEXT,
			subheading TEXT,
			body TEXT,
			meta_title VARCHAR(255),
			meta_description TEXT,
			keywords TEXT,
			og_title VARCHAR(255),
			og_description TEXT,
			status VARCHAR(50) NOT NULL DEFAULT 'draft',
			linked_service_ids JSONB DEFAULT '[]'::jsonb,
			linked_campaign_id UUID,
			pulled_by UUID NOT NULL,
			reviewed_by UUID,
			reviewed_at TIMESTAMP,
			created_at TIMESTAMP NOT NULL DEFAULT (now() AT TIME ZONE 'utc'),
			updated_at TIMESTAMP NOT NULL DEFAULT (now() AT TIME ZONE 'utc')
		)`,
		`CREATE INDEX IF NOT EXISTS idx_asset_status ON asset(status)`,
		`CREATE INDEX IF NOT EXISTS idx_asset_submitted_by ON asset(submitted_by)`,
		`CREATE INDEX IF NOT EXISTS idx_qc_review_asset_id ON qc_review(asset_id)`,
		`CREATE INDEX IF NOT EXISTS idx_sub_service_parent ON sub_service(parent_service_id)`,
		`CREATE INDEX IF NOT EXISTS idx_content_campaign ON content(linked_campaign_id)`,
	}

	for _, stmt := range statements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}
