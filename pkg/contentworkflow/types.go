package contentworkflow

import (
	"time"

	"github.com/google/uuid"
)

// AssetStatus is the domain type for asset lifecycle states.
type AssetStatus string

// Asset status constants (typed).
const (
	AssetStatusDraft          AssetStatus = "draft"
	AssetStatusPendingReview  AssetStatus = "pending_qc_review"
	AssetStatusApproved       AssetStatus = "qc_approved"
	AssetStatusRejected       AssetStatus = "qc_rejected"
	AssetStatusReworkRequired AssetStatus = "rework_required"
)

// ContentStatus is the domain type for working-copy lifecycle states.
type ContentStatus string

// Content status constants (typed).
const (
	ContentStatusDraft     ContentStatus = "draft"
	ContentStatusQCPassed  ContentStatus = "qc_passed"
	ContentStatusPublished ContentStatus = "published"
)

// QCDecision is the outcome of a QC review.
type QCDecision string

// QC decision constants (typed).
const (
	DecisionApproved QCDecision = "approved"
	DecisionRejected QCDecision = "rejected"
	DecisionRework   QCDecision = "rework"
)

// Role identifies the privilege level of an actor.
type Role string

// Role constants (typed).
const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// MinScore and MaxScore bound every SEO, grammar and QC score.
const (
	MinScore = 0
	MaxScore = 100
)

// WorkflowEntry is one append-only record in an asset's workflow log.
type WorkflowEntry struct {
	Action    string      `json:"action"`
	Timestamp time.Time   `json:"timestamp"`
	UserID    uuid.UUID   `json:"user_id"`
	Status    AssetStatus `json:"status"`
	Detail    string      `json:"detail,omitempty"`
}

// WorkflowLog is the ordered, append-only sequence of workflow entries for an
// asset. Entries are ordered by wall-clock submission order; the log is never
// rewritten, only appended to.
type WorkflowLog []WorkflowEntry

// ServiceIDList holds the master record IDs a working copy will be merged
// into. It is persisted as a single JSON column; encoding happens only at the
// repository edge.
type ServiceIDList []uuid.UUID

// Contains reports whether id is in the list.
func (l ServiceIDList) Contains(id uuid.UUID) bool {
	for _, v := range l {
		if v == id {
			return true
		}
	}
	return false
}

// Asset represents a piece of creative/content inventory moving through the
// QC lifecycle.
//
// ReworkCount increases only on a "rework" decision and never decreases.
// LinkingActive is true iff the most recent QC decision was "approved".
type Asset struct {
	ID            uuid.UUID   `json:"id"`
	Name          string      `json:"asset_name"`
	AssetType     string      `json:"asset_type,omitempty"`
	Category      string      `json:"category,omitempty"`
	Format        string      `json:"format,omitempty"`
	Status        AssetStatus `json:"status"`
	SEOScore      *int        `json:"seo_score,omitempty"`
	GrammarScore  *int        `json:"grammar_score,omitempty"`
	QCScore       *int        `json:"qc_score,omitempty"`
	QCRemarks     string      `json:"qc_remarks,omitempty"`
	ReworkCount   int         `json:"rework_count"`
	LinkingActive bool        `json:"linking_active"`
	WorkflowLog   WorkflowLog `json:"workflow_log,omitempty"`
	SubmittedBy   *uuid.UUID  `json:"submitted_by,omitempty"`
	SubmittedAt   *time.Time  `json:"submitted_at,omitempty"`
	QCReviewerID  *uuid.UUID  `json:"qc_reviewer_id,omitempty"`
	QCReviewedAt  *time.Time  `json:"qc_reviewed_at,omitempty"`

	// File attachment (optional). ObjectKey locates the creative file in the
	// configured blob storage backend.
	FileObjectKey string `json:"file_object_key,omitempty"`
	FileName      string `json:"file_name,omitempty"`
	FileSize      int64  `json:"file_size,omitempty"`
	MimeType      string `json:"mime_type,omitempty"`

	CreatedBy uuid.UUID `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Content is a working copy: a draft rewrite of a service's page content,
// optionally scoped to a campaign, pending its own QC gate before promotion.
type Content struct {
	ID               uuid.UUID     `json:"id"`
	Heading          string        `json:"heading,omitempty"`
	Subheading       string        `json:"subheading,omitempty"`
	Body             string        `json:"body,omitempty"`
	MetaTitle        string        `json:"meta_title,omitempty"`
	MetaDescription  string        `json:"meta_description,omitempty"`
	Keywords         string        `json:"keywords,omitempty"`
	OGTitle          string        `json:"og_title,omitempty"`
	OGDescription    string        `json:"og_description,omitempty"`
	Status           ContentStatus `json:"status"`
	LinkedServiceIDs ServiceIDList `json:"linked_service_ids,omitempty"`
	LinkedCampaignID *uuid.UUID    `json:"linked_campaign_id,omitempty"`
	PulledBy         uuid.UUID     `json:"pulled_by"`
	ReviewedBy       *uuid.UUID    `json:"reviewed_by,omitempty"`
	ReviewedAt       *time.Time    `json:"reviewed_at,omitempty"`
	CreatedAt        time.Time     `json:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at"`
}

// Service is the canonical, publicly-rendered master record.
//
// VersionNumber is strictly increasing and only the promotion path may bump
// it. SubserviceCount and HasSubservices are derived from the sub-service
// table and recomputed on every child mutation.
type Service struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	Heading         string    `json:"heading,omitempty"`
	Subheading      string    `json:"subheading,omitempty"`
	Body            string    `json:"body,omitempty"`
	MetaTitle       string    `json:"meta_title,omitempty"`
	MetaDescription string    `json:"meta_description,omitempty"`
	Keywords        string    `json:"keywords,omitempty"`
	OGTitle         string    `json:"og_title,omitempty"`
	OGDescription   string    `json:"og_description,omitempty"`
	VersionNumber   int       `json:"version_number"`
	SubserviceCount int       `json:"subservice_count"`
	HasSubservices  bool      `json:"has_subservices"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// SubService is a child master record under a parent service.
type SubService struct {
	ID              uuid.UUID `json:"id"`
	ParentServiceID uuid.UUID `json:"parent_service_id"`
	Name            string    `json:"name"`
	Heading         string    `json:"heading,omitempty"`
	Body            string    `json:"body,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// QCReview is one immutable review decision for an asset. Rows are never
// mutated after creation.
type QCReview struct {
	ID                  uuid.UUID       `json:"id"`
	AssetID             uuid.UUID       `json:"asset_id"`
	ReviewerID          uuid.UUID       `json:"reviewer_id"`
	Score               int             `json:"score"`
	Decision            QCDecision      `json:"decision"`
	ChecklistCompletion int             `json:"checklist_completion"`
	ChecklistItems      map[string]bool `json:"checklist_items,omitempty"`
	Remarks             string          `json:"remarks,omitempty"`
	CreatedAt           time.Time       `json:"created_at"`
}

// AuditEntry is an append-only record of a privileged state change. The core
// only ever writes these; it never reads them back.
type AuditEntry struct {
	ID         uuid.UUID              `json:"id"`
	ActionType string                 `json:"action_type"`
	ActorID    uuid.UUID              `json:"actor_id"`
	TargetType string                 `json:"target_type"`
	TargetID   uuid.UUID              `json:"target_id"`
	Details    map[string]interface{} `json:"details,omitempty"`
	CreatedAt  time.Time              `json:"created_at"`
}

// Actor identifies who is performing an operation and with which role. The
// identity provider (JWT middleware in the HTTP layer) supplies it; the core
// treats it as input.
type Actor struct {
	ID   uuid.UUID `json:"id"`
	Role Role      `json:"role"`
}

// IsAdmin reports whether the actor holds the admin role.
func (a Actor) IsAdmin() bool { return a.Role == RoleAdmin }
