package contentworkflow

import (
	"errors"
	"testing"
)

// TestCanSubmitAsset tests the canSubmitAsset validation function
func TestCanSubmitAsset(t *testing.T) {
	tests := []struct {
		name      string
		status    AssetStatus
		wantOK    bool
		wantError error
	}{
		{
			name:      "allow: draft",
			status:    AssetStatusDraft,
			wantOK:    true,
			wantError: nil,
		},
		{
			name:      "allow: rework_required",
			status:    AssetStatusReworkRequired,
			wantOK:    true,
			wantError: nil,
		},
		{
			name:      "deny: pending_qc_review",
			status:    AssetStatusPendingReview,
			wantOK:    false,
			wantError: ErrInvalidTransition,
		},
		{
			name:      "deny: qc_approved is terminal",
			status:    AssetStatusApproved,
			wantOK:    false,
			wantError: ErrInvalidTransition,
		},
		{
			name:      "deny: qc_rejected is terminal",
			status:    AssetStatusRejected,
			wantOK:    false,
			wantError: ErrInvalidTransition,
		},
		{
			name:      "deny: unknown status",
			status:    AssetStatus("bogus"),
			wantOK:    false,
			wantError: ErrInvalidTransition,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, err := canSubmitAsset(tt.status)
			if ok != tt.wantOK {
				t.Errorf("canSubmitAsset(%q) ok = %v, want %v", tt.status, ok, tt.wantOK)
			}
			if tt.wantError == nil && err != nil {
				t.Errorf("canSubmitAsset(%q) unexpected error: %v", tt.status, err)
			}
			if tt.wantError != nil && !errors.Is(err, tt.wantError) {
				t.Errorf("canSubmitAsset(%q) error = %v, want %v", tt.status, err, tt.wantError)
			}
		})
	}
}

// TestCanReviewAsset tests the canReviewAsset validation function
func TestCanReviewAsset(t *testing.T) {
	tests := []struct {
		name      string
		status    AssetStatus
		wantOK    bool
		wantError error
	}{
		{
			name:      "allow: pending_qc_review",
			status:    AssetStatusPendingReview,
			wantOK:    true,
			wantError: nil,
		},
		{
			name:      "deny: draft",
			status:    AssetStatusDraft,
			wantOK:    false,
			wantError: ErrInvalidTransition,
		},
		{
			name:      "deny: rework_required must be resubmitted",
			status:    AssetStatusReworkRequired,
			wantOK:    false,
			wantError: ErrInvalidTransition,
		},
		{
			name:      "deny: qc_approved",
			status:    AssetStatusApproved,
			wantOK:    false,
			wantError: ErrInvalidTransition,
		},
		{
			name:      "deny: qc_rejected",
			status:    AssetStatusRejected,
			wantOK:    false,
			wantError: ErrInvalidTransition,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, err := canReviewAsset(tt.status)
			if ok != tt.wantOK {
				t.Errorf("canReviewAsset(%q) ok = %v, want %v", tt.status, ok, tt.wantOK)
			}
			if tt.wantError != nil && !errors.Is(err, tt.wantError) {
				t.Errorf("canReviewAsset(%q) error = %v, want %v", tt.status, err, tt.wantError)
			}
		})
	}
}

// TestCanEditAsset tests the canEditAsset validation function
func TestCanEditAsset(t *testing.T) {
	tests := []struct {
		name      string
		status    AssetStatus
		wantOK    bool
		wantError error
	}{
		{
			name:      "allow: pending_qc_review",
			status:    AssetStatusPendingReview,
			wantOK:    true,
			wantError: nil,
		},
		{
			name:      "allow: rework_required",
			status:    AssetStatusReworkRequired,
			wantOK:    true,
			wantError: nil,
		},
		{
			name:      "deny: draft",
			status:    AssetStatusDraft,
			wantOK:    false,
			wantError: ErrNotEditable,
		},
		{
			name:      "deny: qc_approved is read-only",
			status:    AssetStatusApproved,
			wantOK:    false,
			wantError: ErrNotEditable,
		},
		{
			name:      "deny: qc_rejected is read-only",
			status:    AssetStatusRejected,
			wantOK:    false,
			wantError: ErrNotEditable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, err := canEditAsset(tt.status)
			if ok != tt.wantOK {
				t.Errorf("canEditAsset(%q) ok = %v, want %v", tt.status, ok, tt.wantOK)
			}
			if tt.wantError != nil && !errors.Is(err, tt.wantError) {
				t.Errorf("canEditAsset(%q) error = %v, want %v", tt.status, err, tt.wantError)
			}
		})
	}
}

// TestCanPromoteContent tests the canPromoteContent validation function
func TestCanPromoteContent(t *testing.T) {
	tests := []struct {
		name      string
		status    ContentStatus
		wantOK    bool
		wantError error
	}{
		{
			name:      "allow: qc_passed",
			status:    ContentStatusQCPassed,
			wantOK:    true,
			wantError: nil,
		},
		{
			name:      "allow: published can be promoted again",
			status:    ContentStatusPublished,
			wantOK:    true,
			wantError: nil,
		},
		{
			name:      "deny: draft has not passed QC",
			status:    ContentStatusDraft,
			wantOK:    false,
			wantError: ErrNotPromotable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, err := canPromoteContent(tt.status)
			if ok != tt.wantOK {
				t.Errorf("canPromoteContent(%q) ok = %v, want %v", tt.status, ok, tt.wantOK)
			}
			if tt.wantError != nil && !errors.Is(err, tt.wantError) {
				t.Errorf("canPromoteContent(%q) error = %v, want %v", tt.status, err, tt.wantError)
			}
		})
	}
}

// TestCanEditContent tests the canEditContent validation function
func TestCanEditContent(t *testing.T) {
	tests := []struct {
		name      string
		status    ContentStatus
		wantOK    bool
		wantError error
	}{
		{name: "allow: draft", status: ContentStatusDraft, wantOK: true},
		{name: "deny: qc_passed is frozen", status: ContentStatusQCPassed, wantOK: false, wantError: ErrNotEditable},
		{name: "deny: published", status: ContentStatusPublished, wantOK: false, wantError: ErrNotEditable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, err := canEditContent(tt.status)
			if ok != tt.wantOK {
				t.Errorf("canEditContent(%q) ok = %v, want %v", tt.status, ok, tt.wantOK)
			}
			if tt.wantError != nil && !errors.Is(err, tt.wantError) {
				t.Errorf("canEditContent(%q) error = %v, want %v", tt.status, err, tt.wantError)
			}
		})
	}
}

// TestValidDecision tests the validDecision validation function
func TestValidDecision(t *testing.T) {
	for _, decision := range []QCDecision{DecisionApproved, DecisionRejected, DecisionRework} {
		if err := validDecision(decision); err != nil {
			t.Errorf("validDecision(%q) unexpected error: %v", decision, err)
		}
	}

	for _, decision := range []QCDecision{"", "maybe", "APPROVED"} {
		if err := validDecision(decision); !errors.Is(err, ErrInvalidDecision) {
			t.Errorf("validDecision(%q) error = %v, want ErrInvalidDecision", decision, err)
		}
	}
}

// TestValidateSubmissionScores tests score presence and range checks
func TestValidateSubmissionScores(t *testing.T) {
	intPtr := func(v int) *int { return &v }

	tests := []struct {
		name         string
		seoScore     *int
		grammarScore *int
		wantError    error
	}{
		{name: "both present and in range", seoScore: intPtr(80), grammarScore: intPtr(90), wantError: nil},
		{name: "boundary: zero", seoScore: intPtr(0), grammarScore: intPtr(0), wantError: nil},
		{name: "boundary: hundred", seoScore: intPtr(100), grammarScore: intPtr(100), wantError: nil},
		{name: "missing seo score", seoScore: nil, grammarScore: intPtr(90), wantError: ErrMissingScore},
		{name: "missing grammar score", seoScore: intPtr(80), grammarScore: nil, wantError: ErrMissingScore},
		{name: "both missing", seoScore: nil, grammarScore: nil, wantError: ErrMissingScore},
		{name: "seo score below range", seoScore: intPtr(-1), grammarScore: intPtr(90), wantError: ErrInvalidScore},
		{name: "grammar score above range", seoScore: intPtr(80), grammarScore: intPtr(101), wantError: ErrInvalidScore},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateSubmissionScores(tt.seoScore, tt.grammarScore)
			if tt.wantError == nil && err != nil {
				t.Errorf("validateSubmissionScores() unexpected error: %v", err)
			}
			if tt.wantError != nil && !errors.Is(err, tt.wantError) {
				t.Errorf("validateSubmissionScores() error = %v, want %v", err, tt.wantError)
			}
		})
	}
}
