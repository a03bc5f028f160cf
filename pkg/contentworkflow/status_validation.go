package contentworkflow

import "fmt"

// canSubmitAsset checks if an asset can be submitted for QC review based on
// its current status. Returns true if submission is allowed, false with an
// error otherwise.
//
// Rework is the only path back into review; qc_approved and qc_rejected are
// terminal.
func canSubmitAsset(status AssetStatus) (bool, error) {
	switch status {
	case AssetStatusDraft, AssetStatusReworkRequired:
		return true, nil
	case AssetStatusPendingReview:
		return false, fmt.Errorf("%w: asset is already awaiting review (status: %s)", ErrInvalidTransition, status)
	case AssetStatusApproved:
		return false, fmt.Errorf("%w: asset has already been approved (status: %s)", ErrInvalidTransition, status)
	case AssetStatusRejected:
		return false, fmt.Errorf("%w: asset has been rejected (status: %s)", ErrInvalidTransition, status)
	default:
		return false, fmt.Errorf("%w: unknown status %s", ErrInvalidTransition, status)
	}
}

// canReviewAsset checks if a QC decision can be recorded for an asset based
// on its current status. Only assets awaiting review can be reviewed.
func canReviewAsset(status AssetStatus) (bool, error) {
	switch status {
	case AssetStatusPendingReview:
		return true, nil
	case AssetStatusDraft:
		return false, fmt.Errorf("%w: asset has not been submitted for review (status: %s)", ErrInvalidTransition, status)
	case AssetStatusReworkRequired:
		return false, fmt.Errorf("%w: asset must be resubmitted before review (status: %s)", ErrInvalidTransition, status)
	case AssetStatusApproved, AssetStatusRejected:
		return false, fmt.Errorf("%w: asset review is already final (status: %s)", ErrInvalidTransition, status)
	default:
		return false, fmt.Errorf("%w: unknown status %s", ErrInvalidTransition, status)
	}
}

// canEditAsset checks if an asset can be edited or deleted based on its
// current status. Edits are only permitted while the asset is in review or
// flagged for rework; ownership is checked separately by the caller.
func canEditAsset(status AssetStatus) (bool, error) {
	switch status {
	case AssetStatusPendingReview, AssetStatusReworkRequired:
		return true, nil
	case AssetStatusDraft:
		return false, fmt.Errorf("%w: asset has not been submitted yet (status: %s)", ErrNotEditable, status)
	case AssetStatusApproved:
		return false, fmt.Errorf("%w: approved assets are read-only (status: %s)", ErrNotEditable, status)
	case AssetStatusRejected:
		return false, fmt.Errorf("%w: rejected assets are read-only (status: %s)", ErrNotEditable, status)
	default:
		return false, fmt.Errorf("%w: unknown status %s", ErrNotEditable, status)
	}
}

// canEditContent checks if a working copy can still be mutated. Working
// copies are only editable while in draft.
func canEditContent(status ContentStatus) (bool, error) {
	switch status {
	case ContentStatusDraft:
		return true, nil
	case ContentStatusQCPassed:
		return false, fmt.Errorf("%w: working copy has passed QC and is frozen (status: %s)", ErrNotEditable, status)
	case ContentStatusPublished:
		return false, fmt.Errorf("%w: working copy has been published (status: %s)", ErrNotEditable, status)
	default:
		return false, fmt.Errorf("%w: unknown status %s", ErrNotEditable, status)
	}
}

// canPassContentQC checks if a working copy can move through its QC gate.
func canPassContentQC(status ContentStatus) (bool, error) {
	switch status {
	case ContentStatusDraft:
		return true, nil
	case ContentStatusQCPassed:
		return false, fmt.Errorf("%w: working copy has already passed QC (status: %s)", ErrInvalidTransition, status)
	case ContentStatusPublished:
		return false, fmt.Errorf("%w: working copy has already been published (status: %s)", ErrInvalidTransition, status)
	default:
		return false, fmt.Errorf("%w: unknown status %s", ErrInvalidTransition, status)
	}
}

// canPromoteContent checks if a working copy may be merged into its master
// record. A working copy that has not passed its own QC gate can never be
// promoted.
func canPromoteContent(status ContentStatus) (bool, error) {
	switch status {
	case ContentStatusQCPassed, ContentStatusPublished:
		return true, nil
	case ContentStatusDraft:
		return false, fmt.Errorf("%w: working copy has not passed QC (status: %s)", ErrNotPromotable, status)
	default:
		return false, fmt.Errorf("%w: unknown status %s", ErrNotPromotable, status)
	}
}

// validDecision checks that a QC decision is one of the known outcomes.
func validDecision(decision QCDecision) error {
	switch decision {
	case DecisionApproved, DecisionRejected, DecisionRework:
		return nil
	default:
		return fmt.Errorf("%w: %q (want approved, rejected or rework)", ErrInvalidDecision, decision)
	}
}

// validateScoreRange checks a single score against [MinScore, MaxScore].
// The field name is carried in the error for the caller.
func validateScoreRange(field string, score int) error {
	if score < MinScore || score > MaxScore {
		return fmt.Errorf("%w: %s must be between %d and %d, got %d", ErrInvalidScore, field, MinScore, MaxScore, score)
	}
	return nil
}

// validateAssetPatchScores checks any scores carried by an edit patch. Nil
// fields are untouched by the patch and need no check.
func validateAssetPatchScores(patch AssetPatch) error {
	if patch.SEOScore != nil {
		if err := validateScoreRange("seo_score", *patch.SEOScore); err != nil {
			return err
		}
	}
	if patch.GrammarScore != nil {
		if err := validateScoreRange("grammar_score", *patch.GrammarScore); err != nil {
			return err
		}
	}
	return nil
}

// validateSubmissionScores checks that both pre-submission scores are present
// and in range. The first offending field is named in the error.
func validateSubmissionScores(seoScore, grammarScore *int) error {
	if seoScore == nil {
		return fmt.Errorf("%w: seo_score is required before submission", ErrMissingScore)
	}
	if grammarScore == nil {
		return fmt.Errorf("%w: grammar_score is required before submission", ErrMissingScore)
	}
	if err := validateScoreRange("seo_score", *seoScore); err != nil {
		return err
	}
	return validateScoreRange("grammar_score", *grammarScore)
}
