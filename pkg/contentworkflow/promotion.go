package contentworkflow

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Working copy / promotion operations.
//
// The service master row is the one multi-writer hotspot: it is edited
// directly by admins and indirectly by every campaign's promotion. All
// version bumps go through Repository.UpdateService's compare-and-swap so a
// lost update surfaces as ErrVersionConflict instead of silently dropping a
// writer's increment.

// PullWorkingCopy snapshots a service master into a new draft working copy
// scoped to a campaign. Repeated calls create additional working copies;
// callers are responsible for not duplicating pulls.
func (w *workflow) PullWorkingCopy(ctx context.Context, req PullWorkingCopyRequest) (*Content, error) {
	svc, err := w.repository.GetService(ctx, req.ServiceID)
	if err != nil {
		return nil, &PromotionError{ServiceID: req.ServiceID, Op: "pull", Err: err}
	}

	now := time.Now().UTC()
	content := &Content{
		ID:               uuid.New(),
		Heading:          svc.Heading,
		Subheading:       svc.Subheading,
		Body:             svc.Body,
		MetaTitle:        svc.MetaTitle,
		MetaDescription:  svc.MetaDescription,
		Keywords:         svc.Keywords,
		OGTitle:          svc.OGTitle,
		OGDescription:    svc.OGDescription,
		Status:           ContentStatusDraft,
		LinkedServiceIDs: ServiceIDList{svc.ID},
		PulledBy:         req.PulledBy,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if req.CampaignID != uuid.Nil {
		campaignID := req.CampaignID
		content.LinkedCampaignID = &campaignID
	}

	if err := w.repository.CreateContent(ctx, content); err != nil {
		return nil, &PromotionError{ContentID: content.ID, ServiceID: svc.ID, Op: "pull", Err: err}
	}

	w.emit(EventContentPulled, w.events.ContentPulled(ctx, content))
	w.recordAudit(ctx, "working_copy_pulled", req.PulledBy, "content", content.ID, map[string]interface{}{
		"service_id":  svc.ID.String(),
		"campaign_id": req.CampaignID.String(),
	})

	return content, nil
}

func (w *workflow) GetWorkingCopy(ctx context.Context, id uuid.UUID) (*Content, error) {
	return w.repository.GetContent(ctx, id)
}

func (w *workflow) UpdateWorkingCopy(ctx context.Context, req UpdateWorkingCopyRequest) (*Content, error) {
	content, err := w.repository.GetContent(ctx, req.ContentID)
	if err != nil {
		return nil, &PromotionError{ContentID: req.ContentID, Op: "update", Err: err}
	}
	if _, err := canEditContent(content.Status); err != nil {
		return nil, &PromotionError{ContentID: req.ContentID, Op: "update", Err: err}
	}

	applyContentPatch(content, req.Patch)
	content.UpdatedAt = time.Now().UTC()

	if err := w.repository.UpdateContent(ctx, content); err != nil {
		return nil, &PromotionError{ContentID: req.ContentID, Op: "update", Err: err}
	}

	return content, nil
}

// PassWorkingCopyQC moves a draft working copy through its QC gate, making
// it eligible for promotion.
func (w *workflow) PassWorkingCopyQC(ctx context.Context, req PassWorkingCopyQCRequest) (*Content, error) {
	content, err := w.repository.GetContent(ctx, req.ContentID)
	if err != nil {
		return nil, &PromotionError{ContentID: req.ContentID, Op: "qc_pass", Err: err}
	}
	if _, err := canPassContentQC(content.Status); err != nil {
		return nil, &PromotionError{ContentID: req.ContentID, Op: "qc_pass", Err: err}
	}

	now := time.Now().UTC()
	content.Status = ContentStatusQCPassed
	content.ReviewedBy = &req.ReviewerID
	content.ReviewedAt = &now
	content.UpdatedAt = now

	if err := w.repository.UpdateContent(ctx, content); err != nil {
		return nil, &PromotionError{ContentID: req.ContentID, Op: "qc_pass", Err: err}
	}

	w.recordAudit(ctx, "working_copy_qc_passed", req.ReviewerID, "content", content.ID, nil)

	return content, nil
}

// PromoteWorkingCopy merges an approved working copy into one service master
// record and bumps the master's version by exactly one. The master update
// and the working-copy status change share one transaction; the two change
// events fire after commit.
func (w *workflow) PromoteWorkingCopy(ctx context.Context, req PromoteWorkingCopyRequest) (*Service, error) {
	content, err := w.repository.GetContent(ctx, req.ContentID)
	if err != nil {
		return nil, &PromotionError{ContentID: req.ContentID, ServiceID: req.ServiceID, Op: "promote", Err: err}
	}

	// the working copy must exist under the requesting campaign; a mismatch
	// reads as not-found so one campaign cannot probe another's drafts
	if req.CampaignID != uuid.Nil {
		if content.LinkedCampaignID == nil || *content.LinkedCampaignID != req.CampaignID {
			return nil, &PromotionError{ContentID: req.ContentID, ServiceID: req.ServiceID, Op: "promote",
				Err: fmt.Errorf("%w: no working copy under campaign %s", ErrContentNotFound, req.CampaignID)}
		}
	}

	if _, err := canPromoteContent(content.Status); err != nil {
		return nil, &PromotionError{ContentID: req.ContentID, ServiceID: req.ServiceID, Op: "promote", Err: err}
	}
	if !content.LinkedServiceIDs.Contains(req.ServiceID) {
		return nil, &PromotionError{ContentID: req.ContentID, ServiceID: req.ServiceID, Op: "promote",
			Err: fmt.Errorf("%w: service %s is not linked to this working copy", ErrNoLinkedService, req.ServiceID)}
	}

	svc, err := w.mergeIntoService(ctx, content, req.ServiceID)
	if err != nil {
		return nil, &PromotionError{ContentID: req.ContentID, ServiceID: req.ServiceID, Op: "promote", Err: err}
	}

	w.emit(EventServiceUpdated, w.events.ServiceUpdated(ctx, svc))
	w.emit(EventContentPublished, w.events.ContentPublished(ctx, content))
	w.recordAudit(ctx, "working_copy_promoted", req.PromotedBy, "service", svc.ID, map[string]interface{}{
		"content_id":     content.ID.String(),
		"version_number": svc.VersionNumber,
	})

	return svc, nil
}

// PublishWorkingCopy merges an approved working copy into every service it
// is linked to. Fails before any write when the copy has no linked service.
func (w *workflow) PublishWorkingCopy(ctx context.Context, req PublishWorkingCopyRequest) ([]*Service, error) {
	content, err := w.repository.GetContent(ctx, req.ContentID)
	if err != nil {
		return nil, &PromotionError{ContentID: req.ContentID, Op: "publish", Err: err}
	}
	if _, err := canPromoteContent(content.Status); err != nil {
		return nil, &PromotionError{ContentID: req.ContentID, Op: "publish", Err: err}
	}
	if len(content.LinkedServiceIDs) == 0 {
		return nil, &PromotionError{ContentID: req.ContentID, Op: "publish", Err: ErrNoLinkedService}
	}

	services := make([]*Service, 0, len(content.LinkedServiceIDs))
	for _, serviceID := range content.LinkedServiceIDs {
		svc, err := w.mergeIntoService(ctx, content, serviceID)
		if err != nil {
			return nil, &PromotionError{ContentID: req.ContentID, ServiceID: serviceID, Op: "publish", Err: err}
		}
		services = append(services, svc)
		w.emit(EventServiceUpdated, w.events.ServiceUpdated(ctx, svc))
	}

	w.emit(EventContentPublished, w.events.ContentPublished(ctx, content))
	w.recordAudit(ctx, "working_copy_published", req.PublishedBy, "content", content.ID, map[string]interface{}{
		"service_count": len(services),
	})

	return services, nil
}

// mergeIntoService copies the working copy's fields onto the master, bumps
// the version by exactly one relative to the value read here, and marks the
// copy published. Both writes share one transaction; the version bump is a
// compare-and-swap against the value read, so a racing promotion fails with
// ErrVersionConflict instead of silently absorbing the other writer's bump.
func (w *workflow) mergeIntoService(ctx context.Context, content *Content, serviceID uuid.UUID) (*Service, error) {
	svc, err := w.repository.GetService(ctx, serviceID)
	if err != nil {
		return nil, err
	}

	expected := svc.VersionNumber
	now := time.Now().UTC()

	svc.Heading = content.Heading
	svc.Subheading = content.Subheading
	svc.Body = content.Body
	svc.MetaTitle = content.MetaTitle
	svc.MetaDescription = content.MetaDescription
	svc.Keywords = content.Keywords
	svc.OGTitle = content.OGTitle
	svc.OGDescription = content.OGDescription
	svc.VersionNumber = expected + 1
	svc.UpdatedAt = now

	content.Status = ContentStatusPublished
	content.UpdatedAt = now

	err = w.repository.InTx(ctx, func(r Repository) error {
		if err := r.UpdateService(ctx, svc, expected); err != nil {
			return err
		}
		return r.UpdateContent(ctx, content)
	})
	if err != nil {
		return nil, err
	}

	return svc, nil
}

// applyContentPatch copies non-nil patch fields onto the working copy.
func applyContentPatch(content *Content, patch ContentPatch) {
	if patch.Heading != nil {
		content.Heading = *patch.Heading
	}
	if patch.Subheading != nil {
		content.Subheading = *patch.Subheading
	}
	if patch.Body != nil {
		content.Body = *patch.Body
	}
	if patch.MetaTitle != nil {
		content.MetaTitle = *patch.MetaTitle
	}
	if patch.MetaDescription != nil {
		content.MetaDescription = *patch.MetaDescription
	}
	if patch.Keywords != nil {
		content.Keywords = *patch.Keywords
	}
	if patch.OGTitle != nil {
		content.OGTitle = *patch.OGTitle
	}
	if patch.OGDescription != nil {
		content.OGDescription = *patch.OGDescription
	}
}

// Service master operations

func (w *workflow) CreateService(ctx context.Context, req CreateServiceRequest) (*Service, error) {
	now := time.Now().UTC()
	svc := &Service{
		ID:              uuid.New(),
		Name:            req.Name,
		Heading:         req.Heading,
		Subheading:      req.Subheading,
		Body:            req.Body,
		MetaTitle:       req.MetaTitle,
		MetaDescription: req.MetaDescription,
		Keywords:        req.Keywords,
		OGTitle:         req.OGTitle,
		OGDescription:   req.OGDescription,
		VersionNumber:   1,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := w.repository.CreateService(ctx, svc); err != nil {
		return nil, err
	}

	return svc, nil
}

func (w *workflow) GetService(ctx context.Context, id uuid.UUID) (*Service, error) {
	return w.repository.GetService(ctx, id)
}

// Sub-service operations. Every mutation recomputes the parent's derived
// counters from the child table; incrementing a cached counter would
// desynchronize two parents when a sub-service is reparented.

func (w *workflow) CreateSubService(ctx context.Context, req CreateSubServiceRequest) (*SubService, error) {
	if _, err := w.repository.GetService(ctx, req.ParentServiceID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	sub := &SubService{
		ID:              uuid.New(),
		ParentServiceID: req.ParentServiceID,
		Name:            req.Name,
		Heading:         req.Heading,
		Body:            req.Body,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := w.repository.CreateSubService(ctx, sub); err != nil {
		return nil, err
	}

	parent, err := w.RecomputeSubserviceCounts(ctx, sub.ParentServiceID)
	if err != nil {
		return nil, err
	}
	w.emit(EventSubServiceChanged, w.events.SubServiceChanged(ctx, sub, parent))

	return sub, nil
}

func (w *workflow) UpdateSubService(ctx context.Context, req UpdateSubServiceRequest) (*SubService, error) {
	sub, err := w.repository.GetSubService(ctx, req.SubServiceID)
	if err != nil {
		return nil, err
	}

	oldParent := sub.ParentServiceID
	if req.Patch.Name != nil {
		sub.Name = *req.Patch.Name
	}
	if req.Patch.Heading != nil {
		sub.Heading = *req.Patch.Heading
	}
	if req.Patch.Body != nil {
		sub.Body = *req.Patch.Body
	}
	if req.Patch.ParentServiceID != nil {
		if _, err := w.repository.GetService(ctx, *req.Patch.ParentServiceID); err != nil {
			return nil, err
		}
		sub.ParentServiceID = *req.Patch.ParentServiceID
	}
	sub.UpdatedAt = time.Now().UTC()

	if err := w.repository.UpdateSubService(ctx, sub); err != nil {
		return nil, err
	}

	// a reparent changes two parents' counts at once
	if sub.ParentServiceID != oldParent {
		if _, err := w.RecomputeSubserviceCounts(ctx, oldParent); err != nil {
			return nil, err
		}
	}
	parent, err := w.RecomputeSubserviceCounts(ctx, sub.ParentServiceID)
	if err != nil {
		return nil, err
	}
	w.emit(EventSubServiceChanged, w.events.SubServiceChanged(ctx, sub, parent))

	return sub, nil
}

func (w *workflow) DeleteSubService(ctx context.Context, req DeleteSubServiceRequest) error {
	sub, err := w.repository.GetSubService(ctx, req.SubServiceID)
	if err != nil {
		return err
	}

	if err := w.repository.DeleteSubService(ctx, sub.ID); err != nil {
		return err
	}

	parent, err := w.RecomputeSubserviceCounts(ctx, sub.ParentServiceID)
	if err != nil {
		return err
	}
	w.emit(EventSubServiceChanged, w.events.SubServiceChanged(ctx, sub, parent))

	return nil
}

// RecomputeSubserviceCounts refreshes a parent's derived counters from a
// fresh count of its children and re-emits the parent's change event.
func (w *workflow) RecomputeSubserviceCounts(ctx context.Context, parentServiceID uuid.UUID) (*Service, error) {
	svc, err := w.repository.GetService(ctx, parentServiceID)
	if err != nil {
		return nil, err
	}

	count, err := w.repository.CountSubServices(ctx, parentServiceID)
	if err != nil {
		return nil, err
	}

	svc.SubserviceCount = count
	svc.HasSubservices = count > 0
	svc.UpdatedAt = time.Now().UTC()

	if err := w.repository.UpdateService(ctx, svc, svc.VersionNumber); err != nil {
		return nil, err
	}

	w.emit(EventServiceUpdated, w.events.ServiceUpdated(ctx, svc))

	return svc, nil
}
