package contentworkflow_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/content-workflow/pkg/contentworkflow"
)

func createTestService(t *testing.T, wf contentworkflow.Workflow) *contentworkflow.Service {
	svc, err := wf.CreateService(context.Background(), contentworkflow.CreateServiceRequest{
		Name:            "Tax Filing",
		Heading:         "File your taxes",
		Subheading:      "Fast and accurate",
		Body:            "Original body copy.",
		MetaTitle:       "Tax Filing Service",
		MetaDescription: "File taxes online",
		Keywords:        "tax, filing",
	})
	require.NoError(t, err)
	require.NotNil(t, svc)
	return svc
}

func TestCreateService(t *testing.T) {
	wf := setupTestWorkflow(t)
	svc := createTestService(t, wf)

	assert.Equal(t, 1, svc.VersionNumber)
	assert.Zero(t, svc.SubserviceCount)
	assert.False(t, svc.HasSubservices)
}

func TestPullWorkingCopy(t *testing.T) {
	ctx := context.Background()
	wf := setupTestWorkflow(t)
	svc := createTestService(t, wf)
	campaignID := uuid.New()
	puller := uuid.New()

	content, err := wf.PullWorkingCopy(ctx, contentworkflow.PullWorkingCopyRequest{
		CampaignID: campaignID,
		ServiceID:  svc.ID,
		PulledBy:   puller,
	})
	require.NoError(t, err)

	assert.Equal(t, contentworkflow.ContentStatusDraft, content.Status)
	assert.Equal(t, svc.Heading, content.Heading)
	assert.Equal(t, svc.Body, content.Body)
	assert.Equal(t, svc.MetaTitle, content.MetaTitle)
	assert.True(t, content.LinkedServiceIDs.Contains(svc.ID))
	require.NotNil(t, content.LinkedCampaignID)
	assert.Equal(t, campaignID, *content.LinkedCampaignID)
	assert.Equal(t, puller, content.PulledBy)

	t.Run("pull from missing service fails", func(t *testing.T) {
		_, err := wf.PullWorkingCopy(ctx, contentworkflow.PullWorkingCopyRequest{
			CampaignID: campaignID,
			ServiceID:  uuid.New(),
			PulledBy:   puller,
		})
		assert.ErrorIs(t, err, contentworkflow.ErrServiceNotFound)
	})
}

func pullTestWorkingCopy(t *testing.T, wf contentworkflow.Workflow, serviceID, campaignID uuid.UUID) *contentworkflow.Content {
	content, err := wf.PullWorkingCopy(context.Background(), contentworkflow.PullWorkingCopyRequest{
		CampaignID: campaignID,
		ServiceID:  serviceID,
		PulledBy:   uuid.New(),
	})
	require.NoError(t, err)
	return content
}

func TestUpdateWorkingCopy(t *testing.T) {
	ctx := context.Background()
	wf := setupTestWorkflow(t)
	svc := createTestService(t, wf)
	campaignID := uuid.New()
	content := pullTestWorkingCopy(t, wf, svc.ID, campaignID)

	newHeading := "File your taxes in minutes"
	newBody := "Rewritten body copy."
	got, err := wf.UpdateWorkingCopy(ctx, contentworkflow.UpdateWorkingCopyRequest{
		ContentID: content.ID,
		UpdatedBy: uuid.New(),
		Patch:     contentworkflow.ContentPatch{Heading: &newHeading, Body: &newBody},
	})
	require.NoError(t, err)
	assert.Equal(t, newHeading, got.Heading)
	assert.Equal(t, newBody, got.Body)
	assert.Equal(t, svc.Subheading, got.Subheading)

	// the master is untouched until promotion
	master, err := wf.GetService(ctx, svc.ID)
	require.NoError(t, err)
	assert.Equal(t, "File your taxes", master.Heading)
	assert.Equal(t, 1, master.VersionNumber)

	t.Run("frozen copy rejects edits", func(t *testing.T) {
		_, err := wf.PassWorkingCopyQC(ctx, contentworkflow.PassWorkingCopyQCRequest{
			ContentID:  content.ID,
			ReviewerID: uuid.New(),
		})
		require.NoError(t, err)

		_, err = wf.UpdateWorkingCopy(ctx, contentworkflow.UpdateWorkingCopyRequest{
			ContentID: content.ID,
			UpdatedBy: uuid.New(),
			Patch:     contentworkflow.ContentPatch{Heading: &newHeading},
		})
		assert.ErrorIs(t, err, contentworkflow.ErrNotEditable)
	})
}

func TestPromoteWorkingCopy(t *testing.T) {
	ctx := context.Background()
	campaignID := uuid.New()
	promoter := uuid.New()

	t.Run("draft copy is not promotable", func(t *testing.T) {
		wf := setupTestWorkflow(t)
		svc := createTestService(t, wf)
		content := pullTestWorkingCopy(t, wf, svc.ID, campaignID)

		_, err := wf.PromoteWorkingCopy(ctx, contentworkflow.PromoteWorkingCopyRequest{
			CampaignID: campaignID,
			ContentID:  content.ID,
			ServiceID:  svc.ID,
			PromotedBy: promoter,
		})
		assert.ErrorIs(t, err, contentworkflow.ErrNotPromotable)

		// nothing changed on the master
		master, err := wf.GetService(ctx, svc.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, master.VersionNumber)
	})

	t.Run("qc-passed copy promotes and bumps version by one", func(t *testing.T) {
		wf := setupTestWorkflow(t)
		svc := createTestService(t, wf)
		content := pullTestWorkingCopy(t, wf, svc.ID, campaignID)

		newHeading := "Promoted heading"
		_, err := wf.UpdateWorkingCopy(ctx, contentworkflow.UpdateWorkingCopyRequest{
			ContentID: content.ID,
			UpdatedBy: promoter,
			Patch:     contentworkflow.ContentPatch{Heading: &newHeading},
		})
		require.NoError(t, err)

		_, err = wf.PassWorkingCopyQC(ctx, contentworkflow.PassWorkingCopyQCRequest{
			ContentID:  content.ID,
			ReviewerID: uuid.New(),
		})
		require.NoError(t, err)

		master, err := wf.PromoteWorkingCopy(ctx, contentworkflow.PromoteWorkingCopyRequest{
			CampaignID: campaignID,
			ContentID:  content.ID,
			ServiceID:  svc.ID,
			PromotedBy: promoter,
		})
		require.NoError(t, err)

		assert.Equal(t, 2, master.VersionNumber)
		assert.Equal(t, newHeading, master.Heading)

		published, err := wf.GetWorkingCopy(ctx, content.ID)
		require.NoError(t, err)
		assert.Equal(t, contentworkflow.ContentStatusPublished, published.Status)

		// promoting the same copy again bumps the version again
		master, err = wf.PromoteWorkingCopy(ctx, contentworkflow.PromoteWorkingCopyRequest{
			CampaignID: campaignID,
			ContentID:  content.ID,
			ServiceID:  svc.ID,
			PromotedBy: promoter,
		})
		require.NoError(t, err)
		assert.Equal(t, 3, master.VersionNumber)
	})

	t.Run("campaign mismatch reads as not found", func(t *testing.T) {
		wf := setupTestWorkflow(t)
		svc := createTestService(t, wf)
		content := pullTestWorkingCopy(t, wf, svc.ID, campaignID)

		_, err := wf.PassWorkingCopyQC(ctx, contentworkflow.PassWorkingCopyQCRequest{
			ContentID:  content.ID,
			ReviewerID: uuid.New(),
		})
		require.NoError(t, err)

		_, err = wf.PromoteWorkingCopy(ctx, contentworkflow.PromoteWorkingCopyRequest{
			CampaignID: uuid.New(),
			ContentID:  content.ID,
			ServiceID:  svc.ID,
			PromotedBy: promoter,
		})
		assert.ErrorIs(t, err, contentworkflow.ErrContentNotFound)
	})

	t.Run("unlinked service is rejected", func(t *testing.T) {
		wf := setupTestWorkflow(t)
		svc := createTestService(t, wf)
		other := createTestService(t, wf)
		content := pullTestWorkingCopy(t, wf, svc.ID, campaignID)

		_, err := wf.PassWorkingCopyQC(ctx, contentworkflow.PassWorkingCopyQCRequest{
			ContentID:  content.ID,
			ReviewerID: uuid.New(),
		})
		require.NoError(t, err)

		_, err = wf.PromoteWorkingCopy(ctx, contentworkflow.PromoteWorkingCopyRequest{
			CampaignID: campaignID,
			ContentID:  content.ID,
			ServiceID:  other.ID,
			PromotedBy: promoter,
		})
		assert.ErrorIs(t, err, contentworkflow.ErrNoLinkedService)
	})
}

func TestPublishWorkingCopy(t *testing.T) {
	ctx := context.Background()
	wf := setupTestWorkflow(t)
	svc := createTestService(t, wf)
	campaignID := uuid.New()
	content := pullTestWorkingCopy(t, wf, svc.ID, campaignID)

	_, err := wf.PassWorkingCopyQC(ctx, contentworkflow.PassWorkingCopyQCRequest{
		ContentID:  content.ID,
		ReviewerID: uuid.New(),
	})
	require.NoError(t, err)

	services, err := wf.PublishWorkingCopy(ctx, contentworkflow.PublishWorkingCopyRequest{
		ContentID:   content.ID,
		PublishedBy: uuid.New(),
	})
	require.NoError(t, err)
	require.Len(t, services, 1)
	assert.Equal(t, 2, services[0].VersionNumber)

	published, err := wf.GetWorkingCopy(ctx, content.ID)
	require.NoError(t, err)
	assert.Equal(t, contentworkflow.ContentStatusPublished, published.Status)
}

func TestSubServiceCounts(t *testing.T) {
	ctx := context.Background()
	wf := setupTestWorkflow(t)
	svc := createTestService(t, wf)

	sub, err := wf.CreateSubService(ctx, contentworkflow.CreateSubServiceRequest{
		ParentServiceID: svc.ID,
		Name:            "Amended Returns",
		Heading:         "Fix a past filing",
	})
	require.NoError(t, err)

	parent, err := wf.GetService(ctx, svc.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, parent.SubserviceCount)
	assert.True(t, parent.HasSubservices)

	t.Run("deleting the last sub-service zeroes the counters", func(t *testing.T) {
		err := wf.DeleteSubService(ctx, contentworkflow.DeleteSubServiceRequest{SubServiceID: sub.ID})
		require.NoError(t, err)

		parent, err := wf.GetService(ctx, svc.ID)
		require.NoError(t, err)
		assert.Zero(t, parent.SubserviceCount)
		assert.False(t, parent.HasSubservices)
	})

	t.Run("adding one back restores the counters", func(t *testing.T) {
		_, err := wf.CreateSubService(ctx, contentworkflow.CreateSubServiceRequest{
			ParentServiceID: svc.ID,
			Name:            "Extensions",
		})
		require.NoError(t, err)

		parent, err := wf.GetService(ctx, svc.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, parent.SubserviceCount)
		assert.True(t, parent.HasSubservices)
	})
}

func TestSubServiceReparent(t *testing.T) {
	ctx := context.Background()
	wf := setupTestWorkflow(t)
	oldParent := createTestService(t, wf)
	newParent := createTestService(t, wf)

	sub, err := wf.CreateSubService(ctx, contentworkflow.CreateSubServiceRequest{
		ParentServiceID: oldParent.ID,
		Name:            "Moving Child",
	})
	require.NoError(t, err)

	got, err := wf.UpdateSubService(ctx, contentworkflow.UpdateSubServiceRequest{
		SubServiceID: sub.ID,
		Patch:        contentworkflow.SubServicePatch{ParentServiceID: &newParent.ID},
	})
	require.NoError(t, err)
	assert.Equal(t, newParent.ID, got.ParentServiceID)

	// both parents' counters reflect the move
	old, err := wf.GetService(ctx, oldParent.ID)
	require.NoError(t, err)
	assert.Zero(t, old.SubserviceCount)
	assert.False(t, old.HasSubservices)

	updated, err := wf.GetService(ctx, newParent.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, updated.SubserviceCount)
	assert.True(t, updated.HasSubservices)
}

// TestCampaignEndToEnd walks the full campaign flow: pull, edit, QC, promote.
func TestCampaignEndToEnd(t *testing.T) {
	ctx := context.Background()
	wf := setupTestWorkflow(t)
	svc := createTestService(t, wf)
	campaignID := uuid.New()
	editor := uuid.New()

	content, err := wf.PullWorkingCopy(ctx, contentworkflow.PullWorkingCopyRequest{
		CampaignID: campaignID,
		ServiceID:  svc.ID,
		PulledBy:   editor,
	})
	require.NoError(t, err)

	newHeading := "Spring campaign heading"
	newMeta := "Spring campaign meta"
	_, err = wf.UpdateWorkingCopy(ctx, contentworkflow.UpdateWorkingCopyRequest{
		ContentID: content.ID,
		UpdatedBy: editor,
		Patch: contentworkflow.ContentPatch{
			Heading:   &newHeading,
			MetaTitle: &newMeta,
		},
	})
	require.NoError(t, err)

	_, err = wf.PassWorkingCopyQC(ctx, contentworkflow.PassWorkingCopyQCRequest{
		ContentID:  content.ID,
		ReviewerID: uuid.New(),
	})
	require.NoError(t, err)

	master, err := wf.PromoteWorkingCopy(ctx, contentworkflow.PromoteWorkingCopyRequest{
		CampaignID: campaignID,
		ContentID:  content.ID,
		ServiceID:  svc.ID,
		PromotedBy: editor,
	})
	require.NoError(t, err)

	assert.Equal(t, 2, master.VersionNumber)
	assert.Equal(t, newHeading, master.Heading)
	assert.Equal(t, newMeta, master.MetaTitle)
	// fields the copy inherited unchanged survive the merge
	assert.Equal(t, svc.Subheading, master.Subheading)
}
