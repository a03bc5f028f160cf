package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/content-workflow/pkg/contentworkflow"
	"github.com/tendant/content-workflow/pkg/contentworkflow/repo/memory"
)

func newTestAsset() *contentworkflow.Asset {
	now := time.Now().UTC()
	return &contentworkflow.Asset{
		ID:        uuid.New(),
		Name:      "Test Asset",
		Status:    contentworkflow.AssetStatusDraft,
		CreatedBy: uuid.New(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func newTestService() *contentworkflow.Service {
	now := time.Now().UTC()
	return &contentworkflow.Service{
		ID:            uuid.New(),
		Name:          "Test Service",
		Heading:       "Heading",
		VersionNumber: 1,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func TestAssetCRUD(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()
	asset := newTestAsset()

	require.NoError(t, repo.CreateAsset(ctx, asset))

	t.Run("duplicate create fails", func(t *testing.T) {
		err := repo.CreateAsset(ctx, asset)
		assert.ErrorIs(t, err, contentworkflow.ErrDuplicate)
	})

	t.Run("get returns a copy", func(t *testing.T) {
		got, err := repo.GetAsset(ctx, asset.ID)
		require.NoError(t, err)
		assert.Equal(t, asset.Name, got.Name)

		// mutating the returned row must not touch stored state
		got.Name = "mutated"
		again, err := repo.GetAsset(ctx, asset.ID)
		require.NoError(t, err)
		assert.Equal(t, "Test Asset", again.Name)
	})

	t.Run("update", func(t *testing.T) {
		asset.Status = contentworkflow.AssetStatusPendingReview
		require.NoError(t, repo.UpdateAsset(ctx, asset))

		got, err := repo.GetAsset(ctx, asset.ID)
		require.NoError(t, err)
		assert.Equal(t, contentworkflow.AssetStatusPendingReview, got.Status)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, repo.DeleteAsset(ctx, asset.ID))

		_, err := repo.GetAsset(ctx, asset.ID)
		assert.ErrorIs(t, err, contentworkflow.ErrAssetNotFound)

		err = repo.DeleteAsset(ctx, asset.ID)
		assert.ErrorIs(t, err, contentworkflow.ErrAssetNotFound)
	})
}

func TestListAssets(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()
	submitter := uuid.New()

	base := time.Now().UTC()
	for i := 0; i < 3; i++ {
		a := newTestAsset()
		a.CreatedAt = base.Add(time.Duration(i) * time.Second)
		if i == 0 {
			a.Status = contentworkflow.AssetStatusPendingReview
			a.SubmittedBy = &submitter
		}
		require.NoError(t, repo.CreateAsset(ctx, a))
	}

	t.Run("filter by status", func(t *testing.T) {
		pending := contentworkflow.AssetStatusPendingReview
		got, err := repo.ListAssets(ctx, contentworkflow.ListAssetsParams{Status: &pending})
		require.NoError(t, err)
		assert.Len(t, got, 1)
	})

	t.Run("filter by submitter", func(t *testing.T) {
		got, err := repo.ListAssets(ctx, contentworkflow.ListAssetsParams{SubmittedBy: &submitter})
		require.NoError(t, err)
		assert.Len(t, got, 1)
	})

	t.Run("ordered by creation time with limit and offset", func(t *testing.T) {
		limit, offset := 2, 1
		got, err := repo.ListAssets(ctx, contentworkflow.ListAssetsParams{Limit: &limit, Offset: &offset})
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.True(t, got[0].CreatedAt.Before(got[1].CreatedAt))
	})
}

func TestQCReviewsAppendOnly(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()
	assetID := uuid.New()

	for i, decision := range []contentworkflow.QCDecision{
		contentworkflow.DecisionRework,
		contentworkflow.DecisionApproved,
	} {
		require.NoError(t, repo.CreateQCReview(ctx, &contentworkflow.QCReview{
			ID:        uuid.New(),
			AssetID:   assetID,
			Score:     50 + i,
			Decision:  decision,
			CreatedAt: time.Now().UTC(),
		}))
	}

	reviews, err := repo.ListQCReviewsByAsset(ctx, assetID)
	require.NoError(t, err)
	require.Len(t, reviews, 2)
	// insertion order is preserved
	assert.Equal(t, contentworkflow.DecisionRework, reviews[0].Decision)
	assert.Equal(t, contentworkflow.DecisionApproved, reviews[1].Decision)
}

func TestUpdateServiceCAS(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()
	svc := newTestService()
	require.NoError(t, repo.CreateService(ctx, svc))

	t.Run("matching expected version succeeds", func(t *testing.T) {
		svc.Heading = "updated"
		svc.VersionNumber = 2
		require.NoError(t, repo.UpdateService(ctx, svc, 1))

		got, err := repo.GetService(ctx, svc.ID)
		require.NoError(t, err)
		assert.Equal(t, 2, got.VersionNumber)
		assert.Equal(t, "updated", got.Heading)
	})

	t.Run("stale expected version conflicts", func(t *testing.T) {
		svc.VersionNumber = 3
		err := repo.UpdateService(ctx, svc, 1)
		assert.ErrorIs(t, err, contentworkflow.ErrVersionConflict)

		// the stored row is untouched
		got, err := repo.GetService(ctx, svc.ID)
		require.NoError(t, err)
		assert.Equal(t, 2, got.VersionNumber)
	})

	t.Run("missing service", func(t *testing.T) {
		missing := newTestService()
		err := repo.UpdateService(ctx, missing, 1)
		assert.ErrorIs(t, err, contentworkflow.ErrServiceNotFound)
	})
}

func TestInTx(t *testing.T) {
	ctx := context.Background()

	t.Run("commit makes all writes visible", func(t *testing.T) {
		repo := memory.New()
		asset := newTestAsset()
		review := &contentworkflow.QCReview{
			ID:        uuid.New(),
			AssetID:   asset.ID,
			Score:     90,
			Decision:  contentworkflow.DecisionApproved,
			CreatedAt: time.Now().UTC(),
		}

		err := repo.InTx(ctx, func(tx contentworkflow.Repository) error {
			if err := tx.CreateAsset(ctx, asset); err != nil {
				return err
			}
			return tx.CreateQCReview(ctx, review)
		})
		require.NoError(t, err)

		_, err = repo.GetAsset(ctx, asset.ID)
		assert.NoError(t, err)
		reviews, err := repo.ListQCReviewsByAsset(ctx, asset.ID)
		require.NoError(t, err)
		assert.Len(t, reviews, 1)
	})

	t.Run("error rolls back every write", func(t *testing.T) {
		repo := memory.New()
		asset := newTestAsset()
		boom := errors.New("boom")

		err := repo.InTx(ctx, func(tx contentworkflow.Repository) error {
			if err := tx.CreateAsset(ctx, asset); err != nil {
				return err
			}
			return boom
		})
		assert.ErrorIs(t, err, boom)

		_, err = repo.GetAsset(ctx, asset.ID)
		assert.ErrorIs(t, err, contentworkflow.ErrAssetNotFound)
	})

	t.Run("writes inside the tx are invisible outside until commit", func(t *testing.T) {
		repo := memory.New()
		asset := newTestAsset()

		err := repo.InTx(ctx, func(tx contentworkflow.Repository) error {
			if err := tx.CreateAsset(ctx, asset); err != nil {
				return err
			}
			_, err := repo.GetAsset(ctx, asset.ID)
			assert.ErrorIs(t, err, contentworkflow.ErrAssetNotFound)
			return nil
		})
		require.NoError(t, err)

		_, err = repo.GetAsset(ctx, asset.ID)
		assert.NoError(t, err)
	})
}

func TestCountSubServices(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()
	parentID := uuid.New()

	count, err := repo.CountSubServices(ctx, parentID)
	require.NoError(t, err)
	assert.Zero(t, count)

	for i := 0; i < 3; i++ {
		require.NoError(t, repo.CreateSubService(ctx, &contentworkflow.SubService{
			ID:              uuid.New(),
			ParentServiceID: parentID,
			Name:            "child",
		}))
	}
	require.NoError(t, repo.CreateSubService(ctx, &contentworkflow.SubService{
		ID:              uuid.New(),
		ParentServiceID: uuid.New(),
		Name:            "other parent's child",
	}))

	count, err = repo.CountSubServices(ctx, parentID)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}
