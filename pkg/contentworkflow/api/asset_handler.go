package api

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"
	"github.com/tendant/content-workflow/pkg/contentworkflow"
)

// AssetHandler handles HTTP requests for the asset lifecycle
type AssetHandler struct {
	workflow contentworkflow.Workflow
}

// NewAssetHandler creates a new asset handler
func NewAssetHandler(workflow contentworkflow.Workflow) *AssetHandler {
	return &AssetHandler{workflow: workflow}
}

// Routes returns the routes for assets
func (h *AssetHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.CreateAsset)
	r.Get("/", h.ListAssets)
	r.Get("/{id}", h.GetAsset)
	r.Patch("/{id}", h.EditAsset)
	r.Delete("/{id}", h.DeleteAsset)

	r.Post("/{id}/submit", h.SubmitForReview)
	r.Post("/{id}/review", h.ReviewAsset)
	r.Get("/{id}/reviews", h.ListReviews)

	r.Post("/{id}/file", h.UploadFile)
	r.Get("/{id}/file", h.DownloadFile)
	r.Get("/{id}/file-url", h.GetFileURL)

	return r
}

// CreateAssetRequest is the request body for creating an asset
type CreateAssetRequest struct {
	Name      string `json:"asset_name"`
	AssetType string `json:"asset_type"`
	Category  string `json:"category"`
	Format    string `json:"format"`
}

func (h *AssetHandler) CreateAsset(w http.ResponseWriter, r *http.Request) {
	actor, err := ActorFromRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnauthorized)
		return
	}

	var req CreateAssetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	asset, err := h.workflow.CreateAsset(r.Context(), contentworkflow.CreateAssetRequest{
		Name:      req.Name,
		AssetType: req.AssetType,
		Category:  req.Category,
		Format:    req.Format,
		CreatedBy: actor.ID,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, asset)
}

func (h *AssetHandler) GetAsset(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid asset ID", http.StatusBadRequest)
		return
	}

	asset, err := h.workflow.GetAsset(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	render.JSON(w, r, asset)
}

func (h *AssetHandler) ListAssets(w http.ResponseWriter, r *http.Request) {
	var req contentworkflow.ListAssetsRequest
	if s := r.URL.Query().Get("status"); s != "" {
		status := contentworkflow.AssetStatus(s)
		req.Status = &status
	}
	if s := r.URL.Query().Get("submitted_by"); s != "" {
		submittedBy, err := uuid.Parse(s)
		if err != nil {
			http.Error(w, "invalid submitted_by", http.StatusBadRequest)
			return
		}
		req.SubmittedBy = &submittedBy
	}

	assets, err := h.workflow.ListAssets(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	render.JSON(w, r, assets)
}

// SubmitForReviewRequest is the request body for submitting an asset into QC
type SubmitForReviewRequest struct {
	SEOScore     *int `json:"seo_score"`
	GrammarScore *int `json:"grammar_score"`
}

func (h *AssetHandler) SubmitForReview(w http.ResponseWriter, r *http.Request) {
	actor, err := ActorFromRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnauthorized)
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid asset ID", http.StatusBadRequest)
		return
	}

	var req SubmitForReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	asset, err := h.workflow.SubmitForReview(r.Context(), contentworkflow.SubmitForReviewRequest{
		AssetID:      id,
		SEOScore:     req.SEOScore,
		GrammarScore: req.GrammarScore,
		SubmittedBy:  actor.ID,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	render.JSON(w, r, asset)
}

// ReviewAssetRequest is the request body for recording a QC decision
type ReviewAssetRequest struct {
	Score               int                        `json:"score"`
	Decision            contentworkflow.QCDecision `json:"decision"`
	Remarks             string                     `json:"remarks"`
	ChecklistCompletion int                        `json:"checklist_completion"`
	ChecklistItems      map[string]bool            `json:"checklist_items"`
}

func (h *AssetHandler) ReviewAsset(w http.ResponseWriter, r *http.Request) {
	actor, err := ActorFromRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnauthorized)
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid asset ID", http.StatusBadRequest)
		return
	}

	var req ReviewAssetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	asset, err := h.workflow.ReviewAsset(r.Context(), contentworkflow.ReviewAssetRequest{
		AssetID:             id,
		ReviewerID:          actor.ID,
		Score:               req.Score,
		Decision:            req.Decision,
		Remarks:             req.Remarks,
		ChecklistCompletion: req.ChecklistCompletion,
		ChecklistItems:      req.ChecklistItems,
		ActorRole:           actor.Role,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	render.JSON(w, r, asset)
}

// EditAssetRequest is the request body for editing an asset during review
type EditAssetRequest struct {
	Name         *string `json:"asset_name"`
	AssetType    *string `json:"asset_type"`
	Category     *string `json:"category"`
	Format       *string `json:"format"`
	SEOScore     *int    `json:"seo_score"`
	GrammarScore *int    `json:"grammar_score"`
}

func (h *AssetHandler) EditAsset(w http.ResponseWriter, r *http.Request) {
	actor, err := ActorFromRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnauthorized)
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid asset ID", http.StatusBadRequest)
		return
	}

	var req EditAssetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	asset, err := h.workflow.EditAsset(r.Context(), contentworkflow.EditAssetRequest{
		AssetID: id,
		Actor:   actor,
		Patch: contentworkflow.AssetPatch{
			Name:         req.Name,
			AssetType:    req.AssetType,
			Category:     req.Category,
			Format:       req.Format,
			SEOScore:     req.SEOScore,
			GrammarScore: req.GrammarScore,
		},
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	render.JSON(w, r, asset)
}

func (h *AssetHandler) DeleteAsset(w http.ResponseWriter, r *http.Request) {
	actor, err := ActorFromRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnauthorized)
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid asset ID", http.StatusBadRequest)
		return
	}

	if err := h.workflow.DeleteAsset(r.Context(), contentworkflow.DeleteAssetRequest{
		AssetID: id,
		Actor:   actor,
	}); err != nil {
		writeError(w, r, err)
		return
	}

	render.NoContent(w, r)
}

func (h *AssetHandler) ListReviews(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid asset ID", http.StatusBadRequest)
		return
	}

	reviews, err := h.workflow.ListReviews(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	render.JSON(w, r, reviews)
}

func (h *AssetHandler) UploadFile(w http.ResponseWriter, r *http.Request) {
	actor, err := ActorFromRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnauthorized)
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid asset ID", http.StatusBadRequest)
		return
	}

	fileName := r.URL.Query().Get("file_name")
	if fileName == "" {
		http.Error(w, "file_name is required", http.StatusBadRequest)
		return
	}

	asset, err := h.workflow.UploadAssetFile(r.Context(), contentworkflow.UploadAssetFileRequest{
		AssetID:    id,
		FileName:   fileName,
		MimeType:   r.Header.Get("Content-Type"),
		FileSize:   r.ContentLength,
		UploadedBy: actor.ID,
	}, r.Body)
	if err != nil {
		writeError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, asset)
}

func (h *AssetHandler) DownloadFile(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid asset ID", http.StatusBadRequest)
		return
	}

	reader, err := h.workflow.DownloadAssetFile(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	defer reader.Close()

	w.Header().Set("Content-Type", "application/octet-stream")
	if _, err := io.Copy(w, reader); err != nil {
		// headers are already written; the broken stream can only be logged
		slog.Error("asset file stream failed", "asset_id", id, "err", err)
	}
}

func (h *AssetHandler) GetFileURL(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid asset ID", http.StatusBadRequest)
		return
	}

	url, err := h.workflow.GetAssetFileURL(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]string{"download_url": url})
}
