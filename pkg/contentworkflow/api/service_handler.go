package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"
	"github.com/tendant/content-workflow/pkg/contentworkflow"
)

// ServiceHandler handles HTTP requests for service master records,
// sub-services and the campaign working-copy flow
type ServiceHandler struct {
	workflow contentworkflow.Workflow
}

// NewServiceHandler creates a new service handler
func NewServiceHandler(workflow contentworkflow.Workflow) *ServiceHandler {
	return &ServiceHandler{workflow: workflow}
}

// Routes returns the routes for services and sub-services
func (h *ServiceHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.CreateService)
	r.Get("/{id}", h.GetService)
	r.Post("/{id}/recompute-counts", h.RecomputeCounts)

	r.Post("/{id}/sub-services", h.CreateSubService)

	return r
}

// SubServiceRoutes returns the routes for sub-service mutation
func (h *ServiceHandler) SubServiceRoutes() chi.Router {
	r := chi.NewRouter()

	r.Patch("/{id}", h.UpdateSubService)
	r.Delete("/{id}", h.DeleteSubService)

	return r
}

// CampaignRoutes returns the routes for the working-copy lifecycle
func (h *ServiceHandler) CampaignRoutes() chi.Router {
	r := chi.NewRouter()

	r.Post("/{campaignID}/pull/{serviceID}", h.PullWorkingCopy)
	r.Get("/content/{id}", h.GetWorkingCopy)
	r.Patch("/content/{id}", h.UpdateWorkingCopy)
	r.Post("/content/{id}/qc-pass", h.PassWorkingCopyQC)
	r.Post("/{campaignID}/promote/{contentID}/{serviceID}", h.PromoteWorkingCopy)
	r.Post("/content/{id}/publish", h.PublishWorkingCopy)

	return r
}

// CreateServiceRequest is the request body for creating a service master record
type CreateServiceRequest struct {
	Name            string `json:"service_name"`
	Heading         string `json:"heading"`
	Subheading      string `json:"subheading"`
	Body            string `json:"body"`
	MetaTitle       string `json:"meta_title"`
	MetaDescription string `json:"meta_description"`
	Keywords        string `json:"keywords"`
	OGTitle         string `json:"og_title"`
	OGDescription   string `json:"og_description"`
}

func (h *ServiceHandler) CreateService(w http.ResponseWriter, r *http.Request) {
	var req CreateServiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	service, err := h.workflow.CreateService(r.Context(), contentworkflow.CreateServiceRequest{
		Name:            req.Name,
		Heading:         req.Heading,
		Subheading:      req.Subheading,
		Body:            req.Body,
		MetaTitle:       req.MetaTitle,
		MetaDescription: req.MetaDescription,
		Keywords:        req.Keywords,
		OGTitle:         req.OGTitle,
		OGDescription:   req.OGDescription,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, service)
}

func (h *ServiceHandler) GetService(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid service ID", http.StatusBadRequest)
		return
	}

	service, err := h.workflow.GetService(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	render.JSON(w, r, service)
}

func (h *ServiceHandler) RecomputeCounts(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid service ID", http.StatusBadRequest)
		return
	}

	service, err := h.workflow.RecomputeSubserviceCounts(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	render.JSON(w, r, service)
}

// CreateSubServiceRequest is the request body for creating a sub-service
type CreateSubServiceRequest struct {
	Name    string `json:"sub_service_name"`
	Heading string `json:"heading"`
	Body    string `json:"body"`
}

func (h *ServiceHandler) CreateSubService(w http.ResponseWriter, r *http.Request) {
	parentID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid service ID", http.StatusBadRequest)
		return
	}

	var req CreateSubServiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	subService, err := h.workflow.CreateSubService(r.Context(), contentworkflow.CreateSubServiceRequest{
		ParentServiceID: parentID,
		Name:            req.Name,
		Heading:         req.Heading,
		Body:            req.Body,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, subService)
}

// UpdateSubServiceRequest is the request body for updating a sub-service
type UpdateSubServiceRequest struct {
	Name            *string    `json:"sub_service_name"`
	Heading         *string    `json:"heading"`
	Body            *string    `json:"body"`
	ParentServiceID *uuid.UUID `json:"parent_service_id"`
}

func (h *ServiceHandler) UpdateSubService(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid sub-service ID", http.StatusBadRequest)
		return
	}

	var req UpdateSubServiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	subService, err := h.workflow.UpdateSubService(r.Context(), contentworkflow.UpdateSubServiceRequest{
		SubServiceID: id,
		Patch: contentworkflow.SubServicePatch{
			Name:            req.Name,
			Heading:         req.Heading,
			Body:            req.Body,
			ParentServiceID: req.ParentServiceID,
		},
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	render.JSON(w, r, subService)
}

func (h *ServiceHandler) DeleteSubService(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid sub-service ID", http.StatusBadRequest)
		return
	}

	if err := h.workflow.DeleteSubService(r.Context(), contentworkflow.DeleteSubServiceRequest{
		SubServiceID: id,
	}); err != nil {
		writeError(w, r, err)
		return
	}

	render.NoContent(w, r)
}

func (h *ServiceHandler) PullWorkingCopy(w http.ResponseWriter, r *http.Request) {
	actor, err := ActorFromRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnauthorized)
		return
	}

	campaignID, err := uuid.Parse(chi.URLParam(r, "campaignID"))
	if err != nil {
		http.Error(w, "invalid campaign ID", http.StatusBadRequest)
		return
	}
	serviceID, err := uuid.Parse(chi.URLParam(r, "serviceID"))
	if err != nil {
		http.Error(w, "invalid service ID", http.StatusBadRequest)
		return
	}

	content, err := h.workflow.PullWorkingCopy(r.Context(), contentworkflow.PullWorkingCopyRequest{
		CampaignID: campaignID,
		ServiceID:  serviceID,
		PulledBy:   actor.ID,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, content)
}

func (h *ServiceHandler) GetWorkingCopy(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid content ID", http.StatusBadRequest)
		return
	}

	content, err := h.workflow.GetWorkingCopy(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	render.JSON(w, r, content)
}

// UpdateWorkingCopyRequest is the request body for mutating a draft working copy
type UpdateWorkingCopyRequest struct {
	Heading         *string `json:"heading"`
	Subheading      *string `json:"subheading"`
	Body            *string `json:"body"`
	MetaTitle       *string `json:"meta_title"`
	MetaDescription *string `json:"meta_description"`
	Keywords        *string `json:"keywords"`
	OGTitle         *string `json:"og_title"`
	OGDescription   *string `json:"og_description"`
}

func (h *ServiceHandler) UpdateWorkingCopy(w http.ResponseWriter, r *http.Request) {
	actor, err := ActorFromRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnauthorized)
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid content ID", http.StatusBadRequest)
		return
	}

	var req UpdateWorkingCopyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	content, err := h.workflow.UpdateWorkingCopy(r.Context(), contentworkflow.UpdateWorkingCopyRequest{
		ContentID: id,
		UpdatedBy: actor.ID,
		Patch: contentworkflow.ContentPatch{
			Heading:         req.Heading,
			Subheading:      req.Subheading,
			Body:            req.Body,
			MetaTitle:       req.MetaTitle,
			MetaDescription: req.MetaDescription,
			Keywords:        req.Keywords,
			OGTitle:         req.OGTitle,
			OGDescription:   req.OGDescription,
		},
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	render.JSON(w, r, content)
}

func (h *ServiceHandler) PassWorkingCopyQC(w http.ResponseWriter, r *http.Request) {
	actor, err := ActorFromRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnauthorized)
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid content ID", http.StatusBadRequest)
		return
	}

	content, err := h.workflow.PassWorkingCopyQC(r.Context(), contentworkflow.PassWorkingCopyQCRequest{
		ContentID:  id,
		ReviewerID: actor.ID,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	render.JSON(w, r, content)
}

func (h *ServiceHandler) PromoteWorkingCopy(w http.ResponseWriter, r *http.Request) {
	actor, err := ActorFromRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnauthorized)
		return
	}

	campaignID, err := uuid.Parse(chi.URLParam(r, "campaignID"))
	if err != nil {
		http.Error(w, "invalid campaign ID", http.StatusBadRequest)
		return
	}
	contentID, err := uuid.Parse(chi.URLParam(r, "contentID"))
	if err != nil {
		http.Error(w, "invalid content ID", http.StatusBadRequest)
		return
	}
	serviceID, err := uuid.Parse(chi.URLParam(r, "serviceID"))
	if err != nil {
		http.Error(w, "invalid service ID", http.StatusBadRequest)
		return
	}

	service, err := h.workflow.PromoteWorkingCopy(r.Context(), contentworkflow.PromoteWorkingCopyRequest{
		CampaignID: campaignID,
		ContentID:  contentID,
		ServiceID:  serviceID,
		PromotedBy: actor.ID,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	render.JSON(w, r, service)
}

func (h *ServiceHandler) PublishWorkingCopy(w http.ResponseWriter, r *http.Request) {
	actor, err := ActorFromRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnauthorized)
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid content ID", http.StatusBadRequest)
		return
	}

	services, err := h.workflow.PublishWorkingCopy(r.Context(), contentworkflow.PublishWorkingCopyRequest{
		ContentID:   id,
		PublishedBy: actor.ID,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	render.JSON(w, r, services)
}
