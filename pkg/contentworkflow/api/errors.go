package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"
	"github.com/tendant/content-workflow/pkg/contentworkflow"
)

// ErrorResponse is the JSON body returned for any failed request
type ErrorResponse struct {
	Error string `json:"error"`
}

// writeError maps a domain error onto an HTTP status. The ordering of the
// taxonomy is preserved: not-found before access-denied before
// invalid-state, as produced by the core.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, contentworkflow.ErrAssetNotFound),
		errors.Is(err, contentworkflow.ErrContentNotFound),
		errors.Is(err, contentworkflow.ErrServiceNotFound),
		errors.Is(err, contentworkflow.ErrSubServiceNotFound),
		errors.Is(err, contentworkflow.ErrNoFileAttached):
		status = http.StatusNotFound
	case errors.Is(err, contentworkflow.ErrAccessDenied):
		status = http.StatusForbidden
	case errors.Is(err, contentworkflow.ErrMissingScore),
		errors.Is(err, contentworkflow.ErrInvalidScore),
		errors.Is(err, contentworkflow.ErrInvalidDecision),
		errors.Is(err, contentworkflow.ErrNoLinkedService):
		status = http.StatusBadRequest
	case errors.Is(err, contentworkflow.ErrInvalidTransition),
		errors.Is(err, contentworkflow.ErrNotEditable),
		errors.Is(err, contentworkflow.ErrNotPromotable):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, contentworkflow.ErrVersionConflict),
		errors.Is(err, contentworkflow.ErrDuplicate):
		status = http.StatusConflict
	}

	if status == http.StatusInternalServerError {
		slog.Error("request failed", "path", r.URL.Path, "err", err)
	}

	render.Status(r, status)
	render.JSON(w, r, ErrorResponse{Error: err.Error()})
}
