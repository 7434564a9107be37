package v1

import (
	"net/http"

	"github.com/pkg/errors"

	"github.com/hondana-dev/hondana/http/request"
	"github.com/hondana-dev/hondana/http/response"
	"github.com/hondana-dev/hondana/model"
)

// refreshView queues a background recompute of one cached view. The worker
// pool owns the actual work; this returns as soon as the job is queued.
func (h *Handler) refreshView(w http.ResponseWriter, r *http.Request) {
	view := request.RouteStringParam(r, "view")
	if view == "" {
		response.BadRequest(w, r, errors.New("view must not be empty"))
		return
	}

	h.refreshPool.Push(model.Job{View: view, Status: model.JobStatusPending})
	response.OK(w, r, map[string]string{"queued": view})
}
