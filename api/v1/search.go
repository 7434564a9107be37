package v1

import (
	"net/http"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/hondana-dev/hondana/http/request"
	"github.com/hondana-dev/hondana/http/response"
	"github.com/hondana-dev/hondana/log"
)

func (h *Handler) searchCatalog(w http.ResponseWriter, r *http.Request) {
	query := request.QueryStringParam(r, "q", "")
	if query == "" {
		response.BadRequest(w, r, errors.New("query parameter q must not be empty"))
		return
	}

	results, err := h.catalog.Search(r.Context(), query)
	if err != nil {
		log.Error("Catalog search failed", zap.String("query", query), zap.Error(err))
		response.Error(w, r, err)
		return
	}
	response.OK(w, r, results)
}
