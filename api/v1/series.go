package v1

import (
	"encoding/json"
	"net/http"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/hondana-dev/hondana/http/request"
	"github.com/hondana-dev/hondana/http/response"
	"github.com/hondana-dev/hondana/log"
	"github.com/hondana-dev/hondana/model"
)

func (h *Handler) listSeries(w http.ResponseWriter, r *http.Request) {
	series, err := h.svc.GetSeriesList()
	if err != nil {
		log.Error("Failed to list series", zap.Error(err))
		response.ServerError(w, r, err)
		return
	}
	response.OK(w, r, series)
}

func (h *Handler) getSeries(w http.ResponseWriter, r *http.Request) {
	id := request.RouteStringParam(r, "id")
	series, err := h.svc.GetSeriesByID(id)
	if err != nil {
		log.Error("Failed to get series", zap.String("series_id", id), zap.Error(err))
		response.Error(w, r, err)
		return
	}
	if series == nil {
		response.NotFound(w, r, errors.New("series not found"))
		return
	}
	response.OK(w, r, series)
}

func (h *Handler) createSeries(w http.ResponseWriter, r *http.Request) {
	var series model.Series
	if err := json.NewDecoder(r.Body).Decode(&series); err != nil {
		response.BadRequest(w, r, errors.Wrap(err, "invalid request body"))
		return
	}

	created, err := h.svc.CreateSeries(&series)
	if err != nil {
		log.Error("Failed to create series", zap.String("title", series.Title), zap.Error(err))
		response.Error(w, r, err)
		return
	}
	response.Created(w, r, created)
}

func (h *Handler) updateSeries(w http.ResponseWriter, r *http.Request) {
	update := model.UpdateSeries{}
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		response.BadRequest(w, r, errors.Wrap(err, "invalid request body"))
		return
	}
	update.ID = request.RouteStringParam(r, "id")

	series, err := h.svc.UpdateSeries(&update)
	if err != nil {
		log.Error("Failed to update series", zap.String("series_id", update.ID), zap.Error(err))
		response.Error(w, r, err)
		return
	}
	response.OK(w, r, series)
}

func (h *Handler) deleteSeries(w http.ResponseWriter, r *http.Request) {
	id := request.RouteStringParam(r, "id")
	if id == model.UnclassifiedSeriesID {
		response.BadRequest(w, r, errors.New("the unclassified series cannot be deleted"))
		return
	}
	if err := h.svc.DeleteSeries(id); err != nil {
		log.Error("Failed to delete series", zap.String("series_id", id), zap.Error(err))
		response.Error(w, r, err)
		return
	}
	response.NoContent(w, r)
}

func (h *Handler) listSeriesWithBooks(w http.ResponseWriter, r *http.Request) {
	views, err := h.svc.GetAllSeriesWithBooks()
	if err != nil {
		log.Error("Failed to list series with books", zap.Error(err))
		response.ServerError(w, r, err)
		return
	}
	response.OK(w, r, views)
}

func (h *Handler) getSeriesWithBooks(w http.ResponseWriter, r *http.Request) {
	id := request.RouteStringParam(r, "id")
	view, err := h.svc.GetSeriesWithBooks(id)
	if err != nil {
		log.Error("Failed to get series with books", zap.String("series_id", id), zap.Error(err))
		response.Error(w, r, err)
		return
	}
	response.OK(w, r, view)
}

func (h *Handler) listSeriesOptions(w http.ResponseWriter, r *http.Request) {
	options, err := h.svc.GetSeriesOptions()
	if err != nil {
		log.Error("Failed to list series options", zap.Error(err))
		response.ServerError(w, r, err)
		return
	}
	response.OK(w, r, options)
}

func (h *Handler) updateSeriesOrder(w http.ResponseWriter, r *http.Request) {
	var entries []model.DisplayOrderEntry
	if err := json.NewDecoder(r.Body).Decode(&entries); err != nil {
		response.BadRequest(w, r, errors.Wrap(err, "invalid request body"))
		return
	}
	if len(entries) == 0 {
		response.BadRequest(w, r, errors.New("order entries must not be empty"))
		return
	}

	if err := h.svc.UpdateSeriesDisplayOrder(entries); err != nil {
		log.Error("Failed to update series order", zap.Int("count", len(entries)), zap.Error(err))
		response.Error(w, r, err)
		return
	}
	response.NoContent(w, r)
}

func (h *Handler) listShops(w http.ResponseWriter, r *http.Request) {
	shops, err := h.svc.ListShops()
	if err != nil {
		log.Error("Failed to list shops", zap.Error(err))
		response.ServerError(w, r, err)
		return
	}
	response.OK(w, r, shops)
}

func (h *Handler) getStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.GetAppStats()
	if err != nil {
		log.Error("Failed to get stats", zap.Error(err))
		response.ServerError(w, r, err)
		return
	}
	response.OK(w, r, stats)
}
