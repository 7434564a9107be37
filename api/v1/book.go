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

func (h *Handler) listBooks(w http.ResponseWriter, r *http.Request) {
	books, err := h.svc.GetAllBooks()
	if err != nil {
		log.Error("Failed to list books", zap.Error(err))
		response.ServerError(w, r, err)
		return
	}
	response.OK(w, r, books)
}

func (h *Handler) getBook(w http.ResponseWriter, r *http.Request) {
	id := request.RouteStringParam(r, "id")
	book, err := h.svc.GetBookByID(id)
	if err != nil {
		log.Error("Failed to get book", zap.String("book_id", id), zap.Error(err))
		response.ServerError(w, r, err)
		return
	}
	if book == nil {
		response.NotFound(w, r, errors.New("book not found"))
		return
	}
	response.OK(w, r, book)
}

func (h *Handler) createBook(w http.ResponseWriter, r *http.Request) {
	var book model.Book
	if err := json.NewDecoder(r.Body).Decode(&book); err != nil {
		response.BadRequest(w, r, errors.Wrap(err, "invalid request body"))
		return
	}

	created, err := h.svc.CreateBook(&book)
	if err != nil {
		log.Error("Failed to create book", zap.Error(err))
		response.Error(w, r, err)
		return
	}
	response.Created(w, r, created)
}

func (h *Handler) updateBook(w http.ResponseWriter, r *http.Request) {
	update := model.UpdateBook{}
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		response.BadRequest(w, r, errors.Wrap(err, "invalid request body"))
		return
	}
	update.ID = request.RouteStringParam(r, "id")

	book, err := h.svc.UpdateBook(&update)
	if err != nil {
		log.Error("Failed to update book", zap.String("book_id", update.ID), zap.Error(err))
		response.Error(w, r, err)
		return
	}
	response.OK(w, r, book)
}

func (h *Handler) deleteBook(w http.ResponseWriter, r *http.Request) {
	id := request.RouteStringParam(r, "id")
	removed, err := h.svc.DeleteBook(id)
	if err != nil {
		log.Error("Failed to delete book", zap.String("book_id", id), zap.Error(err))
		response.Error(w, r, err)
		return
	}
	// Deletions are reversible for a while; tell the client.
	response.OK(w, r, map[string]any{
		"deleted":  removed,
		"undoable": true,
	})
}

func (h *Handler) deleteBookBatch(w http.ResponseWriter, r *http.Request) {
	var body struct {
		IDs []string `json:"ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		response.BadRequest(w, r, errors.Wrap(err, "invalid request body"))
		return
	}
	if len(body.IDs) == 0 {
		response.BadRequest(w, r, errors.New("ids must not be empty"))
		return
	}

	if err := h.svc.DeleteBooksInBulk(body.IDs); err != nil {
		log.Error("Failed to delete books", zap.Int("count", len(body.IDs)), zap.Error(err))
		response.Error(w, r, err)
		return
	}
	response.OK(w, r, map[string]any{
		"deleted":  len(body.IDs),
		"undoable": true,
	})
}

func (h *Handler) registerBook(w http.ResponseWriter, r *http.Request) {
	var req model.RegisterBookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, r, errors.Wrap(err, "invalid request body"))
		return
	}

	book, err := h.svc.RegisterBookFromSearchResult(&req)
	if err != nil {
		log.Error("Failed to register book", zap.String("title", req.Result.Title), zap.Error(err))
		response.Error(w, r, err)
		return
	}
	response.Created(w, r, book)
}

func (h *Handler) undo(w http.ResponseWriter, r *http.Request) {
	description, err := h.svc.Undo()
	if err != nil {
		log.Error("Failed to undo", zap.Error(err))
		response.Error(w, r, err)
		return
	}
	response.OK(w, r, map[string]string{"undone": description})
}
