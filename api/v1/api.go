package v1

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/hondana-dev/hondana/catalog"
	"github.com/hondana-dev/hondana/library"
	"github.com/hondana-dev/hondana/middleware"
	"github.com/hondana-dev/hondana/store"
	"github.com/hondana-dev/hondana/worker"
)

type Handler struct {
	store       *store.Store
	svc         *library.Service
	catalog     *catalog.Client
	refreshPool worker.WorkPool
	router      *mux.Router
}

func Server(router *mux.Router, store *store.Store, svc *library.Service, catalog *catalog.Client, pool worker.WorkPool) {
	handler := &Handler{
		store:       store,
		svc:         svc,
		catalog:     catalog,
		refreshPool: pool,
		router:      router,
	}

	sr := router.PathPrefix("/api/v1").Subrouter()
	sr.Use(middleware.HandleCORS)
	sr.Use(middleware.RequestLogger)
	sr.Methods(http.MethodOptions)

	sr.HandleFunc("/books", handler.listBooks).Methods(http.MethodGet)
	sr.HandleFunc("/books/delete", handler.deleteBookBatch).Methods(http.MethodPost)
	sr.HandleFunc("/books/register", handler.registerBook).Methods(http.MethodPost)
	sr.HandleFunc("/book", handler.createBook).Methods(http.MethodPost)
	sr.HandleFunc("/book/{id}", handler.getBook).Methods(http.MethodGet)
	sr.HandleFunc("/book/{id}", handler.updateBook).Methods(http.MethodPatch)
	sr.HandleFunc("/book/{id}", handler.deleteBook).Methods(http.MethodDelete)

	// Fixed paths must be registered before the {id} routes.
	sr.HandleFunc("/series/options", handler.listSeriesOptions).Methods(http.MethodGet)
	sr.HandleFunc("/series/books", handler.listSeriesWithBooks).Methods(http.MethodGet)
	sr.HandleFunc("/series/order", handler.updateSeriesOrder).Methods(http.MethodPut)
	sr.HandleFunc("/series", handler.listSeries).Methods(http.MethodGet)
	sr.HandleFunc("/series", handler.createSeries).Methods(http.MethodPost)
	sr.HandleFunc("/series/{id}", handler.getSeries).Methods(http.MethodGet)
	sr.HandleFunc("/series/{id}", handler.updateSeries).Methods(http.MethodPatch)
	sr.HandleFunc("/series/{id}", handler.deleteSeries).Methods(http.MethodDelete)
	sr.HandleFunc("/series/{id}/books", handler.getSeriesWithBooks).Methods(http.MethodGet)

	sr.HandleFunc("/shops", handler.listShops).Methods(http.MethodGet)
	sr.HandleFunc("/stats", handler.getStats).Methods(http.MethodGet)
	sr.HandleFunc("/undo", handler.undo).Methods(http.MethodPost)
	sr.HandleFunc("/search", handler.searchCatalog).Methods(http.MethodGet)
	sr.HandleFunc("/refresh/{view}", handler.refreshView).Methods(http.MethodPost)
}
