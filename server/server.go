package server //import "github.com/hondana-dev/hondana/server"

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	v1 "github.com/hondana-dev/hondana/api/v1"
	"github.com/hondana-dev/hondana/catalog"
	"github.com/hondana-dev/hondana/config"
	"github.com/hondana-dev/hondana/library"
	"github.com/hondana-dev/hondana/log"
	"github.com/hondana-dev/hondana/store"
	"github.com/hondana-dev/hondana/version"
	"github.com/hondana-dev/hondana/worker"
)

// StartServer starts the HTTP server in a goroutine and returns it so the
// caller can shut it down on signal.
func StartServer(ctx context.Context, store *store.Store, svc *library.Service, catalog *catalog.Client, pool worker.WorkPool) (*http.Server, error) {
	server := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", config.Opts.Host, config.Opts.Port),
		Handler: setupHandler(store, svc, catalog, pool),
	}

	go func() {
		log.Info("Starting HTTP server", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	return server, nil
}

// Shutdown drains in-flight requests before closing.
func Shutdown(server *http.Server) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Error("HTTP server shutdown error", zap.Error(err))
	}
}

func setupHandler(store *store.Store, svc *library.Service, catalog *catalog.Client, pool worker.WorkPool) http.Handler {
	router := mux.NewRouter()

	v1.Server(router, store, svc, catalog, pool)

	router.HandleFunc("/healthcheck", func(w http.ResponseWriter, r *http.Request) {
		if err := store.Ping(); err != nil {
			http.Error(w, "Database Connection Error", http.StatusInternalServerError)
			return
		}
		w.Write([]byte("OK"))
	}).Name("healthcheck")

	router.HandleFunc("/version", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(version.GetCurrentVersion()))
	}).Name("version")

	return router
}
