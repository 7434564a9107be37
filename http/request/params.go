package request //import "github.com/hondana-dev/hondana/http/request"

import (
	"net/http"

	"github.com/gorilla/mux"
)

// RouteStringParam returns an URL route parameter as string.
func RouteStringParam(r *http.Request, param string) string {
	vars := mux.Vars(r)
	return vars[param]
}

// QueryStringParam returns a query string parameter, or the fallback when
// absent.
func QueryStringParam(r *http.Request, param, fallback string) string {
	value := r.URL.Query().Get(param)
	if value == "" {
		return fallback
	}
	return value
}
