package response //import "github.com/hondana-dev/hondana/http/response"

import (
	"encoding/json"
	"net/http"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/hondana-dev/hondana/apperr"
	"github.com/hondana-dev/hondana/http/request"
	"github.com/hondana-dev/hondana/log"
)

const contentTypeHeader = `application/json`

// OK creates a new JSON response with a 200 status code.
func OK(w http.ResponseWriter, r *http.Request, body interface{}) {
	builder := New(w, r)
	builder.WithHeader("Content-Type", contentTypeHeader)
	builder.WithBody(toJSON(body))
	builder.Write()
}

// Created sends a created response to the client.
func Created(w http.ResponseWriter, r *http.Request, body interface{}) {
	builder := New(w, r)
	builder.WithStatus(http.StatusCreated)
	builder.WithHeader("Content-Type", contentTypeHeader)
	builder.WithBody(toJSON(body))
	builder.Write()
}

// NoContent sends a no content response to the client.
func NoContent(w http.ResponseWriter, r *http.Request) {
	builder := New(w, r)
	builder.WithStatus(http.StatusNoContent)
	builder.WithHeader("Content-Type", contentTypeHeader)
	builder.Write()
}

// ServerError sends an internal error to the client.
func ServerError(w http.ResponseWriter, r *http.Request, err error) {
	logRequestError(http.StatusInternalServerError, r, err)
	writeError(w, r, http.StatusInternalServerError, err)
}

// BadRequest sends a bad request error to the client.
func BadRequest(w http.ResponseWriter, r *http.Request, err error) {
	logRequestWarn(http.StatusBadRequest, r, err)
	writeError(w, r, http.StatusBadRequest, err)
}

// NotFound sends a not found error to the client.
func NotFound(w http.ResponseWriter, r *http.Request, err error) {
	logRequestWarn(http.StatusNotFound, r, err)
	writeError(w, r, http.StatusNotFound, err)
}

// Conflict sends a conflict error to the client.
func Conflict(w http.ResponseWriter, r *http.Request, err error) {
	logRequestWarn(http.StatusConflict, r, err)
	writeError(w, r, http.StatusConflict, err)
}

// BadGateway sends an upstream failure to the client.
func BadGateway(w http.ResponseWriter, r *http.Request, err error) {
	logRequestWarn(http.StatusBadGateway, r, err)
	writeError(w, r, http.StatusBadGateway, err)
}

// Error maps the typed error taxonomy onto a status code.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	var verr *apperr.ValidationError
	var nerr *apperr.NetworkError
	switch {
	case errors.As(err, &verr):
		logRequestWarn(http.StatusBadRequest, r, err)
		builder := New(w, r)
		builder.WithStatus(http.StatusBadRequest)
		builder.WithHeader("Content-Type", contentTypeHeader)
		builder.WithBody(toJSON(map[string]any{
			"error":  "validation failed",
			"fields": verr.Violations,
		}))
		builder.Write()
	case errors.Is(err, apperr.ErrNotFound):
		NotFound(w, r, err)
	case errors.Is(err, apperr.ErrDuplicateEntry),
		errors.Is(err, apperr.ErrForeignKey),
		errors.Is(err, apperr.ErrConstraint):
		Conflict(w, r, err)
	case errors.As(err, &nerr):
		BadGateway(w, r, err)
	default:
		ServerError(w, r, err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, statusCode int, err error) {
	builder := New(w, r)
	builder.WithStatus(statusCode)
	builder.WithHeader("Content-Type", contentTypeHeader)
	builder.WithBody(toJSONError(err))
	builder.Write()
}

func logRequestError(statusCode int, r *http.Request, err error) {
	log.Error(http.StatusText(statusCode),
		zap.Error(err),
		zap.String("client_ip", request.FindClientIP(r)),
		zap.String("request.method", r.Method),
		zap.String("request.uri", r.RequestURI),
		zap.Int("response.status_code", statusCode),
	)
}

func logRequestWarn(statusCode int, r *http.Request, err error) {
	log.Warn(http.StatusText(statusCode),
		zap.Any("error", err),
		zap.String("client_ip", request.FindClientIP(r)),
		zap.String("request.method", r.Method),
		zap.String("request.uri", r.RequestURI),
		zap.Int("response.status_code", statusCode),
	)
}

func toJSON(v interface{}) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		log.Error("Unable to marshal JSON response", zap.Error(err))
		return []byte("")
	}
	return b
}

func toJSONError(err error) []byte {
	return toJSON(map[string]string{"error": err.Error()})
}
