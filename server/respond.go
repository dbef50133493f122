package server

import (
	"net/http"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/goccy/go-json"
	"github.com/sirupsen/logrus"

	"gamegraph/graphdb"
)

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error string   `json:"error"`
	Hints []string `json:"hints,omitempty"`
}

// respondJSON sends a JSON response with proper headers
func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		logrus.WithField("component", "Server").WithError(err).Error("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logrus.WithField("component", "Server").WithError(err).Error("Failed to write JSON response")
	}
}

// respondError maps err to a status code and sends it with any hints
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		logrus.WithFields(logrus.Fields{
			"component":  "Server",
			"request_id": middleware.GetReqID(r.Context()),
			"path":       r.URL.Path,
		}).WithError(err).Error("Request failed")
	}

	resp := ErrorResponse{Error: err.Error()}
	if hint := errors.FlattenHints(err); hint != "" {
		resp.Hints = []string{hint}
	}
	respondJSON(w, status, resp)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, graphdb.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, graphdb.ErrInvalidArgument):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// requestLogger logs every request through logrus
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		logrus.WithFields(logrus.Fields{
			"component":   "Server",
			"request_id":  middleware.GetReqID(r.Context()),
			"method":      r.Method,
			"path":        r.URL.Path,
			"status":      ww.Status(),
			"bytes":       ww.BytesWritten(),
			"duration_ms": time.Since(start).Milliseconds(),
		}).Debug("Request handled")
	})
}
