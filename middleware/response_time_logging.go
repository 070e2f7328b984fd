package middleware

import (
	"fmt"
	"net/http"
	"time"

	"event-manager-backend/logger"
)

// statusRecorder remembers the status code written by the handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func ResponseTimeLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now().UTC()
		defer func() {
			logger.LogExecutionTime(r.Context(), start, fmt.Sprintf("Total response for %s %s (%d)", r.Method, r.URL.Path, rec.status))
		}()
		next.ServeHTTP(rec, r)
	})
}
