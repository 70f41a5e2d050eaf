package server

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"kioskd/internal/logging"
)

// statusRecorder captures the status code written by a handler
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// requestLogMiddleware tags each request with an id and logs its outcome
func (s *Server) requestLogMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		requestID := uuid.NewString()
		w.Header().Set("X-Request-ID", requestID)

		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		next(recorder, r)

		logging.Info("%s %s %s -> %d (%s) [%s]",
			r.RemoteAddr, r.Method, r.URL.Path, recorder.status, time.Since(start), requestID)
	}
}
