package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

type StatusRecorder struct {
	http.ResponseWriter
	status int
}

func (w *StatusRecorder) WriteHeader(status int) {
	if w.status == 0 {
		w.status = status
	}
	w.ResponseWriter.WriteHeader(status)
}

func (w *StatusRecorder) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	return w.ResponseWriter.Write(b)
}

func (w *StatusRecorder) Status() int {
	if w.status == 0 {
		return http.StatusOK
	}
	return w.status
}

func recorderFor(w http.ResponseWriter) *StatusRecorder {
	if rec, ok := w.(*StatusRecorder); ok {
		return rec
	}
	return &StatusRecorder{ResponseWriter: w}
}

// Logger writes one line per request and turns panics into a 500. It sits
// right after RequestID so the handlers and middleware below it are covered.
func Logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := recorderFor(w)
		start := time.Now()
		logger := zerolog.Ctx(r.Context())

		defer func() {
			if err := recover(); err != nil {
				logger.Error().
					Str("method", r.Method).
					Str("url", r.URL.String()).
					Str("error", fmt.Sprint(err)).
					Msg("panic while serving request")

				rec.Header().Set("Content-Type", "application/json")
				rec.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(rec).Encode(map[string]string{"error": "internal server error"})
			}

			ev := logger.Info()
			if rec.Status() >= http.StatusInternalServerError {
				ev = logger.Error()
			}
			ev.Str("method", r.Method).
				Str("url", r.URL.String()).
				Int("status", rec.Status()).
				Dur("duration", time.Since(start)).
				Msg("request completed")
		}()

		next.ServeHTTP(rec, r)
	})
}
