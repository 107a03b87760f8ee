package middleware

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"challengehub/internal/contextutils"
)

// statusRecorder captures the status code written by the handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

const slowRequestThreshold = 1 * time.Second

// Logger logs one line per request with latency and status.
func Logger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(recorder, r)

			duration := time.Since(start)
			fields := []zap.Field{
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", recorder.status),
				zap.Duration("duration", duration),
				zap.String("request_id", contextutils.GetRequestID(r.Context())),
			}
			if userID := contextutils.GetUserID(r.Context()); userID != 0 {
				fields = append(fields, zap.Int64("user_id", userID))
			}

			switch {
			case recorder.status >= 500:
				logger.Error("Request failed", fields...)
			case duration > slowRequestThreshold:
				logger.Warn("Slow request", fields...)
			default:
				logger.Info("Request completed", fields...)
			}
		})
	}
}
