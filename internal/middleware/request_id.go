package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gofrs/uuid"

	"challengehub/internal/contextutils"
)

// HeaderXRequestID carries the correlation id on requests and responses.
const HeaderXRequestID = "X-Request-ID"

// RequestID assigns every request a correlation id, honoring one supplied
// by the caller for distributed tracing.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(HeaderXRequestID)
		if requestID == "" {
			if id, err := uuid.NewV4(); err == nil {
				requestID = id.String()
			} else {
				requestID = fmt.Sprintf("req-%d", time.Now().UnixNano())
			}
		}

		w.Header().Set(HeaderXRequestID, requestID)
		ctx := contextutils.WithRequestID(r.Context(), requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
