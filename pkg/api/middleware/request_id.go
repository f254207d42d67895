package middleware

import (
	"fmt"
	"net/http"
	"sync/atomic"

	"github.com/Amaranth-us/legal-advisor/pkg/logger"
)

var requestCounter int64

// RequestID stamps each request's context with a process-unique id so log
// lines from one request can be correlated.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := atomic.AddInt64(&requestCounter, 1)
		ctx := logger.ContextWithRequestID(r.Context(), fmt.Sprintf("%d", id))

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
