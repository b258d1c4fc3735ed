package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

const RequestIDHeader = "X-Request-Id"

type requestIDCtxKey struct{}

func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDCtxKey{}).(string)
	return id
}

// LogRequest tags each request with an ID (kept from the client when
// present) and logs it once served.
func LogRequest() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := r.Header.Get(RequestIDHeader)
			if _, err := uuid.Parse(requestID); err != nil {
				requestID = uuid.NewString()
			}
			w.Header().Set(RequestIDHeader, requestID)

			resp := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
			begin := time.Now()
			next.ServeHTTP(resp, r.WithContext(context.WithValue(r.Context(), requestIDCtxKey{}, requestID)))

			log.WithFields(log.Fields{
				"request_id": requestID,
				"method":     r.Method,
				"path":       r.URL.Path,
				"status":     resp.statusCode,
				"duration":   time.Since(begin).String(),
				"user_agent": r.Header.Get("User-Agent"),
			}).Trace("request served")
		})
	}
}
