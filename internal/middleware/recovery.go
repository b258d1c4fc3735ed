package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"

	log "github.com/sirupsen/logrus"

	"github.com/2beens/neuralspace/internal/apierr"
	"github.com/2beens/neuralspace/internal/telemetry/metrics"
)

var errHandlerPanic = errors.New("handler panic")

// PanicRecovery turns a handler panic into the generic 500 body. The panic
// value and stack are logged at error level, which also reaches Sentry.
// http.ErrAbortHandler is re-raised so net/http can drop the connection.
func PanicRecovery(metricsManager *metrics.Manager) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				recovered := recover()
				if recovered == nil {
					return
				}
				if recovered == http.ErrAbortHandler {
					panic(recovered)
				}

				if metricsManager != nil {
					metricsManager.CounterHandleRequestPanic.Inc()
				}
				log.WithFields(log.Fields{
					"request_id": RequestIDFromContext(r.Context()),
					"method":     r.Method,
					"path":       r.URL.Path,
					"stack":      string(debug.Stack()),
				}).WithError(fmt.Errorf("%w: %v", errHandlerPanic, recovered)).Error("recovered from panic")

				apierr.Write(w, apierr.Storage(errHandlerPanic))
			}()

			next.ServeHTTP(w, r)
		})
	}
}
