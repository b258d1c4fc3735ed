package middleware

import (
	"io"
	"net/http"
)

// DrainAndCloseRequest drains what the handler left unread in the request
// body and closes it, so the connection can be reused.
func DrainAndCloseRequest() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r)
			if r.Body != nil && r.Body != http.NoBody {
				_, _ = io.Copy(io.Discard, io.LimitReader(r.Body, maxDrainBytes))
				_ = r.Body.Close()
			}
		})
	}
}

const maxDrainBytes = 1 << 20
