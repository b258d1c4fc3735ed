package middleware

import (
	"context"
	"net/http"

	"go.opentelemetry.io/otel/codes"

	"github.com/2beens/neuralspace/internal/apierr"
	"github.com/2beens/neuralspace/internal/auth"
	"github.com/2beens/neuralspace/internal/telemetry/tracing"
)

//go:generate mockgen -source=$GOFILE -destination=auth_mocks_test.go -package=middleware_test

type sessionValidator interface {
	Validate(ctx context.Context, token string) (*auth.Admin, error)
}

type tokenReader interface {
	Token(r *http.Request) string
}

// AuthMiddlewareHandler gates the admin router: every request must carry a
// valid session cookie, except the paths listed in allowedPaths.
type AuthMiddlewareHandler struct {
	validator    sessionValidator
	tokenReader  tokenReader
	allowedPaths map[string]bool
}

func NewAuthMiddlewareHandler(
	validator sessionValidator,
	tokenReader tokenReader,
) *AuthMiddlewareHandler {
	return &AuthMiddlewareHandler{
		validator:   validator,
		tokenReader: tokenReader,
		allowedPaths: map[string]bool{
			// login-logout:
			"/api/admin/login":  true,
			"/api/admin/logout": true,
		},
	}
}

func (h *AuthMiddlewareHandler) AuthCheck() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, span := tracing.GlobalTracer.Start(r.Context(), "middleware.auth")
			defer span.End()

			if r.Method == http.MethodOptions || h.allowedPaths[r.URL.Path] {
				span.SetStatus(codes.Ok, "ok")
				next.ServeHTTP(w, r)
				return
			}

			admin, err := h.validator.Validate(ctx, h.tokenReader.Token(r))
			if err != nil {
				span.SetStatus(codes.Error, "not-authenticated")
				apierr.Write(w, err)
				return
			}

			span.SetStatus(codes.Ok, "ok")
			next.ServeHTTP(w, r.WithContext(auth.WithAdmin(r.Context(), admin)))
		})
	}
}
