package auth

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/codes"

	"github.com/2beens/neuralspace/internal/apierr"
	"github.com/2beens/neuralspace/internal/telemetry/metrics"
	"github.com/2beens/neuralspace/internal/telemetry/tracing"
	"github.com/2beens/neuralspace/pkg"
)

const MsgInvalidCredentials = "Invalid username or password"

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	User    User   `json:"user"`
}

type LogoutResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type VerifyResponse struct {
	Valid bool `json:"valid"`
	User  User `json:"user"`
}

type Handler struct {
	service        *Service
	cookies        Cookies
	metricsManager *metrics.Manager
}

func NewHandler(service *Service, cookies Cookies, metricsManager *metrics.Manager) *Handler {
	return &Handler{
		service:        service,
		cookies:        cookies,
		metricsManager: metricsManager,
	}
}

// SetupSessionRoutes registers login and logout. The server puts them on
// their own rate limited subrouter.
func (handler *Handler) SetupSessionRoutes(sessionRouter *mux.Router) {
	sessionRouter.HandleFunc("/login", handler.handleLogin).Methods("POST", "OPTIONS").Name("admin-login")
	sessionRouter.HandleFunc("/logout", handler.handleLogout).Methods("POST", "OPTIONS").Name("admin-logout")
}

func (handler *Handler) SetupRoutes(adminRouter *mux.Router) {
	adminRouter.HandleFunc("/verify", handler.handleVerify).Methods("GET", "OPTIONS").Name("admin-verify")
}

func (handler *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "authHandler.login")
	defer span.End()

	var loginReq LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&loginReq); err != nil {
		log.Tracef("login, unmarshal json params: %s", err)
		apierr.Write(w, apierr.BadRequest("invalid login request"))
		return
	}

	result, err := handler.service.Login(ctx, loginReq.Username, loginReq.Password)
	if err != nil {
		handler.metricsManager.LoginAttempt(false)
		span.SetStatus(codes.Error, "login-failed")
		if errors.Is(err, ErrInvalidCredentials) {
			apierr.Write(w, apierr.Unauthenticated(MsgInvalidCredentials))
			return
		}
		apierr.Write(w, apierr.Storage(err))
		return
	}

	handler.metricsManager.LoginAttempt(true)
	handler.cookies.Set(w, result.Session.Token)
	pkg.WriteJSONResponseOK(w, LoginResponse{
		Success: true,
		Message: "Login successful",
		User:    result.Admin.User(),
	})
}

func (handler *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "authHandler.logout")
	defer span.End()

	if err := handler.service.Logout(ctx, handler.cookies.Token(r)); err != nil {
		// the client is logged out regardless, the session expires on its own
		log.Errorf("logout: %s", err)
		span.RecordError(err)
	}

	handler.cookies.Clear(w)
	pkg.WriteJSONResponseOK(w, LogoutResponse{
		Success: true,
		Message: "Logout successful",
	})
}

func (handler *Handler) handleVerify(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "authHandler.verify")
	defer span.End()

	admin, err := handler.service.Verify(ctx, handler.cookies.Token(r))
	if err != nil {
		apierr.Write(w, err)
		return
	}

	pkg.WriteJSONResponseOK(w, VerifyResponse{
		Valid: true,
		User:  admin.User(),
	})
}
