// Package httpserver exposes the authentication REST surface and the
// middleware chain every other handler group plugs into.
package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/mail"

	"go.uber.org/zap"

	"github.com/MarcusLeong7/vttp-project/internal/errs"
	"github.com/MarcusLeong7/vttp-project/internal/service"
)

// minPasswordLen is the registration input floor. Full password policy is an
// input-validation concern of the registration form, not of credential
// verification.
const minPasswordLen = 8

// Pinger reports backend reachability for the health endpoint.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handlers wires the auth service into HTTP handlers.
type Handlers struct {
	auth    service.AuthService
	primary Pinger
	mirror  Pinger
	log     *zap.Logger
}

// NewHandlers constructs the handler set. primary and mirror are the health
// probes for the relational and key-value stores.
func NewHandlers(auth service.AuthService, primary, mirror Pinger, log *zap.Logger) *Handlers {
	return &Handlers{auth: auth, primary: primary, mirror: mirror, log: log}
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register handles POST /api/auth/register.
func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"status": "error", "message": "invalid request body",
		})
		return
	}
	if msg, ok := validateCredentials(req); !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"status": "error", "message": msg,
		})
		return
	}

	err := h.auth.Register(r.Context(), req.Email, req.Password)
	switch {
	case errors.Is(err, errs.ErrAlreadyExists):
		writeJSON(w, http.StatusConflict, map[string]string{
			"status": "error", "message": "Email is already registered",
		})
	case err != nil:
		h.log.Error("register failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"status": "error", "message": "Registration failed",
		})
	default:
		writeJSON(w, http.StatusCreated, map[string]string{
			"status": "success", "message": "User successfully registered!",
		})
	}
}

// Login handles POST /api/auth/login. Failures are deliberately uniform:
// the response never says whether the email exists.
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"status": "error", "message": "invalid request body",
		})
		return
	}

	tokens, err := h.auth.Login(r.Context(), req.Email, req.Password)
	switch {
	case errors.Is(err, errs.ErrUnauthorized):
		writeJSON(w, http.StatusUnauthorized, map[string]string{
			"status": "error", "message": "Invalid email or password!",
		})
	case err != nil:
		h.log.Error("login failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"status": "error", "message": "Login failed",
		})
	default:
		writeJSON(w, http.StatusOK, map[string]string{
			"status":  "success",
			"message": "Login successful!",
			"email":   req.Email,
			"token":   tokens.AccessToken,
		})
	}
}

// Profile handles GET /api/user/profile (protected).
func (h *Handlers) Profile(w http.ResponseWriter, r *http.Request) {
	p, ok := PrincipalFromCtx(r.Context())
	if !ok {
		// RequireAuth guards the route; this is a wiring bug if reached.
		writeJSON(w, http.StatusUnauthorized, map[string]string{
			"status": "error", "message": "unauthenticated",
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"email":   p.Email,
		"premium": p.Premium,
	})
}

// Health handles GET /health. The relational store decides liveness; the
// mirror only colors the report.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	body := map[string]string{"status": "ok", "postgres": "up", "redis": "up"}
	code := http.StatusOK

	if err := h.primary.Ping(r.Context()); err != nil {
		body["status"] = "degraded"
		body["postgres"] = "down"
		code = http.StatusServiceUnavailable
	}
	if err := h.mirror.Ping(r.Context()); err != nil {
		body["redis"] = "down"
	}
	writeJSON(w, code, body)
}

func validateCredentials(req credentialsRequest) (string, bool) {
	if req.Email == "" || req.Password == "" {
		return "email and password are required", false
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		return "invalid email address", false
	}
	if len(req.Password) < minPasswordLen {
		return "password must be at least 8 characters", false
	}
	return "", true
}

func writeJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}
