package httpserver

import (
	"errors"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/gofrs/uuid/v5"
	"go.uber.org/zap"

	"github.com/MarcusLeong7/vttp-project/internal/errs"
	"github.com/MarcusLeong7/vttp-project/internal/model"
	"github.com/MarcusLeong7/vttp-project/internal/repository"
	"github.com/MarcusLeong7/vttp-project/internal/token"
)

// AuthGate reconstructs per-request trust from a bearer token. It runs once
// per request, ahead of route dispatch, and either attaches a principal or
// leaves the request unauthenticated; it never writes a response and never
// touches the stores beyond a single read.
type AuthGate struct {
	tokens   *token.Manager
	accounts repository.AccountLookup
	log      *zap.Logger
}

// NewAuthGate constructs the gate over a token verifier and account lookup.
func NewAuthGate(tokens *token.Manager, accounts repository.AccountLookup, log *zap.Logger) *AuthGate {
	return &AuthGate{tokens: tokens, accounts: accounts, log: log}
}

// Handler wraps next with the authentication gate. Every verification
// failure degrades to "no principal": downstream handlers decide whether
// that is a 401. Only a fully verified token whose subject resolves to a
// known account yields a principal.
func (g *AuthGate) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, ok := bearerToken(r)
		if !ok {
			next.ServeHTTP(w, r)
			return
		}

		subject, err := g.tokens.ExtractSubject(raw)
		if err != nil {
			// Malformed and expired tokens are both absence of credential,
			// but stay distinguishable in the logs.
			if errors.Is(err, errs.ErrTokenExpired) {
				g.log.Debug("expired bearer token", zap.String("path", r.URL.Path))
			} else {
				g.log.Debug("malformed bearer token", zap.String("path", r.URL.Path))
			}
			next.ServeHTTP(w, r)
			return
		}

		// First valid token wins; an already attached principal is kept.
		if _, attached := PrincipalFromCtx(r.Context()); attached {
			next.ServeHTTP(w, r)
			return
		}

		a, err := g.accounts.FindByEmail(r.Context(), subject)
		if err != nil {
			if !errors.Is(err, errs.ErrNotFound) {
				g.log.Warn("account resolution failed", zap.Error(err))
			}
			next.ServeHTTP(w, r)
			return
		}

		if !g.tokens.Valid(raw, a.Email) {
			next.ServeHTTP(w, r)
			return
		}

		ctx := WithPrincipal(r.Context(), model.Principal{Email: a.Email, Premium: a.Premium})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// bearerToken extracts the token from "Authorization: Bearer <token>".
func bearerToken(r *http.Request) (string, bool) {
	h := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(h) < 7 || !strings.EqualFold(h[:7], "bearer ") {
		return "", false
	}
	t := strings.TrimSpace(h[7:])
	return t, t != ""
}

// RequireAuth rejects requests that reached a protected route without a
// principal. Pairs with the gate: the gate resolves, this enforces.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !IsAuthenticated(r) {
			writeJSON(w, http.StatusUnauthorized, map[string]string{
				"status":  "error",
				"message": "unauthenticated",
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Logging returns middleware that logs one line per request.
func Logging(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			reqID := ""
			if id, err := uuid.NewV4(); err == nil {
				reqID = id.String()
			}
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(sw, r)

			// metadata only, no payloads
			log.Info("http",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", sw.status),
				zap.Duration("dur", time.Since(start)),
				zap.String("remote", r.RemoteAddr),
				zap.String("req_id", reqID),
			)
		})
	}
}

// Recover returns middleware that converts panics into 500s.
func Recover(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					log.Error("panic",
						zap.Any("reason", rec),
						zap.ByteString("stack", debug.Stack()),
						zap.String("path", r.URL.Path),
					)
					writeJSON(w, http.StatusInternalServerError, map[string]string{
						"status":  "error",
						"message": "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}
