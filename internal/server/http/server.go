package httpserver

import (
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// NewRouter assembles the request pipeline. Ordering matters: recovery and
// logging wrap everything, and the gate runs exactly once per request,
// before any route handler. Route protection is declared per subtree the way
// the original security config split public from authenticated paths.
func NewRouter(gate *AuthGate, h *Handlers, log *zap.Logger) *mux.Router {
	r := mux.NewRouter()
	r.Use(Recover(log))
	r.Use(Logging(log))
	r.Use(gate.Handler)

	// Public.
	r.HandleFunc("/health", h.Health).Methods(http.MethodGet)
	auth := r.PathPrefix("/api/auth").Subrouter()
	auth.HandleFunc("/register", h.Register).Methods(http.MethodPost)
	auth.HandleFunc("/login", h.Login).Methods(http.MethodPost)

	// Protected.
	user := r.PathPrefix("/api/user").Subrouter()
	user.Use(RequireAuth)
	user.HandleFunc("/profile", h.Profile).Methods(http.MethodGet)

	return r
}
