package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"social/config"
	"social/internal/logging"
)

// RouteRegistrar is implemented by every feature JSON handler.
type RouteRegistrar interface {
	SetupJSONRoutes(r *mux.Router)
}

type Server struct {
	router *mux.Router
	http   *http.Server
}

// NewServer builds the router with the middleware chain and registers every handler.
func NewServer(cfg *config.Config, handlers ...RouteRegistrar) *Server {
	router := NewRouter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
	for _, h := range handlers {
		h.SetupJSONRoutes(router)
	}

	return &Server{
		router: router,
		http: &http.Server{
			Addr:         cfg.HTTPAddr(),
			Handler:      router,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
		},
	}
}

// NewRouter returns a mux router with the standard middleware chain and /health.
func NewRouter(rps float64, burst int) *mux.Router {
	router := mux.NewRouter()
	router.Use(RequestIDMiddleware, Logger, Recoverer, RateLimitMiddleware(rps, burst), IdentityMiddleware)
	router.HandleFunc("/health", healthCheck).Methods(http.MethodGet)
	return router
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// Run blocks until the server stops. http.ErrServerClosed is not an error.
func (s *Server) Run() error {
	logging.Info().Str("addr", s.http.Addr).Msg("starting http server")
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.http.Shutdown(ctx)
}

func healthCheck(w http.ResponseWriter, _ *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
