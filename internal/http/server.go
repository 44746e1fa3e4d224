// Package http wires the chi router, middleware chain and resource handlers.
package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"bookkeeper/internal/auth"
	"bookkeeper/internal/httputil"
	"bookkeeper/internal/log"
	authmw "bookkeeper/internal/middleware/auth"
	"bookkeeper/internal/middleware/ratelimit"
	"bookkeeper/internal/middleware/security"
	"bookkeeper/internal/middleware/trace"
	"bookkeeper/internal/services"
	"bookkeeper/internal/storage"
)

// Services groups the domain services the handlers call.
type Services struct {
	Login      *services.LoginService
	Users      *services.UserService
	Profiles   *services.ProfileService
	Expenses   *services.EntryService
	Incomes    *services.EntryService
	Categories *services.CategoryService
	Savings    *services.SavingsService
}

// Server is the API server.
type Server struct {
	httpServer *http.Server
	limiter    *ratelimit.Limiter
	logger     *log.Logger
}

type handlers struct {
	svcs   Services
	logger *log.Logger
}

func NewServer(port int, store *storage.Store, tokens *auth.TokenManager, svcs Services, logger *log.Logger) *Server {
	httpLogger := logger.WithComponent(log.ComponentHTTP)
	h := &handlers{svcs: svcs, logger: httpLogger}

	limiter := ratelimit.NewLimiter(ratelimit.DefaultConfig())
	tracer := trace.NewMiddleware(logger, security.ExtractClientIP)

	r := chi.NewRouter()
	r.Use(tracer.Middleware)
	r.Use(security.Headers)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if err := store.Ping(r.Context()); err != nil {
			httputil.WriteError(w, http.StatusServiceUnavailable, "ReadinessError", "database unreachable")
			return
		}
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(limiter.Middleware(security.ExtractClientIP, func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Retry-After", "60")
				httputil.WriteError(w, http.StatusTooManyRequests, "RateLimitError", "too many requests")
			}))
			r.Post("/auth/authenticate", h.authenticate)
			r.Post("/users", h.createUser)
		})

		r.Group(func(r chi.Router) {
			r.Use(authmw.Middleware(tokens))

			r.Get("/users", h.listUsers)
			r.Route("/users/{userName}", func(r chi.Router) {
				r.Get("/", h.getUser)
				r.Put("/", h.updateUser)
				r.Delete("/", h.deleteUser)
			})

			r.Get("/profiles", h.listProfiles)
			r.Post("/profiles", h.createProfile)
			r.Route("/profiles/{profileName}", func(r chi.Router) {
				r.Get("/", h.getProfile)
				r.Put("/", h.updateProfile)
				r.Delete("/", h.deleteProfile)
				r.Get("/savings", h.getSavings)
				r.Route("/expenses", entryRoutes(h, svcs.Expenses, "ExpenseFindError"))
				r.Route("/incomes", entryRoutes(h, svcs.Incomes, "IncomeFindError"))
			})

			r.Get("/categories", h.listCategories)
			r.Post("/categories", h.createCategory)
			r.Route("/categories/{categoryName}", func(r chi.Router) {
				r.Get("/", h.getCategory)
				r.Put("/", h.updateCategory)
				r.Delete("/", h.deleteCategory)
			})

			r.Get("/savings", h.listSavings)
		})
	})

	return &Server{
		httpServer: &http.Server{
			Addr:         fmt.Sprintf(":%d", port),
			Handler:      r,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		limiter: limiter,
		logger:  httpLogger,
	}
}

func entryRoutes(h *handlers, svc *services.EntryService, findErrorType string) func(chi.Router) {
	return func(r chi.Router) {
		r.Get("/", h.listEntries(svc, findErrorType))
		r.Post("/", h.createEntry(svc, findErrorType))
		r.Get("/{entryID}", h.getEntry(svc, findErrorType))
		r.Put("/{entryID}", h.updateEntry(svc, findErrorType))
		r.Delete("/{entryID}", h.deleteEntry(svc, findErrorType))
	}
}

// ListenAndServe blocks until the server stops.
func (s *Server) ListenAndServe() error {
	s.logger.Info("server listening", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown drains in-flight requests and stops the rate limiter.
func (s *Server) Shutdown(ctx context.Context) error {
	s.limiter.Stop()
	return s.httpServer.Shutdown(ctx)
}

// Handler exposes the routed handler for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}
