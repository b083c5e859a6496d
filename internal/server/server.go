package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	"github.com/warelog/warelog/internal/auth"
	"github.com/warelog/warelog/internal/config"
	"github.com/warelog/warelog/internal/domain"
	"github.com/warelog/warelog/internal/export"
	"github.com/warelog/warelog/internal/server/middleware"
	"github.com/warelog/warelog/internal/store/postgres"
	redisstore "github.com/warelog/warelog/internal/store/redis"
	"github.com/warelog/warelog/internal/web"
)

// Server is the HTTP server that wires all application routes and middleware.
type Server struct {
	router     chi.Router
	httpServer *http.Server
	store      *postgres.Store
	auth       *auth.Service
	sessions   *redisstore.Sessions
	cfg        *config.Config
}

// New creates a Server with all routes wired. The context bounds background
// work started by middleware (rate-limiter cleanup).
func New(ctx context.Context, cfg *config.Config, store *postgres.Store, sessions *redisstore.Sessions, authSvc *auth.Service) (*Server, error) {
	router := chi.NewRouter()

	// Global middleware stack.
	router.Use(chimw.RequestID)
	router.Use(chimw.RealIP)
	router.Use(chimw.Logger)
	router.Use(chimw.Recoverer)

	s := &Server{
		router:   router,
		store:    store,
		auth:     authSvc,
		sessions: sessions,
		cfg:      cfg,
		httpServer: &http.Server{
			Addr:         cfg.Server.Addr,
			Handler:      router,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
		},
	}

	exporter := export.NewActivityExporter(store.ActivityLogs())
	handlers, err := web.NewHandlers(store, authSvc, exporter, cfg.Session.TTL, cfg.Server.SecureCookies)
	if err != nil {
		return nil, fmt.Errorf("server.New: %w", err)
	}

	// Login and logout. The login form is rate limited per IP; everything
	// else on the page surface requires an authenticated session.
	router.Group(func(r chi.Router) {
		r.Use(middleware.RateLimitByIP(ctx, 5, 10))
		r.Get("/login", handlers.HandleLoginPage)
		r.Post("/login", handlers.HandleLogin)
	})
	router.Post("/logout", handlers.HandleLogout)

	// Server-rendered admin pages.
	router.Group(func(r chi.Router) {
		r.Use(middleware.SessionAuth(cfg.Session.Secret, sessions))
		registerPageRoutes(r, handlers)
	})

	// Static assets for the pages.
	router.Handle("/static/*", web.StaticHandler())

	// JSON API on /api/v1, Bearer-token authenticated. CORS applies to the
	// API only; the pages are same-origin.
	router.Route("/api/v1", func(r chi.Router) {
		r.Use(cors.New(cors.Options{
			AllowedOrigins:   cfg.Server.CORSOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
			ExposedHeaders:   []string{"X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           300,
		}).Handler)
		r.Use(middleware.Auth(cfg.Session.Secret, sessions))
		r.Use(middleware.RequireTenant())
		r.Use(middleware.RateLimitByIP(ctx, 100, 200))

		apiConfig := huma.DefaultConfig("WareLog API", "1.0.0")
		apiConfig.Servers = []*huma.Server{
			{URL: "/api/v1"},
		}
		api := humachi.New(r, apiConfig)
		registerAPIRoutes(api, store)
	})

	// Health check (unauthenticated).
	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	return s, nil
}

// registerPageRoutes mounts the admin pages behind their role checks. The
// activity browser is open to admins and managers; the treasury editor is
// admin only.
func registerPageRoutes(r chi.Router, h *web.Handlers) {
	r.Get("/", h.HandleHome)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequirePageRole(domain.RoleAdmin, domain.RoleManager))
		r.Get("/activity", h.HandleActivity)
		r.Get("/activity/export", h.HandleActivityExport)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequirePageRole(domain.RoleAdmin))
		r.Get("/treasury", h.HandleTreasury)
		r.Post("/treasury", h.HandleTreasuryPost)
	})
}

// Start begins listening for HTTP requests.
func (s *Server) Start(_ context.Context) error {
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server.Start: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}
