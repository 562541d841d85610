// Package web provides the HTTP server for previewing and converting CSV
// files and for managing saved profiles.
package web

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/JonMunkholm/csvlayout/internal/config"
	"github.com/JonMunkholm/csvlayout/internal/logging"
	"github.com/JonMunkholm/csvlayout/internal/service"
	"github.com/JonMunkholm/csvlayout/internal/web/middleware"
)

// multipartOverhead is allowed on top of MAX_FILE_SIZE for form fields and
// multipart framing.
const multipartOverhead = 1 << 20

// Server is the HTTP server for the conversion UI and API.
type Server struct {
	service *service.Service
	cfg     *config.Config
	router  *chi.Mux
	server  *http.Server

	limiters []*middleware.RateLimiter
}

// NewServer creates a new Server instance.
func NewServer(svc *service.Service, cfg *config.Config) *Server {
	s := &Server{
		service: svc,
		cfg:     cfg,
		router:  chi.NewRouter(),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// setupMiddleware configures middleware for all routes.
func (s *Server) setupMiddleware() {
	s.router.Use(chimw.RequestID)
	s.router.Use(middleware.TrustedRealIP(s.cfg.Security.TrustedProxies))
	s.router.Use(middleware.Logger)
	s.router.Use(chimw.Recoverer)
	s.router.Use(chimw.Timeout(s.cfg.Server.RequestTimeout))
	s.router.Use(securityHeaders)

	if s.cfg.Rate.Enabled {
		s.router.Use(s.rateLimit(s.cfg.Rate.RequestsPerMinute))
	}
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	convertLimit := func(next http.Handler) http.Handler { return next }
	if s.cfg.Rate.Enabled {
		convertLimit = s.rateLimit(s.cfg.Rate.ConvertLimit)
	}

	// Pages
	s.router.Get("/", s.handleIndex)
	s.router.With(convertLimit).Post("/preview", s.handlePreviewPage)

	// Profile changes need an API key when API_KEYS is set
	guard := middleware.RequireAPIKey(s.cfg.Security.APIKeys)

	s.router.Route("/api", func(r chi.Router) {
		r.With(convertLimit).Post("/preview", s.handlePreview)
		r.With(convertLimit).Post("/convert", s.handleConvert)

		r.Route("/profiles", func(r chi.Router) {
			r.Get("/", s.handleListProfiles)
			r.With(guard).Post("/", s.handleCreateProfile)
			r.Get("/export", s.handleExportProfiles)
			r.With(guard).Post("/import", s.handleImportProfiles)
			r.Get("/match", s.handleMatchHeaders)
			r.With(convertLimit).Post("/match", s.handleMatchFile)
			r.Get("/{id}", s.handleGetProfile)
			r.With(guard).Put("/{id}", s.handleUpdateProfile)
			r.With(guard).Delete("/{id}", s.handleDeleteProfile)
		})
	})
}

func (s *Server) rateLimit(perMinute int) func(http.Handler) http.Handler {
	rl := middleware.NewRateLimiter(perMinute, time.Minute)
	s.limiters = append(s.limiters, rl)
	return rl.Middleware
}

// Start begins listening for HTTP requests. It blocks until the server
// stops; the rate limiter cleanup runs until ctx is done.
func (s *Server) Start(ctx context.Context, addr string) error {
	for _, rl := range s.limiters {
		go rl.Cleanup(ctx)
	}

	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
		IdleTimeout:  s.cfg.Server.IdleTimeout,
	}

	logging.FromContext(ctx).Info("starting server", "addr", addr)
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Router returns the underlying chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// securityHeaders adds security headers to all responses.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Content-Security-Policy", "default-src 'self'; style-src 'self' 'unsafe-inline'; img-src 'self' data:")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		next.ServeHTTP(w, r)
	})
}
