// Package server exposes the Waymark service as a JSON HTTP API.
//
// Sessions are bearer tokens: POST /api/v1/sessions starts a guest session,
// POST /api/v1/login upgrades one (or starts a new one) for a user. Guests
// may browse and like. Creating, commenting and the profile need a
// logged-in session.
package server

import (
	"context"
	"errors"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-playground/validator/v10"

	"github.com/matzehuels/waymark/pkg/buildinfo"
	"github.com/matzehuels/waymark/pkg/service"
)

// Options configures a Server.
type Options struct {
	Addr        string
	CORSOrigins []string
	Logger      *log.Logger

	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout time.Duration
}

// Server serves the HTTP API over a service.
type Server struct {
	svc      *service.Service
	opts     Options
	logger   *log.Logger
	validate *validator.Validate
	router   chi.Router
}

// New creates a Server and its routes.
func New(svc *service.Service, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if len(opts.CORSOrigins) == 0 {
		opts.CORSOrigins = []string{"*"}
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = 15 * time.Second
	}
	s := &Server{
		svc:      svc,
		opts:     opts,
		logger:   opts.Logger,
		validate: newValidator(),
	}
	s.router = s.routes()
	return s
}

// newValidator reports fields by their JSON names.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(requestLogger(s.logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.opts.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID", "X-Cache"},
		MaxAge:         300,
	}))

	r.Get("/health", s.health)

	r.Route("/api/v1", func(r chi.Router) {
		// A client holding a stale token can still start over.
		r.Group(func(r chi.Router) {
			r.Use(s.loadSessionIfValid)
			r.Post("/sessions", s.startSession)
			r.Post("/login", s.login)
		})

		r.Group(func(r chi.Router) {
			r.Use(s.loadSession)

			r.With(s.requireSession).Post("/logout", s.logout)
			r.With(s.requireSession).Get("/profile", s.profile)
			r.Get("/users/{username}", s.userProfile)

			r.Route("/roadmaps", func(r chi.Router) {
				r.Get("/", s.listRoadmaps)
				r.With(s.requireSession).Post("/", s.createRoadmap)
				r.Get("/{id}", s.getRoadmap)
				r.Get("/{id}/diagram", s.diagram)
				r.With(s.requireSession).Post("/{id}/comments", s.addComment)
				r.With(s.requireSession).Post("/{id}/like", s.toggleLike)
			})
		})
	})

	return r
}

// ListenAndServe serves on Options.Addr until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.opts.Addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("starting server", "addr", s.opts.Addr, "version", buildinfo.Version)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.opts.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	s.logger.Info("server stopped")
	return nil
}
