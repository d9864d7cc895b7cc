package server

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	errs "github.com/matzehuels/waymark/pkg/errors"
	"github.com/matzehuels/waymark/pkg/observability"
	"github.com/matzehuels/waymark/pkg/session"
)

// requestLogger logs every request and attaches a request-scoped logger to
// the context.
func requestLogger(logger *log.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			reqLogger := logger.With("request_id", chimiddleware.GetReqID(r.Context()))
			ctx := log.WithContext(r.Context(), reqLogger)
			hooks := observability.HTTP()
			hooks.OnRequest(ctx, r.Method, r.URL.Path)

			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// The route pattern is only known once chi has matched.
			route := r.URL.Path
			if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
				route = rc.RoutePattern()
			}
			elapsed := time.Since(start)
			hooks.OnResponse(ctx, r.Method, route, ww.Status(), elapsed)

			reqLogger.Info("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", elapsed.Round(time.Microsecond),
				"remote", r.RemoteAddr,
			)
		})
	}
}

// =============================================================================
// Sessions
// =============================================================================

type sessionKey struct{}

// loadSession resolves a bearer token into a session. Requests without a
// token pass through with no session; an unknown or expired token is
// rejected.
func (s *Server) loadSession(next http.Handler) http.Handler {
	return s.sessionLoader(next, true)
}

// loadSessionIfValid is loadSession for routes that start or replace a
// session: an unknown or expired token counts as no token.
func (s *Server) loadSessionIfValid(next http.Handler) http.Handler {
	return s.sessionLoader(next, false)
}

func (s *Server) sessionLoader(next http.Handler, strict bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			next.ServeHTTP(w, r)
			return
		}
		sess, err := s.svc.Session(r.Context(), token)
		if err != nil {
			if !strict && isStaleSession(err) {
				log.FromContext(r.Context()).Debug("ignoring stale session token")
				next.ServeHTTP(w, r)
				return
			}
			s.respondError(w, r, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), sessionKey{}, sess)))
	})
}

func isStaleSession(err error) bool {
	return errs.Is(err, errs.ErrCodeSessionNotFound) || errs.Is(err, errs.ErrCodeSessionExpired)
}

// requireSession rejects requests that carry no session.
func (s *Server) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if sessionFrom(r) == nil {
			s.respondError(w, r, errs.New(errs.ErrCodeUnauthorized, "missing bearer token"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// sessionFrom returns the request's session, or nil.
func sessionFrom(r *http.Request) *session.Session {
	sess, _ := r.Context().Value(sessionKey{}).(*session.Session)
	return sess
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}
