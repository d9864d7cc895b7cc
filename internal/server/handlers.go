package server

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/waymark/pkg/buildinfo"
	errs "github.com/matzehuels/waymark/pkg/errors"
	"github.com/matzehuels/waymark/pkg/layout"
	"github.com/matzehuels/waymark/pkg/pipeline"
	"github.com/matzehuels/waymark/pkg/render"
	"github.com/matzehuels/waymark/pkg/roadmap"
	"github.com/matzehuels/waymark/pkg/service"
)

// =============================================================================
// Request and Response Types
// =============================================================================

type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type sessionResponse struct {
	Token     string        `json:"token"`
	User      *roadmap.User `json:"user"`
	Liked     []string      `json:"liked"`
	ExpiresAt time.Time     `json:"expiresAt"`
}

type commentRequest struct {
	Text string `json:"text" validate:"required,max=2000"`
}

type likeResponse struct {
	Liked bool `json:"liked"`
	Likes int  `json:"likes"`
}

type listResponse struct {
	Roadmaps []service.RoadmapView `json:"roadmaps"`
	Count    int                   `json:"count"`
}

// =============================================================================
// Health
// =============================================================================

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, r, http.StatusOK, map[string]string{
		"status":  "healthy",
		"version": buildinfo.Version,
	})
}

// =============================================================================
// Sessions
// =============================================================================

// startSession handles POST /sessions.
func (s *Server) startSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.svc.StartSession(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, r, http.StatusCreated, sessionResponse{
		Token:     sess.ID,
		Liked:     sess.Liked,
		ExpiresAt: sess.ExpiresAt,
	})
}

// login handles POST /login. An existing guest session is upgraded in place
// and keeps its likes.
func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := s.decode(w, r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}
	sess, err := s.svc.Login(r.Context(), sessionFrom(r), req.Email, req.Password)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, r, http.StatusOK, sessionResponse{
		Token:     sess.ID,
		User:      sess.User,
		Liked:     sess.Liked,
		ExpiresAt: sess.ExpiresAt,
	})
}

// logout handles POST /logout.
func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Logout(r.Context(), sessionFrom(r)); err != nil {
		s.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// profile handles GET /profile.
func (s *Server) profile(w http.ResponseWriter, r *http.Request) {
	p, err := s.svc.Profile(r.Context(), sessionFrom(r))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, r, http.StatusOK, p)
}

// userProfile handles GET /users/{username}.
func (s *Server) userProfile(w http.ResponseWriter, r *http.Request) {
	u, err := s.svc.Repo().UserByUsername(r.Context(), chi.URLParam(r, "username"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	p, err := s.svc.ProfileOf(r.Context(), sessionFrom(r), u.ID)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, r, http.StatusOK, p)
}

// =============================================================================
// Roadmaps
// =============================================================================

// listRoadmaps handles GET /roadmaps?q=.
func (s *Server) listRoadmaps(w http.ResponseWriter, r *http.Request) {
	views, err := s.svc.Search(r.Context(), sessionFrom(r), r.URL.Query().Get("q"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, r, http.StatusOK, listResponse{Roadmaps: views, Count: len(views)})
}

// getRoadmap handles GET /roadmaps/{id}.
func (s *Server) getRoadmap(w http.ResponseWriter, r *http.Request) {
	v, err := s.svc.Get(r.Context(), sessionFrom(r), chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, r, http.StatusOK, v)
}

// createRoadmap handles POST /roadmaps.
func (s *Server) createRoadmap(w http.ResponseWriter, r *http.Request) {
	var in service.CreateInput
	if err := s.decode(w, r, &in); err != nil {
		s.respondError(w, r, err)
		return
	}
	rm, err := s.svc.Create(r.Context(), sessionFrom(r), in)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	w.Header().Set("Location", "/api/v1/roadmaps/"+rm.ID)
	s.respondJSON(w, r, http.StatusCreated, rm)
}

// addComment handles POST /roadmaps/{id}/comments.
func (s *Server) addComment(w http.ResponseWriter, r *http.Request) {
	var req commentRequest
	if err := s.decode(w, r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}
	c, err := s.svc.Comment(r.Context(), sessionFrom(r), chi.URLParam(r, "id"), req.Text)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, r, http.StatusCreated, c)
}

// toggleLike handles POST /roadmaps/{id}/like.
func (s *Server) toggleLike(w http.ResponseWriter, r *http.Request) {
	state, err := s.svc.ToggleLike(r.Context(), sessionFrom(r), chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, r, http.StatusOK, likeResponse{Liked: state.Liked, Likes: state.Count})
}

// =============================================================================
// Diagrams
// =============================================================================

// diagram handles GET /roadmaps/{id}/diagram.
//
// Query parameters: expand (comma-separated node IDs), all (expand every
// node), format, theme, detailed, scale, refresh. SVG nodes with children
// link back to this endpoint with the node toggled.
func (s *Server) diagram(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := service.DiagramRequest{
		Expanded:  layout.ParseExpanded(q.Get("expand")),
		ExpandAll: queryBool(q.Get("all")),
		Format:    q.Get("format"),
		Theme:     q.Get("theme"),
		Detailed:  queryBool(q.Get("detailed")),
		Refresh:   queryBool(q.Get("refresh")),
	}
	if req.Format == "" {
		req.Format = render.FormatSVG
	}
	if v := q.Get("scale"); v != "" {
		scale, err := strconv.ParseFloat(v, 64)
		if err != nil || scale <= 0 {
			s.respondError(w, r, errs.New(errs.ErrCodeInvalidInput, "scale must be a positive number"))
			return
		}
		req.Scale = scale
	}
	if req.Format == render.FormatSVG {
		req.LinkTemplate = diagramLink(r.URL.Path, req.Theme)
	}

	res, err := s.svc.Diagram(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	cacheStatus := "miss"
	if res.CacheInfo.RenderHit {
		cacheStatus = "hit"
	}
	w.Header().Set("Content-Type", res.ContentType)
	w.Header().Set("X-Cache", cacheStatus)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Artifact)
}

// diagramLink builds the link template for clickable SVG nodes.
func diagramLink(path, theme string) string {
	var b strings.Builder
	b.WriteString(path)
	b.WriteString("?expand=")
	b.WriteString(pipeline.ExpandPlaceholder)
	if theme != "" {
		b.WriteString("&theme=")
		b.WriteString(url.QueryEscape(theme))
	}
	return b.String()
}

func queryBool(v string) bool {
	b, _ := strconv.ParseBool(v)
	return b
}
