// Package service is the application layer shared by the CLI, the TUI and
// the HTTP API.
//
// A [Service] owns the roadmap repository, the authenticator, the session
// store and the diagram pipeline. Every user-facing operation goes through
// it, and every operation that depends on who is asking takes the caller's
// [session.Session].
package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/waymark/pkg/auth"
	errs "github.com/matzehuels/waymark/pkg/errors"
	"github.com/matzehuels/waymark/pkg/layout"
	"github.com/matzehuels/waymark/pkg/pipeline"
	"github.com/matzehuels/waymark/pkg/roadmap"
	"github.com/matzehuels/waymark/pkg/session"
	"github.com/matzehuels/waymark/pkg/store"
)

// Options configures a Service.
type Options struct {
	Repo     store.Repository
	Sessions session.Store
	Runner   *pipeline.Runner
	Auth     *auth.Authenticator // defaults to the demo account over Repo
	Layout   layout.Options
	Logger   *log.Logger

	// SessionTTL is the lifetime of new sessions.
	SessionTTL time.Duration

	// Latency delays login and profile loads, mimicking a remote backend.
	Latency time.Duration
}

// Service implements the Waymark operations.
type Service struct {
	repo     store.Repository
	sessions session.Store
	runner   *pipeline.Runner
	auth     *auth.Authenticator
	layout   layout.Options
	logger   *log.Logger
	ttl      time.Duration
	latency  time.Duration
	now      func() time.Time
}

// New creates a Service. Repo and Sessions are required.
func New(opts Options) *Service {
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.Runner == nil {
		opts.Runner = pipeline.NewRunner(nil, opts.Logger)
	}
	if opts.Auth == nil {
		opts.Auth = auth.New(opts.Repo)
	}
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = session.DefaultTTL
	}
	opts.Layout.SetDefaults()

	return &Service{
		repo:     opts.Repo,
		sessions: opts.Sessions,
		runner:   opts.Runner,
		auth:     opts.Auth,
		layout:   opts.Layout,
		logger:   opts.Logger,
		ttl:      opts.SessionTTL,
		latency:  opts.Latency,
		now:      time.Now,
	}
}

// Repo returns the underlying repository.
func (s *Service) Repo() store.Repository { return s.repo }

// Sessions returns the underlying session store.
func (s *Service) Sessions() session.Store { return s.sessions }

// =============================================================================
// Views
// =============================================================================

// RoadmapView is a roadmap as seen by one session: the stored like count
// is adjusted for the session's own like.
type RoadmapView struct {
	roadmap.Roadmap
	Liked        bool `json:"liked"`
	DisplayLikes int  `json:"displayLikes"`
	NodeCount    int  `json:"nodeCount"`
}

func view(r roadmap.Roadmap, sess *session.Session) RoadmapView {
	return RoadmapView{
		Roadmap:      r,
		Liked:        sess.IsLiked(r.ID),
		DisplayLikes: sess.LikeCount(r.ID, r.Likes),
		NodeCount:    r.CountNodes(),
	}
}

// Profile is a user together with the roadmaps they authored.
type Profile struct {
	User     roadmap.User  `json:"user"`
	Roadmaps []RoadmapView `json:"roadmaps"`
	Count    int           `json:"count"`
}

// LikeState is the result of a like toggle.
type LikeState struct {
	RoadmapID string `json:"roadmapId"`
	Liked     bool   `json:"liked"`
	Count     int    `json:"count"`
}

// =============================================================================
// Sessions
// =============================================================================

// StartSession creates and stores a guest session.
func (s *Service) StartSession(ctx context.Context) (*session.Session, error) {
	sess, err := session.New(nil, s.ttl)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInternal, err, "create session")
	}
	if err := s.sessions.Set(ctx, sess); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInternal, err, "store session")
	}
	return sess, nil
}

// Session loads a session by ID.
func (s *Service) Session(ctx context.Context, id string) (*session.Session, error) {
	sess, err := session.Require(ctx, s.sessions, id)
	if errors.Is(err, session.ErrNotFound) {
		return nil, errs.New(errs.ErrCodeSessionNotFound, "session not found or expired")
	}
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInternal, err, "load session")
	}
	return sess, nil
}

// Login authenticates and binds the user to sess, creating a session when
// sess is nil. The liked set carries over from the guest session.
func (s *Service) Login(ctx context.Context, sess *session.Session, email, password string) (*session.Session, error) {
	if err := auth.ValidateCredentials(email, password); err != nil {
		return nil, err
	}
	if err := s.wait(ctx); err != nil {
		return nil, err
	}

	u, err := s.auth.Login(ctx, email, password)
	if err != nil {
		s.logger.Debug("login rejected", "email", email, "err", err)
		return nil, err
	}

	if sess == nil {
		if sess, err = session.New(nil, s.ttl); err != nil {
			return nil, errs.Wrap(errs.ErrCodeInternal, err, "create session")
		}
	}
	sess.Login(*u)
	if err := s.sessions.Set(ctx, sess); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInternal, err, "store session")
	}
	s.logger.Info("logged in", "user", u.Username)
	return sess, nil
}

// Logout deletes the session, which also resets its liked set.
func (s *Service) Logout(ctx context.Context, sess *session.Session) error {
	if sess == nil {
		return nil
	}
	sess.Logout()
	if err := s.sessions.Delete(ctx, sess.ID); err != nil {
		return errs.Wrap(errs.ErrCodeInternal, err, "delete session")
	}
	return nil
}

// =============================================================================
// Roadmaps
// =============================================================================

// List returns all roadmaps, newest first.
func (s *Service) List(ctx context.Context, sess *session.Session) ([]RoadmapView, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]RoadmapView, len(list))
	for i, r := range list {
		out[i] = view(r, sess)
	}
	return out, nil
}

// Search returns the roadmaps whose title or tags contain q, case
// insensitively. An empty query matches everything.
func (s *Service) Search(ctx context.Context, sess *session.Session, q string) ([]RoadmapView, error) {
	all, err := s.List(ctx, sess)
	if err != nil {
		return nil, err
	}
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return all, nil
	}
	out := []RoadmapView{}
	for _, v := range all {
		if matches(v.Roadmap, q) {
			out = append(out, v)
		}
	}
	return out, nil
}

func matches(r roadmap.Roadmap, q string) bool {
	if strings.Contains(strings.ToLower(r.Title), q) {
		return true
	}
	for _, t := range r.Tags {
		if strings.Contains(strings.ToLower(t), q) {
			return true
		}
	}
	return false
}

// Get returns one roadmap.
func (s *Service) Get(ctx context.Context, sess *session.Session, id string) (*RoadmapView, error) {
	r, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	v := view(*r, sess)
	return &v, nil
}

// Profile returns the session user's profile.
func (s *Service) Profile(ctx context.Context, sess *session.Session) (*Profile, error) {
	if !sess.LoggedIn() {
		return nil, errs.New(errs.ErrCodeUnauthorized, "log in to view your profile")
	}
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	return s.ProfileOf(ctx, sess, sess.User.ID)
}

// ProfileOf returns the profile of any user.
func (s *Service) ProfileOf(ctx context.Context, sess *session.Session, userID string) (*Profile, error) {
	u, err := s.repo.User(ctx, userID)
	if err != nil {
		return nil, err
	}
	mine, err := s.repo.ByAuthor(ctx, userID)
	if err != nil {
		return nil, err
	}
	p := &Profile{User: *u, Roadmaps: make([]RoadmapView, len(mine)), Count: len(mine)}
	for i, r := range mine {
		p.Roadmaps[i] = view(r, sess)
	}
	return p, nil
}

// CreateInput is the roadmap creation form.
type CreateInput struct {
	Title       string         `json:"title" validate:"required,max=200"`
	Description string         `json:"description" validate:"max=2000"`
	Tags        []string       `json:"tags" validate:"max=10,dive,required,max=40"`
	Steps       []roadmap.Step `json:"steps" validate:"required,min=1,dive"`
}

// Create stores a new roadmap authored by the session user and returns it.
func (s *Service) Create(ctx context.Context, sess *session.Session, in CreateInput) (*roadmap.Roadmap, error) {
	if !sess.LoggedIn() {
		return nil, errs.New(errs.ErrCodeUnauthorized, "log in to create a roadmap")
	}
	if err := errs.ValidateTitle(in.Title); err != nil {
		return nil, err
	}
	nodes, err := roadmap.BuildTree(in.Steps)
	if err != nil {
		return nil, err
	}

	tags := make([]string, 0, len(in.Tags))
	for _, t := range in.Tags {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}

	r := roadmap.Roadmap{
		ID:          uuid.NewString(),
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		Author:      roadmap.AuthorOf(*sess.User),
		Tags:        tags,
		Nodes:       nodes,
		Comments:    []roadmap.Comment{},
		CreatedAt:   s.now().UTC(),
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, r); err != nil {
		return nil, err
	}
	s.logger.Info("created roadmap", "id", r.ID, "title", r.Title, "steps", r.CountNodes())
	return &r, nil
}

// Comment appends a comment by the session user.
func (s *Service) Comment(ctx context.Context, sess *session.Session, roadmapID, text string) (*roadmap.Comment, error) {
	if !sess.LoggedIn() {
		return nil, errs.New(errs.ErrCodeUnauthorized, "log in to comment")
	}
	if err := errs.ValidateComment(text); err != nil {
		return nil, err
	}
	c := roadmap.NewComment(*sess.User, strings.TrimSpace(text), s.now())
	if err := s.repo.AddComment(ctx, roadmapID, c); err != nil {
		return nil, err
	}
	return &c, nil
}

// ToggleLike flips the session's like of a roadmap and persists the session.
// Guests may like; the like set lives only as long as the session.
func (s *Service) ToggleLike(ctx context.Context, sess *session.Session, roadmapID string) (*LikeState, error) {
	if sess == nil {
		return nil, errs.New(errs.ErrCodeSessionNotFound, "a session is required to like roadmaps")
	}
	r, err := s.repo.Get(ctx, roadmapID)
	if err != nil {
		return nil, err
	}
	liked := sess.ToggleLike(roadmapID)
	if err := s.sessions.Set(ctx, sess); err != nil {
		sess.ToggleLike(roadmapID)
		return nil, errs.Wrap(errs.ErrCodeInternal, err, "store session")
	}
	return &LikeState{RoadmapID: roadmapID, Liked: liked, Count: sess.LikeCount(roadmapID, r.Likes)}, nil
}

// wait sleeps for the configured latency or until ctx is done.
func (s *Service) wait(ctx context.Context) error {
	if s.latency <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(s.latency)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
