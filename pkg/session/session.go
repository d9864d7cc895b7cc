// Package session holds per-client state: who is logged in and which
// roadmaps they have liked.
//
// A [Session] is an explicit state container. Its command methods
// ([Session.ToggleLike], [Session.Login], [Session.Logout]) are the only way
// to mutate it, and every mutation is persisted through a [Store].
//
// Backends:
//   - [MemoryStore]: in-process storage for the HTTP server and tests
//   - [RedisStore]: Redis-backed storage for multi-instance deployments
//   - [FileStore]: JSON files for the CLI (~/.config/waymark/sessions/)
//
// # Usage
//
//	sess, err := session.New(nil, session.DefaultTTL) // guest
//	if err != nil {
//	    return err
//	}
//	liked := sess.ToggleLike("4")
//	store.Set(ctx, sess)
//
//	sess, err = store.Get(ctx, sessionID)
//	if sess == nil {
//	    // Session not found or expired
//	}
package session

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"slices"
	"time"

	"github.com/matzehuels/waymark/pkg/roadmap"
)

// Sentinel errors for session operations.
var (
	// ErrNotFound is returned when a session does not exist.
	ErrNotFound = errors.New("session not found")

	// ErrExpired is returned when a session has exceeded its TTL.
	ErrExpired = errors.New("session expired")
)

// Session stores the state of one client.
//
// User is nil for guests. Liked is kept sorted so that serialized sessions
// are stable.
type Session struct {
	ID        string        `json:"id"`
	User      *roadmap.User `json:"user,omitempty"`
	Liked     []string      `json:"liked"`
	CreatedAt time.Time     `json:"created_at"`
	ExpiresAt time.Time     `json:"expires_at"`
}

// IsExpired returns true if the session has expired.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// LoggedIn reports whether a user is bound to the session.
func (s *Session) LoggedIn() bool {
	return s != nil && s.User != nil
}

// UserID returns the bound user's ID, or "" for guests.
func (s *Session) UserID() string {
	if !s.LoggedIn() {
		return ""
	}
	return s.User.ID
}

// IsLiked reports whether roadmapID is in the liked set.
func (s *Session) IsLiked(roadmapID string) bool {
	if s == nil {
		return false
	}
	_, ok := slices.BinarySearch(s.Liked, roadmapID)
	return ok
}

// ToggleLike flips membership of roadmapID in the liked set and returns the
// new state. Toggling twice restores the original membership.
func (s *Session) ToggleLike(roadmapID string) bool {
	i, ok := slices.BinarySearch(s.Liked, roadmapID)
	if ok {
		s.Liked = slices.Delete(s.Liked, i, i+1)
		return false
	}
	s.Liked = slices.Insert(s.Liked, i, roadmapID)
	return true
}

// LikeCount returns the displayed like count for a roadmap whose stored
// count is baseline: baseline + 1 when liked, baseline otherwise.
func (s *Session) LikeCount(roadmapID string, baseline int) int {
	if s.IsLiked(roadmapID) {
		return baseline + 1
	}
	return baseline
}

// Login binds u to the session.
func (s *Session) Login(u roadmap.User) {
	s.User = &u
}

// Logout unbinds the user and resets the liked set.
func (s *Session) Logout() {
	s.User = nil
	s.Liked = nil
}

// Store is the interface for session storage backends.
type Store interface {
	// Get retrieves a session by ID.
	// Returns nil, nil if the session doesn't exist or has expired.
	Get(ctx context.Context, sessionID string) (*Session, error)

	// Set stores a session.
	Set(ctx context.Context, session *Session) error

	// Delete removes a session.
	Delete(ctx context.Context, sessionID string) error

	// Cleanup removes expired sessions (optional, may be no-op for Redis).
	Cleanup(ctx context.Context) error

	Close() error
}

// DefaultTTL is the default session duration.
const DefaultTTL = 24 * time.Hour

// GenerateID creates a cryptographically secure random session ID.
func GenerateID() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// New creates a session for u, or a guest session when u is nil.
func New(u *roadmap.User, ttl time.Duration) (*Session, error) {
	id, err := GenerateID()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	return &Session{
		ID:        id,
		User:      u,
		Liked:     []string{},
		ExpiresAt: now.Add(ttl),
		CreatedAt: now,
	}, nil
}

// Require loads a session and maps a missing or expired one to ErrNotFound.
func Require(ctx context.Context, store Store, sessionID string) (*Session, error) {
	if sessionID == "" {
		return nil, ErrNotFound
	}
	sess, err := store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, ErrNotFound
	}
	return sess, nil
}
