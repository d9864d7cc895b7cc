package store

import (
	"context"
	"slices"
	"sync"

	errs "github.com/matzehuels/waymark/pkg/errors"
	"github.com/matzehuels/waymark/pkg/roadmap"
)

// Memory is an in-process repository. It is safe for concurrent use.
type Memory struct {
	mu       sync.RWMutex
	roadmaps []roadmap.Roadmap
	users    []roadmap.User
}

// NewMemory creates a repository holding the given data. Roadmaps are kept
// in the order given, which is treated as newest first.
func NewMemory(users []roadmap.User, roadmaps []roadmap.Roadmap) *Memory {
	m := &Memory{users: slices.Clone(users)}
	for _, r := range roadmaps {
		m.roadmaps = append(m.roadmaps, r.Clone())
	}
	return m
}

// NewSeeded creates a repository holding the demo users and roadmaps.
func NewSeeded() *Memory {
	return NewMemory(roadmap.SeedUsers(), roadmap.SeedRoadmaps())
}

func (m *Memory) List(ctx context.Context) ([]roadmap.Roadmap, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]roadmap.Roadmap, len(m.roadmaps))
	for i, r := range m.roadmaps {
		out[i] = r.Clone()
	}
	return out, nil
}

func (m *Memory) Get(ctx context.Context, id string) (*roadmap.Roadmap, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	i := m.index(id)
	if i < 0 {
		return nil, errs.New(errs.ErrCodeRoadmapNotFound, "roadmap %q not found", id)
	}
	r := m.roadmaps[i].Clone()
	return &r, nil
}

func (m *Memory) Create(ctx context.Context, r roadmap.Roadmap) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.index(r.ID) >= 0 {
		return errs.New(errs.ErrCodeConflict, "roadmap %q already exists", r.ID)
	}
	m.roadmaps = slices.Insert(m.roadmaps, 0, r.Clone())
	return nil
}

func (m *Memory) AddComment(ctx context.Context, roadmapID string, c roadmap.Comment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.index(roadmapID)
	if i < 0 {
		return errs.New(errs.ErrCodeRoadmapNotFound, "roadmap %q not found", roadmapID)
	}
	m.roadmaps[i].Comments = append(m.roadmaps[i].Comments, c)
	return nil
}

func (m *Memory) ByAuthor(ctx context.Context, userID string) ([]roadmap.Roadmap, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []roadmap.Roadmap{}
	for _, r := range m.roadmaps {
		if r.Author.ID == userID {
			out = append(out, r.Clone())
		}
	}
	return out, nil
}

func (m *Memory) Users(ctx context.Context) ([]roadmap.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.users), nil
}

func (m *Memory) User(ctx context.Context, id string) (*roadmap.User, error) {
	return m.findUser(func(u roadmap.User) bool { return u.ID == id }, id)
}

func (m *Memory) UserByUsername(ctx context.Context, username string) (*roadmap.User, error) {
	return m.findUser(func(u roadmap.User) bool { return u.Username == username }, username)
}

func (m *Memory) Close() error { return nil }

func (m *Memory) findUser(match func(roadmap.User) bool, key string) (*roadmap.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	i := slices.IndexFunc(m.users, match)
	if i < 0 {
		return nil, errs.New(errs.ErrCodeUserNotFound, "user %q not found", key)
	}
	u := m.users[i]
	return &u, nil
}

func (m *Memory) index(id string) int {
	return slices.IndexFunc(m.roadmaps, func(r roadmap.Roadmap) bool { return r.ID == id })
}

var _ Repository = (*Memory)(nil)
