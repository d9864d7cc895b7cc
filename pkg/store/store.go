// Package store provides the roadmap repository.
//
// [Repository] is the single source of truth for roadmaps and users. The
// default backend, [Memory], is seeded with the demo data at construction
// and lives for the duration of the process. The mongo subpackage persists
// the same data in MongoDB.
//
// Roadmaps are listed newest first; [Repository.Create] places a new roadmap
// at the head of the list. Nothing is ever deleted.
package store

import (
	"context"

	"github.com/matzehuels/waymark/pkg/roadmap"
)

// Repository stores roadmaps and users.
//
// Returned values are copies; mutating them does not affect the store.
type Repository interface {
	// List returns all roadmaps, newest first.
	List(ctx context.Context) ([]roadmap.Roadmap, error)

	// Get returns the roadmap with the given ID, or an error with code
	// ErrCodeRoadmapNotFound.
	Get(ctx context.Context, id string) (*roadmap.Roadmap, error)

	// Create stores r at the head of the list. A duplicate ID fails with
	// ErrCodeConflict.
	Create(ctx context.Context, r roadmap.Roadmap) error

	// AddComment appends c to the roadmap's comments.
	AddComment(ctx context.Context, roadmapID string, c roadmap.Comment) error

	// ByAuthor returns the roadmaps authored by userID, newest first.
	ByAuthor(ctx context.Context, userID string) ([]roadmap.Roadmap, error)

	Users(ctx context.Context) ([]roadmap.User, error)
	User(ctx context.Context, id string) (*roadmap.User, error)
	UserByUsername(ctx context.Context, username string) (*roadmap.User, error)

	Close() error
}
