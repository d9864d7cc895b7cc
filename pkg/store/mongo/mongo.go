// Package mongo implements store.Repository on MongoDB.
//
// Roadmaps live in the "roadmaps" collection keyed by their ID, users in the
// "users" collection. Listing sorts by created_at descending, which keeps
// newly created roadmaps at the head just like the in-memory store.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/matzehuels/waymark/pkg/cache"
	errs "github.com/matzehuels/waymark/pkg/errors"
	"github.com/matzehuels/waymark/pkg/roadmap"
	"github.com/matzehuels/waymark/pkg/store"
)

// Collection names.
const (
	RoadmapsCollection = "roadmaps"
	UsersCollection    = "users"
)

// DefaultDatabase is used when Config.Database is empty.
const DefaultDatabase = "waymark"

// Config holds the connection settings.
type Config struct {
	URI      string
	Database string
	// Seed inserts the demo users and roadmaps into empty collections.
	Seed bool
}

// Store is a MongoDB-backed repository.
type Store struct {
	client   *mongo.Client
	roadmaps *mongo.Collection
	users    *mongo.Collection
}

// Connect opens a client, pings the server, and seeds empty collections
// when cfg.Seed is set.
func Connect(ctx context.Context, cfg Config) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}

	err = cache.RetryWithBackoff(ctx, func() error {
		if err := client.Ping(ctx, readpref.Primary()); err != nil {
			return cache.Retryable(err)
		}
		return nil
	})
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	db := cfg.Database
	if db == "" {
		db = DefaultDatabase
	}
	s := New(client, db)

	if cfg.Seed {
		if err := s.Seed(ctx, roadmap.SeedUsers(), roadmap.SeedRoadmaps()); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, err
		}
	}
	return s, nil
}

// New wraps a connected client.
func New(client *mongo.Client, database string) *Store {
	db := client.Database(database)
	return &Store{
		client:   client,
		roadmaps: db.Collection(RoadmapsCollection),
		users:    db.Collection(UsersCollection),
	}
}

// Seed inserts users and roadmaps into whichever collections are empty.
func (s *Store) Seed(ctx context.Context, users []roadmap.User, roadmaps []roadmap.Roadmap) error {
	logger := log.FromContext(ctx)

	n, err := s.users.CountDocuments(ctx, bson.D{})
	if err != nil {
		return fmt.Errorf("count users: %w", err)
	}
	if n == 0 && len(users) > 0 {
		docs := make([]any, len(users))
		for i, u := range users {
			docs[i] = u
		}
		if _, err := s.users.InsertMany(ctx, docs); err != nil {
			return fmt.Errorf("seed users: %w", err)
		}
		logger.Debug("seeded users", "count", len(docs))
	}

	n, err = s.roadmaps.CountDocuments(ctx, bson.D{})
	if err != nil {
		return fmt.Errorf("count roadmaps: %w", err)
	}
	if n == 0 && len(roadmaps) > 0 {
		docs := make([]any, len(roadmaps))
		for i, r := range roadmaps {
			docs[i] = normalize(r)
		}
		if _, err := s.roadmaps.InsertMany(ctx, docs); err != nil {
			return fmt.Errorf("seed roadmaps: %w", err)
		}
		logger.Debug("seeded roadmaps", "count", len(docs))
	}
	return nil
}

func (s *Store) List(ctx context.Context) ([]roadmap.Roadmap, error) {
	return s.find(ctx, bson.D{})
}

func (s *Store) Get(ctx context.Context, id string) (*roadmap.Roadmap, error) {
	var r roadmap.Roadmap
	err := s.roadmaps.FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&r)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, errs.New(errs.ErrCodeRoadmapNotFound, "roadmap %q not found", id)
	}
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInternal, err, "load roadmap %s", id)
	}
	return &r, nil
}

func (s *Store) Create(ctx context.Context, r roadmap.Roadmap) error {
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}
	_, err := s.roadmaps.InsertOne(ctx, normalize(r))
	if mongo.IsDuplicateKeyError(err) {
		return errs.New(errs.ErrCodeConflict, "roadmap %q already exists", r.ID)
	}
	if err != nil {
		return errs.Wrap(errs.ErrCodeInternal, err, "insert roadmap %s", r.ID)
	}
	return nil
}

func (s *Store) AddComment(ctx context.Context, roadmapID string, c roadmap.Comment) error {
	res, err := s.roadmaps.UpdateOne(ctx,
		bson.D{{Key: "_id", Value: roadmapID}},
		bson.D{{Key: "$push", Value: bson.D{{Key: "comments", Value: c}}}},
	)
	if err != nil {
		return errs.Wrap(errs.ErrCodeInternal, err, "add comment to %s", roadmapID)
	}
	if res.MatchedCount == 0 {
		return errs.New(errs.ErrCodeRoadmapNotFound, "roadmap %q not found", roadmapID)
	}
	return nil
}

func (s *Store) ByAuthor(ctx context.Context, userID string) ([]roadmap.Roadmap, error) {
	return s.find(ctx, bson.D{{Key: "author.id", Value: userID}})
}

func (s *Store) Users(ctx context.Context) ([]roadmap.User, error) {
	cur, err := s.users.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInternal, err, "list users")
	}
	users := []roadmap.User{}
	if err := cur.All(ctx, &users); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInternal, err, "decode users")
	}
	return users, nil
}

func (s *Store) User(ctx context.Context, id string) (*roadmap.User, error) {
	return s.findUser(ctx, bson.D{{Key: "_id", Value: id}}, id)
}

func (s *Store) UserByUsername(ctx context.Context, username string) (*roadmap.User, error) {
	return s.findUser(ctx, bson.D{{Key: "username", Value: username}}, username)
}

// Close disconnects the client.
func (s *Store) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

func (s *Store) find(ctx context.Context, filter bson.D) ([]roadmap.Roadmap, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := s.roadmaps.Find(ctx, filter, opts)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInternal, err, "list roadmaps")
	}
	out := []roadmap.Roadmap{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInternal, err, "decode roadmaps")
	}
	return out, nil
}

func (s *Store) findUser(ctx context.Context, filter bson.D, key string) (*roadmap.User, error) {
	var u roadmap.User
	err := s.users.FindOne(ctx, filter).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, errs.New(errs.ErrCodeUserNotFound, "user %q not found", key)
	}
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInternal, err, "load user %s", key)
	}
	return &u, nil
}

// normalize replaces nil slices so that $push on comments always targets an
// array.
func normalize(r roadmap.Roadmap) roadmap.Roadmap {
	if r.Tags == nil {
		r.Tags = []string{}
	}
	if r.Comments == nil {
		r.Comments = []roadmap.Comment{}
	}
	return r
}

var _ store.Repository = (*Store)(nil)
