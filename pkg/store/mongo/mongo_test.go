package mongo

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "github.com/matzehuels/waymark/pkg/errors"
	"github.com/matzehuels/waymark/pkg/roadmap"
)

func TestNormalize(t *testing.T) {
	r := normalize(roadmap.Roadmap{ID: "x"})
	assert.NotNil(t, r.Tags)
	assert.NotNil(t, r.Comments)

	keep := normalize(roadmap.Roadmap{Tags: []string{"a"}})
	assert.Equal(t, []string{"a"}, keep.Tags)
}

// connect returns a store on a throwaway database, skipping the test unless
// WAYMARK_TEST_MONGO_URI is set.
func connect(t *testing.T) *Store {
	t.Helper()
	uri := os.Getenv("WAYMARK_TEST_MONGO_URI")
	if uri == "" {
		t.Skip("WAYMARK_TEST_MONGO_URI not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db := "waymark_test_" + time.Now().Format("150405.000000")
	s, err := Connect(ctx, Config{URI: uri, Database: db, Seed: true})
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = s.client.Database(db).Drop(context.Background())
		_ = s.Close()
	})
	return s
}

func TestStoreIntegration(t *testing.T) {
	s := connect(t)
	ctx := context.Background()

	list, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 4)
	assert.Equal(t, "4", list[0].ID)

	r, err := s.Get(ctx, "4")
	require.NoError(t, err)
	assert.Equal(t, 25, r.CountNodes())

	_, err = s.Get(ctx, "missing")
	assert.True(t, errs.Is(err, errs.ErrCodeRoadmapNotFound))

	nr := roadmap.Roadmap{ID: "new", Title: "New", Author: roadmap.Author{ID: "u3"}, CreatedAt: time.Now()}
	require.NoError(t, s.Create(ctx, nr))
	assert.True(t, errs.Is(s.Create(ctx, nr), errs.ErrCodeConflict))

	list, _ = s.List(ctx)
	assert.Equal(t, "new", list[0].ID)

	require.NoError(t, s.AddComment(ctx, "new", roadmap.Comment{ID: "c", Text: "hi"}))
	got, _ := s.Get(ctx, "new")
	require.Len(t, got.Comments, 1)

	mine, err := s.ByAuthor(ctx, "u3")
	require.NoError(t, err)
	assert.Equal(t, "new", mine[0].ID)

	u, err := s.UserByUsername(ctx, roadmap.DemoUsername)
	require.NoError(t, err)
	assert.Equal(t, "u3", u.ID)
}
