package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/waymark/pkg/auth"
	"github.com/matzehuels/waymark/pkg/cache"
	errs "github.com/matzehuels/waymark/pkg/errors"
	"github.com/matzehuels/waymark/pkg/pipeline"
	"github.com/matzehuels/waymark/pkg/roadmap"
	"github.com/matzehuels/waymark/pkg/service"
	"github.com/matzehuels/waymark/pkg/session"
	"github.com/matzehuels/waymark/pkg/store"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	logger := log.New(io.Discard)
	svc := service.New(service.Options{
		Repo:     store.NewSeeded(),
		Sessions: session.NewMemoryStore(),
		Runner:   pipeline.NewRunner(cache.NewMemoryCache(), logger),
		Logger:   logger,
	})
	t.Cleanup(func() { _ = svc.Close() })

	srv := httptest.NewServer(New(svc, Options{Logger: logger}).Handler())
	t.Cleanup(srv.Close)
	return srv
}

// call sends a request and returns the response with its body read.
func call(t *testing.T, srv *httptest.Server, method, path, token string, body any) (*http.Response, []byte) {
	t.Helper()
	var rd io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, srv.URL+path, rd)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func decodeBody[T any](t *testing.T, data []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(data, &v), "body: %s", data)
	return v
}

func guestToken(t *testing.T, srv *httptest.Server) string {
	t.Helper()
	resp, body := call(t, srv, http.MethodPost, "/api/v1/sessions", "", nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	sess := decodeBody[sessionResponse](t, body)
	require.NotEmpty(t, sess.Token)
	return sess.Token
}

func loginToken(t *testing.T, srv *httptest.Server, token string) string {
	t.Helper()
	resp, body := call(t, srv, http.MethodPost, "/api/v1/login", token, loginRequest{
		Email:    "okan@gmail.com",
		Password: "okanacer",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, "body: %s", body)
	return decodeBody[sessionResponse](t, body).Token
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)
	resp, body := call(t, srv, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "healthy", decodeBody[map[string]string](t, body)["status"])
}

func TestStartSession(t *testing.T) {
	srv := newTestServer(t)
	resp, body := call(t, srv, http.MethodPost, "/api/v1/sessions", "", nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	sess := decodeBody[sessionResponse](t, body)
	assert.NotEmpty(t, sess.Token)
	assert.Nil(t, sess.User)
	assert.Empty(t, sess.Liked)
	assert.False(t, sess.ExpiresAt.IsZero())
}

func TestLogin(t *testing.T) {
	srv := newTestServer(t)

	t.Run("without session", func(t *testing.T) {
		resp, body := call(t, srv, http.MethodPost, "/api/v1/login", "", loginRequest{
			Email: "okan@gmail.com", Password: "okanacer",
		})
		require.Equal(t, http.StatusOK, resp.StatusCode)
		sess := decodeBody[sessionResponse](t, body)
		require.NotNil(t, sess.User)
		assert.Equal(t, "okanacer", sess.User.Username)
		assert.NotEmpty(t, sess.Token)
	})

	t.Run("upgrades guest session", func(t *testing.T) {
		guest := guestToken(t, srv)
		resp, _ := call(t, srv, http.MethodPost, "/api/v1/roadmaps/2/like", guest, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		token := loginToken(t, srv, guest)
		assert.Equal(t, guest, token)

		_, body := call(t, srv, http.MethodGet, "/api/v1/roadmaps/2", token, nil)
		v := decodeBody[service.RoadmapView](t, body)
		assert.True(t, v.Liked, "likes carry over on login")
	})

	t.Run("wrong password", func(t *testing.T) {
		resp, body := call(t, srv, http.MethodPost, "/api/v1/login", "", loginRequest{
			Email: "okan@gmail.com", Password: "not-the-password",
		})
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		e := decodeBody[errorResponse](t, body)
		assert.True(t, e.Error)
		assert.Equal(t, errs.ErrCodeUnauthorized, e.Code)
	})

	t.Run("validation", func(t *testing.T) {
		tests := []struct {
			name string
			body any
			code errs.Code
		}{
			{"bad email", loginRequest{Email: "nope", Password: "okanacer"}, errs.ErrCodeInvalidEmail},
			{"missing password", loginRequest{Email: "okan@gmail.com"}, errs.ErrCodeInvalidPassword},
			{"empty body", nil, errs.ErrCodeInvalidInput},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				resp, body := call(t, srv, http.MethodPost, "/api/v1/login", "", tt.body)
				assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
				assert.Equal(t, tt.code, decodeBody[errorResponse](t, body).Code)
			})
		}
	})
}

func TestLoginWithStaleToken(t *testing.T) {
	srv := newTestServer(t)

	resp, body := call(t, srv, http.MethodPost, "/api/v1/login", "stale-token", loginRequest{
		Email: "okan@gmail.com", Password: "okanacer",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, "body: %s", body)
	sess := decodeBody[sessionResponse](t, body)
	assert.NotEqual(t, "stale-token", sess.Token)
	require.NotNil(t, sess.User)
	assert.Equal(t, "okanacer", sess.User.Username)

	resp, body = call(t, srv, http.MethodPost, "/api/v1/sessions", "stale-token", nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode, "body: %s", body)
	assert.NotEqual(t, "stale-token", decodeBody[sessionResponse](t, body).Token)

	// Other routes still reject the token.
	resp, _ = call(t, srv, http.MethodGet, "/api/v1/roadmaps", "stale-token", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestLoginAfterLogoutStartsNewSession(t *testing.T) {
	srv := newTestServer(t)
	token := loginToken(t, srv, "")
	resp, _ := call(t, srv, http.MethodPost, "/api/v1/logout", token, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	again := loginToken(t, srv, token)
	assert.NotEqual(t, token, again)
}

func TestLoginEmailRules(t *testing.T) {
	srv := newTestServer(t)

	// Shape errors come from the same check the CLI uses.
	resp, body := call(t, srv, http.MethodPost, "/api/v1/login", "", loginRequest{
		Email: "okan@gmail", Password: "okanacer",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	e := decodeBody[errorResponse](t, body)
	assert.Equal(t, errs.ErrCodeInvalidEmail, e.Code)
	assert.Equal(t, errs.UserMessage(auth.ValidateCredentials("okan@gmail", "okanacer")), e.Message)

	// The credential pair is matched exactly.
	for _, email := range []string{"OKAN@GMAIL.COM", "Okan@Gmail.com"} {
		resp, body = call(t, srv, http.MethodPost, "/api/v1/login", "", loginRequest{
			Email: email, Password: "okanacer",
		})
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, "email %q", email)
		assert.Equal(t, errs.ErrCodeUnauthorized, decodeBody[errorResponse](t, body).Code)
	}
}

func TestLogout(t *testing.T) {
	srv := newTestServer(t)
	token := loginToken(t, srv, "")

	resp, _ := call(t, srv, http.MethodPost, "/api/v1/logout", token, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, body := call(t, srv, http.MethodGet, "/api/v1/roadmaps", token, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, errs.ErrCodeSessionNotFound, decodeBody[errorResponse](t, body).Code)

	resp, _ = call(t, srv, http.MethodPost, "/api/v1/logout", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestInvalidToken(t *testing.T) {
	srv := newTestServer(t)
	resp, body := call(t, srv, http.MethodGet, "/api/v1/roadmaps", "made-up", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, errs.ErrCodeSessionNotFound, decodeBody[errorResponse](t, body).Code)
}

func TestListRoadmaps(t *testing.T) {
	srv := newTestServer(t)

	resp, body := call(t, srv, http.MethodGet, "/api/v1/roadmaps", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list := decodeBody[listResponse](t, body)
	require.NotEmpty(t, list.Roadmaps)
	assert.Equal(t, len(list.Roadmaps), list.Count)
	assert.Equal(t, "4", list.Roadmaps[0].ID, "newest first")
	assert.Positive(t, list.Roadmaps[0].NodeCount)

	_, body = call(t, srv, http.MethodGet, "/api/v1/roadmaps?q=elsin", "", nil)
	found := decodeBody[listResponse](t, body)
	require.Equal(t, 1, found.Count)
	assert.Equal(t, "4", found.Roadmaps[0].ID)

	_, body = call(t, srv, http.MethodGet, "/api/v1/roadmaps?q=zzz-no-match", "", nil)
	assert.Zero(t, decodeBody[listResponse](t, body).Count)
}

func TestGetRoadmap(t *testing.T) {
	srv := newTestServer(t)

	resp, body := call(t, srv, http.MethodGet, "/api/v1/roadmaps/4", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	v := decodeBody[service.RoadmapView](t, body)
	assert.Equal(t, "How to Marry Elsin", v.Title)
	assert.Equal(t, 256, v.DisplayLikes)
	assert.False(t, v.Liked)

	resp, body = call(t, srv, http.MethodGet, "/api/v1/roadmaps/999", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, errs.ErrCodeRoadmapNotFound, decodeBody[errorResponse](t, body).Code)
}

func TestToggleLike(t *testing.T) {
	srv := newTestServer(t)

	resp, _ := call(t, srv, http.MethodPost, "/api/v1/roadmaps/4/like", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	token := guestToken(t, srv)
	resp, body := call(t, srv, http.MethodPost, "/api/v1/roadmaps/4/like", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, likeResponse{Liked: true, Likes: 257}, decodeBody[likeResponse](t, body))

	_, body = call(t, srv, http.MethodGet, "/api/v1/roadmaps/4", token, nil)
	v := decodeBody[service.RoadmapView](t, body)
	assert.True(t, v.Liked)
	assert.Equal(t, 257, v.DisplayLikes)

	_, body = call(t, srv, http.MethodPost, "/api/v1/roadmaps/4/like", token, nil)
	assert.Equal(t, likeResponse{Liked: false, Likes: 256}, decodeBody[likeResponse](t, body))

	resp, _ = call(t, srv, http.MethodPost, "/api/v1/roadmaps/999/like", token, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCreateRoadmap(t *testing.T) {
	srv := newTestServer(t)
	input := service.CreateInput{
		Title: "Learn Go",
		Tags:  []string{"go"},
		Steps: []roadmap.Step{
			{Title: "Tour of Go"},
			{Title: "Concurrency", Parent: 1},
		},
	}

	resp, _ := call(t, srv, http.MethodPost, "/api/v1/roadmaps", "", input)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	guest := guestToken(t, srv)
	resp, body := call(t, srv, http.MethodPost, "/api/v1/roadmaps", guest, input)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, errs.ErrCodeUnauthorized, decodeBody[errorResponse](t, body).Code)

	token := loginToken(t, srv, "")
	resp, body = call(t, srv, http.MethodPost, "/api/v1/roadmaps", token, input)
	require.Equal(t, http.StatusCreated, resp.StatusCode, "body: %s", body)
	created := decodeBody[service.RoadmapView](t, body)
	assert.Equal(t, "Learn Go", created.Title)
	assert.Equal(t, "okanacer", created.Author.Username)
	require.Len(t, created.Nodes, 1)
	assert.Len(t, created.Nodes[0].Children, 1)
	assert.Equal(t, "/api/v1/roadmaps/"+created.ID, resp.Header.Get("Location"))

	_, body = call(t, srv, http.MethodGet, "/api/v1/roadmaps", "", nil)
	assert.Equal(t, created.ID, decodeBody[listResponse](t, body).Roadmaps[0].ID)

	t.Run("validation", func(t *testing.T) {
		tests := []struct {
			name string
			in   service.CreateInput
			code errs.Code
		}{
			{"no title", service.CreateInput{Steps: input.Steps}, errs.ErrCodeInvalidTitle},
			{"no steps", service.CreateInput{Title: "Empty"}, errs.ErrCodeInvalidStep},
			{"forward parent", service.CreateInput{Title: "Bad", Steps: []roadmap.Step{{Title: "A", Parent: 2}, {Title: "B"}}}, errs.ErrCodeInvalidStep},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				resp, body := call(t, srv, http.MethodPost, "/api/v1/roadmaps", token, tt.in)
				assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
				assert.Equal(t, tt.code, decodeBody[errorResponse](t, body).Code)
			})
		}
	})
}

func TestAddComment(t *testing.T) {
	srv := newTestServer(t)
	token := loginToken(t, srv, "")

	resp, body := call(t, srv, http.MethodPost, "/api/v1/roadmaps/4/comments", token, commentRequest{Text: "  Congrats!  "})
	require.Equal(t, http.StatusCreated, resp.StatusCode, "body: %s", body)

	_, body = call(t, srv, http.MethodGet, "/api/v1/roadmaps/4", "", nil)
	v := decodeBody[service.RoadmapView](t, body)
	last := v.Comments[len(v.Comments)-1]
	assert.Equal(t, "Congrats!", last.Text)
	assert.Equal(t, "okanacer", last.Username)

	resp, body = call(t, srv, http.MethodPost, "/api/v1/roadmaps/4/comments", token, commentRequest{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, errs.ErrCodeInvalidComment, decodeBody[errorResponse](t, body).Code)

	long := commentRequest{Text: strings.Repeat("x", errs.MaxCommentLength+1)}
	resp, _ = call(t, srv, http.MethodPost, "/api/v1/roadmaps/4/comments", token, long)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = call(t, srv, http.MethodPost, "/api/v1/roadmaps/999/comments", token, commentRequest{Text: "hi"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	guest := guestToken(t, srv)
	resp, _ = call(t, srv, http.MethodPost, "/api/v1/roadmaps/4/comments", guest, commentRequest{Text: "hi"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestProfile(t *testing.T) {
	srv := newTestServer(t)

	resp, _ := call(t, srv, http.MethodGet, "/api/v1/profile", guestToken(t, srv), nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	token := loginToken(t, srv, "")
	resp, body := call(t, srv, http.MethodGet, "/api/v1/profile", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	p := decodeBody[service.Profile](t, body)
	assert.Equal(t, "okanacer", p.User.Username)
	assert.Equal(t, len(p.Roadmaps), p.Count)
	for _, r := range p.Roadmaps {
		assert.Equal(t, p.User.ID, r.Author.ID)
	}

	resp, body = call(t, srv, http.MethodGet, "/api/v1/users/ayse_kaya", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ayse_kaya", decodeBody[service.Profile](t, body).User.Username)

	resp, body = call(t, srv, http.MethodGet, "/api/v1/users/nobody", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, errs.ErrCodeUserNotFound, decodeBody[errorResponse](t, body).Code)
}

func TestDiagram(t *testing.T) {
	srv := newTestServer(t)

	t.Run("svg", func(t *testing.T) {
		resp, body := call(t, srv, http.MethodGet, "/api/v1/roadmaps/4/diagram?expand=j1&theme=dark", "", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode, "body: %s", body)
		assert.Contains(t, resp.Header.Get("Content-Type"), "image/svg+xml")
		assert.Equal(t, "miss", resp.Header.Get("X-Cache"))
		assert.Contains(t, string(body), "<svg")
		assert.Contains(t, string(body), "/api/v1/roadmaps/4/diagram?expand=")
		assert.Contains(t, string(body), "theme=dark")

		resp, _ = call(t, srv, http.MethodGet, "/api/v1/roadmaps/4/diagram?expand=j1&theme=dark", "", nil)
		assert.Equal(t, "hit", resp.Header.Get("X-Cache"))
	})

	t.Run("json", func(t *testing.T) {
		resp, body := call(t, srv, http.MethodGet, "/api/v1/roadmaps/4/diagram?format=json&expand=j1", "", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, resp.Header.Get("Content-Type"), "application/json")
		d := decodeBody[pipeline.Diagram](t, body)
		assert.Equal(t, "4", d.ID)
		assert.Equal(t, []string{"j1"}, d.Expanded)
		assert.Len(t, d.Layout.Nodes, 7)
		assert.Len(t, d.Layout.Edges, 2)
	})

	t.Run("collapsed forest", func(t *testing.T) {
		_, body := call(t, srv, http.MethodGet, "/api/v1/roadmaps/4/diagram?format=json", "", nil)
		d := decodeBody[pipeline.Diagram](t, body)
		assert.Len(t, d.Layout.Nodes, 5)
		assert.Empty(t, d.Layout.Edges)
	})

	t.Run("dot", func(t *testing.T) {
		resp, body := call(t, srv, http.MethodGet, "/api/v1/roadmaps/4/diagram?format=dot&all=true", "", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, string(body), "digraph")
	})

	t.Run("bad requests", func(t *testing.T) {
		tests := []struct {
			query  string
			status int
			code   errs.Code
		}{
			{"?format=gif", http.StatusBadRequest, errs.ErrCodeInvalidFormat},
			{"?scale=-1", http.StatusBadRequest, errs.ErrCodeInvalidInput},
			{"?scale=big", http.StatusBadRequest, errs.ErrCodeInvalidInput},
		}
		for _, tt := range tests {
			t.Run(tt.query, func(t *testing.T) {
				resp, body := call(t, srv, http.MethodGet, "/api/v1/roadmaps/4/diagram"+tt.query, "", nil)
				assert.Equal(t, tt.status, resp.StatusCode)
				assert.Equal(t, tt.code, decodeBody[errorResponse](t, body).Code)
			})
		}

		resp, _ := call(t, srv, http.MethodGet, "/api/v1/roadmaps/999/diagram", "", nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{errs.New(errs.ErrCodeUnauthorized, "x"), http.StatusUnauthorized},
		{errs.New(errs.ErrCodeSessionExpired, "x"), http.StatusUnauthorized},
		{errs.New(errs.ErrCodeInvalidTitle, "x"), http.StatusBadRequest},
		{errs.New(errs.ErrCodeRoadmapNotFound, "x"), http.StatusNotFound},
		{errs.New(errs.ErrCodeConflict, "x"), http.StatusConflict},
		{errs.New(errs.ErrCodeUnsupported, "x"), http.StatusNotImplemented},
		{errs.New(errs.ErrCodeInternal, "x"), http.StatusInternalServerError},
		{io.ErrUnexpectedEOF, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, statusFor(tt.err), "%v", tt.err)
	}
}

func TestBearerToken(t *testing.T) {
	tests := map[string]string{
		"":               "",
		"Bearer abc":     "abc",
		"bearer  abc ":   "abc",
		"Basic dXNlcg==": "",
		"Bearer":         "",
	}
	for header, want := range tests {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		if header != "" {
			r.Header.Set("Authorization", header)
		}
		assert.Equal(t, want, bearerToken(r), "header %q", header)
	}
}
