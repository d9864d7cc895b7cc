package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "github.com/matzehuels/waymark/pkg/errors"
	"github.com/matzehuels/waymark/pkg/layout"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, BackendMemory, cfg.Store.Backend)
	assert.Equal(t, layout.DefaultOptions(), cfg.Layout)
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Server.Addr)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `
[server]
addr = ":9090"

[store]
backend = "mongo"
mongo_uri = "mongodb://db:27017"

[session]
backend = "redis"
ttl = "2h"

[cache]
backend = "none"

[layout]
box_width = 180

[demo]
latency = "750ms"
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, BackendMongo, cfg.Store.Backend)
	assert.Equal(t, "mongodb://db:27017", cfg.Store.MongoURI)
	assert.Equal(t, 2*time.Hour, cfg.Session.TTL)
	assert.Equal(t, BackendNone, cfg.Cache.Backend)
	assert.Equal(t, 750*time.Millisecond, cfg.Demo.Latency)
	assert.Equal(t, 180.0, cfg.Layout.BoxWidth)
	assert.Equal(t, layout.DefaultBoxHeight, cfg.Layout.BoxHeight, "unset layout fields keep defaults")
}

func TestLoadMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[server\naddr="), 0644))

	_, err := Load(path)
	assert.True(t, errs.Is(err, errs.ErrCodeInvalidConfig))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"unknown store", "[store]\nbackend = \"sqlite\""},
		{"unknown session", "[session]\nbackend = \"cookie\""},
		{"unknown cache", "[cache]\nbackend = \"disk\""},
		{"negative box", "[layout]\nbox_width = -1"},
		{"negative latency", "[demo]\nlatency = \"-1s\""},
		{"mongo without uri", "[store]\nbackend = \"mongo\"\nmongo_uri = \"\""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.data)
			assert.True(t, errs.Is(err, errs.ErrCodeInvalidConfig), "got %v", err)
		})
	}
}

func TestApplyEnv(t *testing.T) {
	cfg := Default()
	env := map[string]string{
		"WAYMARK_ADDR":       ":7000",
		"WAYMARK_REDIS_ADDR": "cache:6379",
		"WAYMARK_REDIS_DB":   "3",
		"WAYMARK_LATENCY":    "1s",
		"WAYMARK_CACHE":      "redis",
	}
	cfg.applyEnv(func(k string) string { return env[k] })

	assert.Equal(t, ":7000", cfg.Server.Addr)
	assert.Equal(t, "cache:6379", cfg.Redis.Addr)
	assert.Equal(t, 3, cfg.Redis.DB)
	assert.Equal(t, time.Second, cfg.Demo.Latency)
	assert.Equal(t, BackendRedis, cfg.Cache.Backend)
	assert.Equal(t, "redis://cache:6379/3", cfg.Redis.URL())
}

func TestRedisURLWithPassword(t *testing.T) {
	r := RedisConfig{Addr: "localhost:6379", Password: "s3cret", DB: 1}
	assert.Equal(t, "redis://:s3cret@localhost:6379/1", r.URL())
}
