package cache

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func init() {
	retryDelay = time.Millisecond
}

func TestNullCacheMisses(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	key := DiagramKey(DiagramKeyOpts{ContentHash: "abc", Expanded: "j1", Format: "svg"})
	if err := c.Set(ctx, key, []byte("<svg/>"), TTLDiagram); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if data, hit, err := c.Get(ctx, key); err != nil || hit || data != nil {
		t.Errorf("Get after Set = (%q, %v, %v), want a clean miss", data, hit, err)
	}

	var v map[string]int
	if ok, err := GetJSON(ctx, c, key, &v); ok || err != nil {
		t.Errorf("GetJSON = (%v, %v), want a clean miss", ok, err)
	}
	if err := c.Delete(ctx, key); err != nil {
		t.Errorf("Delete: %v", err)
	}
}

func TestDisabledReason(t *testing.T) {
	if got := NewNullCache().(*NullCache).Reason(); got != "" {
		t.Errorf("NewNullCache reason = %q, want empty", got)
	}
	if got := Disabled("cache backend is none").Reason(); got != "cache backend is none" {
		t.Errorf("Reason() = %q", got)
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(filepath.Join(t.TempDir(), "cache"))
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}

	if _, hit, _ := c.Get(ctx, "missing"); hit {
		t.Error("empty cache should miss")
	}

	if err := c.Set(ctx, "k", []byte("v"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, hit, err := c.Get(ctx, "k")
	if err != nil || !hit || string(data) != "v" {
		t.Fatalf("Get = %q, %v, %v", data, hit, err)
	}

	if err := c.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("deleted key should miss")
	}
	if err := c.Delete(ctx, "k"); err != nil {
		t.Errorf("deleting a missing key should be a no-op: %v", err)
	}
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())

	_ = c.Set(ctx, "short", []byte("x"), time.Nanosecond)
	time.Sleep(5 * time.Millisecond)
	if _, hit, _ := c.Get(ctx, "short"); hit {
		t.Error("expired entry should miss")
	}
	if _, err := os.Stat(c.path("short")); !os.IsNotExist(err) {
		t.Error("expired entry should be removed from disk")
	}
}

func TestFileCacheCorruptEntry(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())

	_ = c.Set(ctx, "k", []byte("v"), 0)
	if err := os.WriteFile(c.path("k"), []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, hit, err := c.Get(ctx, "k"); hit || err != nil {
		t.Errorf("corrupt entry should be a silent miss, got hit=%v err=%v", hit, err)
	}
}

func TestFileCacheClear(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())

	for _, k := range []string{"a", "b", "c"} {
		_ = c.Set(ctx, k, []byte(k), 0)
	}
	n, err := c.Clear()
	if err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if n != 3 {
		t.Errorf("Clear removed %d entries, want 3", n)
	}
	entries, _ := os.ReadDir(c.Dir())
	if len(entries) != 0 {
		t.Errorf("cache dir should be empty, has %d entries", len(entries))
	}

	missing := &FileCache{dir: filepath.Join(t.TempDir(), "nope")}
	if n, err := missing.Clear(); n != 0 || err != nil {
		t.Errorf("Clear on missing dir = %d, %v", n, err)
	}
}

func TestMemoryCache(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()
	now := time.Date(2024, 7, 29, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	buf := []byte("value")
	_ = c.Set(ctx, "k", buf, time.Minute)
	_ = c.Set(ctx, "forever", []byte("x"), 0)
	buf[0] = 'X'

	data, hit, _ := c.Get(ctx, "k")
	if !hit || string(data) != "value" {
		t.Errorf("Get = %q, %v; stored data should be copied", data, hit)
	}

	now = now.Add(2 * time.Minute)
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("expired entry should miss")
	}
	if _, hit, _ := c.Get(ctx, "forever"); !hit {
		t.Error("entry without ttl should not expire")
	}

	_ = c.Set(ctx, "stale", []byte("x"), time.Second)
	now = now.Add(time.Hour)
	if n := c.Prune(); n != 1 {
		t.Errorf("Prune = %d, want 1", n)
	}
	if c.Len() != 1 {
		t.Errorf("Len = %d, want 1", c.Len())
	}

	_ = c.Close()
	if c.Len() != 0 {
		t.Error("Close should drop all entries")
	}
}

func TestScopedCache(t *testing.T) {
	ctx := context.Background()
	inner := NewMemoryCache()
	c := Scoped(inner, "waymark:")

	_ = c.Set(ctx, "k", []byte("v"), 0)
	if _, hit, _ := inner.Get(ctx, "waymark:k"); !hit {
		t.Error("scoped key should be prefixed in the inner cache")
	}
	if _, hit, _ := c.Get(ctx, "k"); !hit {
		t.Error("scoped Get should find its own key")
	}
	_ = c.Delete(ctx, "k")
	if inner.Len() != 0 {
		t.Error("scoped Delete should remove the prefixed key")
	}

	if _, hit, _ := Scoped(nil, "x:").Get(ctx, "k"); hit {
		t.Error("nil inner should behave like NullCache")
	}
}

func TestJSONHelpers(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()

	type payload struct{ N int }
	if err := SetJSON(ctx, c, "p", payload{N: 7}, 0); err != nil {
		t.Fatal(err)
	}
	var got payload
	ok, err := GetJSON(ctx, c, "p", &got)
	if !ok || err != nil || got.N != 7 {
		t.Errorf("GetJSON = %v, %v, %+v", ok, err, got)
	}

	_ = c.Set(ctx, "bad", []byte("{"), 0)
	ok, err = GetJSON(ctx, c, "bad", &got)
	if ok || !errors.Is(err, ErrCorrupt) {
		t.Errorf("corrupt entry: ok=%v err=%v", ok, err)
	}
	if _, hit, _ := c.Get(ctx, "bad"); hit {
		t.Error("corrupt entry should be deleted")
	}
}

func TestHash(t *testing.T) {
	h1 := Hash([]byte("hello"))
	h2 := Hash([]byte("hello"))
	if h1 != h2 {
		t.Error("Hash should be deterministic")
	}
	if h1 == Hash([]byte("world")) {
		t.Error("Different inputs should produce different hashes")
	}
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
}

func TestDiagramKey(t *testing.T) {
	base := DiagramKeyOpts{ContentHash: "abc", Expanded: "j1,j2", Format: "svg"}

	if DiagramKey(base) != DiagramKey(base) {
		t.Error("DiagramKey should be deterministic")
	}

	variants := []DiagramKeyOpts{
		{ContentHash: "abd", Expanded: "j1,j2", Format: "svg"},
		{ContentHash: "abc", Expanded: "j1", Format: "svg"},
		{ContentHash: "abc", Expanded: "j1,j2", Format: "png"},
		{ContentHash: "abc", Expanded: "j1,j2", Format: "svg", Theme: "light"},
		{ContentHash: "abc", Expanded: "j1,j2", Format: "svg", Layout: map[string]float64{"boxWidth": 200}},
	}
	for _, v := range variants {
		if DiagramKey(v) == DiagramKey(base) {
			t.Errorf("%+v should produce a different key", v)
		}
	}

	if k := DiagramKey(base); len(k) != len("diagram:")+64 {
		t.Errorf("unexpected key shape: %s", k)
	}
	if LayoutKey("abc", "j1", nil) == LayoutKey("abc", "j2", nil) {
		t.Error("LayoutKey should depend on the expanded set")
	}
}

func TestNewRedisCacheBadURL(t *testing.T) {
	if _, err := NewRedisCache(context.Background(), "not-a-url"); err == nil {
		t.Error("expected error for invalid redis url")
	}
}

func TestRetryableError(t *testing.T) {
	if Retryable(nil) != nil {
		t.Error("Retryable(nil) should return nil")
	}

	err := Retryable(ErrUnavailable)
	if !IsRetryable(err) {
		t.Error("IsRetryable should return true for wrapped error")
	}
	if err.Error() != ErrUnavailable.Error() {
		t.Errorf("Error message should be preserved: %s", err.Error())
	}
	if IsRetryable(ErrCorrupt) {
		t.Error("IsRetryable should return false for unwrapped error")
	}
}

func TestRetryWithBackoff(t *testing.T) {
	ctx := context.Background()

	calls := 0
	err := RetryWithBackoff(ctx, func() error {
		calls++
		return nil
	})
	if err != nil || calls != 1 {
		t.Errorf("success: err=%v calls=%d", err, calls)
	}

	// Non-retryable error stops immediately
	calls = 0
	err = RetryWithBackoff(ctx, func() error {
		calls++
		return ErrCorrupt
	})
	if err != ErrCorrupt || calls != 1 {
		t.Errorf("non-retryable: err=%v calls=%d", err, calls)
	}

	calls = 0
	err = RetryWithBackoff(ctx, func() error {
		calls++
		if calls < 2 {
			return Retryable(ErrUnavailable)
		}
		return nil
	})
	if err != nil || calls != 2 {
		t.Errorf("retry: err=%v calls=%d", err, calls)
	}

	// Gives up after three attempts
	calls = 0
	err = RetryWithBackoff(ctx, func() error {
		calls++
		return Retryable(ErrUnavailable)
	})
	if !errors.Is(err, ErrUnavailable) || calls != 3 {
		t.Errorf("exhausted: err=%v calls=%d", err, calls)
	}
}

func TestRetryWithBackoffContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := RetryWithBackoff(ctx, func() error {
		return Retryable(ErrUnavailable)
	})
	if err != context.Canceled {
		t.Errorf("Should return context error: %v", err)
	}
}
