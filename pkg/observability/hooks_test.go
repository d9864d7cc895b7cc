package observability

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	d := NoopDiagramHooks{}
	d.OnLayoutStart(ctx, "4", 3)
	d.OnLayoutComplete(ctx, "4", 12, time.Millisecond, nil)
	d.OnRenderStart(ctx, "4", "svg")
	d.OnRenderComplete(ctx, "4", "svg", 2048, time.Millisecond, nil)

	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "diagram")
	c.OnCacheMiss(ctx, "layout")
	c.OnCacheSet(ctx, "diagram", 1024)

	h := NoopHTTPHooks{}
	h.OnRequest(ctx, "GET", "/api/v1/roadmaps")
	h.OnResponse(ctx, "GET", "/api/v1/roadmaps", 200, time.Millisecond)
}

func TestLogHooks(t *testing.T) {
	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})
	ctx := log.WithContext(context.Background(), logger)

	LogDiagramHooks{}.OnLayoutComplete(ctx, "4", 12, time.Millisecond, nil)
	LogCacheHooks{}.OnCacheMiss(ctx, "diagram")
	LogHTTPHooks{}.OnResponse(ctx, "GET", "/api/v1/roadmaps/{id}", 404, time.Millisecond)

	out := buf.String()
	if !strings.Contains(out, "layout done") || !strings.Contains(out, "roadmap=4") {
		t.Errorf("missing layout event in %q", out)
	}
	if !strings.Contains(out, "cache miss") {
		t.Errorf("missing cache event in %q", out)
	}
	if !strings.Contains(out, "status=404") {
		t.Errorf("missing http event in %q", out)
	}
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()

	if _, ok := Diagram().(NoopDiagramHooks); !ok {
		t.Error("Diagram() should return NoopDiagramHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("HTTP() should return NoopHTTPHooks by default")
	}

	customDiagram := &testDiagramHooks{}
	SetDiagramHooks(customDiagram)
	if Diagram() != customDiagram {
		t.Error("SetDiagramHooks should set custom hooks")
	}

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != customCache {
		t.Error("SetCacheHooks should set custom hooks")
	}

	customHTTP := &testHTTPHooks{}
	SetHTTPHooks(customHTTP)
	if HTTP() != customHTTP {
		t.Error("SetHTTPHooks should set custom hooks")
	}

	Reset()
	if _, ok := Diagram().(NoopDiagramHooks); !ok {
		t.Error("Reset() should restore NoopDiagramHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()

	custom := &testDiagramHooks{}
	SetDiagramHooks(custom)
	SetDiagramHooks(nil)

	if Diagram() != custom {
		t.Error("SetDiagramHooks(nil) should be ignored")
	}

	Reset()
}

type testDiagramHooks struct{ NoopDiagramHooks }
type testCacheHooks struct{ NoopCacheHooks }
type testHTTPHooks struct{ NoopHTTPHooks }
