package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/waymark/pkg/cache"
	"github.com/matzehuels/waymark/pkg/layout"
	"github.com/matzehuels/waymark/pkg/observability"
	"github.com/matzehuels/waymark/pkg/render"
	"github.com/matzehuels/waymark/pkg/roadmap"
)

// Runner encapsulates pipeline execution with caching.
//
// The Runner is stateless except for the cache and logger; multiple
// goroutines can safely use the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Logger: logger}
}

// ContentHash returns the hash of everything that affects a roadmap's
// drawing: its title and its node tree.
func ContentHash(rm *roadmap.Roadmap) (string, error) {
	return cache.HashJSON(struct {
		Title string         `json:"title"`
		Nodes []roadmap.Node `json:"nodes"`
	}{rm.Title, rm.Nodes})
}

// Execute runs layout and render for rm with caching.
func (r *Runner) Execute(ctx context.Context, rm *roadmap.Roadmap, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	hash, err := ContentHash(rm)
	if err != nil {
		return nil, fmt.Errorf("hash roadmap: %w", err)
	}
	result := &Result{ContentHash: hash, ContentType: render.ContentType(opts.Format)}

	// Stage 1: Layout
	layoutStart := time.Now()
	res, hit, err := r.LayoutWithCacheInfo(ctx, rm, hash, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Layout = res
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.Stats.NodeCount = len(res.Nodes)
	result.Stats.EdgeCount = len(res.Edges)
	result.CacheInfo.LayoutHit = hit

	r.Logger.Debug("computed layout",
		"roadmap", rm.ID,
		"nodes", len(res.Nodes),
		"cached", hit,
		"duration", result.Stats.LayoutTime)

	// Stage 2: Render
	renderStart := time.Now()
	data, hit, err := r.RenderWithCacheInfo(ctx, rm, hash, res, opts)
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", opts.Format, err)
	}
	result.Artifact = data
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = hit

	r.Logger.Debug("rendered diagram",
		"roadmap", rm.ID,
		"format", opts.Format,
		"bytes", len(data),
		"cached", hit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// LayoutWithCacheInfo computes the layout of rm with caching and reports
// whether it came from the cache.
func (r *Runner) LayoutWithCacheInfo(ctx context.Context, rm *roadmap.Roadmap, hash string, opts Options) (layout.Result, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return layout.Result{}, false, err
	}
	key := cache.LayoutKey(hash, opts.Expanded.String(), opts.Layout)

	if !opts.Refresh {
		var cached layout.Result
		ok, err := cache.GetJSON(ctx, r.Cache, key, &cached)
		if err != nil {
			r.Logger.Warn("discarding cached layout", "err", err)
		}
		if ok {
			observability.Cache().OnCacheHit(ctx, "layout")
			return cached, true, nil
		}
		observability.Cache().OnCacheMiss(ctx, "layout")
	}

	hooks := observability.Diagram()
	hooks.OnLayoutStart(ctx, rm.ID, opts.Expanded.Len())
	start := time.Now()
	res := layout.ForRoadmap(rm, opts.Expanded, opts.Layout)
	hooks.OnLayoutComplete(ctx, rm.ID, len(res.Nodes), time.Since(start), nil)

	if err := cache.SetJSON(ctx, r.Cache, key, res, cache.TTLLayout); err != nil {
		r.Logger.Warn("cache layout", "err", err)
	} else {
		observability.Cache().OnCacheSet(ctx, "layout", len(res.Nodes))
	}
	return res, false, nil
}

// RenderWithCacheInfo draws res with caching and reports whether the
// artifact came from the cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, rm *roadmap.Roadmap, hash string, res layout.Result, opts Options) ([]byte, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}
	key := cache.DiagramKey(cache.DiagramKeyOpts{
		ContentHash: hash,
		Expanded:    opts.Expanded.String(),
		Format:      opts.Format,
		Theme:       opts.Theme,
		Layout:      opts,
	})

	if !opts.Refresh {
		data, hit, err := r.Cache.Get(ctx, key)
		if err != nil {
			r.Logger.Warn("cache read failed", "err", err)
		}
		if hit {
			observability.Cache().OnCacheHit(ctx, "diagram")
			return data, true, nil
		}
		observability.Cache().OnCacheMiss(ctx, "diagram")
	}

	hooks := observability.Diagram()
	hooks.OnRenderStart(ctx, rm.ID, opts.Format)
	start := time.Now()
	data, err := Render(ctx, rm, res, opts)
	hooks.OnRenderComplete(ctx, rm.ID, opts.Format, len(data), time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	if err := r.Cache.Set(ctx, key, data, cache.TTLDiagram); err != nil {
		r.Logger.Warn("cache diagram", "err", err)
	} else {
		observability.Cache().OnCacheSet(ctx, "diagram", len(data))
	}
	return data, false, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
