package service

import (
	"context"

	"github.com/matzehuels/waymark/pkg/layout"
	"github.com/matzehuels/waymark/pkg/pipeline"
)

// DiagramRequest selects what to draw.
type DiagramRequest struct {
	Expanded  layout.Expanded
	ExpandAll bool
	Format    string
	Theme     string
	Detailed  bool
	Scale     float64

	// LinkTemplate makes expandable SVG nodes clickable; see
	// pipeline.ExpandPlaceholder.
	LinkTemplate string
	Refresh      bool
}

// Diagram lays out and renders a roadmap. Results are cached by content,
// expanded set, and options.
func (s *Service) Diagram(ctx context.Context, roadmapID string, req DiagramRequest) (*pipeline.Result, error) {
	r, err := s.repo.Get(ctx, roadmapID)
	if err != nil {
		return nil, err
	}

	exp := req.Expanded
	if req.ExpandAll {
		exp = layout.NewExpanded(r.ExpandableIDs()...)
	}
	return s.runner.Execute(ctx, r, pipeline.Options{
		Expanded:     exp,
		Layout:       s.layout,
		Format:       req.Format,
		Theme:        req.Theme,
		Detailed:     req.Detailed,
		Scale:        req.Scale,
		LinkTemplate: req.LinkTemplate,
		Refresh:      req.Refresh,
	})
}

// Layout computes the layout of a roadmap without rendering it.
func (s *Service) Layout(ctx context.Context, roadmapID string, exp layout.Expanded) (layout.Result, error) {
	r, err := s.repo.Get(ctx, roadmapID)
	if err != nil {
		return layout.Result{}, err
	}
	hash, err := pipeline.ContentHash(r)
	if err != nil {
		return layout.Result{}, err
	}
	res, _, err := s.runner.LayoutWithCacheInfo(ctx, r, hash, pipeline.Options{Expanded: exp, Layout: s.layout})
	return res, err
}

// Close releases the repository, the session store and the cache.
func (s *Service) Close() error {
	var first error
	for _, c := range []interface{ Close() error }{s.runner, s.sessions, s.repo} {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
