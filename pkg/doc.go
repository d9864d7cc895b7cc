// Package pkg provides the core libraries for Waymark, a roadmap sharing app.
//
// # Overview
//
// A roadmap is a titled tree of steps. Users browse roadmaps, expand and
// collapse steps to explore them, like them, comment on them and publish
// their own. The pkg directory is organized into four areas:
//
//  1. Domain: [roadmap] (trees, seed data, validation) and [layout]
//     (tidy tree positioning of the visible nodes)
//  2. Rendering: [render] with its svg and dot subpackages, driven by
//     [pipeline] (layout → render, content-addressed caching)
//  3. Infrastructure: [store] (memory and MongoDB repositories), [session]
//     (file, memory and Redis session stores), [cache], [config], [auth]
//  4. Application: [service], the operations shared by the CLI, the TUI
//     and the HTTP API
//
// # Architecture
//
// The typical data flow when a diagram is requested:
//
//	store.Repository (roadmap by ID)
//	         ↓
//	    [layout] package (visible nodes + edge curves)
//	         ↓
//	    [render] package (SVG/DOT, then PDF/PNG)
//	         ↓
//	    [cache] (keyed by roadmap content hash + options)
//
// # Quick Start
//
//	svc := service.New(service.Options{
//		Repo:     store.NewSeeded(),
//		Sessions: session.NewMemoryStore(),
//	})
//	res, _ := svc.Diagram(ctx, "4", service.DiagramRequest{
//		Expanded: layout.NewExpanded("j1"),
//		Format:   render.FormatSVG,
//	})
//	os.WriteFile("roadmap.svg", res.Artifact, 0o644)
//
// [roadmap]: github.com/matzehuels/waymark/pkg/roadmap
// [layout]: github.com/matzehuels/waymark/pkg/layout
// [render]: github.com/matzehuels/waymark/pkg/render
// [pipeline]: github.com/matzehuels/waymark/pkg/pipeline
// [store]: github.com/matzehuels/waymark/pkg/store
// [session]: github.com/matzehuels/waymark/pkg/session
// [cache]: github.com/matzehuels/waymark/pkg/cache
// [config]: github.com/matzehuels/waymark/pkg/config
// [auth]: github.com/matzehuels/waymark/pkg/auth
// [service]: github.com/matzehuels/waymark/pkg/service
package pkg
