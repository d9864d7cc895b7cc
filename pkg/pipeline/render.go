package pipeline

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/matzehuels/waymark/pkg/layout"
	"github.com/matzehuels/waymark/pkg/render"
	"github.com/matzehuels/waymark/pkg/render/dot"
	"github.com/matzehuels/waymark/pkg/render/svg"
	"github.com/matzehuels/waymark/pkg/roadmap"
)

// Render draws res in opts.Format.
func Render(ctx context.Context, rm *roadmap.Roadmap, res layout.Result, opts Options) ([]byte, error) {
	switch opts.Format {
	case render.FormatSVG:
		return svg.Render(res, opts.SVGOptions(rm.Title)...), nil
	case render.FormatJSON:
		return json.Marshal(Diagram{ID: rm.ID, Title: rm.Title, Expanded: opts.Expanded.IDs(), Layout: res})
	case render.FormatDOT:
		return []byte(dot.ToDOT(res, dot.Options{Detailed: opts.Detailed})), nil
	case render.FormatGraph:
		return dot.RenderSVG(ctx, dot.ToDOT(res, dot.Options{Detailed: opts.Detailed}))
	case render.FormatPDF:
		return render.ToPDF(ctx, svg.Render(res, opts.SVGOptions(rm.Title)...))
	case render.FormatPNG:
		return render.ToPNG(ctx, svg.Render(res, opts.SVGOptions(rm.Title)...), opts.Scale)
	}
	return nil, fmt.Errorf("unsupported format: %s", opts.Format)
}

// Diagram is the JSON rendering of a layout.
type Diagram struct {
	ID       string        `json:"id"`
	Title    string        `json:"title"`
	Expanded []string      `json:"expanded"`
	Layout   layout.Result `json:"layout"`
}
