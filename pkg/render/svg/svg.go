// Package svg draws a layout.Result as a standalone SVG document.
//
// Boxes are rounded rectangles with a centered, truncated title. Nodes that
// have children carry a "+" (collapsed) or "−" (expanded) marker in the
// bottom-right corner, and expanded nodes get an accent border. Edges are the
// cubic curves computed by the layout engine, drawn beneath the boxes.
//
//	doc := svg.Render(res,
//	    svg.WithTitle(rm.Title),
//	    svg.WithNodeLink(func(n layout.Placed) string { return toggleURL(n.ID) }),
//	)
package svg

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"unicode/utf8"

	"github.com/matzehuels/waymark/pkg/layout"
)

const (
	fontSize      = 14.0
	markerSize    = 20.0
	fontCharWidth = 0.55
	fontWidthFrac = 0.85
	cornerRadius  = 10.0
	strokeWidth   = 2.0
	titleBarSize  = 28.0
	titleMargin   = 8.0
)

// Theme is the color palette used for drawing.
type Theme struct {
	Background    string
	Card          string
	Text          string
	TextSecondary string
	Border        string
	Primary       string
}

// DarkTheme matches the app's dark palette.
var DarkTheme = Theme{
	Background:    "#111827",
	Card:          "#1f2937",
	Text:          "#d1d5db",
	TextSecondary: "#9ca3af",
	Border:        "#374151",
	Primary:       "#818cf8",
}

// LightTheme is a print-friendly palette.
var LightTheme = Theme{
	Background:    "#ffffff",
	Card:          "#f9fafb",
	Text:          "#111827",
	TextSecondary: "#6b7280",
	Border:        "#d1d5db",
	Primary:       "#4f46e5",
}

// Option configures rendering.
type Option func(*renderer)

type renderer struct {
	theme Theme
	title string
	link  func(layout.Placed) string
}

func WithTheme(t Theme) Option { return func(r *renderer) { r.theme = t } }
func WithTitle(title string) Option { return func(r *renderer) { r.title = title } }

// WithNodeLink wraps every expandable node in a link to fn(node).
// Used by the HTTP API to make boxes toggle their expanded state.
func WithNodeLink(fn func(layout.Placed) string) Option {
	return func(r *renderer) { r.link = fn }
}

// Render draws res and returns the SVG document.
func Render(res layout.Result, opts ...Option) []byte {
	r := renderer{theme: DarkTheme}
	for _, opt := range opts {
		opt(&r)
	}

	offsetY := 0.0
	if r.title != "" {
		offsetY = titleBarSize
	}
	width, height := res.Width, res.Height+offsetY

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		width, height, width, height)
	fmt.Fprintf(&buf, `  <rect x="0" y="0" width="%.1f" height="%.1f" fill="%s"/>`+"\n", width, height, r.theme.Background)

	if r.title != "" {
		fmt.Fprintf(&buf, `  <text x="%.1f" y="%.1f" fill="%s" font-size="16" font-weight="bold" font-family="sans-serif">%s</text>`+"\n",
			titleMargin, titleBarSize-8, r.theme.Text, escapeXML(r.title))
	}

	fmt.Fprintf(&buf, `  <g transform="translate(0 %.1f)">`+"\n", offsetY)
	for _, e := range res.Edges {
		fmt.Fprintf(&buf, `    <path id="%s" d="%s" stroke="%s" stroke-width="%.0f" fill="none"/>`+"\n",
			escapeXML(e.ID), e.Path, r.theme.Primary, strokeWidth)
	}
	for _, n := range res.Nodes {
		r.renderNode(&buf, n)
	}
	buf.WriteString("  </g>\n")
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func (r *renderer) renderNode(buf *bytes.Buffer, n layout.Placed) {
	href := ""
	if r.link != nil && n.HasChildren {
		href = r.link(n)
	}
	if href != "" {
		fmt.Fprintf(buf, `    <a href="%s">`+"\n", escapeXML(href))
	}

	stroke := r.theme.Border
	if n.Expanded {
		stroke = r.theme.Primary
	}
	fmt.Fprintf(buf, `    <g id="node-%s">`+"\n", escapeXML(n.ID))
	if n.Description != "" {
		fmt.Fprintf(buf, "      <title>%s</title>\n", escapeXML(n.Description))
	}
	fmt.Fprintf(buf, `      <rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" rx="%.0f" fill="%s" stroke="%s" stroke-width="%.0f"/>`+"\n",
		n.X, n.Y, n.Width, n.Height, cornerRadius, r.theme.Card, stroke, strokeWidth)
	fmt.Fprintf(buf, `      <text x="%.1f" y="%.1f" fill="%s" font-size="%.0f" font-weight="bold" font-family="sans-serif" text-anchor="middle">%s</text>`+"\n",
		n.X+n.Width/2, n.Y+n.Height/2+5, r.theme.Text, fontSize, escapeXML(truncate(n.Title, n.Width)))
	if n.HasChildren {
		marker := "+"
		if n.Expanded {
			marker = "−"
		}
		fmt.Fprintf(buf, `      <text x="%.1f" y="%.1f" fill="%s" font-size="%.0f" font-family="sans-serif">%s</text>`+"\n",
			n.X+n.Width-20, n.Y+n.Height-15+markerSize/2, r.theme.TextSecondary, markerSize, marker)
	}
	buf.WriteString("    </g>\n")

	if href != "" {
		buf.WriteString("    </a>\n")
	}
}

// truncate shortens label to fit a box of the given width at fontSize.
func truncate(label string, width float64) string {
	maxChars := int(width * fontWidthFrac / (fontSize * fontCharWidth))
	if maxChars < 3 {
		maxChars = 3
	}
	if utf8.RuneCountInString(label) <= maxChars {
		return label
	}
	runes := []rune(label)
	return string(runes[:maxChars-2]) + ".."
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
