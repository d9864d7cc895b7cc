package render

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"slices"
	"strings"

	errs "github.com/matzehuels/waymark/pkg/errors"
)

// Output formats.
const (
	FormatSVG   = "svg"   // diagram drawn by the svg package
	FormatJSON  = "json"  // raw layout.Result
	FormatDOT   = "dot"   // Graphviz source
	FormatGraph = "graph" // Graphviz-rendered SVG
	FormatPDF   = "pdf"   // svg converted with rsvg-convert
	FormatPNG   = "png"   // svg converted with rsvg-convert
)

// Formats lists every supported output format.
var Formats = []string{FormatSVG, FormatJSON, FormatDOT, FormatGraph, FormatPDF, FormatPNG}

// ValidateFormat checks that f is one of Formats.
func ValidateFormat(f string) error {
	if slices.Contains(Formats, f) {
		return nil
	}
	return errs.New(errs.ErrCodeInvalidFormat, "invalid format: %s (must be one of %s)", f, strings.Join(Formats, ", "))
}

// ContentType returns the MIME type for a format.
func ContentType(f string) string {
	switch f {
	case FormatSVG, FormatGraph:
		return "image/svg+xml"
	case FormatJSON:
		return "application/json"
	case FormatDOT:
		return "text/vnd.graphviz"
	case FormatPDF:
		return "application/pdf"
	case FormatPNG:
		return "image/png"
	}
	return "application/octet-stream"
}

// ToPDF converts SVG bytes to PDF using rsvg-convert.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func ToPDF(ctx context.Context, svg []byte) ([]byte, error) {
	return rsvgConvert(ctx, svg, "pdf")
}

// ToPNG converts SVG bytes to PNG using rsvg-convert with the given scale factor.
// Scale of 2.0 produces a 2x resolution image.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func ToPNG(ctx context.Context, svg []byte, scale float64) ([]byte, error) {
	return rsvgConvert(ctx, svg, "png", "-z", fmt.Sprintf("%.2f", scale))
}

// rsvgConvert shells out to rsvg-convert for format conversion.
func rsvgConvert(ctx context.Context, svg []byte, format string, extraArgs ...string) ([]byte, error) {
	if _, err := exec.LookPath("rsvg-convert"); err != nil {
		return nil, errs.New(errs.ErrCodeUnsupported, "%s export requires librsvg. Install with:\n  macOS:  brew install librsvg\n  Linux:  apt install librsvg2-bin", format)
	}

	args := append([]string{"-f", format}, extraArgs...)
	cmd := exec.CommandContext(ctx, "rsvg-convert", args...)
	cmd.Stdin = bytes.NewReader(svg)

	var out, errBuf bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errBuf

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("rsvg-convert: %v: %s", err, errBuf.String())
	}
	return out.Bytes(), nil
}
