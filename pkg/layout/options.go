package layout

import (
	errs "github.com/matzehuels/waymark/pkg/errors"
)

// Default dimensions, in canvas units.
const (
	DefaultBoxWidth      = 150.0
	DefaultBoxHeight     = 50.0
	DefaultHorizontalGap = 50.0
	DefaultVerticalGap   = 70.0
	DefaultPadding       = 20.0
)

// Options configures box sizes, gaps and the traversal anchor.
//
// AnchorX is the x of the first root before normalization. Because every
// layout is shifted so its leftmost box sits at Padding, AnchorX does not
// change the final coordinates; it only matters to callers that inspect
// unshifted positions. AnchorY is the y of the first root and is kept as is.
type Options struct {
	BoxWidth      float64 `json:"box_width" toml:"box_width"`
	BoxHeight     float64 `json:"box_height" toml:"box_height"`
	HorizontalGap float64 `json:"horizontal_gap" toml:"horizontal_gap"`
	VerticalGap   float64 `json:"vertical_gap" toml:"vertical_gap"`
	Padding       float64 `json:"padding" toml:"padding"`
	AnchorX       float64 `json:"anchor_x" toml:"anchor_x"`
	AnchorY       float64 `json:"anchor_y" toml:"anchor_y"`
}

// DefaultOptions returns the standard diagram geometry.
func DefaultOptions() Options {
	return Options{
		BoxWidth:      DefaultBoxWidth,
		BoxHeight:     DefaultBoxHeight,
		HorizontalGap: DefaultHorizontalGap,
		VerticalGap:   DefaultVerticalGap,
		Padding:       DefaultPadding,
		AnchorY:       DefaultPadding,
	}
}

// SetDefaults fills zero-valued fields with the defaults.
// Zero gaps are legal but indistinguishable from unset, so they are defaulted too.
func (o *Options) SetDefaults() {
	d := DefaultOptions()
	if o.BoxWidth == 0 {
		o.BoxWidth = d.BoxWidth
	}
	if o.BoxHeight == 0 {
		o.BoxHeight = d.BoxHeight
	}
	if o.HorizontalGap == 0 {
		o.HorizontalGap = d.HorizontalGap
	}
	if o.VerticalGap == 0 {
		o.VerticalGap = d.VerticalGap
	}
	if o.Padding == 0 {
		o.Padding = d.Padding
	}
	if o.AnchorY == 0 {
		o.AnchorY = o.Padding
	}
}

// Validate rejects geometry that cannot produce a drawable diagram.
func (o Options) Validate() error {
	if o.BoxWidth <= 0 || o.BoxHeight <= 0 {
		return errs.New(errs.ErrCodeInvalidConfig, "box size must be positive (got %gx%g)", o.BoxWidth, o.BoxHeight)
	}
	if o.HorizontalGap < 0 || o.VerticalGap < 0 || o.Padding < 0 {
		return errs.New(errs.ErrCodeInvalidConfig, "gaps and padding cannot be negative")
	}
	return nil
}
