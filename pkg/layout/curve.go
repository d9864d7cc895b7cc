package layout

import (
	"fmt"
	"strconv"
	"strings"
)

// Point is a position on the canvas.
type Point struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
}

// Curve is a cubic Bézier segment: Start, two control points, End.
type Curve struct {
	Start Point `json:"start" bson:"start"`
	C1    Point `json:"c1" bson:"c1"`
	C2    Point `json:"c2" bson:"c2"`
	End   Point `json:"end" bson:"end"`
}

// connect builds the S-curve from a parent's bottom-center to a child's
// top-center. The tangents at both ends are vertical.
func connect(parent, child Placed, verticalGap float64) Curve {
	sx, sy := parent.X+parent.Width/2, parent.Y+parent.Height
	ex, ey := child.X+child.Width/2, child.Y
	return Curve{
		Start: Point{sx, sy},
		C1:    Point{sx, sy + verticalGap/2},
		C2:    Point{ex, ey - verticalGap/2},
		End:   Point{ex, ey},
	}
}

// Shift returns the curve moved horizontally by dx.
func (c Curve) Shift(dx float64) Curve {
	c.Start.X += dx
	c.C1.X += dx
	c.C2.X += dx
	c.End.X += dx
	return c
}

// Path renders the curve as SVG path data: "M sx,sy C c1x,c1y c2x,c2y ex,ey".
func (c Curve) Path() string {
	return fmt.Sprintf("M %s,%s C %s,%s %s,%s %s,%s",
		num(c.Start.X), num(c.Start.Y),
		num(c.C1.X), num(c.C1.Y),
		num(c.C2.X), num(c.C2.Y),
		num(c.End.X), num(c.End.Y))
}

// String implements fmt.Stringer.
func (c Curve) String() string { return c.Path() }

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// ParseCurve parses path data in the form produced by Curve.Path.
// Commas and whitespace are both accepted as separators.
func ParseCurve(path string) (Curve, error) {
	fields := strings.FieldsFunc(path, func(r rune) bool {
		return r == ' ' || r == ',' || r == '\t' || r == '\n'
	})
	if len(fields) != 10 || fields[0] != "M" || fields[3] != "C" {
		return Curve{}, fmt.Errorf("parse curve %q: want \"M x,y C x,y x,y x,y\"", path)
	}

	var vals [8]float64
	j := 0
	for i, f := range fields {
		if i == 0 || i == 3 {
			continue
		}
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return Curve{}, fmt.Errorf("parse curve %q: %w", path, err)
		}
		vals[j] = v
		j++
	}
	return Curve{
		Start: Point{vals[0], vals[1]},
		C1:    Point{vals[2], vals[3]},
		C2:    Point{vals[4], vals[5]},
		End:   Point{vals[6], vals[7]},
	}, nil
}

// ShiftPath re-parses rendered path data and shifts every x coordinate by dx,
// keeping the path anchored to boxes that were shifted by the same amount.
func ShiftPath(path string, dx float64) (string, error) {
	c, err := ParseCurve(path)
	if err != nil {
		return "", err
	}
	return c.Shift(dx).Path(), nil
}
