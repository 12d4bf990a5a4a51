package pie

// Rect is an axis-aligned rectangle in surface units.
type Rect struct {
	Left, Top, Right, Bottom float64
}

// SquareAround returns [-r, -r, r, r].
func SquareAround(r float64) Rect {
	return Rect{Left: -r, Top: -r, Right: r, Bottom: r}
}

// Inset shrinks the rectangle by d on every side; negative d grows it.
func (r Rect) Inset(d float64) Rect {
	return Rect{Left: r.Left + d, Top: r.Top + d, Right: r.Right - d, Bottom: r.Bottom - d}
}

// Width returns Right - Left.
func (r Rect) Width() float64 { return r.Right - r.Left }

// Radius returns half the width; bounds built by the chart are square.
func (r Rect) Radius() float64 { return r.Width() / 2 }

// Paint carries the per-draw style parameters the geometry decides. Colors
// and fonts stay with the surface and are looked up through Style.
type Paint struct {
	Style        StyleHandle
	Alpha        float64 // [0, 1]
	Stroke       bool    // ring outline instead of filled sector
	StrokeWidth  float64
	ShadowRadius float64 // float effect; 0 means no shadow
	TextSize     float64
}

// Surface is the drawing target of a frame.
type Surface interface {
	// Translate moves the drawing origin; the chart calls it once per frame
	// to centre the pie.
	Translate(dx, dy float64)
	// DrawArc draws an arc inscribed in bounds, starting at startAngle and
	// sweeping sweepAngle degrees clockwise. With useCenter the arc closes
	// through the centre (a pie sector); otherwise it is an open arc.
	DrawArc(bounds Rect, startAngle, sweepAngle float64, useCenter bool, paint Paint)
	// DrawText draws text centred on (x, y).
	DrawText(text string, x, y float64, paint Paint)
}

// TextMeasurer measures rendered label widths.
type TextMeasurer interface {
	MeasureText(text string, size float64) float64
}

// Padding is the inset of the drawable region within the surface.
type Padding struct {
	Left, Top, Right, Bottom float64
}
