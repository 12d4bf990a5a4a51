package pie

import "math"

// Ring is the radial band a pointer must fall into to hit a slice.
type Ring struct {
	CenterX, CenterY float64
	Radius           float64
	StrokeWidth      float64
	Stroke           bool
	// Tolerance widens the band by this many units on both edges.
	Tolerance float64
}

// band returns the squared inner and outer radii.
func (r Ring) band() (inner2, outer2 float64) {
	inner, outer := 0.0, r.Radius
	if r.Stroke {
		inner = r.Radius - r.StrokeWidth/2
		outer = r.Radius + r.StrokeWidth/2
	}
	inner = math.Max(0, inner-r.Tolerance)
	outer += r.Tolerance
	return inner * inner, outer * outer
}

// HitTester maps pointer coordinates to slices. It memoizes the last hit so
// repeated taps on the same slice skip the scan.
type HitTester struct {
	slices []Slice
	loc    locator
}

// NewHitTester creates a hit tester over a planned slice list. The list is
// shared read-only.
func NewHitTester(slices []Slice) *HitTester {
	return &HitTester{slices: slices, loc: newLocator()}
}

// HitTest returns the index of the slice under (x, y), or -1.
func (h *HitTester) HitTest(x, y float64, ring Ring) int {
	if len(h.slices) == 0 || ring.Radius <= 0 {
		return -1
	}
	dx, dy := x-ring.CenterX, y-ring.CenterY
	d2 := dx*dx + dy*dy
	inner2, outer2 := ring.band()
	if d2 < inner2 || d2 > outer2 {
		return -1
	}
	return h.loc.find(h.slices, PointerAngle(dx, dy))
}

// PointerAngle converts an offset from the centre into degrees in [0, 360),
// 0° at 3 o'clock, clockwise in screen space.
func PointerAngle(dx, dy float64) float64 {
	return normalizeAngle(math.Atan2(dy, dx) / math.Pi * 180)
}
