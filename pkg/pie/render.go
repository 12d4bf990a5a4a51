package pie

import "math"

// =============================================================================
// Render paths
// =============================================================================

// drawStatic draws every slice as a full arc, rebuilding the cache first
// when it does not hold every slice.
func (c *Chart) drawStatic(surf Surface) {
	c.ensureCache()
	for _, i := range c.cache.order {
		c.drawFull(surf, i)
	}
}

// drawSweeping draws the completed slices plus the partial arc of the
// slice under the cursor.
func (c *Chart) drawSweeping(surf Surface) {
	d := c.sweep
	for _, i := range c.cache.order {
		if i == d.active {
			continue
		}
		c.drawFull(surf, i)
	}
	if d.active < 0 {
		return
	}
	s := c.slices[d.active]
	if span := d.partial(); span > 0 {
		surf.DrawArc(c.planner.Bounds(), s.FromAngle, span, !c.cfg.StrokeMode, c.paintFor(s))
	}
	if d.pastMiddle() {
		c.drawLabel(surf, s, 0)
	}
}

// drawTouch draws the resting slices, then the outgoing and incoming
// highlights on top.
func (c *Chart) drawTouch(surf Surface) {
	c.ensureCache()
	floating, previous := c.float.Floating(), c.float.Previous()
	for _, i := range c.cache.order {
		if i == floating || i == previous {
			continue
		}
		c.drawFull(surf, i)
	}
	if previous >= 0 && previous != floating {
		c.drawHighlight(surf, previous, c.float.Elevation(previous))
	}
	if floating >= 0 {
		c.drawHighlight(surf, floating, c.float.Elevation(floating))
	}
}

func (c *Chart) ensureCache() {
	if c.cache.len() != len(c.slices) {
		c.cache.fill(len(c.slices))
	}
}

// =============================================================================
// Slice primitives
// =============================================================================

func (c *Chart) paintFor(s Slice) Paint {
	alpha := 1.0
	if c.alpha != nil {
		alpha = min(max(c.alpha(s), 0), 1)
	}
	return Paint{
		Style:       s.Style,
		Alpha:       alpha,
		Stroke:      c.cfg.StrokeMode,
		StrokeWidth: c.cfg.StrokeWidth,
		TextSize:    c.cfg.TextSize,
	}
}

func (c *Chart) drawFull(surf Surface, i int) {
	s := c.slices[i]
	surf.DrawArc(c.planner.Bounds(), s.FromAngle, s.SweepAngle, !c.cfg.StrokeMode, c.paintFor(s))
	c.drawLabel(surf, s, 0)
}

// drawHighlight draws slice i elevated by p ∈ [0,1]: the span widens by
// the expand angle on both sides, a shadow grows under it, and either the
// stroke thickens or the radius grows.
func (c *Chart) drawHighlight(surf Surface, i int, p float64) {
	s := c.slices[i]
	cfg := c.cfg
	start := s.FromAngle - cfg.FloatExpandAngle*p
	sweep := min(s.SweepAngle+2*cfg.FloatExpandAngle*p, 360)

	bounds := c.planner.Bounds()
	paint := c.paintFor(s)
	paint.ShadowRadius = cfg.FloatShadowRadius * p
	grow := cfg.FloatExpandSize * p
	if cfg.StrokeMode {
		paint.StrokeWidth += grow
		grow /= 2
	} else {
		bounds = bounds.Inset(-grow)
	}
	surf.DrawArc(bounds, start, sweep, !cfg.StrokeMode, paint)
	c.drawLabel(surf, s, grow)
}

// drawLabel places the slice description just outside the ring on the
// middle angle. grow pushes it out with an elevated slice.
func (c *Chart) drawLabel(surf Surface, s Slice, grow float64) {
	if !c.cfg.DrawText {
		return
	}
	text := s.Description()
	if text == "" {
		return
	}

	r := c.planner.Radius() + grow + c.cfg.TextSize/2
	if c.cfg.StrokeMode {
		r += c.cfg.StrokeWidth / 2
	}
	var w float64
	if c.measurer != nil {
		w = c.measurer.MeasureText(text, c.cfg.TextSize)
	}
	rad := s.MiddleAngle * math.Pi / 180
	cos, sin := math.Cos(rad), math.Sin(rad)
	x := cos * (r + w/2)
	y := sin * (r + c.cfg.TextSize/2)

	paint := c.paintFor(s)
	paint.Stroke = false
	surf.DrawText(text, x, y, paint)
}
