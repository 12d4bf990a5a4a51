package sink

import (
	"bytes"
	"fmt"
	"html"

	"github.com/matzehuels/piesweep/pkg/pie"
	"github.com/matzehuels/piesweep/pkg/render/palette"
)

// SVGOption configures an [SVGSurface].
type SVGOption func(*SVGSurface)

// WithPalette sets the style-handle colors.
func WithPalette(p palette.Palette) SVGOption { return func(s *SVGSurface) { s.palette = p } }

// WithBackground fills the canvas with a color before drawing.
func WithBackground(color string) SVGOption { return func(s *SVGSurface) { s.background = color } }

// WithFontFamily sets the label font family.
func WithFontFamily(f string) SVGOption { return func(s *SVGSurface) { s.font = f } }

// SVGSurface writes draw calls as SVG elements.
type SVGSurface struct {
	width, height float64
	palette       palette.Palette
	background    string
	font          string

	dx, dy  float64
	body    bytes.Buffer
	filters int
}

// NewSVGSurface creates an empty canvas of the given size.
func NewSVGSurface(width, height float64, opts ...SVGOption) *SVGSurface {
	s := &SVGSurface{width: width, height: height, palette: palette.Default(), font: "sans-serif"}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RenderSVG draws one frame and returns the SVG document.
func RenderSVG(f Frame, width, height float64, opts ...SVGOption) ([]byte, error) {
	s := NewSVGSurface(width, height, opts...)
	if err := f.Draw(s); err != nil {
		return nil, err
	}
	return s.Bytes(), nil
}

// Translate moves the drawing origin.
func (s *SVGSurface) Translate(dx, dy float64) {
	s.dx += dx
	s.dy += dy
}

// DrawArc writes a sector (useCenter) or an open arc as a path element.
func (s *SVGSurface) DrawArc(b pie.Rect, start, sweep float64, useCenter bool, p pie.Paint) {
	if sweep <= 0 {
		return
	}
	cx, cy := center(b)
	cx, cy = cx+s.dx, cy+s.dy
	r := b.Radius()
	color := s.palette.Hex(p.Style)

	filter := ""
	if p.ShadowRadius > 0 {
		s.filters++
		id := fmt.Sprintf("float-shadow-%d", s.filters)
		fmt.Fprintf(&s.body, `  <defs><filter id="%s" x="-50%%" y="-50%%" width="200%%" height="200%%">`+
			`<feDropShadow dx="0" dy="0" stdDeviation="%.2f" flood-opacity="0.35"/></filter></defs>`+"\n",
			id, p.ShadowRadius/2)
		filter = fmt.Sprintf(` filter="url(#%s)"`, id)
	}

	d := arcPath(cx, cy, r, start, sweep, useCenter)
	if p.Stroke || !useCenter {
		fmt.Fprintf(&s.body, `  <path class="slice" d="%s" fill="none" stroke="%s" stroke-width="%.2f" stroke-opacity="%.3f"%s/>`+"\n",
			d, color, p.StrokeWidth, p.Alpha, filter)
		return
	}
	fmt.Fprintf(&s.body, `  <path class="slice" d="%s" fill="%s" fill-opacity="%.3f"%s/>`+"\n",
		d, color, p.Alpha, filter)
}

// DrawText writes a label centred on (x, y).
func (s *SVGSurface) DrawText(text string, x, y float64, p pie.Paint) {
	fmt.Fprintf(&s.body,
		`  <text class="slice-label" x="%.2f" y="%.2f" text-anchor="middle" dominant-baseline="central" font-family="%s" font-size="%.1f" fill="%s" fill-opacity="%.3f">%s</text>`+"\n",
		x+s.dx, y+s.dy, html.EscapeString(s.font), p.TextSize, textColor, p.Alpha, html.EscapeString(text))
}

// Bytes returns the complete SVG document.
func (s *SVGSurface) Bytes() []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		s.width, s.height, s.width, s.height)
	if s.background != "" {
		fmt.Fprintf(&buf, `  <rect width="100%%" height="100%%" fill="%s"/>`+"\n", html.EscapeString(s.background))
	}
	buf.Write(s.body.Bytes())
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

// arcPath builds the path data of an arc swept clockwise from start. Full
// circles are split into two half arcs since a single SVG arc cannot close
// on itself.
func arcPath(cx, cy, r, start, sweep float64, useCenter bool) string {
	x0, y0 := polar(cx, cy, r, start)
	if sweep >= 360 {
		x1, y1 := polar(cx, cy, r, start+180)
		return fmt.Sprintf("M %.2f %.2f A %.2f %.2f 0 1 1 %.2f %.2f A %.2f %.2f 0 1 1 %.2f %.2f Z",
			x0, y0, r, r, x1, y1, r, r, x0, y0)
	}

	x1, y1 := polar(cx, cy, r, start+sweep)
	large := 0
	if sweep > 180 {
		large = 1
	}
	if useCenter {
		return fmt.Sprintf("M %.2f %.2f L %.2f %.2f A %.2f %.2f 0 %d 1 %.2f %.2f Z",
			cx, cy, x0, y0, r, r, large, x1, y1)
	}
	return fmt.Sprintf("M %.2f %.2f A %.2f %.2f 0 %d 1 %.2f %.2f", x0, y0, r, r, large, x1, y1)
}
