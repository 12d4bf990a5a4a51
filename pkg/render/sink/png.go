package sink

import (
	"bytes"
	"io"
	"math"

	"github.com/gogpu/gg"

	"github.com/matzehuels/piesweep/pkg/pie"
	"github.com/matzehuels/piesweep/pkg/render/palette"
)

// PNGOption configures a [PNGSurface].
type PNGOption func(*PNGSurface)

// WithPNGPalette sets the style-handle colors.
func WithPNGPalette(p palette.Palette) PNGOption { return func(s *PNGSurface) { s.palette = p } }

// WithPNGBackground fills the canvas with a color before drawing.
func WithPNGBackground(color string) PNGOption { return func(s *PNGSurface) { s.background = color } }

// WithScale sets the raster scale factor (default 1; 2 renders at 2x).
func WithScale(f float64) PNGOption {
	return func(s *PNGSurface) {
		if f > 0 {
			s.scale = f
		}
	}
}

// WithPNGMeasurer sets the font used for labels. Without one, labels use
// [DefaultMeasurer].
func WithPNGMeasurer(m *Measurer) PNGOption { return func(s *PNGSurface) { s.measurer = m } }

// shadowAlpha is the opacity of a fully grown float shadow.
const shadowAlpha = 0.25

// PNGSurface rasterizes draw calls with gogpu/gg. Coordinates are mapped to
// device pixels by the surface itself, so radii, stroke widths and text
// scale together.
type PNGSurface struct {
	dc         *gg.Context
	palette    palette.Palette
	background string
	measurer   *Measurer
	scale      float64

	dx, dy float64
	err    error
}

// NewPNGSurface creates a canvas of the given logical size.
func NewPNGSurface(width, height float64, opts ...PNGOption) *PNGSurface {
	s := &PNGSurface{palette: palette.Default(), scale: 1}
	for _, opt := range opts {
		opt(s)
	}
	w := int(math.Ceil(width * s.scale))
	h := int(math.Ceil(height * s.scale))
	s.dc = gg.NewContext(max(w, 1), max(h, 1))
	if s.background != "" {
		s.dc.ClearWithColor(gg.Hex(s.background))
	}
	return s
}

// RenderPNG draws one frame and returns the encoded PNG.
func RenderPNG(f Frame, width, height float64, opts ...PNGOption) ([]byte, error) {
	s := NewPNGSurface(width, height, opts...)
	defer s.Close()
	if err := f.Draw(s); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := s.Encode(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Translate moves the drawing origin.
func (s *PNGSurface) Translate(dx, dy float64) {
	s.dx += dx
	s.dy += dy
}

func (s *PNGSurface) device(x, y float64) (float64, float64) {
	return (x + s.dx) * s.scale, (y + s.dy) * s.scale
}

// DrawArc fills a sector or strokes an open arc. A float shadow is drawn
// first as a wider, translucent copy of the same shape.
func (s *PNGSurface) DrawArc(b pie.Rect, start, sweep float64, useCenter bool, p pie.Paint) {
	if sweep <= 0 || s.err != nil {
		return
	}
	cx, cy := center(b)
	cx, cy = s.device(cx, cy)
	r := b.Radius() * s.scale

	if p.ShadowRadius > 0 {
		grow := p.ShadowRadius * s.scale / 4
		s.dc.SetRGBA(0, 0, 0, shadowAlpha*p.Alpha)
		if useCenter {
			s.fillSector(cx, cy, r+grow, start, sweep)
		} else {
			s.strokeArc(cx, cy, r, start, sweep, (p.StrokeWidth*s.scale)+2*grow)
		}
	}

	c := s.palette.RGBA(p.Style)
	s.dc.SetRGBA(c.R, c.G, c.B, c.A*p.Alpha)
	if useCenter && !p.Stroke {
		s.fillSector(cx, cy, r, start, sweep)
		return
	}
	s.strokeArc(cx, cy, r, start, sweep, p.StrokeWidth*s.scale)
}

func (s *PNGSurface) fillSector(cx, cy, r, start, sweep float64) {
	a1, a2 := radians(start), radians(start+min(sweep, 360))
	s.dc.ClearPath()
	s.dc.MoveTo(cx, cy)
	s.dc.LineTo(cx+r*math.Cos(a1), cy+r*math.Sin(a1))
	s.dc.DrawArc(cx, cy, r, a1, a2)
	s.dc.ClosePath()
	s.setErr(s.dc.Fill())
}

func (s *PNGSurface) strokeArc(cx, cy, r, start, sweep, width float64) {
	a1, a2 := radians(start), radians(start+min(sweep, 360))
	s.dc.ClearPath()
	s.dc.MoveTo(cx+r*math.Cos(a1), cy+r*math.Sin(a1))
	s.dc.DrawArc(cx, cy, r, a1, a2)
	s.dc.SetLineWidth(width)
	s.setErr(s.dc.Stroke())
}

// DrawText draws a label centred on (x, y).
func (s *PNGSurface) DrawText(text string, x, y float64, p pie.Paint) {
	if s.err != nil {
		return
	}
	if s.measurer == nil {
		m, err := DefaultMeasurer()
		if err != nil {
			s.setErr(err)
			return
		}
		s.measurer = m
	}
	px, py := s.device(x, y)
	c := gg.Hex(textColor)
	s.dc.SetFont(s.measurer.Face(p.TextSize * s.scale))
	s.dc.SetRGBA(c.R, c.G, c.B, p.Alpha)
	s.dc.DrawStringAnchored(text, px, py, 0.5, 0.5)
}

// Encode writes the raster as PNG.
func (s *PNGSurface) Encode(w io.Writer) error {
	if s.err != nil {
		return s.err
	}
	return s.dc.EncodePNG(w)
}

// Close releases the drawing context.
func (s *PNGSurface) Close() error {
	return s.dc.Close()
}

func (s *PNGSurface) setErr(err error) {
	if s.err == nil {
		s.err = err
	}
}

func radians(deg float64) float64 { return deg * math.Pi / 180 }
