// Package sink provides the drawing surfaces a chart frame is rendered onto.
//
// # Overview
//
// Every sink implements [pie.Surface]. A frame is produced by letting the
// chart draw itself onto a fresh surface:
//
//   - SVG: [SVGSurface], [RenderSVG]
//   - PNG: [PNGSurface], [RenderPNG] (native rasterization with gogpu/gg)
//   - JSON: [Recorder], [RenderJSON] (the draw-command log)
//   - PDF: [RenderPDF] (SVG converted by rsvg-convert)
//
// Basic usage:
//
//	chart.SetSize(800, 600, pie.Padding{})
//	svg, err := sink.RenderSVG(chart, 800, 600, sink.WithPalette(p))
//	png, err := sink.RenderPNG(chart, 800, 600, sink.WithScale(2))
//
// # Text
//
// Labels are measured and rasterized with the Go Regular font through
// [DefaultMeasurer]. Pass the measurer to the chart with
// [pie.WithMeasurer] so auto-size reserves room for the widest label.
//
// [pie.Surface]: github.com/matzehuels/piesweep/pkg/pie.Surface
// [pie.WithMeasurer]: github.com/matzehuels/piesweep/pkg/pie.WithMeasurer
package sink

import (
	"math"

	"github.com/matzehuels/piesweep/pkg/pie"
)

// Frame is anything that draws one chart frame onto a surface.
type Frame interface {
	Draw(surf pie.Surface) error
}

// textColor is the label color shared by every sink.
const textColor = "#333333"

// polar returns the point at angle degrees on the circle (cx, cy, r).
func polar(cx, cy, r, deg float64) (x, y float64) {
	rad := deg * math.Pi / 180
	return cx + r*math.Cos(rad), cy + r*math.Sin(rad)
}

// center returns the centre of bounds.
func center(b pie.Rect) (x, y float64) {
	return (b.Left + b.Right) / 2, (b.Top + b.Bottom) / 2
}
