// Package render converts rendered chart frames between output formats.
//
// # Overview
//
// Chart frames are produced by the surfaces in the [sink] subpackage; this
// package holds the format conversion they share:
//
//   - [ToPDF]: SVG to PDF
//   - [ToPNG]: SVG to PNG at a scale factor
//
// Both shell out to rsvg-convert (from librsvg):
//
//	svg, _ := sink.RenderSVG(chart, 800, 600)
//	pdf, err := render.ToPDF(ctx, svg)
//
// The native raster path ([sink.RenderPNG]) draws with gogpu/gg and needs no
// external tool; [ToPNG] is the fallback that matches SVG output exactly.
//
// Colors come from the [palette] subpackage.
//
// [sink]: github.com/matzehuels/piesweep/pkg/render/sink
// [sink.RenderPNG]: github.com/matzehuels/piesweep/pkg/render/sink.RenderPNG
// [palette]: github.com/matzehuels/piesweep/pkg/render/palette
package render
