package sink

import (
	"context"

	"github.com/matzehuels/piesweep/pkg/render"
)

// RenderPDF renders one frame as PDF via SVG conversion.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(ctx context.Context, f Frame, width, height float64, opts ...SVGOption) ([]byte, error) {
	svg, err := RenderSVG(f, width, height, opts...)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(ctx, svg)
}
