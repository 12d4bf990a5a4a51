package pie

import (
	"math"

	"github.com/matzehuels/piesweep/pkg/config"
)

// Planner computes slice geometry and resolves the pie radius.
//
// The radius is resolved once and cached until [Planner.Invalidate]; a
// non-positive cached radius forces recomputation.
type Planner struct {
	measurer      TextMeasurer
	maxLabelWidth float64
	radius        float64
	bounds        Rect
}

// NewPlanner creates a planner. A nil measurer treats every label as zero
// width.
func NewPlanner(m TextMeasurer) *Planner {
	return &Planner{measurer: m}
}

// Plan lays out entries in input order. It returns nil when the sum of
// magnitudes is zero. With n slices, the n-1 split gaps are removed from the
// circle before it is shared out by fraction, so the planned sweeps add up
// to 360 - (n-1)*split and the last slice ends where the first begins.
func (p *Planner) Plan(entries []Entry, cfg *config.Config) []Slice {
	p.maxLabelWidth = 0

	var sum float64
	for _, e := range entries {
		sum += math.Abs(e.Value)
	}
	if sum == 0 || len(entries) == 0 {
		return nil
	}

	n := len(entries)
	avail := 360 - float64(n-1)*cfg.SplitAngle
	slices := make([]Slice, n)
	from := cfg.StartAngle
	for i, e := range entries {
		frac := math.Abs(e.Value) / sum
		sweep := frac * avail
		s := Slice{
			Index:           i,
			ID:              e.ID,
			Label:           e.Label,
			Value:           e.Value,
			Fraction:        frac,
			FromAngle:       normalizeAngle(from),
			SweepAngle:      sweep,
			Style:           e.Style,
			AutoDescription: e.AutoDescription,
		}
		s.ToAngle = s.FromAngle + sweep
		s.MiddleAngle = s.FromAngle + sweep/2
		slices[i] = s
		from += sweep + cfg.SplitAngle

		if cfg.DrawText && p.measurer != nil {
			p.maxLabelWidth = max(p.maxLabelWidth, p.measurer.MeasureText(s.Description(), cfg.TextSize))
		}
	}
	return slices
}

// MaxLabelWidth is the widest label seen by the last Plan.
func (p *Planner) MaxLabelWidth() float64 { return p.maxLabelWidth }

// ResolveRadius returns the pie radius for a drawable region of the given
// size, reusing the cached value when there is one.
func (p *Planner) ResolveRadius(width, height float64, cfg *config.Config) float64 {
	if p.radius > 0 {
		return p.radius
	}

	minSize := math.Min(width, height)
	floor := minSize / 4
	var r float64
	switch {
	case cfg.AutoSize && cfg.StrokeMode:
		r = math.Max(floor, minSize/2-p.maxLabelWidth-cfg.StrokeWidth/2)
	case cfg.AutoSize:
		r = minSize/2 - p.maxLabelWidth
		if r <= 0 {
			r = floor
		}
	case cfg.PieRadius > 0:
		r = cfg.PieRadius
	case cfg.RadiusRatio > 0:
		r = cfg.RadiusRatio * minSize / 2
	default:
		r = floor
	}

	p.radius = r
	p.bounds = SquareAround(r)
	return r
}

// Radius returns the cached radius, 0 when unresolved.
func (p *Planner) Radius() float64 { return p.radius }

// Bounds returns the square [-r, -r, r, r] around the drawing origin.
func (p *Planner) Bounds() Rect { return p.bounds }

// Invalidate drops the cached radius so the next resolve recomputes it.
func (p *Planner) Invalidate() {
	p.radius = 0
	p.bounds = Rect{}
}
