package pipeline

import (
	"context"
	"time"

	"github.com/matzehuels/piesweep/pkg/anim"
	"github.com/matzehuels/piesweep/pkg/config"
	"github.com/matzehuels/piesweep/pkg/errors"
	"github.com/matzehuels/piesweep/pkg/pie"
	"github.com/matzehuels/piesweep/pkg/render/palette"
	"github.com/matzehuels/piesweep/pkg/render/sink"
)

// epoch is the manual clock origin; only differences matter.
var epoch = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

// Frame is a prepared chart driven by a manual clock. It implements
// [sink.Frame].
type Frame struct {
	Chart *pie.Chart

	cfg      config.Config
	clock    *anim.ManualClock
	palette  palette.Palette
	measurer *sink.Measurer
}

// NewFrame prepares a chart for entries at the given size.
func NewFrame(entries []pie.Entry, cfg config.Config, width, height float64, pad pie.Padding, opts Options) (*Frame, error) {
	p, err := palette.New(cfg.Palette...)
	if err != nil {
		return nil, err
	}
	m, err := sink.DefaultMeasurer()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "load label font")
	}

	clock := anim.NewManualClock(epoch)
	chartOpts := []pie.Option{
		pie.WithConfig(cfg),
		pie.WithClock(anim.NewTimeline(clock)),
		pie.WithMeasurer(m),
	}
	if opts.Logger != nil {
		chartOpts = append(chartOpts, pie.WithLogger(opts.Logger))
	}
	chart := pie.New(chartOpts...)
	chart.SetData(entries)
	chart.SetSize(width, height, pad)
	if err := chart.Prepare(); err != nil {
		return nil, err
	}
	return &Frame{Chart: chart, cfg: cfg, clock: clock, palette: p, measurer: m}, nil
}

// Draw draws the current state onto surf.
func (f *Frame) Draw(surf pie.Surface) error { return f.Chart.Draw(surf) }

// Play runs the frame script: the sweep is advanced to at, then each tap is
// pressed and released with every float transition but the last one run to
// completion, and the last one run to floatAt.
func (f *Frame) Play(at float64, taps []Point, floatAt float64) error {
	// The first frame starts the sweep.
	if err := f.Draw(sink.NewRecorder(f.palette)); err != nil {
		return err
	}
	f.Advance(scale(f.cfg.Duration.Std(), at))

	span := max(f.cfg.FloatUpDuration.Std(), f.cfg.FloatDownDuration.Std())
	for i, p := range taps {
		f.Chart.PointerDown(p.X, p.Y)
		f.Chart.PointerUp(p.X, p.Y)
		if i < len(taps)-1 {
			f.Advance(span)
		}
	}
	if len(taps) > 0 {
		f.Advance(scale(span, floatAt))
	}
	return nil
}

// Advance moves the clock by d and delivers the resulting ticks.
func (f *Frame) Advance(d time.Duration) {
	f.clock.Advance(d)
	f.Chart.Timeline().Pump()
}

// State describes the captured chart state.
func (f *Frame) State() sink.FrameState {
	up, down := f.Chart.FloatProgress()
	st := sink.FrameState{
		Mode:          f.Chart.Mode().String(),
		SweepProgress: f.Chart.SweepProgress(),
		FloatUp:       up,
		FloatDown:     down,
	}
	if s, ok := f.Chart.Floating(); ok {
		st.Floating = s.ID
	}
	return st
}

// Render draws the frame in format.
func (f *Frame) Render(ctx context.Context, format string, width, height, pngScale float64) ([]byte, error) {
	svgOpts := []sink.SVGOption{sink.WithPalette(f.palette), sink.WithBackground(f.cfg.Background)}
	switch format {
	case FormatSVG:
		return sink.RenderSVG(f, width, height, svgOpts...)
	case FormatPDF:
		return sink.RenderPDF(ctx, f, width, height, svgOpts...)
	case FormatPNG:
		return sink.RenderPNG(f, width, height,
			sink.WithPNGPalette(f.palette),
			sink.WithPNGBackground(f.cfg.Background),
			sink.WithScale(pngScale),
			sink.WithPNGMeasurer(f.measurer))
	case FormatJSON:
		return sink.RenderJSON(f,
			sink.WithJSONSize(width, height),
			sink.WithJSONPalette(f.palette),
			sink.WithJSONSlices(f.Chart.Slices()),
			sink.WithJSONState(f.State()))
	default:
		return nil, ValidateFormat(format)
	}
}

func scale(d time.Duration, t float64) time.Duration {
	return time.Duration(float64(d) * t)
}
