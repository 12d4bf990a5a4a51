package pie

import (
	"fmt"
	"math"
	"testing"

	"github.com/matzehuels/piesweep/pkg/config"
)

type arcCall struct {
	Bounds    Rect
	Start     float64
	Sweep     float64
	UseCenter bool
	Paint     Paint
}

type textCall struct {
	Text string
	X, Y float64
}

// recordingSurface keeps every draw call of a frame.
type recordingSurface struct {
	dx, dy float64
	arcs   []arcCall
	texts  []textCall
}

func (s *recordingSurface) Translate(dx, dy float64) { s.dx += dx; s.dy += dy }

func (s *recordingSurface) DrawArc(b Rect, start, sweep float64, useCenter bool, p Paint) {
	s.arcs = append(s.arcs, arcCall{b, start, sweep, useCenter, p})
}

func (s *recordingSurface) DrawText(text string, x, y float64, p Paint) {
	s.texts = append(s.texts, textCall{text, x, y})
}

// fixedMeasurer reports half the text size per rune.
type fixedMeasurer struct{}

func (fixedMeasurer) MeasureText(text string, size float64) float64 {
	return float64(len([]rune(text))) * size / 2
}

// testConfig is a static, filled chart with a fixed radius of 100 starting
// at 3 o'clock.
func testConfig() config.Config {
	cfg := config.Default()
	cfg.StartAngle = 0
	cfg.AnimatePie = false
	cfg.AnimateTouch = false
	cfg.AutoSize = false
	cfg.PieRadius = 100
	cfg.ClickTolerance = 0
	return cfg
}

func entries(values ...float64) []Entry {
	out := make([]Entry, len(values))
	for i, v := range values {
		out[i] = Entry{ID: fmt.Sprintf("s%d", i), Label: fmt.Sprintf("slice %d", i), Value: v, Style: StyleHandle(i)}
	}
	return out
}

// newTestChart prepares a 400x400 chart centred at (200, 200).
func newTestChart(t *testing.T, cfg config.Config, values []float64, opts ...Option) *Chart {
	t.Helper()
	c := New(append([]Option{WithConfig(cfg)}, opts...)...)
	c.SetData(entries(values...))
	if err := c.Prepare(); err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	c.SetSize(400, 400, Padding{})
	return c
}

// pointAt returns the surface point at angle degrees and distance r from
// the centre of a test chart.
func pointAt(angle, r float64) (x, y float64) {
	rad := angle * math.Pi / 180
	return 200 + r*math.Cos(rad), 200 + r*math.Sin(rad)
}

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }
