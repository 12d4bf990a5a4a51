package pie

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/matzehuels/piesweep/pkg/config"
)

func TestPlanBasic(t *testing.T) {
	cfg := testConfig()
	got := NewPlanner(nil).Plan(entries(1, 1, 2), &cfg)

	type span struct{ From, Sweep, To, Middle float64 }
	var spans []span
	for _, s := range got {
		spans = append(spans, span{s.FromAngle, s.SweepAngle, s.ToAngle, s.MiddleAngle})
	}
	want := []span{
		{0, 90, 90, 45},
		{90, 90, 180, 135},
		{180, 180, 360, 270},
	}
	if diff := cmp.Diff(want, spans, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Errorf("Plan() spans mismatch (-want +got):\n%s", diff)
	}
	if got[2].Fraction != 0.5 {
		t.Errorf("Fraction = %v, want 0.5", got[2].Fraction)
	}
}

func TestPlanInvariants(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		start  float64
		split  float64
	}{
		{"no split", []float64{3, 1, 4, 1, 5}, 0, 0},
		{"default start", []float64{3, 1, 4, 1, 5}, -90, 0},
		{"split", []float64{10, 20, 30}, -90, 4},
		{"wide split", []float64{1, 2}, 45, 90},
		{"single", []float64{7}, 30, 10},
		{"negative values", []float64{-2, 2, -4}, 0, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			cfg.StartAngle = tt.start
			cfg.SplitAngle = tt.split
			got := NewPlanner(nil).Plan(entries(tt.values...), &cfg)
			if len(got) != len(tt.values) {
				t.Fatalf("len = %d, want %d", len(got), len(tt.values))
			}

			var sum float64
			for _, s := range got {
				sum += s.SweepAngle
				if s.FromAngle < 0 || s.FromAngle >= 360 {
					t.Errorf("slice %d FromAngle = %v, want [0,360)", s.Index, s.FromAngle)
				}
				if s.SweepAngle < 0 {
					t.Errorf("slice %d SweepAngle = %v, want >= 0", s.Index, s.SweepAngle)
				}
			}
			wantSum := 360 - float64(len(got)-1)*tt.split
			if math.Abs(sum-wantSum) > 1e-3 {
				t.Errorf("sum of sweeps = %v, want %v", sum, wantSum)
			}

			for i := 1; i < len(got); i++ {
				want := got[i-1].ToAngle + tt.split
				if d := normalizeAngle(got[i].FromAngle - want); d > 1e-9 && 360-d > 1e-9 {
					t.Errorf("slice %d FromAngle = %v, want %v (mod 360)", i, got[i].FromAngle, want)
				}
			}
			if got[0].FromAngle != normalizeAngle(tt.start) {
				t.Errorf("first FromAngle = %v, want %v", got[0].FromAngle, normalizeAngle(tt.start))
			}
		})
	}
}

func TestPlanEmpty(t *testing.T) {
	cfg := testConfig()
	p := NewPlanner(nil)
	if got := p.Plan(entries(0, 0), &cfg); got != nil {
		t.Errorf("Plan(0, 0) = %v, want nil", got)
	}
	if got := p.Plan(nil, &cfg); got != nil {
		t.Errorf("Plan(nil) = %v, want nil", got)
	}
}

func TestPlanLabelWidth(t *testing.T) {
	cfg := testConfig()
	es := entries(1, 3)
	es[1].Label = "a much longer label"

	p := NewPlanner(fixedMeasurer{})
	p.Plan(es, &cfg)
	if p.MaxLabelWidth() != 0 {
		t.Errorf("MaxLabelWidth() without text = %v, want 0", p.MaxLabelWidth())
	}

	cfg.DrawText = true
	p.Plan(es, &cfg)
	want := fixedMeasurer{}.MeasureText("a much longer label", cfg.TextSize)
	if p.MaxLabelWidth() != want {
		t.Errorf("MaxLabelWidth() = %v, want %v", p.MaxLabelWidth(), want)
	}
}

func TestDescription(t *testing.T) {
	cfg := testConfig()
	es := entries(1, 3)
	es[0].AutoDescription = true
	got := NewPlanner(nil).Plan(es, &cfg)
	if d := got[0].Description(); d != "25.0%" {
		t.Errorf("Description() = %q, want %q", d, "25.0%")
	}
	if d := got[1].Description(); d != "slice 1" {
		t.Errorf("Description() = %q, want %q", d, "slice 1")
	}
}

func TestResolveRadius(t *testing.T) {
	tests := []struct {
		name       string
		mutate     func(*config.Config)
		labelWidth float64
		w, h       float64
		want       float64
	}{
		{"fixed radius", func(c *config.Config) {}, 0, 400, 300, 100},
		{"ratio", func(c *config.Config) { c.PieRadius = 0; c.RadiusRatio = 0.8 }, 0, 400, 300, 120},
		{"floor", func(c *config.Config) { c.PieRadius = 0 }, 0, 400, 300, 75},
		{"auto filled", func(c *config.Config) { c.AutoSize = true }, 20, 400, 300, 130},
		{"auto filled falls back to floor", func(c *config.Config) { c.AutoSize = true }, 200, 400, 300, 75},
		{"auto stroke", func(c *config.Config) { c.AutoSize = true; c.StrokeMode = true; c.StrokeWidth = 40 }, 20, 400, 300, 110},
		{"auto stroke floor", func(c *config.Config) { c.AutoSize = true; c.StrokeMode = true; c.StrokeWidth = 200 }, 20, 400, 300, 75},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			tt.mutate(&cfg)
			p := NewPlanner(nil)
			p.maxLabelWidth = tt.labelWidth
			if got := p.ResolveRadius(tt.w, tt.h, &cfg); got != tt.want {
				t.Errorf("ResolveRadius() = %v, want %v", got, tt.want)
			}
			if got := p.Bounds(); got != SquareAround(tt.want) {
				t.Errorf("Bounds() = %v, want %v", got, SquareAround(tt.want))
			}
		})
	}
}

func TestResolveRadiusCaches(t *testing.T) {
	cfg := testConfig()
	cfg.PieRadius = 0
	p := NewPlanner(nil)

	if got := p.ResolveRadius(400, 400, &cfg); got != 100 {
		t.Fatalf("ResolveRadius() = %v, want 100", got)
	}
	if got := p.ResolveRadius(800, 800, &cfg); got != 100 {
		t.Errorf("cached ResolveRadius() = %v, want 100", got)
	}
	p.Invalidate()
	if got := p.ResolveRadius(800, 800, &cfg); got != 200 {
		t.Errorf("ResolveRadius() after Invalidate = %v, want 200", got)
	}
}

func TestChartSetSizeInvalidatesRadius(t *testing.T) {
	cfg := testConfig()
	cfg.PieRadius = 0
	c := newTestChart(t, cfg, []float64{1, 1})
	if got := c.Radius(); got != 100 {
		t.Fatalf("Radius() = %v, want 100", got)
	}
	c.SetSize(200, 200, Padding{Left: 10, Right: 10, Top: 10, Bottom: 10})
	if got := c.Radius(); got != 45 {
		t.Errorf("Radius() after SetSize = %v, want 45", got)
	}
	if x, y := c.Center(); x != 100 || y != 100 {
		t.Errorf("Center() = (%v, %v), want (100, 100)", x, y)
	}
}
