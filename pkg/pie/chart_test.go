package pie

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/matzehuels/piesweep/pkg/anim"
	"github.com/matzehuels/piesweep/pkg/config"
	"github.com/matzehuels/piesweep/pkg/errors"
)

type selection struct {
	Index    int
	Floating bool
}

func recordSelections(out *[]selection) Option {
	return WithSelectListener(func(s Slice, floating bool) {
		*out = append(*out, selection{s.Index, floating})
	})
}

func draw(t *testing.T, c *Chart) *recordingSurface {
	t.Helper()
	surf := &recordingSurface{}
	if err := c.Draw(surf); err != nil {
		t.Fatalf("Draw() error = %v", err)
	}
	return surf
}

func TestPrepareWithoutConfiguration(t *testing.T) {
	c := New()
	c.SetData(entries(1, 2))
	err := c.Prepare()
	if !errors.Is(err, errors.ErrCodeConfigurationMissing) {
		t.Errorf("Prepare() error = %v, want ConfigurationMissing", err)
	}
	if err := c.Draw(&recordingSurface{}); !errors.Is(err, errors.ErrCodeConfigurationMissing) {
		t.Errorf("Draw() error = %v, want ConfigurationMissing", err)
	}
}

func TestPrepareRejectsOversizedSplit(t *testing.T) {
	cfg := testConfig()
	cfg.SplitAngle = 120
	c := New(WithConfig(cfg))
	c.SetData(entries(1, 1, 1, 1))
	if err := c.Prepare(); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("Prepare() error = %v, want InvalidConfig", err)
	}
}

func TestStepSweepWithoutConfigurationPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("StepSweep() without configuration should panic")
		}
	}()
	New().StepSweep(0.5)
}

func TestEmptyChartDrawsNothing(t *testing.T) {
	cfg := testConfig()
	cfg.AnimatePie = true
	c := newTestChart(t, cfg, []float64{0, 0})
	if n := len(c.Slices()); n != 0 {
		t.Fatalf("Slices() = %d, want 0", n)
	}
	surf := draw(t, c)
	if len(surf.arcs) != 0 || len(surf.texts) != 0 {
		t.Errorf("draw calls = %d arcs, %d texts, want none", len(surf.arcs), len(surf.texts))
	}
	if c.Animating() {
		t.Error("empty chart should not start a sweep")
	}
	if c.PointerUp(250, 200) {
		t.Error("PointerUp() on empty chart should not be handled")
	}
}

func TestStaticDraw(t *testing.T) {
	c := newTestChart(t, testConfig(), []float64{1, 1, 2})
	surf := draw(t, c)

	if surf.dx != 200 || surf.dy != 200 {
		t.Errorf("Translate = (%v, %v), want (200, 200)", surf.dx, surf.dy)
	}
	bounds := SquareAround(100)
	paint := func(i int) Paint {
		return Paint{Style: StyleHandle(i), Alpha: 1, StrokeWidth: 80, TextSize: 14}
	}
	want := []arcCall{
		{bounds, 0, 90, true, paint(0)},
		{bounds, 90, 90, true, paint(1)},
		{bounds, 180, 180, true, paint(2)},
	}
	if diff := cmp.Diff(want, surf.arcs); diff != "" {
		t.Errorf("arcs mismatch (-want +got):\n%s", diff)
	}

	again := draw(t, c)
	if diff := cmp.Diff(surf.arcs, again.arcs); diff != "" {
		t.Errorf("second frame differs (-first +second):\n%s", diff)
	}
}

func TestStaticDrawStrokeMode(t *testing.T) {
	cfg := testConfig()
	cfg.StrokeMode = true
	c := newTestChart(t, cfg, []float64{1, 3})
	surf := draw(t, c)
	for _, a := range surf.arcs {
		if a.UseCenter {
			t.Error("stroke mode arc should not use centre")
		}
		if !a.Paint.Stroke {
			t.Error("stroke mode paint should stroke")
		}
	}
}

func TestAlphaHookAndLabels(t *testing.T) {
	cfg := testConfig()
	cfg.DrawText = true
	c := newTestChart(t, cfg, []float64{1, 3},
		WithMeasurer(fixedMeasurer{}),
		WithAlphaFunc(func(s Slice) float64 {
			if s.Index == 1 {
				return 0.5
			}
			return 2
		}))
	surf := draw(t, c)

	if got := surf.arcs[0].Paint.Alpha; got != 1 {
		t.Errorf("alpha clamped = %v, want 1", got)
	}
	if got := surf.arcs[1].Paint.Alpha; got != 0.5 {
		t.Errorf("alpha = %v, want 0.5", got)
	}
	var texts []string
	for _, tc := range surf.texts {
		texts = append(texts, tc.Text)
	}
	if diff := cmp.Diff([]string{"slice 0", "slice 1"}, texts); diff != "" {
		t.Errorf("labels mismatch (-want +got):\n%s", diff)
	}
	// Slice 0 spans [0,90): its label sits bottom right of the centre.
	if surf.texts[0].X <= 0 || surf.texts[0].Y <= 0 {
		t.Errorf("label 0 at (%v, %v), want outside the pie in the lower right", surf.texts[0].X, surf.texts[0].Y)
	}
}

func TestSweepAnimation(t *testing.T) {
	clock := anim.NewManualClock(time.Unix(0, 0))
	tl := anim.NewTimeline(clock)
	cfg := testConfig()
	cfg.AnimatePie = true
	cfg.Duration = config.Duration(time.Second)

	redraws := 0
	c := newTestChart(t, cfg, []float64{1, 1, 2}, WithClock(tl), WithInvalidate(func() { redraws++ }))

	if got := c.SweepProgress(); got != 0 {
		t.Errorf("SweepProgress() before first draw = %v, want 0", got)
	}
	first := draw(t, c)
	if len(first.arcs) != 0 {
		t.Errorf("first frame arcs = %d, want 0", len(first.arcs))
	}
	if !c.Animating() || !c.Sweeping() {
		t.Fatal("first draw should start the sweep")
	}

	clock.Advance(300 * time.Millisecond)
	tl.Pump()
	if redraws != 1 {
		t.Errorf("redraws = %d, want 1", redraws)
	}
	mid := draw(t, c)
	want := []arcCall{
		{SquareAround(100), 0, 90, true, Paint{Style: 0, Alpha: 1, StrokeWidth: 80, TextSize: 14}},
		{SquareAround(100), 90, 18, true, Paint{Style: 1, Alpha: 1, StrokeWidth: 80, TextSize: 14}},
	}
	if diff := cmp.Diff(want, mid.arcs, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Errorf("mid-sweep arcs mismatch (-want +got):\n%s", diff)
	}
	if angle, active := c.Cursor(); active != 1 || !approx(angle, 108) {
		t.Errorf("Cursor() = (%v, %d), want (108, 1)", angle, active)
	}

	if c.PointerUp(pointAt(45, 50)) {
		t.Error("PointerUp() during sweep should be ignored")
	}
	if c.Mode() != ModeStatic {
		t.Errorf("Mode() = %v, want static", c.Mode())
	}

	clock.Advance(time.Second)
	tl.Pump()
	if c.Animating() {
		t.Error("Animating() = true after sweep duration")
	}
	if got := c.SweepProgress(); got != 1 {
		t.Errorf("SweepProgress() = %v, want 1", got)
	}
	if n := len(draw(t, c).arcs); n != 3 {
		t.Errorf("final frame arcs = %d, want 3", n)
	}

	// The sweep runs once per reset.
	draw(t, c)
	if c.Animating() {
		t.Error("sweep restarted without reset")
	}
	c.Reset()
	draw(t, c)
	if !c.Animating() {
		t.Error("sweep should restart after Reset()")
	}
}

func TestStepSweepManually(t *testing.T) {
	cfg := testConfig()
	c := newTestChart(t, cfg, []float64{1, 1, 2})
	c.StepSweep(0.6)
	surf := draw(t, c)
	if len(surf.arcs) != 3 {
		t.Fatalf("arcs = %d, want 3", len(surf.arcs))
	}
	if got := surf.arcs[2].Sweep; !approx(got, 36) {
		t.Errorf("partial sweep = %v, want 36", got)
	}
}

func TestTouchSelectAndDeselect(t *testing.T) {
	var got []selection
	c := newTestChart(t, testConfig(), []float64{1, 1, 2}, recordSelections(&got))
	draw(t, c)

	if !c.PointerDown(pointAt(270, 50)) {
		t.Error("PointerDown() should be handled")
	}
	if !c.PointerUp(pointAt(270, 50)) {
		t.Fatal("PointerUp() on slice should be handled")
	}
	if c.Mode() != ModeTouch {
		t.Errorf("Mode() = %v, want touch", c.Mode())
	}
	if s, ok := c.Floating(); !ok || s.Index != 2 {
		t.Errorf("Floating() = (%d, %v), want (2, true)", s.Index, ok)
	}
	if up, down := c.FloatProgress(); up != 1 || down != 1 {
		t.Errorf("FloatProgress() = (%v, %v), want snapped to (1, 1)", up, down)
	}

	// Filled mode: the radius grows by the expand size.
	surf := draw(t, c)
	if len(surf.arcs) != 3 {
		t.Fatalf("touch frame arcs = %d, want 3", len(surf.arcs))
	}
	hl := surf.arcs[2]
	want := arcCall{
		Bounds:    SquareAround(115),
		Start:     172,
		Sweep:     196,
		UseCenter: true,
		Paint:     Paint{Style: 2, Alpha: 1, StrokeWidth: 80, ShadowRadius: 18, TextSize: 14},
	}
	if diff := cmp.Diff(want, hl); diff != "" {
		t.Errorf("highlight mismatch (-want +got):\n%s", diff)
	}

	// Re-tap sinks the slice.
	if !c.PointerUp(pointAt(270, 50)) {
		t.Fatal("re-tap should be handled")
	}
	if _, ok := c.Floating(); ok {
		t.Error("Floating() after re-tap should be empty")
	}
	if c.float.Previous() != 2 {
		t.Errorf("Previous() = %d, want 2", c.float.Previous())
	}
	surf = draw(t, c)
	sunk := surf.arcs[len(surf.arcs)-1]
	if sunk.Start != 180 || sunk.Sweep != 180 || sunk.Paint.ShadowRadius != 0 {
		t.Errorf("sunk slice = %+v, want resting geometry", sunk)
	}

	wantSel := []selection{{2, true}, {2, false}}
	if diff := cmp.Diff(wantSel, got); diff != "" {
		t.Errorf("listener calls mismatch (-want +got):\n%s", diff)
	}
}

func TestTouchSwitchSlices(t *testing.T) {
	var got []selection
	c := newTestChart(t, testConfig(), []float64{1, 1, 2}, recordSelections(&got))

	c.PointerUp(pointAt(45, 50))
	c.PointerUp(pointAt(135, 50))

	if s, ok := c.Floating(); !ok || s.Index != 1 {
		t.Errorf("Floating() = (%d, %v), want (1, true)", s.Index, ok)
	}
	if c.float.Previous() != 0 {
		t.Errorf("Previous() = %d, want 0", c.float.Previous())
	}
	wantSel := []selection{{0, true}, {1, true}}
	if diff := cmp.Diff(wantSel, got); diff != "" {
		t.Errorf("listener calls mismatch (-want +got):\n%s", diff)
	}

	// Outgoing slice drawn before the incoming one.
	surf := draw(t, c)
	n := len(surf.arcs)
	if surf.arcs[n-2].Paint.Style != 0 || surf.arcs[n-1].Paint.Style != 1 {
		t.Errorf("highlight order = %v, %v, want 0 then 1", surf.arcs[n-2].Paint.Style, surf.arcs[n-1].Paint.Style)
	}
}

func TestOutgoingSliceRestsWithoutTouchAnimation(t *testing.T) {
	c := newTestChart(t, testConfig(), []float64{1, 1, 2})
	c.PointerUp(pointAt(45, 50))
	c.PointerUp(pointAt(135, 50))

	if got := c.float.Elevation(0); got != 0 {
		t.Errorf("Elevation(outgoing) = %v, want 0", got)
	}
	if got := c.float.Elevation(1); got != 1 {
		t.Errorf("Elevation(floating) = %v, want 1", got)
	}

	surf := draw(t, c)
	out := surf.arcs[len(surf.arcs)-2]
	want := arcCall{
		Bounds:    SquareAround(100),
		Start:     0,
		Sweep:     90,
		UseCenter: true,
		Paint:     Paint{Style: 0, Alpha: 1, StrokeWidth: 80, TextSize: 14},
	}
	if diff := cmp.Diff(want, out); diff != "" {
		t.Errorf("outgoing arc mismatch (-want +got):\n%s", diff)
	}
}

func TestTouchIgnored(t *testing.T) {
	t.Run("gap", func(t *testing.T) {
		cfg := testConfig()
		cfg.SplitAngle = 10
		var got []selection
		c := newTestChart(t, cfg, []float64{1, 1}, recordSelections(&got))
		if c.PointerUp(pointAt(180, 50)) {
			t.Error("PointerUp() in gap should not be handled")
		}
		if c.Mode() != ModeStatic || len(got) != 0 {
			t.Errorf("state changed: mode %v, %d listener calls", c.Mode(), len(got))
		}
	})
	t.Run("outside", func(t *testing.T) {
		c := newTestChart(t, testConfig(), []float64{1, 1})
		if c.PointerUp(pointAt(0, 150)) {
			t.Error("PointerUp() outside the pie should not be handled")
		}
	})
	t.Run("touch disabled", func(t *testing.T) {
		cfg := testConfig()
		cfg.CanTouch = false
		c := newTestChart(t, cfg, []float64{1, 1})
		if c.PointerUp(pointAt(45, 50)) {
			t.Error("PointerUp() with touch disabled should not be handled")
		}
	})
}

func TestTouchStrokeHighlight(t *testing.T) {
	cfg := testConfig()
	cfg.StrokeMode = true
	c := newTestChart(t, cfg, []float64{1, 1, 2})
	c.PointerUp(pointAt(45, 100))
	surf := draw(t, c)
	hl := surf.arcs[len(surf.arcs)-1]
	if hl.Bounds != SquareAround(100) {
		t.Errorf("stroke highlight bounds = %v, want unchanged", hl.Bounds)
	}
	if hl.Paint.StrokeWidth != 95 {
		t.Errorf("stroke highlight width = %v, want 95", hl.Paint.StrokeWidth)
	}
	if hl.UseCenter {
		t.Error("stroke highlight should not use centre")
	}
}

func TestFloatAnimation(t *testing.T) {
	clock := anim.NewManualClock(time.Unix(0, 0))
	tl := anim.NewTimeline(clock)
	cfg := testConfig()
	cfg.AnimateTouch = true

	c := newTestChart(t, cfg, []float64{1, 1, 2}, WithClock(tl))
	c.PointerUp(pointAt(45, 50))
	if up, down := c.FloatProgress(); up != 0 || down != 0 {
		t.Errorf("FloatProgress() at start = (%v, %v), want (0, 0)", up, down)
	}
	if !c.Animating() {
		t.Error("Animating() = false during float")
	}

	clock.Advance(500 * time.Millisecond)
	tl.Pump()
	up, down := c.FloatProgress()
	if !approx(up, 1) {
		t.Errorf("upProgress = %v, want 1", up)
	}
	if want := anim.Decelerate(0.625); !approx(down, want) {
		t.Errorf("downProgress = %v, want %v", down, want)
	}

	clock.Advance(300 * time.Millisecond)
	tl.Pump()
	if c.Animating() {
		t.Error("Animating() = true after both float transitions")
	}

	// Switching slices restarts both transitions.
	c.PointerUp(pointAt(135, 50))
	if c.float.Elevation(0) != 1 {
		t.Errorf("outgoing elevation = %v, want 1 at start", c.float.Elevation(0))
	}
	if c.float.Elevation(1) != 0 {
		t.Errorf("incoming elevation = %v, want 0 at start", c.float.Elevation(1))
	}
}

func TestPointerCancel(t *testing.T) {
	c := newTestChart(t, testConfig(), []float64{1})
	c.PointerDown(10, 20)
	if x, y, ok := c.float.DownPoint(); !ok || x != 10 || y != 20 {
		t.Errorf("DownPoint() = (%v, %v, %v), want (10, 20, true)", x, y, ok)
	}
	c.PointerCancel()
	if _, _, ok := c.float.DownPoint(); ok {
		t.Error("DownPoint() after cancel should be cleared")
	}
}

func TestResetClearsTouchState(t *testing.T) {
	c := newTestChart(t, testConfig(), []float64{1, 1})
	c.PointerUp(pointAt(45, 50))
	c.Reset()
	if c.Mode() != ModeStatic {
		t.Errorf("Mode() = %v, want static", c.Mode())
	}
	if _, ok := c.Floating(); ok {
		t.Error("Floating() after Reset should be empty")
	}
}

func TestDrawModeString(t *testing.T) {
	if ModeStatic.String() != "static" || ModeTouch.String() != "touch" {
		t.Errorf("String() = %q, %q", ModeStatic, ModeTouch)
	}
}

func TestPointInHitsItsSlice(t *testing.T) {
	for _, stroke := range []bool{false, true} {
		cfg := testConfig()
		cfg.StrokeMode = stroke
		cfg.SplitAngle = 4
		c := newTestChart(t, cfg, []float64{1, 2, 3, 4})
		draw(t, c)
		for _, s := range c.Slices() {
			x, y := c.PointIn(s)
			got, ok := c.HitTest(x, y)
			if !ok || got.Index != s.Index {
				t.Errorf("stroke=%v: HitTest(PointIn(%d)) = (%d, %v), want (%d, true)", stroke, s.Index, got.Index, ok, s.Index)
			}
		}
	}
}
