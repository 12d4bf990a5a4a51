package pie

import (
	"io"
	"math"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/piesweep/pkg/anim"
	"github.com/matzehuels/piesweep/pkg/config"
	"github.com/matzehuels/piesweep/pkg/errors"
	"github.com/matzehuels/piesweep/pkg/observability"
)

// DrawMode selects the render path for the next frame.
type DrawMode int

const (
	ModeStatic DrawMode = iota
	ModeTouch
)

func (m DrawMode) String() string {
	if m == ModeTouch {
		return "touch"
	}
	return "static"
}

// SelectListener is notified synchronously when a release floats or sinks a
// slice.
type SelectListener func(s Slice, floating bool)

// AlphaFunc returns the opacity of a slice in [0,1].
type AlphaFunc func(s Slice) float64

// Option configures a Chart.
type Option func(*Chart)

// WithConfig sets the initial configuration.
func WithConfig(cfg config.Config) Option {
	return func(c *Chart) { c.cfg = &cfg }
}

// WithClock sets the timeline that drives the sweep and float animations.
// Charts sharing a timeline must be driven from the same goroutine.
func WithClock(tl *anim.Timeline) Option {
	return func(c *Chart) {
		if tl != nil {
			c.timeline = tl
		}
	}
}

// WithMeasurer sets the label measurer used by auto-size and label
// placement.
func WithMeasurer(m TextMeasurer) Option {
	return func(c *Chart) { c.measurer = m }
}

// WithSelectListener registers the selection listener.
func WithSelectListener(fn SelectListener) Option {
	return func(c *Chart) { c.listener = fn }
}

// WithAlphaFunc sets the per-slice opacity hook.
func WithAlphaFunc(fn AlphaFunc) Option {
	return func(c *Chart) { c.alpha = fn }
}

// WithLogger sets the logger. Charts log at debug level only.
func WithLogger(l *log.Logger) Option {
	return func(c *Chart) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithInvalidate sets the callback invoked whenever an animation needs a
// new frame.
func WithInvalidate(fn func()) Option {
	return func(c *Chart) { c.invalidate = fn }
}

// Chart is a pie or donut chart: planned slices plus render, sweep and touch
// state. It is not safe for concurrent use.
type Chart struct {
	cfg      *config.Config
	entries  []Entry
	slices   []Slice
	prepared bool

	planner *Planner
	hit     *HitTester
	float   *FloatController
	sweep   *SweepDirector
	cache   sliceCache

	sweepAnim *anim.Animation
	mode      DrawMode
	animating bool
	started   bool

	width, height float64
	pad           Padding

	timeline   *anim.Timeline
	measurer   TextMeasurer
	listener   SelectListener
	alpha      AlphaFunc
	invalidate func()
	logger     *log.Logger
}

// New creates an unprepared chart.
func New(opts ...Option) *Chart {
	c := &Chart{
		float:  NewFloatController(),
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.timeline == nil {
		c.timeline = anim.NewTimeline(nil)
	}
	c.planner = NewPlanner(c.measurer)
	c.hit = NewHitTester(nil)
	return c
}

// Configure replaces the configuration. The chart must be prepared again.
func (c *Chart) Configure(cfg config.Config) {
	c.cfg = &cfg
	c.prepared = false
	c.planner.Invalidate()
}

// Config returns the current configuration.
func (c *Chart) Config() (config.Config, bool) {
	if c.cfg == nil {
		return config.Config{}, false
	}
	return *c.cfg, true
}

// SetData replaces the entries. The chart must be prepared again.
func (c *Chart) SetData(entries []Entry) {
	c.entries = slices.Clone(entries)
	c.prepared = false
}

// Prepare plans the slices and resets every animation and selection.
func (c *Chart) Prepare() error {
	if c.cfg == nil {
		return errors.New(errors.ErrCodeConfigurationMissing, "chart has no configuration")
	}
	if err := c.cfg.Validate(); err != nil {
		return err
	}
	if err := c.cfg.ValidateSplit(len(c.entries)); err != nil {
		return err
	}

	start := time.Now()
	c.Reset()
	c.slices = c.planner.Plan(c.entries, c.cfg)
	c.hit = NewHitTester(c.slices)
	c.cache.reset(len(c.slices))
	c.prepared = true

	observability.Chart().OnPrepare(len(c.slices), time.Since(start))
	c.logger.Debug("chart prepared", "entries", len(c.entries), "slices", len(c.slices))
	return nil
}

// SetSize sets the surface size and padding. A change drops the cached
// radius.
func (c *Chart) SetSize(width, height float64, pad Padding) {
	if width == c.width && height == c.height && pad == c.pad {
		return
	}
	c.width, c.height, c.pad = width, height, pad
	c.planner.Invalidate()
}

// Center returns the pie centre in surface coordinates.
func (c *Chart) Center() (x, y float64) {
	w, h := c.content()
	return c.pad.Left + w/2, c.pad.Top + h/2
}

func (c *Chart) content() (w, h float64) {
	return c.width - c.pad.Left - c.pad.Right, c.height - c.pad.Top - c.pad.Bottom
}

// Radius resolves and returns the pie radius; 0 when unprepared.
func (c *Chart) Radius() float64 {
	if c.cfg == nil {
		return 0
	}
	w, h := c.content()
	return c.planner.ResolveRadius(w, h, c.cfg)
}

// Draw renders one frame onto surf.
func (c *Chart) Draw(surf Surface) error {
	if c.cfg == nil || !c.prepared {
		return errors.New(errors.ErrCodeConfigurationMissing, "chart is not prepared")
	}

	cx, cy := c.Center()
	surf.Translate(cx, cy)
	c.Radius()
	if len(c.slices) == 0 {
		return nil
	}

	switch {
	case c.mode == ModeTouch:
		c.drawTouch(surf)
	case c.sweeping():
		c.drawSweeping(surf)
	case c.cfg.AnimatePie && !c.started:
		c.startSweep()
		c.drawSweeping(surf)
	default:
		c.drawStatic(surf)
	}
	return nil
}

func (c *Chart) sweeping() bool {
	return c.animating || (c.sweep != nil && !c.sweep.Done())
}

// startSweep launches the reveal animation once per reset.
func (c *Chart) startSweep() {
	if c.started || c.animating {
		return
	}
	c.started = true
	c.sweep = newSweepDirector(c.slices, c.cfg.StartAngle, &c.cache)
	n := len(c.slices)
	c.sweepAnim = c.timeline.Start(anim.Spec{
		Duration: c.cfg.Duration.Std(),
		From:     0,
		To:       1,
		Easing:   anim.Linear,
		OnStart: func() {
			c.animating = true
			observability.Chart().OnSweepStart(n)
			c.logger.Debug("sweep started", "slices", n, "duration", c.cfg.Duration.Std())
		},
		OnTick: func(v float64) bool {
			c.StepSweep(v)
			c.requestRedraw()
			return true
		},
		OnEnd: func() {
			c.animating = false
			observability.Chart().OnSweepComplete(n)
			c.logger.Debug("sweep complete", "slices", n)
		},
	})
}

// StepSweep advances the sweep to progress t directly. It panics when the
// chart has no configuration.
func (c *Chart) StepSweep(t float64) (active int, cursor float64) {
	if c.cfg == nil {
		panic("pie: sweep stepped without configuration")
	}
	if c.sweep == nil {
		c.started = true
		c.sweep = newSweepDirector(c.slices, c.cfg.StartAngle, &c.cache)
	}
	return c.sweep.OnTick(t)
}

// SweepProgress returns the revealed fraction: 0 before a pending sweep
// starts, 1 once it completed or when the sweep is disabled.
func (c *Chart) SweepProgress() float64 {
	if c.sweep != nil {
		return c.sweep.Progress()
	}
	if c.cfg != nil && c.cfg.AnimatePie && !c.started {
		return 0
	}
	return 1
}

// Cursor returns the sweep cursor angle and the slice being drawn, or -1.
func (c *Chart) Cursor() (angle float64, active int) {
	if c.sweep == nil {
		return 0, -1
	}
	return c.sweep.Cursor(), c.sweep.Active()
}

// PointerDown records a press. It always reports handled.
func (c *Chart) PointerDown(x, y float64) bool {
	return c.float.PointerDown(x, y)
}

// PointerCancel drops the recorded press.
func (c *Chart) PointerCancel() {
	c.float.PointerCancel()
}

// PointerUp resolves a release at (x, y): a hit slice floats, or sinks when
// it was already floating. It reports whether the release was handled.
func (c *Chart) PointerUp(x, y float64) bool {
	if !c.prepared {
		return false
	}
	hit, floating, handled := c.float.PointerUp(x, y, TouchEnv{
		Config:   c.cfg,
		Sweeping: c.sweeping(),
		HitTest:  c.hitIndex,
		Timeline: c.timeline,
		Redraw:   c.requestRedraw,
	})
	if !handled {
		return false
	}

	c.mode = ModeTouch
	c.requestRedraw()
	s := c.slices[hit]
	observability.Chart().OnSelect(s.ID, floating)
	c.logger.Debug("slice selected", "id", s.ID, "floating", floating)
	if c.listener != nil {
		c.listener(s, floating)
	}
	return true
}

// HitTest returns the slice under (x, y) in surface coordinates.
func (c *Chart) HitTest(x, y float64) (Slice, bool) {
	i := c.hitIndex(x, y)
	if i < 0 {
		return Slice{}, false
	}
	return c.slices[i], true
}

// PointIn returns a surface point inside s: on the ring in stroke mode,
// halfway out otherwise.
func (c *Chart) PointIn(s Slice) (x, y float64) {
	cx, cy := c.Center()
	r := c.Radius() / 2
	if c.cfg != nil && c.cfg.StrokeMode {
		r = c.Radius()
	}
	rad := s.MiddleAngle * math.Pi / 180
	return cx + r*math.Cos(rad), cy + r*math.Sin(rad)
}

func (c *Chart) hitIndex(x, y float64) int {
	if !c.prepared {
		return -1
	}
	cx, cy := c.Center()
	return c.hit.HitTest(x, y, Ring{
		CenterX:     cx,
		CenterY:     cy,
		Radius:      c.Radius(),
		StrokeWidth: c.cfg.StrokeWidth,
		Stroke:      c.cfg.StrokeMode,
		Tolerance:   c.cfg.ClickTolerance,
	})
}

// Reset stops every animation of this chart and clears render and touch
// state. Planned slices are kept.
func (c *Chart) Reset() {
	c.sweepAnim.Cancel()
	c.sweepAnim = nil
	c.sweep = nil
	c.float.reset()
	c.mode = ModeStatic
	c.animating = false
	c.started = false
	c.cache.reset(len(c.slices))
	c.planner.Invalidate()
}

// Slices returns a copy of the planned slices.
func (c *Chart) Slices() []Slice { return slices.Clone(c.slices) }

// Floating returns the floating slice, if any.
func (c *Chart) Floating() (Slice, bool) {
	i := c.float.Floating()
	if i < 0 || i >= len(c.slices) {
		return Slice{}, false
	}
	return c.slices[i], true
}

// FloatProgress returns the up and down completion fractions.
func (c *Chart) FloatProgress() (up, down float64) { return c.float.Progress() }

// Mode returns the current draw mode.
func (c *Chart) Mode() DrawMode { return c.mode }

// Animating reports whether the sweep or a float transition is running.
func (c *Chart) Animating() bool { return c.animating || c.float.Animating() }

// Sweeping reports whether the sweep is in progress.
func (c *Chart) Sweeping() bool { return c.sweeping() }

// Timeline returns the timeline driving this chart's animations.
func (c *Chart) Timeline() *anim.Timeline { return c.timeline }

func (c *Chart) requestRedraw() {
	if c.invalidate != nil {
		c.invalidate()
	}
}
