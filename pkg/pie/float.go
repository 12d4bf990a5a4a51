package pie

import (
	"github.com/matzehuels/piesweep/pkg/anim"
	"github.com/matzehuels/piesweep/pkg/config"
)

// FloatController owns the touch-selection state: which slice floats, which
// slice is sinking back, and how far each transition has progressed.
//
// Progress values are completion fractions in [0,1]. The incoming slice is
// elevated by upProgress; the outgoing slice by 1 - downProgress.
type FloatController struct {
	floating int
	previous int

	upProgress   float64
	downProgress float64
	up, down     *anim.Animation

	downX, downY float64
	hasDown      bool
}

// NewFloatController returns a controller with nothing floating.
func NewFloatController() *FloatController {
	f := &FloatController{}
	f.reset()
	return f
}

func (f *FloatController) reset() {
	f.cancel()
	f.floating, f.previous = -1, -1
	f.upProgress, f.downProgress = 1, 1
	f.hasDown = false
}

func (f *FloatController) cancel() {
	f.up.Cancel()
	f.down.Cancel()
	f.up, f.down = nil, nil
}

// Floating returns the index of the floating slice, or -1.
func (f *FloatController) Floating() int { return f.floating }

// Previous returns the index of the slice that floated before, or -1.
func (f *FloatController) Previous() int { return f.previous }

// Progress returns the up and down completion fractions.
func (f *FloatController) Progress() (up, down float64) { return f.upProgress, f.downProgress }

// Elevation returns the elevation of slice i in [0,1].
func (f *FloatController) Elevation(i int) float64 {
	switch i {
	case -1:
		return 0
	case f.floating:
		return f.upProgress
	case f.previous:
		return 1 - f.downProgress
	}
	return 0
}

// Animating reports whether an up or down transition is running.
func (f *FloatController) Animating() bool {
	return f.up.Running() || f.down.Running()
}

// PointerDown records the press position. It always reports handled.
func (f *FloatController) PointerDown(x, y float64) bool {
	f.downX, f.downY, f.hasDown = x, y, true
	return true
}

// DownPoint returns the recorded press position.
func (f *FloatController) DownPoint() (x, y float64, ok bool) {
	return f.downX, f.downY, f.hasDown
}

// PointerCancel clears the recorded press position.
func (f *FloatController) PointerCancel() {
	f.hasDown = false
}

// TouchEnv is what a pointer release needs from the chart.
type TouchEnv struct {
	Config   *config.Config
	Sweeping bool
	HitTest  func(x, y float64) int
	Timeline *anim.Timeline // nil disables float animation
	Redraw   func()
}

// PointerUp resolves a release at (x, y). It returns the hit index and
// whether that slice now floats; handled is false when the release was
// ignored (touch disabled, sweep running, or no slice under the pointer).
func (f *FloatController) PointerUp(x, y float64, env TouchEnv) (hit int, floating, handled bool) {
	f.hasDown = false
	if env.Config == nil || !env.Config.CanTouch || env.Sweeping {
		return -1, false, false
	}
	hit = env.HitTest(x, y)
	if hit < 0 {
		return -1, false, false
	}

	f.previous = f.floating
	if hit == f.floating {
		f.floating = -1
	} else {
		f.floating = hit
	}
	f.animate(env)
	return hit, f.floating == hit, true
}

func (f *FloatController) animate(env TouchEnv) {
	f.cancel()
	if !env.Config.AnimateTouch || env.Timeline == nil {
		f.upProgress, f.downProgress = 1, 1
		return
	}

	redraw := env.Redraw
	if redraw == nil {
		redraw = func() {}
	}
	f.upProgress, f.downProgress = 0, 0
	f.up = env.Timeline.Start(anim.Spec{
		Duration: env.Config.FloatUpDuration.Std(),
		From:     0,
		To:       1,
		Easing:   anim.Decelerate,
		OnTick: func(v float64) bool {
			f.upProgress = v
			redraw()
			return true
		},
	})
	// Elevation runs 1 -> 0; downProgress tracks completion.
	f.down = env.Timeline.Start(anim.Spec{
		Duration: env.Config.FloatDownDuration.Std(),
		From:     1,
		To:       0,
		Easing:   anim.Decelerate,
		OnTick: func(v float64) bool {
			f.downProgress = 1 - v
			redraw()
			return true
		},
	})
}
