package anim

import (
	"slices"
	"time"
)

// TickFunc receives the current animated value. Returning false stops the
// animation early; OnEnd is not called in that case.
type TickFunc func(v float64) bool

// Spec describes a single one-shot animation.
type Spec struct {
	Duration time.Duration
	From, To float64
	Easing   Easing // nil means Linear

	OnStart func()   // called synchronously by Start
	OnTick  TickFunc // called on every pump while running
	OnEnd   func()   // called once after the final tick at progress 1
}

// Animation is a running or finished Spec on a Timeline.
type Animation struct {
	tl      *Timeline
	spec    Spec
	start   time.Time
	value   float64
	running bool
}

// Running reports whether the animation is still scheduled.
func (a *Animation) Running() bool { return a != nil && a.running }

// Value returns the last value delivered to OnTick (From before the first
// pump).
func (a *Animation) Value() float64 { return a.value }

// Cancel removes the animation from its timeline without calling OnEnd.
// Cancelling a finished or nil animation is a no-op.
func (a *Animation) Cancel() {
	if a == nil || !a.running {
		return
	}
	a.running = false
	a.tl.remove(a)
}

// Timeline schedules animations against a Clock.
type Timeline struct {
	clock  Clock
	active []*Animation
}

// NewTimeline creates a timeline reading the given clock. A nil clock means
// SystemClock.
func NewTimeline(c Clock) *Timeline {
	if c == nil {
		c = SystemClock{}
	}
	return &Timeline{clock: c}
}

// Clock returns the timeline's time source.
func (tl *Timeline) Clock() Clock { return tl.clock }

// Start schedules spec beginning at the clock's current time. OnStart runs
// before Start returns; the first tick is delivered by the next Pump.
func (tl *Timeline) Start(spec Spec) *Animation {
	if spec.Easing == nil {
		spec.Easing = Linear
	}
	a := &Animation{
		tl:      tl,
		spec:    spec,
		start:   tl.clock.Now(),
		value:   spec.From,
		running: true,
	}
	tl.active = append(tl.active, a)
	if spec.OnStart != nil {
		spec.OnStart()
	}
	return a
}

// Pump evaluates every running animation at the clock's current time and
// returns how many are still running afterwards. Callbacks may start or
// cancel animations; animations started during a pump are first evaluated
// by the next pump.
func (tl *Timeline) Pump() int {
	now := tl.clock.Now()
	for _, a := range slices.Clone(tl.active) {
		if !a.running {
			continue
		}
		p := 1.0
		if a.spec.Duration > 0 {
			p = clamp01(float64(now.Sub(a.start)) / float64(a.spec.Duration))
		}
		a.value = a.spec.From + (a.spec.To-a.spec.From)*a.spec.Easing(p)
		if a.spec.OnTick != nil && !a.spec.OnTick(a.value) {
			a.Cancel()
			continue
		}
		if p >= 1 && a.running {
			a.running = false
			tl.remove(a)
			if a.spec.OnEnd != nil {
				a.spec.OnEnd()
			}
		}
	}
	return len(tl.active)
}

// Active reports whether any animation is scheduled.
func (tl *Timeline) Active() bool { return len(tl.active) > 0 }

// StopAll cancels every scheduled animation without calling OnEnd.
func (tl *Timeline) StopAll() {
	for _, a := range slices.Clone(tl.active) {
		a.running = false
	}
	tl.active = tl.active[:0]
}

func (tl *Timeline) remove(a *Animation) {
	tl.active = slices.DeleteFunc(tl.active, func(x *Animation) bool { return x == a })
}
