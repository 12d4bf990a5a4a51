// Package anim provides a small time-tick abstraction for driving
// animations from whatever scheduling primitive a host has.
//
// An [Animation] maps elapsed time onto an eased value between From and To
// and reports it through a [TickFunc]. Animations live on a [Timeline],
// which evaluates every running animation when [Timeline.Pump] is called.
// Nothing in this package spawns goroutines: the host decides when to pump
// (a frame callback, a bubbletea tick message, an HTTP request, or a test
// stepping a [ManualClock]).
//
//	clock := anim.NewManualClock(time.Time{})
//	tl := anim.NewTimeline(clock)
//	tl.Start(anim.Spec{
//	    Duration: time.Second,
//	    From:     0, To: 1,
//	    Easing:   anim.Linear,
//	    OnTick:   func(v float64) bool { fmt.Println(v); return true },
//	})
//	clock.Advance(500 * time.Millisecond)
//	tl.Pump() // prints 0.5
//
// A Timeline is not safe for concurrent use; it belongs to the goroutine
// that owns the chart it animates.
package anim
