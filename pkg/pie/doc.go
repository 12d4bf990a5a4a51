// Package pie renders a pie or donut chart onto an abstract drawing
// [Surface], reveals it with a sweeping arc and floats (elevates) a slice
// selected by a pointer.
//
// # Components
//
//   - [Planner]: turns raw values into an ordered list of [Slice] values and
//     resolves the pie radius for a surface size.
//   - [HitTester]: maps a pointer coordinate to the slice whose angular and
//     radial band contains it.
//   - [SweepDirector]: maps sweep progress t ∈ [0,1] to the cursor angle and
//     the slice currently being drawn.
//   - [FloatController]: owns the touch-selection lifecycle (floating and
//     previously floating slice, up/down elevation progress).
//   - [Chart]: composes the above into frames, picking one of three render
//     paths (static, sweeping, touch-highlighted).
//
// # Angles
//
// Angles are degrees in screen space: 0° points to 3 o'clock and angles
// grow clockwise because y grows downwards. Slice spans are half-open,
// [FromAngle, ToAngle), so a boundary angle belongs to the later slice.
// The split gap between neighbours is carved out when the slices are
// planned; gaps belong to no slice.
//
// # Lifecycle
//
//	c := pie.New(pie.WithConfig(config.Default()), pie.WithTimeline(tl))
//	c.SetData(entries)
//	if err := c.Prepare(); err != nil { ... }
//	c.SetSize(800, 600, pie.Padding{})
//	c.Draw(surface)          // first draw starts the sweep
//	tl.Pump()                // host clock ticks advance the sweep
//	c.PointerUp(x, y)        // floats the slice under the pointer
//
// A Chart is single-threaded: geometry, hit-testing and state transitions
// run on the goroutine that draws it.
package pie
