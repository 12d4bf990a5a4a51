package pie

// sweepEpsilon absorbs floating-point drift when comparing the swept span
// against a slice end.
const sweepEpsilon = 1e-9

// SweepDirector maps sweep progress to the cursor angle and the slice being
// drawn, moving completed slices into the chart's cache.
type SweepDirector struct {
	slices []Slice
	start  float64
	// ends[i] is the swept span, measured from start, at which slice i is
	// complete.
	ends   []float64
	offs   []float64
	cache  *sliceCache
	loc    locator
	active int
	cursor float64
	swept  float64
	done   bool
}

// newSweepDirector resets cache and prepares a sweep over slices beginning
// at start degrees.
func newSweepDirector(slices []Slice, start float64, cache *sliceCache) *SweepDirector {
	d := &SweepDirector{
		slices: slices,
		start:  start,
		ends:   make([]float64, len(slices)),
		offs:   make([]float64, len(slices)),
		cache:  cache,
		loc:    newLocator(),
		active: -1,
		cursor: start,
	}
	for i, s := range slices {
		d.offs[i] = normalizeAngle(s.FromAngle - start)
		d.ends[i] = d.offs[i] + s.SweepAngle
	}
	cache.reset(len(slices))
	return d
}

// OnTick advances the sweep to progress t ∈ [0,1] and returns the active
// slice index (-1 in a gap or after completion) and the cursor angle.
func (d *SweepDirector) OnTick(t float64) (active int, cursor float64) {
	t = min(max(t, 0), 1)
	d.swept = 360 * t
	d.cursor = d.start + d.swept

	for i := range d.slices {
		if d.cache.contains(i) {
			continue
		}
		if d.swept+sweepEpsilon < d.ends[i] {
			break
		}
		d.cache.add(i)
	}

	d.active = -1
	if t >= 1 {
		for i := range d.slices {
			d.cache.add(i)
		}
		d.done = true
	} else if idx := d.loc.find(d.slices, d.cursor); idx >= 0 && !d.cache.contains(idx) {
		d.active = idx
	}
	return d.active, d.cursor
}

// Active returns the slice being drawn, or -1.
func (d *SweepDirector) Active() int { return d.active }

// Cursor returns the current cursor angle (start + 360t).
func (d *SweepDirector) Cursor() float64 { return d.cursor }

// Progress returns the swept fraction of the circle.
func (d *SweepDirector) Progress() float64 { return d.swept / 360 }

// Done reports whether the sweep reached t == 1.
func (d *SweepDirector) Done() bool { return d.done }

// partial returns the drawn span of the active slice, clamped to the slice.
func (d *SweepDirector) partial() float64 {
	if d.active < 0 {
		return 0
	}
	s := d.slices[d.active]
	return min(max(d.swept-d.offs[d.active], 0), s.SweepAngle)
}

// pastMiddle reports whether the cursor has passed the active slice's
// middle angle.
func (d *SweepDirector) pastMiddle() bool {
	if d.active < 0 {
		return false
	}
	return d.partial() >= d.slices[d.active].SweepAngle/2
}
