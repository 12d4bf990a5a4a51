package pie

import (
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func newTestSweep(values ...float64) (*SweepDirector, *sliceCache) {
	cfg := testConfig()
	planned := NewPlanner(nil).Plan(entries(values...), &cfg)
	cache := &sliceCache{}
	return newSweepDirector(planned, cfg.StartAngle, cache), cache
}

func TestSweepTicks(t *testing.T) {
	d, cache := newTestSweep(1, 1, 2)

	tests := []struct {
		t          float64
		wantActive int
		wantCursor float64
		wantCached []int
	}{
		{0, 0, 0, nil},
		{0.1, 0, 36, nil},
		{0.25, 1, 90, []int{0}},
		{0.6, 2, 216, []int{0, 1}},
		{1, -1, 360, []int{0, 1, 2}},
	}
	for _, tt := range tests {
		active, cursor := d.OnTick(tt.t)
		if active != tt.wantActive {
			t.Errorf("OnTick(%v) active = %d, want %d", tt.t, active, tt.wantActive)
		}
		if !approx(cursor, tt.wantCursor) {
			t.Errorf("OnTick(%v) cursor = %v, want %v", tt.t, cursor, tt.wantCursor)
		}
		if diff := cmp.Diff(tt.wantCached, cache.order, cmp.Comparer(func(a, b []int) bool {
			return slices.Equal(a, b)
		})); diff != "" {
			t.Errorf("OnTick(%v) cached mismatch (-want +got):\n%s", tt.t, diff)
		}
	}
	if !d.Done() {
		t.Error("Done() = false after t = 1")
	}
}

func TestSweepMonotonic(t *testing.T) {
	d, cache := newTestSweep(5, 1, 1, 3, 0.5, 2)
	n := len(d.slices)

	lastActive, lastCached := -1, 0
	for step := 0; step <= 100; step++ {
		active, _ := d.OnTick(float64(step) / 100)
		if active >= 0 && active < lastActive {
			t.Fatalf("step %d: active went back from %d to %d", step, lastActive, active)
		}
		if active >= 0 {
			lastActive = active
		}
		if cache.len() < lastCached {
			t.Fatalf("step %d: cache shrank from %d to %d", step, lastCached, cache.len())
		}
		lastCached = cache.len()
		for i, idx := range cache.order {
			if idx != i {
				t.Fatalf("step %d: cache order = %v, want prefix of 0..%d", step, cache.order, n-1)
			}
		}
	}
	if cache.len() != n {
		t.Errorf("cached %d slices, want %d", cache.len(), n)
	}
}

func TestSweepSkipsNoSliceOnCoarseTicks(t *testing.T) {
	d, cache := newTestSweep(1, 1, 1, 1, 1, 1, 1, 1)
	d.OnTick(0.9)
	if cache.len() != 7 {
		t.Errorf("after one coarse tick cached = %v, want 7 slices", cache.order)
	}
	if d.Active() != 7 {
		t.Errorf("Active() = %d, want 7", d.Active())
	}
}

func TestSweepRepeatedTickIsIdempotent(t *testing.T) {
	d, cache := newTestSweep(1, 1, 2)
	d.OnTick(0.6)
	before := slices.Clone(cache.order)
	d.OnTick(0.6)
	if !slices.Equal(before, cache.order) {
		t.Errorf("cache = %v after repeat, want %v", cache.order, before)
	}
}

func TestSweepPartialArc(t *testing.T) {
	d, _ := newTestSweep(1, 1, 2)
	d.OnTick(0.3) // cursor 108, 18 degrees into slice 1
	if got := d.partial(); !approx(got, 18) {
		t.Errorf("partial() = %v, want 18", got)
	}
	if d.pastMiddle() {
		t.Error("pastMiddle() = true at 18 of 90 degrees")
	}
	d.OnTick(0.4) // 54 degrees into slice 1
	if !d.pastMiddle() {
		t.Error("pastMiddle() = false at 54 of 90 degrees")
	}
}

func TestCacheFillIsIdempotent(t *testing.T) {
	var c sliceCache
	c.fill(3)
	c.fill(3)
	if !slices.Equal(c.order, []int{0, 1, 2}) {
		t.Errorf("order = %v, want [0 1 2]", c.order)
	}
	if c.add(1) {
		t.Error("add() of cached index reported new")
	}
}
