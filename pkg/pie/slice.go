package pie

import (
	"fmt"
	"math"
)

// StyleHandle is an opaque reference to fill/stroke parameters owned by the
// surface (typically an index into a palette).
type StyleHandle int

// Entry is one input data point.
type Entry struct {
	ID              string
	Label           string
	Value           float64 // signed; the magnitude is charted
	AutoDescription bool    // label derived from the fraction instead of Label
	Style           StyleHandle
}

// Slice is the planned geometry of one entry. Slices are immutable once
// planned.
type Slice struct {
	Index int
	ID    string
	Label string

	Value    float64
	Fraction float64 // |Value| / Σ|Value|

	FromAngle   float64 // normalized to [0, 360)
	ToAngle     float64 // FromAngle + SweepAngle, may exceed 360
	MiddleAngle float64 // FromAngle + SweepAngle/2
	SweepAngle  float64

	Style           StyleHandle
	AutoDescription bool
}

// Description is the text drawn as the slice label.
func (s Slice) Description() string {
	if s.AutoDescription {
		return fmt.Sprintf("%.1f%%", s.Fraction*100)
	}
	return s.Label
}

// Contains reports whether angle (degrees, any range) falls in the
// half-open span [FromAngle, ToAngle). Empty slices contain nothing.
func (s Slice) Contains(angle float64) bool {
	if s.SweepAngle <= 0 {
		return false
	}
	return normalizeAngle(angle-s.FromAngle) < s.SweepAngle
}

// normalizeAngle maps a into [0, 360).
func normalizeAngle(a float64) float64 {
	m := math.Mod(a, 360)
	if m < 0 {
		m += 360
	}
	if m >= 360 {
		m = 0
	}
	return m
}

// locator resolves an angle to a slice index, checking the previously
// found slice before scanning. The memo needs no explicit invalidation: a
// stale index simply fails the containment test.
type locator struct {
	last int
}

func newLocator() locator { return locator{last: -1} }

func (l *locator) find(slices []Slice, angle float64) int {
	if l.last >= 0 && l.last < len(slices) && slices[l.last].Contains(angle) {
		return l.last
	}
	for i := range slices {
		if slices[i].Contains(angle) {
			l.last = i
			return i
		}
	}
	return -1
}

// sliceCache is the ordered set of slices considered fully drawn. It stores
// indices into the chart's slice list, never Slice copies.
type sliceCache struct {
	order []int
	has   []bool
}

func (c *sliceCache) reset(n int) {
	c.order = c.order[:0]
	c.has = make([]bool, n)
}

// add inserts i once; it reports whether i was new.
func (c *sliceCache) add(i int) bool {
	if i < 0 || i >= len(c.has) || c.has[i] {
		return false
	}
	c.has[i] = true
	c.order = append(c.order, i)
	return true
}

func (c *sliceCache) contains(i int) bool {
	return i >= 0 && i < len(c.has) && c.has[i]
}

func (c *sliceCache) len() int { return len(c.order) }

// fill rebuilds the cache as a full copy of n slices in order.
func (c *sliceCache) fill(n int) {
	c.reset(n)
	for i := 0; i < n; i++ {
		c.add(i)
	}
}
