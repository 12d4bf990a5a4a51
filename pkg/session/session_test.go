package session

import (
	"context"
	"testing"
	"time"

	"github.com/matzehuels/piesweep/pkg/anim"
	"github.com/matzehuels/piesweep/pkg/config"
	"github.com/matzehuels/piesweep/pkg/errors"
	"github.com/matzehuels/piesweep/pkg/pie"
)

type nopSurface struct{ arcs int }

func (s *nopSurface) Translate(dx, dy float64)                            {}
func (s *nopSurface) DrawArc(pie.Rect, float64, float64, bool, pie.Paint) { s.arcs++ }
func (s *nopSurface) DrawText(string, float64, float64, pie.Paint)        {}

func testEntries() []pie.Entry {
	return []pie.Entry{
		{ID: "rent", Label: "rent", Value: 50, Style: 0},
		{ID: "food", Label: "food", Value: 30, Style: 1},
		{ID: "fun", Label: "fun", Value: 20, Style: 2},
	}
}

func testConfig() config.Config {
	cfg := config.Default()
	cfg.StartAngle = 0
	cfg.AnimatePie = false
	cfg.AnimateTouch = false
	cfg.AutoSize = false
	cfg.PieRadius = 100
	return cfg
}

func TestNew(t *testing.T) {
	sess, err := New(testEntries(), testConfig(), Options{})
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	if len(sess.ID) != 36 {
		t.Errorf("ID = %q, want a uuid", sess.ID)
	}
	if w, h := sess.Size(); w != DefaultWidth || h != DefaultHeight {
		t.Errorf("Size() = %v x %v, want defaults", w, h)
	}
	if sess.IsExpired() {
		t.Error("new session should not be expired")
	}

	other, _ := New(testEntries(), testConfig(), Options{})
	if other.ID == sess.ID {
		t.Error("sessions should get distinct IDs")
	}
}

func TestNewRejectsBadConfig(t *testing.T) {
	cfg := testConfig()
	cfg.SplitAngle = 200
	_, err := New(testEntries(), cfg, Options{})
	if !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("New error = %v, want INVALID_CONFIG", err)
	}
}

func TestSessionDrawAndTouch(t *testing.T) {
	sess, _ := New(testEntries(), testConfig(), Options{})

	surf := &nopSurface{}
	if err := sess.Draw(surf); err != nil {
		t.Fatalf("Draw error: %v", err)
	}
	if surf.arcs != 3 {
		t.Errorf("arcs = %d, want 3", surf.arcs)
	}

	// (250, 210) lies in the first slice: 50 units right of centre, just below.
	err := sess.Do(func(c *pie.Chart) error {
		c.PointerDown(250, 210)
		if !c.PointerUp(250, 210) {
			t.Error("PointerUp should be handled")
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	sess.Do(func(c *pie.Chart) error {
		s, ok := c.Floating()
		if !ok || s.ID != "rent" {
			t.Errorf("Floating() = %v, %v, want rent", s.ID, ok)
		}
		return nil
	})
	if sess.Frames() != 1 {
		t.Errorf("Frames() = %d, want 1", sess.Frames())
	}
}

func TestSessionPumpsTimeline(t *testing.T) {
	clock := anim.NewManualClock(time.Unix(0, 0))
	cfg := testConfig()
	cfg.AnimatePie = true
	cfg.Duration = config.Duration(time.Second)
	sess, _ := New(testEntries(), cfg, Options{Clock: clock})

	sess.Draw(&nopSurface{})
	clock.Advance(500 * time.Millisecond)
	sess.Do(func(c *pie.Chart) error {
		if got := c.SweepProgress(); got != 0.5 {
			t.Errorf("SweepProgress() = %v, want 0.5", got)
		}
		return nil
	})
	clock.Advance(time.Second)
	sess.Do(func(c *pie.Chart) error {
		if c.Sweeping() {
			t.Error("sweep should be complete")
		}
		return nil
	})
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	sess, _ := New(testEntries(), testConfig(), Options{})
	if err := store.Set(ctx, sess); err != nil {
		t.Fatal(err)
	}
	got, err := store.Get(ctx, sess.ID)
	if err != nil || got != sess {
		t.Errorf("Get = %v, %v, want stored session", got, err)
	}
	if store.Len() != 1 {
		t.Errorf("Len() = %d, want 1", store.Len())
	}

	if _, err := store.Get(ctx, "missing"); !errors.Is(err, errors.ErrCodeSessionNotFound) {
		t.Errorf("Get(missing) error = %v, want SESSION_NOT_FOUND", err)
	}

	if err := store.Delete(ctx, sess.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := store.Get(ctx, sess.ID); !errors.Is(err, errors.ErrCodeSessionNotFound) {
		t.Error("deleted session should be gone")
	}
}

func TestMemoryStoreExpiry(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	sess, _ := New(testEntries(), testConfig(), Options{TTL: time.Nanosecond})
	store.Set(ctx, sess)
	live, _ := New(testEntries(), testConfig(), Options{})
	store.Set(ctx, live)
	time.Sleep(2 * time.Millisecond)

	n, err := store.Cleanup(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("Cleanup() = %d, want 1", n)
	}
	if _, err := store.Get(ctx, sess.ID); !errors.Is(err, errors.ErrCodeSessionNotFound) {
		t.Error("expired session should be gone")
	}
	if _, err := store.Get(ctx, live.ID); err != nil {
		t.Errorf("live session lookup error: %v", err)
	}
}

func TestSnapshotRestore(t *testing.T) {
	ctx := context.Background()
	fs, err := NewSnapshotStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	opts := Options{Width: 300, Height: 200}
	first := NewMemoryStore(WithSnapshots(fs, opts))

	sess, _ := New(testEntries(), testConfig(), opts)
	if err := first.Set(ctx, sess); err != nil {
		t.Fatal(err)
	}

	// A second store sharing the directory rebuilds the session.
	second := NewMemoryStore(WithSnapshots(fs, Options{}))
	got, err := second.Get(ctx, sess.ID)
	if err != nil {
		t.Fatalf("restore error: %v", err)
	}
	if got.ID != sess.ID {
		t.Errorf("ID = %s, want %s", got.ID, sess.ID)
	}
	if w, h := got.Size(); w != 300 || h != 200 {
		t.Errorf("Size() = %v x %v, want 300 x 200", w, h)
	}
	if n := len(got.Entries()); n != 3 {
		t.Errorf("entries = %d, want 3", n)
	}

	if err := second.Delete(ctx, sess.ID); err != nil {
		t.Fatal(err)
	}
	if snap, _ := fs.Load(sess.ID); snap != nil {
		t.Error("Delete should remove the snapshot")
	}
}

func TestSnapshotStoreCleanup(t *testing.T) {
	fs, _ := NewSnapshotStore(t.TempDir())
	fs.Save(Snapshot{ID: "old", ExpiresAt: time.Now().Add(-time.Minute)})
	fs.Save(Snapshot{ID: "new", ExpiresAt: time.Now().Add(time.Minute)})

	n, err := fs.Cleanup()
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("Cleanup() = %d, want 1", n)
	}
	if snap, _ := fs.Load("new"); snap == nil {
		t.Error("live snapshot should remain")
	}
}
