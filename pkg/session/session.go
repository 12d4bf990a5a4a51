// Package session keeps interactive chart sessions for the HTTP host.
//
// A session owns one [pie.Chart] together with the timeline driving its
// animations, the dataset and the configuration it was built from. Charts
// are not safe for concurrent use, so every access goes through
// [Session.Do], which serializes callers and pumps the timeline first:
//
//	sess, err := session.New(entries, cfg, session.Options{Width: 400, Height: 400})
//	if err != nil {
//	    return err
//	}
//	store.Set(ctx, sess)
//
//	err = sess.Do(func(c *pie.Chart) error {
//	    c.PointerDown(x, y)
//	    c.PointerUp(x, y)
//	    return nil
//	})
//
// Sessions expire after their TTL; every successful lookup extends it.
package session

import (
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/piesweep/pkg/anim"
	"github.com/matzehuels/piesweep/pkg/config"
	"github.com/matzehuels/piesweep/pkg/pie"
)

// Default values.
const (
	DefaultTTL    = 30 * time.Minute
	DefaultWidth  = 400.0
	DefaultHeight = 400.0
)

// Options controls how a session's chart is built.
type Options struct {
	Width, Height float64
	Padding       pie.Padding
	TTL           time.Duration
	Clock         anim.Clock       // nil means the wall clock
	Measurer      pie.TextMeasurer // nil leaves label widths at zero
	Logger        *log.Logger      // nil discards
}

func (o *Options) defaults() {
	if o.Width <= 0 {
		o.Width = DefaultWidth
	}
	if o.Height <= 0 {
		o.Height = DefaultHeight
	}
	if o.TTL <= 0 {
		o.TTL = DefaultTTL
	}
}

// Session is one interactive chart.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu        sync.Mutex
	expiresAt time.Time
	ttl       time.Duration
	opts      Options
	entries   []pie.Entry
	cfg       config.Config
	chart     *pie.Chart
	timeline  *anim.Timeline
	frames    int
}

// New builds and prepares a chart for entries under a fresh uuid.
func New(entries []pie.Entry, cfg config.Config, opts Options) (*Session, error) {
	return restore(uuid.NewString(), entries, cfg, opts)
}

func restore(id string, entries []pie.Entry, cfg config.Config, opts Options) (*Session, error) {
	opts.defaults()
	tl := anim.NewTimeline(opts.Clock)

	chartOpts := []pie.Option{pie.WithConfig(cfg), pie.WithClock(tl)}
	if opts.Measurer != nil {
		chartOpts = append(chartOpts, pie.WithMeasurer(opts.Measurer))
	}
	if opts.Logger != nil {
		chartOpts = append(chartOpts, pie.WithLogger(opts.Logger.With("session", id)))
	}
	chart := pie.New(chartOpts...)
	chart.SetData(entries)
	chart.SetSize(opts.Width, opts.Height, opts.Padding)
	if err := chart.Prepare(); err != nil {
		return nil, err
	}

	now := time.Now()
	return &Session{
		ID:        id,
		CreatedAt: now,
		expiresAt: now.Add(opts.TTL),
		ttl:       opts.TTL,
		opts:      opts,
		entries:   entries,
		cfg:       cfg,
		chart:     chart,
		timeline:  tl,
	}, nil
}

// Do runs fn with exclusive access to the chart after delivering pending
// animation ticks.
func (s *Session) Do(fn func(c *pie.Chart) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.timeline.Pump()
	return fn(s.chart)
}

// Draw pumps the timeline and draws one frame onto surf.
func (s *Session) Draw(surf pie.Surface) error {
	return s.Do(func(c *pie.Chart) error {
		s.frames++
		return c.Draw(surf)
	})
}

// Frames returns how many frames were drawn.
func (s *Session) Frames() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frames
}

// Size returns the canvas size.
func (s *Session) Size() (width, height float64) { return s.opts.Width, s.opts.Height }

// Config returns the chart configuration.
func (s *Session) Config() config.Config { return s.cfg }

// Entries returns the dataset the chart was built from.
func (s *Session) Entries() []pie.Entry { return s.entries }

// ExpiresAt returns the current expiry time.
func (s *Session) ExpiresAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.expiresAt
}

// IsExpired returns true if the session has expired.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt())
}

// touch extends the expiry by the session TTL.
func (s *Session) touch() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expiresAt = time.Now().Add(s.ttl)
}

// close cancels the chart's animations.
func (s *Session) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chart.Reset()
}
