package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

// pieFrames fill a circle clockwise, one quarter at a time.
var pieFrames = []string{"○", "◔", "◑", "◕", "●"}

const spinnerInterval = 120 * time.Millisecond

// Spinner redraws a filling pie glyph next to a message until stopped or
// until its context is cancelled.
type Spinner struct {
	w       io.Writer
	message string
	parent  context.Context
	ctx     context.Context
	cancel  context.CancelFunc

	mu       sync.Mutex
	once     sync.Once
	started  bool
	stopped  chan struct{}
	rendered int
}

func newSpinner(parent context.Context, w io.Writer, message string) *Spinner {
	ctx, cancel := context.WithCancel(parent)
	return &Spinner{
		w:       w,
		message: message,
		parent:  parent,
		ctx:     ctx,
		cancel:  cancel,
		stopped: make(chan struct{}),
	}
}

// Start draws the first frame immediately and keeps animating in the
// background.
func (s *Spinner) Start() {
	s.mu.Lock()
	s.started = true
	s.mu.Unlock()
	s.frame(0)
	go func() {
		defer close(s.stopped)
		ticker := time.NewTicker(spinnerInterval)
		defer ticker.Stop()
		for i := 1; ; i++ {
			select {
			case <-s.ctx.Done():
				return
			case <-ticker.C:
				s.frame(i)
			}
		}
	}()
}

func (s *Spinner) frame(i int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.w, "\r%s %s", styleHighlight.Render(pieFrames[i%len(pieFrames)]), styleDim.Render(s.message))
	s.rendered++
}

// Stop halts the animation and clears the line. Calling it again is a no-op.
func (s *Spinner) Stop() {
	s.once.Do(func() {
		s.cancel()
		s.mu.Lock()
		started := s.started
		s.mu.Unlock()
		if !started {
			return
		}
		<-s.stopped
		s.mu.Lock()
		defer s.mu.Unlock()
		fmt.Fprintf(s.w, "\r%s\r", strings.Repeat(" ", len(s.message)+4))
	})
}

// Cancelled reports whether the parent context ended the spinner.
func (s *Spinner) Cancelled() bool {
	return s.parent.Err() != nil
}

// Frames returns how many frames were drawn.
func (s *Spinner) Frames() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rendered
}
