package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

// Spinner is a progress indicator for long searches. It stops on its own
// when its context is cancelled.
type Spinner struct {
	w       io.Writer
	message string
	parent  context.Context
	ctx     context.Context
	cancel  context.CancelFunc
	done    chan struct{}
	stopped chan struct{}
	frames  []string
	once    sync.Once
	mu      sync.Mutex
}

// newSpinner creates a spinner drawing to w that stops when ctx is cancelled.
func newSpinner(ctx context.Context, w io.Writer, message string) *Spinner {
	spinnerCtx, cancel := context.WithCancel(ctx)
	return &Spinner{
		w:       w,
		message: message,
		parent:  ctx,
		ctx:     spinnerCtx,
		cancel:  cancel,
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
		frames:  []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"},
	}
}

// Start begins the spinner animation.
func (s *Spinner) Start() {
	go func() {
		defer close(s.stopped)
		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()

		for i := 0; ; i++ {
			select {
			case <-s.ctx.Done():
				s.clearLine()
				return
			case <-s.done:
				return
			case <-ticker.C:
				s.mu.Lock()
				fmt.Fprintf(s.w, "\r%s %s", styleIconSpinner.Render(s.frames[i%len(s.frames)]), StyleDim.Render(s.message))
				s.mu.Unlock()
			}
		}
	}()
}

// Stop stops the spinner and clears the line. It is safe to call more than once.
func (s *Spinner) Stop() {
	s.once.Do(func() {
		close(s.done)
		<-s.stopped
		s.cancel()
		s.clearLine()
	})
}

func (s *Spinner) clearLine() {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.w, "\r%s\r", strings.Repeat(" ", len(s.message)+4))
}

// Cancelled reports whether the context the spinner was created with was
// cancelled.
func (s *Spinner) Cancelled() bool {
	return s.parent.Err() != nil
}
