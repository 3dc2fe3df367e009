package cli

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"
)

// syncBuffer guards a buffer the spinner goroutine writes to.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestSpinnerDraws(t *testing.T) {
	var out syncBuffer
	s := newSpinner(context.Background(), &out, "Searching...")
	s.Start()
	time.Sleep(200 * time.Millisecond)
	s.Stop()

	if !strings.Contains(out.String(), "Searching...") {
		t.Errorf("spinner output %q missing message", out.String())
	}
	if s.Cancelled() {
		t.Error("Cancelled() = true after Stop without cancellation")
	}
}

func TestSpinnerWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	s := newSpinner(ctx, &syncBuffer{}, "Testing with context...")
	s.Start()
	cancel()
	time.Sleep(100 * time.Millisecond)

	if !s.Cancelled() {
		t.Error("Spinner should be cancelled after context cancellation")
	}
	s.Stop()
}

func TestSpinnerWithTimeout(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	s := newSpinner(ctx, &syncBuffer{}, "Testing with timeout...")
	s.Start()
	time.Sleep(100 * time.Millisecond)

	if !s.Cancelled() {
		t.Error("Spinner should be cancelled after context timeout")
	}
	s.Stop()
}

func TestSpinnerStopIsIdempotent(t *testing.T) {
	s := newSpinner(context.Background(), &syncBuffer{}, "Testing idempotent stop...")
	s.Start()

	s.Stop()
	s.Stop()
	s.Stop()
}
