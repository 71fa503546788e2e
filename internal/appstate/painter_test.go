package appstate

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

func TestPainterStopWaitsForFrame(t *testing.T) {
	started := make(chan struct{})
	var finished atomic.Bool
	p := startPainter(context.Background(), func(ctx context.Context, st paintState) {
		close(started)
		<-ctx.Done()
		time.Sleep(20 * time.Millisecond)
		finished.Store(true)
	})
	p.request(paintState{toast: "one"})
	<-started
	p.stop()
	if !finished.Load() {
		t.Fatalf("stop returned while a frame was still drawing")
	}
}

func TestPainterCancelsStaleFrame(t *testing.T) {
	started := make(chan string, 4)
	cancelled := make(chan string, 4)
	p := startPainter(context.Background(), func(ctx context.Context, st paintState) {
		started <- st.toast
		if st.toast == "first" {
			<-ctx.Done()
			cancelled <- st.toast
		}
	})
	p.request(paintState{toast: "first"})
	if got := <-started; got != "first" {
		t.Fatalf("first frame %q", got)
	}
	p.request(paintState{toast: "second"})
	if got := <-cancelled; got != "first" {
		t.Fatalf("cancelled %q, want first", got)
	}
	if got := <-started; got != "second" {
		t.Fatalf("next frame %q, want second", got)
	}
	p.stop()
}
