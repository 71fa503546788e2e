package appstate

import (
	"context"
	"sync"
)

// painter draws frames on its own goroutine. A new request cancels the frame
// in progress unless frameDropThreshold frames in a row were already dropped.
type painter struct {
	ctx  context.Context
	draw func(context.Context, paintState)
	ch   chan paintState
	done chan struct{}

	mu     sync.Mutex
	cancel context.CancelFunc
	drops  int
}

func startPainter(ctx context.Context, draw func(context.Context, paintState)) *painter {
	p := &painter{
		ctx:  ctx,
		draw: draw,
		ch:   make(chan paintState, 1),
		done: make(chan struct{}),
	}
	go p.loop()
	return p
}

func (p *painter) loop() {
	defer close(p.done)
	for st := range p.ch {
		pctx, pcancel := context.WithCancel(p.ctx)
		p.mu.Lock()
		p.cancel = pcancel
		p.mu.Unlock()
		p.draw(pctx, st)
		p.mu.Lock()
		p.cancel = nil
		if pctx.Err() == nil {
			p.drops = 0
		}
		p.mu.Unlock()
		pcancel()
	}
}

// request queues st, replacing any frame that has not started yet.
func (p *painter) request(st paintState) {
	p.mu.Lock()
	if p.cancel != nil && p.drops < frameDropThreshold {
		p.cancel()
		p.drops++
	}
	p.mu.Unlock()
	select {
	case <-p.ch:
	default:
	}
	p.ch <- st
}

// abort cancels the frame being drawn, if any.
func (p *painter) abort() {
	p.mu.Lock()
	if p.cancel != nil {
		p.cancel()
	}
	p.mu.Unlock()
}

// stop cancels the current frame and returns once the goroutine has exited.
// No draw runs after stop returns.
func (p *painter) stop() {
	p.abort()
	close(p.ch)
	<-p.done
}
