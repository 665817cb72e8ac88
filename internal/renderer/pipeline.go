package renderer

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/ivlev/chart2video/internal/scene"
)

// Pipeline renders snapshots on a bounded worker pool and writes the
// frames to a sink in the order they were emitted. It satisfies the
// director's emitter contract.
type Pipeline struct {
	r    Renderer
	sink Sink

	g       *errgroup.Group
	ctx     context.Context
	window  chan struct{}
	results chan *Frame
	renders sync.WaitGroup

	next    int
	written int

	closeOnce sync.Once
	closeErr  error
}

// NewPipeline starts the ordered writer. At most workers frames render
// at once and at most 2×workers frames are in flight; Emit blocks beyond
// that.
func NewPipeline(ctx context.Context, r Renderer, sink Sink, workers int) *Pipeline {
	if workers < 1 {
		workers = 1
	}
	g, gctx := errgroup.WithContext(ctx)
	// One slot is held by the writer for the pipeline's lifetime.
	g.SetLimit(workers + 1)

	p := &Pipeline{
		r:       r,
		sink:    sink,
		g:       g,
		ctx:     gctx,
		window:  make(chan struct{}, 2*workers),
		results: make(chan *Frame, workers),
	}
	g.Go(p.write)
	return p
}

// Emit queues snap for rendering. Once a render or write has failed every
// call returns that failure.
func (p *Pipeline) Emit(ctx context.Context, snap scene.Snapshot) error {
	if p.ctx.Err() != nil {
		return context.Cause(p.ctx)
	}
	select {
	case p.window <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	case <-p.ctx.Done():
		return context.Cause(p.ctx)
	}

	idx := p.next
	p.next++
	p.renders.Add(1)
	p.g.Go(func() error {
		defer p.renders.Done()
		f, err := p.r.Render(p.ctx, snap)
		if err != nil {
			return &RenderBoundaryError{Frame: idx, Err: err}
		}
		f.Index = idx
		select {
		case p.results <- f:
			return nil
		case <-p.ctx.Done():
			f.Release()
			return p.ctx.Err()
		}
	})
	return nil
}

func (p *Pipeline) write() error {
	pending := make(map[int]*Frame)
	defer func() {
		for _, f := range pending {
			f.Release()
		}
	}()

	next := 0
	for {
		select {
		case f, ok := <-p.results:
			if !ok {
				return nil
			}
			pending[f.Index] = f
			for {
				f, ok := pending[next]
				if !ok {
					break
				}
				delete(pending, next)
				err := p.sink.WriteFrame(p.ctx, f)
				f.Release()
				<-p.window
				if err != nil {
					return &RenderBoundaryError{Frame: f.Index, Err: err}
				}
				next++
				p.written++
			}
		case <-p.ctx.Done():
			return p.ctx.Err()
		}
	}
}

// Close waits for queued frames, closes the sink and returns the first
// error seen anywhere in the pipeline.
func (p *Pipeline) Close() error {
	p.closeOnce.Do(func() {
		p.renders.Wait()
		close(p.results)
		err := p.g.Wait()
		if cerr := p.sink.Close(); cerr != nil && err == nil {
			err = &RenderBoundaryError{Frame: -1, Err: fmt.Errorf("close sink: %w", cerr)}
		}
		p.closeErr = err
	})
	return p.closeErr
}

// Written is the number of frames the sink accepted. Read it after Close.
func (p *Pipeline) Written() int { return p.written }
