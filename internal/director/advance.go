package director

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/ivlev/chart2video/internal/effects"
	"github.com/ivlev/chart2video/internal/scene"
)

// Emitter receives snapshots in clock order. Emit may block to apply
// back-pressure.
type Emitter interface {
	Emit(ctx context.Context, snap scene.Snapshot) error
}

// EmitterFunc adapts a function to Emitter.
type EmitterFunc func(ctx context.Context, snap scene.Snapshot) error

func (f EmitterFunc) Emit(ctx context.Context, snap scene.Snapshot) error {
	return f(ctx, snap)
}

// Advance moves the clock forward by dt. See AdvanceTo.
func (d *Director) Advance(ctx context.Context, dt float64) ([]scene.Snapshot, error) {
	if dt < 0 {
		return nil, fmt.Errorf("advance by %v: %w", dt, ErrRewind)
	}
	return d.AdvanceTo(ctx, d.clock+dt)
}

// AdvanceTo moves the clock to t, starting and settling beats on the way.
// It returns one snapshot for every beat settled before t, taken right
// after the settle, and one at t. When several snapshots share a time the
// last settled one is kept. On error the snapshots produced so far are
// returned and the graph is at its last settled state.
func (d *Director) AdvanceTo(ctx context.Context, t float64) ([]scene.Snapshot, error) {
	if t < d.clock {
		return nil, fmt.Errorf("advance to %v from %v: %w", t, d.clock, ErrRewind)
	}
	var out []scene.Snapshot
	push := func(s scene.Snapshot, settled bool) {
		if n := len(out); n > 0 && out[n-1].Time == s.Time {
			if settled {
				out[n-1] = s
			}
			return
		}
		out = append(out, s)
	}

	for !d.Done() {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		b := d.beats[d.current]
		if b.state == Pending {
			if err := d.start(b); err != nil {
				return out, err
			}
		}
		if b.end > t {
			break
		}
		d.clock = b.end
		if err := d.settle(b); err != nil {
			return out, err
		}
		push(d.snapshot(d.clock), true)
	}

	if err := ctx.Err(); err != nil {
		return out, err
	}
	d.clock = t
	push(d.snapshot(t), false)
	return out, nil
}

// start binds every primitive of b against the committed graph. A failed
// bind fails the whole beat and leaves the clock where it was.
func (d *Director) start(b *beat) error {
	// An idle clock may have run past the last boundary.
	if d.clock > d.boundary {
		d.boundary = d.clock
		d.tick = int(math.Ceil(d.clock*d.rate - 1e-9))
	}
	if d.aligned {
		b.start = FrameTime(d.tick, d.rate)
		b.end = FrameTime(d.tick+b.ticks, d.rate)
	} else {
		b.start = d.boundary
		b.end = d.boundary + b.length
	}

	bindings := make([]*effects.Binding, 0, len(b.Primitives))
	for _, p := range b.Primitives {
		bnd, err := p.Bind(d.g)
		if err != nil {
			b.state = Failed
			b.err = &SequencingError{Beat: b.index, Err: fmt.Errorf("%w: %w", ErrBind, err)}
			d.current++
			return b.err
		}
		bindings = append(bindings, bnd)
	}
	b.bindings = bindings
	b.state = Running
	return nil
}

// settle commits b. Removals run after every other commit so a primitive
// on an object replaced in the same beat still finds it.
func (d *Director) settle(b *beat) error {
	order := make([]*effects.Binding, len(b.bindings))
	copy(order, b.bindings)
	sort.SliceStable(order, func(i, j int) bool {
		_, _, ri := order[i].Successor()
		_, _, rj := order[j].Successor()
		return !ri && rj
	})
	for _, bnd := range order {
		if err := bnd.Settle(d.g); err != nil {
			b.state = Failed
			b.err = &SequencingError{Beat: b.index, Err: err}
			d.current++
			return b.err
		}
		if from, to, ok := bnd.Successor(); ok {
			d.successors[from] = to
		}
	}
	b.state = Settled
	b.bindings = nil
	if d.aligned {
		d.tick += b.ticks
	}
	d.boundary = b.end
	d.current++
	return nil
}

// Snapshot resolves the graph at the current clock, including the overlays
// of the running beat.
func (d *Director) Snapshot() scene.Snapshot {
	return d.snapshot(d.clock)
}

func (d *Director) snapshot(at float64) scene.Snapshot {
	var overlays map[scene.ID][]scene.Overlay
	if !d.Done() {
		if b := d.beats[d.current]; b.state == Running {
			overlays = make(map[scene.ID][]scene.Overlay)
			for _, bnd := range b.bindings {
				p := bnd.Primitive()
				progress := effects.Progress(at, b.start, p.Duration)
				for id, ov := range bnd.Overlays(progress) {
					overlays[id] = append(overlays[id], ov)
				}
			}
		}
	}
	return d.g.Resolve(at, overlays)
}

// Run plays every submitted beat, emitting the t=0 snapshot and then one
// snapshot per sample period plus any settle snapshots in between. The
// timeline is finalized when the queue drains.
func (d *Director) Run(ctx context.Context, em Emitter) error {
	if err := d.Drain(ctx, em); err != nil {
		return err
	}
	d.Finalize()
	return nil
}

// Drain is Run without finalizing, so more beats can be submitted after
// it returns. Snapshots at or before the last emitted time are not emitted
// again.
func (d *Director) Drain(ctx context.Context, em Emitter) error {
	n := int(math.Floor(d.clock*d.rate + 1e-9))
	snaps, err := d.AdvanceTo(ctx, d.clock)
	for {
		for _, s := range snaps {
			if d.emitted && s.Time <= d.lastEmit {
				continue
			}
			if emitErr := em.Emit(ctx, s); emitErr != nil {
				return emitErr
			}
			d.emitted, d.lastEmit = true, s.Time
		}
		if err != nil {
			return err
		}
		if d.Done() {
			return nil
		}
		n++
		snaps, err = d.AdvanceTo(ctx, FrameTime(n, d.rate))
	}
}
