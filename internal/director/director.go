package director

import (
	"fmt"
	"math"

	"github.com/ivlev/chart2video/internal/effects"
	"github.com/ivlev/chart2video/internal/scene"
)

// DefaultRate is the sample rate used when none is configured.
const DefaultRate = 30.0

type beat struct {
	Beat
	index int
	state BeatState
	err   error

	// ticks is the aligned length; length is used when alignment is off.
	ticks  int
	length float64

	start, end float64
	bindings   []*effects.Binding
}

// Director owns the beat queue and the virtual clock of one timeline. It is
// not safe for concurrent use.
type Director struct {
	g       *scene.Graph
	rate    float64
	aligned bool
	easing  string

	beats []*beat
	// current is the index of the first beat that has not settled or failed.
	current   int
	clock     float64
	boundary  float64
	tick      int
	finalized bool

	// emitted and lastEmit track what Drain has handed out.
	emitted  bool
	lastEmit float64

	successors map[scene.ID]scene.ID
}

type Option func(*Director)

// WithRate sets the number of samples per second of clock time.
func WithRate(rate float64) Option {
	return func(d *Director) { d.rate = rate }
}

// WithFrameAlignment pads every beat up to the next sample instant so
// settles land on the sample grid. Primitive durations are kept exact. On by
// default.
func WithFrameAlignment(on bool) Option {
	return func(d *Director) { d.aligned = on }
}

// WithEasing sets the curve used by primitives that name none.
func WithEasing(name string) Option {
	return func(d *Director) { d.easing = name }
}

// New creates a director over g with a zeroed clock.
func New(g *scene.Graph, opts ...Option) (*Director, error) {
	d := &Director{
		g:          g,
		rate:       DefaultRate,
		aligned:    true,
		easing:     effects.EaseSmooth,
		successors: make(map[scene.ID]scene.ID),
	}
	for _, opt := range opts {
		opt(d)
	}
	if !(d.rate > 0) || math.IsInf(d.rate, 0) {
		return nil, fmt.Errorf("director: sample rate %v must be positive", d.rate)
	}
	if _, err := effects.LookupEasing(d.easing); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *Director) Graph() *scene.Graph { return d.g }
func (d *Director) Rate() float64       { return d.rate }

// Clock is the current virtual time in seconds.
func (d *Director) Clock() float64 { return d.clock }

// Submit appends b to the queue after validating it.
func (d *Director) Submit(b Beat) error {
	idx := len(d.beats)
	if d.finalized {
		return &SequencingError{Beat: idx, Err: ErrFinalized}
	}
	if len(b.Primitives) == 0 && !(b.Wait > 0) {
		return &SequencingError{Beat: idx, Err: ErrEmptyBeat}
	}
	if math.IsInf(b.Wait, 0) || b.Wait < 0 {
		return &SequencingError{Beat: idx, Err: fmt.Errorf("wait %v: %w", b.Wait, ErrEmptyBeat)}
	}

	nb := &beat{index: idx}
	nb.Label = b.Label
	nb.Wait = b.Wait
	nb.Primitives = make([]effects.Primitive, len(b.Primitives))
	for i, p := range b.Primitives {
		if p.Easing == "" {
			p.Easing = d.easing
		}
		if err := p.Validate(); err != nil {
			return &SequencingError{Beat: idx, Err: err}
		}
		nb.Primitives[i] = p
	}
	if err := d.checkConflicts(nb.Primitives); err != nil {
		return &SequencingError{Beat: idx, Err: err}
	}

	nb.length = b.Wait
	for _, p := range nb.Primitives {
		nb.length = math.Max(nb.length, p.Duration)
	}
	if d.aligned {
		nb.ticks = Ticks(nb.length, d.rate)
		nb.length = FrameTime(nb.ticks, d.rate)
	}
	d.beats = append(d.beats, nb)
	return nil
}

// checkConflicts rejects two writes of one property to the same object, or
// to an object and a group containing it.
func (d *Director) checkConflicts(prims []effects.Primitive) error {
	type write struct {
		effects.Access
		prim int
	}
	var seen []write
	for i, p := range prims {
		for _, w := range p.Writes() {
			for _, s := range seen {
				if s.prim == i || s.Property != w.Property {
					continue
				}
				if s.Target == w.Target || d.g.Contains(s.Target, w.Target) || d.g.Contains(w.Target, s.Target) {
					return fmt.Errorf("%s of %s written by %s and %s: %w",
						w.Property, w.Target, prims[s.prim].Kind, p.Kind, ErrConflict)
				}
			}
		}
		for _, w := range p.Writes() {
			seen = append(seen, write{Access: w, prim: i})
		}
	}
	return nil
}

// Play submits one beat of concurrent primitives.
func (d *Director) Play(prims ...effects.Primitive) error {
	return d.Submit(Beat{Primitives: prims})
}

// Wait submits a beat that only advances the clock.
func (d *Director) Wait(seconds float64) error {
	return d.Submit(Beat{Wait: seconds})
}

// Finalize closes the timeline to further submissions.
func (d *Director) Finalize() { d.finalized = true }

func (d *Director) Finalized() bool { return d.finalized }

// Len is the number of submitted beats.
func (d *Director) Len() int { return len(d.beats) }

// Done reports whether every submitted beat has settled or failed.
func (d *Director) Done() bool { return d.current >= len(d.beats) }

// State returns the lifecycle state of beat i and, for failed beats, the
// failure.
func (d *Director) State(i int) (BeatState, error) {
	if i < 0 || i >= len(d.beats) {
		return Pending, fmt.Errorf("director: no beat %d", i)
	}
	b := d.beats[i]
	return b.state, b.err
}

// Duration is the planned length of the timeline. Failed beats take no
// time.
func (d *Director) Duration() float64 {
	if d.aligned {
		n := 0
		for _, b := range d.beats {
			if b.state != Failed {
				n += b.ticks
			}
		}
		return FrameTime(n, d.rate)
	}
	total := 0.0
	for _, b := range d.beats {
		if b.state != Failed {
			total += b.length
		}
	}
	return total
}

// Successor follows ReplacementTransform migrations from id to the object
// that currently stands in for it. Ids never replaced map to themselves.
func (d *Director) Successor(id scene.ID) scene.ID {
	for i := 0; i <= len(d.successors); i++ {
		next, ok := d.successors[id]
		if !ok {
			break
		}
		id = next
	}
	return id
}

// Plan reports the schedule with the state of every beat.
func (d *Director) Plan() *Plan {
	p := &Plan{Version: "1.0", Rate: d.rate, Aligned: d.aligned, Duration: d.Duration()}
	at, tick := d.boundary, d.tick
	for i, b := range d.beats {
		pb := PlannedBeat{Index: i, Label: b.Label, State: b.state, Beat: b.Beat, Duration: b.length}
		switch {
		case i < d.current:
			pb.Start = b.start
		default:
			if d.aligned {
				pb.Start = FrameTime(tick, d.rate)
				tick += b.ticks
			} else {
				pb.Start = at
				at += b.length
			}
		}
		if b.state == Failed {
			pb.Duration = 0
		}
		if b.err != nil {
			pb.Error = b.err.Error()
		}
		p.Beats = append(p.Beats, pb)
	}
	return p
}
